package providers

import (
	"fmt"
	"ghstats/internal/structures"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	setDefaults(v)

	v.BindEnv("github.token", "GITHUB_TOKEN")
	v.BindEnv("logger.level", "GHSTATS_LOG_LEVEL")
	v.BindEnv("webServer.port", "GHSTATS_PORT")
	v.BindEnv("snapshotCache.driver", "GHSTATS_CACHE_DRIVER")
	v.BindEnv("snapshotCache.redisUrl", "GHSTATS_REDIS_URL")
	v.BindEnv("snapshotCache.ttl", "GHSTATS_SNAPSHOT_TTL")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "GithubStatsDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "0.0.0.0")
	v.SetDefault("webServer.port", 8000)
	v.SetDefault("github.restUrl", "https://api.github.com")
	v.SetDefault("github.graphqlUrl", "https://api.github.com/graphql")
	v.SetDefault("github.timeout", 15*time.Second)
	v.SetDefault("github.requestsPerSecond", 10)
	v.SetDefault("aggregation.workers", 5)
	v.SetDefault("aggregation.fetchTimeout", 20*time.Second)
	v.SetDefault("aggregation.timezone", "UTC")
	v.SetDefault("snapshotCache.driver", "file")
	v.SetDefault("snapshotCache.dir", "cache")
	v.SetDefault("snapshotCache.ttl", 12*time.Hour)
	v.SetDefault("snapshotCache.compress", true)
	v.SetDefault("snapshotCache.sweepInterval", time.Hour)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", "logs")
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cors.allowedOrigins", []string{"*"})
	v.SetDefault("cors.maxAge", 24*time.Hour)
}
