package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type GithubConfig struct {
	Token             string        `yaml:"token"`
	RestURL           string        `yaml:"restUrl" validate:"required|fullUrl"`
	GraphQLURL        string        `yaml:"graphqlUrl" validate:"required|fullUrl"`
	Timeout           time.Duration `yaml:"timeout" validate:"required|min:1"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
}

type AggregationConfig struct {
	Workers      int           `yaml:"workers" validate:"required|min:1|max:32"`
	FetchTimeout time.Duration `yaml:"fetchTimeout" validate:"required|min:1"`
	Timezone     string        `yaml:"timezone"`
}

type SnapshotCacheConfig struct {
	Driver        string        `yaml:"driver" validate:"required|in:file,redis"`
	Dir           string        `yaml:"dir" validate:"required|unixPath"`
	TTL           time.Duration `yaml:"ttl" validate:"required|min:1"`
	Compress      bool          `yaml:"compress"`
	RedisURL      string        `yaml:"redisUrl"`
	SweepInterval time.Duration `yaml:"sweepInterval"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type CorsConfig struct {
	AllowedOrigins []string      `yaml:"allowedOrigins"`
	MaxAge         time.Duration `yaml:"maxAge"`
}

type Config struct {
	AppName       string
	Debug         bool
	Path          string
	WebServer     Server              `yaml:"webServer"`
	Github        GithubConfig        `yaml:"github"`
	Aggregation   AggregationConfig   `yaml:"aggregation"`
	SnapshotCache SnapshotCacheConfig `yaml:"snapshotCache"`
	Logger        LoggerConfig        `yaml:"logger"`
	Cache         CacheConfig         `yaml:"cache"`
	Metrics       MetricsConfig       `yaml:"metrics"`
	Cors          CorsConfig          `yaml:"cors"`
}

// Location resolves Aggregation.Timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	if c.Aggregation.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Aggregation.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
