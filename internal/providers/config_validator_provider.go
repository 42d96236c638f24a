package providers

import (
	"errors"
	"ghstats/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}

	if cv.conf.SnapshotCache.Driver == "redis" && cv.conf.SnapshotCache.RedisURL == "" {
		return errors.New("snapshotCache.redisUrl is required for the redis driver")
	}
	if cv.conf.Cache.Enabled && cv.conf.Cache.TTL > cv.conf.SnapshotCache.TTL {
		return errors.New("cache.ttl must not exceed snapshotCache.ttl")
	}
	return nil
}
