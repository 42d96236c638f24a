package internal

import (
	"ghstats/internal/datasource"
	"ghstats/internal/providers"
	"ghstats/internal/services"
	"ghstats/internal/statistic/interfaces"
)

// Console bundles what the one-shot CLI commands need without starting the server.
type Console struct {
	Stats      services.StatsServiceInterface
	Source     datasource.ActivityDataSource
	Logger     providers.Logger
	store      interfaces.BlobStore
	compressor interfaces.CompressorInterface
}

func NewConsole(stats services.StatsServiceInterface, source datasource.ActivityDataSource, logger providers.Logger, store interfaces.BlobStore, compressor interfaces.CompressorInterface) *Console {
	return &Console{
		Stats:      stats,
		Source:     source,
		Logger:     logger,
		store:      store,
		compressor: compressor,
	}
}

func (c *Console) Close() {
	if err := c.store.Close(); err != nil {
		c.Logger.Warnf(providers.TypeApp, "Failed to close %s snapshot store: %s", c.store.Name(), err)
	}
	c.compressor.Close()
	c.Logger.Close()
}
