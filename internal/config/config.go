package config

import (
	"linsac/internal/cache"
	"linsac/internal/database"
	"linsac/internal/fitting"
	"linsac/internal/setup"
)

var (
	_ setup.FittingConfigProvider  = (*Config)(nil)
	_ setup.DatabaseConfigProvider = (*Config)(nil)
	_ setup.CacheConfigProvider    = (*Config)(nil)
)

type Config struct {
	SrvAddr   string `envconfig:"LINSAC_ADDR" default:":8787"`
	DebugAddr string `envconfig:"LINSAC_DEBUG_ADDR" default:"0.0.0.0:8080"`
	Fitting   fitting.Config
	Database  database.Config
	Cache     cache.Config
}

func (c *Config) FittingConfig() *fitting.Config {
	return &c.Fitting
}

func (c *Config) DatabaseConfig() *database.Config {
	return &c.Database
}

func (c *Config) CacheConfig() *cache.Config {
	return &c.Cache
}
