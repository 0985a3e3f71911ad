package setup

import (
	"context"
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"linsac/internal/cache"
	"linsac/internal/database"
	"linsac/internal/fitting"
	"linsac/internal/logging"
	"linsac/internal/srvenv"
)

type FittingConfigProvider interface {
	FittingConfig() *fitting.Config
}

type DatabaseConfigProvider interface {
	DatabaseConfig() *database.Config
}

type CacheConfigProvider interface {
	CacheConfig() *cache.Config
}

func Setup(ctx context.Context, config interface{}) (*srvenv.SrvEnv, error) {
	logger := logging.FromContext(ctx)
	var serverEnvOpts []srvenv.Option
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	if dbConfigProvider, ok := config.(DatabaseConfigProvider); ok {
		logger.Info("Configuring db")
		dbFromEnv, err := database.NewFromEnv(ctx, dbConfigProvider.DatabaseConfig())
		if err != nil {
			return nil, fmt.Errorf("unable to connect to database: %v", err)
		}
		serverEnvOpts = append(serverEnvOpts, srvenv.WithDatabase(dbFromEnv))
	}

	if cacheConfigProvider, ok := config.(CacheConfigProvider); ok {
		if cfg := cacheConfigProvider.CacheConfig(); cfg.Addr != "" {
			logger.Infof("Configuring fit cache at %s", cfg.Addr)
			serverEnvOpts = append(serverEnvOpts, srvenv.WithCache(cache.New(cfg)))
		}
	}

	return srvenv.New(serverEnvOpts...), nil
}
