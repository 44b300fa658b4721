package data

import (
	"fmt"

	"github.com/lk2023060901/workspace-backend/internal/conf"
	"github.com/lk2023060901/workspace-backend/internal/pkg/database"
	"github.com/lk2023060901/workspace-backend/internal/pkg/logger"
	"github.com/lk2023060901/workspace-backend/internal/pkg/redis"
	"go.uber.org/zap"
)

// Data holds the optional external resources. A nil field means the backend
// is disabled in config.
type Data struct {
	DB     *database.DB
	Redis  *redis.Client
	Logger *logger.Logger
}

// NewData opens the enabled backends and returns a cleanup that closes them.
func NewData(config *conf.Config, log *logger.Logger) (*Data, func(), error) {
	d := &Data{Logger: log}

	if config.Redis.Enabled {
		rc := config.Redis.Config
		client, err := redis.New(&rc, log.Named("redis"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		d.Redis = client
	}

	if config.Database.Enabled {
		dc := config.Database.Config
		db, err := database.New(&dc, log.Named("database"))
		if err != nil {
			if d.Redis != nil {
				_ = d.Redis.Close()
			}
			return nil, nil, fmt.Errorf("failed to init database: %w", err)
		}
		d.DB = db
	}

	cleanup := func() {
		log.Info("cleaning up data resources")
		if d.Redis != nil {
			if err := d.Redis.Close(); err != nil {
				log.Warn("close redis failed", zap.Error(err))
			}
		}
		if d.DB != nil {
			if err := d.DB.Close(); err != nil {
				log.Warn("close database failed", zap.Error(err))
			}
		}
	}

	return d, cleanup, nil
}
