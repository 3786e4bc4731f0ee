package store

import (
	"lingo-hub/internal/types"

	"github.com/sirupsen/logrus"
)

// NewStore selects the store backend from configuration: Redis when a DSN
// is configured, the in-memory store otherwise.
func NewStore(configManager types.ConfigManager) (Store, error) {
	dsn := configManager.GetRedisDSN()
	if dsn == "" {
		logrus.Info("No REDIS_DSN configured, using in-memory store")
		return NewMemoryStore(), nil
	}

	redisStore, err := NewRedisStore(dsn)
	if err != nil {
		return nil, err
	}
	logrus.Info("Connected to redis store")
	return redisStore, nil
}
