package app

import (
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/regtech-horizon/regtech-backend/internal/domain"
	"github.com/regtech-horizon/regtech-backend/internal/messaging/kafka"
	"github.com/regtech-horizon/regtech-backend/internal/shared/connection"
)

// BuildApp connects the infrastructure, migrates the schema and mounts every
// module on the router.
func BuildApp(router *gin.Engine) error {
	logger := zap.L()

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	if err := domain.Migrate(gormDB); err != nil {
		return err
	}
	if err := gormDB.AutoMigrate(&kafka.OutboxEvent{}); err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	return registerModules(router, gormDB, redisClient, logger)
}
