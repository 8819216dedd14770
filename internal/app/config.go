package app

import (
	"fmt"
	"time"

	"github.com/yoloprep/qbank-backend/internal/pkg/logger"
	"github.com/yoloprep/qbank-backend/internal/utils"
)

// Config is the explicit configuration object handed to the store, clients
// and services at construction. Nothing reads the environment after load.
type Config struct {
	LogMode string

	DBDriver   string // "postgres" or "sqlite"
	SQLitePath string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresName     string

	TranslateBaseURL string
	TranslateAPIKey  string
	TranslateTimeout time.Duration
	TranslateWorkers int
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		LogMode: utils.GetEnv("LOG_MODE", "development", log),

		DBDriver:   utils.GetEnv("DB_DRIVER", "postgres", log),
		SQLitePath: utils.GetEnv("SQLITE_PATH", "qbank.db", log),

		PostgresHost:     utils.GetEnv("POSTGRES_HOST", "localhost", log),
		PostgresPort:     utils.GetEnv("POSTGRES_PORT", "5432", log),
		PostgresUser:     utils.GetEnv("POSTGRES_USER", "postgres", log),
		PostgresPassword: utils.GetEnv("POSTGRES_PASSWORD", "", log),
		PostgresName:     utils.GetEnv("POSTGRES_NAME", "qbank", log),

		TranslateBaseURL: utils.GetEnv("TRANSLATE_BASE_URL", "", log),
		TranslateAPIKey:  utils.GetEnv("TRANSLATE_API_KEY", "", log),
		TranslateTimeout: time.Duration(utils.GetEnvAsInt("TRANSLATE_TIMEOUT", 30, log)) * time.Second,
		TranslateWorkers: utils.GetEnvAsInt("TRANSLATE_WORKERS", 4, log),
	}
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresName,
	)
}
