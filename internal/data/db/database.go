package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yoloprep/qbank-backend/internal/app"
	"github.com/yoloprep/qbank-backend/internal/pkg/logger"
)

type DatabaseService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewDatabaseService opens the relational store described by cfg. Postgres is
// the production driver; sqlite exists for local work and tests.
func NewDatabaseService(cfg app.Config, logg *logger.Logger) (*DatabaseService, error) {
	serviceLog := logg.With("service", "DatabaseService")

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gcfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormLog,
	}

	var (
		gdb *gorm.DB
		err error
	)
	switch cfg.DBDriver {
	case "sqlite":
		gdb, err = gorm.Open(sqlite.Open(cfg.SQLitePath), gcfg)
	default:
		gdb, err = gorm.Open(postgres.Open(cfg.PostgresDSN()), gcfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.DBDriver, err)
	}

	return &DatabaseService{db: gdb, log: serviceLog}, nil
}

func (s *DatabaseService) DB() *gorm.DB { return s.db }

func (s *DatabaseService) AutoMigrateAll() error {
	return AutoMigrateAll(s.db)
}
