package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yoloprep/qbank-backend/internal/app"
	"github.com/yoloprep/qbank-backend/internal/clients/translate"
	appdb "github.com/yoloprep/qbank-backend/internal/data/db"
	"github.com/yoloprep/qbank-backend/internal/data/repos/qbank"
	"github.com/yoloprep/qbank-backend/internal/pkg/logger"
	"github.com/yoloprep/qbank-backend/internal/services"
)

// commandContext wires config, store, repos and services on first use so
// `qbankctl --help` never touches the database.
type commandContext struct {
	once sync.Once
	err  error

	log      *logger.Logger
	cfg      app.Config
	db       *gorm.DB
	sessions qbank.PaperSessionRepo
	versions qbank.QuestionVersionRepo
	links    qbank.QuestionLinkRepo
	assets   qbank.AssetRepo

	linker  services.LinkerService
	content services.ContentService
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensure() error {
	c.once.Do(func() {
		log, err := logger.New(getLogMode())
		if err != nil {
			c.err = fmt.Errorf("init logger: %w", err)
			return
		}
		c.log = log
		c.cfg = app.LoadConfig(log)

		database, err := appdb.NewDatabaseService(c.cfg, log)
		if err != nil {
			c.err = err
			return
		}
		if err := database.AutoMigrateAll(); err != nil {
			c.err = fmt.Errorf("migrate: %w", err)
			return
		}
		gdb := database.DB()
		c.db = gdb

		c.sessions = qbank.NewPaperSessionRepo(gdb, log)
		c.versions = qbank.NewQuestionVersionRepo(gdb, log)
		c.links = qbank.NewQuestionLinkRepo(gdb, log)
		c.assets = qbank.NewAssetRepo(gdb, log)

		c.linker = services.NewLinkerService(gdb, log, c.sessions, c.versions, c.links)
		c.content = services.NewContentService(gdb, log, c.sessions, c.versions, c.assets)
	})
	return c.err
}

// translator is separate from ensure: only the translate command needs a
// configured translation backend.
func (c *commandContext) translator() (services.TranslationService, error) {
	if err := c.ensure(); err != nil {
		return nil, err
	}
	client, err := translate.NewClient(c.cfg, c.log)
	if err != nil {
		return nil, err
	}
	return services.NewTranslationService(
		c.db, c.log, c.sessions, c.versions, client, c.cfg.TranslateWorkers,
	), nil
}

func (c *commandContext) close() {
	if c.log != nil {
		c.log.Sync()
	}
}

func getLogMode() string {
	if mode := os.Getenv("LOG_MODE"); mode != "" {
		return mode
	}
	return "development"
}

func parseSessionID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%q is not a session id: %w", arg, err)
	}
	return id, nil
}
