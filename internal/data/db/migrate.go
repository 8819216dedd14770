package db

import (
	"gorm.io/gorm"

	types "github.com/yoloprep/qbank-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&types.PaperSession{},
		&types.QuestionVersion{},
		&types.QuestionLink{},
		&types.Asset{},
	); err != nil {
		return err
	}

	// One active link per source question version. A partial index is the
	// only way to scope uniqueness to status='matched' while keeping the
	// superseded history rows; AutoMigrate cannot express it, so raw SQL.
	// The predicate syntax is shared by postgres and sqlite.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_question_link_active_source
		 ON question_link (source_session_id, source_version_id)
		 WHERE status = 'matched'`,
	).Error
}
