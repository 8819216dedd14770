package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaperSession is one administration of one exam in one language edition.
// A session is immutable once linked sessions reference it.
type PaperSession struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	ExamRef  string `gorm:"type:text;not null;index" json:"exam_ref"`
	Language string `gorm:"type:text;not null;index" json:"language"`
	Caption  string `gorm:"type:text;not null;default:''" json:"caption"`

	HeldOn *time.Time `gorm:"type:date" json:"held_on,omitempty"`
	Shift  string     `gorm:"type:text;not null;default:''" json:"shift"`

	// Meta carries operator review flags (questions_checked, answers_checked)
	// and the reference PDF link.
	Meta datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"meta"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (PaperSession) TableName() string { return "paper_session" }
