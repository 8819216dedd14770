package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuestionVersion is one question's content within one PaperSession.
//
// SourceQuestionNo is assigned by the source paper, not by us. It is NOT
// unique: the same number can appear twice within a session (duplicate
// extraction) and always repeats across sessions. The store surfaces
// duplicates instead of assuming them away.
type QuestionVersion struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	PaperSessionID   uuid.UUID `gorm:"type:uuid;not null;index;index:idx_question_version_session_no,priority:1" json:"paper_session_id"`
	SourceQuestionNo string    `gorm:"type:text;not null;default:'';index:idx_question_version_session_no,priority:2" json:"source_question_no"`

	// Body is {"text": "..."} plus whatever the extractor attached.
	Body datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"body"`

	Subject    string `gorm:"type:text;not null;default:''" json:"subject"`
	Topic      string `gorm:"type:text;not null;default:''" json:"topic"`
	Difficulty string `gorm:"type:text;not null;default:''" json:"difficulty"`

	Reviewed bool `gorm:"not null;default:false" json:"reviewed"`
	Keep     bool `gorm:"not null;default:true" json:"keep"`

	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (QuestionVersion) TableName() string { return "question_version" }
