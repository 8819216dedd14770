package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	// LinkStatusMatched is the initial, active status of a link.
	LinkStatusMatched = "matched"
	// LinkStatusSuperseded is terminal: a newer matching pass for the same
	// session pair replaced this link. Kept for audit, never reactivated.
	LinkStatusSuperseded = "superseded"
)

// QuestionLink is a directed correspondence between a question version in a
// source-edition session and one in a target-edition session.
//
// At most one link per (source_session_id, source_version_id) may be in
// status "matched" at a time; the partial unique index created in migration
// enforces this at write time.
type QuestionLink struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	SourceSessionID uuid.UUID `gorm:"type:uuid;not null;index:idx_question_link_pair,priority:1" json:"source_session_id"`
	TargetSessionID uuid.UUID `gorm:"type:uuid;not null;index:idx_question_link_pair,priority:2" json:"target_session_id"`

	SourceVersionID uuid.UUID `gorm:"type:uuid;not null;index" json:"source_version_id"`
	TargetVersionID uuid.UUID `gorm:"type:uuid;not null;index" json:"target_version_id"`

	Status string `gorm:"type:text;not null;default:'matched';index" json:"status"`

	SimilarityScore float64 `gorm:"type:double precision;not null;default:0" json:"similarity_score"`
	ReviewScore     float64 `gorm:"type:double precision;not null;default:0" json:"review_score"`

	Meta datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"meta"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (QuestionLink) TableName() string { return "question_link" }
