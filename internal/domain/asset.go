package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	AssetKindFigure = "figure"
)

// Asset is an opaque typed reference to a media object (figure, table image)
// mentioned by question text. Linking never looks inside it.
type Asset struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Kind string `gorm:"type:text;not null;index" json:"kind"`
	Ref  string `gorm:"type:text;not null" json:"ref"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Asset) TableName() string { return "asset" }
