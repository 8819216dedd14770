package qbank

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yoloprep/qbank-backend/internal/domain"
	apperrors "github.com/yoloprep/qbank-backend/internal/pkg/errors"
	"github.com/yoloprep/qbank-backend/internal/pkg/logger"
)

// DuplicateGroup is one source_question_no that resolves to more than one
// question version within a single session.
type DuplicateGroup struct {
	SourceQuestionNo string `json:"source_question_no"`
	Count            int64  `json:"count"`
}

type QuestionVersionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.QuestionVersion) ([]*types.QuestionVersion, error)

	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.QuestionVersion, error)
	ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.QuestionVersion, error)

	// DuplicateReport surfaces source_question_no values that occur more
	// than once within the session. Duplicates are a real domain condition
	// reported to the operator, never silently resolved.
	DuplicateReport(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]DuplicateGroup, error)

	SetReviewed(ctx context.Context, tx *gorm.DB, id uuid.UUID, reviewed bool) error
	SetKeep(ctx context.Context, tx *gorm.DB, id uuid.UUID, keep bool) error

	// UpdateBodyText rewrites the "text" field of the body document,
	// preserving everything else the extractor stored there.
	UpdateBodyText(ctx context.Context, tx *gorm.DB, id uuid.UUID, text string) error

	DeleteBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) error
}

type questionVersionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionVersionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionVersionRepo {
	return &questionVersionRepo{db: db, log: baseLog.With("repo", "QuestionVersionRepo")}
}

func (r *questionVersionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.QuestionVersion) ([]*types.QuestionVersion, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.QuestionVersion{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *questionVersionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.QuestionVersion, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.QuestionVersion
	if err := t.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *questionVersionRepo) ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.QuestionVersion, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.QuestionVersion
	if sessionID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("paper_session_id = ?", sessionID).
		Order("source_question_no ASC, created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *questionVersionRepo) DuplicateReport(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]DuplicateGroup, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []DuplicateGroup
	if err := t.WithContext(ctx).
		Model(&types.QuestionVersion{}).
		Select("source_question_no, count(*) as count").
		Where("paper_session_id = ?", sessionID).
		Group("source_question_no").
		Having("count(*) > 1").
		Order("count DESC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *questionVersionRepo) SetReviewed(ctx context.Context, tx *gorm.DB, id uuid.UUID, reviewed bool) error {
	return r.updateField(ctx, tx, id, "reviewed", reviewed)
}

func (r *questionVersionRepo) SetKeep(ctx context.Context, tx *gorm.DB, id uuid.UUID, keep bool) error {
	return r.updateField(ctx, tx, id, "keep", keep)
}

func (r *questionVersionRepo) updateField(ctx context.Context, tx *gorm.DB, id uuid.UUID, field string, value interface{}) error {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).
		Model(&types.QuestionVersion{}).
		Where("id = ?", id).
		Update(field, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &apperrors.NotFoundError{Entity: "question_version", ID: id.String()}
	}
	return nil
}

func (r *questionVersionRepo) UpdateBodyText(ctx context.Context, tx *gorm.DB, id uuid.UUID, text string) error {
	t := tx
	if t == nil {
		t = r.db
	}
	row, err := r.GetByID(ctx, t, id)
	if err != nil {
		return err
	}
	if row == nil {
		return &apperrors.NotFoundError{Entity: "question_version", ID: id.String()}
	}

	body := map[string]interface{}{}
	if len(row.Body) > 0 {
		if err := json.Unmarshal(row.Body, &body); err != nil {
			return err
		}
	}
	body["text"] = text
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return t.WithContext(ctx).
		Model(&types.QuestionVersion{}).
		Where("id = ?", id).
		Update("body", datatypes.JSON(raw)).Error
}

func (r *questionVersionRepo) DeleteBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if sessionID == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).
		Where("paper_session_id = ?", sessionID).
		Delete(&types.QuestionVersion{}).Error
}
