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

type PaperSessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.PaperSession) ([]*types.PaperSession, error)

	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PaperSession, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.PaperSession, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.PaperSession, error)

	// MergeMeta merges key/value pairs into the session's meta document,
	// preserving keys it does not mention (review flags, pdf link).
	MergeMeta(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error

	// SoftDelete refuses to delete a session that links still reference.
	SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type paperSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPaperSessionRepo(db *gorm.DB, baseLog *logger.Logger) PaperSessionRepo {
	return &paperSessionRepo{db: db, log: baseLog.With("repo", "PaperSessionRepo")}
}

func (r *paperSessionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.PaperSession) ([]*types.PaperSession, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.PaperSession{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *paperSessionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PaperSession, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *paperSessionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.PaperSession, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.PaperSession
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *paperSessionRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.PaperSession, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.PaperSession
	if err := t.WithContext(ctx).
		Order("held_on ASC, caption ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *paperSessionRepo) MergeMeta(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(updates) == 0 {
		return nil
	}
	row, err := r.GetByID(ctx, t, id)
	if err != nil {
		return err
	}
	if row == nil {
		return &apperrors.NotFoundError{Entity: "paper_session", ID: id.String()}
	}

	meta := map[string]interface{}{}
	if len(row.Meta) > 0 {
		if err := json.Unmarshal(row.Meta, &meta); err != nil {
			return err
		}
	}
	for k, v := range updates {
		meta[k] = v
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return t.WithContext(ctx).
		Model(&types.PaperSession{}).
		Where("id = ?", id).
		Update("meta", datatypes.JSON(raw)).Error
}

func (r *paperSessionRepo) SoftDelete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	var linkCount int64
	if err := t.WithContext(ctx).
		Model(&types.QuestionLink{}).
		Where("source_session_id = ? OR target_session_id = ?", id, id).
		Count(&linkCount).Error; err != nil {
		return err
	}
	if linkCount > 0 {
		return &apperrors.ConflictError{Detail: "session has links; clear them first"}
	}
	return t.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.PaperSession{}).Error
}
