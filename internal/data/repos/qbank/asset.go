package qbank

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yoloprep/qbank-backend/internal/domain"
	"github.com/yoloprep/qbank-backend/internal/pkg/logger"
)

type AssetRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Asset) ([]*types.Asset, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Asset, error)
	GetByKinds(ctx context.Context, tx *gorm.DB, kinds []string) ([]*types.Asset, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type assetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssetRepo(db *gorm.DB, baseLog *logger.Logger) AssetRepo {
	return &assetRepo{db: db, log: baseLog.With("repo", "AssetRepo")}
}

func (r *assetRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Asset) ([]*types.Asset, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Asset{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *assetRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Asset, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Asset
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *assetRepo) GetByKinds(ctx context.Context, tx *gorm.DB, kinds []string) ([]*types.Asset, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Asset
	if len(kinds) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).Where("kind IN ?", kinds).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assetRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).Where("id IN ?", ids).Delete(&types.Asset{}).Error
}
