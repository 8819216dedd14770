package qbank

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yoloprep/qbank-backend/internal/domain"
	apperrors "github.com/yoloprep/qbank-backend/internal/pkg/errors"
	"github.com/yoloprep/qbank-backend/internal/pkg/logger"
)

// QuestionLinkRepo is the link ledger: the persisted set of cross-edition
// correspondences for each session pair, with per-link status.
type QuestionLinkRepo interface {
	GetActiveLinks(ctx context.Context, tx *gorm.DB, pair types.SessionPair) ([]*types.QuestionLink, error)

	// UpsertMatches supersedes every active link for the pair and inserts
	// the candidates as the new active set, atomically. A uniqueness
	// violation on insert comes back as a ConflictError.
	UpsertMatches(ctx context.Context, tx *gorm.DB, pair types.SessionPair, candidates []*types.QuestionLink) (int, error)

	// SupersedePair marks every active link for the pair superseded
	// without writing replacements.
	SupersedePair(ctx context.Context, tx *gorm.DB, pair types.SessionPair) (int, error)

	// ClearLinks hard-deletes every link for the pair, history included.
	// Distinct from superseding: this is the explicit bulk purge.
	ClearLinks(ctx context.Context, tx *gorm.DB, pair types.SessionPair) (int, error)

	CountByStatus(ctx context.Context, tx *gorm.DB, pair types.SessionPair) (map[string]int, error)
}

type questionLinkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionLinkRepo(db *gorm.DB, baseLog *logger.Logger) QuestionLinkRepo {
	return &questionLinkRepo{db: db, log: baseLog.With("repo", "QuestionLinkRepo")}
}

func pairScope(t *gorm.DB, pair types.SessionPair) *gorm.DB {
	return t.Where("source_session_id = ? AND target_session_id = ?", pair.SourceID, pair.TargetID)
}

func (r *questionLinkRepo) GetActiveLinks(ctx context.Context, tx *gorm.DB, pair types.SessionPair) ([]*types.QuestionLink, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.QuestionLink
	if err := pairScope(t.WithContext(ctx), pair).
		Where("status = ?", types.LinkStatusMatched).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *questionLinkRepo) UpsertMatches(ctx context.Context, tx *gorm.DB, pair types.SessionPair, candidates []*types.QuestionLink) (int, error) {
	written := 0
	run := func(t *gorm.DB) error {
		if _, err := r.supersede(ctx, t, pair); err != nil {
			return err
		}
		if len(candidates) == 0 {
			return nil
		}
		for _, c := range candidates {
			if c.ID == uuid.Nil {
				c.ID = uuid.New()
			}
			c.SourceSessionID = pair.SourceID
			c.TargetSessionID = pair.TargetID
			c.Status = types.LinkStatusMatched
		}
		if err := t.WithContext(ctx).Create(&candidates).Error; err != nil {
			if isUniqueViolation(err) {
				return &apperrors.ConflictError{Detail: "active link already exists for source version", Cause: err}
			}
			return err
		}
		written = len(candidates)
		return nil
	}

	var err error
	if tx != nil {
		err = run(tx)
	} else {
		err = r.db.Transaction(run)
	}
	if err != nil {
		return 0, err
	}
	return written, nil
}

func (r *questionLinkRepo) SupersedePair(ctx context.Context, tx *gorm.DB, pair types.SessionPair) (int, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	return r.supersede(ctx, t, pair)
}

func (r *questionLinkRepo) supersede(ctx context.Context, t *gorm.DB, pair types.SessionPair) (int, error) {
	res := pairScope(t.WithContext(ctx).Model(&types.QuestionLink{}), pair).
		Where("status = ?", types.LinkStatusMatched).
		Updates(map[string]interface{}{
			"status":     types.LinkStatusSuperseded,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func (r *questionLinkRepo) ClearLinks(ctx context.Context, tx *gorm.DB, pair types.SessionPair) (int, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	res := pairScope(t.WithContext(ctx), pair).Delete(&types.QuestionLink{})
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func (r *questionLinkRepo) CountByStatus(ctx context.Context, tx *gorm.DB, pair types.SessionPair) (map[string]int, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var rows []struct {
		Status string
		Count  int
	}
	if err := pairScope(t.WithContext(ctx).Model(&types.QuestionLink{}), pair).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}
