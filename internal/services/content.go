package services

import (
	"context"
	"regexp"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yoloprep/qbank-backend/internal/data/repos/qbank"
	types "github.com/yoloprep/qbank-backend/internal/domain"
	"github.com/yoloprep/qbank-backend/internal/normalization"
	apperrors "github.com/yoloprep/qbank-backend/internal/pkg/errors"
	"github.com/yoloprep/qbank-backend/internal/pkg/logger"
)

var figureRe = regexp.MustCompile(`\\includegraphics(?:\[[^\]]*\])?\{([^}]*)\}`)

// NormalizeReport summarizes one normalization backfill over a session.
type NormalizeReport struct {
	Scanned   int `json:"scanned"`
	Rewritten int `json:"rewritten"`
	// Malformed counts bodies with unbalanced math markup. They pass
	// through unchanged; rewriting half a formula would be worse.
	Malformed int `json:"malformed"`
	// Figures counts figure references newly registered as assets.
	Figures int `json:"figures"`
}

type ContentService interface {
	// NormalizeSession rewrites every question body in the session into
	// the canonical math-delimiter form. Optionally scrubs injected
	// promotional text first.
	NormalizeSession(ctx context.Context, sessionID uuid.UUID, clean bool) (*NormalizeReport, error)
}

type contentService struct {
	db       *gorm.DB
	log      *logger.Logger
	sessions qbank.PaperSessionRepo
	versions qbank.QuestionVersionRepo
	assets   qbank.AssetRepo
}

func NewContentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	sessions qbank.PaperSessionRepo,
	versions qbank.QuestionVersionRepo,
	assets qbank.AssetRepo,
) ContentService {
	return &contentService{
		db:       db,
		log:      baseLog.With("service", "ContentService"),
		sessions: sessions,
		versions: versions,
		assets:   assets,
	}
}

func (s *contentService) NormalizeSession(ctx context.Context, sessionID uuid.UUID, clean bool) (*NormalizeReport, error) {
	session, err := s.sessions.GetByID(ctx, nil, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &apperrors.NotFoundError{Entity: "paper_session", ID: sessionID.String()}
	}

	rows, err := s.versions.ListBySession(ctx, nil, sessionID)
	if err != nil {
		return nil, err
	}

	report := &NormalizeReport{}
	refs := make(map[string]struct{})
	for _, row := range rows {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		report.Scanned++

		text := bodyText(row.Body)
		if text == "" {
			continue
		}
		for _, m := range figureRe.FindAllStringSubmatch(text, -1) {
			if ref := normalization.SanitizeLabel(m[1]); ref != "" {
				refs[ref] = struct{}{}
			}
		}
		if !normalization.HasBalancedBraces(text) {
			s.log.Warn("malformed math markup left unchanged",
				"version_id", row.ID,
				"source_question_no", row.SourceQuestionNo,
			)
			report.Malformed++
			continue
		}

		next := text
		if clean {
			next = normalization.CleanQuestionText(next)
		}
		next = normalization.NormalizeMath(next)
		if next == text {
			continue
		}
		if err := s.versions.UpdateBodyText(ctx, nil, row.ID, next); err != nil {
			return report, err
		}
		report.Rewritten++
	}

	registered, err := s.registerFigures(ctx, refs)
	if err != nil {
		return report, err
	}
	report.Figures = registered
	return report, nil
}

// registerFigures records each figure reference seen in the pass as an
// asset, once. Assets are opaque pointers; nothing here fetches the files.
func (s *contentService) registerFigures(ctx context.Context, refs map[string]struct{}) (int, error) {
	if len(refs) == 0 {
		return 0, nil
	}
	existing, err := s.assets.GetByKinds(ctx, nil, []string{types.AssetKindFigure})
	if err != nil {
		return 0, err
	}
	for _, a := range existing {
		delete(refs, a.Ref)
	}
	var rows []*types.Asset
	for ref := range refs {
		rows = append(rows, &types.Asset{
			ID:   uuid.New(),
			Kind: types.AssetKindFigure,
			Ref:  ref,
		})
	}
	if _, err := s.assets.Create(ctx, nil, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
