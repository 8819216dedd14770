package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yoloprep/qbank-backend/internal/clients/translate"
	"github.com/yoloprep/qbank-backend/internal/data/repos/qbank"
	apperrors "github.com/yoloprep/qbank-backend/internal/pkg/errors"
	"github.com/yoloprep/qbank-backend/internal/pkg/logger"
)

// FailedTranslation records one question whose translation failed. The
// batch keeps going; the operator retries or skips.
type FailedTranslation struct {
	VersionID uuid.UUID `json:"version_id"`
	Reason    string    `json:"reason"`
}

// TranslationReport is the outcome of one batch translation job.
type TranslationReport struct {
	Translated int                 `json:"translated"`
	Skipped    int                 `json:"skipped"`
	Failed     []FailedTranslation `json:"failed"`
}

type TranslationService interface {
	// TranslateSession translates the body text of every question version
	// in the session, writing each result back as it lands. Items run on a
	// bounded worker pool; cancellation is honored between items, never
	// mid-item, so every written row is a complete protect/translate/
	// restore sequence.
	TranslateSession(ctx context.Context, sessionID uuid.UUID, targetLang string) (*TranslationReport, error)
}

type translationService struct {
	db         *gorm.DB
	log        *logger.Logger
	sessions   qbank.PaperSessionRepo
	versions   qbank.QuestionVersionRepo
	translator translate.Client
	workers    int
}

func NewTranslationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	sessions qbank.PaperSessionRepo,
	versions qbank.QuestionVersionRepo,
	translator translate.Client,
	workers int,
) TranslationService {
	if workers < 1 {
		workers = 1
	}
	return &translationService{
		db:         db,
		log:        baseLog.With("service", "TranslationService"),
		sessions:   sessions,
		versions:   versions,
		translator: translator,
		workers:    workers,
	}
}

func (s *translationService) TranslateSession(ctx context.Context, sessionID uuid.UUID, targetLang string) (*TranslationReport, error) {
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

	report := &TranslationReport{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, row := range rows {
		// Cooperative cancellation: stop dispatching, let in-flight
		// items finish.
		if gctx.Err() != nil {
			break
		}
		row := row
		g.Go(func() error {
			text := bodyText(row.Body)
			if text == "" {
				mu.Lock()
				report.Skipped++
				mu.Unlock()
				return nil
			}

			translated, err := s.translator.Translate(gctx, text, targetLang)
			if err != nil {
				s.log.Warn("translation failed", "version_id", row.ID, "error", err)
				mu.Lock()
				report.Failed = append(report.Failed, FailedTranslation{VersionID: row.ID, Reason: err.Error()})
				mu.Unlock()
				return nil
			}

			if err := s.versions.UpdateBodyText(gctx, nil, row.ID, translated); err != nil {
				mu.Lock()
				report.Failed = append(report.Failed, FailedTranslation{VersionID: row.ID, Reason: err.Error()})
				mu.Unlock()
				return nil
			}
			mu.Lock()
			report.Translated++
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}
	if ctx.Err() != nil {
		return report, ctx.Err()
	}
	return report, nil
}

func bodyText(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.Text
}
