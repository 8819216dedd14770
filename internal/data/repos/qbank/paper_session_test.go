package qbank

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yoloprep/qbank-backend/internal/data/repos/testutil"
	types "github.com/yoloprep/qbank-backend/internal/domain"
	apperrors "github.com/yoloprep/qbank-backend/internal/pkg/errors"
)

func TestPaperSessionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewPaperSessionRepo(db, testutil.Logger(t))

	s1 := testutil.SeedSession(t, ctx, tx, "EN")
	s2 := testutil.SeedSession(t, ctx, tx, "HI")

	if got, err := repo.GetByID(ctx, tx, s1.ID); err != nil || got == nil || got.ID != s1.ID {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if got, err := repo.GetByID(ctx, tx, uuid.New()); err != nil || got != nil {
		t.Fatalf("GetByID missing: got=%v err=%v", got, err)
	}
	if rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{s1.ID, s2.ID}); err != nil || len(rows) != 2 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.List(ctx, tx); err != nil || len(rows) < 2 {
		t.Fatalf("List: err=%v len=%d", err, len(rows))
	}

	if err := repo.MergeMeta(ctx, tx, s1.ID, map[string]interface{}{"questions_checked": true}); err != nil {
		t.Fatalf("MergeMeta: %v", err)
	}
	if err := repo.MergeMeta(ctx, tx, s1.ID, map[string]interface{}{"pdf_link": "https://x/paper.pdf"}); err != nil {
		t.Fatalf("MergeMeta second key: %v", err)
	}
	got, err := repo.GetByID(ctx, tx, s1.ID)
	if err != nil {
		t.Fatalf("GetByID after MergeMeta: %v", err)
	}
	meta := string(got.Meta)
	for _, want := range []string{"questions_checked", "pdf_link"} {
		if !strings.Contains(meta, want) {
			t.Fatalf("meta missing %q: %s", want, meta)
		}
	}

	if err := repo.MergeMeta(ctx, tx, uuid.New(), map[string]interface{}{"x": 1}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("MergeMeta on missing session: err=%v", err)
	}
}

func TestPaperSessionRepoDeleteGuard(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewPaperSessionRepo(db, testutil.Logger(t))
	linkRepo := NewQuestionLinkRepo(db, testutil.Logger(t))

	pair, srcVs, tgtVs := testutil.SeedSessionPair(t, ctx, tx, 1)
	if _, err := linkRepo.UpsertMatches(ctx, tx, pair, []*types.QuestionLink{{
		SourceVersionID: srcVs[0].ID,
		TargetVersionID: tgtVs[0].ID,
	}}); err != nil {
		t.Fatalf("UpsertMatches: %v", err)
	}

	if err := repo.SoftDelete(ctx, tx, pair.SourceID); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("SoftDelete with links should conflict, got %v", err)
	}

	if _, err := linkRepo.ClearLinks(ctx, tx, pair); err != nil {
		t.Fatalf("ClearLinks: %v", err)
	}
	if err := repo.SoftDelete(ctx, tx, pair.SourceID); err != nil {
		t.Fatalf("SoftDelete after clear: %v", err)
	}
	if got, err := repo.GetByID(ctx, tx, pair.SourceID); err != nil || got != nil {
		t.Fatalf("session visible after delete: got=%v err=%v", got, err)
	}
}
