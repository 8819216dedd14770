package qbank

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yoloprep/qbank-backend/internal/data/repos/testutil"
	apperrors "github.com/yoloprep/qbank-backend/internal/pkg/errors"
)

func TestQuestionVersionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewQuestionVersionRepo(db, testutil.Logger(t))

	s := testutil.SeedSession(t, ctx, tx, "EN")
	v1 := testutil.SeedVersion(t, ctx, tx, s.ID, "Q.1", "first")
	v2 := testutil.SeedVersion(t, ctx, tx, s.ID, "Q.2", "second")
	// Duplicate extraction of Q.2 — a real condition the store must surface.
	v2dup := testutil.SeedVersion(t, ctx, tx, s.ID, "Q.2", "second again")

	if got, err := repo.GetByID(ctx, tx, v1.ID); err != nil || got == nil || got.ID != v1.ID {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if rows, err := repo.ListBySession(ctx, tx, s.ID); err != nil || len(rows) != 3 {
		t.Fatalf("ListBySession: err=%v len=%d", err, len(rows))
	}

	dups, err := repo.DuplicateReport(ctx, tx, s.ID)
	if err != nil {
		t.Fatalf("DuplicateReport: %v", err)
	}
	if len(dups) != 1 || dups[0].SourceQuestionNo != "Q.2" || dups[0].Count != 2 {
		t.Fatalf("DuplicateReport: got %+v", dups)
	}

	if err := repo.SetReviewed(ctx, tx, v1.ID, true); err != nil {
		t.Fatalf("SetReviewed: %v", err)
	}
	if err := repo.SetKeep(ctx, tx, v2dup.ID, false); err != nil {
		t.Fatalf("SetKeep: %v", err)
	}
	if err := repo.SetReviewed(ctx, tx, uuid.New(), true); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("SetReviewed missing id: err=%v", err)
	}

	if err := repo.UpdateBodyText(ctx, tx, v2.ID, `now $\frac{1}{2}$`); err != nil {
		t.Fatalf("UpdateBodyText: %v", err)
	}
	got, err := repo.GetByID(ctx, tx, v2.ID)
	if err != nil {
		t.Fatalf("GetByID after UpdateBodyText: %v", err)
	}
	if !strings.Contains(string(got.Body), `\\frac{1}{2}`) {
		t.Fatalf("body text not updated: %s", string(got.Body))
	}

	if err := repo.DeleteBySession(ctx, tx, s.ID); err != nil {
		t.Fatalf("DeleteBySession: %v", err)
	}
	if rows, err := repo.ListBySession(ctx, tx, s.ID); err != nil || len(rows) != 0 {
		t.Fatalf("after DeleteBySession: err=%v len=%d", err, len(rows))
	}
}
