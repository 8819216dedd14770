package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yoloprep/qbank-backend/internal/data/repos/qbank"
	"github.com/yoloprep/qbank-backend/internal/data/repos/testutil"
	types "github.com/yoloprep/qbank-backend/internal/domain"
	apperrors "github.com/yoloprep/qbank-backend/internal/pkg/errors"
)

// Services open their own transactions, so these tests run against the
// shared test database rather than a rolled-back Tx. Every test seeds its
// own sessions; uuid keys keep them from seeing each other's rows.
func newLinker(tb testing.TB) (LinkerService, qbank.QuestionLinkRepo, *gorm.DB) {
	tb.Helper()
	db := testutil.DB(tb)
	log := testutil.Logger(tb)
	links := qbank.NewQuestionLinkRepo(db, log)
	svc := NewLinkerService(
		db,
		log,
		qbank.NewPaperSessionRepo(db, log),
		qbank.NewQuestionVersionRepo(db, log),
		links,
	)
	return svc, links, db
}

func TestLinkerRunFullMatch(t *testing.T) {
	ctx := context.Background()
	svc, _, db := newLinker(t)
	pair, srcVs, tgtVs := testutil.SeedSessionPair(t, ctx, db, 3)

	report, err := svc.Run(ctx, pair.SourceID, pair.TargetID)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Matched != 3 || report.Superseded != 0 {
		t.Fatalf("report: matched=%d superseded=%d", report.Matched, report.Superseded)
	}
	if len(report.Ambiguous) != 0 || len(report.Unmatched) != 0 {
		t.Fatalf("report: ambiguous=%v unmatched=%v", report.Ambiguous, report.Unmatched)
	}

	active, err := svc.ActiveLinks(ctx, pair.SourceID, pair.TargetID)
	if err != nil {
		t.Fatalf("ActiveLinks: %v", err)
	}
	if len(active) != 3 {
		t.Fatalf("expected 3 active links, got %d", len(active))
	}
	byTarget := make(map[uuid.UUID]uuid.UUID, len(active))
	for _, l := range active {
		if l.Status != types.LinkStatusMatched {
			t.Fatalf("active link with status %q", l.Status)
		}
		byTarget[l.SourceVersionID] = l.TargetVersionID
	}
	for i, src := range srcVs {
		if byTarget[src.ID] != tgtVs[i].ID {
			t.Fatalf("version %s linked to %s, want %s", src.ID, byTarget[src.ID], tgtVs[i].ID)
		}
	}
}

func TestLinkerRunNumberingVariants(t *testing.T) {
	ctx := context.Background()
	svc, _, db := newLinker(t)
	src := testutil.SeedSession(t, ctx, db, "EN")
	tgt := testutil.SeedSession(t, ctx, db, "HI")

	// Same question, three labeling styles.
	testutil.SeedVersion(t, ctx, db, src.ID, "Q.7", "seven")
	testutil.SeedVersion(t, ctx, db, tgt.ID, " 7.", "saat")
	testutil.SeedVersion(t, ctx, db, src.ID, "Q 12", "twelve")
	testutil.SeedVersion(t, ctx, db, tgt.ID, "12", "baarah")

	report, err := svc.Run(ctx, src.ID, tgt.ID)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Matched != 2 || len(report.Unmatched) != 0 {
		t.Fatalf("report: matched=%d unmatched=%v", report.Matched, report.Unmatched)
	}
}

func TestLinkerRunAmbiguousWritesNothing(t *testing.T) {
	ctx := context.Background()
	svc, _, db := newLinker(t)
	src := testutil.SeedSession(t, ctx, db, "EN")
	tgt := testutil.SeedSession(t, ctx, db, "HI")

	dupA := testutil.SeedVersion(t, ctx, db, src.ID, "Q.2", "first copy")
	dupB := testutil.SeedVersion(t, ctx, db, src.ID, "2.", "second copy")
	testutil.SeedVersion(t, ctx, db, tgt.ID, "Q.2", "do")
	testutil.SeedVersion(t, ctx, db, src.ID, "Q.3", "three")
	testutil.SeedVersion(t, ctx, db, tgt.ID, "Q.3", "teen")

	report, err := svc.Run(ctx, src.ID, tgt.ID)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(report.Ambiguous) != 1 {
		t.Fatalf("ambiguous groups: %v", report.Ambiguous)
	}
	if g := report.Ambiguous[0]; g.SourceQuestionNo != "2" || g.SourceCount != 2 || g.TargetCount != 1 {
		t.Fatalf("ambiguous group: %+v", g)
	}
	if report.Matched != 1 {
		t.Fatalf("matched=%d, want the unambiguous Q.3 only", report.Matched)
	}

	// Neither duplicate got a link; the engine never picks a winner.
	active, err := svc.ActiveLinks(ctx, src.ID, tgt.ID)
	if err != nil {
		t.Fatalf("ActiveLinks: %v", err)
	}
	for _, l := range active {
		if l.SourceVersionID == dupA.ID || l.SourceVersionID == dupB.ID {
			t.Fatalf("ambiguous version %s was linked", l.SourceVersionID)
		}
	}
}

func TestLinkerRerunSupersedes(t *testing.T) {
	ctx := context.Background()
	svc, links, db := newLinker(t)
	pair, _, _ := testutil.SeedSessionPair(t, ctx, db, 4)

	if _, err := svc.Run(ctx, pair.SourceID, pair.TargetID); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	report, err := svc.Run(ctx, pair.SourceID, pair.TargetID)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if report.Matched != 4 || report.Superseded != 4 {
		t.Fatalf("second pass: matched=%d superseded=%d", report.Matched, report.Superseded)
	}

	counts, err := links.CountByStatus(ctx, nil, pair)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[types.LinkStatusMatched] != 4 || counts[types.LinkStatusSuperseded] != 4 {
		t.Fatalf("counts: %v", counts)
	}
}

func TestLinkerRunUnmatched(t *testing.T) {
	ctx := context.Background()
	svc, _, db := newLinker(t)
	src := testutil.SeedSession(t, ctx, db, "EN")
	tgt := testutil.SeedSession(t, ctx, db, "HI")
	for i := 1; i <= 3; i++ {
		testutil.SeedVersion(t, ctx, db, src.ID, fmt.Sprintf("Q.%d", i), fmt.Sprintf("question %d", i))
	}
	testutil.SeedVersion(t, ctx, db, tgt.ID, "Q.1", "ek")
	testutil.SeedVersion(t, ctx, db, tgt.ID, "Q.3", "teen")

	report, err := svc.Run(ctx, src.ID, tgt.ID)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Matched != 2 {
		t.Fatalf("matched=%d", report.Matched)
	}
	if len(report.Unmatched) != 1 || report.Unmatched[0] != "2" {
		t.Fatalf("unmatched: %v", report.Unmatched)
	}
}

func TestLinkerResolvePair(t *testing.T) {
	ctx := context.Background()
	svc, _, db := newLinker(t)
	src := testutil.SeedSession(t, ctx, db, "EN")

	if _, err := svc.Run(ctx, uuid.Nil, src.ID); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("nil source: %v", err)
	}
	if _, err := svc.Run(ctx, src.ID, src.ID); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("self pair: %v", err)
	}
	if _, err := svc.Run(ctx, src.ID, uuid.New()); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("unknown target: %v", err)
	}
}

func TestLinkerClear(t *testing.T) {
	ctx := context.Background()
	svc, links, db := newLinker(t)
	pair, _, _ := testutil.SeedSessionPair(t, ctx, db, 2)

	if _, err := svc.Run(ctx, pair.SourceID, pair.TargetID); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := svc.Run(ctx, pair.SourceID, pair.TargetID); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// 2 active + 2 superseded, all gone at once.
	removed, err := svc.Clear(ctx, pair.SourceID, pair.TargetID)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if removed != 4 {
		t.Fatalf("removed=%d, want 4", removed)
	}
	counts, err := links.CountByStatus(ctx, nil, pair)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if len(counts) != 0 {
		t.Fatalf("counts after clear: %v", counts)
	}
}

func TestLinkerConcurrentRuns(t *testing.T) {
	ctx := context.Background()
	svc, links, db := newLinker(t)
	pair, _, _ := testutil.SeedSessionPair(t, ctx, db, 3)

	const passes = 5
	errs := make(chan error, passes)
	var wg sync.WaitGroup
	for i := 0; i < passes; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Run(ctx, pair.SourceID, pair.TargetID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent Run: %v", err)
		}
	}

	// Serialized passes leave exactly one active link per source version,
	// everything older superseded.
	counts, err := links.CountByStatus(ctx, nil, pair)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[types.LinkStatusMatched] != 3 {
		t.Fatalf("active count: %v", counts)
	}
	if counts[types.LinkStatusSuperseded] != 3*(passes-1) {
		t.Fatalf("superseded count: %v", counts)
	}
}
