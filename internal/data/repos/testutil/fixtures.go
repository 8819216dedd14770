package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yoloprep/qbank-backend/internal/domain"
)

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, language string) *types.PaperSession {
	tb.Helper()
	s := &types.PaperSession{
		ID:       uuid.New(),
		ExamRef:  "SSC-CGL-2024",
		Language: language,
		Caption:  "SSC CGL Tier 1 (" + language + ")",
		Shift:    "Shift 1",
		Meta:     datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}

func SeedVersion(tb testing.TB, ctx context.Context, tx *gorm.DB, sessionID uuid.UUID, sourceNo, text string) *types.QuestionVersion {
	tb.Helper()
	body := fmt.Sprintf(`{"text": %q}`, text)
	v := &types.QuestionVersion{
		ID:               uuid.New(),
		PaperSessionID:   sessionID,
		SourceQuestionNo: sourceNo,
		Body:             datatypes.JSON([]byte(body)),
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed version: %v", err)
	}
	return v
}

// SeedSessionPair creates a source and target session with n questions each,
// numbered Q.1..Q.n, ready for a matching pass.
func SeedSessionPair(tb testing.TB, ctx context.Context, tx *gorm.DB, n int) (types.SessionPair, []*types.QuestionVersion, []*types.QuestionVersion) {
	tb.Helper()
	src := SeedSession(tb, ctx, tx, "EN")
	tgt := SeedSession(tb, ctx, tx, "HI")
	var srcVs, tgtVs []*types.QuestionVersion
	for i := 1; i <= n; i++ {
		no := fmt.Sprintf("Q.%d", i)
		srcVs = append(srcVs, SeedVersion(tb, ctx, tx, src.ID, no, fmt.Sprintf("question %d", i)))
		tgtVs = append(tgtVs, SeedVersion(tb, ctx, tx, tgt.ID, no, fmt.Sprintf("prashn %d", i)))
	}
	return types.SessionPair{SourceID: src.ID, TargetID: tgt.ID}, srcVs, tgtVs
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
