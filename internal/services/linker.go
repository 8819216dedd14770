package services

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yoloprep/qbank-backend/internal/data/repos/qbank"
	types "github.com/yoloprep/qbank-backend/internal/domain"
	apperrors "github.com/yoloprep/qbank-backend/internal/pkg/errors"
	"github.com/yoloprep/qbank-backend/internal/pkg/logger"
)

// AmbiguousGroup is a source question number that resolves to more than one
// question version on at least one side of the pair. The engine never picks
// a winner; an operator has to.
type AmbiguousGroup struct {
	SourceQuestionNo string `json:"source_question_no"`
	SourceCount      int    `json:"source_count"`
	TargetCount      int    `json:"target_count"`
}

// LinkReport is the outcome of one matching pass over a session pair.
type LinkReport struct {
	Pair       types.SessionPair `json:"pair"`
	Matched    int               `json:"matched"`
	Superseded int               `json:"superseded"`
	Ambiguous  []AmbiguousGroup  `json:"ambiguous"`
	Unmatched  []string          `json:"unmatched"`
}

type LinkerService interface {
	// Run executes one matching pass: read both sessions' versions, compute
	// candidates, then replace the pair's active link set in one
	// transaction. Reads complete before any write.
	Run(ctx context.Context, sourceID, targetID uuid.UUID) (*LinkReport, error)

	// Clear hard-deletes every link for the pair. Nothing is superseded;
	// history is gone. Explicit, separate blast radius from Run.
	Clear(ctx context.Context, sourceID, targetID uuid.UUID) (int, error)

	ActiveLinks(ctx context.Context, sourceID, targetID uuid.UUID) ([]*types.QuestionLink, error)
}

type linkerService struct {
	db       *gorm.DB
	log      *logger.Logger
	sessions qbank.PaperSessionRepo
	versions qbank.QuestionVersionRepo
	links    qbank.QuestionLinkRepo
	locks    *pairLocks
}

func NewLinkerService(
	db *gorm.DB,
	baseLog *logger.Logger,
	sessions qbank.PaperSessionRepo,
	versions qbank.QuestionVersionRepo,
	links qbank.QuestionLinkRepo,
) LinkerService {
	return &linkerService{
		db:       db,
		log:      baseLog.With("service", "LinkerService"),
		sessions: sessions,
		versions: versions,
		links:    links,
		locks:    newPairLocks(),
	}
}

func (s *linkerService) Run(ctx context.Context, sourceID, targetID uuid.UUID) (*LinkReport, error) {
	pair, err := s.resolvePair(ctx, sourceID, targetID)
	if err != nil {
		return nil, err
	}

	release := s.locks.Acquire(pair.Key())
	defer release()

	// Read phase. Any store failure here aborts the pass before a single
	// write happens.
	srcRows, err := s.versions.ListBySession(ctx, nil, pair.SourceID)
	if err != nil {
		return nil, err
	}
	tgtRows, err := s.versions.ListBySession(ctx, nil, pair.TargetID)
	if err != nil {
		return nil, err
	}
	srcGroups := groupBySourceNo(srcRows)
	tgtGroups := groupBySourceNo(tgtRows)

	report := &LinkReport{Pair: pair}
	var candidates []*types.QuestionLink

	for _, no := range sortedSourceNos(srcGroups) {
		srcGroup := srcGroups[no]
		tgtGroup := tgtGroups[no]
		switch {
		case len(srcGroup) > 1 || len(tgtGroup) > 1:
			report.Ambiguous = append(report.Ambiguous, AmbiguousGroup{
				SourceQuestionNo: no,
				SourceCount:      len(srcGroup),
				TargetCount:      len(tgtGroup),
			})
		case len(tgtGroup) == 0:
			report.Unmatched = append(report.Unmatched, no)
		default:
			candidates = append(candidates, &types.QuestionLink{
				ID:              uuid.New(),
				SourceVersionID: srcGroup[0].ID,
				TargetVersionID: tgtGroup[0].ID,
			})
		}
	}

	// Write phase: one transaction per pass.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		superseded, err := s.links.SupersedePair(ctx, tx, pair)
		if err != nil {
			return err
		}
		written, err := s.links.UpsertMatches(ctx, tx, pair, candidates)
		if err != nil {
			return err
		}
		report.Superseded = superseded
		report.Matched = written
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("matching pass complete",
		"source_session", pair.SourceID,
		"target_session", pair.TargetID,
		"matched", report.Matched,
		"superseded", report.Superseded,
		"ambiguous", len(report.Ambiguous),
		"unmatched", len(report.Unmatched),
	)
	return report, nil
}

func (s *linkerService) Clear(ctx context.Context, sourceID, targetID uuid.UUID) (int, error) {
	pair, err := s.resolvePair(ctx, sourceID, targetID)
	if err != nil {
		return 0, err
	}
	release := s.locks.Acquire(pair.Key())
	defer release()

	removed, err := s.links.ClearLinks(ctx, nil, pair)
	if err != nil {
		return 0, err
	}
	s.log.Info("links cleared", "source_session", pair.SourceID, "target_session", pair.TargetID, "removed", removed)
	return removed, nil
}

func (s *linkerService) ActiveLinks(ctx context.Context, sourceID, targetID uuid.UUID) ([]*types.QuestionLink, error) {
	pair, err := s.resolvePair(ctx, sourceID, targetID)
	if err != nil {
		return nil, err
	}
	return s.links.GetActiveLinks(ctx, nil, pair)
}

// resolvePair fails fast when either id does not name an existing session.
func (s *linkerService) resolvePair(ctx context.Context, sourceID, targetID uuid.UUID) (types.SessionPair, error) {
	pair := types.SessionPair{SourceID: sourceID, TargetID: targetID}
	if sourceID == uuid.Nil || targetID == uuid.Nil || sourceID == targetID {
		return pair, apperrors.ErrInvalidArgument
	}
	for _, id := range []uuid.UUID{sourceID, targetID} {
		row, err := s.sessions.GetByID(ctx, nil, id)
		if err != nil {
			return pair, err
		}
		if row == nil {
			return pair, &apperrors.NotFoundError{Entity: "paper_session", ID: id.String()}
		}
	}
	return pair, nil
}

// normalizeSourceNo reduces a source question number to its digits, so
// "Q.12", "12." and "Q 12" all land in the same group. Numbers with no
// digits keep their trimmed form.
func normalizeSourceNo(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return strings.TrimSpace(raw)
	}
	return b.String()
}

func groupBySourceNo(rows []*types.QuestionVersion) map[string][]*types.QuestionVersion {
	out := make(map[string][]*types.QuestionVersion, len(rows))
	for _, row := range rows {
		key := normalizeSourceNo(row.SourceQuestionNo)
		out[key] = append(out[key], row)
	}
	return out
}

// sortedSourceNos orders keys numerically where possible so reports read
// like the paper does.
func sortedSourceNos(groups map[string][]*types.QuestionVersion) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aerr := strconv.Atoi(keys[i])
		b, berr := strconv.Atoi(keys[j])
		if aerr == nil && berr == nil {
			return a < b
		}
		if (aerr == nil) != (berr == nil) {
			return aerr == nil
		}
		return keys[i] < keys[j]
	})
	return keys
}
