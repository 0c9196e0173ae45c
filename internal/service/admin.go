package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bioedlabs/controlbench/internal/models"
	"github.com/bioedlabs/controlbench/internal/repository"
)

// Cleanup actions accepted by the admin endpoint and CLI.
const (
	ActionDeleteAll       = "delete-all"
	ActionDeleteNoSession = "delete-without-sessionid"
	ActionDeleteTestData  = "delete-test-data"
	ActionDeleteOldData   = "delete-old-data"
	ActionAnalyzeOnly     = "analyze-only"
)

// StoreStats is a snapshot of the collection, taken before and after cleanup.
type StoreStats struct {
	TotalSubmissions int                       `json:"totalSubmissions"`
	WithoutSessionID int                       `json:"submissionsWithoutSessionId"`
	UniqueSessionIDs []repository.SessionCount `json:"uniqueSessionIds"`
}

// Analysis reports what each cleanup action would remove, without deleting.
type Analysis struct {
	TotalSubmissions int                 `json:"totalSubmissions"`
	WithoutSessionID int                 `json:"submissionsWithoutSessionId"`
	TestSubmissions  int                 `json:"testSubmissions"`
	OldSubmissions   int                 `json:"oldSubmissions"`
	Recent           []models.Submission `json:"recentSubmissions"`
	Recommendations  []string            `json:"recommendations,omitempty"`
}

// CleanupResult is the outcome of one cleanup action.
type CleanupResult struct {
	Action       string      `json:"action"`
	DeletedCount int         `json:"deletedCount"`
	Message      string      `json:"message"`
	Before       *StoreStats `json:"beforeStats,omitempty"`
	After        *StoreStats `json:"afterStats,omitempty"`
	Analysis     *Analysis   `json:"analysis,omitempty"`
}

// Diagnostics is the read-only introspection payload.
type Diagnostics struct {
	TotalSubmissions   int                       `json:"totalSubmissions"`
	WithSessionID      int                       `json:"submissionsWithSessionId"`
	WithoutSessionID   int                       `json:"submissionsWithoutSessionId"`
	DistinctSessionIDs []repository.SessionCount `json:"distinctSessionIds"`
	RecentSubmissions  []models.Submission       `json:"recentSubmissions"`
}

// Diagnostics collects row counts and distinct session values.
func (s *SubmissionService) Diagnostics() (*Diagnostics, error) {
	total, err := s.store.CountAll()
	if err != nil {
		return nil, err
	}
	withoutSession, err := s.store.CountWithoutSession()
	if err != nil {
		return nil, err
	}
	distinct, err := s.store.DistinctSessions()
	if err != nil {
		return nil, err
	}
	recent, err := s.store.Recent(recentSample)
	if err != nil {
		return nil, err
	}
	return &Diagnostics{
		TotalSubmissions:   total,
		WithSessionID:      total - withoutSession,
		WithoutSessionID:   withoutSession,
		DistinctSessionIDs: distinct,
		RecentSubmissions:  recent,
	}, nil
}

// Analyze reports what each cleanup action would delete. No data changes.
func (s *SubmissionService) Analyze() (*Analysis, error) {
	total, err := s.store.CountAll()
	if err != nil {
		return nil, err
	}
	withoutSession, err := s.store.CountWithoutSession()
	if err != nil {
		return nil, err
	}
	testData, err := s.store.CountTestData()
	if err != nil {
		return nil, err
	}
	old, err := s.store.CountOlderThan(time.Now().Add(-oldDataAge))
	if err != nil {
		return nil, err
	}
	recent, err := s.store.Recent(recentSample)
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		TotalSubmissions: total,
		WithoutSessionID: withoutSession,
		TestSubmissions:  testData,
		OldSubmissions:   old,
		Recent:           recent,
	}
	if withoutSession > 0 {
		a.Recommendations = append(a.Recommendations,
			fmt.Sprintf("%d submissions without sessionId (likely junk data)", withoutSession))
	}
	if testData > 0 {
		a.Recommendations = append(a.Recommendations, fmt.Sprintf("%d test submissions", testData))
	}
	if old > 0 {
		a.Recommendations = append(a.Recommendations, fmt.Sprintf("%d submissions older than 30 days", old))
	}
	return a, nil
}

// Cleanup runs one administrative cleanup action and returns before/after
// stats. delete-all additionally requires the literal confirmation code.
func (s *SubmissionService) Cleanup(action, confirmationCode string) (*CleanupResult, error) {
	if action == ActionDeleteAll && confirmationCode != DeleteAllConfirmation {
		return nil, fmt.Errorf("%w: invalid confirmation code, use %q to confirm deletion",
			ErrValidation, DeleteAllConfirmation)
	}

	before, err := s.stats()
	if err != nil {
		return nil, err
	}

	result := &CleanupResult{Action: action, Before: before}

	switch action {
	case ActionDeleteAll:
		result.DeletedCount, err = s.store.DeleteAll()
		result.Message = fmt.Sprintf("deleted all %d submissions", result.DeletedCount)
	case ActionDeleteNoSession:
		result.DeletedCount, err = s.store.DeleteWithoutSession()
		result.Message = fmt.Sprintf("deleted %d submissions without sessionId", result.DeletedCount)
	case ActionDeleteTestData:
		result.DeletedCount, err = s.store.DeleteTestData()
		result.Message = fmt.Sprintf("deleted %d test submissions", result.DeletedCount)
	case ActionDeleteOldData:
		result.DeletedCount, err = s.store.DeleteOlderThan(time.Now().Add(-oldDataAge))
		result.Message = fmt.Sprintf("deleted %d submissions older than 30 days", result.DeletedCount)
	case ActionAnalyzeOnly:
		result.Analysis, err = s.Analyze()
		result.Message = "analysis completed - no data was deleted"
	default:
		return nil, fmt.Errorf("%w: invalid action %q, use: %s, %s, %s, %s, or %s", ErrValidation,
			action, ActionDeleteAll, ActionDeleteNoSession, ActionDeleteTestData,
			ActionDeleteOldData, ActionAnalyzeOnly)
	}
	if err != nil {
		return nil, err
	}

	after, err := s.stats()
	if err != nil {
		return nil, err
	}
	result.After = after

	s.log.Info("cleanup executed",
		zap.String("action", action),
		zap.Int("deleted", result.DeletedCount),
		zap.Int("before", before.TotalSubmissions),
		zap.Int("after", after.TotalSubmissions))
	return result, nil
}

func (s *SubmissionService) stats() (*StoreStats, error) {
	total, err := s.store.CountAll()
	if err != nil {
		return nil, err
	}
	withoutSession, err := s.store.CountWithoutSession()
	if err != nil {
		return nil, err
	}
	distinct, err := s.store.DistinctSessions()
	if err != nil {
		return nil, err
	}
	return &StoreStats{
		TotalSubmissions: total,
		WithoutSessionID: withoutSession,
		UniqueSessionIDs: distinct,
	}, nil
}
