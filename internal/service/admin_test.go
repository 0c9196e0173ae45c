package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bioedlabs/controlbench/internal/models"
)

func seedAdminData(t *testing.T, svc *SubmissionService) {
	t.Helper()
	_, err := svc.Create(CreateRequest{QuestionID: 1, NewControlSelections: matchColumn(1), SessionID: "grpA", ControlName: "real"})
	require.NoError(t, err)
	_, err = svc.Create(CreateRequest{QuestionID: 1, NewControlSelections: matchColumn(1), ControlName: "SCHEMA_TEST run"})
	require.NoError(t, err)
	_, err = svc.Create(CreateRequest{QuestionID: 999, NewControlSelections: matchColumn(1), SessionID: "grpA"})
	require.NoError(t, err)
}

func TestCleanupDeleteAllRequiresConfirmation(t *testing.T) {
	svc, _ := newTestService()
	seedAdminData(t, svc)

	_, err := svc.Cleanup(ActionDeleteAll, "nope")
	require.ErrorIs(t, err, ErrValidation)

	res, err := svc.Cleanup(ActionDeleteAll, DeleteAllConfirmation)
	require.NoError(t, err)
	assert.Equal(t, 3, res.DeletedCount)
	assert.Equal(t, 3, res.Before.TotalSubmissions)
	assert.Zero(t, res.After.TotalSubmissions)
}

func TestCleanupTestData(t *testing.T) {
	svc, _ := newTestService()
	seedAdminData(t, svc)

	res, err := svc.Cleanup(ActionDeleteTestData, "")
	require.NoError(t, err)
	// the SCHEMA_TEST column and the questionId>=888 row
	assert.Equal(t, 2, res.DeletedCount)
	assert.Equal(t, 1, res.After.TotalSubmissions)
}

func TestCleanupWithoutSession(t *testing.T) {
	svc, store := newTestService()
	seedAdminData(t, svc)
	_, err := store.Insert(&models.Submission{QuestionID: 1, NewControlSelections: matchColumn(1), ControlName: "legacy", CreatedAt: "2024-01-01T00:00:00Z"})
	require.NoError(t, err)

	res, err := svc.Cleanup(ActionDeleteNoSession, "")
	require.NoError(t, err)
	// both the legacy row and the SCHEMA_TEST row carry no session
	assert.Equal(t, 2, res.DeletedCount)
}

func TestCleanupAnalyzeOnly(t *testing.T) {
	svc, _ := newTestService()
	seedAdminData(t, svc)

	res, err := svc.Cleanup(ActionAnalyzeOnly, "")
	require.NoError(t, err)
	assert.Zero(t, res.DeletedCount)
	require.NotNil(t, res.Analysis)
	assert.Equal(t, 3, res.Analysis.TotalSubmissions)
	assert.Equal(t, 2, res.Analysis.TestSubmissions)
	assert.Equal(t, 3, res.After.TotalSubmissions, "analyze must not delete")
	assert.NotEmpty(t, res.Analysis.Recommendations)
}

func TestCleanupUnknownAction(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Cleanup("drop-tables", "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestDiagnostics(t *testing.T) {
	svc, _ := newTestService()
	seedAdminData(t, svc)

	d, err := svc.Diagnostics()
	require.NoError(t, err)
	assert.Equal(t, 3, d.TotalSubmissions)
	assert.Equal(t, 1, d.WithoutSessionID)
	assert.Equal(t, 2, d.WithSessionID)
	assert.NotEmpty(t, d.DistinctSessionIDs)
	assert.Len(t, d.RecentSubmissions, 3)
}
