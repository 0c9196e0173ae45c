package service

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bioedlabs/controlbench/internal/models"
	"github.com/bioedlabs/controlbench/internal/repository"
	"github.com/bioedlabs/controlbench/internal/session"
)

func newTestService() (*SubmissionService, *repository.MemoryStore) {
	store := repository.NewMemoryStore()
	return NewSubmissionService(store, zap.NewNop()), store
}

func matchColumn(n int) []models.ControlSelection {
	col := make([]models.ControlSelection, n)
	for i := range col {
		col[i] = models.ControlSelection{Value: models.ValueMatch}
	}
	return col
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(CreateRequest{NewControlSelections: matchColumn(3)})
	require.ErrorIs(t, err, ErrValidation, "missing questionId")

	_, err = svc.Create(CreateRequest{QuestionID: 1})
	require.ErrorIs(t, err, ErrValidation, "missing selections")

	_, err = svc.Create(CreateRequest{
		QuestionID:           1,
		NewControlSelections: []models.ControlSelection{{Value: "MAYBE"}},
	})
	require.ErrorIs(t, err, ErrValidation, "unknown cell value")
}

func TestCreateDefaultsAndRoundTrip(t *testing.T) {
	svc, _ := newTestService()

	column := []models.ControlSelection{
		{Value: models.ValueMatch},
		{Value: models.ValueDifferent, Description: "x", Color: "#ff0000"},
		{Value: models.ValueAbsent},
	}
	created, err := svc.Create(CreateRequest{
		QuestionID:           1,
		NewControlSelections: column,
		SessionID:            "grp1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.CreatedAt)
	assert.Equal(t, models.DefaultControlName, created.ControlName)

	subs, page, err := svc.List(1, "grp1", 1, 15)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, 1, page.TotalCount)
	if diff := cmp.Diff(column, subs[0].NewControlSelections); diff != "" {
		t.Errorf("selections did not round-trip (-want +got):\n%s", diff)
	}
}

func TestListSessionFilter(t *testing.T) {
	svc, store := newTestService()

	// legacy document: no session field
	_, err := store.Insert(&models.Submission{QuestionID: 1, NewControlSelections: matchColumn(2), ControlName: "legacy", CreatedAt: "2024-01-01T00:00:00Z"})
	require.NoError(t, err)

	_, err = svc.Create(CreateRequest{QuestionID: 1, NewControlSelections: matchColumn(2), SessionID: session.Individual, ControlName: "solo"})
	require.NoError(t, err)
	_, err = svc.Create(CreateRequest{QuestionID: 1, NewControlSelections: matchColumn(2), SessionID: "grpA", ControlName: "team"})
	require.NoError(t, err)

	subs, page, err := svc.List(1, session.Individual, 1, 15)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCount, "individual must include legacy docs")
	names := []string{subs[0].ControlName, subs[1].ControlName}
	assert.ElementsMatch(t, []string{"legacy", "solo"}, names)

	subs, page, err = svc.List(1, "grpA", 1, 15)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "team", subs[0].ControlName)
	assert.Equal(t, 1, page.TotalCount)
}

func TestListPagination(t *testing.T) {
	svc, _ := newTestService()
	for i := 0; i < 7; i++ {
		_, err := svc.Create(CreateRequest{QuestionID: 2, NewControlSelections: matchColumn(1), SessionID: "g"})
		require.NoError(t, err)
	}

	subs, page, err := svc.List(2, "g", 1, 3)
	require.NoError(t, err)
	assert.Len(t, subs, 3)
	assert.Equal(t, Pagination{CurrentPage: 1, TotalPages: 3, TotalCount: 7, Limit: 3, HasNextPage: true, HasPrevPage: false}, page)

	subs, page, err = svc.List(2, "g", 3, 3)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
	assert.False(t, page.HasNextPage)
	assert.True(t, page.HasPrevPage)
}

func TestDeleteByIDs(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.DeleteByIDs(nil)
	require.ErrorIs(t, err, ErrValidation)

	created, err := svc.Create(CreateRequest{QuestionID: 1, NewControlSelections: matchColumn(1)})
	require.NoError(t, err)

	deleted, err := svc.DeleteByIDs([]string{created.ID, "does-not-exist"})
	require.NoError(t, err)
	assert.Equal(t, 1, deleted, "unknown ids are silent no-ops")

	_, page, err := svc.List(1, "", 1, 15)
	require.NoError(t, err)
	assert.Zero(t, page.TotalCount)
}
