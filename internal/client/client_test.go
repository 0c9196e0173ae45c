package client

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bioedlabs/controlbench/internal/catalog"
	"github.com/bioedlabs/controlbench/internal/handler"
	"github.com/bioedlabs/controlbench/internal/models"
	"github.com/bioedlabs/controlbench/internal/repository"
	"github.com/bioedlabs/controlbench/internal/router"
	"github.com/bioedlabs/controlbench/internal/service"
	"github.com/bioedlabs/controlbench/internal/workflow"
)

// Client must satisfy the workflow's gateway surface.
var _ workflow.Gateway = (*Client)(nil)

func newTestClient(t *testing.T) (*Client, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	log := zap.NewNop()
	svc := service.NewSubmissionService(store, log)
	cat, err := catalog.Load()
	require.NoError(t, err)

	r := router.New(log,
		handler.NewCatalogHandler(cat),
		handler.NewSubmissionHandler(svc),
		handler.NewAdminHandler(svc),
	)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return New(srv.URL), store
}

func TestQuestionsRoundTrip(t *testing.T) {
	c, _ := newTestClient(t)

	qs, err := c.Questions()
	require.NoError(t, err)
	require.NotEmpty(t, qs)

	q, err := c.Question(qs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, qs[0].Question, q.Question)
	assert.NotEmpty(t, q.MethodologicalConsiderations)

	_, err = c.Question(9999)
	assert.ErrorContains(t, err, "question not found")
}

func TestSubmitListDeleteRoundTrip(t *testing.T) {
	c, _ := newTestClient(t)

	column := []models.ControlSelection{
		{Value: models.ValueMatch},
		{Value: models.ValueDifferent, Description: "half dose", Color: "#00a3ff"},
		{Value: models.ValueAbsent},
	}
	sub, err := c.Submit(1, column, "no drug", "grpA")
	require.NoError(t, err)
	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, "no drug", sub.ControlName)
	assert.Equal(t, column, sub.NewControlSelections)

	subs, total, err := c.List(1, "grpA", 1, 15)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, subs, 1)
	assert.Equal(t, sub.ID, subs[0].ID)

	deleted, err := c.Delete([]string{sub.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, total, err = c.List(1, "grpA", 1, 15)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestServerErrorsSurfaceAsClientErrors(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.Submit(0, nil, "", "")
	assert.ErrorContains(t, err, "validation failed")

	_, err = c.Delete(nil)
	assert.ErrorContains(t, err, "no submission IDs")
}

func TestAdminOverHTTP(t *testing.T) {
	c, store := newTestClient(t)

	_, err := store.Insert(&models.Submission{QuestionID: 1, ControlName: "TEST run", SessionID: "grpA", CreatedAt: "2026-01-01T00:00:00Z"})
	require.NoError(t, err)
	_, err = store.Insert(&models.Submission{QuestionID: 1, ControlName: "keep", SessionID: "grpA", CreatedAt: "2026-01-02T00:00:00Z"})
	require.NoError(t, err)

	diag, err := c.Diagnostics()
	require.NoError(t, err)
	assert.Equal(t, 2, diag.TotalSubmissions)

	analysis, err := c.Analyze()
	require.NoError(t, err)
	assert.Equal(t, 1, analysis.TestSubmissions)

	_, err = c.Cleanup(service.ActionDeleteAll, "wrong")
	assert.ErrorContains(t, err, "confirmation")

	result, err := c.Cleanup(service.ActionDeleteTestData, "")
	require.NoError(t, err)
	assert.Equal(t, 1, result.DeletedCount)
	n, _ := store.CountAll()
	assert.Equal(t, 1, n)
}
