package repository

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bioedlabs/controlbench/internal/models"
)

func TestListQueryIndividualMatchesLegacyDocs(t *testing.T) {
	got := listQuery(ListFilter{SessionID: "individual"})

	want := map[string]any{"$or": []any{
		map[string]any{"sessionId": map[string]any{"$exists": false}},
		map[string]any{"sessionId": nil},
		map[string]any{"sessionId": ""},
		map[string]any{"sessionId": "individual"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("query mismatch (-want +got):\n%s", diff)
	}
}

func TestListQueryGroupTokenIsExact(t *testing.T) {
	got := listQuery(ListFilter{SessionID: "k3j2h1g0f9e8d"})
	want := map[string]any{"sessionId": "k3j2h1g0f9e8d"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("query mismatch (-want +got):\n%s", diff)
	}
}

func TestListQueryCombinesQuestionAndSession(t *testing.T) {
	got := listQuery(ListFilter{QuestionID: 2, SessionID: "individual"})

	conds, ok := got["$and"].([]any)
	require.True(t, ok, "expected $and query, got %v", got)
	require.Len(t, conds, 2)
	assert.Equal(t, map[string]any{"questionId": 2}, conds[0])

	or, ok := conds[1].(map[string]any)["$or"].([]any)
	require.True(t, ok)
	assert.Len(t, or, 4)

	// question-only stays a bare equality, no wrapping
	assert.Equal(t, map[string]any{"questionId": 2}, listQuery(ListFilter{QuestionID: 2}))
	assert.Equal(t, map[string]any{}, listQuery(ListFilter{}))
}

func TestCleanupQueries(t *testing.T) {
	or, ok := noSessionQuery()["$or"].([]any)
	require.True(t, ok)
	// missing, null, and empty only; "individual" rows are real data
	assert.Len(t, or, 3)
	for _, cond := range or {
		assert.NotEqual(t, map[string]any{"sessionId": "individual"}, cond)
	}

	or, ok = testDataQuery()["$or"].([]any)
	require.True(t, ok)
	assert.Contains(t, or, map[string]any{"questionId": map[string]any{"$gte": 888}})
	assert.Contains(t, or, map[string]any{"sessionId": map[string]any{"$regex": "(?i)^migrated_"}})

	cutoff := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	want := map[string]any{"createdAt": map[string]any{"$lt": "2026-07-30T12:00:00Z"}}
	assert.Equal(t, want, olderThanQuery(cutoff))
}

func TestSubmissionDocRoundTrip(t *testing.T) {
	sub := &models.Submission{
		ID:         "7",
		QuestionID: 1,
		NewControlSelections: []models.ControlSelection{
			{Value: models.ValueDifferent, Description: "half dose", Color: "#00a3ff"},
		},
		ControlName: "no drug",
		SessionID:   "grpA",
		CreatedAt:   "2026-01-01T00:00:00Z",
	}

	doc := submissionToDoc(sub)
	_, hasID := doc["_id"]
	assert.False(t, hasID, "store assigns ids, the document must not carry one")

	doc["_id"] = float64(7)
	got, err := docToSubmission(doc)
	require.NoError(t, err)
	if diff := cmp.Diff(sub, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
