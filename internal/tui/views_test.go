package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bioedlabs/controlbench/internal/models"
)

type stubGateway struct {
	questions []models.Question
}

func (g *stubGateway) Questions() ([]models.Question, error) { return g.questions, nil }

func (g *stubGateway) Submit(questionID int, column []models.ControlSelection, name, sessionID string) (models.Submission, error) {
	return models.Submission{ID: "1"}, nil
}

func (g *stubGateway) List(questionID int, sessionID string, page, limit int) ([]models.Submission, int, error) {
	return nil, 0, nil
}

func (g *stubGateway) Delete(ids []string) (int, error) { return len(ids), nil }

func stubQuestion() models.Question {
	return models.Question{
		ID:       1,
		Question: "Does antibiotic X slow bacterial growth?",
		MethodologicalConsiderations: []models.Feature{
			{Feature: "Bacterial strain", Option1: "Match", Absent: "N"},
			{Feature: "Antibiotic X", Option1: "Absent", Option1Text: "no antibiotic applied", Absent: "Y"},
		},
	}
}

func lockedModel(t *testing.T) model {
	t.Helper()
	gw := &stubGateway{questions: []models.Question{stubQuestion()}}
	m := newModel(gw, "individual", "http://localhost:8080", zap.NewNop())
	require.NoError(t, m.ctx.LoadQuestions(gw))
	require.NoError(t, m.ctx.SelectQuestion(1))
	require.NoError(t, m.ctx.Lock())
	require.NoError(t, m.ctx.AddColumn())
	m.screen = screenTable
	m.busy = false
	return m
}

func TestTableShowsFixedReferenceColumns(t *testing.T) {
	m := lockedModel(t)
	out := m.viewTable()

	assert.Contains(t, out, "INTERVENTION")
	assert.Contains(t, out, "COMPLETE")
	assert.Contains(t, out, "BASE")
	// per-row complete values come from the question itself
	assert.Contains(t, out, "MATCH")
	assert.Contains(t, out, "ABSENT")
}

func TestDetailsShowCompleteControl(t *testing.T) {
	gw := &stubGateway{questions: []models.Question{stubQuestion()}}
	m := newModel(gw, "individual", "http://localhost:8080", zap.NewNop())
	require.NoError(t, m.ctx.LoadQuestions(gw))
	require.NoError(t, m.ctx.SelectQuestion(1))
	m.screen = screenDetails
	m.busy = false

	out := m.viewDetails()
	assert.Contains(t, out, "ABSENT")
	assert.Contains(t, out, "no antibiotic applied")
}

func TestReviewShowsCompleteColumn(t *testing.T) {
	m := lockedModel(t)
	require.NoError(t, m.ctx.Skip())
	m.ctx.Peers = []models.Submission{{
		ID:          "9",
		ControlName: "no drug",
		NewControlSelections: []models.ControlSelection{
			{Value: models.ValueMatch},
			{Value: models.ValueAbsent},
		},
	}}
	m.ctx.PeerTotal = 1
	m.screen = screenReview

	out := m.viewReview()
	assert.Contains(t, out, "COMPLETE")
	assert.Contains(t, out, "no drug")
}

func TestPadIsRuneAware(t *testing.T) {
	// multibyte text must never be cut mid-rune
	got := pad("контроль без антибиотика", 10)
	assert.True(t, strings.HasSuffix(got, "…"))
	for _, r := range got {
		assert.NotEqual(t, '�', r)
	}

	// fill counts display cells, not bytes
	assert.Equal(t, "žába      ", pad("žába", 10))
	assert.Equal(t, "short     ", pad("short", 10))
}
