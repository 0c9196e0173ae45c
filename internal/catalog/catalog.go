// Package catalog holds the static experiment-question dataset. The data is
// the output of the one-time CSV conversion, embedded at build time and
// read-only at runtime.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/bioedlabs/controlbench/internal/models"
)

//go:embed questions.json
var questionsJSON []byte

type Catalog struct {
	questions []models.Question
	byID      map[int]models.Question
}

// Load parses the embedded question dataset.
func Load() (*Catalog, error) {
	var qs []models.Question
	if err := json.Unmarshal(questionsJSON, &qs); err != nil {
		return nil, fmt.Errorf("catalog: parse questions: %w", err)
	}
	return New(qs), nil
}

// New builds a catalog from an explicit question list. Used by tests.
func New(qs []models.Question) *Catalog {
	byID := make(map[int]models.Question, len(qs))
	for _, q := range qs {
		byID[q.ID] = q
	}
	return &Catalog{questions: qs, byID: byID}
}

// All returns every question in dataset order.
func (c *Catalog) All() []models.Question {
	return c.questions
}

// ByID looks a question up by its numeric id.
func (c *Catalog) ByID(id int) (models.Question, bool) {
	q, ok := c.byID[id]
	return q, ok
}
