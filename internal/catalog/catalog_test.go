package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bioedlabs/controlbench/internal/models"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, c.All())

	for _, q := range c.All() {
		require.NotZero(t, q.ID)
		require.NotEmpty(t, q.Question)
		require.NotEmpty(t, q.MethodologicalConsiderations, "question %d has no features", q.ID)
		for _, f := range q.MethodologicalConsiderations {
			require.Contains(t, []string{"Y", "N"}, f.Absent, "question %d feature %q", q.ID, f.Feature)
			require.NotEmpty(t, f.Option1)
		}
	}
}

func TestByID(t *testing.T) {
	c := New([]models.Question{
		{ID: 1, Question: "first"},
		{ID: 7, Question: "seventh"},
	})

	q, ok := c.ByID(7)
	require.True(t, ok)
	require.Equal(t, "seventh", q.Question)

	_, ok = c.ByID(99)
	require.False(t, ok)
}
