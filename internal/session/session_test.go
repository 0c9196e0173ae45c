package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	assert.Equal(t, "", Resolve("  "))
	assert.Equal(t, "abc123", Resolve(" abc123 "))
	assert.Equal(t, Individual, Resolve("individual"))
}

func TestNewGroupToken(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok := NewGroupToken()
		require.Len(t, tok, tokenLen)
		assert.False(t, IsIndividual(tok))
		assert.False(t, seen[tok], "token collision: %s", tok)
		seen[tok] = true
		for _, r := range tok {
			assert.True(t, (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z'), "unexpected rune %q", r)
		}
	}
}

func TestShareLink(t *testing.T) {
	link := ShareLink("http://localhost:8080/activity", "tok42")
	assert.Equal(t, "http://localhost:8080/activity?sessionId=tok42", link)
}
