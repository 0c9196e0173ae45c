// Package session resolves the token that groups submissions. A client is
// either in a shared group session (random token carried in the join link)
// or in individual mode, which uses a fixed sentinel token.
package session

import (
	"math/big"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Individual is the sentinel token for clients working alone. The query
// layer treats it specially: it also matches legacy documents stored before
// session tokens existed.
const Individual = "individual"

// tokenLen matches the shape of existing share codes in stored links.
const tokenLen = 13

// Resolve normalizes a raw token taken from a query parameter or flag.
// An empty result means the client still has to choose a mode.
func Resolve(raw string) string {
	return strings.TrimSpace(raw)
}

// IsIndividual reports whether token is the individual sentinel.
func IsIndividual(token string) bool {
	return token == Individual
}

// NewGroupToken generates a short shareable group token: lowercase base-36,
// derived from a random UUID.
func NewGroupToken() string {
	id := uuid.New()
	t := new(big.Int).SetBytes(id[:]).Text(36)
	if len(t) > tokenLen {
		t = t[:tokenLen]
	}
	return t
}

// ShareLink builds the join URL participants open to enter the same group.
func ShareLink(base, token string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?sessionId=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("sessionId", token)
	u.RawQuery = q.Encode()
	return u.String()
}
