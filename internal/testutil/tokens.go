// Package testutil provides deterministic test doubles shared across
// packages. Run tokens are UUIDv7 in production; pinning or sequencing
// them keeps command output and store contents byte-stable across runs.
package testutil

import (
	"fmt"
	"sync"
)

// FixedToken always generates the same run token.
//
// Every sweep in a test then lands under one predictable token, which
// golden output and store assertions can name directly. If Token is
// empty, Generate returns "run-fixed".
type FixedToken struct {
	Token string
}

// Generate returns the pinned token.
func (g FixedToken) Generate() string {
	if g.Token == "" {
		return "run-fixed"
	}
	return g.Token
}

// TokenSequence generates "<prefix>-0001", "<prefix>-0002", ... for
// tests that need distinct but reproducible tokens per run.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex.
type TokenSequence struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewTokenSequence creates a sequence with the given prefix. An empty
// prefix defaults to "run".
func NewTokenSequence(prefix string) *TokenSequence {
	if prefix == "" {
		prefix = "run"
	}
	return &TokenSequence{prefix: prefix}
}

// Generate returns the next token in the sequence.
func (g *TokenSequence) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
