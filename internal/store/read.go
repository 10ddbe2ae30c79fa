package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a key has no stored aggregate.
var ErrNotFound = errors.New("aggregate not found")

// ReadAggregate returns the stored aggregate for a configuration key.
// Returns ErrNotFound when the key was never written.
func (s *Store) ReadAggregate(ctx context.Context, key string) (AggregateRecord, error) {
	var rec AggregateRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT key, run_token, circuit_hash, shots, accepted, ones, failure
		FROM aggregates
		WHERE key = ?
	`, key).Scan(
		&rec.Key,
		&rec.RunToken,
		&rec.CircuitHash,
		&rec.Shots,
		&rec.Accepted,
		&rec.Ones,
		&rec.Failure,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return AggregateRecord{}, fmt.Errorf("read aggregate %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return AggregateRecord{}, fmt.Errorf("read aggregate %q: %w", key, err)
	}
	return rec, nil
}

// ListAggregates returns every aggregate written under a run token,
// ordered by key for stable output.
func (s *Store) ListAggregates(ctx context.Context, runToken string) ([]AggregateRecord, error) {
	return s.QueryAggregates(ctx, Query{RunToken: runToken})
}
