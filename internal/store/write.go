package store

import (
	"context"
	"fmt"
)

// AggregateRecord is one configuration's stored result. Failure is empty
// for successful configurations; failed ones keep their reason and zero
// counts so a sweep's holes stay visible.
type AggregateRecord struct {
	Key         string
	RunToken    string
	CircuitHash string
	Shots       int
	Accepted    int
	Ones        int
	Failure     string
}

// P0 is the stored postselected probability of reading logical zero.
func (r AggregateRecord) P0() float64 {
	if r.Accepted == 0 {
		return 0
	}
	return float64(r.Accepted-r.Ones) / float64(r.Accepted)
}

// WriteRun inserts a run record. Uses ON CONFLICT(token) DO NOTHING for
// idempotency - rewriting the same run token is silently ignored.
func (s *Store) WriteRun(ctx context.Context, token, backend string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (token, backend)
		VALUES (?, ?)
		ON CONFLICT(token) DO NOTHING
	`, token, backend)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// WriteAggregate upserts one configuration's aggregate under its key.
// Re-running a configuration replaces the previous row; distinct keys
// never interfere.
//
// Note: The run referenced by RunToken must exist (foreign key constraint).
func (s *Store) WriteAggregate(ctx context.Context, rec AggregateRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO aggregates
		(key, run_token, circuit_hash, shots, accepted, ones, failure)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			run_token    = excluded.run_token,
			circuit_hash = excluded.circuit_hash,
			shots        = excluded.shots,
			accepted     = excluded.accepted,
			ones         = excluded.ones,
			failure      = excluded.failure,
			updated_at   = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
	`,
		rec.Key,
		rec.RunToken,
		rec.CircuitHash,
		rec.Shots,
		rec.Accepted,
		rec.Ones,
		rec.Failure,
	)
	if err != nil {
		return fmt.Errorf("write aggregate: %w", err)
	}
	return nil
}
