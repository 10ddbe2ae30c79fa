package store

import (
	"context"
	"fmt"
	"strings"
)

// Query filters stored aggregates. Zero-valued fields match everything,
// so the empty query returns the whole table.
type Query struct {
	RunToken   string // exact run token match
	KeyPrefix  string // literal key prefix
	FailedOnly bool   // only aggregates with a recorded failure
}

// QueryAggregates returns the aggregates matching q, ordered by key for
// deterministic output. All values are parameterized, never
// interpolated.
func (s *Store) QueryAggregates(ctx context.Context, q Query) ([]AggregateRecord, error) {
	var (
		where []string
		args  []any
	)
	if q.RunToken != "" {
		where = append(where, "run_token = ?")
		args = append(args, q.RunToken)
	}
	if q.KeyPrefix != "" {
		where = append(where, `key LIKE ? ESCAPE '\'`)
		args = append(args, escapeLike(q.KeyPrefix)+"%")
	}
	if q.FailedOnly {
		where = append(where, "failure != ''")
	}

	var sb strings.Builder
	sb.WriteString("SELECT key, run_token, circuit_hash, shots, accepted, ones, failure FROM aggregates")
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY key")

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query aggregates: %w", err)
	}
	defer rows.Close()

	var out []AggregateRecord
	for rows.Next() {
		var rec AggregateRecord
		if err := rows.Scan(
			&rec.Key,
			&rec.RunToken,
			&rec.CircuitHash,
			&rec.Shots,
			&rec.Accepted,
			&rec.Ones,
			&rec.Failure,
		); err != nil {
			return nil, fmt.Errorf("query aggregates: scan: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query aggregates: %w", err)
	}
	return out, nil
}

// escapeLike escapes LIKE metacharacters so a prefix is matched
// literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return r.Replace(s)
}
