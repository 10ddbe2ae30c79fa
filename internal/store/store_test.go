package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRecord(key, token string) AggregateRecord {
	return AggregateRecord{
		Key:         key,
		RunToken:    token,
		CircuitHash: "deadbeef",
		Shots:       1024,
		Accepted:    1000,
		Ones:        37,
	}
}

func TestOpen_AppliesPragmas(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	assert.NoError(t, s.verifyPragma(ctx, "journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma(ctx, "foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma(ctx, "busy_timeout", "5000"))
}

func TestOpen_Idempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reopen.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.WriteRun(context.Background(), "run-1", "sampler"))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	var version int
	require.NoError(t, s2.DB().QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestWriteReadAggregate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteRun(ctx, "run-1", "sampler"))
	rec := sampleRecord("exp-k1|exp|k=1", "run-1")
	require.NoError(t, s.WriteAggregate(ctx, rec))

	got, err := s.ReadAggregate(ctx, rec.Key)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.InDelta(t, float64(1000-37)/1000, got.P0(), 1e-12)
}

func TestWriteAggregate_UpsertReplaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteRun(ctx, "run-1", "sampler"))
	require.NoError(t, s.WriteRun(ctx, "run-2", "sampler"))

	rec := sampleRecord("key-a", "run-1")
	require.NoError(t, s.WriteAggregate(ctx, rec))

	rec2 := rec
	rec2.RunToken = "run-2"
	rec2.Ones = 99
	require.NoError(t, s.WriteAggregate(ctx, rec2))

	got, err := s.ReadAggregate(ctx, "key-a")
	require.NoError(t, err)
	assert.Equal(t, "run-2", got.RunToken)
	assert.Equal(t, 99, got.Ones)
}

func TestWriteRun_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteRun(ctx, "run-1", "sampler"))
	require.NoError(t, s.WriteRun(ctx, "run-1", "sampler"))
}

func TestWriteAggregate_RequiresRun(t *testing.T) {
	s := openTestStore(t)
	err := s.WriteAggregate(context.Background(), sampleRecord("key-a", "missing-run"))
	assert.Error(t, err)
}

func TestReadAggregate_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.ReadAggregate(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWriteAggregate_FailureRecorded(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteRun(ctx, "run-1", "stub"))

	rec := AggregateRecord{
		Key:      "broken|pft|k=2",
		RunToken: "run-1",
		Failure:  "backend stub: submit broken: queue unavailable",
	}
	require.NoError(t, s.WriteAggregate(ctx, rec))

	got, err := s.ReadAggregate(ctx, rec.Key)
	require.NoError(t, err)
	assert.Equal(t, rec.Failure, got.Failure)
	assert.Equal(t, 0, got.Shots)
	assert.Equal(t, 0.0, got.P0())
}

func TestListAggregates_OrderedByKey(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.WriteRun(ctx, "run-1", "sampler"))

	for _, key := range []string{"b-key", "a-key", "c-key"} {
		require.NoError(t, s.WriteAggregate(ctx, sampleRecord(key, "run-1")))
	}

	got, err := s.ListAggregates(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "a-key", got[0].Key)
	assert.Equal(t, "b-key", got[1].Key)
	assert.Equal(t, "c-key", got[2].Key)

	other, err := s.ListAggregates(ctx, "run-x")
	require.NoError(t, err)
	assert.Empty(t, other)
}
