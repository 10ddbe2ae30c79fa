package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedQueryFixture(t *testing.T) *Store {
	t.Helper()
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteRun(ctx, "run-1", "sampler"))
	require.NoError(t, s.WriteRun(ctx, "run-2", "sampler"))

	require.NoError(t, s.WriteAggregate(ctx, sampleRecord("survival-k1|exp", "run-1")))
	require.NoError(t, s.WriteAggregate(ctx, sampleRecord("survival-k2|exp", "run-1")))
	require.NoError(t, s.WriteAggregate(ctx, sampleRecord("qpe-k1|exp", "run-2")))

	broken := sampleRecord("qpe-k2|exp", "run-2")
	broken.Failure = "backend unavailable"
	require.NoError(t, s.WriteAggregate(ctx, broken))

	return s
}

func keysOf(recs []AggregateRecord) []string {
	keys := make([]string, len(recs))
	for i, rec := range recs {
		keys[i] = rec.Key
	}
	return keys
}

func TestQueryAggregates_Empty_MatchesAll(t *testing.T) {
	s := seedQueryFixture(t)

	recs, err := s.QueryAggregates(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"qpe-k1|exp", "qpe-k2|exp", "survival-k1|exp", "survival-k2|exp"}, keysOf(recs))
}

func TestQueryAggregates_ByRunToken(t *testing.T) {
	s := seedQueryFixture(t)

	recs, err := s.QueryAggregates(context.Background(), Query{RunToken: "run-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"survival-k1|exp", "survival-k2|exp"}, keysOf(recs))
}

func TestQueryAggregates_ByKeyPrefix(t *testing.T) {
	s := seedQueryFixture(t)

	recs, err := s.QueryAggregates(context.Background(), Query{KeyPrefix: "qpe-"})
	require.NoError(t, err)
	assert.Equal(t, []string{"qpe-k1|exp", "qpe-k2|exp"}, keysOf(recs))
}

func TestQueryAggregates_FailedOnly(t *testing.T) {
	s := seedQueryFixture(t)

	recs, err := s.QueryAggregates(context.Background(), Query{FailedOnly: true})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "qpe-k2|exp", recs[0].Key)
	assert.Equal(t, "backend unavailable", recs[0].Failure)
}

func TestQueryAggregates_Combined(t *testing.T) {
	s := seedQueryFixture(t)

	recs, err := s.QueryAggregates(context.Background(), Query{
		RunToken:  "run-2",
		KeyPrefix: "qpe-k1",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"qpe-k1|exp"}, keysOf(recs))
}

func TestQueryAggregates_PrefixIsLiteral(t *testing.T) {
	s := seedQueryFixture(t)
	ctx := context.Background()

	// A key containing LIKE metacharacters must only match itself.
	require.NoError(t, s.WriteAggregate(ctx, sampleRecord("odd_key%1", "run-1")))

	recs, err := s.QueryAggregates(ctx, Query{KeyPrefix: "odd_key%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"odd_key%1"}, keysOf(recs))

	// The underscore must not act as a single-character wildcard.
	recs, err = s.QueryAggregates(ctx, Query{KeyPrefix: "odd_k"})
	require.NoError(t, err)
	assert.Equal(t, []string{"odd_key%1"}, keysOf(recs))

	recs, err = s.QueryAggregates(ctx, Query{KeyPrefix: "oddXk"})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `plain`, escapeLike("plain"))
	assert.Equal(t, `a\%b`, escapeLike("a%b"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
}
