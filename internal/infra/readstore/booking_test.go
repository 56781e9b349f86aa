//go:build unit

package readstore

import (
	"testing"
	"time"

	"lendloop/internal/usecase/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A booking whose end (or start) falls exactly on the reference instant still
// belongs to the PAST (or FUTURE) listing, so the generated clauses must be
// inclusive.
func TestApplyPredicateSQL(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	build := func(pred queries.BookingPredicate) string {
		sql, _, err := applyPredicate(psql.Select("b.id").From("bookings b"), pred).ToSql()
		require.NoError(t, err)
		return sql
	}

	t.Run("past includes a booking ending at the instant", func(t *testing.T) {
		sql := build(queries.BookingPredicate{EndBefore: &now})
		assert.Contains(t, sql, "b.end_at <= $1")
	})

	t.Run("future includes a booking starting at the instant", func(t *testing.T) {
		sql := build(queries.BookingPredicate{StartAfter: &now})
		assert.Contains(t, sql, "b.start_at >= $1")
	})

	t.Run("current spans both boundaries inclusively", func(t *testing.T) {
		sql := build(queries.BookingPredicate{CurrentAt: &now})
		assert.Contains(t, sql, "b.start_at <= $1")
		assert.Contains(t, sql, "b.end_at >= $2")
	})

	t.Run("status filters verbatim", func(t *testing.T) {
		status := "WAITING"
		sql := build(queries.BookingPredicate{Status: &status})
		assert.Contains(t, sql, "b.status = $1")
	})

	t.Run("empty predicate adds no clause", func(t *testing.T) {
		sql := build(queries.BookingPredicate{})
		assert.NotContains(t, sql, "WHERE")
	})
}
