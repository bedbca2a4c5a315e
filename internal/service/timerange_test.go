package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolveRange(t *testing.T) {
	now := time.Date(2025, time.March, 15, 14, 30, 45, 0, time.UTC)

	t.Run("day starts at midnight", func(t *testing.T) {
		r := ResolveRange(PeriodDay, now)
		require.Equal(t, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), r.Start)
		require.Equal(t, now, r.End)
	})

	t.Run("week keeps time of day", func(t *testing.T) {
		r := ResolveRange(PeriodWeek, now)
		require.Equal(t, time.Date(2025, time.March, 8, 14, 30, 45, 0, time.UTC), r.Start)
	})

	t.Run("month starts on the first", func(t *testing.T) {
		r := ResolveRange(PeriodMonth, now)
		require.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), r.Start)
	})

	t.Run("year starts on january first", func(t *testing.T) {
		r := ResolveRange(PeriodYear, now)
		require.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), r.Start)
	})

	t.Run("unknown keyword falls back to day", func(t *testing.T) {
		r := ResolveRange("quarter", now)
		require.Equal(t, ResolveRange(PeriodDay, now), r)
	})
}
