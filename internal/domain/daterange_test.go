package domain

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, start, end string) DateRange {
	t.Helper()
	r, err := NewDateRange(start, end)
	require.NoError(t, err)
	return r
}

func TestNewDateRange(t *testing.T) {
	t.Run("valid range", func(t *testing.T) {
		r, err := NewDateRange("2026-01-10", "2026-01-20")
		require.NoError(t, err)
		assert.Equal(t, 11, r.Days())
	})

	t.Run("single day", func(t *testing.T) {
		r, err := NewDateRange("2026-01-10", "2026-01-10")
		require.NoError(t, err)
		assert.Equal(t, 1, r.Days())
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := NewDateRange("2026-01-20", "2026-01-10")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("malformed date", func(t *testing.T) {
		_, err := NewDateRange("20-01-2026", "2026-01-10")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestDateRangeOverlaps(t *testing.T) {
	base := mustRange(t, "2026-01-10", "2026-01-20")

	tests := []struct {
		name  string
		other DateRange
		want  bool
	}{
		{"partial overlap tail", mustRange(t, "2026-01-15", "2026-01-25"), true},
		{"partial overlap head", mustRange(t, "2026-01-05", "2026-01-12"), true},
		{"fully inside", mustRange(t, "2026-01-12", "2026-01-14"), true},
		{"fully covers", mustRange(t, "2026-01-01", "2026-01-31"), true},
		{"shared boundary day", mustRange(t, "2026-01-20", "2026-01-25"), true},
		{"adjacent after", mustRange(t, "2026-01-21", "2026-01-25"), false},
		{"adjacent before", mustRange(t, "2026-01-01", "2026-01-09"), false},
		{"disjoint", mustRange(t, "2026-03-01", "2026-03-10"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

// TestDateRangeOverlapsRandomized cross-checks Overlaps against a brute-force
// shared-day scan over randomized ranges. Seeded so failures reproduce.
func TestDateRangeOverlapsRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	randomRange := func() DateRange {
		start := base.AddDate(0, 0, rng.Intn(120))
		end := start.AddDate(0, 0, rng.Intn(30))
		r, err := NewDateRange(start.Format(DateFormat), end.Format(DateFormat))
		require.NoError(t, err)
		return r
	}

	shareADay := func(a, b DateRange) bool {
		for day := a.Start; !day.After(a.End); day = day.AddDate(0, 0, 1) {
			if b.Contains(day) {
				return true
			}
		}
		return false
	}

	for i := 0; i < 500; i++ {
		a, b := randomRange(), randomRange()
		want := shareADay(a, b)
		assert.Equal(t, want, a.Overlaps(b), "a=%s b=%s", a, b)
		assert.Equal(t, want, b.Overlaps(a), "overlap must be symmetric: a=%s b=%s", a, b)
	}
}

func TestDateRangeContains(t *testing.T) {
	r := mustRange(t, "2026-01-10", "2026-01-20")

	assert.True(t, r.Contains(time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2026, 1, 20, 23, 59, 0, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2026, 1, 21, 0, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)))
}

func TestDateRangeEndedBefore(t *testing.T) {
	r := mustRange(t, "2026-01-10", "2026-01-20")

	assert.True(t, r.EndedBefore(time.Date(2026, 1, 21, 0, 0, 0, 0, time.UTC)))
	assert.False(t, r.EndedBefore(time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)))
	assert.False(t, r.EndedBefore(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)))
}
