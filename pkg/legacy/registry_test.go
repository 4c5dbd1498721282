package legacy_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pawpremium/pkg/legacy"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEntry_ActiveOn_DayBoundary(t *testing.T) {
	t.Parallel()

	entry := legacy.Entry{UserID: "u1", EndDate: day(2026, time.March, 10)}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"day before end", day(2026, time.March, 9).Add(23 * time.Hour), true},
		{"end date early morning", day(2026, time.March, 10).Add(time.Minute), true},
		{"end date late evening", day(2026, time.March, 10).Add(23*time.Hour + 59*time.Minute), true},
		{"one day after", day(2026, time.March, 11), false},
		{"one day after late evening", day(2026, time.March, 11).Add(23 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, entry.ActiveOn(tt.now, time.UTC))
		})
	}
}

func TestEntry_ActiveOn_UsesLocationDate(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+10", 10*60*60)
	entry := legacy.Entry{UserID: "u1", EndDate: day(2026, time.March, 10)}

	// 2026-03-10 20:00 UTC is already 2026-03-11 in UTC+10.
	now := time.Date(2026, time.March, 10, 20, 0, 0, 0, time.UTC)
	assert.True(t, entry.ActiveOn(now, time.UTC))
	assert.False(t, entry.ActiveOn(now, loc))
}

func TestRegistry_EndDateInclusiveWestOfUTC(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC-5", -5*60*60)
	src := `
- email: owner@example.com
  user_id: u1
  start_date: 2023-01-01
  end_date: 2026-03-10
`
	reg, err := legacy.Parse(strings.NewReader(src), legacy.WithLocation(loc))
	require.NoError(t, err)

	assert.True(t, reg.IsActiveAt("u1", time.Date(2026, time.March, 10, 0, 30, 0, 0, loc)))
	assert.True(t, reg.IsActiveAt("u1", time.Date(2026, time.March, 10, 12, 0, 0, 0, loc)))
	assert.True(t, reg.IsActiveAt("u1", time.Date(2026, time.March, 10, 23, 59, 0, 0, loc)))
	assert.False(t, reg.IsActiveAt("u1", time.Date(2026, time.March, 11, 0, 1, 0, 0, loc)))
}

func TestRegistry_Lookups(t *testing.T) {
	t.Parallel()

	reg, err := legacy.New([]legacy.Entry{
		{Email: "Owner@Example.com", UserID: "u1", StartDate: day(2023, 1, 1), EndDate: day(2024, 1, 1)},
		{Email: "owner@example.com", UserID: "u2", StartDate: day(2024, 1, 1), EndDate: day(2027, 1, 1)},
		{Email: "other@example.com", UserID: "u3", EndDate: day(2025, 6, 1)},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Len())

	t.Run("by user id", func(t *testing.T) {
		e, ok := reg.LookupByUserID("u1")
		require.True(t, ok)
		assert.Equal(t, day(2024, 1, 1), e.EndDate)

		_, ok = reg.LookupByUserID("missing")
		assert.False(t, ok)
	})

	t.Run("by email picks latest end date", func(t *testing.T) {
		e, ok := reg.LookupByEmail("  OWNER@example.com ")
		require.True(t, ok)
		assert.Equal(t, "u2", e.UserID)
	})

	t.Run("active is evaluated per user id", func(t *testing.T) {
		now := day(2026, time.October, 14)
		assert.False(t, reg.IsActiveAt("u1", now))
		assert.True(t, reg.IsActiveAt("u2", now))
		assert.False(t, reg.IsActiveAt("missing", now))
	})

	t.Run("returned entries are copies", func(t *testing.T) {
		e, _ := reg.LookupByUserID("u3")
		e.EndDate = day(2099, 1, 1)
		again, _ := reg.LookupByUserID("u3")
		assert.Equal(t, day(2025, 6, 1), again.EndDate)
	})
}

func TestRegistry_IsActive_UsesClock(t *testing.T) {
	t.Parallel()

	now := day(2026, time.October, 14).Add(15 * time.Hour)
	reg, err := legacy.New(
		[]legacy.Entry{{UserID: "u1", EndDate: day(2026, time.October, 14)}},
		legacy.WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)

	assert.True(t, reg.IsActive("u1"))
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := legacy.New([]legacy.Entry{{Email: "a@b.c", EndDate: day(2026, 1, 1)}})
	assert.ErrorIs(t, err, legacy.ErrInvalidEntry)

	_, err = legacy.New([]legacy.Entry{{UserID: "u1"}})
	assert.ErrorIs(t, err, legacy.ErrInvalidEntry)

	_, err = legacy.New([]legacy.Entry{
		{UserID: "u1", EndDate: day(2026, 1, 1)},
		{UserID: "u1", EndDate: day(2027, 1, 1)},
	})
	assert.ErrorIs(t, err, legacy.ErrDuplicateUserID)
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("parses date-only and rfc3339", func(t *testing.T) {
		t.Parallel()
		src := `
- email: first@example.com
  user_id: u1
  start_date: 2023-02-01
  end_date: 2026-12-31
- email: second@example.com
  user_id: u2
  start_date: "2023-02-01T00:00:00Z"
  end_date: "2024-02-01T10:30:00Z"
`
		reg, err := legacy.Parse(strings.NewReader(src))
		require.NoError(t, err)
		require.Equal(t, 2, reg.Len())

		e, ok := reg.LookupByUserID("u1")
		require.True(t, ok)
		assert.Equal(t, day(2026, time.December, 31), e.EndDate)
		assert.Equal(t, "first@example.com", e.Email)

		e, ok = reg.LookupByEmail("second@example.com")
		require.True(t, ok)
		assert.Equal(t, "u2", e.UserID)
	})

	t.Run("empty document yields empty registry", func(t *testing.T) {
		t.Parallel()
		reg, err := legacy.Parse(strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, 0, reg.Len())
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		t.Parallel()
		_, err := legacy.Parse(strings.NewReader("- user_id: u1\n  end_date: 31/12/2026\n"))
		assert.ErrorIs(t, err, legacy.ErrInvalidEntry)
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		t.Parallel()
		_, err := legacy.Parse(strings.NewReader("user_id: [unterminated"))
		assert.ErrorIs(t, err, legacy.ErrFailedToLoadRegistry)
	})
}

func TestLoadFile_EmptyPath(t *testing.T) {
	t.Parallel()

	reg, err := legacy.LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, 0, reg.Len())

	_, err = legacy.LoadFile("/nonexistent/legacy.yaml")
	assert.ErrorIs(t, err, legacy.ErrFailedToLoadRegistry)
}
