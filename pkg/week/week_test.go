package week_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/weekplan/pkg/week"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeAt_MidWeekReference(t *testing.T) {
	// Wednesday 2025-01-22
	w := week.ComputeAt(date(2025, time.January, 22), date(2025, time.January, 22))

	assert.Equal(t, date(2025, time.January, 20), w.Start) // Monday
	assert.Equal(t, date(2025, time.January, 26), w.End)   // Sunday
	assert.Equal(t, "Jan 20 - 26, 2025", w.Label)

	require.Len(t, w.Days, 7)
	for i := 1; i < 7; i++ {
		assert.True(t, w.Days[i].Date.After(w.Days[i-1].Date), "days must ascend")
	}
	assert.Equal(t, "MON", w.Days[0].Name)
	assert.Equal(t, "SUN", w.Days[6].Name)
	assert.Equal(t, 20, w.Days[0].DayOfMonth)
}

func TestComputeAt_TodayAndPastFlags(t *testing.T) {
	now := time.Date(2025, time.January, 22, 15, 30, 0, 0, time.UTC)
	w := week.ComputeAt(now, now)

	for i, d := range w.Days {
		switch {
		case i < 2:
			assert.True(t, d.IsPast, "day %d should be past", i)
			assert.False(t, d.IsToday)
		case i == 2:
			assert.True(t, d.IsToday, "Wednesday is today")
			assert.False(t, d.IsPast, "today itself is not past")
		default:
			assert.False(t, d.IsPast)
			assert.False(t, d.IsToday)
		}
	}
}

func TestComputeAt_MondayAndSundayReferences(t *testing.T) {
	tests := []struct {
		name string
		ref  time.Time
	}{
		{"monday", date(2025, time.January, 20)},
		{"sunday", date(2025, time.January, 26)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := week.ComputeAt(tt.ref, tt.ref)
			assert.Equal(t, date(2025, time.January, 20), w.Start)
			assert.Equal(t, date(2025, time.January, 26), w.End)
		})
	}
}

func TestComputeAt_CrossMonthLabel(t *testing.T) {
	w := week.ComputeAt(date(2025, time.January, 29), date(2025, time.January, 29))
	assert.Equal(t, date(2025, time.January, 27), w.Start)
	assert.Equal(t, date(2025, time.February, 2), w.End)
	assert.Equal(t, "Jan 27 - Feb 2, 2025", w.Label)
}

func TestComputeAt_CrossYearLabel(t *testing.T) {
	w := week.ComputeAt(date(2025, time.December, 31), date(2025, time.December, 31))
	assert.Equal(t, date(2025, time.December, 29), w.Start)
	assert.Equal(t, date(2026, time.January, 4), w.End)
	assert.Equal(t, "Dec 29 - Jan 4, 2026", w.Label)
}

func TestNextPrev(t *testing.T) {
	d := date(2025, time.January, 22)
	assert.Equal(t, date(2025, time.January, 29), week.Next(d))
	assert.Equal(t, date(2025, time.January, 15), week.Prev(d))
}

func TestWindowContains(t *testing.T) {
	w := week.ComputeAt(date(2025, time.January, 22), date(2025, time.January, 22))
	assert.True(t, w.Contains(date(2025, time.January, 20)))
	assert.True(t, w.Contains(date(2025, time.January, 26)))
	assert.False(t, w.Contains(date(2025, time.January, 19)))
	assert.False(t, w.Contains(date(2025, time.January, 27)))
}

func TestParseAndFormatDate(t *testing.T) {
	d, err := week.ParseDate("2025-01-20")
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.January, 20), d)
	assert.Equal(t, "2025-01-20", week.FormatDate(d))

	_, err = week.ParseDate("01/20/2025")
	assert.Error(t, err)
}

func TestIsDateToken(t *testing.T) {
	assert.True(t, week.IsDateToken("2025-01-20"))
	assert.False(t, week.IsDateToken("not-a-date"))
	assert.False(t, week.IsDateToken("2025-1-2"))
	assert.False(t, week.IsDateToken("f47ac10b-58cc-4372-a567-0e02b2c3d479"))
}
