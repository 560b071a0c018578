package chart

import (
	"testing"
	"time"
	"ytcharts-backend/lib/timezone"

	"github.com/stretchr/testify/require"
)

func TestCurrentWeek(t *testing.T) {
	cases := []struct {
		now    time.Time
		expect Week
	}{
		{
			now:    time.Date(2025, time.January, 30, 12, 0, 0, 0, timezone.Location),
			expect: Week{Year: 2025, Num: 5},
		},
		{
			// the last days of december belong to week 1 of the
			// next iso year
			now:    time.Date(2024, time.December, 30, 0, 0, 0, 0, timezone.Location),
			expect: Week{Year: 2025, Num: 1},
		},
		{
			// ...and the first days of january can belong to week
			// 53 of the previous one
			now:    time.Date(2021, time.January, 1, 0, 0, 0, 0, timezone.Location),
			expect: Week{Year: 2020, Num: 53},
		},
	}

	for _, test := range cases {
		require.Equal(t, test.expect, CurrentWeek(test.now))
	}
}

func TestWeekRoundTrip(t *testing.T) {
	cases := []struct {
		week   Week
		render string
	}{
		{Week{Year: 2025, Num: 5}, "2025-W05"},
		{Week{Year: 2020, Num: 53}, "2020-W53"},
		{Week{Year: 1999, Num: 1}, "1999-W01"},
	}

	for _, test := range cases {
		require.Equal(t, test.render, test.week.String())
		parsed, err := ParseWeek(test.render)
		require.NoError(t, err)
		require.Equal(t, test.week, parsed)
	}
}

func TestParseWeekRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "2025", "2025-05", "2025-W54", "2025-W00", "banana"} {
		_, err := ParseWeek(s)
		require.Error(t, err, "input %q", s)
	}
}

func TestWeekStart(t *testing.T) {
	cases := []struct {
		week   Week
		expect time.Time
	}{
		{
			week:   Week{Year: 2025, Num: 5},
			expect: time.Date(2025, time.January, 27, 0, 0, 0, 0, timezone.Location),
		},
		{
			week:   Week{Year: 2025, Num: 1},
			expect: time.Date(2024, time.December, 30, 0, 0, 0, 0, timezone.Location),
		},
		{
			week:   Week{Year: 2020, Num: 53},
			expect: time.Date(2020, time.December, 28, 0, 0, 0, 0, timezone.Location),
		},
	}

	for _, test := range cases {
		start := test.week.Start()
		require.Equal(t, test.expect, start)
		require.Equal(t, time.Monday, start.Weekday())
	}
}

func TestWeekBefore(t *testing.T) {
	require.True(t, Week{2024, 52}.Before(Week{2025, 1}))
	require.True(t, Week{2025, 4}.Before(Week{2025, 5}))
	require.False(t, Week{2025, 5}.Before(Week{2025, 5}))
	require.False(t, Week{2025, 6}.Before(Week{2025, 5}))
}
