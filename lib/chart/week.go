package chart

import (
	"fmt"
	"time"
	"ytcharts-backend/lib/timezone"
)

// Week identifies an ISO-8601 week, the unit the charts site publishes
// on and the unit the archive partitions databases by.
type Week struct {
	Year int
	Num  int
}

func CurrentWeek(t time.Time) Week {
	year, num := t.In(timezone.Location).ISOWeek()
	return Week{Year: year, Num: num}
}

// ParseWeek parses the `YYYY-WXX` form produced by String.
func ParseWeek(s string) (Week, error) {
	var w Week
	_, err := fmt.Sscanf(s, "%d-W%d", &w.Year, &w.Num)
	if err != nil {
		return Week{}, fmt.Errorf("parse week %q: %w", s, err)
	}
	if w.Num < 1 || w.Num > 53 || w.Year < 1 {
		return Week{}, fmt.Errorf("parse week %q: out of range", s)
	}
	return w, nil
}

func (w Week) String() string {
	return fmt.Sprintf("%04d-W%02d", w.Year, w.Num)
}

// Start returns the Monday this ISO week begins on, in the chart
// timezone. January 4th is always inside week 1.
func (w Week) Start() time.Time {
	jan4 := time.Date(w.Year, time.January, 4, 0, 0, 0, 0, timezone.Location)
	sinceMonday := (int(jan4.Weekday()) + 6) % 7
	week1Monday := jan4.AddDate(0, 0, -sinceMonday)
	return week1Monday.AddDate(0, 0, (w.Num-1)*7)
}

func (w Week) Before(other Week) bool {
	if w.Year != other.Year {
		return w.Year < other.Year
	}
	return w.Num < other.Num
}
