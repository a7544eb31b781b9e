package dashboard

import (
	"sort"
	"time"
)

// Point is one sample of the trend line.
type Point struct {
	Label string
	Time  time.Time
	Value float64
}

// Group is a summed bucket of a categorical dimension.
type Group struct {
	Key   string
	Value float64
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

func parseEventTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Trend orders rows by event time. Rows without a value are skipped.
func Trend(rows []EventRow) []Point {
	points := make([]Point, 0, len(rows))
	for _, row := range rows {
		if row.Value == nil || row.EventTime == "" {
			continue
		}
		t, _ := parseEventTime(row.EventTime)
		points = append(points, Point{Label: row.EventTime, Time: t, Value: *row.Value})
	}

	sort.SliceStable(points, func(i, j int) bool {
		if !points[i].Time.IsZero() && !points[j].Time.IsZero() {
			return points[i].Time.Before(points[j].Time)
		}
		return points[i].Label < points[j].Label
	})
	return points
}

// GroupBy sums values per category or segment, largest first, ties by key.
// Rows with no key are left out and a missing value counts as zero. by must
// be "category" or "segment"; anything else yields no groups.
func GroupBy(rows []EventRow, by string) []Group {
	sums := make(map[string]float64)

	for _, row := range rows {
		var key *string
		switch by {
		case "category":
			key = row.Category
		case "segment":
			key = row.Segment
		default:
			return nil
		}
		if key == nil {
			continue
		}
		var v float64
		if row.Value != nil {
			v = *row.Value
		}
		sums[*key] += v
	}

	groups := make([]Group, 0, len(sums))
	for k, v := range sums {
		groups = append(groups, Group{Key: k, Value: v})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Value != groups[j].Value {
			return groups[i].Value > groups[j].Value
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}
