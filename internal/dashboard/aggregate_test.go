package dashboard

import "testing"

func strp(s string) *string     { return &s }
func floatp(f float64) *float64 { return &f }

func TestTrend(t *testing.T) {
	rows := []EventRow{
		{EventTime: "2024-03-03T00:00:00Z", Value: floatp(3)},
		{EventTime: "2024-03-01T00:00:00Z", Value: floatp(1)},
		{EventTime: "2024-03-02T00:00:00Z"},
		{EventTime: "2024-03-02T12:00:00+02:00", Value: floatp(2)},
	}

	points := Trend(rows)
	if len(points) != 3 {
		t.Fatalf("got %d points, want 3", len(points))
	}
	for i, want := range []float64{1, 2, 3} {
		if points[i].Value != want {
			t.Errorf("point %d = %v, want %v", i, points[i].Value, want)
		}
	}
}

func TestGroupBy(t *testing.T) {
	rows := []EventRow{
		{Category: strp("b"), Segment: strp("x"), Value: floatp(1)},
		{Category: strp("a"), Value: floatp(5)},
		{Category: strp("b"), Value: floatp(2)},
		{Category: strp("c")},
		{Value: floatp(100)},
	}

	got := GroupBy(rows, "category")
	want := []Group{{"a", 5}, {"b", 3}, {"c", 0}}
	if len(got) != len(want) {
		t.Fatalf("GroupBy = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("group %d = %v, want %v", i, got[i], want[i])
		}
	}

	if seg := GroupBy(rows, "segment"); len(seg) != 1 || seg[0].Key != "x" {
		t.Errorf("segment groups = %v", seg)
	}
	if GroupBy(rows, "region") != nil {
		t.Error("unknown dimension should yield nil")
	}
}
