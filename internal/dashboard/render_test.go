package dashboard

import (
	"bytes"
	"strings"
	"testing"
)

func newTestRenderer() *Renderer {
	return NewRenderer(&bytes.Buffer{}, DefaultTheme)
}

func TestRenderer_KPICards(t *testing.T) {
	out := newTestRenderer().KPICards(KPIs{TotalEvents: 1234567, TotalValue: 10, AvgValue: 2.5})
	for _, want := range []string{"Total Events", "1,234,567", "Total Value", "10.00", "Avg Value", "2.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("KPI cards missing %q:\n%s", want, out)
		}
	}
}

func TestRenderer_EmptyStates(t *testing.T) {
	r := newTestRenderer()
	tests := []struct {
		name string
		out  string
		want string
	}{
		{"trend", r.TrendChart(nil), MsgNoTrend},
		{"bars", r.BarChart(nil), MsgNoComparison},
		{"table", r.EventTable(nil), MsgNoRows},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.out, tt.want) {
				t.Errorf("got %q, want %q", tt.out, tt.want)
			}
		})
	}
}

func TestRenderer_BarChart(t *testing.T) {
	out := newTestRenderer().BarChart([]Group{{"sales", 10}, {"support", 5}})
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if strings.Count(lines[0], "█") != barWidth || strings.Count(lines[1], "█") != barWidth/2 {
		t.Errorf("bars not scaled:\n%s", out)
	}
}

func TestRenderer_EventTableCapsRows(t *testing.T) {
	rows := make([]EventRow, MaxTableRows+10)
	for i := range rows {
		rows[i] = EventRow{EventTime: "t", Category: strp("row-cat")}
	}
	out := newTestRenderer().EventTable(rows)
	if n := strings.Count(out, "row-cat"); n != MaxTableRows {
		t.Errorf("table has %d rows, want %d", n, MaxTableRows)
	}
}

func TestDownsample(t *testing.T) {
	got := downsample([]float64{1, 3, 5, 7}, 2)
	if len(got) != 2 || got[0] != 2 || got[1] != 6 {
		t.Errorf("downsample = %v", got)
	}
}
