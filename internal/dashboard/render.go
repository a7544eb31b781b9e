package dashboard

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	MsgNoTrend      = "No trend data available for the selected filters."
	MsgNoComparison = "No data available for category comparison."
	MsgNoRows       = "No data for current filters."
	MsgInsightsOff  = "AI insights endpoint not available yet."
	MsgReports      = "Report generation UI will call backend /api/reports endpoints."

	// MaxTableRows caps the segmentation table.
	MaxTableRows = 500

	barWidth       = 40
	sparklineWidth = 60
)

var sparkTicks = []rune("▁▂▃▄▅▆▇█")

// Theme is the dashboard palette in ANSI 256-color codes.
type Theme struct {
	Title   lipgloss.Color
	Label   lipgloss.Color
	Value   lipgloss.Color
	Border  lipgloss.Color
	Bar     lipgloss.Color
	Info    lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var DefaultTheme = Theme{
	Title:   lipgloss.Color("255"),
	Label:   lipgloss.Color("245"),
	Value:   lipgloss.Color("114"),
	Border:  lipgloss.Color("240"),
	Bar:     lipgloss.Color("75"),
	Info:    lipgloss.Color("75"),
	Warning: lipgloss.Color("220"),
	Error:   lipgloss.Color("196"),
}

type styles struct {
	title   lipgloss.Style
	section lipgloss.Style
	card    lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	bar     lipgloss.Style
	info    lipgloss.Style
	warning lipgloss.Style
	fail    lipgloss.Style
}

// Renderer turns dashboard data into terminal text. Colors are dropped
// automatically when the writer is not a terminal.
type Renderer struct {
	styles  styles
	printer *message.Printer
}

func NewRenderer(w io.Writer, theme Theme) *Renderer {
	lr := lipgloss.NewRenderer(w)
	return &Renderer{
		styles: styles{
			title:   lr.NewStyle().Bold(true).Foreground(theme.Title).MarginBottom(1),
			section: lr.NewStyle().Bold(true).Foreground(theme.Title).MarginTop(1),
			card: lr.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(theme.Border).
				Padding(0, 2).
				Width(24),
			label:   lr.NewStyle().Foreground(theme.Label),
			value:   lr.NewStyle().Bold(true).Foreground(theme.Value),
			bar:     lr.NewStyle().Foreground(theme.Bar),
			info:    lr.NewStyle().Foreground(theme.Info),
			warning: lr.NewStyle().Foreground(theme.Warning),
			fail:    lr.NewStyle().Foreground(theme.Error),
		},
		printer: message.NewPrinter(language.English),
	}
}

func (r *Renderer) Title(s string) string   { return r.styles.title.Render(s) }
func (r *Renderer) Section(s string) string { return r.styles.section.Render(s) }
func (r *Renderer) Info(s string) string    { return r.styles.info.Render("ℹ " + s) }
func (r *Renderer) Warning(s string) string { return r.styles.warning.Render("⚠ " + s) }
func (r *Renderer) Error(s string) string   { return r.styles.fail.Render("✖ " + s) }

// Integer formats n with thousands separators.
func (r *Renderer) Integer(n int64) string {
	return r.printer.Sprintf("%d", n)
}

// Decimal formats f with thousands separators and two decimals.
func (r *Renderer) Decimal(f float64) string {
	return r.printer.Sprintf("%.2f", f)
}

func (r *Renderer) card(label, value string) string {
	return r.styles.card.Render(r.styles.label.Render(label) + "\n" + r.styles.value.Render(value))
}

// KPICards lays the three headline numbers side by side.
func (r *Renderer) KPICards(k KPIs) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		r.card("Total Events", r.Integer(k.TotalEvents)),
		r.card("Total Value", r.Decimal(k.TotalValue)),
		r.card("Avg Value", r.Decimal(k.AvgValue)),
	)
}

// TrendChart draws the points as a sparkline between the first and last
// timestamps.
func (r *Renderer) TrendChart(points []Point) string {
	if len(points) == 0 {
		return r.Info(MsgNoTrend)
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	values = downsample(values, sparklineWidth)

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	var line strings.Builder
	for _, v := range values {
		idx := len(sparkTicks) - 1
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkTicks)-1))
		}
		line.WriteRune(sparkTicks[idx])
	}

	return fmt.Sprintf("%s\n%s  →  %s   min %s  max %s",
		r.styles.bar.Render(line.String()),
		points[0].Label, points[len(points)-1].Label,
		r.Decimal(lo), r.Decimal(hi),
	)
}

// downsample averages values into at most width buckets.
func downsample(values []float64, width int) []float64 {
	if len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := range out {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// BarChart draws one horizontal bar per group scaled to the largest value.
func (r *Renderer) BarChart(groups []Group) string {
	if len(groups) == 0 {
		return r.Info(MsgNoComparison)
	}

	keyWidth, top := 0, 0.0
	for _, g := range groups {
		keyWidth = int(math.Max(float64(keyWidth), float64(lipgloss.Width(g.Key))))
		top = math.Max(top, g.Value)
	}

	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		n := 0
		if top > 0 && g.Value > 0 {
			n = int(math.Round(g.Value / top * barWidth))
		}
		pad := strings.Repeat(" ", keyWidth-lipgloss.Width(g.Key))
		lines = append(lines, fmt.Sprintf("%s%s  %s %s", g.Key, pad, r.styles.bar.Render(strings.Repeat("█", n)), r.Decimal(g.Value)))
	}
	return strings.Join(lines, "\n")
}

// EventTable lists up to MaxTableRows events.
func (r *Renderer) EventTable(rows []EventRow) string {
	if len(rows) == 0 {
		return r.Info(MsgNoRows)
	}
	if len(rows) > MaxTableRows {
		rows = rows[:MaxTableRows]
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("event_time", "category", "segment", "value")
	for _, row := range rows {
		value := ""
		if row.Value != nil {
			value = r.Decimal(*row.Value)
		}
		t.Row(row.EventTime, deref(row.Category), deref(row.Segment), value)
	}
	return t.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
