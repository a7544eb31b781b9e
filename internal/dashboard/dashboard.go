package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

type Page string

const (
	PageOverview     Page = "overview"
	PageSegmentation Page = "segmentation"
	PageReports      Page = "reports"
)

func ParsePage(s string) (Page, error) {
	switch p := Page(strings.ToLower(strings.TrimSpace(s))); p {
	case PageOverview, PageSegmentation, PageReports:
		return p, nil
	default:
		return "", fmt.Errorf("unknown page %q (want overview, segmentation or reports)", s)
	}
}

// Dashboard renders one page against the backend.
type Dashboard struct {
	Client   *Client
	Renderer *Renderer
	Page     Page
	Filters  Filters
	Insights bool
}

// Render fetches what the page needs and returns the page text. Backend
// failures are rendered inline rather than returned.
func (d *Dashboard) Render(ctx context.Context) string {
	switch d.Page {
	case PageSegmentation:
		return d.segmentation(ctx)
	case PageReports:
		return d.reports()
	default:
		return d.overview(ctx)
	}
}

func (d *Dashboard) summary(ctx context.Context, out *[]string) *Summary {
	summary, err := d.Client.FetchSummary(ctx, d.Filters)
	if err != nil {
		log.Warn().Err(err).Msg("summary fetch failed")
		*out = append(*out, d.Renderer.Error("Failed to load data from backend: "+err.Error()))
		return &Summary{}
	}
	return summary
}

func (d *Dashboard) overview(ctx context.Context) string {
	r := d.Renderer
	out := []string{r.Title("Overview")}

	summary := d.summary(ctx, &out)
	out = append(out,
		r.KPICards(summary.KPIs),
		r.Section("Trend over time"),
		r.TrendChart(Trend(summary.Events)),
		r.Section("By category"),
		r.BarChart(GroupBy(summary.Events, "category")),
		r.Section("By segment"),
		r.BarChart(GroupBy(summary.Events, "segment")),
	)

	if d.Insights {
		out = append(out, r.Section("AI Insights"), "Automatically generated insights based on current filters.")
		insights, err := d.Client.FetchInsights(ctx, d.Filters)
		switch {
		case errors.Is(err, ErrInsightsUnavailable):
			out = append(out, r.Warning(MsgInsightsOff))
		case err != nil:
			log.Warn().Err(err).Msg("insights fetch failed")
			out = append(out, r.Warning("AI insights error: "+err.Error()))
		default:
			out = append(out, insights)
		}
	}
	return strings.Join(out, "\n")
}

func (d *Dashboard) segmentation(ctx context.Context) string {
	r := d.Renderer
	out := []string{r.Title("Segmentation Explorer")}

	summary := d.summary(ctx, &out)
	out = append(out, r.EventTable(summary.Events))
	return strings.Join(out, "\n")
}

func (d *Dashboard) reports() string {
	r := d.Renderer
	return strings.Join([]string{r.Title("Reports"), r.Info(MsgReports)}, "\n")
}
