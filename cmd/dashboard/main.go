package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"metricly/internal/dashboard"
)

const refreshInterval = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flagSet := pflag.NewFlagSet("dashboard", pflag.ContinueOnError)
	flagSet.String("backend-url", "http://localhost:8000", "analytics backend base URL (env BACKEND_API_URL)")
	flagSet.String("token", "", "bearer token for the backend (env DASHBOARD_TOKEN)")
	flagSet.String("page", string(dashboard.PageOverview), "page to show: overview, segmentation or reports")
	flagSet.String("from", "", "only events on or after this date (YYYY-MM-DD)")
	flagSet.String("to", "", "only events on or before this date (YYYY-MM-DD)")
	flagSet.String("category", "", "category contains")
	flagSet.String("segment", "", "segment contains")
	flagSet.Bool("auto-refresh", false, "re-render every 30s until interrupted")
	flagSet.Bool("insights", true, "show the AI insights panel on the overview page")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	v := viper.New()
	if err := v.BindPFlags(flagSet); err != nil {
		return err
	}
	// Flags win over env, env over flag defaults.
	v.BindEnv("backend-url", "BACKEND_API_URL")
	v.BindEnv("token", "DASHBOARD_TOKEN")

	page, err := dashboard.ParsePage(v.GetString("page"))
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	d := &dashboard.Dashboard{
		Client:   dashboard.NewClient(v.GetString("backend-url"), v.GetString("token")),
		Renderer: dashboard.NewRenderer(os.Stdout, dashboard.DefaultTheme),
		Page:     page,
		Filters: dashboard.Filters{
			DateFrom: v.GetString("from"),
			DateTo:   v.GetString("to"),
			Category: v.GetString("category"),
			Segment:  v.GetString("segment"),
		},
		Insights: v.GetBool("insights"),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	autoRefresh := v.GetBool("auto-refresh")
	interval := time.Duration(0)
	if autoRefresh {
		interval = refreshInterval
	}

	dashboard.Poll(ctx, interval, func(ctx context.Context) {
		out := d.Render(ctx)
		if autoRefresh {
			// Clear the screen and home the cursor between frames.
			fmt.Print("\033[H\033[2J")
		}
		fmt.Println(out)
		if autoRefresh {
			fmt.Printf("\nLast refresh %s, next in %s. Ctrl-C to quit.\n", time.Now().Format(time.Kitchen), refreshInterval)
		}
		log.Debug().Str("page", string(page)).Msg("rendered")
	})
	return nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Terminal analytics dashboard.

Reads KPIs and events from the backend's /api/summary endpoint and renders
them as cards and charts. Backend failures are shown inline.

Usage:
  dashboard [flags]

Examples:
  # Overview for March, refreshed every 30s
  dashboard --from 2024-03-01 --to 2024-03-31 --auto-refresh

  # Raw rows for one segment
  dashboard --page segmentation --segment enterprise

Flags:
`)
	flagSet.PrintDefaults()
}
