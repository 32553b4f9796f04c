// Command force-reverify scans a Discourse user directory and deactivates
// accounts not seen since a configurable cutoff, forcing them through email
// re-verification on their next login. It runs in dry-run mode unless
// DRY_RUN=false is set explicitly.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ethsim12/Discourse-Auto-Deactivate-Users-by-REST-API/config"
	"github.com/Ethsim12/Discourse-Auto-Deactivate-Users-by-REST-API/discourse"
	"github.com/Ethsim12/Discourse-Auto-Deactivate-Users-by-REST-API/httpclient"
	"github.com/Ethsim12/Discourse-Auto-Deactivate-Users-by-REST-API/logger"
	"github.com/Ethsim12/Discourse-Auto-Deactivate-Users-by-REST-API/reverify"
)

const (
	exitFailedDeactivations = 1
	exitBadConfig           = 2
	exitAborted             = 3
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return exitBadConfig
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	trustLevels, err := reverify.ParseTrustLevels(cfg.Selection.IncludeTrustLevels)
	if err != nil {
		// Validate already checked the list; this cannot happen.
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return exitBadConfig
	}

	criteria := reverify.Criteria{
		LastSeenBefore: cfg.Selection.LastSeenCutoff(time.Now().UTC()),
		TrustLevels:    trustLevels,
		ExcludeStaff:   cfg.Selection.ExcludeStaff,
	}

	builder := httpclient.NewBuilder(log).
		WithTimeout(cfg.Retry.Timeout()).
		WithRetryPolicy(cfg.Retry.MaxRetries, cfg.Retry.BaseBackoff(), cfg.Retry.MaxBackoff()).
		WithDefaultHeaders(discourse.StaticHeaders(cfg.Discourse.APIKey, cfg.Discourse.APIUser))
	if cfg.Retry.RateLimit > 0 {
		builder = builder.WithRateLimit(cfg.Retry.RateLimit, 1)
	}

	directory := discourse.New(cfg.Discourse.BaseURL, builder.Build(), log)

	log.Info().
		Str("base_url", cfg.Discourse.BaseURL).
		Str("filter", cfg.Selection.Filter).
		Str("cutoff", criteria.LastSeenBefore.Format(time.RFC3339)).
		Str("trust_levels", cfg.Selection.IncludeTrustLevels).
		Str("exclude_staff", fmt.Sprintf("%t", cfg.Selection.ExcludeStaff)).
		Str("dry_run", fmt.Sprintf("%t", cfg.Run.DryRun)).
		Msg("starting stale-account scan")

	runner := reverify.NewRunner(directory, criteria, cfg.Selection.Filter, cfg.Run.DryRun, log)

	bar := reverify.NewProgress(os.Stderr)
	runner.OnProgress(func(page, scanned int) {
		bar.Describe(fmt.Sprintf("page %d", page))
		_ = bar.Set(scanned)
	})

	report, runErr := runner.Run(ctx)
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	reverify.WriteReport(os.Stdout, report, cfg.Run.DryRun)

	if runErr != nil {
		log.Error().Err(runErr).Msg("scan aborted")
		return exitAborted
	}
	if report.Failed > 0 {
		return exitFailedDeactivations
	}
	return 0
}
