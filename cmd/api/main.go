/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package main

import (
    "os"
    "os/signal"
    "syscall"

    "github.com/rs/zerolog"
    "github.com/spf13/cobra"

    "github.com/sproutagile/support-agent/internal/adapters/jira"
    "github.com/sproutagile/support-agent/internal/cache"
    "github.com/sproutagile/support-agent/internal/config"
    apphttp "github.com/sproutagile/support-agent/internal/http"
    "github.com/sproutagile/support-agent/internal/jobs"
    "github.com/sproutagile/support-agent/internal/logger"
    "github.com/sproutagile/support-agent/internal/services"
)

var verbose bool

var rootCmd = &cobra.Command{
    Use:   "support-agent",
    Short: "Support dashboard backend: aggregates Jira tickets into support metrics",
    Run:   run,
}

func init() {
    rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

func run(cmd *cobra.Command, args []string) {
    cfg := config.Load()
    log := logger.New(cfg)
    if verbose {
        zerolog.SetGlobalLevel(zerolog.DebugLevel)
    } else {
        zerolog.SetGlobalLevel(zerolog.InfoLevel)
    }

    // Adapters
    jc := jira.NewClient(cfg, log)

    // Cache starts empty every process, so a redeploy never serves aggregates
    // computed by older code.
    store := cache.New(cfg.CacheTTL, cfg.CacheMaxEntries)

    svc := services.NewService(cfg, log, jc, store)
    router := apphttp.NewRouter(cfg, log, svc)

    sweeper := jobs.NewCron(cfg, log, store)
    sweeper.Start()
    defer sweeper.Stop()

    errCh := make(chan error, 1)
    go func() { errCh <- router.Run(cfg.HTTPAddr) }()
    log.Info().Str("addr", cfg.HTTPAddr).Str("prefix", cfg.JiraProjectPrefix).Msg("support-agent listening")

    sigCh := make(chan os.Signal, 1)
    signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

    select {
    case <-sigCh:
        log.Info().Msg("shutting down...")
    case err := <-errCh:
        if err != nil { log.Error().Err(err).Msg("http server error") }
    }
}

func main() {
    if err := rootCmd.Execute(); err != nil { os.Exit(1) }
}
