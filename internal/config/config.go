/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package config

import (
    "os"
    "strconv"
    "strings"
    "time"

    "github.com/joho/godotenv"
)

type Config struct {
    AppEnv   string
    TZ       string
    HTTPAddr string
    LogFile  string

    JiraProjectPrefix string
    JiraSearchMax     int
    WorkStartedField  string

    InternalLabels    []string
    DeliveryLabels    []string
    EscalatedStatuses []string

    CacheTTL        time.Duration
    CacheMaxEntries int
    SweepCron       string

    HTTPTimeout   time.Duration
    EnrichLimit   int
    EnrichWorkers int
}

func getenv(key, def string) string {
    v := os.Getenv(key)
    if v == "" { return def }
    return v
}

func atoi(key string, def int) int {
    v := os.Getenv(key)
    if v == "" { return def }
    i, err := strconv.Atoi(v)
    if err != nil { return def }
    return i
}

func dur(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" { return def }
    d, err := time.ParseDuration(v)
    if err != nil { return def }
    return d
}

func parseStrings(csv string) []string {
    if csv == "" { return nil }
    parts := strings.Split(csv, ",")
    out := make([]string, 0, len(parts))
    for _, p := range parts {
        p = strings.TrimSpace(p)
        if p == "" { continue }
        out = append(out, p)
    }
    return out
}

func Load() Config {
    // .env is optional; real deployments set the environment directly
    _ = godotenv.Load()

    cfg := Config{
        AppEnv:   getenv("APP_ENV", "dev"),
        TZ:       getenv("APP_TZ", "UTC"),
        HTTPAddr: getenv("HTTP_ADDR", ":8080"),
        LogFile:  getenv("LOG_FILE", ""),

        JiraProjectPrefix: getenv("JIRA_PROJECT_PREFIX", "EAB"),
        JiraSearchMax:     atoi("JIRA_SEARCH_MAX", 100),
        WorkStartedField:  getenv("JIRA_WORK_STARTED_FIELD", "customfield_workstarted"),

        InternalLabels:    parseStrings(getenv("INTERNAL_LABELS", "InternalSupport,internal-support,Internal_Support")),
        DeliveryLabels:    parseStrings(getenv("DELIVERY_LABELS", "Delivery,delivery-team")),
        EscalatedStatuses: parseStrings(getenv("ESCALATED_STATUSES", "Escalated,Escalated to Engineering,Engineering")),

        CacheTTL:        dur("CACHE_TTL", 15*time.Minute),
        CacheMaxEntries: atoi("CACHE_MAX_ENTRIES", 256),
        SweepCron:       getenv("CACHE_SWEEP_CRON", "*/15 * * * *"),

        HTTPTimeout:   dur("HTTP_TIMEOUT", 15*time.Second),
        EnrichLimit:   atoi("ENRICH_LIMIT", 100),
        EnrichWorkers: atoi("ENRICH_WORKERS", 8),
    }

    if loc, err := time.LoadLocation(cfg.TZ); err == nil {
        time.Local = loc
    }
    return cfg
}
