/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "context"
    "fmt"
    "strings"
    "time"

    "github.com/rs/zerolog"
    "golang.org/x/sync/singleflight"

    "github.com/sproutagile/support-agent/internal/cache"
    "github.com/sproutagile/support-agent/internal/config"
    "github.com/sproutagile/support-agent/internal/domain"
    "github.com/sproutagile/support-agent/internal/metrics"
)

type tracker interface {
    Search(ctx context.Context, jql string, creds domain.Credentials) (domain.SearchResult, error)
}

// Service drives the aggregation pipeline: cache lookup, tracker fetch,
// classification, aggregation, cache write.
type Service struct {
    cfg   config.Config
    log   zerolog.Logger
    jira  tracker
    cache *cache.Cache
    sf    singleflight.Group
}

func NewService(cfg config.Config, log zerolog.Logger, jira tracker, c *cache.Cache) *Service {
    return &Service{cfg: cfg, log: log, jira: jira, cache: c}
}

// GetAggregatedMetrics returns the aggregate for the query, served from cache
// when a fresh entry exists and the caller did not force a refresh. Concurrent
// misses for the same signature collapse into a single upstream fetch.
func (s *Service) GetAggregatedMetrics(ctx context.Context, q domain.MetricsQuery, creds domain.Credentials) (domain.AggregateResult, error) {
    if strings.TrimSpace(q.StartDate) == "" {
        return domain.AggregateResult{}, &domain.BadRequestError{Reason: "missing startDate"}
    }
    if !creds.Complete() {
        return domain.AggregateResult{}, &domain.AuthError{Reason: "missing jira credentials"}
    }

    sig := q.Signature()
    if !q.Refresh {
        if res, ok := s.cache.Get(sig); ok {
            s.log.Debug().Str("sig", sig.Key()).Msg("metrics served from cache")
            return res, nil
        }
    }

    v, err, shared := s.sf.Do(sig.Key(), func() (any, error) {
        return s.build(ctx, sig, creds)
    })
    if err != nil {
        s.log.Error().Err(err).Str("sig", sig.Key()).Msg("aggregation failed")
        return domain.AggregateResult{}, err
    }
    if shared { s.log.Debug().Str("sig", sig.Key()).Msg("joined in-flight aggregation") }
    return v.(domain.AggregateResult), nil
}

// InvalidateCache wipes every cached aggregate and returns the entry count.
func (s *Service) InvalidateCache() int {
    n := s.cache.Clear()
    s.log.Info().Int("entries", n).Msg("metrics cache cleared")
    return n
}

func (s *Service) build(ctx context.Context, sig domain.Signature, creds domain.Credentials) (domain.AggregateResult, error) {
    prefix := s.cfg.JiraProjectPrefix

    // One catch-all query: everything created OR resolved since the range
    // start. The text match over-selects; FilterByProject trims it below.
    jql := fmt.Sprintf("text ~ %q AND (created >= %q OR resolved >= %q)", prefix, sig.StartDate, sig.StartDate)
    s.log.Info().Str("sig", sig.Key()).Str("jql", jql).Msg("fetching master pool")

    result, err := s.jira.Search(ctx, jql, creds)
    if err != nil { return domain.AggregateResult{}, err }

    pool := metrics.FilterByProject(result.Issues, prefix)

    created := metrics.FilterByDateField(pool, sig.StartDate, sig.EndDate, "created")
    resolved := metrics.FilterByDateField(pool, sig.StartDate, sig.EndDate, "resolutiondate", "resolved")
    internal := metrics.FilterByLabelSet(resolved, s.cfg.InternalLabels)
    delivery := metrics.FilterByLabelSet(resolved, s.cfg.DeliveryLabels)
    escalated := metrics.FilterByStatusSet(resolved, s.cfg.EscalatedStatuses)

    // Note: sig.Priority narrows the cache key but is not applied to the
    // pool; the dashboard sends it and product has not decided what it
    // should constrain.
    agg := domain.AggregateResult{
        Total:            len(pool),
        CreatedTrend:     metrics.DailyTrend(created, "created"),
        ResolvedInternal: domain.TeamBreakdown{Total: len(internal), Trend: []string{}},
        ResolvedDelivery: domain.TeamBreakdown{Total: len(delivery), Trend: []string{}},
        Escalated:        domain.TeamBreakdown{Total: len(escalated), Trend: []string{}},
        Velocity:         metrics.WeeklyVelocity(internal, delivery),
        LeadTimeAvgDays:  metrics.AverageDuration(resolved, metrics.LeadTimeSpan()),
        CycleTimeAvgDays: metrics.AverageDuration(resolved, metrics.CycleTimeSpan(s.cfg.WorkStartedField)),
        LastUpdated:      time.Now().UTC().Format(time.RFC3339),
    }

    s.cache.Put(sig, agg)
    s.log.Info().
        Int("pool", len(pool)).
        Int("created", len(created)).
        Int("resolved", len(resolved)).
        Int("internal", len(internal)).
        Int("delivery", len(delivery)).
        Int("escalated", len(escalated)).
        Msg("aggregate computed")
    return agg, nil
}
