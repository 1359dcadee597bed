/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "context"
    "errors"
    "net/http"

    "github.com/gin-gonic/gin"
    "github.com/rs/zerolog"

    "github.com/sproutagile/support-agent/internal/config"
    "github.com/sproutagile/support-agent/internal/domain"
)

type service interface {
    GetAggregatedMetrics(ctx context.Context, q domain.MetricsQuery, creds domain.Credentials) (domain.AggregateResult, error)
    InvalidateCache() int
}

type Handlers struct {
    cfg config.Config
    log zerolog.Logger
    svc service
}

func NewHandlers(cfg config.Config, log zerolog.Logger, svc service) *Handlers {
    return &Handlers{cfg: cfg, log: log, svc: svc}
}

func (h *Handlers) Healthz(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Metrics serves GET /api/metrics. Credentials travel in headers set by the
// dashboard sidebar; query params carry the date window and flags.
func (h *Handlers) Metrics(c *gin.Context) {
    creds := domain.Credentials{
        Domain: c.GetHeader("X-Jira-Domain"),
        Email:  c.GetHeader("X-Jira-Email"),
        Token:  c.GetHeader("X-Jira-Token"),
    }
    if !creds.Complete() {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "details": "missing jira credentials in headers"})
        return
    }
    startDate := c.Query("startDate")
    endDate := c.Query("endDate")
    if startDate == "" || endDate == "" {
        c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "details": "missing startDate or endDate parameters"})
        return
    }

    q := domain.MetricsQuery{
        StartDate: startDate,
        EndDate:   endDate,
        Priority:  c.Query("priority"),
        Refresh:   c.Query("refresh") == "true",
    }
    res, err := h.svc.GetAggregatedMetrics(c.Request.Context(), q, creds)
    if err != nil {
        status, kind := classifyError(err)
        c.JSON(status, gin.H{"error": kind, "details": err.Error()})
        return
    }
    c.JSON(http.StatusOK, res)
}

// ClearCache serves POST /admin/cache/clear, the manual full invalidation.
func (h *Handlers) ClearCache(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"cleared": h.svc.InvalidateCache()})
}

func classifyError(err error) (int, string) {
    var authErr *domain.AuthError
    var badReq *domain.BadRequestError
    var upstream *domain.UpstreamError
    var network *domain.NetworkError
    switch {
    case errors.As(err, &authErr):
        return http.StatusUnauthorized, "unauthenticated"
    case errors.As(err, &badReq):
        return http.StatusBadRequest, "bad_request"
    case errors.As(err, &upstream):
        return http.StatusBadGateway, "upstream_error"
    case errors.As(err, &network):
        return http.StatusBadGateway, "network_error"
    }
    return http.StatusInternalServerError, "internal"
}
