/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package jira

import (
    "bytes"
    "context"
    "encoding/base64"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strconv"
    "strings"

    "github.com/rs/zerolog"
    "golang.org/x/sync/errgroup"

    "github.com/sproutagile/support-agent/internal/config"
    "github.com/sproutagile/support-agent/internal/domain"
)

// searchFields is the fixed field selection sent with every search; it mirrors
// what the dashboard sidebar requests.
var searchFields = []string{"key", "summary", "status", "priority", "description", "resolution"}

type Client struct {
    cfg  config.Config
    http *http.Client
    log  zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    return &Client{cfg: cfg, http: &http.Client{Timeout: cfg.HTTPTimeout}, log: log}
}

// searchAttempt is one rung of the fallback ladder. A nil `after` guard means
// the attempt always runs; otherwise it runs only when the previous attempt
// ended with a matching status. An empty auth keeps the previous header, so a
// payload fallback reuses whichever auth scheme last got past the server.
type searchAttempt struct {
    name    string
    auth    func(creds domain.Credentials) string
    minimal bool
    after   func(status int) bool
}

var searchLadder = []searchAttempt{
    {name: "basic", auth: func(c domain.Credentials) string {
        return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.Email+":"+c.Token))
    }},
    {name: "bearer", auth: func(c domain.Credentials) string { return "Bearer " + c.Token },
        after: func(s int) bool { return s == http.StatusUnauthorized }},
    {name: "jql-only", minimal: true,
        after: func(s int) bool { return s == http.StatusBadRequest || s == http.StatusNotFound }},
}

// Search runs one JQL query against the tracker, walking the auth/payload
// fallback ladder, and returns normalized (and, when needed, enriched) records.
func (c *Client) Search(ctx context.Context, jql string, creds domain.Credentials) (domain.SearchResult, error) {
    if !creds.Complete() {
        return domain.SearchResult{}, &domain.AuthError{Reason: "missing jira credentials"}
    }
    base := normalizeBaseURL(creds.Domain)
    endpoint := base + "/rest/api/3/search/jql"

    full := map[string]any{"jql": jql, "fieldIds": searchFields, "maxResults": c.cfg.JiraSearchMax}
    minimal := map[string]any{"jql": jql, "maxResults": c.cfg.JiraSearchMax}

    var status int
    var body []byte
    authHeader := ""
    for _, at := range searchLadder {
        if at.after != nil && !at.after(status) { continue }
        if at.auth != nil { authHeader = at.auth(creds) }
        payload := full
        if at.minimal { payload = minimal }
        var err error
        status, body, err = c.postJSON(ctx, endpoint, authHeader, payload)
        if err != nil { return domain.SearchResult{}, &domain.NetworkError{Err: err} }
        if status < 300 { break }
        c.log.Warn().Str("attempt", at.name).Int("status", status).Msg("jira search attempt failed")
    }
    if status >= 300 {
        if status == http.StatusUnauthorized || status == http.StatusForbidden {
            return domain.SearchResult{}, &domain.AuthError{Reason: fmt.Sprintf("jira rejected credentials (status=%d)", status)}
        }
        return domain.SearchResult{}, &domain.UpstreamError{Status: status, Body: snippet(body)}
    }

    issues, total, err := normalizeSearchBody(body)
    if err != nil { return domain.SearchResult{}, &domain.UpstreamError{Status: status, Body: "unparseable search body"} }

    if len(issues) > 0 && issues[0].Naked() {
        c.log.Info().Int("count", len(issues)).Msg("naked search results; enriching per issue")
        issues = c.enrich(ctx, base, authHeader, issues)
    }
    return domain.SearchResult{Issues: issues, Total: total}, nil
}

// enrich replaces naked records with fully-fielded ones fetched one by one.
// Placement is positional so output order matches input order, and a failed
// fetch keeps the original naked record instead of failing the batch.
func (c *Client) enrich(ctx context.Context, base, authHeader string, issues []domain.IssueRecord) []domain.IssueRecord {
    out := make([]domain.IssueRecord, len(issues))
    copy(out, issues)
    limit := len(out)
    if c.cfg.EnrichLimit > 0 && limit > c.cfg.EnrichLimit { limit = c.cfg.EnrichLimit }

    g, gctx := errgroup.WithContext(ctx)
    workers := c.cfg.EnrichWorkers
    if workers <= 0 { workers = 8 }
    g.SetLimit(workers)
    for i := 0; i < limit; i++ {
        g.Go(func() error {
            full, err := c.fetchIssue(gctx, base, authHeader, out[i].ID)
            if err != nil {
                c.log.Warn().Err(err).Str("id", out[i].ID).Msg("enrichment failed; keeping naked record")
                return nil
            }
            out[i] = full
            return nil
        })
    }
    _ = g.Wait()
    return out
}

func (c *Client) fetchIssue(ctx context.Context, base, authHeader, id string) (domain.IssueRecord, error) {
    if id == "" { return domain.IssueRecord{}, fmt.Errorf("empty issue id") }
    u := base + "/rest/api/3/issue/" + url.PathEscape(id)
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
    if err != nil { return domain.IssueRecord{}, err }
    req.Header.Set("Authorization", authHeader)
    req.Header.Set("Accept", "application/json")
    resp, err := c.http.Do(req)
    if err != nil { return domain.IssueRecord{}, err }
    defer resp.Body.Close()
    if resp.StatusCode >= 300 { return domain.IssueRecord{}, fmt.Errorf("issue fetch status=%d", resp.StatusCode) }
    var m map[string]any
    if err := json.NewDecoder(resp.Body).Decode(&m); err != nil { return domain.IssueRecord{}, err }
    return normalizeIssue(m), nil
}

func (c *Client) postJSON(ctx context.Context, u, authHeader string, payload map[string]any) (int, []byte, error) {
    b, err := json.Marshal(payload)
    if err != nil { return 0, nil, err }
    req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
    if err != nil { return 0, nil, err }
    req.Header.Set("Authorization", authHeader)
    req.Header.Set("Accept", "application/json")
    req.Header.Set("Content-Type", "application/json")
    resp, err := c.http.Do(req)
    if err != nil { return 0, nil, err }
    defer resp.Body.Close()
    body, _ := io.ReadAll(resp.Body)
    return resp.StatusCode, body, nil
}

// normalizeSearchBody accepts both result container shapes Jira is known to
// return ("issues" and "results[].issue") and flattens them to IssueRecords.
func normalizeSearchBody(body []byte) ([]domain.IssueRecord, int, error) {
    var data map[string]any
    if err := json.Unmarshal(body, &data); err != nil { return nil, 0, err }

    var raw []any
    if arr, ok := data["issues"].([]any); ok {
        raw = arr
    } else if arr, ok := data["results"].([]any); ok {
        raw = arr
    }
    issues := make([]domain.IssueRecord, 0, len(raw))
    for _, it := range raw {
        m, ok := it.(map[string]any)
        if !ok { continue }
        if inner, ok := m["issue"].(map[string]any); ok { m = inner }
        issues = append(issues, normalizeIssue(m))
    }
    total := len(raw)
    if t, ok := data["total"].(float64); ok && t > 0 { total = int(t) }
    return issues, total, nil
}

func normalizeIssue(m map[string]any) domain.IssueRecord {
    id := toStr(m["id"])
    key := toStr(m["key"])
    if key == "" { key = id }
    fields, _ := m["fields"].(map[string]any)
    if fields == nil { fields = map[string]any{} }
    return domain.IssueRecord{ID: id, Key: key, Fields: fields}
}

// normalizeBaseURL accepts a bare hostname or a full URL and yields
// scheme://host with no trailing slash, defaulting to https.
func normalizeBaseURL(domainOrURL string) string {
    s := strings.TrimSpace(domainOrURL)
    if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
        s = "https://" + s
    }
    if u, err := url.Parse(s); err == nil && u.Host != "" {
        return u.Scheme + "://" + u.Host
    }
    return strings.TrimRight(s, "/")
}

func toStr(v any) string {
    switch t := v.(type) {
    case string:
        return t
    case float64:
        return strconv.FormatFloat(t, 'f', -1, 64)
    }
    return ""
}

func snippet(b []byte) string {
    s := strings.TrimSpace(string(b))
    if len(s) > 200 { s = s[:200] }
    return s
}
