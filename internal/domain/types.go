package domain

import "strings"

// IssueRecord is the normalized shape of one tracker issue. Fields is the raw
// Jira field map and may be empty right after a search call ("naked" record).
type IssueRecord struct {
    ID     string         `json:"id"`
    Key    string         `json:"key"`
    Fields map[string]any `json:"fields"`
}

// Naked reports whether the record is missing field data and needs a
// per-issue detail fetch before it can be classified.
func (r IssueRecord) Naked() bool {
    return len(r.Fields) == 0 || r.Field("created") == ""
}

// Field returns the named field coerced to string, or "" when absent.
func (r IssueRecord) Field(name string) string {
    if r.Fields == nil { return "" }
    if v, ok := r.Fields[name].(string); ok { return v }
    return ""
}

// FirstField returns the first non-empty value among the named fields.
func (r IssueRecord) FirstField(names ...string) string {
    for _, n := range names {
        if v := r.Field(n); v != "" { return v }
    }
    return ""
}

// ResolutionDate returns the resolution timestamp; Jira instances differ on
// whether it lives under "resolutiondate" or "resolved".
func (r IssueRecord) ResolutionDate() string {
    return r.FirstField("resolutiondate", "resolved")
}

// StatusName returns fields.status.name, or "" when absent.
func (r IssueRecord) StatusName() string {
    if r.Fields == nil { return "" }
    if st, ok := r.Fields["status"].(map[string]any); ok {
        if n, ok := st["name"].(string); ok { return n }
    }
    return ""
}

// PriorityName returns fields.priority.name, or "" when absent.
func (r IssueRecord) PriorityName() string {
    if r.Fields == nil { return "" }
    if p, ok := r.Fields["priority"].(map[string]any); ok {
        if n, ok := p["name"].(string); ok { return n }
    }
    return ""
}

// Labels returns fields.labels as a string slice; non-string entries are dropped.
func (r IssueRecord) Labels() []string {
    if r.Fields == nil { return nil }
    lv, ok := r.Fields["labels"].([]any)
    if !ok { return nil }
    out := make([]string, 0, len(lv))
    for _, x := range lv {
        if s, ok := x.(string); ok { out = append(out, s) }
    }
    return out
}

// SearchResult is what the tracker client returns for one search call.
type SearchResult struct {
    Issues []IssueRecord
    Total  int
}

// Credentials is the opaque per-request auth bag forwarded to the tracker.
type Credentials struct {
    Domain string
    Email  string
    Token  string
}

func (c Credentials) Complete() bool {
    return strings.TrimSpace(c.Domain) != "" && strings.TrimSpace(c.Email) != "" && strings.TrimSpace(c.Token) != ""
}

// MetricsQuery is one inbound aggregation request.
type MetricsQuery struct {
    StartDate string
    EndDate   string
    Priority  string
    Refresh   bool
}

// Signature identifies a cached aggregate. Two queries with equal signatures
// share a cache entry regardless of arrival order.
type Signature struct {
    StartDate string
    EndDate   string
    Priority  string
}

func (q MetricsQuery) Signature() Signature {
    return Signature{StartDate: q.StartDate, EndDate: q.EndDate, Priority: q.Priority}
}

// Key renders the signature as a string for single-flight grouping.
func (s Signature) Key() string {
    return s.StartDate + "|" + s.EndDate + "|" + s.Priority
}

// Trend is an ordered series of per-day counts.
type Trend struct {
    Dates  []string `json:"dates"`
    Counts []int    `json:"counts"`
}

// Velocity is an ordered series of per-ISO-week counts.
type Velocity struct {
    Weeks  []string `json:"weeks"`
    Counts []int    `json:"counts"`
}

// TeamBreakdown is the resolved-count slice for one organizational class.
// Trend is a placeholder kept for wire compatibility with the dashboard.
type TeamBreakdown struct {
    Total int      `json:"total"`
    Trend []string `json:"trend"`
}

// AggregateResult is the immutable metrics snapshot served to the dashboard.
type AggregateResult struct {
    Total            int           `json:"total"`
    CreatedTrend     Trend         `json:"createdTrend"`
    ResolvedInternal TeamBreakdown `json:"resolvedInternal"`
    ResolvedDelivery TeamBreakdown `json:"resolvedDelivery"`
    Escalated        TeamBreakdown `json:"escalated"`
    Velocity         Velocity      `json:"velocity"`
    LeadTimeAvgDays  int           `json:"leadTimeAvgDays"`
    CycleTimeAvgDays int           `json:"cycleTimeAvgDays"`
    LastUpdated      string        `json:"lastUpdated"`
}
