/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package metrics

import (
    "fmt"
    "math"
    "sort"
    "strings"
    "time"

    "github.com/sproutagile/support-agent/internal/domain"
)

// Span is one recognized duration measurement between two timestamp fields.
// Each side lists candidate field names tried in order, so instances that
// expose "resolved" instead of "resolutiondate" still measure correctly.
type Span struct {
    Start []string
    End   []string
}

// LeadTimeSpan measures creation to resolution.
func LeadTimeSpan() Span {
    return Span{Start: []string{"created"}, End: []string{"resolutiondate", "resolved"}}
}

// CycleTimeSpan measures active work start to resolution. The work-started
// field is a per-instance custom field.
func CycleTimeSpan(workStartedField string) Span {
    return Span{Start: []string{workStartedField}, End: []string{"resolutiondate", "resolved"}}
}

// DailyTrend buckets records by the date portion of the first present
// candidate field and returns the dates ascending with per-date counts.
// Records without the field are skipped.
func DailyTrend(records []domain.IssueRecord, fields ...string) domain.Trend {
    counts := map[string]int{}
    for _, r := range records {
        v := r.FirstField(fields...)
        if v == "" { continue }
        day := strings.SplitN(v, "T", 2)[0]
        counts[day]++
    }
    dates := make([]string, 0, len(counts))
    for d := range counts { dates = append(dates, d) }
    sort.Strings(dates)
    out := domain.Trend{Dates: dates, Counts: make([]int, len(dates))}
    for i, d := range dates { out.Counts[i] = counts[d] }
    return out
}

type isoWeek struct {
    year int
    week int
}

// WeeklyVelocity concatenates the input sets and buckets them by the ISO week
// of the resolution date. Buckets sort by the numeric (year, week) tuple, not
// by label, so ranges spanning a year boundary stay ordered; the wire label
// remains "W<n>" for the dashboard.
func WeeklyVelocity(sets ...[]domain.IssueRecord) domain.Velocity {
    counts := map[isoWeek]int{}
    for _, set := range sets {
        for _, r := range set {
            v := r.ResolutionDate()
            if v == "" { continue }
            t, ok := parseTime(v)
            if !ok { continue }
            y, w := t.ISOWeek()
            counts[isoWeek{year: y, week: w}]++
        }
    }
    weeks := make([]isoWeek, 0, len(counts))
    for w := range counts { weeks = append(weeks, w) }
    sort.Slice(weeks, func(i, j int) bool {
        if weeks[i].year != weeks[j].year { return weeks[i].year < weeks[j].year }
        return weeks[i].week < weeks[j].week
    })
    out := domain.Velocity{Weeks: make([]string, len(weeks)), Counts: make([]int, len(weeks))}
    for i, w := range weeks {
        out.Weeks[i] = fmt.Sprintf("W%d", w.week)
        out.Counts[i] = counts[w]
    }
    return out
}

// AverageDuration returns the mean of per-record span durations in whole days.
// Per record: ceil of the day difference, clamped at zero so a resolution
// stamped before its start contributes nothing rather than a negative value.
// Records missing either side, or with unparseable stamps, are skipped; the
// result is 0 when no record qualifies.
func AverageDuration(records []domain.IssueRecord, span Span) int {
    totalDays := 0.0
    count := 0
    for _, r := range records {
        sv := r.FirstField(span.Start...)
        ev := r.FirstField(span.End...)
        if sv == "" || ev == "" { continue }
        st, ok := parseTime(sv)
        if !ok { continue }
        et, ok := parseTime(ev)
        if !ok { continue }
        days := math.Ceil(et.Sub(st).Hours() / 24)
        if days < 0 { days = 0 }
        totalDays += days
        count++
    }
    if count == 0 { return 0 }
    return int(math.Round(totalDays / float64(count)))
}

var timeLayouts = []string{
    "2006-01-02T15:04:05.000-0700",
    time.RFC3339,
    "2006-01-02T15:04:05",
    "2006-01-02",
}

func parseTime(s string) (time.Time, bool) {
    for _, layout := range timeLayouts {
        if t, err := time.Parse(layout, s); err == nil { return t, true }
    }
    return time.Time{}, false
}
