/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package metrics

import (
    "strings"

    "github.com/sproutagile/support-agent/internal/domain"
)

// Classification filters are pure and order-preserving; a record missing the
// field under test is excluded, never an error.

// FilterByProject keeps records whose key carries the project prefix. The
// master search is a broad text match and over-matches adjacent projects that
// merely mention the prefix; this is the precision filter.
func FilterByProject(records []domain.IssueRecord, prefix string) []domain.IssueRecord {
    want := prefix + "-"
    out := make([]domain.IssueRecord, 0, len(records))
    for _, r := range records {
        if r.Key != "" && strings.HasPrefix(r.Key, want) { out = append(out, r) }
    }
    return out
}

// FilterByDateField keeps records whose first present candidate field falls
// within [start, end 23:59:59]. end == "" leaves the upper bound open.
// Values are ISO-8601 strings, so plain string comparison orders correctly.
func FilterByDateField(records []domain.IssueRecord, start, end string, fields ...string) []domain.IssueRecord {
    upper := ""
    if end != "" { upper = end + "T23:59:59" }
    out := make([]domain.IssueRecord, 0, len(records))
    for _, r := range records {
        v := r.FirstField(fields...)
        if v == "" { continue }
        if v < start { continue }
        if upper != "" && v > upper { continue }
        out = append(out, r)
    }
    return out
}

// FilterByLabelSet keeps records whose labels intersect the allow-list.
// Matching is exact and case-sensitive; the allow-lists already enumerate the
// historical spelling variants.
func FilterByLabelSet(records []domain.IssueRecord, allowed []string) []domain.IssueRecord {
    set := toSet(allowed)
    out := make([]domain.IssueRecord, 0, len(records))
    for _, r := range records {
        for _, l := range r.Labels() {
            if _, ok := set[l]; ok {
                out = append(out, r)
                break
            }
        }
    }
    return out
}

// FilterByStatusSet keeps records whose status name is in the allow-list.
func FilterByStatusSet(records []domain.IssueRecord, allowed []string) []domain.IssueRecord {
    set := toSet(allowed)
    out := make([]domain.IssueRecord, 0, len(records))
    for _, r := range records {
        if _, ok := set[r.StatusName()]; ok { out = append(out, r) }
    }
    return out
}

func toSet(ss []string) map[string]struct{} {
    m := make(map[string]struct{}, len(ss))
    for _, s := range ss { m[s] = struct{}{} }
    return m
}
