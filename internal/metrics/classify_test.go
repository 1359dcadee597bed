package metrics

import (
    "testing"

    "github.com/sproutagile/support-agent/internal/domain"
)

func rec(key string, fields map[string]any) domain.IssueRecord {
    if fields == nil { fields = map[string]any{} }
    return domain.IssueRecord{ID: key, Key: key, Fields: fields}
}

func keys(records []domain.IssueRecord) []string {
    out := make([]string, len(records))
    for i, r := range records { out[i] = r.Key }
    return out
}

func TestFilterByProject_StrictPrefix(t *testing.T) {
    pool := []domain.IssueRecord{
        rec("EAB-1", nil), rec("EAB-2", nil), rec("EAB-3", nil), rec("EAB-4", nil),
        rec("SHR-9", nil),
    }
    got := FilterByProject(pool, "EAB")
    if len(got) != 4 { t.Fatalf("expected 4 records, got %d: %v", len(got), keys(got)) }
    for _, r := range got {
        if r.Key == "SHR-9" { t.Fatalf("SHR-9 should be excluded") }
    }

    // Idempotent: a second application changes nothing
    again := FilterByProject(got, "EAB")
    if len(again) != len(got) { t.Fatalf("second application changed result: %d != %d", len(again), len(got)) }
}

func TestFilterByProject_PrefixNeedsDash(t *testing.T) {
    pool := []domain.IssueRecord{rec("EABX-1", nil), rec("EAB-1", nil)}
    got := FilterByProject(pool, "EAB")
    if len(got) != 1 || got[0].Key != "EAB-1" {
        t.Fatalf("expected only EAB-1, got %v", keys(got))
    }
}

func TestFilterByDateField_InclusiveBounds(t *testing.T) {
    pool := []domain.IssueRecord{
        rec("EAB-1", map[string]any{"created": "2024-01-01T00:00:00.000+0000"}),
        rec("EAB-2", map[string]any{"created": "2024-01-05T23:59:58.000+0000"}),
        rec("EAB-3", map[string]any{"created": "2024-01-06T00:00:01.000+0000"}),
        rec("EAB-4", map[string]any{"created": "2023-12-31T23:59:59.000+0000"}),
        rec("EAB-5", nil), // missing field: excluded, not an error
    }
    got := FilterByDateField(pool, "2024-01-01", "2024-01-05", "created")
    if len(got) != 2 { t.Fatalf("expected 2 records, got %v", keys(got)) }
    if got[0].Key != "EAB-1" || got[1].Key != "EAB-2" {
        t.Fatalf("order not preserved: %v", keys(got))
    }
}

func TestFilterByDateField_OpenEnd(t *testing.T) {
    pool := []domain.IssueRecord{
        rec("EAB-1", map[string]any{"created": "2030-06-01T00:00:00.000+0000"}),
        rec("EAB-2", map[string]any{"created": "2020-01-01T00:00:00.000+0000"}),
    }
    got := FilterByDateField(pool, "2024-01-01", "", "created")
    if len(got) != 1 || got[0].Key != "EAB-1" {
        t.Fatalf("expected only EAB-1 with open upper bound, got %v", keys(got))
    }
}

func TestFilterByDateField_FieldFallback(t *testing.T) {
    pool := []domain.IssueRecord{
        rec("EAB-1", map[string]any{"resolutiondate": "2024-01-02T10:00:00.000+0000"}),
        rec("EAB-2", map[string]any{"resolved": "2024-01-03T10:00:00.000+0000"}),
        rec("EAB-3", map[string]any{"status": map[string]any{"name": "Open"}}),
    }
    got := FilterByDateField(pool, "2024-01-01", "2024-01-31", "resolutiondate", "resolved")
    if len(got) != 2 { t.Fatalf("expected both resolution field spellings matched, got %v", keys(got)) }
}

func TestFilterByLabelSet(t *testing.T) {
    pool := []domain.IssueRecord{
        rec("EAB-1", map[string]any{"labels": []any{"InternalSupport", "misc"}}),
        rec("EAB-2", map[string]any{"labels": []any{"internal-support"}}),
        rec("EAB-3", map[string]any{"labels": []any{"internalsupport"}}), // case/spelling sensitive: no match
        rec("EAB-4", map[string]any{"labels": []any{"Delivery"}}),
        rec("EAB-5", nil),
    }
    got := FilterByLabelSet(pool, []string{"InternalSupport", "internal-support", "Internal_Support"})
    if len(got) != 2 { t.Fatalf("expected 2 internal-support records, got %v", keys(got)) }
}

func TestFilterByStatusSet(t *testing.T) {
    pool := []domain.IssueRecord{
        rec("EAB-1", map[string]any{"status": map[string]any{"name": "Escalated"}}),
        rec("EAB-2", map[string]any{"status": map[string]any{"name": "Done"}}),
        rec("EAB-3", map[string]any{"status": map[string]any{"name": "Escalated to Engineering"}}),
        rec("EAB-4", nil),
    }
    got := FilterByStatusSet(pool, []string{"Escalated", "Escalated to Engineering", "Engineering"})
    if len(got) != 2 { t.Fatalf("expected 2 escalated records, got %v", keys(got)) }
}
