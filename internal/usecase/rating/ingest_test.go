package rating

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeImportFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write import file: %v", err)
	}
	return path
}

func TestImportData(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	path := writeImportFile(t, `{
		"facilities": [
			{
				"facility_id": "F-10",
				"name": "Little Sprouts",
				"city": "Austin",
				"capacity": 60,
				"status": "ACTIVE",
				"accepts_subsidy": true,
				"violations": [
					{"standard_code": "746.1201", "risk_level": "High", "activity_date": "2025-05-01"}
				],
				"inspections": [
					{"inspection_date": "2025-04-15"}
				],
				"reviews": [
					{"rating": 4.5, "review_date": "2025-03-01", "helpful_votes": 3}
				]
			},
			{
				"name": "No ID Daycare"
			}
		]
	}`)

	summary, err := svc.ImportData(ctx, path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if summary.Total != 2 || summary.Imported != 1 || summary.Skipped != 1 {
		t.Fatalf("summary = %+v, want 2/1/1", summary)
	}

	facility, err := svc.repo.GetFacility(ctx, "F-10")
	if err != nil {
		t.Fatalf("get facility: %v", err)
	}
	if facility.Name != "Little Sprouts" || facility.City != "Austin" || !facility.AcceptsSubsidy {
		t.Fatalf("facility = %+v", facility)
	}

	violations, err := svc.repo.ListViolations(ctx, "F-10")
	if err != nil {
		t.Fatalf("list violations: %v", err)
	}
	if len(violations) != 1 || violations[0].StandardCode != "746.1201" {
		t.Fatalf("violations = %+v", violations)
	}

	inspections, err := svc.repo.ListInspections(ctx, "F-10")
	if err != nil {
		t.Fatalf("list inspections: %v", err)
	}
	if len(inspections) != 1 {
		t.Fatalf("inspections = %+v", inspections)
	}

	reviews, err := svc.repo.ListReviews(ctx, "F-10")
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if len(reviews) != 1 || reviews[0].HelpfulVotes != 3 {
		t.Fatalf("reviews = %+v", reviews)
	}
}

func TestImportDataReplacesChildRecords(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	first := writeImportFile(t, `{
		"facilities": [
			{
				"facility_id": "F-11",
				"name": "Before",
				"violations": [
					{"standard_code": "746.1201"},
					{"standard_code": "746.3601"}
				]
			}
		]
	}`)
	if _, err := svc.ImportData(ctx, first); err != nil {
		t.Fatalf("first import: %v", err)
	}

	second := writeImportFile(t, `{
		"facilities": [
			{
				"facility_id": "F-11",
				"name": "After",
				"violations": [
					{"standard_code": "746.2805"}
				]
			}
		]
	}`)
	if _, err := svc.ImportData(ctx, second); err != nil {
		t.Fatalf("second import: %v", err)
	}

	facility, err := svc.repo.GetFacility(ctx, "F-11")
	if err != nil {
		t.Fatalf("get facility: %v", err)
	}
	if facility.Name != "After" {
		t.Fatalf("facility name = %q, want After", facility.Name)
	}

	violations, err := svc.repo.ListViolations(ctx, "F-11")
	if err != nil {
		t.Fatalf("list violations: %v", err)
	}
	if len(violations) != 1 || violations[0].StandardCode != "746.2805" {
		t.Fatalf("violations = %+v, want the replacement set", violations)
	}
}

func TestImportDataBadInput(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.ImportData(ctx, ""); err == nil {
		t.Fatalf("expected error for empty path")
	}
	if _, err := svc.ImportData(ctx, filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	path := writeImportFile(t, "{broken json")
	if _, err := svc.ImportData(ctx, path); err == nil {
		t.Fatalf("expected error for malformed json")
	}
}
