package rating

import (
	"context"
	"fmt"
	"testing"

	"carescore/internal/ports"
)

func seedManyFacilities(t *testing.T, svc *Service, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		seedFacility(t, svc, ports.Facility{
			FacilityID: fmt.Sprintf("F-%03d", i),
			Name:       fmt.Sprintf("Facility %d", i),
			City:       "Houston",
			Status:     "ACTIVE",
		}, []ports.Violation{
			{StandardCode: "746.1201", ActivityDate: "2025-05-01"},
		}, nil)
	}
}

func TestRateAll(t *testing.T) {
	svc, cache, _ := setupService(t)
	ctx := context.Background()

	seedManyFacilities(t, svc, 12)

	summary, err := svc.RateAll(ctx, BatchInput{Workers: 3})
	if err != nil {
		t.Fatalf("rate all: %v", err)
	}

	if summary.RunID == "" {
		t.Fatalf("missing run id")
	}
	if summary.Total != 12 || summary.Rated != 12 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	results, err := svc.ListRatings(ctx, ModeStandard, 0)
	if err != nil {
		t.Fatalf("list ratings: %v", err)
	}
	if len(results) != 12 {
		t.Fatalf("stored results = %d, want 12", len(results))
	}
	if len(cache.data) != 12 {
		t.Fatalf("cache entries = %d, want 12", len(cache.data))
	}
}

func TestRateAllHonorsFilter(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	seedManyFacilities(t, svc, 5)
	seedFacility(t, svc, ports.Facility{
		FacilityID: "F-DAL",
		City:       "Dallas",
		Status:     "ACTIVE",
	}, nil, nil)

	summary, err := svc.RateAll(ctx, BatchInput{City: "Dallas"})
	if err != nil {
		t.Fatalf("rate all: %v", err)
	}
	if summary.Total != 1 || summary.Rated != 1 {
		t.Fatalf("summary = %+v, want single Dallas facility", summary)
	}
}

func TestRateAllEmptySet(t *testing.T) {
	svc, _, _ := setupService(t)

	summary, err := svc.RateAll(context.Background(), BatchInput{})
	if err != nil {
		t.Fatalf("rate all: %v", err)
	}
	if summary.Total != 0 || summary.Rated != 0 || summary.Failed != 0 {
		t.Fatalf("summary = %+v, want empty run", summary)
	}
}

func TestRateAllUnknownMode(t *testing.T) {
	svc, _, _ := setupService(t)

	if _, err := svc.RateAll(context.Background(), BatchInput{Mode: "bogus"}); err == nil {
		t.Fatalf("expected mode error")
	}
}

func TestCalibrationReport(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	seedManyFacilities(t, svc, 8)

	summary, err := svc.CalibrationReport(ctx, ReportInput{DisableJitter: true})
	if err != nil {
		t.Fatalf("calibration report: %v", err)
	}

	if summary.Total != 8 {
		t.Fatalf("total = %d, want 8", summary.Total)
	}
	if summary.Upgraded+summary.Downgraded+summary.Unchanged != 8 {
		t.Fatalf("movement does not sum: %+v", summary)
	}
	if summary.MeanBefore <= 0 || summary.MeanAfter <= 0 {
		t.Fatalf("means not finalized: %+v", summary)
	}

	// Nothing persisted by reporting.
	results, err := svc.ListRatings(ctx, ModeStandard, 0)
	if err != nil {
		t.Fatalf("list ratings: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("report persisted %d results, want 0", len(results))
	}
}
