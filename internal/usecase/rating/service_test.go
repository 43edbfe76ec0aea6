package rating

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	domainrating "carescore/internal/domain/rating"
	"carescore/internal/infrastructure/persistence/sqlite/model"
	sqliterepo "carescore/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "carescore/internal/infrastructure/persistence/sqlite/uow"
	"carescore/internal/ports"
)

var serviceNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

type testCache struct {
	data map[string]string
}

func newTestCache() *testCache {
	return &testCache{data: make(map[string]string)}
}

func (c *testCache) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *testCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *testCache) Delete(_ context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func setupServiceWithDB(t *testing.T, opts Options) (*Service, *testCache, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "carescore_test.sqlite")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&model.Facility{},
		&model.Violation{},
		&model.Inspection{},
		&model.Review{},
		&model.RatingResult{},
		&model.RatingKV{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	if opts.Now == nil {
		opts.Now = func() time.Time { return serviceNow }
	}

	cache := newTestCache()
	repo := sqliterepo.NewFacilityRepository(db)
	uow := sqliteuow.NewUnitOfWork(db)
	return NewService(repo, uow, cache, domainrating.DefaultProfile(), opts), cache, db
}

func setupService(t *testing.T) (*Service, *testCache, *gorm.DB) {
	t.Helper()
	return setupServiceWithDB(t, Options{})
}

func seedFacility(t *testing.T, svc *Service, facility ports.Facility, violations []ports.Violation, reviews []ports.Review) {
	t.Helper()
	ctx := context.Background()
	err := svc.uow.WithTx(ctx, func(txCtx context.Context) error {
		if err := svc.repo.UpsertFacility(txCtx, facility); err != nil {
			return err
		}
		if err := svc.repo.ReplaceViolations(txCtx, facility.FacilityID, violations); err != nil {
			return err
		}
		return svc.repo.ReplaceReviews(txCtx, facility.FacilityID, reviews)
	})
	if err != nil {
		t.Fatalf("seed facility: %v", err)
	}
}

func TestRateFacilityStandard(t *testing.T) {
	svc, cache, _ := setupService(t)
	ctx := context.Background()

	seedFacility(t, svc, ports.Facility{
		FacilityID: "F-1",
		Name:       "Sunny Days",
		Status:     "ACTIVE",
	}, []ports.Violation{
		{FacilityID: "F-1", StandardCode: "746.1201", ActivityDate: "2025-05-01"},
	}, nil)

	result, err := svc.RateFacility(ctx, RateFacilityInput{FacilityID: "F-1", Persist: true})
	if err != nil {
		t.Fatalf("rate facility: %v", err)
	}

	if result.Mode != ModeStandard {
		t.Fatalf("mode = %q, want standard", result.Mode)
	}
	if result.ViolationCount != 1 || result.HighRiskViolationCount != 1 {
		t.Fatalf("counts = %d/%d, want 1/1", result.ViolationCount, result.HighRiskViolationCount)
	}

	stored, found, err := svc.StoredRating(ctx, "F-1", ModeStandard)
	if err != nil {
		t.Fatalf("stored rating: %v", err)
	}
	if !found {
		t.Fatalf("stored rating not found after persist")
	}
	if stored.OverallRating != result.OverallRating {
		t.Fatalf("stored overall = %.1f, want %.1f", stored.OverallRating, result.OverallRating)
	}

	if _, ok := cache.data["rating:F-1:standard"]; !ok {
		t.Fatalf("cache not refreshed: %v", cache.data)
	}
}

func TestRateFacilityMalformedDates(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	seedFacility(t, svc, ports.Facility{
		FacilityID:       "F-2",
		Status:           "ACTIVE",
		LicenseIssueDate: "not a date",
	}, []ports.Violation{
		{FacilityID: "F-2", StandardCode: "746.1201", ActivityDate: "garbage"},
	}, []ports.Review{
		{FacilityID: "F-2", Rating: 5.0, ReviewDate: "also garbage"},
	})

	result, err := svc.RateFacility(ctx, RateFacilityInput{FacilityID: "F-2"})
	if err != nil {
		t.Fatalf("rate facility: %v", err)
	}

	// The undated high violation ages into the oldest bucket instead of
	// failing the run.
	if result.ViolationCount != 1 {
		t.Fatalf("violation count = %d, want 1", result.ViolationCount)
	}
	if result.HighRiskViolationCount != 0 {
		t.Fatalf("high risk count = %d, want 0", result.HighRiskViolationCount)
	}
	if result.RecentViolationsCount != 0 {
		t.Fatalf("recent count = %d, want 0", result.RecentViolationsCount)
	}
}

func TestRateFacilityBalancedDeterministic(t *testing.T) {
	svc, _, _ := setupServiceWithDB(t, Options{JitterSeed: 99})
	ctx := context.Background()

	seedFacility(t, svc, ports.Facility{FacilityID: "F-3", Status: "ACTIVE"}, nil, nil)

	first, err := svc.RateFacility(ctx, RateFacilityInput{FacilityID: "F-3", Mode: ModeBalanced})
	if err != nil {
		t.Fatalf("rate facility: %v", err)
	}
	second, err := svc.RateFacility(ctx, RateFacilityInput{FacilityID: "F-3", Mode: ModeBalanced})
	if err != nil {
		t.Fatalf("rate facility: %v", err)
	}

	if first.Mode != ModeBalanced {
		t.Fatalf("mode = %q, want balanced", first.Mode)
	}
	if first.RawScore != second.RawScore {
		t.Fatalf("per-facility seed not reproducible: %.6f vs %.6f", first.RawScore, second.RawScore)
	}

	noJitter, err := svc.RateFacility(ctx, RateFacilityInput{FacilityID: "F-3", Mode: ModeBalanced, DisableJitter: true})
	if err != nil {
		t.Fatalf("rate facility: %v", err)
	}
	if noJitter.Mode != ModeBalanced {
		t.Fatalf("mode = %q, want balanced", noJitter.Mode)
	}
}

func TestRateFacilityErrors(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.RateFacility(ctx, RateFacilityInput{FacilityID: "missing"}); err == nil {
		t.Fatalf("expected error for unknown facility")
	} else if !errors.Is(err, ports.ErrFacilityNotFound) {
		t.Fatalf("err = %v, want ErrFacilityNotFound", err)
	}

	if _, err := svc.RateFacility(ctx, RateFacilityInput{}); err == nil {
		t.Fatalf("expected error for empty facility id")
	}

	if _, err := svc.RateFacility(ctx, RateFacilityInput{FacilityID: "F-1", Mode: "bogus"}); !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("err = %v, want ErrUnknownMode", err)
	}
}

func TestStoredRatingDegradesOnCorruptJSON(t *testing.T) {
	svc, _, db := setupService(t)
	ctx := context.Background()

	row := model.RatingResult{
		FacilityID:     "F-4",
		Mode:           "standard",
		OverallRating:  3.5,
		FactorsJSON:    "{not json",
		IndicatorsJSON: `["ok"]`,
		CategoriesJSON: "also broken",
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("seed rating row: %v", err)
	}

	stored, found, err := svc.StoredRating(ctx, "F-4", ModeStandard)
	if err != nil {
		t.Fatalf("stored rating: %v", err)
	}
	if !found {
		t.Fatalf("rating not found")
	}
	if stored.OverallRating != 3.5 {
		t.Fatalf("overall = %.1f, want 3.5", stored.OverallRating)
	}
	if len(stored.RatingFactors) != 0 {
		t.Fatalf("factors = %v, want empty list", stored.RatingFactors)
	}
	if len(stored.QualityIndicators) != 1 {
		t.Fatalf("indicators = %v, want surviving list", stored.QualityIndicators)
	}
	if len(stored.ViolationsByCategory) != 0 {
		t.Fatalf("categories = %v, want empty map", stored.ViolationsByCategory)
	}
}

func TestStoredRatingPrefersCacheSnapshot(t *testing.T) {
	svc, cache, _ := setupService(t)
	ctx := context.Background()

	snapshot := domainrating.RatingResult{FacilityID: "F-5", Mode: "standard", OverallRating: 4.5}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}
	cache.data["rating:F-5:standard"] = string(payload)

	stored, found, err := svc.StoredRating(ctx, "F-5", ModeStandard)
	if err != nil {
		t.Fatalf("stored rating: %v", err)
	}
	if !found {
		t.Fatalf("cached rating not served")
	}
	if stored.OverallRating != 4.5 {
		t.Fatalf("overall = %.1f, want 4.5", stored.OverallRating)
	}
}

func TestParseDateLayouts(t *testing.T) {
	testCases := []struct {
		raw      string
		wantZero bool
	}{
		{"2025-05-01", false},
		{"05/01/2025", false},
		{"2025-05-01T10:30:00Z", false},
		{"", true},
		{"yesterday", true},
	}
	for _, testCase := range testCases {
		got := parseDate(testCase.raw)
		if got.IsZero() != testCase.wantZero {
			t.Errorf("parseDate(%q) zero = %v, want %v", testCase.raw, got.IsZero(), testCase.wantZero)
		}
	}
}
