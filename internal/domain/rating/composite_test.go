package rating

import (
	"math"
	"testing"
)

func TestCompose(t *testing.T) {
	clean := DeductionOutcome{ViolationScore: 5.0}

	t.Run("perfect inputs reach five stars", func(t *testing.T) {
		rating, raw, factors := compose(compositeInput{
			facility:    FacilityRecord{Status: "ACTIVE"},
			deductions:  clean,
			quality:     QualityOutcome{Boost: 0.5},
			reviewScore: 5.0,
		})
		if rating != 5.0 {
			t.Fatalf("rating = %.1f, want 5.0", rating)
		}
		if math.Abs(raw-5.0) > 1e-9 {
			t.Fatalf("raw = %.4f, want 5.0", raw)
		}
		if len(factors) != 0 {
			t.Fatalf("factors = %v, want none", factors)
		}
	})

	t.Run("spotless record rates five stars", func(t *testing.T) {
		rating, raw, factors := compose(compositeInput{
			facility:    FacilityRecord{Status: "ACTIVE"},
			deductions:  clean,
			reviewScore: 3.0,
		})
		if rating != 5.0 {
			t.Fatalf("rating = %.1f, want 5.0", rating)
		}
		if math.Abs(raw-5.0) > 1e-9 {
			t.Fatalf("raw = %.4f, want 5.0", raw)
		}
		if len(factors) != 0 {
			t.Fatalf("factors = %v, want none", factors)
		}
	})

	t.Run("neutral review blends to four stars", func(t *testing.T) {
		rating, raw, _ := compose(compositeInput{
			facility:    FacilityRecord{Status: "ACTIVE"},
			deductions:  clean,
			reviewScore: 3.0,
			reviews:     1,
		})
		// 0.6*5 + 0.2*3 + 0.2*3 = 4.2
		if math.Abs(raw-4.2) > 1e-9 {
			t.Fatalf("raw = %.4f, want 4.2", raw)
		}
		if rating != 4.0 {
			t.Fatalf("rating = %.1f, want 4.0", rating)
		}
	})

	t.Run("inactive facility capped at two and a half", func(t *testing.T) {
		rating, _, factors := compose(compositeInput{
			facility:    FacilityRecord{Status: "INACTIVE"},
			deductions:  clean,
			reviewScore: 5.0,
		})
		if rating != 2.5 {
			t.Fatalf("rating = %.1f, want 2.5", rating)
		}
		if len(factors) != 1 || factors[0] != "Facility is not currently in active operation" {
			t.Fatalf("factors = %v", factors)
		}
	})

	t.Run("recent high risk violations cap at four", func(t *testing.T) {
		rating, _, factors := compose(compositeInput{
			facility:    FacilityRecord{Status: "ACTIVE"},
			deductions:  clean,
			quality:     QualityOutcome{Boost: 0.5},
			reviewScore: 5.0,
			highRisk:    1,
			recent:      1,
		})
		if rating != 4.0 {
			t.Fatalf("rating = %.1f, want 4.0", rating)
		}
		if len(factors) != 1 || factors[0] != "Recent high-risk violations on record" {
			t.Fatalf("factors = %v", factors)
		}
	})

	t.Run("old high risk violations do not trigger the cap", func(t *testing.T) {
		rating, _, factors := compose(compositeInput{
			facility:    FacilityRecord{Status: "ACTIVE"},
			deductions:  clean,
			quality:     QualityOutcome{Boost: 0.5},
			reviewScore: 5.0,
			highRisk:    1,
		})
		if rating != 5.0 {
			t.Fatalf("rating = %.1f, want 5.0", rating)
		}
		if len(factors) != 0 {
			t.Fatalf("factors = %v, want none", factors)
		}
	})

	t.Run("elevated risk score caps at three", func(t *testing.T) {
		riskScore := 80.0
		rating, _, factors := compose(compositeInput{
			facility:    FacilityRecord{Status: "ACTIVE", RiskScore: &riskScore},
			deductions:  clean,
			reviewScore: 5.0,
		})
		if rating != 3.0 {
			t.Fatalf("rating = %.1f, want 3.0", rating)
		}
		if len(factors) != 1 || factors[0] != "Elevated regulatory risk score" {
			t.Fatalf("factors = %v", factors)
		}
	})

	t.Run("ceilings apply in priority order without stacking factors", func(t *testing.T) {
		riskScore := 80.0
		rating, _, factors := compose(compositeInput{
			facility:    FacilityRecord{Status: "INACTIVE", RiskScore: &riskScore},
			deductions:  clean,
			reviewScore: 5.0,
		})
		if rating != 2.5 {
			t.Fatalf("rating = %.1f, want 2.5", rating)
		}
		// The inactive cap already pulled the score below the risk bar.
		if len(factors) != 1 {
			t.Fatalf("factors = %v, want only the inactive cap", factors)
		}
	})
}

func TestRoundHalf(t *testing.T) {
	testCases := []struct {
		value float64
		want  float64
	}{
		{4.2, 4.0},
		{4.25, 4.5},
		{4.74, 4.5},
		{4.75, 5.0},
		{0.1, 0.5},
		{-1.0, 0.5},
		{5.4, 5.0},
	}
	for _, testCase := range testCases {
		if got := roundHalf(testCase.value); got != testCase.want {
			t.Errorf("roundHalf(%.2f) = %.2f, want %.2f", testCase.value, got, testCase.want)
		}
	}
}

func TestIsInactive(t *testing.T) {
	testCases := []struct {
		status string
		want   bool
	}{
		{"ACTIVE", false},
		{"Inactive", true},
		{"Temporarily Closed", true},
		{"closed", true},
		{"", false},
	}
	for _, testCase := range testCases {
		if got := isInactive(testCase.status); got != testCase.want {
			t.Errorf("isInactive(%q) = %v, want %v", testCase.status, got, testCase.want)
		}
	}
}
