package rating

import (
	"math"
	"strings"
	"testing"
)

func TestDiminishTranches(t *testing.T) {
	profile := DefaultProfile()

	testCases := []struct {
		name     string
		positive float64
		want     float64
	}{
		{name: "zero stays zero", positive: 0, want: 0},
		{name: "first tranche counts in full", positive: 0.08, want: 0.08},
		{name: "second tranche at eighty percent", positive: 0.15, want: 0.14},
		{name: "third tranche at sixty percent", positive: 0.25, want: 0.21},
		{name: "tail counts at twenty percent", positive: 0.50, want: 0.30},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := diminish(profile, testCase.positive)
			if math.Abs(got-testCase.want) > 1e-9 {
				t.Fatalf("diminish(%.2f) = %.4f, want %.4f", testCase.positive, got, testCase.want)
			}
		})
	}
}

func TestExtractQualityDescriptive(t *testing.T) {
	profile := DefaultProfile()

	outcome := ExtractQuality(profile, FacilityRecord{
		ProgramsText: "NAEYC accredited Montessori program",
	})

	// naeyc 0.25 + accredited 0.12 + montessori 0.15 = 0.52 raw.
	if math.Abs(outcome.RawBoost-0.52) > 1e-9 {
		t.Fatalf("raw boost = %.4f, want 0.52", outcome.RawBoost)
	}
	if math.Abs(outcome.Boost-0.304) > 1e-9 {
		t.Fatalf("boost = %.4f, want 0.304", outcome.Boost)
	}
	if len(outcome.Indicators) != 3 {
		t.Fatalf("indicators = %d, want 3: %v", len(outcome.Indicators), outcome.Indicators)
	}
}

func TestExtractQualityPenaltyUndiminished(t *testing.T) {
	profile := DefaultProfile()

	outcome := ExtractQuality(profile, FacilityRecord{PermitConditions: true})

	if math.Abs(outcome.Boost-(-0.15)) > 1e-9 {
		t.Fatalf("boost = %.4f, want -0.15", outcome.Boost)
	}
	if len(outcome.Indicators) != 1 {
		t.Fatalf("indicators = %d, want 1", len(outcome.Indicators))
	}
	if outcome.Indicators[0].Label != "Operating with permit conditions" {
		t.Fatalf("label = %q", outcome.Indicators[0].Label)
	}
}

func TestExtractQualityClampsAtMaxBoost(t *testing.T) {
	profile := DefaultProfile()

	var keywords []string
	for _, dictionary := range profile.Descriptive {
		for keyword := range dictionary {
			keywords = append(keywords, keyword)
		}
	}
	facility := FacilityRecord{
		ProgramsText:   strings.Join(keywords, " | "),
		AcceptsSubsidy: true,
		Capacity:       150,
	}

	outcome := ExtractQuality(profile, facility)
	if math.Abs(outcome.Boost-profile.MaxQualityBoost) > 1e-9 {
		t.Fatalf("boost = %.4f, want clamp at %.2f", outcome.Boost, profile.MaxQualityBoost)
	}
	if outcome.RawBoost <= outcome.Boost {
		t.Fatalf("raw boost %.4f should exceed clamped boost %.4f", outcome.RawBoost, outcome.Boost)
	}
}

func TestMatchOperationalSchedule(t *testing.T) {
	profile := DefaultProfile()

	t.Run("around the clock suppresses hour boosts", func(t *testing.T) {
		indicators := matchOperational(profile, FacilityRecord{
			HoursText: "Open 24 hours, including overnight",
		})
		if len(indicators) != 1 {
			t.Fatalf("indicators = %d, want 1: %v", len(indicators), indicators)
		}
		if indicators[0].Label != "24-hour care" {
			t.Fatalf("label = %q", indicators[0].Label)
		}
	})

	t.Run("early and evening hours both count", func(t *testing.T) {
		indicators := matchOperational(profile, FacilityRecord{
			HoursText: "6:00 AM to 7:00 PM",
		})
		if len(indicators) != 2 {
			t.Fatalf("indicators = %d, want 2: %v", len(indicators), indicators)
		}
	})

	t.Run("seven days suppresses weekend boosts", func(t *testing.T) {
		indicators := matchOperational(profile, FacilityRecord{
			DaysText: "Open 7 days a week including Saturday and Sunday",
		})
		if len(indicators) != 1 {
			t.Fatalf("indicators = %d, want 1: %v", len(indicators), indicators)
		}
		if indicators[0].Label != "Open 7 days a week" {
			t.Fatalf("label = %q", indicators[0].Label)
		}
	})

	t.Run("wide age range requires infant care", func(t *testing.T) {
		indicators := matchOperational(profile, FacilityRecord{
			AgeRangeText: "5 years to 13 years",
		})
		if len(indicators) != 0 {
			t.Fatalf("indicators = %d, want 0: %v", len(indicators), indicators)
		}

		indicators = matchOperational(profile, FacilityRecord{
			AgeRangeText: "6 weeks to 13 years",
		})
		if len(indicators) != 2 {
			t.Fatalf("indicators = %d, want 2: %v", len(indicators), indicators)
		}
	})
}
