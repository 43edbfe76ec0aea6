package rating

import (
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func TestClassifyResolution(t *testing.T) {
	classifier := NewClassifier(DefaultProfile(), testNow)
	recent := testNow.AddDate(0, -1, 0)

	testCases := []struct {
		name         string
		violation    ViolationRecord
		wantCategory Category
		wantSeverity Severity
	}{
		{
			name: "standards mapping wins over raw risk level",
			violation: ViolationRecord{
				StandardCode: "746.1201",
				RiskLevel:    "Low",
				ActivityDate: recent,
			},
			wantCategory: CategorySafety,
			wantSeverity: SeverityHigh,
		},
		{
			name: "subsection code falls back to base code",
			violation: ViolationRecord{
				StandardCode: "746.1201(a)(2)",
				RiskLevel:    "Low",
				ActivityDate: recent,
			},
			wantCategory: CategorySafety,
			wantSeverity: SeverityHigh,
		},
		{
			name: "narrative keywords classify unmapped codes",
			violation: ViolationRecord{
				StandardCode: "999.1",
				RiskLevel:    "Medium High",
				ActivityDate: recent,
				Narrative:    "Children were unattended without adequate supervision",
			},
			wantCategory: CategorySafety,
			wantSeverity: SeverityMediumHigh,
		},
		{
			name: "unmapped code without narrative lands on other",
			violation: ViolationRecord{
				StandardCode: "999.2",
				RiskLevel:    "something odd",
				ActivityDate: recent,
			},
			wantCategory: CategoryOther,
			wantSeverity: SeverityMedium,
		},
		{
			name: "corrected high steps down to medium",
			violation: ViolationRecord{
				StandardCode: "746.1201",
				Corrected:    true,
				ActivityDate: recent,
			},
			wantCategory: CategorySafety,
			wantSeverity: SeverityMedium,
		},
		{
			name: "narrative correction note counts as corrected",
			violation: ViolationRecord{
				StandardCode: "746.1201",
				ActivityDate: recent,
				Narrative:    "Ratio violation observed. Corrected on 05/10/2025.",
			},
			wantCategory: CategorySafety,
			wantSeverity: SeverityMedium,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			classified, ok := classifier.classify(testCase.violation)
			if !ok {
				t.Fatalf("classify dropped violation")
			}
			if classified.Category != testCase.wantCategory {
				t.Fatalf("category = %s, want %s", classified.Category, testCase.wantCategory)
			}
			if classified.Severity != testCase.wantSeverity {
				t.Fatalf("severity = %s, want %s", classified.Severity, testCase.wantSeverity)
			}
		})
	}
}

func TestClassifyAgeDowngrades(t *testing.T) {
	classifier := NewClassifier(DefaultProfile(), testNow)

	testCases := []struct {
		name         string
		violation    ViolationRecord
		wantSeverity Severity
		wantDropped  bool
	}{
		{
			name: "high older than a year drops to medium low",
			violation: ViolationRecord{
				StandardCode: "746.1201",
				ActivityDate: testNow.AddDate(0, -14, 0),
			},
			wantSeverity: SeverityMediumLow,
		},
		{
			name: "corrected violation older than a year stops counting",
			violation: ViolationRecord{
				StandardCode: "746.1201",
				Corrected:    true,
				ActivityDate: testNow.AddDate(0, -14, 0),
			},
			wantDropped: true,
		},
		{
			name: "missing date counts as oldest bucket",
			violation: ViolationRecord{
				StandardCode: "746.3303",
				RiskLevel:    "medium",
			},
			wantSeverity: SeverityLow,
		},
		{
			name: "six to twelve months steps one tier down",
			violation: ViolationRecord{
				StandardCode: "746.1201",
				ActivityDate: testNow.AddDate(0, -8, 0),
			},
			wantSeverity: SeverityMediumHigh,
		},
		{
			name: "three to six months only trims high",
			violation: ViolationRecord{
				StandardCode: "746.1201",
				ActivityDate: testNow.AddDate(0, -4, 0),
			},
			wantSeverity: SeverityMediumHigh,
		},
		{
			name: "three to six months keeps medium",
			violation: ViolationRecord{
				StandardCode: "746.4215",
				ActivityDate: testNow.AddDate(0, -4, 0),
			},
			wantSeverity: SeverityMedium,
		},
		{
			name: "recent violation keeps base severity",
			violation: ViolationRecord{
				StandardCode: "746.1201",
				ActivityDate: testNow.AddDate(0, -1, 0),
			},
			wantSeverity: SeverityHigh,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			classified, ok := classifier.classify(testCase.violation)
			if testCase.wantDropped {
				if ok {
					t.Fatalf("expected violation to be dropped, got %s", classified.Severity)
				}
				return
			}
			if !ok {
				t.Fatalf("classify dropped violation")
			}
			if classified.Severity != testCase.wantSeverity {
				t.Fatalf("severity = %s, want %s", classified.Severity, testCase.wantSeverity)
			}
		})
	}
}

func TestClassifyAllMinorHealthThreshold(t *testing.T) {
	classifier := NewClassifier(DefaultProfile(), testNow)
	recent := testNow.AddDate(0, -1, 0)

	minorHealth := func(count int) []ViolationRecord {
		violations := make([]ViolationRecord, 0, count)
		for i := 0; i < count; i++ {
			violations = append(violations, ViolationRecord{
				StandardCode: "746.3429",
				ActivityDate: recent,
			})
		}
		return violations
	}

	t.Run("below threshold drops minor health noise", func(t *testing.T) {
		classified := classifier.ClassifyAll(minorHealth(3))
		if len(classified) != 0 {
			t.Fatalf("classified = %d, want 0", len(classified))
		}
	})

	t.Run("at threshold every minor health violation counts", func(t *testing.T) {
		classified := classifier.ClassifyAll(minorHealth(10))
		if len(classified) != 10 {
			t.Fatalf("classified = %d, want 10", len(classified))
		}
	})

	t.Run("other categories survive the drop", func(t *testing.T) {
		violations := append(minorHealth(2), ViolationRecord{
			StandardCode: "746.1201",
			ActivityDate: recent,
		})
		classified := classifier.ClassifyAll(violations)
		if len(classified) != 1 {
			t.Fatalf("classified = %d, want 1", len(classified))
		}
		if classified[0].Category != CategorySafety {
			t.Fatalf("category = %s, want %s", classified[0].Category, CategorySafety)
		}
	})
}

func TestParseRiskLevel(t *testing.T) {
	testCases := []struct {
		raw  string
		want Severity
	}{
		{"High", SeverityHigh},
		{"medium-high", SeverityMediumHigh},
		{"MED HIGH", SeverityMediumHigh},
		{"Medium", SeverityMedium},
		{"medium_low", SeverityMediumLow},
		{"low", SeverityLow},
		{"", SeverityMedium},
		{"bogus", SeverityMedium},
	}

	for _, testCase := range testCases {
		if got := parseRiskLevel(testCase.raw); got != testCase.want {
			t.Errorf("parseRiskLevel(%q) = %s, want %s", testCase.raw, got, testCase.want)
		}
	}
}
