package rating

import "testing"

func TestStandardsLookup(t *testing.T) {
	standards := defaultStandards()

	testCases := []struct {
		name         string
		code         string
		wantCategory Category
		wantSeverity Severity
		wantFound    bool
	}{
		{
			name:         "exact match",
			code:         "746.1201",
			wantCategory: CategorySafety,
			wantSeverity: SeverityHigh,
			wantFound:    true,
		},
		{
			name:         "case and whitespace normalized",
			code:         "  746.2805  ",
			wantCategory: CategoryChildWellBeing,
			wantSeverity: SeverityHigh,
			wantFound:    true,
		},
		{
			name:         "parenthetical subsection stripped",
			code:         "746.1201(a)(2)",
			wantCategory: CategorySafety,
			wantSeverity: SeverityHigh,
			wantFound:    true,
		},
		{
			name:         "trailing dotted subsection stripped",
			code:         "746.1201.4",
			wantCategory: CategorySafety,
			wantSeverity: SeverityHigh,
			wantFound:    true,
		},
		{
			name:      "unknown code",
			code:      "999.9999",
			wantFound: false,
		},
		{
			name:      "empty code",
			code:      "   ",
			wantFound: false,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			info, found := standards.Lookup(testCase.code)
			if found != testCase.wantFound {
				t.Fatalf("found = %v, want %v", found, testCase.wantFound)
			}
			if !found {
				return
			}
			if info.Category != testCase.wantCategory {
				t.Fatalf("category = %s, want %s", info.Category, testCase.wantCategory)
			}
			if info.Severity != testCase.wantSeverity {
				t.Fatalf("severity = %s, want %s", info.Severity, testCase.wantSeverity)
			}
		})
	}
}

func TestInferCategory(t *testing.T) {
	testCases := []struct {
		name      string
		narrative string
		want      Category
		wantFound bool
	}{
		{
			name:      "clear safety narrative",
			narrative: "Children were left unattended without supervision",
			want:      CategorySafety,
			wantFound: true,
		},
		{
			name:      "clear nutrition narrative",
			narrative: "Lunch menu did not include a snack or a full meal",
			want:      CategoryNutrition,
			wantFound: true,
		},
		{
			name:      "tie reports no match",
			narrative: "broken crib",
			wantFound: false,
		},
		{
			name:      "empty narrative",
			narrative: "",
			wantFound: false,
		},
		{
			name:      "no keyword hits",
			narrative: "miscellaneous observation",
			wantFound: false,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got, found := inferCategory(testCase.narrative)
			if found != testCase.wantFound {
				t.Fatalf("found = %v, want %v", found, testCase.wantFound)
			}
			if found && got != testCase.want {
				t.Fatalf("category = %s, want %s", got, testCase.want)
			}
		})
	}
}
