package rating

import "strings"

// StandardInfo is the mapped category and base severity for one
// regulatory standard code.
type StandardInfo struct {
	Category Category
	Severity Severity
}

// Standards maps a normalized standard code to its classification.
// The table is read-only after construction and safe for concurrent use.
type Standards map[string]StandardInfo

// Lookup resolves a raw standard code. Unmatched codes are retried with
// the trailing parenthetical subsection stripped, then with trailing
// dotted sub-numbering stripped.
func (s Standards) Lookup(code string) (StandardInfo, bool) {
	candidate := normalizeCode(code)
	if candidate == "" {
		return StandardInfo{}, false
	}
	if info, ok := s[candidate]; ok {
		return info, true
	}

	// "746.1203(a)(2)" -> "746.1203"
	if idx := strings.IndexByte(candidate, '('); idx > 0 {
		trimmed := strings.TrimSpace(candidate[:idx])
		if info, ok := s[trimmed]; ok {
			return info, true
		}
		candidate = trimmed
	}

	// "746.1203.4" -> "746.1203"
	for {
		idx := strings.LastIndexByte(candidate, '.')
		if idx <= 0 {
			break
		}
		if strings.Count(candidate, ".") < 2 {
			break
		}
		candidate = candidate[:idx]
		if info, ok := s[candidate]; ok {
			return info, true
		}
	}

	return StandardInfo{}, false
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// defaultStandards covers the frequently cited minimum standards for
// licensed child-care operations. Profiles may extend or replace it.
func defaultStandards() Standards {
	table := Standards{}
	add := func(category Category, severity Severity, codes ...string) {
		for _, code := range codes {
			table[code] = StandardInfo{Category: category, Severity: severity}
		}
	}

	// Supervision, ratios and physical hazards.
	add(CategorySafety, SeverityHigh,
		"746.1201", "746.1203", "746.1205", "744.1201",
		"746.3805", "746.4551", "747.1501")
	add(CategorySafety, SeverityMediumHigh,
		"746.1301", "746.1311", "746.3407", "744.1301", "746.4567")
	add(CategorySafety, SeverityMedium,
		"746.1315", "746.3419", "744.1313", "746.4427")

	// Illness, medication, immunization and hygiene.
	add(CategoryChildHealth, SeverityHigh,
		"746.3601", "746.3609", "744.3601", "747.3601")
	add(CategoryChildHealth, SeverityMediumHigh,
		"746.3611", "746.3613", "746.613", "744.3611")
	add(CategoryChildHealth, SeverityMedium,
		"746.3421", "746.3425", "744.3421")
	add(CategoryChildHealth, SeverityMediumLow,
		"746.3429", "746.3431")

	// Discipline and emotional climate.
	add(CategoryChildWellBeing, SeverityHigh,
		"746.2805", "744.2805", "747.2805")
	add(CategoryChildWellBeing, SeverityMediumHigh,
		"746.2801", "746.2803", "744.2801")
	add(CategoryChildWellBeing, SeverityMedium,
		"746.2807", "746.2809")

	// Director/caregiver records, training hours, background checks.
	add(CategoryAdministrative, SeverityMediumHigh,
		"745.615", "745.625", "746.1003")
	add(CategoryAdministrative, SeverityMedium,
		"746.1005", "746.1015", "744.1005")
	add(CategoryAdministrative, SeverityMediumLow,
		"746.1021", "746.1023")

	// Building, playground and equipment condition.
	add(CategoryFacility, SeverityMediumHigh,
		"746.4201", "746.4301", "744.4201")
	add(CategoryFacility, SeverityMedium,
		"746.4215", "746.4403", "746.4417", "744.4215")
	add(CategoryFacility, SeverityMediumLow,
		"746.4225", "746.4509")

	// Postings, forms and record retention.
	add(CategoryPaperwork, SeverityMediumLow,
		"746.501", "746.503", "745.611", "744.501")
	add(CategoryPaperwork, SeverityLow,
		"746.505", "746.605", "746.609")

	// Vehicles and transport supervision.
	add(CategoryTransportation, SeverityHigh,
		"746.5205", "744.5205")
	add(CategoryTransportation, SeverityMediumHigh,
		"746.5201", "746.5209")
	add(CategoryTransportation, SeverityMedium,
		"746.5211")

	// Food service and feeding plans.
	add(CategoryNutrition, SeverityMediumHigh,
		"746.3301", "744.3301")
	add(CategoryNutrition, SeverityMedium,
		"746.3303", "746.3315", "746.3317")

	// Safe sleep and rest periods.
	add(CategorySleepRest, SeverityHigh,
		"746.2427", "746.2429", "747.2427")
	add(CategorySleepRest, SeverityMedium,
		"746.2401", "746.2403")

	// Fencing, water features, outdoor surfacing.
	add(CategoryEnvironmental, SeverityMedium,
		"746.4701", "746.4703")
	add(CategoryEnvironmental, SeverityMediumLow,
		"746.4705", "746.4713")

	return table
}
