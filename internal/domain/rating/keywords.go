package rating

import "strings"

// categoryKeywords drives the narrative fallback classifier. Keeping the
// lists declarative keeps the matcher trivial and the tables testable on
// their own.
var categoryKeywords = map[Category][]string{
	CategorySafety: {
		"supervis", "ratio", "unattended", "hazard", "injury",
		"firearm", "weapon", "choking", "drowning", "emergency",
		"fire extinguisher", "smoke detector", "first aid",
	},
	CategoryChildHealth: {
		"illness", "medication", "immuniz", "hygiene", "sanitiz",
		"diaper", "handwash", "health check", "vision and hearing",
		"allerg", "communicable",
	},
	CategoryChildWellBeing: {
		"discipline", "punish", "abuse", "neglect", "emotional",
		"corporal", "restrain", "yell", "humiliat",
	},
	CategoryAdministrative: {
		"background check", "training hours", "orientation", "director",
		"caregiver record", "staff record", "annual training", "cpr certif",
	},
	CategoryFacility: {
		"playground", "equipment", "repair", "maintenance", "broken",
		"building", "restroom", "square feet", "surfacing",
	},
	CategoryPaperwork: {
		"documentation", "posted", "posting", "form", "signature",
		"record of", "written", "log", "file",
	},
	CategoryTransportation: {
		"vehicle", "transport", "seat belt", "car seat", "bus",
		"passenger", "field trip",
	},
	CategoryNutrition: {
		"meal", "snack", "food", "menu", "feeding", "formula", "breakfast",
		"lunch",
	},
	CategorySleepRest: {
		"sleep", "crib", "nap", "rest period", "bedding", "swaddl",
	},
	CategoryEnvironmental: {
		"fence", "gate", "pool", "water activit", "outdoor", "shade",
		"garbage", "pest",
	},
}

// inferCategory classifies a narrative by keyword hits; the category with
// most hits wins, ties and zero hits report no match.
func inferCategory(narrative string) (Category, bool) {
	text := strings.ToLower(narrative)
	if strings.TrimSpace(text) == "" {
		return "", false
	}

	best := Category("")
	bestHits := 0
	tied := false
	for _, category := range Categories {
		keywords, ok := categoryKeywords[category]
		if !ok {
			continue
		}
		hits := 0
		for _, keyword := range keywords {
			if strings.Contains(text, keyword) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		switch {
		case hits > bestHits:
			best = category
			bestHits = hits
			tied = false
		case hits == bestHits:
			tied = true
		}
	}

	if bestHits == 0 || tied {
		return "", false
	}
	return best, true
}

// containsAny reports whether text contains any of the listed needles,
// case-insensitively. Shared by the hours/days/age operational matchers.
func containsAny(text string, needles []string) bool {
	lower := strings.ToLower(text)
	for _, needle := range needles {
		if strings.Contains(lower, needle) {
			return true
		}
	}
	return false
}
