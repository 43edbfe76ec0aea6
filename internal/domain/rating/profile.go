package rating

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DeductionRule holds the diminishing-marginal constants for one
// category/severity cell: deduction = min(cap, base + (count-1)*increment),
// contributing nothing below MinCount occurrences.
type DeductionRule struct {
	Base      float64 `toml:"base"`
	Increment float64 `toml:"increment"`
	Cap       float64 `toml:"cap"`
	MinCount  int     `toml:"min_count"`
}

// OperationalWeights are small fixed boosts read from structured facility
// fields, deliberately smaller than the descriptive dictionary boosts.
type OperationalWeights struct {
	Subsidy          float64 `toml:"subsidy"`
	EarlyMorning     float64 `toml:"early_morning"`
	Evening          float64 `toml:"evening"`
	AroundTheClock   float64 `toml:"around_the_clock"`
	Saturday         float64 `toml:"saturday"`
	Sunday           float64 `toml:"sunday"`
	SevenDays        float64 `toml:"seven_days"`
	PermitConditions float64 `toml:"permit_conditions"`
	LargeCapacity    float64 `toml:"large_capacity"`
	InfantCare       float64 `toml:"infant_care"`
	WideAgeRange     float64 `toml:"wide_age_range"`
}

// Bucket maps a continuous score below a threshold onto a half-star tier.
type Bucket struct {
	Below  float64 `toml:"below"`
	Rating float64 `toml:"rating"`
}

// BalancedProfile is the alternate policy applied by the distribution
// calibrator: smaller indicator weights, a lower boost cap, bounded
// jitter and non-uniform bucket thresholds.
type BalancedProfile struct {
	Scale    float64  `toml:"scale"`
	MaxBoost float64  `toml:"max_boost"`
	Jitter   float64  `toml:"jitter"`
	Buckets  []Bucket `toml:"buckets"`
}

// Profile bundles every tunable the engine consumes. A Profile is
// read-only once built and safe to share across facilities and goroutines.
type Profile struct {
	Standards   Standards
	Deductions  map[Category]map[Severity]DeductionRule
	Descriptive map[IndicatorKind]map[string]float64
	Operational OperationalWeights

	// MaxQualityBoost clamps the final positive boost, in stars.
	MaxQualityBoost float64
	// Diminishing-returns tranches over positive raw boost: the first
	// TrancheSize stars count at TrancheRates[0], the next at [1], and so
	// on; the remainder past the table counts at TailRate.
	TrancheSize  float64
	TrancheRates []float64
	TailRate     float64

	// Minor health violations (low/medium_low) only count once the
	// facility accumulates MinorHealthMinCount of them inside the
	// trailing MinorHealthWindowDays.
	MinorHealthWindowDays int
	MinorHealthMinCount   int

	Balanced BalancedProfile
}

// profileFile is the TOML shape; every section is optional and overlays
// the built-in defaults.
type profileFile struct {
	Version   int               `toml:"version"`
	Standards []profileStandard `toml:"standards"`

	Deductions map[string]map[string]DeductionRule `toml:"deductions"`
	Quality    map[string]map[string]float64       `toml:"quality"`

	Operational *OperationalWeights `toml:"operational"`
	MaxBoost    *float64            `toml:"max_boost"`
	Balanced    *BalancedProfile    `toml:"balanced"`
}

type profileStandard struct {
	Code     string `toml:"code"`
	Category string `toml:"category"`
	Severity string `toml:"severity"`
}

// DefaultProfile returns the hand-calibrated production constants.
func DefaultProfile() *Profile {
	return &Profile{
		Standards:   defaultStandards(),
		Deductions:  defaultDeductions(),
		Descriptive: defaultDescriptive(),
		Operational: OperationalWeights{
			Subsidy:          0.05,
			EarlyMorning:     0.05,
			Evening:          0.05,
			AroundTheClock:   0.10,
			Saturday:         0.05,
			Sunday:           0.05,
			SevenDays:        0.08,
			PermitConditions: -0.15,
			LargeCapacity:    0.05,
			InfantCare:       0.05,
			WideAgeRange:     0.05,
		},
		MaxQualityBoost:       0.5,
		TrancheSize:           0.1,
		TrancheRates:          []float64{1.0, 0.8, 0.6, 0.4},
		TailRate:              0.2,
		MinorHealthWindowDays: 183,
		MinorHealthMinCount:   10,
		Balanced: BalancedProfile{
			Scale:    0.5,
			MaxBoost: 0.3,
			Jitter:   0.15,
			Buckets: []Bucket{
				{Below: 1.25, Rating: 1.0},
				{Below: 1.75, Rating: 1.5},
				{Below: 2.25, Rating: 2.0},
				{Below: 2.65, Rating: 2.5},
				{Below: 3.10, Rating: 3.0},
				{Below: 3.45, Rating: 3.5},
				{Below: 3.90, Rating: 4.0},
				// The 4.5 tier spans two bands, keeping nine thresholds
				// with a wide gap below the 5.0 tier.
				{Below: 4.40, Rating: 4.5},
				{Below: 4.75, Rating: 4.5},
			},
		},
	}
}

// LoadProfile reads a TOML profile and overlays it onto the defaults.
// An empty path returns the defaults unchanged.
func LoadProfile(path string) (*Profile, error) {
	profile := DefaultProfile()

	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return profile, nil
	}

	raw, err := os.ReadFile(trimmed)
	if err != nil {
		return nil, err
	}

	var file profileFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return nil, err
	}

	if err := applyProfileFile(profile, file); err != nil {
		return nil, err
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return profile, nil
}

func applyProfileFile(profile *Profile, file profileFile) error {
	for _, entry := range file.Standards {
		category, ok := parseCategory(entry.Category)
		if !ok {
			return fmt.Errorf("standard %s: unknown category %q", entry.Code, entry.Category)
		}
		severity, ok := parseSeverity(entry.Severity)
		if !ok {
			return fmt.Errorf("standard %s: unknown severity %q", entry.Code, entry.Severity)
		}
		code := normalizeCode(entry.Code)
		if code == "" {
			return errors.New("standard entry without code")
		}
		profile.Standards[code] = StandardInfo{Category: category, Severity: severity}
	}

	for rawCategory, tiers := range file.Deductions {
		category, ok := parseCategory(rawCategory)
		if !ok {
			return fmt.Errorf("deductions: unknown category %q", rawCategory)
		}
		for rawSeverity, rule := range tiers {
			severity, ok := parseSeverity(rawSeverity)
			if !ok {
				return fmt.Errorf("deductions.%s: unknown severity %q", rawCategory, rawSeverity)
			}
			// Default tier maps are shared between categories; copy before
			// overriding a single cell.
			cloned := map[Severity]DeductionRule{}
			for tier, existing := range profile.Deductions[category] {
				cloned[tier] = existing
			}
			cloned[severity] = rule
			profile.Deductions[category] = cloned
		}
	}

	for rawKind, entries := range file.Quality {
		kind, ok := parseIndicatorKind(rawKind)
		if !ok {
			return fmt.Errorf("quality: unknown dictionary %q", rawKind)
		}
		if profile.Descriptive[kind] == nil {
			profile.Descriptive[kind] = map[string]float64{}
		}
		for keyword, boost := range entries {
			profile.Descriptive[kind][strings.ToLower(strings.TrimSpace(keyword))] = boost
		}
	}

	if file.Operational != nil {
		profile.Operational = *file.Operational
	}
	if file.MaxBoost != nil {
		profile.MaxQualityBoost = *file.MaxBoost
	}
	if file.Balanced != nil {
		balanced := *file.Balanced
		if len(balanced.Buckets) == 0 {
			balanced.Buckets = profile.Balanced.Buckets
		}
		profile.Balanced = balanced
	}
	return nil
}

// Validate rejects profiles the engine cannot score with.
func (p *Profile) Validate() error {
	if len(p.Standards) == 0 {
		return errors.New("profile has no standards mapping")
	}
	if p.MaxQualityBoost <= 0 {
		return errors.New("max quality boost must be positive")
	}
	if p.TrancheSize <= 0 {
		return errors.New("tranche size must be positive")
	}
	for category, tiers := range p.Deductions {
		for severity, rule := range tiers {
			if rule.Base < 0 || rule.Increment < 0 || rule.Cap < rule.Base {
				return fmt.Errorf("deductions.%s.%s: invalid rule", category, severity)
			}
		}
	}
	if p.Balanced.Scale <= 0 || p.Balanced.MaxBoost <= 0 {
		return errors.New("balanced profile requires positive scale and max boost")
	}
	if len(p.Balanced.Buckets) == 0 {
		return errors.New("balanced profile requires bucket thresholds")
	}
	previous := 0.0
	for i, bucket := range p.Balanced.Buckets {
		if bucket.Below <= previous {
			return fmt.Errorf("balanced bucket %d not strictly increasing", i)
		}
		previous = bucket.Below
	}
	return nil
}

func parseCategory(raw string) (Category, bool) {
	candidate := Category(strings.ToLower(strings.TrimSpace(raw)))
	for _, category := range Categories {
		if candidate == category {
			return category, true
		}
	}
	return "", false
}

func parseSeverity(raw string) (Severity, bool) {
	candidate := Severity(strings.ToLower(strings.TrimSpace(raw)))
	for _, severity := range Severities {
		if candidate == severity {
			return severity, true
		}
	}
	if candidate == SeverityNone {
		return SeverityNone, true
	}
	return "", false
}

func parseIndicatorKind(raw string) (IndicatorKind, bool) {
	candidate := IndicatorKind(strings.ToLower(strings.TrimSpace(raw)))
	switch candidate {
	case KindAccreditation, KindCurriculum, KindStaff, KindHealth, KindServices, KindOperational:
		return candidate, true
	}
	return "", false
}
