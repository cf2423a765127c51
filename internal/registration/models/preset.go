package models

import (
	"regexp"
	"time"
)

// Preset bundles the rule-variant knobs observed in the field: two variants
// of the validation rules coexist, so both ship as configuration presets
// rather than being reconciled into one rule set.
type Preset struct {
	Name string

	// Normalizer caps.
	DocumentMaxLength int // 0 means uncapped
	PlateMaxLength    int
	PhoneMaxLength    int

	// Plate rules.
	PlateMinLength int
	PlateMaxRule   int // validated upper bound, equals PlateMinLength for fixed-length plates
	PlatePattern   *regexp.Regexp

	// Phone rules.
	PhoneRequired bool

	// Duplicate-guard policy.
	GuardTimeout    time.Duration
	GuardRetryPause time.Duration
	GuardFailOpen   bool

	// Success flag auto-clear window.
	SuccessTTL time.Duration
}

var (
	platePatternStrict  = regexp.MustCompile(`^[A-Z]{3}[0-9]{2}$`)
	platePatternLenient = regexp.MustCompile(`^[A-Z0-9]{6,7}$`)
)

// PresetStrict matches the campaign form as last deployed: Colombian
// motorcycle plates (3 letters + 2 digits), mandatory mobile phone, and a
// fail-open duplicate guard so a degraded store never turns away a
// legitimate registrant.
func PresetStrict() Preset {
	return Preset{
		Name:              "strict",
		DocumentMaxLength: 10,
		PlateMaxLength:    5,
		PhoneMaxLength:    10,
		PlateMinLength:    5,
		PlateMaxRule:      5,
		PlatePattern:      platePatternStrict,
		PhoneRequired:     true,
		GuardTimeout:      5 * time.Second,
		GuardRetryPause:   time.Second,
		GuardFailOpen:     true,
		SuccessTTL:        8 * time.Second,
	}
}

// PresetLenient matches the earlier rule set: 6-7 character alphanumeric
// plates, no phone field, and a fail-closed guard that blocks submission on
// any query failure.
func PresetLenient() Preset {
	return Preset{
		Name:              "lenient",
		DocumentMaxLength: 0,
		PlateMaxLength:    7,
		PhoneMaxLength:    10,
		PlateMinLength:    6,
		PlateMaxRule:      7,
		PlatePattern:      platePatternLenient,
		PhoneRequired:     false,
		GuardTimeout:      5 * time.Second,
		GuardRetryPause:   0,
		GuardFailOpen:     false,
		SuccessTTL:        5 * time.Second,
	}
}

// PresetByName resolves a configured preset name, defaulting to strict.
func PresetByName(name string) Preset {
	if name == "lenient" {
		return PresetLenient()
	}
	return PresetStrict()
}
