// Package profile maps job roles to pay profiles on the external payroll
// engine, with a deterministic fallback chain when the ideal profile is
// not configured.
package profile

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Smashkat12/crechebooks-sub005/internal/domain"
	"github.com/Smashkat12/crechebooks-sub005/internal/payroll"
)

// Confidence levels attached to a name selection.
const (
	ConfidenceRule    = 1.0
	ConfidenceDefault = 0.5
)

// DefaultProfileName is returned when no rule matches a role.
const DefaultProfileName = "Monthly Salaried"

// Rule maps a job role pattern to a target profile name. A rule matches
// when the role contains RoleContains (case-insensitive) and the
// employment type equals EmploymentType; empty constraints match
// anything. Rules are tried by descending priority, first match wins.
type Rule struct {
	Priority       int
	RoleContains   string
	EmploymentType domain.EmploymentType
	ProfileName    string
}

// Matches reports whether the rule applies to a role/employment type.
func (r Rule) Matches(role string, et domain.EmploymentType) bool {
	if r.RoleContains != "" && !strings.Contains(strings.ToLower(role), strings.ToLower(r.RoleContains)) {
		return false
	}
	if r.EmploymentType != "" && r.EmploymentType != et {
		return false
	}
	return true
}

// DefaultRules returns the built-in role-to-profile mapping for creche
// staff.
func DefaultRules() []Rule {
	return []Rule{
		{Priority: 100, EmploymentType: domain.EmploymentCasual, ProfileName: "Casual Wage"},
		{Priority: 90, EmploymentType: domain.EmploymentPartTime, ProfileName: "Hourly Part-Time"},
		{Priority: 80, RoleContains: "principal", ProfileName: "Monthly Management"},
		{Priority: 70, RoleContains: "teacher", ProfileName: "Monthly Educator"},
		{Priority: 70, RoleContains: "educator", ProfileName: "Monthly Educator"},
		{Priority: 60, RoleContains: "assistant", ProfileName: "Monthly Educator"},
		{Priority: 50, RoleContains: "cook", ProfileName: "Monthly Support"},
		{Priority: 50, RoleContains: "cleaner", ProfileName: "Monthly Support"},
		{Priority: 40, RoleContains: "admin", ProfileName: "Monthly Salaried"},
	}
}

// Selection is the outcome of mapping a role to a profile name.
type Selection struct {
	ProfileName string
	Confidence  float64
	Matched     bool // false when the default fallback was used
}

// SelectName maps a job role and employment type to a target profile
// name using the given rules. When no rule matches, the default profile
// name is returned with lower confidence.
func SelectName(role string, et domain.EmploymentType, rules []Rule) Selection {
	ordered := make([]Rule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	for _, rule := range ordered {
		if rule.Matches(role, et) {
			return Selection{
				ProfileName: rule.ProfileName,
				Confidence:  ConfidenceRule,
				Matched:     true,
			}
		}
	}

	return Selection{
		ProfileName: DefaultProfileName,
		Confidence:  ConfidenceDefault,
		Matched:     false,
	}
}

// FallbackLevel records which rung of the resolution chain produced the
// profile ID.
type FallbackLevel string

const (
	FallbackNone          FallbackLevel = "exact"
	FallbackEngineDefault FallbackLevel = "engine_default"
	FallbackFirst         FallbackLevel = "first_available"
)

// Resolution is the outcome of resolving a profile name to an engine
// profile ID. Warnings explain every non-ideal fallback taken so callers
// can audit why a profile was chosen.
type Resolution struct {
	ProfileID   string
	ProfileName string
	Level       FallbackLevel
	Warnings    []string
}

// ResolveID resolves a profile name to a profile known to the engine:
// exact or substring case-insensitive match first, then the engine's
// flagged default, then the first available profile. Returns ok=false
// when the engine has no profiles at all.
func ResolveID(wantName string, available []payroll.Profile) (Resolution, bool) {
	want := strings.ToLower(strings.TrimSpace(wantName))

	if want != "" {
		for _, p := range available {
			if strings.ToLower(p.Name) == want {
				return Resolution{ProfileID: p.ID, ProfileName: p.Name, Level: FallbackNone}, true
			}
		}
		for _, p := range available {
			name := strings.ToLower(p.Name)
			if strings.Contains(name, want) || strings.Contains(want, name) {
				return Resolution{ProfileID: p.ID, ProfileName: p.Name, Level: FallbackNone}, true
			}
		}
	}

	for _, p := range available {
		if p.IsDefault {
			return Resolution{
				ProfileID:   p.ID,
				ProfileName: p.Name,
				Level:       FallbackEngineDefault,
				Warnings: []string{
					fmt.Sprintf("no profile matching %q; using engine default profile %q", wantName, p.Name),
				},
			}, true
		}
	}

	if len(available) > 0 {
		p := available[0]
		return Resolution{
			ProfileID:   p.ID,
			ProfileName: p.Name,
			Level:       FallbackFirst,
			Warnings: []string{
				fmt.Sprintf("no profile matching %q and no engine default; using first available profile %q", wantName, p.Name),
			},
		}, true
	}

	return Resolution{}, false
}
