package profile

import (
	"testing"

	"github.com/Smashkat12/crechebooks-sub005/internal/domain"
	"github.com/Smashkat12/crechebooks-sub005/internal/payroll"
)

func TestSelectName(t *testing.T) {
	rules := DefaultRules()

	testCases := []struct {
		name        string
		role        string
		et          domain.EmploymentType
		wantProfile string
		wantMatched bool
	}{
		{
			name:        "teacher maps to educator",
			role:        "Senior Teacher",
			et:          domain.EmploymentFullTime,
			wantProfile: "Monthly Educator",
			wantMatched: true,
		},
		{
			name:        "casual wins over role match",
			role:        "Relief Teacher",
			et:          domain.EmploymentCasual,
			wantProfile: "Casual Wage",
			wantMatched: true,
		},
		{
			name:        "part time wins over role match",
			role:        "Assistant Teacher",
			et:          domain.EmploymentPartTime,
			wantProfile: "Hourly Part-Time",
			wantMatched: true,
		},
		{
			name:        "principal maps to management",
			role:        "School Principal",
			et:          domain.EmploymentFullTime,
			wantProfile: "Monthly Management",
			wantMatched: true,
		},
		{
			name:        "unknown role falls back to default",
			role:        "Gardener",
			et:          domain.EmploymentFullTime,
			wantProfile: DefaultProfileName,
			wantMatched: false,
		},
		{
			name:        "case insensitive match",
			role:        "COOK",
			et:          domain.EmploymentFullTime,
			wantProfile: "Monthly Support",
			wantMatched: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := SelectName(tc.role, tc.et, rules)
			if got.ProfileName != tc.wantProfile {
				t.Errorf("ProfileName = %q, want %q", got.ProfileName, tc.wantProfile)
			}
			if got.Matched != tc.wantMatched {
				t.Errorf("Matched = %v, want %v", got.Matched, tc.wantMatched)
			}
			wantConfidence := ConfidenceRule
			if !tc.wantMatched {
				wantConfidence = ConfidenceDefault
			}
			if got.Confidence != wantConfidence {
				t.Errorf("Confidence = %v, want %v", got.Confidence, wantConfidence)
			}
		})
	}
}

func TestSelectNamePriorityOrder(t *testing.T) {
	rules := []Rule{
		{Priority: 10, RoleContains: "teacher", ProfileName: "Low"},
		{Priority: 20, RoleContains: "teacher", ProfileName: "High"},
	}

	got := SelectName("teacher", domain.EmploymentFullTime, rules)
	if got.ProfileName != "High" {
		t.Errorf("ProfileName = %q, want %q (higher priority rule must win)", got.ProfileName, "High")
	}
}

func TestResolveID(t *testing.T) {
	available := []payroll.Profile{
		{ID: "p1", Name: "Monthly Educator"},
		{ID: "p2", Name: "Casual Wage", IsDefault: true},
		{ID: "p3", Name: "Hourly Part-Time"},
	}

	testCases := []struct {
		name         string
		wantName     string
		profiles     []payroll.Profile
		wantID       string
		wantLevel    FallbackLevel
		wantWarnings int
		wantOK       bool
	}{
		{
			name:      "exact match",
			wantName:  "Monthly Educator",
			profiles:  available,
			wantID:    "p1",
			wantLevel: FallbackNone,
			wantOK:    true,
		},
		{
			name:      "case insensitive match",
			wantName:  "monthly educator",
			profiles:  available,
			wantID:    "p1",
			wantLevel: FallbackNone,
			wantOK:    true,
		},
		{
			name:      "substring match",
			wantName:  "Educator",
			profiles:  available,
			wantID:    "p1",
			wantLevel: FallbackNone,
			wantOK:    true,
		},
		{
			name:         "engine default fallback",
			wantName:     "Nonexistent Profile",
			profiles:     available,
			wantID:       "p2",
			wantLevel:    FallbackEngineDefault,
			wantWarnings: 1,
			wantOK:       true,
		},
		{
			name:     "first available fallback",
			wantName: "Nonexistent Profile",
			profiles: []payroll.Profile{
				{ID: "p9", Name: "Only Profile"},
			},
			wantID:       "p9",
			wantLevel:    FallbackFirst,
			wantWarnings: 1,
			wantOK:       true,
		},
		{
			name:     "no profiles at all",
			wantName: "Anything",
			profiles: nil,
			wantOK:   false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ResolveID(tc.wantName, tc.profiles)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if got.ProfileID != tc.wantID {
				t.Errorf("ProfileID = %q, want %q", got.ProfileID, tc.wantID)
			}
			if got.Level != tc.wantLevel {
				t.Errorf("Level = %q, want %q", got.Level, tc.wantLevel)
			}
			if len(got.Warnings) != tc.wantWarnings {
				t.Errorf("Warnings = %v, want %d warning(s)", got.Warnings, tc.wantWarnings)
			}
		})
	}
}
