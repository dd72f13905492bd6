package pipeline

import (
	"context"
	"fmt"

	"github.com/Smashkat12/crechebooks-sub005/internal/domain"
	"github.com/Smashkat12/crechebooks-sub005/internal/payroll"
	"github.com/Smashkat12/crechebooks-sub005/internal/profile"
)

// AssignProfileStep assigns a pay profile to the employee. An explicit
// caller-supplied profile ID wins; otherwise the profile selector maps
// the job role to a profile name and resolves it against the engine's
// available profiles, warning on every fallback taken. The resulting
// mapping ID is the rollback handle: compensation removes the mapping.
type AssignProfileStep struct {
	api   payroll.Client
	rules []profile.Rule
}

// NewAssignProfileStep creates the step with the built-in role rules.
func NewAssignProfileStep(api payroll.Client) *AssignProfileStep {
	return &AssignProfileStep{api: api, rules: profile.DefaultRules()}
}

func (s *AssignProfileStep) Name() string { return domain.StepAssignProfile }

func (s *AssignProfileStep) Description() string {
	return "Assign a pay profile to the employee"
}

// ShouldSkip always returns false: every employee needs a profile.
func (s *AssignProfileStep) ShouldSkip(pc *Context) bool {
	return false
}

func (s *AssignProfileStep) Execute(ctx context.Context, pc *Context) error {
	if pc.ExternalEmployeeID == "" {
		return fmt.Errorf("no external employee ID in context; create-employee must run first")
	}

	profileID := pc.RequestedProfileID
	profileName := ""

	if profileID == "" {
		sel := profile.SelectName(pc.Staff.Position, pc.Staff.EmploymentType, s.rules)
		if !sel.Matched {
			pc.AddWarning(s.Name(), "unmapped_role",
				fmt.Sprintf("no profile rule for role %q; using default profile %q",
					pc.Staff.Position, sel.ProfileName), nil)
		}

		available, err := s.api.GetAvailableProfiles(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch available profiles: %w", err)
		}

		res, ok := profile.ResolveID(sel.ProfileName, available)
		if !ok {
			pc.AddError(s.Name(), "no_profiles_available",
				"the payroll engine has no pay profiles configured", nil)
			return fmt.Errorf("no pay profiles available: %w", ErrStepFailed)
		}
		for _, w := range res.Warnings {
			pc.AddWarning(s.Name(), "profile_fallback", w, domain.JSONMap{
				"level": string(res.Level),
			})
		}

		profileID = res.ProfileID
		profileName = res.ProfileName
	}

	mapping, err := s.api.AssignProfile(ctx, pc.ExternalEmployeeID, profileID)
	if err != nil {
		return fmt.Errorf("failed to assign profile %s: %w", profileID, err)
	}

	pc.ProfileID = profileID
	if profileName == "" {
		profileName = mapping.ProfileName
	}
	pc.ProfileName = profileName
	pc.Run.ProfileAssigned = profileName

	pc.SetDetail("profile_id", profileID)
	pc.SetDetail("profile_name", profileName)
	pc.SetRollbackData("mapping_id", mapping.ID)

	return nil
}

// Rollback removes the profile mapping created by Execute.
func (s *AssignProfileStep) Rollback(ctx context.Context, pc *Context) error {
	sr := pc.Run.StepResult(s.Name())
	if sr == nil || sr.RollbackData == nil {
		return fmt.Errorf("no rollback data recorded for profile assignment")
	}
	mappingID, _ := sr.RollbackData["mapping_id"].(string)
	if mappingID == "" {
		return fmt.Errorf("no mapping ID recorded for profile assignment")
	}

	if err := s.api.RemoveProfileMapping(ctx, mappingID); err != nil {
		return fmt.Errorf("failed to remove profile mapping %s: %w", mappingID, err)
	}
	pc.Run.ProfileAssigned = ""
	return nil
}
