package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/Smashkat12/crechebooks-sub005/internal/domain"
	"github.com/Smashkat12/crechebooks-sub005/internal/payroll"
	"github.com/google/uuid"
)

// AdjustmentStore is the local persistence the add-calculations step
// writes to. Created adjustment IDs double as rollback handles.
type AdjustmentStore interface {
	Create(ctx context.Context, adj *domain.PayrollAdjustment) error
	Delete(ctx context.Context, id string) error
}

// AddCalculationsStep persists caller-supplied additional
// earning/deduction line items as payroll adjustments. Each item's code
// is validated against the engine's cached whitelist; invalid codes are
// skipped individually with a warning rather than aborting the step.
// Rollback deletes each created adjustment; partial rollback failures
// are tolerated and logged as warnings.
type AddCalculationsStep struct {
	api         payroll.Client
	adjustments AdjustmentStore
}

// NewAddCalculationsStep creates the step.
func NewAddCalculationsStep(api payroll.Client, adjustments AdjustmentStore) *AddCalculationsStep {
	return &AddCalculationsStep{api: api, adjustments: adjustments}
}

func (s *AddCalculationsStep) Name() string { return domain.StepAddCalculations }

func (s *AddCalculationsStep) Description() string {
	return "Add additional earning/deduction calculations"
}

func (s *AddCalculationsStep) ShouldSkip(pc *Context) bool {
	return len(pc.Calculations) == 0
}

func (s *AddCalculationsStep) Execute(ctx context.Context, pc *Context) error {
	whitelist, err := s.api.GetCalculationWhitelist(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch calculation whitelist: %w", err)
	}

	valid := make(map[string]struct{}, len(whitelist))
	for _, c := range whitelist {
		valid[strings.ToUpper(c.Code)] = struct{}{}
	}

	var createdIDs []string
	for _, item := range pc.Calculations {
		if _, ok := valid[strings.ToUpper(item.Code)]; !ok {
			pc.AddWarning(s.Name(), "invalid_calculation_code",
				fmt.Sprintf("calculation code %q is not on the engine whitelist; skipped", item.Code),
				domain.JSONMap{"code": item.Code})
			continue
		}

		adj := &domain.PayrollAdjustment{
			ID:          uuid.New().String(),
			TenantID:    pc.TenantID,
			StaffID:     pc.StaffID,
			RunID:       pc.Run.ID,
			Code:        item.Code,
			Name:        item.Name,
			Type:        item.Type,
			AmountCents: item.AmountCents,
		}
		if err := s.adjustments.Create(ctx, adj); err != nil {
			return fmt.Errorf("failed to persist adjustment %s: %w", item.Code, err)
		}
		createdIDs = append(createdIDs, adj.ID)
	}

	pc.Run.CalculationsAdded = len(createdIDs)
	pc.SetDetail("requested", len(pc.Calculations))
	pc.SetDetail("created", len(createdIDs))
	pc.SetRollbackData("adjustment_ids", createdIDs)

	return nil
}

// Rollback deletes the adjustments created by Execute. Individual
// deletion failures are recorded as warnings and the remainder is still
// attempted; an aggregate error is returned so the run carries a
// not-fully-rolled-back signal.
func (s *AddCalculationsStep) Rollback(ctx context.Context, pc *Context) error {
	sr := pc.Run.StepResult(s.Name())
	if sr == nil || sr.RollbackData == nil {
		return nil
	}

	ids := stringSlice(sr.RollbackData["adjustment_ids"])
	var failed int
	for _, id := range ids {
		if err := s.adjustments.Delete(ctx, id); err != nil {
			failed++
			pc.AddWarning(s.Name(), "rollback_delete_failed",
				fmt.Sprintf("failed to delete adjustment %s: %v", id, err),
				domain.JSONMap{"adjustment_id": id})
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d adjustments could not be deleted", failed, len(ids))
	}
	return nil
}

// stringSlice coerces rollback data that may have round-tripped through
// JSON ([]interface{}) back into a string slice.
func stringSlice(v interface{}) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []interface{}:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
