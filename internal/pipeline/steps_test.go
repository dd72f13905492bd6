package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Smashkat12/crechebooks-sub005/internal/domain"
	"github.com/Smashkat12/crechebooks-sub005/internal/payroll"
)

// fakeClient is a scriptable payroll.Client. Unset hooks return empty
// success values.
type fakeClient struct {
	createEmployee   func(req *payroll.EmployeeRequest) (*payroll.Employee, error)
	getEmployee      func(id string) (*payroll.Employee, error)
	updateAttributes func(id string, attrs []payroll.AttributeUpdate) error
	assignProfile    func(employeeID, profileID string) (*payroll.ProfileMapping, error)
	removeMapping    func(mappingID string) error
	patchTax         func(id string, req *payroll.TaxFieldsRequest) error

	profiles     []payroll.Profile
	profilesErr  error
	mappings     []payroll.ProfileMapping
	mappingsErr  error
	whitelist    []payroll.CalculationCode
	whitelistErr error
	balances     []payroll.LeaveBalance
	balancesErr  error

	updateCalls int
}

func (c *fakeClient) CreateOrUpdateEmployee(_ context.Context, req *payroll.EmployeeRequest) (*payroll.Employee, error) {
	if c.createEmployee != nil {
		return c.createEmployee(req)
	}
	return &payroll.Employee{ID: "emp-1"}, nil
}

func (c *fakeClient) GetEmployee(_ context.Context, id string) (*payroll.Employee, error) {
	if c.getEmployee != nil {
		return c.getEmployee(id)
	}
	return &payroll.Employee{ID: id}, nil
}

func (c *fakeClient) UpdateAttributes(_ context.Context, id string, attrs []payroll.AttributeUpdate) error {
	c.updateCalls++
	if c.updateAttributes != nil {
		return c.updateAttributes(id, attrs)
	}
	return nil
}

func (c *fakeClient) GetAvailableProfiles(context.Context) ([]payroll.Profile, error) {
	return c.profiles, c.profilesErr
}

func (c *fakeClient) AssignProfile(_ context.Context, employeeID, profileID string) (*payroll.ProfileMapping, error) {
	if c.assignProfile != nil {
		return c.assignProfile(employeeID, profileID)
	}
	return &payroll.ProfileMapping{ID: "map-1", EmployeeID: employeeID, ProfileID: profileID}, nil
}

func (c *fakeClient) GetProfileMappings(context.Context, string) ([]payroll.ProfileMapping, error) {
	return c.mappings, c.mappingsErr
}

func (c *fakeClient) RemoveProfileMapping(_ context.Context, mappingID string) error {
	if c.removeMapping != nil {
		return c.removeMapping(mappingID)
	}
	return nil
}

func (c *fakeClient) PatchTaxFields(_ context.Context, id string, req *payroll.TaxFieldsRequest) error {
	if c.patchTax != nil {
		return c.patchTax(id, req)
	}
	return nil
}

func (c *fakeClient) GetCalculationWhitelist(context.Context) ([]payroll.CalculationCode, error) {
	return c.whitelist, c.whitelistErr
}

func (c *fakeClient) GetLeaveTypes(context.Context) ([]payroll.LeaveType, error) {
	return nil, nil
}

func (c *fakeClient) GetLeaveBalances(context.Context, string) ([]payroll.LeaveBalance, error) {
	return c.balances, c.balancesErr
}

// fakeAdjustments is an in-memory AdjustmentStore.
type fakeAdjustments struct {
	created   []*domain.PayrollAdjustment
	deleted   []string
	deleteErr error
}

func (f *fakeAdjustments) Create(_ context.Context, adj *domain.PayrollAdjustment) error {
	f.created = append(f.created, adj)
	return nil
}

func (f *fakeAdjustments) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeEmitter records emitted events.
type fakeEmitter struct {
	names    []string
	payloads []map[string]interface{}
	err      error
}

func (f *fakeEmitter) Emit(_ context.Context, name string, payload map[string]interface{}) error {
	f.names = append(f.names, name)
	f.payloads = append(f.payloads, payload)
	return f.err
}

func testSnapshot() domain.StaffSnapshot {
	return domain.StaffSnapshot{
		ID:                 "staff-1",
		TenantID:           "tenant-1",
		FirstName:          "Nomsa",
		LastName:           "Dlamini",
		IDNumber:           "8001015009087",
		Email:              "nomsa@example.com",
		Position:           "Teacher",
		EmploymentType:     domain.EmploymentFullTime,
		StartDate:          time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		MonthlySalaryCents: 1_850_000,
		HoursPerWeek:       40,
		TaxNumber:          "1234567890",
	}
}

// stepContext builds a context with a pending step result for name and
// points current at it, the way the orchestrator does around Execute.
func stepContext(name string) *Context {
	run := &domain.SetupRun{
		ID:       "run-1",
		TenantID: "tenant-1",
		StaffID:  "staff-1",
		StepResults: domain.StepResultList{
			{Step: name, Status: domain.StepStatusPending},
		},
	}
	pc := &Context{
		TenantID: "tenant-1",
		StaffID:  "staff-1",
		Staff:    testSnapshot(),
		Run:      run,
	}
	pc.current = run.StepResult(name)
	return pc
}

func notVisibleErr() error {
	return &payroll.APIError{Code: payroll.CodeRecordNotVisible, Message: "record not yet available", HTTPStatus: 404}
}

func TestCreateEmployeeStoresExternalIDs(t *testing.T) {
	var got *payroll.EmployeeRequest
	api := &fakeClient{
		createEmployee: func(req *payroll.EmployeeRequest) (*payroll.Employee, error) {
			got = req
			return &payroll.Employee{ID: "emp-42", DefaultWaveID: "wave-7"}, nil
		},
	}
	step := NewCreateEmployeeStep(api)
	pc := stepContext(step.Name())

	if step.ShouldSkip(pc) {
		t.Fatal("step should not skip without an external ID")
	}
	if err := step.Execute(context.Background(), pc); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	if pc.ExternalEmployeeID != "emp-42" || pc.Run.ExternalEmployeeID != "emp-42" {
		t.Errorf("external ID not propagated: ctx=%q run=%q", pc.ExternalEmployeeID, pc.Run.ExternalEmployeeID)
	}
	if pc.PayWaveID != "wave-7" {
		t.Errorf("PayWaveID = %q, want wave-7", pc.PayWaveID)
	}
	if got.StartDate != "2024-03-01" {
		t.Errorf("start date = %q, want 2024-03-01", got.StartDate)
	}

	pc.ExternalEmployeeID = "emp-42"
	if !step.ShouldSkip(pc) {
		t.Error("step should skip once an external ID exists")
	}
}

func TestSetSalaryRetriesOnRecordNotVisible(t *testing.T) {
	calls := 0
	api := &fakeClient{
		updateAttributes: func(string, []payroll.AttributeUpdate) error {
			calls++
			if calls < 3 {
				return notVisibleErr()
			}
			return nil
		},
	}
	step := NewSetSalaryStep(api, 5, time.Millisecond)
	pc := stepContext(step.Name())
	pc.ExternalEmployeeID = "emp-1"

	if err := step.Execute(context.Background(), pc); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if calls != 3 {
		t.Errorf("UpdateAttributes called %d times, want 3", calls)
	}
}

func TestSetSalaryExhaustsRetries(t *testing.T) {
	api := &fakeClient{
		updateAttributes: func(string, []payroll.AttributeUpdate) error {
			return notVisibleErr()
		},
	}
	step := NewSetSalaryStep(api, 3, time.Millisecond)
	pc := stepContext(step.Name())
	pc.ExternalEmployeeID = "emp-1"

	err := step.Execute(context.Background(), pc)
	if err == nil {
		t.Fatal("Execute should fail after exhausting retries")
	}
	if api.updateCalls != 3 {
		t.Errorf("UpdateAttributes called %d times, want 3", api.updateCalls)
	}
	if !payroll.IsRecordNotVisible(err) {
		t.Errorf("final error should wrap the not-visible cause: %v", err)
	}
}

func TestSetSalaryValidationNeverRetried(t *testing.T) {
	api := &fakeClient{
		updateAttributes: func(string, []payroll.AttributeUpdate) error {
			return &payroll.APIError{Code: payroll.CodeValidation, Message: "bad attribute", HTTPStatus: 422}
		},
	}
	step := NewSetSalaryStep(api, 5, time.Millisecond)
	pc := stepContext(step.Name())
	pc.ExternalEmployeeID = "emp-1"

	if err := step.Execute(context.Background(), pc); err == nil {
		t.Fatal("validation error must fail the step")
	}
	if api.updateCalls != 1 {
		t.Errorf("UpdateAttributes called %d times, want 1", api.updateCalls)
	}
}

func TestSetSalaryZeroSalaryWarnsAndSucceeds(t *testing.T) {
	api := &fakeClient{}
	step := NewSetSalaryStep(api, 5, time.Millisecond)
	pc := stepContext(step.Name())
	pc.ExternalEmployeeID = "emp-1"
	pc.Staff.MonthlySalaryCents = 0

	if err := step.Execute(context.Background(), pc); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if api.updateCalls != 0 {
		t.Error("no attribute call expected for zero salary")
	}
	if len(pc.Run.Warnings) != 1 || pc.Run.Warnings[0].Code != "salary_not_set" {
		t.Errorf("warnings = %+v, want one salary_not_set", pc.Run.Warnings)
	}
}

func TestAssignProfileResolvesRoleAndRecordsRollbackHandle(t *testing.T) {
	api := &fakeClient{
		profiles: []payroll.Profile{
			{ID: "p-1", Name: "Monthly Educator"},
			{ID: "p-2", Name: "Monthly Salaried", IsDefault: true},
		},
	}
	step := NewAssignProfileStep(api)
	pc := stepContext(step.Name())
	pc.ExternalEmployeeID = "emp-1"

	if err := step.Execute(context.Background(), pc); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if pc.ProfileID != "p-1" || pc.ProfileName != "Monthly Educator" {
		t.Errorf("resolved %q/%q, want p-1/Monthly Educator", pc.ProfileID, pc.ProfileName)
	}
	if pc.Run.ProfileAssigned != "Monthly Educator" {
		t.Errorf("run.ProfileAssigned = %q", pc.Run.ProfileAssigned)
	}

	sr := pc.Run.StepResult(step.Name())
	if sr.RollbackData["mapping_id"] != "map-1" {
		t.Errorf("rollback data = %+v, want mapping_id map-1", sr.RollbackData)
	}

	removed := ""
	api.removeMapping = func(id string) error {
		removed = id
		return nil
	}
	if err := step.Rollback(context.Background(), pc); err != nil {
		t.Fatalf("Rollback returned error: %v", err)
	}
	if removed != "map-1" {
		t.Errorf("removed mapping %q, want map-1", removed)
	}
	if pc.Run.ProfileAssigned != "" {
		t.Error("rollback should clear the assigned profile")
	}
}

func TestAssignProfileFallsBackToDefaultProfile(t *testing.T) {
	api := &fakeClient{
		profiles: []payroll.Profile{
			{ID: "p-9", Name: "Weekly Wage", IsDefault: true},
		},
	}
	step := NewAssignProfileStep(api)
	pc := stepContext(step.Name())
	pc.ExternalEmployeeID = "emp-1"

	if err := step.Execute(context.Background(), pc); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if pc.ProfileID != "p-9" {
		t.Errorf("profile ID = %q, want the engine default p-9", pc.ProfileID)
	}

	found := false
	for _, w := range pc.Run.Warnings {
		if w.Code == "profile_fallback" {
			found = true
		}
	}
	if !found {
		t.Errorf("fallback should warn, got %+v", pc.Run.Warnings)
	}
}

func TestAssignProfileNoProfilesAvailable(t *testing.T) {
	api := &fakeClient{}
	step := NewAssignProfileStep(api)
	pc := stepContext(step.Name())
	pc.ExternalEmployeeID = "emp-1"

	err := step.Execute(context.Background(), pc)
	if !errors.Is(err, ErrStepFailed) {
		t.Fatalf("error = %v, want ErrStepFailed", err)
	}
	if len(pc.Run.Errors) != 1 || pc.Run.Errors[0].Code != "no_profiles_available" {
		t.Errorf("errors = %+v, want one no_profiles_available", pc.Run.Errors)
	}
}

func TestAssignProfileHonorsRequestedID(t *testing.T) {
	assigned := ""
	api := &fakeClient{
		assignProfile: func(_, profileID string) (*payroll.ProfileMapping, error) {
			assigned = profileID
			return &payroll.ProfileMapping{ID: "map-2", ProfileID: profileID, ProfileName: "Custom"}, nil
		},
	}
	step := NewAssignProfileStep(api)
	pc := stepContext(step.Name())
	pc.ExternalEmployeeID = "emp-1"
	pc.RequestedProfileID = "p-explicit"

	if err := step.Execute(context.Background(), pc); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if assigned != "p-explicit" {
		t.Errorf("assigned %q, want the caller's explicit profile", assigned)
	}
	if pc.ProfileName != "Custom" {
		t.Errorf("profile name = %q, want engine-reported Custom", pc.ProfileName)
	}
}

func TestConfigureTaxSkipConditions(t *testing.T) {
	step := NewConfigureTaxStep(&fakeClient{})

	pc := stepContext(step.Name())
	if !step.ShouldSkip(pc) {
		t.Error("should skip without an external employee ID")
	}

	pc = stepContext(step.Name())
	pc.ExternalEmployeeID = "emp-1"
	pc.Staff.TaxNumber = ""
	if !step.ShouldSkip(pc) {
		t.Error("should skip without tax settings or a tax number")
	}

	pc.Tax = &domain.TaxSettings{Status: domain.TaxStatusDirective, DirectiveNumber: "DIR-9"}
	if step.ShouldSkip(pc) {
		t.Error("should not skip with explicit tax settings")
	}
}

func TestConfigureTaxStatusCodes(t *testing.T) {
	tests := []struct {
		status     domain.TaxStatus
		wantCode   string
		recognized bool
	}{
		{domain.TaxStatusResident, "A", true},
		{domain.TaxStatusDirective, "D", true},
		{domain.TaxStatusSeasonal, "S", true},
		{domain.TaxStatusNonResident, "N", true},
		{domain.TaxStatus("weird"), "A", false},
	}
	for _, tt := range tests {
		code, ok := TaxStatusCode(tt.status)
		if code != tt.wantCode || ok != tt.recognized {
			t.Errorf("TaxStatusCode(%q) = %q/%v, want %q/%v",
				tt.status, code, ok, tt.wantCode, tt.recognized)
		}
	}
}

func TestConfigureTaxUnrecognizedStatusWarnsAndDefaults(t *testing.T) {
	var got *payroll.TaxFieldsRequest
	api := &fakeClient{
		patchTax: func(_ string, req *payroll.TaxFieldsRequest) error {
			got = req
			return nil
		},
	}
	step := NewConfigureTaxStep(api)
	pc := stepContext(step.Name())
	pc.ExternalEmployeeID = "emp-1"
	pc.Tax = &domain.TaxSettings{Status: domain.TaxStatus("weird")}

	if err := step.Execute(context.Background(), pc); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if got.StatusCode != "A" {
		t.Errorf("status code = %q, want resident default A", got.StatusCode)
	}
	if got.TaxNumber != "1234567890" {
		t.Errorf("tax number = %q, want the staff record's", got.TaxNumber)
	}
	if len(pc.Run.Warnings) != 1 || pc.Run.Warnings[0].Code != "unrecognized_tax_status" {
		t.Errorf("warnings = %+v, want one unrecognized_tax_status", pc.Run.Warnings)
	}
	if !pc.Run.TaxConfigured {
		t.Error("run.TaxConfigured should be set")
	}
}

func TestAddCalculationsValidatesAgainstWhitelist(t *testing.T) {
	api := &fakeClient{
		whitelist: []payroll.CalculationCode{
			{Code: "TRAVEL", Name: "Travel Allowance", Type: "earning"},
			{Code: "UNIFORM", Name: "Uniform Deduction", Type: "deduction"},
		},
	}
	store := &fakeAdjustments{}
	step := NewAddCalculationsStep(api, store)
	pc := stepContext(step.Name())
	pc.Calculations = []domain.CalculationItem{
		{Code: "travel", Name: "Travel", Type: domain.CalculationEarning, AmountCents: 50_000},
		{Code: "BOGUS", Name: "Nope", Type: domain.CalculationDeduction, AmountCents: 1},
	}

	if step.ShouldSkip(pc) {
		t.Fatal("step should run when calculations are requested")
	}
	if err := step.Execute(context.Background(), pc); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	if len(store.created) != 1 || store.created[0].Code != "travel" {
		t.Errorf("created = %+v, want only the whitelisted item", store.created)
	}
	if pc.Run.CalculationsAdded != 1 {
		t.Errorf("run.CalculationsAdded = %d, want 1", pc.Run.CalculationsAdded)
	}
	if len(pc.Run.Warnings) != 1 || pc.Run.Warnings[0].Code != "invalid_calculation_code" {
		t.Errorf("warnings = %+v, want one invalid_calculation_code", pc.Run.Warnings)
	}

	if err := step.Rollback(context.Background(), pc); err != nil {
		t.Fatalf("Rollback returned error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != store.created[0].ID {
		t.Errorf("deleted = %v, want the created adjustment", store.deleted)
	}
}

func TestAddCalculationsSkipsWithoutItems(t *testing.T) {
	step := NewAddCalculationsStep(&fakeClient{}, &fakeAdjustments{})
	pc := stepContext(step.Name())
	if !step.ShouldSkip(pc) {
		t.Error("step should skip with no requested calculations")
	}
}

func TestVerifySetupDetectsMismatch(t *testing.T) {
	api := &fakeClient{
		getEmployee: func(id string) (*payroll.Employee, error) {
			return &payroll.Employee{ID: id, FirstName: "Someone", LastName: "Else"}, nil
		},
		mappings: []payroll.ProfileMapping{{ID: "map-1", ProfileName: "Monthly Educator"}},
	}
	step := NewVerifySetupStep(api)
	pc := stepContext(step.Name())
	pc.ExternalEmployeeID = "emp-1"

	err := step.Execute(context.Background(), pc)
	if !errors.Is(err, ErrStepFailed) {
		t.Fatalf("error = %v, want ErrStepFailed", err)
	}
	if len(pc.Run.Errors) != 1 || pc.Run.Errors[0].Code != "verification_failed" {
		t.Errorf("errors = %+v, want one verification_failed", pc.Run.Errors)
	}
}

func TestVerifySetupPassesWithPendingBalances(t *testing.T) {
	api := &fakeClient{
		getEmployee: func(id string) (*payroll.Employee, error) {
			return &payroll.Employee{
				ID:        id,
				FirstName: "Nomsa",
				LastName:  "Dlamini",
				IDNumber:  "8001015009087",
			}, nil
		},
		mappings:    []payroll.ProfileMapping{{ID: "map-1", ProfileName: "Monthly Educator"}},
		balancesErr: notVisibleErr(),
	}
	step := NewVerifySetupStep(api)
	pc := stepContext(step.Name())
	pc.ExternalEmployeeID = "emp-1"
	pc.ProfileName = "Monthly Educator"

	if err := step.Execute(context.Background(), pc); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(pc.Run.Warnings) != 1 || pc.Run.Warnings[0].Code != "balances_not_available" {
		t.Errorf("warnings = %+v, want one balances_not_available", pc.Run.Warnings)
	}
}

func TestVerifySetupRequiresEmployeeID(t *testing.T) {
	step := NewVerifySetupStep(&fakeClient{})
	pc := stepContext(step.Name())

	if err := step.Execute(context.Background(), pc); !errors.Is(err, ErrStepFailed) {
		t.Fatalf("error = %v, want ErrStepFailed", err)
	}
}

func TestSetupLeaveComputesEntitlementsAndWarnsOnEmptyBalances(t *testing.T) {
	var got []payroll.AttributeUpdate
	api := &fakeClient{
		updateAttributes: func(_ string, attrs []payroll.AttributeUpdate) error {
			got = attrs
			return nil
		},
	}
	step := NewSetupLeaveStep(api, LeaveSettings{YearStartMonth: time.March, FullTimeHours: 40})
	pc := stepContext(step.Name())
	pc.ExternalEmployeeID = "emp-1"

	if err := step.Execute(context.Background(), pc); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	// Hired on the leave-year start: full entitlements.
	want := map[string]interface{}{
		"annual_leave_days":          15.0,
		"sick_leave_days":            30.0,
		"family_responsibility_days": 3.0,
		"maternity_months":           4,
	}
	for _, attr := range got {
		if w, ok := want[attr.Name]; ok && attr.Value != w {
			t.Errorf("attribute %s = %v, want %v", attr.Name, attr.Value, w)
		}
	}
	if got == nil {
		t.Fatal("no attribute call made")
	}
	if !pc.Run.LeaveInitialized {
		t.Error("run.LeaveInitialized should be set")
	}
	if len(pc.Run.Warnings) != 1 || pc.Run.Warnings[0].Code != "balances_not_available" {
		t.Errorf("warnings = %+v, want one balances_not_available", pc.Run.Warnings)
	}
}

func TestSetupLeaveCallerEntitlementsWin(t *testing.T) {
	var got []payroll.AttributeUpdate
	api := &fakeClient{
		updateAttributes: func(_ string, attrs []payroll.AttributeUpdate) error {
			got = attrs
			return nil
		},
		balances: []payroll.LeaveBalance{{TypeName: "Annual", Days: 10}},
	}
	step := NewSetupLeaveStep(api, LeaveSettings{})
	pc := stepContext(step.Name())
	pc.ExternalEmployeeID = "emp-1"
	pc.Leave = &domain.LeaveEntitlements{AnnualDays: 10, SickDays: 30, FamilyResponsibilityDays: 3, MaternityMonths: 4}

	if err := step.Execute(context.Background(), pc); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	for _, attr := range got {
		if attr.Name == "annual_leave_days" && attr.Value != 10.0 {
			t.Errorf("annual_leave_days = %v, want the caller's 10", attr.Value)
		}
	}
	if len(pc.Run.Warnings) != 0 {
		t.Errorf("no warnings expected with balances present, got %+v", pc.Run.Warnings)
	}
}

func TestSendNotificationEmitsOutcome(t *testing.T) {
	emitter := &fakeEmitter{}
	step := NewSendNotificationStep(emitter)
	pc := stepContext(step.Name())
	pc.ExternalEmployeeID = "emp-1"
	pc.Run.StepResults = domain.StepResultList{
		{Step: domain.StepCreateEmployee, Status: domain.StepStatusCompleted},
		{Step: domain.StepSetSalary, Status: domain.StepStatusSkipped},
		{Step: domain.StepSendNotification, Status: domain.StepStatusPending},
	}
	pc.current = pc.Run.StepResult(step.Name())

	if err := step.Execute(context.Background(), pc); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(emitter.names) != 1 || emitter.names[0] != "payroll.setup.completed" {
		t.Errorf("emitted %v, want payroll.setup.completed", emitter.names)
	}
}

func TestSendNotificationFailureEventCarriesLastCompletedStep(t *testing.T) {
	emitter := &fakeEmitter{}
	step := NewSendNotificationStep(emitter)
	pc := stepContext(step.Name())
	pc.Run.StepResults = domain.StepResultList{
		{Step: domain.StepCreateEmployee, Status: domain.StepStatusCompleted},
		{Step: domain.StepSetSalary, Status: domain.StepStatusFailed},
		{Step: domain.StepSendNotification, Status: domain.StepStatusPending},
	}
	pc.current = pc.Run.StepResult(step.Name())

	if err := step.Execute(context.Background(), pc); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if len(emitter.names) != 1 || emitter.names[0] != "payroll.setup.failed" {
		t.Fatalf("emitted %v, want payroll.setup.failed", emitter.names)
	}
	if emitter.payloads[0]["last_completed_step"] != domain.StepCreateEmployee {
		t.Errorf("last_completed_step = %v, want %s",
			emitter.payloads[0]["last_completed_step"], domain.StepCreateEmployee)
	}
}

func TestSendNotificationNeverFailsTheRun(t *testing.T) {
	emitter := &fakeEmitter{err: errors.New("webhook down")}
	step := NewSendNotificationStep(emitter)
	pc := stepContext(step.Name())
	pc.current = pc.Run.StepResult(step.Name())

	if err := step.Execute(context.Background(), pc); err != nil {
		t.Fatalf("emission failure must not fail the step: %v", err)
	}
	if len(pc.Run.Warnings) != 1 || pc.Run.Warnings[0].Code != "notification_failed" {
		t.Errorf("warnings = %+v, want one notification_failed", pc.Run.Warnings)
	}
}
