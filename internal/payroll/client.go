package payroll

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client is the boundary to the external payroll engine. The engine is
// eventually consistent and rate limited; implementations classify its
// errors into the closed ErrorCode set so callers never inspect raw
// error text.
type Client interface {
	CreateOrUpdateEmployee(ctx context.Context, req *EmployeeRequest) (*Employee, error)
	GetEmployee(ctx context.Context, employeeID string) (*Employee, error)
	UpdateAttributes(ctx context.Context, employeeID string, attrs []AttributeUpdate) error
	GetAvailableProfiles(ctx context.Context) ([]Profile, error)
	AssignProfile(ctx context.Context, employeeID, profileID string) (*ProfileMapping, error)
	GetProfileMappings(ctx context.Context, employeeID string) ([]ProfileMapping, error)
	RemoveProfileMapping(ctx context.Context, mappingID string) error
	PatchTaxFields(ctx context.Context, employeeID string, req *TaxFieldsRequest) error
	GetCalculationWhitelist(ctx context.Context) ([]CalculationCode, error)
	GetLeaveTypes(ctx context.Context) ([]LeaveType, error)
	GetLeaveBalances(ctx context.Context, employeeID string) ([]LeaveBalance, error)
}

// ClientConfig holds configuration for the REST client.
type ClientConfig struct {
	BaseURL   string
	APIKey    string
	CompanyID string
	Timeout   time.Duration
}

// whitelistTTL bounds how long the calculation whitelist is served from
// cache before a refetch.
const whitelistTTL = 10 * time.Minute

// RestClient is the resty-backed implementation of Client.
type RestClient struct {
	http      *resty.Client
	companyID string

	whitelistMu      sync.Mutex
	whitelist        []CalculationCode
	whitelistFetched time.Time
}

// NewRestClient creates a new REST client for the payroll engine.
// Parameters:
//   - cfg: client configuration including base URL and API key.
// Returns:
//   - *RestClient: initialized client.
func NewRestClient(cfg *ClientConfig) *RestClient {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	client.SetTimeout(timeout)

	return &RestClient{
		http:      client,
		companyID: cfg.CompanyID,
	}
}

// do executes a prepared request and classifies any failure. recentWrite
// marks calls against records that may still be propagating on the
// engine's read path.
func (c *RestClient) do(req *resty.Request, method, url string, out interface{}, recentWrite bool) error {
	resp, err := req.Execute(method, url)
	if err != nil {
		return transportError(err)
	}

	if resp.IsError() {
		var body errorBody
		_ = json.Unmarshal(resp.Body(), &body)
		return classify(resp.StatusCode(), &body, recentWrite)
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("failed to decode payroll engine response: %w", err)
		}
	}
	return nil
}

// CreateOrUpdateEmployee creates the employee on the engine, or updates
// it when the engine already knows the ID number.
func (c *RestClient) CreateOrUpdateEmployee(ctx context.Context, req *EmployeeRequest) (*Employee, error) {
	if req.CompanyID == "" {
		req.CompanyID = c.companyID
	}
	var emp Employee
	r := c.http.R().SetContext(ctx).SetBody(req)
	if err := c.do(r, resty.MethodPost, "/v1/employees", &emp, false); err != nil {
		return nil, err
	}
	return &emp, nil
}

// GetEmployee fetches an employee record from the engine.
func (c *RestClient) GetEmployee(ctx context.Context, employeeID string) (*Employee, error) {
	var emp Employee
	r := c.http.R().SetContext(ctx)
	url := fmt.Sprintf("/v1/employees/%s", employeeID)
	if err := c.do(r, resty.MethodGet, url, &emp, true); err != nil {
		return nil, err
	}
	return &emp, nil
}

// UpdateAttributes applies a bulk attribute update to an employee. A 404
// here is classified as propagation lag because the employee was created
// moments earlier in the same pipeline.
func (c *RestClient) UpdateAttributes(ctx context.Context, employeeID string, attrs []AttributeUpdate) error {
	r := c.http.R().SetContext(ctx).SetBody(map[string]interface{}{
		"attributes": attrs,
	})
	url := fmt.Sprintf("/v1/employees/%s/attributes", employeeID)
	return c.do(r, resty.MethodPatch, url, nil, true)
}

// GetAvailableProfiles lists the pay profiles configured on the engine.
func (c *RestClient) GetAvailableProfiles(ctx context.Context) ([]Profile, error) {
	var out struct {
		Profiles []Profile `json:"profiles"`
	}
	r := c.http.R().SetContext(ctx).SetQueryParam("company_id", c.companyID)
	if err := c.do(r, resty.MethodGet, "/v1/profiles", &out, false); err != nil {
		return nil, err
	}
	return out.Profiles, nil
}

// AssignProfile maps an employee to a pay profile and returns the
// resulting mapping, whose ID is the rollback handle.
func (c *RestClient) AssignProfile(ctx context.Context, employeeID, profileID string) (*ProfileMapping, error) {
	var mapping ProfileMapping
	r := c.http.R().SetContext(ctx).SetBody(map[string]string{
		"employee_id": employeeID,
		"profile_id":  profileID,
	})
	if err := c.do(r, resty.MethodPost, "/v1/profile-mappings", &mapping, true); err != nil {
		return nil, err
	}
	return &mapping, nil
}

// GetProfileMappings lists an employee's profile mappings.
func (c *RestClient) GetProfileMappings(ctx context.Context, employeeID string) ([]ProfileMapping, error) {
	var out struct {
		Mappings []ProfileMapping `json:"mappings"`
	}
	r := c.http.R().SetContext(ctx).SetQueryParam("employee_id", employeeID)
	if err := c.do(r, resty.MethodGet, "/v1/profile-mappings", &out, true); err != nil {
		return nil, err
	}
	return out.Mappings, nil
}

// RemoveProfileMapping deletes a profile mapping (compensating action).
func (c *RestClient) RemoveProfileMapping(ctx context.Context, mappingID string) error {
	r := c.http.R().SetContext(ctx)
	url := fmt.Sprintf("/v1/profile-mappings/%s", mappingID)
	return c.do(r, resty.MethodDelete, url, nil, false)
}

// PatchTaxFields updates an employee's tax configuration.
func (c *RestClient) PatchTaxFields(ctx context.Context, employeeID string, req *TaxFieldsRequest) error {
	r := c.http.R().SetContext(ctx).SetBody(req)
	url := fmt.Sprintf("/v1/employees/%s/tax", employeeID)
	return c.do(r, resty.MethodPatch, url, nil, true)
}

// GetCalculationWhitelist returns the engine's valid calculation codes,
// served from a short-lived cache to respect the engine's rate limits.
func (c *RestClient) GetCalculationWhitelist(ctx context.Context) ([]CalculationCode, error) {
	c.whitelistMu.Lock()
	defer c.whitelistMu.Unlock()

	if c.whitelist != nil && time.Since(c.whitelistFetched) < whitelistTTL {
		return c.whitelist, nil
	}

	var out struct {
		Codes []CalculationCode `json:"codes"`
	}
	r := c.http.R().SetContext(ctx).SetQueryParam("company_id", c.companyID)
	if err := c.do(r, resty.MethodGet, "/v1/calculation-codes", &out, false); err != nil {
		return nil, err
	}

	c.whitelist = out.Codes
	c.whitelistFetched = time.Now()
	return c.whitelist, nil
}

// GetLeaveTypes lists the leave categories configured on the engine.
func (c *RestClient) GetLeaveTypes(ctx context.Context) ([]LeaveType, error) {
	var out struct {
		LeaveTypes []LeaveType `json:"leave_types"`
	}
	r := c.http.R().SetContext(ctx).SetQueryParam("company_id", c.companyID)
	if err := c.do(r, resty.MethodGet, "/v1/leave-types", &out, false); err != nil {
		return nil, err
	}
	return out.LeaveTypes, nil
}

// GetLeaveBalances fetches an employee's leave balances. The engine only
// materializes balances after the first payroll run, so callers must
// treat CodeRecordNotVisible as an expected condition.
func (c *RestClient) GetLeaveBalances(ctx context.Context, employeeID string) ([]LeaveBalance, error) {
	var out struct {
		Balances []LeaveBalance `json:"balances"`
	}
	r := c.http.R().SetContext(ctx)
	url := fmt.Sprintf("/v1/employees/%s/leave-balances", employeeID)
	if err := c.do(r, resty.MethodGet, url, &out, true); err != nil {
		return nil, err
	}
	return out.Balances, nil
}
