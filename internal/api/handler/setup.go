package handler

import (
	"errors"
	"net/http"

	"github.com/Smashkat12/crechebooks-sub005/internal/service"
	"github.com/gin-gonic/gin"
)

// SetupHandler handles payroll setup endpoints.
type SetupHandler struct {
	setupService *service.SetupService
}

// NewSetupHandler creates a new setup handler.
// Parameters:
//   - setupService: setup service instance.
// Returns:
//   - *SetupHandler: initialized handler.
func NewSetupHandler(setupService *service.SetupService) *SetupHandler {
	return &SetupHandler{
		setupService: setupService,
	}
}

// retryRequest is the body of a retry call. All fields are optional.
type retryRequest struct {
	FromStep string `json:"from_step"`
	Force    bool   `json:"force"`
}

// StartSetup handles POST /api/v1/tenants/:tenantId/staff/:staffId/payroll-setup.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *SetupHandler) StartSetup(c *gin.Context) {
	var req service.SetupRequest
	// The body is optional; an empty body runs the default pipeline.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request: " + err.Error(),
			})
			return
		}
	}
	req.StaffID = c.Param("staffId")

	result, err := h.setupService.SetupEmployee(c.Request.Context(), c.Param("tenantId"), &req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	status := http.StatusOK
	if !result.Success {
		// The run executed but did not complete; the body carries the
		// per-step detail.
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, result)
}

// RetrySetup handles POST /api/v1/tenants/:tenantId/payroll-setup/:runId/retry.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *SetupHandler) RetrySetup(c *gin.Context) {
	var req retryRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request: " + err.Error(),
			})
			return
		}
	}

	result, err := h.setupService.RetrySetup(c.Request.Context(),
		c.Param("tenantId"), c.Param("runId"), req.FromStep, req.Force)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, result)
}

// GetStatus handles GET /api/v1/tenants/:tenantId/staff/:staffId/payroll-setup.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *SetupHandler) GetStatus(c *gin.Context) {
	status, err := h.setupService.GetSetupStatus(c.Request.Context(),
		c.Param("tenantId"), c.Param("staffId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// writeServiceError maps service precondition errors onto HTTP status
// codes.
func (h *SetupHandler) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStaffNotFound),
		errors.Is(err, service.ErrRunNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSetupAlreadyCompleted),
		errors.Is(err, service.ErrRunAlreadyCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoPayrollConnection):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Setup failed: " + err.Error(),
		})
	}
}
