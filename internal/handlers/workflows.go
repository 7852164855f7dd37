package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staffdesk/api/internal/middleware"
	"staffdesk/api/internal/models"
	"staffdesk/api/internal/service"
)

// GetWorkflows lists the audit ledger, optionally scoped to one employee
// via ?employeeId=.
func (h HandlerSet) GetWorkflows(c *gin.Context) {
	var (
		workflows []models.Workflow
		err       error
	)
	if employeeID := c.Query("employeeId"); employeeID != "" {
		workflows, err = h.workflows.GetByEmployeeID(c.Request.Context(), employeeID)
	} else {
		workflows, err = h.workflows.GetAll(c.Request.Context())
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toWorkflowResponses(workflows))
}

func (h HandlerSet) GetWorkflow(c *gin.Context) {
	workflow, err := h.workflows.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWorkflowResponse(workflow))
}

type workflowRequest struct {
	EmployeeID    string  `json:"employeeId" binding:"required"`
	Type          string  `json:"type" binding:"required"`
	Description   string  `json:"description"`
	Status        string  `json:"status"`
	PreviousValue *string `json:"previousValue"`
	NewValue      *string `json:"newValue"`
}

func (h HandlerSet) CreateWorkflow(c *gin.Context) {
	var req workflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	caller, _ := middleware.CurrentAccount(c)
	workflow, err := h.workflows.Create(c.Request.Context(), service.WorkflowInput{
		EmployeeID:    req.EmployeeID,
		Type:          models.WorkflowType(req.Type),
		Description:   req.Description,
		Status:        models.WorkflowStatus(req.Status),
		PreviousValue: req.PreviousValue,
		NewValue:      req.NewValue,
		ActorID:       caller.ID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toWorkflowResponse(workflow))
}

type workflowStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h HandlerSet) UpdateWorkflowStatus(c *gin.Context) {
	var req workflowStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	caller, _ := middleware.CurrentAccount(c)
	workflow, err := h.workflows.UpdateStatus(c.Request.Context(), c.Param("id"), models.WorkflowStatus(req.Status), caller.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toWorkflowResponse(workflow))
}

func (h HandlerSet) DeleteWorkflow(c *gin.Context) {
	if err := h.workflows.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workflow deleted successfully"})
}
