package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"staffdesk/api/internal/middleware"
	"staffdesk/api/internal/models"
	"staffdesk/api/internal/service"
)

func (h HandlerSet) GetAllEmployees(c *gin.Context) {
	employees, err := h.employees.GetAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEmployeeResponses(employees))
}

func (h HandlerSet) GetEmployee(c *gin.Context) {
	employee, err := h.employees.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEmployeeResponse(employee))
}

type employeeRequest struct {
	EmployeeNumber string     `json:"employeeNumber"`
	AccountID      *string    `json:"accountId"`
	DepartmentID   *string    `json:"departmentId"`
	Position       string     `json:"position"`
	HireDate       *time.Time `json:"hireDate"`
	Status         string     `json:"status"`
}

func (r employeeRequest) toInput(actorID string) service.EmployeeInput {
	return service.EmployeeInput{
		EmployeeNumber: r.EmployeeNumber,
		AccountID:      r.AccountID,
		DepartmentID:   r.DepartmentID,
		Position:       r.Position,
		HireDate:       r.HireDate,
		Status:         models.EmployeeStatus(r.Status),
		ActorID:        actorID,
	}
}

func (h HandlerSet) CreateEmployee(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	caller, _ := middleware.CurrentAccount(c)
	employee, err := h.employees.Create(c.Request.Context(), req.toInput(caller.ID))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toEmployeeResponse(employee))
}

func (h HandlerSet) UpdateEmployee(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	caller, _ := middleware.CurrentAccount(c)
	employee, err := h.employees.Update(c.Request.Context(), c.Param("id"), req.toInput(caller.ID))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toEmployeeResponse(employee))
}

type transferRequest struct {
	DepartmentID string `json:"departmentId" binding:"required"`
}

func (h HandlerSet) TransferEmployee(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	caller, _ := middleware.CurrentAccount(c)
	employee, err := h.employees.TransferDepartment(c.Request.Context(), c.Param("id"), req.DepartmentID, caller.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toEmployeeResponse(employee))
}

func (h HandlerSet) DeleteEmployee(c *gin.Context) {
	if err := h.employees.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted successfully"})
}
