package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"staffdesk/api/internal/models"
	"staffdesk/api/internal/repository"
	"staffdesk/api/internal/service"
)

// accountResponse is the only projection of an account that ever leaves
// the API; the password hash and raw tokens have no field to leak through.
type accountResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	Created    time.Time `json:"created"`
	Updated    time.Time `json:"updated"`
	IsVerified bool      `json:"isVerified"`
}

func toAccountResponse(account models.Account) accountResponse {
	return accountResponse{
		ID:         account.ID,
		Title:      account.Title,
		FirstName:  account.FirstName,
		LastName:   account.LastName,
		Email:      account.Email,
		Role:       string(account.Role),
		Status:     string(account.Status),
		Created:    account.CreatedAt,
		Updated:    account.UpdatedAt,
		IsVerified: account.IsVerified(),
	}
}

// The remaining projections exist for the same reason as accountResponse:
// domain structs carry associations (an employee's account holds the
// password hash and live tokens) and Go field names; only tagged response
// structs ever reach c.JSON.

type employeeResponse struct {
	ID             string              `json:"id"`
	EmployeeNumber string              `json:"employeeNumber"`
	AccountID      *string             `json:"accountId"`
	DepartmentID   *string             `json:"departmentId"`
	Position       string              `json:"position"`
	HireDate       time.Time           `json:"hireDate"`
	Status         string              `json:"status"`
	Created        time.Time           `json:"created"`
	Updated        time.Time           `json:"updated"`
	Account        *accountResponse    `json:"account,omitempty"`
	Department     *departmentResponse `json:"department,omitempty"`
}

func toEmployeeResponse(employee models.Employee) employeeResponse {
	resp := employeeResponse{
		ID:             employee.ID,
		EmployeeNumber: employee.EmployeeNumber,
		AccountID:      employee.AccountID,
		DepartmentID:   employee.DepartmentID,
		Position:       employee.Position,
		HireDate:       employee.HireDate,
		Status:         string(employee.Status),
		Created:        employee.CreatedAt,
		Updated:        employee.UpdatedAt,
	}
	if employee.Account != nil {
		account := toAccountResponse(*employee.Account)
		resp.Account = &account
	}
	if employee.Department != nil {
		department := toDepartmentResponse(*employee.Department)
		resp.Department = &department
	}
	return resp
}

func toEmployeeResponses(employees []models.Employee) []employeeResponse {
	out := make([]employeeResponse, 0, len(employees))
	for _, employee := range employees {
		out = append(out, toEmployeeResponse(employee))
	}
	return out
}

type departmentResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Created     time.Time          `json:"created"`
	Updated     time.Time          `json:"updated"`
	Employees   []employeeResponse `json:"employees,omitempty"`
}

func toDepartmentResponse(department models.Department) departmentResponse {
	resp := departmentResponse{
		ID:          department.ID,
		Name:        department.Name,
		Description: department.Description,
		Created:     department.CreatedAt,
		Updated:     department.UpdatedAt,
	}
	if len(department.Employees) > 0 {
		resp.Employees = toEmployeeResponses(department.Employees)
	}
	return resp
}

func toDepartmentResponses(departments []models.Department) []departmentResponse {
	out := make([]departmentResponse, 0, len(departments))
	for _, department := range departments {
		out = append(out, toDepartmentResponse(department))
	}
	return out
}

type workflowResponse struct {
	ID            string    `json:"id"`
	EmployeeID    string    `json:"employeeId"`
	Type          string    `json:"type"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	PreviousValue *string   `json:"previousValue"`
	NewValue      *string   `json:"newValue"`
	CreatedBy     string    `json:"createdBy"`
	UpdatedBy     *string   `json:"updatedBy"`
	Created       time.Time `json:"created"`
	Updated       time.Time `json:"updated"`
}

func toWorkflowResponse(workflow models.Workflow) workflowResponse {
	return workflowResponse{
		ID:            workflow.ID,
		EmployeeID:    workflow.EmployeeID,
		Type:          string(workflow.Type),
		Description:   workflow.Description,
		Status:        string(workflow.Status),
		PreviousValue: workflow.PreviousValue,
		NewValue:      workflow.NewValue,
		CreatedBy:     workflow.CreatedBy,
		UpdatedBy:     workflow.UpdatedBy,
		Created:       workflow.CreatedAt,
		Updated:       workflow.UpdatedAt,
	}
}

func toWorkflowResponses(workflows []models.Workflow) []workflowResponse {
	out := make([]workflowResponse, 0, len(workflows))
	for _, workflow := range workflows {
		out = append(out, toWorkflowResponse(workflow))
	}
	return out
}

type requestItemResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	Status      string `json:"status"`
}

type requestResponse struct {
	ID          string                `json:"id"`
	AccountID   string                `json:"accountId"`
	Type        string                `json:"type"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      string                `json:"status"`
	CreatedBy   string                `json:"createdBy"`
	UpdatedBy   *string               `json:"updatedBy"`
	Created     time.Time             `json:"created"`
	Updated     time.Time             `json:"updated"`
	Items       []requestItemResponse `json:"items"`
}

func toRequestResponse(request models.Request) requestResponse {
	resp := requestResponse{
		ID:          request.ID,
		AccountID:   request.AccountID,
		Type:        string(request.Type),
		Title:       request.Title,
		Description: request.Description,
		Status:      string(request.Status),
		CreatedBy:   request.CreatedBy,
		UpdatedBy:   request.UpdatedBy,
		Created:     request.CreatedAt,
		Updated:     request.UpdatedAt,
		Items:       make([]requestItemResponse, 0, len(request.Items)),
	}
	for _, item := range request.Items {
		resp.Items = append(resp.Items, requestItemResponse{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			Status:      string(item.Status),
		})
	}
	return resp
}

func toRequestResponses(requests []models.Request) []requestResponse {
	out := make([]requestResponse, 0, len(requests))
	for _, request := range requests {
		out = append(out, toRequestResponse(request))
	}
	return out
}

func (h HandlerSet) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrAccountNotFound),
		errors.Is(err, repository.ErrEmployeeNotFound),
		errors.Is(err, repository.ErrDepartmentNotFound),
		errors.Is(err, repository.ErrWorkflowNotFound),
		errors.Is(err, repository.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, repository.ErrDuplicateEmail),
		errors.Is(err, service.ErrDepartmentNameTaken),
		errors.Is(err, repository.ErrDuplicateDepartment):
		c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrEmailNotFound),
		errors.Is(err, service.ErrPasswordIncorrect),
		errors.Is(err, service.ErrEmailNotVerified),
		errors.Is(err, service.ErrAccountInactive),
		errors.Is(err, service.ErrVerificationFail),
		errors.Is(err, service.ErrDepartmentHasStaff):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}
