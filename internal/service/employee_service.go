package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"staffdesk/api/internal/ids"
	"staffdesk/api/internal/models"
)

type EmployeeService struct {
	employees EmployeeStore
	audit     WorkflowStore
	log       zerolog.Logger
}

func NewEmployeeService(employees EmployeeStore, audit WorkflowStore, log zerolog.Logger) *EmployeeService {
	return &EmployeeService{
		employees: employees,
		audit:     audit,
		log:       log,
	}
}

func (s *EmployeeService) GetAll(ctx context.Context) ([]models.Employee, error) {
	return s.employees.ListAll(ctx)
}

func (s *EmployeeService) GetByID(ctx context.Context, id string) (models.Employee, error) {
	return s.employees.GetByID(ctx, id)
}

type EmployeeInput struct {
	EmployeeNumber string
	AccountID      *string
	DepartmentID   *string
	Position       string
	HireDate       *time.Time
	Status         models.EmployeeStatus
	ActorID        string
}

func (s *EmployeeService) Create(ctx context.Context, input EmployeeInput) (models.Employee, error) {
	number := input.EmployeeNumber
	if number == "" {
		now := time.Now()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		count, err := s.employees.CountCreatedSince(ctx, monthStart)
		if err != nil {
			return models.Employee{}, err
		}
		number = fmt.Sprintf("%s-%04d", now.Format("06-01"), count+1)
	}

	hireDate := time.Now()
	if input.HireDate != nil {
		hireDate = *input.HireDate
	}
	status := input.Status
	if status == "" {
		status = models.EmployeeStatusActive
	}

	employee := models.Employee{
		ID:             ids.New(),
		EmployeeNumber: number,
		AccountID:      input.AccountID,
		DepartmentID:   input.DepartmentID,
		Position:       input.Position,
		HireDate:       hireDate,
		Status:         status,
	}

	if err := s.employees.Create(ctx, employee); err != nil {
		return models.Employee{}, err
	}

	s.appendAudit(ctx, models.Workflow{
		ID:          ids.New(),
		EmployeeID:  employee.ID,
		Type:        models.WorkflowOnboarding,
		Description: fmt.Sprintf("Employee %s onboarded", number),
		Status:      models.WorkflowStatusCompleted,
		CreatedBy:   input.ActorID,
	})

	return s.employees.GetByID(ctx, employee.ID)
}

func (s *EmployeeService) Update(ctx context.Context, id string, input EmployeeInput) (models.Employee, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return models.Employee{}, err
	}

	if input.EmployeeNumber != "" {
		employee.EmployeeNumber = input.EmployeeNumber
	}
	if input.AccountID != nil {
		employee.AccountID = input.AccountID
	}
	if input.DepartmentID != nil {
		employee.DepartmentID = input.DepartmentID
	}
	if input.Position != "" {
		employee.Position = input.Position
	}
	if input.HireDate != nil {
		employee.HireDate = *input.HireDate
	}
	if input.Status != "" {
		employee.Status = input.Status
	}

	if err := s.employees.Update(ctx, employee); err != nil {
		return models.Employee{}, err
	}
	return s.employees.GetByID(ctx, id)
}

func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if _, err := s.employees.GetByID(ctx, id); err != nil {
		return err
	}
	return s.employees.Delete(ctx, id)
}

// TransferDepartment moves the employee and records the old and new
// department in the audit ledger.
func (s *EmployeeService) TransferDepartment(ctx context.Context, id string, departmentID string, actorID string) (models.Employee, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return models.Employee{}, err
	}

	prev := "None"
	if employee.DepartmentID != nil {
		prev = *employee.DepartmentID
	}

	employee.DepartmentID = &departmentID
	if err := s.employees.Update(ctx, employee); err != nil {
		return models.Employee{}, err
	}

	s.appendAudit(ctx, models.Workflow{
		ID:            ids.New(),
		EmployeeID:    employee.ID,
		Type:          models.WorkflowDepartmentTransfer,
		Description:   "Employee transferred to new department",
		Status:        models.WorkflowStatusCompleted,
		PreviousValue: &prev,
		NewValue:      &departmentID,
		CreatedBy:     actorID,
	})

	return s.employees.GetByID(ctx, id)
}

func (s *EmployeeService) appendAudit(ctx context.Context, workflow models.Workflow) {
	if workflow.CreatedBy == "" {
		workflow.CreatedBy = workflow.EmployeeID
	}
	if err := s.audit.Create(ctx, workflow); err != nil {
		s.log.Error().Err(err).
			Str("type", string(workflow.Type)).
			Str("employee_id", workflow.EmployeeID).
			Msg("audit write failed")
	}
}
