package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"staffdesk/api/internal/ids"
	"staffdesk/api/internal/models"
)

var (
	ErrDepartmentNameTaken = errors.New("department name already exists")
	ErrDepartmentHasStaff  = errors.New("department cannot be deleted because it has employees assigned")
)

type DepartmentService struct {
	departments DepartmentStore
	employees   EmployeeStore
	audit       WorkflowStore
	log         zerolog.Logger
}

func NewDepartmentService(departments DepartmentStore, employees EmployeeStore, audit WorkflowStore, log zerolog.Logger) *DepartmentService {
	return &DepartmentService{
		departments: departments,
		employees:   employees,
		audit:       audit,
		log:         log,
	}
}

func (s *DepartmentService) GetAll(ctx context.Context) ([]models.Department, error) {
	return s.departments.ListAll(ctx)
}

func (s *DepartmentService) GetByID(ctx context.Context, id string) (models.Department, error) {
	return s.departments.GetByID(ctx, id)
}

type DepartmentInput struct {
	Name        string
	Description string
	ActorID     string
}

func (s *DepartmentService) Create(ctx context.Context, input DepartmentInput) (models.Department, error) {
	if _, err := s.departments.FindByName(ctx, input.Name); err == nil {
		return models.Department{}, fmt.Errorf("%w: %s", ErrDepartmentNameTaken, input.Name)
	} else if !isNotFound(err) {
		return models.Department{}, err
	}

	department := models.Department{
		ID:          ids.New(),
		Name:        input.Name,
		Description: input.Description,
	}
	if err := s.departments.Create(ctx, department); err != nil {
		return models.Department{}, err
	}

	prev := "New Department"
	s.appendActorAudit(ctx, input.ActorID, models.Workflow{
		Type:          models.WorkflowDepartmentCreation,
		Description:   fmt.Sprintf("Department %q created", input.Name),
		Status:        models.WorkflowStatusCompleted,
		PreviousValue: &prev,
		NewValue:      &department.Name,
	})

	return s.departments.GetByID(ctx, department.ID)
}

func (s *DepartmentService) Update(ctx context.Context, id string, input DepartmentInput) (models.Department, error) {
	department, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return models.Department{}, err
	}
	oldName := department.Name

	if input.Name != "" && input.Name != department.Name {
		if _, err := s.departments.FindByName(ctx, input.Name); err == nil {
			return models.Department{}, fmt.Errorf("%w: %s", ErrDepartmentNameTaken, input.Name)
		} else if !isNotFound(err) {
			return models.Department{}, err
		}
		department.Name = input.Name
	}
	if input.Description != "" {
		department.Description = input.Description
	}

	if err := s.departments.Update(ctx, department); err != nil {
		return models.Department{}, err
	}

	s.appendActorAudit(ctx, input.ActorID, models.Workflow{
		Type:          models.WorkflowDepartmentUpdate,
		Description:   fmt.Sprintf("Department %q updated", department.Name),
		Status:        models.WorkflowStatusCompleted,
		PreviousValue: &oldName,
		NewValue:      &department.Name,
	})

	return s.departments.GetByID(ctx, id)
}

// Delete refuses while any employee is still assigned.
func (s *DepartmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.departments.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.employees.CountByDepartment(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDepartmentHasStaff
	}

	return s.departments.Delete(ctx, id)
}

// appendActorAudit writes the audit row against the actor's employee
// record when one exists; actors without an employee record leave no row.
func (s *DepartmentService) appendActorAudit(ctx context.Context, actorID string, workflow models.Workflow) {
	if actorID == "" {
		return
	}
	employee, err := s.employees.FindByAccountID(ctx, actorID)
	if err != nil {
		if !isNotFound(err) {
			s.log.Error().Err(err).Str("account_id", actorID).Msg("actor lookup failed for department audit")
		}
		return
	}

	workflow.ID = ids.New()
	workflow.EmployeeID = employee.ID
	workflow.CreatedBy = actorID
	workflow.UpdatedBy = &actorID
	if err := s.audit.Create(ctx, workflow); err != nil {
		s.log.Error().Err(err).Str("type", string(workflow.Type)).Msg("department audit write failed")
	}
}
