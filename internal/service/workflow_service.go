package service

import (
	"context"

	"github.com/rs/zerolog"

	"staffdesk/api/internal/ids"
	"staffdesk/api/internal/models"
)

type WorkflowService struct {
	workflows WorkflowStore
	employees EmployeeStore
	log       zerolog.Logger
}

func NewWorkflowService(workflows WorkflowStore, employees EmployeeStore, log zerolog.Logger) *WorkflowService {
	return &WorkflowService{
		workflows: workflows,
		employees: employees,
		log:       log,
	}
}

func (s *WorkflowService) GetAll(ctx context.Context) ([]models.Workflow, error) {
	return s.workflows.ListAll(ctx)
}

func (s *WorkflowService) GetByEmployeeID(ctx context.Context, employeeID string) ([]models.Workflow, error) {
	return s.workflows.ListByEmployee(ctx, employeeID)
}

func (s *WorkflowService) GetByID(ctx context.Context, id string) (models.Workflow, error) {
	return s.workflows.GetByID(ctx, id)
}

type WorkflowInput struct {
	EmployeeID    string
	Type          models.WorkflowType
	Description   string
	Status        models.WorkflowStatus
	PreviousValue *string
	NewValue      *string
	ActorID       string
}

func (s *WorkflowService) Create(ctx context.Context, input WorkflowInput) (models.Workflow, error) {
	if _, err := s.employees.GetByID(ctx, input.EmployeeID); err != nil {
		return models.Workflow{}, err
	}

	status := input.Status
	if status == "" {
		status = models.WorkflowStatusPending
	}

	workflow := models.Workflow{
		ID:            ids.New(),
		EmployeeID:    input.EmployeeID,
		Type:          input.Type,
		Description:   input.Description,
		Status:        status,
		PreviousValue: input.PreviousValue,
		NewValue:      input.NewValue,
		CreatedBy:     input.ActorID,
	}
	if err := s.workflows.Create(ctx, workflow); err != nil {
		return models.Workflow{}, err
	}
	return s.workflows.GetByID(ctx, workflow.ID)
}

// UpdateStatus is the explicit status-correction path; the ledger is
// otherwise append-only.
func (s *WorkflowService) UpdateStatus(ctx context.Context, id string, status models.WorkflowStatus, actorID string) (models.Workflow, error) {
	workflow, err := s.workflows.GetByID(ctx, id)
	if err != nil {
		return models.Workflow{}, err
	}

	workflow.Status = status
	if actorID != "" {
		workflow.UpdatedBy = &actorID
	}
	if err := s.workflows.Update(ctx, workflow); err != nil {
		return models.Workflow{}, err
	}
	return s.workflows.GetByID(ctx, id)
}

func (s *WorkflowService) Delete(ctx context.Context, id string) error {
	if _, err := s.workflows.GetByID(ctx, id); err != nil {
		return err
	}
	return s.workflows.Delete(ctx, id)
}
