package service

import (
	"context"

	"github.com/rs/zerolog"

	"staffdesk/api/internal/ids"
	"staffdesk/api/internal/models"
)

type RequestService struct {
	requests  RequestStore
	accounts  AccountStore
	employees EmployeeStore
	log       zerolog.Logger
}

func NewRequestService(requests RequestStore, accounts AccountStore, employees EmployeeStore, log zerolog.Logger) *RequestService {
	return &RequestService{
		requests:  requests,
		accounts:  accounts,
		employees: employees,
		log:       log,
	}
}

func (s *RequestService) GetAll(ctx context.Context) ([]models.Request, error) {
	return s.requests.ListAll(ctx)
}

func (s *RequestService) GetAllByAccount(ctx context.Context, accountID string) ([]models.Request, error) {
	return s.requests.ListByAccount(ctx, accountID)
}

func (s *RequestService) GetByID(ctx context.Context, id string) (models.Request, error) {
	return s.requests.GetByID(ctx, id)
}

type RequestItemInput struct {
	ID          string
	Name        string
	Description string
	Quantity    int
	Status      models.RequestStatus
}

type RequestInput struct {
	AccountID   string
	Type        models.RequestType
	Title       string
	Description string
	Status      models.RequestStatus
	Items       []RequestItemInput
	ActorID     string
}

// Create persists the request, its items and (when the account has a
// linked employee) a Request audit row in one transaction.
func (s *RequestService) Create(ctx context.Context, input RequestInput) (models.Request, error) {
	if _, err := s.accounts.GetByID(ctx, input.AccountID); err != nil {
		return models.Request{}, err
	}

	actor := input.ActorID
	if actor == "" {
		actor = input.AccountID
	}

	request := models.Request{
		ID:          ids.New(),
		AccountID:   input.AccountID,
		Type:        input.Type,
		Title:       input.Title,
		Description: input.Description,
		Status:      models.RequestStatusPending,
		CreatedBy:   actor,
	}
	for _, item := range input.Items {
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		request.Items = append(request.Items, models.RequestItem{
			ID:          ids.New(),
			RequestID:   request.ID,
			Name:        item.Name,
			Description: item.Description,
			Quantity:    quantity,
			Status:      models.RequestStatusPending,
		})
	}

	audit := s.requestAudit(ctx, input.AccountID, models.Workflow{
		Description: "New request created: " + input.Title,
		Status:      models.WorkflowStatusPending,
		CreatedBy:   actor,
	})

	if err := s.requests.Create(ctx, request, audit); err != nil {
		return models.Request{}, err
	}
	return s.requests.GetByID(ctx, request.ID)
}

// Update rewrites the request and upserts its items; a status change adds
// an audit row inside the same transaction.
func (s *RequestService) Update(ctx context.Context, id string, input RequestInput) (models.Request, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return models.Request{}, err
	}
	oldStatus := request.Status

	if input.Type != "" {
		request.Type = input.Type
	}
	if input.Title != "" {
		request.Title = input.Title
	}
	if input.Description != "" {
		request.Description = input.Description
	}
	if input.Status != "" {
		request.Status = input.Status
	}
	actor := input.ActorID
	if actor != "" {
		request.UpdatedBy = &actor
	}

	request.Items = nil
	for _, item := range input.Items {
		id := item.ID
		if id == "" {
			id = ids.New()
		}
		status := item.Status
		if status == "" {
			status = models.RequestStatusPending
		}
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		request.Items = append(request.Items, models.RequestItem{
			ID:          id,
			RequestID:   request.ID,
			Name:        item.Name,
			Description: item.Description,
			Quantity:    quantity,
			Status:      status,
		})
	}

	var audit *models.Workflow
	if input.Status != "" && input.Status != oldStatus {
		prev, next := string(oldStatus), string(input.Status)
		audit = s.requestAudit(ctx, request.AccountID, models.Workflow{
			Description:   "Request status updated: " + request.Title,
			Status:        models.WorkflowStatus(input.Status),
			PreviousValue: &prev,
			NewValue:      &next,
			CreatedBy:     actor,
		})
	}

	if err := s.requests.Update(ctx, request, audit); err != nil {
		return models.Request{}, err
	}
	return s.requests.GetByID(ctx, id)
}

func (s *RequestService) Delete(ctx context.Context, id string) error {
	if _, err := s.requests.GetByID(ctx, id); err != nil {
		return err
	}
	return s.requests.Delete(ctx, id)
}

// requestAudit builds the Request workflow row when the account has a
// linked employee; accounts without one get no ledger entry.
func (s *RequestService) requestAudit(ctx context.Context, accountID string, workflow models.Workflow) *models.Workflow {
	employee, err := s.employees.FindByAccountID(ctx, accountID)
	if err != nil {
		if !isNotFound(err) {
			s.log.Error().Err(err).Str("account_id", accountID).Msg("employee lookup failed for request audit")
		}
		return nil
	}

	workflow.ID = ids.New()
	workflow.EmployeeID = employee.ID
	workflow.Type = models.WorkflowRequest
	if workflow.CreatedBy == "" {
		workflow.CreatedBy = accountID
	}
	return &workflow
}
