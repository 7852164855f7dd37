package service

import (
	"context"
	"time"

	"staffdesk/api/internal/models"
)

// Store contracts consumed by the services; the pgx repositories satisfy
// them and the tests substitute in-memory fakes.

type AccountStore interface {
	Create(ctx context.Context, account models.Account) error
	CreateWithEmployee(ctx context.Context, account models.Account, employee models.Employee) error
	GetByID(ctx context.Context, id string) (models.Account, error)
	FindByEmail(ctx context.Context, email string) (models.Account, error)
	FindByVerificationToken(ctx context.Context, token string) (models.Account, error)
	FindByValidResetToken(ctx context.Context, token string) (models.Account, error)
	Count(ctx context.Context) (int, error)
	ListAll(ctx context.Context) ([]models.Account, error)
	ListNonAdmin(ctx context.Context) ([]models.Account, error)
	Update(ctx context.Context, account models.Account) error
	Delete(ctx context.Context, id string) error
	PurgeWithDependents(ctx context.Context, id string) error
}

type TokenStore interface {
	Create(ctx context.Context, token models.RefreshToken) error
	FindByToken(ctx context.Context, token string) (models.RefreshToken, error)
	Update(ctx context.Context, token models.RefreshToken) error
	Rotate(ctx context.Context, revoked models.RefreshToken, replacement models.RefreshToken) error
}

type EmployeeStore interface {
	Create(ctx context.Context, employee models.Employee) error
	GetByID(ctx context.Context, id string) (models.Employee, error)
	FindByAccountID(ctx context.Context, accountID string) (models.Employee, error)
	ListAll(ctx context.Context) ([]models.Employee, error)
	Update(ctx context.Context, employee models.Employee) error
	Delete(ctx context.Context, id string) error
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
	CountByDepartment(ctx context.Context, departmentID string) (int, error)
}

type DepartmentStore interface {
	Create(ctx context.Context, department models.Department) error
	GetByID(ctx context.Context, id string) (models.Department, error)
	FindByName(ctx context.Context, name string) (models.Department, error)
	ListAll(ctx context.Context) ([]models.Department, error)
	Update(ctx context.Context, department models.Department) error
	Delete(ctx context.Context, id string) error
}

type WorkflowStore interface {
	Create(ctx context.Context, workflow models.Workflow) error
	GetByID(ctx context.Context, id string) (models.Workflow, error)
	ListAll(ctx context.Context) ([]models.Workflow, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]models.Workflow, error)
	Update(ctx context.Context, workflow models.Workflow) error
	Delete(ctx context.Context, id string) error
}

type RequestStore interface {
	Create(ctx context.Context, request models.Request, audit *models.Workflow) error
	GetByID(ctx context.Context, id string) (models.Request, error)
	ListAll(ctx context.Context) ([]models.Request, error)
	ListByAccount(ctx context.Context, accountID string) ([]models.Request, error)
	Update(ctx context.Context, request models.Request, audit *models.Workflow) error
	Delete(ctx context.Context, id string) error
}
