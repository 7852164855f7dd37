package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffdesk/api/internal/models"
)

var ErrWorkflowNotFound = errors.New("workflow not found")

const workflowColumns = `
	id, employee_id, type, description, status, previous_value, new_value,
	created_by, updated_by, created_at, updated_at`

type WorkflowRepository struct {
	pool *pgxpool.Pool
}

func NewWorkflowRepository(pool *pgxpool.Pool) *WorkflowRepository {
	return &WorkflowRepository{pool: pool}
}

func scanWorkflow(row pgx.Row) (models.Workflow, error) {
	var w models.Workflow
	err := row.Scan(
		&w.ID,
		&w.EmployeeID,
		&w.Type,
		&w.Description,
		&w.Status,
		&w.PreviousValue,
		&w.NewValue,
		&w.CreatedBy,
		&w.UpdatedBy,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Workflow{}, ErrWorkflowNotFound
		}
		return models.Workflow{}, err
	}
	return w, nil
}

func (r *WorkflowRepository) Create(ctx context.Context, workflow models.Workflow) error {
	const query = `
		INSERT INTO workflows (
			id, employee_id, type, description, status, previous_value, new_value,
			created_by, updated_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		workflow.ID,
		workflow.EmployeeID,
		workflow.Type,
		workflow.Description,
		workflow.Status,
		workflow.PreviousValue,
		workflow.NewValue,
		workflow.CreatedBy,
		workflow.UpdatedBy,
	)
	return err
}

func (r *WorkflowRepository) GetByID(ctx context.Context, id string) (models.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows WHERE id = $1`
	return scanWorkflow(r.pool.QueryRow(ctx, query, id))
}

func (r *WorkflowRepository) list(ctx context.Context, where string, args ...any) ([]models.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows ` + where + ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workflows []models.Workflow
	for rows.Next() {
		workflow, err := scanWorkflow(rows)
		if err != nil {
			return nil, err
		}
		workflows = append(workflows, workflow)
	}
	return workflows, rows.Err()
}

func (r *WorkflowRepository) ListAll(ctx context.Context) ([]models.Workflow, error) {
	return r.list(ctx, "")
}

func (r *WorkflowRepository) ListByEmployee(ctx context.Context, employeeID string) ([]models.Workflow, error) {
	return r.list(ctx, `WHERE employee_id = $1`, employeeID)
}

// Update applies a status correction. The ledger is otherwise insert-only.
func (r *WorkflowRepository) Update(ctx context.Context, workflow models.Workflow) error {
	const query = `
		UPDATE workflows
		SET status = $2, description = $3, updated_by = $4, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		workflow.ID,
		workflow.Status,
		workflow.Description,
		workflow.UpdatedBy,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrWorkflowNotFound
	}
	return nil
}

func (r *WorkflowRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM workflows WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrWorkflowNotFound
	}
	return nil
}
