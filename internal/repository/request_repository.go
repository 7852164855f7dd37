package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffdesk/api/internal/models"
)

var ErrRequestNotFound = errors.New("request not found")

const requestColumns = `
	id, account_id, type, title, description, status, created_by, updated_by,
	created_at, updated_at`

const requestItemColumns = `
	id, request_id, name, description, quantity, status, created_at, updated_at`

type RequestRepository struct {
	pool *pgxpool.Pool
}

func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{pool: pool}
}

func scanRequest(row pgx.Row) (models.Request, error) {
	var q models.Request
	err := row.Scan(
		&q.ID,
		&q.AccountID,
		&q.Type,
		&q.Title,
		&q.Description,
		&q.Status,
		&q.CreatedBy,
		&q.UpdatedBy,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Request{}, ErrRequestNotFound
		}
		return models.Request{}, err
	}
	return q, nil
}

const insertItemQuery = `
	INSERT INTO request_items (
		id, request_id, name, description, quantity, status, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, NOW(), NOW()
	)
`

// Create inserts the request, its items and the optional audit row in one
// transaction: a request never lands without its items.
func (r *RequestRepository) Create(ctx context.Context, request models.Request, audit *models.Workflow) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		INSERT INTO requests (
			id, account_id, type, title, description, status, created_by, updated_by,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		)
	`
	if _, err := tx.Exec(ctx, query,
		request.ID,
		request.AccountID,
		request.Type,
		request.Title,
		request.Description,
		request.Status,
		request.CreatedBy,
		request.UpdatedBy,
	); err != nil {
		return fmt.Errorf("insert request: %w", err)
	}

	for _, item := range request.Items {
		if _, err := tx.Exec(ctx, insertItemQuery,
			item.ID, request.ID, item.Name, item.Description, item.Quantity, item.Status,
		); err != nil {
			return fmt.Errorf("insert request item: %w", err)
		}
	}

	if audit != nil {
		if err := insertWorkflowTx(ctx, tx, *audit); err != nil {
			return fmt.Errorf("insert workflow: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Update writes the request row, upserts items (existing items by id, new
// items inserted) and appends the optional status-change audit row, all in
// one transaction.
func (r *RequestRepository) Update(ctx context.Context, request models.Request, audit *models.Workflow) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
		UPDATE requests
		SET type = $2, title = $3, description = $4, status = $5, updated_by = $6,
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := tx.Exec(ctx, query,
		request.ID,
		request.Type,
		request.Title,
		request.Description,
		request.Status,
		request.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrRequestNotFound
	}

	for _, item := range request.Items {
		const itemQuery = `
			UPDATE request_items
			SET name = $3, description = $4, quantity = $5, status = $6, updated_at = NOW()
			WHERE id = $1 AND request_id = $2
		`
		cmd, err := tx.Exec(ctx, itemQuery,
			item.ID, request.ID, item.Name, item.Description, item.Quantity, item.Status,
		)
		if err != nil {
			return fmt.Errorf("update request item: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			if _, err := tx.Exec(ctx, insertItemQuery,
				item.ID, request.ID, item.Name, item.Description, item.Quantity, item.Status,
			); err != nil {
				return fmt.Errorf("insert request item: %w", err)
			}
		}
	}

	if audit != nil {
		if err := insertWorkflowTx(ctx, tx, *audit); err != nil {
			return fmt.Errorf("insert workflow: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func insertWorkflowTx(ctx context.Context, tx pgx.Tx, workflow models.Workflow) error {
	const query = `
		INSERT INTO workflows (
			id, employee_id, type, description, status, previous_value, new_value,
			created_by, updated_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()
		)
	`
	_, err := tx.Exec(ctx, query,
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

func (r *RequestRepository) GetByID(ctx context.Context, id string) (models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`
	request, err := scanRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return models.Request{}, err
	}
	if err := r.attachItems(ctx, &request); err != nil {
		return models.Request{}, err
	}
	return request, nil
}

func (r *RequestRepository) list(ctx context.Context, where string, args ...any) ([]models.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests ` + where + ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.Request
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range requests {
		if err := r.attachItems(ctx, &requests[i]); err != nil {
			return nil, err
		}
	}
	return requests, nil
}

func (r *RequestRepository) ListAll(ctx context.Context) ([]models.Request, error) {
	return r.list(ctx, "")
}

func (r *RequestRepository) ListByAccount(ctx context.Context, accountID string) ([]models.Request, error) {
	return r.list(ctx, `WHERE account_id = $1`, accountID)
}

func (r *RequestRepository) attachItems(ctx context.Context, request *models.Request) error {
	query := `SELECT ` + requestItemColumns + ` FROM request_items WHERE request_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, request.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.RequestItem
		if err := rows.Scan(
			&item.ID,
			&item.RequestID,
			&item.Name,
			&item.Description,
			&item.Quantity,
			&item.Status,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return err
		}
		request.Items = append(request.Items, item)
	}
	return rows.Err()
}

// Delete removes items before the request; the FK cascade would do it, but
// the explicit order keeps the delete safe on stores without the cascade.
func (r *RequestRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM request_items WHERE request_id = $1`, id); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	cmd, err := tx.Exec(ctx, `DELETE FROM requests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRequestNotFound
	}

	return tx.Commit(ctx)
}
