package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffdesk/api/internal/models"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateEmail  = errors.New("email already registered")
)

const accountColumns = `
	id, title, first_name, last_name, email, password_hash, role, status,
	verification_token, verified_at, reset_token, reset_token_expires,
	password_reset_at, created_at, updated_at`

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func scanAccount(row pgx.Row) (models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.FirstName,
		&a.LastName,
		&a.Email,
		&a.PasswordHash,
		&a.Role,
		&a.Status,
		&a.VerificationToken,
		&a.VerifiedAt,
		&a.ResetToken,
		&a.ResetTokenExpires,
		&a.PasswordResetAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		return models.Account{}, err
	}
	return a, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *AccountRepository) Create(ctx context.Context, account models.Account) error {
	const query = `
		INSERT INTO accounts (
			id, title, first_name, last_name, email, password_hash, role, status,
			verification_token, verified_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		account.ID,
		account.Title,
		account.FirstName,
		account.LastName,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.Status,
		account.VerificationToken,
		account.VerifiedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

// CreateWithEmployee inserts the account and its linked employee record in
// one transaction; either both rows land or neither does.
func (r *AccountRepository) CreateWithEmployee(ctx context.Context, account models.Account, employee models.Employee) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const accountQuery = `
		INSERT INTO accounts (
			id, title, first_name, last_name, email, password_hash, role, status,
			verification_token, verified_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()
		)
	`
	if _, err := tx.Exec(ctx, accountQuery,
		account.ID,
		account.Title,
		account.FirstName,
		account.LastName,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.Status,
		account.VerificationToken,
		account.VerifiedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert account: %w", err)
	}

	const employeeQuery = `
		INSERT INTO employees (
			id, employee_number, account_id, department_id, position, hire_date,
			status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
	`
	if _, err := tx.Exec(ctx, employeeQuery,
		employee.ID,
		employee.EmployeeNumber,
		employee.AccountID,
		employee.DepartmentID,
		employee.Position,
		employee.HireDate,
		employee.Status,
	); err != nil {
		return fmt.Errorf("insert employee: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return scanAccount(r.pool.QueryRow(ctx, query, email))
}

func (r *AccountRepository) FindByVerificationToken(ctx context.Context, token string) (models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE verification_token = $1`
	return scanAccount(r.pool.QueryRow(ctx, query, token))
}

// FindByValidResetToken matches only while the stored expiry is still in
// the future; an expired token behaves exactly like an unknown one.
func (r *AccountRepository) FindByValidResetToken(ctx context.Context, token string) (models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE reset_token = $1 AND reset_token_expires > NOW()`
	return scanAccount(r.pool.QueryRow(ctx, query, token))
}

func (r *AccountRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AccountRepository) listWhere(ctx context.Context, where string, args ...any) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ` + where + ` ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *AccountRepository) ListAll(ctx context.Context) ([]models.Account, error) {
	return r.listWhere(ctx, "")
}

func (r *AccountRepository) ListNonAdmin(ctx context.Context) ([]models.Account, error) {
	return r.listWhere(ctx, `WHERE role <> $1`, models.RoleAdmin)
}

func (r *AccountRepository) Update(ctx context.Context, account models.Account) error {
	const query = `
		UPDATE accounts SET
			title = $2,
			first_name = $3,
			last_name = $4,
			email = $5,
			password_hash = $6,
			role = $7,
			status = $8,
			verification_token = $9,
			verified_at = $10,
			reset_token = $11,
			reset_token_expires = $12,
			password_reset_at = $13,
			updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		account.ID,
		account.Title,
		account.FirstName,
		account.LastName,
		account.Email,
		account.PasswordHash,
		account.Role,
		account.Status,
		account.VerificationToken,
		account.VerifiedAt,
		account.ResetToken,
		account.ResetTokenExpires,
		account.PasswordResetAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// PurgeWithDependents removes one account and everything hanging off it in
// dependency order inside a single transaction: audit rows, employee
// record, refresh tokens, then the account itself.
func (r *AccountRepository) PurgeWithDependents(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `SELECT id FROM employees WHERE account_id = $1`, id)
	if err != nil {
		return fmt.Errorf("list employees: %w", err)
	}
	employeeIDs := []string{id} // profile/status audit rows key on the account id
	for rows.Next() {
		var employeeID string
		if err := rows.Scan(&employeeID); err != nil {
			rows.Close()
			return err
		}
		employeeIDs = append(employeeIDs, employeeID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM workflows WHERE employee_id = ANY($1)`, employeeIDs); err != nil {
		return fmt.Errorf("delete workflows: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM employees WHERE account_id = $1`, id); err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM refresh_tokens WHERE account_id = $1`, id); err != nil {
		return fmt.Errorf("delete refresh tokens: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	return tx.Commit(ctx)
}

// ClearExpiredResetTokens nulls out reset tokens whose expiry has passed.
// Expired tokens already fail validation; this is housekeeping only.
func (r *AccountRepository) ClearExpiredResetTokens(ctx context.Context) (int64, error) {
	const query = `
		UPDATE accounts
		SET reset_token = NULL, reset_token_expires = NULL, updated_at = NOW()
		WHERE reset_token IS NOT NULL AND reset_token_expires <= NOW()
	`
	cmd, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
