package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffdesk/api/internal/models"
)

var ErrEmployeeNotFound = errors.New("employee not found")

const employeeColumns = `
	id, employee_number, account_id, department_id, position, hire_date,
	status, created_at, updated_at`

type EmployeeRepository struct {
	pool *pgxpool.Pool
}

func NewEmployeeRepository(pool *pgxpool.Pool) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

func scanEmployee(row pgx.Row) (models.Employee, error) {
	var e models.Employee
	err := row.Scan(
		&e.ID,
		&e.EmployeeNumber,
		&e.AccountID,
		&e.DepartmentID,
		&e.Position,
		&e.HireDate,
		&e.Status,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Employee{}, ErrEmployeeNotFound
		}
		return models.Employee{}, err
	}
	return e, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, employee models.Employee) error {
	const query = `
		INSERT INTO employees (
			id, employee_number, account_id, department_id, position, hire_date,
			status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		employee.ID,
		employee.EmployeeNumber,
		employee.AccountID,
		employee.DepartmentID,
		employee.Position,
		employee.HireDate,
		employee.Status,
	)
	return err
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	employee, err := scanEmployee(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return models.Employee{}, err
	}
	if err := r.attachAssociations(ctx, &employee); err != nil {
		return models.Employee{}, err
	}
	return employee, nil
}

func (r *EmployeeRepository) FindByAccountID(ctx context.Context, accountID string) (models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE account_id = $1`
	return scanEmployee(r.pool.QueryRow(ctx, query, accountID))
}

func (r *EmployeeRepository) ListAll(ctx context.Context) ([]models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range employees {
		if err := r.attachAssociations(ctx, &employees[i]); err != nil {
			return nil, err
		}
	}
	return employees, nil
}

func (r *EmployeeRepository) attachAssociations(ctx context.Context, employee *models.Employee) error {
	if employee.AccountID != nil {
		account, err := scanAccount(r.pool.QueryRow(ctx,
			`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, *employee.AccountID))
		if err == nil {
			employee.Account = &account
		} else if !errors.Is(err, ErrAccountNotFound) {
			return err
		}
	}
	if employee.DepartmentID != nil {
		var d models.Department
		err := r.pool.QueryRow(ctx,
			`SELECT id, name, description, created_at, updated_at FROM departments WHERE id = $1`,
			*employee.DepartmentID,
		).Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt)
		if err == nil {
			employee.Department = &d
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
	}
	return nil
}

func (r *EmployeeRepository) Update(ctx context.Context, employee models.Employee) error {
	const query = `
		UPDATE employees SET
			employee_number = $2,
			account_id = $3,
			department_id = $4,
			position = $5,
			hire_date = $6,
			status = $7,
			updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		employee.ID,
		employee.EmployeeNumber,
		employee.AccountID,
		employee.DepartmentID,
		employee.Position,
		employee.HireDate,
		employee.Status,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

// CountCreatedSince backs employee-number generation: numbers are
// sequential within the month the employee was created.
func (r *EmployeeRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM employees WHERE created_at >= $1`, since,
	).Scan(&count)
	return count, err
}

func (r *EmployeeRepository) CountByDepartment(ctx context.Context, departmentID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM employees WHERE department_id = $1`, departmentID,
	).Scan(&count)
	return count, err
}
