package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staffdesk/api/internal/models"
)

var (
	ErrDepartmentNotFound  = errors.New("department not found")
	ErrDuplicateDepartment = errors.New("department name already exists")
)

type DepartmentRepository struct {
	pool *pgxpool.Pool
}

func NewDepartmentRepository(pool *pgxpool.Pool) *DepartmentRepository {
	return &DepartmentRepository{pool: pool}
}

func scanDepartment(row pgx.Row) (models.Department, error) {
	var d models.Department
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Department{}, ErrDepartmentNotFound
		}
		return models.Department{}, err
	}
	return d, nil
}

func (r *DepartmentRepository) Create(ctx context.Context, department models.Department) error {
	const query = `
		INSERT INTO departments (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query, department.ID, department.Name, department.Description)
	if isUniqueViolation(err) {
		return ErrDuplicateDepartment
	}
	return err
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id string) (models.Department, error) {
	department, err := scanDepartment(r.pool.QueryRow(ctx,
		`SELECT id, name, description, created_at, updated_at FROM departments WHERE id = $1`, id))
	if err != nil {
		return models.Department{}, err
	}
	if err := r.attachEmployees(ctx, &department); err != nil {
		return models.Department{}, err
	}
	return department, nil
}

func (r *DepartmentRepository) FindByName(ctx context.Context, name string) (models.Department, error) {
	return scanDepartment(r.pool.QueryRow(ctx,
		`SELECT id, name, description, created_at, updated_at FROM departments WHERE name = $1`, name))
}

func (r *DepartmentRepository) ListAll(ctx context.Context) ([]models.Department, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, created_at, updated_at FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []models.Department
	for rows.Next() {
		department, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		departments = append(departments, department)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range departments {
		if err := r.attachEmployees(ctx, &departments[i]); err != nil {
			return nil, err
		}
	}
	return departments, nil
}

func (r *DepartmentRepository) attachEmployees(ctx context.Context, department *models.Department) error {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE department_id = $1 ORDER BY employee_number`
	rows, err := r.pool.Query(ctx, query, department.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return err
		}
		department.Employees = append(department.Employees, employee)
	}
	return rows.Err()
}

func (r *DepartmentRepository) Update(ctx context.Context, department models.Department) error {
	const query = `
		UPDATE departments
		SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, department.ID, department.Name, department.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateDepartment
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDepartmentNotFound
	}
	return nil
}

func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDepartmentNotFound
	}
	return nil
}
