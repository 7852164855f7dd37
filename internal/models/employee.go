package models

import "time"

type EmployeeStatus string

const (
	EmployeeStatusActive     EmployeeStatus = "Active"
	EmployeeStatusInactive   EmployeeStatus = "Inactive"
	EmployeeStatusOnLeave    EmployeeStatus = "On Leave"
	EmployeeStatusTerminated EmployeeStatus = "Terminated"
)

type Employee struct {
	ID             string
	EmployeeNumber string // YY-MM-XXXX, sequential within the hire month
	AccountID      *string
	DepartmentID   *string
	Position       string
	HireDate       time.Time
	Status         EmployeeStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Account    *Account
	Department *Department
}

type Department struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Employees []Employee
}
