package models

import "time"

type WorkflowType string

const (
	WorkflowOnboarding         WorkflowType = "Onboarding"
	WorkflowDepartmentTransfer WorkflowType = "Department Transfer"
	WorkflowStatusChange       WorkflowType = "Status Change"
	WorkflowTermination        WorkflowType = "Termination"
	WorkflowRequest            WorkflowType = "Request"
	WorkflowAccountCreation    WorkflowType = "AccountCreation"
	WorkflowProfileUpdate      WorkflowType = "ProfileUpdate"
	WorkflowStatusUpdate       WorkflowType = "StatusUpdate"
	WorkflowDepartmentCreation WorkflowType = "DepartmentCreation"
	WorkflowDepartmentUpdate   WorkflowType = "DepartmentUpdate"
	WorkflowDepartmentDeletion WorkflowType = "DepartmentDeletion"
)

type WorkflowStatus string

const (
	WorkflowStatusPending    WorkflowStatus = "Pending"
	WorkflowStatusInProgress WorkflowStatus = "In Progress"
	WorkflowStatusApproved   WorkflowStatus = "Approved"
	WorkflowStatusRejected   WorkflowStatus = "Rejected"
	WorkflowStatusCompleted  WorkflowStatus = "Completed"
)

// Workflow is an append-only audit row recording a state transition. Rows
// are only ever updated through explicit status corrections.
type Workflow struct {
	ID            string
	EmployeeID    string
	Type          WorkflowType
	Description   string
	Status        WorkflowStatus
	PreviousValue *string
	NewValue      *string
	CreatedBy     string
	UpdatedBy     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Employee *Employee
}
