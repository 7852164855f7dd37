package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdesk/api/internal/models"
)

func newEmployeeService() (*EmployeeService, *fakeEmployeeStore, *fakeWorkflowStore) {
	employees := newFakeEmployeeStore()
	audit := newFakeWorkflowStore()
	return NewEmployeeService(employees, audit, zerolog.Nop()), employees, audit
}

func TestEmployeeCreateGeneratesSequentialNumbers(t *testing.T) {
	svc, _, audit := newEmployeeService()
	ctx := context.Background()
	prefix := time.Now().Format("06-01")

	first, err := svc.Create(ctx, EmployeeInput{Position: "Developer", ActorID: "admin-1"})
	require.NoError(t, err)
	assert.Equal(t, prefix+"-0001", first.EmployeeNumber)
	assert.Equal(t, models.EmployeeStatusActive, first.Status)

	second, err := svc.Create(ctx, EmployeeInput{Position: "Designer", ActorID: "admin-1"})
	require.NoError(t, err)
	assert.Equal(t, prefix+"-0002", second.EmployeeNumber)

	rows := audit.byType(models.WorkflowOnboarding)
	require.Len(t, rows, 2)
	assert.Equal(t, fmt.Sprintf("Employee %s onboarded", first.EmployeeNumber), rows[0].Description)
	assert.Equal(t, models.WorkflowStatusCompleted, rows[0].Status)
}

func TestEmployeeCreateKeepsExplicitNumber(t *testing.T) {
	svc, _, _ := newEmployeeService()

	employee, err := svc.Create(context.Background(), EmployeeInput{
		EmployeeNumber: "19-05-0042",
		Position:       "Archivist",
	})
	require.NoError(t, err)
	assert.Equal(t, "19-05-0042", employee.EmployeeNumber)
}

func TestEmployeeTransferDepartmentAudit(t *testing.T) {
	svc, _, audit := newEmployeeService()
	ctx := context.Background()

	employee, err := svc.Create(ctx, EmployeeInput{Position: "Developer"})
	require.NoError(t, err)

	moved, err := svc.TransferDepartment(ctx, employee.ID, "dept-9", "admin-1")
	require.NoError(t, err)
	require.NotNil(t, moved.DepartmentID)
	assert.Equal(t, "dept-9", *moved.DepartmentID)

	rows := audit.byType(models.WorkflowDepartmentTransfer)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].PreviousValue)
	assert.Equal(t, "None", *rows[0].PreviousValue, "no prior department reads as None")
	require.NotNil(t, rows[0].NewValue)
	assert.Equal(t, "dept-9", *rows[0].NewValue)
	assert.Equal(t, "admin-1", rows[0].CreatedBy)

	// A second transfer records the previous department id.
	_, err = svc.TransferDepartment(ctx, employee.ID, "dept-10", "admin-1")
	require.NoError(t, err)
	rows = audit.byType(models.WorkflowDepartmentTransfer)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[1].PreviousValue)
	assert.Equal(t, "dept-9", *rows[1].PreviousValue)
}

func TestEmployeeDeleteMissing(t *testing.T) {
	svc, _, _ := newEmployeeService()
	err := svc.Delete(context.Background(), "nope")
	assert.Error(t, err)
}
