package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdesk/api/internal/ids"
	"staffdesk/api/internal/models"
	"staffdesk/api/internal/repository"
)

type requestFixture struct {
	svc       *RequestService
	accounts  *fakeAccountStore
	employees *fakeEmployeeStore
	audit     *fakeWorkflowStore
}

func newRequestFixture() *requestFixture {
	accounts := newFakeAccountStore()
	employees := newFakeEmployeeStore()
	audit := newFakeWorkflowStore()
	return &requestFixture{
		svc:       NewRequestService(newFakeRequestStore(audit), accounts, employees, zerolog.Nop()),
		accounts:  accounts,
		employees: employees,
		audit:     audit,
	}
}

func (f *requestFixture) seedAccount(t *testing.T, withEmployee bool) models.Account {
	t.Helper()

	account := models.Account{
		ID:     ids.New(),
		Email:  ids.New() + "@example.com",
		Role:   models.RoleUser,
		Status: models.AccountStatusActive,
	}
	require.NoError(t, f.accounts.Create(context.Background(), account))

	if withEmployee {
		require.NoError(t, f.employees.Create(context.Background(), models.Employee{
			ID:        ids.New(),
			AccountID: &account.ID,
			Position:  "Employee",
			Status:    models.EmployeeStatusActive,
		}))
	}
	return account
}

func TestRequestCreateDefaults(t *testing.T) {
	f := newRequestFixture()
	account := f.seedAccount(t, true)

	request, err := f.svc.Create(context.Background(), RequestInput{
		AccountID: account.ID,
		Type:      models.RequestTypeEquipment,
		Title:     "New laptop",
		Items: []RequestItemInput{
			{Name: "Laptop"},
			{Name: "Dock", Quantity: 2},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, request.Status)
	require.Len(t, request.Items, 2)
	assert.Equal(t, 1, request.Items[0].Quantity, "zero quantity defaults to 1")
	assert.Equal(t, 2, request.Items[1].Quantity)
	assert.Equal(t, models.RequestStatusPending, request.Items[0].Status)

	rows := f.audit.byType(models.WorkflowRequest)
	require.Len(t, rows, 1)
	assert.Equal(t, "New request created: New laptop", rows[0].Description)
}

func TestRequestCreateUnknownAccount(t *testing.T) {
	f := newRequestFixture()

	_, err := f.svc.Create(context.Background(), RequestInput{
		AccountID: "missing",
		Type:      models.RequestTypeLeave,
		Title:     "Vacation",
	})
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
}

func TestRequestCreateWithoutEmployeeSkipsAudit(t *testing.T) {
	f := newRequestFixture()
	account := f.seedAccount(t, false)

	_, err := f.svc.Create(context.Background(), RequestInput{
		AccountID: account.ID,
		Type:      models.RequestTypeOther,
		Title:     "Parking spot",
	})
	require.NoError(t, err)
	assert.Empty(t, f.audit.byType(models.WorkflowRequest))
}

func TestRequestUpdateStatusChangeAudits(t *testing.T) {
	f := newRequestFixture()
	account := f.seedAccount(t, true)
	ctx := context.Background()

	request, err := f.svc.Create(ctx, RequestInput{
		AccountID: account.ID,
		Type:      models.RequestTypeEquipment,
		Title:     "New laptop",
		Items:     []RequestItemInput{{Name: "Laptop"}},
	})
	require.NoError(t, err)
	require.Len(t, f.audit.byType(models.WorkflowRequest), 1)

	updated, err := f.svc.Update(ctx, request.ID, RequestInput{
		Status:  models.RequestStatusApproved,
		ActorID: "admin-1",
		Items:   []RequestItemInput{{ID: request.Items[0].ID, Name: "Laptop", Status: models.RequestStatusApproved}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusApproved, updated.Status)

	rows := f.audit.byType(models.WorkflowRequest)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[1].PreviousValue)
	assert.Equal(t, string(models.RequestStatusPending), *rows[1].PreviousValue)
	require.NotNil(t, rows[1].NewValue)
	assert.Equal(t, string(models.RequestStatusApproved), *rows[1].NewValue)

	// Same status again writes no further row.
	_, err = f.svc.Update(ctx, request.ID, RequestInput{
		Status: models.RequestStatusApproved,
		Items:  []RequestItemInput{{ID: request.Items[0].ID, Name: "Laptop"}},
	})
	require.NoError(t, err)
	assert.Len(t, f.audit.byType(models.WorkflowRequest), 2)
}

func TestRequestListByAccount(t *testing.T) {
	f := newRequestFixture()
	mine := f.seedAccount(t, false)
	other := f.seedAccount(t, false)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, RequestInput{AccountID: mine.ID, Type: models.RequestTypeLeave, Title: "PTO"})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, RequestInput{AccountID: other.ID, Type: models.RequestTypeLeave, Title: "Sick leave"})
	require.NoError(t, err)

	own, err := f.svc.GetAllByAccount(ctx, mine.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "PTO", own[0].Title)

	all, err := f.svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
