package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdesk/api/internal/models"
)

func credentialedAccount() models.Account {
	now := time.Now()
	verification := "raw-verification-token"
	reset := "raw-reset-token"
	return models.Account{
		ID:                "acct-1",
		FirstName:         "Ada",
		LastName:          "Admin",
		Email:             "ada@example.com",
		PasswordHash:      []byte("$2a$10$abcdefghijklmnopqrstuv"),
		Role:              models.RoleAdmin,
		Status:            models.AccountStatusActive,
		VerificationToken: &verification,
		ResetToken:        &reset,
		ResetTokenExpires: &now,
		VerifiedAt:        &now,
	}
}

func assertNoCredentialMaterial(t *testing.T, payload []byte) {
	t.Helper()
	body := string(payload)
	assert.NotContains(t, body, "$2a$10$", "password hash must not serialize")
	assert.NotContains(t, body, "JDJhJDEw", "base64 password hash must not serialize")
	assert.NotContains(t, body, "raw-verification-token")
	assert.NotContains(t, body, "raw-reset-token")
	assert.NotContains(t, body, "PasswordHash")
	assert.NotContains(t, body, "ResetToken")
	assert.NotContains(t, body, "VerificationToken")
}

func TestAccountResponseOmitsCredentials(t *testing.T) {
	payload, err := json.Marshal(toAccountResponse(credentialedAccount()))
	require.NoError(t, err)

	assertNoCredentialMaterial(t, payload)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "acct-1", decoded["id"])
	assert.Equal(t, true, decoded["isVerified"])
}

func TestEmployeeResponseOmitsLinkedAccountCredentials(t *testing.T) {
	account := credentialedAccount()
	department := models.Department{ID: "dept-1", Name: "Engineering"}
	employee := models.Employee{
		ID:             "emp-1",
		EmployeeNumber: "26-08-0001",
		AccountID:      &account.ID,
		DepartmentID:   &department.ID,
		Position:       "Developer",
		HireDate:       time.Now(),
		Status:         models.EmployeeStatusActive,
		Account:        &account,
		Department:     &department,
	}

	payload, err := json.Marshal(toEmployeeResponse(employee))
	require.NoError(t, err)

	assertNoCredentialMaterial(t, payload)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "emp-1", decoded["id"])
	assert.Equal(t, "26-08-0001", decoded["employeeNumber"])

	linked, ok := decoded["account"].(map[string]any)
	require.True(t, ok, "linked account projects through the account shape")
	assert.Equal(t, "ada@example.com", linked["email"])
	assert.Equal(t, true, linked["isVerified"])
}

func TestDepartmentResponseProjectsNestedEmployees(t *testing.T) {
	account := credentialedAccount()
	department := models.Department{
		ID:   "dept-1",
		Name: "Engineering",
		Employees: []models.Employee{{
			ID:             "emp-1",
			EmployeeNumber: "26-08-0001",
			Status:         models.EmployeeStatusActive,
			Account:        &account,
		}},
	}

	payload, err := json.Marshal(toDepartmentResponse(department))
	require.NoError(t, err)

	assertNoCredentialMaterial(t, payload)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	employees, ok := decoded["employees"].([]any)
	require.True(t, ok)
	require.Len(t, employees, 1)
	nested := employees[0].(map[string]any)
	assert.Equal(t, "26-08-0001", nested["employeeNumber"])
}

func TestWorkflowAndRequestResponsesUseWireNames(t *testing.T) {
	prev, next := "Active", "Inactive"
	workflowPayload, err := json.Marshal(toWorkflowResponse(models.Workflow{
		ID:            "wf-1",
		EmployeeID:    "emp-1",
		Type:          models.WorkflowStatusChange,
		Status:        models.WorkflowStatusCompleted,
		PreviousValue: &prev,
		NewValue:      &next,
		CreatedBy:     "acct-1",
	}))
	require.NoError(t, err)

	var workflow map[string]any
	require.NoError(t, json.Unmarshal(workflowPayload, &workflow))
	assert.Equal(t, "emp-1", workflow["employeeId"])
	assert.Equal(t, "Active", workflow["previousValue"])
	assert.Equal(t, "acct-1", workflow["createdBy"])
	assert.NotContains(t, string(workflowPayload), "EmployeeID")

	requestPayload, err := json.Marshal(toRequestResponse(models.Request{
		ID:        "req-1",
		AccountID: "acct-1",
		Type:      models.RequestTypeEquipment,
		Title:     "New laptop",
		Status:    models.RequestStatusPending,
		CreatedBy: "acct-1",
		Items: []models.RequestItem{{
			ID:       "item-1",
			Name:     "Laptop",
			Quantity: 1,
			Status:   models.RequestStatusPending,
		}},
	}))
	require.NoError(t, err)

	var request map[string]any
	require.NoError(t, json.Unmarshal(requestPayload, &request))
	assert.Equal(t, "acct-1", request["accountId"])
	items, ok := request["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "Laptop", items[0].(map[string]any)["name"])
	assert.NotContains(t, string(requestPayload), "AccountID")
}
