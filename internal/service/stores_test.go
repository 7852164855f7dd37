package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"staffdesk/api/internal/models"
	"staffdesk/api/internal/repository"
)

var errAssert = errors.New("storage failure")

// In-memory store fakes backing the service tests. They keep insertion
// order so list assertions stay deterministic.

type fakeAccountStore struct {
	mu       sync.Mutex
	accounts map[string]models.Account
	order    []string
	purged   []string
	// purge calls fail once this account comes up, leaving earlier
	// deletions in place.
	failPurgeID string
	// employeeSink receives the employee half of CreateWithEmployee.
	employeeSink *fakeEmployeeStore
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{accounts: make(map[string]models.Account)}
}

func (s *fakeAccountStore) Create(_ context.Context, account models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	s.accounts[account.ID] = account
	s.order = append(s.order, account.ID)
	return nil
}

func (s *fakeAccountStore) CreateWithEmployee(ctx context.Context, account models.Account, employee models.Employee) error {
	if err := s.Create(ctx, account); err != nil {
		return err
	}
	if s.employeeSink != nil {
		return s.employeeSink.Create(ctx, employee)
	}
	return nil
}

func (s *fakeAccountStore) GetByID(_ context.Context, id string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[id]
	if !ok {
		return models.Account{}, repository.ErrAccountNotFound
	}
	return account, nil
}

func (s *fakeAccountStore) FindByEmail(_ context.Context, email string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		if account, ok := s.accounts[id]; ok && account.Email == email {
			return account, nil
		}
	}
	return models.Account{}, repository.ErrAccountNotFound
}

func (s *fakeAccountStore) FindByVerificationToken(_ context.Context, token string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.VerificationToken != nil && *account.VerificationToken == token {
			return account, nil
		}
	}
	return models.Account{}, repository.ErrAccountNotFound
}

func (s *fakeAccountStore) FindByValidResetToken(_ context.Context, token string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.ResetToken != nil && *account.ResetToken == token &&
			account.ResetTokenExpires != nil && account.ResetTokenExpires.After(time.Now()) {
			return account, nil
		}
	}
	return models.Account{}, repository.ErrAccountNotFound
}

func (s *fakeAccountStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.accounts), nil
}

func (s *fakeAccountStore) ListAll(_ context.Context) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Account, 0, len(s.order))
	for _, id := range s.order {
		if account, ok := s.accounts[id]; ok {
			out = append(out, account)
		}
	}
	return out, nil
}

func (s *fakeAccountStore) ListNonAdmin(ctx context.Context) ([]models.Account, error) {
	all, _ := s.ListAll(ctx)
	out := make([]models.Account, 0, len(all))
	for _, account := range all {
		if account.Role != models.RoleAdmin {
			out = append(out, account)
		}
	}
	return out, nil
}

func (s *fakeAccountStore) Update(_ context.Context, account models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.ID]; !ok {
		return repository.ErrAccountNotFound
	}
	account.UpdatedAt = time.Now()
	s.accounts[account.ID] = account
	return nil
}

func (s *fakeAccountStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return repository.ErrAccountNotFound
	}
	delete(s.accounts, id)
	return nil
}

func (s *fakeAccountStore) PurgeWithDependents(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == s.failPurgeID {
		return errAssert
	}
	if _, ok := s.accounts[id]; !ok {
		return repository.ErrAccountNotFound
	}
	delete(s.accounts, id)
	s.purged = append(s.purged, id)
	return nil
}

type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]models.RefreshToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]models.RefreshToken)}
}

func (s *fakeTokenStore) Create(_ context.Context, token models.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	token.CreatedAt = time.Now()
	s.tokens[token.Token] = token
	return nil
}

func (s *fakeTokenStore) FindByToken(_ context.Context, token string) (models.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	if !ok {
		return models.RefreshToken{}, repository.ErrTokenNotFound
	}
	return t, nil
}

func (s *fakeTokenStore) Update(_ context.Context, token models.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[token.Token]; !ok {
		return repository.ErrTokenNotFound
	}
	s.tokens[token.Token] = token
	return nil
}

func (s *fakeTokenStore) Rotate(_ context.Context, revoked models.RefreshToken, replacement models.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[revoked.Token]; !ok {
		return repository.ErrTokenNotFound
	}
	s.tokens[revoked.Token] = revoked
	replacement.CreatedAt = time.Now()
	s.tokens[replacement.Token] = replacement
	return nil
}

type fakeEmployeeStore struct {
	mu        sync.Mutex
	employees map[string]models.Employee
	order     []string
}

func newFakeEmployeeStore() *fakeEmployeeStore {
	return &fakeEmployeeStore{employees: make(map[string]models.Employee)}
}

func (s *fakeEmployeeStore) Create(_ context.Context, employee models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	employee.CreatedAt = time.Now()
	employee.UpdatedAt = employee.CreatedAt
	s.employees[employee.ID] = employee
	s.order = append(s.order, employee.ID)
	return nil
}

func (s *fakeEmployeeStore) GetByID(_ context.Context, id string) (models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	employee, ok := s.employees[id]
	if !ok {
		return models.Employee{}, repository.ErrEmployeeNotFound
	}
	return employee, nil
}

func (s *fakeEmployeeStore) FindByAccountID(_ context.Context, accountID string) (models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		employee, ok := s.employees[id]
		if ok && employee.AccountID != nil && *employee.AccountID == accountID {
			return employee, nil
		}
	}
	return models.Employee{}, repository.ErrEmployeeNotFound
}

func (s *fakeEmployeeStore) ListAll(_ context.Context) ([]models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Employee, 0, len(s.order))
	for _, id := range s.order {
		if employee, ok := s.employees[id]; ok {
			out = append(out, employee)
		}
	}
	return out, nil
}

func (s *fakeEmployeeStore) Update(_ context.Context, employee models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[employee.ID]; !ok {
		return repository.ErrEmployeeNotFound
	}
	employee.UpdatedAt = time.Now()
	s.employees[employee.ID] = employee
	return nil
}

func (s *fakeEmployeeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[id]; !ok {
		return repository.ErrEmployeeNotFound
	}
	delete(s.employees, id)
	return nil
}

func (s *fakeEmployeeStore) CountCreatedSince(_ context.Context, since time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, employee := range s.employees {
		if !employee.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *fakeEmployeeStore) CountByDepartment(_ context.Context, departmentID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, employee := range s.employees {
		if employee.DepartmentID != nil && *employee.DepartmentID == departmentID {
			count++
		}
	}
	return count, nil
}

type fakeWorkflowStore struct {
	mu        sync.Mutex
	workflows []models.Workflow
}

func newFakeWorkflowStore() *fakeWorkflowStore {
	return &fakeWorkflowStore{}
}

func (s *fakeWorkflowStore) Create(_ context.Context, workflow models.Workflow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	workflow.CreatedAt = time.Now()
	s.workflows = append(s.workflows, workflow)
	return nil
}

func (s *fakeWorkflowStore) GetByID(_ context.Context, id string) (models.Workflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, workflow := range s.workflows {
		if workflow.ID == id {
			return workflow, nil
		}
	}
	return models.Workflow{}, repository.ErrWorkflowNotFound
}

func (s *fakeWorkflowStore) ListAll(_ context.Context) ([]models.Workflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Workflow(nil), s.workflows...), nil
}

func (s *fakeWorkflowStore) ListByEmployee(_ context.Context, employeeID string) ([]models.Workflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Workflow
	for _, workflow := range s.workflows {
		if workflow.EmployeeID == employeeID {
			out = append(out, workflow)
		}
	}
	return out, nil
}

func (s *fakeWorkflowStore) Update(_ context.Context, workflow models.Workflow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.workflows {
		if s.workflows[i].ID == workflow.ID {
			s.workflows[i] = workflow
			return nil
		}
	}
	return repository.ErrWorkflowNotFound
}

func (s *fakeWorkflowStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.workflows {
		if s.workflows[i].ID == id {
			s.workflows = append(s.workflows[:i], s.workflows[i+1:]...)
			return nil
		}
	}
	return repository.ErrWorkflowNotFound
}

func (s *fakeWorkflowStore) byType(workflowType models.WorkflowType) []models.Workflow {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Workflow
	for _, workflow := range s.workflows {
		if workflow.Type == workflowType {
			out = append(out, workflow)
		}
	}
	return out
}

type fakeDepartmentStore struct {
	mu          sync.Mutex
	departments map[string]models.Department
	order       []string
}

func newFakeDepartmentStore() *fakeDepartmentStore {
	return &fakeDepartmentStore{departments: make(map[string]models.Department)}
}

func (s *fakeDepartmentStore) Create(_ context.Context, department models.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	department.CreatedAt = time.Now()
	department.UpdatedAt = department.CreatedAt
	s.departments[department.ID] = department
	s.order = append(s.order, department.ID)
	return nil
}

func (s *fakeDepartmentStore) GetByID(_ context.Context, id string) (models.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	department, ok := s.departments[id]
	if !ok {
		return models.Department{}, repository.ErrDepartmentNotFound
	}
	return department, nil
}

func (s *fakeDepartmentStore) FindByName(_ context.Context, name string) (models.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, department := range s.departments {
		if department.Name == name {
			return department, nil
		}
	}
	return models.Department{}, repository.ErrDepartmentNotFound
}

func (s *fakeDepartmentStore) ListAll(_ context.Context) ([]models.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Department, 0, len(s.order))
	for _, id := range s.order {
		if department, ok := s.departments[id]; ok {
			out = append(out, department)
		}
	}
	return out, nil
}

func (s *fakeDepartmentStore) Update(_ context.Context, department models.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.departments[department.ID]; !ok {
		return repository.ErrDepartmentNotFound
	}
	department.UpdatedAt = time.Now()
	s.departments[department.ID] = department
	return nil
}

func (s *fakeDepartmentStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.departments[id]; !ok {
		return repository.ErrDepartmentNotFound
	}
	delete(s.departments, id)
	return nil
}

type fakeRequestStore struct {
	mu       sync.Mutex
	requests map[string]models.Request
	order    []string
	// audits lands the workflow rows committed alongside request writes.
	audits *fakeWorkflowStore
}

func newFakeRequestStore(audits *fakeWorkflowStore) *fakeRequestStore {
	return &fakeRequestStore{requests: make(map[string]models.Request), audits: audits}
}

func (s *fakeRequestStore) Create(ctx context.Context, request models.Request, audit *models.Workflow) error {
	s.mu.Lock()
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	s.requests[request.ID] = request
	s.order = append(s.order, request.ID)
	s.mu.Unlock()

	if audit != nil {
		return s.audits.Create(ctx, *audit)
	}
	return nil
}

func (s *fakeRequestStore) GetByID(_ context.Context, id string) (models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	request, ok := s.requests[id]
	if !ok {
		return models.Request{}, repository.ErrRequestNotFound
	}
	return request, nil
}

func (s *fakeRequestStore) ListAll(_ context.Context) ([]models.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Request, 0, len(s.order))
	for _, id := range s.order {
		if request, ok := s.requests[id]; ok {
			out = append(out, request)
		}
	}
	return out, nil
}

func (s *fakeRequestStore) ListByAccount(ctx context.Context, accountID string) ([]models.Request, error) {
	all, _ := s.ListAll(ctx)
	var out []models.Request
	for _, request := range all {
		if request.AccountID == accountID {
			out = append(out, request)
		}
	}
	return out, nil
}

func (s *fakeRequestStore) Update(ctx context.Context, request models.Request, audit *models.Workflow) error {
	s.mu.Lock()
	if _, ok := s.requests[request.ID]; !ok {
		s.mu.Unlock()
		return repository.ErrRequestNotFound
	}
	request.UpdatedAt = time.Now()
	s.requests[request.ID] = request
	s.mu.Unlock()

	if audit != nil {
		return s.audits.Create(ctx, *audit)
	}
	return nil
}

func (s *fakeRequestStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[id]; !ok {
		return repository.ErrRequestNotFound
	}
	delete(s.requests, id)
	return nil
}

type sentMail struct {
	to      string
	subject string
}

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []sentMail
}

func (d *fakeDispatcher) Send(_ context.Context, to, subject, _ string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, sentMail{to: to, subject: subject})
	return nil
}
