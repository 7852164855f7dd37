package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"staffdesk/api/internal/config"
	"staffdesk/api/internal/ids"
	"staffdesk/api/internal/models"
	"staffdesk/api/internal/notify"
	"staffdesk/api/internal/security"
)

var (
	ErrEmailNotFound     = errors.New("email does not exist")
	ErrPasswordIncorrect = errors.New("password is incorrect")
	ErrEmailNotVerified  = errors.New("email not verified")
	ErrAccountInactive   = errors.New("account is inactive")
	ErrInvalidToken      = errors.New("invalid token")
	ErrVerificationFail  = errors.New("verification failed")
	ErrEmailTaken        = errors.New("email is already registered")
)

const registrationPendingMessage = "Registration successful, please check your email for verification instructions"
const registrationCompleteMessage = "Registration successful, you can now login"

type AccountService struct {
	accounts  AccountStore
	tokens    TokenStore
	employees EmployeeStore
	audit     WorkflowStore
	sync      *EmployeeSync
	notifier  notify.Dispatcher
	cfg       *config.AppConfig
	log       zerolog.Logger
}

func NewAccountService(
	accounts AccountStore,
	tokens TokenStore,
	employees EmployeeStore,
	audit WorkflowStore,
	sync *EmployeeSync,
	notifier notify.Dispatcher,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *AccountService {
	return &AccountService{
		accounts:  accounts,
		tokens:    tokens,
		employees: employees,
		audit:     audit,
		sync:      sync,
		notifier:  notifier,
		cfg:       cfg,
		log:       log,
	}
}

type AuthResult struct {
	Account      models.Account
	SessionToken string
	RefreshToken string
}

type RegisterInput struct {
	Title     string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type RegisterResult struct {
	Message string
}

// Register creates a self-service account. An already-registered email is
// answered with the same shape as a fresh registration; the owner gets an
// "already registered" mail instead, so callers cannot probe for accounts.
// The very first account becomes a verified Admin and skips the
// verification mail.
func (s *AccountService) Register(ctx context.Context, input RegisterInput, origin string) (RegisterResult, error) {
	if existing, err := s.accounts.FindByEmail(ctx, input.Email); err == nil {
		subject, html := notify.AlreadyRegisteredEmail(origin, existing.Email)
		s.dispatch(ctx, existing.Email, subject, html)
		return RegisterResult{Message: registrationPendingMessage}, nil
	} else if !isNotFound(err) {
		return RegisterResult{}, err
	}

	count, err := s.accounts.Count(ctx)
	if err != nil {
		return RegisterResult{}, err
	}
	isFirstAccount := count == 0

	passwordHash, err := security.HashPassword(input.Password, s.cfg.Security.BcryptCost)
	if err != nil {
		return RegisterResult{}, err
	}

	account := models.Account{
		ID:           ids.New(),
		Title:        input.Title,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
		Status:       models.AccountStatusActive,
	}

	if isFirstAccount {
		account.Role = models.RoleAdmin
		now := time.Now()
		account.VerifiedAt = &now
	} else {
		token, err := security.NewOpaqueToken()
		if err != nil {
			return RegisterResult{}, err
		}
		account.VerificationToken = &token
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return RegisterResult{}, err
	}

	if isFirstAccount {
		return RegisterResult{Message: registrationCompleteMessage}, nil
	}

	subject, html := notify.VerificationEmail(s.cfg.Mail.BackendURL, origin, *account.VerificationToken)
	s.dispatch(ctx, account.Email, subject, html)

	return RegisterResult{Message: registrationPendingMessage}, nil
}

func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	account, err := s.accounts.FindByVerificationToken(ctx, token)
	if err != nil {
		if isNotFound(err) {
			return ErrVerificationFail
		}
		return err
	}

	now := time.Now()
	account.VerifiedAt = &now
	account.VerificationToken = nil
	return s.accounts.Update(ctx, account)
}

// Authenticate runs its checks in a fixed business-rule order: existence,
// password, verification, status. The first failing check decides the
// reason the caller sees.
func (s *AccountService) Authenticate(ctx context.Context, email, password, originIP string) (AuthResult, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return AuthResult{}, ErrEmailNotFound
		}
		return AuthResult{}, err
	}

	ok, err := security.VerifyPassword(password, account.PasswordHash)
	if err != nil {
		return AuthResult{}, err
	}
	if !ok {
		return AuthResult{}, ErrPasswordIncorrect
	}

	if !account.IsVerified() {
		return AuthResult{}, ErrEmailNotVerified
	}

	if account.Status != models.AccountStatusActive {
		return AuthResult{}, ErrAccountInactive
	}

	sessionToken, err := s.issueSessionToken(account)
	if err != nil {
		return AuthResult{}, err
	}

	refreshToken, err := s.newRefreshToken(account.ID, originIP)
	if err != nil {
		return AuthResult{}, err
	}
	if err := s.tokens.Create(ctx, refreshToken); err != nil {
		return AuthResult{}, err
	}

	return AuthResult{
		Account:      account,
		SessionToken: sessionToken,
		RefreshToken: refreshToken.Token,
	}, nil
}

// RefreshToken rotates the presented token: the old one is revoked with a
// pointer to its replacement and the replacement is persisted, atomically.
func (s *AccountService) RefreshToken(ctx context.Context, tokenValue, originIP string) (AuthResult, error) {
	current, err := s.activeToken(ctx, tokenValue)
	if err != nil {
		return AuthResult{}, err
	}

	account, err := s.accounts.GetByID(ctx, current.AccountID)
	if err != nil {
		return AuthResult{}, err
	}

	replacement, err := s.newRefreshToken(account.ID, originIP)
	if err != nil {
		return AuthResult{}, err
	}

	now := time.Now()
	current.RevokedAt = &now
	current.RevokedByIP = &originIP
	current.ReplacedByToken = &replacement.Token

	if err := s.tokens.Rotate(ctx, current, replacement); err != nil {
		return AuthResult{}, err
	}

	sessionToken, err := s.issueSessionToken(account)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{
		Account:      account,
		SessionToken: sessionToken,
		RefreshToken: replacement.Token,
	}, nil
}

// RevokeToken kills a session without replacement. Revocation is one-way;
// an already-revoked or expired token is rejected the same as an unknown
// one.
func (s *AccountService) RevokeToken(ctx context.Context, tokenValue, originIP string) error {
	current, err := s.activeToken(ctx, tokenValue)
	if err != nil {
		return err
	}

	now := time.Now()
	current.RevokedAt = &now
	current.RevokedByIP = &originIP
	return s.tokens.Update(ctx, current)
}

// GetRefreshToken resolves an active token to its owning account id, for
// the authorization gate on revocation.
func (s *AccountService) GetRefreshToken(ctx context.Context, tokenValue string) (models.RefreshToken, error) {
	return s.activeToken(ctx, tokenValue)
}

// ForgotPassword answers identically whether or not the email exists.
func (s *AccountService) ForgotPassword(ctx context.Context, email, origin string) error {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}

	token, err := security.NewOpaqueToken()
	if err != nil {
		return err
	}
	expires := time.Now().Add(s.cfg.Security.ResetTokenTTL)
	account.ResetToken = &token
	account.ResetTokenExpires = &expires

	if err := s.accounts.Update(ctx, account); err != nil {
		return err
	}

	subject, html := notify.PasswordResetEmail(origin, token)
	s.dispatch(ctx, account.Email, subject, html)
	return nil
}

func (s *AccountService) ValidateResetToken(ctx context.Context, token string) (models.Account, error) {
	account, err := s.accounts.FindByValidResetToken(ctx, token)
	if err != nil {
		if isNotFound(err) {
			return models.Account{}, ErrInvalidToken
		}
		return models.Account{}, err
	}
	return account, nil
}

// ResetPassword re-validates the token at point of use; expiry is checked
// again here, not just at issuance.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	account, err := s.ValidateResetToken(ctx, token)
	if err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(newPassword, s.cfg.Security.BcryptCost)
	if err != nil {
		return err
	}

	now := time.Now()
	account.PasswordHash = passwordHash
	account.PasswordResetAt = &now
	account.ResetToken = nil
	account.ResetTokenExpires = nil
	return s.accounts.Update(ctx, account)
}

func (s *AccountService) GetAll(ctx context.Context) ([]models.Account, error) {
	return s.accounts.ListAll(ctx)
}

func (s *AccountService) GetByID(ctx context.Context, id string) (models.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

type CreateInput struct {
	Title     string
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      models.Role
	Position  string
}

// Create is the administrative path: account plus linked employee record in
// one transaction, verification mail dispatched only after the commit.
func (s *AccountService) Create(ctx context.Context, input CreateInput, origin string) (models.Account, error) {
	if _, err := s.accounts.FindByEmail(ctx, input.Email); err == nil {
		return models.Account{}, fmt.Errorf("%w: %s", ErrEmailTaken, input.Email)
	} else if !isNotFound(err) {
		return models.Account{}, err
	}

	passwordHash, err := security.HashPassword(input.Password, s.cfg.Security.BcryptCost)
	if err != nil {
		return models.Account{}, err
	}

	token, err := security.NewOpaqueToken()
	if err != nil {
		return models.Account{}, err
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	position := input.Position
	if position == "" {
		position = "Employee"
	}

	account := models.Account{
		ID:                ids.New(),
		Title:             input.Title,
		FirstName:         input.FirstName,
		LastName:          input.LastName,
		Email:             input.Email,
		PasswordHash:      passwordHash,
		Role:              role,
		Status:            models.AccountStatusActive,
		VerificationToken: &token,
	}

	number, err := s.nextEmployeeNumber(ctx)
	if err != nil {
		return models.Account{}, err
	}
	employee := models.Employee{
		ID:             ids.New(),
		EmployeeNumber: number,
		AccountID:      &account.ID,
		Position:       position,
		HireDate:       time.Now(),
		Status:         models.EmployeeStatusActive,
	}

	if err := s.accounts.CreateWithEmployee(ctx, account, employee); err != nil {
		return models.Account{}, err
	}

	subject, html := notify.VerificationEmail(s.cfg.Mail.BackendURL, origin, token)
	s.dispatch(ctx, account.Email, subject, html)

	return account, nil
}

type UpdateInput struct {
	Title     *string
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	Status    *string
	ActorID   string
}

// Update applies a profile edit, appending one audit row per changed field.
// Audit failures are logged and swallowed; the update itself stands.
func (s *AccountService) Update(ctx context.Context, id string, input UpdateInput) (models.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return models.Account{}, err
	}
	old := account

	if input.Email != nil && *input.Email != account.Email {
		if _, err := s.accounts.FindByEmail(ctx, *input.Email); err == nil {
			return models.Account{}, fmt.Errorf("%w: %s", ErrEmailTaken, *input.Email)
		} else if !isNotFound(err) {
			return models.Account{}, err
		}
		account.Email = *input.Email
	}

	if input.Title != nil {
		account.Title = *input.Title
	}
	if input.FirstName != nil {
		account.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		account.LastName = *input.LastName
	}
	if input.Password != nil && *input.Password != "" {
		passwordHash, err := security.HashPassword(*input.Password, s.cfg.Security.BcryptCost)
		if err != nil {
			return models.Account{}, err
		}
		account.PasswordHash = passwordHash
	}
	if input.Status != nil {
		account.Status = NormalizeStatus(*input.Status)
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		return models.Account{}, err
	}

	if old.Status != account.Status {
		s.sync.SyncStatus(ctx, account.ID, account.Status)
	}

	actor := input.ActorID
	if actor == "" {
		actor = account.ID
	}
	for _, change := range diffProfile(old, account) {
		s.appendAudit(ctx, models.Workflow{
			ID:            ids.New(),
			EmployeeID:    account.ID,
			Type:          models.WorkflowProfileUpdate,
			Description:   "Updated " + change.field,
			Status:        models.WorkflowStatusCompleted,
			PreviousValue: &change.oldValue,
			NewValue:      &change.newValue,
			CreatedBy:     actor,
			UpdatedBy:     &actor,
		})
	}

	return account, nil
}

// UpdateStatus is idempotent: a no-op change writes nothing and still
// returns current details.
func (s *AccountService) UpdateStatus(ctx context.Context, id string, status string) (models.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return models.Account{}, err
	}

	oldStatus := account.Status
	normalized := NormalizeStatus(status)
	if oldStatus == normalized {
		return account, nil
	}

	account.Status = normalized
	if err := s.accounts.Update(ctx, account); err != nil {
		return models.Account{}, err
	}

	prev, next := string(oldStatus), string(normalized)
	s.appendAudit(ctx, models.Workflow{
		ID:            ids.New(),
		EmployeeID:    account.ID,
		Type:          models.WorkflowStatusUpdate,
		Description:   fmt.Sprintf("Updated account status from %s to %s", prev, next),
		Status:        models.WorkflowStatusCompleted,
		PreviousValue: &prev,
		NewValue:      &next,
		CreatedBy:     account.ID,
		UpdatedBy:     &account.ID,
	})

	s.sync.SyncStatus(ctx, account.ID, normalized)

	return account, nil
}

func (s *AccountService) Delete(ctx context.Context, id string) error {
	if _, err := s.accounts.GetByID(ctx, id); err != nil {
		return err
	}
	return s.accounts.Delete(ctx, id)
}

// DeleteAllNonAdmin purges every non-Admin account, dependents first, each
// account in its own transaction. There is no batch-level transaction: a
// failure partway through fails the call but accounts already purged stay
// deleted.
func (s *AccountService) DeleteAllNonAdmin(ctx context.Context) (int, error) {
	accounts, err := s.accounts.ListNonAdmin(ctx)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, account := range accounts {
		if err := s.accounts.PurgeWithDependents(ctx, account.ID); err != nil {
			s.log.Error().Err(err).Str("account_id", account.ID).Msg("purge account failed")
			return deleted, fmt.Errorf("failed to delete non-admin users: %w", err)
		}
		deleted++
	}
	return deleted, nil
}

// NormalizeStatus folds any value that is not literally "inactive"
// (case-insensitively) to Active.
func NormalizeStatus(status string) models.AccountStatus {
	if strings.EqualFold(status, string(models.AccountStatusInactive)) {
		return models.AccountStatusInactive
	}
	return models.AccountStatusActive
}

func (s *AccountService) issueSessionToken(account models.Account) (string, error) {
	return security.GenerateSessionToken(
		s.cfg.Security.JWTSecret,
		account.ID,
		string(account.Role),
		s.cfg.Security.JWTAccessTTL,
	)
}

func (s *AccountService) newRefreshToken(accountID, originIP string) (models.RefreshToken, error) {
	token, err := security.NewOpaqueToken()
	if err != nil {
		return models.RefreshToken{}, err
	}
	return models.RefreshToken{
		Token:       token,
		AccountID:   accountID,
		ExpiresAt:   time.Now().Add(s.cfg.Security.RefreshTTL),
		CreatedByIP: originIP,
	}, nil
}

func (s *AccountService) activeToken(ctx context.Context, tokenValue string) (models.RefreshToken, error) {
	token, err := s.tokens.FindByToken(ctx, tokenValue)
	if err != nil {
		if isNotFound(err) {
			return models.RefreshToken{}, ErrInvalidToken
		}
		return models.RefreshToken{}, err
	}
	if !token.IsActive() {
		return models.RefreshToken{}, ErrInvalidToken
	}
	return token, nil
}

func (s *AccountService) nextEmployeeNumber(ctx context.Context) (string, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	count, err := s.employees.CountCreatedSince(ctx, monthStart)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d", now.Format("06-01"), count+1), nil
}

func (s *AccountService) appendAudit(ctx context.Context, workflow models.Workflow) {
	if err := s.audit.Create(ctx, workflow); err != nil {
		s.log.Error().Err(err).
			Str("type", string(workflow.Type)).
			Str("employee_id", workflow.EmployeeID).
			Msg("audit write failed")
	}
}

func (s *AccountService) dispatch(ctx context.Context, to, subject, html string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Send(ctx, to, subject, html); err != nil {
		s.log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("mail dispatch failed")
	}
}

type fieldChange struct {
	field    string
	oldValue string
	newValue string
}

func diffProfile(old, updated models.Account) []fieldChange {
	var changes []fieldChange
	add := func(field, oldValue, newValue string) {
		if oldValue != newValue {
			changes = append(changes, fieldChange{field, oldValue, newValue})
		}
	}
	add("title", old.Title, updated.Title)
	add("firstName", old.FirstName, updated.FirstName)
	add("lastName", old.LastName, updated.LastName)
	add("email", old.Email, updated.Email)
	add("status", string(old.Status), string(updated.Status))
	return changes
}
