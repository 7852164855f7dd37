package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"staffdesk/api/internal/ids"
	"staffdesk/api/internal/models"
)

// EmployeeSync keeps a linked employee record's status in lockstep with its
// account. Everything here is best-effort: an account without an employee
// is a no-op, and any failure is logged and swallowed so the triggering
// account mutation never rolls back.
type EmployeeSync struct {
	employees EmployeeStore
	audit     WorkflowStore
	log       zerolog.Logger
}

func NewEmployeeSync(employees EmployeeStore, audit WorkflowStore, log zerolog.Logger) *EmployeeSync {
	return &EmployeeSync{
		employees: employees,
		audit:     audit,
		log:       log,
	}
}

func (s *EmployeeSync) SyncStatus(ctx context.Context, accountID string, status models.AccountStatus) {
	employee, err := s.employees.FindByAccountID(ctx, accountID)
	if err != nil {
		if !isNotFound(err) {
			s.log.Error().Err(err).Str("account_id", accountID).Msg("employee lookup failed during status sync")
		}
		return
	}

	target := models.EmployeeStatusActive
	if status == models.AccountStatusInactive {
		target = models.EmployeeStatusInactive
	}
	if employee.Status == target {
		return
	}

	prev := string(employee.Status)
	employee.Status = target
	if err := s.employees.Update(ctx, employee); err != nil {
		s.log.Error().Err(err).Str("employee_id", employee.ID).Msg("employee status sync failed")
		return
	}

	next := string(target)
	if err := s.audit.Create(ctx, models.Workflow{
		ID:            ids.New(),
		EmployeeID:    employee.ID,
		Type:          models.WorkflowStatusChange,
		Description:   fmt.Sprintf("Employee status updated to %s", target),
		Status:        models.WorkflowStatusCompleted,
		PreviousValue: &prev,
		NewValue:      &next,
		CreatedBy:     accountID,
		UpdatedBy:     &accountID,
	}); err != nil {
		s.log.Error().Err(err).Str("employee_id", employee.ID).Msg("status sync audit write failed")
	}
}
