package service

import (
	"errors"

	"staffdesk/api/internal/repository"
)

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrAccountNotFound) ||
		errors.Is(err, repository.ErrTokenNotFound) ||
		errors.Is(err, repository.ErrEmployeeNotFound) ||
		errors.Is(err, repository.ErrDepartmentNotFound) ||
		errors.Is(err, repository.ErrWorkflowNotFound) ||
		errors.Is(err, repository.ErrRequestNotFound)
}
