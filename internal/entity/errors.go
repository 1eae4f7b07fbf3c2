package entity

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrProjectNotFound     = errors.New("project not found")
	ErrContributorNotFound = errors.New("contributor not found")
	ErrIssueNotFound       = errors.New("issue not found")
	ErrCommentNotFound     = errors.New("comment not found")

	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrAlreadyContributor = errors.New("this user has already been added")
	ErrAuthorNotRemovable = errors.New("project author cannot be removed")
	ErrUsernameTaken      = errors.New("username already taken")
)

// ValidationError carries the offending field so handlers can return
// field-level messages.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
