package service

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

const (
	CodeValidation     = "VALIDATION"
	CodeScoreMismatch  = "SCORE_MISMATCH"
	CodeForbidden      = "FORBIDDEN"
	CodeNotFound       = "NOT_FOUND"
	CodeNotAssigned    = "NOT_ASSIGNED"
	CodeDeadlinePassed = "DEADLINE_PASSED"
	CodeLocked         = "LOCKED"
	CodeNotSubmitted   = "NOT_SUBMITTED"
	CodeAlreadyGraded  = "ALREADY_GRADED"
	CodeInternal       = "INTERNAL"
)

// Error is what the engine returns for every expected failure.
type Error struct {
	Code    string
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

// StatusCode lets the HTTP helpers map the error without importing this package.
func (e *Error) StatusCode() int { return e.Status }

// ErrorCode is the machine-readable code sent next to the message.
func (e *Error) ErrorCode() string { return e.Code }

func newErr(code string, status int, format string, args ...any) *Error {
	return &Error{Code: code, Status: status, Message: fmt.Sprintf(format, args...)}
}

func validationErr(format string, args ...any) *Error {
	return newErr(CodeValidation, fiber.StatusBadRequest, format, args...)
}

func notFoundErr(format string, args ...any) *Error {
	return newErr(CodeNotFound, fiber.StatusNotFound, format, args...)
}

func forbiddenErr(format string, args ...any) *Error {
	return newErr(CodeForbidden, fiber.StatusForbidden, format, args...)
}

// rejectErr is a 400 carrying a specific code (conflicts and state violations).
func rejectErr(code, format string, args ...any) *Error {
	return newErr(code, fiber.StatusBadRequest, format, args...)
}

func denyErr(code, format string, args ...any) *Error {
	return newErr(code, fiber.StatusForbidden, format, args...)
}

func internalErr(err error) *Error {
	return newErr(CodeInternal, fiber.StatusInternalServerError, "%v", err)
}

// IsCode reports whether err is an engine error carrying code.
func IsCode(err error, code string) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == code
}

// wrap keeps engine errors intact and turns anything else into INTERNAL.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return internalErr(err)
}
