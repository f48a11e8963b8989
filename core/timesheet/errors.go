package timesheet

import (
	"errors"
	"strings"
)

type Code string

const (
	CodeMissingField      Code = "MissingField"
	CodeInvalidHours      Code = "InvalidHours"
	CodeInvalidField      Code = "InvalidField"
	CodeEmptyBatch        Code = "EmptyBatch"
	CodePersistenceFailed Code = "PersistenceFailed"
	CodeUnauthenticated   Code = "Unauthenticated"
)

var (
	ErrUnauthenticated = errors.New("no authenticated user")
	ErrInvalidRange    = errors.New("startDate must not be after endDate")
	ErrMissingTeam     = errors.New("team is required")
)

// Issue describes one failed check. Index is the zero-based entry
// position, or -1 for a batch-level problem.
type Issue struct {
	Index   int    `json:"index"`
	Field   string `json:"field,omitempty"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// ValidationError is returned when a batch is not eligible to submit.
// Code is the code of the first issue.
type ValidationError struct {
	Code   Code
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msgs = append(msgs, issue.Message)
	}
	return strings.Join(msgs, "; ")
}

// HasCode reports whether any issue carries code.
func (e *ValidationError) HasCode(code Code) bool {
	for _, issue := range e.Issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

// PersistenceError means the batch transaction was rolled back.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "failed to save timesheet data: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
