// Package editor keeps the list of timesheet rows a user is working on
// before it is submitted as one batch.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"itsheet.com/itsheet/core/timesheet"
)

var (
	ErrRowLocked      = errors.New("row is locked, edit it first")
	ErrUnknownField   = errors.New("unknown field")
	ErrReadOnlyField  = errors.New("field is read-only")
	ErrSubmitInFlight = errors.New("a submission is already in progress")
)

type State int

const (
	Editing State = iota
	Locked
)

func (s State) String() string {
	if s == Locked {
		return "Locked"
	}
	return "Editing"
}

// Session identifies who is editing. It is handed to the editor instead of
// being read from process-wide state.
type Session struct {
	Username string `yaml:"username"`
	Team     string `yaml:"team"`
	Role     string `yaml:"role"`
	Token    string `yaml:"token"`
}

type Row struct {
	Team  string
	Entry timesheet.Entry
	State State
}

// Submitter sends a batch and returns the number of rows saved. Both the
// API client and the in-process service satisfy it.
type Submitter interface {
	Submit(ctx context.Context, req timesheet.SubmitRequest) (int, error)
}

type Editor struct {
	mu        sync.Mutex
	session   Session
	validator *timesheet.Validator
	rows      []Row
	inFlight  bool
}

// New starts an editor with a single empty row.
func New(session Session, validator *timesheet.Validator) *Editor {
	if validator == nil {
		validator = timesheet.NewValidator()
	}
	e := &Editor{session: session, validator: validator}
	e.rows = []Row{e.emptyRow()}
	return e
}

func (e *Editor) emptyRow() Row {
	return Row{Team: e.session.Team, State: Editing}
}

func (e *Editor) Session() Session {
	return e.session
}

// Add appends an empty editing row and returns its index.
func (e *Editor) Add() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inFlight {
		return 0, ErrSubmitInFlight
	}
	e.rows = append(e.rows, e.emptyRow())
	return len(e.rows) - 1, nil
}

// UpdateField writes the raw value into an editing row. Values are not
// checked until Submit. An index out of range panics.
func (e *Editor) UpdateField(i int, field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inFlight {
		return ErrSubmitInFlight
	}

	row := &e.rows[i]
	if row.State != Editing {
		return ErrRowLocked
	}

	switch field {
	case "date":
		row.Entry.Date = value
	case "projectName":
		row.Entry.ProjectName = value
	case "activityType":
		row.Entry.ActivityType = value
	case "activityPerformed":
		row.Entry.ActivityPerformed = value
	case "jobType":
		row.Entry.JobType = value
	case "hoursSpent":
		row.Entry.HoursSpent = timesheet.NumericString(value)
	case "team":
		return fmt.Errorf("%w: %s", ErrReadOnlyField, field)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// mutate runs fn under the lock unless a submission is pending; rows are
// frozen while in flight.
func (e *Editor) mutate(fn func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inFlight {
		return ErrSubmitInFlight
	}
	fn()
	return nil
}

// Save locks the row. It does not validate.
func (e *Editor) Save(i int) error {
	return e.mutate(func() { e.rows[i].State = Locked })
}

func (e *Editor) Edit(i int) error {
	return e.mutate(func() { e.rows[i].State = Editing })
}

// Clear replaces the row with an empty editing row at the same position.
func (e *Editor) Clear(i int) error {
	return e.mutate(func() { e.rows[i] = e.emptyRow() })
}

// Delete removes the row; later rows move down one index. Deleting the
// last row leaves an empty list.
func (e *Editor) Delete(i int) error {
	return e.mutate(func() { e.rows = append(e.rows[:i], e.rows[i+1:]...) })
}

// Cancel discards every row and starts over with one empty row.
func (e *Editor) Cancel() error {
	return e.mutate(e.reset)
}

// ResetAfterSubmit has the same effect as Cancel and is called once the
// server confirmed a submission.
func (e *Editor) ResetAfterSubmit() error {
	return e.Cancel()
}

func (e *Editor) reset() {
	e.rows = []Row{e.emptyRow()}
}

// Rows returns a copy of the current rows.
func (e *Editor) Rows() []Row {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Row(nil), e.rows...)
}

func (e *Editor) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.rows)
}

// Entries returns every row's entry regardless of state.
func (e *Editor) Entries() []timesheet.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.entries()
}

func (e *Editor) entries() []timesheet.Entry {
	entries := make([]timesheet.Entry, len(e.rows))
	for i, row := range e.rows {
		entries[i] = row.Entry
	}
	return entries
}

// InFlight reports whether a Submit is waiting for the server.
func (e *Editor) InFlight() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inFlight
}

// Submit validates all rows, locked or not, and sends them as one batch.
// Only one submission may be outstanding and the rows cannot be changed
// until it returns. On success the editor is reset, on failure the rows are
// left as they were.
func (e *Editor) Submit(ctx context.Context, submitter Submitter) (int, error) {
	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return 0, ErrSubmitInFlight
	}
	e.inFlight = true
	entries := e.entries()
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.inFlight = false
		e.mu.Unlock()
	}()

	if err := e.validator.Validate(entries); err != nil {
		return 0, err
	}

	saved, err := submitter.Submit(ctx, timesheet.SubmitRequest{
		Username: e.session.Username,
		Team:     e.session.Team,
		Entries:  entries,
	})
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	e.reset()
	e.mu.Unlock()
	return saved, nil
}
