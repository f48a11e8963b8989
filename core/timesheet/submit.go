package timesheet

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"
	"itsheet.com/itsheet/core"
	"itsheet.com/itsheet/model"
)

// Notifier receives operational messages, e.g. a Slack channel.
type Notifier interface {
	Info(message string) error
	Error(message string) error
}

type SubmitRequest struct {
	Username string  `json:"username"`
	Team     string  `json:"team"`
	Entries  []Entry `json:"entries"`
}

// Service persists timesheet batches. A batch is stored completely or
// not at all.
type Service struct {
	dm        *core.DatabaseManager
	validator *Validator
	notifier  Notifier
}

// NewService creates the submission service. notifier may be nil.
func NewService(dm *core.DatabaseManager, validator *Validator, notifier Notifier) *Service {
	if validator == nil {
		validator = NewValidator()
	}
	return &Service{dm: dm, validator: validator, notifier: notifier}
}

// Submit validates the whole batch and inserts one row per entry inside a
// single transaction. It returns the number of rows saved.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (int, error) {
	if strings.TrimSpace(req.Username) == "" {
		return 0, ErrUnauthenticated
	}
	if strings.TrimSpace(req.Team) == "" {
		return 0, &ValidationError{
			Code: CodeMissingField,
			Issues: []Issue{{
				Index:   -1,
				Field:   "team",
				Code:    CodeMissingField,
				Message: "Missing required field 'team'",
			}},
		}
	}
	if err := s.validator.Validate(req.Entries); err != nil {
		return 0, err
	}

	records := make([]model.Timesheet, 0, len(req.Entries))
	for i, entry := range req.Entries {
		record, err := entry.ToRecord(req.Username, req.Team)
		if err != nil {
			return 0, fmt.Errorf("entry %d: %w", i+1, err)
		}
		records = append(records, record)
	}

	err := s.dm.Transaction(ctx, func(tx *gorm.DB) error {
		for i := range records {
			if err := tx.Create(&records[i]).Error; err != nil {
				return fmt.Errorf("insert entry %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		s.notify(true, fmt.Sprintf("Timesheet submission for %s (%s) rolled back: %v", req.Username, req.Team, err))
		return 0, &PersistenceError{Err: err}
	}

	s.notify(false, fmt.Sprintf("%s (%s) submitted %d timesheet entries", req.Username, req.Team, len(records)))
	return len(records), nil
}

func (s *Service) notify(isError bool, message string) {
	if s.notifier == nil {
		return
	}
	var err error
	if isError {
		err = s.notifier.Error(message)
	} else {
		err = s.notifier.Info(message)
	}
	if err != nil {
		log.Printf("[WARN] notification failed: %v\n", err)
	}
}
