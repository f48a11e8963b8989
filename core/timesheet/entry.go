package timesheet

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"itsheet.com/itsheet/model"
)

const (
	DateLayout = "2006-01-02" // yyyy-MM-dd
	MaxHours   = 24.0
	HourStep   = 0.5
)

// NumericString holds the raw text of a number. It unmarshals from either
// a JSON string ("4.5") or a JSON number (4.5). Any other JSON value keeps
// its literal text so validation reports it as invalid hours.
type NumericString string

func (n *NumericString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = NumericString(s)
		return nil
	}

	*n = NumericString(strings.TrimSpace(string(b)))
	return nil
}

// Entry is one row of a timesheet batch as produced by the editor. Values
// stay raw strings until the batch is validated.
type Entry struct {
	Date              string        `json:"date" yaml:"date" validate:"required,isodate"`
	ProjectName       string        `json:"projectName" yaml:"projectName" validate:"required,max=100"`
	ActivityType      string        `json:"activityType" yaml:"activityType" validate:"required,max=50"`
	ActivityPerformed string        `json:"activityPerformed" yaml:"activityPerformed" validate:"required,max=500"`
	JobType           string        `json:"jobType" yaml:"jobType" validate:"required,oneof=Planned Unplanned"`
	HoursSpent        NumericString `json:"hoursSpent" yaml:"hoursSpent" validate:"hours"`
}

// IsZero reports whether every field is empty.
func (e Entry) IsZero() bool {
	return e == Entry{}
}

func (e Entry) Hours() (float64, error) {
	return ParseHours(string(e.HoursSpent))
}

func (e Entry) ParsedDate() (time.Time, error) {
	return ParseDate(e.Date)
}

// ToRecord converts a validated entry into the persisted row.
func (e Entry) ToRecord(username, team string) (model.Timesheet, error) {
	date, err := e.ParsedDate()
	if err != nil {
		return model.Timesheet{}, err
	}
	hours, err := e.Hours()
	if err != nil {
		return model.Timesheet{}, err
	}
	return model.Timesheet{
		Username:          username,
		Team:              team,
		Date:              date,
		ProjectName:       e.ProjectName,
		ActivityType:      e.ActivityType,
		ActivityPerformed: e.ActivityPerformed,
		JobType:           e.JobType,
		HoursSpent:        hours,
	}, nil
}

// decimal with optional exponent; no hex floats, underscores or Inf
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseHours accepts multiples of 0.5 in (0, 24].
func ParseHours(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("hours value is empty")
	}
	if !decimalPattern.MatchString(s) {
		return 0, fmt.Errorf("hours value %q is not a number", s)
	}
	h, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(h) {
		return 0, fmt.Errorf("hours value %q is not a number", s)
	}
	if h <= 0 || h > MaxHours {
		return 0, fmt.Errorf("hours value %v must be greater than 0 and at most %v", h, MaxHours)
	}
	if math.Mod(h, HourStep) != 0 {
		return 0, fmt.Errorf("hours value %v must be a multiple of %v", h, HourStep)
	}
	return h, nil
}

// ParseDate accepts yyyy-MM-dd, or an RFC3339 timestamp whose calendar
// date is kept. The result is midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
