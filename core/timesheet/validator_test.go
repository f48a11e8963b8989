package timesheet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEntry() Entry {
	return Entry{
		Date:              "2024-01-05",
		ProjectName:       "Alpha",
		ActivityType:      "BRNET",
		ActivityPerformed: "Code review",
		JobType:           "Planned",
		HoursSpent:        "4",
	}
}

func requireValidationError(t *testing.T, err error) *ValidationError {
	t.Helper()
	require.Error(t, err)
	ve, ok := err.(*ValidationError)
	require.True(t, ok, "expected *ValidationError, got %T", err)
	return ve
}

func TestValidateAcceptsValidBatch(t *testing.T) {
	v := NewValidator()
	second := validEntry()
	second.JobType = "Unplanned"
	second.HoursSpent = "24"

	assert.NoError(t, v.Validate([]Entry{validEntry(), second}))
}

func TestValidateEmptyBatch(t *testing.T) {
	v := NewValidator()

	for _, entries := range [][]Entry{nil, {}} {
		ve := requireValidationError(t, v.Validate(entries))
		assert.Equal(t, CodeEmptyBatch, ve.Code)
		assert.Len(t, ve.Issues, 1)
	}
}

func TestValidateMissingFields(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name  string
		clear func(e *Entry)
		field string
	}{
		{"date", func(e *Entry) { e.Date = "" }, "date"},
		{"projectName", func(e *Entry) { e.ProjectName = "" }, "projectName"},
		{"activityType", func(e *Entry) { e.ActivityType = "" }, "activityType"},
		{"activityPerformed", func(e *Entry) { e.ActivityPerformed = "" }, "activityPerformed"},
		{"jobType", func(e *Entry) { e.JobType = "" }, "jobType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := validEntry()
			tt.clear(&entry)

			ve := requireValidationError(t, v.Validate([]Entry{entry}))
			assert.Equal(t, CodeMissingField, ve.Code)
			require.Len(t, ve.Issues, 1)
			assert.Equal(t, tt.field, ve.Issues[0].Field)
			assert.Equal(t, 0, ve.Issues[0].Index)
		})
	}
}

func TestValidateHours(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		hours NumericString
		ok    bool
	}{
		{"4", true},
		{"0.5", true},
		{"7.5", true},
		{"7.25", false},
		{"24", true},
		{" 8 ", true},
		{"0", false},
		{"-1", false},
		{"24.5", false},
		{"abc", false},
		{"", false},
		{"NaN", false},
		{"Inf", false},
		{"0x1p2", false},
		{"0x8", false},
		{"1_0", false},
		{"4e0", true},
		{".5", true},
		{"+8.0", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.hours), func(t *testing.T) {
			entry := validEntry()
			entry.HoursSpent = tt.hours

			err := v.Validate([]Entry{entry})
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			ve := requireValidationError(t, err)
			assert.Equal(t, CodeInvalidHours, ve.Code)
		})
	}
}

func TestValidateInvalidFields(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name   string
		modify func(e *Entry)
	}{
		{"long project name", func(e *Entry) { e.ProjectName = strings.Repeat("p", 101) }},
		{"long activity", func(e *Entry) { e.ActivityPerformed = strings.Repeat("a", 501) }},
		{"unknown job type", func(e *Entry) { e.JobType = "Sometimes" }},
		{"bad date", func(e *Entry) { e.Date = "05/01/2024" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := validEntry()
			tt.modify(&entry)

			ve := requireValidationError(t, v.Validate([]Entry{entry}))
			assert.Equal(t, CodeInvalidField, ve.Code)
		})
	}
}

func TestValidateBoundaryLengths(t *testing.T) {
	v := NewValidator()
	entry := validEntry()
	entry.ProjectName = strings.Repeat("p", 100)
	entry.ActivityPerformed = strings.Repeat("a", 500)

	assert.NoError(t, v.Validate([]Entry{entry}))
}

func TestValidateReportsEveryIssueInOrder(t *testing.T) {
	v := NewValidator()

	first := validEntry()
	first.ProjectName = ""
	first.HoursSpent = "-1"
	second := validEntry()
	third := validEntry()
	third.Date = ""

	ve := requireValidationError(t, v.Validate([]Entry{first, second, third}))
	require.Len(t, ve.Issues, 3)

	assert.Equal(t, Issue{Index: 0, Field: "projectName", Code: CodeMissingField, Message: ve.Issues[0].Message}, ve.Issues[0])
	assert.Equal(t, 0, ve.Issues[1].Index)
	assert.Equal(t, "hoursSpent", ve.Issues[1].Field)
	assert.Equal(t, CodeInvalidHours, ve.Issues[1].Code)
	assert.Equal(t, 2, ve.Issues[2].Index)
	assert.Equal(t, "date", ve.Issues[2].Field)

	assert.Equal(t, CodeMissingField, ve.Code)
	assert.True(t, ve.HasCode(CodeInvalidHours))
	assert.Contains(t, ve.Error(), "entry 3")
}

func TestValidateIssueIndexIsZeroBased(t *testing.T) {
	v := NewValidator()
	entries := []Entry{validEntry(), validEntry()}
	entries[1].HoursSpent = "30"

	ve := requireValidationError(t, v.Validate(entries))
	assert.Equal(t, 1, ve.Issues[0].Index)
}
