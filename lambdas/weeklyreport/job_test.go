package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"itsheet.com/itsheet/core/coretest"
	"itsheet.com/itsheet/core/timesheet"
	"itsheet.com/itsheet/infrastructure/communication"
	"itsheet.com/itsheet/infrastructure/devops"
	"itsheet.com/itsheet/model"
	"itsheet.com/itsheet/utils"
)

type fakeMailer struct {
	sent *communication.EmailInfo
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, info *communication.EmailInfo) (string, error) {
	f.sent = info
	return "msg-1", f.err
}

type fakeNotifier struct {
	errors []string
}

func (f *fakeNotifier) Info(message string) error { return nil }

func (f *fakeNotifier) Error(message string) error {
	f.errors = append(f.errors, message)
	return nil
}

func TestWeeklyReportEmailsLastWeek(t *testing.T) {
	dm := coretest.NewDatabase(t)
	require.NoError(t, dm.GetDB(context.Background()).Create(&[]model.Timesheet{
		{Username: "jdoe", Team: "IT-Internal", Date: utils.MustParseDate("2024-01-05"), ProjectName: "Alpha",
			ActivityType: "BRNET", ActivityPerformed: "Code review", JobType: model.JobTypePlanned, HoursSpent: 4},
		{Username: "jdoe", Team: "IT-Internal", Date: utils.MustParseDate("2024-01-09"), ProjectName: "Beta",
			ActivityType: "GLOW", ActivityPerformed: "Deploy", JobType: model.JobTypeUnplanned, HoursSpent: 2},
	}).Error)

	mail := &fakeMailer{}
	job := NewJob(timesheet.NewReportGenerator(dm, nil), mail, devops.EmailConfig{
		From: "timesheets@example.com",
		To:   []string{"lead@example.com"},
	})
	// Wednesday; last week is 2024-01-01..2024-01-07
	job.now = func() time.Time { return time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC) }

	require.NoError(t, job.HandleRequest(context.Background(), events.CloudWatchEvent{ID: "evt"}))

	require.NotNil(t, mail.sent)
	assert.Equal(t, []string{"lead@example.com"}, mail.sent.To)
	assert.Contains(t, mail.sent.Subject, "2024-01-01 to 2024-01-07")
	require.Len(t, mail.sent.Attachments, 1)
	attachment := mail.sent.Attachments[0]
	assert.Equal(t, "timesheet_report_2024-01-01_to_2024-01-07.xlsx", attachment.Filename)

	book, err := excelize.OpenReader(bytes.NewReader(attachment.Content))
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows(timesheet.ReportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alpha", rows[1][3])
}

func TestWeeklyReportFailureNotifies(t *testing.T) {
	dm := coretest.NewDatabase(t)
	mail := &fakeMailer{err: errors.New("ses unavailable")}
	notifier := &fakeNotifier{}

	job := NewJob(timesheet.NewReportGenerator(dm, nil), mail, devops.EmailConfig{From: "a@example.com", To: []string{"b@example.com"}})
	job.notifier = notifier

	err := job.HandleRequest(context.Background(), events.CloudWatchEvent{})
	assert.Error(t, err)
	require.Len(t, notifier.errors, 1)
	assert.Contains(t, notifier.errors[0], "ses unavailable")
}
