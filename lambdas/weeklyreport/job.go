package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"itsheet.com/itsheet/core/timesheet"
	"itsheet.com/itsheet/infrastructure/communication"
	"itsheet.com/itsheet/infrastructure/devops"
	"itsheet.com/itsheet/utils"
)

type mailer interface {
	Send(ctx context.Context, info *communication.EmailInfo) (string, error)
}

// Job renders last week's report and emails it to the configured
// recipients. It runs from an EventBridge schedule.
type Job struct {
	reports  *timesheet.ReportGenerator
	mailer   mailer
	email    devops.EmailConfig
	notifier timesheet.Notifier
	now      func() time.Time
}

func NewJob(reports *timesheet.ReportGenerator, mailer mailer, email devops.EmailConfig) *Job {
	return &Job{reports: reports, mailer: mailer, email: email, now: time.Now}
}

func (j *Job) HandleRequest(ctx context.Context, event events.CloudWatchEvent) error {
	start, end := utils.PreviousWeek(j.now())
	log.Printf("[INFO] weekly report %s for %s to %s", event.ID, start.Format(utils.DateLayout), end.Format(utils.DateLayout))

	if err := j.send(ctx, start, end); err != nil {
		log.Printf("[ERROR] %v", err)
		if j.notifier != nil {
			if nerr := j.notifier.Error(fmt.Sprintf("Weekly timesheet report failed: %v", err)); nerr != nil {
				log.Printf("[WARN] %v", nerr)
			}
		}
		return err
	}
	return nil
}

func (j *Job) send(ctx context.Context, start, end time.Time) error {
	var report bytes.Buffer
	if err := j.reports.Generate(ctx, start, end, &report); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	period := fmt.Sprintf("%s to %s", start.Format(utils.DateLayout), end.Format(utils.DateLayout))
	messageID, err := j.mailer.Send(ctx, &communication.EmailInfo{
		From:    j.email.From,
		To:      j.email.To,
		Subject: "Timesheet report " + period,
		Text:    "The timesheet report for " + period + " is attached.",
		Attachments: []communication.Attachment{{
			Filename:    timesheet.ReportFileName(start, end),
			ContentType: timesheet.ReportContentType,
			Content:     report.Bytes(),
		}},
	})
	if err != nil {
		return err
	}
	log.Printf("[INFO] weekly report sent, message id %s", messageID)
	return nil
}
