package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"itsheet.com/itsheet/core"
	"itsheet.com/itsheet/core/timesheet"
	"itsheet.com/itsheet/infrastructure/communication"
	"itsheet.com/itsheet/infrastructure/devops"
	"itsheet.com/itsheet/infrastructure/filesystem"
)

func main() {
	ctx := context.Background()

	cfg, err := devops.Load(ctx)
	if err != nil {
		log.Fatalf("[ERROR] failed to load configuration: %v", err)
	}
	dm, err := core.New(cfg.DSN, cfg.MaxConnections)
	if err != nil {
		log.Fatalf("[ERROR] failed to connect to database: %v", err)
	}
	mailer, err := communication.NewMailer(ctx)
	if err != nil {
		log.Fatalf("[ERROR] failed to create mailer: %v", err)
	}

	var archive timesheet.Archiver
	if cfg.ReportBucket != "" {
		s3Archive, err := filesystem.NewS3Archive(ctx, cfg.ReportBucket)
		if err != nil {
			log.Printf("[WARN] report archive disabled: %v", err)
		} else {
			archive = s3Archive
		}
	}

	job := NewJob(timesheet.NewReportGenerator(dm, archive), mailer, cfg.WeeklyReport)
	if slack := communication.ConnectSlack(cfg.Slack.Token, communication.SlackOption{
		InfoChannelID:  cfg.Slack.InfoChannelID,
		ErrorChannelID: cfg.Slack.ErrorChannelID,
	}); slack != nil {
		job.notifier = slack
	}

	lambda.Start(job.HandleRequest)
}
