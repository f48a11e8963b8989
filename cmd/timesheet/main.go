package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

var CLI struct {
	Server  string `help:"API base URL." env:"ITSHEET_URL" default:"http://localhost:5000"`
	Session string `help:"Session file path." type:"path" env:"ITSHEET_SESSION" default:"~/.itsheet/session.yaml"`

	Login         LoginCmd         `cmd:"" help:"Log in and store the session."`
	ActivityTypes ActivityTypesCmd `cmd:"" name:"activity-types" help:"List activity types of a team."`
	Submit        SubmitCmd        `cmd:"" help:"Submit timesheet entries from a YAML or CSV file."`
	Report        ReportCmd        `cmd:"" help:"Download the timesheet report for a date range."`
	Users         struct {
		List     UsersListCmd     `cmd:"" help:"List users."`
		Create   UsersCreateCmd   `cmd:"" help:"Create a user."`
		Delete   UsersDeleteCmd   `cmd:"" help:"Delete a user."`
		Password UsersPasswordCmd `cmd:"" help:"Change a user's password."`
		Active   UsersActiveCmd   `cmd:"" help:"Activate or deactivate a user."`
	} `cmd:"" help:"Manage users (admin only)."`
	Archive struct {
		List ArchiveListCmd `cmd:"" help:"List archived reports."`
		Get  ArchiveGetCmd  `cmd:"" help:"Download an archived report."`
	} `cmd:"" help:"Browse the S3 report archive."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("timesheet"),
		kong.Description("IT timesheet terminal client"),
		kong.UsageOnError(),
	)

	appCtx := &Context{Server: CLI.Server, SessionPath: CLI.Session}
	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
