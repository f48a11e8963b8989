package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	v1 "itsheet.com/itsheet/client/v1"
	"itsheet.com/itsheet/core/timesheet"
	"itsheet.com/itsheet/core/users"
	"itsheet.com/itsheet/editor"
	"itsheet.com/itsheet/utils"
)

type LoginCmd struct {
	Username string `help:"Username." required:""`
	Password string `help:"Password." env:"ITSHEET_PASSWORD" required:""`
}

func (c *LoginCmd) Run(ctx *Context) error {
	client := v1.NewClient(ctx.Server, "")
	resp, err := client.Auth.Login(ctx.Background(), c.Username, c.Password)
	if err != nil {
		return err
	}
	session := editor.Session{
		Username: resp.User.Username,
		Team:     resp.User.Team,
		Role:     resp.User.Role,
		Token:    resp.Token,
	}
	if err := saveSession(ctx.SessionPath, session); err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (%s, %s)\n", session.Username, session.Team, session.Role)
	return nil
}

type ActivityTypesCmd struct {
	Team string `help:"Team, defaults to your own."`
}

func (c *ActivityTypesCmd) Run(ctx *Context) error {
	client, _, err := ctx.Client()
	if err != nil {
		return err
	}
	types, err := client.ActivityTypes.List(ctx.Background(), c.Team)
	if err != nil {
		return err
	}
	for _, t := range types {
		fmt.Println(t.ActivityName)
	}
	return nil
}

type SubmitCmd struct {
	File string `help:"Entries file (.yaml, .yml or .csv)." type:"existingfile" required:""`
}

func (c *SubmitCmd) Run(ctx *Context) error {
	client, session, err := ctx.Client()
	if err != nil {
		return err
	}

	rows, err := loadRows(c.File)
	if err != nil {
		return err
	}
	ed, err := buildEditor(session, rows)
	if err != nil {
		return err
	}

	saved, err := ed.Submit(ctx.Background(), client.Timesheets)
	if err != nil {
		printSubmitError(err)
		return errors.New("timesheet was not submitted")
	}
	fmt.Printf("Timesheet saved successfully (%d entries)\n", saved)
	return nil
}

func printSubmitError(err error) {
	var validationErr *timesheet.ValidationError
	var apiErr *v1.APIError
	switch {
	case errors.As(err, &validationErr):
		for _, issue := range validationErr.Issues {
			fmt.Fprintf(os.Stderr, "  %s\n", issue.Message)
		}
	case errors.As(err, &apiErr) && len(apiErr.Details) > 0:
		for _, issue := range apiErr.Details {
			fmt.Fprintf(os.Stderr, "  %s\n", issue.Message)
		}
	default:
		fmt.Fprintf(os.Stderr, "  %v\n", err)
	}
}

type ReportCmd struct {
	Start string `help:"First day (YYYY-MM-DD). Defaults to Monday of last week."`
	End   string `help:"Last day (YYYY-MM-DD). Defaults to Sunday of last week."`
	Out   string `help:"Output file, defaults to the server's file name." type:"path"`
}

func (c *ReportCmd) Run(ctx *Context) error {
	start, end := utils.PreviousWeek(time.Now())
	var err error
	if c.Start != "" {
		if start, err = timesheet.ParseDate(c.Start); err != nil {
			return err
		}
	}
	if c.End != "" {
		if end, err = timesheet.ParseDate(c.End); err != nil {
			return err
		}
	}

	client, _, err := ctx.Client()
	if err != nil {
		return err
	}

	out := c.Out
	if out == "" {
		out = timesheet.ReportFileName(start, end)
	}
	file, err := os.Create(out)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := client.Timesheets.Report(ctx.Background(), start, end, file); err != nil {
		os.Remove(out)
		return err
	}
	fmt.Printf("Report written to %s\n", out)
	return nil
}

type UsersListCmd struct{}

func (c *UsersListCmd) Run(ctx *Context) error {
	client, _, err := ctx.Client()
	if err != nil {
		return err
	}
	list, err := client.Users.List(ctx.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tTEAM\tROLE\tACTIVE\tLAST LOGIN")
	for _, u := range list {
		lastLogin := "-"
		if u.LastLogin != nil {
			lastLogin = u.LastLogin.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\t%s\n", u.UserID, u.Username, u.Team, u.Role, u.IsActive, lastLogin)
	}
	return w.Flush()
}

type UsersCreateCmd struct {
	Username string `help:"Username." required:""`
	Password string `help:"Password." required:""`
	Team     string `help:"Team." required:""`
	Role     string `help:"Role." enum:"Admin,User" default:"User"`
}

func (c *UsersCreateCmd) Run(ctx *Context) error {
	client, _, err := ctx.Client()
	if err != nil {
		return err
	}
	user, err := client.Users.Create(ctx.Background(), users.CreateUserInput{
		Username: c.Username,
		Password: c.Password,
		Team:     c.Team,
		Role:     c.Role,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created user %s (id %d)\n", user.Username, user.UserID)
	return nil
}

type UsersDeleteCmd struct {
	ID int32 `arg:"" help:"User id."`
}

func (c *UsersDeleteCmd) Run(ctx *Context) error {
	client, _, err := ctx.Client()
	if err != nil {
		return err
	}
	if err := client.Users.Delete(ctx.Background(), c.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted user %d\n", c.ID)
	return nil
}

type UsersPasswordCmd struct {
	ID       int32  `arg:"" help:"User id."`
	Password string `help:"New password." env:"ITSHEET_NEW_PASSWORD" required:""`
}

func (c *UsersPasswordCmd) Run(ctx *Context) error {
	client, _, err := ctx.Client()
	if err != nil {
		return err
	}
	if err := client.Users.ChangePassword(ctx.Background(), c.ID, c.Password); err != nil {
		return err
	}
	fmt.Printf("Password updated for user %d\n", c.ID)
	return nil
}

type UsersActiveCmd struct {
	ID     int32 `arg:"" help:"User id."`
	Active bool  `help:"Whether the user may log in." negatable:"" default:"true"`
}

func (c *UsersActiveCmd) Run(ctx *Context) error {
	client, _, err := ctx.Client()
	if err != nil {
		return err
	}
	if err := client.Users.SetActive(ctx.Background(), c.ID, c.Active); err != nil {
		return err
	}
	fmt.Printf("User %d active=%t\n", c.ID, c.Active)
	return nil
}
