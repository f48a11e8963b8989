package v1_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	v1 "itsheet.com/itsheet/client/v1"
	"itsheet.com/itsheet/core"
	"itsheet.com/itsheet/core/coretest"
	"itsheet.com/itsheet/core/timesheet"
	"itsheet.com/itsheet/core/users"
	"itsheet.com/itsheet/model"
	"itsheet.com/itsheet/utils"
	"itsheet.com/itsheet/web/handlers/auth"
	sheethandler "itsheet.com/itsheet/web/handlers/timesheet"
	userhandler "itsheet.com/itsheet/web/handlers/users"
	"itsheet.com/itsheet/web/middlewares"
)

var secret = []byte("client-test-secret")

type fixture struct {
	dm        *core.DatabaseManager
	directory *users.Directory
	server    *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dm := coretest.NewDatabase(t)
	directory := users.NewDirectory(dm)

	r := gin.New()
	api := r.Group("/api")
	auth.Register(api, directory, secret, time.Hour)

	authed := api.Group("", middlewares.Authentication(secret))
	sheethandler.Register(authed, dm, timesheet.NewService(dm, nil, nil), timesheet.NewReportGenerator(dm, nil))
	userhandler.Register(authed.Group("", middlewares.AdminRequired()), directory)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &fixture{dm: dm, directory: directory, server: server}
}

func (f *fixture) user(t *testing.T, username, role string) *model.User {
	t.Helper()
	user, err := f.directory.Create(context.Background(), users.CreateUserInput{
		Username: username,
		Password: "pw-" + username,
		Team:     "IT-Internal",
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) login(t *testing.T, username string) *v1.Client {
	t.Helper()
	client := v1.NewClient(f.server.URL, "")
	_, err := client.Auth.Login(context.Background(), username, "pw-"+username)
	require.NoError(t, err)
	return client
}

func entry() timesheet.Entry {
	return timesheet.Entry{
		Date:              "2024-01-05",
		ProjectName:       "Alpha",
		ActivityType:      "BRNET",
		ActivityPerformed: "Code review",
		JobType:           model.JobTypePlanned,
		HoursSpent:        "4",
	}
}

func TestLoginStoresToken(t *testing.T) {
	f := newFixture(t)
	f.user(t, "jdoe", model.RoleUser)

	client := v1.NewClient(f.server.URL, "")
	resp, err := client.Auth.Login(context.Background(), "jdoe", "pw-jdoe")
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "jdoe", resp.User.Username)
	assert.Equal(t, "IT-Internal", resp.User.Team)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, resp.Token, client.Transport.AuthToken)
}

func TestLoginFailureIsAPIError(t *testing.T) {
	f := newFixture(t)
	f.user(t, "jdoe", model.RoleUser)

	client := v1.NewClient(f.server.URL, "")
	_, err := client.Auth.Login(context.Background(), "jdoe", "wrong")

	var apiErr *v1.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "InvalidCredentials", apiErr.Code)
	assert.Empty(t, client.Transport.AuthToken)
}

func TestSubmitAndReport(t *testing.T) {
	f := newFixture(t)
	f.user(t, "jdoe", model.RoleUser)
	client := f.login(t, "jdoe")
	ctx := context.Background()

	saved, err := client.Timesheets.Submit(ctx, timesheet.SubmitRequest{
		Username: "jdoe",
		Entries:  []timesheet.Entry{entry()},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, saved)

	var buf bytes.Buffer
	filename, err := client.Timesheets.Report(ctx, utils.MustParseDate("2024-01-01"), utils.MustParseDate("2024-01-07"), &buf)
	require.NoError(t, err)
	assert.Equal(t, timesheet.ReportFileName(utils.MustParseDate("2024-01-01"), utils.MustParseDate("2024-01-07")), filename)

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows(timesheet.ReportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"jdoe", "IT-Internal", "2024-01-05", "Alpha", "BRNET", "Code review", "Planned", "4"}, rows[1])
}

func TestSubmitValidationDetails(t *testing.T) {
	f := newFixture(t)
	f.user(t, "jdoe", model.RoleUser)
	client := f.login(t, "jdoe")

	bad := entry()
	bad.HoursSpent = "25"
	_, err := client.Timesheets.Submit(context.Background(), timesheet.SubmitRequest{
		Username: "jdoe",
		Entries:  []timesheet.Entry{entry(), bad},
	})

	var apiErr *v1.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, string(timesheet.CodeInvalidHours), apiErr.Code)
	require.Len(t, apiErr.Details, 1)
	assert.Equal(t, 1, apiErr.Details[0].Index)

	var count int64
	require.NoError(t, f.dm.GetDB(context.Background()).Model(&model.Timesheet{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmitWithoutToken(t *testing.T) {
	f := newFixture(t)
	client := v1.NewClient(f.server.URL, "")

	_, err := client.Timesheets.Submit(context.Background(), timesheet.SubmitRequest{Entries: []timesheet.Entry{entry()}})

	var apiErr *v1.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestActivityTypes(t *testing.T) {
	f := newFixture(t)
	f.user(t, "jdoe", model.RoleUser)
	require.NoError(t, f.dm.GetDB(context.Background()).Create([]model.ActivityType{
		{ActivityName: "GLOW", Team: "IT-Internal", IsActive: true},
		{ActivityName: "BRNET", Team: "IT-Internal", IsActive: true},
		{ActivityName: "Retired", Team: "IT-Internal", IsActive: false},
		{ActivityName: "Other", Team: "Finance", IsActive: true},
	}).Error)
	client := f.login(t, "jdoe")

	types, err := client.ActivityTypes.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "BRNET", types[0].ActivityName)
	assert.Equal(t, "GLOW", types[1].ActivityName)
}

func TestUserAdministration(t *testing.T) {
	f := newFixture(t)
	admin := f.user(t, "admin", model.RoleAdmin)
	client := f.login(t, "admin")
	ctx := context.Background()

	created, err := client.Users.Create(ctx, users.CreateUserInput{
		Username: "newbie",
		Password: "secret",
		Team:     "IT-Internal",
		Role:     model.RoleUser,
	})
	require.NoError(t, err)
	assert.Equal(t, "newbie", created.Username)

	list, err := client.Users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, client.Users.ChangePassword(ctx, created.UserID, "changed"))
	require.NoError(t, client.Users.SetActive(ctx, created.UserID, false))

	_, err = v1.NewClient(f.server.URL, "").Auth.Login(ctx, "newbie", "changed")
	var apiErr *v1.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	err = client.Users.Delete(ctx, admin.UserID)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "SelfDelete", apiErr.Code)

	require.NoError(t, client.Users.Delete(ctx, created.UserID))
	err = client.Users.Delete(ctx, created.UserID)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestNonAdminCannotManageUsers(t *testing.T) {
	f := newFixture(t)
	f.user(t, "jdoe", model.RoleUser)
	client := f.login(t, "jdoe")

	_, err := client.Users.List(context.Background())
	var apiErr *v1.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}
