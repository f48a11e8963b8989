package timesheet_test

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"itsheet.com/itsheet/core"
	"itsheet.com/itsheet/core/coretest"
	sheets "itsheet.com/itsheet/core/timesheet"
	"itsheet.com/itsheet/model"
	"itsheet.com/itsheet/web/handlers/handlertest"
	"itsheet.com/itsheet/web/handlers/timesheet"
)

type fixture struct {
	dm      *core.DatabaseManager
	handler http.Handler
	user    string
	admin   string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	dm := coretest.NewDatabase(t)
	r, api := handlertest.NewEngine()
	timesheet.Register(api, dm, sheets.NewService(dm, nil, nil), sheets.NewReportGenerator(dm, nil))
	return &fixture{
		dm:      dm,
		handler: r,
		user:    handlertest.Token(t, 2, "jdoe", "IT-Internal", model.RoleUser),
		admin:   handlertest.Token(t, 1, "admin", "IT-Internal", model.RoleAdmin),
	}
}

func (f *fixture) count(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.dm.Exec(context.Background(), func(db *gorm.DB) error {
		return db.Model(&model.Timesheet{}).Count(&n).Error
	}))
	return n
}

func entryBody(hours string) map[string]interface{} {
	return map[string]interface{}{
		"date":              "2024-01-05",
		"projectName":       "Alpha",
		"activityType":      "BRNET",
		"activityPerformed": "Code review",
		"jobType":           "Planned",
		"hoursSpent":        hours,
	}
}

func TestSubmitThenReport(t *testing.T) {
	f := setup(t)

	w := handlertest.Do(t, f.handler, http.MethodPost, "/api/timesheets", f.user, map[string]interface{}{
		"username": "jdoe",
		"team":     "IT-Internal",
		"entries":  []interface{}{entryBody("4")},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := handlertest.Decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["entriesSaved"])

	w = handlertest.Do(t, f.handler, http.MethodGet, "/api/timesheet/report?startDate=2024-01-01&endDate=2024-01-31", f.user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, sheets.ReportContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "timesheet_report_2024-01-01_to_2024-01-31.xlsx")

	book, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows(sheets.ReportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-01-05", rows[1][2])
	assert.Equal(t, "4", rows[1][7])
}

func TestSubmitInvalidHours(t *testing.T) {
	f := setup(t)

	w := handlertest.Do(t, f.handler, http.MethodPost, "/api/timesheets", f.user, map[string]interface{}{
		"username": "jdoe",
		"team":     "IT-Internal",
		"entries":  []interface{}{entryBody("-1")},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := handlertest.Decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "InvalidHours", body["errorCode"])
	assert.NotEmpty(t, body["details"])
	assert.Equal(t, int64(0), f.count(t))
}

func TestSubmitNumericHours(t *testing.T) {
	f := setup(t)

	entry := entryBody("")
	entry["hoursSpent"] = 7.5
	w := handlertest.Do(t, f.handler, http.MethodPost, "/api/timesheets", f.user, map[string]interface{}{
		"entries": []interface{}{entry},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, int64(1), f.count(t))
}

func TestSubmitEmptyBatch(t *testing.T) {
	f := setup(t)

	w := handlertest.Do(t, f.handler, http.MethodPost, "/api/timesheets", f.user, map[string]interface{}{
		"username": "jdoe",
		"team":     "IT-Internal",
		"entries":  []interface{}{},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "EmptyBatch", handlertest.Decode(t, w)["errorCode"])
}

func TestSubmitForAnotherUser(t *testing.T) {
	f := setup(t)
	payload := map[string]interface{}{
		"username": "someone-else",
		"team":     "IT-Internal",
		"entries":  []interface{}{entryBody("4")},
	}

	w := handlertest.Do(t, f.handler, http.MethodPost, "/api/timesheets", f.user, payload)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Unauthorized", handlertest.Decode(t, w)["errorCode"])
	assert.Equal(t, int64(0), f.count(t))

	w = handlertest.Do(t, f.handler, http.MethodPost, "/api/timesheets", f.admin, payload)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestSubmitRequiresToken(t *testing.T) {
	f := setup(t)

	w := handlertest.Do(t, f.handler, http.MethodPost, "/api/timesheets", "", map[string]interface{}{
		"entries": []interface{}{entryBody("4")},
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitBooleanHours(t *testing.T) {
	f := setup(t)

	entry := entryBody("4")
	entry["hoursSpent"] = true
	w := handlertest.Do(t, f.handler, http.MethodPost, "/api/timesheets", f.user, map[string]interface{}{
		"entries": []interface{}{entryBody("4"), entry},
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	body := handlertest.Decode(t, w)
	assert.Equal(t, string(sheets.CodeInvalidHours), body["errorCode"])
	details := body["details"].([]interface{})
	require.Len(t, details, 1)
	assert.Equal(t, float64(1), details[0].(map[string]interface{})["index"])
	assert.Zero(t, f.count(t))
}

func TestSubmitMalformedBody(t *testing.T) {
	f := setup(t)

	w := handlertest.Do(t, f.handler, http.MethodPost, "/api/timesheets", f.user, `{"entries": [`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportValidation(t *testing.T) {
	f := setup(t)

	tests := map[string]string{
		"missing":  "/api/timesheet/report?startDate=2024-01-01",
		"invalid":  "/api/timesheet/report?startDate=2024-13-01&endDate=2024-01-31",
		"inverted": "/api/timesheet/report?startDate=2024-02-01&endDate=2024-01-01",
	}
	for name, path := range tests {
		t.Run(name, func(t *testing.T) {
			w := handlertest.Do(t, f.handler, http.MethodGet, path, f.user, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, false, handlertest.Decode(t, w)["success"])
		})
	}
}

func TestActivityTypes(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.dm.Exec(context.Background(), func(db *gorm.DB) error {
		return db.Create(&[]model.ActivityType{
			{ActivityName: "GLOW", Team: "IT-Internal", IsActive: true},
			{ActivityName: "BRNET", Team: "IT-Internal", IsActive: true},
			{ActivityName: "Payroll", Team: "Finance", IsActive: true},
		}).Error
	}))

	w := handlertest.Do(t, f.handler, http.MethodGet, "/api/activityTypes?team=IT-Internal", f.user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"activityTypes":[{"Id":2,"ActivityName":"BRNET"},{"Id":1,"ActivityName":"GLOW"}]}`, w.Body.String())

	// team defaults to the caller's team
	w = handlertest.Do(t, f.handler, http.MethodGet, "/api/activityTypes", f.user, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, handlertest.Decode(t, w)["activityTypes"], 2)
}
