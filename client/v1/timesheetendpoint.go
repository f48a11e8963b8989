package v1

import (
	"context"
	"io"
	"mime"
	"time"

	"itsheet.com/itsheet/core/timesheet"
	"itsheet.com/itsheet/model"
	"itsheet.com/itsheet/utils"
)

type SubmitResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	EntriesSaved int    `json:"entriesSaved"`
}

type TimesheetEndpoint struct {
	transport *Transport
}

// Submit posts a batch. Rejections come back as *APIError with the
// per-entry issues in Details.
func (e *TimesheetEndpoint) Submit(ctx context.Context, req timesheet.SubmitRequest) (int, error) {
	resp, err := e.transport.Post(ctx, "/api/timesheets", req, nil)
	if err != nil {
		return 0, err
	}
	result, err := decode[SubmitResponse](resp)
	if err != nil {
		return 0, err
	}
	return result.EntriesSaved, nil
}

// Report streams the xlsx for [start, end] to w and returns the server's
// file name.
func (e *TimesheetEndpoint) Report(ctx context.Context, start, end time.Time, w io.Writer) (string, error) {
	resp, err := e.transport.Get(ctx, "/api/timesheet/report", map[string]string{
		"startDate": start.Format(utils.DateLayout),
		"endDate":   end.Format(utils.DateLayout),
	})
	if err != nil {
		return "", err
	}
	if _, err := w.Write(resp.Data); err != nil {
		return "", err
	}

	filename := timesheet.ReportFileName(start, end)
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		filename = params["filename"]
	}
	return filename, nil
}

type ActivityTypesResponse struct {
	Success       bool                 `json:"success"`
	ActivityTypes []model.ActivityType `json:"activityTypes"`
}

type ActivityTypeEndpoint struct {
	transport *Transport
}

// List returns the team's active activity types. An empty team means the
// caller's own team.
func (e *ActivityTypeEndpoint) List(ctx context.Context, team string) ([]model.ActivityType, error) {
	query := map[string]string{}
	if team != "" {
		query["team"] = team
	}
	resp, err := e.transport.Get(ctx, "/api/activityTypes", query)
	if err != nil {
		return nil, err
	}
	result, err := decode[ActivityTypesResponse](resp)
	if err != nil {
		return nil, err
	}
	return result.ActivityTypes, nil
}
