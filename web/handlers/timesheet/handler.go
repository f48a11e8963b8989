package timesheet

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"itsheet.com/itsheet/core"
	sheets "itsheet.com/itsheet/core/timesheet"
	"itsheet.com/itsheet/web/common"
	"itsheet.com/itsheet/web/middlewares"
)

type Endpoint struct {
	dm      *core.DatabaseManager
	service *sheets.Service
	reports *sheets.ReportGenerator
}

func Register(r *gin.RouterGroup, dm *core.DatabaseManager, service *sheets.Service, reports *sheets.ReportGenerator) {
	endpoint := &Endpoint{dm: dm, service: service, reports: reports}
	r.POST("/timesheets", endpoint.Submit)
	r.GET("/timesheet/report", endpoint.Report)
	r.GET("/activityTypes", endpoint.ActivityTypes)
}

type SubmitDTO struct {
	Username string         `json:"username"`
	Team     string         `json:"team"`
	Entries  []sheets.Entry `json:"entries"`
}

func (ep *Endpoint) Submit(c *gin.Context) {
	identity, ok := middlewares.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, common.NewCodedErrorResponse(common.CodeUnauthenticated, "Authentication required"))
		return
	}

	var body SubmitDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		common.RespondBindingError(c, common.CodeInvalidRequest, err)
		return
	}

	// the session decides who is submitting; only admins may submit for
	// someone else
	username := strings.TrimSpace(body.Username)
	team := strings.TrimSpace(body.Team)
	if username == "" {
		username = identity.UniqueName
	}
	if !identity.IsAdmin() {
		if username != identity.UniqueName {
			c.JSON(http.StatusForbidden, common.NewCodedErrorResponse(common.CodeUnauthorized, "You can only submit your own timesheet"))
			return
		}
		team = identity.Team
	} else if team == "" && username == identity.UniqueName {
		team = identity.Team
	}

	saved, err := ep.service.Submit(c.Request.Context(), sheets.SubmitRequest{
		Username: username,
		Team:     team,
		Entries:  body.Entries,
	})

	var validationErr *sheets.ValidationError
	var persistenceErr *sheets.PersistenceError
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, common.Success(gin.H{
			"message":      "Timesheet saved successfully",
			"entriesSaved": saved,
		}))
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, common.NewCodedErrorResponse(string(validationErr.Code), validationErr.Error()).
			WithDetails(validationErr.Issues))
	case errors.Is(err, sheets.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, common.NewCodedErrorResponse(common.CodeUnauthenticated, "Authentication required"))
	case errors.As(err, &persistenceErr):
		common.RespondServerError(c, string(sheets.CodePersistenceFailed), "Failed to save timesheet data", err)
	default:
		common.RespondServerError(c, common.CodeServerError, "Internal server error", err)
	}
}

func (ep *Endpoint) Report(c *gin.Context) {
	startParam, endParam := c.Query("startDate"), c.Query("endDate")
	if startParam == "" || endParam == "" {
		c.JSON(http.StatusBadRequest, common.NewCodedErrorResponse(common.CodeMissingField, "startDate and endDate are required"))
		return
	}
	start, err := common.ParseDateOnly(startParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewCodedErrorResponse(common.CodeInvalidField, "startDate: "+err.Error()))
		return
	}
	end, err := common.ParseDateOnly(endParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewCodedErrorResponse(common.CodeInvalidField, "endDate: "+err.Error()))
		return
	}

	// render fully before touching the response so a failure can still
	// be reported as JSON
	var report bytes.Buffer
	err = ep.reports.Generate(c.Request.Context(), start.Time, end.Time, &report)
	if errors.Is(err, sheets.ErrInvalidRange) {
		c.JSON(http.StatusBadRequest, common.NewCodedErrorResponse(common.CodeInvalidField, err.Error()))
		return
	}
	if err != nil {
		common.RespondServerError(c, common.CodeServerError, "Failed to generate report", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+sheets.ReportFileName(start.Time, end.Time)+`"`)
	c.Data(http.StatusOK, sheets.ReportContentType, report.Bytes())
}

func (ep *Endpoint) ActivityTypes(c *gin.Context) {
	team := c.Query("team")
	if team == "" {
		if identity, ok := middlewares.CurrentIdentity(c); ok {
			team = identity.Team
		}
	}

	types, err := sheets.ActivityTypes(c.Request.Context(), ep.dm, team)
	if errors.Is(err, sheets.ErrMissingTeam) {
		c.JSON(http.StatusBadRequest, common.NewCodedErrorResponse(common.CodeMissingField, "team is required"))
		return
	}
	if err != nil {
		common.RespondServerError(c, common.CodeServerError, "Failed to fetch activity types", err)
		return
	}

	c.JSON(http.StatusOK, common.Success(gin.H{"activityTypes": types}))
}
