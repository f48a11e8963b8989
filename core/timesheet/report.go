package timesheet

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	"itsheet.com/itsheet/core"
	"itsheet.com/itsheet/model"
	"itsheet.com/itsheet/utils"
)

const (
	ReportSheet       = "Timesheet"
	ReportPlaceholder = "No data"
	ReportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var ReportColumns = []string{
	"Username",
	"Team",
	"Date",
	"ProjectName",
	"ActivityType",
	"ActivityPerformed",
	"JobType",
	"HoursSpent",
}

type ReportRow struct {
	Username          string
	Team              string
	Date              time.Time
	ProjectName       string
	ActivityType      string
	ActivityPerformed string
	JobType           string
	HoursSpent        float64
}

// Archiver stores a copy of every rendered report, e.g. in S3.
type Archiver interface {
	WriteFile(ctx context.Context, key string, body io.Reader) error
}

type ReportGenerator struct {
	dm      *core.DatabaseManager
	archive Archiver
}

// NewReportGenerator creates a generator. archive may be nil.
func NewReportGenerator(dm *core.DatabaseManager, archive Archiver) *ReportGenerator {
	return &ReportGenerator{dm: dm, archive: archive}
}

// Rows returns the persisted rows dated within [start, end], inclusive.
func (g *ReportGenerator) Rows(ctx context.Context, start, end time.Time) ([]ReportRow, error) {
	start, end = utils.StartOfDay(start), utils.StartOfDay(end)
	if start.After(end) {
		return nil, ErrInvalidRange
	}

	var records []model.Timesheet
	if err := g.dm.Exec(ctx, func(db *gorm.DB) error {
		return db.Where("date >= ? AND date < ?", start, end.AddDate(0, 0, 1)).
			Order("date, username, id").
			Find(&records).Error
	}); err != nil {
		return nil, fmt.Errorf("failed to fetch timesheets: %w", err)
	}

	return utils.Map(records, func(r model.Timesheet) ReportRow {
		return ReportRow{
			Username:          r.Username,
			Team:              r.Team,
			Date:              r.Date,
			ProjectName:       r.ProjectName,
			ActivityType:      r.ActivityType,
			ActivityPerformed: r.ActivityPerformed,
			JobType:           r.JobType,
			HoursSpent:        r.HoursSpent,
		}
	}), nil
}

// Generate writes the xlsx report for [start, end] to w.
func (g *ReportGenerator) Generate(ctx context.Context, start, end time.Time, w io.Writer) error {
	rows, err := g.Rows(ctx, start, end)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Render(rows, &buf); err != nil {
		return err
	}

	if g.archive != nil {
		key := "reports/" + ReportFileName(start, end)
		if err := g.archive.WriteFile(ctx, key, bytes.NewReader(buf.Bytes())); err != nil {
			log.Printf("[WARN] failed to archive report %s: %v\n", key, err)
		}
	}

	_, err = buf.WriteTo(w)
	return err
}

// Render writes rows as a single-sheet workbook. An empty result still
// produces a sheet with one placeholder row.
func Render(rows []ReportRow, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ReportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := utils.Map(ReportColumns, func(c string) interface{} { return c })
	if err := f.SetSheetRow(ReportSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(ReportSheet, 1, 1, bold); err != nil {
		return err
	}

	if len(rows) == 0 {
		placeholder := []interface{}{ReportPlaceholder}
		if err := f.SetSheetRow(ReportSheet, "A2", &placeholder); err != nil {
			return fmt.Errorf("failed to write placeholder: %w", err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			row.Username,
			row.Team,
			row.Date.Format(DateLayout),
			row.ProjectName,
			row.ActivityType,
			row.ActivityPerformed,
			row.JobType,
			row.HoursSpent,
		}
		if err := f.SetSheetRow(ReportSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(ReportSheet, "A", "H", 18); err != nil {
		return err
	}
	if err := f.SetColWidth(ReportSheet, "F", "F", 48); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func ReportFileName(start, end time.Time) string {
	return fmt.Sprintf("timesheet_report_%s_to_%s.xlsx", start.Format(DateLayout), end.Format(DateLayout))
}
