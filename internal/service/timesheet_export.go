package service

import (
	"context"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/timesheet-reporting/internal/apperr"
	"github.com/iliyamo/timesheet-reporting/internal/model"
)

const exportSheet = "Timesheet"

var exportHeader = []interface{}{
	"Date", "Client", "Position", "Site address", "Start", "End", "Total hours", "Status", "Remarks",
}

// Export renders the user's entries as an xlsx workbook, one row per entry
// in listing order.  Dates and times are written in the entry zone.
func (s *TimesheetService) Export(ctx context.Context, userID string) ([]byte, error) {
	rows, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	data, err := buildWorkbook(rows, s.loc)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return data, nil
}

func buildWorkbook(rows []model.TimesheetRow, loc *time.Location) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", "I1", bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "A", "I", 16); err != nil {
		return nil, err
	}

	for i, r := range rows {
		client := ""
		if r.Client != nil {
			client = r.Client.Name
		}
		remarks := ""
		if r.Remarks != nil {
			remarks = *r.Remarks
		}
		values := []interface{}{
			r.Date.In(loc).Format("02/01/2006"),
			client,
			r.Position,
			r.SiteAddress,
			r.StartTime.In(loc).Format("15:04"),
			r.EndTime.In(loc).Format("15:04"),
			r.TotalHrs,
			r.Status,
			remarks,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
