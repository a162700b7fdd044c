package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/timesheet-reporting/internal/report"
	"github.com/iliyamo/timesheet-reporting/internal/service"
)

// Reports is the report service used by ReportHandler.
type Reports interface {
	Generate(ctx context.Context, userID string, req report.Request) (service.Uploaded, error)
}

// ReportHandler serves /reports.
type ReportHandler struct {
	Reports Reports
	Timeout time.Duration
}

func NewReportHandler(r Reports, timeout time.Duration) *ReportHandler {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &ReportHandler{Reports: r, Timeout: timeout}
}

type generateReportReq struct {
	Type          string   `json:"type" validate:"required,oneof=aerialsmiths"`
	Date          string   `json:"date" validate:"required,notblank,rfc3339"`
	Address       string   `json:"address" validate:"required,notblank"`
	ClientName    string   `json:"clientName" validate:"required,notblank,letters"`
	Title         string   `json:"title" validate:"required,notblank"`
	DateOfService string   `json:"dateOfService" validate:"required,notblank,rfc3339"`
	Images        []string `json:"images" validate:"min=1,max=20,dive,required,notblank,url"`
}

func (r generateReportReq) toRequest() (report.Request, error) {
	date, err := parseInstant("date", r.Date)
	if err != nil {
		return report.Request{}, err
	}
	dos, err := parseInstant("dateOfService", r.DateOfService)
	if err != nil {
		return report.Request{}, err
	}
	images := make([]string, len(r.Images))
	for i, u := range r.Images {
		images[i] = strings.TrimSpace(u)
	}
	return report.Request{
		Type:          report.Type(r.Type),
		Date:          date,
		Address:       strings.TrimSpace(r.Address),
		ClientName:    strings.TrimSpace(r.ClientName),
		Title:         strings.TrimSpace(r.Title),
		DateOfService: dos,
		Images:        images,
	}, nil
}

// Generate renders a PDF report and returns where it was stored.
func (h *ReportHandler) Generate(c echo.Context, id service.Identity) error {
	var req generateReportReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := req.toRequest()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Timeout)
	defer cancel()

	up, err := h.Reports.Generate(ctx, id.User.ID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, up)
}
