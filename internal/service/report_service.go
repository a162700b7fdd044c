package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/timesheet-reporting/internal/apperr"
	"github.com/iliyamo/timesheet-reporting/internal/queue"
	"github.com/iliyamo/timesheet-reporting/internal/report"
)

// ReportBuilder fills the report template.
type ReportBuilder interface {
	Build(req report.Request, ref time.Time) (report.Document, error)
}

// ReportService builds, renders and uploads PDF reports.
type ReportService struct {
	builder  ReportBuilder
	renderer report.Renderer
	media    *MediaService
	events   Publisher
	now      func() time.Time
}

// NewReportService wires the service.
func NewReportService(builder ReportBuilder, renderer report.Renderer, media *MediaService, events Publisher) *ReportService {
	if events == nil {
		events = NopPublisher
	}
	return &ReportService{builder: builder, renderer: renderer, media: media, events: events, now: time.Now}
}

// Generate renders req to PDF and stores it as report-<unix ms>.pdf.
func (s *ReportService) Generate(ctx context.Context, userID string, req report.Request) (Uploaded, error) {
	if req.Type != report.TypeAerialsmiths {
		return Uploaded{}, apperr.Validation("Type is invalid.")
	}
	if len(req.Images) == 0 {
		return Uploaded{}, apperr.Validation("At least one image is required.")
	}
	if len(req.Images) > report.MaxImages {
		return Uploaded{}, apperr.Validation(fmt.Sprintf("Up to %d images are allowed.", report.MaxImages))
	}

	ref := s.now()
	doc, err := s.builder.Build(req, ref)
	if err != nil {
		return Uploaded{}, apperr.Internal(err)
	}
	pdf, err := s.renderer.Render(ctx, doc)
	if err != nil {
		return Uploaded{}, apperr.Internal(fmt.Errorf("render report: %w", err))
	}
	up, err := s.media.UploadReport(ctx, bytes.NewReader(pdf), fmt.Sprintf("report-%d.pdf", ref.UnixMilli()))
	if err != nil {
		return Uploaded{}, err
	}

	publishEvent(ctx, s.events, queue.Event{
		Type:       queue.EventReportGenerated,
		UserID:     userID,
		SubjectID:  up.PublicID,
		Attrs:      map[string]string{"title": req.Title, "client": req.ClientName},
		OccurredAt: ref.UTC(),
	})
	return up, nil
}
