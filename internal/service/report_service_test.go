package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/iliyamo/timesheet-reporting/internal/apperr"
	"github.com/iliyamo/timesheet-reporting/internal/queue"
	"github.com/iliyamo/timesheet-reporting/internal/report"
)

func validReport() report.Request {
	return report.Request{
		Type:          report.TypeAerialsmiths,
		Date:          time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Address:       "1 Harbour Road\nDock 4",
		ClientName:    "Acme",
		Title:         "Roof survey",
		DateOfService: time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC),
		Images:        []string{"https://media.example/images/a.png"},
	}
}

func TestGenerateReportUploadsPDF(t *testing.T) {
	store := &fakeMediaStore{}
	builder := &fakeBuilder{}
	renderer := &fakeRenderer{}
	events := &recordingPublisher{}
	svc := NewReportService(builder, renderer, NewMediaService(store, nil, "", ""), events)
	fixed := time.UnixMilli(1709251200123)
	svc.now = func() time.Time { return fixed }

	up, err := svc.Generate(context.Background(), "u1", validReport())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !builder.ref.Equal(fixed) || builder.req.Title != "Roof survey" {
		t.Fatalf("builder got %+v at %s", builder.req, builder.ref)
	}
	if renderer.doc.Body != "<p>Roof survey</p>" {
		t.Fatalf("renderer got %q", renderer.doc.Body)
	}
	if len(store.uploads) != 1 {
		t.Fatalf("uploads = %d", len(store.uploads))
	}
	opts := store.uploads[0]
	if opts.Folder != "reports" || opts.Type != AssetRaw || opts.PublicID != "report-1709251200123.pdf" {
		t.Fatalf("upload options = %+v", opts)
	}
	if string(store.bodies[0]) != "%PDF-1.4 fake" {
		t.Fatalf("uploaded %q", store.bodies[0])
	}
	if up.PublicID != "reports/report-1709251200123.pdf" {
		t.Fatalf("public id = %q", up.PublicID)
	}
	if got := events.types(); len(got) != 1 || got[0] != queue.EventReportGenerated {
		t.Fatalf("events = %v", got)
	}
}

func TestGenerateReportValidation(t *testing.T) {
	svc := NewReportService(&fakeBuilder{}, &fakeRenderer{}, NewMediaService(&fakeMediaStore{}, nil, "", ""), nil)

	bad := validReport()
	bad.Type = "other"
	_, err := svc.Generate(context.Background(), "u1", bad)
	wantKind(t, err, apperr.KindValidation, "Type is invalid.")

	bad = validReport()
	bad.Images = nil
	_, err = svc.Generate(context.Background(), "u1", bad)
	wantKind(t, err, apperr.KindValidation, "At least one image is required.")

	bad = validReport()
	bad.Images = make([]string, report.MaxImages+1)
	for i := range bad.Images {
		bad.Images[i] = fmt.Sprintf("https://media.example/%d.png", i)
	}
	_, err = svc.Generate(context.Background(), "u1", bad)
	wantKind(t, err, apperr.KindValidation, "Up to 20 images are allowed.")
}

func TestGenerateReportRenderFailure(t *testing.T) {
	store := &fakeMediaStore{}
	svc := NewReportService(&fakeBuilder{}, &fakeRenderer{err: errors.New("chrome crashed")}, NewMediaService(store, nil, "", ""), nil)
	_, err := svc.Generate(context.Background(), "u1", validReport())
	wantKind(t, err, apperr.KindInternal, apperr.FallbackMessage)
	if len(store.uploads) != 0 {
		t.Fatal("nothing should be uploaded")
	}
}
