package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/iliyamo/timesheet-reporting/internal/apperr"
	"github.com/iliyamo/timesheet-reporting/internal/queue"
)

func TestUploadImageChecksType(t *testing.T) {
	store := &fakeMediaStore{}
	svc := NewMediaService(store, nil, "", "")
	ctx := context.Background()

	_, err := svc.UploadImage(ctx, "", strings.NewReader("x"))
	wantKind(t, err, apperr.KindValidation, "File type is missing or invalid.")

	_, err = svc.UploadImage(ctx, "image/gif", strings.NewReader("x"))
	wantKind(t, err, apperr.KindValidation, "Only JPG,JPEG, and PNG images are allowed.")

	if len(store.uploads) != 0 {
		t.Fatal("rejected uploads must not reach the store")
	}

	for _, ct := range []string{"image/png", "image/jpeg", "IMAGE/JPG"} {
		if _, err := svc.UploadImage(ctx, ct, strings.NewReader("pixels")); err != nil {
			t.Fatalf("UploadImage(%s): %v", ct, err)
		}
	}
	opts := store.uploads[0]
	if opts.Folder != "images" || opts.Type != AssetImage || opts.Transformation != "c_limit,h_1080,w_1080" {
		t.Fatalf("upload options = %+v", opts)
	}
	if string(store.bodies[0]) != "pixels" {
		t.Fatalf("body = %q", store.bodies[0])
	}
}

func TestUploadImageStoreFailureIsInternal(t *testing.T) {
	svc := NewMediaService(&fakeMediaStore{err: errors.New("boom")}, nil, "", "")
	_, err := svc.UploadImage(context.Background(), "image/png", strings.NewReader("x"))
	wantKind(t, err, apperr.KindInternal, apperr.FallbackMessage)
}

func TestDeleteAssetsSplitsByResourceType(t *testing.T) {
	store := &fakeMediaStore{}
	events := &recordingPublisher{}
	svc := NewMediaService(store, events, "images", "reports")

	ids := []string{"reports/report-1.pdf", "images/a", "reports/cover.png", " ", "images/b.pdf"}
	if err := svc.DeleteAssets(context.Background(), "u1", ids); err != nil {
		t.Fatalf("DeleteAssets: %v", err)
	}
	want := []deleteCall{
		{ids: []string{"reports/report-1.pdf"}, typ: AssetRaw},
		{ids: []string{"images/a", "reports/cover.png", "images/b.pdf"}, typ: AssetImage},
	}
	if !reflect.DeepEqual(store.deletes, want) {
		t.Fatalf("deletes = %+v, want %+v", store.deletes, want)
	}
	if got := events.types(); len(got) != 1 || got[0] != queue.EventAssetsDeleted {
		t.Fatalf("events = %v", got)
	}
}

func TestDeleteAssetsOnlyImages(t *testing.T) {
	store := &fakeMediaStore{}
	svc := NewMediaService(store, nil, "", "")
	if err := svc.DeleteAssets(context.Background(), "u1", []string{"images/a"}); err != nil {
		t.Fatal(err)
	}
	if len(store.deletes) != 1 || store.deletes[0].typ != AssetImage {
		t.Fatalf("deletes = %+v", store.deletes)
	}
}

func TestDeleteAssetsRequiresIDs(t *testing.T) {
	store := &fakeMediaStore{}
	svc := NewMediaService(store, nil, "", "")
	for _, ids := range [][]string{nil, {}, {"", "  "}} {
		err := svc.DeleteAssets(context.Background(), "u1", ids)
		wantKind(t, err, apperr.KindValidation, "Missing assets IDs.")
	}
	if len(store.deletes) != 0 {
		t.Fatal("store must not be called")
	}
}
