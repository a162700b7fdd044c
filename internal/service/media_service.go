package service

import (
	"context"
	"io"
	"strings"

	"github.com/iliyamo/timesheet-reporting/internal/apperr"
	"github.com/iliyamo/timesheet-reporting/internal/queue"
)

// AssetType is the media host's resource class.  PDFs are stored as raw
// files, everything else as images.
type AssetType string

const (
	AssetImage AssetType = "image"
	AssetRaw   AssetType = "raw"
)

// AllowedImageTypes are the accepted upload MIME types.
var AllowedImageTypes = []string{"image/jpg", "image/jpeg", "image/png"}

// imageLimit keeps uploads within 1080x1080 while preserving aspect ratio.
const imageLimit = "c_limit,h_1080,w_1080"

// UploadOptions describes where and how an asset is stored.
type UploadOptions struct {
	Folder         string
	PublicID       string
	Type           AssetType
	Transformation string
}

// Uploaded identifies a stored asset.
type Uploaded struct {
	PublicURL string `json:"publicUrl"`
	PublicID  string `json:"publicId"`
}

// MediaStore is the media host.
type MediaStore interface {
	Upload(ctx context.Context, r io.Reader, opts UploadOptions) (Uploaded, error)
	Delete(ctx context.Context, ids []string, t AssetType) error
}

// MediaService validates uploads and deletions before handing them to the
// media host.
type MediaService struct {
	store        MediaStore
	events       Publisher
	imageFolder  string
	reportFolder string
}

// NewMediaService wires the service.  Empty folder names fall back to
// "images" and "reports".
func NewMediaService(store MediaStore, events Publisher, imageFolder, reportFolder string) *MediaService {
	if events == nil {
		events = NopPublisher
	}
	if imageFolder == "" {
		imageFolder = "images"
	}
	if reportFolder == "" {
		reportFolder = "reports"
	}
	return &MediaService{store: store, events: events, imageFolder: imageFolder, reportFolder: reportFolder}
}

// UploadImage stores a JPG or PNG image.
func (m *MediaService) UploadImage(ctx context.Context, contentType string, r io.Reader) (Uploaded, error) {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType == "" {
		return Uploaded{}, apperr.Validation("File type is missing or invalid.")
	}
	if !IsAllowedImageType(contentType) {
		return Uploaded{}, apperr.Validation("Only JPG,JPEG, and PNG images are allowed.")
	}
	up, err := m.store.Upload(ctx, r, UploadOptions{
		Folder:         m.imageFolder,
		Type:           AssetImage,
		Transformation: imageLimit,
	})
	if err != nil {
		return Uploaded{}, apperr.Internal(err)
	}
	return up, nil
}

// UploadReport stores a rendered PDF as a raw asset named publicID inside
// the report folder.
func (m *MediaService) UploadReport(ctx context.Context, r io.Reader, publicID string) (Uploaded, error) {
	up, err := m.store.Upload(ctx, r, UploadOptions{
		Folder:   m.reportFolder,
		PublicID: publicID,
		Type:     AssetRaw,
	})
	if err != nil {
		return Uploaded{}, apperr.Internal(err)
	}
	return up, nil
}

// DeleteAssets removes the given assets.  Report PDFs and images live in
// separate resource classes on the host, so the ids are split first and
// each group is deleted with one call.
func (m *MediaService) DeleteAssets(ctx context.Context, userID string, ids []string) error {
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			cleaned = append(cleaned, id)
		}
	}
	if len(cleaned) == 0 {
		return apperr.Validation("Missing assets IDs.")
	}

	reports, images := m.SplitAssetIDs(cleaned)
	if len(reports) > 0 {
		if err := m.store.Delete(ctx, reports, AssetRaw); err != nil {
			return apperr.Internal(err)
		}
	}
	if len(images) > 0 {
		if err := m.store.Delete(ctx, images, AssetImage); err != nil {
			return apperr.Internal(err)
		}
	}

	ev := queue.Event{
		Type:   queue.EventAssetsDeleted,
		UserID: userID,
		Attrs:  map[string]string{"ids": strings.Join(cleaned, ",")},
	}
	publishEvent(ctx, m.events, ev)
	return nil
}

// SplitAssetIDs separates report PDFs (<reportFolder>/*.pdf) from images.
func (m *MediaService) SplitAssetIDs(ids []string) (reports, images []string) {
	prefix := m.reportFolder + "/"
	for _, id := range ids {
		if strings.HasPrefix(id, prefix) && strings.HasSuffix(id, ".pdf") {
			reports = append(reports, id)
		} else {
			images = append(images, id)
		}
	}
	return reports, images
}

// IsAllowedImageType reports whether contentType is an accepted image type.
func IsAllowedImageType(contentType string) bool {
	for _, t := range AllowedImageTypes {
		if contentType == t {
			return true
		}
	}
	return false
}
