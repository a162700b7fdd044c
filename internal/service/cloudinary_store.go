package service

import (
	"context"
	"errors"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/iliyamo/timesheet-reporting/internal/config"
)

// CloudinaryStore is the MediaStore backed by Cloudinary.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	preset string
}

// NewCloudinaryStore builds a client from the media credentials.
func NewCloudinaryStore(cfg config.MediaConfig) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, err
	}
	cld.Config.URL.Secure = true
	return &CloudinaryStore{cld: cld, preset: cfg.UploadPreset}, nil
}

// Upload streams r to the host.
func (s *CloudinaryStore) Upload(ctx context.Context, r io.Reader, opts UploadOptions) (Uploaded, error) {
	params := uploader.UploadParams{
		Folder:         opts.Folder,
		PublicID:       opts.PublicID,
		UploadPreset:   s.preset,
		ResourceType:   string(opts.Type),
		Transformation: opts.Transformation,
	}
	res, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return Uploaded{}, err
	}
	if res.Error.Message != "" {
		return Uploaded{}, errors.New("cloudinary upload: " + res.Error.Message)
	}
	return Uploaded{PublicURL: res.SecureURL, PublicID: res.PublicID}, nil
}

// Delete removes ids of one resource class.
func (s *CloudinaryStore) Delete(ctx context.Context, ids []string, t AssetType) error {
	assetType := api.Image
	if t == AssetRaw {
		assetType = api.File
	}
	res, err := s.cld.Admin.DeleteAssets(ctx, admin.DeleteAssetsParams{
		AssetType:    assetType,
		DeliveryType: api.Upload,
		PublicIDs:    api.CldAPIArray(ids),
	})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New("cloudinary delete: " + res.Error.Message)
	}
	return nil
}
