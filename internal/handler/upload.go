package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/timesheet-reporting/internal/apperr"
	"github.com/iliyamo/timesheet-reporting/internal/service"
)

// maxImageBytes bounds one uploaded image.
const maxImageBytes = 10 << 20

// Media is the media service used by UploadHandler.
type Media interface {
	UploadImage(ctx context.Context, contentType string, r io.Reader) (service.Uploaded, error)
	DeleteAssets(ctx context.Context, userID string, ids []string) error
}

// UploadHandler serves /upload.
type UploadHandler struct {
	Media Media
}

func NewUploadHandler(m Media) *UploadHandler { return &UploadHandler{Media: m} }

type deleteAssetsReq struct {
	AssetsIDs []string `json:"assetsIds" validate:"omitempty,dive,required,notblank"`
}

// Image stores the multipart field "image" and returns its public URL and id.
func (h *UploadHandler) Image(c echo.Context, _ service.Identity) error {
	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, maxImageBytes+1<<20)
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return apperr.Validation("Image is required.")
		}
		return apperr.Validation("Invalid image file.")
	}
	if fh.Size > maxImageBytes {
		return apperr.Validation("Invalid image file.")
	}
	f, err := fh.Open()
	if err != nil {
		return apperr.Validation("Invalid image file.")
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	up, err := h.Media.UploadImage(ctx, fh.Header.Get(echo.HeaderContentType), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, up)
}

// DeleteAssets removes uploaded images and generated reports by public id.
func (h *UploadHandler) DeleteAssets(c echo.Context, id service.Identity) error {
	var req deleteAssetsReq
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	if err := h.Media.DeleteAssets(ctx, id.User.ID, req.AssetsIDs); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResp{Message: "Assets deleted successfully."})
}
