package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// MediaConfig holds the credentials of the media host that stores uploaded
// images and generated reports.
type MediaConfig struct {
	CloudName    string `env:"CLOUDINARY_CLOUD_NAME,required,notEmpty"`
	APIKey       string `env:"CLOUDINARY_API_KEY,required,notEmpty"`
	APISecret    string `env:"CLOUDINARY_API_SECRET,required,notEmpty"`
	UploadPreset string `env:"CLOUDINARY_UPLOAD_PRESET_NAME"`
	ImageFolder  string `env:"CLOUDINARY_IMAGE_FOLDER" envDefault:"images"`
	ReportFolder string `env:"CLOUDINARY_REPORT_FOLDER" envDefault:"reports"`
}

// LoadMediaConfig parses MediaConfig from the environment.  Call it after
// Load so that values from .env are visible.
func LoadMediaConfig() (MediaConfig, error) {
	var cfg MediaConfig
	if err := env.Parse(&cfg); err != nil {
		return MediaConfig{}, fmt.Errorf("media config: %w", err)
	}
	return cfg, nil
}
