package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
)

// ImageConfig определяет ограничения на загружаемые фотографии улова
type ImageConfig struct {
	AllowedTypes        []string
	MaxFileSize         int64 // в байтах
	MaxImagesPerCapture int
}

// DefaultImageConfig совпадает с ограничениями сервера
var DefaultImageConfig = ImageConfig{
	MaxFileSize:         10 * 1024 * 1024, // 10MB
	MaxImagesPerCapture: 5,
	AllowedTypes:        []string{"image/jpeg", "image/png", "image/webp"},
}

// Image описывает файл перед загрузкой
type Image struct {
	Name        string
	ContentType string
	Size        int64
}

// ValidateImage проверяет размер и тип одного файла
func ValidateImage(cfg ImageConfig, img Image) error {
	if img.Size <= 0 {
		return fmt.Errorf("file %s is empty", img.Name)
	}

	if img.Size > cfg.MaxFileSize {
		return fmt.Errorf("file %s exceeds the maximum size of %s", img.Name, humanize.IBytes(uint64(cfg.MaxFileSize)))
	}

	// Content-Type может содержать параметры, например "image/png; charset=binary"
	mimeType, _, _ := strings.Cut(img.ContentType, ";")
	mimeType = strings.TrimSpace(strings.ToLower(mimeType))
	if !slices.Contains(cfg.AllowedTypes, mimeType) {
		return fmt.Errorf("file %s is not a valid image type. Allowed types: %s", img.Name, strings.Join(cfg.AllowedTypes, ", "))
	}

	return nil
}

// ValidateImages проверяет набор файлов для одного улова
func ValidateImages(cfg ImageConfig, images []Image) error {
	if len(images) == 0 {
		return fmt.Errorf("no files to upload")
	}

	if cfg.MaxImagesPerCapture > 0 && len(images) > cfg.MaxImagesPerCapture {
		return fmt.Errorf("at most %d images per capture, got %d", cfg.MaxImagesPerCapture, len(images))
	}

	for _, img := range images {
		if err := ValidateImage(cfg, img); err != nil {
			return err
		}
	}

	return nil
}
