package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/iudanet/fishlog/internal/models"
	"github.com/iudanet/fishlog/internal/validation"
	"github.com/iudanet/fishlog/pkg/api"
)

// ImagesPath - корень API изображений
const ImagesPath = "/api/captures"

// ImageFile описывает файл для загрузки
type ImageFile struct {
	Content     io.Reader
	Name        string
	ContentType string
	Size        int64
}

func (f ImageFile) image() validation.Image {
	return validation.Image{Name: f.Name, ContentType: f.ContentType, Size: f.Size}
}

// UploadImage загружает одно изображение к улову
func (c *Client) UploadImage(ctx context.Context, captureID int64, file ImageFile) (*models.CaptureImage, error) {
	// Валидируем до отправки
	if err := validation.ValidateImage(c.images, file.image()); err != nil {
		return nil, err
	}

	body, contentType, err := multipartBody("file", []ImageFile{file})
	if err != nil {
		return nil, err
	}

	var image models.CaptureImage
	path := fmt.Sprintf("%s/%d/images", ImagesPath, captureID)
	if err := c.do(ctx, http.MethodPost, path, contentType, body, &image); err != nil {
		return nil, fmt.Errorf("upload image request failed: %w", err)
	}
	return &image, nil
}

// UploadImages загружает несколько изображений одним запросом
func (c *Client) UploadImages(ctx context.Context, captureID int64, files []ImageFile) (*api.ImageUploadResponse, error) {
	images := make([]validation.Image, 0, len(files))
	for _, f := range files {
		images = append(images, f.image())
	}
	if err := validation.ValidateImages(c.images, images); err != nil {
		return nil, err
	}

	body, contentType, err := multipartBody("files", files)
	if err != nil {
		return nil, err
	}

	var resp api.ImageUploadResponse
	path := fmt.Sprintf("%s/%d/images/multiple", ImagesPath, captureID)
	if err := c.do(ctx, http.MethodPost, path, contentType, body, &resp); err != nil {
		return nil, fmt.Errorf("upload images request failed: %w", err)
	}
	return &resp, nil
}

// ListImages возвращает все изображения улова
func (c *Client) ListImages(ctx context.Context, captureID int64) ([]models.CaptureImage, error) {
	var images []models.CaptureImage
	path := fmt.Sprintf("%s/%d/images", ImagesPath, captureID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &images); err != nil {
		return nil, fmt.Errorf("list images request failed: %w", err)
	}
	return images, nil
}

// GetImage возвращает изображение по ID
func (c *Client) GetImage(ctx context.Context, imageID int64) (*models.CaptureImage, error) {
	var image models.CaptureImage
	if err := c.doJSON(ctx, http.MethodGet, imagePath(imageID), nil, &image); err != nil {
		return nil, fmt.Errorf("get image request failed: %w", err)
	}
	return &image, nil
}

// DeleteImage удаляет изображение
func (c *Client) DeleteImage(ctx context.Context, imageID int64) (*api.ImageDeleteResponse, error) {
	var resp api.ImageDeleteResponse
	if err := c.doJSON(ctx, http.MethodDelete, imagePath(imageID), nil, &resp); err != nil {
		return nil, fmt.Errorf("delete image request failed: %w", err)
	}
	return &resp, nil
}

// DeleteAllImages удаляет все изображения улова
func (c *Client) DeleteAllImages(ctx context.Context, captureID int64) error {
	path := fmt.Sprintf("%s/%d/images", ImagesPath, captureID)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete images request failed: %w", err)
	}
	return nil
}

// CountImages возвращает количество изображений улова
func (c *Client) CountImages(ctx context.Context, captureID int64) (int, error) {
	var resp api.CountResponse
	path := fmt.Sprintf("%s/%d/images/count", ImagesPath, captureID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return 0, fmt.Errorf("count images request failed: %w", err)
	}
	return resp.Count, nil
}

func imagePath(imageID int64) string {
	return fmt.Sprintf("%s/images/%d", ImagesPath, imageID)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// multipartBody собирает multipart/form-data тело; все файлы идут под одним полем
func multipartBody(field string, files []ImageFile) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, quoteEscaper.Replace(f.Name)))
		header.Set("Content-Type", f.ContentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create multipart part: %w", err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}
