package api

import "github.com/iudanet/fishlog/internal/models"

// ImageUploadResponse представляет ответ на загрузку нескольких изображений
type ImageUploadResponse struct {
	Message        string                `json:"message"`
	UploadedImages []models.CaptureImage `json:"uploadedImages"`
	CaptureID      int64                 `json:"captureId"`
	TotalImages    int                   `json:"totalImages"`
}

// ImageDeleteResponse представляет ответ на удаление изображения
type ImageDeleteResponse struct {
	Message   string `json:"message"`
	ImageID   int64  `json:"imageId"`
	CaptureID int64  `json:"captureId"`
	Deleted   bool   `json:"deleted"`
}

// CountResponse представляет ответ с количеством изображений
type CountResponse struct {
	Count int `json:"count"`
}
