package models

// FishCapture представляет запись об улове
type FishCapture struct {
	CaptureData string  `json:"captureData"`         // дата улова
	CreatedAt   string  `json:"createdAt,omitempty"` // заполняется сервером
	FishType    string  `json:"fishType"`
	Location    string  `json:"location,omitempty"`
	ID          int64   `json:"id"`
	Weight      float64 `json:"weight"`
	UserID      int64   `json:"userId"` // ссылка на владельца
}

// CaptureImage представляет фотографию, прикрепленную к улову
type CaptureImage struct {
	OriginalURL  string `json:"originalUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	FileName     string `json:"fileName"`
	MimeType     string `json:"mimeType"`
	UploadedAt   string `json:"uploadedAt"` // ISO 8601
	ID           int64  `json:"id"`
	FileSize     int64  `json:"fileSize"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}
