package apitest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"sort"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/google/uuid"

	"github.com/iudanet/fishlog/internal/models"
	"github.com/iudanet/fishlog/pkg/api"
)

var errUnknownUser = errors.New("unknown user")

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[req.Username]
	s.mu.Unlock()
	if !ok || acc.password != req.Password {
		s.sendError(w, r, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if !acc.profile.Enabled || acc.profile.AccountLocked {
		s.sendError(w, r, http.StatusForbidden, "Account is disabled")
		return
	}

	s.mu.Lock()
	acc.profile.LastLoginAt = now()
	profile := acc.profile
	s.mu.Unlock()

	s.respondAuth(w, r, http.StatusOK, profile)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	var problems []string
	if req.Username == "" {
		problems = append(problems, "username: must not be blank")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		problems = append(problems, "email: must be a well-formed email address")
	}
	if len(req.Password) < 6 {
		problems = append(problems, "password: size must be at least 6")
	}
	if len(problems) > 0 {
		s.sendError(w, r, http.StatusBadRequest, "", problems...)
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[req.Username]; exists {
		s.mu.Unlock()
		s.sendError(w, r, http.StatusBadRequest, "Username already exists")
		return
	}
	profile := s.addUserLocked(req.Username, req.Email, req.Password, req.FullName, models.RoleUser)
	s.mu.Unlock()

	s.respondAuth(w, r, http.StatusCreated, profile)
}

func (s *Server) respondAuth(w http.ResponseWriter, r *http.Request, status int, profile models.UserProfile) {
	access, refresh, err := s.tokens.issue(profile)
	if err != nil {
		s.sendError(w, r, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	s.writeJSON(w, status, api.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         &profile,
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	users := make([]models.User, 0, len(s.accounts))
	for _, acc := range s.accounts {
		users = append(users, models.User{
			ID:       acc.profile.ID,
			Username: acc.profile.Username,
			FullName: acc.fullName,
			Email:    acc.profile.Email,
		})
	}
	s.mu.Unlock()

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	s.writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleListCaptures(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.filterCaptures(func(models.FishCapture) bool { return true }))
}

func (s *Server) handleListUserCaptures(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	s.mu.Lock()
	acc, ok := s.accounts[username]
	s.mu.Unlock()
	if !ok {
		s.sendError(w, r, http.StatusNotFound, fmt.Sprintf("User not found: %s", username))
		return
	}

	userID := acc.profile.ID
	s.writeJSON(w, http.StatusOK, s.filterCaptures(func(c models.FishCapture) bool { return c.UserID == userID }))
}

func (s *Server) filterCaptures(keep func(models.FishCapture) bool) []models.FishCapture {
	s.mu.Lock()
	defer s.mu.Unlock()

	captures := make([]models.FishCapture, 0, len(s.captures))
	for _, c := range s.captures {
		if keep(c) {
			captures = append(captures, c)
		}
	}
	sort.Slice(captures, func(i, j int) bool { return captures[i].ID < captures[j].ID })
	return captures
}

func (s *Server) handleGetCapture(w http.ResponseWriter, r *http.Request) {
	capture, ok := s.captureFromPath(w, r, "id")
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, capture)
}

func (s *Server) handleCreateCapture(w http.ResponseWriter, r *http.Request) {
	var capture models.FishCapture
	if err := json.NewDecoder(r.Body).Decode(&capture); err != nil {
		s.sendError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if capture.FishType == "" || capture.Weight <= 0 {
		s.sendError(w, r, http.StatusBadRequest, "", "fishType: must not be blank", "weight: must be greater than 0")
		return
	}

	claims := claimsFrom(r.Context())

	s.mu.Lock()
	capture.ID = s.nextCaptureID
	s.nextCaptureID++
	capture.UserID = claims.UserID
	capture.CreatedAt = now()
	s.captures[capture.ID] = capture
	s.mu.Unlock()

	s.writeJSON(w, http.StatusCreated, capture)
}

func (s *Server) handleUpdateCapture(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.ownedCapture(w, r, "id")
	if !ok {
		return
	}

	var update models.FishCapture
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.sendError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	update.ID = existing.ID
	update.UserID = existing.UserID
	update.CreatedAt = existing.CreatedAt

	s.mu.Lock()
	s.captures[update.ID] = update
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, update)
}

func (s *Server) handleDeleteCapture(w http.ResponseWriter, r *http.Request) {
	capture, ok := s.ownedCapture(w, r, "id")
	if !ok {
		return
	}

	s.mu.Lock()
	delete(s.captures, capture.ID)
	for id, rec := range s.images {
		if rec.captureID == capture.ID {
			delete(s.images, id)
		}
	}
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListImages(w http.ResponseWriter, r *http.Request) {
	capture, ok := s.captureFromPath(w, r, "captureId")
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, s.imagesOf(capture.ID))
}

func (s *Server) handleCountImages(w http.ResponseWriter, r *http.Request) {
	capture, ok := s.captureFromPath(w, r, "captureId")
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, api.CountResponse{Count: len(s.imagesOf(capture.ID))})
}

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	capture, ok := s.ownedCapture(w, r, "captureId")
	if !ok {
		return
	}

	images, ok := s.saveUploads(w, r, capture.ID, "file")
	if !ok {
		return
	}
	if len(images) != 1 {
		s.sendError(w, r, http.StatusBadRequest, "Exactly one file expected")
		return
	}
	s.writeJSON(w, http.StatusCreated, images[0])
}

func (s *Server) handleUploadImages(w http.ResponseWriter, r *http.Request) {
	capture, ok := s.ownedCapture(w, r, "captureId")
	if !ok {
		return
	}

	images, ok := s.saveUploads(w, r, capture.ID, "files")
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusCreated, api.ImageUploadResponse{
		Message:        fmt.Sprintf("Uploaded %d images", len(images)),
		UploadedImages: images,
		CaptureID:      capture.ID,
		TotalImages:    len(s.imagesOf(capture.ID)),
	})
}

// saveUploads сохраняет метаданные загруженных файлов; содержимое не хранится
func (s *Server) saveUploads(w http.ResponseWriter, r *http.Request, captureID int64, field string) ([]models.CaptureImage, bool) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.sendError(w, r, http.StatusBadRequest, "Invalid multipart body")
		return nil, false
	}

	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		s.sendError(w, r, http.StatusBadRequest, fmt.Sprintf("Required part '%s' is not present", field))
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	images := make([]models.CaptureImage, 0, len(headers))
	for _, fh := range headers {
		key := uuid.NewString()
		image := models.CaptureImage{
			ID:           s.nextImageID,
			FileName:     fh.Filename,
			FileSize:     fh.Size,
			MimeType:     fh.Header.Get("Content-Type"),
			OriginalURL:  "/uploads/" + key,
			ThumbnailURL: "/uploads/thumb_" + key,
			UploadedAt:   now(),
		}
		s.nextImageID++
		s.images[image.ID] = imageRecord{image: image, captureID: captureID}
		images = append(images, image)
	}
	return images, true
}

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.imageFromPath(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, rec.image)
}

func (s *Server) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.imageFromPath(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	delete(s.images, rec.image.ID)
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, api.ImageDeleteResponse{
		Message:   "Image deleted successfully",
		ImageID:   rec.image.ID,
		CaptureID: rec.captureID,
		Deleted:   true,
	})
}

func (s *Server) handleDeleteAllImages(w http.ResponseWriter, r *http.Request) {
	capture, ok := s.ownedCapture(w, r, "captureId")
	if !ok {
		return
	}

	s.mu.Lock()
	for id, rec := range s.images {
		if rec.captureID == capture.ID {
			delete(s.images, id)
		}
	}
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) imagesOf(captureID int64) []models.CaptureImage {
	s.mu.Lock()
	defer s.mu.Unlock()

	images := make([]models.CaptureImage, 0)
	for _, rec := range s.images {
		if rec.captureID == captureID {
			images = append(images, rec.image)
		}
	}
	sort.Slice(images, func(i, j int) bool { return images[i].ID < images[j].ID })
	return images
}

func (s *Server) captureFromPath(w http.ResponseWriter, r *http.Request, param string) (models.FishCapture, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		s.sendError(w, r, http.StatusBadRequest, "Invalid capture id")
		return models.FishCapture{}, false
	}

	s.mu.Lock()
	capture, ok := s.captures[id]
	s.mu.Unlock()
	if !ok {
		s.sendError(w, r, http.StatusNotFound, fmt.Sprintf("Fish capture not found with id: %d", id))
		return models.FishCapture{}, false
	}
	return capture, true
}

// ownedCapture дополнительно проверяет, что улов принадлежит вызывающему или тот ADMIN
func (s *Server) ownedCapture(w http.ResponseWriter, r *http.Request, param string) (models.FishCapture, bool) {
	capture, ok := s.captureFromPath(w, r, param)
	if !ok {
		return models.FishCapture{}, false
	}

	claims := claimsFrom(r.Context())
	if claims == nil || (claims.UserID != capture.UserID && claims.Role != models.RoleAdmin) {
		s.sendError(w, r, http.StatusForbidden, "You can only modify your own captures")
		return models.FishCapture{}, false
	}
	return capture, true
}

func (s *Server) imageFromPath(w http.ResponseWriter, r *http.Request) (imageRecord, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "imageId"), 10, 64)
	if err != nil {
		s.sendError(w, r, http.StatusBadRequest, "Invalid image id")
		return imageRecord{}, false
	}

	s.mu.Lock()
	rec, ok := s.images[id]
	s.mu.Unlock()
	if !ok {
		s.sendError(w, r, http.StatusNotFound, fmt.Sprintf("Image not found with id: %d", id))
		return imageRecord{}, false
	}
	return rec, true
}
