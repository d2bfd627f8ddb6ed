package v1

import (
	"net/http"
	"path/filepath"
	"strings"

	"kalabin-backend/pkg/logger"
	"kalabin-backend/pkg/storage"
	"kalabin-backend/pkg/utils"
)

var (
	allowedMimeTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
		"image/gif":  true,
	}
	allowedExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
		".gif":  true,
	}
)

type UploadHandler struct {
	storage       *storage.R2Storage
	maxUploadSize int64
}

func NewUploadHandler(s *storage.R2Storage, maxUploadSizeMB int64) *UploadHandler {
	return &UploadHandler{
		storage:       s,
		maxUploadSize: maxUploadSizeMB << 20, // Convert MB to bytes
	}
}

// UploadFile processes an image (resize + WebP) and stores it. The response
// carries both the storage key, which gallery entries persist, and the public
// URL for the admin preview.
func (h *UploadHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	log := logger.WithContext(r.Context())

	// 1. Parse Multipart Form with configurable limit
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		log.Warn().Err(err).Msg("upload: multipart parse failed")
		utils.WriteError(w, http.StatusBadRequest, "File too large or invalid format")
		return
	}

	// 2. Get File
	file, header, err := r.FormFile("file")
	if err != nil {
		log.Warn().Err(err).Msg("upload: missing file field")
		utils.WriteError(w, http.StatusBadRequest, "Invalid file")
		return
	}
	defer file.Close()

	// 3. Validate MIME Type
	contentType := header.Header.Get("Content-Type")
	if !allowedMimeTypes[contentType] {
		utils.WriteError(w, http.StatusBadRequest, "Invalid file type. Allowed: JPEG, PNG, WebP, GIF")
		return
	}

	// 4. Validate File Extension
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		utils.WriteError(w, http.StatusBadRequest, "Invalid file extension")
		return
	}

	// 5. Process Image (Resize + WebP)
	processedData, newContentType, err := utils.ProcessImage(file, header.Filename)
	if err != nil {
		log.Error().Err(err).Str("filename", header.Filename).Msg("upload: image processing failed")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to process image")
		return
	}

	// 6. Upload Processed Buffer to R2
	key, url, err := h.storage.UploadBuffer(r.Context(), processedData, newContentType)
	if err != nil {
		log.Error().Err(err).Msg("upload: R2 upload failed")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"key": key,
		"url": url,
	})
}

// DeleteFile handles DELETE /api/v1/admin/uploads, removing an object by key.
func (h *UploadHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		utils.WriteError(w, http.StatusBadRequest, "key is required")
		return
	}
	if err := h.storage.DeleteFile(r.Context(), key); err != nil {
		logger.WithContext(r.Context()).Error().Err(err).Str("key", key).Msg("upload: delete failed")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to delete file")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
