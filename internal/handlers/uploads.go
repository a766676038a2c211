package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "futspot/internal/errors"

	"github.com/gin-gonic/gin"
)

const (
	photoField    = "foto"
	maxPhotoBytes = 5 << 20
	// запас на заголовки multipart
	maxUploadBody = maxPhotoBytes + 1<<10
)

var errPhotoTooLarge = apperrors.Validation("A imagem deve ter no máximo 5 MB.")

// readPhoto reads the multipart image and sniffs its content type.
// The body is capped before parsing.
func readPhoto(c *gin.Context) ([]byte, string, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)

	fh, err := c.FormFile(photoField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || c.Request.ContentLength > maxUploadBody {
			return nil, "", errPhotoTooLarge
		}
		return nil, "", apperrors.Validation("Envie a imagem no campo foto.")
	}
	if fh.Size > maxPhotoBytes {
		return nil, "", errPhotoTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxPhotoBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > maxPhotoBytes {
		return nil, "", errPhotoTooLarge
	}
	return data, http.DetectContentType(data), nil
}

// UploadVenuePhoto - POST /api/uploads/locais/:id/fotos
func (h *Handlers) UploadVenuePhoto(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	data, contentType, err := readPhoto(c)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.services.Uploads.VenuePhoto(c.Request.Context(), principal(c).UserID, id, contentType, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// UploadProfilePhoto - POST /api/users/me/foto
func (h *Handlers) UploadProfilePhoto(c *gin.Context) {
	data, contentType, err := readPhoto(c)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.services.Uploads.ProfilePhoto(c.Request.Context(), principal(c).UserID, contentType, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
