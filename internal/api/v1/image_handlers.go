package v1

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/madhava-poojari/coursebook-api/internal/apperr"
	"github.com/madhava-poojari/coursebook-api/internal/service"
	"github.com/madhava-poojari/coursebook-api/internal/utils"
)

type UploadHandler struct {
	uploads *service.UploadService
	logger  *slog.Logger
}

func NewUploadHandler(uploads *service.UploadService, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{uploads: uploads, logger: logger}
}

// POST /upload
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	// Room for the multipart envelope on top of the image itself.
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxImageSize+(1<<20))
	if err := r.ParseMultipartForm(service.MaxImageSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.WriteError(w, h.logger, apperr.Wrap(apperr.ErrImageTooLarge, err))
			return
		}
		utils.WriteError(w, h.logger, apperr.Wrap(apperr.ErrValidation, err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.WriteError(w, h.logger, apperr.Wrap(apperr.ErrValidation, err))
		return
	}
	defer file.Close()

	url, err := h.uploads.SaveImage(r.Context(), header.Filename, header.Size, file)
	if err != nil {
		utils.WriteError(w, h.logger, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]string{"image_url": url})
}
