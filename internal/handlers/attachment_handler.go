package handlers

import (
	"net/http"

	"scaffold-backend/internal/rental"
	"scaffold-backend/internal/services"
	"scaffold-backend/pkg/utils"
)

type AttachmentHandler struct {
	Service *services.AttachmentService
}

func NewAttachmentHandler(s *services.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{Service: s}
}

// Upload stores the multipart "file" with an optional "description"
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	contractID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, rental.MaxAttachmentSize+maxFormMemory)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, err := readUpload(r, "file", rental.MaxAttachmentSize)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "file is required")
		return
	}

	a, err := h.Service.Upload(r.Context(), contractID, file, r.FormValue("description"), currentUserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, a)
}

func (h *AttachmentHandler) List(w http.ResponseWriter, r *http.Request) {
	contractID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	attachments, err := h.Service.List(r.Context(), contractID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, attachments)
}

// Download redirects to a short-lived presigned URL. With ?redirect=false
// the URL is returned as JSON instead, and ?stream=true sends the file
// bytes directly.
func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	contractID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	id, ok := pathID(w, r, "attachmentID")
	if !ok {
		return
	}
	if r.URL.Query().Get("stream") == "true" {
		a, data, err := h.Service.Content(r.Context(), contractID, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.File(w, a.FileType, a.FileName, data)
		return
	}
	url, err := h.Service.DownloadURL(r.Context(), contractID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if r.URL.Query().Get("redirect") == "false" {
		utils.JSON(w, http.StatusOK, map[string]string{"url": url})
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	contractID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	id, ok := pathID(w, r, "attachmentID")
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), contractID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
