package handlers

import (
	"encoding/json"
	"net/http"

	"scaffold-backend/internal/models"
	"scaffold-backend/internal/rental"
	"scaffold-backend/internal/services"
	"scaffold-backend/pkg/utils"
)

type PaymentHandler struct {
	Service *services.PaymentService
}

func NewPaymentHandler(s *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{Service: s}
}

// RecordPayment accepts a JSON payment draft, or a multipart form with the
// draft in the "payment" field and an optional "check_image" file
func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	contractID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var draft models.PaymentDraft
	var checkImage *services.FileUpload
	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, rental.MaxAttachmentSize+maxFormMemory)
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}
		if err := json.Unmarshal([]byte(r.FormValue("payment")), &draft); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid payment field")
			return
		}
		if len(r.MultipartForm.File["check_image"]) > 0 {
			upload, err := readUpload(r, "check_image", rental.MaxAttachmentSize)
			if err != nil {
				utils.Error(w, http.StatusBadRequest, "Unable to read check image")
				return
			}
			checkImage = upload
		}
	} else if !decodeJSON(w, r, &draft) {
		return
	}
	// Stored keys are only ever assigned by the server
	draft.CheckImageKey = ""

	result, err := h.Service.RecordPayment(r.Context(), contractID, &draft, checkImage, currentUserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, result)
}

func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	contractID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	payments, err := h.Service.ListPayments(r.Context(), contractID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, payments)
}

func (h *PaymentHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	contractID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	paymentID, ok := pathID(w, r, "paymentID")
	if !ok {
		return
	}
	v, err := h.Service.DeletePayment(r.Context(), contractID, paymentID, currentUserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, v)
}
