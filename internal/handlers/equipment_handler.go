package handlers

import (
	"net/http"

	"scaffold-backend/internal/models"
	"scaffold-backend/internal/services"
	"scaffold-backend/pkg/utils"
)

// EquipmentHandler serves the equipment catalog. Writes are admin only.
type EquipmentHandler struct {
	Service *services.EquipmentService
}

func NewEquipmentHandler(s *services.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{Service: s}
}

func (h *EquipmentHandler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	var req models.EquipmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := h.Service.CreateEquipment(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, e)
}

func (h *EquipmentHandler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	e, err := h.Service.GetEquipment(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, e)
}

func (h *EquipmentHandler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListEquipment(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, items)
}

func (h *EquipmentHandler) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.EquipmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	e, err := h.Service.UpdateEquipment(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, e)
}

func (h *EquipmentHandler) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.DeleteEquipment(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
