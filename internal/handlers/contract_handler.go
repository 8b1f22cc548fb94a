package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"scaffold-backend/internal/middleware"
	"scaffold-backend/internal/models"
	"scaffold-backend/internal/services"
	"scaffold-backend/pkg/utils"
)

type ContractHandler struct {
	Service *services.ContractService
}

func NewContractHandler(s *services.ContractService) *ContractHandler {
	return &ContractHandler{Service: s}
}

func (h *ContractHandler) CreateContract(w http.ResponseWriter, r *http.Request) {
	var draft models.ContractDraft
	if !decodeJSON(w, r, &draft) {
		return
	}

	v, err := h.Service.CreateContract(r.Context(), &draft, currentUserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, v)
}

func (h *ContractHandler) GetContract(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	v, err := h.Service.GetContract(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, v)
}

// ListContracts accepts status, customer_id, payment_status, overdue, q,
// limit and offset query parameters
func (h *ContractHandler) ListContracts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseContractFilter(r)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	views, err := h.Service.ListContracts(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, views)
}

func (h *ContractHandler) UpdateContract(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var draft models.ContractDraft
	if !decodeJSON(w, r, &draft) {
		return
	}

	v, err := h.Service.UpdateContract(r.Context(), id, &draft, currentUserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, v)
}

// ChangeStatus applies a lifecycle transition. Only admins may cancel.
func (h *ContractHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req models.StatusChangeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Status == models.StatusCancelled {
		if role, _ := middleware.GetRoleFromContext(r.Context()); role != models.RoleAdmin {
			utils.Error(w, http.StatusForbidden, "Forbidden: only admins can cancel contracts")
			return
		}
	}

	v, err := h.Service.ChangeStatus(r.Context(), id, &req, currentUserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, v)
}

func (h *ContractHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	v, err := h.Service.MarkDelivered(r.Context(), id, currentUserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, v)
}

func (h *ContractHandler) DeleteContract(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Service.DeleteContract(r.Context(), id, currentUserID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContractHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Service.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, d)
}

type badQuery string

func (e badQuery) Error() string { return "invalid query parameter: " + string(e) }

func parseContractFilter(r *http.Request) (models.ContractFilter, error) {
	q := r.URL.Query()
	filter := models.ContractFilter{
		Status:        models.ContractStatus(strings.ToUpper(q.Get("status"))),
		PaymentStatus: models.PaymentStatus(strings.ToUpper(q.Get("payment_status"))),
		Search:        strings.TrimSpace(q.Get("q")),
	}

	ints := map[string]*int{"customer_id": &filter.CustomerID, "limit": &filter.Limit, "offset": &filter.Offset}
	for name, dst := range ints {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filter, badQuery(name)
		}
		*dst = n
	}

	if raw := q.Get("overdue"); raw != "" {
		overdue, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, badQuery("overdue")
		}
		filter.OverdueOnly = overdue
	}
	return filter, nil
}
