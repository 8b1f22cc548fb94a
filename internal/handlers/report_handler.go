package handlers

import (
	"fmt"
	"net/http"

	"scaffold-backend/internal/services"
	"scaffold-backend/internal/timeutil"
	"scaffold-backend/pkg/utils"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

// ContractStatement downloads the statement PDF of one contract
func (h *ReportHandler) ContractStatement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	data, filename, err := h.Service.ContractStatementPDF(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.File(w, "application/pdf", filename, data)
}

// OverdueCSV downloads every overdue ACTIVE contract
func (h *ReportHandler) OverdueCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.OverdueCSV(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	filename := fmt.Sprintf("overdue_contracts_%s.csv", timeutil.Today().Format("2006-01-02"))
	utils.File(w, "text/csv", filename, data)
}
