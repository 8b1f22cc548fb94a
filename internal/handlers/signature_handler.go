package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"scaffold-backend/internal/models"
	"scaffold-backend/internal/rental"
	"scaffold-backend/internal/services"
	"scaffold-backend/pkg/utils"
)

// SignatureHandler serves staff signature capture and the public signing link
type SignatureHandler struct {
	Service *services.SignatureService
}

func NewSignatureHandler(s *services.SignatureService) *SignatureHandler {
	return &SignatureHandler{Service: s}
}

// Sign accepts {"signer","signature"} with a data URI, or a multipart form
// with a "signer" field and a "signature" file
func (h *SignatureHandler) Sign(w http.ResponseWriter, r *http.Request) {
	contractID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var (
		result *models.SignatureResult
		err    error
	)
	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, rental.MaxAttachmentSize+maxFormMemory)
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}
		file, readErr := readUpload(r, "signature", rental.MaxAttachmentSize)
		if readErr != nil {
			utils.Error(w, http.StatusBadRequest, "signature file is required")
			return
		}
		result, err = h.Service.Sign(r.Context(), contractID, models.Signer(r.FormValue("signer")), file)
	} else {
		var req models.SignatureRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		result, err = h.Service.SignDataURI(r.Context(), contractID, &req)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

// CreateLink issues a public e-signature link for the customer
func (h *SignatureHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	contractID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	link, err := h.Service.CreateSigningLink(r.Context(), contractID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, link)
}

// PublicContract shows the contract behind a signing link
func (h *SignatureHandler) PublicContract(w http.ResponseWriter, r *http.Request) {
	v, err := h.Service.ResolveLink(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, v)
}

// PublicSign stores the customer signature sent through a signing link
func (h *SignatureHandler) PublicSign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Signature string `json:"signature"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.Service.SignWithLink(r.Context(), mux.Vars(r)["token"], req.Signature)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}
