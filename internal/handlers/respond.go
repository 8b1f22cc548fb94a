package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"scaffold-backend/internal/auth"
	"scaffold-backend/internal/middleware"
	"scaffold-backend/internal/rental"
	"scaffold-backend/internal/services"
	"scaffold-backend/pkg/utils"
)

// maxFormMemory bounds the multipart form kept in memory
const maxFormMemory = 32 << 20

var httpLog = logrus.WithField("component", "http")

// writeError maps an error class to its HTTP status and body
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		utils.Error(w, http.StatusUnauthorized, err.Error())
		return
	case errors.Is(err, services.ErrUserSuspended):
		utils.Error(w, http.StatusForbidden, err.Error())
		return
	}

	switch services.ErrorClass(err) {
	case "validation":
		utils.FieldErrors(w, http.StatusUnprocessableEntity, "validation failed", rental.FieldErrors(err))
	case "conflict", "invariant":
		utils.FieldErrors(w, http.StatusConflict, err.Error(), rental.FieldErrors(err))
	case "not_found":
		utils.Error(w, http.StatusNotFound, err.Error())
	case "external":
		httpLog.WithError(err).WithField("path", r.URL.Path).Warn("External dependency failed")
		utils.Error(w, http.StatusServiceUnavailable, "a storage dependency is unavailable, try again")
	default:
		httpLog.WithError(err).WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path}).Error("Request failed")
		utils.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// pathID reads an integer route variable
func pathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		utils.Error(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s", name))
		return 0, false
	}
	return id, true
}

func currentUserID(r *http.Request) int {
	id, _ := middleware.GetUserIDFromContext(r.Context())
	return id
}

// readUpload reads the named multipart file. Reads stop one byte past
// limit so oversized files still reach the size check.
func readUpload(r *http.Request, field string, limit int64) (*services.FileUpload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, err
	}
	return &services.FileUpload{
		Name:        filepath.Base(header.Filename),
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
