package handlers

import (
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"scaffold-backend/internal/models"
	"scaffold-backend/internal/services"
	"scaffold-backend/pkg/utils"
)

type AuthHandler struct {
	Service *services.UserService
}

func NewAuthHandler(s *services.UserService) *AuthHandler {
	return &AuthHandler{Service: s}
}

// Login handles staff authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	authResp, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		httpLog.WithFields(logrus.Fields{"email": req.Email, "ip": getIPAddress(r)}).Info("Login rejected")
		writeError(w, r, err)
		return
	}

	httpLog.WithFields(logrus.Fields{"user_id": authResp.User.ID, "ip": getIPAddress(r)}).Info("Login succeeded")
	utils.JSON(w, http.StatusOK, authResp)
}

// getIPAddress extracts the client address, preferring proxy headers
func getIPAddress(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		return strings.TrimSpace(ips[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	ip := r.RemoteAddr
	if i := strings.LastIndex(ip, ":"); i != -1 {
		ip = ip[:i]
	}
	return ip
}
