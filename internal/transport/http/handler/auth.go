package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dealer-api/internal/application/auth"
	"github.com/dealer-api/internal/domain"
	"github.com/dealer-api/internal/pkg/validate"
	"github.com/dealer-api/internal/transport/http/middleware"
)

// AuthHandler exposes the register, login and password-reset endpoints.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.svc.Register(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "User registered successfully", map[string]string{"token": token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.svc.Login(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Login successful", map[string]string{"token": token})
}

// VerifyToken echoes the claims of the bearer token attached by the auth
// middleware. Reaching this handler means verification already succeeded.
func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Missing or invalid token")
		return
	}

	writeSuccess(w, http.StatusOK, "Token is valid", map[string]interface{}{"user": claims})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.svc.ForgotPassword(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "OTP sent successfully", map[string]string{"token": token})
}

func (h *AuthHandler) ValidateOTP(w http.ResponseWriter, r *http.Request) {
	var req domain.ValidateOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	resetToken, err := h.svc.ValidateOTP(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "OTP validated successfully", map[string]string{"resettoken": resetToken})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.ResetPassword(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Password reset successfully", nil)
}
