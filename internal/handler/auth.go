package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxi/internal/service"
)

// AuthHandler handles admin authentication requests.
type AuthHandler struct {
	authService *service.AdminAuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AdminAuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// AdminLoginRequest is the HTTP request body for admin login.
type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdminLogin handles POST /auth/admin/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success": true,
		"token":   token,
	})
}

// PasswordResetRequestRequest is the HTTP request body for requesting a
// password reset code.
type PasswordResetRequestRequest struct {
	Username string `json:"username"`
}

// RequestPasswordReset handles POST /auth/admin/password-reset/request
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req PasswordResetRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Username); err != nil {
		respondError(c, err)
		return
	}

	// Same answer for known and unknown usernames.
	respondJSON(c, http.StatusOK, gin.H{
		"success": true,
		"message": "Falls das Konto existiert, wurde ein Bestätigungscode versendet",
	})
}

// PasswordResetVerifyRequest is the HTTP request body for verifying a
// reset code.
type PasswordResetVerifyRequest struct {
	Username string `json:"username"`
	Code     string `json:"code"`
}

// VerifyPasswordReset handles POST /auth/admin/password-reset/verify
func (h *AuthHandler) VerifyPasswordReset(c *gin.Context) {
	var req PasswordResetVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	token, err := h.authService.VerifyPasswordReset(c.Request.Context(), req.Username, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success":     true,
		"reset_token": token,
	})
}

// PasswordResetCompleteRequest is the HTTP request body for completing a
// password reset.
type PasswordResetCompleteRequest struct {
	ResetToken  string `json:"reset_token"`
	NewPassword string `json:"new_password"`
}

// CompletePasswordReset handles POST /auth/admin/password-reset/complete
func (h *AuthHandler) CompletePasswordReset(c *gin.Context) {
	var req PasswordResetCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.authService.CompletePasswordReset(c.Request.Context(), req.ResetToken, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success": true,
		"message": "Passwort erfolgreich geändert",
	})
}
