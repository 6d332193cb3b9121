package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/mercato/server/internal/auth"
	"github.com/mercato/server/internal/middleware"
	"github.com/mercato/server/internal/model"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *auth.AuthService
	jwtService  *auth.JWTService
	devMode     bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.AuthService, jwtService *auth.JWTService, devMode bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtService:  jwtService,
		devMode:     devMode,
	}
}

// requestOTPRequest is the request body for POST /auth/request_otp
type requestOTPRequest struct {
	Email   string `json:"email"`
	Role    string `json:"role"`
	Purpose string `json:"purpose"`
}

// requestOTPResponse is the JSON response for request_otp
type requestOTPResponse struct {
	Message string `json:"message"`
	DevOTP  string `json:"dev_otp,omitempty"`
}

// verifyOTPRequest is the request body for POST /auth/verify_otp
type verifyOTPRequest struct {
	Email   string `json:"email"`
	Code    string `json:"code"`
	Purpose string `json:"purpose"`
}

// verifyOTPResponse is the JSON response for verify_otp
type verifyOTPResponse struct {
	Success bool         `json:"success"`
	User    userResponse `json:"user"`
}

// userResponse is the user object in API responses
type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// HandleRequestOTP handles POST /auth/request_otp. The code is delivered
// out-of-band; the response only echoes it in dev mode so tests can use it.
func (h *AuthHandler) HandleRequestOTP(w http.ResponseWriter, r *http.Request) {
	var req requestOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Purpose = strings.TrimSpace(req.Purpose)
	if req.Email == "" || req.Purpose == "" {
		respondWithError(w, http.StatusBadRequest, "email and purpose are required")
		return
	}

	role, err := model.ParseRole(req.Role)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "role must be BUYER or SELLER")
		return
	}

	code, err := h.authService.RequestOTP(r.Context(), req.Email, role, req.Purpose)
	if err != nil {
		logMaskedEmail(req.Email, "failed to request OTP: %v", err)
		respondWithError(w, http.StatusInternalServerError, "failed to request OTP")
		return
	}

	response := requestOTPResponse{Message: "otp_sent"}
	if h.devMode {
		response.DevOTP = code
	}
	respondWithJSON(w, http.StatusOK, response)
}

// HandleVerifyOTP handles POST /auth/verify_otp. On success the session
// token rides back on an HTTP-only cookie alongside the JSON body.
func (h *AuthHandler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Code = strings.TrimSpace(req.Code)
	req.Purpose = strings.TrimSpace(req.Purpose)
	if req.Email == "" || req.Code == "" || req.Purpose == "" {
		respondWithError(w, http.StatusBadRequest, "email, code and purpose are required")
		return
	}

	user, token, err := h.authService.VerifyOTPAndIssueSession(r.Context(), req.Email, req.Code, req.Purpose)
	if err != nil {
		h.respondVerifyError(w, req.Email, err)
		return
	}

	auth.IssueSessionCookie(w, token, h.jwtService.TTL())
	respondWithJSON(w, http.StatusOK, verifyOTPResponse{
		Success: true,
		User:    newUserResponse(&user),
	})
}

// respondVerifyError maps verification outcomes to status codes: 404 unknown
// user, 400 absent/expired OTP, 401 wrong code. Absent and expired OTPs share
// one message on purpose.
func (h *AuthHandler) respondVerifyError(w http.ResponseWriter, email string, err error) {
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, auth.ErrOTPNotFound), errors.Is(err, auth.ErrOTPExpired):
		respondWithError(w, http.StatusBadRequest, "OTP expired")
	case errors.Is(err, auth.ErrCodeMismatch):
		respondWithError(w, http.StatusUnauthorized, "wrong OTP")
	default:
		logMaskedEmail(email, "verification failed: %v", err)
		respondWithError(w, http.StatusInternalServerError, "verification failed")
	}
}

// HandleLogout handles POST /auth/logout. Always succeeds; the cookie is
// overwritten with an empty value expired at epoch.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.RevokeSessionCookie(w)
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleMe handles GET /me (protected). Returns the authenticated user.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok || user == nil {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]userResponse{"user": newUserResponse(user)})
}

// respondWithJSON sends a JSON response with the given status
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// respondWithError sends a JSON error response
func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{"error": message})
}

// logMaskedEmail logs a message with a masked email address
func logMaskedEmail(email, format string, args ...interface{}) {
	log.Printf("Email "+maskEmail(email)+": "+format, args...)
}

// maskEmail masks the local part of an email for logging (e.g. a****e@x.com)
func maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 1 {
		return "****"
	}
	local := email[:at]
	return local[:1] + strings.Repeat("*", len(local)-1) + email[at:]
}
