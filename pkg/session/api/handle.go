package api

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/jinzhu/copier"

	"github.com/doccollab/doccollab/pkg/errors"
	"github.com/doccollab/doccollab/pkg/session"
	"github.com/doccollab/doccollab/pkg/token"
)

// SessionHandler exposes the session state machine over HTTP.
type SessionHandler struct {
	service    *session.SessionService
	jwtService *token.JwtService
}

// NewSessionHandler creates a new session API handler
func NewSessionHandler(service *session.SessionService, jwtService *token.JwtService) *SessionHandler {
	return &SessionHandler{
		service:    service,
		jwtService: jwtService,
	}
}

// Signup handles POST /signup
func (h *SessionHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "invalid request body"))
		return
	}

	account, err := h.service.SignUp(r.Context(), session.SignUpParams{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	h.renderAuthenticated(w, r, http.StatusCreated, account)
}

// Login handles POST /login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "invalid request body"))
		return
	}

	result, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	if result.RequiresTwoFactor {
		render.Status(r, http.StatusAccepted)
		render.JSON(w, r, LoginResponse{
			Status:            string(result.Status),
			RequiresTwoFactor: true,
		})
		return
	}

	h.renderAuthenticated(w, r, http.StatusOK, *result.Account)
}

// VerifyTwoFactor handles POST /2fa/verify
func (h *SessionHandler) VerifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req TwoFactorVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "invalid request body"))
		return
	}

	account, err := h.service.ConfirmTwoFactor(r.Context(), req.Code)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	h.renderAuthenticated(w, r, http.StatusOK, account)
}

// CancelTwoFactor handles POST /2fa/cancel
func (h *SessionHandler) CancelTwoFactor(w http.ResponseWriter, r *http.Request) {
	h.service.CancelTwoFactor()
	render.Status(r, http.StatusOK)
	render.JSON(w, r, MessageResponse{Message: "Two-factor challenge cancelled"})
}

// Logout handles POST /logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.service.SignOut()
	render.Status(r, http.StatusOK)
	render.JSON(w, r, MessageResponse{Message: "Signed out"})
}

// Me handles GET /me
func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	account, ok := h.service.Current()
	if !ok {
		renderError(w, r, http.StatusUnauthorized, errors.New(errors.ErrCodeNotAuthenticated, "not authenticated"))
		return
	}

	resp := toAccountResponse(account)
	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

// SetupTwoFactor handles POST /2fa/setup
func (h *SessionHandler) SetupTwoFactor(w http.ResponseWriter, r *http.Request) {
	material, err := h.service.BeginEnrollment(r.Context())
	if err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, TwoFactorSetupResponse{
		Secret:          material.Secret,
		ProvisioningURI: material.ProvisioningURI,
		QRImage:         base64.StdEncoding.EncodeToString(material.QRImage),
		BackupCodes:     material.BackupCodes,
	})
}

// EnableTwoFactor handles POST /2fa/enable
func (h *SessionHandler) EnableTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req TwoFactorEnableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, http.StatusBadRequest, errors.New(errors.ErrCodeInvalidInput, "invalid request body"))
		return
	}

	material := session.EnrollmentMaterial{
		Secret:      req.Secret,
		BackupCodes: req.BackupCodes,
	}
	if err := h.service.ConfirmEnrollment(r.Context(), material, req.Code); err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, MessageResponse{Message: "Two-factor authentication enabled"})
}

// DisableTwoFactor handles DELETE /2fa
func (h *SessionHandler) DisableTwoFactor(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DisableTwoFactor(r.Context()); err != nil {
		renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, MessageResponse{Message: "Two-factor authentication disabled"})
}

func (h *SessionHandler) renderAuthenticated(w http.ResponseWriter, r *http.Request, status int, account session.Account) {
	access, err := h.jwtService.GenerateAccessToken(account.ID, account.Email, account.Username)
	if err != nil {
		slog.Error("Failed to generate access token", "accountId", account.ID, "err", err)
		renderError(w, r, http.StatusInternalServerError, errors.New(errors.ErrCodeInternal, "failed to issue access token"))
		return
	}

	resp := toAccountResponse(account)
	render.Status(r, status)
	render.JSON(w, r, LoginResponse{
		Status:      string(session.StatusAuthenticated),
		AccessToken: access.Token,
		ExpiresAt:   &access.Expiry,
		Account:     &resp,
	})
}

func toAccountResponse(account session.Account) AccountResponse {
	var resp AccountResponse
	if err := copier.Copy(&resp, &account); err != nil {
		slog.Error("Failed to copy account fields", "err", err)
	}
	resp.ID = account.ID.String()
	return resp
}

func renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	renderError(w, r, errors.MapErrorCodeToHTTPStatus(errors.GetCode(err)), err)
}

func renderError(w http.ResponseWriter, r *http.Request, status int, err error) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{
		Error:   err.Error(),
		Code:    string(errors.GetCode(err)),
		Details: errors.GetDetails(err),
	})
}

// Handler returns a http.Handler for the session API
func Handler(h *SessionHandler) http.Handler {
	r := chi.NewRouter()

	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Post("/2fa/verify", h.VerifyTwoFactor)
	r.Post("/2fa/cancel", h.CancelTwoFactor)
	r.Post("/2fa/setup", h.SetupTwoFactor)
	r.Post("/2fa/enable", h.EnableTwoFactor)
	r.Delete("/2fa", h.DisableTwoFactor)
	r.Post("/logout", h.Logout)
	r.Get("/me", h.Me)

	return r
}
