package authhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"intranet/internal/domain/audit"
	"intranet/internal/domain/auth"
	"intranet/internal/domain/profile"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
	"intranet/internal/transport/http/shared"
)

const sessionTTL = 8 * time.Hour

type Handler struct {
	Store       *auth.Store
	Profiles    *profile.Service
	Audit       *audit.Service
	Secret      string
	OrgDomain   string
	AllowSignup bool
}

func NewHandler(store *auth.Store, profiles *profile.Service, auditSvc *audit.Service, secret, orgDomain string, allowSignup bool) *Handler {
	return &Handler{
		Store:       store,
		Profiles:    profiles,
		Audit:       auditSvc,
		Secret:      secret,
		OrgDomain:   orgDomain,
		AllowSignup: allowSignup,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
	r.Post("/auth/signup", h.HandleSignup)
	r.Post("/auth/logout", h.HandleLogout)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if err := auth.EnforceDomain(email, h.OrgDomain); err != nil {
		api.Fail(w, http.StatusForbidden, "domain_not_allowed", "email domain is not allowed", middleware.GetRequestID(r.Context()))
		return
	}

	user, err := h.Store.FindActiveUserByEmail(r.Context(), email)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.GetRequestID(r.Context()))
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.GetRequestID(r.Context()))
		return
	}

	prof, err := h.Profiles.Resolve(r.Context(), user.ID, user.Email, user.FullName)
	if err != nil {
		api.FailStorage(w, err, "profile_error", "failed to resolve profile", middleware.GetRequestID(r.Context()))
		return
	}

	sessionID := uuid.NewString()
	if err := h.Store.CreateSession(r.Context(), user.ID, sessionID, time.Now().Add(sessionTTL)); err != nil {
		api.FailStorage(w, err, "session_error", "failed to start session", middleware.GetRequestID(r.Context()))
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{UserID: user.ID, RoleName: prof.Role, SessionID: sessionID}, sessionTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Store.UpdateLastLogin(r.Context(), user.ID); err != nil {
		slog.Warn("update last_login failed", "userId", user.ID, "err", err)
	}
	if err := h.Audit.Record(r.Context(), user.ID, "auth.login", "user", user.ID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil); err != nil {
		slog.Warn("audit auth.login failed", "err", err)
	}

	api.Success(w, map[string]any{
		"token":   token,
		"profile": prof,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if !h.AllowSignup {
		api.Fail(w, http.StatusForbidden, "signup_disabled", "self signup is disabled", middleware.GetRequestID(r.Context()))
		return
	}

	var payload signupRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "email is required")
	if len(payload.Password) < 8 {
		v.Add("password", "must be at least 8 characters")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if err := auth.EnforceDomain(email, h.OrgDomain); err != nil {
		if errors.Is(err, auth.ErrInvalidDomain) {
			api.Fail(w, http.StatusForbidden, "domain_not_allowed", "email domain is not allowed", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid email", middleware.GetRequestID(r.Context()))
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "signup_failed", "failed to create account", middleware.GetRequestID(r.Context()))
		return
	}

	userID, err := h.Store.CreateUser(r.Context(), email, hash)
	if err != nil {
		// Unique violation on email lands here. Do not leak which.
		api.Fail(w, http.StatusConflict, "signup_failed", "account could not be created", middleware.GetRequestID(r.Context()))
		return
	}

	prof, err := h.Profiles.Resolve(r.Context(), userID, email, payload.FullName)
	if err != nil {
		api.FailStorage(w, err, "profile_error", "failed to provision profile", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), userID, "auth.signup", "user", userID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil); err != nil {
		slog.Warn("audit auth.signup failed", "err", err)
	}

	api.Created(w, prof, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if user, ok := middleware.GetUser(r.Context()); ok && user.SessionID != "" {
		if err := h.Store.RevokeSession(r.Context(), user.SessionID); err != nil {
			slog.Warn("logout session revoke failed", "userId", user.UserID, "err", err)
		}
	}
	api.Success(w, map[string]string{"status": "logged_out"}, middleware.GetRequestID(r.Context()))
}
