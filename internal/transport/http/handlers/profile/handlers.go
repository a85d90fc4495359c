package profilehandler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"intranet/internal/domain/audit"
	"intranet/internal/domain/auth"
	"intranet/internal/domain/notifications"
	"intranet/internal/domain/profile"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
	"intranet/internal/transport/http/shared"
)

const maxAvatarBytes = 1 << 20

type Handler struct {
	Service *profile.Service
	Notify  *notifications.Service
	Audit   *audit.Service
}

func NewHandler(service *profile.Service, notify *notifications.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/profiles", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermProfilesRead)).Get("/", h.handleDirectory)
		r.With(middleware.RequirePermission(auth.PermProfilesRead)).Get("/me", h.handleMe)
		r.With(middleware.RequirePermission(auth.PermProfilesRead)).Put("/me", h.handleUpdateMe)
		r.With(middleware.RequirePermission(auth.PermProfilesRead)).Post("/me/avatar", h.handleUploadAvatar)
		r.With(middleware.RequirePermission(auth.PermProfilesRead)).Get("/{profileID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermProfilesRead)).Get("/{profileID}/avatar", h.handleAvatar)
		r.With(middleware.RequirePermission(auth.PermProfilesManage)).Put("/{profileID}/role", h.handleChangeRole)
		r.With(middleware.RequirePermission(auth.PermProfilesManage)).Put("/{profileID}/manager", h.handleAssignManager)
	})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	prof, err := h.Service.Get(r.Context(), user.UserID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "profile not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.FailStorage(w, err, "profile_get_failed", "failed to load profile", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, prof, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload profile.SelfUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	prof, err := h.Service.UpdateSelf(r.Context(), user.UserID, payload)
	if err != nil {
		api.FailStorage(w, err, "profile_update_failed", "failed to update profile", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, prof, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDirectory(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	profiles, total, err := h.Service.Directory(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.FailStorage(w, err, "directory_failed", "failed to list profiles", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"profiles": profiles, "total": total}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	prof, err := h.Service.Get(r.Context(), chi.URLParam(r, "profileID"))
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "profile not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.FailStorage(w, err, "profile_get_failed", "failed to load profile", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, prof, middleware.GetRequestID(r.Context()))
}

type roleChangeRequest struct {
	Role string `json:"role"`
}

func (h *Handler) handleChangeRole(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload roleChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	actor, err := h.Service.Get(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "actor profile not found", middleware.GetRequestID(r.Context()))
		return
	}

	targetID := chi.URLParam(r, "profileID")
	result, err := h.Service.ChangeRole(r.Context(), actor, targetID, payload.Role)
	if err != nil {
		switch {
		case errors.Is(err, profile.ErrForbidden):
			api.Fail(w, http.StatusForbidden, "forbidden", "not allowed to change roles", middleware.GetRequestID(r.Context()))
		case errors.Is(err, profile.ErrInvalidRole):
			api.Fail(w, http.StatusBadRequest, "invalid_role", "unknown role", middleware.GetRequestID(r.Context()))
		case errors.Is(err, profile.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "profile not found", middleware.GetRequestID(r.Context()))
		default:
			api.FailStorage(w, err, "role_change_failed", "failed to change role", middleware.GetRequestID(r.Context()))
		}
		return
	}

	if result.Changed {
		if err := h.Audit.Record(r.Context(), user.UserID, "profile.role.change", "profile", targetID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), map[string]string{"role": result.Profile.Role}); err != nil {
			slog.Warn("audit profile.role.change failed", "err", err)
		}
		if err := h.Notify.Notify(r.Context(), targetID, notifications.TypeRoleChanged, "Your role changed", "Your portal role is now "+result.Profile.Role+"."); err != nil {
			slog.Warn("role change notification failed", "err", err)
		}
	}

	api.Success(w, map[string]any{"profile": result.Profile, "changed": result.Changed}, middleware.GetRequestID(r.Context()))
}

type managerRequest struct {
	ManagerID string `json:"managerId"`
}

func (h *Handler) handleAssignManager(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload managerRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	actor, err := h.Service.Get(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "actor profile not found", middleware.GetRequestID(r.Context()))
		return
	}

	targetID := chi.URLParam(r, "profileID")
	if err := h.Service.AssignManager(r.Context(), actor, targetID, payload.ManagerID); err != nil {
		switch {
		case errors.Is(err, profile.ErrForbidden):
			api.Fail(w, http.StatusForbidden, "forbidden", "not allowed to assign managers", middleware.GetRequestID(r.Context()))
		case errors.Is(err, profile.ErrInvalidManager):
			api.Fail(w, http.StatusBadRequest, "invalid_manager", "invalid manager assignment", middleware.GetRequestID(r.Context()))
		case errors.Is(err, profile.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "profile not found", middleware.GetRequestID(r.Context()))
		default:
			api.FailStorage(w, err, "manager_assign_failed", "failed to assign manager", middleware.GetRequestID(r.Context()))
		}
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "profile.manager.assign", "profile", targetID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), map[string]string{"managerId": payload.ManagerID}); err != nil {
		slog.Warn("audit profile.manager.assign failed", "err", err)
	}

	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	contentType := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type")))
	if contentType != "image/png" && contentType != "image/jpeg" {
		api.Fail(w, http.StatusUnsupportedMediaType, "unsupported_media", "avatar must be png or jpeg", middleware.GetRequestID(r.Context()))
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxAvatarBytes+1))
	if err != nil || len(data) == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "failed to read avatar body", middleware.GetRequestID(r.Context()))
		return
	}
	if len(data) > maxAvatarBytes {
		api.Fail(w, http.StatusRequestEntityTooLarge, "too_large", "avatar exceeds 1 MiB", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.SaveAvatar(r.Context(), user.UserID, contentType, data); err != nil {
		api.FailStorage(w, err, "avatar_save_failed", "failed to save avatar", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "saved"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAvatar(w http.ResponseWriter, r *http.Request) {
	avatar, err := h.Service.Avatar(r.Context(), chi.URLParam(r, "profileID"))
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "avatar not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.FailStorage(w, err, "avatar_get_failed", "failed to load avatar", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", avatar.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(avatar.Data)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(avatar.Data)
}
