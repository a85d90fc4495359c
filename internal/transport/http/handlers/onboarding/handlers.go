package onboardinghandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"intranet/internal/domain/audit"
	"intranet/internal/domain/auth"
	"intranet/internal/domain/onboarding"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
	"intranet/internal/transport/http/shared"
)

type Handler struct {
	Store *onboarding.Store
	Audit *audit.Service
}

func NewHandler(store *onboarding.Store, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/onboarding", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermOnboardingRead)).Get("/tasks", h.handleListTasks)
		r.With(middleware.RequirePermission(auth.PermOnboardingWrite)).Post("/tasks/{taskID}/complete", h.handleComplete)
		r.With(middleware.RequirePermission(auth.PermProfilesManage)).Post("/tasks", h.handleCreateTask)
		r.With(middleware.RequirePermission(auth.PermProfilesManage)).Delete("/tasks/{taskID}", h.handleDeactivateTask)
	})
}

func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	tasks, err := h.Store.ListForUser(r.Context(), user.UserID)
	if err != nil {
		api.FailStorage(w, err, "onboarding_list_failed", "failed to list onboarding tasks", middleware.GetRequestID(r.Context()))
		return
	}
	summary, err := h.Store.Summary(r.Context(), user.UserID)
	if err != nil {
		api.FailStorage(w, err, "onboarding_list_failed", "failed to summarize onboarding progress", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"tasks": tasks, "summary": summary}, middleware.GetRequestID(r.Context()))
}

type completeRequest struct {
	Notes string `json:"notes"`
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload completeRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	taskID := chi.URLParam(r, "taskID")
	if err := h.Store.Complete(r.Context(), user.UserID, taskID, payload.Notes); err != nil {
		if errors.Is(err, onboarding.ErrTaskNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "onboarding task not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.FailStorage(w, err, "onboarding_complete_failed", "failed to mark task complete", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "completed"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload onboarding.Task
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("title", payload.Title, "title is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.CreateTask(r.Context(), payload)
	if err != nil {
		api.FailStorage(w, err, "onboarding_create_failed", "failed to create onboarding task", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "onboarding.task.create", "onboarding_task", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), payload); err != nil {
		slog.Warn("audit onboarding.task.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeactivateTask(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	taskID := chi.URLParam(r, "taskID")
	if err := h.Store.DeactivateTask(r.Context(), taskID); err != nil {
		if errors.Is(err, onboarding.ErrTaskNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "onboarding task not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.FailStorage(w, err, "onboarding_deactivate_failed", "failed to deactivate task", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "onboarding.task.deactivate", "onboarding_task", taskID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil); err != nil {
		slog.Warn("audit onboarding.task.deactivate failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deactivated"}, middleware.GetRequestID(r.Context()))
}
