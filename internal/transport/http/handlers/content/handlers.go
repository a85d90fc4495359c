package contenthandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"intranet/internal/domain/audit"
	"intranet/internal/domain/auth"
	"intranet/internal/domain/content"
	"intranet/internal/domain/notifications"
	"intranet/internal/domain/profile"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
	"intranet/internal/transport/http/shared"
)

type Handler struct {
	Store    *content.Store
	Profiles *profile.Service
	Notify   *notifications.Service
	Audit    *audit.Service
}

func NewHandler(store *content.Store, profiles *profile.Service, notify *notifications.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Profiles: profiles, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermContentRead)
	publish := middleware.RequirePermission(auth.PermContentPublish)
	publishUpdates := middleware.RequirePermission(auth.PermCeoUpdatesPublish)
	publishPolicies := middleware.RequirePermission(auth.PermHrPoliciesPublish)

	r.Route("/holidays", func(r chi.Router) {
		r.With(read).Get("/", h.handleListHolidays)
		r.With(publish).Post("/", h.handleCreateHoliday)
		r.With(publish).Delete("/{holidayID}", h.handleDeleteHoliday)
	})
	r.Route("/ceo-updates", func(r chi.Router) {
		r.With(read).Get("/", h.handleListCeoUpdates)
		r.With(publishUpdates).Post("/", h.handleCreateCeoUpdate)
		r.With(publishUpdates).Put("/{updateID}", h.handleUpdateCeoUpdate)
		r.With(publishUpdates).Delete("/{updateID}", h.handleDeleteCeoUpdate)
	})
	r.Route("/hr-policies", func(r chi.Router) {
		r.With(read).Get("/", h.handleListHrPolicies)
		r.With(publishPolicies).Post("/", h.handleCreateHrPolicy)
		r.With(publishPolicies).Put("/{policyID}", h.handleUpdateHrPolicy)
		r.With(publishPolicies).Delete("/{policyID}", h.handleDeleteHrPolicy)
	})
}

func (h *Handler) handleListHolidays(w http.ResponseWriter, r *http.Request) {
	var from, to time.Time
	var err error
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = shared.ParseDate(raw); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "invalid from date", middleware.GetRequestID(r.Context()))
			return
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if to, err = shared.ParseDate(raw); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_date", "invalid to date", middleware.GetRequestID(r.Context()))
			return
		}
	}

	holidays, err := h.Store.ListHolidays(r.Context(), from, to)
	if err != nil {
		api.FailStorage(w, err, "holiday_list_failed", "failed to list holidays", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, holidays, middleware.GetRequestID(r.Context()))
}

type holidayPayload struct {
	Date          string `json:"date"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	IsCompanyWide *bool  `json:"isCompanyWide"`
}

func (h *Handler) handleCreateHoliday(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload holidayPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	date, _ := v.Date("date", payload.Date)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	companyWide := true
	if payload.IsCompanyWide != nil {
		companyWide = *payload.IsCompanyWide
	}

	id, err := h.Store.CreateHoliday(r.Context(), user.UserID, content.Holiday{
		Date:          date,
		Name:          payload.Name,
		Description:   payload.Description,
		IsCompanyWide: companyWide,
	})
	if err != nil {
		api.FailStorage(w, err, "holiday_create_failed", "failed to create holiday", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "content.holiday.create", "holiday", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), payload); err != nil {
		slog.Warn("audit content.holiday.create failed", "err", err)
	}
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteHoliday(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	holidayID := chi.URLParam(r, "holidayID")
	if err := h.Store.DeleteHoliday(r.Context(), holidayID); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "holiday not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.FailStorage(w, err, "holiday_delete_failed", "failed to delete holiday", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "content.holiday.delete", "holiday", holidayID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil); err != nil {
		slog.Warn("audit content.holiday.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListCeoUpdates(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 20, 100)
	featuredOnly := strings.EqualFold(r.URL.Query().Get("featured"), "true")

	updates, err := h.Store.ListCeoUpdates(r.Context(), featuredOnly, page.Limit, page.Offset)
	if err != nil {
		api.FailStorage(w, err, "updates_list_failed", "failed to list updates", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, updates, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateCeoUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload content.CeoUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("title", payload.Title, "title is required")
	v.Required("content", payload.Content, "content is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.CreateCeoUpdate(r.Context(), user.UserID, payload)
	if err != nil {
		api.FailStorage(w, err, "update_create_failed", "failed to publish update", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "content.update.publish", "ceo_update", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), map[string]string{"title": payload.Title}); err != nil {
		slog.Warn("audit content.update.publish failed", "err", err)
	}
	h.broadcast(r, notifications.TypeUpdatePublished, "New company update", payload.Title)

	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateCeoUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload content.CeoUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	updateID := chi.URLParam(r, "updateID")
	if err := h.Store.UpdateCeoUpdate(r.Context(), updateID, payload); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "update not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.FailStorage(w, err, "update_edit_failed", "failed to edit update", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "content.update.edit", "ceo_update", updateID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil); err != nil {
		slog.Warn("audit content.update.edit failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteCeoUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	updateID := chi.URLParam(r, "updateID")
	if err := h.Store.DeleteCeoUpdate(r.Context(), updateID); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "update not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.FailStorage(w, err, "update_delete_failed", "failed to delete update", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "content.update.delete", "ceo_update", updateID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil); err != nil {
		slog.Warn("audit content.update.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListHrPolicies(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	includeInactive := strings.EqualFold(r.URL.Query().Get("includeInactive"), "true")

	policies, err := h.Store.ListHrPolicies(r.Context(), category, !includeInactive)
	if err != nil {
		api.FailStorage(w, err, "policy_list_failed", "failed to list policies", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, policies, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateHrPolicy(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload content.HrPolicy
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("title", payload.Title, "title is required")
	v.Required("content", payload.Content, "content is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Store.CreateHrPolicy(r.Context(), user.UserID, payload)
	if err != nil {
		api.FailStorage(w, err, "policy_create_failed", "failed to publish policy", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "content.policy.publish", "hr_policy", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), map[string]string{"title": payload.Title}); err != nil {
		slog.Warn("audit content.policy.publish failed", "err", err)
	}
	h.broadcast(r, notifications.TypePolicyPublished, "New HR policy", payload.Title)

	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateHrPolicy(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload content.HrPolicy
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	policyID := chi.URLParam(r, "policyID")
	if err := h.Store.UpdateHrPolicy(r.Context(), policyID, payload); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "policy not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.FailStorage(w, err, "policy_edit_failed", "failed to edit policy", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "content.policy.edit", "hr_policy", policyID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil); err != nil {
		slog.Warn("audit content.policy.edit failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteHrPolicy(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	policyID := chi.URLParam(r, "policyID")
	if err := h.Store.DeleteHrPolicy(r.Context(), policyID); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "policy not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.FailStorage(w, err, "policy_delete_failed", "failed to delete policy", middleware.GetRequestID(r.Context()))
		return
	}
	if err := h.Audit.Record(r.Context(), user.UserID, "content.policy.delete", "hr_policy", policyID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil); err != nil {
		slog.Warn("audit content.policy.delete failed", "err", err)
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

// broadcast fans a publish notification out to every profile. Directory
// pages are walked so a large org does not need one giant query.
func (h *Handler) broadcast(r *http.Request, ntype, title, body string) {
	const pageSize = 500
	offset := 0
	for {
		profiles, total, err := h.Profiles.Directory(r.Context(), pageSize, offset)
		if err != nil {
			slog.Warn("broadcast profile page failed", "err", err)
			return
		}
		ids := make([]string, 0, len(profiles))
		for _, p := range profiles {
			ids = append(ids, p.ID)
		}
		h.Notify.NotifyAll(r.Context(), ids, ntype, title, body)
		offset += len(profiles)
		if offset >= total || len(profiles) == 0 {
			return
		}
	}
}
