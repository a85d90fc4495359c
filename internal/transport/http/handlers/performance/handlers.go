package performancehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"intranet/internal/domain/audit"
	"intranet/internal/domain/auth"
	"intranet/internal/domain/notifications"
	"intranet/internal/domain/performance"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
	"intranet/internal/transport/http/shared"
)

type Handler struct {
	Service *performance.Service
	Notify  *notifications.Service
	Audit   *audit.Service
}

func NewHandler(service *performance.Service, notify *notifications.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/performance", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPerformanceRead)).Get("/reviews", h.handleList)
		r.With(middleware.RequirePermission(auth.PermPerformanceWrite)).Post("/reviews", h.handlePublish)
	})
}

type reviewPayload struct {
	EmployeeID   string `json:"employeeId"`
	ReviewPeriod string `json:"reviewPeriod"`
	Rating       *int   `json:"rating"`
	Feedback     string `json:"feedback"`
}

func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload reviewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee id is required")
	v.Required("reviewPeriod", payload.ReviewPeriod, "review period is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.Publish(r.Context(), user.UserID, user.RoleName, performance.Review{
		EmployeeID:   payload.EmployeeID,
		ReviewPeriod: payload.ReviewPeriod,
		Rating:       payload.Rating,
		Feedback:     payload.Feedback,
	})
	if err != nil {
		switch {
		case errors.Is(err, performance.ErrForbidden):
			api.Fail(w, http.StatusForbidden, "forbidden", "role may not publish reviews", middleware.GetRequestID(r.Context()))
		case errors.Is(err, performance.ErrInvalidRating):
			api.Fail(w, http.StatusBadRequest, "invalid_rating", "rating must be between 1 and 5", middleware.GetRequestID(r.Context()))
		default:
			api.FailStorage(w, err, "review_publish_failed", "failed to publish review", middleware.GetRequestID(r.Context()))
		}
		return
	}

	if err := h.Audit.Record(r.Context(), user.UserID, "performance.review.publish", "performance_review", id, middleware.GetRequestID(r.Context()), shared.ClientIP(r), map[string]string{"employeeId": payload.EmployeeID, "period": payload.ReviewPeriod}); err != nil {
		slog.Warn("audit performance.review.publish failed", "err", err)
	}
	if err := h.Notify.Notify(r.Context(), payload.EmployeeID, notifications.TypeReviewPublished, "Performance review published", "A review for "+payload.ReviewPeriod+" is available."); err != nil {
		slog.Warn("review notification failed", "err", err)
	}

	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	reviews, err := h.Service.ListFor(r.Context(), user.UserID, user.RoleName, r.URL.Query().Get("employeeId"))
	if err != nil {
		if errors.Is(err, performance.ErrForbidden) {
			api.Fail(w, http.StatusForbidden, "forbidden", "not allowed to view these reviews", middleware.GetRequestID(r.Context()))
			return
		}
		api.FailStorage(w, err, "review_list_failed", "failed to list reviews", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, reviews, middleware.GetRequestID(r.Context()))
}
