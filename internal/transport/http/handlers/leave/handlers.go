package leavehandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"intranet/internal/domain/audit"
	"intranet/internal/domain/auth"
	"intranet/internal/domain/leave"
	"intranet/internal/domain/notifications"
	"intranet/internal/domain/profile"
	"intranet/internal/platform/metrics"
	"intranet/internal/transport/http/api"
	"intranet/internal/transport/http/middleware"
	"intranet/internal/transport/http/shared"
)

type Handler struct {
	Service  *leave.Service
	Profiles *profile.Service
	Notify   *notifications.Service
	Audit    *audit.Service
}

func NewHandler(service *leave.Service, profiles *profile.Service, notify *notifications.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Profiles: profiles, Notify: notify, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/leave", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermLeaveWrite)).Post("/requests", h.handleSubmit)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/requests", h.handleList)
		r.With(middleware.RequirePermission(auth.PermLeaveRead)).Get("/requests/{requestID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove)).Post("/requests/{requestID}/approve", h.handleApprove)
		r.With(middleware.RequirePermission(auth.PermLeaveApprove)).Post("/requests/{requestID}/reject", h.handleReject)
		r.With(middleware.RequirePermission(auth.PermLeaveReports)).Get("/reports/export", h.handleExport)
	})
}

type submitRequest struct {
	LeaveType string `json:"leaveType"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	var payload submitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("leaveType", payload.LeaveType, "leave type is required")
	start, startOK := v.Date("startDate", payload.StartDate)
	end, endOK := v.Date("endDate", payload.EndDate)
	if startOK && endOK {
		v.DateOrder("startDate", start, "endDate", end)
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		metrics.ObserveLeaveSubmission("invalid")
		return
	}

	created, err := h.Service.Submit(r.Context(), user.UserID, leave.Submission{
		LeaveType: strings.ToLower(strings.TrimSpace(payload.LeaveType)),
		StartDate: start,
		EndDate:   end,
		Reason:    payload.Reason,
	})
	if err != nil {
		if leave.IsValidation(err) {
			metrics.ObserveLeaveSubmission("rejected")
			api.Fail(w, http.StatusUnprocessableEntity, "submission_rejected", err.Error(), middleware.GetRequestID(r.Context()))
			return
		}
		metrics.ObserveLeaveSubmission("error")
		api.FailStorage(w, err, "submission_failed", "failed to submit leave request", middleware.GetRequestID(r.Context()))
		return
	}
	metrics.ObserveLeaveSubmission("accepted")

	if reviewers, err := h.Profiles.ReviewerIDs(r.Context()); err != nil {
		slog.Warn("reviewer lookup for notification failed", "err", err)
	} else {
		h.Notify.NotifyAll(r.Context(), reviewers, notifications.TypeLeaveSubmitted,
			"Leave request submitted",
			fmt.Sprintf("A %s leave request from %s to %s is awaiting review.",
				created.LeaveType, shared.FormatDate(created.StartDate), shared.FormatDate(created.EndDate)))
	}

	api.Created(w, created, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	if r.URL.Query().Get("scope") != "all" {
		requests, err := h.Service.ListForOwner(r.Context(), user.UserID)
		if err != nil {
			api.FailStorage(w, err, "leave_list_failed", "failed to list leave requests", middleware.GetRequestID(r.Context()))
			return
		}
		api.Success(w, map[string]any{"requests": requests, "total": len(requests)}, middleware.GetRequestID(r.Context()))
		return
	}

	page := shared.ParsePagination(r, 50, 200)
	status := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status")))
	requests, total, err := h.Service.ListAll(r.Context(), user.RoleName, status, page.Limit, page.Offset)
	if err != nil {
		if errors.Is(err, leave.ErrForbidden) {
			api.Fail(w, http.StatusForbidden, "forbidden", "not allowed to view all leave requests", middleware.GetRequestID(r.Context()))
			return
		}
		if leave.IsValidation(err) {
			api.Fail(w, http.StatusBadRequest, "invalid_status", "unknown status filter", middleware.GetRequestID(r.Context()))
			return
		}
		api.FailStorage(w, err, "leave_list_failed", "failed to list leave requests", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"requests": requests, "total": total}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	request, err := h.Service.Get(r.Context(), user.UserID, user.RoleName, chi.URLParam(r, "requestID"))
	if err != nil {
		if errors.Is(err, leave.ErrForbidden) {
			api.Fail(w, http.StatusForbidden, "forbidden", "not allowed to view this request", middleware.GetRequestID(r.Context()))
			return
		}
		if errors.Is(err, leave.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.FailStorage(w, err, "leave_get_failed", "failed to load leave request", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, request, middleware.GetRequestID(r.Context()))
}

type decisionRequest struct {
	Comments string `json:"comments"`
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, leave.StatusApproved)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, leave.StatusRejected)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, decision string) {
	user, _ := middleware.GetUser(r.Context())

	var payload decisionRequest
	if r.Body != nil {
		// Empty bodies are fine for approvals.
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	requestID := chi.URLParam(r, "requestID")
	reviewed, err := h.Service.Review(r.Context(), user.UserID, user.RoleName, requestID, decision, payload.Comments)
	if err != nil {
		switch {
		case errors.Is(err, leave.ErrForbidden):
			api.Fail(w, http.StatusForbidden, "forbidden", "role may not review leave requests", middleware.GetRequestID(r.Context()))
		case errors.Is(err, leave.ErrCommentsRequired):
			api.Fail(w, http.StatusBadRequest, "comments_required", "rejection requires comments", middleware.GetRequestID(r.Context()))
		case errors.Is(err, leave.ErrNotPending):
			api.Fail(w, http.StatusConflict, "not_pending", "request was already reviewed", middleware.GetRequestID(r.Context()))
		case errors.Is(err, leave.ErrNotFound):
			api.Fail(w, http.StatusNotFound, "not_found", "leave request not found", middleware.GetRequestID(r.Context()))
		default:
			api.FailStorage(w, err, "review_failed", "failed to review leave request", middleware.GetRequestID(r.Context()))
		}
		return
	}
	metrics.ObserveLeaveDecision(decision)

	if err := h.Audit.Record(r.Context(), user.UserID, "leave.request."+decision, "leave_request", requestID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), map[string]string{"employeeId": reviewed.UserID}); err != nil {
		slog.Warn("audit leave decision failed", "err", err)
	}

	title := "Leave request approved"
	ntype := notifications.TypeLeaveApproved
	body := fmt.Sprintf("Your %s leave request was approved.", reviewed.LeaveType)
	if decision == leave.StatusRejected {
		title = "Leave request rejected"
		ntype = notifications.TypeLeaveRejected
		body = fmt.Sprintf("Your %s leave request was rejected: %s", reviewed.LeaveType, reviewed.ReviewerComments)
	}
	if err := h.Notify.Notify(r.Context(), reviewed.UserID, ntype, title, body); err != nil {
		slog.Warn("leave decision notification failed", "err", err)
	}

	api.Success(w, reviewed, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "csv"
	}

	var (
		data        []byte
		contentType string
		filename    string
		err         error
	)
	switch format {
	case "csv":
		data, err = h.Service.BuildCSVReport(r.Context(), user.RoleName)
		contentType = "text/csv"
		filename = "leave-requests.csv"
	case "pdf":
		data, err = h.Service.BuildPDFReport(r.Context(), user.RoleName)
		contentType = "application/pdf"
		filename = "leave-requests.pdf"
	default:
		api.Fail(w, http.StatusBadRequest, "invalid_format", "format must be csv or pdf", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		if errors.Is(err, leave.ErrForbidden) {
			api.Fail(w, http.StatusForbidden, "forbidden", "not allowed to export leave reports", middleware.GetRequestID(r.Context()))
			return
		}
		api.FailStorage(w, err, "export_failed", "failed to build report", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
