package workloghandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"timetrack/internal/domain/audit"
	"timetrack/internal/domain/employee"
	"timetrack/internal/domain/worklog"
	"timetrack/internal/transport/http/api"
	"timetrack/internal/transport/http/middleware"
	"timetrack/internal/transport/http/shared"
)

type Handler struct {
	Worklogs *worklog.Service
	Audit    *audit.Service
}

func NewHandler(worklogs *worklog.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Worklogs: worklogs, Audit: auditSvc}
}

// recordAudit is best effort: a failed audit write never fails the request.
func (h *Handler) recordAudit(r *http.Request, action, entryID string) {
	if h.Audit == nil {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	err := h.Audit.Record(r.Context(), audit.Event{
		ActorID:    user.UserID,
		Action:     action,
		EntityType: "worklog",
		EntityID:   entryID,
		RequestID:  middleware.GetRequestID(r.Context()),
	})
	if err != nil {
		slog.Warn("audit record failed", "err", err, "action", action)
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/worklogs", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Post("/", h.handleSubmit)
			r.Get("/pending", h.handleOwnPending)
			r.Get("/refused", h.handleOwnRefused)
			r.Get("/earnings/today", h.handleEarningsToday)
			r.Delete("/pending/{entryId}", h.handleCancelPending)
			r.Delete("/refused/{entryId}", h.handleDeleteRefused)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/pending/employees", h.handleEmployeesWithPending)
			r.Post("/{employeeId}/approve/{entryId}", h.handleApprove)
			r.Post("/{employeeId}/reject/{entryId}", h.handleReject)
		})
	})
}

type submitPayload struct {
	Date          string  `json:"date"`
	TaskDetails   string  `json:"taskDetails"`
	ProgressLevel string  `json:"progressLevel"`
	HoursWorked   float64 `json:"hoursWorked"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload submitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("date", payload.Date, "date is required")
	v.Required("taskDetails", payload.TaskDetails, "task details are required")
	v.Required("progressLevel", payload.ProgressLevel, "progress level is required")
	v.Range("hoursWorked", payload.HoursWorked, worklog.MinEntryHours, worklog.MaxDailyHours,
		"hours worked must be between 1 and 7")

	date, err := shared.ParseDate(payload.Date)
	if payload.Date != "" && err != nil {
		v.Add("date", "date must be RFC3339 or YYYY-MM-DD")
	}
	if v.Reject(w, requestID) {
		return
	}

	entry, err := h.Worklogs.Submit(r.Context(), user.UserID, worklog.SubmitInput{
		Date:          date,
		TaskDetails:   payload.TaskDetails,
		ProgressLevel: payload.ProgressLevel,
		HoursWorked:   payload.HoursWorked,
	})
	if err != nil {
		failWorklog(w, err, requestID)
		return
	}
	api.Created(w, entry, requestID)
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeId")
	entryID := chi.URLParam(r, "entryId")

	if err := h.Worklogs.Approve(r.Context(), employeeID, entryID); err != nil {
		failWorklog(w, err, requestID)
		return
	}
	h.recordAudit(r, audit.ActionApproveWorkLog, entryID)
	api.Success(w, map[string]string{"employeeId": employeeID, "entryId": entryID}, requestID)
}

func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeId")
	entryID := chi.URLParam(r, "entryId")

	if err := h.Worklogs.Reject(r.Context(), employeeID, entryID); err != nil {
		failWorklog(w, err, requestID)
		return
	}
	h.recordAudit(r, audit.ActionRejectWorkLog, entryID)
	api.Success(w, map[string]string{"employeeId": employeeID, "entryId": entryID}, requestID)
}

func (h *Handler) handleCancelPending(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	entryID := chi.URLParam(r, "entryId")

	if err := h.Worklogs.CancelPending(r.Context(), user.UserID, entryID); err != nil {
		failWorklog(w, err, requestID)
		return
	}
	api.Success(w, map[string]string{"entryId": entryID}, requestID)
}

func (h *Handler) handleDeleteRefused(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())
	entryID := chi.URLParam(r, "entryId")

	if err := h.Worklogs.DeleteRefused(r.Context(), user.UserID, entryID); err != nil {
		failWorklog(w, err, requestID)
		return
	}
	api.Success(w, map[string]string{"entryId": entryID}, requestID)
}

func (h *Handler) handleOwnPending(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	entries, err := h.Worklogs.PendingFor(r.Context(), user.UserID)
	if err != nil {
		failWorklog(w, err, requestID)
		return
	}
	api.Success(w, entries, requestID)
}

func (h *Handler) handleOwnRefused(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	entries, err := h.Worklogs.RefusedFor(r.Context(), user.UserID)
	if err != nil {
		failWorklog(w, err, requestID)
		return
	}
	api.Success(w, entries, requestID)
}

func (h *Handler) handleEmployeesWithPending(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	employees, err := h.Worklogs.EmployeesWithPending(r.Context())
	if err != nil {
		failWorklog(w, err, requestID)
		return
	}
	api.Success(w, employees, requestID)
}

func (h *Handler) handleEarningsToday(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	earnings, err := h.Worklogs.EarningsToday(r.Context(), user.UserID)
	if err != nil {
		failWorklog(w, err, requestID)
		return
	}
	api.Success(w, map[string]float64{"earnings": earnings}, requestID)
}

func failWorklog(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, worklog.ErrDailyHourLimit):
		api.Fail(w, http.StatusBadRequest, "daily_hour_limit_exceeded", "daily hour limit of 7 hours exceeded", requestID)
	case errors.Is(err, worklog.ErrContractEndDateMissing):
		api.Fail(w, http.StatusBadRequest, "contract_end_date_missing", "contract end date is not defined", requestID)
	case errors.Is(err, worklog.ErrInvalidRate):
		api.Fail(w, http.StatusBadRequest, "invalid_rate", "daily rate is missing or not numeric", requestID)
	case errors.Is(err, worklog.ErrEntryNotFound):
		api.Fail(w, http.StatusNotFound, "worklog_not_found", "work log not found", requestID)
	case errors.Is(err, employee.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "storage_error", "storage operation failed", requestID)
	}
}
