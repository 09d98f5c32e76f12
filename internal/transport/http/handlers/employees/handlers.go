package employeehandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"timetrack/internal/domain/audit"
	"timetrack/internal/domain/employee"
	"timetrack/internal/transport/http/api"
	"timetrack/internal/transport/http/middleware"
	"timetrack/internal/transport/http/shared"
)

type Handler struct {
	Employees *employee.Service
	Audit     *audit.Service
}

func NewHandler(employees *employee.Service, auditSvc *audit.Service) *Handler {
	return &Handler{Employees: employees, Audit: auditSvc}
}

// recordAudit is best effort: a failed audit write never fails the request.
func (h *Handler) recordAudit(r *http.Request, action, entityID string) {
	if h.Audit == nil {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	err := h.Audit.Record(r.Context(), audit.Event{
		ActorID:    user.UserID,
		Action:     action,
		EntityType: "employee",
		EntityID:   entityID,
		RequestID:  middleware.GetRequestID(r.Context()),
	})
	if err != nil {
		slog.Warn("audit record failed", "err", err, "action", action)
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.Get("/featured", h.handleFeatured)
		r.Get("/department/{department}", h.handleListByDepartment)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Get("/me", h.handleMe)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/", h.handleList)
			r.Post("/", h.handleCreate)
			r.Get("/{id}", h.handleGet)
			r.Put("/{id}", h.handleUpdate)
			r.Delete("/{id}", h.handleDelete)
		})
	})
}

type createPayload struct {
	Name        string `json:"name"`
	Department  string `json:"department"`
	Email       string `json:"email"`
	IDCard      string `json:"idcard"`
	PhoneNumber string `json:"phonenumber"`
	Role        string `json:"role"`
	StartDate   string `json:"startWorkDate"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("department", payload.Department, "department is required")
	v.Required("email", payload.Email, "email is required")
	v.Required("idcard", payload.IDCard, "id card is required")
	v.Required("phonenumber", payload.PhoneNumber, "phone number is required")
	v.Digits("idcard", payload.IDCard, 13, "id card must be a 13-digit number")
	v.Digits("phonenumber", payload.PhoneNumber, 10, "phone number must be a 10-digit number")

	var startDate *time.Time
	if payload.StartDate != "" {
		parsed, err := shared.ParseDate(payload.StartDate)
		if err != nil {
			v.Add("startWorkDate", "start work date must be RFC3339 or YYYY-MM-DD")
		} else {
			startDate = &parsed
		}
	}
	if v.Reject(w, requestID) {
		return
	}

	emp, err := h.Employees.Create(r.Context(), employee.CreateInput{
		Name:          payload.Name,
		Department:    payload.Department,
		Email:         payload.Email,
		IDCard:        payload.IDCard,
		PhoneNumber:   payload.PhoneNumber,
		Role:          payload.Role,
		StartWorkDate: startDate,
	})
	if err != nil {
		failEmployee(w, err, requestID)
		return
	}
	h.recordAudit(r, audit.ActionCreateEmployee, emp.ID)
	api.Created(w, emp, requestID)
}

type updatePayload struct {
	Name        string `json:"name"`
	Department  string `json:"department"`
	Email       string `json:"email"`
	IDCard      string `json:"idcard"`
	PhoneNumber string `json:"phonenumber"`
	DailyRate   string `json:"dailyRate"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "id")

	var payload updatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	if payload.IDCard != "" {
		v.Digits("idcard", payload.IDCard, 13, "id card must be a 13-digit number")
	}
	if payload.PhoneNumber != "" {
		v.Digits("phonenumber", payload.PhoneNumber, 10, "phone number must be a 10-digit number")
	}
	if v.Reject(w, requestID) {
		return
	}

	emp, err := h.Employees.Update(r.Context(), id, employee.UpdateInput{
		Name:        payload.Name,
		Department:  payload.Department,
		Email:       payload.Email,
		IDCard:      payload.IDCard,
		PhoneNumber: payload.PhoneNumber,
		DailyRate:   payload.DailyRate,
	})
	if err != nil {
		failEmployee(w, err, requestID)
		return
	}
	h.recordAudit(r, audit.ActionUpdateEmployee, emp.ID)
	api.Success(w, emp, requestID)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.Employees.SoftDelete(r.Context(), id); err != nil {
		failEmployee(w, err, requestID)
		return
	}
	h.recordAudit(r, audit.ActionDeleteEmployee, id)
	api.Success(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	id := chi.URLParam(r, "id")

	emp, err := h.Employees.Get(r.Context(), id)
	if err != nil {
		failEmployee(w, err, requestID)
		return
	}
	api.Success(w, emp, requestID)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	emp, err := h.Employees.Get(r.Context(), user.UserID)
	if err != nil {
		failEmployee(w, err, requestID)
		return
	}
	api.Success(w, emp, requestID)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	employees, err := h.Employees.ListActive(r.Context())
	if err != nil {
		failEmployee(w, err, requestID)
		return
	}
	api.Success(w, employees, requestID)
}

func (h *Handler) handleListByDepartment(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	department := employee.NormalizeDepartment(chi.URLParam(r, "department"))

	employees, err := h.Employees.ListByDepartment(r.Context(), department)
	if err != nil {
		failEmployee(w, err, requestID)
		return
	}
	api.Success(w, employees, requestID)
}

func (h *Handler) handleFeatured(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	featured, err := h.Employees.ListFeatured(r.Context())
	if err != nil {
		failEmployee(w, err, requestID)
		return
	}
	api.Success(w, featured, requestID)
}

func failEmployee(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, employee.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
	case errors.Is(err, employee.ErrDuplicateEmail):
		api.Fail(w, http.StatusBadRequest, "duplicate_email", "email already in use", requestID)
	case errors.Is(err, employee.ErrDuplicateIDCard):
		api.Fail(w, http.StatusBadRequest, "duplicate_idcard", "id card already in use", requestID)
	case errors.Is(err, employee.ErrDuplicatePhone):
		api.Fail(w, http.StatusBadRequest, "duplicate_phone", "phone number already in use", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "storage_error", "storage operation failed", requestID)
	}
}
