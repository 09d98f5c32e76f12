package authhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"timetrack/internal/domain/auth"
	"timetrack/internal/domain/employee"
	"timetrack/internal/transport/http/api"
	"timetrack/internal/transport/http/middleware"
	"timetrack/internal/transport/http/shared"
)

type Handler struct {
	Employees     *employee.Service
	JWTSecret     string
	SecureCookies bool
}

func NewHandler(employees *employee.Service, jwtSecret string, secureCookies bool) *Handler {
	return &Handler{Employees: employees, JWTSecret: jwtSecret, SecureCookies: secureCookies}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.handleSignup)
		r.Post("/login", h.handleLogin)
		r.Post("/logout", h.handleLogout)
		r.With(middleware.RequireUser).Get("/check-auth", h.handleCheckAuth)
	})
}

type signupPayload struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	IDCard      string `json:"idcard"`
	PhoneNumber string `json:"phonenumber"`
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload signupPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "email is required")
	v.Required("name", payload.Name, "name is required")
	v.Required("department", payload.Department, "department is required")
	v.Required("idcard", payload.IDCard, "id card is required")
	v.Required("phonenumber", payload.PhoneNumber, "phone number is required")
	v.Digits("idcard", payload.IDCard, 13, "id card must be a 13-digit number")
	v.Digits("phonenumber", payload.PhoneNumber, 10, "phone number must be a 10-digit number")
	if v.Reject(w, requestID) {
		return
	}

	emp, err := h.Employees.Create(r.Context(), employee.CreateInput{
		Name:        payload.Name,
		Department:  payload.Department,
		Email:       payload.Email,
		IDCard:      payload.IDCard,
		PhoneNumber: payload.PhoneNumber,
		Role:        employee.RoleEmployee,
	})
	if err != nil {
		failEmployee(w, err, requestID)
		return
	}

	token, err := h.issueToken(emp)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_failed", "failed to issue token", requestID)
		return
	}
	h.setTokenCookie(w, token)

	api.Created(w, map[string]any{"employee": emp, "token": "Bearer " + token}, requestID)
}

type loginPayload struct {
	Email  string `json:"email"`
	IDCard string `json:"idcard"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "email is required")
	v.Required("idcard", payload.IDCard, "id card is required")
	if v.Reject(w, requestID) {
		return
	}

	emp, err := h.Employees.GetByEmail(r.Context(), payload.Email)
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusBadRequest, "account_not_found", "account not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "storage_error", "failed to load account", requestID)
		return
	}
	if emp.IsDeleted {
		api.Fail(w, http.StatusBadRequest, "account_deleted", "account has been deleted", requestID)
		return
	}
	if emp.IDCard != payload.IDCard {
		api.Fail(w, http.StatusBadRequest, "invalid_credentials", "credentials do not match", requestID)
		return
	}

	lastLogin, err := h.Employees.RecordLogin(r.Context(), emp.ID)
	if err != nil {
		slog.Warn("record login failed", "err", err, "employeeId", emp.ID)
	} else {
		emp.LastLogin = &lastLogin
	}

	token, err := h.issueToken(emp)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_failed", "failed to issue token", requestID)
		return
	}
	h.setTokenCookie(w, token)

	api.Success(w, map[string]any{
		"employee":  emp,
		"lastLogin": emp.LastLogin,
		"token":     "Bearer " + token,
	}, requestID)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "no active session", requestID)
		return
	}

	lastLogout, err := h.Employees.RecordLogout(r.Context(), user.UserID)
	if err != nil {
		slog.Warn("record logout failed", "err", err, "employeeId", user.UserID)
	}
	h.clearTokenCookie(w)

	api.Success(w, map[string]any{"lastLogout": lastLogout}, requestID)
}

func (h *Handler) handleCheckAuth(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	emp, err := h.Employees.Get(r.Context(), user.UserID)
	if err != nil {
		failEmployee(w, err, requestID)
		return
	}
	if emp.IsDeleted {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "account has been deleted", requestID)
		return
	}
	api.Success(w, emp, requestID)
}

func (h *Handler) issueToken(emp *employee.Employee) (string, error) {
	return auth.GenerateToken(h.JWTSecret, auth.Claims{UserID: emp.ID, Role: emp.Role}, auth.TokenTTL)
}

func (h *Handler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
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
