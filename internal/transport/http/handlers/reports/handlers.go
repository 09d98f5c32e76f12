package reporthandler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"timetrack/internal/domain/employee"
	"timetrack/internal/domain/reports"
	"timetrack/internal/transport/http/api"
	"timetrack/internal/transport/http/middleware"
)

type Handler struct {
	Reports *reports.Service
}

func NewHandler(svc *reports.Service) *Handler {
	return &Handler{Reports: svc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/work-history/{employeeId}", h.handleWorkHistory)
	})
}

func (h *Handler) handleWorkHistory(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	employeeID := chi.URLParam(r, "employeeId")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "pdf"
	}

	var (
		payload     []byte
		contentType string
		extension   string
		err         error
	)
	switch format {
	case "pdf":
		payload, err = h.Reports.WorkHistoryPDF(r.Context(), employeeID)
		contentType = "application/pdf"
		extension = "pdf"
	case "xlsx":
		payload, err = h.Reports.WorkHistoryXLSX(r.Context(), employeeID)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		extension = "xlsx"
	default:
		api.Fail(w, http.StatusBadRequest, "invalid_format", "format must be pdf or xlsx", requestID)
		return
	}
	if errors.Is(err, employee.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to render report", requestID)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=work-history-%s.%s", employeeID, extension))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
