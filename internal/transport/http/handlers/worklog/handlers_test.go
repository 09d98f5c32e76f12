package workloghandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"timetrack/internal/domain/auth"
	"timetrack/internal/domain/employee"
	"timetrack/internal/domain/worklog"
	"timetrack/internal/platform/clock"
	"timetrack/internal/transport/http/middleware"
)

const testSecret = "test-secret"

type fakeStore struct {
	employees map[string]*employee.Employee
}

func (f *fakeStore) Get(ctx context.Context, id string) (*employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return nil, employee.ErrNotFound
	}
	clone := *emp
	return &clone, nil
}

func (f *fakeStore) SaveWorkState(ctx context.Context, emp *employee.Employee) error {
	if _, ok := f.employees[emp.ID]; !ok {
		return employee.ErrNotFound
	}
	clone := *emp
	f.employees[emp.ID] = &clone
	return nil
}

func (f *fakeStore) ListWithPendingLogs(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range f.employees {
		if len(emp.PendingWorkLogs) > 0 {
			out = append(out, *emp)
		}
	}
	return out, nil
}

func (f *fakeStore) ListActive(ctx context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range f.employees {
		out = append(out, *emp)
	}
	return out, nil
}

var handlerNow = time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T, store *fakeStore) http.Handler {
	t.Helper()
	svc := worklog.NewService(store, clock.Fixed{T: handlerNow})

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Auth(testSecret))
	NewHandler(svc, nil).RegisterRoutes(router)
	return router
}

func storeWithEmployee(id string) *fakeStore {
	start := handlerNow.AddDate(0, -1, 0)
	return &fakeStore{employees: map[string]*employee.Employee{
		id: {
			ID:              id,
			Name:            "Somchai",
			DailyRate:       "1000",
			StartWorkDate:   start,
			ContractEndDate: start.Add(employee.ContractTerm),
			DayWork:         []employee.WorkLogEntry{},
			PendingWorkLogs: []employee.WorkLogEntry{},
			RefusedWorkLogs: []employee.WorkLogEntry{},
		},
	}}
}

func bearer(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, auth.Claims{UserID: userID, Role: role}, auth.TokenTTL)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return "Bearer " + token
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func doRequest(t *testing.T, router http.Handler, method, path, token, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
		}
	}
	return rec.Code, env
}

func TestSubmitRequiresAuth(t *testing.T) {
	router := newTestRouter(t, storeWithEmployee("emp-1"))
	code, _ := doRequest(t, router, http.MethodPost, "/worklogs/", "", `{"date":"2024-06-01","taskDetails":"x","progressLevel":"p","hoursWorked":2}`)
	if code != http.StatusUnauthorized {
		t.Fatalf("anonymous submit = %d, want 401", code)
	}
}

func TestSubmitAndApproveJourney(t *testing.T) {
	store := storeWithEmployee("emp-1")
	router := newTestRouter(t, store)
	employeeToken := bearer(t, "emp-1", employee.RoleEmployee)
	adminToken := bearer(t, "admin-1", employee.RoleAdmin)

	code, env := doRequest(t, router, http.MethodPost, "/worklogs/", employeeToken,
		`{"date":"2024-06-01","taskDetails":"built feature","progressLevel":"80%","hoursWorked":5}`)
	if code != http.StatusCreated || !env.Success {
		t.Fatalf("submit = %d success=%v", code, env.Success)
	}
	var entry employee.WorkLogEntry
	if err := json.Unmarshal(env.Data, &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}

	code, env = doRequest(t, router, http.MethodPost,
		"/worklogs/emp-1/approve/"+entry.ID, adminToken, "")
	if code != http.StatusOK || !env.Success {
		t.Fatalf("approve = %d success=%v", code, env.Success)
	}
	if len(store.employees["emp-1"].DayWork) != 1 {
		t.Fatalf("entry must be in the approved ledger")
	}
}

func TestApproveRequiresAdmin(t *testing.T) {
	router := newTestRouter(t, storeWithEmployee("emp-1"))
	code, _ := doRequest(t, router, http.MethodPost,
		"/worklogs/emp-1/approve/e1", bearer(t, "emp-1", employee.RoleEmployee), "")
	if code != http.StatusForbidden {
		t.Fatalf("employee approving = %d, want 403", code)
	}
}

func TestSubmitValidation(t *testing.T) {
	router := newTestRouter(t, storeWithEmployee("emp-1"))
	code, env := doRequest(t, router, http.MethodPost, "/worklogs/", bearer(t, "emp-1", employee.RoleEmployee),
		`{"date":"","taskDetails":"","progressLevel":"","hoursWorked":9}`)
	if code != http.StatusBadRequest {
		t.Fatalf("invalid submit = %d, want 400", code)
	}
	if env.Error == nil || env.Error.Code != "validation_error" {
		t.Fatalf("error code = %+v, want validation_error", env.Error)
	}
}

func TestSubmitOverDailyCap(t *testing.T) {
	store := storeWithEmployee("emp-1")
	store.employees["emp-1"].DayWork = []employee.WorkLogEntry{
		{ID: "full", Date: handlerNow, HoursWorked: 7},
	}
	router := newTestRouter(t, store)

	code, env := doRequest(t, router, http.MethodPost, "/worklogs/", bearer(t, "emp-1", employee.RoleEmployee),
		`{"date":"2024-06-01","taskDetails":"x","progressLevel":"p","hoursWorked":1}`)
	if code != http.StatusBadRequest {
		t.Fatalf("over-cap submit = %d, want 400", code)
	}
	if env.Error == nil || env.Error.Code != "daily_hour_limit_exceeded" {
		t.Fatalf("error code = %+v, want daily_hour_limit_exceeded", env.Error)
	}
}

func TestEarningsToday(t *testing.T) {
	store := storeWithEmployee("emp-1")
	store.employees["emp-1"].DayWork = []employee.WorkLogEntry{
		{ID: "a", Date: handlerNow, HoursWorked: 3},
	}
	router := newTestRouter(t, store)

	code, env := doRequest(t, router, http.MethodGet, "/worklogs/earnings/today",
		bearer(t, "emp-1", employee.RoleEmployee), "")
	if code != http.StatusOK {
		t.Fatalf("earnings = %d, want 200", code)
	}
	var data map[string]float64
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data["earnings"] != 3000 {
		t.Fatalf("earnings = %v, want 3000", data["earnings"])
	}
}

func TestCancelPendingUnknownEntry(t *testing.T) {
	router := newTestRouter(t, storeWithEmployee("emp-1"))
	code, env := doRequest(t, router, http.MethodDelete, "/worklogs/pending/ghost",
		bearer(t, "emp-1", employee.RoleEmployee), "")
	if code != http.StatusNotFound {
		t.Fatalf("cancel unknown = %d, want 404", code)
	}
	if env.Error == nil || env.Error.Code != "worklog_not_found" {
		t.Fatalf("error code = %+v, want worklog_not_found", env.Error)
	}
}
