package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"timetrack/internal/platform/config"
	"timetrack/internal/platform/db"
)

// These tests exercise the full HTTP surface against a real database. They
// skip unless TEST_DATABASE_URL points at a disposable Postgres instance.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, config.Config{DatabaseURL: url})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.Migrate(ctx, pool, "../../../migrations"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := pool.Exec(ctx, "TRUNCATE employees, audit_events"); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return pool
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:          "integration-secret",
		Environment:        "test",
		AllowedOrigins:     []string{"http://localhost:5173"},
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 1000,
		MetricsEnabled:     false,
	}
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func call(t *testing.T, router http.Handler, method, path, token, body string) (int, apiEnvelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env apiEnvelope
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode: %v (%s)", err, rec.Body.String())
		}
	}
	return rec.Code, env
}

func TestSignupLoginWorklogJourney(t *testing.T) {
	pool := testPool(t)
	router := NewRouter(testConfig(), pool)

	// Signup issues a token for the new employee.
	code, env := call(t, router, http.MethodPost, "/api/v1/auth/signup", "", `{
		"email": "somchai@example.com",
		"name": "Somchai",
		"department": "IT",
		"idcard": "1234567890123",
		"phonenumber": "0812345678"
	}`)
	if code != http.StatusCreated || !env.Success {
		t.Fatalf("signup = %d, %+v", code, env.Error)
	}
	var signup struct {
		Employee struct {
			ID        string `json:"id"`
			DailyRate string `json:"dailyRate"`
		} `json:"employee"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &signup); err != nil {
		t.Fatalf("decode signup: %v", err)
	}
	if signup.Employee.DailyRate != "1000" {
		t.Fatalf("IT daily rate = %q, want 1000", signup.Employee.DailyRate)
	}
	employeeToken := strings.TrimPrefix(signup.Token, "Bearer ")

	// Duplicate signup must fail on the unique email.
	code, env = call(t, router, http.MethodPost, "/api/v1/auth/signup", "", `{
		"email": "somchai@example.com",
		"name": "Someone Else",
		"department": "HR",
		"idcard": "9876543210987",
		"phonenumber": "0898765432"
	}`)
	if code != http.StatusBadRequest || env.Error == nil || env.Error.Code != "duplicate_email" {
		t.Fatalf("duplicate signup = %d, %+v", code, env.Error)
	}

	// Login with the matching id card.
	code, env = call(t, router, http.MethodPost, "/api/v1/auth/login", "",
		`{"email": "somchai@example.com", "idcard": "1234567890123"}`)
	if code != http.StatusOK || !env.Success {
		t.Fatalf("login = %d, %+v", code, env.Error)
	}

	// Wrong id card is rejected.
	code, env = call(t, router, http.MethodPost, "/api/v1/auth/login", "",
		`{"email": "somchai@example.com", "idcard": "0000000000000"}`)
	if code != http.StatusBadRequest || env.Error == nil || env.Error.Code != "invalid_credentials" {
		t.Fatalf("bad login = %d, %+v", code, env.Error)
	}

	// Submit a work log.
	today := time.Now().UTC().Format("2006-01-02")
	code, env = call(t, router, http.MethodPost, "/api/v1/worklogs/", employeeToken, fmt.Sprintf(`{
		"date": %q, "taskDetails": "integration work", "progressLevel": "50%%", "hoursWorked": 5
	}`, today))
	if code != http.StatusCreated || !env.Success {
		t.Fatalf("submit = %d, %+v", code, env.Error)
	}
	var entry struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}

	// Promote the account to admin directly; the API never does this.
	ctx := context.Background()
	if _, err := pool.Exec(ctx, "UPDATE employees SET role = 'admin' WHERE id = $1", signup.Employee.ID); err != nil {
		t.Fatalf("promote: %v", err)
	}
	code, env = call(t, router, http.MethodPost, "/api/v1/auth/login", "",
		`{"email": "somchai@example.com", "idcard": "1234567890123"}`)
	if code != http.StatusOK {
		t.Fatalf("admin login = %d", code)
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	adminToken := strings.TrimPrefix(login.Token, "Bearer ")

	// Approve the entry and confirm today's earnings reflect it.
	code, env = call(t, router, http.MethodPost,
		"/api/v1/worklogs/"+signup.Employee.ID+"/approve/"+entry.ID, adminToken, "")
	if code != http.StatusOK || !env.Success {
		t.Fatalf("approve = %d, %+v", code, env.Error)
	}

	code, env = call(t, router, http.MethodGet, "/api/v1/worklogs/earnings/today", employeeToken, "")
	if code != http.StatusOK {
		t.Fatalf("earnings = %d", code)
	}
	var earnings map[string]float64
	if err := json.Unmarshal(env.Data, &earnings); err != nil {
		t.Fatalf("decode earnings: %v", err)
	}
	if earnings["earnings"] != 5000 {
		t.Fatalf("earnings = %v, want 5000", earnings["earnings"])
	}

	// The admin actions are on the audit trail.
	code, env = call(t, router, http.MethodGet, "/api/v1/audit", adminToken, "")
	if code != http.StatusOK {
		t.Fatalf("audit = %d", code)
	}
	var events []struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(env.Data, &events); err != nil {
		t.Fatalf("decode audit: %v", err)
	}
	if len(events) == 0 || events[0].Action != "worklog.approve" {
		t.Fatalf("audit trail missing the approval: %+v", events)
	}
}

func TestSoftDeletedAccountCannotLogin(t *testing.T) {
	pool := testPool(t)
	router := NewRouter(testConfig(), pool)

	code, env := call(t, router, http.MethodPost, "/api/v1/auth/signup", "", `{
		"email": "gone@example.com",
		"name": "Gone",
		"department": "HR",
		"idcard": "1111111111111",
		"phonenumber": "0811111111"
	}`)
	if code != http.StatusCreated {
		t.Fatalf("signup = %d, %+v", code, env.Error)
	}

	ctx := context.Background()
	if _, err := pool.Exec(ctx, "UPDATE employees SET is_deleted = true WHERE email = 'gone@example.com'"); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	code, env = call(t, router, http.MethodPost, "/api/v1/auth/login", "",
		`{"email": "gone@example.com", "idcard": "1111111111111"}`)
	if code != http.StatusBadRequest || env.Error == nil || env.Error.Code != "account_deleted" {
		t.Fatalf("deleted login = %d, %+v", code, env.Error)
	}
}
