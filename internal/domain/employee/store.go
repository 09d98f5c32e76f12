package employee

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"timetrack/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const employeeColumns = `
    id, name, department, email, id_card, phone_number, role, daily_rate,
    start_work_date, contract_end_date, last_login, last_logout,
    day_work, pending_work_logs, refused_work_logs,
    total_work_duration, remaining_contract_duration,
    is_deleted, created_at, updated_at`

func (s *Store) Create(ctx context.Context, emp *Employee) error {
	dayWork, pending, refused, err := marshalWorkLists(emp)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO employees (
      id, name, department, email, id_card, phone_number, role, daily_rate,
      start_work_date, contract_end_date,
      day_work, pending_work_logs, refused_work_logs,
      total_work_duration, remaining_contract_duration, is_deleted
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
  `, emp.ID, emp.Name, emp.Department, emp.Email, emp.IDCard, emp.PhoneNumber,
		emp.Role, emp.DailyRate, emp.StartWorkDate, emp.ContractEndDate,
		dayWork, pending, refused,
		emp.TotalWorkDuration, emp.RemainingContractDuration, emp.IsDeleted)
	return err
}

func (s *Store) Get(ctx context.Context, id string) (*Employee, error) {
	row := s.DB.QueryRow(ctx, `SELECT`+employeeColumns+` FROM employees WHERE id = $1`, id)
	return scanEmployee(row)
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*Employee, error) {
	row := s.DB.QueryRow(ctx, `SELECT`+employeeColumns+` FROM employees WHERE email = $1`, email)
	return scanEmployee(row)
}

// Update persists the whole record, entry lists included.
func (s *Store) Update(ctx context.Context, emp *Employee) error {
	dayWork, pending, refused, err := marshalWorkLists(emp)
	if err != nil {
		return err
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET name = $2, department = $3, email = $4, id_card = $5, phone_number = $6,
        role = $7, daily_rate = $8, start_work_date = $9, contract_end_date = $10,
        day_work = $11, pending_work_logs = $12, refused_work_logs = $13,
        total_work_duration = $14, remaining_contract_duration = $15,
        is_deleted = $16, updated_at = now()
    WHERE id = $1
  `, emp.ID, emp.Name, emp.Department, emp.Email, emp.IDCard, emp.PhoneNumber,
		emp.Role, emp.DailyRate, emp.StartWorkDate, emp.ContractEndDate,
		dayWork, pending, refused,
		emp.TotalWorkDuration, emp.RemainingContractDuration, emp.IsDeleted)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveWorkState persists only the state the work-log lifecycle mutates: the
// three entry lists, the contract end date, and the derived duration strings.
func (s *Store) SaveWorkState(ctx context.Context, emp *Employee) error {
	dayWork, pending, refused, err := marshalWorkLists(emp)
	if err != nil {
		return err
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET day_work = $2, pending_work_logs = $3, refused_work_logs = $4,
        contract_end_date = $5, total_work_duration = $6,
        remaining_contract_duration = $7, updated_at = now()
    WHERE id = $1
  `, emp.ID, dayWork, pending, refused,
		emp.ContractEndDate, emp.TotalWorkDuration, emp.RemainingContractDuration)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetDeleted(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE employees SET is_deleted = true, updated_at = now() WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := s.DB.Exec(ctx, "UPDATE employees SET last_login = $2 WHERE id = $1", id, at)
	return err
}

func (s *Store) SetLastLogout(ctx context.Context, id string, at time.Time) error {
	_, err := s.DB.Exec(ctx, "UPDATE employees SET last_logout = $2 WHERE id = $1", id, at)
	return err
}

func (s *Store) ListActive(ctx context.Context) ([]Employee, error) {
	return s.list(ctx, `SELECT`+employeeColumns+` FROM employees WHERE NOT is_deleted ORDER BY created_at`)
}

func (s *Store) ListByDepartment(ctx context.Context, department string) ([]Employee, error) {
	return s.list(ctx, `SELECT`+employeeColumns+` FROM employees WHERE department = $1 AND NOT is_deleted ORDER BY created_at`, department)
}

func (s *Store) ListByRole(ctx context.Context, role string) ([]Employee, error) {
	return s.list(ctx, `SELECT`+employeeColumns+` FROM employees WHERE role = $1 AND NOT is_deleted ORDER BY created_at`, role)
}

// ListWithPendingLogs returns active employees that have at least one entry
// awaiting review.
func (s *Store) ListWithPendingLogs(ctx context.Context) ([]Employee, error) {
	return s.list(ctx, `SELECT`+employeeColumns+` FROM employees WHERE jsonb_array_length(pending_work_logs) > 0 AND NOT is_deleted ORDER BY created_at`)
}

func (s *Store) EmailInUse(ctx context.Context, email, excludeID string) (bool, error) {
	return s.fieldInUse(ctx, "email", email, excludeID)
}

func (s *Store) IDCardInUse(ctx context.Context, idCard, excludeID string) (bool, error) {
	return s.fieldInUse(ctx, "id_card", idCard, excludeID)
}

func (s *Store) PhoneInUse(ctx context.Context, phone, excludeID string) (bool, error) {
	return s.fieldInUse(ctx, "phone_number", phone, excludeID)
}

func (s *Store) fieldInUse(ctx context.Context, column, value, excludeID string) (bool, error) {
	var count int
	err := s.DB.QueryRow(ctx,
		"SELECT COUNT(1) FROM employees WHERE "+column+" = $1 AND id <> $2",
		value, excludeID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *emp)
	}
	return employees, rows.Err()
}

func marshalWorkLists(emp *Employee) (dayWork, pending, refused []byte, err error) {
	if dayWork, err = json.Marshal(orEmpty(emp.DayWork)); err != nil {
		return nil, nil, nil, err
	}
	if pending, err = json.Marshal(orEmpty(emp.PendingWorkLogs)); err != nil {
		return nil, nil, nil, err
	}
	if refused, err = json.Marshal(orEmpty(emp.RefusedWorkLogs)); err != nil {
		return nil, nil, nil, err
	}
	return dayWork, pending, refused, nil
}

func orEmpty(entries []WorkLogEntry) []WorkLogEntry {
	if entries == nil {
		return []WorkLogEntry{}
	}
	return entries
}

func scanEmployee(row pgx.Row) (*Employee, error) {
	var emp Employee
	var dayWork, pending, refused []byte
	err := row.Scan(
		&emp.ID, &emp.Name, &emp.Department, &emp.Email, &emp.IDCard, &emp.PhoneNumber,
		&emp.Role, &emp.DailyRate, &emp.StartWorkDate, &emp.ContractEndDate,
		&emp.LastLogin, &emp.LastLogout,
		&dayWork, &pending, &refused,
		&emp.TotalWorkDuration, &emp.RemainingContractDuration,
		&emp.IsDeleted, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(dayWork, &emp.DayWork); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(pending, &emp.PendingWorkLogs); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(refused, &emp.RefusedWorkLogs); err != nil {
		return nil, err
	}
	return &emp, nil
}
