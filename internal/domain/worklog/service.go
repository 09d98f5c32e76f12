package worklog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"timetrack/internal/domain/employee"
	"timetrack/internal/platform/clock"
)

// EmployeeStore is the slice of the employee store the lifecycle engine needs.
type EmployeeStore interface {
	Get(ctx context.Context, id string) (*employee.Employee, error)
	SaveWorkState(ctx context.Context, emp *employee.Employee) error
	ListWithPendingLogs(ctx context.Context) ([]employee.Employee, error)
	ListActive(ctx context.Context) ([]employee.Employee, error)
}

// Service runs the work-log lifecycle. Every mutation is a read-modify-write
// of the whole employee aggregate, serialized per employee so two operations
// racing on the same pending list cannot lose updates.
type Service struct {
	store EmployeeStore
	clock clock.Clock
	locks sync.Map
}

func NewService(store EmployeeStore, clk clock.Clock) *Service {
	return &Service{store: store, clock: clk}
}

type SubmitInput struct {
	Date          time.Time
	TaskDetails   string
	ProgressLevel string
	HoursWorked   float64
}

// Submit records a new pending entry for the employee, enforcing the daily
// hour cap. Nothing is persisted when the cap would be exceeded.
func (s *Service) Submit(ctx context.Context, employeeID string, input SubmitInput) (employee.WorkLogEntry, error) {
	unlock := s.lock(employeeID)
	defer unlock()

	emp, err := s.store.Get(ctx, employeeID)
	if err != nil {
		return employee.WorkLogEntry{}, err
	}

	entry := employee.WorkLogEntry{
		ID:            uuid.NewString(),
		Date:          input.Date,
		TaskDetails:   input.TaskDetails,
		ProgressLevel: input.ProgressLevel,
		HoursWorked:   input.HoursWorked,
	}
	if err := Submit(emp, entry); err != nil {
		return employee.WorkLogEntry{}, err
	}
	return entry, s.save(ctx, emp)
}

// Approve merges the pending entry into the approved ledger.
func (s *Service) Approve(ctx context.Context, employeeID, entryID string) error {
	return s.mutate(ctx, employeeID, func(emp *employee.Employee) error {
		return Approve(emp, entryID)
	})
}

// Reject moves the pending entry to the refused list.
func (s *Service) Reject(ctx context.Context, employeeID, entryID string) error {
	return s.mutate(ctx, employeeID, func(emp *employee.Employee) error {
		return Reject(emp, entryID)
	})
}

// CancelPending withdraws a still-pending entry of the employee's own.
func (s *Service) CancelPending(ctx context.Context, employeeID, entryID string) error {
	return s.mutate(ctx, employeeID, func(emp *employee.Employee) error {
		return CancelPending(emp, entryID)
	})
}

// DeleteRefused discards one of the employee's own refused entries.
func (s *Service) DeleteRefused(ctx context.Context, employeeID, entryID string) error {
	return s.mutate(ctx, employeeID, func(emp *employee.Employee) error {
		return DeleteRefused(emp, entryID)
	})
}

// EmployeesWithPending lists active employees that have entries awaiting
// review.
func (s *Service) EmployeesWithPending(ctx context.Context) ([]employee.Employee, error) {
	return s.store.ListWithPendingLogs(ctx)
}

// PendingFor returns the employee's own pending entries.
func (s *Service) PendingFor(ctx context.Context, employeeID string) ([]employee.WorkLogEntry, error) {
	emp, err := s.store.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return emp.PendingWorkLogs, nil
}

// RefusedFor returns the employee's own refused entries.
func (s *Service) RefusedFor(ctx context.Context, employeeID string) ([]employee.WorkLogEntry, error) {
	emp, err := s.store.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return emp.RefusedWorkLogs, nil
}

// EarningsToday computes today's earnings from the approved ledger.
func (s *Service) EarningsToday(ctx context.Context, employeeID string) (float64, error) {
	emp, err := s.store.Get(ctx, employeeID)
	if err != nil {
		return 0, err
	}
	return DailyEarnings(emp, s.clock.Now())
}

// RefreshDurations recomputes the stored duration strings for every active
// employee. The derived strings drift as time passes, so the background
// refresher calls this periodically. Each employee goes through the same
// per-employee lock as the lifecycle mutations.
func (s *Service) RefreshDurations(ctx context.Context) (int, error) {
	employees, err := s.store.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	refreshed := 0
	for i := range employees {
		if err := ctx.Err(); err != nil {
			return refreshed, err
		}
		noop := func(*employee.Employee) error { return nil }
		if err := s.mutate(ctx, employees[i].ID, noop); err != nil {
			return refreshed, err
		}
		refreshed++
	}
	return refreshed, nil
}

func (s *Service) mutate(ctx context.Context, employeeID string, apply func(*employee.Employee) error) error {
	unlock := s.lock(employeeID)
	defer unlock()

	emp, err := s.store.Get(ctx, employeeID)
	if err != nil {
		return err
	}
	if err := apply(emp); err != nil {
		return err
	}
	return s.save(ctx, emp)
}

// save recomputes the derived durations and persists the aggregate. The
// recompute is an explicit step here so it stays visible and testable.
func (s *Service) save(ctx context.Context, emp *employee.Employee) error {
	emp.RecomputeDurations(s.clock.Now())
	return s.store.SaveWorkState(ctx, emp)
}

func (s *Service) lock(employeeID string) func() {
	value, _ := s.locks.LoadOrStore(employeeID, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
