package employee

import (
	"context"
	"time"

	"github.com/google/uuid"

	"timetrack/internal/platform/clock"
)

type Service struct {
	store *Store
	clock clock.Clock
}

func NewService(store *Store, clk clock.Clock) *Service {
	return &Service{store: store, clock: clk}
}

type CreateInput struct {
	Name          string
	Department    string
	Email         string
	IDCard        string
	PhoneNumber   string
	Role          string
	StartWorkDate *time.Time
}

// Create validates uniqueness of email, id card, and phone number, fills in
// department defaults, and persists a new employee. The contract end date is
// initialized to the start date plus one contract term.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Employee, error) {
	if err := s.checkDuplicates(ctx, input.Email, input.IDCard, input.PhoneNumber, ""); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	start := now
	if input.StartWorkDate != nil {
		start = *input.StartWorkDate
	}

	role := input.Role
	if role != RoleAdmin {
		role = RoleEmployee
	}

	department := NormalizeDepartment(input.Department)
	emp := &Employee{
		ID:              uuid.NewString(),
		Name:            input.Name,
		Department:      department,
		Email:           input.Email,
		IDCard:          input.IDCard,
		PhoneNumber:     input.PhoneNumber,
		Role:            role,
		DailyRate:       DefaultDailyRate(department),
		StartWorkDate:   start,
		ContractEndDate: start.Add(ContractTerm),
		DayWork:         []WorkLogEntry{},
		PendingWorkLogs: []WorkLogEntry{},
		RefusedWorkLogs: []WorkLogEntry{},
	}
	emp.RecomputeDurations(now)

	if err := s.store.Create(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

type UpdateInput struct {
	Name        string
	Department  string
	Email       string
	IDCard      string
	PhoneNumber string
	DailyRate   string
}

// Update applies the non-empty fields of input. Unique fields are checked
// against every other employee before anything is written.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*Employee, error) {
	emp, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkDuplicates(ctx, input.Email, input.IDCard, input.PhoneNumber, id); err != nil {
		return nil, err
	}

	if input.Name != "" {
		emp.Name = input.Name
	}
	if input.Department != "" {
		emp.Department = NormalizeDepartment(input.Department)
	}
	if input.Email != "" {
		emp.Email = input.Email
	}
	if input.IDCard != "" {
		emp.IDCard = input.IDCard
	}
	if input.PhoneNumber != "" {
		emp.PhoneNumber = input.PhoneNumber
	}
	if input.DailyRate != "" {
		emp.DailyRate = input.DailyRate
	}

	emp.RecomputeDurations(s.clock.Now())
	if err := s.store.Update(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

// SoftDelete marks the employee deleted; the record itself is kept.
func (s *Service) SoftDelete(ctx context.Context, id string) error {
	return s.store.SetDeleted(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (*Employee, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*Employee, error) {
	return s.store.GetByEmail(ctx, email)
}

func (s *Service) ListActive(ctx context.Context) ([]Employee, error) {
	return s.store.ListActive(ctx)
}

func (s *Service) ListByDepartment(ctx context.Context, department string) ([]Employee, error) {
	return s.store.ListByDepartment(ctx, NormalizeDepartment(department))
}

func (s *Service) ListFeatured(ctx context.Context) ([]Featured, error) {
	employees, err := s.store.ListByRole(ctx, RoleEmployee)
	if err != nil {
		return nil, err
	}
	return FeaturedView(employees), nil
}

func (s *Service) RecordLogin(ctx context.Context, id string) (time.Time, error) {
	now := s.clock.Now()
	return now, s.store.SetLastLogin(ctx, id, now)
}

func (s *Service) RecordLogout(ctx context.Context, id string) (time.Time, error) {
	now := s.clock.Now()
	return now, s.store.SetLastLogout(ctx, id, now)
}

func (s *Service) checkDuplicates(ctx context.Context, email, idCard, phone, excludeID string) error {
	if email != "" {
		inUse, err := s.store.EmailInUse(ctx, email, excludeID)
		if err != nil {
			return err
		}
		if inUse {
			return ErrDuplicateEmail
		}
	}
	if idCard != "" {
		inUse, err := s.store.IDCardInUse(ctx, idCard, excludeID)
		if err != nil {
			return err
		}
		if inUse {
			return ErrDuplicateIDCard
		}
	}
	if phone != "" {
		inUse, err := s.store.PhoneInUse(ctx, phone, excludeID)
		if err != nil {
			return err
		}
		if inUse {
			return ErrDuplicatePhone
		}
	}
	return nil
}
