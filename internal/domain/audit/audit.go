package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"timetrack/internal/platform/querier"
)

// Event is one administrative action recorded for traceability: who did
// what to which record, under which request.
type Event struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actorId"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	RequestID  string    `json:"requestId"`
	CreatedAt  time.Time `json:"createdAt"`
}

const (
	ActionApproveWorkLog = "worklog.approve"
	ActionRejectWorkLog  = "worklog.reject"
	ActionCreateEmployee = "employee.create"
	ActionUpdateEmployee = "employee.update"
	ActionDeleteEmployee = "employee.delete"
)

type Service struct {
	DB querier.Querier
}

func New(db querier.Querier) *Service {
	return &Service{DB: db}
}

func (s *Service) Record(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	_, err := s.DB.Exec(ctx, `
		INSERT INTO audit_events (id, actor_id, action, entity_type, entity_id, request_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		event.ID, event.ActorID, event.Action, event.EntityType, event.EntityID, event.RequestID)
	return err
}

func (s *Service) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.DB.Query(ctx, `
		SELECT id, actor_id, action, entity_type, entity_id, request_id, created_at
		FROM audit_events
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		if err := rows.Scan(&event.ID, &event.ActorID, &event.Action, &event.EntityType,
			&event.EntityID, &event.RequestID, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
