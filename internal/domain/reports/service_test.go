package reports

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"timetrack/internal/domain/employee"
)

type fakeSource struct {
	emp *employee.Employee
}

func (f *fakeSource) Get(ctx context.Context, id string) (*employee.Employee, error) {
	if f.emp == nil || f.emp.ID != id {
		return nil, employee.ErrNotFound
	}
	return f.emp, nil
}

func reportEmployee() *employee.Employee {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &employee.Employee{
		ID:              "emp-1",
		Name:            "Somchai",
		Department:      employee.DepartmentIT,
		ContractEndDate: start.AddDate(0, 6, 0),
		DayWork: []employee.WorkLogEntry{
			{ID: "b", Date: start.AddDate(0, 0, 2), TaskDetails: "second", ProgressLevel: "done", HoursWorked: 4},
			{ID: "a", Date: start, TaskDetails: "first", ProgressLevel: "half", HoursWorked: 3},
		},
	}
}

func TestWorkHistoryPDF(t *testing.T) {
	svc := NewService(&fakeSource{emp: reportEmployee()})
	payload, err := svc.WorkHistoryPDF(context.Background(), "emp-1")
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.HasPrefix(payload, []byte("%PDF")) {
		t.Fatalf("output is not a PDF, starts with %q", payload[:min(8, len(payload))])
	}
}

func TestWorkHistoryXLSX(t *testing.T) {
	svc := NewService(&fakeSource{emp: reportEmployee()})
	payload, err := svc.WorkHistoryXLSX(context.Background(), "emp-1")
	if err != nil {
		t.Fatalf("xlsx: %v", err)
	}
	// XLSX is a zip container.
	if !bytes.HasPrefix(payload, []byte("PK")) {
		t.Fatalf("output is not a zip archive")
	}
}

func TestWorkHistoryUnknownEmployee(t *testing.T) {
	svc := NewService(&fakeSource{})
	if _, err := svc.WorkHistoryPDF(context.Background(), "ghost"); !errors.Is(err, employee.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSortedLedgerOrdersByDate(t *testing.T) {
	entries := sortedLedger(reportEmployee())
	if len(entries) != 2 || entries[0].ID != "a" || entries[1].ID != "b" {
		t.Fatalf("ledger not sorted by date: %+v", entries)
	}
}

func TestFirstLineTruncation(t *testing.T) {
	if got := firstLine("one\ntwo"); got != "one" {
		t.Fatalf("firstLine = %q", got)
	}
	long := make([]rune, 0, 80)
	for i := 0; i < 80; i++ {
		long = append(long, 'ก')
	}
	got := firstLine(string(long))
	if len([]rune(got)) != 60 {
		t.Fatalf("truncated length = %d runes, want 60 (57 + ellipsis)", len([]rune(got)))
	}
}
