package worklog

import (
	"strconv"
	"strings"
	"time"

	"timetrack/internal/domain/employee"
)

// MaxDailyHours caps the hours an employee may log per calendar date,
// pending and approved entries combined.
const MaxDailyHours = 7

// MinEntryHours is the smallest amount a single entry may carry.
const MinEntryHours = 1

// SameDay reports whether a and b fall on the same calendar date in UTC.
// Time of day never participates in work-log comparisons.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// HoursOnDate sums the hours already logged for one calendar date across the
// approved ledger and the pending list.
func HoursOnDate(emp *employee.Employee, date time.Time) float64 {
	var total float64
	for _, entry := range emp.DayWork {
		if SameDay(entry.Date, date) {
			total += entry.HoursWorked
		}
	}
	for _, entry := range emp.PendingWorkLogs {
		if SameDay(entry.Date, date) {
			total += entry.HoursWorked
		}
	}
	return total
}

// Submit appends entry to the pending list after enforcing the daily cap.
// On failure the employee is left untouched.
func Submit(emp *employee.Employee, entry employee.WorkLogEntry) error {
	if HoursOnDate(emp, entry.Date)+entry.HoursWorked > MaxDailyHours {
		return ErrDailyHourLimit
	}
	emp.PendingWorkLogs = append(emp.PendingWorkLogs, entry)
	return nil
}

// Approve moves the pending entry into the approved ledger. An approved entry
// dated past the contract end extends the contract by one term; the end date
// never moves backward. Entries sharing a calendar date are merged: hours
// summed, task details appended on a new line, progress level overwritten.
func Approve(emp *employee.Employee, entryID string) error {
	idx := findEntry(emp.PendingWorkLogs, entryID)
	if idx < 0 {
		return ErrEntryNotFound
	}
	if emp.ContractEndDate.IsZero() {
		return ErrContractEndDateMissing
	}

	entry := emp.PendingWorkLogs[idx]
	if entry.Date.After(emp.ContractEndDate) {
		emp.ContractEndDate = emp.ContractEndDate.Add(employee.ContractTerm)
	}

	merged := false
	for i := range emp.DayWork {
		if SameDay(emp.DayWork[i].Date, entry.Date) {
			emp.DayWork[i].HoursWorked += entry.HoursWorked
			emp.DayWork[i].TaskDetails += "\n" + entry.TaskDetails
			emp.DayWork[i].ProgressLevel = entry.ProgressLevel
			merged = true
			break
		}
	}
	if !merged {
		emp.DayWork = append(emp.DayWork, entry)
	}

	emp.PendingWorkLogs = removeAt(emp.PendingWorkLogs, idx)
	return nil
}

// Reject moves the pending entry, identity preserved, to the refused list.
// Refused entries are never merged.
func Reject(emp *employee.Employee, entryID string) error {
	idx := findEntry(emp.PendingWorkLogs, entryID)
	if idx < 0 {
		return ErrEntryNotFound
	}
	emp.RefusedWorkLogs = append(emp.RefusedWorkLogs, emp.PendingWorkLogs[idx])
	emp.PendingWorkLogs = removeAt(emp.PendingWorkLogs, idx)
	return nil
}

// CancelPending removes a still-pending entry. Approved and refused lists are
// not consulted.
func CancelPending(emp *employee.Employee, entryID string) error {
	idx := findEntry(emp.PendingWorkLogs, entryID)
	if idx < 0 {
		return ErrEntryNotFound
	}
	emp.PendingWorkLogs = removeAt(emp.PendingWorkLogs, idx)
	return nil
}

// DeleteRefused removes an entry from the refused list.
func DeleteRefused(emp *employee.Employee, entryID string) error {
	idx := findEntry(emp.RefusedWorkLogs, entryID)
	if idx < 0 {
		return ErrEntryNotFound
	}
	emp.RefusedWorkLogs = removeAt(emp.RefusedWorkLogs, idx)
	return nil
}

// DailyEarnings sums hoursWorked times the daily rate over approved entries
// dated today. Read-only.
func DailyEarnings(emp *employee.Employee, today time.Time) (float64, error) {
	rate, err := strconv.ParseFloat(strings.TrimSpace(emp.DailyRate), 64)
	if err != nil {
		return 0, ErrInvalidRate
	}

	var total float64
	for _, entry := range emp.DayWork {
		if SameDay(entry.Date, today) {
			total += entry.HoursWorked * rate
		}
	}
	return total, nil
}

func findEntry(entries []employee.WorkLogEntry, id string) int {
	for i := range entries {
		if entries[i].ID == id {
			return i
		}
	}
	return -1
}

func removeAt(entries []employee.WorkLogEntry, idx int) []employee.WorkLogEntry {
	return append(entries[:idx:idx], entries[idx+1:]...)
}
