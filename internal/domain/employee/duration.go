package employee

import (
	"fmt"
	"time"
)

// Durations use fixed arithmetic: a 365.25-day year and a 30-day month.
// This is not calendar arithmetic; the approximation is part of the output
// format and must not change.
const (
	yearApprox  = time.Duration(365.25 * 24 * 60 * 60 * 1e9)
	monthApprox = 30 * 24 * time.Hour
	dayApprox   = 24 * time.Hour

	// ContractTerm is the six-month contract unit (exactly 180 days).
	ContractTerm = 6 * monthApprox
)

const contractExpired = "สัญญาหมดอายุแล้ว"

// FormatDuration decomposes d into "<years> ปี <months> เดือน <days> วัน".
func FormatDuration(d time.Duration) string {
	years := d / yearApprox
	months := (d % yearApprox) / monthApprox
	days := (d % monthApprox) / dayApprox
	return fmt.Sprintf("%d ปี %d เดือน %d วัน", years, months, days)
}

// RecomputeDurations refreshes the derived duration strings from now. It is
// idempotent and never mutates StartWorkDate or ContractEndDate. Callers must
// invoke it before every persist.
func (e *Employee) RecomputeDurations(now time.Time) {
	e.TotalWorkDuration = FormatDuration(now.Sub(e.StartWorkDate))

	remaining := e.ContractEndDate.Sub(now)
	if remaining < 0 {
		e.RemainingContractDuration = contractExpired
		return
	}
	e.RemainingContractDuration = FormatDuration(remaining)
}
