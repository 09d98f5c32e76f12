package worklog

import "errors"

var (
	ErrEntryNotFound          = errors.New("work log not found")
	ErrDailyHourLimit         = errors.New("daily hour limit exceeded")
	ErrContractEndDateMissing = errors.New("contract end date is not defined")
	ErrInvalidRate            = errors.New("invalid or missing daily rate")
)
