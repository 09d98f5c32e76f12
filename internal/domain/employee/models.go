package employee

import "time"

const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

const (
	DepartmentHR        = "HR"
	DepartmentIT        = "IT"
	DepartmentFinance   = "FINANCE"
	DepartmentSales     = "SALES"
	DepartmentMarketing = "MARKETING"
	DepartmentDesign    = "DESIGN"
	DepartmentService   = "SERVICE"
	DepartmentOther     = "OTHER"
)

var Departments = []string{
	DepartmentHR,
	DepartmentIT,
	DepartmentFinance,
	DepartmentSales,
	DepartmentMarketing,
	DepartmentDesign,
	DepartmentService,
	DepartmentOther,
}

// NormalizeDepartment maps anything outside the known set to OTHER.
func NormalizeDepartment(department string) string {
	for _, known := range Departments {
		if department == known {
			return known
		}
	}
	return DepartmentOther
}

var defaultDailyRates = map[string]string{
	DepartmentHR:        "800",
	DepartmentIT:        "1000",
	DepartmentFinance:   "900",
	DepartmentSales:     "1100",
	DepartmentMarketing: "950",
	DepartmentDesign:    "1050",
	DepartmentService:   "850",
	DepartmentOther:     "700",
}

// DefaultDailyRate returns the per-department daily rate in baht.
func DefaultDailyRate(department string) string {
	if rate, ok := defaultDailyRates[department]; ok {
		return rate
	}
	return defaultDailyRates[DepartmentOther]
}

type WorkLogEntry struct {
	ID            string    `json:"id"`
	Date          time.Time `json:"date"`
	TaskDetails   string    `json:"taskDetails"`
	ProgressLevel string    `json:"progressLevel"`
	HoursWorked   float64   `json:"hoursWorked"`
}

// Employee is the aggregate the whole work-log lifecycle operates on. The
// three embedded entry lists are persisted with the record so every mutation
// is a single read-modify-write.
type Employee struct {
	ID                        string         `json:"id"`
	Name                      string         `json:"name"`
	Department                string         `json:"department"`
	Email                     string         `json:"email"`
	IDCard                    string         `json:"idCard"`
	PhoneNumber               string         `json:"phoneNumber"`
	Role                      string         `json:"role"`
	DailyRate                 string         `json:"dailyRate"`
	StartWorkDate             time.Time      `json:"startWorkDate"`
	ContractEndDate           time.Time      `json:"contractEndDate"`
	LastLogin                 *time.Time     `json:"lastLogin,omitempty"`
	LastLogout                *time.Time     `json:"lastLogout,omitempty"`
	DayWork                   []WorkLogEntry `json:"dayWork"`
	PendingWorkLogs           []WorkLogEntry `json:"pendingWorkLogs"`
	RefusedWorkLogs           []WorkLogEntry `json:"refusedWorkLogs"`
	TotalWorkDuration         string         `json:"totalWorkDuration"`
	RemainingContractDuration string         `json:"remainingContractDuration"`
	IsDeleted                 bool           `json:"isDeleted"`
	CreatedAt                 time.Time      `json:"createdAt"`
	UpdatedAt                 time.Time      `json:"updatedAt"`
}
