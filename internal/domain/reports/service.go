package reports

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"timetrack/internal/domain/employee"
)

type EmployeeSource interface {
	Get(ctx context.Context, id string) (*employee.Employee, error)
}

// Service renders an employee's approved work ledger as downloadable
// documents.
type Service struct {
	employees EmployeeSource
}

func NewService(employees EmployeeSource) *Service {
	return &Service{employees: employees}
}

func (s *Service) WorkHistoryPDF(ctx context.Context, employeeID string) ([]byte, error) {
	emp, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	entries := sortedLedger(emp)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "Work History")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Employee: %s", emp.Name))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Department: %s", emp.Department))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Contract end: %s", emp.ContractEndDate.Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(30, 7, "Date", "1", 0, "", false, 0, "")
	pdf.CellFormat(95, 7, "Task", "1", 0, "", false, 0, "")
	pdf.CellFormat(35, 7, "Progress", "1", 0, "", false, 0, "")
	pdf.CellFormat(20, 7, "Hours", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	var totalHours float64
	for _, entry := range entries {
		pdf.CellFormat(30, 6, entry.Date.Format("2006-01-02"), "1", 0, "", false, 0, "")
		pdf.CellFormat(95, 6, firstLine(entry.TaskDetails), "1", 0, "", false, 0, "")
		pdf.CellFormat(35, 6, entry.ProgressLevel, "1", 0, "", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%.1f", entry.HoursWorked), "1", 1, "R", false, 0, "")
		totalHours += entry.HoursWorked
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(160, 7, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(20, 7, fmt.Sprintf("%.1f", totalHours), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Service) WorkHistoryXLSX(ctx context.Context, employeeID string) ([]byte, error) {
	emp, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	entries := sortedLedger(emp)

	file := excelize.NewFile()
	defer file.Close()

	sheet := "Work History"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []any{"Date", "Task Details", "Progress", "Hours Worked"}
	if err := file.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, err
	}

	var totalHours float64
	for i, entry := range entries {
		cell := fmt.Sprintf("A%d", i+2)
		row := []any{
			entry.Date.Format("2006-01-02"),
			entry.TaskDetails,
			entry.ProgressLevel,
			entry.HoursWorked,
		}
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
		totalHours += entry.HoursWorked
	}

	summary := []any{"Total", "", "", totalHours}
	if err := file.SetSheetRow(sheet, fmt.Sprintf("A%d", len(entries)+2), &summary); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sortedLedger(emp *employee.Employee) []employee.WorkLogEntry {
	entries := make([]employee.WorkLogEntry, len(emp.DayWork))
	copy(entries, emp.DayWork)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	runes := []rune(text)
	if len(runes) > 60 {
		return string(runes[:57]) + "..."
	}
	return text
}
