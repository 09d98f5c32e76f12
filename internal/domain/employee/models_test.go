package employee

import "testing"

func TestNormalizeDepartment(t *testing.T) {
	for _, known := range Departments {
		if got := NormalizeDepartment(known); got != known {
			t.Fatalf("known department %q normalized to %q", known, got)
		}
	}
	for _, unknown := range []string{"", "it", "Engineering", "LEGAL"} {
		if got := NormalizeDepartment(unknown); got != DepartmentOther {
			t.Fatalf("unknown department %q normalized to %q, want OTHER", unknown, got)
		}
	}
}

func TestDefaultDailyRate(t *testing.T) {
	tests := map[string]string{
		DepartmentHR:        "800",
		DepartmentIT:        "1000",
		DepartmentFinance:   "900",
		DepartmentSales:     "1100",
		DepartmentMarketing: "950",
		DepartmentDesign:    "1050",
		DepartmentService:   "850",
		DepartmentOther:     "700",
	}
	for department, want := range tests {
		if got := DefaultDailyRate(department); got != want {
			t.Fatalf("rate for %s = %q, want %q", department, got, want)
		}
	}
	if got := DefaultDailyRate("NOPE"); got != "700" {
		t.Fatalf("unknown department rate = %q, want the OTHER rate", got)
	}
}

func TestFeaturedView(t *testing.T) {
	employees := []Employee{
		{Name: "A", Department: DepartmentIT, Role: RoleEmployee, TotalWorkDuration: "0 ปี 1 เดือน 0 วัน", Email: "a@example.com", IDCard: "1111111111111"},
	}
	featured := FeaturedView(employees)
	if len(featured) != 1 {
		t.Fatalf("expected one featured entry")
	}
	got := featured[0]
	if got.Name != "A" || got.Department != DepartmentIT || got.TotalWorkDuration != "0 ปี 1 เดือน 0 วัน" {
		t.Fatalf("featured projection wrong: %+v", got)
	}
}
