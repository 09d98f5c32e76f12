package employee

// Featured is the public spotlight projection of an employee record.
type Featured struct {
	Name              string `json:"name"`
	Department        string `json:"department"`
	Role              string `json:"role"`
	TotalWorkDuration string `json:"totalWorkDuration"`
}

func FeaturedView(employees []Employee) []Featured {
	out := make([]Featured, 0, len(employees))
	for _, emp := range employees {
		out = append(out, Featured{
			Name:              emp.Name,
			Department:        emp.Department,
			Role:              emp.Role,
			TotalWorkDuration: emp.TotalWorkDuration,
		})
	}
	return out
}
