package departments

import "time"

// Department groups employees.
type Department struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultDepartments are seeded at startup.
func DefaultDepartments() []string {
	return []string{"IT", "HR", "Finance", "Marketing"}
}
