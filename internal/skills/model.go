package skills

import "time"

// Skill is a competency that can be attached to employees.
type Skill struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultSkills are seeded at startup.
func DefaultSkills() []string {
	return []string{"Angular", "React", "SQL", "JavaScript", "Go"}
}
