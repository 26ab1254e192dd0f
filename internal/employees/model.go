package employees

import "time"

// Employee is a staff record with its department and skill links resolved.
type Employee struct {
	ID             int64     `json:"id"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email"`
	Salary         float64   `json:"salary"`
	JoinedOn       time.Time `json:"joinedOn"`
	DepartmentID   int64     `json:"departmentId"`
	DepartmentName string    `json:"departmentName"`
	SkillIDs       []int64   `json:"skillIds"`
	Skills         []string  `json:"skills"`
	CreatedBy      string    `json:"createdBy,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// EmployeeInput carries the mutable fields for create and update.
type EmployeeInput struct {
	FullName     string
	Email        string
	Salary       float64
	JoinedOn     time.Time
	DepartmentID int64
	SkillIDs     []int64
}
