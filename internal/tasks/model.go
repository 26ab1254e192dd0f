package tasks

import (
	"strings"
	"time"
)

// Task statuses.
const (
	StatusPending    = "Pending"
	StatusInProgress = "InProgress"
	StatusCompleted  = "Completed"
)

// Task priorities.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Task is a unit of work on a project, assigned to one employee.
type Task struct {
	ID            int64      `json:"id"`
	ProjectID     int64      `json:"projectId"`
	ProjectName   string     `json:"projectName"`
	AssignedTo    int64      `json:"assignedTo"`
	AssigneeName  string     `json:"assigneeName"`
	AssigneeEmail string     `json:"assigneeEmail,omitempty"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Status        string     `json:"status"`
	Priority      string     `json:"priority"`
	DueDate       *time.Time `json:"dueDate,omitempty"`
	CreatedBy     string     `json:"createdBy,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// TaskInput carries the mutable fields for create and update.
type TaskInput struct {
	ProjectID   int64
	AssignedTo  int64
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
}

// NormalizeStatus maps user supplied status spellings to the canonical form.
// Returns the empty string for unknown values.
func NormalizeStatus(s string) string {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "")) {
	case "pending":
		return StatusPending
	case "inprogress":
		return StatusInProgress
	case "completed":
		return StatusCompleted
	default:
		return ""
	}
}

// NormalizePriority maps user supplied priority spellings to the canonical
// form. Returns the empty string for unknown values.
func NormalizePriority(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "low":
		return PriorityLow
	case "medium":
		return PriorityMedium
	case "high":
		return PriorityHigh
	default:
		return ""
	}
}
