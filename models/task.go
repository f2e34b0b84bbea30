package models

type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// Toggled returns the other status.
func (s Status) Toggled() Status {
	if s == StatusPending {
		return StatusCompleted
	}
	return StatusPending
}

// Task is stored as part of the tasks record. A nil AssigneeID means the task
// sits in the unassigned pool.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	AssigneeID  *int   `json:"assigneeId"`
	Status      Status `json:"status"`
}

func (t Task) AssignedTo(userID int) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}

func (t Task) Unassigned() bool {
	return t.AssigneeID == nil
}

// WithAssignee returns a copy of t routed to userID.
func (t Task) WithAssignee(userID int) Task {
	id := userID
	t.AssigneeID = &id
	return t
}
