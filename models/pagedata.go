package models

// Lane is one user's drop card on the admin board.
type Lane struct {
	User  User
	Tasks []Task
}

type PageData struct {
	CSRFtoken  string
	User       *User
	Error      string
	Unassigned []Task
	Lanes      []Lane
	Assignees  []User
	MyTasks    []Task
}
