package utils

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"taskflow/models"
)

// Board is the admin's working copy of users and tasks. It is loaded once per
// request and every change is pushed through Storage.
type Board struct {
	storage  *Storage
	notifier Notifier
	users    []models.User
	tasks    []models.Task
}

// OpenBoard reads the full user and task lists.
func OpenBoard(ctx context.Context, storage *Storage, notifier Notifier) (*Board, error) {
	users, err := storage.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := storage.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Board{storage: storage, notifier: notifier, users: users, tasks: tasks}, nil
}

// Assignees are the users that can receive tasks; the admin is excluded.
func (b *Board) Assignees() []models.User {
	var out []models.User
	for _, u := range b.users {
		if !u.IsAdmin() {
			out = append(out, u)
		}
	}
	return out
}

// CreateTask adds a Pending task. A blank title is a no-op and returns nil;
// input that fails validation returns an error wrapping ErrInvalidTask.
func (b *Board) CreateTask(ctx context.Context, title, description string, assigneeID *int) (*models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, nil
	}
	in := TaskInput{Title: title, Description: description, AssigneeID: assigneeID}
	if err := ValidateTaskInput(in); err != nil {
		return nil, err
	}

	t := models.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Status:      models.StatusPending,
	}
	if assigneeID != nil {
		t = t.WithAssignee(*assigneeID)
	}

	tasks, err := b.storage.AddTask(ctx, t)
	if err != nil {
		return nil, err
	}
	b.tasks = tasks

	if t.AssigneeID != nil {
		b.notify(ctx, t)
	}
	return &t, nil
}

// Reassign routes a task to userID. It reports false when the task is
// unknown or already belongs to that user.
func (b *Board) Reassign(ctx context.Context, taskID string, userID int) (bool, error) {
	var current *models.Task
	for i := range b.tasks {
		if b.tasks[i].ID == taskID {
			current = &b.tasks[i]
			break
		}
	}
	if current == nil || current.AssignedTo(userID) {
		return false, nil
	}

	updated := current.WithAssignee(userID)
	tasks, err := b.storage.UpdateTask(ctx, updated)
	if err != nil {
		return false, err
	}
	b.tasks = tasks
	b.notify(ctx, updated)
	return true, nil
}

// Partition splits the tasks into the unassigned pool and one lane per
// assignee.
func (b *Board) Partition() ([]models.Task, []models.Lane) {
	var pool []models.Task
	for _, t := range b.tasks {
		if t.Unassigned() {
			pool = append(pool, t)
		}
	}

	var lanes []models.Lane
	for _, u := range b.Assignees() {
		lane := models.Lane{User: u}
		for _, t := range b.tasks {
			if t.AssignedTo(u.ID) {
				lane.Tasks = append(lane.Tasks, t)
			}
		}
		lanes = append(lanes, lane)
	}
	return pool, lanes
}

func (b *Board) notify(ctx context.Context, t models.Task) {
	for _, u := range b.users {
		if t.AssignedTo(u.ID) {
			if err := b.notifier.TaskAssigned(ctx, u, t); err != nil {
				log.Printf("failed to notify %s about task %s: %v", u.Username, t.ID, err)
			}
			return
		}
	}
}

// Inbox is a regular user's view of the tasks assigned to them.
type Inbox struct {
	storage *Storage
	user    models.User
	tasks   []models.Task
}

func OpenInbox(ctx context.Context, storage *Storage, user models.User) (*Inbox, error) {
	all, err := storage.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	var mine []models.Task
	for _, t := range all {
		if t.AssignedTo(user.ID) {
			mine = append(mine, t)
		}
	}
	return &Inbox{storage: storage, user: user, tasks: mine}, nil
}

func (in *Inbox) Tasks() []models.Task {
	return in.tasks
}

// ToggleStatus flips a task between Pending and Completed. Tasks not in the
// inbox cannot be toggled.
func (in *Inbox) ToggleStatus(ctx context.Context, taskID string) (*models.Task, error) {
	for i := range in.tasks {
		if in.tasks[i].ID != taskID {
			continue
		}
		updated := in.tasks[i]
		updated.Status = updated.Status.Toggled()
		if _, err := in.storage.UpdateTask(ctx, updated); err != nil {
			return nil, err
		}
		in.tasks[i] = updated
		return &updated, nil
	}
	return nil, nil
}

// ParseAssignee turns the select value into an assignee id. An empty value
// means unassigned; anything else must name one of the assignees.
func ParseAssignee(v string, assignees []models.User) (*int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	id, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("invalid assignee %q", v)
	}
	for _, u := range assignees {
		if u.ID == id {
			return &id, nil
		}
	}
	return nil, fmt.Errorf("unknown assignee %d", id)
}
