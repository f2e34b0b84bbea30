package utils_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"taskflow/models"
	"taskflow/utils"
)

type recordingNotifier struct {
	calls []string
}

func (n *recordingNotifier) TaskAssigned(_ context.Context, to models.User, t models.Task) error {
	n.calls = append(n.calls, to.Username+":"+t.ID)
	return nil
}

func newBoard(t *testing.T) (*utils.Board, *utils.Storage, *recordingNotifier) {
	t.Helper()
	ctx := context.Background()
	storage := utils.NewStorage(utils.NewMemoryStore())
	if err := storage.Initialize(ctx); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	n := &recordingNotifier{}
	b, err := utils.OpenBoard(ctx, storage, n)
	if err != nil {
		t.Fatalf("OpenBoard() error = %v", err)
	}
	return b, storage, n
}

func TestCreateTask(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		assignee    *int
	}{
		{name: "Unassigned task", title: "Fix login", description: "", assignee: nil},
		{name: "Assigned task", title: "Write docs", description: "README", assignee: intPtr(2)},
		{name: "Title with surrounding spaces", title: "  Deploy  ", description: "prod", assignee: intPtr(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, storage, _ := newBoard(t)
			ctx := context.Background()
			existing, err := b.CreateTask(ctx, "Existing", "", nil)
			if err != nil || existing == nil {
				t.Fatalf("CreateTask() = %v, %v", existing, err)
			}

			got, err := b.CreateTask(ctx, tt.title, tt.description, tt.assignee)
			if err != nil {
				t.Fatalf("CreateTask() error = %v", err)
			}
			if got == nil {
				t.Fatal("CreateTask() = nil, want a task")
			}
			if got.Status != models.StatusPending {
				t.Errorf("Status = %v, want %v", got.Status, models.StatusPending)
			}
			if got.ID == "" || got.ID == existing.ID {
				t.Errorf("ID = %q, want a fresh id", got.ID)
			}
			switch {
			case tt.assignee == nil && got.AssigneeID != nil:
				t.Errorf("AssigneeID = %v, want nil", *got.AssigneeID)
			case tt.assignee != nil && (got.AssigneeID == nil || *got.AssigneeID != *tt.assignee):
				t.Errorf("AssigneeID = %v, want %d", got.AssigneeID, *tt.assignee)
			}

			stored, _ := storage.ListTasks(ctx)
			if len(stored) != 2 || stored[1].ID != got.ID {
				t.Errorf("stored tasks = %v, want the new task appended", stored)
			}
		})
	}
}

func TestCreateTaskRejectsBlankTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
	}{
		{name: "Empty title", title: ""},
		{name: "Spaces only", title: "   "},
		{name: "Tabs and newlines", title: "\t\n "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, storage, _ := newBoard(t)
			ctx := context.Background()

			got, err := b.CreateTask(ctx, tt.title, "desc", intPtr(1))
			if err != nil {
				t.Fatalf("CreateTask() error = %v", err)
			}
			if got != nil {
				t.Errorf("CreateTask() = %v, want nil", got)
			}
			stored, _ := storage.ListTasks(ctx)
			if len(stored) != 0 {
				t.Errorf("stored tasks = %v, want none", stored)
			}
		})
	}
}

func TestCreateTaskRejectsOversizeInput(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
	}{
		{name: "Title too long", title: strings.Repeat("t", 256), description: ""},
		{name: "Description too long", title: "ok", description: strings.Repeat("d", 2001)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, storage, _ := newBoard(t)
			ctx := context.Background()

			got, err := b.CreateTask(ctx, tt.title, tt.description, nil)
			if !errors.Is(err, utils.ErrInvalidTask) {
				t.Errorf("CreateTask() error = %v, want %v", err, utils.ErrInvalidTask)
			}
			if got != nil {
				t.Errorf("CreateTask() = %v, want nil", got)
			}
			stored, _ := storage.ListTasks(ctx)
			if len(stored) != 0 {
				t.Errorf("stored tasks = %v, want none", stored)
			}
		})
	}
}

func TestReassignIsIdempotent(t *testing.T) {
	b, storage, n := newBoard(t)
	ctx := context.Background()
	task, _ := b.CreateTask(ctx, "Move me", "", nil)

	moved, err := b.Reassign(ctx, task.ID, 2)
	if err != nil || !moved {
		t.Fatalf("first Reassign() = %v, %v; want true, nil", moved, err)
	}
	moved, err = b.Reassign(ctx, task.ID, 2)
	if err != nil || moved {
		t.Fatalf("second Reassign() = %v, %v; want false, nil", moved, err)
	}

	stored, _ := storage.ListTasks(ctx)
	if !stored[0].AssignedTo(2) {
		t.Errorf("stored assignee = %v, want 2", stored[0].AssigneeID)
	}
	if stored[0].Status != models.StatusPending || stored[0].Title != "Move me" {
		t.Errorf("stored task = %v, want only the assignee changed", stored[0])
	}
	if len(n.calls) != 1 || n.calls[0] != "user2:"+task.ID {
		t.Errorf("notifications = %v, want one for user2", n.calls)
	}
}

func TestReassignUnknownTask(t *testing.T) {
	b, storage, _ := newBoard(t)
	ctx := context.Background()
	b.CreateTask(ctx, "Stay", "", intPtr(1))

	moved, err := b.Reassign(ctx, "no-such-task", 2)
	if err != nil || moved {
		t.Fatalf("Reassign() = %v, %v; want false, nil", moved, err)
	}
	stored, _ := storage.ListTasks(ctx)
	if !stored[0].AssignedTo(1) {
		t.Errorf("stored assignee = %v, want 1", stored[0].AssigneeID)
	}
}

func TestReassignKeepsStatus(t *testing.T) {
	b, storage, _ := newBoard(t)
	ctx := context.Background()
	task, _ := b.CreateTask(ctx, "Done already", "", intPtr(1))

	inbox, _ := utils.OpenInbox(ctx, storage, models.User{ID: 1, Username: "user1", Role: models.RoleUser})
	inbox.ToggleStatus(ctx, task.ID)

	b, _ = utils.OpenBoard(ctx, storage, nil)
	if _, err := b.Reassign(ctx, task.ID, 3); err != nil {
		t.Fatalf("Reassign() error = %v", err)
	}
	stored, _ := storage.ListTasks(ctx)
	if stored[0].Status != models.StatusCompleted || !stored[0].AssignedTo(3) {
		t.Errorf("stored task = %+v, want Completed and assigned to 3", stored[0])
	}
}

func TestPartitionLaw(t *testing.T) {
	b, storage, _ := newBoard(t)
	ctx := context.Background()
	b.CreateTask(ctx, "a", "", nil)
	b.CreateTask(ctx, "b", "", intPtr(1))
	b.CreateTask(ctx, "c", "", intPtr(2))
	b.CreateTask(ctx, "d", "", intPtr(2))
	e, _ := b.CreateTask(ctx, "e", "", nil)
	b.Reassign(ctx, e.ID, 3)

	pool, lanes := b.Partition()

	if len(lanes) != 3 {
		t.Fatalf("Partition() lanes = %d, want 3", len(lanes))
	}
	seen := map[string]int{}
	for _, task := range pool {
		if !task.Unassigned() {
			t.Errorf("pool task %q has assignee %v", task.Title, *task.AssigneeID)
		}
		seen[task.ID]++
	}
	for _, lane := range lanes {
		if lane.User.IsAdmin() {
			t.Errorf("admin offered as drop target")
		}
		for _, task := range lane.Tasks {
			if !task.AssignedTo(lane.User.ID) {
				t.Errorf("lane %s holds task %q", lane.User.Username, task.Title)
			}
			seen[task.ID]++
		}
	}

	all, _ := storage.ListTasks(context.Background())
	if len(seen) != len(all) {
		t.Errorf("partition covers %d tasks, want %d", len(seen), len(all))
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("task %s appears %d times, want 1", id, n)
		}
	}
}

func TestAssigneesExcludeAdmin(t *testing.T) {
	b, _, _ := newBoard(t)
	for _, u := range b.Assignees() {
		if u.ID == utils.AdminID {
			t.Errorf("Assignees() includes admin")
		}
	}
	if got := len(b.Assignees()); got != 3 {
		t.Errorf("len(Assignees()) = %d, want 3", got)
	}
}

func TestToggleStatusIsInvolution(t *testing.T) {
	b, storage, _ := newBoard(t)
	ctx := context.Background()
	mine, _ := b.CreateTask(ctx, "Mine", "", intPtr(1))
	b.CreateTask(ctx, "Theirs", "", intPtr(2))

	inbox, err := utils.OpenInbox(ctx, storage, models.User{ID: 1, Username: "user1", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("OpenInbox() error = %v", err)
	}
	if len(inbox.Tasks()) != 1 {
		t.Fatalf("Tasks() = %v, want only user1's task", inbox.Tasks())
	}

	first, err := inbox.ToggleStatus(ctx, mine.ID)
	if err != nil || first == nil || first.Status != models.StatusCompleted {
		t.Fatalf("first ToggleStatus() = %v, %v; want Completed", first, err)
	}
	if inbox.Tasks()[0].Status != models.StatusCompleted {
		t.Errorf("local copy status = %v, want Completed", inbox.Tasks()[0].Status)
	}
	stored, _ := storage.ListTasks(ctx)
	if stored[0].Status != models.StatusCompleted {
		t.Errorf("stored status = %v, want Completed", stored[0].Status)
	}

	second, err := inbox.ToggleStatus(ctx, mine.ID)
	if err != nil || second == nil || second.Status != models.StatusPending {
		t.Fatalf("second ToggleStatus() = %v, %v; want Pending", second, err)
	}
	stored, _ = storage.ListTasks(ctx)
	if stored[0].Status != models.StatusPending {
		t.Errorf("stored status = %v, want Pending", stored[0].Status)
	}
}

func TestToggleStatusOtherUsersTask(t *testing.T) {
	b, storage, _ := newBoard(t)
	ctx := context.Background()
	theirs, _ := b.CreateTask(ctx, "Theirs", "", intPtr(2))

	inbox, _ := utils.OpenInbox(ctx, storage, models.User{ID: 1, Username: "user1", Role: models.RoleUser})
	got, err := inbox.ToggleStatus(ctx, theirs.ID)
	if err != nil || got != nil {
		t.Fatalf("ToggleStatus() = %v, %v; want nil, nil", got, err)
	}
	stored, _ := storage.ListTasks(ctx)
	if stored[0].Status != models.StatusPending {
		t.Errorf("stored status = %v, want Pending", stored[0].Status)
	}
}

func TestParseAssignee(t *testing.T) {
	assignees := utils.DefaultUsers()[:3]
	tests := []struct {
		name    string
		value   string
		want    *int
		wantErr bool
	}{
		{name: "Empty value is unassigned", value: "", want: nil},
		{name: "Known user id", value: "2", want: intPtr(2)},
		{name: "Admin is not an assignee", value: "999", wantErr: true},
		{name: "Not a number", value: "user1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := utils.ParseAssignee(tt.value, assignees)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAssignee() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("ParseAssignee() = %v, want %v", got, tt.want)
			}
		})
	}
}
