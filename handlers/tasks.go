package handlers

import (
	"errors"
	"log"
	"net/http"

	"taskflow/models"
	"taskflow/utils"
)

func adminPage(w http.ResponseWriter, r *http.Request, env *Env, u *models.User, csrfToken string) {
	board, err := utils.OpenBoard(r.Context(), env.Storage, env.Notifier)
	if err != nil {
		log.Println("Error loading board:", err)
		http.Error(w, "Error displaying tasks", http.StatusInternalServerError)
		return
	}
	pool, lanes := board.Partition()
	render(w, "admin", models.PageData{
		CSRFtoken:  csrfToken,
		User:       u,
		Unassigned: pool,
		Lanes:      lanes,
		Assignees:  board.Assignees(),
	})
}

func userPage(w http.ResponseWriter, r *http.Request, env *Env, u *models.User, csrfToken string) {
	inbox, err := utils.OpenInbox(r.Context(), env.Storage, *u)
	if err != nil {
		log.Println("Error retriving tasks for user:", u.Username, ": ", err)
		http.Error(w, "Error displaying tasks", http.StatusInternalServerError)
		return
	}
	render(w, "user", models.PageData{
		CSRFtoken: csrfToken,
		User:      u,
		MyTasks:   inbox.Tasks(),
	})
}

// AddTaskHandler creates a task from the admin form. A blank title is
// ignored and the board is simply shown again; oversize input is a 400.
func AddTaskHandler(w http.ResponseWriter, r *http.Request, env *Env) {
	if _, ok := env.authorized(w, r, true); !ok {
		return
	}

	board, err := utils.OpenBoard(r.Context(), env.Storage, env.Notifier)
	if err != nil {
		log.Println("Error loading board:", err)
		http.Error(w, "Failed to add task", http.StatusInternalServerError)
		return
	}

	assignee, err := utils.ParseAssignee(r.FormValue("assignee"), board.Assignees())
	if err != nil {
		log.Println("error with task assignee:", err)
		http.Error(w, "Invalid assignee", http.StatusBadRequest)
		return
	}

	t, err := board.CreateTask(r.Context(), r.FormValue("title"), r.FormValue("description"), assignee)
	if errors.Is(err, utils.ErrInvalidTask) {
		log.Println("error with task input:", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Println("Error adding task:", err)
		http.Error(w, "Failed to add task", http.StatusInternalServerError)
		return
	}
	if t != nil {
		log.Println("task added:", t.ID)
	}

	redirect(w, r, "/")
}

// MoveTaskHandler receives a dropped card: the path names the task, the
// user_id field names the drop target.
func MoveTaskHandler(w http.ResponseWriter, r *http.Request, env *Env) {
	if _, ok := env.authorized(w, r, true); !ok {
		return
	}

	taskID := r.PathValue("id")
	if taskID == "" {
		http.Error(w, "Missing task ID", http.StatusBadRequest)
		return
	}

	board, err := utils.OpenBoard(r.Context(), env.Storage, env.Notifier)
	if err != nil {
		log.Println("Error loading board:", err)
		http.Error(w, "Failed to move task", http.StatusInternalServerError)
		return
	}

	target, err := utils.ResolveDropTarget(board, r.FormValue("user_id"))
	if err != nil {
		log.Println("drop rejected:", err)
		http.Error(w, "Invalid drop target", http.StatusBadRequest)
		return
	}

	moved, err := target.Drop(r.Context(), board, utils.DragPayload{TaskID: taskID})
	if err != nil {
		log.Println("error moving task:", err)
		http.Error(w, "Failed to move task", http.StatusInternalServerError)
		return
	}
	if moved {
		log.Printf("task %s moved to user %d", taskID, target.UserID)
	}

	redirect(w, r, "/")
}

// ToggleTaskHandler flips the status of one of the caller's own tasks.
func ToggleTaskHandler(w http.ResponseWriter, r *http.Request, env *Env) {
	s, ok := env.authorized(w, r, false)
	if !ok {
		return
	}

	inbox, err := utils.OpenInbox(r.Context(), env.Storage, *s.User())
	if err != nil {
		log.Println("Error retriving tasks:", err)
		http.Error(w, "Failed to update task", http.StatusInternalServerError)
		return
	}

	t, err := inbox.ToggleStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		log.Println("error toggling task:", err)
		http.Error(w, "Failed to update task", http.StatusInternalServerError)
		return
	}
	if t == nil {
		http.Error(w, "Task not found", http.StatusNotFound)
		return
	}

	redirect(w, r, "/")
}
