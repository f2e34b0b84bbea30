package handlers

import (
	"io/fs"
	"net/http"

	"taskflow/ui"
)

func NewMux(env *Env) *http.ServeMux {
	mux := http.NewServeMux()

	static, _ := fs.Sub(ui.Files, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static", http.FileServerFS(static)))

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		Home(w, r, env)
	})
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		LoginHandler(w, r, env)
	})
	mux.HandleFunc("POST /logout", func(w http.ResponseWriter, r *http.Request) {
		LogOutHandler(w, r, env)
	})
	mux.HandleFunc("POST /tasks", func(w http.ResponseWriter, r *http.Request) {
		AddTaskHandler(w, r, env)
	})
	mux.HandleFunc("PATCH /tasks/{id}/assignee", func(w http.ResponseWriter, r *http.Request) {
		MoveTaskHandler(w, r, env)
	})
	mux.HandleFunc("PATCH /tasks/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		ToggleTaskHandler(w, r, env)
	})

	return mux
}
