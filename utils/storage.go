package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"taskflow/models"
)

// AdminID is reserved for the built-in admin account.
const AdminID = 999

// DefaultUsers is the seed written on first start. The admin is present for
// authentication but is never offered as an assignee.
func DefaultUsers() []models.User {
	return []models.User{
		{ID: 1, Username: "user1", Role: models.RoleUser},
		{ID: 2, Username: "user2", Role: models.RoleUser},
		{ID: 3, Username: "user3", Role: models.RoleUser},
		{ID: AdminID, Username: "admin", Role: models.RoleAdmin},
	}
}

// Storage owns the durable users and tasks records. Every mutation reads the
// whole task list, changes it in memory and writes the whole list back.
type Storage struct {
	records RecordStore
}

func NewStorage(records RecordStore) *Storage {
	return &Storage{records: records}
}

func (s *Storage) Records() RecordStore {
	return s.records
}

// Initialize seeds missing records. Safe to call on every start.
func (s *Storage) Initialize(ctx context.Context) error {
	if err := s.seed(ctx, UsersKey, DefaultUsers()); err != nil {
		return err
	}
	return s.seed(ctx, TasksKey, []models.Task{})
}

func (s *Storage) seed(ctx context.Context, key string, v any) error {
	_, err := s.records.Get(ctx, key)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrRecordNotFound) {
		return err
	}
	log.Printf("seeding %s", key)
	return s.write(ctx, key, v)
}

func (s *Storage) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	found, err := s.read(ctx, UsersKey, &users)
	if err != nil {
		return nil, err
	}
	if !found {
		return DefaultUsers(), nil
	}
	return users, nil
}

func (s *Storage) ListTasks(ctx context.Context) ([]models.Task, error) {
	tasks := []models.Task{}
	if _, err := s.read(ctx, TasksKey, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *Storage) ReplaceTasks(ctx context.Context, tasks []models.Task) error {
	if tasks == nil {
		tasks = []models.Task{}
	}
	return s.write(ctx, TasksKey, tasks)
}

// AddTask appends t and returns the new full list.
func (s *Storage) AddTask(ctx context.Context, t models.Task) ([]models.Task, error) {
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	tasks = append(tasks, t)
	if err := s.ReplaceTasks(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateTask replaces the task with the same id. Nothing is written when no
// task matches.
func (s *Storage) UpdateTask(ctx context.Context, t models.Task) ([]models.Task, error) {
	tasks, err := s.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == t.ID {
			tasks[i] = t
			if err := s.ReplaceTasks(ctx, tasks); err != nil {
				return nil, err
			}
			return tasks, nil
		}
	}
	return tasks, nil
}

func (s *Storage) read(ctx context.Context, key string, v any) (bool, error) {
	raw, err := s.records.Get(ctx, key)
	if errors.Is(err, ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Storage) write(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.records.Set(ctx, key, string(b), 0)
}
