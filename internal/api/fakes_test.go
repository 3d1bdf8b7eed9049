package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"taskmanager/internal/common"
	"taskmanager/internal/domain/model"
	"taskmanager/internal/domain/repository"
)

// In-memory repositories so the full router can be exercised without Postgres.

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[string]model.User{}}
}

func (r *stubUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return fmt.Errorf("user already exists: %w", common.ErrConflict)
		}
	}
	stored := *user
	stored.CreatedAt = time.Now()
	r.users[stored.ID] = stored
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *stubUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) AdminExists(_ context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Role == model.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	return users, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return common.ErrNotFound
	}
	stored.Username = user.Username
	stored.Email = user.Email
	stored.Role = user.Role
	stored.Permissions = user.Permissions
	r.users[user.ID] = stored
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type stubTaskEntry struct {
	rec       repository.TaskRecord
	createdAt time.Time
	updatedAt time.Time
}

type stubTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]stubTaskEntry
	users *stubUserRepo
}

func newStubTaskRepo(users *stubUserRepo) *stubTaskRepo {
	return &stubTaskRepo{tasks: map[string]stubTaskEntry{}, users: users}
}

func (r *stubTaskRepo) Create(_ context.Context, rec *repository.TaskRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.tasks[rec.ID] = stubTaskEntry{rec: *rec, createdAt: now, updatedAt: now}
	return nil
}

func (r *stubTaskRepo) ref(id string) *model.UserRef {
	u, err := r.users.FindByID(context.Background(), id)
	if err != nil {
		return nil
	}
	return &model.UserRef{ID: u.ID, Username: u.Username, Email: u.Email}
}

func (r *stubTaskRepo) toModel(e stubTaskEntry) model.Task {
	task := model.Task{
		ID:          e.rec.ID,
		Title:       e.rec.Title,
		Description: e.rec.Description,
		Status:      e.rec.Status,
		CreatedBy:   r.ref(e.rec.CreatedBy),
		CreatedAt:   e.createdAt,
		UpdatedAt:   e.updatedAt,
	}
	if e.rec.AssignedTo != nil {
		task.AssignedTo = r.ref(*e.rec.AssignedTo)
	}
	return task
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.tasks[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	task := r.toModel(e)
	return &task, nil
}

func (r *stubTaskRepo) List(_ context.Context) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tasks := make([]model.Task, 0, len(r.tasks))
	for _, e := range r.tasks {
		tasks = append(tasks, r.toModel(e))
	}
	return tasks, nil
}

func (r *stubTaskRepo) Update(_ context.Context, rec *repository.TaskRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.tasks[rec.ID]
	if !ok {
		return common.ErrNotFound
	}
	e.rec = *rec
	e.updatedAt = time.Now()
	r.tasks[rec.ID] = e
	return nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}
