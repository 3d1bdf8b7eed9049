package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"taskmanager/internal/common"
	"taskmanager/internal/domain/model"
	"taskmanager/internal/domain/repository"
)

// In-memory repository fakes standing in for the Postgres implementations.

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]model.User{}}
}

func (r *memUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return fmt.Errorf("user already exists: %w", common.ErrConflict)
		}
	}
	stored := *user
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.users[stored.ID] = stored
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
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

func (r *memUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) AdminExists(_ context.Context) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Role == model.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) List(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (r *memUserRepo) Update(_ context.Context, user *model.User) error {
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

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type memTask struct {
	rec       repository.TaskRecord
	createdAt time.Time
	updatedAt time.Time
}

type memTaskRepo struct {
	mu    sync.Mutex
	seq   int
	tasks map[string]memTask
	users *memUserRepo
}

func newMemTaskRepo(users *memUserRepo) *memTaskRepo {
	return &memTaskRepo{tasks: map[string]memTask{}, users: users}
}

func (r *memTaskRepo) Create(_ context.Context, rec *repository.TaskRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	now := time.Now().Add(time.Duration(r.seq)) // keep list order stable
	r.tasks[rec.ID] = memTask{rec: *rec, createdAt: now, updatedAt: now}
	return nil
}

func (r *memTaskRepo) userRef(id string) *model.UserRef {
	u, err := r.users.FindByID(context.Background(), id)
	if err != nil {
		return nil // dangling reference resolves to null
	}
	return &model.UserRef{ID: u.ID, Username: u.Username, Email: u.Email}
}

func (r *memTaskRepo) toModel(t memTask) model.Task {
	task := model.Task{
		ID:          t.rec.ID,
		Title:       t.rec.Title,
		Description: t.rec.Description,
		Status:      t.rec.Status,
		CreatedBy:   r.userRef(t.rec.CreatedBy),
		CreatedAt:   t.createdAt,
		UpdatedAt:   t.updatedAt,
	}
	if t.rec.AssignedTo != nil {
		task.AssignedTo = r.userRef(*t.rec.AssignedTo)
	}
	return task
}

func (r *memTaskRepo) FindByID(_ context.Context, id string) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	task := r.toModel(t)
	return &task, nil
}

func (r *memTaskRepo) List(_ context.Context) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tasks := make([]model.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		tasks = append(tasks, r.toModel(t))
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.Before(tasks[j].CreatedAt) })
	return tasks, nil
}

func (r *memTaskRepo) Update(_ context.Context, rec *repository.TaskRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[rec.ID]
	if !ok {
		return common.ErrNotFound
	}
	t.rec = *rec
	t.updatedAt = time.Now().Add(time.Hour) // strictly after createdAt
	r.tasks[rec.ID] = t
	return nil
}

func (r *memTaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}
