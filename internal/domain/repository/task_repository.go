package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskmanager/internal/common"
	"taskmanager/internal/domain/model"
)

// TaskRecord is the storage-side shape of a task: reference columns are raw
// account ids, expanded to UserRefs only on read.
type TaskRecord struct {
	ID          string
	Title       string
	Description string
	Status      model.TaskStatus
	AssignedTo  *string
	CreatedBy   string
}

type TaskRepository interface {
	Create(ctx context.Context, rec *TaskRecord) error
	FindByID(ctx context.Context, id string) (*model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	Update(ctx context.Context, rec *TaskRecord) error
	Delete(ctx context.Context, id string) error
}

type pgTaskRepository struct {
	db *sql.DB
}

func NewPgTaskRepository(db *sql.DB) TaskRepository {
	return &pgTaskRepository{db: db}
}

func (r *pgTaskRepository) Create(ctx context.Context, rec *TaskRecord) error {
	query := `INSERT INTO tasks (id, title, description, status, assigned_to, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Title, rec.Description, rec.Status, rec.AssignedTo, rec.CreatedBy)
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Create: %w", err)
	}
	return nil
}

// taskQuery joins the users table twice so assignee and creator come back as
// username+email refs. A reference to a deleted account resolves to null.
const taskQuery = `
	SELECT t.id, t.title, t.description, t.status,
	       a.id, a.username, a.email,
	       c.id, c.username, c.email,
	       t.created_at, t.updated_at
	FROM tasks t
	LEFT JOIN users a ON t.assigned_to = a.id
	LEFT JOIN users c ON t.created_by = c.id`

type taskScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row taskScanner) (*model.Task, error) {
	task := &model.Task{}
	var aID, aUsername, aEmail sql.NullString
	var cID, cUsername, cEmail sql.NullString
	err := row.Scan(
		&task.ID, &task.Title, &task.Description, &task.Status,
		&aID, &aUsername, &aEmail,
		&cID, &cUsername, &cEmail,
		&task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if aID.Valid {
		task.AssignedTo = &model.UserRef{ID: aID.String, Username: aUsername.String, Email: aEmail.String}
	}
	if cID.Valid {
		task.CreatedBy = &model.UserRef{ID: cID.String, Username: cUsername.String, Email: cEmail.String}
	}
	return task, nil
}

func (r *pgTaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	task, err := scanTask(r.db.QueryRowContext(ctx, taskQuery+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTaskRepository.FindByID: %w", err)
	}
	return task, nil
}

func (r *pgTaskRepository) List(ctx context.Context) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, taskQuery+` ORDER BY t.created_at`)
	if err != nil {
		return nil, fmt.Errorf("pgTaskRepository.List: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("pgTaskRepository.List: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgTaskRepository.List: %w", err)
	}
	return tasks, nil
}

func (r *pgTaskRepository) Update(ctx context.Context, rec *TaskRecord) error {
	query := `UPDATE tasks SET title = $1, description = $2, status = $3,
	              assigned_to = $4, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query,
		rec.Title, rec.Description, rec.Status, rec.AssignedTo, rec.ID)
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Update: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Update: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgTaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgTaskRepository.Delete: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
