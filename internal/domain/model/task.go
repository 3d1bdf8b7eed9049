package model

import (
	"time"
)

type TaskStatus string

const (
	StatusOpen       TaskStatus = "open"
	StatusInProgress TaskStatus = "in progress"
	StatusDone       TaskStatus = "done"
)

func ValidTaskStatus(status TaskStatus) bool {
	switch status {
	case StatusOpen, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// UserRef is the expanded form of an account reference on a task, carrying
// just the fields the client renders.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	AssignedTo  *UserRef   `json:"assignedTo"` // null when unassigned or the account is gone
	CreatedBy   *UserRef   `json:"createdBy"`  // null only when the creator account was deleted
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
