package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	PermissionRead  = "read"
	PermissionWrite = "write"
)

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

func ValidPermission(permission string) bool {
	return permission == PermissionRead || permission == PermissionWrite
}

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Not exposed
	Role           string    `json:"role"`
	Permissions    string    `json:"permissions"`
	CreatedAt      time.Time `json:"createdAt"`
}
