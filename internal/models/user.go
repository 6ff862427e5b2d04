package models

import "time"

// Role decides which routes a user may reach.
type Role string

const (
	RoleJobSeeker Role = "job_seeker"
	RoleHR        Role = "hr"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleJobSeeker || r == RoleHR
}

// User is a registered account. It is never mutated after creation.
type User struct {
	ID           int64     `json:"id"         bson:"id"`
	Username     string    `json:"username"   bson:"username"`
	Email        string    `json:"email"      bson:"email"`
	PasswordHash string    `json:"-"          bson:"password_hash"` // never serialize
	Role         Role      `json:"role"       bson:"role"`
	Name         string    `json:"name"       bson:"name"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// RegisterRequest is the JSON body for POST /api/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Name     string `json:"name"`
}

// LoginRequest is the JSON body for POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
