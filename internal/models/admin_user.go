package models

import "time"

// AdminUser represents a scheduler login. Authentication is deliberately
// minimal: a username and a bcrypt password hash.
type AdminUser struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
