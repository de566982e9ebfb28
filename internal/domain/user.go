package domain

import "time"

// User represents a registered mess member.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name,omitempty"`
	Admin        bool      `json:"admin,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
