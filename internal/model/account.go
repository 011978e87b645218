package model

import "time"

type Account struct {
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Bio          string    `json:"bio,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}
