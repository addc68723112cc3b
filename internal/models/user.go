package models

import "github.com/google/uuid"

// User is an account row consulted by the identity verifier. Password holds
// the argon2id encoded hash at rest and is never serialized outward.
type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Password string    `json:"-"`
	Username string    `json:"username"`
}
