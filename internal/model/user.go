package model

import "time"

// User is an account created through the sign-up endpoint.
//
// Users are owned by the identity provider, not by the snippet store.
// A snippet's UserID is plain metadata and is never checked against this type.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
