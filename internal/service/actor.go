package service

import "github.com/google/uuid"

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID  uuid.UUID
	IsAdmin bool
}

func (a Actor) Valid() bool { return a.UserID != uuid.Nil }
