package repository

import "errors"

var (
	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailAlreadyExists is returned when a user with the same email already exists
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrEventNotFound is returned when an event is not found
	ErrEventNotFound = errors.New("event not found")
)
