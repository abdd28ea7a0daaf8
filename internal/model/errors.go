package model

import "errors"

// Common errors used across the application
var (
	// Configuration / identity errors
	ErrNotConfigured = errors.New("store or identity not configured")

	// List errors
	ErrListNotFound  = errors.New("list not found")
	ErrListExists    = errors.New("list already exists")
	ErrInvalidListID = errors.New("invalid list id")

	// Todo errors
	ErrTodoNotFound    = errors.New("todo not found")
	ErrEmptyTodoText   = errors.New("todo text is empty")
	ErrTodoTextTooLong = errors.New("todo text too long")

	// Access errors
	ErrPermissionDenied = errors.New("permission denied")
	ErrWrongPassword    = errors.New("wrong password")
	ErrInvalidTier      = errors.New("invalid password tier")

	// Guest link errors
	ErrGuestLinkNotFound = errors.New("guest link not found")
	ErrInvalidGuestLink  = errors.New("guest link invalid or revoked")
)
