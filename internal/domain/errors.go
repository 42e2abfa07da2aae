package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyActive matches any *AlreadyActiveError.
	ErrAlreadyActive = errors.New("user already has an active session")
	// ErrNotFound matches any *NotFoundError.
	ErrNotFound = errors.New("not found")
	// ErrPersistence matches any *PersistenceError.
	ErrPersistence = errors.New("persistence failure")
	// ErrSessionClosed is returned when pausing or stopping a row that was
	// already closed.
	ErrSessionClosed = errors.New("session already closed")
)

// AlreadyActiveError reports that the user already holds an open session.
type AlreadyActiveError struct {
	UserID string
	// ActiveLogID is empty when the conflict was detected by the storage
	// constraint rather than the precondition lookup.
	ActiveLogID string
}

func (e *AlreadyActiveError) Error() string {
	if e.ActiveLogID == "" {
		return fmt.Sprintf("user %s already has an active session", e.UserID)
	}
	return fmt.Sprintf("user %s already has an active session (%s)", e.UserID, e.ActiveLogID)
}

func (e *AlreadyActiveError) Is(target error) bool { return target == ErrAlreadyActive }

// NotFoundError reports a missing session or assignment row.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// PersistenceError wraps a failed store operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
