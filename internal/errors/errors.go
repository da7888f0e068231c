package errors

import (
	"errors"
)

// Engine error taxonomy. None of these are fatal to the process.
var (
	ErrInvalidTerm  = errors.New("invalid term")
	ErrTermNotFound = errors.New("term not found")
	ErrNotFound     = errors.New("not found")
	ErrNoPrivileges = errors.New("no privileges")
	ErrPersistence  = errors.New("persistence failure")
)
