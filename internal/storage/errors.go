package storage

import "errors"

var (
	ErrNotFound           = errors.New("storage: not found")
	ErrSubjectInUse       = errors.New("storage: subject is referenced by reviews")
	ErrNotLoaded          = errors.New("storage: not loaded")
	ErrAlreadyExists      = errors.New("storage: already exists")
	ErrAlreadyInitialized = errors.New("storage: already initialized")
	ErrNotInitialized     = errors.New("storage: not initialized, run 'recall init' first")
)
