package service

import (
	"errors"
	"postboard/internal/adapter/out/storage"
)

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalError      = errors.New("internal error")
	ErrDuplicateUsername  = errors.New("duplicate username")
	ErrDuplicateEmail     = errors.New("duplicate email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyLiked       = errors.New("already liked")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidToken       = errors.New("invalid token")

	ErrStorageCorrupt     = storage.ErrCorrupt
	ErrStorageUnavailable = storage.ErrUnavailable
)
