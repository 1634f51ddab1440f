package service

import (
	"errors"
	"fmt"

	"postgraph/internal/adapter/out/storage"
	"postgraph/pkg/pagination"
)

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrInvalidCursor       = pagination.ErrInvalidCursor
	ErrInvalidArgument     = pagination.ErrInvalidArgument
	ErrNotFound            = errors.New("not found")
	ErrAlreadyLiked        = errors.New("already liked")
	ErrNotLiked            = errors.New("not liked")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrInternalError       = errors.New("internal error")
)

// fromStorage translates storage sentinels into service kinds and keeps
// anything else as is.
func fromStorage(what string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case errors.Is(err, storage.ErrUniqueViolation):
		return fmt.Errorf("%s: %w", what, ErrConstraintViolation)
	case errors.Is(err, storage.ErrUnknownSort):
		return fmt.Errorf("%s: %w: %v", what, ErrInvalidArgument, err)
	default:
		return fmt.Errorf("%s: %w", what, err)
	}
}
