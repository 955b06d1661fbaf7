package service

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/linkbot/internal/directory/store"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("token already bound to a different identity")
	ErrCreate         = errors.New("could not create record")
	ErrDelete         = errors.New("could not delete record")
	ErrConnection     = errors.New("store unavailable")
	ErrInvalidRequest = errors.New("invalid request")
)

// translateStoreError maps a store sentinel to the matching service sentinel,
// keeping the original error in the chain.
func translateStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrConnection):
		return fmt.Errorf("%w: %w", ErrConnection, err)
	case errors.Is(err, store.ErrNameTaken):
		return fmt.Errorf("%w: %w: %w", ErrCreate, ErrNameTaken, err)
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, store.ErrCreate):
		return fmt.Errorf("%w: %w", ErrCreate, err)
	case errors.Is(err, store.ErrDelete):
		return fmt.Errorf("%w: %w", ErrDelete, err)
	default:
		return fmt.Errorf("%w: %w", ErrConnection, err)
	}
}
