package repository

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a guarded update finds the row no longer
	// in the expected state.
	ErrConflict = errors.New("record was changed by another request")
)

func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(ErrNotFound, what)
	}
	if errors.Is(err, ErrConflict) {
		return errors.Wrap(ErrConflict, what)
	}
	return errors.Wrapf(err, "failed to query %s", what)
}
