package service

import (
	"github.com/pkg/errors"
)

var (
	// ErrForbidden means the caller is not a party to the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrInvitationInvalid covers expired, used, declined or self-addressed
	// invitations.
	ErrInvitationInvalid = errors.New("invitation is no longer valid")
	// ErrInvalidInput wraps every validation failure.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAlreadyPartnered means an active relationship already exists.
	ErrAlreadyPartnered = errors.New("users are already in an active relationship")
)

func invalid(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidInput, format, args...)
}
