package model

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist or is
	// not visible to the requester.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when registration hits an existing email.
	ErrEmailTaken = errors.New("account already exists")
	// ErrInvalidCredentials is returned for any login failure. It never
	// reveals whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrValidation marks malformed or incomplete request input.
	ErrValidation = errors.New("invalid request")

	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token not valid")
	ErrTokenMissing = errors.New("authorization token required")

	ErrInvalidShareID   = errors.New("invalid shareable meeting id")
	ErrInvalidShareCode = errors.New("invalid access code")

	// ErrAccessDenied is the generic dual-mode denial. It deliberately does
	// not say which access path failed.
	ErrAccessDenied = errors.New("authentication or client session required")
	// ErrForbidden is returned when a valid identity is not entitled to the
	// resource it addressed.
	ErrForbidden = errors.New("access to this resource is forbidden")
)
