package main

import "errors"

// Sentinel errors for the auth core. Handlers map these to HTTP statuses and
// user-facing messages in one place; the store and the OTP manager never
// touch net/http.
var (
	// ErrUserNotFound is returned when an email or id resolves to no user.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned by the store on a unique-email conflict.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrValidation is returned by the store when the database rejects the
	// record for schema reasons other than the unique email.
	ErrValidation = errors.New("invalid user record")

	// ErrOtpInvalid covers every OTP verification failure: no pending
	// challenge, wrong code, or submission at/after the expiry instant.
	// Deliberately one error so the client cannot probe which case it hit.
	ErrOtpInvalid = errors.New("invalid or expired OTP")
)
