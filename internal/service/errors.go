package service

import "errors"

var (
	// ErrInvalidDataProvided signals missing or malformed input.
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrWrongPassword signals a failed credential check.
	ErrWrongPassword = errors.New("wrong password")

	// ErrTokenCreationFailed wraps token signing failures.
	ErrTokenCreationFailed = errors.New("token creation failed")

	// ErrTokenIsExpiredOrInvalid is the normalised result of every token
	// validation failure, so callers never inspect low-level JWT errors.
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
)
