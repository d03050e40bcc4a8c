// Package common contains shared constants and sentinel errors used across
// fileshare components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrorNotFound is the generic repository-level miss.
	ErrorNotFound = errors.New("not found")

	// ErrorInternal covers unexpected internal failures.
	ErrorInternal = errors.New("internal error")

	// ErrInvalidToken marks a malformed or undecodable JWT.
	ErrInvalidToken = errors.New("invalid token")
)
