// Package upload implements the client-side state machine driving a single
// file upload attempt: file selection, pre-flight validation, progress
// tracking, and the success/error terminal states.
package upload

import (
	"errors"
	"fmt"
)

// MaxFileSize is the upload ceiling in bytes (1 GiB).
const MaxFileSize int64 = 1 << 30

// MinPasswordLen applies to non-empty upload passwords.
const MinPasswordLen = 6

// Expiration bounds in days, inclusive.
const (
	MinExpirationDays = 1
	MaxExpirationDays = 7
)

// MsgFileTooLarge is shown when a selected file exceeds MaxFileSize.
const MsgFileTooLarge = "file must not exceed 1 GB"

var (
	// ErrPasswordTooShort rejects non-empty passwords under MinPasswordLen.
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLen)

	// ErrExpirationOutOfRange rejects expiration days outside [1,7].
	ErrExpirationOutOfRange = errors.New("expiration must be between 1 and 7 days")
)

// Status enumerates the variants of the upload state machine. Exactly one is
// active at a time; within a single attempt transitions are monotonic
// (idle -> uploading -> success|error), and only a reset or a new file
// selection returns the machine to idle.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusUploading Status = "uploading"
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
)

// State is a snapshot of the machine: the active variant plus the data that
// variant carries. Progress is meaningful while uploading, DownloadURL in
// success, Message in error.
type State struct {
	Status      Status
	Progress    int
	DownloadURL string
	Message     string
}

// ValidatePassword checks an optional upload password: empty is allowed,
// anything else must be at least MinPasswordLen characters.
func ValidatePassword(password string) error {
	if password != "" && len(password) < MinPasswordLen {
		return ErrPasswordTooShort
	}
	return nil
}

// ValidateExpirationDays checks the expiration is within [1,7].
func ValidateExpirationDays(days int) error {
	if days < MinExpirationDays || days > MaxExpirationDays {
		return ErrExpirationOutOfRange
	}
	return nil
}
