package api

import "errors"

// Sentinel errors forming the client-side error taxonomy. Every HTTP or
// transport failure is converted to one of these before it reaches UI
// state; raw transport errors never escape this package unwrapped.
var (
	// ErrValidation marks a 400 response (server-side validation refusal).
	ErrValidation = errors.New("validation error")

	// ErrInvalidCredentials is the 401 of the login endpoint. It is kept
	// separate from ErrUnauthorized so a failed login never forces a logout
	// and never reveals which of the two fields was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized is a 401 on any authenticated call after login.
	// Services react by clearing the session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrWrongPassword is the 401 of the public download endpoint.
	ErrWrongPassword = errors.New("wrong password")

	// ErrForbidden marks a 403 (acting on somebody else's file).
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound marks a 404 (unknown file id or download token).
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a 409 (duplicate account on registration).
	ErrConflict = errors.New("already exists")

	// ErrGone marks a 410 (file past its expiration date).
	ErrGone = errors.New("expired")

	// ErrTooLarge marks a 413 (payload over the 1 GB ceiling).
	ErrTooLarge = errors.New("payload too large")

	// ErrRateLimited marks a 429.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnavailable is a transport failure with no HTTP response.
	ErrUnavailable = errors.New("server unavailable")

	// ErrServer covers 5xx and otherwise unclassified statuses.
	ErrServer = errors.New("server error")
)

// UserMessage translates a taxonomy error into the exact text shown to the
// user. Unknown errors collapse to a generic message so no stack trace or
// transport detail ever reaches the UI.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "incorrect email or password"
	case errors.Is(err, ErrUnauthorized):
		return "your session has expired, please log in again"
	case errors.Is(err, ErrWrongPassword):
		return "incorrect password"
	case errors.Is(err, ErrForbidden):
		return "you are not permitted to perform this action on this file"
	case errors.Is(err, ErrNotFound):
		return "this file or link no longer exists"
	case errors.Is(err, ErrConflict):
		return "an account already exists with this email"
	case errors.Is(err, ErrGone):
		return "this file has expired"
	case errors.Is(err, ErrTooLarge):
		return "file must not exceed 1 GB"
	case errors.Is(err, ErrRateLimited):
		return "too many attempts, try again later"
	case errors.Is(err, ErrServer):
		return "server error"
	case errors.Is(err, ErrValidation):
		return "invalid data, please check your input"
	default:
		return "an error occurred"
	}
}
