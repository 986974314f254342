package domain

import "errors"

// Sentinel errors for every failure a method can report. The message text is
// the wire format: the RPC dispatcher sends err.Error() verbatim in the
// response envelope, so these strings are part of the API contract.
var (
	ErrMethodNotFound      = errors.New("Method not found")
	ErrMissingFields       = errors.New("Missing required fields")
	ErrInvalidLogin        = errors.New("Invalid login")
	ErrInvalidPassword     = errors.New("Invalid password")
	ErrLoginExists         = errors.New("Login already exists")
	ErrEmailExists         = errors.New("Email already exists")
	ErrMissingCredentials  = errors.New("Missing login or password")
	ErrInvalidCredentials  = errors.New("Invalid credentials")
	ErrAuthRequired        = errors.New("Authentication required")
	ErrMissingTopicContent = errors.New("Missing topic or content")
	ErrPostNotFound        = errors.New("Post not found")
	ErrPermissionDenied    = errors.New("Permission denied")
	ErrAdminRequired       = errors.New("Admin privileges required")
	ErrUserNotFound        = errors.New("User not found")
	ErrCannotDeleteAdmin   = errors.New("Cannot delete admin user")
)
