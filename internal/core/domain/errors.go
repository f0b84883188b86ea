package domain

import "errors"

// Validation errors (400).
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidEmail    = errors.New("please enter a valid email address")
	ErrUserExists      = errors.New("user already exists")
	ErrEmptyOrder      = errors.New("no order items")
	ErrAlreadyReviewed = errors.New("product already reviewed")
	ErrInvalidFileType = errors.New("only .jpg, .jpeg or .png images allowed")
)

// Authentication and authorization errors (401 / 403).
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("not authorized, token failed")
	ErrForbidden          = errors.New("not authorized as an admin")
)

// Lookup errors (404).
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
)

var ErrTooManyRequests = errors.New("too many requests")

// ErrUpstream wraps failures of third-party services (media host, payment
// gateway). The cause is logged, never returned to the client.
var ErrUpstream = errors.New("upstream service failure")
