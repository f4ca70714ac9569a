package errors

import (
	"errors"
)

// Sentinel errors for the assistant failure taxonomy
var (
	// ErrInvalidInput - local validation failure (empty prompt); rejected before any network call
	ErrInvalidInput = errors.New("invalid input")

	// ErrBusy - a submission is already waiting on this session; no concurrent submit is permitted
	ErrBusy = errors.New("session busy")

	// ErrSerialization - attachment snapshot could not be serialized; store is left unmodified
	ErrSerialization = errors.New("serialization failed")

	// ErrTransient - transport failure or request timeout; terminal for the turn, a fresh submit starts a new attempt
	ErrTransient = errors.New("transient error")

	// ErrRemote - the server rejected the request with a structured error detail
	ErrRemote = errors.New("remote rejection")

	// ErrNotFound - a referenced resource or turn does not exist
	ErrNotFound = errors.New("not found")

	// ErrInternal - anything that should not happen
	ErrInternal = errors.New("internal error")
)
