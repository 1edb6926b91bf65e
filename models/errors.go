package models

import "errors"

// Domain errors shared between the repositories and services. Callers
// match them with errors.Is and translate them to HTTP responses at
// the handler layer.
var (
	// ErrNotLoggedIn is returned when an operation requires an
	// authenticated identity and none was supplied.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrNoCapacity is returned when a reservation is attempted
	// against a full or nonexistent spot.
	ErrNoCapacity = errors.New("no capacity available")

	// ErrSelfVote is returned when a user votes on their own comment.
	ErrSelfVote = errors.New("cannot vote on own comment")

	// ErrDuplicateAddress is returned when a spot is published at an
	// address that already hosts one.
	ErrDuplicateAddress = errors.New("a parking spot already exists at this address")

	// ErrNotOwner is returned when a non-owner attempts an owner-only
	// mutation of a parking spot.
	ErrNotOwner = errors.New("only the owner may modify this parking spot")

	// ErrNotFound is returned when a referenced document does not exist.
	ErrNotFound = errors.New("not found")
)
