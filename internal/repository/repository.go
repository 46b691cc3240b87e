package repository

import "errors"

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., mongodb) inside this directory.

// Sentinel errors for recoverable lookup failures. Callers decide the
// user-visible response; storage-engine errors propagate separately.
var (
	// ErrInvalidID marks a malformed document identifier.
	ErrInvalidID = errors.New("invalid document id")
	// ErrNotFound marks an identifier that resolves to no document.
	ErrNotFound = errors.New("document not found")
)
