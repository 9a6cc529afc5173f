// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the error taxonomy shared by the stores, the
// category core, and the HTTP handlers.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Store-level sentinels. Both storage backends report unique-index and
// restrict violations with these so the services can translate them.
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")
)

// ValidationError reports malformed or missing input. Fields maps each
// failing field to a human-readable reason; every failing field is listed.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ReferentialError reports a reference to an identity that does not exist
// or cannot be used (wrong level, would form a cycle).
type ReferentialError struct {
	Field  string
	ID     string
	Reason string
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("invalid reference %s=%q: %s", e.Field, e.ID, e.Reason)
}

// NotFoundError reports a lookup by id or slug that found nothing.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// Is lets callers match any NotFoundError with errors.Is(err, ErrNotFound).
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// HasChildrenError is returned when deleting a category that still has
// subcategories.
type HasChildrenError struct {
	CategoryID string
	Children   int
}

func (e *HasChildrenError) Error() string {
	return fmt.Sprintf("cannot delete category %q: it has %d subcategories, delete them first", e.CategoryID, e.Children)
}

// Is lets callers match with errors.Is(err, ErrConflict).
func (e *HasChildrenError) Is(target error) bool {
	return target == ErrConflict
}

// StorageError wraps a failure of the underlying store. It is never retried
// inside the core.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Storage wraps err as a StorageError unless it already belongs to the
// taxonomy, in which case it is returned unchanged.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsTyped(err) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsTyped reports whether err (or anything it wraps) is one of the
// taxonomy's typed errors.
func IsTyped(err error) bool {
	var (
		ve *ValidationError
		re *ReferentialError
		ne *NotFoundError
		he *HasChildrenError
		se *StorageError
	)
	return errors.As(err, &ve) || errors.As(err, &re) || errors.As(err, &ne) ||
		errors.As(err, &he) || errors.As(err, &se)
}
