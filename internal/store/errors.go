// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store is the PostgreSQL storage backend. It implements the same
// store contracts as the MongoDB backend on top of database/sql and the pgx
// driver; the schema lives in internal/database/migrations.
package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"investing/internal/apperr"
)

// PostgreSQL error codes the stores translate.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// wrapErr maps constraint violations onto the apperr sentinels: a unique
// index hit becomes ErrAlreadyExists and a foreign key hit ErrConflict.
func wrapErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s: %w", op, apperr.ErrAlreadyExists)
		case foreignKeyViolation:
			return fmt.Errorf("%s: %w", op, apperr.ErrConflict)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
