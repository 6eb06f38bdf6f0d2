// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/lettertool/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into an [apperr.AppError].
// The action label ends up in the server-side cause for log correlation.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("Resource")
	}

	// Check constraint violations mean the caller handed us invalid rows.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23514" {
		return apperr.Unprocessable("Row violates constraint " + pgErr.ConstraintName)
	}

	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}
