// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level storage errors and
// higher-level application errors.
//
// Every binder backend (PostgreSQL, Badger, Redis) funnels its driver errors
// through [Wrap] so that the service layer only ever sees [apperr.AppError].
package dberr

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/taibuivan/pokebinder/internal/platform/apperr"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a storage error and wraps it into a meaningful [apperr.AppError].
// It hides internal driver details from the client while classifying the error type.
func Wrap(err error, action string) error {
	return WrapAs(err, action, ErrNotFound)
}

// WrapAs is [Wrap] with a resource-specific not-found error.
func WrapAs(err error, action string, notFound *apperr.AppError) error {
	if err == nil {
		return nil
	}

	// Already classified further down the stack
	if apperr.IsAppError(err) {
		return err
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, badger.ErrKeyNotFound) {
		return notFound
	}

	// 2. Unique constraint violations
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.Conflict("Resource already exists").WithCause(fmt.Errorf("%s: %w", action, err))
	}

	// 3. Caller gave up; not a storage fault
	if errors.Is(err, context.Canceled) {
		return apperr.Internal(fmt.Errorf("%s: %w", action, err))
	}

	// 4. Everything else (connection loss, txn conflicts, closed DB) is retryable transport
	return apperr.Transport(fmt.Errorf("%s: %w", action, err))
}
