// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the router's parameter extraction and body decoding so that
binder handlers share one error shape for malformed input.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/pokebinder/internal/platform/apperr"
	"github.com/taibuivan/pokebinder/internal/platform/ctxutil"
	"github.com/taibuivan/pokebinder/internal/platform/sec"
	"github.com/taibuivan/pokebinder/internal/platform/validate"
)

// MaxBodyBytes bounds every decoded request body.
const MaxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if the body is missing, malformed or has trailing data
*/
func DecodeJSON(request *http.Request, target any) error {
	if request.Body == nil {
		return validate.ErrInvalidJSON
	}

	decoder := json.NewDecoder(io.LimitReader(request.Body, MaxBodyBytes))
	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named URL parameter (UUID/Slug) from the request.
*/
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
IntParam retrieves a named URL parameter as an integer.

Returns:
  - int: The parsed value, unbounded
  - error: A VALIDATION_ERROR naming field if the segment is not an integer
*/
func IntParam(request *http.Request, name, field string) (int, error) {
	value, err := strconv.Atoi(chi.URLParam(request, name))
	if err != nil {
		return 0, validate.RequiredError(field, "Must be an integer")
	}
	return value, nil
}

/*
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredUserID returns the id of the binder owner making the request.

Returns:
  - string: User id
  - error: apperr.Unauthorized if no identity is attached
*/
func RequiredUserID(request *http.Request) (string, error) {
	userID := ctxutil.GetUserID(request.Context())
	if userID == "" {
		return "", apperr.Unauthorized("Authentication required")
	}
	return userID, nil
}
