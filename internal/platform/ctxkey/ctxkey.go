// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines typed context keys shared by middleware, handlers and
// the binder service logs.
package ctxkey

// key is unexported so no other package can forge a lookup.
type key string

const (
	// KeyRequestID carries the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyUser carries the caller's [sec.AuthClaims], set by Authenticate or DemoIdentity.
	KeyUser key = "user"

	// KeyLogger carries the per-request [*log/slog.Logger].
	KeyLogger key = "logger"
)
