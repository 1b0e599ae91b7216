// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates binder identifiers.

Identifiers are UUIDv7, so every backend sees keys that sort by creation time:
badger iterates its owner index in insertion order and the postgres primary
key stays append-only.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
func New() string {
	// entropy failure is an unrecoverable system-level error
	return uuid.Must(uuid.NewV7()).String()
}

// Valid reports whether s is a canonical UUID of any version.
func Valid(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
