// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid mints time-ordered Version 7 identifiers.

They are used for campaign target rows and for the synthetic row ids of the
target edit grid, where creation order doubles as display order.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string. It falls back to a random v4 if the
// clock-based generator fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Valid reports whether s parses as a UUID of any version.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
