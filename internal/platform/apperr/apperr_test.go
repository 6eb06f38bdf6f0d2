// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lettertool/internal/platform/apperr"
)

/*
TestConstructors_StatusMapping checks code and status of every constructor.
*/
func TestConstructors_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		code   string
		status int
	}{
		{"not_found", apperr.NotFound("Country"), "NOT_FOUND", http.StatusNotFound},
		{"unauthorized", apperr.Unauthorized("no"), "UNAUTHORIZED", http.StatusUnauthorized},
		{"forbidden", apperr.Forbidden("no"), "FORBIDDEN", http.StatusForbidden},
		{"validation", apperr.ValidationError("bad"), "VALIDATION_ERROR", http.StatusBadRequest},
		{"unprocessable", apperr.Unprocessable("bad csv"), "UNPROCESSABLE", http.StatusUnprocessableEntity},
		{"too_large", apperr.TooLarge("big"), "PAYLOAD_TOO_LARGE", http.StatusRequestEntityTooLarge},
		{"internal", apperr.Internal(errors.New("boom")), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
		})
	}

	assert.Equal(t, "Country not found", apperr.NotFound("Country").Error())
}

/*
TestAs_TraversesWrappedChain verifies extraction through fmt.Errorf wrapping.
*/
func TestAs_TraversesWrappedChain(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := fmt.Errorf("target_service_save: %w", apperr.Internal(cause))

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, "INTERNAL_ERROR", ae.Code)
	assert.ErrorIs(t, wrapped, cause)

	assert.Nil(t, apperr.As(errors.New("plain")))
}
