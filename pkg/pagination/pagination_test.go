// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/lettertool/pkg/pagination"
)

/*
TestFromRequest covers defaults, clamping and garbage input.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  pagination.Params
	}{
		{"defaults", "", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"explicit", "?page=3&limit=10", pagination.Params{Page: 3, Limit: 10}},
		{"clamped", "?limit=100000", pagination.Params{Page: 1, Limit: pagination.MaxLimit}},
		{"negative", "?page=-2&limit=0", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"garbage", "?page=abc", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pagination.FromRequest(httptest.NewRequest("GET", "/"+tt.query, nil))
			assert.Equal(t, tt.want, got)
		})
	}
}

/*
TestNewMeta_TotalPages rounds up partial pages.
*/
func TestNewMeta_TotalPages(t *testing.T) {
	params := pagination.Params{Page: 2, Limit: 500}

	assert.Equal(t, 500, params.Offset())
	assert.Equal(t, 3, pagination.NewMeta(params, 1001).TotalPages)
	assert.Equal(t, 0, pagination.NewMeta(params, 0).TotalPages)
}
