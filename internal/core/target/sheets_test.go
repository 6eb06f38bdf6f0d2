// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package target_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lettertool/internal/core/target"
	"github.com/taibuivan/lettertool/internal/platform/apperr"
)

/*
TestExportPath converts the link shapes people actually paste.
*/
func TestExportPath(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"edit_with_gid", "https://docs.google.com/spreadsheets/d/1AbC_d-9/edit#gid=42", "/spreadsheets/d/1AbC_d-9/export?format=csv&gid=42"},
		{"edit_without_gid", "https://docs.google.com/spreadsheets/d/1AbC_d-9/edit", "/spreadsheets/d/1AbC_d-9/export?format=csv&gid=0"},
		{"query_gid", "https://docs.google.com/spreadsheets/d/1AbC/edit?usp=sharing&gid=7", "/spreadsheets/d/1AbC/export?format=csv&gid=7"},
		{"user_scoped", "https://docs.google.com/spreadsheets/u/0/d/1AbC/htmlview", "/spreadsheets/d/1AbC/export?format=csv&gid=0"},
		{"published", "https://docs.google.com/spreadsheets/d/e/2PACX-1v/pubhtml", "/spreadsheets/d/e/2PACX-1v/pub?output=csv"},
		{"published_tab", "https://docs.google.com/spreadsheets/d/e/2PACX-1v/pubhtml?gid=3", "/spreadsheets/d/e/2PACX-1v/pub?output=csv&gid=3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := target.ExportPath(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "https://example.org/file.csv", "::"} {
		_, err := target.ExportPath(bad)
		assert.Error(t, err, bad)
	}
}

func newSheetsStub(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/spreadsheets/d/public/export":
			if request.URL.Query().Get("format") != "csv" || request.URL.Query().Get("gid") != "42" {
				writer.WriteHeader(http.StatusBadRequest)
				return
			}
			writer.Header().Set("Content-Type", "text/csv")
			_, _ = writer.Write([]byte("name,email,postal_code\nAda,ada@example.org,10115\n"))
		case "/spreadsheets/d/huge/export":
			writer.Header().Set("Content-Type", "text/csv")
			_, _ = writer.Write([]byte("name,email\n" + strings.Repeat("Ada,ada@example.org\n", 100)))
		case "/spreadsheets/d/private/export":
			writer.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = writer.Write([]byte("<html>Sign in</html>"))
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

/*
TestSheetsClient_FetchCSV covers success, private sheets, missing sheets and bad links.
*/
func TestSheetsClient_FetchCSV(t *testing.T) {
	server := newSheetsStub(t)
	client := target.NewSheetsClient(server.URL, 5*time.Second, slog.New(slog.DiscardHandler))
	defer client.Close()

	text, err := client.FetchCSV(context.Background(), "https://docs.google.com/spreadsheets/d/public/edit#gid=42")
	require.NoError(t, err)
	assert.Contains(t, text, "Ada,ada@example.org,10115")

	for _, link := range []string{
		"https://docs.google.com/spreadsheets/d/private/edit",
		"https://docs.google.com/spreadsheets/d/missing/edit",
		"https://example.org/list.csv",
	} {
		_, err := client.FetchCSV(context.Background(), link)
		ae := apperr.As(err)
		require.NotNil(t, ae, link)
		assert.Equal(t, "UNPROCESSABLE", ae.Code, link)
	}
}

/*
TestSheetsClient_FetchCSV_CapsBody stops reading at the size cap.
*/
func TestSheetsClient_FetchCSV_CapsBody(t *testing.T) {
	server := newSheetsStub(t)
	client := target.NewSheetsClient(server.URL, 5*time.Second, slog.New(slog.DiscardHandler)).WithMaxBytes(256)
	defer client.Close()

	_, err := client.FetchCSV(context.Background(), "https://docs.google.com/spreadsheets/d/huge/edit")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", ae.Code)

	text, err := client.FetchCSV(context.Background(), "https://docs.google.com/spreadsheets/d/public/edit#gid=42")
	require.NoError(t, err)
	assert.Contains(t, text, "Ada,ada@example.org,10115")
}
