// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const representBody = `{"boundaries_centroid":[{"external_id":"35108","name":"Spadina—Harbourfront","related":{"boundary_set_url":"/boundary-sets/federal-electoral-districts-2023-representation-order/"}}]}`

func representServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path == "/postcodes/M5V1A1/" {
			_, _ = writer.Write([]byte(representBody))
			return
		}
		http.NotFound(writer, request)
	}))
	t.Cleanup(server.Close)
	return server
}

/*
TestTargetFSAs validates explicit FSAs.
*/
func TestTargetFSAs(t *testing.T) {
	fsas, err := targetFSAs([]string{"m5v", "K1A 0B1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"M5V", "K1A"}, fsas)

	_, err = targetFSAs([]string{"D1A"})
	assert.ErrorContains(t, err, "invalid FSA")

	all, err := targetFSAs(nil)
	require.NoError(t, err)
	assert.Len(t, all, 3600)
}

/*
TestRootCommand_WritesStdout runs the command end to end against a stub API.
*/
func TestRootCommand_WritesStdout(t *testing.T) {
	server := representServer(t)

	var stdout bytes.Buffer
	command := newRootCommand()
	command.SetOut(&stdout)
	command.SetArgs([]string{"--fsa", "M5V", "--fsa", "W1A", "--out", "-", "--base-url", server.URL, "--batch-delay", "0s"})

	err := command.ExecuteContext(context.Background())
	require.Error(t, err, "W1A is not a valid FSA")

	command = newRootCommand()
	command.SetOut(&stdout)
	command.SetArgs([]string{"--fsa", "M5V", "--out", "-", "--base-url", server.URL, "--batch-delay", "0s"})
	require.NoError(t, command.ExecuteContext(context.Background()))
	assert.JSONEq(t, `{"M5V":"35108"}`, stdout.String())
}

/*
TestRootCommand_MergesExistingFile keeps entries not queried again.
*/
func TestRootCommand_MergesExistingFile(t *testing.T) {
	server := representServer(t)

	path := filepath.Join(t.TempDir(), "fsa_ridings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"K1P":"35075","M5V":"35000"}`), 0o600))

	command := newRootCommand()
	command.SetArgs([]string{"--fsa", "M5V", "--out", path, "--merge", "--base-url", server.URL, "--batch-delay", "0s"})
	require.NoError(t, command.ExecuteContext(context.Background()))

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"K1P":"35075","M5V":"35108"}`, string(written))
}

/*
TestRootCommand_InterruptedRunKeepsQueriedFSAs merges the results gathered
before the run stopped.
*/
func TestRootCommand_InterruptedRunKeepsQueriedFSAs(t *testing.T) {
	server := representServer(t)

	path := filepath.Join(t.TempDir(), "fsa_ridings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"K1P":"35075"}`), 0o600))

	// The second batch would start an hour later, past the deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	command := newRootCommand()
	command.SetArgs([]string{"--fsa", "M5V", "--fsa", "K1A", "--out", path, "--merge",
		"--base-url", server.URL, "--concurrency", "1", "--batch-delay", "1h"})
	require.Error(t, command.ExecuteContext(ctx))

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"K1P":"35075","M5V":"35108"}`, string(written))
}
