// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package letter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lettertool/internal/core/jurisdiction"
	"github.com/taibuivan/lettertool/internal/core/letter"
	"github.com/taibuivan/lettertool/internal/platform/apperr"
	"github.com/taibuivan/lettertool/internal/platform/constants"
)

// fakeDirectory knows one German district with two members.
type fakeDirectory struct{}

var members = []jurisdiction.Representative{
	{ID: "de-075-1", Name: "Anna Weber", Party: "SPD", DistrictID: "075"},
	{ID: "de-075-2", Name: "Jonas Braun", Party: "Grüne", DistrictID: "075"},
}

func (fakeDirectory) Representative(_ context.Context, country, id string) (jurisdiction.Representative, error) {
	if country != "de" {
		return jurisdiction.Representative{}, apperr.NotFound("Country")
	}
	for _, member := range members {
		if member.ID == id {
			return member, nil
		}
	}
	return jurisdiction.Representative{}, apperr.NotFound("Representative")
}

func (fakeDirectory) RepresentativesByDistrict(_ context.Context, country, districtID string) ([]jurisdiction.Representative, error) {
	if country != "de" || districtID != "075" {
		return nil, apperr.NotFound("District")
	}
	return append([]jurisdiction.Representative(nil), members...), nil
}

func newLetterService() *letter.Service {
	store := newStore(newMemoryKV(), &clock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)})
	return letter.NewService(store, fakeDirectory{}, discard)
}

/*
TestService_AdaptFlow writes a letter, emails one member and readdresses it to the next.
*/
func TestService_AdaptFlow(t *testing.T) {
	service := newLetterService()
	ctx := context.Background()

	_, err := service.Current(ctx, "c1")
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	saved, err := service.SaveCurrent(ctx, "c1", letter.SaveInput{
		Subject:   "Letter to Anna Weber",
		Body:      "Dear Ms Weber,\nplease act now.",
		Recipient: &letter.Recipient{Country: jurisdiction.Germany, RepresentativeID: "de-075-1", Name: "Anna Weber"},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, saved.WordCount)

	records, err := service.MarkEmailed(ctx, "c1", "de", "de-075-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "SPD", records[0].Party)

	remaining, err := service.Remaining(ctx, "c1", "de", "075")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "de-075-2", remaining[0].ID)

	adapted, err := service.Adapt(ctx, "c1", "de", remaining[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Letter to Jonas Braun", adapted.Subject)
	assert.Equal(t, "Dear Ms Braun,\nplease act now.", adapted.Body)
	assert.Equal(t, "de-075-2", adapted.Recipient.RepresentativeID)
	assert.Equal(t, saved.CreatedAt, adapted.CreatedAt)

	current, err := service.Current(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, adapted.Body, current.Body)
}

/*
TestService_Errors covers validation and unknown references.
*/
func TestService_Errors(t *testing.T) {
	service := newLetterService()
	ctx := context.Background()

	_, err := service.SaveCurrent(ctx, "c1", letter.SaveInput{Subject: " "})
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Len(t, ae.Details, 2)

	_, err = service.MarkEmailed(ctx, "c1", "de", "nobody")
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	_, err = service.SaveCurrent(ctx, "c1", letter.SaveInput{Subject: "s", Body: "no recipient"})
	require.NoError(t, err)
	_, err = service.Adapt(ctx, "c1", "de", "de-075-2")
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func newLetterRouter() chi.Router {
	router := chi.NewRouter()
	letter.NewHandler(newLetterService()).RegisterRoutes(router)
	return router
}

func clientRequest(method, path, body string) *http.Request {
	request := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	request.Header.Set(constants.HeaderXClientID, "browser-1")
	return request
}

/*
TestHandler_LetterEndpoints drives the HTTP surface end to end.
*/
func TestHandler_LetterEndpoints(t *testing.T) {
	router := newLetterRouter()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/letters/current", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code, "missing client id")

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, clientRequest(http.MethodGet, "/letters/current", ""))
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, clientRequest(http.MethodPut, "/letters/current",
		`{"subject":"Hi","body":"Dear Anna Weber","recipient":{"country":"de","representative_id":"de-075-1","name":"Anna Weber"}}`))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	for range 2 {
		recorder = httptest.NewRecorder()
		router.ServeHTTP(recorder, clientRequest(http.MethodPost, "/letters/emailed", `{"country":"de","representative_id":"de-075-1"}`))
		require.Equal(t, http.StatusOK, recorder.Code)
	}

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, clientRequest(http.MethodGet, "/letters/emailed", ""))
	var emailed struct {
		Data []letter.EmailedRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &emailed))
	assert.Len(t, emailed.Data, 1)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, clientRequest(http.MethodGet, "/letters/remaining?country=de&district=075", ""))
	var remaining struct {
		Data []jurisdiction.Representative `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &remaining))
	require.Len(t, remaining.Data, 1)
	assert.Equal(t, "Jonas Braun", remaining.Data[0].Name)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, clientRequest(http.MethodGet, "/letters/remaining?country=de", ""))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, clientRequest(http.MethodPost, "/letters/adapt", `{"country":"de","representative_id":"de-075-2"}`))
	require.Equal(t, http.StatusOK, recorder.Code)
	var adapted struct {
		Data letter.CachedLetter `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &adapted))
	assert.Equal(t, "Dear Jonas Braun", adapted.Data.Body)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, clientRequest(http.MethodDelete, "/letters/current", ""))
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, clientRequest(http.MethodGet, "/letters/emailed", ""))
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &emailed))
	assert.Empty(t, emailed.Data)
}
