// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package target_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lettertool/internal/core/target"
	"github.com/taibuivan/lettertool/internal/platform/apperr"
	"github.com/taibuivan/lettertool/internal/platform/ctxutil"
	"github.com/taibuivan/lettertool/internal/platform/respond"
	"github.com/taibuivan/lettertool/internal/platform/sec"
	"github.com/taibuivan/lettertool/pkg/pagination"
)

// memoryRepository keeps one list per campaign.
type memoryRepository struct {
	lists   map[string][]target.Target
	failing bool
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{lists: map[string][]target.Target{}}
}

func (m *memoryRepository) Replace(_ context.Context, campaignID string, targets []target.Target) error {
	if m.failing {
		return apperr.Internal(errors.New("replace failed"))
	}
	m.lists[campaignID] = targets
	return nil
}

func (m *memoryRepository) List(_ context.Context, campaignID string, limit, offset int) ([]target.Target, error) {
	list := m.lists[campaignID]
	if offset >= len(list) {
		return []target.Target{}, nil
	}
	return list[offset:min(offset+limit, len(list))], nil
}

func (m *memoryRepository) Count(_ context.Context, campaignID string) (int, error) {
	return len(m.lists[campaignID]), nil
}

// stubSheets serves a fixed CSV for any link.
type stubSheets struct {
	text string
	err  error
}

func (s stubSheets) FetchCSV(context.Context, string) (string, error) { return s.text, s.err }

func newTargetService(repo target.Repository) *target.Service {
	sheets := stubSheets{text: "Name;E-Mail;PLZ\nAda;ada@example.org;10115\n"}
	return target.NewService(repo, sheets, slog.New(slog.DiscardHandler))
}

/*
TestService_Preview covers every source and the exactly-one rule.
*/
func TestService_Preview(t *testing.T) {
	service := newTargetService(newMemoryRepository())
	ctx := context.Background()

	tests := []struct {
		name   string
		source target.Source
		valid  int
	}{
		{"text", target.Source{Text: "name,email,postal_code\nAda,ada@example.org,10115\nBob,,1\n"}, 1},
		{"sheet", target.Source{SheetURL: "https://docs.google.com/spreadsheets/d/x/edit"}, 1},
		{"records", target.Source{Records: json.RawMessage(`[{"name":"Ada","email":"ada@example.org","postal_code":"10115"}]`)}, 1},
		{"file", target.Source{File: []byte("name\temail\tzip\nAda\tada@example.org\t10115\n"), Filename: "list.tsv"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preview, err := service.Preview(ctx, tt.source)
			require.NoError(t, err)
			assert.Len(t, preview.Result.Targets, tt.valid)
			assert.Len(t, preview.Mapping, preview.Table.Width())
		})
	}

	_, err := service.Preview(ctx, target.Source{})
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	_, err = service.Preview(ctx, target.Source{Text: "a", SheetURL: "b"})
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

/*
TestService_PreviewThenRemap fixes a headerless import by mapping columns by hand.
*/
func TestService_PreviewThenRemap(t *testing.T) {
	service := newTargetService(newMemoryRepository())

	preview, err := service.Preview(context.Background(), target.Source{Text: "Ada,ada@example.org,10115\n"})
	require.NoError(t, err)
	assert.False(t, preview.Table.HasHeader)
	require.Len(t, preview.Result.Issues, 1)
	assert.Equal(t, 1, preview.Result.Issues[0].Row)

	mapping := preview.Mapping
	mapping.Assign(0, target.FieldName)
	mapping.Assign(1, target.FieldEmail)
	mapping.Assign(2, target.FieldPostalCode)

	remapped := service.Remap(preview.Table, mapping)
	assert.True(t, remapped.Result.Valid())
	assert.Empty(t, remapped.Summary)
}

/*
TestService_Save stores the valid subset and refuses an all-invalid grid.
*/
func TestService_Save(t *testing.T) {
	repo := newMemoryRepository()
	service := newTargetService(repo)
	ctx := context.Background()

	rows := []target.GridRow{
		{Values: target.Record{target.FieldName: "Ada", target.FieldEmail: "ada@example.org", target.FieldPostalCode: "10115"}},
		{Values: target.Record{target.FieldName: "Bob"}},
	}

	result, err := service.Save(ctx, campaignID, rows)
	require.NoError(t, err)
	assert.Len(t, result.Issues, 1)
	require.Len(t, repo.lists[campaignID], 1)
	assert.Equal(t, "Ada", repo.lists[campaignID][0].Name)

	_, err = service.Save(ctx, campaignID, rows[1:])
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Equal(t, "row_1", ae.Details[0].Field)
	assert.Len(t, repo.lists[campaignID], 1, "rejected save must not touch the stored list")

	_, err = service.Save(ctx, campaignID, nil)
	require.NoError(t, err)
	assert.Empty(t, repo.lists[campaignID])

	_, err = service.Save(ctx, "not-a-uuid", rows)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	repo.failing = true
	_, err = service.Save(ctx, campaignID, rows)
	assert.Equal(t, "INTERNAL_ERROR", apperr.As(err).Code)
}

func campaignerRequest(method, path string, body *bytes.Buffer) *http.Request {
	if body == nil {
		body = &bytes.Buffer{}
	}
	request := httptest.NewRequest(method, path, body)
	claims := &sec.AuthClaims{UserID: "u1", Role: string(sec.RoleCampaigner)}
	return request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
}

func newTargetRouter(repo target.Repository) chi.Router {
	router := chi.NewRouter()
	target.NewHandler(newTargetService(repo)).RegisterRoutes(router)
	return router
}

/*
TestHandler_RoleAndTemplates keeps templates public and campaign routes protected.
*/
func TestHandler_RoleAndTemplates(t *testing.T) {
	router := newTargetRouter(newMemoryRepository())

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/targets/template.csv", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "name,email,postal_code")

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/targets/template.xlsx", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "PK", recorder.Body.String()[:2])

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/campaigns/"+campaignID+"/targets", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestHandler_MultipartPreview uploads a file with an explicit mapping.
*/
func TestHandler_MultipartPreview(t *testing.T) {
	router := newTargetRouter(newMemoryRepository())

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	part, err := form.CreateFormFile("file", "list.csv")
	require.NoError(t, err)
	_, _ = part.Write([]byte("Ada,ada@example.org,10115\n"))
	require.NoError(t, form.WriteField("mapping", `["name","email","postal_code"]`))
	require.NoError(t, form.Close())

	request := campaignerRequest(http.MethodPost, "/campaigns/"+campaignID+"/targets/preview", body)
	request.Header.Set("Content-Type", form.FormDataContentType())
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var envelope struct {
		Data target.Preview `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Result.Targets, 1)
	assert.Equal(t, target.Mapping{target.FieldName, target.FieldEmail, target.FieldPostalCode}, envelope.Data.Mapping)
}

/*
TestHandler_SaveAndList replaces the list and reads it back paginated.
*/
func TestHandler_SaveAndList(t *testing.T) {
	repo := newMemoryRepository()
	router := newTargetRouter(repo)

	payload, err := json.Marshal(map[string]any{"rows": []target.GridRow{
		{Values: target.Record{target.FieldName: "Ada", target.FieldEmail: "ada@example.org", target.FieldPostalCode: "10115"}},
		{Values: target.Record{target.FieldName: "Bob", target.FieldEmail: "bob@example.org", target.FieldPostalCode: "75001"}},
	}})
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, campaignerRequest(http.MethodPut, "/campaigns/"+campaignID+"/targets", bytes.NewBuffer(payload)))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, campaignerRequest(http.MethodGet, "/campaigns/"+campaignID+"/targets?limit=1&page=2", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data []target.Target `json:"data"`
		Meta pagination.Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "Bob", envelope.Data[0].Name)
	assert.Equal(t, 2, envelope.Meta.Total)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, campaignerRequest(http.MethodPut, "/campaigns/"+campaignID+"/targets", bytes.NewBufferString("{")))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var failure respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &failure))
	assert.Equal(t, "VALIDATION_ERROR", failure.Code)
}

/*
TestHandler_RemapRejectsOverlongMapping keeps mappings within the table width.
*/
func TestHandler_RemapRejectsOverlongMapping(t *testing.T) {
	router := newTargetRouter(newMemoryRepository())

	table := `{"headers":["Name","Email","PLZ"],"rows":[["Ada","ada@example.org","10115"]],"has_header":true}`

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, campaignerRequest(http.MethodPost, "/campaigns/"+campaignID+"/targets/remap",
		bytes.NewBufferString(`{"table":`+table+`,"mapping":["name","email","postal_code","city"]}`)))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, campaignerRequest(http.MethodPost, "/campaigns/"+campaignID+"/targets/remap",
		bytes.NewBufferString(`{"table":`+table+`,"mapping":["name","email","postal_code"]}`)))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var envelope struct {
		Data target.Preview `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data.Result.Targets, 1)
}
