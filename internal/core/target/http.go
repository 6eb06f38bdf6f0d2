// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package target

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/lettertool/internal/platform/apperr"
	"github.com/taibuivan/lettertool/internal/platform/constants"
	"github.com/taibuivan/lettertool/internal/platform/ctxutil"
	"github.com/taibuivan/lettertool/internal/platform/middleware"
	requestutil "github.com/taibuivan/lettertool/internal/platform/request"
	"github.com/taibuivan/lettertool/internal/platform/respond"
	"github.com/taibuivan/lettertool/internal/platform/sec"
	"github.com/taibuivan/lettertool/internal/platform/validate"
	"github.com/taibuivan/lettertool/pkg/pagination"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// # Handler Implementation

// Handler implements the HTTP layer for target list management.
type Handler struct {
	service *Service
}

// NewHandler constructs a new target [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the template downloads (public) and the campaign
// target endpoints (campaigner role) on router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/targets/template.csv", handler.templateCSV)
	router.Get("/targets/template.xlsx", handler.templateXLSX)

	router.Route("/campaigns/{campaignID}/targets", func(targets chi.Router) {
		targets.Use(middleware.RequireRole(sec.RoleCampaigner))

		targets.Get("/", handler.list)
		targets.Put("/", handler.save)
		targets.Post("/preview", handler.preview)
		targets.Post("/remap", handler.remap)
		targets.Post("/validate", handler.validate)
	})
}

// # Request Payloads

type previewRequest struct {
	Text     string          `json:"text"`
	SheetURL string          `json:"sheet_url"`
	Records  json.RawMessage `json:"records"`
	Mapping  Mapping         `json:"mapping"`
}

type remapRequest struct {
	Table   Table   `json:"table"`
	Mapping Mapping `json:"mapping"`
}

type gridRequest struct {
	Rows []GridRow `json:"rows"`
}

// # Templates

func (handler *Handler) templateCSV(writer http.ResponseWriter, request *http.Request) {
	body, err := handler.service.TemplateCSV()
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}
	respond.Attachment(writer, contentTypeCSV, "targets-template.csv", body)
}

func (handler *Handler) templateXLSX(writer http.ResponseWriter, request *http.Request) {
	body, err := handler.service.TemplateXLSX()
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}
	respond.Attachment(writer, contentTypeXLSX, "targets-template.xlsx", body)
}

// # Import

/*
POST /api/v1/campaigns/{campaignID}/targets/preview.

Description: Parses and validates an import without storing it.

Request:
  - multipart/form-data: file (CSV, TSV, JSON or XLSX), mapping (optional JSON array)
  - application/json: {text | sheet_url | records, mapping?}

Response:
  - 200: Preview
  - 400: Missing or ambiguous input
  - 413: Upload too large
  - 422: Unreadable input or unreachable sheet
*/
func (handler *Handler) preview(writer http.ResponseWriter, request *http.Request) {
	source, err := readSource(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	preview, err := handler.service.Preview(request.Context(), source)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, preview)
}

func readSource(writer http.ResponseWriter, request *http.Request) (Source, error) {
	if !strings.HasPrefix(request.Header.Get("Content-Type"), "multipart/form-data") {
		var input previewRequest
		if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
			return Source{}, err
		}
		return Source{
			Text:     input.Text,
			SheetURL: input.SheetURL,
			Records:  input.Records,
			Mapping:  input.Mapping,
		}, nil
	}

	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBytes)
	if err := request.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return Source{}, apperr.TooLarge("The upload is too large")
		}
		return Source{}, apperr.ValidationError("Invalid multipart form")
	}

	file, header, err := request.FormFile("file")
	if err != nil {
		return Source{}, apperr.ValidationError("A file is required",
			apperr.FieldError{Field: "file", Message: "This field is required"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return Source{}, apperr.Unprocessable("Could not read the upload")
	}

	source := Source{
		File:        data,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}

	if raw := request.FormValue("mapping"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &source.Mapping); err != nil {
			return Source{}, apperr.ValidationError("Invalid mapping",
				apperr.FieldError{Field: "mapping", Message: "Must be a JSON array of field names"})
		}
	}
	return source, nil
}

/*
POST /api/v1/campaigns/{campaignID}/targets/remap.

Description: Validates an already parsed table under an edited mapping.

Response:
  - 200: Preview
*/
func (handler *Handler) remap(writer http.ResponseWriter, request *http.Request) {
	var input remapRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Custom("mapping", len(input.Mapping) > input.Table.Width(), "Has more entries than the table has columns")
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, handler.service.Remap(input.Table, input.Mapping))
}

// # Edit Grid

/*
POST /api/v1/campaigns/{campaignID}/targets/validate.

Description: Validates edit grid rows. Issues carry the row id.

Response:
  - 200: Result
*/
func (handler *Handler) validate(writer http.ResponseWriter, request *http.Request) {
	var input gridRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, handler.service.ValidateGrid(input.Rows))
}

/*
PUT /api/v1/campaigns/{campaignID}/targets.

Description: Replaces the campaign's target list with the valid grid rows.

Response:
  - 200: Result (Targets is what was stored, Issues what was left out)
  - 400: Invalid campaign ID or no valid rows
*/
func (handler *Handler) save(writer http.ResponseWriter, request *http.Request) {
	campaignerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input gridRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Save(request.Context(), requestutil.Param(request, "campaignID"), input.Rows)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctxutil.GetLogger(request.Context()).InfoContext(request.Context(), "target_list_saved",
		slog.String("campaigner_id", campaignerID),
		slog.Int("rows", len(result.Targets)),
	)
	respond.OK(writer, result)
}

/*
GET /api/v1/campaigns/{campaignID}/targets.

Request:
  - page, limit: int (optional)

Response:
  - 200: Paginated []Target
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	targets, total, err := handler.service.List(request.Context(), requestutil.Param(request, "campaignID"), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, targets, pagination.NewMeta(params, total))
}
