// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package letter

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/lettertool/internal/core/jurisdiction"
	"github.com/taibuivan/lettertool/internal/platform/middleware"
	requestutil "github.com/taibuivan/lettertool/internal/platform/request"
	"github.com/taibuivan/lettertool/internal/platform/respond"
	"github.com/taibuivan/lettertool/internal/platform/validate"
)

// Handler exposes the per-client letter endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new letter [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the letter endpoints. Every route needs X-Client-ID.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/letters", func(letters chi.Router) {
		letters.Use(middleware.RequireClientID)

		letters.Get("/current", handler.current)
		letters.Put("/current", handler.saveCurrent)
		letters.Delete("/current", handler.clear)

		letters.Get("/emailed", handler.emailed)
		letters.Post("/emailed", handler.markEmailed)

		letters.Get("/remaining", handler.remaining)
		letters.Post("/adapt", handler.adapt)
	})
}

var countries = []string{
	string(jurisdiction.Germany),
	string(jurisdiction.France),
	string(jurisdiction.Canada),
}

type representativeRequest struct {
	Country          string `json:"country"`
	RepresentativeID string `json:"representative_id"`
}

func (input representativeRequest) validate() error {
	validator := &validate.Validator{}
	validator.
		OneOf("country", strings.ToLower(input.Country), countries...).
		Required("representative_id", input.RepresentativeID)
	return validator.Err()
}

func (handler *Handler) current(writer http.ResponseWriter, request *http.Request) {
	letter, err := handler.service.Current(request.Context(), requestutil.ClientID(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, letter)
}

/*
PUT /api/v1/letters/current.

Request:
  - SaveInput

Response:
  - 200: CachedLetter
  - 400: Missing subject or body
*/
func (handler *Handler) saveCurrent(writer http.ResponseWriter, request *http.Request) {
	var input SaveInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	letter, err := handler.service.SaveCurrent(request.Context(), requestutil.ClientID(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, letter)
}

// DELETE /api/v1/letters/current forgets the letter and the emailed list.
func (handler *Handler) clear(writer http.ResponseWriter, request *http.Request) {
	handler.service.Clear(request.Context(), requestutil.ClientID(request))
	respond.NoContent(writer)
}

func (handler *Handler) emailed(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.service.Emailed(request.Context(), requestutil.ClientID(request)))
}

/*
POST /api/v1/letters/emailed.

Request:
  - country: string
  - representative_id: string

Response:
  - 200: []EmailedRecord
  - 404: Unknown country or representative
*/
func (handler *Handler) markEmailed(writer http.ResponseWriter, request *http.Request) {
	var input representativeRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	records, err := handler.service.MarkEmailed(request.Context(), requestutil.ClientID(request), input.Country, input.RepresentativeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, records)
}

/*
GET /api/v1/letters/remaining.

Request:
  - country: string
  - district: string

Response:
  - 200: []Representative not yet emailed
*/
func (handler *Handler) remaining(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	validator := &validate.Validator{}
	validator.
		OneOf("country", strings.ToLower(query.Get("country")), countries...).
		Required("district", query.Get("district"))
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	representatives, err := handler.service.Remaining(request.Context(), requestutil.ClientID(request), query.Get("country"), query.Get("district"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, representatives)
}

/*
POST /api/v1/letters/adapt.

Description: Readdresses the current letter to another representative.

Request:
  - country: string
  - representative_id: string

Response:
  - 200: CachedLetter
  - 404: No current letter, or unknown representative
*/
func (handler *Handler) adapt(writer http.ResponseWriter, request *http.Request) {
	var input representativeRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := input.validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	letter, err := handler.service.Adapt(request.Context(), requestutil.ClientID(request), input.Country, input.RepresentativeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, letter)
}
