// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package jurisdiction

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/lettertool/internal/platform/respond"
)

// Handler exposes the public, unauthenticated lookup endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new jurisdiction [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the lookup and browse endpoints on router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/lookup/{country}/{postalCode}", handler.lookup)

	router.Route("/countries", func(countries chi.Router) {
		countries.Get("/", handler.listCountries)
		countries.Get("/{country}/districts", handler.listDistricts)
		countries.Get("/{country}/districts/{districtID}/representatives", handler.listByDistrict)
		countries.Get("/{country}/regions/{region}/representatives", handler.listByRegion)
	})
}

/*
GET /api/v1/lookup/{country}/{postalCode}.

Description: Resolves a postal code to districts and representatives.
A postal code that matches nothing is a 200 with precision "none".

Request:
  - constituency: string (optional, narrows region-level results)

Response:
  - 200: Resolution
  - 404: Unsupported country
*/
func (handler *Handler) lookup(writer http.ResponseWriter, request *http.Request) {
	resolution, err := handler.service.Lookup(request.Context(),
		chi.URLParam(request, "country"),
		chi.URLParam(request, "postalCode"),
		request.URL.Query().Get("constituency"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, resolution)
}

func (handler *Handler) listCountries(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, handler.service.Countries())
}

func (handler *Handler) listDistricts(writer http.ResponseWriter, request *http.Request) {
	districts, err := handler.service.Districts(request.Context(), chi.URLParam(request, "country"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, districts)
}

func (handler *Handler) listByDistrict(writer http.ResponseWriter, request *http.Request) {
	representatives, err := handler.service.RepresentativesByDistrict(request.Context(),
		chi.URLParam(request, "country"),
		chi.URLParam(request, "districtID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, representatives)
}

func (handler *Handler) listByRegion(writer http.ResponseWriter, request *http.Request) {
	representatives, err := handler.service.RepresentativesByRegion(request.Context(),
		chi.URLParam(request, "country"),
		chi.URLParam(request, "region"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, representatives)
}
