// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package jurisdiction

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/taibuivan/lettertool/internal/platform/apperr"
)

// Narrower is implemented by resolvers whose postal-code resolution stops at
// region level but which can narrow a result to one district when the user
// names it (France: constituency number within the département).
type Narrower interface {
	Narrow(resolution Resolution, district string) Resolution
}

// # Service Layer

// Service dispatches jurisdiction queries to the resolver of each country.
type Service struct {
	resolvers map[Country]Resolver
	logger    *slog.Logger
}

// NewService registers one resolver per country. A later resolver for the
// same country replaces an earlier one.
func NewService(logger *slog.Logger, resolvers ...Resolver) *Service {
	registry := make(map[Country]Resolver, len(resolvers))
	for _, resolver := range resolvers {
		registry[resolver.Country()] = resolver
	}
	return &Service{resolvers: registry, logger: logger}
}

// Countries returns the registered country codes in alphabetical order.
func (service *Service) Countries() []Country {
	countries := make([]Country, 0, len(service.resolvers))
	for country := range service.resolvers {
		countries = append(countries, country)
	}
	slices.Sort(countries)
	return countries
}

/*
Lookup resolves a postal code for a country.

Description: A miss is not an error; it comes back as a [Resolution] with
[PrecisionNone]. When district is non-empty and the country's resolver
implements [Narrower], the result is narrowed to that district; an unknown
district leaves the broader result untouched.

Parameters:
  - context: context.Context
  - country: string (ISO code, case-insensitive)
  - postalCode: string (raw user input)
  - district: string (optional explicit district, e.g. French constituency number)

Returns:
  - Resolution: Never nil slices
  - error: NOT_FOUND when the country is not supported
*/
func (service *Service) Lookup(context context.Context, country, postalCode, district string) (Resolution, error) {
	resolver, err := service.resolver(country)
	if err != nil {
		return Resolution{}, err
	}

	resolution := resolver.Resolve(postalCode)

	if narrower, ok := resolver.(Narrower); ok && strings.TrimSpace(district) != "" {
		resolution = narrower.Narrow(resolution, district)
	}

	service.logger.DebugContext(context, "postal_code_resolved",
		slog.String("country", string(resolver.Country())),
		slog.String("precision", string(resolution.Precision)),
		slog.Int("representatives", len(resolution.Representatives)),
	)

	return resolution, nil
}

// Districts lists every district of a country.
func (service *Service) Districts(_ context.Context, country string) ([]District, error) {
	resolver, err := service.resolver(country)
	if err != nil {
		return nil, err
	}
	return resolver.Directory().Districts(), nil
}

// RepresentativesByDistrict lists the representatives of one district.
// Unlike [Directory.FindByDistrict] an unknown district is reported as NOT_FOUND.
func (service *Service) RepresentativesByDistrict(_ context.Context, country, districtID string) ([]Representative, error) {
	resolver, err := service.resolver(country)
	if err != nil {
		return nil, err
	}

	directory := resolver.Directory()
	if _, found := directory.District(districtID); !found {
		return nil, apperr.NotFound("District")
	}
	return directory.FindByDistrict(districtID), nil
}

// RepresentativesByRegion lists every representative of a region.
func (service *Service) RepresentativesByRegion(_ context.Context, country, region string) ([]Representative, error) {
	resolver, err := service.resolver(country)
	if err != nil {
		return nil, err
	}
	return resolver.Directory().FindByRegion(region), nil
}

// Representative fetches one representative by id.
func (service *Service) Representative(_ context.Context, country, id string) (Representative, error) {
	resolver, err := service.resolver(country)
	if err != nil {
		return Representative{}, err
	}

	representative, found := resolver.Directory().FindByID(id)
	if !found {
		return Representative{}, apperr.NotFound("Representative")
	}
	return representative, nil
}

func (service *Service) resolver(country string) (Resolver, error) {
	resolver, found := service.resolvers[Country(strings.ToLower(strings.TrimSpace(country)))]
	if !found {
		return nil, apperr.NotFound("Country")
	}
	return resolver, nil
}
