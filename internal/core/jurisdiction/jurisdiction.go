// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package jurisdiction resolves postal codes to electoral districts and the
representatives elected in them.

Architecture:

  - Country packages (germany, france, canada) own their datasets and
    postal-code rules and implement [Resolver].
  - [Directory] is the shared, immutable representative index built once at
    startup from a country's dataset and a named [Policy].
  - [Service] dispatches lookups to the resolver registered for a country.

Nothing in this package performs I/O after construction and nothing returns
an error for a lookup miss: an unknown or malformed postal code is a
[Resolution] with [PrecisionNone].
*/
package jurisdiction

// Country is the ISO 3166-1 alpha-2 code (lowercase) of a supported country.
type Country string

const (
	Germany Country = "de"
	France  Country = "fr"
	Canada  Country = "ca"
)

// Precision tells the caller how narrowly a postal code was resolved.
type Precision string

const (
	// PrecisionDistrict means the postal code mapped to one or more districts.
	PrecisionDistrict Precision = "district"

	// PrecisionRegion means only the enclosing region (Land, département,
	// province) was known and every representative of it is returned.
	PrecisionRegion Precision = "region"

	// PrecisionNone means nothing matched.
	PrecisionNone Precision = "none"
)

// District is an electoral district (Wahlkreis, circonscription, riding).
type District struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Region      string   `json:"region"`
	PostalCodes []string `json:"postal_codes,omitempty"`
}

// Representative is an elected official reachable through the letter flow.
type Representative struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Party      string `json:"party"`
	DistrictID string `json:"district_id"`
	Region     string `json:"region"`
	ImageURL   string `json:"image_url,omitempty"`
}

// Resolution is the outcome of resolving one postal code.
//
// Districts and Representatives are never nil so JSON clients always see arrays.
type Resolution struct {
	Country         Country          `json:"country"`
	PostalCode      string           `json:"postal_code"`
	Precision       Precision        `json:"precision"`
	Region          string           `json:"region,omitempty"`
	Districts       []District       `json:"districts"`
	Representatives []Representative `json:"representatives"`
}

// Miss builds the empty resolution for postalCode.
func Miss(country Country, postalCode string) Resolution {
	return Resolution{
		Country:         country,
		PostalCode:      postalCode,
		Precision:       PrecisionNone,
		Districts:       []District{},
		Representatives: []Representative{},
	}
}

// Found reports whether the resolution carries any representative.
func (r Resolution) Found() bool {
	return r.Precision != PrecisionNone && len(r.Representatives) > 0
}

// Resolver maps raw postal codes for one country onto districts and
// representatives. Implementations must be safe for concurrent use and must
// never panic on malformed input.
type Resolver interface {
	Country() Country
	Resolve(postalCode string) Resolution
	Directory() *Directory
}
