// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package germany resolves German postal codes (PLZ) to Bundestag
constituencies (Wahlkreise) and their members (MdB).

The bundled dataset maps each Wahlkreis to the postal codes it contains.
The postal-code index is the inversion of that table; a postal code cut by a
constituency boundary belongs to several Wahlkreise.
*/
package germany

import (
	"embed"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/taibuivan/lettertool/internal/core/jurisdiction"
)

//go:embed data/*.json
var bundled embed.FS

const (
	postalCodeWidth = 5
	wahlkreisWidth  = 3
)

// Wahlkreis is one row of the bundled constituency table.
type Wahlkreis struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Land        string   `json:"land"`
	PostalCodes []string `json:"postal_codes"`
}

// MdB is one row of the bundled member dataset.
type MdB struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Party       string `json:"party"`
	WahlkreisID string `json:"wahlkreis_id"`
	ImageURL    string `json:"image_url"`
}

// Dataset is the raw input of [New].
type Dataset struct {
	Wahlkreise []Wahlkreis
	MdBs       []MdB
}

// LoadDataset decodes the datasets bundled into the binary.
func LoadDataset() (Dataset, error) {
	wahlkreise, err := jurisdiction.DecodeDataset[[]Wahlkreis](bundled, "data/wahlkreise.json")
	if err != nil {
		return Dataset{}, err
	}

	mdbs, err := jurisdiction.DecodeDataset[[]MdB](bundled, "data/mdbs.json")
	if err != nil {
		return Dataset{}, err
	}

	return Dataset{Wahlkreise: wahlkreise, MdBs: mdbs}, nil
}

// Resolver implements [jurisdiction.Resolver] for Germany.
type Resolver struct {
	directory *jurisdiction.Directory

	// byPostalCode lists candidate Wahlkreis ids per 5-digit postal code in
	// table order.
	byPostalCode map[string][]string
}

// NewBundled builds a resolver over the bundled dataset.
func NewBundled(policy jurisdiction.Policy) (*Resolver, error) {
	dataset, err := LoadDataset()
	if err != nil {
		return nil, fmt.Errorf("germany: %w", err)
	}
	return New(dataset, policy), nil
}

// New builds the resolver and its directory. policy runs once per MdB.
func New(dataset Dataset, policy jurisdiction.Policy) *Resolver {
	districts := make([]jurisdiction.District, 0, len(dataset.Wahlkreise))
	byPostalCode := make(map[string][]string)

	for _, wahlkreis := range dataset.Wahlkreise {
		id := WahlkreisID(wahlkreis.ID)
		if id == "" {
			continue
		}

		postalCodes := make([]string, 0, len(wahlkreis.PostalCodes))
		for _, raw := range wahlkreis.PostalCodes {
			postalCode := NormalizePostalCode(raw)
			if postalCode == "" {
				continue
			}
			postalCodes = append(postalCodes, postalCode)
			if !slices.Contains(byPostalCode[postalCode], id) {
				byPostalCode[postalCode] = append(byPostalCode[postalCode], id)
			}
		}

		districts = append(districts, jurisdiction.District{
			ID:          id,
			Name:        wahlkreis.Name,
			Region:      wahlkreis.Land,
			PostalCodes: postalCodes,
		})
	}

	representatives := make([]jurisdiction.Representative, 0, len(dataset.MdBs))
	for _, mdb := range dataset.MdBs {
		representatives = append(representatives, jurisdiction.Representative{
			ID:         mdb.ID,
			Name:       mdb.Name,
			Email:      mdb.Email,
			Party:      mdb.Party,
			DistrictID: mdb.WahlkreisID,
			ImageURL:   mdb.ImageURL,
		})
	}

	return &Resolver{
		directory: jurisdiction.NewDirectory(jurisdiction.DirectoryConfig{
			Districts:       districts,
			Representatives: representatives,
			Policy:          policy,
			DistrictKey:     WahlkreisID,
			Language:        language.German,
		}),
		byPostalCode: byPostalCode,
	}
}

// # Normalisation

// NormalizePostalCode trims input, zero-pads it to five digits and returns
// "" for anything that is not one to five ASCII digits.
func NormalizePostalCode(postalCode string) string {
	return padDigits(postalCode, postalCodeWidth)
}

// WahlkreisID canonicalises a constituency id to three digits ("75" → "075").
func WahlkreisID(id string) string {
	return padDigits(id, wahlkreisWidth)
}

func padDigits(raw string, width int) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > width {
		return ""
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return ""
		}
	}
	return strings.Repeat("0", width-len(raw)) + raw
}

// # Lookups

// Country implements [jurisdiction.Resolver].
func (r *Resolver) Country() jurisdiction.Country { return jurisdiction.Germany }

// Directory implements [jurisdiction.Resolver].
func (r *Resolver) Directory() *jurisdiction.Directory { return r.directory }

// DistrictsForPostalCode returns every Wahlkreis containing the postal code,
// in table order. Empty when the code is malformed or unknown.
func (r *Resolver) DistrictsForPostalCode(postalCode string) []jurisdiction.District {
	districts := []jurisdiction.District{}
	for _, id := range r.byPostalCode[NormalizePostalCode(postalCode)] {
		if district, found := r.directory.District(id); found {
			districts = append(districts, district)
		}
	}
	return districts
}

// DistrictForPostalCode returns a single Wahlkreis for the postal code.
// When the code is split between constituencies the one with the smallest
// numeric id wins.
func (r *Resolver) DistrictForPostalCode(postalCode string) (jurisdiction.District, bool) {
	candidates := r.DistrictsForPostalCode(postalCode)
	if len(candidates) == 0 {
		return jurisdiction.District{}, false
	}

	best := candidates[0]
	for _, candidate := range candidates[1:] {
		if numericID(candidate.ID) < numericID(best.ID) {
			best = candidate
		}
	}
	return best, true
}

// Resolve implements [jurisdiction.Resolver]. Every candidate Wahlkreis is
// returned together with the union of their members; there is no fallback
// when the postal code is unknown.
func (r *Resolver) Resolve(postalCode string) jurisdiction.Resolution {
	normalized := NormalizePostalCode(postalCode)
	if normalized == "" {
		return jurisdiction.Miss(jurisdiction.Germany, strings.TrimSpace(postalCode))
	}

	districts := r.DistrictsForPostalCode(normalized)
	if len(districts) == 0 {
		return jurisdiction.Miss(jurisdiction.Germany, normalized)
	}

	representatives := []jurisdiction.Representative{}
	for _, district := range districts {
		representatives = append(representatives, r.directory.FindByDistrict(district.ID)...)
	}

	return jurisdiction.Resolution{
		Country:         jurisdiction.Germany,
		PostalCode:      normalized,
		Precision:       jurisdiction.PrecisionDistrict,
		Region:          sharedRegion(districts),
		Districts:       districts,
		Representatives: representatives,
	}
}

// sharedRegion returns the Land of the districts, or "" if they straddle two.
func sharedRegion(districts []jurisdiction.District) string {
	region := districts[0].Region
	for _, district := range districts[1:] {
		if district.Region != region {
			return ""
		}
	}
	return region
}

func numericID(id string) int {
	n, err := strconv.Atoi(id)
	if err != nil {
		return math.MaxInt
	}
	return n
}
