// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package canada resolves Canadian postal codes to federal ridings and their
Members of Parliament.

The finest key available is the Forward Sortation Area (the first three
characters of a postal code). The FSA → riding table is produced offline by
the ridingsetl package and bundled as fsa_ridings.json. FSAs missing from the
table fall back to every MP of the province implied by the first letter.
*/
package canada

import (
	"embed"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/taibuivan/lettertool/internal/core/jurisdiction"
)

//go:embed data/*.json
var bundled embed.FS

// fsaPattern excludes the letters Canada Post never uses in an FSA.
var fsaPattern = regexp.MustCompile(`^[ABCEGHJ-NPRSTVXY][0-9][ABCEGHJ-NPRSTV-Z]$`)

// provinceByRidingPrefix maps the Elections Canada province prefix of a
// riding id to the province code.
var provinceByRidingPrefix = map[string]string{
	"10": "NL",
	"11": "PE",
	"12": "NS",
	"13": "NB",
	"24": "QC",
	"35": "ON",
	"46": "MB",
	"47": "SK",
	"48": "AB",
	"59": "BC",
	"60": "YT",
	"61": "NT",
	"62": "NU",
}

// provinceByPostalLetter maps the first letter of a postal code to a province.
// X is shared by the Northwest Territories and Nunavut and resolves to NT.
var provinceByPostalLetter = map[byte]string{
	'A': "NL",
	'B': "NS",
	'C': "PE",
	'E': "NB",
	'G': "QC", 'H': "QC", 'J': "QC",
	'K': "ON", 'L': "ON", 'M': "ON", 'N': "ON", 'P': "ON",
	'R': "MB",
	'S': "SK",
	'T': "AB",
	'V': "BC",
	'X': "NT",
	'Y': "YT",
}

// Riding is one row of the bundled riding table.
type Riding struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MP is one row of the bundled member dataset.
type MP struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Party    string `json:"party"`
	RidingID string `json:"riding_id"`
	ImageURL string `json:"image_url"`
}

// Dataset is the raw input of [New].
type Dataset struct {
	Ridings []Riding
	MPs     []MP

	// FSARidings maps an FSA to a riding id.
	FSARidings map[string]string
}

// LoadDataset decodes the datasets bundled into the binary.
func LoadDataset() (Dataset, error) {
	ridings, err := jurisdiction.DecodeDataset[[]Riding](bundled, "data/ridings.json")
	if err != nil {
		return Dataset{}, err
	}

	mps, err := jurisdiction.DecodeDataset[[]MP](bundled, "data/mps.json")
	if err != nil {
		return Dataset{}, err
	}

	fsaRidings, err := jurisdiction.DecodeDataset[map[string]string](bundled, "data/fsa_ridings.json")
	if err != nil {
		return Dataset{}, err
	}

	return Dataset{Ridings: ridings, MPs: mps, FSARidings: fsaRidings}, nil
}

// Resolver implements [jurisdiction.Resolver] for Canada.
type Resolver struct {
	directory *jurisdiction.Directory
	byFSA     map[string]string
}

// NewBundled builds a resolver over the bundled dataset.
func NewBundled(policy jurisdiction.Policy) (*Resolver, error) {
	dataset, err := LoadDataset()
	if err != nil {
		return nil, fmt.Errorf("canada: %w", err)
	}
	return New(dataset, policy), nil
}

// New builds the resolver and its directory. FSA rows with a malformed key
// are ignored.
func New(dataset Dataset, policy jurisdiction.Policy) *Resolver {
	districts := make([]jurisdiction.District, 0, len(dataset.Ridings))
	postalCodes := make(map[string][]string)

	byFSA := make(map[string]string, len(dataset.FSARidings))
	for raw, ridingID := range dataset.FSARidings {
		fsa := FSA(raw)
		if fsa == "" {
			continue
		}
		ridingID = strings.TrimSpace(ridingID)
		byFSA[fsa] = ridingID
		postalCodes[ridingID] = append(postalCodes[ridingID], fsa)
	}

	for _, fsas := range postalCodes {
		slices.Sort(fsas)
	}

	for _, riding := range dataset.Ridings {
		districts = append(districts, jurisdiction.District{
			ID:          riding.ID,
			Name:        riding.Name,
			Region:      ProvinceFromRidingID(riding.ID),
			PostalCodes: postalCodes[strings.TrimSpace(riding.ID)],
		})
	}

	representatives := make([]jurisdiction.Representative, 0, len(dataset.MPs))
	for _, mp := range dataset.MPs {
		representatives = append(representatives, jurisdiction.Representative{
			ID:         mp.ID,
			Name:       mp.Name,
			Email:      mp.Email,
			Party:      mp.Party,
			DistrictID: mp.RidingID,
			ImageURL:   mp.ImageURL,
		})
	}

	directory := jurisdiction.NewDirectory(jurisdiction.DirectoryConfig{
		Districts:       districts,
		Representatives: representatives,
		Policy:          policy,
		Language:        language.CanadianFrench,
	})

	return &Resolver{directory: directory, byFSA: byFSA}
}

// # Postal codes

// FSA extracts the Forward Sortation Area from a postal code ("k1a 0b1" → "K1A").
// It returns "" when the first three characters are not a valid FSA.
func FSA(postalCode string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '\t':
			return -1
		}
		return r
	}, strings.ToUpper(postalCode))

	if len(cleaned) < 3 {
		return ""
	}

	fsa := cleaned[:3]
	if !fsaPattern.MatchString(fsa) {
		return ""
	}
	return fsa
}

// ProvinceFromRidingID derives the province from the first two digits of a
// riding id ("35075" → "ON").
func ProvinceFromRidingID(ridingID string) string {
	ridingID = strings.TrimSpace(ridingID)
	if len(ridingID) < 2 {
		return ""
	}
	return provinceByRidingPrefix[ridingID[:2]]
}

// ProvinceFromPostalCode derives the province from the first letter of a
// valid postal code. X resolves to NT although it is shared with Nunavut.
func ProvinceFromPostalCode(postalCode string) string {
	fsa := FSA(postalCode)
	if fsa == "" {
		return ""
	}
	return provinceByPostalLetter[fsa[0]]
}

// # Lookups

// Country implements [jurisdiction.Resolver].
func (r *Resolver) Country() jurisdiction.Country { return jurisdiction.Canada }

// Directory implements [jurisdiction.Resolver].
func (r *Resolver) Directory() *jurisdiction.Directory { return r.directory }

// RidingForPostalCode returns the riding mapped to the postal code's FSA.
func (r *Resolver) RidingForPostalCode(postalCode string) (jurisdiction.District, bool) {
	ridingID, found := r.byFSA[FSA(postalCode)]
	if !found {
		return jurisdiction.District{}, false
	}
	return r.directory.District(ridingID)
}

// Resolve implements [jurisdiction.Resolver]. A mapped FSA resolves to its
// riding; an unmapped FSA falls back to every MP of the province.
func (r *Resolver) Resolve(postalCode string) jurisdiction.Resolution {
	fsa := FSA(postalCode)
	if fsa == "" {
		return jurisdiction.Miss(jurisdiction.Canada, strings.TrimSpace(postalCode))
	}

	resolution := jurisdiction.Miss(jurisdiction.Canada, fsa)

	if riding, found := r.RidingForPostalCode(fsa); found {
		if representatives := r.directory.FindByDistrict(riding.ID); len(representatives) > 0 {
			resolution.Precision = jurisdiction.PrecisionDistrict
			resolution.Region = riding.Region
			resolution.Districts = []jurisdiction.District{riding}
			resolution.Representatives = representatives
			return resolution
		}
	}

	province := provinceByPostalLetter[fsa[0]]
	representatives := r.directory.FindByRegion(province)
	if len(representatives) == 0 {
		return resolution
	}

	resolution.Precision = jurisdiction.PrecisionRegion
	resolution.Region = province
	resolution.Districts = r.directory.DistrictsInRegion(province)
	resolution.Representatives = representatives
	return resolution
}
