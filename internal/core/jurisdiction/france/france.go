// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package france resolves French postal codes to départements and the deputies
(députés) elected in them.

There is no postal-code to circonscription table: a postal code resolves to
its département and every deputy of that département is returned at region
precision. The caller narrows to one circonscription by number when the user
knows it.
*/
package france

import (
	"embed"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/taibuivan/lettertool/internal/core/jurisdiction"
)

//go:embed data/*.json
var bundled embed.FS

// Circonscription is one row of the bundled constituency table.
type Circonscription struct {
	Department string `json:"department"`
	Number     int    `json:"number"`
	Name       string `json:"name"`
}

// Depute is one row of the bundled deputy dataset.
type Depute struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Party        string `json:"party"`
	Department   string `json:"department"`
	Constituency int    `json:"constituency"`
	ImageURL     string `json:"image_url"`
}

// Dataset is the raw input of [New].
type Dataset struct {
	Circonscriptions []Circonscription
	Deputes          []Depute
}

// overseas lists the overseas départements reachable through a 97x postal code.
var overseas = map[string]struct{}{
	"971": {}, // Guadeloupe
	"972": {}, // Martinique
	"973": {}, // Guyane
	"974": {}, // La Réunion
	"976": {}, // Mayotte
}

// corsicaSplit is the first postal code of Haute-Corse.
const corsicaSplit = 20200

// LoadDataset decodes the datasets bundled into the binary.
func LoadDataset() (Dataset, error) {
	circonscriptions, err := jurisdiction.DecodeDataset[[]Circonscription](bundled, "data/circonscriptions.json")
	if err != nil {
		return Dataset{}, err
	}

	deputes, err := jurisdiction.DecodeDataset[[]Depute](bundled, "data/deputes.json")
	if err != nil {
		return Dataset{}, err
	}

	return Dataset{Circonscriptions: circonscriptions, Deputes: deputes}, nil
}

// Resolver implements [jurisdiction.Resolver] and [jurisdiction.Narrower] for France.
type Resolver struct {
	directory *jurisdiction.Directory
}

// NewBundled builds a resolver over the bundled dataset.
func NewBundled(policy jurisdiction.Policy) (*Resolver, error) {
	dataset, err := LoadDataset()
	if err != nil {
		return nil, fmt.Errorf("france: %w", err)
	}
	return New(dataset, policy), nil
}

// New builds the resolver and its directory.
func New(dataset Dataset, policy jurisdiction.Policy) *Resolver {
	districts := make([]jurisdiction.District, 0, len(dataset.Circonscriptions))
	for _, circonscription := range dataset.Circonscriptions {
		districts = append(districts, jurisdiction.District{
			ID:     ConstituencyID(circonscription.Department, circonscription.Number),
			Name:   circonscription.Name,
			Region: NormalizeDepartment(circonscription.Department),
		})
	}

	representatives := make([]jurisdiction.Representative, 0, len(dataset.Deputes))
	for _, depute := range dataset.Deputes {
		representatives = append(representatives, jurisdiction.Representative{
			ID:         depute.ID,
			Name:       depute.Name,
			Email:      depute.Email,
			Party:      depute.Party,
			DistrictID: ConstituencyID(depute.Department, depute.Constituency),
			Region:     NormalizeDepartment(depute.Department),
			ImageURL:   depute.ImageURL,
		})
	}

	return &Resolver{
		directory: jurisdiction.NewDirectory(jurisdiction.DirectoryConfig{
			Districts:       districts,
			Representatives: representatives,
			Policy:          policy,
			DistrictKey:     canonicalConstituency,
			Language:        language.French,
		}),
	}
}

// # Département derivation

/*
DepartmentFromPostalCode derives the département code of a postal code.

Description:
  - The input must be exactly five ASCII digits.
  - 97xxx maps to the three-digit overseas code, only for 971, 972, 973, 974 and 976.
  - 20xxx is Corsica: below 20200 is "2A", from 20200 on is "2B".
  - Otherwise the first two digits, when between 01 and 95.

Returns:
  - string: Département code ("75", "2A", "974")
  - bool: False for anything else
*/
func DepartmentFromPostalCode(postalCode string) (string, bool) {
	if len(postalCode) != 5 {
		return "", false
	}
	for i := 0; i < len(postalCode); i++ {
		if postalCode[i] < '0' || postalCode[i] > '9' {
			return "", false
		}
	}

	switch prefix := postalCode[:2]; prefix {
	case "97":
		if _, known := overseas[postalCode[:3]]; known {
			return postalCode[:3], true
		}
		return "", false

	case "20":
		value, _ := strconv.Atoi(postalCode)
		if value < corsicaSplit {
			return "2A", true
		}
		return "2B", true

	default:
		number, _ := strconv.Atoi(prefix)
		if number < 1 || number > 95 {
			return "", false
		}
		return prefix, true
	}
}

// NormalizeDepartment uppercases the code and pads single digits ("1" → "01", "2a" → "2A").
func NormalizeDepartment(department string) string {
	department = strings.ToUpper(strings.TrimSpace(department))
	if len(department) == 1 && department[0] >= '0' && department[0] <= '9' {
		return "0" + department
	}
	return department
}

// ConstituencyID builds the canonical circonscription id ("75", 3 → "75-03").
func ConstituencyID(department string, number int) string {
	return fmt.Sprintf("%s-%02d", NormalizeDepartment(department), number)
}

// canonicalConstituency rewrites "75-3" or "2a-1" into canonical form.
func canonicalConstituency(id string) string {
	department, number, found := strings.Cut(strings.TrimSpace(id), "-")
	if !found {
		return ""
	}

	n, err := strconv.Atoi(number)
	if err != nil || n < 1 || NormalizeDepartment(department) == "" {
		return ""
	}
	return ConstituencyID(department, n)
}

// # Lookups

// Country implements [jurisdiction.Resolver].
func (r *Resolver) Country() jurisdiction.Country { return jurisdiction.France }

// Directory implements [jurisdiction.Resolver].
func (r *Resolver) Directory() *jurisdiction.Directory { return r.directory }

// FindDeputesByDepartment returns every deputy of a département, name-sorted.
func (r *Resolver) FindDeputesByDepartment(department string) []jurisdiction.Representative {
	return r.directory.FindByRegion(NormalizeDepartment(department))
}

// FindDeputesByConstituency returns the deputy of one circonscription.
func (r *Resolver) FindDeputesByConstituency(department string, number int) []jurisdiction.Representative {
	return r.directory.FindByDistrict(ConstituencyID(department, number))
}

// FindDeputesByPostalCode returns every deputy of the postal code's
// département. It does not narrow to a circonscription.
func (r *Resolver) FindDeputesByPostalCode(postalCode string) []jurisdiction.Representative {
	department, ok := DepartmentFromPostalCode(postalCode)
	if !ok {
		return []jurisdiction.Representative{}
	}
	return r.FindDeputesByDepartment(department)
}

// Resolve implements [jurisdiction.Resolver] at département precision.
func (r *Resolver) Resolve(postalCode string) jurisdiction.Resolution {
	postalCode = strings.TrimSpace(postalCode)

	department, ok := DepartmentFromPostalCode(postalCode)
	if !ok {
		return jurisdiction.Miss(jurisdiction.France, postalCode)
	}

	resolution := jurisdiction.Miss(jurisdiction.France, postalCode)
	resolution.Region = department

	representatives := r.FindDeputesByDepartment(department)
	if len(representatives) == 0 {
		return resolution
	}

	resolution.Precision = jurisdiction.PrecisionRegion
	resolution.Districts = r.directory.DistrictsInRegion(department)
	resolution.Representatives = representatives
	return resolution
}

// Narrow implements [jurisdiction.Narrower]. district is a circonscription
// number within the resolved département ("3") or a full id ("75-03"). A
// number that matches no deputy leaves the resolution unchanged.
func (r *Resolver) Narrow(resolution jurisdiction.Resolution, district string) jurisdiction.Resolution {
	if resolution.Region == "" {
		return resolution
	}

	id := canonicalConstituency(district)
	if id == "" {
		number, err := strconv.Atoi(strings.TrimSpace(district))
		if err != nil {
			return resolution
		}
		id = ConstituencyID(resolution.Region, number)
	}

	circonscription, found := r.directory.District(id)
	if !found || circonscription.Region != resolution.Region {
		return resolution
	}

	representatives := r.directory.FindByDistrict(id)
	if len(representatives) == 0 {
		return resolution
	}

	resolution.Precision = jurisdiction.PrecisionDistrict
	resolution.Districts = []jurisdiction.District{circonscription}
	resolution.Representatives = representatives
	return resolution
}
