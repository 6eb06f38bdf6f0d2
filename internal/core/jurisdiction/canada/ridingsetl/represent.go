// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ridingsetl

import (
	"regexp"
	"strconv"
	"strings"
)

// federalSetMarker identifies federal electoral-district boundary sets in a
// Represent boundary-set URL or slug.
const federalSetMarker = "federal-electoral-districts"

// yearPattern extracts the representation-order year from a boundary set slug.
var yearPattern = regexp.MustCompile(`\d{4}`)

// postcodeResponse is the subset of the Represent /postcodes/{code}/ payload we read.
type postcodeResponse struct {
	Code                  string     `json:"code"`
	BoundariesCentroid    []Boundary `json:"boundaries_centroid"`
	BoundariesConcordance []Boundary `json:"boundaries_concordance"`
}

// Boundary is one boundary a postal code falls into.
type Boundary struct {
	ExternalID      string `json:"external_id"`
	Name            string `json:"name"`
	BoundarySetName string `json:"boundary_set_name"`
	Related         struct {
		BoundarySetURL string `json:"boundary_set_url"`
	} `json:"related"`
}

// SetSlug returns the boundary set slug ("federal-electoral-districts-2023-representation-order").
func (b Boundary) SetSlug() string {
	path := strings.Trim(b.Related.BoundarySetURL, "/")
	if index := strings.LastIndex(path, "/"); index >= 0 {
		path = path[index+1:]
	}
	return path
}

// Federal reports whether the boundary is a federal electoral district.
func (b Boundary) Federal() bool {
	return strings.Contains(b.SetSlug(), federalSetMarker) ||
		strings.EqualFold(b.BoundarySetName, "Federal electoral district")
}

// Year returns the representation-order year of the boundary set, or 0.
func (b Boundary) Year() int {
	best := 0
	for _, match := range yearPattern.FindAllString(b.SetSlug(), -1) {
		if year, err := strconv.Atoi(match); err == nil && year > best {
			best = year
		}
	}
	return best
}

// PickFederal returns the federal boundary of the most recent representation
// order. On equal years the first one listed wins.
func PickFederal(boundaries []Boundary) (Boundary, bool) {
	var (
		best  Boundary
		found bool
	)

	for _, boundary := range boundaries {
		if !boundary.Federal() || strings.TrimSpace(boundary.ExternalID) == "" {
			continue
		}
		if !found || boundary.Year() > best.Year() {
			best, found = boundary, true
		}
	}

	return best, found
}
