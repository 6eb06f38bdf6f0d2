// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package jurisdiction

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DirectoryConfig describes the inputs of [NewDirectory].
type DirectoryConfig struct {
	// Districts is the full district table of the country.
	Districts []District

	// Representatives is the raw representative dataset.
	Representatives []Representative

	// Policy filters representatives at build time. Nil admits everyone.
	Policy Policy

	// DistrictKey canonicalises district ids ("75" → "075"). Nil keeps ids as given.
	DistrictKey func(string) string

	// Language drives the collation order of representative names.
	Language language.Tag
}

// Directory is the immutable representative index of one country.
//
// It is built once and then only read, so concurrent readers need no locking.
// Every accessor returns a fresh slice that callers may modify.
type Directory struct {
	key func(string) string

	districts  []District
	districtAt map[string]int

	byDistrict map[string][]Representative
	byRegion   map[string][]Representative
	byID       map[string]Representative
	all        []Representative
}

/*
NewDirectory builds the representative index.

Description: Representatives are admitted in dataset order. A representative
is dropped when its district is empty or unknown, when the policy rejects it,
or when its id was already admitted. Admitted representatives inherit the
region of their district when they carry none. Every group is sorted once by
name using the collation rules of cfg.Language.

Parameters:
  - cfg: DirectoryConfig

Returns:
  - *Directory: Ready-to-query index
*/
func NewDirectory(cfg DirectoryConfig) *Directory {
	key := cfg.DistrictKey
	if key == nil {
		key = strings.TrimSpace
	}

	policy := cfg.Policy
	if policy == nil {
		policy = AllowAll
	}

	directory := &Directory{
		key:        key,
		districtAt: make(map[string]int, len(cfg.Districts)),
		byDistrict: make(map[string][]Representative),
		byRegion:   make(map[string][]Representative),
		byID:       make(map[string]Representative, len(cfg.Representatives)),
	}

	// 1. District table, canonical ids, first definition wins
	for _, district := range cfg.Districts {
		district.ID = key(district.ID)
		if district.ID == "" {
			continue
		}
		if _, exists := directory.districtAt[district.ID]; exists {
			continue
		}
		district.PostalCodes = slices.Clone(district.PostalCodes)
		directory.districtAt[district.ID] = len(directory.districts)
		directory.districts = append(directory.districts, district)
	}

	// 2. Admission
	for _, representative := range cfg.Representatives {
		representative.DistrictID = key(representative.DistrictID)

		index, known := directory.districtAt[representative.DistrictID]
		if representative.DistrictID == "" || !known {
			continue
		}
		if !policy(representative) {
			continue
		}
		if _, duplicate := directory.byID[representative.ID]; duplicate || representative.ID == "" {
			continue
		}

		if representative.Region == "" {
			representative.Region = directory.districts[index].Region
		}

		directory.byID[representative.ID] = representative
		directory.all = append(directory.all, representative)
		directory.byDistrict[representative.DistrictID] = append(directory.byDistrict[representative.DistrictID], representative)

		region := regionKey(representative.Region)
		directory.byRegion[region] = append(directory.byRegion[region], representative)
	}

	// 3. Ordering
	collator := collate.New(cfg.Language, collate.Loose)
	byName := func(a, b Representative) int {
		if order := collator.CompareString(a.Name, b.Name); order != 0 {
			return order
		}
		return cmp.Compare(a.ID, b.ID)
	}

	slices.SortStableFunc(directory.all, byName)
	for _, group := range directory.byDistrict {
		slices.SortStableFunc(group, byName)
	}
	for _, group := range directory.byRegion {
		slices.SortStableFunc(group, byName)
	}

	slices.SortStableFunc(directory.districts, func(a, b District) int {
		return compareDistrictIDs(a.ID, b.ID)
	})
	for i, district := range directory.districts {
		directory.districtAt[district.ID] = i
	}

	return directory
}

// # Queries

// FindByDistrict returns the name-sorted representatives of a district.
// The id is canonicalised first, so "75" finds district "075". Never nil.
func (d *Directory) FindByDistrict(id string) []Representative {
	return clone(d.byDistrict[d.key(id)])
}

// FindByRegion returns every representative of a region (Land, département,
// province), name-sorted. Region codes compare case-insensitively. Never nil.
func (d *Directory) FindByRegion(region string) []Representative {
	return clone(d.byRegion[regionKey(region)])
}

// FindByID returns a single representative.
func (d *Directory) FindByID(id string) (Representative, bool) {
	representative, found := d.byID[strings.TrimSpace(id)]
	return representative, found
}

// All returns every admitted representative, name-sorted.
func (d *Directory) All() []Representative {
	return clone(d.all)
}

// Len returns the number of admitted representatives.
func (d *Directory) Len() int {
	return len(d.all)
}

// District returns the district with the given (canonicalised) id.
func (d *Directory) District(id string) (District, bool) {
	index, found := d.districtAt[d.key(id)]
	if !found {
		return District{}, false
	}
	return cloneDistrict(d.districts[index]), true
}

// Districts returns every district ordered by id.
func (d *Directory) Districts() []District {
	districts := make([]District, len(d.districts))
	for i, district := range d.districts {
		districts[i] = cloneDistrict(district)
	}
	return districts
}

// DistrictsInRegion returns the districts of one region ordered by id.
func (d *Directory) DistrictsInRegion(region string) []District {
	key := regionKey(region)

	districts := []District{}
	for _, district := range d.districts {
		if regionKey(district.Region) == key {
			districts = append(districts, cloneDistrict(district))
		}
	}
	return districts
}

// CanonicalDistrictID applies the directory's district key to id.
func (d *Directory) CanonicalDistrictID(id string) string {
	return d.key(id)
}

// # Helpers

func clone(group []Representative) []Representative {
	if group == nil {
		return []Representative{}
	}
	return slices.Clone(group)
}

func cloneDistrict(district District) District {
	district.PostalCodes = slices.Clone(district.PostalCodes)
	return district
}

func regionKey(region string) string {
	return strings.ToUpper(strings.TrimSpace(region))
}

// compareDistrictIDs orders "75-02" before "75-10" and "2A-01" after "19-03"
// by comparing equal-length ids lexically and shorter ids first.
func compareDistrictIDs(a, b string) int {
	if len(a) != len(b) {
		return cmp.Compare(len(a), len(b))
	}
	return cmp.Compare(a, b)
}
