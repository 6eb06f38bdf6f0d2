// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package target

import (
	"strings"

	"github.com/taibuivan/lettertool/pkg/slug"
)

// aliases maps folded header keys (see [slug.Key]) to schema fields. English,
// German and French spellings are covered.
var aliases = map[Field][]string{
	FieldName: {
		"name", "fullname", "recipient", "recipientname", "contactname",
		"vollername", "empfanger", "nom", "nomcomplet", "prenomnom", "destinataire",
	},
	FieldEmail: {
		"email", "emailaddress", "mail", "emailadresse", "mailadresse",
		"courriel", "adresseemail", "adressemail", "adressecourriel",
	},
	FieldPostalCode: {
		"postalcode", "postcode", "zip", "zipcode", "postleitzahl", "plz",
		"codepostal", "cp",
	},
	FieldCity: {
		"city", "town", "stadt", "ort", "gemeinde", "wohnort", "ville", "commune",
	},
	FieldRegion: {
		"region", "state", "province", "county", "bundesland", "land",
		"departement", "department",
	},
	FieldCountryCode: {
		"countrycode", "country", "iso", "staat", "landercode", "pays", "codepays",
	},
	FieldCategory: {
		"category", "type", "group", "segment", "kategorie", "gruppe", "categorie", "groupe",
	},
	FieldImageURL: {
		"imageurl", "image", "photo", "photourl", "picture", "avatar", "bild", "bildurl", "foto",
	},
	FieldLatitude: {
		"latitude", "lat", "breitengrad",
	},
	FieldLongitude: {
		"longitude", "lon", "lng", "long", "langengrad",
	},
}

// exactAlias indexes every alias for the first matching pass.
var exactAlias = func() map[string]Field {
	index := make(map[string]Field)
	for _, field := range Fields {
		for _, alias := range aliases[field] {
			index[alias] = field
		}
	}
	return index
}()

// minContainedAlias is the shortest alias tried as a substring in the
// second matching pass; "cp" or "lat" would match too much.
const minContainedAlias = 4

// Mapping assigns a schema field to each column by index. An empty Field
// leaves the column unmapped. No field is held by two columns.
type Mapping []Field

// NewMapping returns an all-unmapped mapping for width columns.
func NewMapping(width int) Mapping {
	return make(Mapping, width)
}

// AutoMap guesses a mapping from header labels.
//
// The first pass matches folded headers exactly against the alias table; the
// second lets still-unmapped headers claim a still-free field when the header
// contains one of its aliases ("Email address (work)"). Within each
// pass the leftmost column claims a field first.
func AutoMap(headers []string) Mapping {
	mapping := NewMapping(len(headers))
	claimed := make(map[Field]bool, len(Fields))

	keys := make([]string, len(headers))
	for i, header := range headers {
		keys[i] = slug.Key(header)
	}

	for i, key := range keys {
		if field, found := exactAlias[key]; found && !claimed[field] {
			mapping[i] = field
			claimed[field] = true
		}
	}

	for i, key := range keys {
		if mapping[i] != "" || key == "" {
			continue
		}
		if field := containedField(key, claimed); field != "" {
			mapping[i] = field
			claimed[field] = true
		}
	}

	return mapping
}

// containedField picks the free field with the longest alias contained in
// key. Ties go to the field listed first in [Fields].
func containedField(key string, claimed map[Field]bool) Field {
	var (
		best    Field
		longest int
	)
	for _, field := range Fields {
		if claimed[field] {
			continue
		}
		for _, alias := range aliases[field] {
			if len(alias) >= minContainedAlias && len(alias) > longest && strings.Contains(key, alias) {
				best, longest = field, len(alias)
			}
		}
	}
	return best
}

// headerField reports the field a header label maps to on its own.
func headerField(header string) (Field, bool) {
	field, found := exactAlias[slug.Key(header)]
	return field, found
}

// Assign maps column to field and clears any other column holding field.
// Out-of-range columns are ignored.
func (m Mapping) Assign(column int, field Field) {
	if column < 0 || column >= len(m) {
		return
	}
	for i := range m {
		if i != column && m[i] == field {
			m[i] = ""
		}
	}
	m[column] = field
}

// Clear unmaps column.
func (m Mapping) Clear(column int) {
	if column >= 0 && column < len(m) {
		m[column] = ""
	}
}

// Column returns the column holding field.
func (m Mapping) Column(field Field) (int, bool) {
	for i, candidate := range m {
		if candidate == field {
			return i, true
		}
	}
	return 0, false
}

// Normalize returns a copy resized to width in which unknown fields are
// unmapped and duplicate claims are dropped in favour of the leftmost column.
// Client-supplied mappings pass through here.
func (m Mapping) Normalize(width int) Mapping {
	normalized := NewMapping(width)
	claimed := make(map[Field]bool, len(Fields))

	for i := 0; i < width && i < len(m); i++ {
		field, ok := ParseField(string(m[i]))
		if !ok || claimed[field] {
			continue
		}
		normalized[i] = field
		claimed[field] = true
	}
	return normalized
}

// Record picks the mapped cells of row.
func (m Mapping) Record(row []string) Record {
	record := make(Record, len(Fields))
	for i, field := range m {
		if field == "" || i >= len(row) {
			continue
		}
		record[field] = row[i]
	}
	return record
}
