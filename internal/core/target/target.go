// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package target imports, validates and stores campaign target lists.

A target is a custom recipient a campaigner defines instead of using the
built-in representative directory. Lists arrive as CSV/TSV text, JSON, XLSX
uploads or public Google Sheets, are auto-mapped onto the fixed [Fields]
schema, validated row by row, optionally edited in a [Grid] and finally
replace the campaign's stored list in one transaction.
*/
package target

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// # Schema

// Field is a column of the fixed target schema.
type Field string

const (
	FieldName        Field = "name"
	FieldEmail       Field = "email"
	FieldPostalCode  Field = "postal_code"
	FieldCity        Field = "city"
	FieldRegion      Field = "region"
	FieldCountryCode Field = "country_code"
	FieldCategory    Field = "category"
	FieldImageURL    Field = "image_url"
	FieldLatitude    Field = "latitude"
	FieldLongitude   Field = "longitude"
)

// Fields lists the schema in template column order.
var Fields = []Field{
	FieldName,
	FieldEmail,
	FieldPostalCode,
	FieldCity,
	FieldRegion,
	FieldCountryCode,
	FieldCategory,
	FieldImageURL,
	FieldLatitude,
	FieldLongitude,
}

// ParseField accepts a schema field name.
func ParseField(name string) (Field, bool) {
	candidate := Field(strings.TrimSpace(name))
	for _, field := range Fields {
		if field == candidate {
			return field, true
		}
	}
	return "", false
}

// Required reports whether a row is invalid without this field.
func (f Field) Required() bool {
	return f == FieldName || f == FieldEmail || f == FieldPostalCode
}

// # Entities

// Target is a validated recipient of a campaign.
type Target struct {
	ID          string    `json:"id,omitempty"`
	CampaignID  string    `json:"campaign_id,omitempty"`
	Position    int       `json:"position"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PostalCode  string    `json:"postal_code"`
	City        string    `json:"city,omitempty"`
	Region      string    `json:"region,omitempty"`
	CountryCode string    `json:"country_code,omitempty"`
	Category    string    `json:"category,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}

// Record holds the raw cell values of one row keyed by schema field.
type Record map[Field]string

// Get returns the trimmed value of field.
func (r Record) Get(field Field) string {
	return strings.TrimSpace(r[field])
}

// Empty reports whether every value is blank.
func (r Record) Empty() bool {
	for _, value := range r {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

// Record converts a target back into raw cells, e.g. to seed an edit grid.
func (t Target) Record() Record {
	record := Record{
		FieldName:        t.Name,
		FieldEmail:       t.Email,
		FieldPostalCode:  t.PostalCode,
		FieldCity:        t.City,
		FieldRegion:      t.Region,
		FieldCountryCode: t.CountryCode,
		FieldCategory:    t.Category,
		FieldImageURL:    t.ImageURL,
		FieldLatitude:    "",
		FieldLongitude:   "",
	}
	if t.Latitude != nil {
		record[FieldLatitude] = formatCoordinate(*t.Latitude)
	}
	if t.Longitude != nil {
		record[FieldLongitude] = formatCoordinate(*t.Longitude)
	}
	return record
}

func formatCoordinate(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// # Tabular input

// Table is parsed tabular input before mapping.
type Table struct {
	// Headers has one label per column: the header row cells, or "Column N".
	Headers []string `json:"headers"`

	// Rows holds the data rows, each padded to len(Headers).
	Rows [][]string `json:"rows"`

	// HasHeader is true when the first source line was consumed as a header row.
	HasHeader bool `json:"has_header"`
}

// Width returns the number of columns.
func (t Table) Width() int {
	return len(t.Headers)
}

// # Validation output

// Issue lists the problems of one rejected row.
type Issue struct {
	// Row is the spreadsheet line number of the row (1-based, header included).
	Row      int      `json:"row"`
	RowID    string   `json:"row_id,omitempty"`
	Messages []string `json:"messages"`
}

// String renders the issue as one line.
func (i Issue) String() string {
	return fmt.Sprintf("Row %d: %s", i.Row, strings.Join(i.Messages, "; "))
}

// Result is the outcome of validating a table or grid.
type Result struct {
	Targets     []Target `json:"targets"`
	Issues      []Issue  `json:"issues"`
	SkippedRows int      `json:"skipped_rows"`
	TotalRows   int      `json:"total_rows"`
}

// Valid reports whether every non-empty row produced a target.
func (r Result) Valid() bool {
	return len(r.Issues) == 0
}
