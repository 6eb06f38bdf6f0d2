// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package target

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taibuivan/lettertool/internal/platform/validate"
	"github.com/taibuivan/lettertool/pkg/pointer"
)

// DefaultIssueLimit is how many issues [SummarizeIssues] lists before
// collapsing the rest.
const DefaultIssueLimit = 8

const (
	maxNameLength  = 200
	maxEmailLength = 320
	maxTextLength  = 500
)

// candidate is one row queued for validation.
type candidate struct {
	number int
	id     string
	record Record
	empty  bool
}

/*
Validate checks every row of table under mapping.

Description: A row whose cells are all blank is counted in SkippedRows and
produces no issue. Any other row must carry a name, an email of the shape
local@domain.tld and a postal code; latitude and longitude, when present,
must be numbers in range. A failing row yields one [Issue] and no target.

Row numbers are spreadsheet line numbers: the first data row is 1, or 2 when
the table has a header row.
*/
func Validate(table Table, mapping Mapping) Result {
	mapping = mapping.Normalize(table.Width())

	offset := 1
	if table.HasHeader {
		offset = 2
	}

	candidates := make([]candidate, len(table.Rows))
	for i, row := range table.Rows {
		candidates[i] = candidate{
			number: i + offset,
			record: mapping.Record(row),
			empty:  blankRow(row),
		}
	}
	return evaluate(candidates)
}

func evaluate(candidates []candidate) Result {
	result := Result{
		Targets:   []Target{},
		Issues:    []Issue{},
		TotalRows: len(candidates),
	}

	for _, row := range candidates {
		if row.empty {
			result.SkippedRows++
			continue
		}

		if messages := ValidateRecord(row.record); len(messages) > 0 {
			result.Issues = append(result.Issues, Issue{Row: row.number, RowID: row.id, Messages: messages})
			continue
		}

		target := recordToTarget(row.record)
		target.ID = row.id
		target.Position = len(result.Targets)
		result.Targets = append(result.Targets, target)
	}

	return result
}

// ValidateRecord returns the readable problems of one record, or nil.
func ValidateRecord(record Record) []string {
	validator := &validate.Validator{}

	validator.
		Required(string(FieldName), record.Get(FieldName)).
		MaxLen(string(FieldName), record.Get(FieldName), maxNameLength)

	validator.
		Required(string(FieldEmail), record.Get(FieldEmail)).
		LooseEmail(string(FieldEmail), record.Get(FieldEmail)).
		MaxLen(string(FieldEmail), record.Get(FieldEmail), maxEmailLength)

	validator.Required(string(FieldPostalCode), record.Get(FieldPostalCode))

	for _, field := range []Field{FieldCity, FieldRegion, FieldCountryCode, FieldCategory, FieldImageURL} {
		validator.MaxLen(string(field), record.Get(field), maxTextLength)
	}

	validator.
		FloatRange(string(FieldLatitude), record.Get(FieldLatitude), -90, 90).
		FloatRange(string(FieldLongitude), record.Get(FieldLongitude), -180, 180)

	if !validator.HasErrors() {
		return nil
	}

	messages := make([]string, 0, len(validator.Errors()))
	for _, failure := range validator.Errors() {
		messages = append(messages, fmt.Sprintf("%s: %s", failure.Field, strings.ToLower(failure.Message)))
	}
	return messages
}

// recordToTarget builds a target from an already validated record.
func recordToTarget(record Record) Target {
	return Target{
		Name:        record.Get(FieldName),
		Email:       record.Get(FieldEmail),
		PostalCode:  record.Get(FieldPostalCode),
		City:        record.Get(FieldCity),
		Region:      record.Get(FieldRegion),
		CountryCode: strings.ToUpper(record.Get(FieldCountryCode)),
		Category:    record.Get(FieldCategory),
		ImageURL:    record.Get(FieldImageURL),
		Latitude:    parseCoordinate(record.Get(FieldLatitude)),
		Longitude:   parseCoordinate(record.Get(FieldLongitude)),
	}
}

func parseCoordinate(value string) *float64 {
	if value == "" {
		return nil
	}
	number, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return pointer.To(number)
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// SummarizeIssues renders at most limit issues, one per line, followed by
// "…and N more" when issues were left out.
func SummarizeIssues(issues []Issue, limit int) []string {
	if limit < 0 {
		limit = 0
	}

	shown := min(len(issues), limit)
	lines := make([]string, 0, shown+1)
	for _, issue := range issues[:shown] {
		lines = append(lines, issue.String())
	}

	if rest := len(issues) - shown; rest > 0 {
		lines = append(lines, fmt.Sprintf("…and %d more", rest))
	}
	return lines
}
