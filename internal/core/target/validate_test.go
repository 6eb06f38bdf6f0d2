// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package target_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lettertool/internal/core/target"
)

func parseTable(t *testing.T, text string) (target.Table, target.Mapping) {
	t.Helper()
	table, err := target.ParseDelimited(text)
	require.NoError(t, err)
	return table, target.AutoMap(table.Headers)
}

/*
TestValidate_EmptyRowSkippedInvalidRowReported verifies that blank rows are
counted but silent while incomplete rows produce exactly one issue.
*/
func TestValidate_EmptyRowSkippedInvalidRowReported(t *testing.T) {
	table, mapping := parseTable(t, "name,email,postal_code\n"+
		"Ada,ada@example.org,10115\n"+
		",,\n"+
		"Bob,bob@example.org,75001\n")

	result := target.Validate(table, mapping)
	assert.Equal(t, 1, result.SkippedRows)
	assert.Empty(t, result.Issues)
	assert.Len(t, result.Targets, 2)
	assert.Equal(t, 3, result.TotalRows)

	table, mapping = parseTable(t, "name,email,postal_code\n"+
		"Ada,ada@example.org,10115\n"+
		"Carl,,10117\n"+
		"Bob,bob@example.org,75001\n")

	result = target.Validate(table, mapping)
	assert.Zero(t, result.SkippedRows)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, 3, result.Issues[0].Row)
	assert.Equal(t, []string{"email: this field is required"}, result.Issues[0].Messages)

	require.Len(t, result.Targets, 2)
	assert.Equal(t, "Ada", result.Targets[0].Name)
	assert.Equal(t, "Bob", result.Targets[1].Name)
	assert.Equal(t, 1, result.Targets[1].Position)
}

/*
TestValidate_RowNumbersWithoutHeader numbers data rows from one.
*/
func TestValidate_RowNumbersWithoutHeader(t *testing.T) {
	table, err := target.ParseDelimited("Ada,ada@example.org,10115\nBob,not-an-email,10117\n")
	require.NoError(t, err)

	mapping := target.Mapping{target.FieldName, target.FieldEmail, target.FieldPostalCode}
	result := target.Validate(table, mapping)

	require.Len(t, result.Issues, 1)
	assert.Equal(t, 2, result.Issues[0].Row)
	assert.Equal(t, "Row 2: email: must be a valid email address", result.Issues[0].String())
}

/*
TestValidateRecord_Rules covers each rule in isolation.
*/
func TestValidateRecord_Rules(t *testing.T) {
	valid := func() target.Record {
		return target.Record{
			target.FieldName:       "Ada",
			target.FieldEmail:      "ada@example.org",
			target.FieldPostalCode: "10115",
		}
	}

	tests := []struct {
		name  string
		field target.Field
		value string
		want  []string
	}{
		{"valid", target.FieldCity, "Berlin", nil},
		{"blank_name", target.FieldName, "   ", []string{"name: this field is required"}},
		{"email_without_tld", target.FieldEmail, "ada@example", []string{"email: must be a valid email address"}},
		{"missing_postal_code", target.FieldPostalCode, "", []string{"postal_code: this field is required"}},
		{"latitude_text", target.FieldLatitude, "north", []string{"latitude: must be a number"}},
		{"latitude_range", target.FieldLatitude, "91", []string{"latitude: must be between -90 and 90"}},
		{"longitude_range", target.FieldLongitude, "-180.5", []string{"longitude: must be between -180 and 180"}},
		{"longitude_edge", target.FieldLongitude, "-180", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := valid()
			record[tt.field] = tt.value
			assert.Equal(t, tt.want, target.ValidateRecord(record))
		})
	}
}

/*
TestTemplateCSV_ImportsCleanly imports the downloadable template as is.
*/
func TestTemplateCSV_ImportsCleanly(t *testing.T) {
	body, err := target.TemplateCSV()
	require.NoError(t, err)

	table, mapping := parseTable(t, string(body))
	require.True(t, table.HasHeader)

	result := target.Validate(table, mapping)
	assert.Empty(t, result.Issues)
	assert.Zero(t, result.SkippedRows)
	require.Len(t, result.Targets, len(table.Rows))

	jane := result.Targets[0]
	assert.Equal(t, "Jane Doe", jane.Name)
	assert.Equal(t, "DE", jane.CountryCode)
	require.NotNil(t, jane.Latitude)
	assert.InDelta(t, 52.5321, *jane.Latitude, 1e-9)
}

/*
TestTemplateXLSX_ImportsCleanly runs the spreadsheet template through the XLSX parser.
*/
func TestTemplateXLSX_ImportsCleanly(t *testing.T) {
	body, err := target.TemplateXLSX()
	require.NoError(t, err)

	table, err := target.ParseAuto("targets-template.xlsx", "", body)
	require.NoError(t, err)
	assert.Equal(t, target.TemplateHeader(), table.Headers)

	result := target.Validate(table, target.AutoMap(table.Headers))
	assert.Empty(t, result.Issues)
	assert.Len(t, result.Targets, 1)
}

/*
TestSummarizeIssues caps the listing.
*/
func TestSummarizeIssues(t *testing.T) {
	issues := make([]target.Issue, 11)
	for i := range issues {
		issues[i] = target.Issue{Row: i + 2, Messages: []string{"email: this field is required"}}
	}

	lines := target.SummarizeIssues(issues, target.DefaultIssueLimit)
	require.Len(t, lines, 9)
	assert.Equal(t, "Row 2: email: this field is required", lines[0])
	assert.Equal(t, fmt.Sprintf("…and %d more", 3), lines[8])

	assert.Len(t, target.SummarizeIssues(issues[:2], target.DefaultIssueLimit), 2)
	assert.Empty(t, target.SummarizeIssues(nil, target.DefaultIssueLimit))
}
