// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package target

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// templateSheet is the sheet name of the XLSX template.
const templateSheet = "Targets"

// exampleTarget is the sample row shipped in both templates. It passes validation.
var exampleTarget = Record{
	FieldName:        "Jane Doe",
	FieldEmail:       "jane.doe@example.org",
	FieldPostalCode:  "10115",
	FieldCity:        "Berlin",
	FieldRegion:      "Berlin",
	FieldCountryCode: "DE",
	FieldCategory:    "City council",
	FieldImageURL:    "",
	FieldLatitude:    "52.5321",
	FieldLongitude:   "13.3849",
}

// TemplateHeader returns the template column names in schema order.
func TemplateHeader() []string {
	header := make([]string, len(Fields))
	for i, field := range Fields {
		header[i] = string(field)
	}
	return header
}

func exampleRow() []string {
	row := make([]string, len(Fields))
	for i, field := range Fields {
		row[i] = exampleTarget[field]
	}
	return row
}

// TemplateCSV renders the downloadable CSV template.
func TemplateCSV() ([]byte, error) {
	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)

	if err := writer.WriteAll([][]string{TemplateHeader(), exampleRow()}); err != nil {
		return nil, fmt.Errorf("target_template_csv: %w", err)
	}
	return buffer.Bytes(), nil
}

// TemplateXLSX renders the downloadable spreadsheet template.
func TemplateXLSX() ([]byte, error) {
	workbook := excelize.NewFile()
	defer func() { _ = workbook.Close() }()

	if err := workbook.SetSheetName(workbook.GetSheetName(0), templateSheet); err != nil {
		return nil, fmt.Errorf("target_template_xlsx: %w", err)
	}

	for rowIndex, row := range [][]string{TemplateHeader(), exampleRow()} {
		cell, err := excelize.CoordinatesToCellName(1, rowIndex+1)
		if err != nil {
			return nil, fmt.Errorf("target_template_xlsx: %w", err)
		}
		if err := workbook.SetSheetRow(templateSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("target_template_xlsx: %w", err)
		}
	}

	buffer, err := workbook.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("target_template_xlsx: %w", err)
	}
	return buffer.Bytes(), nil
}
