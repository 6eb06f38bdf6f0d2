// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package target

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/taibuivan/lettertool/internal/platform/apperr"
	"github.com/taibuivan/lettertool/internal/platform/validate"
)

// candidateDelimiters are tried in order; the first wins a tie.
var candidateDelimiters = []rune{',', ';', '\t', '|'}

// byteOrderMark is stripped from the start of uploaded text.
const byteOrderMark = "\ufeff"

// delimiterSampleLines is how many non-empty lines the delimiter sniffer reads.
const delimiterSampleLines = 5

// Format identifies a supported input format.
type Format string

const (
	FormatDelimited Format = "delimited"
	FormatJSON      Format = "json"
	FormatXLSX      Format = "xlsx"
)

// # Delimited text

/*
ParseDelimited parses pasted or uploaded CSV/TSV text.

Description: The delimiter is sniffed from the first lines (see
[DetectDelimiter]). Quoted fields follow RFC 4180 with lenient quote
handling and rows may have different lengths. Whether the first row is a
header is decided by [looksLikeHeader].

Returns:
  - Table: Parsed table
  - error: apperr.Unprocessable with a single readable message
*/
func ParseDelimited(text string) (Table, error) {
	text = strings.TrimPrefix(text, byteOrderMark)
	if strings.TrimSpace(text) == "" {
		return Table{}, apperr.Unprocessable("The data is empty")
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = DetectDelimiter(text)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return Table{}, apperr.Unprocessable(fmt.Sprintf("Could not read line %d: %v", parseErr.StartLine, parseErr.Err))
		}
		return Table{}, apperr.Unprocessable("Could not read the data")
	}

	return buildTable(rows), nil
}

// DetectDelimiter sniffs the delimiter of text.
//
// Every candidate is counted outside quotes on each of the first five
// non-empty lines. A candidate is consistent when it appears the same,
// non-zero number of times on every sampled line; the consistent candidate
// with the highest count wins. Without a consistent candidate the highest
// count on the first line wins. Comma wins ties and empty input.
func DetectDelimiter(text string) rune {
	lines := sampleLines(text, delimiterSampleLines)
	if len(lines) == 0 {
		return ','
	}

	best, bestCount := ',', 0
	for _, candidate := range candidateDelimiters {
		count, consistent := countConsistent(lines, candidate)
		if consistent && count > bestCount {
			best, bestCount = candidate, count
		}
	}
	if bestCount > 0 {
		return best
	}

	for _, candidate := range candidateDelimiters {
		if count := countUnquoted(lines[0], candidate); count > bestCount {
			best, bestCount = candidate, count
		}
	}
	return best
}

func sampleLines(text string, limit int) []string {
	lines := make([]string, 0, limit)
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == limit {
			break
		}
	}
	return lines
}

func countConsistent(lines []string, delimiter rune) (int, bool) {
	first := countUnquoted(lines[0], delimiter)
	if first == 0 {
		return 0, false
	}
	for _, line := range lines[1:] {
		if countUnquoted(line, delimiter) != first {
			return first, false
		}
	}
	return first, true
}

func countUnquoted(line string, delimiter rune) int {
	count, quoted := 0, false
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case r == delimiter && !quoted:
			count++
		}
	}
	return count
}

// # JSON

/*
ParseJSON parses an array of flat objects.

Description: Headers are the union of all keys in first-seen order. Numbers
and booleans are stringified, null becomes an empty cell. Nested objects or
arrays are rejected.
*/
func ParseJSON(data []byte) (Table, error) {
	decoder := json.NewDecoder(bytes.NewReader(bytes.TrimPrefix(data, []byte(byteOrderMark))))
	decoder.UseNumber()

	if err := expectDelim(decoder, '['); err != nil {
		return Table{}, apperr.Unprocessable("JSON input must be an array of objects")
	}

	var (
		headers []string
		index   = map[string]int{}
		records []map[string]string
	)

	for decoder.More() {
		record, keys, err := decodeFlatObject(decoder, len(records)+1)
		if err != nil {
			return Table{}, err
		}
		for _, key := range keys {
			if _, seen := index[key]; !seen {
				index[key] = len(headers)
				headers = append(headers, key)
			}
		}
		records = append(records, record)
	}

	if err := expectDelim(decoder, ']'); err != nil {
		return Table{}, apperr.Unprocessable("JSON input is malformed")
	}
	if len(records) == 0 {
		return Table{}, apperr.Unprocessable("The data is empty")
	}

	rows := make([][]string, len(records))
	for i, record := range records {
		row := make([]string, len(headers))
		for key, value := range record {
			row[index[key]] = value
		}
		rows[i] = row
	}

	return Table{Headers: headers, Rows: rows}, nil
}

func decodeFlatObject(decoder *json.Decoder, number int) (map[string]string, []string, error) {
	if err := expectDelim(decoder, '{'); err != nil {
		return nil, nil, apperr.Unprocessable(fmt.Sprintf("Record %d is not an object", number))
	}

	record := map[string]string{}
	var keys []string

	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return nil, nil, apperr.Unprocessable("JSON input is malformed")
		}
		key, _ := token.(string)

		var value any
		if err := decoder.Decode(&value); err != nil {
			return nil, nil, apperr.Unprocessable("JSON input is malformed")
		}

		cell, err := stringify(value)
		if err != nil {
			return nil, nil, apperr.Unprocessable(fmt.Sprintf("Record %d, key %q: nested values are not supported", number, key))
		}

		if _, seen := record[key]; !seen {
			keys = append(keys, key)
		}
		record[key] = cell
	}

	if err := expectDelim(decoder, '}'); err != nil {
		return nil, nil, apperr.Unprocessable("JSON input is malformed")
	}
	return record, keys, nil
}

func stringify(value any) (string, error) {
	switch typed := value.(type) {
	case nil:
		return "", nil
	case string:
		return typed, nil
	case json.Number:
		return typed.String(), nil
	case bool:
		return strconv.FormatBool(typed), nil
	default:
		return "", errors.New("nested value")
	}
}

func expectDelim(decoder *json.Decoder, want json.Delim) error {
	token, err := decoder.Token()
	if err != nil {
		return err
	}
	if delim, ok := token.(json.Delim); !ok || delim != want {
		return fmt.Errorf("expected %q", want)
	}
	return nil
}

// # XLSX

// ParseXLSX reads the first worksheet of an .xlsx workbook.
func ParseXLSX(reader io.Reader) (Table, error) {
	workbook, err := excelize.OpenReader(reader)
	if err != nil {
		return Table{}, apperr.Unprocessable("Could not open the spreadsheet")
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, apperr.Unprocessable("The spreadsheet has no sheets")
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return Table{}, apperr.Unprocessable("Could not read the first sheet")
	}
	if len(rows) == 0 {
		return Table{}, apperr.Unprocessable("The data is empty")
	}

	return buildTable(rows), nil
}

// # Dispatch

// DetectFormat picks a parser from the file name, the content type and
// finally the first non-blank byte.
func DetectFormat(filename, contentType string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return FormatXLSX
	case ".json":
		return FormatJSON
	case ".csv", ".tsv", ".txt":
		return FormatDelimited
	}

	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mediaType {
		case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
			return FormatXLSX
		case "application/json":
			return FormatJSON
		}
	}

	// XLSX files are zip archives.
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		return FormatXLSX
	}
	if trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, []byte(byteOrderMark))); len(trimmed) > 0 && trimmed[0] == '[' {
		return FormatJSON
	}
	return FormatDelimited
}

// ParseAuto parses data in whatever format [DetectFormat] reports.
func ParseAuto(filename, contentType string, data []byte) (Table, error) {
	switch DetectFormat(filename, contentType, data) {
	case FormatXLSX:
		return ParseXLSX(bytes.NewReader(data))
	case FormatJSON:
		return ParseJSON(data)
	default:
		return ParseDelimited(string(data))
	}
}

// # Header detection

// buildTable splits off a header row when there is one and pads every row
// to the widest row.
func buildTable(rows [][]string) Table {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	table := Table{Rows: make([][]string, 0, len(rows))}

	if len(rows) > 0 && looksLikeHeader(rows[0]) {
		table.HasHeader = true
		table.Headers = make([]string, width)
		for i := range width {
			if i < len(rows[0]) && strings.TrimSpace(rows[0][i]) != "" {
				table.Headers[i] = strings.TrimSpace(rows[0][i])
			} else {
				table.Headers[i] = columnLabel(i)
			}
		}
		rows = rows[1:]
	} else {
		table.Headers = make([]string, width)
		for i := range width {
			table.Headers[i] = columnLabel(i)
		}
	}

	for _, row := range rows {
		padded := make([]string, width)
		copy(padded, row)
		table.Rows = append(table.Rows, padded)
	}
	return table
}

// looksLikeHeader treats a row as a header when at least one cell is a known
// field label and no cell looks like an email address.
func looksLikeHeader(row []string) bool {
	mapped := false
	for _, cell := range row {
		if validate.LooksLikeEmail(cell) {
			return false
		}
		if _, found := headerField(cell); found {
			mapped = true
		}
	}
	return mapped
}

func columnLabel(index int) string {
	return "Column " + strconv.Itoa(index+1)
}
