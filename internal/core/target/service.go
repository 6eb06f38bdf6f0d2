// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package target

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/taibuivan/lettertool/internal/platform/apperr"
	"github.com/taibuivan/lettertool/internal/platform/validate"
	"github.com/taibuivan/lettertool/pkg/pagination"
)

// SheetFetcher downloads a shared spreadsheet as CSV text.
type SheetFetcher interface {
	FetchCSV(context context.Context, sheetURL string) (string, error)
}

// Source is one import request. Exactly one of Text, SheetURL, Records or
// File must be set.
type Source struct {
	Text     string
	SheetURL string
	Records  json.RawMessage

	File        []byte
	Filename    string
	ContentType string

	// Mapping overrides auto-mapping when non-nil.
	Mapping Mapping
}

func (s Source) count() int {
	count := 0
	for _, set := range []bool{
		strings.TrimSpace(s.Text) != "",
		strings.TrimSpace(s.SheetURL) != "",
		len(bytes.TrimSpace(s.Records)) > 0,
		len(s.File) > 0,
	} {
		if set {
			count++
		}
	}
	return count
}

// Preview is a parsed table together with its mapping and validation outcome.
type Preview struct {
	Table   Table    `json:"table"`
	Mapping Mapping  `json:"mapping"`
	Result  Result   `json:"result"`
	Summary []string `json:"summary"`
}

// # Service Layer

// Service orchestrates target list imports.
type Service struct {
	repo   Repository
	sheets SheetFetcher
	logger *slog.Logger
}

// NewService constructs a new target [Service].
func NewService(repo Repository, sheets SheetFetcher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		sheets: sheets,
		logger: logger,
	}
}

/*
Preview parses an import source and validates it.

Description: Nothing is stored. The caller reviews the table, adjusts the
mapping with [Service.Remap] and finally saves the rows.

Parameters:
  - context: context.Context
  - source: Source

Returns:
  - *Preview: Parsed table, mapping, validation result and issue summary
  - error: VALIDATION_ERROR without exactly one input, UNPROCESSABLE for
    unreadable input
*/
func (service *Service) Preview(context context.Context, source Source) (*Preview, error) {
	if source.count() != 1 {
		return nil, apperr.ValidationError("Provide exactly one of text, sheet_url, records or file")
	}

	table, err := service.parse(context, source)
	if err != nil {
		return nil, err
	}

	mapping := source.Mapping
	if mapping == nil {
		mapping = AutoMap(table.Headers)
	}

	preview := service.Remap(table, mapping)

	service.logger.DebugContext(context, "target_preview_built",
		slog.Int("rows", preview.Result.TotalRows),
		slog.Int("valid", len(preview.Result.Targets)),
		slog.Int("issues", len(preview.Result.Issues)),
	)

	return preview, nil
}

func (service *Service) parse(context context.Context, source Source) (Table, error) {
	switch {
	case len(source.File) > 0:
		return ParseAuto(source.Filename, source.ContentType, source.File)
	case len(bytes.TrimSpace(source.Records)) > 0:
		return ParseJSON(source.Records)
	case strings.TrimSpace(source.SheetURL) != "":
		text, err := service.sheets.FetchCSV(context, source.SheetURL)
		if err != nil {
			return Table{}, err
		}
		return ParseDelimited(text)
	default:
		return ParseDelimited(source.Text)
	}
}

// Remap validates table again under a caller-edited mapping.
func (service *Service) Remap(table Table, mapping Mapping) *Preview {
	mapping = mapping.Normalize(table.Width())
	result := Validate(table, mapping)

	return &Preview{
		Table:   table,
		Mapping: mapping,
		Result:  result,
		Summary: SummarizeIssues(result.Issues, DefaultIssueLimit),
	}
}

// ValidateGrid checks edited rows with the import rules.
func (service *Service) ValidateGrid(rows []GridRow) Result {
	return GridFromRows(rows).Validate()
}

/*
Save replaces a campaign's target list with the valid rows of an edit grid.

Description: Invalid rows are reported and left out. An empty grid clears
the list. A grid in which every non-empty row is invalid is rejected so a
typo cannot wipe a working list.

Parameters:
  - context: context.Context
  - campaignID: string (UUID)
  - rows: []GridRow

Returns:
  - Result: The validation outcome; Targets is what was stored
  - error: VALIDATION_ERROR, or a storage error (nothing stored)
*/
func (service *Service) Save(context context.Context, campaignID string, rows []GridRow) (Result, error) {
	if err := validateCampaignID(campaignID); err != nil {
		return Result{}, err
	}

	result := GridFromRows(rows).Validate()
	if len(result.Targets) == 0 && len(result.Issues) > 0 {
		return result, apperr.ValidationError("No valid rows to save", issueDetails(result.Issues)...)
	}

	if err := service.repo.Replace(context, campaignID, result.Targets); err != nil {
		return Result{}, err
	}

	service.logger.InfoContext(context, "targets_replaced",
		slog.String("campaign_id", campaignID),
		slog.Int("saved", len(result.Targets)),
		slog.Int("rejected", len(result.Issues)),
	)

	return result, nil
}

/*
List returns one page of a campaign's stored targets.

Returns:
  - []Target: Targets in list order
  - int: Total count
  - error: VALIDATION_ERROR for a malformed campaign ID
*/
func (service *Service) List(context context.Context, campaignID string, params pagination.Params) ([]Target, int, error) {
	if err := validateCampaignID(campaignID); err != nil {
		return nil, 0, err
	}

	targets, err := service.repo.List(context, campaignID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, err
	}

	total, err := service.repo.Count(context, campaignID)
	if err != nil {
		return nil, 0, err
	}

	return targets, total, nil
}

func validateCampaignID(campaignID string) error {
	validator := &validate.Validator{}
	return validator.UUID("campaign_id", campaignID).Err()
}

// TemplateCSV returns the CSV template.
func (service *Service) TemplateCSV() ([]byte, error) {
	return TemplateCSV()
}

// TemplateXLSX returns the spreadsheet template.
func (service *Service) TemplateXLSX() ([]byte, error) {
	return TemplateXLSX()
}

func issueDetails(issues []Issue) []apperr.FieldError {
	shown := issues[:min(len(issues), DefaultIssueLimit)]
	details := make([]apperr.FieldError, 0, len(shown))
	for _, issue := range shown {
		details = append(details, apperr.FieldError{
			Field:   "row_" + strconv.Itoa(issue.Row),
			Message: strings.Join(issue.Messages, "; "),
		})
	}
	return details
}
