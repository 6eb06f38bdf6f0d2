// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package target

import (
	stdctx "context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/taibuivan/lettertool/internal/platform/apperr"
	"github.com/taibuivan/lettertool/internal/platform/constants"
)

var (
	publishedSheetPath = regexp.MustCompile(`/spreadsheets/(?:u/[0-9]+/)?d/e/([A-Za-z0-9_-]+)`)
	sheetPath          = regexp.MustCompile(`/spreadsheets/(?:u/[0-9]+/)?d/([A-Za-z0-9_-]+)`)
	gidPattern         = regexp.MustCompile(`(?:^|[#&?])gid=([0-9]+)`)
)

// errNotSheetURL is returned by [ExportPath] for links that are not sheets.
var errNotSheetURL = errors.New("not a Google Sheets link")

// SheetsClient downloads public Google Sheets as CSV.
type SheetsClient struct {
	client   *resty.Client
	logger   *slog.Logger
	maxBytes int64
}

// NewSheetsClient builds a client against baseURL (normally https://docs.google.com).
func NewSheetsClient(baseURL string, timeout time.Duration, logger *slog.Logger) *SheetsClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "text/csv").
		SetHeader("User-Agent", "lettertool-target-import")

	return &SheetsClient{client: client, logger: logger, maxBytes: constants.MaxUploadBytes}
}

// WithMaxBytes overrides the export size cap.
func (s *SheetsClient) WithMaxBytes(limit int64) *SheetsClient {
	if limit > 0 {
		s.maxBytes = limit
	}
	return s
}

/*
ExportPath converts a sheet link into the path of its CSV export.

Description: Editor links (/spreadsheets/d/<id>/edit#gid=<gid>) become
/spreadsheets/d/<id>/export?format=csv&gid=<gid>, with gid 0 when the link
names no tab. "Publish to web" links (/spreadsheets/d/e/<id>/...) become
/spreadsheets/d/e/<id>/pub?output=csv.
*/
func ExportPath(sheetURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(sheetURL))
	if err != nil || parsed.Path == "" {
		return "", errNotSheetURL
	}

	gid := ""
	if match := gidPattern.FindStringSubmatch("?" + parsed.RawQuery + "#" + parsed.Fragment); match != nil {
		gid = match[1]
	}

	if match := publishedSheetPath.FindStringSubmatch(parsed.Path); match != nil {
		path := "/spreadsheets/d/e/" + match[1] + "/pub?output=csv"
		if gid != "" {
			path += "&gid=" + gid
		}
		return path, nil
	}

	if match := sheetPath.FindStringSubmatch(parsed.Path); match != nil {
		if gid == "" {
			gid = "0"
		}
		return "/spreadsheets/d/" + match[1] + "/export?format=csv&gid=" + gid, nil
	}

	return "", errNotSheetURL
}

/*
FetchCSV downloads a public sheet and returns its CSV text.

Returns:
  - string: Raw CSV, to be parsed like pasted text
  - error: apperr.Unprocessable for bad links and unreachable or private
    sheets, apperr.TooLarge past the size cap (constants.MaxUploadBytes)
*/
func (s *SheetsClient) FetchCSV(context stdctx.Context, sheetURL string) (string, error) {
	path, err := ExportPath(sheetURL)
	if err != nil {
		return "", apperr.Unprocessable("This is not a Google Sheets link")
	}

	response, err := s.client.R().SetContext(context).SetDoNotParseResponse(true).Get(path)
	if err != nil {
		s.logger.WarnContext(context, "sheet_fetch_failed", slog.String("path", path), slog.Any("error", err))
		return "", apperr.Unprocessable("Could not reach Google Sheets")
	}
	raw := response.RawBody()
	defer raw.Close()

	if response.StatusCode() != http.StatusOK {
		s.logger.InfoContext(context, "sheet_fetch_rejected",
			slog.String("path", path),
			slog.Int("status", response.StatusCode()),
		)
		return "", apperr.Unprocessable("The sheet could not be downloaded. Make sure it is shared publicly")
	}

	// Private sheets answer 200 with the sign-in page.
	if mediaType, _, _ := mime.ParseMediaType(response.Header().Get("Content-Type")); mediaType == "text/html" {
		return "", apperr.Unprocessable("The sheet could not be downloaded. Make sure it is shared publicly")
	}

	body, err := io.ReadAll(io.LimitReader(raw, s.maxBytes+1))
	if err != nil {
		s.logger.WarnContext(context, "sheet_read_failed", slog.String("path", path), slog.Any("error", err))
		return "", apperr.Unprocessable("Could not reach Google Sheets")
	}
	if int64(len(body)) > s.maxBytes {
		return "", apperr.TooLarge("The sheet is too large")
	}

	return string(body), nil
}

// Close releases idle connections.
func (s *SheetsClient) Close() {
	s.client.GetClient().CloseIdleConnections()
}
