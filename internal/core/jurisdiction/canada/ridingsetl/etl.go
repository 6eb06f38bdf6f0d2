// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ridingsetl builds the FSA → federal riding table bundled with the
canada resolver.

For every Forward Sortation Area it queries the Represent postcode API with a
handful of synthetic full postal codes until one answers with a federal
electoral district. Lookups run in batches: at most [Config.Concurrency]
requests in flight per batch and a fixed pause between batches.

This is offline tooling. Nothing here runs inside the API server.
*/
package ridingsetl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/taibuivan/lettertool/internal/core/jurisdiction/canada"
)

// DefaultSuffixes are the local delivery units appended to an FSA to form
// candidate postal codes, most common first.
var DefaultSuffixes = []string{"1A1", "1B1", "2A1", "1C1", "1E1", "1G1", "2B1", "3A1"}

// Config tunes the runner.
type Config struct {
	BaseURL     string
	Concurrency int
	BatchDelay  time.Duration
	Timeout     time.Duration
	Suffixes    []string
	UserAgent   string
}

// DefaultConfig returns the settings used against the public API.
func DefaultConfig() Config {
	return Config{
		BaseURL:     "https://represent.opennorth.ca",
		Concurrency: 10,
		BatchDelay:  time.Second,
		Timeout:     15 * time.Second,
		Suffixes:    DefaultSuffixes,
		UserAgent:   "lettertool-ridings-etl",
	}
}

// Match is the riding found for one FSA.
type Match struct {
	FSA         string
	PostalCode  string
	RidingID    string
	RidingName  string
	BoundarySet string
}

// Report summarises a run.
type Report struct {
	Queried int
	Mapped  int
	Missing []string
}

// Runner queries the Represent API.
type Runner struct {
	client  *resty.Client
	config  Config
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewRunner builds a runner. Zero fields of cfg take their [DefaultConfig] value.
func NewRunner(cfg Config, logger *slog.Logger) *Runner {
	defaults := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = defaults.Concurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if len(cfg.Suffixes) == 0 {
		cfg.Suffixes = defaults.Suffixes
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second).
		AddRetryCondition(func(response *resty.Response, _ error) bool {
			return response != nil && response.StatusCode() == http.StatusTooManyRequests
		}).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", cfg.UserAgent)

	limit := rate.Inf
	if cfg.BatchDelay > 0 {
		limit = rate.Every(cfg.BatchDelay)
	}

	return &Runner{
		client:  client,
		config:  cfg,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// Close releases idle HTTP connections.
func (r *Runner) Close() {
	r.client.GetClient().CloseIdleConnections()
}

/*
Lookup finds the riding of one FSA.

Description: Candidate postal codes are tried in suffix order. A candidate
that fails (transport error, non-2xx, no federal boundary) moves on to the
next one. Only context cancellation aborts the lookup.

Returns:
  - Match: The riding found
  - bool: False when no candidate produced a federal boundary
  - error: Context errors only
*/
func (r *Runner) Lookup(ctx context.Context, fsa string) (Match, bool, error) {
	fsa = canada.FSA(fsa)
	if fsa == "" {
		return Match{}, false, nil
	}

	for _, suffix := range r.config.Suffixes {
		if err := ctx.Err(); err != nil {
			return Match{}, false, err
		}

		postalCode := fsa + suffix

		var payload postcodeResponse
		response, err := r.client.R().
			SetContext(ctx).
			SetPathParam("code", postalCode).
			SetResult(&payload).
			Get("/postcodes/{code}/")

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Match{}, false, ctxErr
			}
			r.logger.Debug("represent_lookup_failed", slog.String("postal_code", postalCode), slog.String("error", err.Error()))
			continue
		}
		if !response.IsSuccess() {
			r.logger.Debug("represent_lookup_status", slog.String("postal_code", postalCode), slog.Int("status", response.StatusCode()))
			continue
		}

		boundary, found := PickFederal(append(payload.BoundariesCentroid, payload.BoundariesConcordance...))
		if !found {
			continue
		}

		return Match{
			FSA:         fsa,
			PostalCode:  postalCode,
			RidingID:    boundary.ExternalID,
			RidingName:  boundary.Name,
			BoundarySet: boundary.SetSlug(),
		}, true, nil
	}

	return Match{}, false, nil
}

/*
Run looks up every FSA and returns the FSA → riding id table.

Description: FSAs are processed in batches of [Config.Concurrency]. The batch
limiter enforces [Config.BatchDelay] between the start of consecutive batches.
Cancelling ctx stops the run after the in-flight lookups return; the partial
table is still returned along with the context error.
*/
func (r *Runner) Run(ctx context.Context, fsas []string) (map[string]string, Report, error) {
	var (
		mu      sync.Mutex
		ridings = make(map[string]string, len(fsas))
		report  Report
	)

	for batch := range slices.Chunk(fsas, r.config.Concurrency) {
		if err := r.limiter.Wait(ctx); err != nil {
			return ridings, finish(report), err
		}

		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(r.config.Concurrency)

		for _, fsa := range batch {
			group.Go(func() error {
				match, found, err := r.Lookup(groupCtx, fsa)
				if err != nil {
					return err
				}

				mu.Lock()
				defer mu.Unlock()

				report.Queried++
				if !found {
					report.Missing = append(report.Missing, fsa)
					return nil
				}

				report.Mapped++
				ridings[match.FSA] = match.RidingID
				return nil
			})
		}

		if err := group.Wait(); err != nil {
			return ridings, finish(report), err
		}

		r.logger.Info("ridings_batch_done",
			slog.Int("queried", report.Queried),
			slog.Int("mapped", report.Mapped),
			slog.Int("total", len(fsas)),
		)
	}

	return ridings, finish(report), nil
}

func finish(report Report) Report {
	slices.Sort(report.Missing)
	return report
}

// # FSA enumeration

// AllFSAs enumerates every syntactically valid FSA in sorted order.
func AllFSAs() []string {
	const (
		firstLetters = "ABCEGHJKLMNPRSTVXY"
		thirdLetters = "ABCEGHJKLMNPRSTVWXYZ"
	)

	fsas := make([]string, 0, len(firstLetters)*10*len(thirdLetters))
	for _, first := range firstLetters {
		for digit := '0'; digit <= '9'; digit++ {
			for _, third := range thirdLetters {
				fsas = append(fsas, string([]rune{first, digit, third}))
			}
		}
	}
	return fsas
}

// # Output

// Merge overlays fresh results on a previous table. Fresh results win.
func Merge(previous, fresh map[string]string) map[string]string {
	merged := make(map[string]string, len(previous)+len(fresh))
	for fsa, riding := range previous {
		merged[fsa] = riding
	}
	for fsa, riding := range fresh {
		merged[fsa] = riding
	}
	return merged
}

// ReadTable decodes an existing fsa_ridings.json.
func ReadTable(reader io.Reader) (map[string]string, error) {
	table := map[string]string{}
	if err := json.NewDecoder(reader).Decode(&table); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("ridingsetl_read_table: %w", err)
	}
	return table, nil
}

// WriteTable writes the table as indented JSON with keys in sorted order.
func WriteTable(writer io.Writer, table map[string]string) error {
	encoded, err := json.MarshalIndent(table, "", " ")
	if err != nil {
		return fmt.Errorf("ridingsetl_write_table: %w", err)
	}

	if _, err := writer.Write(append(encoded, '\n')); err != nil {
		return fmt.Errorf("ridingsetl_write_table: %w", err)
	}
	return nil
}
