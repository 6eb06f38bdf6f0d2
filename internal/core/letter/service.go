// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package letter

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/lettertool/internal/core/jurisdiction"
	"github.com/taibuivan/lettertool/internal/platform/apperr"
	"github.com/taibuivan/lettertool/internal/platform/validate"
)

const (
	maxSubjectLength = 300
	maxBodyLength    = 20000
)

// Directory is the part of the jurisdiction service letters depend on.
type Directory interface {
	Representative(context context.Context, country, id string) (jurisdiction.Representative, error)
	RepresentativesByDistrict(context context.Context, country, districtID string) ([]jurisdiction.Representative, error)
}

// SaveInput is a letter as submitted by the client.
type SaveInput struct {
	Subject   string            `json:"subject"`
	Body      string            `json:"body"`
	Inputs    map[string]string `json:"inputs"`
	Recipient *Recipient        `json:"recipient"`
}

// # Service Layer

// Service manages letter state for anonymous clients.
type Service struct {
	store     *Store
	directory Directory
	logger    *slog.Logger
}

// NewService constructs a new letter [Service].
func NewService(store *Store, directory Directory, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		directory: directory,
		logger:    logger,
	}
}

/*
Current returns the client's letter.

Returns:
  - CachedLetter: The letter
  - error: NOT_FOUND when there is none or it expired
*/
func (service *Service) Current(context context.Context, clientID string) (CachedLetter, error) {
	letter, found := service.store.Current(context, clientID)
	if !found {
		return CachedLetter{}, apperr.NotFound("Letter")
	}
	return letter, nil
}

/*
SaveCurrent replaces the client's letter.

Description: The word count is computed server side. The creation time is
reset, so the retention period starts again.

Returns:
  - CachedLetter: The stored letter
  - error: VALIDATION_ERROR for an empty or oversized letter
*/
func (service *Service) SaveCurrent(context context.Context, clientID string, input SaveInput) (CachedLetter, error) {
	validator := &validate.Validator{}
	validator.
		Required("subject", input.Subject).
		MaxLen("subject", input.Subject, maxSubjectLength).
		Required("body", input.Body).
		MaxLen("body", input.Body, maxBodyLength)
	if err := validator.Err(); err != nil {
		return CachedLetter{}, err
	}

	letter := service.store.SaveCurrent(context, clientID, CachedLetter{
		Subject:   strings.TrimSpace(input.Subject),
		Body:      input.Body,
		WordCount: len(strings.Fields(input.Body)),
		Inputs:    input.Inputs,
		Recipient: input.Recipient,
	})

	service.logger.DebugContext(context, "letter_cached", slog.Int("word_count", letter.WordCount))
	return letter, nil
}

// Clear forgets everything stored for the client.
func (service *Service) Clear(context context.Context, clientID string) {
	service.store.Clear(context, clientID)
}

// Emailed lists the representatives the client already emailed.
func (service *Service) Emailed(context context.Context, clientID string) []EmailedRecord {
	return service.store.Emailed(context, clientID)
}

/*
MarkEmailed records that the client emailed a representative.

Description: Name and party are taken from the directory, not the client.
Marking the same representative twice keeps a single entry.

Returns:
  - []EmailedRecord: The updated list
  - error: NOT_FOUND for unknown countries or representatives
*/
func (service *Service) MarkEmailed(context context.Context, clientID, country, representativeID string) ([]EmailedRecord, error) {
	representative, err := service.directory.Representative(context, country, representativeID)
	if err != nil {
		return nil, err
	}

	return service.store.MarkEmailed(context, clientID, EmailedRecord{
		RepresentativeID: representative.ID,
		Name:             representative.Name,
		Party:            representative.Party,
	}), nil
}

// Remaining lists the representatives of a district the client has not emailed yet.
func (service *Service) Remaining(context context.Context, clientID, country, districtID string) ([]jurisdiction.Representative, error) {
	representatives, err := service.directory.RepresentativesByDistrict(context, country, districtID)
	if err != nil {
		return nil, err
	}
	return service.store.Remaining(context, clientID, representatives), nil
}

/*
Adapt readdresses the client's current letter to another representative.

Description: The adapted letter becomes the current letter and keeps its
creation time.

Returns:
  - CachedLetter: The adapted letter
  - error: NOT_FOUND without a current letter or for an unknown representative,
    VALIDATION_ERROR when the current letter has no recipient
*/
func (service *Service) Adapt(context context.Context, clientID, country, representativeID string) (CachedLetter, error) {
	letter, err := service.Current(context, clientID)
	if err != nil {
		return CachedLetter{}, err
	}
	if letter.Recipient == nil || strings.TrimSpace(letter.Recipient.Name) == "" {
		return CachedLetter{}, apperr.ValidationError("The current letter has no recipient to replace")
	}

	representative, err := service.directory.Representative(context, country, representativeID)
	if err != nil {
		return CachedLetter{}, err
	}

	previous := letter.Recipient.Name
	letter.Subject = AdaptLetter(letter.Subject, previous, representative.Name)
	letter.Body = AdaptLetter(letter.Body, previous, representative.Name)
	letter.WordCount = len(strings.Fields(letter.Body))
	letter.Recipient = &Recipient{
		Country:          jurisdiction.Country(strings.ToLower(strings.TrimSpace(country))),
		RepresentativeID: representative.ID,
		Name:             representative.Name,
		Party:            representative.Party,
	}

	letter = service.store.SaveCurrent(context, clientID, letter)

	service.logger.DebugContext(context, "letter_adapted",
		slog.String("country", country),
		slog.String("representative_id", representative.ID),
	)
	return letter, nil
}
