// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package letter keeps per-browser letter state between visits.

Each anonymous client (identified by the X-Client-ID header) has at most
one current letter and one list of representatives it already emailed.
Both live in a best-effort [Cache]: losing them costs the user some
retyping, never a failed request.
*/
package letter

import (
	"context"
	"slices"
	"time"

	"github.com/taibuivan/lettertool/internal/core/jurisdiction"
	"github.com/taibuivan/lettertool/internal/platform/constants"
	"github.com/taibuivan/lettertool/pkg/slice"
)

// DefaultRetention is how long a generated letter stays readable.
const DefaultRetention = 7 * 24 * time.Hour

// Recipient is the representative a letter is addressed to.
type Recipient struct {
	Country          jurisdiction.Country `json:"country"`
	RepresentativeID string               `json:"representative_id"`
	Name             string               `json:"name"`
	Party            string               `json:"party,omitempty"`
}

// CachedLetter is the most recent letter of a client.
type CachedLetter struct {
	Subject   string            `json:"subject"`
	Body      string            `json:"body"`
	WordCount int               `json:"word_count"`
	Inputs    map[string]string `json:"inputs,omitempty"`
	Recipient *Recipient        `json:"recipient,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// EmailedRecord marks one representative as already contacted.
type EmailedRecord struct {
	RepresentativeID string    `json:"representative_id"`
	Name             string    `json:"name"`
	Party            string    `json:"party,omitempty"`
	EmailedAt        time.Time `json:"emailed_at"`
}

// Store holds letter state keyed by client id.
type Store struct {
	letters   Cache[CachedLetter]
	emailed   Cache[[]EmailedRecord]
	retention time.Duration
	now       func() time.Time
}

// NewStore builds a store. A non-positive retention means [DefaultRetention].
func NewStore(letters Cache[CachedLetter], emailed Cache[[]EmailedRecord], retention time.Duration) *Store {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Store{
		letters:   letters,
		emailed:   emailed,
		retention: retention,
		now:       time.Now,
	}
}

// WithClock replaces the time source.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func letterKey(clientID string) string  { return constants.RedisPrefixLetter + clientID }
func emailedKey(clientID string) string { return constants.RedisPrefixEmailed + clientID }

// Current returns the client's letter unless it is older than the retention
// period, in which case it is deleted and reported missing.
func (s *Store) Current(context context.Context, clientID string) (CachedLetter, bool) {
	letter, found := s.letters.Get(context, letterKey(clientID))
	if !found {
		return CachedLetter{}, false
	}

	if s.now().Sub(letter.CreatedAt) > s.retention {
		s.letters.Delete(context, letterKey(clientID))
		return CachedLetter{}, false
	}
	return letter, true
}

// SaveCurrent overwrites the client's letter. A zero CreatedAt is set to now.
func (s *Store) SaveCurrent(context context.Context, clientID string, letter CachedLetter) CachedLetter {
	if letter.CreatedAt.IsZero() {
		letter.CreatedAt = s.now()
	}
	s.letters.Set(context, letterKey(clientID), letter, s.retention)
	return letter
}

// Emailed returns the contacted representatives in the order they were marked.
func (s *Store) Emailed(context context.Context, clientID string) []EmailedRecord {
	records, found := s.emailed.Get(context, emailedKey(clientID))
	if !found || records == nil {
		return []EmailedRecord{}
	}
	return records
}

// MarkEmailed appends record unless its representative is already listed.
// It returns the resulting list.
func (s *Store) MarkEmailed(context context.Context, clientID string, record EmailedRecord) []EmailedRecord {
	records := s.Emailed(context, clientID)

	if slices.ContainsFunc(records, func(existing EmailedRecord) bool {
		return existing.RepresentativeID == record.RepresentativeID
	}) {
		return records
	}

	if record.EmailedAt.IsZero() {
		record.EmailedAt = s.now()
	}
	records = append(records, record)
	s.emailed.Set(context, emailedKey(clientID), records, s.retention)
	return records
}

// Clear forgets the letter and the emailed list.
func (s *Store) Clear(context context.Context, clientID string) {
	s.letters.Delete(context, letterKey(clientID))
	s.emailed.Delete(context, emailedKey(clientID))
}

// Remaining drops the already emailed representatives from representatives.
func (s *Store) Remaining(context context.Context, clientID string, representatives []jurisdiction.Representative) []jurisdiction.Representative {
	emailed := slice.Set(s.Emailed(context, clientID), func(record EmailedRecord) string {
		return record.RepresentativeID
	})

	return slice.Filter(representatives, func(representative jurisdiction.Representative) bool {
		_, done := emailed[representative.ID]
		return !done
	})
}
