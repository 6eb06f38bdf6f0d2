// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package jurisdiction

import "github.com/taibuivan/lettertool/pkg/slug"

// Policy decides whether a representative is admitted into a [Directory].
//
// Policies run once, while the directory is built; they are never consulted
// at query time.
type Policy func(Representative) bool

// AllowAll admits every representative.
func AllowAll(Representative) bool { return true }

// ExcludeParties rejects members of the named parties. Names are compared as
// [slug.Key] values, so case, accents and punctuation do not matter
// ("AfD" matches "A.f.D."). With no names it admits everyone.
func ExcludeParties(parties ...string) Policy {
	excluded := make(map[string]struct{}, len(parties))
	for _, party := range parties {
		if key := normalizeParty(party); key != "" {
			excluded[key] = struct{}{}
		}
	}

	return func(representative Representative) bool {
		_, found := excluded[normalizeParty(representative.Party)]
		return !found
	}
}

// All admits a representative only if every policy admits it.
func All(policies ...Policy) Policy {
	return func(representative Representative) bool {
		for _, policy := range policies {
			if policy != nil && !policy(representative) {
				return false
			}
		}
		return true
	}
}

func normalizeParty(party string) string {
	return slug.Key(party)
}
