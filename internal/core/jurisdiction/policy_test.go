// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package jurisdiction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/lettertool/internal/core/jurisdiction"
)

/*
TestExcludeParties ignores case, accents, punctuation and blanks.
*/
func TestExcludeParties(t *testing.T) {
	policy := jurisdiction.ExcludeParties(" AfD ", "", "Bündnis 90/Die Grünen")

	tests := []struct {
		party string
		want  bool
	}{
		{"AfD", false},
		{"afd", false},
		{"A.f.D.", false},
		{"BÜNDNIS 90 / DIE GRÜNEN", false},
		{"SPD", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.party, func(t *testing.T) {
			assert.Equal(t, tt.want, policy(jurisdiction.Representative{Party: tt.party}))
		})
	}

	assert.True(t, jurisdiction.ExcludeParties()(jurisdiction.Representative{Party: "AfD"}))
}

/*
TestAll requires every policy to admit.
*/
func TestAll(t *testing.T) {
	hasEmail := func(r jurisdiction.Representative) bool { return r.Email != "" }
	policy := jurisdiction.All(jurisdiction.ExcludeParties("X"), hasEmail, nil)

	assert.True(t, policy(jurisdiction.Representative{Party: "Y", Email: "a@b.de"}))
	assert.False(t, policy(jurisdiction.Representative{Party: "Y"}))
	assert.False(t, policy(jurisdiction.Representative{Party: "x", Email: "a@b.de"}))
}
