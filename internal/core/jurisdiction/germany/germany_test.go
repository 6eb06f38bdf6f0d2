// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package germany_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/taibuivan/lettertool/internal/core/jurisdiction"
	"github.com/taibuivan/lettertool/internal/core/jurisdiction/germany"
)

func bundledResolver(t *testing.T) *germany.Resolver {
	t.Helper()
	resolver, err := germany.NewBundled(jurisdiction.ExcludeParties("AfD"))
	require.NoError(t, err)
	return resolver
}

/*
TestNormalizePostalCode covers padding, trimming and rejection.
*/
func TestNormalizePostalCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10115", "10115"},
		{"1067", "01067"},
		{" 4103 ", "04103"},
		{"1", "00001"},
		{"", ""},
		{"101155", ""},
		{"10a15", ""},
		{"-1067", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, germany.NormalizePostalCode(tt.in))
		})
	}
}

/*
TestResolve_PaddingIdempotence asserts Resolve(p) == Resolve(pad5(p)) for
every postal code in the bundled table, with leading zeros stripped.
*/
func TestResolve_PaddingIdempotence(t *testing.T) {
	resolver := bundledResolver(t)

	dataset, err := germany.LoadDataset()
	require.NoError(t, err)

	for _, wahlkreis := range dataset.Wahlkreise {
		for _, postalCode := range wahlkreis.PostalCodes {
			short := strings.TrimLeft(postalCode, "0")
			padded := germany.NormalizePostalCode(short)

			if diff := cmp.Diff(resolver.Resolve(short), resolver.Resolve(padded)); diff != "" {
				t.Errorf("Resolve(%q) != Resolve(%q):\n%s", short, padded, diff)
			}
		}
	}
}

/*
TestResolve_BerlinMitte resolves 10115 to Wahlkreis 075 with a name-sorted
list of members that excludes the filtered party.
*/
func TestResolve_BerlinMitte(t *testing.T) {
	resolver := bundledResolver(t)

	resolution := resolver.Resolve("10115")
	require.Equal(t, jurisdiction.PrecisionDistrict, resolution.Precision)
	require.Len(t, resolution.Districts, 1)
	assert.Equal(t, "075", resolution.Districts[0].ID)
	assert.Equal(t, "Berlin-Mitte", resolution.Districts[0].Name)
	assert.Equal(t, "BE", resolution.Region)

	representatives := resolver.Directory().FindByDistrict("75")
	require.NotEmpty(t, representatives)

	collator := collate.New(language.German, collate.Loose)
	assert.True(t, slices.IsSortedFunc(representatives, func(a, b jurisdiction.Representative) int {
		return collator.CompareString(a.Name, b.Name)
	}))

	for _, representative := range representatives {
		assert.NotEqual(t, "AfD", representative.Party)
		assert.Equal(t, "075", representative.DistrictID)
	}
}

/*
TestResolve_WithoutPolicyKeepsEveryone confirms the exclusion comes from the policy alone.
*/
func TestResolve_WithoutPolicyKeepsEveryone(t *testing.T) {
	filtered := bundledResolver(t)

	unfiltered, err := germany.NewBundled(jurisdiction.AllowAll)
	require.NoError(t, err)

	assert.Greater(t, len(unfiltered.Directory().FindByDistrict("075")), len(filtered.Directory().FindByDistrict("075")))
}

/*
TestDistrictsForPostalCode_Ambiguous returns every candidate and tie-breaks on the smallest id.
*/
func TestDistrictsForPostalCode_Ambiguous(t *testing.T) {
	resolver := bundledResolver(t)

	tests := []struct {
		postalCode string
		all        []string
		single     string
	}{
		{"10119", []string{"075", "076"}, "075"},
		{"4105", []string{"152", "153"}, "152"},
		{"80331", []string{"219", "220"}, "219"},
		{"24937", []string{"001"}, "001"},
	}

	for _, tt := range tests {
		t.Run(tt.postalCode, func(t *testing.T) {
			ids := []string{}
			for _, district := range resolver.DistrictsForPostalCode(tt.postalCode) {
				ids = append(ids, district.ID)
			}
			assert.ElementsMatch(t, tt.all, ids)

			single, found := resolver.DistrictForPostalCode(tt.postalCode)
			require.True(t, found)
			assert.Equal(t, tt.single, single.ID)
		})
	}

	resolution := resolver.Resolve("10119")
	assert.Len(t, resolution.Districts, 2)
	assert.Equal(t, "BE", resolution.Region)
}

/*
TestResolve_Misses never fails on malformed or unknown input.
*/
func TestResolve_Misses(t *testing.T) {
	resolver := bundledResolver(t)

	for _, input := range []string{"", "99999", "abcde", "123456", "  "} {
		resolution := resolver.Resolve(input)
		assert.Equal(t, jurisdiction.PrecisionNone, resolution.Precision, input)
		assert.NotNil(t, resolution.Districts)
		assert.Empty(t, resolution.Representatives)
	}

	_, found := resolver.DistrictForPostalCode("99999")
	assert.False(t, found)
}

/*
TestNew_SkipsMalformedRows tolerates bad ids and postal codes in the table.
*/
func TestNew_SkipsMalformedRows(t *testing.T) {
	resolver := germany.New(germany.Dataset{
		Wahlkreise: []germany.Wahlkreis{
			{ID: "x1", Name: "Broken", PostalCodes: []string{"10115"}},
			{ID: "12", Name: "Ok", Land: "MV", PostalCodes: []string{"18055", "bad"}},
		},
		MdBs: []germany.MdB{{ID: "a", Name: "A", WahlkreisID: "12"}},
	}, nil)

	assert.Len(t, resolver.Directory().Districts(), 1)
	assert.Equal(t, jurisdiction.PrecisionNone, resolver.Resolve("10115").Precision)
	assert.Len(t, resolver.Resolve("18055").Representatives, 1)
}
