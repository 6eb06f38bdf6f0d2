// Copyright (c) 2026 LetterTool. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package france_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/lettertool/internal/core/jurisdiction"
	"github.com/taibuivan/lettertool/internal/core/jurisdiction/france"
)

func bundledResolver(t *testing.T) *france.Resolver {
	t.Helper()
	resolver, err := france.NewBundled(jurisdiction.AllowAll)
	require.NoError(t, err)
	return resolver
}

func ids(representatives []jurisdiction.Representative) []string {
	out := make([]string, len(representatives))
	for i, representative := range representatives {
		out[i] = representative.ID
	}
	return out
}

/*
TestDepartmentFromPostalCode covers Corsica, overseas and malformed input.
*/
func TestDepartmentFromPostalCode(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"75001", "75", true},
		{"01000", "01", true},
		{"95000", "95", true},
		{"20000", "2A", true},
		{"20199", "2A", true},
		{"20200", "2B", true},
		{"20620", "2B", true},
		{"97100", "971", true},
		{"97200", "972", true},
		{"97300", "973", true},
		{"97400", "974", true},
		{"97600", "976", true},
		{"97500", "", false},
		{"97700", "", false},
		{"98000", "", false},
		{"96000", "", false},
		{"00100", "", false},
		{"7500", "", false},
		{"750011", "", false},
		{"75 01", "", false},
		{"", "", false},
		{"２００００", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := france.DepartmentFromPostalCode(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

/*
TestConstituencyID pads numbers and normalises departments.
*/
func TestConstituencyID(t *testing.T) {
	assert.Equal(t, "75-03", france.ConstituencyID("75", 3))
	assert.Equal(t, "01-01", france.ConstituencyID("1", 1))
	assert.Equal(t, "2A-02", france.ConstituencyID("2a", 2))
	assert.Equal(t, "974-12", france.ConstituencyID("974", 12))
}

/*
TestResolve_ParisFallsBackToDepartment resolves 75001 to every Paris deputy.
*/
func TestResolve_ParisFallsBackToDepartment(t *testing.T) {
	resolver := bundledResolver(t)

	resolution := resolver.Resolve("75001")
	assert.Equal(t, jurisdiction.PrecisionRegion, resolution.Precision)
	assert.Equal(t, "75", resolution.Region)
	assert.Len(t, resolution.Districts, 5)

	department := resolver.FindDeputesByDepartment("75")
	assert.Len(t, department, 5)
	assert.ElementsMatch(t, ids(department), ids(resolution.Representatives))
	assert.ElementsMatch(t, ids(department), ids(resolver.FindDeputesByPostalCode("75001")))

	for _, representative := range department {
		assert.Equal(t, "75", representative.Region)
	}

	// A constituency-level answer is always strictly contained in the department list.
	constituency := resolver.FindDeputesByConstituency("75", 1)
	require.Len(t, constituency, 1)
	assert.Subset(t, ids(department), ids(constituency))
	assert.Greater(t, len(department), len(constituency))
}

/*
TestResolve_Corsica keeps 2A and 2B apart.
*/
func TestResolve_Corsica(t *testing.T) {
	resolver := bundledResolver(t)

	south := resolver.Resolve("20000")
	north := resolver.Resolve("20200")

	assert.Equal(t, "2A", south.Region)
	assert.Equal(t, "2B", north.Region)
	assert.NotEmpty(t, south.Representatives)
	assert.NotEmpty(t, north.Representatives)
	assert.NotSubset(t, ids(south.Representatives), ids(north.Representatives))
}

/*
TestResolve_Misses returns precision none for malformed and uncovered input.
*/
func TestResolve_Misses(t *testing.T) {
	resolver := bundledResolver(t)

	for _, input := range []string{"", "7500", "97500", "abcde"} {
		resolution := resolver.Resolve(input)
		assert.Equal(t, jurisdiction.PrecisionNone, resolution.Precision, input)
		assert.Empty(t, resolution.Region, input)
	}

	// Valid department without bundled deputies keeps the region for the UI.
	uncovered := resolver.Resolve("33000")
	assert.Equal(t, jurisdiction.PrecisionNone, uncovered.Precision)
	assert.Equal(t, "33", uncovered.Region)
	assert.NotNil(t, uncovered.Representatives)
}

/*
TestNarrow narrows to a named circonscription inside the resolved department.
*/
func TestNarrow(t *testing.T) {
	resolver := bundledResolver(t)
	paris := resolver.Resolve("75003")

	tests := []struct {
		name      string
		district  string
		precision jurisdiction.Precision
		count     int
	}{
		{"number", "3", jurisdiction.PrecisionDistrict, 1},
		{"padded_number", "03", jurisdiction.PrecisionDistrict, 1},
		{"full_id", "75-3", jurisdiction.PrecisionDistrict, 1},
		{"other_department", "13-01", jurisdiction.PrecisionRegion, 5},
		{"unknown_number", "42", jurisdiction.PrecisionRegion, 5},
		{"garbage", "trois", jurisdiction.PrecisionRegion, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			narrowed := resolver.Narrow(paris, tt.district)
			assert.Equal(t, tt.precision, narrowed.Precision)
			assert.Len(t, narrowed.Representatives, tt.count)
		})
	}

	narrowed := resolver.Narrow(paris, "3")
	require.Len(t, narrowed.Districts, 1)
	assert.Equal(t, "75-03", narrowed.Districts[0].ID)

	miss := resolver.Resolve("bad")
	assert.Equal(t, miss, resolver.Narrow(miss, "1"))
}
