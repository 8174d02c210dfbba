//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCrosstab(t *testing.T) {
	dominant := []int{0, 0, 1, 1, -1}
	headings := [][]string{
		{"Leukemia", "Humans"},
		{"Leukemia"},
		{"Models, Statistical", "Humans"},
		{"Models, Statistical"},
		{"Leukemia"}, // dominant -1: skipped
	}

	ct := BuildCrosstab(dominant, headings, 2, 10)

	require.Equal(t, 2, ct.Topics)
	// Leukemia ×2, Models ×2, Humans ×2 among counted docs
	require.Len(t, ct.Headings, 3)
	assert.Equal(t, 6, ct.N)

	col := func(h string) int {
		for i, hh := range ct.Headings {
			if hh == h {
				return i
			}
		}
		t.Fatalf("heading %s missing", h)
		return -1
	}

	assert.Equal(t, 2, ct.Counts[0][col("Leukemia")])
	assert.Equal(t, 0, ct.Counts[1][col("Leukemia")])
	assert.Equal(t, 2, ct.Counts[1][col("Models, Statistical")])
	assert.Equal(t, 1, ct.Counts[0][col("Humans")])
	assert.Equal(t, 1, ct.Counts[1][col("Humans")])
}

func TestBuildCrosstabTopN(t *testing.T) {
	dominant := []int{0, 1}
	headings := [][]string{
		{"A", "A-Rare"},
		{"A", "B"},
	}

	ct := BuildCrosstab(dominant, headings, 2, 1)
	require.Equal(t, []string{"A"}, ct.Headings)
	assert.Equal(t, 2, ct.N)
}

func TestAssociatePerfectAlignment(t *testing.T) {
	ct := Crosstab{
		Headings: []string{"Leukemia", "Models, Statistical"},
		Topics:   2,
		Counts:   [][]int{{30, 0}, {0, 30}},
		N:        60,
	}

	a, err := ct.Associate()
	require.NoError(t, err)

	assert.Equal(t, 1, a.DoF)
	assert.InDelta(t, 60.0, a.ChiSquare, 1e-9)
	assert.Less(t, a.PValue, 0.001)
	assert.InDelta(t, 1.0, a.CramersV, 1e-9)
}

func TestAssociateIndependence(t *testing.T) {
	ct := Crosstab{
		Headings: []string{"A", "B"},
		Topics:   2,
		Counts:   [][]int{{25, 25}, {25, 25}},
		N:        100,
	}

	a, err := ct.Associate()
	require.NoError(t, err)
	assert.InDelta(t, 0.0, a.ChiSquare, 1e-9)
	assert.InDelta(t, 1.0, a.PValue, 1e-9)
	assert.InDelta(t, 0.0, a.CramersV, 1e-9)
}

func TestAssociateDropsZeroMargins(t *testing.T) {
	// topic 2 never dominated anything; it must not zero out the expected counts
	ct := Crosstab{
		Headings: []string{"A", "B"},
		Topics:   3,
		Counts:   [][]int{{10, 2}, {3, 9}, {0, 0}},
		N:        24,
	}

	a, err := ct.Associate()
	require.NoError(t, err)
	assert.Equal(t, 1, a.DoF)
	assert.Greater(t, a.ChiSquare, 0.0)
}

func TestAssociateDegenerate(t *testing.T) {
	ct := Crosstab{Headings: []string{"A"}, Topics: 2, Counts: [][]int{{5}, {5}}, N: 10}
	_, err := ct.Associate()
	assert.ErrorIs(t, err, ErrDegenerateTable)

	empty := Crosstab{Headings: nil, Topics: 2, Counts: [][]int{{}, {}}}
	_, err = empty.Associate()
	assert.ErrorIs(t, err, ErrDegenerateTable)
}
