//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package dtm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testdocs() ([]string, []string) {
	docs := []string{
		"leukemia relapse leukemia clonal",
		"clonal evolution relapse",
		"topic model gibbs sampling",
		"gibbs sampling estimation",
	}
	labels := []string{"d1", "d2", "d3", "d4"}
	return docs, labels
}

func TestBuildCounts(t *testing.T) {
	docs, labels := testdocs()
	m, err := Build(docs, labels, CutoffNone)
	require.NoError(t, err)

	assert.Equal(t, 4, m.Docs())
	assert.Equal(t, 14, m.Tokens())

	// "leukemia" appears twice in d1 and nowhere else
	var li int = -1
	for i, w := range m.Vocab() {
		if w == "leukemia" {
			li = i
		}
	}
	require.NotEqual(t, -1, li)
	assert.Equal(t, 2, m.Count(li, 0))
	assert.Equal(t, 0, m.Count(li, 1))
}

func TestBuildYieldsIterableCounts(t *testing.T) {
	docs, labels := testdocs()
	m, err := Build(docs, labels, CutoffNone)
	require.NoError(t, err)

	// the vectoriser's output must land in a matrix we can walk; the walk order
	// must also be stable from one pass to the next (the cache key hashes it)
	type cell struct{ t, d, c int }
	walk := func() []cell {
		var out []cell
		m.DoNonZero(func(t int, d int, c int) {
			out = append(out, cell{t: t, d: d, c: c})
		})
		return out
	}

	first := walk()
	require.NotEmpty(t, first)
	assert.Equal(t, first, walk())

	tt := 0
	for _, cl := range first {
		tt += cl.c
	}
	assert.Equal(t, m.Tokens(), tt)
}

func TestBuildErrors(t *testing.T) {
	_, err := Build(nil, nil, CutoffNone)
	assert.ErrorIs(t, err, ErrNoDocuments)

	_, err = Build([]string{"", ""}, []string{"a", "b"}, CutoffNone)
	assert.ErrorIs(t, err, ErrNoDocuments)

	_, err = Build([]string{"one"}, []string{"a", "b"}, CutoffNone)
	assert.Error(t, err)
}

func TestDocTokensUnrollsCounts(t *testing.T) {
	docs, labels := testdocs()
	m, err := Build(docs, labels, CutoffNone)
	require.NoError(t, err)

	toks := m.DocTokens(0)
	assert.Len(t, toks, 4)

	counts := make(map[string]int)
	for _, ti := range toks {
		counts[m.TermLabel(ti)]++
	}
	assert.Equal(t, 2, counts["leukemia"])
	assert.Equal(t, 1, counts["relapse"])
	assert.Equal(t, 1, counts["clonal"])
}

func TestMedianCutoffShrinksVocabulary(t *testing.T) {
	docs, labels := testdocs()

	full, err := Build(docs, labels, CutoffNone)
	require.NoError(t, err)

	cut, err := Build(docs, labels, CutoffMedian)
	require.NoError(t, err)

	assert.Less(t, cut.Terms(), full.Terms())
	assert.Equal(t, full.Docs(), cut.Docs())
	assert.Greater(t, cut.Tokens(), 0)

	// token totals per document never grow
	for d := 0; d < cut.Docs(); d++ {
		assert.LessOrEqual(t, len(cut.DocTokens(d)), len(full.DocTokens(d)))
	}
}
