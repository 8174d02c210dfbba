//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lda

import (
	"context"
	"math"
	"testing"

	"github.com/e-kling/PubMedTopicModeler/internal/dtm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoclustermatrix(t *testing.T) *dtm.Matrix {
	t.Helper()
	docs := []string{
		"leukemia relapse clonal leukemia marrow",
		"clonal leukemia marrow relapse relapse",
		"marrow leukemia clonal clonal",
		"gibbs sampling topic model inference",
		"topic model gibbs gibbs inference",
		"sampling inference model topic",
	}
	labels := []string{"d1", "d2", "d3", "d4", "d5", "d6"}
	m, err := dtm.Build(docs, labels, dtm.CutoffNone)
	require.NoError(t, err)
	return m
}

func TestFitRecordsLikelihoodChain(t *testing.T) {
	m := twoclustermatrix(t)
	mdl := NewModel(m, 2, Config{Iterations: 60, SampleInterval: 10, Seed: 7})

	require.NoError(t, mdl.Fit(context.Background()))

	lls := mdl.LogLikelihoods()
	require.Len(t, lls, 6)
	for _, ll := range lls {
		assert.False(t, math.IsNaN(ll))
		assert.False(t, math.IsInf(ll, 0))
		assert.Less(t, ll, 0.0)
	}
}

func TestFitIsReproducible(t *testing.T) {
	m := twoclustermatrix(t)

	a := NewModel(m, 3, Config{Iterations: 40, SampleInterval: 5, Seed: 99})
	b := NewModel(m, 3, Config{Iterations: 40, SampleInterval: 5, Seed: 99})

	require.NoError(t, a.Fit(context.Background()))
	require.NoError(t, b.Fit(context.Background()))

	assert.Equal(t, a.LogLikelihoods(), b.LogLikelihoods())
}

func TestFitHonorsContext(t *testing.T) {
	m := twoclustermatrix(t)
	mdl := NewModel(m, 2, Config{Iterations: 1000, SampleInterval: 10, Seed: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := mdl.Fit(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = mdl.Phi()
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestDistributionsNormalize(t *testing.T) {
	m := twoclustermatrix(t)
	mdl := NewModel(m, 2, Config{Iterations: 50, SampleInterval: 25, Seed: 3})
	require.NoError(t, mdl.Fit(context.Background()))

	phi, err := mdl.Phi()
	require.NoError(t, err)
	rows, cols := phi.Dims()
	require.Equal(t, 2, rows)
	require.Equal(t, m.Terms(), cols)
	for k := 0; k < rows; k++ {
		sum := 0.0
		for t := 0; t < cols; t++ {
			sum += phi.At(k, t)
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}

	theta, err := mdl.Theta()
	require.NoError(t, err)
	rows, cols = theta.Dims()
	require.Equal(t, 2, rows)
	require.Equal(t, m.Docs(), cols)
	for d := 0; d < cols; d++ {
		sum := 0.0
		for k := 0; k < rows; k++ {
			sum += theta.At(k, d)
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestDominantTopicsAndTopTerms(t *testing.T) {
	m := twoclustermatrix(t)
	mdl := NewModel(m, 2, Config{Alpha: 0.1, Iterations: 500, SampleInterval: 100, Seed: 11})
	require.NoError(t, mdl.Fit(context.Background()))

	dom, err := mdl.DominantTopics()
	require.NoError(t, err)
	require.Len(t, dom, 6)
	for _, d := range dom {
		assert.GreaterOrEqual(t, d, 0)
		assert.Less(t, d, 2)
	}

	// docs 1-3 share a vocabulary and end up under the same dominant topic
	assert.Equal(t, dom[0], dom[1])
	assert.Equal(t, dom[0], dom[2])

	// "leukemia" is the heaviest term in that cluster, so it makes the topic's top terms
	top, err := mdl.TopTerms(dom[0], 5)
	require.NoError(t, err)
	assert.Contains(t, top, "leukemia")

	_, err = mdl.TopTerms(5, 3)
	assert.Error(t, err)
}
