//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package sel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHarmonicMeanScoreSingleton(t *testing.T) {
	assert.Equal(t, -123.5, HarmonicMeanScore([]float64{-123.5}))
}

func TestHarmonicMeanScoreShiftInvariance(t *testing.T) {
	// score(L + c) = score(L) + c
	lls := []float64{-1000.0, -1010.5, -998.2, -1005.0, -1002.3}

	base := HarmonicMeanScore(lls)

	const c = 37.25
	shifted := make([]float64, len(lls))
	for i, l := range lls {
		shifted[i] = l + c
	}

	assert.InDelta(t, base+c, HarmonicMeanScore(shifted), 1e-9)
}

func TestHarmonicMeanScoreNoOverflow(t *testing.T) {
	// raw likelihoods at -10^6 would overflow a naive exp(); median recentering must not
	lls := []float64{-1000000.0, -1000050.0, -999980.0, -1000010.0}

	s := HarmonicMeanScore(lls)
	assert.False(t, math.IsNaN(s))
	assert.False(t, math.IsInf(s, 0))

	// the harmonic mean of the likelihoods never exceeds their maximum
	assert.LessOrEqual(t, s, -999980.0)
	assert.GreaterOrEqual(t, s, -1000050.0)
}

func TestHarmonicMeanScoreConstantChain(t *testing.T) {
	lls := []float64{-500.0, -500.0, -500.0}
	assert.InDelta(t, -500.0, HarmonicMeanScore(lls), 1e-12)
}

func TestPostBurnIn(t *testing.T) {
	lls := []float64{-10, -9, -8, -7, -6}

	// samples recorded at 50, 100, ..., 250; burn-in 100 swallows the first two
	kept := postBurnIn(lls, 100, 50)
	assert.Equal(t, []float64{-8, -7, -6}, kept)

	// burn-in of zero keeps everything
	assert.Equal(t, lls, postBurnIn(lls, 0, 50))

	// burn-in past the end keeps nothing
	assert.Nil(t, postBurnIn(lls, 250, 50))
	assert.Nil(t, postBurnIn(lls, 9999, 50))
}
