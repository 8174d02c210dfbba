//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package sel

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// the harmonic mean of the post-burn-in likelihoods, computed in log space:
//
//     score = m − log( mean( exp(−(lᵢ − m)) ) )           m = median(l)
//
// recentering on the median keeps exp() away from overflow even when the raw
// log-likelihoods sit at -10^6; log-sum-exp handles the rest

// HarmonicMeanScore - score a chain of log-likelihoods; the caller guarantees len > 0
func HarmonicMeanScore(lls []float64) float64 {
	n := len(lls)
	if n == 1 {
		// the mean of one sample is the sample
		return lls[0]
	}

	m := medianOf(lls)

	neg := make([]float64, n)
	for i := 0; i < n; i++ {
		neg[i] = -(lls[i] - m)
	}

	return m - (floats.LogSumExp(neg) - math.Log(float64(n)))
}

// postBurnIn - drop the likelihood samples recorded during the burn-in window;
// samples land at iterations interval, 2·interval, ..., so burnin/interval of them fall inside it
func postBurnIn(lls []float64, burnin int, interval int) []float64 {
	skip := burnin / interval
	if skip >= len(lls) {
		return nil
	}
	return lls[skip:]
}

func medianOf(vals []float64) float64 {
	s := make([]float64, len(vals))
	copy(s, vals)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
