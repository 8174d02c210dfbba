//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package sel

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/e-kling/PubMedTopicModeler/internal/dtm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// syntheticmatrix - ndocs documents of doclen tokens drawn from a nterms vocabulary,
// deterministic for a given seed
func syntheticmatrix(t *testing.T, ndocs int, nterms int, doclen int, seed uint64) *dtm.Matrix {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))

	vocab := make([]string, nterms)
	for i := 0; i < nterms; i++ {
		vocab[i] = fmt.Sprintf("term%03d", i)
	}

	docs := make([]string, ndocs)
	labels := make([]string, ndocs)
	for d := 0; d < ndocs; d++ {
		// two latent clusters so some candidate genuinely fits better than others
		lo, hi := 0, nterms/2
		if d%2 == 1 {
			lo, hi = nterms/2, nterms
		}
		wds := make([]string, doclen)
		for n := 0; n < doclen; n++ {
			wds[n] = vocab[lo+rng.Intn(hi-lo)]
		}
		docs[d] = strings.Join(wds, " ")
		labels[d] = fmt.Sprintf("doc%02d", d)
	}

	m, err := dtm.Build(docs, labels, dtm.CutoffNone)
	require.NoError(t, err)
	return m
}

func quickcfg(candidates ...int) SweepConfig {
	return SweepConfig{
		Candidates:     candidates,
		BurnIn:         40,
		Iterations:     120,
		SampleInterval: 20,
		Seed:           42,
		Workers:        2,
	}
}

func TestSelectTopicCountEndToEnd(t *testing.T) {
	m := syntheticmatrix(t, 50, 200, 25, 1)

	report, err := SelectTopicCount(context.Background(), m, quickcfg(2, 3, 4))
	require.NoError(t, err)

	require.Len(t, report.Scores, 3)
	assert.NotZero(t, report.BestK)
	assert.NotEmpty(t, report.RunID)

	for _, cs := range report.Scores {
		require.True(t, cs.Scored, "candidate %d was not scored", cs.K)
		assert.False(t, math.IsNaN(cs.Value()))
		assert.False(t, math.IsInf(cs.Value(), 0))
	}
}

func TestSelectTopicCountSingletonCandidate(t *testing.T) {
	m := syntheticmatrix(t, 12, 40, 12, 11)

	// one candidate in, that candidate out, whatever its score
	report, err := SelectTopicCount(context.Background(), m, quickcfg(3))
	require.NoError(t, err)

	require.Len(t, report.Scores, 1)
	assert.Equal(t, 3, report.BestK)
	assert.True(t, report.Scores[0].Scored)
	assert.False(t, math.IsNaN(report.Scores[0].Value()))
}

func TestSelectTopicCountOrderIndependent(t *testing.T) {
	m := syntheticmatrix(t, 20, 60, 15, 2)

	a, err := SelectTopicCount(context.Background(), m, quickcfg(2, 3, 5))
	require.NoError(t, err)

	b, err := SelectTopicCount(context.Background(), m, quickcfg(5, 2, 3))
	require.NoError(t, err)

	assert.Equal(t, a.BestK, b.BestK)

	byk := func(r Report) map[int]float64 {
		out := make(map[int]float64)
		for _, cs := range r.Scores {
			out[cs.K] = cs.Score
		}
		return out
	}
	assert.Equal(t, byk(a), byk(b))
}

func TestSelectTopicCountReproducible(t *testing.T) {
	m := syntheticmatrix(t, 20, 60, 15, 3)

	a, err := SelectTopicCount(context.Background(), m, quickcfg(2, 4))
	require.NoError(t, err)
	b, err := SelectTopicCount(context.Background(), m, quickcfg(2, 4))
	require.NoError(t, err)

	assert.Equal(t, a.BestK, b.BestK)
	for i := range a.Scores {
		assert.Equal(t, a.Scores[i].Score, b.Scores[i].Score)
	}
}

func TestSelectTopicCountInferiorAppendix(t *testing.T) {
	m := syntheticmatrix(t, 20, 60, 15, 4)

	base, err := SelectTopicCount(context.Background(), m, quickcfg(2, 3))
	require.NoError(t, err)

	// the candidate list grows but the original scores, and hence the winner, do not move
	grown, err := SelectTopicCount(context.Background(), m, quickcfg(2, 3, 19))
	require.NoError(t, err)

	byk := func(r Report) map[int]float64 {
		out := make(map[int]float64)
		for _, cs := range r.Scores {
			if cs.Scored {
				out[cs.K] = cs.Score
			}
		}
		return out
	}

	gb := byk(grown)
	for k, s := range byk(base) {
		assert.Equal(t, s, gb[k])
	}

	if gb[19] <= gb[base.BestK] {
		assert.Equal(t, base.BestK, grown.BestK)
	}
}

func TestSelectTopicCountBurnInSwallowsChain(t *testing.T) {
	m := syntheticmatrix(t, 10, 30, 10, 5)

	cfg := quickcfg(2, 3)
	cfg.BurnIn = cfg.Iterations // nothing survives

	report, err := SelectTopicCount(context.Background(), m, cfg)
	require.ErrorIs(t, err, ErrAllCandidatesFailed)

	for _, cs := range report.Scores {
		assert.False(t, cs.Scored)
		assert.Equal(t, KINDINSUFFICIENT, cs.ErrKind)
		assert.IsType(t, InsufficientSamplesError{}, cs.Err)
		assert.True(t, math.IsNaN(cs.Value()))
	}
}

func TestSelectTopicCountRejectsBadRequests(t *testing.T) {
	m := syntheticmatrix(t, 10, 30, 10, 6)

	_, err := SelectTopicCount(context.Background(), m, SweepConfig{})
	assert.Error(t, err)

	cfg := quickcfg(2, 0)
	_, err = SelectTopicCount(context.Background(), m, cfg)
	var ic InvalidCandidateError
	require.ErrorAs(t, err, &ic)
	assert.Equal(t, 0, ic.K)

	// the matrix has 10 documents, so 10 topics is already too many
	cfg = quickcfg(2, 10)
	_, err = SelectTopicCount(context.Background(), m, cfg)
	require.ErrorAs(t, err, &ic)
	assert.Equal(t, 10, ic.K)

	cfg = quickcfg(2)
	cfg.SampleInterval = 0
	_, err = SelectTopicCount(context.Background(), m, cfg)
	assert.Error(t, err)
}

func TestSelectTopicCountTimeBudget(t *testing.T) {
	m := syntheticmatrix(t, 40, 120, 30, 7)

	cfg := quickcfg(2, 3, 4, 5, 6, 7, 8, 9, 10, 11)
	cfg.Iterations = 2000
	cfg.SampleInterval = 100
	cfg.BurnIn = 100
	cfg.Workers = 1

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	report, _ := SelectTopicCount(ctx, m, cfg)

	notdone := 0
	for _, cs := range report.Scores {
		if cs.NotEvaluated {
			notdone++
			assert.Equal(t, KINDNOTEVALUATED, cs.ErrKind)
		}
	}
	assert.Greater(t, notdone, 0, "a 50ms budget cannot evaluate ten 2000-iteration chains")
}

func TestFinalScoreCollationDrainsEveryResult(t *testing.T) {
	cfg := quickcfg(2, 3, 4)

	// results already computed and queued when the pool shuts down must all be
	// collated, even ones the workers emitted at the last moment
	rc := make(chan candidateresult, 3)
	rc <- candidateresult{k: 4, score: -120}
	rc <- candidateresult{k: 2, score: -100}
	rc <- candidateresult{k: 3, score: -90}
	close(rc)

	report := FinalScoreCollation(cfg, rc)

	assert.Equal(t, 3, report.BestK)
	require.Len(t, report.Scores, 3)
	for _, cs := range report.Scores {
		assert.True(t, cs.Scored, "candidate %d lost its computed score", cs.K)
		assert.False(t, cs.NotEvaluated)
	}
}

func TestRefitReproducesTheSweptChain(t *testing.T) {
	m := syntheticmatrix(t, 20, 60, 15, 8)
	cfg := quickcfg(2, 3)

	report, err := SelectTopicCount(context.Background(), m, cfg)
	require.NoError(t, err)

	mdl, err := Refit(context.Background(), m, report.BestK, cfg)
	require.NoError(t, err)

	kept := postBurnIn(mdl.LogLikelihoods(), cfg.BurnIn, cfg.SampleInterval)
	require.NotEmpty(t, kept)

	var swept float64
	for _, cs := range report.Scores {
		if cs.K == report.BestK {
			swept = cs.Score
		}
	}
	assert.InDelta(t, swept, HarmonicMeanScore(kept), 1e-12)
}

func TestFingerprintTracksInputs(t *testing.T) {
	m := syntheticmatrix(t, 10, 30, 10, 9)
	cfg := quickcfg(2, 3)

	fp := Fingerprint(m, cfg)
	assert.Len(t, fp, 32)
	assert.Equal(t, fp, Fingerprint(m, cfg))

	other := quickcfg(2, 3)
	other.Seed = 43
	assert.NotEqual(t, fp, Fingerprint(m, other))

	m2 := syntheticmatrix(t, 10, 30, 10, 10)
	assert.NotEqual(t, fp, Fingerprint(m2, cfg))
}
