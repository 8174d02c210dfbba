//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lda

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/e-kling/PubMedTopicModeler/internal/dtm"
	"github.com/e-kling/PubMedTopicModeler/internal/vv"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// collapsed Gibbs sampling over a document-term matrix: z[d][n] is resampled from
// p(z=k | rest) ∝ (wt[w][k]+β)/(wts[k]+Wβ) · (dt[d][k]+α); the theta denominator is
// constant per token and drops out of the draw

var (
	ErrNotFitted   = errors.New("model has not been fitted")
	ErrEmptyCorpus = errors.New("matrix contains no tokens")
)

// Config - the knobs for one fit
type Config struct {
	Alpha          float64 // 0 means vv.LDAALPHAFACTOR / k
	Beta           float64 // 0 means vv.LDABETA
	Iterations     int
	SampleInterval int // record corpus log-likelihood every SampleInterval iterations
	Seed           uint64
}

// Model - one LDA fit over a matrix at a fixed topic count
type Model struct {
	k   int
	m   *dtm.Matrix
	cfg Config

	docs   [][]int // expanded token lists, term index per token
	assign [][]int // topic per token, parallel to docs

	wt  [][]int // wt[term][topic]
	dt  [][]int // dt[doc][topic]
	wts []int   // tokens per topic

	lls    []float64
	fitted bool
}

// NewModel - allocate a model; nothing is sampled until Fit
func NewModel(m *dtm.Matrix, k int, cfg Config) *Model {
	if cfg.Alpha == 0 {
		cfg.Alpha = vv.LDAALPHAFACTOR / float64(k)
	}
	if cfg.Beta == 0 {
		cfg.Beta = vv.LDABETA
	}
	return &Model{k: k, m: m, cfg: cfg}
}

func (mdl *Model) K() int { return mdl.k }

// Fit - run the chain; safe to call once per model
func (mdl *Model) Fit(ctx context.Context) error {
	if mdl.k < 1 {
		return fmt.Errorf("topic count must be positive, have %d", mdl.k)
	}
	if mdl.m.Tokens() == 0 {
		return ErrEmptyCorpus
	}

	rng := rand.New(rand.NewSource(mdl.cfg.Seed))
	mdl.initialize(rng)

	cumprob := make([]float64, mdl.k)

	for it := 1; it <= mdl.cfg.Iterations; it++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			// keep sampling
		}

		mdl.sweep(rng, cumprob)

		if mdl.cfg.SampleInterval > 0 && it%mdl.cfg.SampleInterval == 0 {
			mdl.lls = append(mdl.lls, mdl.loglikelihood())
		}
	}

	mdl.fitted = true
	return nil
}

// initialize - scatter every token over the topics uniformly at random
func (mdl *Model) initialize(rng *rand.Rand) {
	nd := mdl.m.Docs()
	nt := mdl.m.Terms()

	mdl.docs = make([][]int, nd)
	mdl.assign = make([][]int, nd)
	mdl.dt = make([][]int, nd)
	mdl.wt = make([][]int, nt)
	mdl.wts = make([]int, mdl.k)

	for t := 0; t < nt; t++ {
		mdl.wt[t] = make([]int, mdl.k)
	}

	for d := 0; d < nd; d++ {
		mdl.docs[d] = mdl.m.DocTokens(d)
		mdl.assign[d] = make([]int, len(mdl.docs[d]))
		mdl.dt[d] = make([]int, mdl.k)

		for n, w := range mdl.docs[d] {
			z := rng.Intn(mdl.k)
			mdl.assign[d][n] = z
			mdl.wt[w][z]++
			mdl.dt[d][z]++
			mdl.wts[z]++
		}
	}
}

// sweep - one full pass: unassign each token, then redraw its topic from the conditional
func (mdl *Model) sweep(rng *rand.Rand, cumprob []float64) {
	wbeta := float64(mdl.m.Terms()) * mdl.cfg.Beta

	for d := range mdl.docs {
		for n, w := range mdl.docs[d] {
			z := mdl.assign[d][n]
			mdl.wt[w][z]--
			mdl.dt[d][z]--
			mdl.wts[z]--

			run := 0.0
			for k := 0; k < mdl.k; k++ {
				p := (float64(mdl.wt[w][k]) + mdl.cfg.Beta) / (float64(mdl.wts[k]) + wbeta) *
					(float64(mdl.dt[d][k]) + mdl.cfg.Alpha)
				run += p
				cumprob[k] = run
			}

			u := rng.Float64() * run
			z = sort.SearchFloat64s(cumprob, u)
			if z == mdl.k {
				z = mdl.k - 1
			}

			mdl.assign[d][n] = z
			mdl.wt[w][z]++
			mdl.dt[d][z]++
			mdl.wts[z]++
		}
	}
}

// loglikelihood - corpus log-likelihood under the current counts:
// Σ over tokens of log Σ_k φ[w,k]·θ[d,k]
func (mdl *Model) loglikelihood() float64 {
	wbeta := float64(mdl.m.Terms()) * mdl.cfg.Beta
	kalpha := float64(mdl.k) * mdl.cfg.Alpha

	ll := 0.0
	for d := range mdl.docs {
		dlen := float64(len(mdl.docs[d]))
		for _, w := range mdl.docs[d] {
			p := 0.0
			for k := 0; k < mdl.k; k++ {
				phi := (float64(mdl.wt[w][k]) + mdl.cfg.Beta) / (float64(mdl.wts[k]) + wbeta)
				theta := (float64(mdl.dt[d][k]) + mdl.cfg.Alpha) / (dlen + kalpha)
				p += phi * theta
			}
			ll += math.Log(p)
		}
	}
	return ll
}

// LogLikelihoods - the recorded chain, one value per SampleInterval
func (mdl *Model) LogLikelihoods() []float64 {
	out := make([]float64, len(mdl.lls))
	copy(out, mdl.lls)
	return out
}

// Phi - topics over terms (k × terms), row-normalized
func (mdl *Model) Phi() (*mat.Dense, error) {
	if !mdl.fitted {
		return nil, ErrNotFitted
	}
	wbeta := float64(mdl.m.Terms()) * mdl.cfg.Beta

	phi := mat.NewDense(mdl.k, mdl.m.Terms(), nil)
	for k := 0; k < mdl.k; k++ {
		den := float64(mdl.wts[k]) + wbeta
		for t := 0; t < mdl.m.Terms(); t++ {
			phi.Set(k, t, (float64(mdl.wt[t][k])+mdl.cfg.Beta)/den)
		}
	}
	return phi, nil
}

// Theta - topics over documents (k × docs), column-normalized
func (mdl *Model) Theta() (*mat.Dense, error) {
	if !mdl.fitted {
		return nil, ErrNotFitted
	}
	kalpha := float64(mdl.k) * mdl.cfg.Alpha

	theta := mat.NewDense(mdl.k, mdl.m.Docs(), nil)
	for d := range mdl.docs {
		den := float64(len(mdl.docs[d])) + kalpha
		for k := 0; k < mdl.k; k++ {
			theta.Set(k, d, (float64(mdl.dt[d][k])+mdl.cfg.Alpha)/den)
		}
	}
	return theta, nil
}

// DominantTopics - the most probable topic per document; empty documents get -1
func (mdl *Model) DominantTopics() ([]int, error) {
	if !mdl.fitted {
		return nil, ErrNotFitted
	}

	dom := make([]int, mdl.m.Docs())
	for d := range mdl.docs {
		if len(mdl.docs[d]) == 0 {
			dom[d] = -1
			continue
		}
		best, bestc := 0, -1
		for k := 0; k < mdl.k; k++ {
			if mdl.dt[d][k] > bestc {
				best, bestc = k, mdl.dt[d][k]
			}
		}
		dom[d] = best
	}
	return dom, nil
}

// TopTerms - the n highest-probability terms for one topic
func (mdl *Model) TopTerms(topic int, n int) ([]string, error) {
	terms, _, err := mdl.TopTermWeights(topic, n)
	return terms, err
}

// TopTermWeights - the n highest-probability terms for one topic along with their φ weights
func (mdl *Model) TopTermWeights(topic int, n int) ([]string, []float64, error) {
	if !mdl.fitted {
		return nil, nil, ErrNotFitted
	}
	if topic < 0 || topic >= mdl.k {
		return nil, nil, fmt.Errorf("topic %d out of range [0,%d)", topic, mdl.k)
	}

	type tw struct {
		t int
		c int
	}
	byweight := make([]tw, mdl.m.Terms())
	for t := 0; t < mdl.m.Terms(); t++ {
		byweight[t] = tw{t: t, c: mdl.wt[t][topic]}
	}
	sort.Slice(byweight, func(i, j int) bool {
		if byweight[i].c != byweight[j].c {
			return byweight[i].c > byweight[j].c
		}
		return byweight[i].t < byweight[j].t
	})

	if n > len(byweight) {
		n = len(byweight)
	}

	wbeta := float64(mdl.m.Terms()) * mdl.cfg.Beta
	den := float64(mdl.wts[topic]) + wbeta

	terms := make([]string, n)
	weights := make([]float64, n)
	for i := 0; i < n; i++ {
		terms[i] = mdl.m.TermLabel(byweight[i].t)
		weights[i] = (float64(byweight[i].c) + mdl.cfg.Beta) / den
	}
	return terms, weights, nil
}
