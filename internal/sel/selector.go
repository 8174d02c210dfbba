//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package sel

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/e-kling/PubMedTopicModeler/internal/dtm"
	"github.com/e-kling/PubMedTopicModeler/internal/lda"
	"github.com/e-kling/PubMedTopicModeler/internal/lnch"
	"github.com/google/uuid"
)

var Msg = lnch.NewMessageMakerWithDefaults()

// SweepConfig - everything one sweep needs beyond the matrix itself
type SweepConfig struct {
	Candidates     []int
	BurnIn         int
	Iterations     int
	SampleInterval int
	Alpha          float64 // 0 defers to the per-candidate default of 50/k
	Beta           float64 // 0 defers to 0.1
	Seed           uint64  // candidate k is fitted with Seed + k
	Workers        int     // 0 means NumCPU
}

// CandidateScore - the outcome for one candidate topic count
type CandidateScore struct {
	K            int     `json:"k"`
	Score        float64 `json:"score"`
	Scored       bool    `json:"scored"`
	ErrKind      string  `json:"errkind,omitempty"`
	ErrMsg       string  `json:"errmsg,omitempty"`
	NotEvaluated bool    `json:"notevaluated,omitempty"`
	Err          error   `json:"-"`
}

// Value - the score as a float; NaN when this candidate was never scored
func (cs CandidateScore) Value() float64 {
	if !cs.Scored {
		return math.NaN()
	}
	return cs.Score
}

// Report - one finished sweep; Scores preserves the order the candidates were requested in
type Report struct {
	RunID   string           `json:"runid"`
	BestK   int              `json:"bestk"`
	Scores  []CandidateScore `json:"scores"`
	Seed    uint64           `json:"seed"`
	Elapsed time.Duration    `json:"elapsed"`
}

// candidateresult - what travels over the fan-in channel
type candidateresult struct {
	k     int
	score float64
	err   error
}

// SelectTopicCount - fit every candidate, score each likelihood chain, pick the winner.
// Per-candidate failures are recorded in the Report; the call itself errors only when the
// request is malformed or when no candidate could be scored at all.
func SelectTopicCount(ctx context.Context, m *dtm.Matrix, cfg SweepConfig) (Report, error) {
	// see https://go.dev/blog/pipelines : Fan-out, fan-in & Explicit cancellation

	const (
		MSG1 = "SelectTopicCount(): sweeping %d candidates over %d docs × %d terms with %d workers"
		MSG2 = "SelectTopicCount(): best k = %d (score %.2f) after %v"
	)

	start := time.Now()

	if err := validate(m, cfg); err != nil {
		return Report{}, err
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	Msg.FYI(fmt.Sprintf(MSG1, len(cfg.Candidates), m.Docs(), m.Terms(), workers))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// [a] load the candidates into a channel
	candidatechannel := CandidateFeeder(ctx, cfg.Candidates)

	// [b] fan out: each worker pulls candidates and fits a full chain per candidate
	scorechannels := make([]<-chan candidateresult, workers)
	for i := 0; i < workers; i++ {
		scorechannels[i] = CandidateScorer(ctx, m, cfg, candidatechannel)
	}

	// [c] fan in to a single result channel
	resultchan := ScoreAggregator(ctx, scorechannels...)

	// [d] collate; candidates the context killed before evaluation stay marked NotEvaluated
	report := FinalScoreCollation(cfg, resultchan)
	report.Elapsed = time.Since(start)

	if report.BestK == 0 {
		return report, fmt.Errorf("%w: %d candidates attempted", ErrAllCandidatesFailed, len(cfg.Candidates))
	}

	Msg.NOTE(fmt.Sprintf(MSG2, report.BestK, bestscore(report), report.Elapsed.Truncate(time.Millisecond)))
	return report, nil
}

// validate - malformed requests fail before any sampling starts
func validate(m *dtm.Matrix, cfg SweepConfig) error {
	if m == nil || m.Tokens() == 0 {
		return dtm.ErrNoDocuments
	}
	if len(cfg.Candidates) == 0 {
		return fmt.Errorf("no candidate topic counts supplied")
	}
	if cfg.Iterations < 1 || cfg.SampleInterval < 1 || cfg.BurnIn < 0 {
		return fmt.Errorf("iterations (%d) and sample interval (%d) must be positive; burn-in (%d) must be non-negative",
			cfg.Iterations, cfg.SampleInterval, cfg.BurnIn)
	}
	for _, k := range cfg.Candidates {
		// more topics than documents destabilizes the chain
		if k < 1 || k >= m.Docs() {
			return InvalidCandidateError{K: k, Docs: m.Docs()}
		}
	}
	return nil
}

// CandidateFeeder - emit candidates to a channel; they will be consumed by the CandidateScorers
func CandidateFeeder(ctx context.Context, candidates []int) <-chan int {
	emitcandidates := make(chan int, len(candidates))

	feed := func() {
		defer close(emitcandidates)
		for i := 0; i < len(candidates); i++ {
			select {
			case <-ctx.Done():
				return
			default:
				emitcandidates <- candidates[i]
			}
		}
	}

	go feed()

	return emitcandidates
}

// CandidateScorer - this is where the fitting happens... grab a candidate; run the chain; emit the score
func CandidateScorer(ctx context.Context, m *dtm.Matrix, cfg SweepConfig, candidatechannel <-chan int) <-chan candidateresult {
	scorechannel := make(chan candidateresult)

	consume := func() {
		defer close(scorechannel)
		for k := range candidatechannel {
			select {
			case <-ctx.Done():
				return
			default:
				r := scoreonecandidate(ctx, m, cfg, k)
				if errors.Is(r.err, context.Canceled) || errors.Is(r.err, context.DeadlineExceeded) {
					// the clock ran out mid-chain; this candidate was never evaluated
					return
				}
				select {
				case scorechannel <- r:
				case <-ctx.Done():
					return
				}
			}
		}
	}

	go consume()

	return scorechannel
}

// scoreonecandidate - one full fit-and-score; Seed + k keeps the draw independent of worker scheduling
func scoreonecandidate(ctx context.Context, m *dtm.Matrix, cfg SweepConfig, k int) candidateresult {
	if cfg.BurnIn/cfg.SampleInterval >= cfg.Iterations/cfg.SampleInterval {
		return candidateresult{k: k, err: InsufficientSamplesError{
			K: k, BurnIn: cfg.BurnIn, Iterations: cfg.Iterations, SampleInterval: cfg.SampleInterval,
		}}
	}

	mdl := lda.NewModel(m, k, lda.Config{
		Alpha:          cfg.Alpha,
		Beta:           cfg.Beta,
		Iterations:     cfg.Iterations,
		SampleInterval: cfg.SampleInterval,
		Seed:           cfg.Seed + uint64(k),
	})

	if err := mdl.Fit(ctx); err != nil {
		return candidateresult{k: k, err: ModelFitError{K: k, Err: err}}
	}

	kept := postBurnIn(mdl.LogLikelihoods(), cfg.BurnIn, cfg.SampleInterval)
	if len(kept) == 0 {
		return candidateresult{k: k, err: InsufficientSamplesError{
			K: k, BurnIn: cfg.BurnIn, Iterations: cfg.Iterations, SampleInterval: cfg.SampleInterval,
		}}
	}

	return candidateresult{k: k, score: HarmonicMeanScore(kept)}
}

// ScoreAggregator - gather the results from every worker into one channel
func ScoreAggregator(ctx context.Context, scorechannels ...<-chan candidateresult) <-chan candidateresult {
	var wg sync.WaitGroup
	resultchann := make(chan candidateresult)

	broadcast := func(sc <-chan candidateresult) {
		defer wg.Done()
		for r := range sc {
			select {
			case resultchann <- r:
			case <-ctx.Done():
				return
			}
		}
	}

	wg.Add(len(scorechannels))
	for _, sc := range scorechannels {
		go broadcast(sc)
	}

	go func() {
		wg.Wait()
		close(resultchann)
	}()

	return resultchann
}

// FinalScoreCollation - pull results off the aggregator and build the Report
func FinalScoreCollation(cfg SweepConfig, resultchan <-chan candidateresult) Report {
	const (
		MSG1 = "candidate %d scored %.2f"
		MSG2 = "candidate %d failed: %s"
	)

	byk := make(map[int]candidateresult, len(cfg.Candidates))

	// drain until the workers close the channel: cancellation stops new fits, but a
	// score that finished just before the deadline still lands in the report
	for r := range resultchan {
		byk[r.k] = r
		if r.err == nil {
			Msg.PEEK(fmt.Sprintf(MSG1, r.k, r.score))
		} else {
			Msg.WARN(fmt.Sprintf(MSG2, r.k, r.err.Error()))
		}
	}

	report := Report{RunID: uuid.New().String(), Seed: cfg.Seed, Scores: make([]CandidateScore, len(cfg.Candidates))}

	bestk := 0
	best := math.Inf(-1)

	for i, k := range cfg.Candidates {
		r, evaluated := byk[k]
		switch {
		case !evaluated:
			report.Scores[i] = CandidateScore{K: k, NotEvaluated: true, ErrKind: KINDNOTEVALUATED}
		case r.err != nil:
			report.Scores[i] = CandidateScore{K: k, Err: r.err, ErrKind: errkind(r.err), ErrMsg: r.err.Error()}
		default:
			report.Scores[i] = CandidateScore{K: k, Score: r.score, Scored: true}
			// ties break toward the smaller topic count
			if r.score > best || (r.score == best && k < bestk) {
				best = r.score
				bestk = k
			}
		}
	}

	report.BestK = bestk
	return report
}

// Refit - fit the winning candidate again; Seed + k reproduces the exact chain the sweep scored
func Refit(ctx context.Context, m *dtm.Matrix, k int, cfg SweepConfig) (*lda.Model, error) {
	mdl := lda.NewModel(m, k, lda.Config{
		Alpha:          cfg.Alpha,
		Beta:           cfg.Beta,
		Iterations:     cfg.Iterations,
		SampleInterval: cfg.SampleInterval,
		Seed:           cfg.Seed + uint64(k),
	})
	if err := mdl.Fit(ctx); err != nil {
		return nil, ModelFitError{K: k, Err: err}
	}
	return mdl, nil
}

// Fingerprint - md5 over the corpus (shape, labels, vocabulary, counts) and the sweep settings; the cache key
func Fingerprint(m *dtm.Matrix, cfg SweepConfig) string {
	h := md5.New()

	_, _ = fmt.Fprintf(h, "%dx%d:%d:", m.Docs(), m.Terms(), m.Tokens())
	for d := 0; d < m.Docs(); d++ {
		_, _ = fmt.Fprintf(h, "%s,", m.DocLabel(d))
	}
	for _, w := range m.Vocab() {
		_, _ = fmt.Fprintf(h, "%s,", w)
	}
	m.DoNonZero(func(t int, d int, c int) {
		_, _ = fmt.Fprintf(h, "%d.%d.%d;", t, d, c)
	})
	_, _ = fmt.Fprintf(h, "%v:%d:%d:%d:%g:%g:%d",
		cfg.Candidates, cfg.BurnIn, cfg.Iterations, cfg.SampleInterval, cfg.Alpha, cfg.Beta, cfg.Seed)

	return hex.EncodeToString(h.Sum(nil))
}

func bestscore(r Report) float64 {
	for _, cs := range r.Scores {
		if cs.K == r.BestK && cs.Scored {
			return cs.Score
		}
	}
	return math.NaN()
}
