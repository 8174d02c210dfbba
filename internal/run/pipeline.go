//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package run

import (
	"context"
	"fmt"
	"time"

	"github.com/e-kling/PubMedTopicModeler/internal/db"
	"github.com/e-kling/PubMedTopicModeler/internal/dtm"
	"github.com/e-kling/PubMedTopicModeler/internal/lda"
	"github.com/e-kling/PubMedTopicModeler/internal/lnch"
	"github.com/e-kling/PubMedTopicModeler/internal/mesh"
	"github.com/e-kling/PubMedTopicModeler/internal/ncbi"
	"github.com/e-kling/PubMedTopicModeler/internal/sel"
	"github.com/e-kling/PubMedTopicModeler/internal/str"
	"github.com/e-kling/PubMedTopicModeler/internal/tprep"
	"github.com/e-kling/PubMedTopicModeler/internal/vv"
)

var Msg = lnch.NewMessageMakerWithDefaults()

// Outcome - everything one full pipeline pass produces
type Outcome struct {
	Query     string
	Abstracts []str.DbAbstract
	Matrix    *dtm.Matrix
	Report    sel.Report
	Model     *lda.Model
	Crosstab  mesh.Crosstab
	FromCache bool
}

// FetchAndStore - esearch + efetch a pubmed query and upsert the abstracts
func FetchAndStore(ctx context.Context, query string, retmax int) (int, error) {
	const (
		MSG1 = "FetchAndStore(): '%s' yielded %d abstracts"
	)

	cl := ncbi.NewClient()
	defer cl.Close()

	pmids, err := cl.Search(ctx, query, retmax)
	if err != nil {
		return 0, fmt.Errorf("pubmed search failed: %w", err)
	}
	if len(pmids) == 0 {
		return 0, fmt.Errorf("pubmed query %q matched nothing", query)
	}

	abstracts, err := cl.Fetch(ctx, pmids)
	if err != nil {
		return 0, fmt.Errorf("pubmed fetch failed: %w", err)
	}

	db.StoreAbstracts(abstracts)
	Msg.NOTE(fmt.Sprintf(MSG1, query, len(abstracts)))
	return len(abstracts), nil
}

// Sweep - the core pass: stored abstracts → bags → matrix → candidate sweep → refit of the winner
func Sweep(ctx context.Context, cfg *str.CurrentConfiguration) (*Outcome, error) {
	const (
		MSG1 = "Sweep(): fingerprint %s already cached; skipping %d candidates"
		MSG2 = "Sweep(): corpus is %d documents over %d terms"
	)

	abstracts := db.LoadAbstracts()
	if len(abstracts) == 0 {
		return nil, fmt.Errorf("no abstracts stored; fetch a query first")
	}

	bags := tprep.BuildBags(abstracts, nil)

	docs := make([]string, len(bags))
	labels := make([]string, len(bags))
	for i := range bags {
		docs[i] = bags[i].Bag
		labels[i] = bags[i].PMID
	}

	matrix, err := dtm.Build(docs, labels, dtm.CutoffMedian)
	if err != nil {
		return nil, err
	}
	Msg.FYI(fmt.Sprintf(MSG2, matrix.Docs(), matrix.Terms()))

	swp := sel.SweepConfig{
		Candidates:     cfg.Sweep.Candidates,
		BurnIn:         cfg.Sweep.BurnIn,
		Iterations:     cfg.Sweep.Iterations,
		SampleInterval: cfg.Sweep.SampleInterval,
		Seed:           cfg.Seed,
		Workers:        cfg.WorkerCount,
	}

	if cfg.TimeBudget > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, cfg.TimeBudget)
		defer stop()
	}

	out := &Outcome{Query: cfg.PubMedQuery, Abstracts: abstracts, Matrix: matrix}

	fp := sel.Fingerprint(matrix, swp)
	if db.TopicDBCheck(fp) {
		out.Report = db.TopicDBFetch(fp)
		out.FromCache = true
		Msg.NOTE(fmt.Sprintf(MSG1, fp, len(swp.Candidates)))
	} else {
		report, err := sel.SelectTopicCount(ctx, matrix, swp)
		if err != nil {
			return nil, err
		}
		out.Report = report
		db.TopicDBAdd(fp, report)
	}

	// a second chain at the winning k gives us φ, θ, and the dominant topics for reporting
	mdl, err := sel.Refit(ctx, matrix, out.Report.BestK, swp)
	if err != nil {
		return nil, err
	}
	out.Model = mdl

	headings := make([][]string, len(abstracts))
	for i := range abstracts {
		headings[i] = abstracts[i].Headings
	}
	dom, err := mdl.DominantTopics()
	if err != nil {
		return nil, err
	}
	out.Crosstab = mesh.BuildCrosstab(dom, headings, out.Report.BestK, vv.TOPMESHHEADINGS)

	return out, nil
}

// ReportSummary - a terminal-friendly synopsis of a finished pipeline pass
func ReportSummary(out *Outcome) string {
	const (
		HD  = "S1Best topic count: C2%dC0 S1(run %s; %v)S0\n"
		LN  = "\tk = %d\tscore = %.2f\n"
		BAD = "\tk = %d\t%s\n"
	)

	s := Msg.ColStyle(fmt.Sprintf(HD, out.Report.BestK, out.Report.RunID, out.Report.Elapsed.Truncate(time.Millisecond)))
	for _, cs := range out.Report.Scores {
		if cs.Scored {
			s += fmt.Sprintf(LN, cs.K, cs.Score)
		} else {
			s += fmt.Sprintf(BAD, cs.K, cs.ErrKind)
		}
	}
	return s
}
