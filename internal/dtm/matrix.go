//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package dtm

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/e-kling/PubMedTopicModeler/internal/lnch"
	"github.com/james-bowman/nlp"
	"github.com/james-bowman/sparse"
)

// nlp.CountVectoriser produces matrices with terms as rows and documents as columns;
// everything downstream assumes that orientation

var Msg = lnch.NewMessageMakerWithDefaults()

var (
	ErrNoDocuments = errors.New("no documents with any tokens")
	ErrNoTerms     = errors.New("no terms survived the frequency cutoff")
)

// CutoffPolicy - which terms are dropped after counting
type CutoffPolicy int

const (
	CutoffNone CutoffPolicy = iota
	// CutoffMedian keeps only terms whose mean tf-idf is at or above the corpus median
	CutoffMedian
)

// Matrix - a sparse document-term matrix plus its labels
type Matrix struct {
	counts *sparse.CSR
	vocab  []string
	labels []string // one per document column, e.g. PMIDs
	tokens int
}

// Build - bags of words in, counted (and optionally trimmed) matrix out
func Build(docs []string, labels []string, cutoff CutoffPolicy) (*Matrix, error) {
	const (
		MSG1 = "Build(): %d documents over %d terms (%d tokens)"
		MSG2 = "Build(): tf-idf cutoff dropped %d of %d terms"
	)

	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	if len(labels) != len(docs) {
		return nil, fmt.Errorf("have %d documents but %d labels", len(docs), len(labels))
	}

	any := false
	for i := range docs {
		if strings.TrimSpace(docs[i]) != "" {
			any = true
			break
		}
	}
	if !any {
		return nil, ErrNoDocuments
	}

	vectoriser := nlp.NewCountVectoriser()
	counted, err := vectoriser.FitTransform(docs...)
	if err != nil {
		return nil, fmt.Errorf("count vectorisation failed: %w", err)
	}

	// the vectoriser hands back a DOK; everything downstream wants CSR, whose
	// row-major DoNonZero order also keeps the cache fingerprint deterministic
	var csr *sparse.CSR
	switch cm := counted.(type) {
	case *sparse.CSR:
		csr = cm
	case *sparse.DOK:
		csr = cm.ToCSR()
	default:
		return nil, fmt.Errorf("count vectoriser yielded a %T, not a convertible sparse matrix", counted)
	}

	vocab := make([]string, len(vectoriser.Vocabulary))
	for w, i := range vectoriser.Vocabulary {
		vocab[i] = w
	}

	m := &Matrix{counts: csr, vocab: vocab, labels: labels}
	m.tokens = m.countTokens()

	if m.tokens == 0 {
		return nil, ErrNoDocuments
	}

	if cutoff == CutoffMedian {
		before := len(m.vocab)
		m, err = m.medianTfIdfCut()
		if err != nil {
			return nil, err
		}
		Msg.PEEK(fmt.Sprintf(MSG2, before-len(m.vocab), before))
	}

	Msg.FYI(fmt.Sprintf(MSG1, m.Docs(), m.Terms(), m.tokens))
	return m, nil
}

func (m *Matrix) Docs() int   { return len(m.labels) }
func (m *Matrix) Terms() int  { return len(m.vocab) }
func (m *Matrix) Tokens() int { return m.tokens }

// Count - occurrences of term t in document d
func (m *Matrix) Count(t int, d int) int { return int(m.counts.At(t, d)) }

// TermLabel - the word behind term index t
func (m *Matrix) TermLabel(t int) string { return m.vocab[t] }

// DocLabel - the identifier behind document column d
func (m *Matrix) DocLabel(d int) string { return m.labels[d] }

// Vocab - a copy of the vocabulary, index order
func (m *Matrix) Vocab() []string {
	v := make([]string, len(m.vocab))
	copy(v, m.vocab)
	return v
}

// DoNonZero - visit every non-zero cell as (term, doc, count)
func (m *Matrix) DoNonZero(fn func(t int, d int, c int)) {
	m.counts.DoNonZero(func(i int, j int, v float64) {
		fn(i, j, int(v))
	})
}

// DocTokens - document d expanded into a flat token list (term indices, counts unrolled)
func (m *Matrix) DocTokens(d int) []int {
	var toks []int
	for t := 0; t < m.Terms(); t++ {
		c := int(m.counts.At(t, d))
		for n := 0; n < c; n++ {
			toks = append(toks, t)
		}
	}
	return toks
}

func (m *Matrix) countTokens() int {
	tt := 0
	m.counts.DoNonZero(func(i int, j int, v float64) { tt += int(v) })
	return tt
}

// medianTfIdfCut - drop uninformative terms: for every term take the mean over its non-zero
// cells of (count / document length), scale by log2(ndocs / docfreq), and keep the terms at
// or above the median of that statistic
func (m *Matrix) medianTfIdfCut() (*Matrix, error) {
	nt := m.Terms()
	nd := m.Docs()

	doclen := make([]float64, nd)
	m.counts.DoNonZero(func(t int, d int, v float64) { doclen[d] += v })

	meantf := make([]float64, nt)
	docfreq := make([]float64, nt)
	m.counts.DoNonZero(func(t int, d int, v float64) {
		meantf[t] += v / doclen[d]
		docfreq[t]++
	})

	tfidf := make([]float64, nt)
	for t := 0; t < nt; t++ {
		if docfreq[t] == 0 {
			continue
		}
		tfidf[t] = (meantf[t] / docfreq[t]) * math.Log2(float64(nd)/docfreq[t])
	}

	med := median(tfidf)

	keep := make([]int, 0, nt)
	remap := make(map[int]int, nt)
	for t := 0; t < nt; t++ {
		if tfidf[t] >= med && docfreq[t] > 0 {
			remap[t] = len(keep)
			keep = append(keep, t)
		}
	}

	if len(keep) == 0 {
		return nil, ErrNoTerms
	}

	dok := sparse.NewDOK(len(keep), nd)
	m.counts.DoNonZero(func(t int, d int, v float64) {
		if nu, ok := remap[t]; ok {
			dok.Set(nu, d, v)
		}
	})

	vocab := make([]string, len(keep))
	for i, t := range keep {
		vocab[i] = m.vocab[t]
	}

	cut := &Matrix{counts: dok.ToCSR(), vocab: vocab, labels: m.labels}
	cut.tokens = cut.countTokens()
	if cut.tokens == 0 {
		return nil, ErrNoTerms
	}
	return cut, nil
}

func median(vals []float64) float64 {
	s := make([]float64, len(vals))
	copy(s, vals)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
