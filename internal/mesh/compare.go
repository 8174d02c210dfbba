//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package mesh

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// do the unsupervised topics line up with the curated MeSH indexing?
// cross-tabulate dominant topic × heading, then chi-square the table

var ErrDegenerateTable = errors.New("contingency table has no informative rows or columns")

// Crosstab - dominant topics (rows) against the most frequent MeSH headings (columns)
type Crosstab struct {
	Headings []string
	Topics   int
	Counts   [][]int // Counts[topic][heading]
	N        int
}

// Association - the chi-square verdict on a Crosstab
type Association struct {
	ChiSquare float64
	DoF       int
	PValue    float64
	CramersV  float64
}

// BuildCrosstab - tally each document under (its dominant topic, each of its headings);
// only the topn most frequent headings get a column; documents with dominant topic -1 are skipped
func BuildCrosstab(dominant []int, headings [][]string, k int, topn int) Crosstab {
	freq := make(map[string]int)
	for d := range headings {
		if d < len(dominant) && dominant[d] < 0 {
			continue
		}
		for _, h := range headings[d] {
			freq[h]++
		}
	}

	type hc struct {
		h string
		c int
	}
	byfreq := make([]hc, 0, len(freq))
	for h, c := range freq {
		byfreq = append(byfreq, hc{h: h, c: c})
	}
	sort.Slice(byfreq, func(i, j int) bool {
		if byfreq[i].c != byfreq[j].c {
			return byfreq[i].c > byfreq[j].c
		}
		return byfreq[i].h < byfreq[j].h
	})

	if topn > len(byfreq) {
		topn = len(byfreq)
	}

	cols := make([]string, topn)
	colidx := make(map[string]int, topn)
	for i := 0; i < topn; i++ {
		cols[i] = byfreq[i].h
		colidx[byfreq[i].h] = i
	}

	ct := Crosstab{Headings: cols, Topics: k, Counts: make([][]int, k)}
	for t := 0; t < k; t++ {
		ct.Counts[t] = make([]int, topn)
	}

	for d := range dominant {
		t := dominant[d]
		if t < 0 || t >= k || d >= len(headings) {
			continue
		}
		for _, h := range headings[d] {
			if ci, ok := colidx[h]; ok {
				ct.Counts[t][ci]++
				ct.N++
			}
		}
	}

	return ct
}

// Associate - Pearson chi-square over the table; rows and columns with a zero margin are
// dropped first so the expected counts stay positive
func (ct Crosstab) Associate() (Association, error) {
	rowsum := make([]int, ct.Topics)
	colsum := make([]int, len(ct.Headings))
	for t := range ct.Counts {
		for c, v := range ct.Counts[t] {
			rowsum[t] += v
			colsum[c] += v
		}
	}

	var rows, cols []int
	for t, s := range rowsum {
		if s > 0 {
			rows = append(rows, t)
		}
	}
	for c, s := range colsum {
		if s > 0 {
			cols = append(cols, c)
		}
	}

	if len(rows) < 2 || len(cols) < 2 || ct.N == 0 {
		return Association{}, ErrDegenerateTable
	}

	n := float64(ct.N)
	chi2 := 0.0
	for _, t := range rows {
		for _, c := range cols {
			expected := float64(rowsum[t]) * float64(colsum[c]) / n
			diff := float64(ct.Counts[t][c]) - expected
			chi2 += diff * diff / expected
		}
	}

	dof := (len(rows) - 1) * (len(cols) - 1)
	dist := distuv.ChiSquared{K: float64(dof)}
	p := 1 - dist.CDF(chi2)

	mindim := len(rows) - 1
	if len(cols)-1 < mindim {
		mindim = len(cols) - 1
	}
	v := math.Sqrt(chi2 / (n * float64(mindim)))

	return Association{ChiSquare: chi2, DoF: dof, PValue: p, CramersV: v}, nil
}
