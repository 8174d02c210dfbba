//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package vgraph

import (
	"fmt"
	"math"

	"github.com/danaugrs/go-tsne/tsne"
	"github.com/e-kling/PubMedTopicModeler/internal/dtm"
	"github.com/e-kling/PubMedTopicModeler/internal/lda"
	"github.com/e-kling/PubMedTopicModeler/internal/lnch"
	"github.com/e-kling/PubMedTopicModeler/internal/mesh"
	"github.com/e-kling/PubMedTopicModeler/internal/sel"
	"github.com/e-kling/PubMedTopicModeler/internal/vv"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/mat"
)

//
// THE CHARTS: score-by-k; top terms per topic; wordclouds; topic × MeSH heatmap; t-SNE scatter
//

// ScoreLine - harmonic mean score by candidate topic count; the shape a reader eyeballs for the elbow
func ScoreLine(report sel.Report) *charts.Line {
	const (
		TITLESTR = "Harmonic mean log-likelihood by topic count"
		SUBSTR   = "best k = %d; seed = %d; failed candidates are omitted"
		SERIES   = "score"
	)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartwidth(), Height: chartheight()}),
		charts.WithTitleOpts(opts.Title{Title: TITLESTR, Subtitle: fmt.Sprintf(SUBSTR, report.BestK, report.Seed)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithYAxisOpts(opts.YAxis{Scale: true}),
	)

	var xx []string
	var yy []opts.LineData
	for _, cs := range report.Scores {
		if !cs.Scored {
			continue
		}
		xx = append(xx, fmt.Sprintf("%d", cs.K))
		yy = append(yy, opts.LineData{Value: cs.Score})
	}

	line.SetXAxis(xx).AddSeries(SERIES, yy,
		charts.WithLabelOpts(opts.Label{Show: false}),
	)
	return line
}

// TopicTermBars - one bar chart per topic: the heaviest terms and their φ weights
func TopicTermBars(mdl *lda.Model, topn int) ([]*charts.Bar, error) {
	const (
		TITLESTR = "Topic %d of %d"
		SERIES   = "φ"
	)

	bars := make([]*charts.Bar, mdl.K())
	for topic := 0; topic < mdl.K(); topic++ {
		terms, weights, err := mdl.TopTermWeights(topic, topn)
		if err != nil {
			return nil, err
		}

		bb := make([]opts.BarData, len(weights))
		for i, w := range weights {
			bb[i] = opts.BarData{Value: w}
		}

		bar := charts.NewBar()
		bar.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{Width: chartwidth(), Height: "400px"}),
			charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf(TITLESTR, topic+1, mdl.K())}),
			charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		)
		bar.SetXAxis(terms).AddSeries(SERIES, bb)
		bars[topic] = bar
	}
	return bars, nil
}

// TopicWordCloud - one topic as a cloud; size tracks φ
func TopicWordCloud(mdl *lda.Model, topic int, topn int) (*charts.WordCloud, error) {
	const (
		TITLESTR = "Topic %d of %d"
	)

	terms, weights, err := mdl.TopTermWeights(topic, topn)
	if err != nil {
		return nil, err
	}

	wcd := make([]opts.WordCloudData, len(terms))
	for i := range terms {
		wcd[i] = opts.WordCloudData{Name: terms[i], Value: float32(weights[i])}
	}

	wc := charts.NewWordCloud()
	wc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartwidth(), Height: "500px"}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf(TITLESTR, topic+1, mdl.K())}),
	)
	wc.AddSeries("", wcd).SetSeriesOptions(
		// the misspelled option name is go-echarts' own
		charts.WithWorldCloudChartOpts(opts.WordCloudChart{
			SizeRange: []float32{14, 60},
			Shape:     "circle",
		}),
	)
	return wc, nil
}

// MeshHeatmap - dominant topic (rows) × MeSH heading (columns)
func MeshHeatmap(ct mesh.Crosstab) *charts.HeatMap {
	const (
		TITLESTR = "Dominant topics × MeSH headings"
	)

	maxc := 0
	var hmd []opts.HeatMapData
	for t := range ct.Counts {
		for c, v := range ct.Counts[t] {
			hmd = append(hmd, opts.HeatMapData{Value: [3]interface{}{c, t, v}})
			if v > maxc {
				maxc = v
			}
		}
	}

	rows := make([]string, ct.Topics)
	for t := 0; t < ct.Topics; t++ {
		rows[t] = fmt.Sprintf("topic %d", t+1)
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartwidth(), Height: chartheight()}),
		charts.WithTitleOpts(opts.Title{Title: TITLESTR}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			Data:      ct.Headings,
			SplitArea: &opts.SplitArea{Show: true},
			AxisLabel: &opts.AxisLabel{Rotate: 45, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Data:      rows,
			SplitArea: &opts.SplitArea{Show: true},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: true,
			Min:        0,
			Max:        float32(maxc),
		}),
	)

	hm.AddSeries("documents", hmd)
	return hm
}

// TopicScatter - t-SNE embedding of θ: every document as a point, one series per dominant topic
func TopicScatter(mdl *lda.Model, m *dtm.Matrix) (*charts.Scatter, error) {
	const (
		PERPLEX  = 150 // default 300
		LEARNRT  = 100 // default 100
		MAXITER  = 150 // default 300
		VERBOSE  = false
		TITLESTR = "Documents in topic space (t-SNE of θ)"
		SERIES   = "topic %d"
		SYMSZ    = 10
	)

	theta, err := mdl.Theta()
	if err != nil {
		return nil, err
	}
	dom, err := mdl.DominantTopics()
	if err != nil {
		return nil, err
	}

	// theta is topics × docs; the embedder wants one row per document
	kr, dc := theta.Dims()
	dd := make([]float64, 0, kr*dc)
	for doc := 0; doc < dc; doc++ {
		for topic := 0; topic < kr; topic++ {
			dd = append(dd, theta.At(topic, doc))
		}
	}
	wv := mat.NewDense(dc, kr, dd)

	t := tsne.NewTSNE(2, PERPLEX, LEARNRT, MAXITER, VERBOSE)
	t.EmbedData(wv, nil)

	perseries := make(map[int][]opts.ScatterData)
	for doc := 0; doc < dc; doc++ {
		if dom[doc] < 0 {
			continue
		}
		x := t.Y.At(doc, 0)
		y := t.Y.At(doc, 1)
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		perseries[dom[doc]] = append(perseries[dom[doc]], opts.ScatterData{
			Name:       m.DocLabel(doc),
			Value:      []interface{}{x, y},
			Symbol:     "circle",
			SymbolSize: SYMSZ,
		})
	}

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartwidth(), Height: chartheight()}),
		charts.WithTitleOpts(opts.Title{Title: TITLESTR}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Formatter: "{b}"}),
		charts.WithXAxisOpts(opts.XAxis{Scale: true}),
		charts.WithYAxisOpts(opts.YAxis{Scale: true}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
	)

	for topic := 0; topic < mdl.K(); topic++ {
		if pts, ok := perseries[topic]; ok {
			sc.AddSeries(fmt.Sprintf(SERIES, topic+1), pts)
		}
	}
	return sc, nil
}

func chartwidth() string {
	if lnch.Config != nil && lnch.Config.ChartWidth != "" {
		return lnch.Config.ChartWidth
	}
	return vv.DEFAULTCHRTWIDTH
}

func chartheight() string {
	if lnch.Config != nil && lnch.Config.ChartHeight != "" {
		return lnch.Config.ChartHeight
	}
	return vv.DEFAULTCHRTHEIGHT
}
