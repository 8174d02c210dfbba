//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package main

import (
	"context"
	"fmt"

	"github.com/e-kling/PubMedTopicModeler/internal/db"
	"github.com/e-kling/PubMedTopicModeler/internal/lnch"
	"github.com/e-kling/PubMedTopicModeler/internal/mm"
	"github.com/e-kling/PubMedTopicModeler/internal/run"
	"github.com/e-kling/PubMedTopicModeler/internal/vgraph"
	"github.com/e-kling/PubMedTopicModeler/internal/vv"
	"github.com/e-kling/PubMedTopicModeler/web"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/pkg/profile"
)

var Msg = lnch.NewMessageMakerWithDefaults()

func main() {
	const (
		NOTHING = "Nothing to do. Either fetch and sweep a query ('-q') or start the server ('-ws'). Try '-h' for help."
	)

	lnch.LookForConfigFile()
	lnch.ConfigAtLaunch()
	cfg := *lnch.Config

	Msg.SetLogLevel(cfg.LogLevel)
	Msg.SetBW(cfg.BlackAndWhite)

	if !cfg.QuietStart {
		lnch.PrintVersion(cfg)
		lnch.PrintBuildInfo(cfg)
	}

	// go tool pprof --pdf ./PubMedTopicModeler ./cpu.pprof > profile.pdf
	if cfg.ProfileCPU {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	} else if cfg.ProfileMEM {
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	}

	db.SQLPool = db.FillDBConnectionPool(cfg)

	if cfg.ResetCache {
		db.TopicDBReset()
		db.TopicDBInit()
	}

	db.AbstractDBCount(mm.MSGFYI)
	db.TopicDBCount(mm.MSGFYI)

	if cfg.PubMedQuery != "" {
		_, err := run.FetchAndStore(context.Background(), cfg.PubMedQuery, cfg.RetMax)
		Msg.EC(err)
	}

	switch {
	case cfg.WebUI:
		web.StartEchoServer()
	case cfg.PubMedQuery != "":
		oneshot(cfg.ChartDir)
	default:
		Msg.MAND(NOTHING)
	}
}

// oneshot - sweep the stored abstracts once, print the scores, and write every chart to the report directory
func oneshot(chartdir string) {
	const (
		MSG1 = "one-shot sweep starting; '%s' will hold the charts"
	)

	Msg.NOTE(fmt.Sprintf(MSG1, chartdir))

	out, err := run.Sweep(context.Background(), lnch.Config)
	Msg.EC(err)

	fmt.Println(run.ReportSummary(out))

	vgraph.WriteChartPage(chartdir, "scores.html", "Scores by topic count", vgraph.ScoreLine(out.Report))

	bars, err := vgraph.TopicTermBars(out.Model, vv.TOPTERMSPERTOPIC)
	Msg.EC(err)
	bc := make([]components.Charter, len(bars))
	for i := range bars {
		bc[i] = bars[i]
	}
	vgraph.WriteChartPage(chartdir, "topics.html", "Top terms per topic", bc...)

	wc := make([]components.Charter, out.Model.K())
	for topic := 0; topic < out.Model.K(); topic++ {
		cloud, e := vgraph.TopicWordCloud(out.Model, topic, vv.TOPTERMSPERTOPIC*3)
		Msg.EC(e)
		wc[topic] = cloud
	}
	vgraph.WriteChartPage(chartdir, "clouds.html", "Topic wordclouds", wc...)

	vgraph.WriteChartPage(chartdir, "mesh.html", "Topics × MeSH", vgraph.MeshHeatmap(out.Crosstab))

	if assoc, e := out.Crosstab.Associate(); e == nil {
		Msg.NOTE(fmt.Sprintf("topic/MeSH association: χ² = %.2f (dof %d; p = %.4f; V = %.3f)",
			assoc.ChiSquare, assoc.DoF, assoc.PValue, assoc.CramersV))
	}

	sc, err := vgraph.TopicScatter(out.Model, out.Matrix)
	Msg.EC(err)
	vgraph.WriteChartPage(chartdir, "tsne.html", "Documents in topic space", sc)
}
