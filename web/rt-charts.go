//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"net/http"

	"github.com/e-kling/PubMedTopicModeler/internal/run"
	"github.com/e-kling/PubMedTopicModeler/internal/vgraph"
	"github.com/e-kling/PubMedTopicModeler/internal/vv"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/labstack/echo/v4"
)

const nosweepyet = "nothing has been swept yet; request /select/exec first"

// lastrun - the latest outcome or a 404 for every chart route
func lastrun(c echo.Context) (*run.Outcome, error) {
	if LastRun.IsEmpty() {
		return nil, c.String(http.StatusNotFound, nosweepyet)
	}
	return LastRun.Fetch(), nil
}

// RtChartScores - harmonic mean score by candidate topic count
func RtChartScores(c echo.Context) error {
	out, err := lastrun(c)
	if out == nil {
		return err
	}
	page := vgraph.BuildChartPage("Scores by topic count", vgraph.ScoreLine(out.Report))
	return c.HTML(http.StatusOK, page)
}

// RtChartTopics - one bar chart of top terms per topic
func RtChartTopics(c echo.Context) error {
	out, err := lastrun(c)
	if out == nil {
		return err
	}

	bars, err := vgraph.TopicTermBars(out.Model, vv.TOPTERMSPERTOPIC)
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}

	charters := make([]components.Charter, len(bars))
	for i := range bars {
		charters[i] = bars[i]
	}
	return c.HTML(http.StatusOK, vgraph.BuildChartPage("Top terms per topic", charters...))
}

// RtChartClouds - per-topic wordclouds
func RtChartClouds(c echo.Context) error {
	out, err := lastrun(c)
	if out == nil {
		return err
	}

	charters := make([]components.Charter, out.Model.K())
	for topic := 0; topic < out.Model.K(); topic++ {
		wc, err := vgraph.TopicWordCloud(out.Model, topic, vv.TOPTERMSPERTOPIC*3)
		if err != nil {
			return c.String(http.StatusInternalServerError, err.Error())
		}
		charters[topic] = wc
	}
	return c.HTML(http.StatusOK, vgraph.BuildChartPage("Topic wordclouds", charters...))
}

// RtChartMesh - the dominant topic × MeSH heading heatmap
func RtChartMesh(c echo.Context) error {
	out, err := lastrun(c)
	if out == nil {
		return err
	}
	page := vgraph.BuildChartPage("Topics × MeSH", vgraph.MeshHeatmap(out.Crosstab))
	return c.HTML(http.StatusOK, page)
}

// RtChartTSNE - documents scattered in embedded topic space
func RtChartTSNE(c echo.Context) error {
	out, err := lastrun(c)
	if out == nil {
		return err
	}

	sc, err := vgraph.TopicScatter(out.Model, out.Matrix)
	if err != nil {
		return c.String(http.StatusInternalServerError, err.Error())
	}
	return c.HTML(http.StatusOK, vgraph.BuildChartPage("Documents in topic space", sc))
}
