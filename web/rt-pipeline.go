//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/e-kling/PubMedTopicModeler/internal/lnch"
	"github.com/e-kling/PubMedTopicModeler/internal/run"
	"github.com/labstack/echo/v4"
)

// RtFetch - pull a pubmed query into the abstract store
func RtFetch(c echo.Context) error {
	const (
		NOQ = "no query supplied; try /fetch/exec?q=leukemia[mh] AND 2019[dp]"
	)

	q := c.QueryParam("q")
	if q == "" {
		return c.String(http.StatusBadRequest, NOQ)
	}

	retmax := lnch.Config.RetMax
	if rm, err := strconv.Atoi(c.QueryParam("retmax")); err == nil && rm > 0 {
		retmax = rm
	}

	n, err := run.FetchAndStore(c.Request().Context(), q, retmax)
	if err != nil {
		msg.WARN(err.Error())
		return c.String(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"query": q, "stored": n})
}

// RtSelect - sweep the configured candidates over whatever is stored; park the outcome for the chart routes
func RtSelect(c echo.Context) error {
	const (
		MSG1 = "sweep finished: best k = %d (cached: %t)"
	)

	out, err := run.Sweep(c.Request().Context(), lnch.Config)
	if err != nil {
		msg.WARN(err.Error())
		return c.String(http.StatusUnprocessableEntity, err.Error())
	}

	LastRun.Store(out)
	msg.NOTE(fmt.Sprintf(MSG1, out.Report.BestK, out.FromCache))

	return c.JSON(http.StatusOK, out.Report)
}

// RtSelectJSON - the most recent report without rerunning anything
func RtSelectJSON(c echo.Context) error {
	const (
		NORUN = "nothing has been swept yet; request /select/exec first"
	)

	if LastRun.IsEmpty() {
		return c.String(http.StatusNotFound, NORUN)
	}
	return c.JSON(http.StatusOK, LastRun.Fetch().Report)
}
