//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"fmt"
	"net/http"

	"github.com/e-kling/PubMedTopicModeler/internal/db"
	"github.com/e-kling/PubMedTopicModeler/internal/mm"
	"github.com/e-kling/PubMedTopicModeler/internal/vv"
	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const frontpagetemplate = `<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>%s</title>
	<style>
		body { font-family: sans-serif; margin: 3em; max-width: 52em; }
		code { background: #eee; padding: 0 .3em; }
		td { padding: .2em .8em; }
	</style>
</head>
<body>
	<h1>%s <small>(v%s)</small></h1>
	<p>%s abstracts stored; %s sweeps cached.</p>
	<table>
		<tr><td><code>/fetch/exec?q=QUERY&retmax=N</code></td><td>fetch abstracts from pubmed and store them</td></tr>
		<tr><td><code>/select/exec</code></td><td>sweep the candidate topic counts over the stored abstracts</td></tr>
		<tr><td><code>/select/json</code></td><td>the latest sweep report as json</td></tr>
		<tr><td><code>/charts/scores</code></td><td>harmonic mean score by topic count</td></tr>
		<tr><td><code>/charts/topics</code></td><td>top terms per topic</td></tr>
		<tr><td><code>/charts/clouds</code></td><td>per-topic wordclouds</td></tr>
		<tr><td><code>/charts/mesh</code></td><td>dominant topics against MeSH headings</td></tr>
		<tr><td><code>/charts/tsne</code></td><td>documents embedded in topic space</td></tr>
	</table>
	<p><a href="%s">%s</a></p>
</body>
</html>
`

// RtFrontpage - the landing page: a status line and the route catalogue
func RtFrontpage(c echo.Context) error {
	stored := db.AbstractDBCount(mm.MSGTMI)
	cached := db.TopicDBCount(mm.MSGTMI)

	p := message.NewPrinter(language.English)
	page := fmt.Sprintf(frontpagetemplate,
		vv.MYNAME, vv.MYNAME, vv.VERSION, p.Sprintf("%d", stored), p.Sprintf("%d", cached), vv.PROJURL, vv.PROJURL)

	return c.HTML(http.StatusOK, page)
}
