//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package ncbi

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/e-kling/PubMedTopicModeler/internal/gen"
	"github.com/e-kling/PubMedTopicModeler/internal/lnch"
	"github.com/e-kling/PubMedTopicModeler/internal/str"
	"github.com/e-kling/PubMedTopicModeler/internal/vv"
)

// the E-utilities API: https://www.ncbi.nlm.nih.gov/books/NBK25497/
// esearch returns PMIDs for a query; efetch returns PubmedArticleSet XML for a batch of PMIDs.
// NCBI will block clients that exceed EUTILSPERSECOND, hence the shared ticker.

var (
	Msg = lnch.NewMessageMakerWithDefaults()

	yeardigits = regexp.MustCompile(`\d{4}`)
)

// Client - a rate-limited NCBI E-utilities client
type Client struct {
	HC   *http.Client
	Base string
	tick *time.Ticker
}

// NewClient - a Client with the posted keyless rate limit baked in
func NewClient() *Client {
	return &Client{
		HC:   &http.Client{Timeout: vv.EUTILSTIMEOUT},
		Base: vv.EUTILSBASE,
		tick: time.NewTicker(time.Second / vv.EUTILSPERSECOND),
	}
}

// Close - release the rate limiter; the client cannot get() again afterwards
func (c *Client) Close() {
	c.tick.Stop()
}

//
// WIRE FORMATS
//

type eSearchResult struct {
	Count  int      `xml:"Count"`
	RetMax int      `xml:"RetMax"`
	IDList []string `xml:"IdList>Id"`
}

type pubmedArticleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation medlineCitation `xml:"MedlineCitation"`
}

type medlineCitation struct {
	PMID     string        `xml:"PMID"`
	Article  articleBlock  `xml:"Article"`
	Headings []meshHeading `xml:"MeshHeadingList>MeshHeading"`
}

type articleBlock struct {
	Title    string       `xml:"ArticleTitle"`
	Abstract []string     `xml:"Abstract>AbstractText"`
	Journal  journalBlock `xml:"Journal"`
}

type journalBlock struct {
	Title   string `xml:"Title"`
	Year    string `xml:"JournalIssue>PubDate>Year"`
	MedDate string `xml:"JournalIssue>PubDate>MedlineDate"`
}

type meshHeading struct {
	Descriptor string `xml:"DescriptorName"`
}

//
// THE CALLS
//

// Search - esearch: a pubmed query in, up to retmax PMIDs out
func (c *Client) Search(ctx context.Context, query string, retmax int) ([]string, error) {
	const (
		EP   = "%s/esearch.fcgi?db=%s&term=%s&retmax=%d"
		MSG1 = "Search() for '%s' matched %d records; fetching %d"
	)

	u := fmt.Sprintf(EP, c.Base, vv.EUTILSDB, url.QueryEscape(query), retmax)

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var res eSearchResult
	if err = xml.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("esearch response for %q did not parse: %w", query, err)
	}

	Msg.FYI(fmt.Sprintf(MSG1, query, res.Count, len(res.IDList)))
	return res.IDList, nil
}

// Fetch - efetch: PMIDs in, parsed abstracts out; batched at EFETCHBATCHSIZE per request
func (c *Client) Fetch(ctx context.Context, pmids []string) ([]str.DbAbstract, error) {
	const (
		EP   = "%s/efetch.fcgi?db=%s&id=%s&rettype=abstract&retmode=xml"
		MSG1 = "Fetch() batch %d/%d (%d abstracts so far)"
	)

	// duplicate ids cost a request slot and come back as duplicate rows
	pmids = gen.Unique(pmids)

	nb := (len(pmids) + vv.EFETCHBATCHSIZE - 1) / vv.EFETCHBATCHSIZE

	var all []str.DbAbstract
	for b := 0; b < nb; b++ {
		lo := b * vv.EFETCHBATCHSIZE
		hi := lo + vv.EFETCHBATCHSIZE
		if hi > len(pmids) {
			hi = len(pmids)
		}

		u := fmt.Sprintf(EP, c.Base, vv.EUTILSDB, strings.Join(pmids[lo:hi], ","))
		body, err := c.get(ctx, u)
		if err != nil {
			return all, err
		}

		batch, err := ParseArticleSet(body)
		if err != nil {
			return all, err
		}
		all = append(all, batch...)
		Msg.PEEK(fmt.Sprintf(MSG1, b+1, nb, len(all)))
	}
	return all, nil
}

// get - one rate-limited GET
func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.tick.C:
		// clear to fire
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HC.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("eutils returned HTTP %d for %s", resp.StatusCode, u)
	}
	return io.ReadAll(resp.Body)
}

// ParseArticleSet - PubmedArticleSet XML into DbAbstracts; records without an abstract are skipped
func ParseArticleSet(body []byte) ([]str.DbAbstract, error) {
	const (
		MSG1 = "ParseArticleSet() skipped %d records with no abstract"
	)

	var set pubmedArticleSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("efetch response did not parse: %w", err)
	}

	skipped := 0
	var out []str.DbAbstract
	for i := range set.Articles {
		cit := set.Articles[i].Citation
		abs := strings.TrimSpace(strings.Join(cit.Article.Abstract, " "))
		if abs == "" {
			skipped++
			continue
		}

		hh := make([]string, 0, len(cit.Headings))
		for _, h := range cit.Headings {
			if h.Descriptor != "" {
				hh = append(hh, h.Descriptor)
			}
		}

		out = append(out, str.DbAbstract{
			PMID:     cit.PMID,
			Title:    cit.Article.Title,
			Abstract: abs,
			Journal:  cit.Article.Journal.Title,
			Year:     pubyear(cit.Article.Journal),
			Headings: hh,
		})
	}

	if skipped > 0 {
		Msg.PEEK(fmt.Sprintf(MSG1, skipped))
	}
	return out, nil
}

// pubyear - PubDate>Year when present; otherwise the first four digits of a MedlineDate like "1998 Dec-1999 Jan"
func pubyear(j journalBlock) int {
	if y, err := strconv.Atoi(j.Year); err == nil {
		return y
	}
	if m := yeardigits.FindString(j.MedDate); m != "" {
		y, _ := strconv.Atoi(m)
		return y
	}
	return 0
}
