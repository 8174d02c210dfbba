//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package ncbi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const esearchfixture = `<?xml version="1.0" encoding="UTF-8" ?>
<eSearchResult>
  <Count>3</Count>
  <RetMax>3</RetMax>
  <IdList>
    <Id>31452104</Id>
    <Id>30092345</Id>
    <Id>29881209</Id>
  </IdList>
</eSearchResult>`

const efetchfixture = `<?xml version="1.0" encoding="UTF-8" ?>
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation>
      <PMID>31452104</PMID>
      <Article>
        <Journal>
          <JournalIssue><PubDate><Year>2019</Year></PubDate></JournalIssue>
          <Title>Blood</Title>
        </Journal>
        <ArticleTitle>Clonal evolution in leukemia.</ArticleTitle>
        <Abstract>
          <AbstractText Label="BACKGROUND">Acute myeloid leukemia is heterogeneous.</AbstractText>
          <AbstractText Label="RESULTS">Subclones were detected at relapse.</AbstractText>
        </Abstract>
      </Article>
      <MeshHeadingList>
        <MeshHeading><DescriptorName UI="D015470">Leukemia, Myeloid, Acute</DescriptorName></MeshHeading>
        <MeshHeading><DescriptorName UI="D002999">Clonal Evolution</DescriptorName></MeshHeading>
      </MeshHeadingList>
    </MedlineCitation>
  </PubmedArticle>
  <PubmedArticle>
    <MedlineCitation>
      <PMID>30092345</PMID>
      <Article>
        <Journal>
          <JournalIssue><PubDate><MedlineDate>1998 Dec-1999 Jan</MedlineDate></PubDate></JournalIssue>
          <Title>Lancet</Title>
        </Journal>
        <ArticleTitle>An abstractless record.</ArticleTitle>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
</PubmedArticleSet>`

func TestParseArticleSet(t *testing.T) {
	abs, err := ParseArticleSet([]byte(efetchfixture))
	require.NoError(t, err)

	// the abstractless record is dropped
	require.Len(t, abs, 1)

	a := abs[0]
	assert.Equal(t, "31452104", a.PMID)
	assert.Equal(t, "Clonal evolution in leukemia.", a.Title)
	assert.Equal(t, "Acute myeloid leukemia is heterogeneous. Subclones were detected at relapse.", a.Abstract)
	assert.Equal(t, "Blood", a.Journal)
	assert.Equal(t, 2019, a.Year)
	assert.Equal(t, []string{"Leukemia, Myeloid, Acute", "Clonal Evolution"}, a.Headings)
}

func TestPubYearMedlineDate(t *testing.T) {
	y := pubyear(journalBlock{MedDate: "1998 Dec-1999 Jan"})
	assert.Equal(t, 1998, y)

	y = pubyear(journalBlock{Year: "2021"})
	assert.Equal(t, 2021, y)

	y = pubyear(journalBlock{})
	assert.Equal(t, 0, y)
}

func TestSearchAgainstStub(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "esearch.fcgi")
		assert.Equal(t, "pubmed", r.URL.Query().Get("db"))
		_, _ = w.Write([]byte(esearchfixture))
	}))
	defer srv.Close()

	c := NewClient()
	defer c.Close()
	c.Base = srv.URL

	ids, err := c.Search(context.Background(), "leukemia[mh] AND 2019[dp]", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"31452104", "30092345", "29881209"}, ids)
}

func TestClosedClientStillHonorsContext(t *testing.T) {
	c := NewClient()
	c.Close()

	// the stopped ticker never fires, so only the context can unblock a get()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Search(ctx, "anything", 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
