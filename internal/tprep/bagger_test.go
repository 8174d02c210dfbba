//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package tprep

import (
	"strings"
	"testing"

	"github.com/e-kling/PubMedTopicModeler/internal/str"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBagOfWords(t *testing.T) {
	stops := getstopset()

	in := "BACKGROUND: The <i>BRCA1</i> gene [see Fig. 2] was studied in 120 patients (P&lt;0.05)."
	out := bagofwords(in, stops)

	bag := strings.Join(out, " ")
	assert.Contains(t, bag, "brca")
	assert.Contains(t, bag, "gene")
	assert.Contains(t, bag, "patients")
	assert.NotContains(t, out, "background")
	assert.NotContains(t, out, "the")
	assert.NotContains(t, bag, "120")
	assert.NotContains(t, bag, "<i>")
	assert.NotContains(t, bag, "lt")
}

func TestBagOfWordsShortTokens(t *testing.T) {
	out := bagofwords("an ox is by a DNA assay", getstopset())
	assert.Equal(t, []string{"dna", "assay"}, out)
}

func TestBuildBagsAlignment(t *testing.T) {
	abs := []str.DbAbstract{
		{PMID: "111", Title: "Topic modeling", Abstract: "latent dirichlet allocation of abstracts"},
		{PMID: "222", Title: "", Abstract: ""},
		{PMID: "333", Title: "Gibbs sampling", Abstract: "markov chain monte carlo estimation"},
	}

	bags := BuildBags(abs, []string{"allocation"})
	require.Len(t, bags, 3)

	assert.Equal(t, "111", bags[0].PMID)
	assert.Contains(t, bags[0].Bag, "dirichlet")
	assert.NotContains(t, bags[0].Bag, "allocation")

	// empty documents survive so indices stay aligned with the source slice
	assert.Equal(t, "222", bags[1].PMID)
	assert.Equal(t, "", bags[1].Bag)

	assert.Contains(t, bags[2].Bag, "monte")
}
