//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package tprep

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/e-kling/PubMedTopicModeler/internal/lnch"
	"github.com/e-kling/PubMedTopicModeler/internal/str"
	"github.com/e-kling/PubMedTopicModeler/internal/vv"
)

var (
	Msg = lnch.NewMessageMakerWithDefaults()

	// these punch above their weight: run them in this order
	tagstripper  = regexp.MustCompile(`<[^>]*?>`)
	brktstripper = regexp.MustCompile(`\[[^]]*?]`)
	entstripper  = regexp.MustCompile(`&[a-zA-Z]+?;`)
	numstripper  = regexp.MustCompile(`\d`)
	junkstripper = regexp.MustCompile(`[^\sa-z]`)
)

// AbstractBag - a single abstract reduced to a cleaned bag of words
type AbstractBag struct {
	PMID string
	Bag  string
}

// BuildBags - turn stored abstracts into cleaned bags of words; empty bags are kept so
// document indices still line up with the abstract slice
func BuildBags(abstracts []str.DbAbstract, extrastops []string) []AbstractBag {
	const (
		MSG1 = "BuildBags() bagged %d abstracts (%d tokens)"
	)

	stops := getstopset()
	for i := 0; i < len(extrastops); i++ {
		stops[strings.ToLower(extrastops[i])] = true
	}

	tt := 0
	bags := make([]AbstractBag, len(abstracts))
	for i := range abstracts {
		wds := bagofwords(abstracts[i].Title+" "+abstracts[i].Abstract, stops)
		tt += len(wds)
		bags[i] = AbstractBag{PMID: abstracts[i].PMID, Bag: strings.Join(wds, " ")}
	}

	Msg.PEEK(fmt.Sprintf(MSG1, len(bags), tt))
	return bags
}

// bagofwords - one abstract in, cleaned tokens out
func bagofwords(txt string, stops map[string]bool) []string {
	txt = makesubstitutions(txt)
	txt = strings.ToLower(txt)
	txt = tagstripper.ReplaceAllString(txt, " ")
	txt = brktstripper.ReplaceAllString(txt, " ")
	txt = entstripper.ReplaceAllString(txt, " ")
	txt = numstripper.ReplaceAllString(txt, "")
	txt = junkstripper.ReplaceAllString(txt, " ")

	var keep []string
	for _, w := range strings.Fields(txt) {
		if len(w) < vv.MINTOKENLENGTH {
			continue
		}
		if stops[w] {
			continue
		}
		keep = append(keep, w)
	}
	return keep
}

// makesubstitutions - expand the abbreviations that would otherwise shed stray single letters
func makesubstitutions(txt string) string {
	swap := strings.NewReplacer(
		"e.g.", "for example",
		"i.e.", "that is",
		"et al.", "and others",
		"vs.", "versus",
		"ca.", "approximately",
		"Fig.", "figure",
		"fig.", "figure",
	)
	return swap.Replace(txt)
}
