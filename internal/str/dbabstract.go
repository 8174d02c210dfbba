//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

import (
	"fmt"
	"strings"
)

// DbAbstract - one pubmed article as stored in ABSTRACTTABLENAME
type DbAbstract struct {
	PMID     string
	Title    string
	Abstract string
	Journal  string
	Year     int
	Headings []string // MeSH descriptor names, major and minor
}

// Citation - a short human-readable reference for reports
func (a *DbAbstract) Citation() string {
	return fmt.Sprintf("%s, %s (%d) [PMID %s]", a.Title, a.Journal, a.Year, a.PMID)
}

// HasHeading - case-insensitive check against the assigned MeSH descriptors
func (a *DbAbstract) HasHeading(h string) bool {
	for i := range a.Headings {
		if strings.EqualFold(a.Headings[i], h) {
			return true
		}
	}
	return false
}
