//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package str

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDbAbstractCitation(t *testing.T) {
	a := DbAbstract{
		PMID:    "31452104",
		Title:   "Acute leukemia in children",
		Journal: "Pediatric Clinics",
		Year:    2019,
	}
	assert.Equal(t, "Acute leukemia in children, Pediatric Clinics (2019) [PMID 31452104]", a.Citation())
}

func TestDbAbstractHasHeading(t *testing.T) {
	a := DbAbstract{Headings: []string{"Leukemia", "Child", "Antineoplastic Agents"}}

	assert.True(t, a.HasHeading("Leukemia"))
	assert.True(t, a.HasHeading("leukemia"))
	assert.False(t, a.HasHeading("Lymphoma"))

	empty := DbAbstract{}
	assert.False(t, empty.HasHeading("Leukemia"))
}
