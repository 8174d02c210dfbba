//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package mm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testmaker() *MessageMaker {
	return NewMessageMaker(LaunchStruct{
		Name:       "test",
		Version:    "0.0.0",
		Shortname:  "T",
		LaunchTime: time.Now(),
	}, MSGCRIT)
}

func TestColorStripsTagsInBWMode(t *testing.T) {
	m := testmaker()
	m.SetBW(true)
	assert.Equal(t, "cached: 12", m.Color("C4cached:C0 C212C0"))
	assert.Equal(t, "plain", m.Styled("S1plainS0"))
}

func TestColorSwapsTags(t *testing.T) {
	m := testmaker()
	if m.Win {
		t.Skip("no ANSI on windows")
	}
	out := m.Color("C4okC0")
	assert.Contains(t, out, GREEN)
	assert.Contains(t, out, RESET)
	assert.NotContains(t, out, "C4")
}

func TestSetLogLevel(t *testing.T) {
	m := testmaker()
	assert.Equal(t, MSGCRIT, m.LogLevel())
	m.SetLogLevel(MSGTMI)
	assert.Equal(t, MSGTMI, m.LogLevel())
}
