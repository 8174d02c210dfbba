//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package web

import (
	"sync"

	"github.com/e-kling/PubMedTopicModeler/internal/run"
)

// the chart routes draw whatever the most recent sweep produced; one writer, many readers

type RunVault struct {
	latest *run.Outcome
	mutex  sync.RWMutex
}

func (rv *RunVault) Store(out *run.Outcome) {
	rv.mutex.Lock()
	defer rv.mutex.Unlock()
	rv.latest = out
}

func (rv *RunVault) Fetch() *run.Outcome {
	rv.mutex.RLock()
	defer rv.mutex.RUnlock()
	return rv.latest
}

func (rv *RunVault) IsEmpty() bool {
	return rv.Fetch() == nil
}

var LastRun = &RunVault{}
