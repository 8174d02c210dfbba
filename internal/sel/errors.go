//    PubMedTopicModeler
//    Copyright: E Kling 2024
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package sel

import (
	"errors"
	"fmt"
)

// error kinds recorded in Report.Scores: the sweep as a whole only fails when
// every candidate fails (ErrAllCandidatesFailed) or the request itself is malformed

var ErrAllCandidatesFailed = errors.New("every candidate topic count failed")

// InvalidCandidateError - a candidate that can never be fitted; caught before any sampling starts
type InvalidCandidateError struct {
	K    int
	Docs int
}

func (e InvalidCandidateError) Error() string {
	return fmt.Sprintf("invalid candidate topic count %d: need 1 <= k < %d (the document count)", e.K, e.Docs)
}

// InsufficientSamplesError - the burn-in swallows the whole likelihood chain
type InsufficientSamplesError struct {
	K              int
	BurnIn         int
	Iterations     int
	SampleInterval int
}

func (e InsufficientSamplesError) Error() string {
	return fmt.Sprintf("candidate %d: burn-in of %d leaves no samples from %d iterations at interval %d",
		e.K, e.BurnIn, e.Iterations, e.SampleInterval)
}

// ModelFitError - the chain itself failed for one candidate
type ModelFitError struct {
	K   int
	Err error
}

func (e ModelFitError) Error() string {
	return fmt.Sprintf("candidate %d: model fit failed: %v", e.K, e.Err)
}

func (e ModelFitError) Unwrap() error { return e.Err }

const (
	KINDINVALID      = "InvalidCandidate"
	KINDINSUFFICIENT = "InsufficientSamples"
	KINDMODELFIT     = "ModelFit"
	KINDNOTEVALUATED = "NotEvaluated"
)

// errkind - the string that lands in a cached/serialized report
func errkind(err error) string {
	var ic InvalidCandidateError
	var is InsufficientSamplesError
	var mf ModelFitError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ic):
		return KINDINVALID
	case errors.As(err, &is):
		return KINDINSUFFICIENT
	case errors.As(err, &mf):
		return KINDMODELFIT
	default:
		return KINDMODELFIT
	}
}
