package report

import (
	"github.com/glimmerlab/browserbox-ctl/internal/probe"
)

// Summary accumulates probe results in execution order. Plain value
// accumulation, no concurrency: the orchestrator is the only writer.
type Summary struct {
	Results     []probe.Result
	Passed      int
	Failed      int
	FailedNames []string
}

// NewSummary returns an empty Summary.
func NewSummary() *Summary {
	return &Summary{}
}

// Record appends a probe result and updates the counters.
func (s *Summary) Record(result probe.Result) {
	s.Results = append(s.Results, result)
	if result.Passed {
		s.Passed++
	} else {
		s.Failed++
		s.FailedNames = append(s.FailedNames, result.Name)
	}
}

// Total returns the number of probes executed.
func (s *Summary) Total() int {
	return s.Passed + s.Failed
}

// OK reports whether every executed probe passed.
func (s *Summary) OK() bool {
	return s.Failed == 0
}
