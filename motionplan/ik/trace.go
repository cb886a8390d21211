package ik

import (
	"sync"

	"github.com/robotsim/nikopt/referenceframe"
)

// TraceEvent labels an IterationRecord.
type TraceEvent string

// Events recorded by the solver.
const (
	EventStep              = TraceEvent("step")
	EventRestart           = TraceEvent("restart")
	EventConverged         = TraceEvent("converged")
	EventLocalMinimum      = TraceEvent("local_minimum")
	EventStagnationFailure = TraceEvent("stagnation_failure")
	EventMaxIterations     = TraceEvent("max_iterations")
)

// IterationRecord is the diagnostic state of one solver iteration. For EventStep records Configuration is the
// configuration after the update; for every other event it is the configuration the event happened at.
type IterationRecord struct {
	Iteration      int                    `json:"iteration"`
	Event          TraceEvent             `json:"event"`
	Configuration  []referenceframe.Input `json:"configuration"`
	ErrorNorm      float64                `json:"error_norm"`
	RawDelta       []float64              `json:"raw_delta,omitempty"`
	NullSpaceDelta []float64              `json:"null_space_delta,omitempty"`
	CorrectedDelta []float64              `json:"corrected_delta,omitempty"`
}

// Trace collects IterationRecords. It is safe for concurrent use.
type Trace struct {
	mu      sync.Mutex
	records []IterationRecord
}

// NewTrace returns an empty trace.
func NewTrace() *Trace {
	return &Trace{}
}

func (t *Trace) add(rec IterationRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = append(t.records, rec)
}

// Records returns a copy of every record in the order they were added.
func (t *Trace) Records() []IterationRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]IterationRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Steps returns only the update step records.
func (t *Trace) Steps() []IterationRecord {
	var steps []IterationRecord
	for _, rec := range t.Records() {
		if rec.Event == EventStep {
			steps = append(steps, rec)
		}
	}
	return steps
}

// Last returns the most recent record, if any.
func (t *Trace) Last() (IterationRecord, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.records) == 0 {
		return IterationRecord{}, false
	}
	return t.records[len(t.records)-1], true
}
