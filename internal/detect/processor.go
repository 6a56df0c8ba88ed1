package detect

import (
	"fmt"
	"sync"

	"github.com/dshills/bigfile/internal/document"
	"github.com/dshills/bigfile/internal/feature"
	"github.com/dshills/bigfile/internal/rule"
)

// DisableError wraps a failure from a feature's disable action. Remaining
// disables in the same batch are not attempted; the core does not sandbox
// individual feature failures.
type DisableError struct {
	// Feature is the name of the failing feature.
	Feature string

	// Deferred reports which batch the failure occurred in.
	Deferred bool

	// Err is the disable action's error.
	Err error
}

// Error implements the error interface.
func (e *DisableError) Error() string {
	phase := "immediate"
	if e.Deferred {
		phase = "deferred"
	}
	return fmt.Sprintf("disable %s feature %q: %v", phase, e.Feature, e.Err)
}

// Unwrap returns the underlying error.
func (e *DisableError) Unwrap() error {
	return e.Err
}

// Processor drives a document through the detection state machine:
// pre-load match, immediate disables, deferred disables at post-load, and
// promotion of the document's detection state to done.
type Processor struct {
	mu      sync.Mutex
	eval    *Evaluator
	pending map[document.ID]*pendingLoad
}

// pendingLoad accumulates deferred features for a document between its
// pre-load and post-load triggers. One entry may collect features from
// several rules when more than one fires for the same document.
type pendingLoad struct {
	deferred []feature.Descriptor
}

// NewProcessor creates a processor over the given evaluator.
func NewProcessor(eval *Evaluator) *Processor {
	return &Processor{
		eval:    eval,
		pending: make(map[document.ID]*pendingLoad),
	}
}

// OnPreLoad handles the pre-load trigger for one (document, rule) pair.
//
// A document already marked done is left untouched. When the rule fires and
// resolves at least one feature, immediate features are disabled now in
// configured order, deferred features are captured for the post-load pass,
// and the document is marked in-progress. matched reports whether anything
// was captured, so the caller knows to arrange a post-load continuation.
func (p *Processor) OnPreLoad(doc *document.Document, r rule.Rule) (matched bool, err error) {
	if doc.DetectionState() == document.StateDone {
		return false, nil
	}

	result, err := p.eval.Evaluate(doc, r)
	if err != nil {
		return false, err
	}
	if result.Empty() {
		// Nothing matched: the flag stays unwritten and the document is
		// re-evaluated on later triggers, which is safe because evaluation
		// has no side effects.
		return false, nil
	}

	for _, d := range result.Immediate {
		if derr := d.Disable(doc); derr != nil {
			return false, &DisableError{Feature: d.Name(), Err: derr}
		}
	}

	p.mu.Lock()
	entry, ok := p.pending[doc.ID()]
	if !ok {
		entry = &pendingLoad{}
		p.pending[doc.ID()] = entry
	}
	entry.deferred = append(entry.deferred, result.Deferred...)
	p.mu.Unlock()

	doc.AdvanceDetection(document.StateInProgress)
	return true, nil
}

// OnPostLoad handles the post-load trigger for a document.
//
// When at least one rule matched the document during pre-load, the document
// is promoted to done and the captured deferred features are disabled in
// their original order. A document no rule matched is a no-op. The pending
// record is consumed either way; the post-load trigger fires at most once
// per open/load cycle.
func (p *Processor) OnPostLoad(doc *document.Document) error {
	p.mu.Lock()
	entry, ok := p.pending[doc.ID()]
	delete(p.pending, doc.ID())
	p.mu.Unlock()

	if !ok {
		return nil
	}

	doc.AdvanceDetection(document.StateDone)

	for _, d := range entry.deferred {
		if derr := d.Disable(doc); derr != nil {
			return &DisableError{Feature: d.Name(), Deferred: true, Err: derr}
		}
	}
	return nil
}

// Release drops any pending deferred work for a document, e.g. when the
// host closes the document before its load completes.
func (p *Processor) Release(id document.ID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.pending, id)
}

// Reset drops all pending deferred work.
func (p *Processor) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = make(map[document.ID]*pendingLoad)
}

// PendingCount returns the number of documents awaiting their post-load
// trigger.
func (p *Processor) PendingCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}
