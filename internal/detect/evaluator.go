package detect

import (
	"github.com/dshills/bigfile/internal/document"
	"github.com/dshills/bigfile/internal/feature"
	"github.com/dshills/bigfile/internal/probe"
	"github.com/dshills/bigfile/internal/rule"
)

// MatchResult is the outcome of evaluating one (document, rule) pair.
// Both partitions preserve the relative order of the rule's feature list.
type MatchResult struct {
	// Immediate holds features disabled synchronously at pre-load.
	Immediate []feature.Descriptor

	// Deferred holds features disabled after content load completes.
	Deferred []feature.Descriptor
}

// Empty reports whether the rule matched nothing.
func (m MatchResult) Empty() bool {
	return len(m.Immediate) == 0 && len(m.Deferred) == 0
}

// Evaluator decides whether a rule fires for a document and resolves the
// rule's feature names into descriptors. Evaluation is pure: it probes size
// and looks up features but performs no disabling.
type Evaluator struct {
	probe    *probe.Prober
	features *feature.Registry
}

// NewEvaluator creates an evaluator over the given prober and registry.
func NewEvaluator(p *probe.Prober, features *feature.Registry) *Evaluator {
	return &Evaluator{probe: p, features: features}
}

// Evaluate applies one rule to a document.
//
// An unknown size, a size below the rule's threshold, or a path outside the
// rule's patterns all yield an empty result and no error. When the rule
// fires, every feature name is resolved before any is returned, so a broken
// configuration surfaces without partial effect: an unresolved name aborts
// the whole evaluation.
func (e *Evaluator) Evaluate(doc *document.Document, r rule.Rule) (MatchResult, error) {
	size, ok := e.probe.Probe(doc)
	if !ok {
		return MatchResult{}, nil
	}
	if size < r.Threshold {
		return MatchResult{}, nil
	}
	if !r.MatchesPath(doc.Path()) {
		return MatchResult{}, nil
	}

	resolved := make([]feature.Descriptor, 0, len(r.Features))
	for _, name := range r.Features {
		d, err := e.features.Resolve(name)
		if err != nil {
			return MatchResult{}, err
		}
		resolved = append(resolved, d)
	}

	var result MatchResult
	for _, d := range resolved {
		if d.Deferred() {
			result.Deferred = append(result.Deferred, d)
		} else {
			result.Immediate = append(result.Immediate, d)
		}
	}
	return result, nil
}
