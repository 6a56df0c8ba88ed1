package detect

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/bigfile/internal/document"
	"github.com/dshills/bigfile/internal/rule"
)

func TestProcessor_FullCycle(t *testing.T) {
	// Rule {threshold 1, pattern *, F1 immediate, F2 deferred};
	// document of 2 units.
	env := newTestEnv(t)
	env.addFeature(t, "F1", false)
	env.addFeature(t, "F2", true)
	env.fs.SetSize("/doc", 20)
	proc := NewProcessor(NewEvaluator(env.prober, env.features))

	r := rule.Rule{Threshold: 1, Patterns: []string{"*"}, Features: []string{"F1", "F2"}}
	doc := document.New("doc", document.WithPath("/doc"))

	matched, err := proc.OnPreLoad(doc, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !matched {
		t.Fatal("expected rule to match")
	}
	if got := strings.Join(env.log, ","); got != "F1" {
		t.Errorf("expected F1 disabled at pre-load, got %q", got)
	}
	if doc.DetectionState() != document.StateInProgress {
		t.Errorf("expected in_progress, got %v", doc.DetectionState())
	}

	if err := proc.OnPostLoad(doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(env.log, ","); got != "F1,F2" {
		t.Errorf("expected F2 disabled at post-load, got %q", got)
	}
	if doc.DetectionState() != document.StateDone {
		t.Errorf("expected done, got %v", doc.DetectionState())
	}
	if proc.PendingCount() != 0 {
		t.Errorf("expected no pending work, got %d", proc.PendingCount())
	}
}

func TestProcessor_BelowThresholdNoOp(t *testing.T) {
	// Same rule; document of 0 units.
	env := newTestEnv(t)
	env.addFeature(t, "F1", false)
	env.addFeature(t, "F2", true)
	env.fs.SetSize("/doc", 3)
	proc := NewProcessor(NewEvaluator(env.prober, env.features))

	r := rule.Rule{Threshold: 1, Patterns: []string{"*"}, Features: []string{"F1", "F2"}}
	doc := document.New("doc", document.WithPath("/doc"))

	matched, err := proc.OnPreLoad(doc, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matched {
		t.Error("expected no match")
	}
	if len(env.log) != 0 {
		t.Errorf("expected no disables, got %v", env.log)
	}
	if doc.DetectionState() != document.StateUnset {
		t.Errorf("expected unset, got %v", doc.DetectionState())
	}

	// Post-load with no pending entry leaves the state untouched.
	if err := proc.OnPostLoad(doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.DetectionState() != document.StateUnset {
		t.Errorf("expected unset after post-load, got %v", doc.DetectionState())
	}
}

func TestProcessor_ReprocessingGuard(t *testing.T) {
	// Document reopened after reaching done: second pre-load is a no-op.
	env := newTestEnv(t)
	env.addFeature(t, "F1", false)
	env.addFeature(t, "F2", true)
	env.fs.SetSize("/doc", 20)
	proc := NewProcessor(NewEvaluator(env.prober, env.features))

	r := rule.Rule{Threshold: 1, Patterns: []string{"*"}, Features: []string{"F1", "F2"}}
	doc := document.New("doc", document.WithPath("/doc"))

	if _, err := proc.OnPreLoad(doc, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := proc.OnPostLoad(doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	disables := len(env.log)

	// Simulated reload.
	matched, err := proc.OnPreLoad(doc, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matched {
		t.Error("expected reload pre-load to be a no-op")
	}
	if len(env.log) != disables {
		t.Errorf("expected no further disables, got %v", env.log)
	}
}

func TestProcessor_EachFeatureDisabledOnce(t *testing.T) {
	env := newTestEnv(t)
	env.addFeature(t, "F1", false)
	env.addFeature(t, "F2", true)
	env.fs.SetSize("/doc", 20)
	proc := NewProcessor(NewEvaluator(env.prober, env.features))

	r := rule.Rule{Threshold: 1, Patterns: []string{"*"}, Features: []string{"F1", "F2"}}
	doc := document.New("doc", document.WithPath("/doc"))

	proc.OnPreLoad(doc, r)
	proc.OnPostLoad(doc)

	count := map[string]int{}
	for _, name := range env.log {
		count[name]++
	}
	if count["F1"] != 1 || count["F2"] != 1 {
		t.Errorf("expected each feature disabled exactly once, got %v", env.log)
	}
}

func TestProcessor_MultipleRulesOneDocument(t *testing.T) {
	env := newTestEnv(t)
	env.addFeature(t, "A1", false)
	env.addFeature(t, "A2", true)
	env.addFeature(t, "B1", true)
	env.fs.SetSize("/doc.log", 50)
	proc := NewProcessor(NewEvaluator(env.prober, env.features))

	r1 := rule.Rule{Threshold: 1, Patterns: []string{"*"}, Features: []string{"A1", "A2"}}
	r2 := rule.Rule{Threshold: 2, Patterns: []string{"*.log"}, Features: []string{"B1"}}
	doc := document.New("doc", document.WithPath("/doc.log"))

	if _, err := proc.OnPreLoad(doc, r1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := proc.OnPreLoad(doc, r2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.DetectionState() != document.StateInProgress {
		t.Errorf("expected in_progress, got %v", doc.DetectionState())
	}

	if err := proc.OnPostLoad(doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Deferred features run in trigger order: r1's then r2's.
	if got := strings.Join(env.log, ","); got != "A1,A2,B1" {
		t.Errorf("expected A1,A2,B1, got %q", got)
	}
	if doc.DetectionState() != document.StateDone {
		t.Errorf("expected done, got %v", doc.DetectionState())
	}
}

func TestProcessor_UnresolvedFeatureNoPartialDisable(t *testing.T) {
	env := newTestEnv(t)
	env.addFeature(t, "valid", false)
	env.fs.SetSize("/doc", 20)
	proc := NewProcessor(NewEvaluator(env.prober, env.features))

	r := rule.Rule{Threshold: 1, Patterns: []string{"*"}, Features: []string{"valid", "ghost"}}
	doc := document.New("doc", document.WithPath("/doc"))

	_, err := proc.OnPreLoad(doc, r)
	if err == nil {
		t.Fatal("expected error for unresolved feature")
	}
	if len(env.log) != 0 {
		t.Errorf("expected no partial disabling, got %v", env.log)
	}
	if doc.DetectionState() != document.StateUnset {
		t.Errorf("expected unset, got %v", doc.DetectionState())
	}
}

func TestProcessor_ImmediateDisableFailureAborts(t *testing.T) {
	env := newTestEnv(t)
	boom := errors.New("boom")
	env.addFeature(t, "ok1", false)
	env.addFailingFeature(t, "bad", false, boom)
	env.addFeature(t, "ok2", false)
	env.fs.SetSize("/doc", 20)
	proc := NewProcessor(NewEvaluator(env.prober, env.features))

	r := rule.Rule{Threshold: 1, Patterns: []string{"*"}, Features: []string{"ok1", "bad", "ok2"}}
	doc := document.New("doc", document.WithPath("/doc"))

	_, err := proc.OnPreLoad(doc, r)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}

	var de *DisableError
	if !errors.As(err, &de) {
		t.Fatalf("expected DisableError, got %T", err)
	}
	if de.Feature != "bad" || de.Deferred {
		t.Errorf("expected immediate failure of bad, got %+v", de)
	}
	// ok1 ran before the failure; ok2 was not attempted.
	if got := strings.Join(env.log, ","); got != "ok1" {
		t.Errorf("expected only ok1 disabled, got %q", got)
	}
}

func TestProcessor_DeferredDisableFailureAborts(t *testing.T) {
	env := newTestEnv(t)
	boom := errors.New("boom")
	env.addFailingFeature(t, "bad", true, boom)
	env.addFeature(t, "ok", true)
	env.fs.SetSize("/doc", 20)
	proc := NewProcessor(NewEvaluator(env.prober, env.features))

	r := rule.Rule{Threshold: 1, Patterns: []string{"*"}, Features: []string{"bad", "ok"}}
	doc := document.New("doc", document.WithPath("/doc"))

	if _, err := proc.OnPreLoad(doc, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := proc.OnPostLoad(doc)
	var de *DisableError
	if !errors.As(err, &de) {
		t.Fatalf("expected DisableError, got %v", err)
	}
	if !de.Deferred {
		t.Error("expected deferred-phase failure")
	}
	if len(env.log) != 0 {
		t.Errorf("expected ok to be skipped after failure, got %v", env.log)
	}
	// The document still reached done; the post-load trigger is one-shot.
	if doc.DetectionState() != document.StateDone {
		t.Errorf("expected done, got %v", doc.DetectionState())
	}
}

func TestProcessor_Release(t *testing.T) {
	env := newTestEnv(t)
	env.addFeature(t, "F2", true)
	env.fs.SetSize("/doc", 20)
	proc := NewProcessor(NewEvaluator(env.prober, env.features))

	r := rule.Rule{Threshold: 1, Patterns: []string{"*"}, Features: []string{"F2"}}
	doc := document.New("doc", document.WithPath("/doc"))

	proc.OnPreLoad(doc, r)
	if proc.PendingCount() != 1 {
		t.Fatalf("expected 1 pending document, got %d", proc.PendingCount())
	}

	proc.Release(doc.ID())
	if proc.PendingCount() != 0 {
		t.Errorf("expected no pending work, got %d", proc.PendingCount())
	}

	// The abandoned load never completes; a later post-load is a no-op.
	if err := proc.OnPostLoad(doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(env.log) != 0 {
		t.Errorf("expected no disables after release, got %v", env.log)
	}
}
