package detect

import (
	"context"
	"sync"

	"github.com/dshills/bigfile/internal/document"
	"github.com/dshills/bigfile/internal/event"
	"github.com/dshills/bigfile/internal/rule"
)

// Registrar binds a rule set to the host's trigger mechanism.
//
// Register arranges exactly one persistent pre-load subscription per
// rule/pattern pair, filtered by the pattern, so a document open only
// reaches the processor through rules whose patterns cover its path. When a
// rule matches a document, the registrar installs a single one-shot
// post-load continuation for that document, shared by all rules that fire
// for it.
type Registrar struct {
	mu       sync.Mutex
	bus      *event.Bus
	proc     *Processor
	rules    rule.Set
	preSubs  []event.Subscription
	postSubs map[document.ID]event.Subscription
}

// NewRegistrar creates a registrar over the given bus and processor.
func NewRegistrar(bus *event.Bus, proc *Processor, rules rule.Set) *Registrar {
	return &Registrar{
		bus:      bus,
		proc:     proc,
		rules:    rules,
		postSubs: make(map[document.ID]event.Subscription),
	}
}

// Rules returns the currently registered rule set.
func (g *Registrar) Rules() rule.Set {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rules
}

// Register subscribes the rule set's triggers on the bus.
func (g *Registrar) Register() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, r := range g.rules.Rules() {
		r := r
		for _, pat := range r.Patterns {
			pat := pat
			sub, err := g.bus.SubscribeFunc(event.TopicDocumentPreLoad,
				func(ctx context.Context, ev any) error {
					e, ok := ev.(event.DocumentOpened)
					if !ok {
						return nil
					}
					return g.preLoad(e.Doc, r)
				},
				event.WithFilter(event.FilterDocumentPath(func(path string) bool {
					return rule.PathMatches(pat, path)
				})),
			)
			if err != nil {
				return err
			}
			g.preSubs = append(g.preSubs, sub)
		}
	}
	return nil
}

// preLoad runs the processor for one (document, rule) pair and installs the
// post-load continuation on first match.
func (g *Registrar) preLoad(doc *document.Document, r rule.Rule) error {
	matched, err := g.proc.OnPreLoad(doc, r)
	if err != nil {
		return err
	}
	if !matched {
		return nil
	}
	return g.ensureContinuation(doc)
}

// ensureContinuation installs a one-shot post-load subscription for the
// document if none is live yet.
func (g *Registrar) ensureContinuation(doc *document.Document) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := doc.ID()
	if existing, ok := g.postSubs[id]; ok && existing.IsActive() {
		return nil
	}

	sub, err := g.bus.SubscribeFunc(event.TopicDocumentPostLoad,
		func(ctx context.Context, ev any) error {
			e, ok := ev.(event.DocumentLoaded)
			if !ok {
				return nil
			}
			g.mu.Lock()
			delete(g.postSubs, id)
			g.mu.Unlock()
			return g.proc.OnPostLoad(e.Doc)
		},
		event.WithOnce(),
		event.WithFilter(event.FilterDocumentID(id)),
	)
	if err != nil {
		return err
	}
	g.postSubs[id] = sub
	return nil
}

// ReleaseDocument cancels the document's pending continuation and drops any
// captured deferred work, e.g. when the host closes the document before its
// load completes.
func (g *Registrar) ReleaseDocument(id document.ID) {
	g.mu.Lock()
	sub, ok := g.postSubs[id]
	delete(g.postSubs, id)
	g.mu.Unlock()

	if ok {
		sub.Cancel()
	}
	g.proc.Release(id)
}

// Release cancels every live subscription and clears pending state.
// The registrar can be re-registered afterwards.
func (g *Registrar) Release() {
	g.mu.Lock()
	pre := g.preSubs
	g.preSubs = nil
	post := g.postSubs
	g.postSubs = make(map[document.ID]event.Subscription)
	g.mu.Unlock()

	for _, sub := range pre {
		sub.Cancel()
	}
	for _, sub := range post {
		sub.Cancel()
	}
	g.proc.Reset()
}

// Reload swaps in a new rule set: existing subscriptions come down, pending
// deferred work is dropped, and the new rules are registered. Documents
// already marked done stay done.
func (g *Registrar) Reload(rules rule.Set) error {
	g.Release()

	g.mu.Lock()
	g.rules = rules
	g.mu.Unlock()

	return g.Register()
}
