package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/bigfile/internal/config"
	"github.com/dshills/bigfile/internal/detect"
	"github.com/dshills/bigfile/internal/document"
	"github.com/dshills/bigfile/internal/event"
	"github.com/dshills/bigfile/internal/feature"
	"github.com/dshills/bigfile/internal/feature/luafeat"
	"github.com/dshills/bigfile/internal/probe"
)

// disableLog records which features fired for which document, and in which
// phase, so the report can show the full open/load cycle.
type disableLog struct {
	mu      sync.Mutex
	entries map[document.ID][]string
}

func newDisableLog() *disableLog {
	return &disableLog{entries: make(map[document.ID][]string)}
}

func (l *disableLog) record(id document.ID, name string, deferred bool) {
	phase := "immediate"
	if deferred {
		phase = "deferred"
	}
	l.mu.Lock()
	l.entries[id] = append(l.entries[id], fmt.Sprintf("%s (%s)", name, phase))
	l.mu.Unlock()
}

func (l *disableLog) forDoc(id document.ID) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.entries[id]
}

// loggedRegistry wraps every descriptor in reg so disables are recorded
// before being applied.
func loggedRegistry(reg *feature.Registry, log *disableLog) (*feature.Registry, error) {
	out := feature.NewRegistry()
	for _, name := range reg.Names() {
		d, err := reg.Resolve(name)
		if err != nil {
			return nil, err
		}
		wrapped := feature.NewFunc(d.Name(), d.Deferred(), func(doc *document.Document) error {
			log.record(doc.ID(), d.Name(), d.Deferred())
			return d.Disable(doc)
		})
		if err := out.Register(wrapped); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func runCheck(args []string) int {
	var configPath, luaPath string
	fs := newFlagSet("check", &configPath)
	fs.StringVar(&luaPath, "lua", "", "Lua feature script to load")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	paths := fs.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "check: no files given")
		return 2
	}

	cfg, err := config.NewLoader().Load(configPath)
	if err != nil {
		return fail(err)
	}

	registry := feature.NewRegistry()
	if err := feature.RegisterBuiltins(registry); err != nil {
		return fail(err)
	}
	if luaPath != "" {
		src, err := os.ReadFile(luaPath)
		if err != nil {
			return fail(err)
		}
		state := luafeat.NewState()
		defer state.Close()
		if err := luafeat.Load(state, registry, string(src)); err != nil {
			return fail(err)
		}
	}

	rules := cfg.RuleSet()
	if err := rules.Validate(registry); err != nil {
		return fail(err)
	}

	log := newDisableLog()
	logged, err := loggedRegistry(registry, log)
	if err != nil {
		return fail(err)
	}

	prober := probe.New(probe.WithUnit(cfg.Unit()))
	bus := event.NewBus()
	proc := detect.NewProcessor(detect.NewEvaluator(prober, logged))
	registrar := detect.NewRegistrar(bus, proc, rules)
	if err := registrar.Register(); err != nil {
		return fail(err)
	}

	ctx := context.Background()
	code := 0
	for i, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", path, err)
			code = 1
			continue
		}
		doc := document.New(document.ID(fmt.Sprintf("doc-%d", i)), document.WithPath(abs))
		if err := bus.Publish(ctx, event.TopicDocumentPreLoad, event.DocumentOpened{Doc: doc}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", path, err)
			code = 1
			continue
		}
		if err := bus.Publish(ctx, event.TopicDocumentPostLoad, event.DocumentLoaded{Doc: doc}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", path, err)
			code = 1
			continue
		}
		printReport(path, doc, prober, log)
	}
	return code
}

// printReport writes one file's classification to stdout.
func printReport(path string, doc *document.Document, prober *probe.Prober, log *disableLog) {
	size, ok := prober.Probe(doc)
	sizeStr := "unknown size"
	if ok {
		sizeStr = fmt.Sprintf("%d units", size)
	}

	disabled := log.forDoc(doc.ID())
	if len(disabled) == 0 {
		fmt.Printf("%s: %s, no rules matched\n", path, sizeStr)
		return
	}
	fmt.Printf("%s: %s, state %s, disabled %s\n",
		path, sizeStr, doc.DetectionState(), strings.Join(disabled, ", "))
}

func runRulesList(args []string) int {
	var configPath string
	fs := newFlagSet("rules", &configPath)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.NewLoader().Load(configPath)
	if err != nil {
		return fail(err)
	}

	fmt.Printf("unit: %d bytes\n", cfg.Unit())
	if len(cfg.Rules) == 0 {
		fmt.Println("no rules configured")
		return 0
	}
	for i, r := range cfg.Rules {
		features := r.Features
		if len(features) == 0 {
			features = []string{"(none)"}
		}
		fmt.Printf("rule %d: threshold %d, patterns %s, features %s\n",
			i, r.Threshold, strings.Join(sortedCopy(r.Patterns), " "), strings.Join(features, " "))
	}
	return 0
}

// sortedCopy returns a sorted copy for stable listing output.
func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}
