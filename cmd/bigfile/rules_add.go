package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/dshills/bigfile/internal/config"
	"github.com/dshills/bigfile/internal/feature"
)

// runRulesAdd appends a rule to a JSON config file in place.
func runRulesAdd(args []string) int {
	var configPath, patterns, features string
	var threshold uint64
	fs := newFlagSet("rules add", &configPath)
	fs.Uint64Var(&threshold, "threshold", 0, "size threshold in units")
	fs.StringVar(&patterns, "patterns", "*", "comma-separated path globs")
	fs.StringVar(&features, "features", "", "comma-separated feature names")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if !strings.HasSuffix(configPath, ".json") {
		fmt.Fprintln(os.Stderr, "rules add: only JSON configs can be edited in place")
		return 2
	}

	patternList := splitList(patterns)
	if len(patternList) == 0 {
		fmt.Fprintln(os.Stderr, "rules add: at least one pattern is required")
		return 2
	}
	featureList := splitList(features)
	if featureList == nil {
		featureList = []string{}
	}

	// Reject unknown built-in names up front; a config referencing Lua
	// features must be validated by the host that loads those scripts.
	builtins := feature.NewRegistry()
	if err := feature.RegisterBuiltins(builtins); err != nil {
		return fail(err)
	}
	for _, name := range featureList {
		if !builtins.Has(name) {
			fmt.Fprintf(os.Stderr, "Warning: %q is not a built-in feature\n", name)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return fail(err)
		}
		data = []byte("{}")
	}

	ruleJSON := "{}"
	if ruleJSON, err = sjson.Set(ruleJSON, "threshold", threshold); err != nil {
		return fail(err)
	}
	if ruleJSON, err = sjson.Set(ruleJSON, "patterns", patternList); err != nil {
		return fail(err)
	}
	if ruleJSON, err = sjson.Set(ruleJSON, "features", featureList); err != nil {
		return fail(err)
	}

	out, err := sjson.SetRawBytes(data, "rules.-1", []byte(ruleJSON))
	if err != nil {
		return fail(err)
	}

	// Round-trip through the loader so a malformed result never lands.
	if _, err := config.NewLoader().Parse(configPath, out); err != nil {
		return fail(err)
	}

	if err := os.WriteFile(configPath, out, 0o644); err != nil {
		return fail(err)
	}
	fmt.Printf("added rule: threshold %d, patterns %s, features %s\n",
		threshold, strings.Join(patternList, " "), strings.Join(featureList, " "))
	return 0
}
