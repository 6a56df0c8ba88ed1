// Package main is the bigfile command line front end.
//
// bigfile classifies files against a large-file rule configuration without
// an editor attached: it runs the same detection pipeline the embedded
// subsystem uses and reports which features would be disabled, and when.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
)

const usage = `bigfile - large-file feature guard

Usage:
  bigfile check [-config FILE] [-lua FILE] PATH...   classify files (dry run)
  bigfile rules [-config FILE]                       list configured rules
  bigfile rules add [-config FILE] -threshold N -patterns GLOBS -features NAMES
                                                     append a rule to a JSON config
  bigfile version                                    print version

Config files may be TOML, YAML, or JSON, chosen by extension. Without a
config file the built-in default rule applies (threshold 2 units, pattern *,
all built-in features).
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	switch args[0] {
	case "check":
		return runCheck(args[1:])
	case "rules":
		if len(args) > 1 && args[1] == "add" {
			return runRulesAdd(args[2:])
		}
		return runRulesList(args[1:])
	case "version":
		fmt.Println("bigfile", version)
		return 0
	case "-h", "--help", "help":
		fmt.Print(usage)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}
}

// splitList parses a comma-separated flag value.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// fail prints an error to stderr and returns exit code 1.
func fail(err error) int {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}

// newFlagSet creates a flag set with the shared -config flag.
func newFlagSet(name string, configPath *string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(configPath, "config", "bigfile.toml", "rule configuration file")
	return fs
}
