// Package config loads the large-file rule configuration.
//
// Configuration files may be TOML, YAML, or JSON, selected by extension. A
// missing file yields the default configuration; a present file replaces the
// default rule set wholesale rather than merging with it. The Watcher
// reloads the file on change so a running host can pick up edits without a
// restart.
package config
