package feature

import "github.com/dshills/bigfile/internal/document"

// Built-in feature names.
const (
	NameSyntax       = "syntax"
	NameLSP          = "lsp"
	NameParser       = "parser"
	NameIndentGuides = "indentguides"
	NameFolding      = "folding"
	NameMatchParen   = "matchparen"
	NameSoftWrap     = "softwrap"
	NameUndo         = "undo"
	NameSwapfile     = "swapfile"
)

// Builtins returns the standard feature set.
// Most features are safe to disable before content loads; soft wrap and the
// undo shrink touch state the host only finalizes after load, so they are
// deferred.
func Builtins() []Descriptor {
	return []Descriptor{
		NewToggle(NameSyntax, false, func(o *document.Options) {
			o.SyntaxHighlight = false
		}),
		NewToggle(NameLSP, false, func(o *document.Options) {
			o.LanguageServer = false
		}),
		NewToggle(NameParser, false, func(o *document.Options) {
			o.StructuralParse = false
		}),
		NewToggle(NameIndentGuides, false, func(o *document.Options) {
			o.IndentGuides = false
		}),
		NewToggle(NameFolding, false, func(o *document.Options) {
			o.Folding = false
		}),
		NewToggle(NameMatchParen, false, func(o *document.Options) {
			o.MatchParen = false
		}),
		NewToggle(NameSoftWrap, true, func(o *document.Options) {
			o.SoftWrap = false
		}),
		NewToggle(NameUndo, true, func(o *document.Options) {
			o.UndoLevels = 0
		}),
		NewToggle(NameSwapfile, false, func(o *document.Options) {
			o.Swapfile = false
		}),
	}
}

// BuiltinNames returns the names of the standard feature set in order.
func BuiltinNames() []string {
	builtins := Builtins()
	names := make([]string, len(builtins))
	for i, d := range builtins {
		names[i] = d.Name()
	}
	return names
}

// RegisterBuiltins registers the standard feature set.
func RegisterBuiltins(r *Registry) error {
	for _, d := range Builtins() {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}
