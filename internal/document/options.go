package document

// Options is the block of per-document feature toggles that disable actions
// operate on. The host mirrors these onto its own buffer/window settings.
type Options struct {
	// SyntaxHighlight enables regex-based syntax highlighting.
	SyntaxHighlight bool

	// LanguageServer enables language-server attachment.
	LanguageServer bool

	// StructuralParse enables tree-structured parsing of buffer content.
	StructuralParse bool

	// IndentGuides enables indentation guide rendering.
	IndentGuides bool

	// Folding enables code folding.
	Folding bool

	// MatchParen enables matching-bracket highlighting.
	MatchParen bool

	// SoftWrap enables soft line wrapping.
	SoftWrap bool

	// Swapfile enables the on-disk swapfile for crash recovery.
	Swapfile bool

	// UndoLevels is the maximum retained undo depth.
	UndoLevels int
}

// DefaultOptions returns the option block for a freshly opened document,
// with every feature enabled.
func DefaultOptions() Options {
	return Options{
		SyntaxHighlight: true,
		LanguageServer:  true,
		StructuralParse: true,
		IndentGuides:    true,
		Folding:         true,
		MatchParen:      true,
		SoftWrap:        true,
		Swapfile:        true,
		UndoLevels:      1000,
	}
}
