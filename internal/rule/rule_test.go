package rule

import (
	"errors"
	"testing"
)

func TestRule_MatchesPath(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		want     bool
	}{
		{"wildcard matches anything", []string{"*"}, "/home/user/big.txt", true},
		{"extension matches base name", []string{"*.log"}, "/var/log/app.log", true},
		{"extension rejects other files", []string{"*.log"}, "/var/log/app.txt", false},
		{"full path glob", []string{"/var/*.log"}, "/var/app.log", true},
		{"second pattern matches", []string{"*.min.js", "*.csv"}, "/data/rows.csv", true},
		{"question mark", []string{"file?.txt"}, "file1.txt", true},
		{"empty path never matches", []string{"*"}, "", false},
		{"empty pattern skipped", []string{"", "*.csv"}, "rows.csv", true},
		{"no patterns", nil, "anything", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Rule{Threshold: 1, Patterns: tt.patterns}
			if got := r.MatchesPath(tt.path); got != tt.want {
				t.Errorf("MatchesPath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

type fakeResolver map[string]bool

func (f fakeResolver) Has(name string) bool { return f[name] }

func TestSet_Validate(t *testing.T) {
	features := fakeResolver{"syntax": true, "lsp": true}

	s := NewSet(
		Rule{Threshold: 2, Patterns: []string{"*"}, Features: []string{"syntax", "lsp"}},
		Rule{Threshold: 10, Patterns: []string{"*.log"}, Features: nil},
	)

	if err := s.Validate(features); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSet_Validate_UnknownFeature(t *testing.T) {
	features := fakeResolver{"syntax": true}

	s := NewSet(
		Rule{Threshold: 2, Patterns: []string{"*"}, Features: []string{"syntax"}},
		Rule{Threshold: 2, Patterns: []string{"*"}, Features: []string{"ghost"}},
	)

	err := s.Validate(features)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if ve.Index != 1 {
		t.Errorf("expected rule index 1, got %d", ve.Index)
	}
}

func TestSet_Validate_NoPatterns(t *testing.T) {
	s := NewSet(Rule{Threshold: 1})

	err := s.Validate(fakeResolver{})
	if !errors.Is(err, ErrNoPatterns) {
		t.Errorf("expected ErrNoPatterns, got %v", err)
	}
}

func TestSet_Validate_EmptyPattern(t *testing.T) {
	s := NewSet(Rule{Threshold: 1, Patterns: []string{""}})

	err := s.Validate(fakeResolver{})
	if !errors.Is(err, ErrEmptyPattern) {
		t.Errorf("expected ErrEmptyPattern, got %v", err)
	}
}

func TestSet_Immutable(t *testing.T) {
	src := []Rule{{Threshold: 1, Patterns: []string{"*"}}}
	s := NewSet(src...)

	src[0].Threshold = 99
	if s.Rules()[0].Threshold != 1 {
		t.Error("expected set to be unaffected by mutation of source slice")
	}

	out := s.Rules()
	out[0].Threshold = 99
	if s.Rules()[0].Threshold != 1 {
		t.Error("expected set to be unaffected by mutation of returned slice")
	}
}
