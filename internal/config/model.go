package config

import (
	"fmt"

	"github.com/specialistvlad/unroll/internal/unroll"
)

// Field identifies one setting for layering purposes.
type Field uint

const (
	FieldKeyword Field = 1 << iota
	FieldCommentPrefix
	FieldLabelPattern
	FieldUnterminated
	FieldMaxRepeat
	FieldOutput
)

// Settings is the unified, format-agnostic expander configuration.
type Settings struct {
	Keyword       string
	CommentPrefix string
	LabelPattern  string
	Unterminated  string
	MaxRepeat     int
	Output        string // empty means stdout

	// Set records which fields were provided by the source of this value.
	Set Field
}

// Defaults returns the built-in settings, equivalent to the legacy tool with
// a warning on unterminated blocks.
func Defaults() Settings {
	return Settings{
		Keyword:       unroll.DefaultKeyword,
		CommentPrefix: unroll.DefaultCommentPrefix,
		LabelPattern:  unroll.DefaultLabelPattern,
		Unterminated:  unroll.PolicyWarn.String(),
		MaxRepeat:     unroll.DefaultMaxRepeat,
		Set:           FieldKeyword | FieldCommentPrefix | FieldLabelPattern | FieldUnterminated | FieldMaxRepeat,
	}
}

// Has reports whether f was provided.
func (s Settings) Has(f Field) bool {
	return s.Set&f != 0
}

// Merge returns s overridden by every field that over provides.
func (s Settings) Merge(over Settings) Settings {
	merged := s
	if over.Has(FieldKeyword) {
		merged.Keyword = over.Keyword
	}
	if over.Has(FieldCommentPrefix) {
		merged.CommentPrefix = over.CommentPrefix
	}
	if over.Has(FieldLabelPattern) {
		merged.LabelPattern = over.LabelPattern
	}
	if over.Has(FieldUnterminated) {
		merged.Unterminated = over.Unterminated
	}
	if over.Has(FieldMaxRepeat) {
		merged.MaxRepeat = over.MaxRepeat
	}
	if over.Has(FieldOutput) {
		merged.Output = over.Output
	}
	merged.Set |= over.Set
	return merged
}

// Options compiles the settings into expander options.
func (s Settings) Options() (unroll.Options, error) {
	rules, err := unroll.NewRules(unroll.RuleSet{
		Keyword:       s.Keyword,
		CommentPrefix: s.CommentPrefix,
		LabelPattern:  s.LabelPattern,
	})
	if err != nil {
		return unroll.Options{}, err
	}
	policy, err := unroll.ParsePolicy(s.Unterminated)
	if err != nil {
		return unroll.Options{}, err
	}
	if s.MaxRepeat < 0 {
		return unroll.Options{}, fmt.Errorf("max_repeat must not be negative, got %d", s.MaxRepeat)
	}
	return unroll.Options{
		Rules:        rules,
		Unterminated: policy,
		MaxRepeat:    s.MaxRepeat,
	}, nil
}
