package unroll

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultKeyword is the comment word that opens a repeat block.
	DefaultKeyword = "repeat"
	// DefaultCommentPrefix introduces an assembler comment.
	DefaultCommentPrefix = ";"
	// DefaultLabelPattern matches a label definition at column 0.
	DefaultLabelPattern = `^\w*:`
)

// RuleSet is the uncompiled form of Rules, as it appears in configuration.
type RuleSet struct {
	Keyword       string
	CommentPrefix string
	LabelPattern  string
}

// Rules holds the two line predicates used by the expander.
type Rules struct {
	directive *regexp.Regexp
	label     *regexp.Regexp
}

// NewRules compiles a RuleSet. Empty fields fall back to the defaults.
func NewRules(rs RuleSet) (*Rules, error) {
	keyword := strings.TrimSpace(rs.Keyword)
	if keyword == "" {
		keyword = DefaultKeyword
	}
	if strings.ContainsAny(keyword, " \t") {
		return nil, fmt.Errorf("directive keyword %q must be a single word", rs.Keyword)
	}
	prefix := rs.CommentPrefix
	if prefix == "" {
		prefix = DefaultCommentPrefix
	}
	labelPattern := rs.LabelPattern
	if labelPattern == "" {
		labelPattern = DefaultLabelPattern
	}

	// "repeat 3" and "repeat3" carry a count, "repeat the block" is a
	// directive without one, "repeated" is not a directive at all.
	directive, err := regexp.Compile(regexp.QuoteMeta(prefix) + `\s*` + regexp.QuoteMeta(keyword) + `(?:\s*(\d+)|\b)`)
	if err != nil {
		return nil, fmt.Errorf("invalid directive keyword %q: %w", keyword, err)
	}
	label, err := regexp.Compile(labelPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid label pattern %q: %w", labelPattern, err)
	}
	return &Rules{directive: directive, label: label}, nil
}

// DefaultRules returns the rules of the legacy tool: `; repeat N` and `^\w*:`.
func DefaultRules() *Rules {
	r, err := NewRules(RuleSet{})
	if err != nil {
		panic(err) // unreachable, defaults are constant
	}
	return r
}

// IsLabel reports whether line terminates a repeat block.
func (r *Rules) IsLabel(line string) bool {
	return r.label.MatchString(trimEOL(line))
}

// Directive reports whether line is a repeat directive and returns the raw
// count text, which is empty when the directive has no digits.
func (r *Rules) Directive(line string) (count string, ok bool) {
	m := r.directive.FindStringSubmatch(trimEOL(line))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// parseCount converts the count text of a directive. maxRepeat of zero
// disables the upper bound.
func parseCount(raw string, maxRepeat int) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: missing repeat count", ErrMalformedDirective)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: repeat count %s is out of range", ErrMalformedDirective, raw)
		}
		return 0, fmt.Errorf("%w: %v", ErrMalformedDirective, err)
	}
	if maxRepeat > 0 && n > maxRepeat {
		return 0, fmt.Errorf("%w: repeat count %d exceeds limit %d", ErrMalformedDirective, n, maxRepeat)
	}
	return n, nil
}

// trimEOL strips one trailing "\n" or "\r\n".
func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
