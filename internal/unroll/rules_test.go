package unroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRules_Directive(t *testing.T) {
	rules := DefaultRules()

	testCases := []struct {
		name      string
		line      string
		wantOK    bool
		wantCount string
	}{
		{name: "labelled directive", line: "loop: ; repeat 3\n", wantOK: true, wantCount: "3"},
		{name: "bare directive", line: "; repeat 16", wantOK: true, wantCount: "16"},
		{name: "crlf terminator", line: "; repeat 2\r\n", wantOK: true, wantCount: "2"},
		{name: "after an instruction", line: "  nop ; repeat 5", wantOK: true, wantCount: "5"},
		{name: "no count", line: "; repeat\n", wantOK: true, wantCount: ""},
		{name: "prose after keyword", line: "; repeat until done", wantOK: true, wantCount: ""},
		{name: "longer word", line: "; repeated below", wantOK: false},
		{name: "keyword not first in comment", line: "; do not repeat 3", wantOK: false},
		{name: "no comment", line: "repeat 3", wantOK: false},
		{name: "plain instruction", line: "  mov r0, r1", wantOK: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			count, ok := rules.Directive(tc.line)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantCount, count)
		})
	}
}

func TestRules_IsLabel(t *testing.T) {
	rules := DefaultRules()

	testCases := []struct {
		line string
		want bool
	}{
		{line: "end:\n", want: true},
		{line: "loop_2: nop", want: true},
		{line: ":", want: true},
		{line: "  indented:", want: false},
		{line: "mov r0, r1", want: false},
		{line: ".Llocal:", want: false},
		{line: "", want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			assert.Equal(t, tc.want, rules.IsLabel(tc.line))
		})
	}
}

func TestNewRules(t *testing.T) {
	testCases := []struct {
		name      string
		ruleSet   RuleSet
		expectErr bool
	}{
		{name: "defaults", ruleSet: RuleSet{}},
		{name: "custom keyword", ruleSet: RuleSet{Keyword: "dup"}},
		{name: "regex metacharacters in prefix", ruleSet: RuleSet{CommentPrefix: "#"}},
		{name: "keyword with space", ruleSet: RuleSet{Keyword: "repeat me"}, expectErr: true},
		{name: "invalid label pattern", ruleSet: RuleSet{LabelPattern: `^(\w+:`}, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rules, err := NewRules(tc.ruleSet)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, rules)
		})
	}
}

func TestParsePolicy(t *testing.T) {
	for _, name := range PolicyNames() {
		p, err := ParsePolicy(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.String())
	}

	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyWarn, p)

	p, err = ParsePolicy(" FLUSH ")
	require.NoError(t, err)
	assert.Equal(t, PolicyFlush, p)

	_, err = ParsePolicy("ignore")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warn, silent, error, flush")
}
