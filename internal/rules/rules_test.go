package rules

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexauto/internal/alphabet"
	"lexauto/internal/dfa"
	"lexauto/internal/match"
	"lexauto/internal/nfa"
	"lexauto/internal/scanner"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func compilePattern(t *testing.T, src string) *dfa.DFA {
	t.Helper()
	p, err := ParsePattern(src)
	require.NoError(t, err)
	sess := nfa.NewSession()
	frag, err := p.Build(sess)
	require.NoError(t, err)
	d, err := dfa.Determinize(sess, frag, alphabet.Alphanumeric(), dfa.Options{Logger: quiet})
	require.NoError(t, err)
	return d
}

func TestPatterns(t *testing.T) {
	tests := []struct {
		src     string
		accepts []string
		rejects []string
	}{
		{`lit("a")`, []string{"a"}, []string{"", "b", "aa"}},
		{`str("abc")`, []string{"abc"}, []string{"ab", "abcd"}},
		{`str("")`, []string{""}, []string{"a"}},
		{`empty()`, []string{""}, []string{"a"}},
		{`class("xyz")`, []string{"x", "y", "z"}, []string{"", "xy", "a"}},
		{`alt(lit("a"), lit("b"), str("cd"))`, []string{"a", "b", "cd"}, []string{"c", "ab"}},
		{`cat(lit("a"), lit("b"))`, []string{"ab"}, []string{"a", "ba"}},
		{`star(lit("a"))`, []string{"", "a", "aaaa"}, []string{"b", "aab"}},
		{`plus(lit("a"))`, []string{"a", "aaa"}, []string{""}},
		{`opt(lit("a"))`, []string{"", "a"}, []string{"aa"}},
		{`cat(class("ab"), star(class("ab01")))`, []string{"a", "b1a0"}, []string{"0a", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			d := compilePattern(t, tt.src)
			for _, in := range tt.accepts {
				res, err := match.Run(d, in)
				require.NoError(t, err)
				assert.True(t, res.Complete && res.Outcome == match.Accepted, "should accept %q", in)
			}
			for _, in := range tt.rejects {
				res, err := match.Run(d, in)
				require.NoError(t, err)
				assert.False(t, res.Complete && res.Outcome == match.Accepted, "should reject %q", in)
			}
		})
	}
}

func TestPatternErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`lit("ab")`, `1:1: lit: "ab" is not a single symbol`},
		{`lit(lit("a"))`, `1:1: lit: takes one string argument`},
		{`class("")`, `1:1: class: empty class`},
		{`empty(lit("a"))`, `1:1: empty: takes no arguments`},
		{`star(lit("a"), lit("b"))`, `1:1: star: takes 1 pattern argument(s), got 2`},
		{`cat()`, `1:1: cat: takes at least 1 pattern argument(s), got 0`},
		{`alt(lit("a"), "b")`, `1:1: alt: string "b" where a pattern is expected`},
		{`cat(lit("a"), nope())`, `1:15: nope: unknown combinator`},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			p, err := ParsePattern(tt.src)
			require.NoError(t, err)
			_, err = p.Build(nfa.NewSession())
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}

	_, err := ParsePattern(`cat(lit("a")`)
	assert.Error(t, err)
}

func TestLoadAndScan(t *testing.T) {
	f, err := Load("testdata/tokens.yaml")
	require.NoError(t, err)
	require.Len(t, f.Rules, 5)
	assert.Equal(t, 1000, f.MaxStates)

	set, err := Compile(f, quiet)
	require.NoError(t, err)
	assert.Equal(t, 37, set.Alphabet.Len())

	ident, ok := set.Rule("ident")
	require.True(t, ok)
	assert.NotEqual(t, ident.Session.ID(), set.Rules[0].Session.ID())
	_, ok = set.Rule("missing")
	assert.False(t, ok)

	toks, err := set.Scanner().Scan("while x1 if 42 iffy")
	require.NoError(t, err)
	assert.Equal(t, []scanner.Token{
		{Kind: "while", Text: "while", Offset: 0},
		{Kind: "ident", Text: "x1", Offset: 6},
		{Kind: "if", Text: "if", Offset: 9},
		{Kind: "int", Text: "42", Offset: 12},
		{Kind: "ident", Text: "iffy", Offset: 15},
	}, toks)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("rules: []\n"))
	assert.ErrorIs(t, err, ErrNoRules)

	_, err = Parse([]byte("rules:\n  - pattern: lit(\"a\")\n"))
	assert.EqualError(t, err, "rules: rule 0 has no name")

	_, err = Parse([]byte("rules:\n  - name: a\n    pattern: lit(\"a\")\n  - name: a\n    pattern: lit(\"b\")\n"))
	assert.EqualError(t, err, `rules: duplicate rule "a"`)

	_, err = Parse([]byte("bogus: 1\nrules:\n  - name: a\n    pattern: lit(\"a\")\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("maxStates: -1\nrules:\n  - name: a\n    pattern: lit(\"a\")\n"))
	assert.Error(t, err)
}

func TestCompileErrors(t *testing.T) {
	f := &File{Alphabet: "ab", Rules: []RuleSpec{{Name: "c", Pattern: `lit("c")`}}}
	_, err := Compile(f, quiet)
	require.Error(t, err)
	assert.True(t, errors.Is(err, alphabet.ErrUnknownSymbol))
	assert.Contains(t, err.Error(), `rule "c"`)

	f = &File{Alphabet: "aa", Rules: []RuleSpec{{Name: "a", Pattern: `lit("a")`}}}
	_, err = Compile(f, quiet)
	assert.ErrorIs(t, err, alphabet.ErrDuplicate)

	f = &File{MaxStates: 2, Rules: []RuleSpec{{Name: "long", Pattern: `str("abcd")`}}}
	_, err = Compile(f, quiet)
	assert.ErrorIs(t, err, dfa.ErrTooManyStates)
}
