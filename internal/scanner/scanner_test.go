package scanner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"lexauto/internal/alphabet"
	"lexauto/internal/dfa"
	"lexauto/internal/nfa"
)

const (
	lower  = "abcdefghijklmnopqrstuvwxyz"
	digits = "0123456789"
)

func compile(t *testing.T, alpha *alphabet.Alphabet, build func(s *nfa.Session) nfa.Fragment) *dfa.DFA {
	t.Helper()
	sess := nfa.NewSession()
	d, err := dfa.Determinize(sess, build(sess), alpha, dfa.Options{})
	require.NoError(t, err)
	return d
}

func testRules(t *testing.T) []Rule {
	t.Helper()
	alpha, err := alphabet.FromString(lower + digits + " ")
	require.NoError(t, err)
	return []Rule{
		{Name: "IF", DFA: compile(t, alpha, func(s *nfa.Session) nfa.Fragment { return s.String("if") })},
		{Name: "IDENT", DFA: compile(t, alpha, func(s *nfa.Session) nfa.Fragment {
			return s.Concatenation(s.Class([]rune(lower)...), s.Repetition(s.Class([]rune(lower+digits)...)))
		})},
		{Name: "INT", DFA: compile(t, alpha, func(s *nfa.Session) nfa.Fragment {
			return s.Plus(s.Class([]rune(digits)...))
		})},
		{Name: "WS", Skip: true, DFA: compile(t, alpha, func(s *nfa.Session) nfa.Fragment {
			return s.Plus(s.Literal(' '))
		})},
	}
}

type lexToken struct {
	kind   string
	text   string
	offset int
}

// referenceLexer builds the same rule set with lexmachine.
func referenceLexer(t *testing.T) *lexmachine.Lexer {
	t.Helper()
	lexer := lexmachine.NewLexer()
	emit := func(kind string) lexmachine.Action {
		return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
			return lexToken{kind: kind, text: string(m.Bytes), offset: m.TC}, nil
		}
	}
	lexer.Add([]byte(`if`), emit("IF"))
	lexer.Add([]byte(`[a-z][a-z0-9]*`), emit("IDENT"))
	lexer.Add([]byte(`[0-9]+`), emit("INT"))
	lexer.Add([]byte(`[ ]+`), func(*lexmachine.Scanner, *machines.Match) (interface{}, error) { return nil, nil })
	require.NoError(t, lexer.Compile())
	return lexer
}

func TestScanMatchesLexmachine(t *testing.T) {
	s := New(testRules(t)...)
	ref := referenceLexer(t)

	inputs := []string{
		"if iffy x1 42",
		"if9 i f if",
		"  007 bond  ",
		"a1b2c3 123abc",
		"ifif if2if",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got, err := s.Scan(in)
			require.NoError(t, err)

			sc, err := ref.Scanner([]byte(in))
			require.NoError(t, err)
			var want []Token
			for tok, err, eof := sc.Next(); !eof; tok, err, eof = sc.Next() {
				require.NoError(t, err)
				lt := tok.(lexToken)
				want = append(want, Token{Kind: lt.kind, Text: lt.text, Offset: lt.offset})
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestScanMaximalMunch(t *testing.T) {
	s := New(testRules(t)...)
	toks, err := s.Scan("if iffy 12")
	require.NoError(t, err)
	assert.Equal(t, []Token{
		{Kind: "IF", Text: "if", Offset: 0},
		{Kind: "IDENT", Text: "iffy", Offset: 3},
		{Kind: "INT", Text: "12", Offset: 8},
	}, toks)
	assert.Equal(t, `IF("if")@0`, toks[0].String())
}

func TestScanNoMatch(t *testing.T) {
	// digits are in the alphabet but no rule starts with one
	rules := testRules(t)
	s := New(rules[0], rules[1], rules[3])
	toks, err := s.Scan("ab 12")
	require.Error(t, err)

	var nm *NoMatchError
	require.True(t, errors.As(err, &nm))
	assert.Equal(t, 3, nm.Offset)
	assert.Equal(t, '1', nm.Symbol)
	assert.Equal(t, []Token{{Kind: "IDENT", Text: "ab", Offset: 0}}, toks)
}

func TestScanUnknownSymbol(t *testing.T) {
	s := New(testRules(t)...)
	toks, err := s.Scan("abc;")
	require.Error(t, err)
	assert.True(t, errors.Is(err, alphabet.ErrUnknownSymbol))

	var use *alphabet.UnknownSymbolError
	require.True(t, errors.As(err, &use))
	assert.Equal(t, ';', use.Symbol)
	assert.Equal(t, 3, use.Offset)
	assert.Len(t, toks, 1)
}
