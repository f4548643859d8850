// Package scanner tokenizes input with several compiled automata using
// maximal munch: at every offset the longest accepted match wins and ties go
// to the rule listed first.
package scanner

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"lexauto/internal/alphabet"
	"lexauto/internal/dfa"
	"lexauto/internal/match"
)

// Rule names a token kind and the automaton recognizing it.
type Rule struct {
	Name string
	DFA  *dfa.DFA
	// Skip rules consume input without producing tokens.
	Skip bool
}

type Token struct {
	Kind string
	Text string
	// Offset is the byte offset of Text in the scanned input.
	Offset int
}

func (t Token) String() string { return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Text, t.Offset) }

// NoMatchError reports an offset where no rule accepts a non-empty prefix.
type NoMatchError struct {
	Offset int
	Symbol rune
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("scanner: no rule matches %q at offset %d", e.Symbol, e.Offset)
}

type Scanner struct {
	rules   []Rule
	cursors []*match.Cursor
}

func New(rules ...Rule) *Scanner {
	s := &Scanner{rules: rules, cursors: make([]*match.Cursor, len(rules))}
	for i, r := range rules {
		s.cursors[i] = match.NewCursor(r.DFA)
	}
	return s
}

// Scan tokenizes all of input.
func (s *Scanner) Scan(input string) ([]Token, error) {
	var toks []Token
	for off := 0; off < len(input); {
		rule, n, err := s.Longest(input, off)
		if err != nil {
			return toks, err
		}
		if !s.rules[rule].Skip {
			toks = append(toks, Token{Kind: s.rules[rule].Name, Text: input[off : off+n], Offset: off})
		}
		off += n
	}
	return toks, nil
}

// Longest returns the rule with the longest non-empty match at off and the
// match length in bytes.
func (s *Scanner) Longest(input string, off int) (rule, n int, err error) {
	rule, best := -1, 0
	known := false
	for i, c := range s.cursors {
		c.Reset()
		end := 0
		for pos, r := range input[off:] {
			ok, err := c.Feed(r)
			if err != nil {
				if !errors.Is(err, alphabet.ErrUnknownSymbol) {
					return -1, 0, err
				}
				break
			}
			if pos == 0 {
				known = true
			}
			if !ok {
				break
			}
			if c.Accepting() {
				end = pos + utf8.RuneLen(r)
			}
		}
		if end > best {
			rule, best = i, end
		}
	}
	if rule >= 0 {
		return rule, best, nil
	}
	sym, _ := utf8.DecodeRuneInString(input[off:])
	if !known {
		return -1, 0, &alphabet.UnknownSymbolError{Symbol: sym, Offset: off}
	}
	return -1, 0, &NoMatchError{Offset: off, Symbol: sym}
}
