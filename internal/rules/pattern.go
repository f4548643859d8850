package rules

import (
	"fmt"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"lexauto/internal/nfa"
)

// Pattern is a combinator expression such as cat(lit("a"), star(class("bc"))).
type Pattern struct {
	Call *Call `parser:"@@"`
}

type Call struct {
	Pos  lexer.Position
	Name string `parser:"@Ident '('"`
	Args []*Arg `parser:"( @@ ( ',' @@ )* )? ')'"`
}

type Arg struct {
	Str  *string `parser:"  @String"`
	Call *Call   `parser:"| @@"`
}

var parser = participle.MustBuild[Pattern](participle.Unquote("String"))

// ParsePattern parses one combinator expression.
func ParsePattern(src string) (*Pattern, error) {
	return parser.ParseString("pattern", src)
}

// Build assembles the pattern into a fragment of sess.
func (p *Pattern) Build(sess *nfa.Session) (nfa.Fragment, error) {
	return p.Call.build(sess)
}

func (c *Call) errorf(format string, args ...any) error {
	return fmt.Errorf("%d:%d: %s: %s", c.Pos.Line, c.Pos.Column, c.Name, fmt.Sprintf(format, args...))
}

func (c *Call) str() (string, error) {
	if len(c.Args) != 1 || c.Args[0].Str == nil {
		return "", c.errorf("takes one string argument")
	}
	return *c.Args[0].Str, nil
}

func (c *Call) subpatterns(sess *nfa.Session, min, max int) ([]nfa.Fragment, error) {
	if len(c.Args) < min || (max >= 0 && len(c.Args) > max) {
		if min == max {
			return nil, c.errorf("takes %d pattern argument(s), got %d", min, len(c.Args))
		}
		return nil, c.errorf("takes at least %d pattern argument(s), got %d", min, len(c.Args))
	}
	frags := make([]nfa.Fragment, 0, len(c.Args))
	for _, a := range c.Args {
		if a.Call == nil {
			return nil, c.errorf("string %q where a pattern is expected", *a.Str)
		}
		f, err := a.Call.build(sess)
		if err != nil {
			return nil, err
		}
		frags = append(frags, f)
	}
	return frags, nil
}

func (c *Call) build(sess *nfa.Session) (nfa.Fragment, error) {
	switch c.Name {
	case "lit":
		s, err := c.str()
		if err != nil {
			return nfa.Fragment{}, err
		}
		if utf8.RuneCountInString(s) != 1 {
			return nfa.Fragment{}, c.errorf("%q is not a single symbol", s)
		}
		r, _ := utf8.DecodeRuneInString(s)
		return sess.Literal(r), nil
	case "str":
		s, err := c.str()
		if err != nil {
			return nfa.Fragment{}, err
		}
		return sess.String(s), nil
	case "class":
		s, err := c.str()
		if err != nil {
			return nfa.Fragment{}, err
		}
		if s == "" {
			return nfa.Fragment{}, c.errorf("empty class")
		}
		return sess.Class([]rune(s)...), nil
	case "empty":
		if len(c.Args) != 0 {
			return nfa.Fragment{}, c.errorf("takes no arguments")
		}
		return sess.Empty(), nil
	case "alt":
		fs, err := c.subpatterns(sess, 1, -1)
		if err != nil {
			return nfa.Fragment{}, err
		}
		return sess.Union(fs...), nil
	case "cat":
		fs, err := c.subpatterns(sess, 1, -1)
		if err != nil {
			return nfa.Fragment{}, err
		}
		return sess.Sequence(fs...), nil
	case "star", "plus", "opt":
		fs, err := c.subpatterns(sess, 1, 1)
		if err != nil {
			return nfa.Fragment{}, err
		}
		switch c.Name {
		case "star":
			return sess.Repetition(fs[0]), nil
		case "plus":
			return sess.Plus(fs[0]), nil
		}
		return sess.Optional(fs[0]), nil
	}
	return nfa.Fragment{}, c.errorf("unknown combinator")
}
