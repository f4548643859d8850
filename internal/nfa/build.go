package nfa

import "fmt"

// Fragment is an automaton under construction with one entry state and one
// accepting exit state. Combinators rewire the states of their inputs in
// place, so a fragment is single-use: passing it to a second combinator panics.
type Fragment struct {
	Entry StateID
	Exit  StateID

	sess  *Session
	token uint64
}

func (s *Session) fragment(entry, exit StateID) Fragment {
	s.nextToken++
	s.live[s.nextToken] = struct{}{}
	return Fragment{Entry: entry, Exit: exit, sess: s, token: s.nextToken}
}

// consume marks f as used. It is the only place the single-use rule is enforced.
func (s *Session) consume(f Fragment) {
	if f.sess != s {
		panic(fmt.Sprintf("nfa: fragment %d->%d belongs to another session", f.Entry, f.Exit))
	}
	if _, ok := s.live[f.token]; !ok {
		panic(fmt.Sprintf("nfa: fragment %d->%d reused after being consumed", f.Entry, f.Exit))
	}
	delete(s.live, f.token)
}

// Literal matches exactly one symbol.
func (s *Session) Literal(symbol rune) Fragment {
	entry, exit := s.NewState(), s.NewState()
	s.SetAccepting(exit, true)
	s.Connect(entry, symbol, exit)
	return s.fragment(entry, exit)
}

// Empty matches the empty string. Entry and exit are joined by epsilon edges
// in both directions.
func (s *Session) Empty() Fragment {
	entry, exit := s.NewState(), s.NewState()
	s.SetAccepting(exit, true)
	s.ConnectEpsilon(entry, exit)
	s.ConnectEpsilon(exit, entry)
	return s.fragment(entry, exit)
}

// Alternation matches what a or b matches.
func (s *Session) Alternation(a, b Fragment) Fragment {
	s.consume(a)
	s.consume(b)
	entry, exit := s.NewState(), s.NewState()
	s.SetAccepting(a.Exit, false)
	s.SetAccepting(b.Exit, false)
	s.ConnectEpsilon(entry, a.Entry)
	s.ConnectEpsilon(entry, b.Entry)
	s.ConnectEpsilon(a.Exit, exit)
	s.ConnectEpsilon(b.Exit, exit)
	s.SetAccepting(exit, true)
	return s.fragment(entry, exit)
}

// Concatenation matches a followed by b.
func (s *Session) Concatenation(a, b Fragment) Fragment {
	s.consume(a)
	s.consume(b)
	s.SetAccepting(a.Exit, false)
	s.SetAccepting(b.Exit, true)
	s.ConnectEpsilon(a.Exit, b.Entry)
	return s.fragment(a.Entry, b.Exit)
}

// Repetition is the Kleene star of a. It allocates no states: the result
// reuses a's entry and exit with a skip edge and a loop-back edge.
func (s *Session) Repetition(a Fragment) Fragment {
	s.consume(a)
	s.ConnectEpsilon(a.Entry, a.Exit)
	s.ConnectEpsilon(a.Exit, a.Entry)
	return s.fragment(a.Entry, a.Exit)
}

// Plus matches one or more repetitions of a (loop-back edge only).
func (s *Session) Plus(a Fragment) Fragment {
	s.consume(a)
	s.ConnectEpsilon(a.Exit, a.Entry)
	return s.fragment(a.Entry, a.Exit)
}

// Optional matches a or the empty string (skip edge only).
func (s *Session) Optional(a Fragment) Fragment {
	s.consume(a)
	s.ConnectEpsilon(a.Entry, a.Exit)
	return s.fragment(a.Entry, a.Exit)
}

// Class matches any one of symbols. With no symbols it matches nothing.
func (s *Session) Class(symbols ...rune) Fragment {
	entry, exit := s.NewState(), s.NewState()
	s.SetAccepting(exit, true)
	for _, r := range symbols {
		s.Connect(entry, r, exit)
	}
	return s.fragment(entry, exit)
}

// String matches the runes of lit in order; "" is Empty.
func (s *Session) String(lit string) Fragment {
	var frag Fragment
	for i, r := range []rune(lit) {
		if i == 0 {
			frag = s.Literal(r)
			continue
		}
		frag = s.Concatenation(frag, s.Literal(r))
	}
	if frag.sess == nil {
		return s.Empty()
	}
	return frag
}

// Union folds Alternation over fs. It panics when fs is empty.
func (s *Session) Union(fs ...Fragment) Fragment {
	if len(fs) == 0 {
		panic("nfa: Union of no fragments")
	}
	frag := fs[0]
	for _, f := range fs[1:] {
		frag = s.Alternation(frag, f)
	}
	return frag
}

// Sequence folds Concatenation over fs; no fragments is Empty.
func (s *Session) Sequence(fs ...Fragment) Fragment {
	if len(fs) == 0 {
		return s.Empty()
	}
	frag := fs[0]
	for _, f := range fs[1:] {
		frag = s.Concatenation(frag, f)
	}
	return frag
}
