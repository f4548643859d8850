package nfa

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// EpsilonClosure returns every state reachable from set through zero or more
// epsilon edges, set included. It walks an explicit stack guarded by a
// visited set, so epsilon cycles terminate.
func (s *Session) EpsilonClosure(set StateSet) StateSet {
	visited := make(map[StateID]struct{}, len(set))
	stack := make([]StateID, 0, len(set))
	for _, id := range set {
		s.get(id)
		if _, ok := visited[id]; !ok {
			visited[id] = struct{}{}
			stack = append(stack, id)
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, to := range s.states[id].epsilon {
			if _, ok := visited[to]; ok {
				continue
			}
			visited[to] = struct{}{}
			stack = append(stack, to)
		}
	}
	out := maps.Keys(visited)
	slices.Sort(out)
	return StateSet(out)
}

// Step returns the states reached by consuming symbol from the epsilon
// closure of set. The result is not closed.
func (s *Session) Step(set StateSet, symbol rune) StateSet {
	var out []StateID
	for _, id := range s.EpsilonClosure(set) {
		out = append(out, s.states[id].edges[symbol]...)
	}
	return NewStateSet(out...)
}

// Move is the closed one-symbol move: EpsilonClosure(Step(set, symbol)).
func (s *Session) Move(set StateSet, symbol rune) StateSet {
	step := s.Step(set, symbol)
	if len(step) == 0 {
		return nil
	}
	return s.EpsilonClosure(step)
}

// IsAccepting reports whether any member of set is accepting.
func (s *Session) IsAccepting(set StateSet) bool {
	for _, id := range set {
		if s.get(id).accepting {
			return true
		}
	}
	return false
}

// Simulate runs the NFA from entry over input without building a DFA.
// It reports whether the whole input is accepted and the length in runes of
// the longest accepted prefix, or -1 when no prefix is accepted.
func (s *Session) Simulate(entry StateID, input string) (accepted bool, longest int) {
	cur := s.EpsilonClosure(StateSet{entry})
	longest = -1
	if s.IsAccepting(cur) {
		longest = 0
	}
	runes := []rune(input)
	for i, r := range runes {
		cur = s.Move(cur, r)
		if len(cur) == 0 {
			return false, longest
		}
		if s.IsAccepting(cur) {
			longest = i + 1
		}
	}
	return longest == len(runes), longest
}
