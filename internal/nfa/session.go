// Package nfa holds the state graph of a nondeterministic automaton, the
// Thompson combinators that assemble it, and the epsilon-closure engine used by
// subset construction.
//
// All states of one compilation live in a Session. Edges are plain StateIDs
// into the session, so epsilon cycles introduced by repetition need no special
// handling. A Session is not safe for concurrent use; independent compilations
// each get their own.
package nfa

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// StateID identifies a state within its Session. IDs start at 0 and grow
// by one for every NewState call; they are never reused.
type StateID int

type state struct {
	accepting bool
	edges     map[rune][]StateID
	epsilon   []StateID
}

// Session is the arena owning every state built during one compilation.
type Session struct {
	id     uuid.UUID
	next   StateID
	states []state

	// live holds the tokens of fragments that have not been consumed yet.
	live      map[uint64]struct{}
	nextToken uint64
}

func NewSession() *Session {
	return &Session{
		id:   uuid.New(),
		live: make(map[uint64]struct{}),
	}
}

// ID is a random identifier for log records and dump headers.
func (s *Session) ID() uuid.UUID { return s.id }

// Len is the number of states allocated so far.
func (s *Session) Len() int { return len(s.states) }

// NewState allocates a non-accepting state with no edges.
func (s *Session) NewState() StateID {
	id := s.next
	s.next++
	s.states = append(s.states, state{})
	return id
}

func (s *Session) get(id StateID) *state {
	if id < 0 || int(id) >= len(s.states) {
		panic(fmt.Sprintf("nfa: state %d not in session %s", id, s.id))
	}
	return &s.states[id]
}

// Connect adds a transition on symbol from -> to. Several targets per symbol are allowed.
func (s *Session) Connect(from StateID, symbol rune, to StateID) {
	s.get(to)
	st := s.get(from)
	if st.edges == nil {
		st.edges = make(map[rune][]StateID)
	}
	st.edges[symbol] = insertSorted(st.edges[symbol], to)
}

// ConnectEpsilon adds an epsilon transition from -> to.
func (s *Session) ConnectEpsilon(from, to StateID) {
	s.get(to)
	st := s.get(from)
	st.epsilon = insertSorted(st.epsilon, to)
}

func (s *Session) SetAccepting(id StateID, accepting bool) {
	s.get(id).accepting = accepting
}

func (s *Session) Accepting(id StateID) bool { return s.get(id).accepting }

// Edges returns the targets of id on symbol in ascending order.
func (s *Session) Edges(id StateID, symbol rune) []StateID {
	return slices.Clone(s.get(id).edges[symbol])
}

// EpsilonEdges returns the epsilon targets of id in ascending order.
func (s *Session) EpsilonEdges(id StateID) []StateID {
	return slices.Clone(s.get(id).epsilon)
}

// StateSymbols returns the symbols labeling edges out of id, sorted.
func (s *Session) StateSymbols(id StateID) []rune {
	syms := maps.Keys(s.get(id).edges)
	slices.Sort(syms)
	return syms
}

// Symbols returns every symbol that labels at least one edge in the session, sorted.
func (s *Session) Symbols() []rune {
	seen := make(map[rune]struct{})
	for i := range s.states {
		for r := range s.states[i].edges {
			seen[r] = struct{}{}
		}
	}
	syms := maps.Keys(seen)
	slices.Sort(syms)
	return syms
}

func insertSorted(ids []StateID, id StateID) []StateID {
	i, found := slices.BinarySearch(ids, id)
	if found {
		return ids
	}
	return slices.Insert(ids, i, id)
}
