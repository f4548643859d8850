// Package dfa converts a Thompson NFA into a deterministic transition table
// by subset construction over epsilon-closures.
package dfa

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"lexauto/internal/alphabet"
	"lexauto/internal/nfa"
)

// Node is a DFA state. Nodes are numbered in discovery order; the start
// node is always 0.
type Node int

// NoNode marks a missing transition.
const NoNode Node = -1

var ErrTooManyStates = errors.New("dfa: state limit exceeded")

// Options configures Determinize.
type Options struct {
	// MaxStates bounds the number of DFA nodes. Zero means no bound.
	MaxStates int

	// Logger for compilation events. If nil, slog.Default() is used.
	Logger *slog.Logger
}

type node struct {
	set       nfa.StateSet
	accepting bool
	// next is indexed by alphabet position.
	next []Node
}

// DFA is an immutable transition table from (canonical NFA state set, symbol)
// to canonical NFA state set. It is safe for concurrent readers.
type DFA struct {
	alpha   *alphabet.Alphabet
	session uuid.UUID
	nodes   []node
	// index maps a set fingerprint to the nodes carrying that fingerprint.
	index map[uint64][]Node
	edges int
}

// Determinize runs subset construction from frag.Entry over every symbol of alpha.
// An NFA edge labeled with a symbol outside alpha yields an *alphabet.UnknownSymbolError.
func Determinize(sess *nfa.Session, frag nfa.Fragment, alpha *alphabet.Alphabet, opts Options) (*DFA, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	d := &DFA{
		alpha:   alpha,
		session: sess.ID(),
		index:   make(map[uint64][]Node),
	}
	symbols := alpha.Symbols()

	start, _ := d.intern(sess, sess.EpsilonClosure(nfa.StateSet{frag.Entry}))
	queue := []Node{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		set := d.nodes[cur].set

		if err := checkSymbols(sess, set, alpha); err != nil {
			return nil, err
		}
		for i, c := range symbols {
			t := sess.Move(set, c)
			if len(t) == 0 {
				continue
			}
			to, fresh := d.intern(sess, t)
			if fresh {
				if opts.MaxStates > 0 && len(d.nodes) > opts.MaxStates {
					return nil, fmt.Errorf("%w: more than %d nodes", ErrTooManyStates, opts.MaxStates)
				}
				queue = append(queue, to)
			}
			d.nodes[cur].next[i] = to
			d.edges++
		}
	}

	logger.Debug("determinized",
		"session", sess.ID(),
		"nfa_states", sess.Len(),
		"dfa_nodes", len(d.nodes),
		"transitions", d.edges,
	)
	return d, nil
}

// intern returns the node for set, creating it when no equal set has been
// seen. Lookup and insertion happen together so a set is enqueued at most once.
func (d *DFA) intern(sess *nfa.Session, set nfa.StateSet) (Node, bool) {
	fp := set.Fingerprint()
	for _, n := range d.index[fp] {
		if d.nodes[n].set.Equal(set) {
			return n, false
		}
	}
	n := Node(len(d.nodes))
	next := make([]Node, d.alpha.Len())
	for i := range next {
		next[i] = NoNode
	}
	d.nodes = append(d.nodes, node{set: set, accepting: sess.IsAccepting(set), next: next})
	d.index[fp] = append(d.index[fp], n)
	return n, true
}

func checkSymbols(sess *nfa.Session, set nfa.StateSet, alpha *alphabet.Alphabet) error {
	for _, id := range set {
		for _, r := range sess.StateSymbols(id) {
			if !alpha.Contains(r) {
				return fmt.Errorf("dfa: edge from state %d: %w", id, &alphabet.UnknownSymbolError{Symbol: r, Offset: -1})
			}
		}
	}
	return nil
}

func (d *DFA) Start() Node { return 0 }

// Len is the number of nodes.
func (d *DFA) Len() int { return len(d.nodes) }

// NumTransitions is the number of recorded (node, symbol) entries.
func (d *DFA) NumTransitions() int { return d.edges }

func (d *DFA) Alphabet() *alphabet.Alphabet { return d.alpha }

// Session is the ID of the NFA session the table was built from.
func (d *DFA) Session() uuid.UUID { return d.session }

// Accepting reports whether n's state set holds an accepting NFA state.
func (d *DFA) Accepting(n Node) bool { return d.nodes[n].accepting }

// Set returns the canonical NFA state set of n.
func (d *DFA) Set(n Node) nfa.StateSet {
	return append(nfa.StateSet(nil), d.nodes[n].set...)
}

// Next returns the successor of n on symbol. ok is false when there is no
// transition; err is set only for symbols outside the alphabet.
func (d *DFA) Next(n Node, symbol rune) (next Node, ok bool, err error) {
	i, err := d.alpha.Index(symbol)
	if err != nil {
		return NoNode, false, err
	}
	next = d.nodes[n].next[i]
	return next, next != NoNode, nil
}

// NodeOf finds the node whose state set equals set.
func (d *DFA) NodeOf(set nfa.StateSet) (Node, bool) {
	for _, n := range d.index[set.Fingerprint()] {
		if d.nodes[n].set.Equal(set) {
			return n, true
		}
	}
	return NoNode, false
}

// Lookup is the table keyed by state sets: the destination set of (set, symbol).
func (d *DFA) Lookup(set nfa.StateSet, symbol rune) (nfa.StateSet, bool, error) {
	n, ok := d.NodeOf(set)
	if !ok {
		return nil, false, nil
	}
	to, ok, err := d.Next(n, symbol)
	if !ok || err != nil {
		return nil, false, err
	}
	return d.Set(to), true, nil
}

// Transition is one entry of the table.
type Transition struct {
	From   Node
	Symbol rune
	To     Node
}

// Transitions lists the table ordered by source node, then alphabet order.
func (d *DFA) Transitions() []Transition {
	out := make([]Transition, 0, d.edges)
	symbols := d.alpha.Symbols()
	for from := range d.nodes {
		for i, to := range d.nodes[from].next {
			if to != NoNode {
				out = append(out, Transition{From: Node(from), Symbol: symbols[i], To: to})
			}
		}
	}
	return out
}
