// Package match executes a compiled DFA over input with maximal-munch
// reporting. Running off the table is the normal rejection outcome and is
// returned as a value; only symbols outside the alphabet are errors.
package match

import (
	"errors"

	"lexauto/internal/alphabet"
	"lexauto/internal/dfa"
)

type Outcome int

const (
	Rejected Outcome = iota
	Accepted
)

func (o Outcome) String() string {
	if o == Accepted {
		return "accepted"
	}
	return "rejected"
}

// Result describes one run. Lengths count symbols, not bytes.
type Result struct {
	// Outcome is Accepted when the position where the run stopped is
	// accepting. With Complete set that position is the end of input.
	Outcome Outcome
	// Consumed is the number of symbols read before the run stopped.
	Consumed int
	// Longest is the length of the longest accepted prefix, -1 if none.
	Longest int
	// Complete is set when every input symbol was consumed.
	Complete bool
}

// Cursor feeds a DFA one symbol at a time. It is the incremental form of Run
// for tokenizers that need the accepting state at every position.
type Cursor struct {
	d        *dfa.DFA
	node     dfa.Node
	consumed int
	longest  int
	dead     bool
}

func NewCursor(d *dfa.DFA) *Cursor {
	c := &Cursor{d: d}
	c.Reset()
	return c
}

// Reset moves the cursor back to the start node.
func (c *Cursor) Reset() {
	c.node = c.d.Start()
	c.consumed = 0
	c.dead = false
	c.longest = -1
	if c.d.Accepting(c.node) {
		c.longest = 0
	}
}

// Feed advances on symbol. It returns false once there is no transition;
// a dead cursor stays dead until Reset.
func (c *Cursor) Feed(symbol rune) (bool, error) {
	if c.dead {
		return false, nil
	}
	next, ok, err := c.d.Next(c.node, symbol)
	if err != nil {
		var use *alphabet.UnknownSymbolError
		if errors.As(err, &use) {
			use.Offset = c.consumed
		}
		return false, err
	}
	if !ok {
		c.dead = true
		return false, nil
	}
	c.node = next
	c.consumed++
	if c.d.Accepting(next) {
		c.longest = c.consumed
	}
	return true, nil
}

// Accepting reports whether the current position is accepting.
// A dead cursor reports the position where it stopped.
func (c *Cursor) Accepting() bool { return c.d.Accepting(c.node) }

func (c *Cursor) Consumed() int { return c.consumed }

// Longest is the longest accepted prefix seen so far, -1 if none.
func (c *Cursor) Longest() int { return c.longest }

func (c *Cursor) Dead() bool { return c.dead }

func (c *Cursor) Node() dfa.Node { return c.node }

// Run executes d over input in a single pass without backtracking.
// On an unknown symbol the partial result is returned with the error.
func Run(d *dfa.DFA, input string) (Result, error) {
	c := NewCursor(d)
	complete := true
	for _, r := range input {
		ok, err := c.Feed(r)
		if err != nil {
			return c.result(false), err
		}
		if !ok {
			complete = false
			break
		}
	}
	return c.result(complete), nil
}

func (c *Cursor) result(complete bool) Result {
	res := Result{
		Outcome:  Rejected,
		Consumed: c.consumed,
		Longest:  c.longest,
		Complete: complete,
	}
	if c.Accepting() {
		res.Outcome = Accepted
	}
	return res
}

// LongestPrefix returns the length of the longest accepted prefix of input.
func LongestPrefix(d *dfa.DFA, input string) (int, bool, error) {
	res, err := Run(d, input)
	if err != nil {
		return 0, false, err
	}
	if res.Longest < 0 {
		return 0, false, nil
	}
	return res.Longest, true, nil
}
