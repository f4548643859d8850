package dfa

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// WriteTable prints the nodes and the transition table in a fixed layout
// suitable for golden files.
func WriteTable(w io.Writer, d *DFA) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "start: %d\n\n", d.Start())
	fmt.Fprintln(tw, "NODE\tACCEPTING\tNFA STATES")
	for n := range d.nodes {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", n, yesNo(d.nodes[n].accepting), d.nodes[n].set)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "FROM\tSYMBOL\tTO\tACCEPTING")
	for _, t := range d.Transitions() {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", t.From, strconv.QuoteRune(t.Symbol), t.To, yesNo(d.Accepting(t.To)))
	}
	return tw.Flush()
}

// WriteDOT prints a Graphviz digraph of the table.
func WriteDOT(w io.Writer, d *DFA) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph DFA {")
	fmt.Fprintln(bw, "    rankdir=LR;")
	for n := range d.nodes {
		shape := "circle"
		if d.nodes[n].accepting {
			shape = "doublecircle"
		}
		fmt.Fprintf(bw, "    q%d [shape=%s];\n", n, shape)
	}
	for _, t := range d.Transitions() {
		fmt.Fprintf(bw, "    q%d -> q%d [label=%s];\n", t.From, t.To, strconv.Quote(string(t.Symbol)))
	}
	fmt.Fprintf(bw, "    _start [shape=point]; _start -> q%d;\n", d.Start())
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

type jsonNode struct {
	ID        Node  `json:"id"`
	Accepting bool  `json:"accepting"`
	States    []int `json:"states"`
}

type jsonTransition struct {
	From   Node   `json:"from"`
	Symbol string `json:"symbol"`
	To     Node   `json:"to"`
}

type jsonDFA struct {
	Alphabet    string           `json:"alphabet"`
	Start       Node             `json:"start"`
	Nodes       []jsonNode       `json:"nodes"`
	Transitions []jsonTransition `json:"transitions"`
}

// MarshalJSON encodes the table without the session ID so output is reproducible.
func (d *DFA) MarshalJSON() ([]byte, error) {
	out := jsonDFA{
		Alphabet:    string(d.alpha.Symbols()),
		Start:       d.Start(),
		Nodes:       make([]jsonNode, 0, len(d.nodes)),
		Transitions: make([]jsonTransition, 0, d.edges),
	}
	for n := range d.nodes {
		states := make([]int, len(d.nodes[n].set))
		for i, id := range d.nodes[n].set {
			states[i] = int(id)
		}
		out.Nodes = append(out.Nodes, jsonNode{ID: Node(n), Accepting: d.nodes[n].accepting, States: states})
	}
	for _, t := range d.Transitions() {
		out.Transitions = append(out.Transitions, jsonTransition{From: t.From, Symbol: string(t.Symbol), To: t.To})
	}
	return json.Marshal(out)
}
