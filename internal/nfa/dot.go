package nfa

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteDOT prints a Graphviz digraph of the states reachable from f.Entry.
// States are visited breadth-first in ID order so the output is stable.
func WriteDOT(w io.Writer, s *Session, f Fragment) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph NFA {")
	fmt.Fprintln(bw, "    rankdir=LR;")

	visited := map[StateID]bool{f.Entry: true}
	queue := []StateID{f.Entry}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		shape := "circle"
		if s.Accepting(id) {
			shape = "doublecircle"
		}
		fmt.Fprintf(bw, "    n%d [shape=%s];\n", id, shape)

		visit := func(to StateID, label string) {
			fmt.Fprintf(bw, "    n%d -> n%d [label=%s];\n", id, to, label)
			if !visited[to] {
				visited[to] = true
				queue = append(queue, to)
			}
		}
		for _, r := range s.StateSymbols(id) {
			for _, to := range s.states[id].edges[r] {
				visit(to, strconv.Quote(string(r)))
			}
		}
		for _, to := range s.states[id].epsilon {
			visit(to, `"ε"`)
		}
	}
	fmt.Fprintf(bw, "    _start [shape=point]; _start -> n%d;\n", f.Entry)
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}
