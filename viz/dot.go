package viz

import (
	"fmt"
	"io"
	"strconv"
)

// WriteDOT renders g in Graphviz DOT syntax.
func WriteDOT(w io.Writer, g Graph) error {
	ew := &errWriter{w: w}
	ew.printf("digraph expr {\n")
	ew.printf("  rankdir=LR;\n")
	ew.printf("  node [style=filled, fontname=\"Lato\"];\n")
	for _, v := range g.Vertices {
		ew.printf("  %s [label=%s, shape=%s, fillcolor=%q];\n",
			v.ID, strconv.Quote(v.Label), v.Shape, v.Color)
	}
	for _, e := range g.Edges {
		ew.printf("  %s -> %s;\n", e.Source, e.Target)
	}
	ew.printf("}\n")
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
