// Package viz converts an expression graph into a display graph that
// external renderers can lay out. Value nodes and operator nodes are
// separate vertices; edges run value -> operator -> operand values.
package viz

import (
	"math"
	"strconv"

	"github.com/djeday123/gograd/autograd"
)

const (
	KindValue    = "value"
	KindOperator = "operator"

	opColor = "#CCCCCC"
)

// jet is a 10-shade jet colormap, low to high.
var jet = []string{
	"#000083", "#0000d4", "#0030ff", "#0090ff", "#10ffef",
	"#6fff90", "#cfff30", "#ffc000", "#ff6000", "#d40000",
}

// ColorScale is the value mapped to the top of the palette.
const ColorScale = 10.0

// Vertex is one drawable node.
type Vertex struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Kind  string  `json:"kind"`
	Value float64 `json:"value,omitempty"`
	Color string  `json:"backgroundColor"`
	Shape string  `json:"shape"`
}

// Edge connects two vertices by ID.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the display form of an expression.
type Graph struct {
	Vertices []Vertex `json:"vertices"`
	Edges    []Edge   `json:"edges"`
}

// Build walks every node reachable from root. Nodes shared by several
// users appear once.
func Build(root autograd.Var) Graph {
	order := root.Topo()
	var g Graph

	// Root first, then towards the leaves.
	for i := len(order) - 1; i >= 0; i-- {
		v := order[i]
		id := vertexID(v)
		g.Vertices = append(g.Vertices, Vertex{
			ID:    id,
			Label: strconv.FormatFloat(v.Value(), 'g', 6, 64),
			Kind:  KindValue,
			Value: v.Value(),
			Color: Color(v.Value(), ColorScale),
			Shape: "ellipse",
		})
		if v.IsLeaf() {
			continue
		}

		opID := id + "_op"
		g.Vertices = append(g.Vertices, Vertex{
			ID:    opID,
			Label: v.Op().String(),
			Kind:  KindOperator,
			Color: opColor,
			Shape: "diamond",
		})
		g.Edges = append(g.Edges, Edge{Source: id, Target: opID})
		for _, c := range v.Operands() {
			g.Edges = append(g.Edges, Edge{Source: opID, Target: vertexID(c)})
		}
	}
	return g
}

// Color picks a palette entry for v relative to maxV. Values at or below
// zero get the lowest shade.
func Color(v, maxV float64) string {
	if maxV <= 0 || math.IsNaN(v) {
		return jet[0]
	}
	// Clamp before converting: int(+Inf) is not the top shade.
	f := math.Floor(v / maxV * float64(len(jet)))
	switch {
	case f <= 0:
		return jet[0]
	case f >= float64(len(jet)-1):
		return jet[len(jet)-1]
	}
	return jet[int(f)]
}

func vertexID(v autograd.Var) string {
	return "n" + strconv.FormatUint(uint64(v.ID()), 10)
}
