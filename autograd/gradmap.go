package autograd

// GradMap holds the gradients of a node keyed by the root they were
// computed against. Absent keys read as zero; reading never inserts.
type GradMap struct {
	m map[NodeID]float64
}

// Get returns the gradient with respect to root, or 0 if none was recorded.
func (g *GradMap) Get(root NodeID) float64 {
	return g.m[root]
}

// Add accumulates delta into the entry for root.
func (g *GradMap) Add(root NodeID, delta float64) {
	if g.m == nil {
		g.m = make(map[NodeID]float64)
	}
	g.m[root] += delta
}

// Set overwrites the entry for root.
func (g *GradMap) Set(root NodeID, value float64) {
	if g.m == nil {
		g.m = make(map[NodeID]float64)
	}
	g.m[root] = value
}

// Has reports whether an entry for root exists.
func (g *GradMap) Has(root NodeID) bool {
	_, ok := g.m[root]
	return ok
}

// Clear removes every entry.
func (g *GradMap) Clear() {
	clear(g.m)
}

// Len returns the number of recorded roots.
func (g *GradMap) Len() int {
	return len(g.m)
}

// Clone returns an independent copy.
func (g *GradMap) Clone() GradMap {
	if g.m == nil {
		return GradMap{}
	}
	m := make(map[NodeID]float64, len(g.m))
	for k, v := range g.m {
		m[k] = v
	}
	return GradMap{m: m}
}
