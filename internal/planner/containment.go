package planner

import (
	"strconv"

	"github.com/katalvlaran/lvlath/graph"
)

func ringID(depth int) string { return "ring_" + strconv.Itoa(depth) }

// ringTraversalOrders builds the containment tree over rings (spec §4.B
// step 2: "tree keyed by containment, traversed depth-first deepest-first")
// and returns both orders the two strategies need: deepestFirst finishes
// the innermost ring before moving outward (Lanes), outermostFirst is its
// reverse (Spiral stitches outer-to-inner).
//
// This pack's offset engine has no real polygon-clipping library (see
// internal/geometry.Offset's doc comment), so a pocket never actually
// splits into sibling sub-loops at one depth — the containment tree
// degenerates to a single chain, ring_0 containing ring_1 containing
// ring_2, and so on. The graph is still built and walked generically, via
// github.com/katalvlaran/lvlath/graph's DFS with OnExit, so an offset
// engine that does split pockets in the future slots in without changing
// this function.
func ringTraversalOrders(rings []Ring) (deepestFirst, outermostFirst []Ring) {
	g := graph.NewGraph(true, false)
	for _, r := range rings {
		g.AddVertex(&graph.Vertex{ID: ringID(r.Depth)})
	}
	for i := 0; i < len(rings)-1; i++ {
		g.AddEdge(ringID(rings[i].Depth), ringID(rings[i+1].Depth), 1)
	}

	byID := make(map[string]Ring, len(rings))
	for _, r := range rings {
		byID[ringID(r.Depth)] = r
	}

	deepestFirst = make([]Ring, 0, len(rings))
	_, err := g.DFS(ringID(rings[0].Depth), &graph.DFSOptions{
		OnExit: func(v *graph.Vertex, depth int) {
			deepestFirst = append(deepestFirst, byID[v.ID])
		},
	})
	if err != nil {
		// The start vertex was just added above; this only guards a future
		// change to DFS's error contract.
		deepestFirst = append(deepestFirst[:0], rings...)
	}

	outermostFirst = make([]Ring, len(deepestFirst))
	for i, r := range deepestFirst {
		outermostFirst[len(deepestFirst)-1-i] = r
	}
	return deepestFirst, outermostFirst
}
