package depgraph

import "sort"

// DefaultTopShared is the number of modules reported by the shared-module ranking.
const DefaultTopShared = 10

// RankedNode is a module with its connection count.
type RankedNode struct {
	Module string `json:"module"`
	Degree int    `json:"degree"`
}

// TopShared returns the k most connected nodes, highest degree first. Ties keep
// the order in which nodes first appeared in the graph. An empty graph or a
// non-positive k yields an empty result.
func TopShared(g *ImportGraph, k int) ([]RankedNode, error) {
	if g == nil || k <= 0 {
		return []RankedNode{}, nil
	}

	nodes, err := g.Nodes()
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedNode, 0, len(nodes))
	for _, n := range nodes {
		ranked = append(ranked, RankedNode{Module: n.ID, Degree: n.Degree})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Degree > ranked[j].Degree
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked, nil
}
