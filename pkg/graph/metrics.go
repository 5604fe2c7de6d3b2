package graph

import "sort"

// Metrics summarizes graph shape for the export payload.
type Metrics struct {
	NodeCount             int                `json:"node_count"`
	EdgeCount             int                `json:"edge_count"`
	Density               float64            `json:"density"`
	DegreeCentrality      map[string]float64 `json:"degree_centrality"`
	ClusteringCoefficient float64            `json:"clustering_coefficient"`
}

// Metrics computes density, per-node degree centrality, and the average
// clustering coefficient over the undirected projection.
func (g *Graph) Metrics() Metrics {
	n := len(g.nodes)
	m := Metrics{
		NodeCount:        n,
		EdgeCount:        len(g.edgeList),
		DegreeCentrality: make(map[string]float64, n),
	}
	if n < 2 {
		for id := range g.nodes {
			m.DegreeCentrality[id] = 0
		}
		return m
	}

	// Distinct directed pairs, not parallel edges, drive density.
	m.Density = float64(len(g.edges)) / float64(n*(n-1))

	neighbors := make(map[string]map[string]bool, n)
	for id := range g.nodes {
		neighbors[id] = make(map[string]bool)
	}
	for _, rel := range g.edgeList {
		s, t := g.nodeID(rel.Source), g.nodeID(rel.Target)
		if s == t {
			continue
		}
		neighbors[s][t] = true
		neighbors[t][s] = true
	}

	for id, nb := range neighbors {
		m.DegreeCentrality[id] = float64(len(nb)) / float64(n-1)
	}

	ids := make([]string, 0, n)
	for id := range neighbors {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var sum float64
	var counted int
	for _, id := range ids {
		nb := neighbors[id]
		k := len(nb)
		if k < 2 {
			continue
		}
		links := 0
		for a := range nb {
			for b := range nb {
				if a < b && neighbors[a][b] {
					links++
				}
			}
		}
		sum += float64(2*links) / float64(k*(k-1))
		counted++
	}
	if counted > 0 {
		m.ClusteringCoefficient = sum / float64(counted)
	}
	return m
}
