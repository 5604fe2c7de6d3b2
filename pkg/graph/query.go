package graph

import (
	"sort"
	"strings"

	"github.com/araddon/dateparse"

	"github.com/relgraph/relgraph/pkg/common"
)

// matchNodes returns every node whose ID contains the normalized query.
// An exact-name query is a substring of itself, so fuzzy results are
// always a superset of exact results.
func (g *Graph) matchNodes(query string) []string {
	needle := g.nodeID(query)
	if needle == "" {
		return nil
	}
	var ids []string
	for id := range g.nodes {
		if strings.Contains(id, needle) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// ByEntity returns every relationship touching a node whose label fuzzily
// matches the query.
func (g *Graph) ByEntity(query string) []common.Relationship {
	matched := make(map[string]bool)
	for _, id := range g.matchNodes(query) {
		matched[id] = true
	}
	if len(matched) == 0 {
		return nil
	}

	var out []common.Relationship
	for _, rel := range g.edgeList {
		if matched[g.nodeID(rel.Source)] || matched[g.nodeID(rel.Target)] {
			out = append(out, rel)
		}
	}
	return out
}

// ByType returns every relationship of the given type.
func (g *Graph) ByType(t common.RelationType) []common.Relationship {
	var out []common.Relationship
	for _, rel := range g.edgeList {
		if rel.Type == t {
			out = append(out, rel)
		}
	}
	return out
}

// ByConcept delegates to ByEntity; concepts are ordinary nodes.
func (g *Graph) ByConcept(concept string) []common.Relationship {
	return g.ByEntity(concept)
}

// ByTemporalRange returns relationships evidenced by documents dated
// within [start, end]. When either bound fails to parse the query
// degrades to an unfiltered pass-through of all relationships.
func (g *Graph) ByTemporalRange(start, end string) []common.Relationship {
	from, errFrom := dateparse.ParseAny(start)
	to, errTo := dateparse.ParseAny(end)
	if errFrom != nil || errTo != nil || len(g.docDates) == 0 {
		return g.Edges()
	}

	var out []common.Relationship
	for _, rel := range g.edgeList {
		for _, docID := range rel.EvidenceDocs {
			date, ok := g.docDates[docID]
			if !ok {
				continue
			}
			if !date.Before(from) && !date.After(to) {
				out = append(out, rel)
				break
			}
		}
	}
	return out
}

// ShortestPath finds the shortest directed path between two fuzzily
// matched nodes, bounded by maxHops edges. Bidirectional edges are
// traversable both ways. The bool reports whether a path exists.
func (g *Graph) ShortestPath(from, to string, maxHops int) ([]string, bool) {
	fromIDs := g.matchNodes(from)
	toIDs := g.matchNodes(to)
	if len(fromIDs) == 0 || len(toIDs) == 0 {
		return nil, false
	}
	targets := make(map[string]bool, len(toIDs))
	for _, id := range toIDs {
		targets[id] = true
	}

	adjacency := make(map[string][]string)
	addEdge := func(a, b string) {
		for _, existing := range adjacency[a] {
			if existing == b {
				return
			}
		}
		adjacency[a] = append(adjacency[a], b)
	}
	for _, rel := range g.edgeList {
		s, t := g.nodeID(rel.Source), g.nodeID(rel.Target)
		switch rel.Direction {
		case common.DirectionTargetToSource:
			addEdge(t, s)
		case common.DirectionBidirectional:
			addEdge(s, t)
			addEdge(t, s)
		default:
			addEdge(s, t)
		}
	}

	var best []string
	for _, start := range fromIDs {
		if path := bfsPath(adjacency, start, targets, maxHops); path != nil {
			if best == nil || len(path) < len(best) {
				best = path
			}
		}
	}
	return best, best != nil
}

func bfsPath(adjacency map[string][]string, start string, targets map[string]bool, maxHops int) []string {
	if targets[start] {
		return []string{start}
	}
	type state struct {
		node string
		path []string
	}
	visited := map[string]bool{start: true}
	queue := []state{{node: start, path: []string{start}}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if len(cur.path)-1 >= maxHops {
			continue
		}
		neighbors := append([]string(nil), adjacency[cur.node]...)
		sort.Strings(neighbors)
		for _, next := range neighbors {
			if visited[next] {
				continue
			}
			path := append(append([]string(nil), cur.path...), next)
			if targets[next] {
				return path
			}
			visited[next] = true
			queue = append(queue, state{node: next, path: path})
		}
	}
	return nil
}
