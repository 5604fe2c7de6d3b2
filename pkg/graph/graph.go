// Package graph holds the relationship graph a discovery run publishes.
// A Graph is assembled once from resolved clusters and merged
// relationships; after Build returns it is never mutated, so concurrent
// queries need no locking.
package graph

import (
	"sort"
	"time"

	"github.com/relgraph/relgraph/pkg/common"
	"github.com/relgraph/relgraph/pkg/config"
	"github.com/relgraph/relgraph/pkg/logger"
)

// Node is one entity in the graph. ID is the normalized canonical name;
// Label keeps the display form.
type Node struct {
	ID         string            `json:"id"`
	Label      string            `json:"label"`
	Type       common.EntityType `json:"type"`
	ClusterID  string            `json:"cluster_id,omitempty"`
	Confidence float64           `json:"confidence"`
}

// Graph is a directed multi-edge store keyed by (source, target). Parallel
// edges between the same pair keep their own type/confidence/evidence.
type Graph struct {
	cfg      *config.Config
	nodes    map[string]Node
	edges    map[string][]common.Relationship
	edgeList []common.Relationship
	docDates map[string]time.Time
}

// Build assembles the graph from resolved clusters and merged
// relationships. docDates maps document IDs to their metadata dates and
// feeds temporal-range filtering; documents without a parsable date are
// simply absent from the map.
func Build(cfg *config.Config, clusters []common.EntityCluster, rels []common.Relationship, docDates map[string]time.Time) *Graph {
	g := &Graph{
		cfg:      cfg,
		nodes:    make(map[string]Node),
		edges:    make(map[string][]common.Relationship),
		docDates: docDates,
	}

	for _, cl := range clusters {
		id := g.nodeID(cl.CanonicalName)
		if existing, ok := g.nodes[id]; ok && existing.Confidence >= cl.Confidence {
			continue
		}
		g.nodes[id] = Node{
			ID:         id,
			Label:      cl.CanonicalName,
			Type:       cl.Type,
			ClusterID:  cl.ID,
			Confidence: cl.Confidence,
		}
	}

	for _, rel := range rels {
		g.ensureNode(rel.Source)
		g.ensureNode(rel.Target)
		key := g.nodeID(rel.Source) + "|" + g.nodeID(rel.Target)
		g.edges[key] = append(g.edges[key], rel)
		g.edgeList = append(g.edgeList, rel)
	}

	logger.Info("[Graph] Graph built",
		"nodes", len(g.nodes),
		"edges", len(g.edgeList))
	return g
}

func (g *Graph) nodeID(name string) string {
	return common.NormalizeName(name, g.cfg.Rules.Honorifics)
}

// ensureNode adds a minimal node for a relationship endpoint that no
// cluster produced.
func (g *Graph) ensureNode(name string) {
	id := g.nodeID(name)
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = Node{
		ID:         id,
		Label:      name,
		Type:       common.EntityTypeConcept,
		Confidence: 0.5,
	}
}

// Nodes returns all nodes sorted by ID.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Edges returns all relationships in insertion order.
func (g *Graph) Edges() []common.Relationship {
	out := make([]common.Relationship, len(g.edgeList))
	copy(out, g.edgeList)
	return out
}

// EdgesBetween returns the parallel edges from source to target.
func (g *Graph) EdgesBetween(source, target string) []common.Relationship {
	key := g.nodeID(source) + "|" + g.nodeID(target)
	edges := g.edges[key]
	out := make([]common.Relationship, len(edges))
	copy(out, edges)
	return out
}

// NodeCount and EdgeCount report graph size.
func (g *Graph) NodeCount() int { return len(g.nodes) }
func (g *Graph) EdgeCount() int { return len(g.edgeList) }
