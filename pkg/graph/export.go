package graph

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/relgraph/relgraph/pkg/common"
)

// Export is the visualization payload of one discovery run.
type Export struct {
	Nodes   []Node                `json:"nodes"`
	Edges   []common.Relationship `json:"edges"`
	Metrics Metrics               `json:"graph_metrics"`
}

// Export snapshots the graph into the serializable payload.
func (g *Graph) Export() Export {
	return Export{
		Nodes:   g.Nodes(),
		Edges:   g.Edges(),
		Metrics: g.Metrics(),
	}
}

// ExportJSON marshals the export payload.
func (g *Graph) ExportJSON() ([]byte, error) {
	data, err := json.Marshal(g.Export())
	if err != nil {
		return nil, fmt.Errorf("marshaling graph export: %w", err)
	}
	return data, nil
}

// ExportSchema reflects the JSON schema of the export payload, for
// downstream visualization tooling to validate against.
func ExportSchema() ([]byte, error) {
	schema := jsonschema.Reflect(&Export{})
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling export schema: %w", err)
	}
	return data, nil
}

// AdjacencyMatrix returns node IDs in sorted order and a confidence
// matrix where cell [i][j] holds the strongest edge from i to j.
func (g *Graph) AdjacencyMatrix() ([]string, [][]float64) {
	nodes := g.Nodes()
	ids := make([]string, len(nodes))
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
		index[n.ID] = i
	}

	matrix := make([][]float64, len(ids))
	for i := range matrix {
		matrix[i] = make([]float64, len(ids))
	}
	for _, rel := range g.edgeList {
		i, iok := index[g.nodeID(rel.Source)]
		j, jok := index[g.nodeID(rel.Target)]
		if !iok || !jok {
			continue
		}
		if rel.Confidence > matrix[i][j] {
			matrix[i][j] = rel.Confidence
		}
		if rel.Direction == common.DirectionBidirectional && rel.Confidence > matrix[j][i] {
			matrix[j][i] = rel.Confidence
		}
	}
	return ids, matrix
}
