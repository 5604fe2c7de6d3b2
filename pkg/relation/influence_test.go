package relation

import (
	"reflect"
	"testing"

	"github.com/relgraph/relgraph/pkg/common"
	"github.com/relgraph/relgraph/pkg/config"
)

func TestInfluenceTriggerDirections(t *testing.T) {
	cfg := config.Default()
	entities := testEntities(cfg)

	tests := []struct {
		name    string
		content string
		source  string
		target  string
	}{
		{
			name:    "forward trigger",
			content: "Dr. Sarah Chen influenced Dr. James Park profoundly.",
			source:  "Dr. Sarah Chen",
			target:  "Dr. James Park",
		},
		{
			name:    "reverse trigger",
			content: "Dr. Sarah Chen built upon the methods of Dr. James Park.",
			source:  "Dr. James Park",
			target:  "Dr. Sarah Chen",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := []common.Document{{ID: "doc-1", Content: tt.content}}
			result, err := NewInfluenceExtractor(cfg).Extract(docs, entities)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if len(result.Relationships) != 1 {
				t.Fatalf("relationships = %d, want 1", len(result.Relationships))
			}
			rel := result.Relationships[0]
			if rel.Source != tt.source || rel.Target != tt.target {
				t.Errorf("pair = %s -> %s, want %s -> %s", rel.Source, rel.Target, tt.source, tt.target)
			}
			if rel.Type != common.RelationInfluence {
				t.Errorf("type = %s, want influence", rel.Type)
			}
		})
	}
}

func TestInfluenceCitationRule(t *testing.T) {
	cfg := config.Default()
	entities := testEntities(cfg)

	docs := []common.Document{
		{
			ID:      "doc-1",
			Content: "A study of editing outcomes.",
			Metadata: common.Metadata{
				Authors:    []string{"Sarah Chen"},
				References: []string{"James Park, Advances in Genome Editing, 2018"},
			},
		},
	}
	result, err := NewInfluenceExtractor(cfg).Extract(docs, entities)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(result.Relationships) != 1 {
		t.Fatalf("relationships = %d, want 1 citation-derived edge", len(result.Relationships))
	}

	rel := result.Relationships[0]
	if rel.Source != "Dr. James Park" || rel.Target != "Dr. Sarah Chen" {
		t.Errorf("pair = %s -> %s, want cited author influencing the citing author", rel.Source, rel.Target)
	}
	if rel.Confidence != 0.6 {
		t.Errorf("confidence = %v, want 0.6", rel.Confidence)
	}
}

func TestInfluenceScoresAndPaths(t *testing.T) {
	cfg := config.Default()
	entities := testEntities(cfg)

	docs := []common.Document{
		{ID: "doc-1", Content: "Dr. Sarah Chen influenced Dr. James Park."},
		{ID: "doc-2", Content: "Dr. James Park inspired the CRISPR community."},
		{ID: "doc-3", Content: "CRISPR influenced gene therapies."},
	}
	result, err := NewInfluenceExtractor(cfg).Extract(docs, entities)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	// The top influencer normalizes to 1.0.
	var max float64
	for _, s := range result.Scores {
		if s > max {
			max = s
		}
	}
	if max != 1.0 {
		t.Errorf("max normalized score = %v, want 1.0", max)
	}

	found := false
	for _, p := range result.Paths {
		if p.From == "Dr. Sarah Chen" && p.To == "CRISPR" {
			found = true
			want := []string{"Dr. Sarah Chen", "Dr. James Park", "CRISPR"}
			if !reflect.DeepEqual(p.Nodes, want) {
				t.Errorf("path = %v, want %v", p.Nodes, want)
			}
		}
	}
	if !found {
		t.Errorf("two-hop influence path not found in %v", result.Paths)
	}
}

func TestBoundedShortestPathRespectsHopLimit(t *testing.T) {
	adjacency := map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {"d"},
	}
	if path := boundedShortestPath(adjacency, "a", "d", 2); path != nil {
		t.Errorf("path = %v, want nil beyond the hop limit", path)
	}
	if path := boundedShortestPath(adjacency, "a", "d", 3); len(path) != 4 {
		t.Errorf("path = %v, want the full four-node chain", path)
	}
}
