package discovery

import (
	"context"
	"testing"

	"github.com/relgraph/relgraph/pkg/common"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(NewClientParams{ParallelDocuments: 2})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestDiscoverCausalChain(t *testing.T) {
	client := newTestClient(t)

	docs := []common.Document{
		{
			ID:      "doc-1",
			Content: "Dr. Sarah Chen pioneered CRISPR in her research laboratory.",
		},
		{
			ID:      "doc-2",
			Content: "CRISPR led to rapid advances in gene editing.",
		},
	}

	run, err := client.Discover(context.Background(), docs)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(run.Errors) != 0 {
		t.Fatalf("run errors = %v", run.Errors)
	}

	causalPairs := map[string]bool{}
	for _, rel := range run.Relationships {
		if rel.Type == common.RelationCausal {
			if rel.Confidence <= 0.5 {
				t.Errorf("causal %s -> %s confidence = %v, want > 0.5", rel.Source, rel.Target, rel.Confidence)
			}
			causalPairs[rel.Source+"->"+rel.Target] = true
		}
	}
	if !causalPairs["Dr. Sarah Chen->CRISPR"] {
		t.Errorf("missing causal edge Dr. Sarah Chen -> CRISPR in %v", causalPairs)
	}
	if !causalPairs["CRISPR->gene editing"] {
		t.Errorf("missing causal edge CRISPR -> gene editing in %v", causalPairs)
	}

	path, ok := run.Graph.ShortestPath("Sarah Chen", "gene editing", 4)
	if !ok {
		t.Fatalf("no path from Sarah Chen to gene editing")
	}
	if len(path) != 3 {
		t.Errorf("path = %v, want 3 nodes (2 hops)", path)
	}
}

func TestDiscoverEmptyInput(t *testing.T) {
	client := newTestClient(t)

	run, err := client.Discover(context.Background(), nil)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if run.Documents != 0 {
		t.Errorf("documents = %d, want 0", run.Documents)
	}
	if len(run.Relationships) != 0 {
		t.Errorf("relationships = %v, want none", run.Relationships)
	}
	if len(run.Errors) != 0 {
		t.Errorf("errors = %v, want none", run.Errors)
	}
	if run.Graph == nil || run.Graph.NodeCount() != 0 {
		t.Errorf("graph should be empty but present")
	}
}

func TestDiscoverHonorsCancellation(t *testing.T) {
	client := newTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Discover(ctx, []common.Document{
		{ID: "doc-1", Content: "Dr. Sarah Chen pioneered CRISPR."},
	}); err == nil {
		t.Errorf("Discover() with canceled context should fail")
	}
}

func TestDiscoverCoreferenceAcrossDocuments(t *testing.T) {
	client := newTestClient(t)

	docs := []common.Document{
		{ID: "doc-1", Content: "Dr. Sarah Chen published the gene editing study."},
		{ID: "doc-2", Content: "Sarah Chen continued the gene editing study."},
	}
	run, err := client.Discover(context.Background(), docs)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	var people []common.EntityCluster
	for _, cl := range run.Disambig.Clusters {
		if cl.Type == common.EntityTypePerson {
			people = append(people, cl)
		}
	}
	if len(people) != 1 {
		t.Fatalf("person clusters = %d, want the name variants merged into 1", len(people))
	}
	if people[0].CanonicalName != "Dr. Sarah Chen" {
		t.Errorf("canonical name = %q, want Dr. Sarah Chen", people[0].CanonicalName)
	}
	if people[0].Confidence <= 0.8 {
		t.Errorf("cluster confidence = %v, want > 0.8", people[0].Confidence)
	}
}
