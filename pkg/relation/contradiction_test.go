package relation

import (
	"strings"
	"testing"

	"github.com/relgraph/relgraph/pkg/common"
	"github.com/relgraph/relgraph/pkg/config"
)

func TestDetectContradictions(t *testing.T) {
	cfg := config.Default()

	docs := []common.Document{
		{ID: "doc-1", Content: "Gene editing therapy is effective and safe for patients."},
		{ID: "doc-2", Content: "Gene editing therapy is harmful and the approach fails in trials."},
	}

	result, err := NewContradictionDetector(cfg).Detect(docs)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(result.Contradictions) != 1 {
		t.Fatalf("contradictions = %d, want 1", len(result.Contradictions))
	}

	c := result.Contradictions[0]
	if c.Topic != "genetics" {
		t.Errorf("topic = %q, want genetics", c.Topic)
	}
	if c.First.DocumentID == c.Second.DocumentID {
		t.Errorf("contradiction pairs statements from the same document")
	}
	if !strings.Contains(c.Suggestion, "genetics") {
		t.Errorf("suggestion = %q, want the topic named", c.Suggestion)
	}
}

func TestNoContradictionAcrossTopics(t *testing.T) {
	cfg := config.Default()

	docs := []common.Document{
		{ID: "doc-1", Content: "Gene editing therapy is effective for patients."},
		{ID: "doc-2", Content: "Carbon capture is harmful to local water supplies."},
	}
	result, err := NewContradictionDetector(cfg).Detect(docs)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(result.Contradictions) != 0 {
		t.Errorf("contradictions = %v, want none across different topics", result.Contradictions)
	}
}

func TestNoContradictionWithAgreeingSentiment(t *testing.T) {
	cfg := config.Default()

	docs := []common.Document{
		{ID: "doc-1", Content: "Gene editing therapy is effective and promising."},
		{ID: "doc-2", Content: "Gene editing therapy is successful and beneficial."},
	}
	result, err := NewContradictionDetector(cfg).Detect(docs)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(result.Contradictions) != 0 {
		t.Errorf("contradictions = %v, want none when both statements agree", result.Contradictions)
	}
}
