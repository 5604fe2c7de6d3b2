package relation

import (
	"testing"

	"github.com/relgraph/relgraph/pkg/common"
	"github.com/relgraph/relgraph/pkg/config"
)

func TestTemporalSequences(t *testing.T) {
	cfg := config.Default()
	entities := testEntities(cfg)

	docs := []common.Document{
		{ID: "doc-1", Content: "Dr. Sarah Chen published the first CRISPR study in 2012. " +
			"Dr. Sarah Chen received the breakthrough award in 2020."},
	}

	result, err := NewTemporalExtractor(cfg).Extract(docs, entities)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	var seq *TemporalSequence
	for i := range result.Sequences {
		if result.Sequences[i].Subject == "Dr. Sarah Chen" {
			seq = &result.Sequences[i]
			break
		}
	}
	if seq == nil {
		t.Fatalf("sequence for Dr. Sarah Chen not found in %v", result.Sequences)
	}
	if len(seq.Events) != 2 {
		t.Fatalf("events = %d, want 2", len(seq.Events))
	}
	if seq.Events[0].Year != 2012 || seq.Events[1].Year != 2020 {
		t.Errorf("events not sorted by year: %v", seq.Events)
	}
	if !seq.Events[0].Milestone {
		t.Errorf("2012 event should be flagged as a milestone (contains %q)", "first")
	}
	if !seq.Events[1].Milestone {
		t.Errorf("2020 event should be flagged as a milestone (contains %q)", "award")
	}
}

func TestTemporalSingleEventHasNoSequence(t *testing.T) {
	cfg := config.Default()
	entities := testEntities(cfg)

	docs := []common.Document{
		{ID: "doc-1", Content: "CRISPR appeared once in 2015 without a second event."},
	}
	result, err := NewTemporalExtractor(cfg).Extract(docs, entities)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(result.Sequences) != 0 {
		t.Errorf("sequences = %v, want none for a single event", result.Sequences)
	}
}

func TestTemporalRelationships(t *testing.T) {
	cfg := config.Default()
	entities := testEntities(cfg)

	docs := []common.Document{
		{ID: "doc-1", Content: "Dr. Sarah Chen developed the method before CRISPR became standard."},
	}
	result, err := NewTemporalExtractor(cfg).Extract(docs, entities)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(result.Relationships) != 1 {
		t.Fatalf("relationships = %d, want 1", len(result.Relationships))
	}

	rel := result.Relationships[0]
	if rel.Source != "Dr. Sarah Chen" || rel.Target != "CRISPR" {
		t.Errorf("pair = %s -> %s, want Dr. Sarah Chen -> CRISPR", rel.Source, rel.Target)
	}
	if rel.Type != common.RelationTemporal {
		t.Errorf("type = %s, want temporal", rel.Type)
	}
	if rel.Confidence <= 0.5 {
		t.Errorf("confidence = %v, want > 0.5", rel.Confidence)
	}
}

func TestMetadataYearFallback(t *testing.T) {
	tests := []struct {
		name string
		date string
		want int
	}{
		{name: "iso date", date: "2019-06-01", want: 2019},
		{name: "loose date", date: "June 1, 2019", want: 2019},
		{name: "empty", date: "", want: 0},
		{name: "garbage", date: "not a date", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := metadataYear(tt.date); got != tt.want {
				t.Errorf("metadataYear(%q) = %d, want %d", tt.date, got, tt.want)
			}
		})
	}
}
