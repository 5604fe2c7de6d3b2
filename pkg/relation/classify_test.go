package relation

import (
	"testing"

	"github.com/relgraph/relgraph/pkg/common"
	"github.com/relgraph/relgraph/pkg/config"
)

func TestClassifyType(t *testing.T) {
	cfg := config.Default()
	classifier := NewClassifier(cfg)
	entities := testEntities(cfg)

	tests := []struct {
		name    string
		context string
		want    common.RelationType
	}{
		{
			name:    "causal language",
			context: "the discovery led to a breakthrough because of the new technique",
			want:    common.RelationCausal,
		},
		{
			name:    "temporal language",
			context: "before the trial concluded and subsequently expanded",
			want:    common.RelationTemporal,
		},
		{
			name:    "hierarchical language",
			context: "gene editing is a subfield that belongs within genetics",
			want:    common.RelationHierarchical,
		},
		{
			name:    "no indicators falls back to associative",
			context: "an unremarkable mention of two entities",
			want:    common.RelationAssociative,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel := common.Relationship{
				Source: "Dr. Sarah Chen", Target: "CRISPR",
				Type: common.RelationAssociative, Confidence: 0.6,
				EvidenceDocs: []string{"doc-1"}, Context: tt.context,
			}
			got := classifier.Classify(rel, entities)
			if got.Type != tt.want {
				t.Errorf("type = %s, want %s", got.Type, tt.want)
			}
		})
	}
}

func TestClassifyKeepsInfluenceType(t *testing.T) {
	cfg := config.Default()
	classifier := NewClassifier(cfg)
	entities := testEntities(cfg)

	rel := common.Relationship{
		Source: "Dr. Sarah Chen", Target: "Dr. James Park",
		Type: common.RelationInfluence, Confidence: 0.7,
		EvidenceDocs: []string{"doc-1"},
		Context:      "her work influenced the later studies",
	}
	got := classifier.Classify(rel, entities)
	if got.Type != common.RelationInfluence {
		t.Errorf("type = %s, want influence preserved", got.Type)
	}
}

func TestClassifyDirection(t *testing.T) {
	cfg := config.Default()
	classifier := NewClassifier(cfg)
	entities := testEntities(cfg)

	tests := []struct {
		name    string
		context string
		typ     common.RelationType
		want    common.Direction
	}{
		{
			name:    "forward indicator",
			context: "the team developed and pioneered the system",
			typ:     common.RelationCausal,
			want:    common.DirectionSourceToTarget,
		},
		{
			name:    "reverse indicator",
			context: "the method derived from earlier work",
			typ:     common.RelationAssociative,
			want:    common.DirectionTargetToSource,
		},
		{
			name:    "causal default when no indicators",
			context: "plain words only",
			typ:     common.RelationCausal,
			want:    common.DirectionSourceToTarget,
		},
		{
			name:    "associative default when no indicators",
			context: "plain words only",
			typ:     common.RelationAssociative,
			want:    common.DirectionBidirectional,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel := common.Relationship{
				Source: "CRISPR", Target: "gene therapies",
				Type: tt.typ, Confidence: 0.6,
				EvidenceDocs: []string{"doc-1"}, Context: tt.context,
			}
			got := classifier.classifyDirection(rel, entities)
			if got != tt.want {
				t.Errorf("direction = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestConfidenceAggregation(t *testing.T) {
	cfg := config.Default()
	classifier := NewClassifier(cfg)
	entities := testEntities(cfg)

	strong := common.Relationship{
		Source: "Dr. Sarah Chen", Target: "CRISPR",
		Type: common.RelationCausal, Confidence: 0.9,
		EvidenceDocs: []string{"doc-1", "doc-2", "doc-3"},
		Context:      "Dr. Sarah Chen directly pioneered the CRISPR technique, which significantly led to later advances",
	}
	weak := common.Relationship{
		Source: "it", Target: "thing",
		Type: common.RelationAssociative, Confidence: 0.3,
		EvidenceDocs: []string{"doc-1"},
		Context:      "vague mention",
	}

	strongScore := classifier.score(strong, entities)
	weakScore := classifier.score(weak, entities)

	if strongScore <= weakScore {
		t.Errorf("strong score %v should exceed weak score %v", strongScore, weakScore)
	}
	if strongScore <= 0.5 {
		t.Errorf("strong score = %v, want > 0.5", strongScore)
	}
	if strongScore > 1 || weakScore < 0 {
		t.Errorf("scores out of range: %v, %v", strongScore, weakScore)
	}
}
