package relation

import (
	"testing"

	"github.com/relgraph/relgraph/pkg/common"
	"github.com/relgraph/relgraph/pkg/config"
)

func TestEvidenceLinksAcrossDocuments(t *testing.T) {
	cfg := config.Default()
	entities := testEntities(cfg)

	docs := []common.Document{
		{ID: "doc-1", Content: "CRISPR gene editing shows durable treatment responses in patients."},
		{ID: "doc-2", Content: "CRISPR gene editing shows strong treatment responses across trials."},
		{ID: "doc-3", Content: "Solar panel efficiency is improving in desert installations."},
	}

	result, err := NewEvidenceLinker(cfg).Link(docs, entities)
	if err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	if len(result.Links) != 1 {
		t.Fatalf("links = %d, want 1 (only the matching claim pair)", len(result.Links))
	}

	link := result.Links[0]
	if link.From.DocumentID == link.To.DocumentID {
		t.Errorf("link joins claims from the same document: %v", link)
	}
	if link.Strength < cfg.EvidenceThreshold {
		t.Errorf("strength = %v, want >= %v", link.Strength, cfg.EvidenceThreshold)
	}

	if len(result.Chains) != 1 {
		t.Fatalf("chains = %d, want 1", len(result.Chains))
	}
	chain := result.Chains[0]
	if len(chain.Claims) != 2 {
		t.Errorf("chain claims = %d, want 2", len(chain.Claims))
	}
	if chain.Strength <= 0 {
		t.Errorf("chain strength = %v, want > 0", chain.Strength)
	}
}

func TestEvidenceIgnoresSameDocumentPairs(t *testing.T) {
	cfg := config.Default()
	entities := testEntities(cfg)

	docs := []common.Document{
		{ID: "doc-1", Content: "CRISPR editing shows strong responses. CRISPR editing shows durable responses."},
	}
	result, err := NewEvidenceLinker(cfg).Link(docs, entities)
	if err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	if len(result.Links) != 0 {
		t.Errorf("links = %v, want none within one document", result.Links)
	}
}

func TestIsClaim(t *testing.T) {
	e := NewEvidenceLinker(config.Default())

	tests := []struct {
		name     string
		sentence string
		want     bool
	}{
		{
			name:     "declarative statement",
			sentence: "The treatment shows measurable improvement in patients.",
			want:     true,
		},
		{
			name:     "question",
			sentence: "Does the treatment show measurable improvement in patients?",
			want:     false,
		},
		{
			name:     "too short",
			sentence: "It shows gains.",
			want:     false,
		},
		{
			name:     "no claim verb",
			sentence: "A collection of loosely worded research ideas and sundry notions.",
			want:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.isClaim(tt.sentence); got != tt.want {
				t.Errorf("isClaim(%q) = %v, want %v", tt.sentence, got, tt.want)
			}
		})
	}
}
