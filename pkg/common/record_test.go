package common

import (
	"strings"
	"testing"
)

func TestRecordToRelationship(t *testing.T) {
	tests := []struct {
		name    string
		rec     RelationshipRecord
		wantErr string
	}{
		{
			name: "valid record",
			rec: RelationshipRecord{
				ID: "r1", Source: "A", Target: "B", Type: "causal",
				Confidence: 0.7, EvidenceDocs: []string{"doc-1"},
				Direction: "source_to_target",
			},
		},
		{
			name: "missing source",
			rec: RelationshipRecord{
				ID: "r1", Target: "B", Type: "causal",
				Confidence: 0.7, EvidenceDocs: []string{"doc-1"},
			},
			wantErr: "Source",
		},
		{
			name: "unknown type",
			rec: RelationshipRecord{
				ID: "r1", Source: "A", Target: "B", Type: "magical",
				Confidence: 0.7, EvidenceDocs: []string{"doc-1"},
			},
			wantErr: "Type",
		},
		{
			name: "confidence out of range",
			rec: RelationshipRecord{
				ID: "r1", Source: "A", Target: "B", Type: "causal",
				Confidence: 1.7, EvidenceDocs: []string{"doc-1"},
			},
			wantErr: "Confidence",
		},
		{
			name: "no evidence",
			rec: RelationshipRecord{
				ID: "r1", Source: "A", Target: "B", Type: "causal",
				Confidence: 0.7,
			},
			wantErr: "EvidenceDocs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel, verr := RecordToRelationship(tt.rec)
			if tt.wantErr == "" {
				if verr != "" {
					t.Fatalf("unexpected validation error: %s", verr)
				}
				if rel.Type != RelationCausal || rel.Direction != DirectionSourceToTarget {
					t.Errorf("converted = %+v", rel)
				}
				return
			}
			if verr == "" {
				t.Fatalf("expected a validation error naming %s", tt.wantErr)
			}
			if !strings.Contains(verr, tt.wantErr) {
				t.Errorf("validation error %q does not name field %s", verr, tt.wantErr)
			}
		})
	}
}

func TestRecordDefaultsDirection(t *testing.T) {
	rel, verr := RecordToRelationship(RelationshipRecord{
		ID: "r1", Source: "A", Target: "B", Type: "associative",
		Confidence: 0.5, EvidenceDocs: []string{"doc-1"},
	})
	if verr != "" {
		t.Fatalf("validation error: %s", verr)
	}
	if rel.Direction != DirectionBidirectional {
		t.Errorf("direction = %s, want bidirectional default", rel.Direction)
	}
}

func TestPairKeyIsUnordered(t *testing.T) {
	a := Relationship{Source: "X", Target: "Y"}
	b := Relationship{Source: "Y", Target: "X"}
	if a.PairKey() != b.PairKey() {
		t.Errorf("pair keys differ: %q vs %q", a.PairKey(), b.PairKey())
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: -0.5, want: 0},
		{in: 0.5, want: 0.5},
		{in: 1.5, want: 1},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
