package common

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// RelationshipRecord is the loosely-typed shape in which discovery producers
// hand relationships to the merger. It is converted into a structured
// Relationship at an explicit boundary so that malformed records surface as
// validation errors instead of panics deeper in the pipeline.
type RelationshipRecord struct {
	ID           string  `json:"id"`
	Source       string  `json:"source" validate:"required"`
	Target       string  `json:"target" validate:"required"`
	Type         string  `json:"type" validate:"required,oneof=causal temporal hierarchical associative influence"`
	Confidence   float64 `json:"confidence" validate:"gte=0,lte=1"`
	EvidenceDocs []string `json:"evidence_docs" validate:"required,min=1"`
	Direction    string  `json:"direction" validate:"omitempty,oneof=bidirectional source_to_target target_to_source"`
	Context      string  `json:"context"`
}

var recordValidate = validator.New()

// RecordToRelationship converts a producer record into a Relationship.
// The returned string is a caller-visible validation error description;
// it is non-empty exactly when the conversion failed.
func RecordToRelationship(rec RelationshipRecord) (Relationship, string) {
	if err := recordValidate.Struct(rec); err != nil {
		var parts []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				parts = append(parts, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
		} else {
			parts = append(parts, err.Error())
		}
		return Relationship{}, fmt.Sprintf("invalid relationship record %s->%s: %s",
			rec.Source, rec.Target, strings.Join(parts, ", "))
	}

	direction := Direction(rec.Direction)
	if direction == "" {
		direction = DirectionBidirectional
	}

	return Relationship{
		ID:           rec.ID,
		Source:       rec.Source,
		Target:       rec.Target,
		Type:         RelationType(rec.Type),
		Confidence:   Clamp(rec.Confidence),
		EvidenceDocs: rec.EvidenceDocs,
		Direction:    direction,
		Context:      rec.Context,
	}, ""
}
