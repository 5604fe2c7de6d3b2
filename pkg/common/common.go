package common

// EntityType classifies what kind of real-world thing a reference points at.
type EntityType string

const (
	EntityTypePerson       EntityType = "person"
	EntityTypeOrganization EntityType = "organization"
	EntityTypeTechnology   EntityType = "technology"
	EntityTypeConcept      EntityType = "concept"
)

// RelationType classifies how two entities are connected.
type RelationType string

const (
	RelationCausal       RelationType = "causal"
	RelationTemporal     RelationType = "temporal"
	RelationHierarchical RelationType = "hierarchical"
	RelationAssociative  RelationType = "associative"
	RelationInfluence    RelationType = "influence"
)

// Direction describes which way a relationship points.
type Direction string

const (
	DirectionBidirectional  Direction = "bidirectional"
	DirectionSourceToTarget Direction = "source_to_target"
	DirectionTargetToSource Direction = "target_to_source"
)

// Metadata carries the declared fields of a document. Missing fields are
// represented by empty collections; an absent or unparsable date is kept as
// the raw string and resolved to a zero-time sentinel by consumers.
type Metadata struct {
	Authors    []string          `json:"authors"`
	Date       string            `json:"date"`
	Keywords   []string          `json:"keywords"`
	References []string          `json:"references"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Document is one input to a discovery run: plain text plus declared
// metadata. How documents are obtained is the caller's concern.
type Document struct {
	ID       string   `json:"id"`
	Path     string   `json:"path,omitempty"`
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// EntityReference is a single textual mention of a candidate entity in one
// document. References are created once during extraction and never mutated
// afterward.
type EntityReference struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	DocumentID string     `json:"document_id"`
	Context    string     `json:"context"`
	Type       EntityType `json:"type"`
	Confidence float64    `json:"confidence"`
	Position   int        `json:"position"`
	Aliases    []string   `json:"aliases,omitempty"`
}

// EntityCluster is a set of references judged to denote one real-world
// entity. Clusters are rebuilt rather than patched: the disambiguator
// replaces clusters wholesale instead of mutating members.
type EntityCluster struct {
	ID                       string            `json:"id"`
	CanonicalName            string            `json:"canonical_name"`
	Members                  []EntityReference `json:"members"`
	Confidence               float64           `json:"confidence"`
	Type                     EntityType        `json:"type"`
	DisambiguationConfidence float64           `json:"disambiguation_confidence"`
}

// DocumentIDs returns the distinct source documents of the cluster members.
func (c EntityCluster) DocumentIDs() []string {
	seen := make(map[string]struct{}, len(c.Members))
	ids := make([]string, 0, len(c.Members))
	for _, m := range c.Members {
		if _, ok := seen[m.DocumentID]; ok {
			continue
		}
		seen[m.DocumentID] = struct{}{}
		ids = append(ids, m.DocumentID)
	}
	return ids
}

// Relationship is a typed association between two resolved entities or
// concepts, with supporting evidence documents. Source and Target hold
// canonical entity names. EvidenceDocs is non-empty at creation.
type Relationship struct {
	ID           string       `json:"id"`
	Source       string       `json:"source"`
	Target       string       `json:"target"`
	Type         RelationType `json:"type"`
	Confidence   float64      `json:"confidence"`
	EvidenceDocs []string     `json:"evidence_docs"`
	Direction    Direction    `json:"direction"`
	Context      string       `json:"context,omitempty"`
}

// PairKey returns the unordered entity-pair key used to merge duplicate
// observations of the same relationship across documents.
func (r Relationship) PairKey() string {
	if r.Source <= r.Target {
		return r.Source + "|" + r.Target
	}
	return r.Target + "|" + r.Source
}

// Clamp bounds a confidence value to [0,1].
func Clamp(v float64) float64 {
	return ClampRange(v, 0, 1)
}

// ClampRange bounds v to [lo,hi].
func ClampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
