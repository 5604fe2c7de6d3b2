package relation

import (
	"math"
	"strings"
	"github.com/relgraph/relgraph/pkg/common"
	"github.com/relgraph/relgraph/pkg/config"
)

// Classifier re-scores relationship type, direction, and confidence from
// the stored context snippet and the resolved entity inventory.
type Classifier struct {
	cfg *config.Config
}

func NewClassifier(cfg *config.Config) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify refines one relationship in place: type by keyword arg-max,
// direction by indicator scoring, confidence by weighted aggregation.
// Influence relationships keep their producer type; the indicator tables
// only cover the other four.
func (c *Classifier) Classify(rel common.Relationship, entities *EntitySet) common.Relationship {
	if rel.Type != common.RelationInfluence {
		rel.Type = c.classifyType(rel)
	}
	rel.Direction = c.classifyDirection(rel, entities)
	rel.Confidence = c.score(rel, entities)
	return rel
}

// classifyType scores the four classifiable types independently and takes
// the arg-max, falling back to associative at the 0.3 floor.
func (c *Classifier) classifyType(rel common.Relationship) common.RelationType {
	best := common.RelationAssociative
	bestScore := 0.0
	for _, t := range []common.RelationType{
		common.RelationCausal,
		common.RelationTemporal,
		common.RelationHierarchical,
		common.RelationAssociative,
	} {
		indicators := c.cfg.Rules.TypeIndicators[string(t)]
		score := math.Min(1.0, 0.3*float64(countContains(rel.Context, indicators)))
		if score > bestScore {
			best = t
			bestScore = score
		}
	}
	if bestScore < 0.3 {
		return common.RelationAssociative
	}
	return best
}

// classifyDirection scores forward, reverse, and bidirectional indicators
// independently, with type-based defaults when nothing clears 0.2.
func (c *Classifier) classifyDirection(rel common.Relationship, entities *EntitySet) common.Direction {
	forward := 0.3 * float64(countContains(rel.Context, c.cfg.Rules.ForwardIndicators))
	reverse := 0.3 * float64(countContains(rel.Context, c.cfg.Rules.ReverseIndicators))
	bidi := 0.3 * float64(countContains(rel.Context, c.cfg.Rules.BidirectionalIndicators))

	// Two people in a collaboration-flavored context lean mutual.
	if c.personPair(rel, entities) && bidi > 0 {
		bidi += 0.2
	}

	if forward < 0.2 && reverse < 0.2 && bidi < 0.2 {
		switch rel.Type {
		case common.RelationCausal, common.RelationHierarchical:
			return common.DirectionSourceToTarget
		default:
			return common.DirectionBidirectional
		}
	}

	if forward >= reverse && forward >= bidi {
		return common.DirectionSourceToTarget
	}
	if reverse >= bidi {
		return common.DirectionTargetToSource
	}
	return common.DirectionBidirectional
}

func (c *Classifier) personPair(rel common.Relationship, entities *EntitySet) bool {
	st, sok := entities.TypeOf(rel.Source)
	tt, tok := entities.TypeOf(rel.Target)
	return sok && tok && st == common.EntityTypePerson && tt == common.EntityTypePerson
}

// score aggregates the five weighted confidence components plus a small
// bonus when the context carries the type's own indicator vocabulary.
func (c *Classifier) score(rel common.Relationship, entities *EntitySet) float64 {
	w := c.cfg.Confidence

	evidenceStrength := math.Min(1.0, 0.4+0.2*float64(len(rel.EvidenceDocs)))
	contextQuality := c.contextQuality(rel.Context)
	entityReliability := (c.entityReliability(rel.Source, entities) +
		c.entityReliability(rel.Target, entities)) / 2
	patternStrength := rel.Confidence
	crossDocument := math.Min(1.0, float64(len(rel.EvidenceDocs)-1)/2.0)

	score := w.EvidenceStrength*evidenceStrength +
		w.ContextQuality*contextQuality +
		w.EntityReliability*entityReliability +
		w.PatternStrength*patternStrength +
		w.CrossDocumentSupport*crossDocument

	if countContains(rel.Context, c.cfg.Rules.TypeIndicators[string(rel.Type)]) > 0 {
		score += 0.05
	}
	return common.Clamp(score)
}

func (c *Classifier) contextQuality(context string) float64 {
	quality := 0.4 + math.Min(0.4, float64(len(context))/150.0)
	if containsAny(context, c.cfg.Rules.ContextClues) {
		quality += 0.2
	}
	return math.Min(1.0, quality)
}

// entityReliability penalizes short or stop-word surfaces and rewards
// institutional, technical, and multi-token named entities.
func (c *Classifier) entityReliability(name string, entities *EntitySet) float64 {
	reliability := 0.5
	lower := strings.ToLower(name)

	if len(name) < 3 {
		reliability -= 0.2
	}
	if isStopWord(lower, c.cfg.Rules.StopWords) {
		reliability -= 0.3
	}
	if containsAny(name, c.cfg.Rules.OrganizationSuffixes) {
		reliability += 0.3
	}
	for _, term := range c.cfg.Rules.TechnologyTerms {
		if strings.EqualFold(name, term) {
			reliability += 0.3
			break
		}
	}
	if len(strings.Fields(name)) >= 2 {
		if t, ok := entities.TypeOf(name); ok && (t == common.EntityTypePerson || t == common.EntityTypeOrganization) {
			reliability += 0.2
		}
	}
	return common.ClampRange(reliability, 0, 1)
}
