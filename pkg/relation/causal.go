package relation

import (
	"fmt"
	"sort"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/relgraph/relgraph/internal/util"
	"github.com/relgraph/relgraph/pkg/common"
	"github.com/relgraph/relgraph/pkg/config"
	"github.com/relgraph/relgraph/pkg/logger"
)

// CausalExtractor finds cause/effect pairs around trigger phrases.
type CausalExtractor struct {
	cfg *config.Config
}

// CausalResult holds the merged causal relationships of one run.
type CausalResult struct {
	Relationships    []common.Relationship `json:"causal_relationships"`
	TriggersByPair   map[string][]string   `json:"triggers_by_pair"`
	ValidationErrors []string              `json:"validation_errors,omitempty"`
}

func NewCausalExtractor(cfg *config.Config) *CausalExtractor {
	return &CausalExtractor{cfg: cfg}
}

type causalCandidate struct {
	source     string
	target     string
	confidence float64
	documentID string
	context    string
	trigger    string
}

// Extract runs the per-document causal scan and merges duplicate pairs
// across documents.
func (c *CausalExtractor) Extract(docs []common.Document, entities *EntitySet) (*CausalResult, error) {
	var candidates []causalCandidate
	for _, doc := range docs {
		candidates = append(candidates, c.scanDocument(doc, entities)...)
	}

	result, err := c.merge(candidates)
	if err != nil {
		return nil, fmt.Errorf("merging causal candidates: %w", err)
	}

	logger.Info("[Causal] Extraction completed",
		"candidates", len(candidates),
		"relationships", len(result.Relationships))
	return result, nil
}

func (c *CausalExtractor) scanDocument(doc common.Document, entities *EntitySet) []causalCandidate {
	var out []causalCandidate
	for _, sentence := range sentencesOf(doc.Content) {
		matches := matchTriggers(sentence, c.cfg.Rules.CausalTriggers)
		if len(matches) == 0 {
			continue
		}
		mentions := entities.MentionsIn(sentence)
		if len(mentions) < 2 {
			continue
		}
		for _, m := range matches {
			source, target, ok := bracketingPair(mentions, m.Start)
			if !ok {
				continue
			}
			conf := c.cfg.CausalBaseConfidence + 0.2*m.Rule.Weight
			if t, ok := entities.TypeOf(source); ok && t == common.EntityTypePerson {
				conf += 0.1
			}
			if t, ok := entities.TypeOf(target); ok && t == common.EntityTypeTechnology {
				conf += 0.1
			}
			if containsAny(sentence, c.cfg.Rules.ContextClues) {
				conf += 0.1
			}
			out = append(out, causalCandidate{
				source:     source,
				target:     target,
				confidence: common.Clamp(conf),
				documentID: doc.ID,
				context:    strings.TrimSpace(sentence),
				trigger:    m.Rule.Phrase,
			})
		}
	}
	return out
}

// bracketingPair picks the nearest mention on each side of the trigger.
func bracketingPair(mentions []Mention, triggerStart int) (string, string, bool) {
	var left, right *Mention
	for i := range mentions {
		m := &mentions[i]
		if m.Start < triggerStart {
			left = m
		} else if right == nil {
			right = m
		}
	}
	if left == nil || right == nil || left.Canonical == right.Canonical {
		return "", "", false
	}
	return left.Canonical, right.Canonical, true
}

func (c *CausalExtractor) merge(candidates []causalCandidate) (*CausalResult, error) {
	type group struct {
		source, target string
		members        []causalCandidate
	}
	groups := make(map[string]*group)
	var order []string
	for _, cand := range candidates {
		key := cand.source + "->" + cand.target
		g, ok := groups[key]
		if !ok {
			g = &group{source: cand.source, target: cand.target}
			groups[key] = g
			order = append(order, key)
		}
		g.members = append(g.members, cand)
	}
	sort.Strings(order)

	result := &CausalResult{TriggersByPair: make(map[string][]string)}
	for _, key := range order {
		g := groups[key]

		var confidences []float64
		var evidence, triggers, contexts []string
		for _, m := range g.members {
			confidences = append(confidences, m.confidence)
			evidence = appendUniqueString(evidence, m.documentID)
			triggers = appendUniqueString(triggers, m.trigger)
			contexts = appendUniqueString(contexts, m.context)
		}
		sort.Strings(evidence)
		sort.Strings(triggers)

		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("generating relationship id: %w", err)
		}

		rec := common.RelationshipRecord{
			ID:           id,
			Source:       g.source,
			Target:       g.target,
			Type:         string(common.RelationCausal),
			Confidence:   util.MeanFloat64(confidences),
			EvidenceDocs: evidence,
			Direction:    string(common.DirectionSourceToTarget),
			Context:      strings.Join(contexts, " | "),
		}
		rel, verr := common.RecordToRelationship(rec)
		if verr != "" {
			result.ValidationErrors = append(result.ValidationErrors, verr)
			continue
		}
		result.Relationships = append(result.Relationships, rel)
		result.TriggersByPair[key] = triggers
	}
	return result, nil
}

func appendUniqueString(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
