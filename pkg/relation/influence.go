package relation

import (
	"fmt"
	"sort"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/relgraph/relgraph/pkg/common"
	"github.com/relgraph/relgraph/pkg/config"
	"github.com/relgraph/relgraph/pkg/logger"
)

// InfluenceExtractor builds a directed influence network from trigger
// phrases and the citation inference rule: when a document's reference
// list mentions person B, B influenced the document's authors.
type InfluenceExtractor struct {
	cfg *config.Config
}

// InfluencePath is a bounded-hop path between two high-influence entities.
type InfluencePath struct {
	From  string   `json:"from"`
	To    string   `json:"to"`
	Nodes []string `json:"nodes"`
}

// InfluenceResult holds the influence relationships, normalized per-entity
// influence scores, and paths between high-influence entities.
type InfluenceResult struct {
	Relationships    []common.Relationship `json:"influence_relationships"`
	Scores           map[string]float64    `json:"influence_scores"`
	Paths            []InfluencePath       `json:"influence_paths"`
	ValidationErrors []string              `json:"validation_errors,omitempty"`
}

func NewInfluenceExtractor(cfg *config.Config) *InfluenceExtractor {
	return &InfluenceExtractor{cfg: cfg}
}

type influenceObs struct {
	source     string // the influencer
	target     string
	confidence float64
	documentID string
	context    string
}

// Extract accumulates influence edges, scores entities, and computes
// bounded shortest paths between entities above the influence cutoff.
func (ie *InfluenceExtractor) Extract(docs []common.Document, entities *EntitySet) (*InfluenceResult, error) {
	var observations []influenceObs

	for _, doc := range docs {
		for _, sentence := range sentencesOf(doc.Content) {
			matches := matchTriggers(sentence, ie.cfg.Rules.InfluenceTriggers)
			if len(matches) == 0 {
				continue
			}
			mentions := entities.MentionsIn(sentence)
			if len(mentions) < 2 {
				continue
			}
			for _, m := range matches {
				left, right, ok := bracketingPair(mentions, m.Start)
				if !ok {
					continue
				}
				source, target := left, right
				if m.Rule.Kind == config.InfluenceReverse {
					source, target = right, left
				}
				observations = append(observations, influenceObs{
					source:     source,
					target:     target,
					confidence: common.Clamp(0.5 + 0.4*m.Rule.Weight),
					documentID: doc.ID,
					context:    strings.TrimSpace(sentence),
				})
			}
		}
		observations = append(observations, ie.citationEdges(doc, entities)...)
	}

	result := &InfluenceResult{Scores: make(map[string]float64)}

	type group struct {
		source, target string
		sum            float64
		count          int
		evidence       []string
		contexts       []string
	}
	groups := make(map[string]*group)
	var order []string
	for _, obs := range observations {
		if obs.source == obs.target {
			continue
		}
		key := obs.source + "->" + obs.target
		g, ok := groups[key]
		if !ok {
			g = &group{source: obs.source, target: obs.target}
			groups[key] = g
			order = append(order, key)
		}
		g.sum += obs.confidence
		g.count++
		g.evidence = appendUniqueString(g.evidence, obs.documentID)
		g.contexts = appendUniqueString(g.contexts, obs.context)
	}
	sort.Strings(order)

	adjacency := make(map[string][]string)
	rawScores := make(map[string]float64)
	for _, key := range order {
		g := groups[key]
		sort.Strings(g.evidence)
		confidence := g.sum / float64(g.count)

		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("generating relationship id: %w", err)
		}
		rec := common.RelationshipRecord{
			ID:           id,
			Source:       g.source,
			Target:       g.target,
			Type:         string(common.RelationInfluence),
			Confidence:   confidence,
			EvidenceDocs: g.evidence,
			Direction:    string(common.DirectionSourceToTarget),
			Context:      strings.Join(g.contexts, " | "),
		}
		rel, verr := common.RecordToRelationship(rec)
		if verr != "" {
			result.ValidationErrors = append(result.ValidationErrors, verr)
			continue
		}
		result.Relationships = append(result.Relationships, rel)
		adjacency[g.source] = append(adjacency[g.source], g.target)
		rawScores[g.source] += confidence
	}

	// Normalize influence scores by the maximum observed.
	var max float64
	for _, score := range rawScores {
		if score > max {
			max = score
		}
	}
	if max > 0 {
		for entity, score := range rawScores {
			result.Scores[entity] = score / max
		}
	}

	result.Paths = ie.highInfluencePaths(adjacency, result.Scores)

	logger.Info("[Influence] Extraction completed",
		"relationships", len(result.Relationships),
		"scored_entities", len(result.Scores),
		"paths", len(result.Paths))
	return result, nil
}

// citationEdges applies the citation rule: each person entity found in a
// document's reference list influenced each of the document's authors.
func (ie *InfluenceExtractor) citationEdges(doc common.Document, entities *EntitySet) []influenceObs {
	if len(doc.Metadata.Authors) == 0 || len(doc.Metadata.References) == 0 {
		return nil
	}

	var authors []string
	for _, a := range doc.Metadata.Authors {
		if canonical, ok := entities.Resolve(a); ok {
			authors = appendUniqueString(authors, canonical)
		}
	}
	if len(authors) == 0 {
		return nil
	}

	var out []influenceObs
	for _, ref := range doc.Metadata.References {
		for _, m := range entities.MentionsIn(ref) {
			if t, ok := entities.TypeOf(m.Canonical); !ok || t != common.EntityTypePerson {
				continue
			}
			for _, author := range authors {
				if author == m.Canonical {
					continue
				}
				out = append(out, influenceObs{
					source:     m.Canonical,
					target:     author,
					confidence: 0.6,
					documentID: doc.ID,
					context:    "cited in reference list: " + strings.TrimSpace(ref),
				})
			}
		}
	}
	return out
}

// highInfluencePaths runs a bounded BFS between every ordered pair of
// entities whose normalized score exceeds the cutoff.
func (ie *InfluenceExtractor) highInfluencePaths(adjacency map[string][]string, scores map[string]float64) []InfluencePath {
	var high []string
	for entity, score := range scores {
		if score > ie.cfg.InfluenceCutoff {
			high = append(high, entity)
		}
	}
	sort.Strings(high)

	var paths []InfluencePath
	for _, from := range high {
		for _, to := range high {
			if from == to {
				continue
			}
			if nodes := boundedShortestPath(adjacency, from, to, ie.cfg.MaxPathHops); nodes != nil {
				paths = append(paths, InfluencePath{From: from, To: to, Nodes: nodes})
			}
		}
	}
	return paths
}

// boundedShortestPath is a BFS limited to maxHops edges.
func boundedShortestPath(adjacency map[string][]string, from, to string, maxHops int) []string {
	if from == to {
		return []string{from}
	}
	type state struct {
		node string
		path []string
	}
	visited := map[string]bool{from: true}
	queue := []state{{node: from, path: []string{from}}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if len(cur.path)-1 >= maxHops {
			continue
		}
		neighbors := append([]string(nil), adjacency[cur.node]...)
		sort.Strings(neighbors)
		for _, next := range neighbors {
			if visited[next] {
				continue
			}
			path := append(append([]string(nil), cur.path...), next)
			if next == to {
				return path
			}
			visited[next] = true
			queue = append(queue, state{node: next, path: path})
		}
	}
	return nil
}
