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

// HierarchyExtractor finds containment and collaboration structure. It
// seeds a concept tree from the static ontology table and grows it with
// containment edges discovered in the documents.
type HierarchyExtractor struct {
	cfg *config.Config
}

// HierarchyResult holds hierarchical/associative relationships plus the
// assembled concept tree and per-node subtree depths.
type HierarchyResult struct {
	Relationships    []common.Relationship `json:"hierarchy_relationships"`
	ConceptTree      map[string][]string   `json:"concept_tree"`
	TreeDepths       map[string]int        `json:"tree_depths"`
	ValidationErrors []string              `json:"validation_errors,omitempty"`
}

func NewHierarchyExtractor(cfg *config.Config) *HierarchyExtractor {
	return &HierarchyExtractor{cfg: cfg}
}

// Phrases where the entity before the trigger is the parent. Every other
// containment phrase reads child-first ("X is part of Y").
var parentFirstPhrases = map[string]bool{
	"includes":  true,
	"comprises": true,
}

type hierarchyObs struct {
	source     string
	target     string
	relType    common.RelationType
	direction  common.Direction
	confidence float64
	documentID string
	context    string
}

// Extract scans documents for hierarchy triggers and assembles the
// concept tree.
func (h *HierarchyExtractor) Extract(docs []common.Document, entities *EntitySet) (*HierarchyResult, error) {
	var observations []hierarchyObs
	tree := make(map[string][]string)
	for parent, children := range h.cfg.Rules.Ontology {
		tree[parent] = append(tree[parent], children...)
	}

	for _, doc := range docs {
		for _, sentence := range sentencesOf(doc.Content) {
			matches := matchTriggers(sentence, h.cfg.Rules.HierarchyTriggers)
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
				obs := hierarchyObs{
					confidence: common.Clamp(0.5 + 0.4*m.Rule.Weight),
					documentID: doc.ID,
					context:    strings.TrimSpace(sentence),
				}
				switch m.Rule.Kind {
				case config.HierarchyContainment:
					parent, child := right, left
					if parentFirstPhrases[strings.ToLower(m.Rule.Phrase)] {
						parent, child = left, right
					}
					obs.source = parent
					obs.target = child
					obs.relType = common.RelationHierarchical
					obs.direction = common.DirectionSourceToTarget
					tree[parent] = appendUniqueString(tree[parent], child)
				case config.HierarchyCollaboration:
					obs.source = left
					obs.target = right
					obs.relType = common.RelationAssociative
					obs.direction = common.DirectionBidirectional
				default:
					continue
				}
				observations = append(observations, obs)
			}
		}
	}

	result := &HierarchyResult{
		ConceptTree: tree,
		TreeDepths:  treeDepths(tree),
	}

	type group struct {
		obs      hierarchyObs
		sum      float64
		count    int
		evidence []string
		contexts []string
	}
	groups := make(map[string]*group)
	var order []string
	for _, obs := range observations {
		key := string(obs.relType) + "|" + obs.source + "->" + obs.target
		g, ok := groups[key]
		if !ok {
			g = &group{obs: obs}
			groups[key] = g
			order = append(order, key)
		}
		g.sum += obs.confidence
		g.count++
		g.evidence = appendUniqueString(g.evidence, obs.documentID)
		g.contexts = appendUniqueString(g.contexts, obs.context)
	}
	sort.Strings(order)

	for _, key := range order {
		g := groups[key]
		sort.Strings(g.evidence)

		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("generating relationship id: %w", err)
		}
		rec := common.RelationshipRecord{
			ID:           id,
			Source:       g.obs.source,
			Target:       g.obs.target,
			Type:         string(g.obs.relType),
			Confidence:   g.sum / float64(g.count),
			EvidenceDocs: g.evidence,
			Direction:    string(g.obs.direction),
			Context:      strings.Join(g.contexts, " | "),
		}
		rel, verr := common.RecordToRelationship(rec)
		if verr != "" {
			result.ValidationErrors = append(result.ValidationErrors, verr)
			continue
		}
		result.Relationships = append(result.Relationships, rel)
	}

	logger.Info("[Hierarchy] Extraction completed",
		"relationships", len(result.Relationships),
		"tree_nodes", len(result.TreeDepths))
	return result, nil
}

// treeDepths computes the subtree depth of every node by recursive descent.
// A visited set guards against cycles introduced by discovered edges.
func treeDepths(tree map[string][]string) map[string]int {
	nodes := make(map[string]bool)
	for parent, children := range tree {
		nodes[parent] = true
		for _, c := range children {
			nodes[c] = true
		}
	}

	depths := make(map[string]int, len(nodes))
	for node := range nodes {
		depths[node] = subtreeDepth(tree, node, make(map[string]bool))
	}
	return depths
}

func subtreeDepth(tree map[string][]string, node string, visited map[string]bool) int {
	if visited[node] {
		return 0
	}
	visited[node] = true
	defer delete(visited, node)

	max := 0
	for _, child := range tree[node] {
		if d := subtreeDepth(tree, child, visited); d > max {
			max = d
		}
	}
	return max + 1
}
