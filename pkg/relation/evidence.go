package relation

import (
	"sort"
	"strings"

	"github.com/relgraph/relgraph/internal/util"
	"github.com/relgraph/relgraph/pkg/common"
	"github.com/relgraph/relgraph/pkg/config"
	"github.com/relgraph/relgraph/pkg/logger"
)

// EvidenceLinker matches declarative claim sentences across documents and
// assembles cross-document evidence chains.
type EvidenceLinker struct {
	cfg *config.Config
}

// Claim is one declarative sentence with its lexical and entity signals.
type Claim struct {
	DocumentID string   `json:"document_id"`
	Sentence   string   `json:"sentence"`
	Entities   []string `json:"entities,omitempty"`
}

// EvidenceLink connects two claims from different documents whose lexical
// overlap cleared the evidence threshold.
type EvidenceLink struct {
	From     Claim   `json:"from"`
	To       Claim   `json:"to"`
	Strength float64 `json:"strength"`
}

// EvidenceChain groups mutually linked claims with an aggregate strength.
type EvidenceChain struct {
	Claims   []Claim `json:"claims"`
	Strength float64 `json:"strength"`
}

// EvidenceResult holds the cross-document links and the chains built
// from them.
type EvidenceResult struct {
	Links  []EvidenceLink  `json:"evidence_links"`
	Chains []EvidenceChain `json:"evidence_chains"`
}

// Verbs that mark a sentence as asserting something checkable.
var claimVerbs = []string{
	"is", "are", "was", "were", "shows", "showed", "demonstrates",
	"demonstrated", "found", "confirms", "confirmed", "suggests",
	"proves", "proved", "indicates", "revealed", "reported",
}

func NewEvidenceLinker(cfg *config.Config) *EvidenceLinker {
	return &EvidenceLinker{cfg: cfg}
}

// Link extracts claims per document and matches them pairwise across
// documents.
func (e *EvidenceLinker) Link(docs []common.Document, entities *EntitySet) (*EvidenceResult, error) {
	var claims []Claim
	for _, doc := range docs {
		for _, sentence := range sentencesOf(doc.Content) {
			if !e.isClaim(sentence) {
				continue
			}
			var named []string
			for _, m := range entities.MentionsIn(sentence) {
				named = appendUniqueString(named, m.Canonical)
			}
			claims = append(claims, Claim{
				DocumentID: doc.ID,
				Sentence:   strings.TrimSpace(sentence),
				Entities:   named,
			})
		}
	}

	result := &EvidenceResult{}
	linked := make(map[int][]int)
	for i := 0; i < len(claims); i++ {
		for j := i + 1; j < len(claims); j++ {
			if claims[i].DocumentID == claims[j].DocumentID {
				continue
			}
			strength := e.matchStrength(claims[i], claims[j])
			if strength < e.cfg.EvidenceThreshold {
				continue
			}
			result.Links = append(result.Links, EvidenceLink{
				From:     claims[i],
				To:       claims[j],
				Strength: strength,
			})
			linked[i] = append(linked[i], j)
			linked[j] = append(linked[j], i)
		}
	}

	result.Chains = buildChains(claims, result.Links, linked)

	logger.Info("[Evidence] Linking completed",
		"claims", len(claims),
		"links", len(result.Links),
		"chains", len(result.Chains))
	return result, nil
}

func (e *EvidenceLinker) isClaim(sentence string) bool {
	trimmed := strings.TrimSpace(sentence)
	if len(trimmed) < 20 || strings.HasSuffix(trimmed, "?") {
		return false
	}
	for _, tok := range common.Tokens(trimmed) {
		for _, verb := range claimVerbs {
			if tok == verb {
				return true
			}
		}
	}
	return false
}

// matchStrength blends keyword Jaccard overlap with shared-entity and
// shared-research-area boosts.
func (e *EvidenceLinker) matchStrength(a, b Claim) float64 {
	overlap := keywordJaccard(
		e.contentTokens(a.Sentence),
		e.contentTokens(b.Sentence),
	)
	strength := overlap

	for _, ea := range a.Entities {
		for _, eb := range b.Entities {
			if ea == eb {
				strength += 0.2
				break
			}
		}
	}

	if e.sharedArea(a.Sentence, b.Sentence) {
		strength += 0.1
	}
	return common.Clamp(strength)
}

func (e *EvidenceLinker) contentTokens(sentence string) map[string]bool {
	out := make(map[string]bool)
	for _, tok := range common.Tokens(sentence) {
		if len(tok) < 3 || isStopWord(tok, e.cfg.Rules.StopWords) {
			continue
		}
		out[tok] = true
	}
	return out
}

func (e *EvidenceLinker) sharedArea(a, b string) bool {
	for _, keywords := range e.cfg.Rules.ResearchAreas {
		if containsAny(a, keywords) && containsAny(b, keywords) {
			return true
		}
	}
	return false
}

func isStopWord(tok string, stopWords []string) bool {
	for _, sw := range stopWords {
		if tok == sw {
			return true
		}
	}
	return false
}

func keywordJaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for tok := range a {
		if b[tok] {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	return float64(shared) / float64(union)
}

// buildChains collects connected claim components and averages their link
// strengths into an aggregate.
func buildChains(claims []Claim, links []EvidenceLink, adjacency map[int][]int) []EvidenceChain {
	visited := make(map[int]bool)
	var chains []EvidenceChain
	for i := range claims {
		if visited[i] || len(adjacency[i]) == 0 {
			continue
		}
		var component []int
		queue := []int{i}
		visited[i] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			component = append(component, cur)
			for _, next := range adjacency[cur] {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
		sort.Ints(component)

		chain := EvidenceChain{}
		for _, idx := range component {
			chain.Claims = append(chain.Claims, claims[idx])
		}
		var strengths []float64
		for _, l := range links {
			for _, idx := range component {
				if claims[idx].Sentence == l.From.Sentence {
					strengths = append(strengths, l.Strength)
					break
				}
			}
		}
		chain.Strength = util.MeanFloat64(strengths)
		chains = append(chains, chain)
	}
	return chains
}
