package relation

import (
	"sort"
	"strings"

	"github.com/relgraph/relgraph/pkg/common"
	"github.com/relgraph/relgraph/pkg/config"
	"github.com/relgraph/relgraph/pkg/logger"
)

// ContradictionDetector flags statement pairs on the same topic whose
// sentiment vocabularies oppose each other.
type ContradictionDetector struct {
	cfg *config.Config
}

// Statement is one topical sentence with its origin document.
type Statement struct {
	DocumentID string `json:"document_id"`
	Sentence   string `json:"sentence"`
	Topic      string `json:"topic"`
}

// Contradiction pairs two opposing statements with a resolution suggestion.
type Contradiction struct {
	Topic      string    `json:"topic"`
	First      Statement `json:"first"`
	Second     Statement `json:"second"`
	Suggestion string    `json:"suggestion"`
}

// ContradictionResult holds the detected contradictions.
type ContradictionResult struct {
	Contradictions []Contradiction `json:"contradictions"`
}

func NewContradictionDetector(cfg *config.Config) *ContradictionDetector {
	return &ContradictionDetector{cfg: cfg}
}

// Detect tags sentences with research-area topics and compares same-topic
// pairs for opposing sentiment terms.
func (d *ContradictionDetector) Detect(docs []common.Document) (*ContradictionResult, error) {
	byTopic := make(map[string][]Statement)
	for _, doc := range docs {
		for _, sentence := range sentencesOf(doc.Content) {
			topic := d.topicOf(sentence)
			if topic == "" {
				continue
			}
			byTopic[topic] = append(byTopic[topic], Statement{
				DocumentID: doc.ID,
				Sentence:   strings.TrimSpace(sentence),
				Topic:      topic,
			})
		}
	}

	topics := make([]string, 0, len(byTopic))
	for t := range byTopic {
		topics = append(topics, t)
	}
	sort.Strings(topics)

	result := &ContradictionResult{}
	for _, topic := range topics {
		statements := byTopic[topic]
		for i := 0; i < len(statements); i++ {
			for j := i + 1; j < len(statements); j++ {
				if statements[i].DocumentID == statements[j].DocumentID {
					continue
				}
				if !d.opposing(statements[i].Sentence, statements[j].Sentence) {
					continue
				}
				result.Contradictions = append(result.Contradictions, Contradiction{
					Topic:  topic,
					First:  statements[i],
					Second: statements[j],
					Suggestion: "conflicting findings on " + topic +
						"; review the underlying sources and prefer the more recent or better-evidenced statement",
				})
			}
		}
	}

	logger.Info("[Contradiction] Detection completed",
		"topics", len(byTopic),
		"contradictions", len(result.Contradictions))
	return result, nil
}

// topicOf tags a sentence with the first research area whose keywords it
// contains, in stable area order.
func (d *ContradictionDetector) topicOf(sentence string) string {
	areas := make([]string, 0, len(d.cfg.Rules.ResearchAreas))
	for area := range d.cfg.Rules.ResearchAreas {
		areas = append(areas, area)
	}
	sort.Strings(areas)

	for _, area := range areas {
		if containsAny(sentence, d.cfg.Rules.ResearchAreas[area]) {
			return area
		}
	}
	return ""
}

// opposing reports whether one sentence leans on the positive vocabulary
// while the other leans on the negative one.
func (d *ContradictionDetector) opposing(a, b string) bool {
	aPos := containsAny(a, d.cfg.Rules.PositiveTerms)
	aNeg := containsAny(a, d.cfg.Rules.NegativeTerms)
	bPos := containsAny(b, d.cfg.Rules.PositiveTerms)
	bNeg := containsAny(b, d.cfg.Rules.NegativeTerms)
	return (aPos && !aNeg && bNeg && !bPos) || (aNeg && !aPos && bPos && !bNeg)
}
