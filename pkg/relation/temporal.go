package relation

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/relgraph/relgraph/pkg/common"
	"github.com/relgraph/relgraph/pkg/config"
	"github.com/relgraph/relgraph/pkg/logger"
)

// TemporalExtractor orders entity events along explicit year tokens and
// temporal trigger phrases.
type TemporalExtractor struct {
	cfg *config.Config
}

// TemporalEvent is one dated mention of a subject entity.
type TemporalEvent struct {
	Subject    string `json:"subject"`
	Year       int    `json:"year"`
	Sentence   string `json:"sentence"`
	DocumentID string `json:"document_id"`
	Milestone  bool   `json:"milestone"`
}

// TemporalSequence is a subject's events sorted by year, at least two long.
type TemporalSequence struct {
	Subject string          `json:"subject"`
	Events  []TemporalEvent `json:"events"`
}

// TemporalResult holds sequences and the temporal relationships derived
// from co-mentioned entities in dated sentences.
type TemporalResult struct {
	Sequences        []TemporalSequence    `json:"temporal_sequences"`
	Relationships    []common.Relationship `json:"temporal_relationships"`
	ValidationErrors []string              `json:"validation_errors,omitempty"`
}

var yearTokenRe = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)

func NewTemporalExtractor(cfg *config.Config) *TemporalExtractor {
	return &TemporalExtractor{cfg: cfg}
}

// Extract scans each document for dated sentences, builds per-subject
// sequences, and emits ordering relationships between co-mentioned entities.
func (t *TemporalExtractor) Extract(docs []common.Document, entities *EntitySet) (*TemporalResult, error) {
	var events []TemporalEvent
	type pairObs struct {
		source, target string
		year           int
		documentID     string
		context        string
		confidence     float64
	}
	var observations []pairObs

	for _, doc := range docs {
		docYear := metadataYear(doc.Metadata.Date)
		for _, sentence := range sentencesOf(doc.Content) {
			year := sentenceYear(sentence)
			triggers := matchTriggers(sentence, t.cfg.Rules.TemporalTriggers)
			if year == 0 && len(triggers) == 0 {
				continue
			}
			if year == 0 {
				year = docYear
			}

			mentions := entities.MentionsIn(sentence)
			if len(mentions) == 0 {
				continue
			}

			milestone := containsAny(sentence, t.cfg.Rules.MilestoneTerms)
			if year != 0 {
				for _, m := range mentions {
					events = append(events, TemporalEvent{
						Subject:    m.Canonical,
						Year:       year,
						Sentence:   strings.TrimSpace(sentence),
						DocumentID: doc.ID,
						Milestone:  milestone,
					})
				}
			}

			if len(triggers) > 0 && len(mentions) >= 2 {
				conf := 0.5 + 0.3*triggers[0].Rule.Weight
				if year != 0 {
					conf += 0.1
				}
				if milestone {
					conf += 0.05
				}
				observations = append(observations, pairObs{
					source:     mentions[0].Canonical,
					target:     mentions[1].Canonical,
					year:       year,
					documentID: doc.ID,
					context:    strings.TrimSpace(sentence),
					confidence: common.Clamp(conf),
				})
			}
		}
	}

	result := &TemporalResult{Sequences: buildSequences(events)}

	type group struct {
		source, target string
		confidence     float64
		evidence       []string
		contexts       []string
		count          int
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
		g.confidence += obs.confidence
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
			Source:       g.source,
			Target:       g.target,
			Type:         string(common.RelationTemporal),
			Confidence:   g.confidence / float64(g.count),
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
	}

	logger.Info("[Temporal] Extraction completed",
		"events", len(events),
		"sequences", len(result.Sequences),
		"relationships", len(result.Relationships))
	return result, nil
}

func buildSequences(events []TemporalEvent) []TemporalSequence {
	bySubject := make(map[string][]TemporalEvent)
	for _, ev := range events {
		bySubject[ev.Subject] = append(bySubject[ev.Subject], ev)
	}

	subjects := make([]string, 0, len(bySubject))
	for s := range bySubject {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)

	var sequences []TemporalSequence
	for _, subject := range subjects {
		evs := bySubject[subject]
		evs = dedupeEvents(evs)
		if len(evs) < 2 {
			continue
		}
		sort.Slice(evs, func(i, j int) bool {
			if evs[i].Year != evs[j].Year {
				return evs[i].Year < evs[j].Year
			}
			return evs[i].Sentence < evs[j].Sentence
		})
		sequences = append(sequences, TemporalSequence{Subject: subject, Events: evs})
	}
	return sequences
}

func dedupeEvents(events []TemporalEvent) []TemporalEvent {
	seen := make(map[string]bool)
	var out []TemporalEvent
	for _, ev := range events {
		key := strconv.Itoa(ev.Year) + "|" + ev.Sentence
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ev)
	}
	return out
}

// sentenceYear returns the first explicit year token, or 0.
func sentenceYear(sentence string) int {
	m := yearTokenRe.FindString(sentence)
	if m == "" {
		return 0
	}
	year, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return year
}

// metadataYear parses a document metadata date. An absent or unparsable
// date maps to 0, never an error.
func metadataYear(date string) int {
	if date == "" {
		return 0
	}
	parsed, err := dateparse.ParseAny(date)
	if err != nil || parsed.Equal(time.Time{}) {
		return 0
	}
	return parsed.Year()
}
