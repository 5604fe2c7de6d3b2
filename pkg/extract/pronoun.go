package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/relgraph/relgraph/pkg/common"
)

var (
	pronounRe     = regexp.MustCompile(`\b(?:He|She|They|It|he|she|they|it)\b|\b(?:Her|His|Their|her|his|their)\s+\w+`)
	partialNameRe = regexp.MustCompile(`^(?:Dr|Prof|Professor|Mr|Mrs|Ms|Sir)\.?\s+[A-Z][A-Za-z'-]+$`)
)

type tracked struct {
	ref      common.EntityReference
	sentence int
}

// resolveLocalMentions runs the local pronoun and partial-reference pass.
// It tracks the most recently mentioned entity per type and, within a
// one-sentence window, resolves pronouns ("Her work") and partial names
// ("Dr. Chen" after "Dr. Sarah Chen") to the tracked full entity.
func (e *Extractor) resolveLocalMentions(doc common.Document, refs []common.EntityReference) ([]common.EntityReference, error) {
	sentences := Sentences(doc.Content)
	if len(sentences) == 0 {
		return refs, nil
	}
	offsets := sentenceOffsets(doc.Content, sentences)

	bySentence := make([][]int, len(sentences))
	for idx, r := range refs {
		if r.Position < 0 {
			continue
		}
		s := sort.Search(len(offsets), func(i int) bool { return offsets[i] > r.Position }) - 1
		if s < 0 {
			s = 0
		}
		bySentence[s] = append(bySentence[s], idx)
	}

	out := make([]common.EntityReference, len(refs))
	copy(out, refs)

	lastByType := make(map[common.EntityType]tracked)

	for i, sentence := range sentences {
		sort.Slice(bySentence[i], func(a, b int) bool {
			return out[bySentence[i][a]].Position < out[bySentence[i][b]].Position
		})

		// Resolve partial names against entities tracked in the window
		// before registering this sentence's own mentions.
		for _, idx := range bySentence[i] {
			r := out[idx]
			if r.Type != common.EntityTypePerson || !partialNameRe.MatchString(r.Name) {
				continue
			}
			prev, ok := lastByType[common.EntityTypePerson]
			if !ok || i-prev.sentence > 1 {
				continue
			}
			partial := stripHonorific(r.Name, e.cfg.Rules.Honorifics)
			if !sharesSurname(prev.ref, partial) || len(prev.ref.Name) <= len(r.Name) {
				continue
			}
			resolved := r
			resolved.Name = prev.ref.Name
			resolved.Confidence = e.cfg.PartialNameConfidence
			resolved.Aliases = appendUnique(prev.ref.Aliases, r.Name)
			out[idx] = resolved
		}

		for _, idx := range bySentence[i] {
			lastByType[out[idx].Type] = tracked{ref: out[idx], sentence: i}
		}

		for _, loc := range pronounRe.FindAllStringIndex(sentence, -1) {
			word := strings.ToLower(strings.Fields(sentence[loc[0]:loc[1]])[0])
			typ := common.EntityTypePerson
			if word == "it" {
				typ = common.EntityTypeTechnology
			}
			prev, ok := lastByType[typ]
			if !ok || i-prev.sentence > 1 {
				continue
			}
			// A pronoun in the antecedent's own sentence before the mention
			// itself points elsewhere; only resolve at or after it.
			if prev.sentence == i && prev.ref.Position > offsets[i]+loc[0] {
				continue
			}
			id, err := gonanoid.New()
			if err != nil {
				return nil, fmt.Errorf("failed to generate reference ID: %w", err)
			}
			out = append(out, common.EntityReference{
				ID:         id,
				Name:       prev.ref.Name,
				DocumentID: doc.ID,
				Context:    sentence,
				Type:       prev.ref.Type,
				Confidence: e.cfg.PronounConfidence,
				Position:   offsets[i] + loc[0],
				Aliases:    prev.ref.Aliases,
			})
		}
	}

	return out, nil
}

// sentenceOffsets anchors each sentence to an approximate byte offset in the
// original content by searching for its first word from a running cursor.
func sentenceOffsets(content string, sentences []string) []int {
	offsets := make([]int, len(sentences))
	cursor := 0
	for i, s := range sentences {
		fields := strings.Fields(s)
		if len(fields) == 0 {
			offsets[i] = cursor
			continue
		}
		found := strings.Index(content[cursor:], fields[0])
		if found < 0 {
			offsets[i] = cursor
			continue
		}
		offsets[i] = cursor + found
		cursor = offsets[i] + len(s)
		if cursor > len(content) {
			cursor = len(content)
		}
	}
	return offsets
}

func sharesSurname(ref common.EntityReference, partial string) bool {
	sur := surname(partial)
	if sur == "" {
		return false
	}
	if strings.EqualFold(surname(ref.Name), sur) {
		return true
	}
	for _, a := range ref.Aliases {
		if strings.EqualFold(surname(a), sur) {
			return true
		}
	}
	return false
}

func appendUnique(list []string, value string) []string {
	out := make([]string, 0, len(list)+1)
	out = append(out, list...)
	for _, v := range out {
		if v == value {
			return out
		}
	}
	return append(out, value)
}
