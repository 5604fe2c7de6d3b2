package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/relgraph/relgraph/pkg/common"
	"github.com/relgraph/relgraph/pkg/config"
)

// Extractor scans documents for candidate entity mentions using lexical
// patterns and declared metadata fields. It is safe for concurrent use
// once constructed.
type Extractor struct {
	cfg *config.Config

	titledPerson *regexp.Regexp
	plainName    *regexp.Regexp
	organization *regexp.Regexp
	orgOf        *regexp.Regexp
	acronym      *regexp.Regexp

	stopWords map[string]struct{}
}

type candidate struct {
	name    string
	typ     common.EntityType
	start   int
	end     int
	boost   float64
	aliases []string
}

// NewExtractor compiles the lexical patterns for the given configuration.
func NewExtractor(cfg *config.Config) (*Extractor, error) {
	suffixes := make([]string, 0, len(cfg.Rules.OrganizationSuffixes))
	for _, s := range cfg.Rules.OrganizationSuffixes {
		suffixes = append(suffixes, regexp.QuoteMeta(s))
	}
	orgPattern := fmt.Sprintf(
		`\b[A-Z][A-Za-z&'-]*(?:\s+(?:of|for|the|[A-Z][A-Za-z&'-]*))*\s+(?:%s)\b`,
		strings.Join(suffixes, "|"),
	)

	organization, err := regexp.Compile(orgPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to compile organization pattern: %w", err)
	}

	stopWords := make(map[string]struct{}, len(cfg.Rules.StopWords))
	for _, w := range cfg.Rules.StopWords {
		stopWords[w] = struct{}{}
	}

	return &Extractor{
		cfg:          cfg,
		titledPerson: regexp.MustCompile(`\b(?:Dr|Prof|Professor|Mr|Mrs|Ms|Sir)\.?\s+[A-Z][A-Za-z'-]+(?:\s+[A-Z][A-Za-z'-]+)*`),
		plainName:    regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`),
		organization: organization,
		orgOf:        regexp.MustCompile(`\b(?:University|Institute|Center|Centre)\s+of\s+[A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)*`),
		acronym:      regexp.MustCompile(`\b[A-Z][A-Z0-9]{1,9}(?:-[A-Za-z0-9]+)?\b`),
		stopWords:    stopWords,
	}, nil
}

// Extract returns every entity reference found in the document: lexical
// pattern matches, metadata-declared authors, and pronoun or partial-name
// mentions resolved against recently seen entities. Candidates scoring
// below the configured minimum confidence are discarded.
func (e *Extractor) Extract(doc common.Document) ([]common.EntityReference, error) {
	candidates := e.collectCandidates(doc.Content)

	refs := make([]common.EntityReference, 0, len(candidates))
	for _, c := range candidates {
		conf := e.score(c, doc.Content)
		if conf < e.cfg.MinReferenceConfidence {
			continue
		}
		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("failed to generate reference ID: %w", err)
		}
		refs = append(refs, common.EntityReference{
			ID:         id,
			Name:       c.name,
			DocumentID: doc.ID,
			Context:    contextWindow(doc.Content, c.start, c.end),
			Type:       c.typ,
			Confidence: common.Clamp(conf),
			Position:   c.start,
			Aliases:    c.aliases,
		})
	}

	authorRefs, err := e.metadataReferences(doc)
	if err != nil {
		return nil, err
	}
	refs = append(refs, authorRefs...)

	refs, err = e.resolveLocalMentions(doc, refs)
	if err != nil {
		return nil, err
	}

	return dedupeReferences(refs), nil
}

func (e *Extractor) collectCandidates(text string) []candidate {
	var out []candidate

	for _, m := range e.titledPerson.FindAllStringIndex(text, -1) {
		name := text[m[0]:m[1]]
		bare := stripHonorific(name, e.cfg.Rules.Honorifics)
		aliases := []string{bare}
		if sur := surname(bare); sur != "" && sur != bare {
			aliases = append(aliases, sur)
		}
		out = append(out, candidate{
			name: name, typ: common.EntityTypePerson,
			start: m[0], end: m[1], boost: 0.3, aliases: aliases,
		})
	}

	for _, m := range e.plainName.FindAllStringIndex(text, -1) {
		name := text[m[0]:m[1]]
		if e.endsWithOrgSuffix(name) {
			continue
		}
		aliases := []string{}
		if sur := surname(name); sur != "" {
			aliases = append(aliases, sur)
		}
		out = append(out, candidate{
			name: name, typ: common.EntityTypePerson,
			start: m[0], end: m[1], aliases: aliases,
		})
	}

	for _, re := range []*regexp.Regexp{e.organization, e.orgOf} {
		for _, m := range re.FindAllStringIndex(text, -1) {
			out = append(out, candidate{
				name: text[m[0]:m[1]], typ: common.EntityTypeOrganization,
				start: m[0], end: m[1], boost: 0.15,
			})
		}
	}

	for _, m := range e.acronym.FindAllStringIndex(text, -1) {
		name := text[m[0]:m[1]]
		boost := 0.2
		if e.isKnownTechnology(name) {
			boost = 0.3
		}
		out = append(out, candidate{
			name: name, typ: common.EntityTypeTechnology,
			start: m[0], end: m[1], boost: boost,
		})
	}

	lower := strings.ToLower(text)
	for _, phrase := range e.cfg.Rules.ConceptPhrases {
		needle := strings.ToLower(phrase)
		for idx := 0; ; {
			found := strings.Index(lower[idx:], needle)
			if found < 0 {
				break
			}
			start := idx + found
			out = append(out, candidate{
				name: text[start : start+len(phrase)], typ: common.EntityTypeConcept,
				start: start, end: start + len(phrase), boost: 0.2,
			})
			idx = start + len(phrase)
		}
	}

	return resolveOverlaps(out)
}

// resolveOverlaps drops candidates fully contained in a longer candidate of
// the same type, so "Sarah Chen" inside "Dr. Sarah Chen" yields one mention.
func resolveOverlaps(candidates []candidate) []candidate {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].start != candidates[j].start {
			return candidates[i].start < candidates[j].start
		}
		return candidates[i].end > candidates[j].end
	})

	var out []candidate
	for _, c := range candidates {
		contained := false
		for _, kept := range out {
			if kept.typ == c.typ && kept.start <= c.start && c.end <= kept.end &&
				(kept.end-kept.start) > (c.end-c.start) {
				contained = true
				break
			}
		}
		if !contained {
			out = append(out, c)
		}
	}
	return out
}

func (e *Extractor) score(c candidate, text string) float64 {
	conf := 0.5 + c.boost

	ctx := strings.ToLower(contextWindow(text, c.start, c.end))
	for _, kw := range e.cfg.Rules.DomainKeywords[string(c.typ)] {
		if strings.Contains(ctx, kw) {
			conf += 0.2
			break
		}
	}

	if len(c.name) < 3 {
		conf -= 0.2
	}
	if _, stop := e.stopWords[strings.ToLower(c.name)]; stop {
		conf -= 0.3
	}

	return conf
}

func (e *Extractor) metadataReferences(doc common.Document) ([]common.EntityReference, error) {
	refs := make([]common.EntityReference, 0, len(doc.Metadata.Authors))
	for _, author := range doc.Metadata.Authors {
		author = strings.TrimSpace(author)
		if author == "" {
			continue
		}
		id, err := gonanoid.New()
		if err != nil {
			return nil, fmt.Errorf("failed to generate reference ID: %w", err)
		}
		var aliases []string
		if sur := surname(stripHonorific(author, e.cfg.Rules.Honorifics)); sur != "" {
			aliases = append(aliases, sur)
		}
		refs = append(refs, common.EntityReference{
			ID:         id,
			Name:       author,
			DocumentID: doc.ID,
			Context:    "document metadata: author",
			Type:       common.EntityTypePerson,
			Confidence: e.cfg.AuthorConfidence,
			Position:   -1,
			Aliases:    aliases,
		})
	}
	return refs, nil
}

func (e *Extractor) endsWithOrgSuffix(name string) bool {
	for _, s := range e.cfg.Rules.OrganizationSuffixes {
		if strings.HasSuffix(name, " "+s) {
			return true
		}
	}
	return false
}

func (e *Extractor) isKnownTechnology(name string) bool {
	for _, t := range e.cfg.Rules.TechnologyTerms {
		if strings.EqualFold(name, t) {
			return true
		}
	}
	return false
}

// dedupeReferences keeps the highest-confidence reference per distinct
// (name, type, position) surface occurrence.
func dedupeReferences(refs []common.EntityReference) []common.EntityReference {
	type key struct {
		name string
		typ  common.EntityType
		pos  int
	}
	best := make(map[key]int)
	out := make([]common.EntityReference, 0, len(refs))
	for _, r := range refs {
		k := key{name: common.NormalizeText(r.Name), typ: r.Type, pos: r.Position}
		if idx, ok := best[k]; ok {
			if r.Confidence > out[idx].Confidence {
				out[idx] = r
			}
			continue
		}
		best[k] = len(out)
		out = append(out, r)
	}
	return out
}

func contextWindow(text string, start, end int) string {
	const window = 60
	from := start - window
	if from < 0 {
		from = 0
	}
	to := end + window
	if to > len(text) {
		to = len(text)
	}
	return strings.TrimSpace(text[from:to])
}

func stripHonorific(name string, honorifics []string) string {
	trimmed := strings.TrimSpace(name)
	for changed := true; changed; {
		changed = false
		for _, h := range honorifics {
			if len(trimmed) > len(h) && strings.HasPrefix(trimmed, h) && trimmed[len(h)] == ' ' {
				trimmed = strings.TrimSpace(trimmed[len(h):])
				changed = true
			}
		}
	}
	return trimmed
}

func surname(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
