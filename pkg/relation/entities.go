package relation

import (
	"sort"
	"strings"

	"github.com/relgraph/relgraph/pkg/common"
	"github.com/relgraph/relgraph/pkg/config"
)

// EntitySet is the resolved entity inventory the relationship extractors
// run against. It maps every known surface form (member names, aliases,
// canonical names) to one canonical entity name. The set is read-only once
// built, so the six sub-algorithms can share it across goroutines.
type EntitySet struct {
	cfg       *config.Config
	canonical map[string]string
	types     map[string]common.EntityType
	surfaces  []string
}

// Mention is one occurrence of a resolved entity inside a sentence.
type Mention struct {
	Canonical string
	Start     int
}

// NewEntitySet indexes the resolved clusters for surface-form lookup.
func NewEntitySet(cfg *config.Config, clusters []common.EntityCluster) *EntitySet {
	s := &EntitySet{
		cfg:       cfg,
		canonical: make(map[string]string),
		types:     make(map[string]common.EntityType),
	}

	for _, cl := range clusters {
		s.types[cl.CanonicalName] = cl.Type
		s.addSurface(cl.CanonicalName, cl.CanonicalName)
		for _, m := range cl.Members {
			s.addSurface(m.Name, cl.CanonicalName)
			for _, a := range m.Aliases {
				s.addSurface(a, cl.CanonicalName)
			}
		}
	}

	s.surfaces = make([]string, 0, len(s.canonical))
	for surface := range s.canonical {
		s.surfaces = append(s.surfaces, surface)
	}
	// Longest surface first so "crispr-cas9" wins over "crispr".
	sort.Slice(s.surfaces, func(i, j int) bool {
		if len(s.surfaces[i]) != len(s.surfaces[j]) {
			return len(s.surfaces[i]) > len(s.surfaces[j])
		}
		return s.surfaces[i] < s.surfaces[j]
	})

	return s
}

func (s *EntitySet) addSurface(surface, canonical string) {
	key := common.NormalizeName(surface, s.cfg.Rules.Honorifics)
	if key == "" {
		return
	}
	if _, exists := s.canonical[key]; !exists {
		s.canonical[key] = canonical
	}
}

// Resolve maps a surface form to its canonical entity name.
func (s *EntitySet) Resolve(surface string) (string, bool) {
	c, ok := s.canonical[common.NormalizeName(surface, s.cfg.Rules.Honorifics)]
	return c, ok
}

// TypeOf returns the entity type of a canonical name.
func (s *EntitySet) TypeOf(canonical string) (common.EntityType, bool) {
	t, ok := s.types[canonical]
	return t, ok
}

// Names returns every canonical entity name in the set.
func (s *EntitySet) Names() []string {
	names := make([]string, 0, len(s.types))
	for n := range s.types {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// MentionsIn finds every non-overlapping entity mention in the sentence,
// ordered by position. Longer surface forms take precedence.
func (s *EntitySet) MentionsIn(sentence string) []Mention {
	lower := strings.ToLower(sentence)
	taken := make([]bool, len(lower))
	var mentions []Mention

	for _, surface := range s.surfaces {
		needle := strings.ToLower(surface)
		if needle == "" {
			continue
		}
		for idx := 0; ; {
			found := strings.Index(lower[idx:], needle)
			if found < 0 {
				break
			}
			start := idx + found
			end := start + len(needle)
			idx = end

			if !isWordBoundary(lower, start, end) || spanTaken(taken, start, end) {
				continue
			}
			for i := start; i < end; i++ {
				taken[i] = true
			}
			mentions = append(mentions, Mention{
				Canonical: s.canonical[common.NormalizeName(surface, s.cfg.Rules.Honorifics)],
				Start:     start,
			})
		}
	}

	sort.Slice(mentions, func(i, j int) bool { return mentions[i].Start < mentions[j].Start })

	// Adjacent duplicate mentions of the same entity collapse to the first.
	var out []Mention
	for _, m := range mentions {
		if len(out) > 0 && out[len(out)-1].Canonical == m.Canonical {
			continue
		}
		out = append(out, m)
	}
	return out
}

func isWordBoundary(s string, start, end int) bool {
	if start > 0 && isWordChar(s[start-1]) {
		return false
	}
	if end < len(s) && isWordChar(s[end]) {
		return false
	}
	return true
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func spanTaken(taken []bool, start, end int) bool {
	for i := start; i < end; i++ {
		if taken[i] {
			return true
		}
	}
	return false
}
