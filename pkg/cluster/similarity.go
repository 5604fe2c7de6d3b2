package cluster

import (
	"strings"

	"github.com/relgraph/relgraph/internal/util"
	"github.com/relgraph/relgraph/pkg/common"
	"github.com/relgraph/relgraph/pkg/config"
)

// pairSimilarity blends name, alias, context, and document signals into one
// score, then applies the override rules for domain-token families, shared
// surnames, and single-token name subsets.
func pairSimilarity(cfg *config.Config, a, b common.EntityReference) float64 {
	na := common.NormalizeName(a.Name, cfg.Rules.Honorifics)
	nb := common.NormalizeName(b.Name, cfg.Rules.Honorifics)

	nameSim := stringSimilarity(na, nb)
	aliasSim := bestAliasSimilarity(cfg, a, b)
	ctxSim := contextOverlap(a.Context, b.Context)
	crossDoc := 0.0
	if a.DocumentID != b.DocumentID {
		crossDoc = 1.0
	}

	w := cfg.Similarity
	sim := w.Name*nameSim + w.Alias*aliasSim + w.Context*ctxSim + w.CrossDocument*crossDoc

	if a.Type == common.EntityTypeTechnology && sameDomainFamily(na, nb) {
		if sim < 0.85 {
			sim = 0.85
		}
	}

	if a.Type == common.EntityTypePerson && sharedSurname(na, nb) && ctxSim > 0.3 {
		sim = 0.9
	}

	if singleTokenSubset(na, nb) && sim < 0.85 {
		sim = 0.85
	}

	return common.Clamp(sim)
}

// stringSimilarity is a normalized Levenshtein similarity in [0,1].
func stringSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = util.Min(util.Min(curr[j-1]+1, prev[j]+1), prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	maxLen := util.Max(len(ra), len(rb))
	return 1 - float64(prev[len(rb)])/float64(maxLen)
}

func bestAliasSimilarity(cfg *config.Config, a, b common.EntityReference) float64 {
	aliasesA := append([]string{a.Name}, a.Aliases...)
	aliasesB := append([]string{b.Name}, b.Aliases...)

	best := 0.0
	for _, x := range aliasesA {
		nx := common.NormalizeName(x, cfg.Rules.Honorifics)
		for _, y := range aliasesB {
			ny := common.NormalizeName(y, cfg.Rules.Honorifics)
			if s := stringSimilarity(nx, ny); s > best {
				best = s
			}
		}
	}
	return best
}

// contextOverlap is the Jaccard similarity of context token sets.
func contextOverlap(a, b string) float64 {
	ta, tb := common.Tokens(a), common.Tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(ta))
	for _, t := range ta {
		setA[t] = struct{}{}
	}
	union := make(map[string]struct{}, len(ta)+len(tb))
	for t := range setA {
		union[t] = struct{}{}
	}
	shared := 0
	for _, t := range tb {
		if _, ok := union[t]; !ok {
			union[t] = struct{}{}
			continue
		}
		if _, ok := setA[t]; ok {
			delete(setA, t)
			shared++
		}
	}
	return float64(shared) / float64(len(union))
}

// sameDomainFamily reports whether two technology names share a hyphen
// family root, e.g. "crispr" and "crispr-cas9".
func sameDomainFamily(a, b string) bool {
	rootA := strings.SplitN(a, "-", 2)[0]
	rootB := strings.SplitN(b, "-", 2)[0]
	return rootA != "" && rootA == rootB
}

func sharedSurname(a, b string) bool {
	fa, fb := strings.Fields(a), strings.Fields(b)
	if len(fa) == 0 || len(fb) == 0 {
		return false
	}
	return fa[len(fa)-1] == fb[len(fb)-1]
}

// singleTokenSubset reports whether one normalized name is a single token
// contained in the other name's token set.
func singleTokenSubset(a, b string) bool {
	fa, fb := strings.Fields(a), strings.Fields(b)
	single, other := fa, fb
	if len(fb) == 1 {
		single, other = fb, fa
	}
	if len(single) != 1 || len(other) < 2 {
		return false
	}
	for _, t := range other {
		if t == single[0] {
			return true
		}
	}
	return false
}
