package relation

import (
	"sort"
	"strings"

	"github.com/relgraph/relgraph/pkg/common"
	"github.com/relgraph/relgraph/pkg/config"
	"github.com/relgraph/relgraph/pkg/logger"
)

// MergeRelationships collapses same-pair duplicates into one relationship
// per unordered entity pair. The representative is the highest-confidence
// member with the ID as tie-breaker, so the result does not depend on
// input order.
func MergeRelationships(cfg *config.Config, rels []common.Relationship) []common.Relationship {
	groups := make(map[string][]common.Relationship)
	for _, rel := range rels {
		key := rel.PairKey()
		groups[key] = append(groups[key], rel)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	merged := make([]common.Relationship, 0, len(keys))
	for _, key := range keys {
		members := groups[key]
		sort.Slice(members, func(i, j int) bool {
			if members[i].Confidence != members[j].Confidence {
				return members[i].Confidence > members[j].Confidence
			}
			return members[i].ID < members[j].ID
		})

		rep := members[0]
		rep.Confidence = common.Clamp(rep.Confidence + cfg.MergeBonus*float64(len(members)-1))

		var evidence, contexts []string
		for _, m := range members {
			for _, doc := range m.EvidenceDocs {
				evidence = appendUniqueString(evidence, doc)
			}
			if m.Context != "" {
				contexts = appendUniqueString(contexts, m.Context)
			}
		}
		sort.Strings(evidence)
		sort.Strings(contexts)
		if len(contexts) > cfg.MaxMergedContexts {
			contexts = contexts[:cfg.MaxMergedContexts]
		}

		rep.EvidenceDocs = evidence
		rep.Context = strings.Join(contexts, " | ")
		merged = append(merged, rep)
	}

	logger.Info("[Merge] Relationship merge completed",
		"input", len(rels),
		"merged", len(merged))
	return merged
}
