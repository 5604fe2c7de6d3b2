package cluster

import (
	"fmt"
	"sort"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/relgraph/relgraph/pkg/common"
	"github.com/relgraph/relgraph/pkg/config"
	"github.com/relgraph/relgraph/pkg/logger"
)

// Clusterer partitions entity references into coreference clusters.
// Clustering is a batch computation: the same reference set always
// produces the same cluster membership.
type Clusterer struct {
	cfg *config.Config
}

// ResolutionStats summarizes one coreference pass.
type ResolutionStats struct {
	TotalReferences       int     `json:"total_references"`
	ClusterCount          int     `json:"cluster_count"`
	CrossDocumentClusters int     `json:"cross_document_clusters"`
	AverageClusterSize    float64 `json:"average_cluster_size"`
	AverageConfidence     float64 `json:"average_confidence"`
}

// CoreferenceResult is the output of cross-document coreference resolution.
// AmbiguousEntities lists canonical names that collide after normalization
// and are handed to the disambiguator.
type CoreferenceResult struct {
	Clusters          []common.EntityCluster `json:"entity_clusters"`
	Stats             ResolutionStats        `json:"resolution_statistics"`
	AmbiguousEntities []string               `json:"ambiguous_entities"`
}

// NewClusterer creates a Clusterer with the given configuration.
func NewClusterer(cfg *config.Config) *Clusterer {
	return &Clusterer{cfg: cfg}
}

// Cluster partitions the full cross-document reference set by entity type,
// then greedily grows clusters: an unassigned reference seeds a cluster and
// absorbs every other unassigned reference whose pairwise similarity with
// the seed exceeds the configured threshold.
func (c *Clusterer) Cluster(refs []common.EntityReference) (*CoreferenceResult, error) {
	ordered := make([]common.EntityReference, len(refs))
	copy(ordered, refs)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].DocumentID != ordered[j].DocumentID {
			return ordered[i].DocumentID < ordered[j].DocumentID
		}
		if ordered[i].Position != ordered[j].Position {
			return ordered[i].Position < ordered[j].Position
		}
		return ordered[i].Name < ordered[j].Name
	})

	byType := make(map[common.EntityType][]common.EntityReference)
	for _, r := range ordered {
		byType[r.Type] = append(byType[r.Type], r)
	}

	types := make([]common.EntityType, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	var clusters []common.EntityCluster
	for _, t := range types {
		group := byType[t]
		assigned := make([]bool, len(group))

		for i := range group {
			if assigned[i] {
				continue
			}
			members := []common.EntityReference{group[i]}
			assigned[i] = true

			for j := i + 1; j < len(group); j++ {
				if assigned[j] {
					continue
				}
				if pairSimilarity(c.cfg, group[i], group[j]) > c.cfg.SimilarityThreshold {
					members = append(members, group[j])
					assigned[j] = true
				}
			}

			built, err := c.BuildCluster(members, t)
			if err != nil {
				return nil, err
			}
			clusters = append(clusters, built)
		}
	}

	result := &CoreferenceResult{
		Clusters:          clusters,
		Stats:             computeStats(clusters, len(refs)),
		AmbiguousEntities: c.ambiguousNames(clusters),
	}

	logger.Debug("[Cluster] Coreference resolution completed",
		"references", len(refs),
		"clusters", len(clusters),
		"ambiguous", len(result.AmbiguousEntities))

	return result, nil
}

// BuildCluster assembles a cluster from its members: the canonical name is
// the member maximizing len(name) + 10*confidence, and cluster confidence
// is the mean member confidence plus a size bonus scaled by the ratio of
// distinct source documents to members.
func (c *Clusterer) BuildCluster(members []common.EntityReference, t common.EntityType) (common.EntityCluster, error) {
	if len(members) == 0 {
		return common.EntityCluster{}, fmt.Errorf("cannot build a cluster with no members")
	}

	id, err := gonanoid.New()
	if err != nil {
		return common.EntityCluster{}, fmt.Errorf("failed to generate cluster ID: %w", err)
	}

	canonical := members[0]
	bestScore := float64(len(canonical.Name)) + 10*canonical.Confidence
	confSum := 0.0
	for _, m := range members {
		confSum += m.Confidence
		score := float64(len(m.Name)) + 10*m.Confidence
		if score > bestScore {
			canonical = m
			bestScore = score
		}
	}

	cluster := common.EntityCluster{
		ID:                       id,
		CanonicalName:            canonical.Name,
		Members:                  members,
		Type:                     t,
		DisambiguationConfidence: 1.0,
	}

	diversity := float64(len(cluster.DocumentIDs())) / float64(len(members))
	sizeBonus := 0.05 * float64(len(members))
	if sizeBonus > c.cfg.MaxClusterSizeBonus {
		sizeBonus = c.cfg.MaxClusterSizeBonus
	}
	cluster.Confidence = common.Clamp(confSum/float64(len(members)) + sizeBonus*diversity)

	return cluster, nil
}

func (c *Clusterer) ambiguousNames(clusters []common.EntityCluster) []string {
	byName := make(map[string]int)
	display := make(map[string]string)
	for _, cl := range clusters {
		key := common.NormalizeName(cl.CanonicalName, c.cfg.Rules.Honorifics)
		byName[key]++
		display[key] = cl.CanonicalName
	}

	var ambiguous []string
	for key, count := range byName {
		if count > 1 {
			ambiguous = append(ambiguous, display[key])
		}
	}
	sort.Strings(ambiguous)
	return ambiguous
}

func computeStats(clusters []common.EntityCluster, total int) ResolutionStats {
	stats := ResolutionStats{
		TotalReferences: total,
		ClusterCount:    len(clusters),
	}
	if len(clusters) == 0 {
		return stats
	}

	memberSum := 0
	confSum := 0.0
	for _, cl := range clusters {
		memberSum += len(cl.Members)
		confSum += cl.Confidence
		if len(cl.DocumentIDs()) > 1 {
			stats.CrossDocumentClusters++
		}
	}
	stats.AverageClusterSize = float64(memberSum) / float64(len(clusters))
	stats.AverageConfidence = confSum / float64(len(clusters))
	return stats
}
