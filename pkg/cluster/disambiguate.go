package cluster

import (
	"regexp"
	"sort"
	"strings"

	"github.com/relgraph/relgraph/pkg/common"
	"github.com/relgraph/relgraph/pkg/config"
	"github.com/relgraph/relgraph/pkg/logger"
)

// Disambiguator separates same-name entities into distinct identities using
// contextual features. Clusters whose canonical names collide after
// normalization form a name-group; the group's pooled members are
// re-partitioned by research-area signals and rebuilt as clusters, so the
// total member count of a group is always conserved.
type Disambiguator struct {
	cfg       *config.Config
	clusterer *Clusterer
}

// DisambiguationStats summarizes one disambiguation pass.
type DisambiguationStats struct {
	NameGroups    int `json:"name_groups"`
	SplitGroups   int `json:"split_groups"`
	TotalClusters int `json:"total_clusters"`
}

// DisambiguationResult is the output of the disambiguation pass.
// ConfidenceScores is keyed by cluster ID.
type DisambiguationResult struct {
	Clusters         []common.EntityCluster `json:"disambiguated_entities"`
	Stats            DisambiguationStats    `json:"disambiguation_statistics"`
	ConfidenceScores map[string]float64     `json:"confidence_scores"`
}

type identityFeatures struct {
	areas         map[string]struct{}
	institutions  map[string]struct{}
	collaborators map[string]struct{}
	years         map[string]struct{}
}

var (
	yearRe       = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
	titledNameRe = regexp.MustCompile(`\b(?:Dr|Prof|Professor|Mr|Mrs|Ms)\.?\s+[A-Z][A-Za-z'-]+(?:\s+[A-Z][A-Za-z'-]+)*`)
)

// NewDisambiguator creates a Disambiguator sharing the clusterer's scoring.
func NewDisambiguator(cfg *config.Config) *Disambiguator {
	return &Disambiguator{cfg: cfg, clusterer: NewClusterer(cfg)}
}

// Disambiguate examines every name-group among the clusters. Groups with a
// single cluster and a single contextual identity pass through unchanged at
// confidence 1.0; everything else is rebuilt from the group's pooled
// members, one cluster per identity.
func (d *Disambiguator) Disambiguate(clusters []common.EntityCluster) (*DisambiguationResult, error) {
	groups := make(map[string][]common.EntityCluster)
	var order []string
	for _, cl := range clusters {
		key := string(cl.Type) + "|" + common.NormalizeName(cl.CanonicalName, d.cfg.Rules.Honorifics)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], cl)
	}
	sort.Strings(order)

	result := &DisambiguationResult{
		ConfidenceScores: make(map[string]float64),
	}

	for _, key := range order {
		group := groups[key]
		result.Stats.NameGroups++

		partitions := d.partitionMembers(group)
		if len(partitions) <= 1 && len(group) == 1 {
			cl := group[0]
			cl.DisambiguationConfidence = 1.0
			result.Clusters = append(result.Clusters, cl)
			result.ConfidenceScores[cl.ID] = 1.0
			continue
		}

		rebuilt, err := d.rebuildGroup(group[0].Type, partitions)
		if err != nil {
			return nil, err
		}
		if len(rebuilt) > 1 {
			result.Stats.SplitGroups++
		}
		for _, cl := range rebuilt {
			result.Clusters = append(result.Clusters, cl)
			result.ConfidenceScores[cl.ID] = cl.DisambiguationConfidence
		}
	}

	result.Stats.TotalClusters = len(result.Clusters)

	logger.Debug("[Disambiguate] Pass completed",
		"name_groups", result.Stats.NameGroups,
		"split_groups", result.Stats.SplitGroups,
		"clusters", result.Stats.TotalClusters)

	return result, nil
}

// partitionMembers pools the group's members and partitions them by
// research-area signal. Members without an area signal join the partition
// whose contexts overlap theirs most, falling back to the largest one.
func (d *Disambiguator) partitionMembers(group []common.EntityCluster) [][]common.EntityReference {
	var members []common.EntityReference
	for _, cl := range group {
		members = append(members, cl.Members...)
	}

	byArea := make(map[string][]common.EntityReference)
	var unassigned []common.EntityReference
	var areaOrder []string
	for _, m := range members {
		areas := d.memberAreas(m.Context)
		if len(areas) == 0 {
			unassigned = append(unassigned, m)
			continue
		}
		key := strings.Join(areas, ",")
		if _, ok := byArea[key]; !ok {
			areaOrder = append(areaOrder, key)
		}
		byArea[key] = append(byArea[key], m)
	}
	sort.Strings(areaOrder)

	if len(byArea) == 0 {
		return [][]common.EntityReference{members}
	}

	for _, m := range unassigned {
		bestKey := ""
		bestOverlap := -1.0
		for _, key := range areaOrder {
			overlap := 0.0
			for _, other := range byArea[key] {
				if o := contextOverlap(m.Context, other.Context); o > overlap {
					overlap = o
				}
			}
			if overlap > bestOverlap || (overlap == bestOverlap && len(byArea[key]) > len(byArea[bestKey])) {
				bestKey = key
				bestOverlap = overlap
			}
		}
		byArea[bestKey] = append(byArea[bestKey], m)
	}

	partitions := make([][]common.EntityReference, 0, len(areaOrder))
	for _, key := range areaOrder {
		partitions = append(partitions, byArea[key])
	}
	return partitions
}

func (d *Disambiguator) rebuildGroup(t common.EntityType, partitions [][]common.EntityReference) ([]common.EntityCluster, error) {
	features := make([]identityFeatures, len(partitions))
	clusters := make([]common.EntityCluster, 0, len(partitions))

	for i, members := range partitions {
		features[i] = d.extractFeatures(members)
		cl, err := d.clusterer.BuildCluster(members, t)
		if err != nil {
			return nil, err
		}
		clusters = append(clusters, cl)
	}

	for i := range clusters {
		conf := 0.5
		f := features[i]
		if len(f.areas) > 0 {
			conf += 0.2
		}
		if len(f.institutions) > 0 {
			conf += 0.15
		}
		if len(f.collaborators) > 0 {
			conf += 0.1
		}
		if len(f.years) > 0 {
			conf += 0.05
		}

		for j := range clusters {
			if j == i {
				continue
			}
			if featureOverlap(features[i], features[j]) > 0.5 {
				conf -= 0.3
				break
			}
		}

		clusters[i].DisambiguationConfidence = common.ClampRange(conf, 0.1, 1.0)
	}

	return clusters, nil
}

func (d *Disambiguator) memberAreas(context string) []string {
	lower := strings.ToLower(context)
	var areas []string
	for area, keywords := range d.cfg.Rules.ResearchAreas {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				areas = append(areas, area)
				break
			}
		}
	}
	sort.Strings(areas)
	return areas
}

func (d *Disambiguator) extractFeatures(members []common.EntityReference) identityFeatures {
	f := identityFeatures{
		areas:         make(map[string]struct{}),
		institutions:  make(map[string]struct{}),
		collaborators: make(map[string]struct{}),
		years:         make(map[string]struct{}),
	}

	for _, m := range members {
		for _, area := range d.memberAreas(m.Context) {
			f.areas[area] = struct{}{}
		}
		for _, suffix := range d.cfg.Rules.OrganizationSuffixes {
			if idx := strings.Index(m.Context, suffix); idx >= 0 {
				f.institutions[strings.ToLower(suffix)] = struct{}{}
			}
		}
		for _, year := range yearRe.FindAllString(m.Context, -1) {
			f.years[year] = struct{}{}
		}
		for _, name := range titledNameRe.FindAllString(m.Context, -1) {
			if common.NormalizeName(name, d.cfg.Rules.Honorifics) ==
				common.NormalizeName(m.Name, d.cfg.Rules.Honorifics) {
				continue
			}
			f.collaborators[common.NormalizeName(name, d.cfg.Rules.Honorifics)] = struct{}{}
		}
	}
	return f
}

func featureOverlap(a, b identityFeatures) float64 {
	setA := flattenFeatures(a)
	setB := flattenFeatures(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	shared := 0
	union := len(setB)
	for item := range setA {
		if _, ok := setB[item]; ok {
			shared++
			continue
		}
		union++
	}
	return float64(shared) / float64(union)
}

func flattenFeatures(f identityFeatures) map[string]struct{} {
	out := make(map[string]struct{})
	for v := range f.areas {
		out["area:"+v] = struct{}{}
	}
	for v := range f.institutions {
		out["inst:"+v] = struct{}{}
	}
	for v := range f.collaborators {
		out["collab:"+v] = struct{}{}
	}
	for v := range f.years {
		out["year:"+v] = struct{}{}
	}
	return out
}
