package cluster

import "github.com/relgraph/relgraph/pkg/common"

// PairMetrics reports coreference quality over reference pairs.
type PairMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// EvaluatePairs measures clustering quality against ground-truth coreferent
// pairs, identified by reference IDs. A predicted pair is any two references
// sharing a cluster.
func EvaluatePairs(clusters []common.EntityCluster, truth [][2]string) PairMetrics {
	predicted := make(map[string]struct{})
	for _, cl := range clusters {
		for i := 0; i < len(cl.Members); i++ {
			for j := i + 1; j < len(cl.Members); j++ {
				predicted[pairKey(cl.Members[i].ID, cl.Members[j].ID)] = struct{}{}
			}
		}
	}

	truthSet := make(map[string]struct{}, len(truth))
	for _, p := range truth {
		truthSet[pairKey(p[0], p[1])] = struct{}{}
	}

	tp := 0
	for key := range truthSet {
		if _, ok := predicted[key]; ok {
			tp++
		}
	}

	var m PairMetrics
	if len(predicted) > 0 {
		m.Precision = float64(tp) / float64(len(predicted))
	}
	if len(truthSet) > 0 {
		m.Recall = float64(tp) / float64(len(truthSet))
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

func pairKey(a, b string) string {
	if a <= b {
		return a + "|" + b
	}
	return b + "|" + a
}
