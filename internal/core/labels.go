package core

import (
	"sort"

	"health_service/internal/domain/model"
)

// ActivityLabels names clusters after their centroids instead of their ids,
// so the names survive a retrain that reorders the clusters.
type ActivityLabels struct {
	byCluster map[int]model.ClusterDescription
}

// NewActivityLabels ranks centroids (original units, IMC then steps) by daily steps,
// fewest first, breaking ties by higher IMC. Rank r gets table[r].
// When the cluster count and the table size differ, no cluster is named.
func NewActivityLabels(centroids [][]float64, table []model.ClusterDescription) ActivityLabels {
	labels := ActivityLabels{byCluster: map[int]model.ClusterDescription{}}
	if len(centroids) != len(table) {
		return labels
	}

	ids := make([]int, len(centroids))
	for i := range ids {
		ids[i] = i
	}
	sort.SliceStable(ids, func(a, b int) bool {
		ca, cb := centroids[ids[a]], centroids[ids[b]]
		if ca[1] != cb[1] {
			return ca[1] < cb[1]
		}
		return ca[0] > cb[0]
	})

	for rank, id := range ids {
		labels.byCluster[id] = table[rank]
	}
	return labels
}

// Describe returns the description of the cluster, or the generic one when the
// cluster has no name.
func (l ActivityLabels) Describe(clusterID int) model.ClusterDescription {
	if d, ok := l.byCluster[clusterID]; ok {
		return d
	}
	return model.FallbackDescription(clusterID)
}
