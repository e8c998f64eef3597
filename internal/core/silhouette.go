package core

import (
	"fmt"

	"github.com/mpraski/clusters"
	"gonum.org/v1/gonum/mat"
)

// Silhouette returns the mean silhouette coefficient of the labelling.
// Points alone in their cluster score 0.
func Silhouette(x mat.Matrix, labels []int) (float64, error) {
	n, _ := x.Dims()
	if n != len(labels) {
		return 0, fmt.Errorf("silhouette: %d rows but %d labels", n, len(labels))
	}

	sizes := map[int]int{}
	for _, l := range labels {
		sizes[l]++
	}
	if len(sizes) < 2 || len(sizes) > n-1 {
		return 0, fmt.Errorf("silhouette needs 2 to %d distinct labels, got %d", n-1, len(sizes))
	}

	points := make([][]float64, n)
	for i := range points {
		points[i] = mat.Row(nil, i, x)
	}

	var total float64
	sums := map[int]float64{}
	for i, p := range points {
		if sizes[labels[i]] == 1 {
			continue
		}
		clear(sums)
		for j, q := range points {
			if i == j {
				continue
			}
			sums[labels[j]] += clusters.EuclideanDistance(p, q)
		}

		a := sums[labels[i]] / float64(sizes[labels[i]]-1)
		b := -1.0
		for l, s := range sums {
			if l == labels[i] {
				continue
			}
			if mean := s / float64(sizes[l]); b < 0 || mean < b {
				b = mean
			}
		}
		if m := max(a, b); m > 0 {
			total += (b - a) / m
		}
	}
	return total / float64(n), nil
}
