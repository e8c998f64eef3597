package core

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/sampleuv"

	"health_service/internal/domain/model"
)

type KMeansConfig struct {
	K             int
	Restarts      int
	MaxIterations int
	// Tolerance is relative to the mean per-feature variance of the data.
	Tolerance float64
	Seed      uint64
}

func DefaultKMeansConfig() KMeansConfig {
	return KMeansConfig{
		K:             3,
		Restarts:      10,
		MaxIterations: 300,
		Tolerance:     1e-4,
		Seed:          0,
	}
}

func (c KMeansConfig) validate(samples int) error {
	if c.K < 1 {
		return fmt.Errorf("cluster count must be positive, got %d", c.K)
	}
	if c.K > samples {
		return fmt.Errorf("cluster count %d exceeds sample count %d", c.K, samples)
	}
	if c.Restarts < 1 {
		return fmt.Errorf("restarts must be positive, got %d", c.Restarts)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("max iterations must be positive, got %d", c.MaxIterations)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("tolerance must not be negative, got %g", c.Tolerance)
	}
	return nil
}

// KMeans is a fitted nearest-centroid model. It is immutable once built.
type KMeans struct {
	centroids  [][]float64
	inertia    float64
	iterations int
	restarts   int
	seed       uint64
}

type kmeansRun struct {
	centroids  [][]float64
	labels     []int
	inertia    float64
	iterations int
}

// FitKMeans clusters the rows of x. Every restart seeds its centroids with k-means++
// and the run with the lowest inertia wins. The returned labels are the assignment of
// each row to its nearest final centroid.
func FitKMeans(x mat.Matrix, cfg KMeansConfig) (*KMeans, []int, error) {
	n, _ := x.Dims()
	if err := cfg.validate(n); err != nil {
		return nil, nil, err
	}

	points := make([][]float64, n)
	for i := range points {
		points[i] = mat.Row(nil, i, x)
	}

	src := rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)
	tol := cfg.Tolerance * meanVariance(x)

	var best *kmeansRun
	for r := 0; r < cfg.Restarts; r++ {
		run := lloyd(points, seedCentroids(points, cfg.K, src), cfg.MaxIterations, tol)
		if best == nil || run.inertia < best.inertia {
			best = run
		}
	}

	return &KMeans{
		centroids:  best.centroids,
		inertia:    best.inertia,
		iterations: best.iterations,
		restarts:   cfg.Restarts,
		seed:       cfg.Seed,
	}, best.labels, nil
}

// NewKMeans rebuilds a model from its persisted state.
func NewKMeans(state model.ClusterModelState) (*KMeans, error) {
	if len(state.Centroids) == 0 {
		return nil, ErrModelNotFitted
	}
	dim := len(state.Centroids[0])
	centroids := make([][]float64, len(state.Centroids))
	for i, c := range state.Centroids {
		if len(c) != dim || dim == 0 {
			return nil, fmt.Errorf("centroid %d has %d features, expected %d", i, len(c), dim)
		}
		centroids[i] = append([]float64(nil), c...)
	}
	return &KMeans{
		centroids:  centroids,
		inertia:    state.Inertia,
		iterations: state.Iterations,
		restarts:   state.Restarts,
		seed:       state.Seed,
	}, nil
}

func (m *KMeans) State() model.ClusterModelState {
	return model.ClusterModelState{
		Centroids:  m.Centroids(),
		Inertia:    m.inertia,
		Iterations: m.iterations,
		Restarts:   m.restarts,
		Seed:       m.seed,
		Features:   append([]string(nil), model.Features...),
	}
}

// K returns the number of clusters.
func (m *KMeans) K() int {
	if m == nil {
		return 0
	}
	return len(m.centroids)
}

func (m *KMeans) Inertia() float64 { return m.inertia }

// Centroids returns a copy of the centroids in standardized units.
func (m *KMeans) Centroids() [][]float64 {
	out := make([][]float64, len(m.centroids))
	for i, c := range m.centroids {
		out[i] = append([]float64(nil), c...)
	}
	return out
}

// Predict returns the id of the centroid nearest to v. Ties go to the lowest id.
func (m *KMeans) Predict(v []float64) (int, error) {
	if m == nil || len(m.centroids) == 0 {
		return 0, ErrModelNotFitted
	}
	if len(v) != len(m.centroids[0]) {
		return 0, fmt.Errorf("model expects %d features, got %d", len(m.centroids[0]), len(v))
	}
	id, _ := nearest(v, m.centroids)
	return id, nil
}

func seedCentroids(points [][]float64, k int, src rand.Source) [][]float64 {
	rnd := rand.New(src)

	first := points[rnd.IntN(len(points))]
	centroids := [][]float64{append([]float64(nil), first...)}

	d2 := make([]float64, len(points))
	for i, p := range points {
		d2[i] = sqDist(p, first)
	}

	for len(centroids) < k {
		idx, ok := sampleuv.NewWeighted(d2, src).Take()
		if !ok {
			// every point coincides with a chosen centroid
			idx = rnd.IntN(len(points))
		}
		c := append([]float64(nil), points[idx]...)
		centroids = append(centroids, c)
		for i, p := range points {
			if d := sqDist(p, c); d < d2[i] {
				d2[i] = d
			}
		}
	}
	return centroids
}

func lloyd(points [][]float64, centroids [][]float64, maxIter int, tol float64) *kmeansRun {
	k := len(centroids)
	dim := len(points[0])
	labels := make([]int, len(points))

	iter := 0
	for iter < maxIter {
		iter++
		for i, p := range points {
			labels[i], _ = nearest(p, centroids)
		}

		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		counts := make([]int, k)
		for i, p := range points {
			floats.Add(sums[labels[i]], p)
			counts[labels[i]]++
		}

		taken := map[int]bool{}
		next := make([][]float64, k)
		for c := range next {
			if counts[c] == 0 {
				idx := farthest(points, labels, centroids, taken)
				taken[idx] = true
				next[c] = append([]float64(nil), points[idx]...)
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			next[c] = sums[c]
		}

		var shift float64
		for c := range next {
			shift += sqDist(centroids[c], next[c])
		}
		centroids = next
		if shift <= tol {
			break
		}
	}

	var inertia float64
	for i, p := range points {
		var d float64
		labels[i], d = nearest(p, centroids)
		inertia += d
	}

	return &kmeansRun{
		centroids:  centroids,
		labels:     labels,
		inertia:    inertia,
		iterations: iter,
	}
}

// nearest returns the index of the closest centroid and its squared distance.
func nearest(p []float64, centroids [][]float64) (int, float64) {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := sqDist(p, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist
}

func farthest(points [][]float64, labels []int, centroids [][]float64, taken map[int]bool) int {
	idx, far := 0, -1.0
	for i, p := range points {
		if taken[i] {
			continue
		}
		if d := sqDist(p, centroids[labels[i]]); d > far {
			idx, far = i, d
		}
	}
	return idx
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

func meanVariance(x mat.Matrix) float64 {
	n, cols := x.Dims()
	col := make([]float64, n)
	var total float64
	for j := 0; j < cols; j++ {
		mat.Col(col, j, x)
		_, v := stat.PopMeanVariance(col, nil)
		total += v
	}
	return total / float64(cols)
}
