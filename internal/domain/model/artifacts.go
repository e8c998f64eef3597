package model

// Feature column names, in the order vectors are built.
var Features = []string{"imc", "pasos_diarios"}

// ScalerState is the persisted form of a fitted standard scaler.
type ScalerState struct {
	Mean    []float64
	Scale   []float64
	Samples int
}

// ClusterModelState is the persisted form of a fitted k-means model.
// Centroids live in standardized feature space.
type ClusterModelState struct {
	Centroids  [][]float64
	Inertia    float64
	Iterations int
	Restarts   int
	Seed       uint64
	Features   []string
}
