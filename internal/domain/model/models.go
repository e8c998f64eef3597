package model

import (
	"math"
	"time"
)

// Observation is one person's health profile: body mass index and daily step count.
type Observation struct {
	IMC   float64 `json:"imc"`
	Steps float64 `json:"pasos"`
}

// Vector returns the observation as a feature vector in training column order.
func (o Observation) Vector() []float64 {
	return []float64{o.IMC, o.Steps}
}

// Problem reports which field is outside the accepted domain and why.
// An empty field means the observation is valid: IMC finite and positive,
// steps finite and not negative.
func (o Observation) Problem() (field string, reason string) {
	switch {
	case math.IsNaN(o.IMC) || math.IsInf(o.IMC, 0):
		return "imc", "must be a finite number"
	case o.IMC <= 0:
		return "imc", "must be positive"
	case math.IsNaN(o.Steps) || math.IsInf(o.Steps, 0):
		return "pasos", "must be a finite number"
	case o.Steps < 0:
		return "pasos", "must not be negative"
	}
	return "", ""
}

type Dataset struct {
	Source       string
	Observations []Observation
}

// Flat returns the observations as row-major data for an n×2 matrix.
func (d Dataset) Flat() []float64 {
	rows := make([]float64, 0, 2*len(d.Observations))
	for _, o := range d.Observations {
		rows = append(rows, o.IMC, o.Steps)
	}
	return rows
}

// Classification is the result of assigning one observation to a cluster.
type Classification struct {
	ID          string
	ClusterID   int
	Description ClusterDescription
	Input       Observation
}

// ClassificationRecord is what the recorder persists for every served classification.
type ClassificationRecord struct {
	ID         string    `db:"id"`
	IMC        float64   `db:"imc"`
	Steps      float64   `db:"pasos"`
	ClusterID  int       `db:"cluster_id"`
	Label      string    `db:"label"`
	RecordedAt time.Time `db:"recorded_at"`
}

// ClusterSummary holds per-cluster training statistics in original units.
type ClusterSummary struct {
	ClusterID     int
	Count         int
	MeanIMC       float64
	MeanSteps     float64
	CentroidIMC   float64
	CentroidSteps float64
	Description   ClusterDescription
}

// TrainingReport is everything the trainer knows after a successful fit.
type TrainingReport struct {
	Observations []Observation
	Assignments  []int
	Summaries    []ClusterSummary
	Silhouette   float64
	Inertia      float64
}
