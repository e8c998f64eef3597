package core

import (
	"context"
	"fmt"
	"log"

	"gonum.org/v1/gonum/mat"

	"health_service/internal/domain/model"
	"health_service/internal/domain/repository"
)

// Visualizer publishes a finished training report, e.g. as a static HTML page.
type Visualizer interface {
	Export(ctx context.Context, report model.TrainingReport) error
}

type TrainingResult struct {
	Scaler      *StandardScaler
	Model       *KMeans
	Assignments []int
	Report      model.TrainingReport
}

type Trainer struct {
	dataset    repository.DatasetRepository
	models     repository.ModelRepository
	visualizer Visualizer
	config     KMeansConfig
}

func NewTrainer(
	dataset repository.DatasetRepository,
	models repository.ModelRepository,
	visualizer Visualizer,
	config KMeansConfig,
) *Trainer {
	return &Trainer{
		dataset:    dataset,
		models:     models,
		visualizer: visualizer,
		config:     config,
	}
}

// Train fits scaler and model on the dataset, persists both and exports the
// visualization. Nothing is written unless fitting succeeded.
func (t *Trainer) Train(ctx context.Context) (*TrainingResult, error) {
	dataset, err := t.dataset.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	log.Printf("Loaded %d observations from %s", len(dataset.Observations), dataset.Source)

	result, err := Fit(dataset, t.config)
	if err != nil {
		return nil, err
	}

	if err := t.models.Save(ctx, result.Scaler.State(), result.Model.State()); err != nil {
		return nil, fmt.Errorf("failed to save model: %w", err)
	}

	if t.visualizer != nil {
		if err := t.visualizer.Export(ctx, result.Report); err != nil {
			return nil, fmt.Errorf("failed to export visualization: %w", err)
		}
	}
	return result, nil
}

// Fit standardizes the dataset and clusters it. It has no side effects.
func Fit(dataset model.Dataset, config KMeansConfig) (*TrainingResult, error) {
	n := len(dataset.Observations)
	if n == 0 {
		return nil, fmt.Errorf("dataset has no observations")
	}
	x := mat.NewDense(n, len(model.Features), dataset.Flat())

	scaler, err := FitStandardScaler(x)
	if err != nil {
		return nil, fmt.Errorf("failed to fit scaler: %w", err)
	}
	scaled, err := scaler.TransformMatrix(x)
	if err != nil {
		return nil, fmt.Errorf("failed to scale dataset: %w", err)
	}

	kmeans, assignments, err := FitKMeans(scaled, config)
	if err != nil {
		return nil, fmt.Errorf("failed to fit k-means: %w", err)
	}

	silhouette, err := Silhouette(scaled, assignments)
	if err != nil {
		log.Printf("Warning: silhouette score unavailable: %v", err)
	} else {
		log.Printf("Mean silhouette score for k=%d: %.4f", config.K, silhouette)
	}

	labels := NewActivityLabels(originalCentroids(scaler, kmeans), model.ActivityDescriptions)
	report := model.TrainingReport{
		Observations: dataset.Observations,
		Assignments:  assignments,
		Summaries:    summarize(dataset.Observations, assignments, scaler, kmeans, labels),
		Silhouette:   silhouette,
		Inertia:      kmeans.Inertia(),
	}

	return &TrainingResult{
		Scaler:      scaler,
		Model:       kmeans,
		Assignments: assignments,
		Report:      report,
	}, nil
}

func summarize(
	observations []model.Observation,
	assignments []int,
	scaler *StandardScaler,
	kmeans *KMeans,
	labels ActivityLabels,
) []model.ClusterSummary {
	centroids := originalCentroids(scaler, kmeans)
	summaries := make([]model.ClusterSummary, kmeans.K())
	for id := range summaries {
		summaries[id] = model.ClusterSummary{
			ClusterID:     id,
			CentroidIMC:   centroids[id][0],
			CentroidSteps: centroids[id][1],
			Description:   labels.Describe(id),
		}
	}

	for i, o := range observations {
		s := &summaries[assignments[i]]
		s.Count++
		s.MeanIMC += o.IMC
		s.MeanSteps += o.Steps
	}
	for id := range summaries {
		if c := summaries[id].Count; c > 0 {
			summaries[id].MeanIMC /= float64(c)
			summaries[id].MeanSteps /= float64(c)
		}
	}
	return summaries
}
