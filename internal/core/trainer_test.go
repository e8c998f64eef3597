package core_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"health_service/internal/core"
	"health_service/internal/domain/model"
	"health_service/internal/domain/repository"
)

func TestTrainer(t *testing.T) {
	ctx := context.Background()

	t.Run("it trains, saves and exports a model the service can load", func(t *testing.T) {
		dir := t.TempDir()
		datasetPath := filepath.Join(dir, "dataset.csv")
		if err := repository.WriteDataset(datasetPath, core.GenerateSampleDataset(9, 100)); err != nil {
			t.Fatal(err)
		}
		models := repository.NewFileModelRepository(filepath.Join(dir, "model", "scaler.gob"), filepath.Join(dir, "model", "kmeans.gob"))
		visualizer := &fakeVisualizer{}

		trainer := core.NewTrainer(repository.NewCSVDatasetRepository(datasetPath), models, visualizer, core.DefaultKMeansConfig())
		result, err := trainer.Train(ctx)
		if err != nil {
			t.Fatal(err)
		}

		if len(visualizer.reports) != 1 {
			t.Fatalf("exports = %d, want 1", len(visualizer.reports))
		}
		report := visualizer.reports[0]
		if len(report.Observations) != 300 || len(report.Assignments) != 300 || len(report.Summaries) != 3 {
			t.Errorf("unexpected report sizes: %d / %d / %d", len(report.Observations), len(report.Assignments), len(report.Summaries))
		}
		total := 0
		for _, s := range report.Summaries {
			total += s.Count
		}
		if total != 300 {
			t.Errorf("summary counts add up to %d", total)
		}

		service := core.LoadClassificationService(ctx, models, nil, false)
		classified, err := service.Classify(ctx, model.Observation{IMC: 30, Steps: 3000})
		if err != nil {
			t.Fatal(err)
		}
		if classified.Description.Name != "Estilo de Vida Sedentario" {
			t.Errorf("unexpected class: %s", classified.Description.Name)
		}
		if classified.Description != result.Report.Summaries[classified.ClusterID].Description {
			t.Error("service and report disagree on the cluster description")
		}

		for i, o := range report.Observations {
			got, err := service.Classify(ctx, o)
			if err != nil {
				t.Fatal(err)
			}
			if got.ClusterID != result.Assignments[i] {
				t.Errorf("row %d: reloaded model says %d, training said %d", i, got.ClusterID, result.Assignments[i])
			}
		}
	})

	t.Run("it writes nothing when the dataset is missing", func(t *testing.T) {
		dir := t.TempDir()
		scalerPath, kmeansPath := filepath.Join(dir, "scaler.gob"), filepath.Join(dir, "kmeans.gob")
		visualizer := &fakeVisualizer{}

		trainer := core.NewTrainer(
			repository.NewCSVDatasetRepository(filepath.Join(dir, "missing.csv")),
			repository.NewFileModelRepository(scalerPath, kmeansPath),
			visualizer,
			core.DefaultKMeansConfig(),
		)
		_, err := trainer.Train(ctx)
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected a not-exist error, got %v", err)
		}
		for _, p := range []string{scalerPath, kmeansPath} {
			if _, err := os.Stat(p); !os.IsNotExist(err) {
				t.Errorf("%s should not exist", p)
			}
		}
		if len(visualizer.reports) != 0 {
			t.Error("visualization should not be exported")
		}
	})
}

func TestFit(t *testing.T) {
	t.Run("it is deterministic for a fixed seed", func(t *testing.T) {
		dataset := core.GenerateSampleDataset(4, 80)
		first, err := core.Fit(dataset, core.DefaultKMeansConfig())
		if err != nil {
			t.Fatal(err)
		}
		second, err := core.Fit(dataset, core.DefaultKMeansConfig())
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(first.Model.State(), second.Model.State()); diff != "" {
			t.Errorf("models differ:\n%s", diff)
		}
		if diff := cmp.Diff(first.Report, second.Report); diff != "" {
			t.Errorf("reports differ:\n%s", diff)
		}
	})

	t.Run("it reports centroids in original units", func(t *testing.T) {
		result, err := core.Fit(core.GenerateSampleDataset(4, 200), core.DefaultKMeansConfig())
		if err != nil {
			t.Fatal(err)
		}
		for _, s := range result.Report.Summaries {
			if s.CentroidIMC < 15 || s.CentroidIMC > 45 || s.CentroidSteps < 1000 || s.CentroidSteps > 25000 {
				t.Errorf("centroid of cluster %d not in original units: %.1f / %.0f", s.ClusterID, s.CentroidIMC, s.CentroidSteps)
			}
		}
		if result.Report.Silhouette <= 0.3 {
			t.Errorf("silhouette = %.3f, expected well separated groups", result.Report.Silhouette)
		}
	})

	t.Run("it rejects an empty dataset", func(t *testing.T) {
		if _, err := core.Fit(model.Dataset{}, core.DefaultKMeansConfig()); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("it rejects fewer rows than clusters", func(t *testing.T) {
		dataset := model.Dataset{Observations: []model.Observation{{IMC: 20, Steps: 1000}, {IMC: 30, Steps: 9000}}}
		if _, err := core.Fit(dataset, core.DefaultKMeansConfig()); err == nil {
			t.Error("expected error")
		}
	})
}
