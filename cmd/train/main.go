package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"health_service/internal/config"
	"health_service/internal/core"
	"health_service/internal/domain/repository"
	"health_service/internal/infrastructure/visualization"
)

func main() {
	configPath := flag.String("config", "config.yaml", "config file path")
	datasetPath := flag.String("dataset", "", "dataset CSV path (overrides training.dataset_path)")
	sample := flag.Int("sample", 0, "write a synthetic dataset with N people per activity group before training")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("can not read configuration: %s", err)
	}
	if *datasetPath != "" {
		conf.Training.DatasetPath = *datasetPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *sample > 0 {
		dataset := core.GenerateSampleDataset(conf.Training.Seed, *sample)
		if err := repository.WriteDataset(conf.Training.DatasetPath, dataset); err != nil {
			log.Fatalf("Error writing sample dataset: %v", err)
		}
		log.Printf("Sample dataset with %d observations saved to %s", len(dataset.Observations), conf.Training.DatasetPath)
	}

	trainer := core.NewTrainer(
		repository.NewCSVDatasetRepository(conf.Training.DatasetPath),
		repository.NewFileModelRepository(conf.Model.ScalerPath, conf.Model.KMeansPath),
		visualization.NewExporter(conf.Visualization.Path),
		conf.KMeans(),
	)

	result, err := trainer.Train(ctx)
	if err != nil {
		log.Fatalf("Error training model: %v", err)
	}

	log.Printf("Model saved to %s and %s", conf.Model.KMeansPath, conf.Model.ScalerPath)
	log.Printf("Visualization saved to %s", conf.Visualization.Path)

	fmt.Printf("\nEstadísticas por grupo (inercia %.2f, silhouette %.4f)\n", result.Report.Inertia, result.Report.Silhouette)
	for _, s := range result.Report.Summaries {
		fmt.Printf("  Grupo %d %s %s: %d personas, IMC promedio %.1f, pasos promedio %.0f\n",
			s.ClusterID, s.Description.Icon, s.Description.Name, s.Count, s.MeanIMC, s.MeanSteps)
	}
}
