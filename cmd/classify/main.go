package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"health_service/internal/domain/model"
	"health_service/internal/infrastructure/healthclient"
)

func main() {
	baseURL := flag.String("url", "http://localhost:5000", "classifier server URL")
	imc := flag.Float64("imc", 0, "body mass index")
	pasos := flag.Float64("pasos", 0, "daily steps")
	status := flag.Bool("status", false, "only print the server status")
	flag.Parse()

	client := healthclient.NewHTTPClient(*baseURL)
	ctx := context.Background()

	if *status {
		s, err := client.Status(ctx)
		if err != nil {
			log.Fatalf("Error getting status: %v", err)
		}
		fmt.Printf("model_loaded=%t clusters=%d\n", s.ModelLoaded, s.Clusters)
		return
	}

	prediction, err := client.Classify(ctx, model.Observation{IMC: *imc, Steps: *pasos})
	if err != nil {
		log.Fatalf("Error getting prediction: %v", err)
	}
	fmt.Printf("%s %s (grupo %d)\n%s\n", prediction.Icon, prediction.Name, prediction.Cluster, prediction.Description)
}
