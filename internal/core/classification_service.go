package core

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"health_service/internal/domain/model"
	"health_service/internal/domain/repository"
)

// ClassificationService assigns observations to clusters of a loaded model.
// It never changes after construction and may be shared by concurrent requests.
type ClassificationService struct {
	scaler   *StandardScaler
	kmeans   *KMeans
	labels   ActivityLabels
	recorder repository.ClassificationRecorder
	saveData bool
}

type ServiceStatus struct {
	ModelLoaded bool `json:"model_loaded"`
	Clusters    int  `json:"clusters"`
}

// NewClassificationService builds a service around a fitted scaler and model.
// With a nil scaler or model the service is degraded: every Classify call reports
// ErrModelUnavailable.
func NewClassificationService(
	scaler *StandardScaler,
	kmeans *KMeans,
	recorder repository.ClassificationRecorder,
	saveData bool,
) *ClassificationService {
	if recorder == nil {
		recorder = repository.NopRecorder{}
	}
	s := &ClassificationService{
		recorder: recorder,
		saveData: saveData,
	}
	if scaler == nil || kmeans == nil {
		return s
	}

	s.scaler = scaler
	s.kmeans = kmeans
	s.labels = NewActivityLabels(originalCentroids(scaler, kmeans), model.ActivityDescriptions)
	return s
}

// LoadClassificationService loads the artifacts once. Missing or unreadable
// artifacts leave the service degraded instead of failing startup.
func LoadClassificationService(
	ctx context.Context,
	models repository.ModelRepository,
	recorder repository.ClassificationRecorder,
	saveData bool,
) *ClassificationService {
	scalerState, kmeansState, err := models.Load(ctx)
	if err != nil {
		log.Printf("Warning: %v. Classification is disabled until the model is trained.", err)
		return NewClassificationService(nil, nil, recorder, saveData)
	}

	scaler, err := NewStandardScaler(scalerState)
	if err != nil {
		log.Printf("Warning: invalid scaler artifact: %v", err)
		return NewClassificationService(nil, nil, recorder, saveData)
	}
	kmeans, err := NewKMeans(kmeansState)
	if err != nil {
		log.Printf("Warning: invalid cluster model artifact: %v", err)
		return NewClassificationService(nil, nil, recorder, saveData)
	}
	if scaler.Features() != len(kmeansState.Centroids[0]) {
		log.Printf("Warning: scaler has %d features but model centroids have %d", scaler.Features(), len(kmeansState.Centroids[0]))
		return NewClassificationService(nil, nil, recorder, saveData)
	}

	log.Printf("Loaded cluster model with %d clusters (trained on %d samples)", kmeans.K(), scalerState.Samples)
	return NewClassificationService(scaler, kmeans, recorder, saveData)
}

func (s *ClassificationService) Status() ServiceStatus {
	return ServiceStatus{
		ModelLoaded: s.available(),
		Clusters:    s.kmeans.K(),
	}
}

func (s *ClassificationService) available() bool {
	return s.scaler != nil && s.kmeans != nil
}

// ParseObservation reads the raw form values for IMC and daily steps.
func ParseObservation(imcRaw string, stepsRaw string) (model.Observation, error) {
	imc, err := parseNumber("imc", imcRaw)
	if err != nil {
		return model.Observation{}, err
	}
	steps, err := parseNumber("pasos", stepsRaw)
	if err != nil {
		return model.Observation{}, err
	}
	return model.Observation{IMC: imc, Steps: steps}, nil
}

func parseNumber(field string, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &ValidationError{Field: field, Value: raw, Reason: "not a number"}
	}
	return v, nil
}

// Classify assigns obs to the nearest centroid of the loaded model.
func (s *ClassificationService) Classify(ctx context.Context, obs model.Observation) (*model.Classification, error) {
	if field, reason := obs.Problem(); field != "" {
		value := obs.IMC
		if field == "pasos" {
			value = obs.Steps
		}
		return nil, &ValidationError{Field: field, Value: strconv.FormatFloat(value, 'g', -1, 64), Reason: reason}
	}
	if !s.available() {
		return nil, ErrModelUnavailable
	}

	scaled, err := s.scaler.Transform(obs.Vector())
	if err != nil {
		return nil, fmt.Errorf("failed to scale input: %w", err)
	}
	clusterID, err := s.kmeans.Predict(scaled)
	if err != nil {
		return nil, fmt.Errorf("prediction failed: %w", err)
	}

	result := &model.Classification{
		ID:          uuid.NewString(),
		ClusterID:   clusterID,
		Description: s.labels.Describe(clusterID),
		Input:       obs,
	}

	if s.saveData {
		record := model.ClassificationRecord{
			ID:         result.ID,
			IMC:        obs.IMC,
			Steps:      obs.Steps,
			ClusterID:  clusterID,
			Label:      result.Description.Name,
			RecordedAt: time.Now().UTC(),
		}
		if err := s.recorder.SaveClassification(ctx, record); err != nil {
			log.Printf("Warning: failed to record classification %s: %v", result.ID, err)
		}
	}

	return result, nil
}

// Describe returns the description the service shows for a cluster id.
func (s *ClassificationService) Describe(clusterID int) model.ClusterDescription {
	return s.labels.Describe(clusterID)
}

// originalCentroids maps the model centroids back to IMC / steps units.
func originalCentroids(scaler *StandardScaler, kmeans *KMeans) [][]float64 {
	centroids := kmeans.Centroids()
	out := make([][]float64, 0, len(centroids))
	for _, c := range centroids {
		orig, err := scaler.InverseTransform(c)
		if err != nil {
			return nil
		}
		out = append(out, orig)
	}
	return out
}
