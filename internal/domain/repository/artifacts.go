package repository

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"health_service/internal/domain/model"
)

var ErrArtifactNotFound = errors.New("model artifact not found")

type ModelRepository interface {
	Save(ctx context.Context, scaler model.ScalerState, clusters model.ClusterModelState) error
	Load(ctx context.Context) (model.ScalerState, model.ClusterModelState, error)
}

// FileModelRepository keeps the scaler and the cluster model in two gob files.
type FileModelRepository struct {
	scalerPath string
	kmeansPath string
}

func NewFileModelRepository(scalerPath string, kmeansPath string) *FileModelRepository {
	return &FileModelRepository{scalerPath: scalerPath, kmeansPath: kmeansPath}
}

// Save writes both artifacts next to their destinations first and renames them
// only when both encoded successfully.
func (r *FileModelRepository) Save(ctx context.Context, scaler model.ScalerState, clusters model.ClusterModelState) error {
	scalerTmp, err := writeGobTemp(r.scalerPath, scaler)
	if err != nil {
		return fmt.Errorf("failed to write scaler: %w", err)
	}
	defer os.Remove(scalerTmp)

	kmeansTmp, err := writeGobTemp(r.kmeansPath, clusters)
	if err != nil {
		return fmt.Errorf("failed to write cluster model: %w", err)
	}
	defer os.Remove(kmeansTmp)

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Rename(scalerTmp, r.scalerPath); err != nil {
		return fmt.Errorf("failed to store scaler: %w", err)
	}
	if err := os.Rename(kmeansTmp, r.kmeansPath); err != nil {
		return fmt.Errorf("failed to store cluster model: %w", err)
	}
	return nil
}

func (r *FileModelRepository) Load(ctx context.Context) (model.ScalerState, model.ClusterModelState, error) {
	var scaler model.ScalerState
	var clusters model.ClusterModelState

	if err := readGob(r.scalerPath, &scaler); err != nil {
		return scaler, clusters, fmt.Errorf("failed to load scaler: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return scaler, clusters, err
	}
	if err := readGob(r.kmeansPath, &clusters); err != nil {
		return scaler, clusters, fmt.Errorf("failed to load cluster model: %w", err)
	}
	return scaler, clusters, nil
}

func writeGobTemp(dest string, v any) (string, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	file, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*")
	if err != nil {
		return "", err
	}
	if err := gob.NewEncoder(file).Encode(v); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", err
	}
	return file.Name(), nil
}

func readGob(path string, v any) error {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
	}
	if err != nil {
		return err
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(v); err != nil {
		return fmt.Errorf("corrupt artifact %s: %w", path, err)
	}
	return nil
}
