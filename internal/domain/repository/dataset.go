package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"health_service/internal/domain/model"
)

type DatasetRepository interface {
	Load(ctx context.Context) (model.Dataset, error)
}

var (
	imcColumns   = []string{"imc", "bmi"}
	stepsColumns = []string{"pasos_diarios", "pasos", "steps", "daily_steps"}
)

// CSVDatasetRepository reads observations from a CSV file with a header row.
type CSVDatasetRepository struct {
	path string
}

func NewCSVDatasetRepository(path string) *CSVDatasetRepository {
	return &CSVDatasetRepository{path: path}
}

func (r *CSVDatasetRepository) Path() string {
	return r.path
}

func (r *CSVDatasetRepository) Load(ctx context.Context) (model.Dataset, error) {
	file, err := os.Open(r.path)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	observations, err := ReadObservations(ctx, file)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("failed to read dataset %s: %w", r.path, err)
	}
	return model.Dataset{Source: r.path, Observations: observations}, nil
}

// ReadObservations parses CSV content. Columns are found by header name; rows with
// missing, non-numeric or out-of-range values are rejected.
func ReadObservations(ctx context.Context, in io.Reader) ([]model.Observation, error) {
	reader := csv.NewReader(in)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("dataset is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	imcIdx, stepsIdx := findColumn(header, imcColumns), findColumn(header, stepsColumns)
	if imcIdx < 0 {
		return nil, fmt.Errorf("missing column, one of %v", imcColumns)
	}
	if stepsIdx < 0 {
		return nil, fmt.Errorf("missing column, one of %v", stepsColumns)
	}

	var observations []model.Observation
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		line, _ := reader.FieldPos(0)

		imc, err := parseCell(record, imcIdx)
		if err != nil {
			return nil, fmt.Errorf("line %d: imc: %w", line, err)
		}
		steps, err := parseCell(record, stepsIdx)
		if err != nil {
			return nil, fmt.Errorf("line %d: pasos: %w", line, err)
		}

		o := model.Observation{IMC: imc, Steps: steps}
		if field, reason := o.Problem(); field != "" {
			return nil, fmt.Errorf("line %d: %s %s", line, field, reason)
		}
		observations = append(observations, o)
	}

	if len(observations) == 0 {
		return nil, fmt.Errorf("dataset has no rows")
	}
	return observations, nil
}

// WriteDataset stores the dataset in the format ReadObservations understands.
func WriteDataset(path string, dataset model.Dataset) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create dataset directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(model.Features); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, o := range dataset.Observations {
		row := []string{
			strconv.FormatFloat(o.IMC, 'f', -1, 64),
			strconv.FormatFloat(o.Steps, 'f', -1, 64),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush dataset: %w", err)
	}
	return file.Close()
}

func findColumn(header []string, names []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}
	return -1
}

func parseCell(record []string, idx int) (float64, error) {
	if idx >= len(record) {
		return 0, fmt.Errorf("value is missing")
	}
	raw := strings.TrimSpace(record[idx])
	if raw == "" {
		return 0, fmt.Errorf("value is missing")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	return v, nil
}
