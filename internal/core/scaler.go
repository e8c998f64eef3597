package core

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"health_service/internal/domain/model"
)

// StandardScaler shifts every feature to zero mean and unit variance.
// It is immutable once built.
type StandardScaler struct {
	mean  []float64
	scale []float64
	n     int
}

// FitStandardScaler computes per-column population mean and standard deviation of x.
// Columns with zero variance keep a scale of 1.
func FitStandardScaler(x mat.Matrix) (*StandardScaler, error) {
	rows, cols := x.Dims()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("cannot fit scaler on empty matrix (%dx%d)", rows, cols)
	}

	s := &StandardScaler{
		mean:  make([]float64, cols),
		scale: make([]float64, cols),
		n:     rows,
	}
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, x)
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 {
			std = 1
		}
		s.mean[j] = mean
		s.scale[j] = std
	}
	return s, nil
}

// NewStandardScaler rebuilds a scaler from its persisted state.
func NewStandardScaler(state model.ScalerState) (*StandardScaler, error) {
	if len(state.Mean) == 0 || len(state.Mean) != len(state.Scale) {
		return nil, fmt.Errorf("%w: mean has %d values, scale has %d", ErrScalerNotFitted, len(state.Mean), len(state.Scale))
	}
	for j, sc := range state.Scale {
		if sc == 0 {
			return nil, fmt.Errorf("scale of feature %d is zero", j)
		}
	}
	return &StandardScaler{
		mean:  append([]float64(nil), state.Mean...),
		scale: append([]float64(nil), state.Scale...),
		n:     state.Samples,
	}, nil
}

// State returns a copy suitable for persisting.
func (s *StandardScaler) State() model.ScalerState {
	return model.ScalerState{
		Mean:    append([]float64(nil), s.mean...),
		Scale:   append([]float64(nil), s.scale...),
		Samples: s.n,
	}
}

func (s *StandardScaler) Features() int {
	if s == nil {
		return 0
	}
	return len(s.mean)
}

func (s *StandardScaler) Transform(v []float64) ([]float64, error) {
	if s == nil || len(s.mean) == 0 {
		return nil, ErrScalerNotFitted
	}
	if len(v) != len(s.mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.mean), len(v))
	}
	out := make([]float64, len(v))
	for j := range v {
		out[j] = (v[j] - s.mean[j]) / s.scale[j]
	}
	return out, nil
}

func (s *StandardScaler) InverseTransform(v []float64) ([]float64, error) {
	if s == nil || len(s.mean) == 0 {
		return nil, ErrScalerNotFitted
	}
	if len(v) != len(s.mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.mean), len(v))
	}
	out := make([]float64, len(v))
	for j := range v {
		out[j] = v[j]*s.scale[j] + s.mean[j]
	}
	return out, nil
}

// TransformMatrix standardizes every row of x.
func (s *StandardScaler) TransformMatrix(x mat.Matrix) (*mat.Dense, error) {
	if s == nil || len(s.mean) == 0 {
		return nil, ErrScalerNotFitted
	}
	rows, cols := x.Dims()
	if cols != len(s.mean) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.mean), cols)
	}
	if rows == 0 {
		return nil, fmt.Errorf("cannot transform empty matrix")
	}
	out := mat.NewDense(rows, cols, nil)
	out.Apply(func(i, j int, v float64) float64 {
		return (v - s.mean[j]) / s.scale[j]
	}, x)
	return out, nil
}
