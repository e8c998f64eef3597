package core_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/mat"

	"health_service/internal/core"
	"health_service/internal/domain/model"
)

func TestFitStandardScaler(t *testing.T) {
	t.Run("it computes population mean and standard deviation per column", func(t *testing.T) {
		x := mat.NewDense(4, 2, []float64{
			20, 1000,
			22, 3000,
			24, 5000,
			26, 7000,
		})
		scaler, err := core.FitStandardScaler(x)
		if err != nil {
			t.Fatal(err)
		}

		state := scaler.State()
		want := model.ScalerState{
			Mean:    []float64{23, 4000},
			Scale:   []float64{2.23606797749979, 2236.06797749979},
			Samples: 4,
		}
		if diff := cmp.Diff(want, state, approx()); diff != "" {
			t.Errorf("state mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("it keeps a unit scale for a constant column", func(t *testing.T) {
		x := mat.NewDense(2, 2, []float64{1, 10, 3, 10})
		scaler, err := core.FitStandardScaler(x)
		if err != nil {
			t.Fatal(err)
		}
		got, err := scaler.Transform([]float64{3, 10})
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]float64{1, 0}, got, approx()); diff != "" {
			t.Errorf("transform mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("it refuses an empty matrix", func(t *testing.T) {
		if _, err := core.FitStandardScaler(&mat.Dense{}); err == nil {
			t.Error("expected error")
		}
	})
}

func TestStandardScaler(t *testing.T) {
	scaler, err := core.NewStandardScaler(model.ScalerState{Mean: []float64{25, 8000}, Scale: []float64{4, 3000}, Samples: 10})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("it transforms and inverts a vector", func(t *testing.T) {
		scaled, err := scaler.Transform([]float64{29, 2000})
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]float64{1, -2}, scaled, approx()); diff != "" {
			t.Errorf("transform mismatch (-want +got):\n%s", diff)
		}
		orig, err := scaler.InverseTransform(scaled)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]float64{29, 2000}, orig, approx()); diff != "" {
			t.Errorf("inverse mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("it transforms every row of a matrix", func(t *testing.T) {
		scaled, err := scaler.TransformMatrix(mat.NewDense(2, 2, []float64{25, 8000, 21, 11000}))
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]float64{0, 0, -1, 1}, scaled.RawMatrix().Data, approx()); diff != "" {
			t.Errorf("matrix mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("it rejects a vector of the wrong width", func(t *testing.T) {
		if _, err := scaler.Transform([]float64{1}); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("it reports an unfitted scaler", func(t *testing.T) {
		var unfitted *core.StandardScaler
		if _, err := unfitted.Transform([]float64{1, 2}); !errors.Is(err, core.ErrScalerNotFitted) {
			t.Errorf("expected ErrScalerNotFitted, got %v", err)
		}
	})
}

func TestNewStandardScaler(t *testing.T) {
	for name, state := range map[string]model.ScalerState{
		"it rejects an empty state":            {},
		"it rejects mismatched mean and scale": {Mean: []float64{1, 2}, Scale: []float64{1}},
		"it rejects a zero scale":              {Mean: []float64{1, 2}, Scale: []float64{1, 0}},
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := core.NewStandardScaler(state); err == nil {
				t.Error("expected error")
			}
		})
	}
}
