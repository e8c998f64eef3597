package core_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/mat"

	"health_service/internal/core"
)

func TestSilhouette(t *testing.T) {
	t.Run("it averages the coefficient of every point", func(t *testing.T) {
		x := mat.NewDense(4, 1, []float64{0, 1, 10, 11})
		got, err := core.Silhouette(x, []int{0, 0, 1, 1})
		if err != nil {
			t.Fatal(err)
		}
		want := (9.5/10.5 + 8.5/9.5) / 2
		if diff := cmp.Diff(want, got, approx()); diff != "" {
			t.Errorf("silhouette mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("it scores singleton clusters as zero", func(t *testing.T) {
		x := mat.NewDense(3, 1, []float64{0, 1, 100})
		got, err := core.Silhouette(x, []int{0, 0, 1})
		if err != nil {
			t.Fatal(err)
		}
		want := (99.0/100 + 98.0/99) / 3
		if diff := cmp.Diff(want, got, approx()); diff != "" {
			t.Errorf("silhouette mismatch (-want +got):\n%s", diff)
		}
	})

	for name, labels := range map[string][]int{
		"it rejects a single cluster":          {0, 0, 0, 0},
		"it rejects one cluster per point":     {0, 1, 2, 3},
		"it rejects labels of the wrong count": {0, 1},
	} {
		t.Run(name, func(t *testing.T) {
			x := mat.NewDense(4, 1, []float64{0, 1, 10, 11})
			if _, err := core.Silhouette(x, labels); err == nil {
				t.Error("expected error")
			}
		})
	}
}
