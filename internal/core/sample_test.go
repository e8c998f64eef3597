package core_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"health_service/internal/core"
)

func TestGenerateSampleDataset(t *testing.T) {
	t.Run("it draws the requested number of people per group within bounds", func(t *testing.T) {
		dataset := core.GenerateSampleDataset(1, 200)
		if got := len(dataset.Observations); got != 600 {
			t.Fatalf("len = %d, want 600", got)
		}
		for i, o := range dataset.Observations {
			if o.IMC < 15 || o.IMC > 45 || o.Steps < 1000 || o.Steps > 25000 {
				t.Errorf("observation %d out of bounds: %+v", i, o)
			}
		}
	})

	t.Run("it is reproducible for a seed", func(t *testing.T) {
		if diff := cmp.Diff(core.GenerateSampleDataset(3, 20), core.GenerateSampleDataset(3, 20)); diff != "" {
			t.Errorf("datasets differ:\n%s", diff)
		}
	})

	t.Run("it centers each group on its profile", func(t *testing.T) {
		dataset := core.GenerateSampleDataset(5, 500)
		wantSteps := []float64{3500, 7000, 13000}
		for g, want := range wantSteps {
			var sum float64
			for _, o := range dataset.Observations[g*500 : (g+1)*500] {
				sum += o.Steps
			}
			if mean := sum / 500; mean < want*0.9 || mean > want*1.1 {
				t.Errorf("group %d mean steps = %.0f, want about %.0f", g, mean, want)
			}
		}
	})
}
