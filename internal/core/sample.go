package core

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"health_service/internal/domain/model"
)

type sampleGroup struct {
	imc, imcSigma     float64
	steps, stepsSigma float64
}

// sedentary, moderately active and highly active profiles
var sampleGroups = []sampleGroup{
	{imc: 30, imcSigma: 3, steps: 3500, stepsSigma: 1000},
	{imc: 25, imcSigma: 2, steps: 7000, stepsSigma: 1500},
	{imc: 21, imcSigma: 2, steps: 13000, stepsSigma: 2000},
}

// GenerateSampleDataset draws perGroup observations for each typical activity
// profile. IMC is clipped to [15, 45] and steps to [1000, 25000].
func GenerateSampleDataset(seed uint64, perGroup int) model.Dataset {
	src := rand.NewPCG(seed, seed)
	observations := make([]model.Observation, 0, perGroup*len(sampleGroups))
	for _, g := range sampleGroups {
		imc := distuv.Normal{Mu: g.imc, Sigma: g.imcSigma, Src: src}
		steps := distuv.Normal{Mu: g.steps, Sigma: g.stepsSigma, Src: src}
		for i := 0; i < perGroup; i++ {
			observations = append(observations, model.Observation{
				IMC:   clamp(imc.Rand(), 15, 45),
				Steps: clamp(steps.Rand(), 1000, 25000),
			})
		}
	}
	return model.Dataset{Source: "sample", Observations: observations}
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
