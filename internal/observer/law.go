// Package observer defines the probability laws of the two observer models,
// the closed-form collapse probability, and the λ grid they are evaluated on.
package observer

import (
	"fmt"
	"math"

	"github.com/nvandessel/obsim/internal/constants"
)

// Law maps λ (scale of distinguishability) to a Bernoulli success
// probability in [0, 1]. Laws are pure.
type Law func(lambda float64) float64

// Sigmoid is the original observer law, 1/(1+e^-λ).
func Sigmoid(lambda float64) float64 {
	return 1.0 / (1.0 + math.Exp(-lambda))
}

// Decoherence is the decoherence observer law, 0.5 + 0.5·tanh(λ-1).
func Decoherence(lambda float64) float64 {
	return CollapseProbability(lambda)
}

// CollapseProbability is the phenomenological collapse probability
// 0.5 + 0.5·tanh(λ-1). It is total and draws no randomness.
func CollapseProbability(lambda float64) float64 {
	return constants.TanhOffset + constants.TanhScale*math.Tanh(lambda-constants.TanhCenter)
}

// CollapseProbabilities evaluates CollapseProbability at every grid point.
func CollapseProbabilities(grid []float64) []float64 {
	out := make([]float64, len(grid))
	for i, lam := range grid {
		out[i] = CollapseProbability(lam)
	}
	return out
}

// Model pairs a law with the seed its sweep uses by default.
type Model struct {
	Name        string
	Law         Law
	DefaultSeed int64
}

// DecoherenceModel is the tanh-based observer seeded with 42 by default.
var DecoherenceModel = Model{
	Name:        constants.ModelDecoherence,
	Law:         Decoherence,
	DefaultSeed: constants.DefaultSeedDecoherence,
}

// OriginalModel is the sigmoid observer seeded with 123 by default.
var OriginalModel = Model{
	Name:        constants.ModelOriginal,
	Law:         Sigmoid,
	DefaultSeed: constants.DefaultSeedOriginal,
}

// Models lists every known model in a stable order.
func Models() []Model {
	return []Model{DecoherenceModel, OriginalModel}
}

// ModelByName looks up a model by its name.
func ModelByName(name string) (Model, error) {
	for _, m := range Models() {
		if m.Name == name {
			return m, nil
		}
	}
	return Model{}, fmt.Errorf("unknown model: %s (valid: %s, %s)",
		name, constants.ModelDecoherence, constants.ModelOriginal)
}
