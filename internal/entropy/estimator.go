// Package entropy estimates the binary entropy of an observer model at a
// given λ by repeated Bernoulli sampling.
//
// A Sampler owns its pseudo-random stream. The stream is seeded once, when
// the Sampler is built, and every Estimate call advances it:
//
//	s, err := entropy.NewSampler(observer.Sigmoid, 100, 123)
//	for _, lam := range grid {
//	    pt := s.Estimate(lam)
//	    ...
//	}
//
// Sweep does exactly this over a whole grid.
package entropy

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/nvandessel/obsim/internal/constants"
	"github.com/nvandessel/obsim/internal/observer"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidSteps is returned when the sample count is not positive.
var ErrInvalidSteps = errors.New("steps must be positive")

// pcgStream is the fixed PCG stream selector; the caller's seed picks the state.
const pcgStream = 0x9e3779b97f4a7c15

// Point is the outcome of estimating entropy at one λ.
type Point struct {
	Lambda      float64 `json:"lambda"`
	Probability float64 `json:"probability"`
	Steps       int     `json:"steps"`
	Successes   int     `json:"successes"`
	PHat        float64 `json:"p_hat"`
	Entropy     float64 `json:"entropy"`
}

// NewSource returns the deterministic random source used for a seed.
func NewSource(seed int64) rand.Source {
	return rand.NewPCG(uint64(seed), pcgStream)
}

// Sampler draws Bernoulli samples for a law from a single owned stream.
// A Sampler is not safe for concurrent use.
type Sampler struct {
	law     observer.Law
	steps   int
	src     rand.Source
	samples []float64
}

// NewSampler creates a sampler for law that draws steps samples per λ,
// seeding its stream once with seed.
func NewSampler(law observer.Law, steps int, seed int64) (*Sampler, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSteps, steps)
	}
	if law == nil {
		return nil, errors.New("probability law is nil")
	}
	return &Sampler{
		law:     law,
		steps:   steps,
		src:     NewSource(seed),
		samples: make([]float64, steps),
	}, nil
}

// Estimate draws the sampler's batch at lambda and returns the empirical
// entropy. It advances the sampler's stream by one batch.
func (s *Sampler) Estimate(lambda float64) Point {
	p := s.law(lambda)
	b := distuv.Bernoulli{P: p, Src: s.src}

	successes := 0
	for i := range s.samples {
		s.samples[i] = b.Rand()
		if s.samples[i] == 1 {
			successes++
		}
	}
	pHat := stat.Mean(s.samples, nil)

	return Point{
		Lambda:      lambda,
		Probability: p,
		Steps:       s.steps,
		Successes:   successes,
		PHat:        pHat,
		Entropy:     BinaryEntropy(pHat),
	}
}

// Estimate computes the entropy at a single λ with a stream freshly seeded
// for this call.
func Estimate(lambda float64, steps int, seed int64, law observer.Law) (float64, error) {
	s, err := NewSampler(law, steps, seed)
	if err != nil {
		return 0, err
	}
	return s.Estimate(lambda).Entropy, nil
}

// Sweep estimates entropy at every grid point in order, using one stream
// seeded once before the first point. Because draws are consumed from that
// single stream, a point's value depends on every point before it: changing
// the grid's length or order changes the results downstream.
func Sweep(grid []float64, law observer.Law, steps int, seed int64) ([]Point, error) {
	s, err := NewSampler(law, steps, seed)
	if err != nil {
		return nil, err
	}
	points := make([]Point, len(grid))
	for i, lam := range grid {
		points[i] = s.Estimate(lam)
	}
	return points, nil
}

// Entropies returns the entropy column of points.
func Entropies(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, pt := range points {
		out[i] = pt.Entropy
	}
	return out
}

// BinaryEntropy is the Shannon entropy in nats of a two-outcome
// distribution with success probability pHat, with EntropyEpsilon inside
// both logarithms.
func BinaryEntropy(pHat float64) float64 {
	eps := constants.EntropyEpsilon
	return -pHat*math.Log(pHat+eps) - (1-pHat)*math.Log(1-pHat+eps)
}
