package observer

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidGrid is returned for grids that are empty, non-finite or not
// strictly increasing.
var ErrInvalidGrid = errors.New("invalid λ grid")

// Linspace returns n evenly spaced values over [start, stop], both ends
// included. A single point grid is just start.
func Linspace(start, stop float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: need at least one point, got %d", ErrInvalidGrid, n)
	}
	if n == 1 {
		return []float64{start}, nil
	}
	if !(stop > start) {
		return nil, fmt.Errorf("%w: stop %g must be greater than start %g", ErrInvalidGrid, stop, start)
	}
	return floats.Span(make([]float64, n), start, stop), nil
}

// ValidateGrid checks that grid is non-empty, finite and strictly increasing.
func ValidateGrid(grid []float64) error {
	if len(grid) == 0 {
		return fmt.Errorf("%w: grid is empty", ErrInvalidGrid)
	}
	for i, v := range grid {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value at index %d", ErrInvalidGrid, i)
		}
		if i > 0 && v <= grid[i-1] {
			return fmt.Errorf("%w: not increasing at index %d (%g after %g)", ErrInvalidGrid, i, v, grid[i-1])
		}
	}
	return nil
}
