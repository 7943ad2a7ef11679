package report

import (
	"fmt"
	"io"

	"github.com/nvandessel/obsim/internal/entropy"
	"github.com/nvandessel/obsim/internal/experiment"
)

// RunTable writes one row per λ of res: collapse probability, both
// entropies and their difference.
func RunTable(w io.Writer, res *experiment.Result) error {
	n := len(res.Lambdas)
	if len(res.Decoherence.Points) != n || len(res.Original.Points) != n ||
		len(res.Collapse) != n || len(res.Delta) != n {
		return fmt.Errorf("result columns disagree on length (grid has %d points)", n)
	}

	headers := []string{"λ", "p_collapse", "S_decoherence", "S_original", "ΔS"}
	rows := make([][]string, n)
	for i, lam := range res.Lambdas {
		rows[i] = []string{
			Float(lam),
			Float(res.Collapse[i]),
			Float(res.Decoherence.Points[i].Entropy),
			Float(res.Original.Points[i].Entropy),
			Float(res.Delta[i]),
		}
	}
	return WriteTable(w, headers, rows)
}

// PointTable writes one sweep's estimates.
func PointTable(w io.Writer, points []entropy.Point) error {
	headers := []string{"λ", "p", "successes", "p̂", "S"}
	rows := make([][]string, len(points))
	for i, pt := range points {
		rows[i] = []string{
			Float(pt.Lambda),
			Float(pt.Probability),
			fmt.Sprintf("%d/%d", pt.Successes, pt.Steps),
			Float(pt.PHat),
			Float(pt.Entropy),
		}
	}
	return WriteTable(w, headers, rows)
}
