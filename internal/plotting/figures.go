package plotting

import (
	"fmt"

	"github.com/nvandessel/obsim/internal/constants"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot/vg"
)

const xLabelDistinguishability = "Cognitive distinguishability Λ"

// Entropy plots the entropy curve under decoherence.
func (r *Renderer) Entropy(lambdas, entropies []float64) ([]string, error) {
	return r.SavePlot(lambdas, entropies,
		xLabelDistinguishability,
		"Cognitive entropy S(Λ)",
		"Entropy under decoherence",
		constants.PlotEntropy)
}

// Collapse plots the collapse probability curve.
func (r *Renderer) Collapse(lambdas, probs []float64) ([]string, error) {
	return r.SavePlot(lambdas, probs,
		xLabelDistinguishability,
		"Collapse probability p(|0>)",
		"Phase transition in observer collapse probability",
		constants.PlotCollapse)
}

// DecoherenceEffect plots ΔS = S_new - S_old.
func (r *Renderer) DecoherenceEffect(lambdas, newEntropy, oldEntropy []float64) ([]string, error) {
	if len(newEntropy) != len(oldEntropy) {
		return nil, fmt.Errorf("entropy lengths differ: %d vs %d", len(newEntropy), len(oldEntropy))
	}
	delta := floats.SubTo(make([]float64, len(newEntropy)), newEntropy, oldEntropy)
	return r.SavePlot(lambdas, delta,
		xLabelDistinguishability,
		"ΔS (decoherence effect)",
		"Decoherence effect ΔS = S_new - S_old",
		constants.PlotDecoherence)
}

// EntropyComparison overlays both entropy curves, the old one dashed.
func (r *Renderer) EntropyComparison(lambdas, newEntropy, oldEntropy []float64) ([]string, error) {
	return r.Save(Figure{
		Title:  "Comparison of entropy models",
		XLabel: xLabelDistinguishability,
		YLabel: "Entropy S(Λ)",
		X:      lambdas,
		Legend: true,
		Series: []Series{
			{Label: "New entropy", Y: newEntropy, Color: colorBlue, Width: vg.Points(2)},
			{Label: "Old entropy", Y: oldEntropy, Color: colorOrange, Width: vg.Points(2), Dashes: dashed},
		},
	}, constants.PlotEntropyComparison)
}

// Summary draws the collapse probability and both entropy curves on one
// wide figure.
func (r *Renderer) Summary(lambdas, collapse, newEntropy, oldEntropy []float64) ([]string, error) {
	return r.Save(Figure{
		Title:  "Decoherence Model vs Original Observer Model",
		XLabel: "λ (scale of distinguishability)",
		YLabel: "Entropy / Collapse Probability",
		X:      lambdas,
		Legend: true,
		Width:  SummaryWidth,
		Height: SummaryHeight,
		DPI:    SummaryDPIScale * r.DPI,
		Series: []Series{
			{Label: "Collapse probability", Y: collapse, Color: colorRed, Width: vg.Points(2)},
			{Label: "Observer entropy (decoherence)", Y: newEntropy, Color: colorBlue, Width: vg.Points(1), Dashes: dashed},
			{Label: "Observer entropy (original)", Y: oldEntropy, Color: colorGreen, Width: vg.Points(1), Dashes: dashDot},
		},
	}, constants.PlotSummary)
}
