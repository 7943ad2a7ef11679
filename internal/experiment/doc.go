// Package experiment runs the full observer comparison: both model sweeps
// over one λ grid, the collapse probability curve, their figures, and the
// run record.
//
// Each sweep owns its random stream, seeded once before the first λ, so the
// decoherence and original sweeps are independent of each other while each
// remains order-dependent internally.
//
// Usage:
//
//	opts, err := experiment.OptionsFromConfig(cfg)
//	opts.Renderer = plotting.NewRenderer(cfg.Output.ResultsDir, cfg.Output.DPI)
//	opts.Logger = logger
//	result, err := experiment.Run(ctx, opts)
package experiment
