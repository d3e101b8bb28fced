package automation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/san-kum/tiltsim/internal/config"
	"github.com/san-kum/tiltsim/internal/sim"
	"gonum.org/v1/gonum/stat"
)

// Sweepable parameters.
const (
	ParamDamping = "damping"
	ParamTiltX   = "tilt_x"
	ParamTiltY   = "tilt_y"
)

// ParameterSweep runs simulations across a range of parameter values
type ParameterSweep struct {
	Param    string
	Min, Max float64
	NumSteps int
}

// SweepResult holds the metrics of one sweep point.
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
}

func setParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case ParamDamping:
		cfg.Damping = float32(v)
	case ParamTiltX:
		cfg.Source.TiltX = v
	case ParamTiltY:
		cfg.Source.TiltY = v
	default:
		return fmt.Errorf("unknown sweep parameter: %s", name)
	}
	return nil
}

// RunSweep runs base once per evenly spaced value of the swept parameter.
func RunSweep(ctx context.Context, sweep ParameterSweep, base *config.Config, logger *slog.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	if logger == nil {
		logger = slog.Default()
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.Min + float64(i)*paramStep

		cfg := *base
		if err := setParam(&cfg, sweep.Param, paramVal); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.Param, paramVal, err)
		}

		result, err := Execute(ctx, &cfg, logger)
		if err != nil {
			return nil, err
		}
		results = append(results, SweepResult{ParamValue: paramVal, Metrics: result.Metrics})
		logger.Debug("sweep point", "step", i+1, "of", sweep.NumSteps, sweep.Param, paramVal)
	}

	return results, nil
}

// Ensemble runs the same configuration with consecutive seeds. Every run
// owns its host, so runs proceed in parallel.
type Ensemble struct {
	base      *config.Config
	numRuns   int
	seedStart int64
}

func NewEnsemble(base *config.Config, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{base: base, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context) ([]*sim.Result, error) {
	if e.numRuns < 1 {
		return nil, fmt.Errorf("ensemble needs at least one run, got %d", e.numRuns)
	}
	results := make([]*sim.Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := *e.base
			cfgCopy.Seed = e.seedStart + int64(idx)
			results[idx], errs[idx] = Execute(ctx, &cfgCopy, nil)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// Summary is the spread of one metric across an ensemble.
type Summary struct {
	Name   string
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize reports each metric across results, sorted by name.
func Summarize(results []*sim.Result) []Summary {
	values := make(map[string][]float64)
	for _, r := range results {
		for name, v := range r.Metrics {
			values[name] = append(values[name], v)
		}
	}

	out := make([]Summary, 0, len(values))
	for name, vs := range values {
		mean, std := stat.MeanStdDev(vs, nil)
		if len(vs) < 2 {
			std = 0
		}
		lo, hi := vs[0], vs[0]
		for _, v := range vs {
			lo = min(lo, v)
			hi = max(hi, v)
		}
		out = append(out, Summary{Name: name, Mean: mean, StdDev: std, Min: lo, Max: hi})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
