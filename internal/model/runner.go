// Package model assembles a fixed stack of sequence layers and runs forward
// inference over a scalar signal.
package model

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/samcharles93/seqnet/internal/layers"
	"github.com/samcharles93/seqnet/internal/tensor"
)

// Config controls construction.  A nil Stages uses DefaultStages.  When Rand
// is nil a source is created from Seed; a negative Seed seeds from the clock.
// When Rand is set Seed is ignored and the runner reports a seed of 0.
type Config struct {
	Stages []StageSpec
	Seed   int64
	Rand   *rand.Rand
}

// Runner owns an immutable stack of layers.  Run is safe for concurrent use.
type Runner struct {
	specs  []StageSpec
	stages []layers.Layer
	seed   int64
}

// New builds a runner from cfg.
func New(cfg Config) (*Runner, error) {
	specs := cfg.Stages
	if specs == nil {
		specs = DefaultStages()
	}
	seed := cfg.Seed
	rng := cfg.Rand
	switch {
	case rng != nil:
		seed = 0
	case seed < 0:
		seed = time.Now().UnixNano()
		fallthrough
	default:
		rng = rand.New(rand.NewSource(seed))
	}
	r, err := Build(specs, rng)
	if err != nil {
		return nil, err
	}
	r.seed = seed
	return r, nil
}

// Build validates the stage chain and draws every layer's parameters from
// rng in stage order.
func Build(specs []StageSpec, rng *rand.Rand) (*Runner, error) {
	if len(specs) == 0 {
		return nil, &ConstructionError{Stage: -1, Err: errors.New("no stages")}
	}
	if err := validate(specs); err != nil {
		return nil, err
	}
	stages := make([]layers.Layer, 0, len(specs))
	for i, s := range specs {
		l, err := buildStage(s, rng)
		if err != nil {
			return nil, &ConstructionError{Stage: i, Kind: s.Kind, Err: err}
		}
		stages = append(stages, l)
	}
	return &Runner{
		specs:  append([]StageSpec(nil), specs...),
		stages: stages,
	}, nil
}

func validate(specs []StageSpec) error {
	if specs[0].In != InputChannels {
		return constructionErr(0, specs[0].Kind, "input size %d, runner feeds %d channel(s)", specs[0].In, InputChannels)
	}
	for i := 1; i < len(specs); i++ {
		if specs[i].In != specs[i-1].Out {
			return constructionErr(i, specs[i].Kind, "input size %d does not match previous output size %d", specs[i].In, specs[i-1].Out)
		}
	}
	last := len(specs) - 1
	if specs[last].Out != OutputChannels {
		return constructionErr(last, specs[last].Kind, "output size %d, runner emits %d channel(s)", specs[last].Out, OutputChannels)
	}
	return nil
}

func buildStage(s StageSpec, rng *rand.Rand) (layers.Layer, error) {
	switch s.Kind {
	case KindDense:
		return layers.NewDense(layers.DenseConfig{
			In:         s.In,
			Out:        s.Out,
			Activation: s.Activation,
			KernelInit: s.KernelInit,
			BiasInit:   s.BiasInit,
		}, rng)
	case KindConv1D:
		return layers.NewConv1D(layers.Conv1DConfig{
			In:          s.In,
			Out:         s.Out,
			KernelWidth: s.KernelWidth,
			Dilation:    s.Dilation,
			Activation:  s.Activation,
			KernelInit:  s.KernelInit,
			BiasInit:    s.BiasInit,
		}, rng)
	case KindGRU:
		return layers.NewGRU(layers.GRUConfig{
			In:                  s.In,
			Units:               s.Out,
			Activation:          s.Activation,
			RecurrentActivation: s.RecurrentActivation,
			KernelInit:          s.KernelInit,
			RecurrentInit:       s.RecurrentInit,
			BiasInit:            s.BiasInit,
		}, rng)
	default:
		return nil, fmt.Errorf("unknown stage kind %q", s.Kind)
	}
}

// Seed reports the seed used to draw parameters, or 0 when an external
// random source was supplied.
func (r *Runner) Seed() int64 { return r.seed }

// Stages exposes the built layers in order.  Parameter data returned by
// Params aliases the runner's storage.
func (r *Runner) Stages() []layers.Layer { return r.stages }

// Specs returns a copy of the stage declarations.
func (r *Runner) Specs() []StageSpec { return append([]StageSpec(nil), r.specs...) }

// ParamCount is the total number of parameters across all stages.
func (r *Runner) ParamCount() int {
	var n int
	for _, l := range r.stages {
		n += layers.ParamCount(l)
	}
	return n
}

// Run feeds a scalar sequence through every stage and returns one output
// per input sample.
func (r *Runner) Run(ctx context.Context, input []float64) ([]float64, error) {
	if len(input) == 0 {
		return nil, invalidInput("empty sequence")
	}
	out, err := r.RunSequence(ctx, tensor.Column(input))
	if err != nil {
		return nil, err
	}
	return out.Flatten(), nil
}

// RunSequence is Run for a (T, C) sequence.  T must be at least 1 and C must
// equal InputChannels.
func (r *Runner) RunSequence(ctx context.Context, x tensor.Mat) (tensor.Mat, error) {
	if x.R == 0 {
		return tensor.Mat{}, invalidInput("empty sequence")
	}
	if x.C != InputChannels {
		return tensor.Mat{}, invalidInput("expected %d channel(s), got %d", InputChannels, x.C)
	}
	cur := x
	for i, l := range r.stages {
		if err := ctx.Err(); err != nil {
			return tensor.Mat{}, err
		}
		next, err := l.Forward(cur)
		if err != nil {
			return tensor.Mat{}, fmt.Errorf("stage %d (%s): %w", i, l.Kind(), err)
		}
		cur = next
	}
	return cur, nil
}

// StageInfo summarises one stage for display.
type StageInfo struct {
	Index  int       `json:"index"`
	Spec   StageSpec `json:"spec"`
	Params int       `json:"params"`
}

// Summary describes every stage in order.
func (r *Runner) Summary() []StageInfo {
	out := make([]StageInfo, len(r.stages))
	for i, l := range r.stages {
		out[i] = StageInfo{Index: i, Spec: r.specs[i], Params: layers.ParamCount(l)}
	}
	return out
}
