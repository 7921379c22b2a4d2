package layers

import (
	"math/rand"

	"github.com/samcharles93/seqnet/internal/initializer"
	"github.com/samcharles93/seqnet/internal/tensor"
)

// DenseConfig describes a per-timestep affine projection.
type DenseConfig struct {
	In, Out    int
	Activation Activation
	KernelInit string
	BiasInit   string
}

// Dense applies act(x·W + b) independently at every timestep.
type Dense struct {
	cfg    DenseConfig
	act    func(float64) float64
	Kernel tensor.Mat // [In x Out]
	Bias   []float64  // [Out]
}

// NewDense draws the kernel and bias from the configured initializers.
func NewDense(cfg DenseConfig, rng *rand.Rand) (*Dense, error) {
	if err := positive("dense", dim{"in", cfg.In}, dim{"out", cfg.Out}); err != nil {
		return nil, err
	}
	if cfg.KernelInit == "" {
		cfg.KernelInit = initializer.GlorotUniform
	}
	if cfg.BiasInit == "" {
		cfg.BiasInit = initializer.Zeros
	}
	act, err := cfg.Activation.Func()
	if err != nil {
		return nil, err
	}
	kernel, err := draw(rng, cfg.KernelInit, cfg.In, cfg.Out)
	if err != nil {
		return nil, err
	}
	bias, err := draw(rng, cfg.BiasInit, cfg.Out)
	if err != nil {
		return nil, err
	}
	k, err := tensor.NewMatFromData(cfg.In, cfg.Out, kernel)
	if err != nil {
		return nil, err
	}
	return &Dense{cfg: cfg, act: act, Kernel: k, Bias: bias}, nil
}

func (d *Dense) Kind() string { return "dense" }
func (d *Dense) InSize() int  { return d.cfg.In }
func (d *Dense) OutSize() int { return d.cfg.Out }

// Config returns the construction parameters.
func (d *Dense) Config() DenseConfig { return d.cfg }

func (d *Dense) Params() []Param {
	return []Param{
		{Name: "kernel", Shape: []int{d.cfg.In, d.cfg.Out}, Initializer: d.cfg.KernelInit, Data: d.Kernel.Data},
		{Name: "bias", Shape: []int{d.cfg.Out}, Initializer: d.cfg.BiasInit, Data: d.Bias},
	}
}

func (d *Dense) Forward(x tensor.Mat) (tensor.Mat, error) {
	if err := checkInput("dense", d.cfg.In, x); err != nil {
		return tensor.Mat{}, err
	}
	out := tensor.NewMat(x.R, d.cfg.Out)
	tensor.MatMul(&out, &x, &d.Kernel)
	for t := 0; t < x.R; t++ {
		row := out.Row(t)
		tensor.Add(row, d.Bias)
		tensor.Apply(row, d.act)
	}
	return out, nil
}

func (d *Dense) step(dst, x []float64) {
	tensor.VecMat(dst, x, &d.Kernel)
	tensor.Add(dst, d.Bias)
	tensor.Apply(dst, d.act)
}

func (d *Dense) NewState() State { return denseState{d} }

// denseState has no history; a dense layer only looks at the current step.
type denseState struct{ d *Dense }

func (s denseState) Step(dst, x []float64) { s.d.step(dst[:s.d.cfg.Out], x) }
func (s denseState) Reset()                {}
