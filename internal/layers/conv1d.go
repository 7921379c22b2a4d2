package layers

import (
	"math/rand"

	"github.com/samcharles93/seqnet/internal/initializer"
	"github.com/samcharles93/seqnet/internal/tensor"
)

// Conv1DConfig describes a causal dilated 1-D convolution over time.
type Conv1DConfig struct {
	In, Out     int
	KernelWidth int
	Dilation    int
	Activation  Activation
	KernelInit  string
	BiasInit    string
}

// Conv1D is a causal dilated convolution:
//
//	y[t] = act(b + Σ_j x[t - (K-1-j)·d] · W[j])
//
// with x[t] = 0 for t < 0, so y[t] never depends on inputs after t.
type Conv1D struct {
	cfg    Conv1DConfig
	act    func(float64) float64
	kernel []float64    // [K x In x Out]
	Taps   []tensor.Mat // K views into kernel, each [In x Out]
	Bias   []float64    // [Out]
}

// NewConv1D draws the kernel and bias from the configured initializers.
func NewConv1D(cfg Conv1DConfig, rng *rand.Rand) (*Conv1D, error) {
	if err := positive("conv1d",
		dim{"in", cfg.In},
		dim{"out", cfg.Out},
		dim{"kernel width", cfg.KernelWidth},
		dim{"dilation", cfg.Dilation},
	); err != nil {
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
	kernel, err := draw(rng, cfg.KernelInit, cfg.KernelWidth, cfg.In, cfg.Out)
	if err != nil {
		return nil, err
	}
	bias, err := draw(rng, cfg.BiasInit, cfg.Out)
	if err != nil {
		return nil, err
	}

	c := &Conv1D{cfg: cfg, act: act, kernel: kernel, Bias: bias}
	tap := cfg.In * cfg.Out
	for j := 0; j < cfg.KernelWidth; j++ {
		m, err := tensor.NewMatFromData(cfg.In, cfg.Out, kernel[j*tap:(j+1)*tap])
		if err != nil {
			return nil, err
		}
		c.Taps = append(c.Taps, m)
	}
	return c, nil
}

func (c *Conv1D) Kind() string { return "conv1d" }
func (c *Conv1D) InSize() int  { return c.cfg.In }
func (c *Conv1D) OutSize() int { return c.cfg.Out }

// Config returns the construction parameters.
func (c *Conv1D) Config() Conv1DConfig { return c.cfg }

// Padding is the number of zero timesteps prepended before convolving.
func (c *Conv1D) Padding() int {
	return (c.cfg.KernelWidth - 1) * c.cfg.Dilation
}

func (c *Conv1D) Params() []Param {
	return []Param{
		{Name: "kernel", Shape: []int{c.cfg.KernelWidth, c.cfg.In, c.cfg.Out}, Initializer: c.cfg.KernelInit, Data: c.kernel},
		{Name: "bias", Shape: []int{c.cfg.Out}, Initializer: c.cfg.BiasInit, Data: c.Bias},
	}
}

func (c *Conv1D) Forward(x tensor.Mat) (tensor.Mat, error) {
	if err := checkInput("conv1d", c.cfg.In, x); err != nil {
		return tensor.Mat{}, err
	}
	pad := c.Padding()
	padded := tensor.NewMat(x.R+pad, c.cfg.In)
	for t := 0; t < x.R; t++ {
		copy(padded.Row(pad+t), x.Row(t))
	}

	out := tensor.NewMat(x.R, c.cfg.Out)
	for t := 0; t < x.R; t++ {
		dst := out.Row(t)
		copy(dst, c.Bias)
		for j := range c.Taps {
			tensor.VecMatAcc(dst, padded.Row(t+j*c.cfg.Dilation), &c.Taps[j])
		}
		tensor.Apply(dst, c.act)
	}
	return out, nil
}

func (c *Conv1D) NewState() State {
	span := c.Padding() + 1
	return &convState{
		c:       c,
		history: tensor.NewMat(span, c.cfg.In),
	}
}

// convState keeps the last Padding()+1 input vectors in a ring.
type convState struct {
	c       *Conv1D
	history tensor.Mat
	pos     int
}

func (s *convState) Step(dst, x []float64) {
	c := s.c
	span := s.history.R
	copy(s.history.Row(s.pos), x[:c.cfg.In])

	dst = dst[:c.cfg.Out]
	copy(dst, c.Bias)
	k := c.cfg.KernelWidth
	for j := range c.Taps {
		lag := (k - 1 - j) * c.cfg.Dilation
		idx := (s.pos - lag + span) % span
		tensor.VecMatAcc(dst, s.history.Row(idx), &c.Taps[j])
	}
	tensor.Apply(dst, c.act)
	s.pos = (s.pos + 1) % span
}

func (s *convState) Reset() {
	for i := range s.history.Data {
		s.history.Data[i] = 0
	}
	s.pos = 0
}
