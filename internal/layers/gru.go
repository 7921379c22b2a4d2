package layers

import (
	"math/rand"

	"github.com/samcharles93/seqnet/internal/initializer"
	"github.com/samcharles93/seqnet/internal/tensor"
)

// GRUConfig describes a gated recurrent layer that returns every step.
type GRUConfig struct {
	In, Units           int
	Activation          Activation // candidate state, usually tanh
	RecurrentActivation Activation // update and reset gates, usually sigmoid
	KernelInit          string
	RecurrentInit       string
	BiasInit            string
}

// GRU is a gated recurrent unit in the reset-after formulation.  Weight
// columns are grouped as [update | reset | candidate], each Units wide:
//
//	z  = σ(x·Wz + bz + h·Uz + rz)
//	r  = σ(x·Wr + br + h·Ur + rr)
//	ĥ  = tanh(x·Wh + bh + r ⊙ (h·Uh + rh))
//	h' = z ⊙ h + (1 − z) ⊙ ĥ
//
// where b are the input biases and r the recurrent biases.
type GRU struct {
	cfg       GRUConfig
	act       func(float64) float64
	recAct    func(float64) float64
	Kernel    tensor.Mat // [In x 3·Units]
	Recurrent tensor.Mat // [Units x 3·Units]
	bias      []float64  // [2 x 3·Units]
	InBias    []float64  // first row of bias
	RecBias   []float64  // second row of bias
}

// NewGRU draws kernel, recurrent kernel and bias from the configured
// initializers.
func NewGRU(cfg GRUConfig, rng *rand.Rand) (*GRU, error) {
	if err := positive("gru", dim{"in", cfg.In}, dim{"units", cfg.Units}); err != nil {
		return nil, err
	}
	if cfg.Activation == "" {
		cfg.Activation = Tanh
	}
	if cfg.RecurrentActivation == "" {
		cfg.RecurrentActivation = Sigmoid
	}
	if cfg.KernelInit == "" {
		cfg.KernelInit = initializer.GlorotUniform
	}
	if cfg.RecurrentInit == "" {
		cfg.RecurrentInit = initializer.Orthogonal
	}
	if cfg.BiasInit == "" {
		cfg.BiasInit = initializer.Zeros
	}
	act, err := cfg.Activation.Func()
	if err != nil {
		return nil, err
	}
	recAct, err := cfg.RecurrentActivation.Func()
	if err != nil {
		return nil, err
	}

	width := 3 * cfg.Units
	kernel, err := draw(rng, cfg.KernelInit, cfg.In, width)
	if err != nil {
		return nil, err
	}
	recurrent, err := draw(rng, cfg.RecurrentInit, cfg.Units, width)
	if err != nil {
		return nil, err
	}
	bias, err := draw(rng, cfg.BiasInit, 2, width)
	if err != nil {
		return nil, err
	}

	k, err := tensor.NewMatFromData(cfg.In, width, kernel)
	if err != nil {
		return nil, err
	}
	r, err := tensor.NewMatFromData(cfg.Units, width, recurrent)
	if err != nil {
		return nil, err
	}
	return &GRU{
		cfg:       cfg,
		act:       act,
		recAct:    recAct,
		Kernel:    k,
		Recurrent: r,
		bias:      bias,
		InBias:    bias[:width],
		RecBias:   bias[width:],
	}, nil
}

func (g *GRU) Kind() string { return "gru" }
func (g *GRU) InSize() int  { return g.cfg.In }
func (g *GRU) OutSize() int { return g.cfg.Units }

// Config returns the construction parameters.
func (g *GRU) Config() GRUConfig { return g.cfg }

func (g *GRU) Params() []Param {
	width := 3 * g.cfg.Units
	return []Param{
		{Name: "kernel", Shape: []int{g.cfg.In, width}, Initializer: g.cfg.KernelInit, Data: g.Kernel.Data},
		{Name: "recurrent_kernel", Shape: []int{g.cfg.Units, width}, Initializer: g.cfg.RecurrentInit, Data: g.Recurrent.Data},
		{Name: "bias", Shape: []int{2, width}, Initializer: g.cfg.BiasInit, Data: g.bias},
	}
}

// Forward runs the recurrence from a zero hidden state in time order and
// returns the hidden state after every step.
func (g *GRU) Forward(x tensor.Mat) (tensor.Mat, error) {
	if err := checkInput("gru", g.cfg.In, x); err != nil {
		return tensor.Mat{}, err
	}
	out := tensor.NewMat(x.R, g.cfg.Units)
	s := g.newState()
	for t := 0; t < x.R; t++ {
		s.Step(out.Row(t), x.Row(t))
	}
	return out, nil
}

func (g *GRU) NewState() State { return g.newState() }

func (g *GRU) newState() *gruState {
	u := g.cfg.Units
	return &gruState{
		g:       g,
		h:       make([]float64, u),
		xProj:   make([]float64, 3*u),
		hProj:   make([]float64, 3*u),
		z:       make([]float64, u),
		cand:    make([]float64, u),
		scratch: make([]float64, u),
	}
}

type gruState struct {
	g       *GRU
	h       []float64
	xProj   []float64
	hProj   []float64
	z       []float64
	cand    []float64
	scratch []float64
}

func (s *gruState) Step(dst, x []float64) {
	g := s.g
	u := g.cfg.Units

	tensor.VecMat(s.xProj, x, &g.Kernel)
	tensor.Add(s.xProj, g.InBias)
	tensor.VecMat(s.hProj, s.h, &g.Recurrent)
	tensor.Add(s.hProj, g.RecBias)

	// scratch holds the reset gate until Lerp reuses it.
	for i := 0; i < u; i++ {
		s.z[i] = g.recAct(s.xProj[i] + s.hProj[i])
		s.scratch[i] = g.recAct(s.xProj[u+i] + s.hProj[u+i])
	}
	tensor.Mul(s.cand, s.scratch, s.hProj[2*u:])
	for i := 0; i < u; i++ {
		s.cand[i] = g.act(s.xProj[2*u+i] + s.cand[i])
	}
	tensor.Lerp(s.h, s.z, s.h, s.cand, s.scratch)
	copy(dst[:u], s.h)
}

func (s *gruState) Reset() {
	for i := range s.h {
		s.h[i] = 0
	}
}
