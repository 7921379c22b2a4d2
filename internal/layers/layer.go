// Package layers implements the stage kinds of a sequence network: dense
// projections, causal dilated 1-D convolutions and gated recurrent units.
//
// Every layer works on sequences stored as tensor.Mat values with one row per
// timestep and one column per channel.  Layers are immutable once built; the
// per-sample State returned by NewState carries whatever history a layer
// needs to process one timestep at a time.
package layers

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/samcharles93/seqnet/internal/initializer"
	"github.com/samcharles93/seqnet/internal/tensor"
)

var (
	// ErrShape reports a sequence whose channel count does not match the layer.
	ErrShape = errors.New("layers: shape mismatch")
	// ErrConfig reports invalid layer hyper-parameters.
	ErrConfig = errors.New("layers: invalid config")
)

// Activation names an elementwise nonlinearity.
type Activation string

const (
	Tanh    Activation = "tanh"
	Sigmoid Activation = "sigmoid"
	Linear  Activation = "linear"
)

// Func resolves the activation to its implementation.  The empty name is
// treated as Linear.
func (a Activation) Func() (func(float64) float64, error) {
	switch a {
	case Tanh:
		return tensor.Tanh, nil
	case Sigmoid:
		return tensor.Sigmoid, nil
	case Linear, "":
		return tensor.Identity, nil
	default:
		return nil, fmt.Errorf("%w: unknown activation %q", ErrConfig, string(a))
	}
}

// Param is a named view of a learnable tensor.  Data aliases the layer's
// storage.
type Param struct {
	Name        string
	Shape       []int
	Initializer string
	Data        []float64
}

// State advances a layer one timestep at a time.
type State interface {
	// Step consumes the input vector for one timestep and writes the
	// layer's output for that step into dst.
	Step(dst, x []float64)
	Reset()
}

// Layer is one stage of a sequence network.
type Layer interface {
	Kind() string
	InSize() int
	OutSize() int
	Params() []Param
	// Forward maps a (T, InSize) sequence to a (T, OutSize) sequence.
	Forward(x tensor.Mat) (tensor.Mat, error)
	NewState() State
}

// ParamCount sums the element count of every parameter in l.
func ParamCount(l Layer) int {
	var n int
	for _, p := range l.Params() {
		n += len(p.Data)
	}
	return n
}

func checkInput(kind string, want int, x tensor.Mat) error {
	if x.C != want {
		return fmt.Errorf("%w: %s expects %d channels, got %d", ErrShape, kind, want, x.C)
	}
	return nil
}

func draw(rng *rand.Rand, name string, shape ...int) ([]float64, error) {
	init, err := initializer.Lookup(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	return init.Init(rng, shape...)
}

// dim is a named size checked by positive.
type dim struct {
	name string
	v    int
}

// positive reports the first non-positive dimension, in argument order.
func positive(kind string, dims ...dim) error {
	for _, d := range dims {
		if d.v <= 0 {
			return fmt.Errorf("%w: %s %s must be > 0, got %d", ErrConfig, kind, d.name, d.v)
		}
	}
	return nil
}
