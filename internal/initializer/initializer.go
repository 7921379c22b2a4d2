// Package initializer provides named strategies for drawing initial layer
// parameters from an injected random source.
package initializer

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
)

// Built-in initializer names.
const (
	RandomNormal  = "random_normal"
	GlorotUniform = "glorot_uniform"
	Orthogonal    = "orthogonal"
	Zeros         = "zeros"
)

var (
	ErrInitializerExists   = errors.New("initializer already registered")
	ErrInitializerNotFound = errors.New("initializer not found")
	ErrShape               = errors.New("initializer: unsupported shape")
)

// Initializer draws a flat, row-major tensor of the given shape.
type Initializer interface {
	Name() string
	Init(rng *rand.Rand, shape ...int) ([]float64, error)
}

var registry = struct {
	mu sync.RWMutex
	m  map[string]Initializer
}{
	m: make(map[string]Initializer),
}

func init() {
	MustRegister(Normal{Mean: 0, Stddev: 0.05})
	MustRegister(Glorot{})
	MustRegister(Ortho{Gain: 1})
	MustRegister(Zero{})
}

// Register adds init under its Name.
func Register(init Initializer) error {
	name := init.Name()
	if name == "" {
		return errors.New("initializer name is required")
	}
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, exists := registry.m[name]; exists {
		return fmt.Errorf("%w: %s", ErrInitializerExists, name)
	}
	registry.m[name] = init
	return nil
}

// MustRegister is Register that panics on error.
func MustRegister(init Initializer) {
	if err := Register(init); err != nil {
		panic(err)
	}
}

// Lookup returns the initializer registered under name.
func Lookup(name string) (Initializer, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	init, ok := registry.m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInitializerNotFound, name)
	}
	return init, nil
}

// Names lists registered initializers in sorted order.
func Names() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	names := make([]string, 0, len(registry.m))
	for name := range registry.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Normal draws from N(Mean, Stddev²).
type Normal struct {
	Mean   float64
	Stddev float64
}

func (Normal) Name() string { return RandomNormal }

func (n Normal) Init(rng *rand.Rand, shape ...int) ([]float64, error) {
	size, err := numElements(shape)
	if err != nil {
		return nil, err
	}
	out := make([]float64, size)
	for i := range out {
		out[i] = n.Mean + n.Stddev*rng.NormFloat64()
	}
	return out, nil
}

// Glorot draws from U(-l, l) with l = sqrt(6 / (fanIn + fanOut)).
type Glorot struct{}

func (Glorot) Name() string { return GlorotUniform }

func (Glorot) Init(rng *rand.Rand, shape ...int) ([]float64, error) {
	size, err := numElements(shape)
	if err != nil {
		return nil, err
	}
	fanIn, fanOut := fans(shape)
	limit := math.Sqrt(6.0 / float64(fanIn+fanOut))
	out := make([]float64, size)
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * limit
	}
	return out, nil
}

// Zero fills with zeros.
type Zero struct{}

func (Zero) Name() string { return Zeros }

func (Zero) Init(_ *rand.Rand, shape ...int) ([]float64, error) {
	size, err := numElements(shape)
	if err != nil {
		return nil, err
	}
	return make([]float64, size), nil
}

// fans follows the usual convention: the last axis is fan-out, the one
// before it fan-in, and any leading axes form the receptive field.
func fans(shape []int) (fanIn, fanOut int) {
	switch len(shape) {
	case 0:
		return 1, 1
	case 1:
		return shape[0], shape[0]
	case 2:
		return shape[0], shape[1]
	}
	receptive := 1
	for _, d := range shape[:len(shape)-2] {
		receptive *= d
	}
	return shape[len(shape)-2] * receptive, shape[len(shape)-1] * receptive
}

func numElements(shape []int) (int, error) {
	if len(shape) == 0 {
		return 0, fmt.Errorf("%w: empty shape", ErrShape)
	}
	n := 1
	for _, d := range shape {
		if d <= 0 {
			return 0, fmt.Errorf("%w: invalid dim %d", ErrShape, d)
		}
		n *= d
	}
	return n, nil
}
