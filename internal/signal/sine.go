// Package signal generates the deterministic test signals fed to the network.
package signal

import (
	"fmt"
	"math"
)

// Defaults for the demo signal: 10·sin(i·π·0.1).
const (
	DefaultSamples   = 100
	DefaultAmplitude = 10.0
	DefaultStep      = 0.1
)

// SineConfig describes sample[i] = Amplitude·sin(i·π·Step).
type SineConfig struct {
	Amplitude float64
	Step      float64
}

// Option configures a sine.
type Option func(*SineConfig)

// WithAmplitude sets the peak value.
func WithAmplitude(a float64) Option {
	return func(c *SineConfig) {
		c.Amplitude = a
	}
}

// WithStep sets the phase advance per sample in units of π.
func WithStep(step float64) Option {
	return func(c *SineConfig) {
		c.Step = step
	}
}

// Sine generates n samples.
func Sine(n int, opts ...Option) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", n)
	}
	cfg := SineConfig{Amplitude: DefaultAmplitude, Step: DefaultStep}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	out := make([]float64, n)
	w := math.Pi * cfg.Step
	for i := range out {
		out[i] = cfg.Amplitude * math.Sin(float64(i)*w)
	}
	return out, nil
}
