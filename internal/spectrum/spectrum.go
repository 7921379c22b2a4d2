// Package spectrum summarises the frequency content of a sequence.
package spectrum

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// ErrEmptyInput is returned for an empty sequence.
var ErrEmptyInput = errors.New("spectrum: empty input")

const minFFTSize = 8

// Spectrum is the one-sided magnitude spectrum of a zero-padded sequence.
type Spectrum struct {
	FFTSize       int       `json:"fft_size"`
	Magnitudes    []float64 `json:"magnitudes"`
	PeakBin       int       `json:"peak_bin"`
	PeakFrequency float64   `json:"peak_frequency"` // cycles per sample
	PeakMagnitude float64   `json:"peak_magnitude"`
}

// Analyze zero-pads samples to the next power of two and returns the
// magnitude of bins 0..N/2, scaled so a full-scale sine on a bin centre
// reads as its amplitude.
func Analyze(samples []float64) (Spectrum, error) {
	if len(samples) == 0 {
		return Spectrum{}, ErrEmptyInput
	}
	size := nextPowerOf2(len(samples))
	if size < minFFTSize {
		size = minFFTSize
	}
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return Spectrum{}, fmt.Errorf("spectrum: create FFT plan: %w", err)
	}

	buf := make([]complex128, size)
	for i, v := range samples {
		buf[i] = complex(v, 0)
	}
	if err := plan.Forward(buf, buf); err != nil {
		return Spectrum{}, fmt.Errorf("spectrum: forward FFT: %w", err)
	}

	bins := size/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	scale := 2 / float64(len(samples))
	for k := 0; k < bins; k++ {
		re[k] = real(buf[k]) * scale
		im[k] = imag(buf[k]) * scale
	}
	mags := make([]float64, bins)
	vecmath.Magnitude(mags, re, im)

	s := Spectrum{FFTSize: size, Magnitudes: mags}
	for k, m := range mags {
		if m > s.PeakMagnitude {
			s.PeakBin = k
			s.PeakMagnitude = m
		}
	}
	s.PeakFrequency = float64(s.PeakBin) / float64(size)
	return s, nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
