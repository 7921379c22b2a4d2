// Package effect runs the network as a per-sample audio effect: input gain,
// the streaming network, a DC-blocking high-pass and a fixed output gain.
package effect

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
	"github.com/cwbudde/algo-vecmath"

	"github.com/samcharles93/seqnet/internal/model"
)

var (
	// ErrChannelLayout reports a layout other than mono or stereo.
	ErrChannelLayout = errors.New("effect: only mono and stereo are supported")
	// ErrNotPrepared is returned by Process before Prepare.
	ErrNotPrepared = errors.New("effect: processor not prepared")
)

// dcBlockerQ gives a second-order Butterworth response.
const dcBlockerQ = 1 / math.Sqrt2

// Config holds the chain's fixed settings.
type Config struct {
	// GainDB is the user input gain; GainOffsetDB is always added to it.
	GainDB       float64
	GainOffsetDB float64
	DCCutoffHz   float64
	OutputGain   float64
}

// DefaultConfig is the stock chain: unity user gain, +25 dB offset, 35 Hz DC
// blocker and x5 output gain.
func DefaultConfig() Config {
	return Config{
		GainDB:       0,
		GainOffsetDB: 25,
		DCCutoffHz:   35,
		OutputGain:   5,
	}
}

// Processor owns one network stream and one DC blocker per channel.
type Processor struct {
	runner *model.Runner
	cfg    Config

	sampleRate float64
	inGain     float64
	streams    []*model.Stream
	blockers   []*biquad.Section
}

// New returns an unprepared processor.
func New(runner *model.Runner, cfg Config) *Processor {
	p := &Processor{runner: runner, cfg: cfg}
	p.SetGainDB(cfg.GainDB)
	return p
}

// SetGainDB changes the user input gain.
func (p *Processor) SetGainDB(db float64) {
	p.cfg.GainDB = db
	p.inGain = core.DBToLinear(db + p.cfg.GainOffsetDB)
}

// InputGain is the linear gain applied before the network.
func (p *Processor) InputGain() float64 { return p.inGain }

// DCBlocker returns the high-pass coefficients for sampleRate.  A cutoff
// outside (0, sampleRate/2) yields a pass-through section.
func DCBlocker(cutoffHz, sampleRate float64) biquad.Coefficients {
	c := design.Highpass(cutoffHz, dcBlockerQ, sampleRate)
	if c == (biquad.Coefficients{}) {
		return biquad.Coefficients{B0: 1}
	}
	return c
}

// Prepare designs the DC blocker for sampleRate and resets all per-channel
// state for the given channel count.
func (p *Processor) Prepare(sampleRate float64, channels int) error {
	if channels != 1 && channels != 2 {
		return fmt.Errorf("%w: got %d channels", ErrChannelLayout, channels)
	}
	if sampleRate <= 0 {
		return fmt.Errorf("effect: sample rate must be > 0: %f", sampleRate)
	}
	coeffs := DCBlocker(p.cfg.DCCutoffHz, sampleRate)
	p.sampleRate = sampleRate
	p.streams = make([]*model.Stream, channels)
	p.blockers = make([]*biquad.Section, channels)
	for ch := range channels {
		p.streams[ch] = p.runner.NewStream()
		p.blockers[ch] = biquad.NewSection(coeffs)
	}
	return nil
}

// Reset clears network and filter history without redesigning the filter.
func (p *Processor) Reset() {
	for ch := range p.streams {
		p.streams[ch].Reset()
		p.blockers[ch].Reset()
	}
}

// Process runs the chain in place over a block laid out as block[channel][n].
func (p *Processor) Process(block [][]float64) error {
	if p.streams == nil {
		return ErrNotPrepared
	}
	if len(block) != len(p.streams) {
		return fmt.Errorf("%w: prepared for %d channels, got %d", ErrChannelLayout, len(p.streams), len(block))
	}
	for ch, samples := range block {
		vecmath.ScaleBlock(samples, samples, p.inGain)
		p.streams[ch].ProcessBlock(samples)
		p.blockers[ch].ProcessBlock(samples)
		vecmath.ScaleBlock(samples, samples, p.cfg.OutputGain)
	}
	return nil
}
