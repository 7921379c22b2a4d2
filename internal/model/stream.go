package model

import "github.com/samcharles93/seqnet/internal/layers"

// Stream runs the network one sample at a time, carrying convolution history
// and recurrent state between calls.  A Stream is not safe for concurrent use;
// create one per channel.
type Stream struct {
	states []layers.State
	bufs   [][]float64
	in     [1]float64
}

// NewStream returns a stream with cleared state sharing the runner's
// parameters.
func (r *Runner) NewStream() *Stream {
	s := &Stream{
		states: make([]layers.State, len(r.stages)),
		bufs:   make([][]float64, len(r.stages)),
	}
	for i, l := range r.stages {
		s.states[i] = l.NewState()
		s.bufs[i] = make([]float64, l.OutSize())
	}
	return s
}

// Process consumes one input sample and returns the network output for it.
func (s *Stream) Process(x float64) float64 {
	s.in[0] = x
	cur := s.in[:]
	for i, st := range s.states {
		st.Step(s.bufs[i], cur)
		cur = s.bufs[i]
	}
	return cur[0]
}

// ProcessBlock replaces each sample in buf with the network output.
func (s *Stream) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = s.Process(x)
	}
}

// Reset clears all history so the next sample is treated as t = 0.
func (s *Stream) Reset() {
	for _, st := range s.states {
		st.Reset()
	}
}
