package model

import (
	"github.com/samcharles93/seqnet/internal/initializer"
	"github.com/samcharles93/seqnet/internal/layers"
)

// StageKind selects the layer implementation for a stage.
type StageKind string

const (
	KindDense  StageKind = "dense"
	KindConv1D StageKind = "conv1d"
	KindGRU    StageKind = "gru"
)

// StageSpec declares one stage of the topology.  In is declared rather than
// inferred so that inconsistent chains are caught at construction time.
type StageSpec struct {
	Kind StageKind `json:"kind"`
	In   int       `json:"in"`
	Out  int       `json:"out"`

	// Conv1D only.
	KernelWidth int `json:"kernel_width,omitempty"`
	Dilation    int `json:"dilation,omitempty"`

	Activation          layers.Activation `json:"activation"`
	RecurrentActivation layers.Activation `json:"recurrent_activation,omitempty"`

	KernelInit    string `json:"kernel_initializer"`
	RecurrentInit string `json:"recurrent_initializer,omitempty"`
	BiasInit      string `json:"bias_initializer"`
}

// InputChannels and OutputChannels are fixed: the runner maps a scalar
// signal to a scalar signal.
const (
	InputChannels  = 1
	OutputChannels = 1
)

// DefaultStages is the demo topology: dense 1→8, causal dilated conv 8→4,
// GRU 4→8, dense 8→1.
func DefaultStages() []StageSpec {
	return []StageSpec{
		{
			Kind:       KindDense,
			In:         1,
			Out:        8,
			Activation: layers.Tanh,
			KernelInit: initializer.RandomNormal,
			BiasInit:   initializer.RandomNormal,
		},
		{
			Kind:        KindConv1D,
			In:          8,
			Out:         4,
			KernelWidth: 3,
			Dilation:    2,
			Activation:  layers.Tanh,
			KernelInit:  initializer.GlorotUniform,
			BiasInit:    initializer.RandomNormal,
		},
		{
			Kind:                KindGRU,
			In:                  4,
			Out:                 8,
			Activation:          layers.Tanh,
			RecurrentActivation: layers.Sigmoid,
			KernelInit:          initializer.GlorotUniform,
			RecurrentInit:       initializer.Orthogonal,
			BiasInit:            initializer.RandomNormal,
		},
		{
			Kind:       KindDense,
			In:         8,
			Out:        1,
			Activation: layers.Linear,
			KernelInit: initializer.Orthogonal,
			BiasInit:   initializer.RandomNormal,
		},
	}
}
