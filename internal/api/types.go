package api

import (
	"github.com/samcharles93/seqnet/internal/model"
	"github.com/samcharles93/seqnet/internal/spectrum"
)

// InferRequest carries either an explicit input sequence or the parameters
// of a generated sine.  Exactly one must be set.
type InferRequest struct {
	Input  []float64     `json:"input,omitempty"`
	Signal *SignalParams `json:"signal,omitempty"`
}

type SignalParams struct {
	Samples   int      `json:"samples"`
	Amplitude *float64 `json:"amplitude,omitempty"`
	Step      *float64 `json:"step,omitempty"`
}

// Run is one stored inference result.
type Run struct {
	ID        string             `json:"id"`
	Object    string             `json:"object"`
	CreatedAt int64              `json:"created_at"`
	Seed      int64              `json:"seed"`
	Input     []float64          `json:"input"`
	Output    []float64          `json:"output"`
	Spectrum  *spectrum.Spectrum `json:"spectrum,omitempty"`
}

type DeleteRunResp struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

type TopologyResp struct {
	Object     string            `json:"object"`
	Seed       int64             `json:"seed"`
	Parameters int               `json:"parameters"`
	Stages     []model.StageInfo `json:"stages"`
}

type HealthResp struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Runs    int    `json:"runs"`
}

type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Param   string `json:"param,omitempty"`
	Code    string `json:"code,omitempty"`
}
