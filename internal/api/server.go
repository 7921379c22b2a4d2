// Package api serves inference, run history and topology over HTTP.
package api

import (
	"bytes"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/seqnet/internal/logger"
	"github.com/samcharles93/seqnet/internal/model"
	"github.com/samcharles93/seqnet/internal/plot"
	"github.com/samcharles93/seqnet/internal/signal"
	"github.com/samcharles93/seqnet/internal/spectrum"
	"github.com/samcharles93/seqnet/internal/version"
)

// MaxSamples bounds the length of a single inference request.
const MaxSamples = 1 << 16

type Server struct {
	runner *model.Runner
	store  *RunStore
	log    logger.Logger
	clock  func() time.Time
}

func NewServer(runner *model.Runner, store *RunStore, log logger.Logger) *Server {
	if store == nil {
		store = NewRunStore(0)
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Server{
		runner: runner,
		store:  store,
		log:    log,
		clock:  time.Now,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.GET("/v1/topology", s.handleTopology)

	e.POST("/v1/infer", s.handleInfer)
	e.GET("/v1/runs", s.handleListRuns)
	e.GET("/v1/runs/:id", s.handleGetRun)
	e.DELETE("/v1/runs/:id", s.handleDeleteRun)
	e.GET("/v1/runs/:id/plot.svg", s.handlePlotRun)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, HealthResp{
		Status:  "ok",
		Version: version.String(),
		Runs:    s.store.Len(),
	})
}

func (s *Server) handleTopology(c *echo.Context) error {
	return c.JSON(http.StatusOK, TopologyResp{
		Object:     "topology",
		Seed:       s.runner.Seed(),
		Parameters: s.runner.ParamCount(),
		Stages:     s.runner.Summary(),
	})
}

func (s *Server) handleInfer(c *echo.Context) error {
	req, err := decodeJSON[InferRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error(), "")
	}
	input, err := resolveInput(req)
	if err != nil {
		return writeRunError(c, err)
	}

	start := s.clock()
	output, err := s.runner.Run(c.Request().Context(), input)
	if err != nil {
		return writeRunError(c, err)
	}
	spec, err := spectrum.Analyze(output)
	if err != nil {
		return writeRunError(c, err)
	}

	run := &Run{
		ID:        newRunID(),
		Object:    "run",
		CreatedAt: start.Unix(),
		Seed:      s.runner.Seed(),
		Input:     input,
		Output:    output,
		Spectrum:  &spec,
	}
	s.store.Put(run)
	s.log.Debug("run complete", "run", run.ID, "seed", run.Seed, "samples", len(input), "output", output, "took", s.clock().Sub(start))
	return c.JSON(http.StatusOK, run)
}

func resolveInput(req InferRequest) ([]float64, error) {
	switch {
	case req.Signal != nil && len(req.Input) > 0:
		return nil, newInvalidRequest("input", "input and signal are mutually exclusive")
	case req.Signal != nil:
		p := req.Signal
		if p.Samples <= 0 || p.Samples > MaxSamples {
			return nil, newInvalidRequest("signal.samples", "samples must be in [1, %d], got %d", MaxSamples, p.Samples)
		}
		var opts []signal.Option
		if p.Amplitude != nil {
			opts = append(opts, signal.WithAmplitude(*p.Amplitude))
		}
		if p.Step != nil {
			opts = append(opts, signal.WithStep(*p.Step))
		}
		return signal.Sine(p.Samples, opts...)
	case len(req.Input) > MaxSamples:
		return nil, newInvalidRequest("input", "input exceeds %d samples", MaxSamples)
	case len(req.Input) == 0:
		return nil, newInvalidRequest("input", "one of input or signal is required")
	default:
		return req.Input, nil
	}
}

func (s *Server) handleListRuns(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"object": "list",
		"data":   s.store.IDs(),
	})
}

func (s *Server) lookup(c *echo.Context) (*Run, bool) {
	id := c.Param("id")
	if id == "" {
		return nil, false
	}
	return s.store.Get(id)
}

func (s *Server) handleGetRun(c *echo.Context) error {
	run, ok := s.lookup(c)
	if !ok {
		return writeNotFound(c, "run not found")
	}
	return c.JSON(http.StatusOK, run)
}

func (s *Server) handleDeleteRun(c *echo.Context) error {
	id := c.Param("id")
	if !s.store.Delete(id) {
		return writeNotFound(c, "run not found")
	}
	return c.JSON(http.StatusOK, DeleteRunResp{
		ID:      id,
		Object:  "run",
		Deleted: true,
	})
}

func (s *Server) handlePlotRun(c *echo.Context) error {
	run, ok := s.lookup(c)
	if !ok {
		return writeNotFound(c, "run not found")
	}
	var buf bytes.Buffer
	if err := plot.SVG(&buf, run.Input, run.Output, plot.Options{Title: run.ID}); err != nil {
		return writeRunError(c, err)
	}
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "image/svg+xml")
	res.WriteHeader(http.StatusOK)
	_, err := res.Write(buf.Bytes())
	return err
}
