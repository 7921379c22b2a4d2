package effect

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"

	"github.com/samcharles93/seqnet/internal/model"
)

func newRunner(t *testing.T) *model.Runner {
	t.Helper()
	r, err := model.New(model.Config{Seed: 42})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestDCBlockerRemovesDC(t *testing.T) {
	t.Parallel()
	s := biquad.NewSection(DCBlocker(35, 48000))
	var y float64
	for range 48000 {
		y = s.ProcessSample(1)
	}
	if math.Abs(y) > 1e-6 {
		t.Fatalf("DC residue after 1s: %v", y)
	}
}

func TestDCBlockerPassesNyquist(t *testing.T) {
	t.Parallel()
	s := biquad.NewSection(DCBlocker(35, 48000))
	var y float64
	for i := range 4800 {
		x := 1.0
		if i%2 == 1 {
			x = -1
		}
		y = s.ProcessSample(x)
	}
	if math.Abs(math.Abs(y)-1) > 1e-3 {
		t.Fatalf("nyquist gain %v, want ~1", math.Abs(y))
	}
}

func TestDCBlockerOutOfRangeIsPassThrough(t *testing.T) {
	t.Parallel()
	for _, sr := range []float64{60, 70} {
		if c := DCBlocker(35, sr); c != (biquad.Coefficients{B0: 1}) {
			t.Fatalf("sample rate %v: got %+v", sr, c)
		}
	}
}

func TestPrepareRejectsLayouts(t *testing.T) {
	t.Parallel()
	p := New(newRunner(t), DefaultConfig())
	if err := p.Prepare(48000, 3); !errors.Is(err, ErrChannelLayout) {
		t.Fatalf("expected ErrChannelLayout, got %v", err)
	}
	if err := p.Process([][]float64{{1}}); !errors.Is(err, ErrNotPrepared) {
		t.Fatalf("expected ErrNotPrepared, got %v", err)
	}
	if err := p.Prepare(0, 1); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if err := p.Prepare(48000, 2); err != nil {
		t.Fatal(err)
	}
	if err := p.Process([][]float64{{1}}); !errors.Is(err, ErrChannelLayout) {
		t.Fatalf("expected ErrChannelLayout for mono block, got %v", err)
	}
}

func TestProcessMatchesManualChain(t *testing.T) {
	t.Parallel()
	r := newRunner(t)
	cfg := DefaultConfig()
	cfg.GainDB = -20
	p := New(r, cfg)
	if err := p.Prepare(44100, 1); err != nil {
		t.Fatal(err)
	}

	in := make([]float64, 256)
	for i := range in {
		in[i] = 0.1 * math.Sin(2*math.Pi*440*float64(i)/44100)
	}
	block := [][]float64{append([]float64(nil), in...)}
	if err := p.Process(block); err != nil {
		t.Fatal(err)
	}

	gain := math.Pow(10, 5.0/20)
	if math.Abs(p.InputGain()-gain) > 1e-12 {
		t.Fatalf("input gain %v, want %v", p.InputGain(), gain)
	}
	stream := r.NewStream()
	hp := biquad.NewSection(DCBlocker(35, 44100))
	for i, x := range in {
		want := hp.ProcessSample(stream.Process(x*gain)) * 5
		if math.Abs(block[0][i]-want) > 1e-9 {
			t.Fatalf("sample %d: got %v, want %v", i, block[0][i], want)
		}
	}
}

func TestProcessWithoutValidCutoffKeepsNetworkOutput(t *testing.T) {
	t.Parallel()
	r := newRunner(t)
	p := New(r, DefaultConfig())
	if err := p.Prepare(60, 1); err != nil {
		t.Fatal(err)
	}
	in := []float64{0.01, -0.02, 0.03, 0.04}
	block := [][]float64{append([]float64(nil), in...)}
	if err := p.Process(block); err != nil {
		t.Fatal(err)
	}
	stream := r.NewStream()
	var nonZero bool
	for i, x := range in {
		want := stream.Process(x*p.InputGain()) * 5
		if math.Abs(block[0][i]-want) > 1e-9 {
			t.Fatalf("sample %d: got %v, want %v", i, block[0][i], want)
		}
		nonZero = nonZero || block[0][i] != 0
	}
	if !nonZero {
		t.Fatal("chain silenced the signal")
	}
}

func TestStereoChannelsAreIndependent(t *testing.T) {
	t.Parallel()
	p := New(newRunner(t), DefaultConfig())
	if err := p.Prepare(48000, 2); err != nil {
		t.Fatal(err)
	}
	left := []float64{0.1, 0.2, -0.3, 0.4}
	block := [][]float64{append([]float64(nil), left...), append([]float64(nil), left...)}
	if err := p.Process(block); err != nil {
		t.Fatal(err)
	}
	for i := range left {
		if block[0][i] != block[1][i] {
			t.Fatalf("sample %d: channels differ %v vs %v", i, block[0][i], block[1][i])
		}
	}

	p.Reset()
	again := [][]float64{append([]float64(nil), left...), append([]float64(nil), left...)}
	if err := p.Process(again); err != nil {
		t.Fatal(err)
	}
	for i := range left {
		if again[0][i] != block[0][i] {
			t.Fatalf("sample %d differs after reset: %v vs %v", i, again[0][i], block[0][i])
		}
	}
}
