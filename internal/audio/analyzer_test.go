package audio

import (
	"math"
	"testing"
)

func sineSamples(freq float64, sampleRate, n int) []float32 {
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		out[i] = float32(math.Sin(2*math.Pi*freq*t) * 0.8)
	}
	return out
}

func TestAnalyzerSilenceProducesNearZeroRMS(t *testing.T) {
	cfg := DefaultConfig()
	a := NewAnalyzer(cfg)
	silence := make([]float32, cfg.FFTSize)
	result := a.Process(silence, 0)
	if result.RMSVolume > 1e-9 {
		t.Fatalf("expected near-zero RMS for silence, got %v", result.RMSVolume)
	}
}

func TestAnalyzerBassToneRaisesBassBand(t *testing.T) {
	cfg := DefaultConfig()
	a := NewAnalyzer(cfg)
	samples := sineSamples(100, cfg.SampleRate, cfg.FFTSize)
	result := a.Process(samples, 0)

	if result.BandEnergies[BandBass] <= result.BandEnergies[BandBrilliance] {
		t.Fatalf("expected bass energy (%v) to exceed brilliance energy (%v) for a 100Hz tone",
			result.BandEnergies[BandBass], result.BandEnergies[BandBrilliance])
	}
	if result.RMSVolume <= 0 {
		t.Fatalf("expected positive RMS for a non-silent tone, got %v", result.RMSVolume)
	}
}

func TestAnalyzerNotEnoughSamplesReturnsPriorResult(t *testing.T) {
	cfg := DefaultConfig()
	a := NewAnalyzer(cfg)
	short := make([]float32, cfg.FFTSize/2)
	result := a.Process(short, 0)
	if result.Magnitudes != nil {
		t.Fatalf("expected zero-value Analysis before the first full window, got %+v", result)
	}
}

func TestAnalyzerTempoUnknownWithFewBeats(t *testing.T) {
	cfg := DefaultConfig()
	a := NewAnalyzer(cfg)
	_, known := a.estimateTempo()
	if known {
		t.Fatalf("expected tempo unknown with no beat history")
	}
}
