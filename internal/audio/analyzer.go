package audio

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// FrequencyBand names one of the seven analysis bands (spec §4.9 audio
// source kinds, "audio.band.<name>"). Ranges are ported unchanged from
// the original audio analysis module.
type FrequencyBand int

const (
	BandSubBass FrequencyBand = iota
	BandBass
	BandLowMid
	BandMid
	BandHighMid
	BandPresence
	BandBrilliance
	bandCount
)

// Range returns band's (low, high) frequency bounds in Hz.
func (b FrequencyBand) Range() (lo, hi float64) {
	switch b {
	case BandSubBass:
		return 20, 60
	case BandBass:
		return 60, 250
	case BandLowMid:
		return 250, 500
	case BandMid:
		return 500, 2000
	case BandHighMid:
		return 2000, 4000
	case BandPresence:
		return 4000, 6000
	case BandBrilliance:
		return 6000, 20000
	default:
		return 0, 0
	}
}

func (b FrequencyBand) String() string {
	switch b {
	case BandSubBass:
		return "sub_bass"
	case BandBass:
		return "bass"
	case BandLowMid:
		return "low_mid"
	case BandMid:
		return "mid"
	case BandHighMid:
		return "high_mid"
	case BandPresence:
		return "presence"
	case BandBrilliance:
		return "brilliance"
	default:
		return "unknown"
	}
}

// Config parameterizes the analyzer (spec §4.9).
type Config struct {
	SampleRate int
	FFTSize    int // power of two
	Overlap    float64
	Smoothing  float64
}

// DefaultConfig matches the reference analyzer's defaults.
func DefaultConfig() Config {
	return Config{SampleRate: 44100, FFTSize: 1024, Overlap: 0.5, Smoothing: 0.8}
}

// BandEnergies holds one energy value per FrequencyBand, indexed by the
// band's own constant value.
type BandEnergies [bandCount]float64

// Analysis is one frame of audio analysis output, published for the
// parameter fabric's audio.* sources to read.
type Analysis struct {
	Timestamp     float64
	Magnitudes    []float64
	BandEnergies  BandEnergies
	RMSVolume     float64
	PeakVolume    float64
	BeatDetected  bool
	BeatStrength  float64
	OnsetDetected bool
	TempoBPM      float64
	TempoKnown    bool
}

// Analyzer performs windowed FFT analysis plus beat/onset/tempo
// estimation over a running sample buffer (ported from the reference
// AudioAnalyzer: Hann window, half-spectrum magnitude with smoothing,
// band-energy averaging, bass-energy beat threshold, 5-frame onset
// delta, and beat-interval tempo averaging).
type Analyzer struct {
	cfg Config

	input      []float64
	prevMag    []float64
	lastResult Analysis

	energyHistory []float64 // bass-band rolling average window
	totalHistory  []float64 // total-energy rolling window for onset
	beatIntervals []float64
	lastBeatTime  float64
	haveLastBeat  bool
}

// NewAnalyzer constructs an Analyzer for cfg.
func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{
		cfg:     cfg,
		prevMag: make([]float64, cfg.FFTSize/2),
	}
}

// Process appends samples to the analyzer's internal buffer and, once
// enough samples have accumulated, runs one FFT analysis pass at
// timestamp, returning the freshest analysis.
func (a *Analyzer) Process(samples []float32, timestamp float64) Analysis {
	for _, s := range samples {
		a.input = append(a.input, float64(s))
	}

	hop := int(float64(a.cfg.FFTSize) * (1 - a.cfg.Overlap))
	if hop < 1 {
		hop = 1
	}
	if len(a.input) < a.cfg.FFTSize {
		return a.lastResult
	}

	windowed := make([]float64, a.cfg.FFTSize)
	n := float64(a.cfg.FFTSize - 1)
	for i := 0; i < a.cfg.FFTSize; i++ {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/n))
		windowed[i] = a.input[i] * w
	}

	spectrum := fft.FFTReal(windowed)
	half := a.cfg.FFTSize / 2
	mag := make([]float64, half)
	for i := 0; i < half; i++ {
		m := cmplx.Abs(spectrum[i]) / float64(a.cfg.FFTSize)
		sm := a.cfg.Smoothing*a.prevMag[i] + (1-a.cfg.Smoothing)*m
		mag[i] = sm
		a.prevMag[i] = sm
	}

	result := a.calculate(mag, timestamp)
	a.lastResult = result

	if hop > len(a.input) {
		hop = len(a.input)
	}
	a.input = a.input[hop:]

	return result
}

func (a *Analyzer) calculate(mag []float64, timestamp float64) Analysis {
	var sumSq float64
	take := a.cfg.FFTSize
	if take > len(a.input) {
		take = len(a.input)
	}
	for _, s := range a.input[:take] {
		sumSq += s * s
	}
	rms := math.Sqrt(sumSq / float64(take))

	var peak float64
	for _, m := range mag {
		if m > peak {
			peak = m
		}
	}

	bands := a.bandEnergies(mag)
	beatDetected, beatStrength := a.detectBeat(bands, timestamp)
	onset := a.detectOnset(mag)
	tempo, tempoKnown := a.estimateTempo()

	return Analysis{
		Timestamp:     timestamp,
		Magnitudes:    mag,
		BandEnergies:  bands,
		RMSVolume:     rms,
		PeakVolume:    peak,
		BeatDetected:  beatDetected,
		BeatStrength:  beatStrength,
		OnsetDetected: onset,
		TempoBPM:      tempo,
		TempoKnown:    tempoKnown,
	}
}

func (a *Analyzer) bandEnergies(mag []float64) BandEnergies {
	var energies BandEnergies
	binWidth := float64(a.cfg.SampleRate) / float64(a.cfg.FFTSize)
	for b := FrequencyBand(0); b < bandCount; b++ {
		lo, hi := b.Range()
		minBin := int(lo / binWidth)
		maxBin := int(hi / binWidth)
		if maxBin > len(mag)-1 {
			maxBin = len(mag) - 1
		}
		if minBin > maxBin {
			minBin = maxBin
		}
		var sum float64
		for i := minBin; i <= maxBin; i++ {
			sum += mag[i]
		}
		energies[b] = sum / float64(maxBin-minBin+1)
	}
	return energies
}

// detectBeat flags a kick-drum-style transient in the bass bands,
// keyed off a rolling average over roughly one second of history
// (spec §4.9: beat/onset are audio.* sources the fabric can bind to).
func (a *Analyzer) detectBeat(bands BandEnergies, timestamp float64) (bool, float64) {
	bassEnergy := bands[BandSubBass] + bands[BandBass]

	a.energyHistory = append(a.energyHistory, bassEnergy)
	if len(a.energyHistory) > 43 {
		a.energyHistory = a.energyHistory[1:]
	}

	var avg float64
	for _, e := range a.energyHistory {
		avg += e
	}
	avg /= float64(len(a.energyHistory))

	threshold := avg * 1.5
	sinceLast := timestamp - a.lastBeatTime
	detected := bassEnergy > threshold && (!a.haveLastBeat || sinceLast > 0.1)

	var strength float64
	if detected {
		if threshold > 0 {
			strength = (bassEnergy - threshold) / threshold
			if strength > 1 {
				strength = 1
			}
		}
		if a.haveLastBeat {
			interval := timestamp - a.lastBeatTime
			a.beatIntervals = append(a.beatIntervals, interval)
			if len(a.beatIntervals) > 10 {
				a.beatIntervals = a.beatIntervals[1:]
			}
		}
		a.lastBeatTime = timestamp
		a.haveLastBeat = true
	}
	return detected, strength
}

func (a *Analyzer) detectOnset(mag []float64) bool {
	var total float64
	for _, m := range mag {
		total += m
	}
	a.totalHistory = append(a.totalHistory, total)
	if len(a.totalHistory) > 5 {
		a.totalHistory = a.totalHistory[1:]
	}
	if len(a.totalHistory) < 5 {
		return false
	}
	var avg float64
	for _, v := range a.totalHistory[:4] {
		avg += v
	}
	avg /= 4
	current := a.totalHistory[len(a.totalHistory)-1]
	return current > avg*1.8
}

func (a *Analyzer) estimateTempo() (float64, bool) {
	if len(a.beatIntervals) < 4 {
		return 0, false
	}
	var sum float64
	for _, v := range a.beatIntervals {
		sum += v
	}
	avg := sum / float64(len(a.beatIntervals))
	if avg <= 0 {
		return 0, false
	}
	return 60 / avg, true
}
