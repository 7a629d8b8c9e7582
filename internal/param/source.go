// Package param implements the ParameterFabric: the reactive layer that
// maps audio analysis, MIDI, and OSC input onto named float parameters
// consumed by effect/shader uniforms (spec §4.9).
package param

import (
	"encoding/json"
	"fmt"

	"github.com/mrlongnight/mapmap/internal/audio"
)

// SourceKind identifies which upstream signal a Mapping reads from (spec
// §4.9 "Source kinds").
type SourceKind int

const (
	SourceAudioVolume SourceKind = iota
	SourceAudioPeak
	SourceAudioBand
	SourceAudioBeat
	SourceAudioBeatStrength
	SourceAudioOnset
	SourceAudioTempo
	SourceAudioFFTBin
	SourceMIDICC
	SourceMIDINote
	SourceOSCAddress
)

// Source fully identifies one upstream signal: the kind plus whichever
// of Band/FFTBin/MIDIChannel/MIDINumber/OSCAddress that kind needs.
type Source struct {
	Kind        SourceKind
	Band        audio.FrequencyBand // SourceAudioBand
	FFTBin      int                 // SourceAudioFFTBin
	MIDIChannel uint8               // SourceMIDICC, SourceMIDINote
	MIDINumber  uint8               // SourceMIDICC: controller number; SourceMIDINote: note number
	OSCAddress  string              // SourceOSCAddress
}

// Inputs bundles the per-tick upstream state a Source may read from
// (spec §4.8 step 1/2: events and audio are drained before the fabric
// updates). midi/osc are latched/continuous state tables the control
// listeners maintain; raw() reads them directly rather than copying.
type Inputs struct {
	Audio audio.Analysis
	MIDI  *MIDIState
	OSC   *OSCState
}

// MIDIState holds the latched/continuous MIDI values control/midi keeps
// current: CC values (0..1, normalized from 0-127) and note-on velocity
// (0..1), keyed by (channel, number).
type MIDIState struct {
	CC   map[[2]uint8]float64
	Note map[[2]uint8]float64
}

// NewMIDIState returns an empty MIDIState.
func NewMIDIState() *MIDIState {
	return &MIDIState{CC: make(map[[2]uint8]float64), Note: make(map[[2]uint8]float64)}
}

// OSCState holds the latest value received at each OSC address (spec
// §4.9: "osc.address(addr)" is latched, not interpolated).
type OSCState struct {
	Values map[string]float64
}

// NewOSCState returns an empty OSCState.
func NewOSCState() *OSCState {
	return &OSCState{Values: make(map[string]float64)}
}

// raw resolves s against in, returning the source's current value in
// [0,1] (spec §4.9: "compute raw (0..1 for audio, interpolated for
// continuous midi, latched for osc)"). A missing MIDI/OSC address reads
// as 0 rather than erroring — consistent with "missing paths are
// silently skipped" for the mapping side of the same rule.
func (s Source) raw(in Inputs) float64 {
	switch s.Kind {
	case SourceAudioVolume:
		return clamp01(in.Audio.RMSVolume)
	case SourceAudioPeak:
		return clamp01(in.Audio.PeakVolume)
	case SourceAudioBand:
		return clamp01(in.Audio.BandEnergies[s.Band])
	case SourceAudioBeat:
		if in.Audio.BeatDetected {
			return 1
		}
		return 0
	case SourceAudioBeatStrength:
		return clamp01(in.Audio.BeatStrength)
	case SourceAudioOnset:
		if in.Audio.OnsetDetected {
			return 1
		}
		return 0
	case SourceAudioTempo:
		if !in.Audio.TempoKnown {
			return 0
		}
		return clamp01(in.Audio.TempoBPM / 200) // spec: 200 BPM normalization ceiling
	case SourceAudioFFTBin:
		if s.FFTBin < 0 || s.FFTBin >= len(in.Audio.Magnitudes) {
			return 0
		}
		return clamp01(in.Audio.Magnitudes[s.FFTBin])
	case SourceMIDICC:
		if in.MIDI == nil {
			return 0
		}
		return in.MIDI.CC[[2]uint8{s.MIDIChannel, s.MIDINumber}]
	case SourceMIDINote:
		if in.MIDI == nil {
			return 0
		}
		return in.MIDI.Note[[2]uint8{s.MIDIChannel, s.MIDINumber}]
	case SourceOSCAddress:
		if in.OSC == nil {
			return 0
		}
		return in.OSC.Values[s.OSCAddress]
	default:
		return 0
	}
}

func (k SourceKind) String() string {
	switch k {
	case SourceAudioVolume:
		return "audio.volume"
	case SourceAudioPeak:
		return "audio.peak"
	case SourceAudioBand:
		return "audio.band"
	case SourceAudioBeat:
		return "audio.beat"
	case SourceAudioBeatStrength:
		return "audio.beat_strength"
	case SourceAudioOnset:
		return "audio.onset"
	case SourceAudioTempo:
		return "audio.tempo"
	case SourceAudioFFTBin:
		return "audio.fft_bin"
	case SourceMIDICC:
		return "midi.cc"
	case SourceMIDINote:
		return "midi.note"
	case SourceOSCAddress:
		return "osc.address"
	default:
		return "unknown"
	}
}

func sourceKindFromString(s string) (SourceKind, error) {
	switch s {
	case "audio.volume":
		return SourceAudioVolume, nil
	case "audio.peak":
		return SourceAudioPeak, nil
	case "audio.band":
		return SourceAudioBand, nil
	case "audio.beat":
		return SourceAudioBeat, nil
	case "audio.beat_strength":
		return SourceAudioBeatStrength, nil
	case "audio.onset":
		return SourceAudioOnset, nil
	case "audio.tempo":
		return SourceAudioTempo, nil
	case "audio.fft_bin":
		return SourceAudioFFTBin, nil
	case "midi.cc":
		return SourceMIDICC, nil
	case "midi.note":
		return SourceMIDINote, nil
	case "osc.address":
		return SourceOSCAddress, nil
	default:
		return 0, fmt.Errorf("param: unknown source kind %q", s)
	}
}

// sourceJSON is Source's on-disk shape (spec §6: "controller ...
// mappings as JSON"), naming the kind the way spec §4.9 itself does
// ("audio.band(k)", "midi.cc(ch,cc)", "osc.address(addr)") rather than
// by Go constant name.
type sourceJSON struct {
	Kind        string `json:"kind"`
	Band        string `json:"band,omitempty"`
	FFTBin      int    `json:"fft_bin,omitempty"`
	MIDIChannel uint8  `json:"midi_channel,omitempty"`
	MIDINumber  uint8  `json:"midi_number,omitempty"`
	OSCAddress  string `json:"osc_address,omitempty"`
}

// MarshalJSON emits Source in its named, spec-vocabulary form.
func (s Source) MarshalJSON() ([]byte, error) {
	out := sourceJSON{
		Kind:        s.Kind.String(),
		FFTBin:      s.FFTBin,
		MIDIChannel: s.MIDIChannel,
		MIDINumber:  s.MIDINumber,
		OSCAddress:  s.OSCAddress,
	}
	if s.Kind == SourceAudioBand {
		out.Band = s.Band.String()
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a Source from its named form.
func (s *Source) UnmarshalJSON(data []byte) error {
	var in sourceJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	kind, err := sourceKindFromString(in.Kind)
	if err != nil {
		return err
	}
	*s = Source{
		Kind:        kind,
		FFTBin:      in.FFTBin,
		MIDIChannel: in.MIDIChannel,
		MIDINumber:  in.MIDINumber,
		OSCAddress:  in.OSCAddress,
	}
	if kind == SourceAudioBand {
		s.Band = bandFromString(in.Band)
	}
	return nil
}

func bandFromString(s string) audio.FrequencyBand {
	const bandCount = 7 // audio.BandSubBass..audio.BandBrilliance
	for b := audio.FrequencyBand(0); b < bandCount; b++ {
		if b.String() == s {
			return b
		}
	}
	return audio.BandBass
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
