package paint

import (
	"time"
)

// Direction is the playback head's direction of travel.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// PlayState is the engine's coarse run state.
type PlayState int

const (
	Stopped PlayState = iota
	Playing
	Paused
)

// LoopMode selects the discipline applied when the playback position
// crosses a media boundary.
type LoopMode int

const (
	LoopRepeat LoopMode = iota
	LoopPingPong
	LoopPlayOnceAndEject
	LoopPlayOnceAndHold
)

// errorToleranceWindow bounds how long repeated decode errors are
// tolerated before the engine gives up and stops (spec §4.1 failure model).
const errorToleranceWindow = 500 * time.Millisecond

// PlaybackEngine drives a Decoder through time: speed, direction, and loop
// discipline. Exclusively owned by a PaintStore entry (spec §9 notes the
// cyclic-ownership avoidance: PaintStore owns the engine by PaintID, not
// the other way around).
type PlaybackEngine struct {
	decoder Decoder

	Position  time.Duration
	Direction Direction
	Speed     float32
	State     PlayState
	LoopMode  LoopMode
	duration  time.Duration

	lastFrame     *Frame
	firstErrorAt  time.Time
	errorStreak   bool
	lastDiagnostic error
}

// NewPlaybackEngine wraps decoder with a stopped engine at position 0,
// forward, speed 1.
func NewPlaybackEngine(decoder Decoder) *PlaybackEngine {
	return &PlaybackEngine{
		decoder:   decoder,
		Direction: Forward,
		Speed:     1.0,
		State:     Stopped,
		LoopMode:  LoopRepeat,
		duration:  decoder.Duration(),
	}
}

// Duration returns the underlying decoder's total duration.
func (e *PlaybackEngine) Duration() time.Duration { return e.duration }

// Play transitions the engine to Playing.
func (e *PlaybackEngine) Play() { e.State = Playing }

// Pause transitions the engine to Paused, retaining position.
func (e *PlaybackEngine) Pause() { e.State = Paused }

// Stop transitions the engine to Stopped and drops the last frame.
func (e *PlaybackEngine) Stop() {
	e.State = Stopped
	e.lastFrame = nil
}

// Seek clamps t to [0, duration], sets position, and arranges for the next
// Update to deliver the frame at t regardless of whether it differs from
// the last delivered frame.
func (e *PlaybackEngine) Seek(t time.Duration) {
	e.Position = clampDuration(t, 0, e.duration)
	e.lastFrame = nil // forces the next Update to report the new frame
}

// LastDiagnostic returns the most recent decode error surfaced to the
// operator, if the engine has since transitioned to Stopped because of it.
func (e *PlaybackEngine) LastDiagnostic() error { return e.lastDiagnostic }

// Update advances playback by dt and returns the newly decoded frame, or
// nil if no new frame is available this tick (not playing, or the decoded
// frame is identical to the last delivered one).
//
// effectiveRate is paint.rate * composition.master_speed (spec Open
// Question (c), resolved: always applied).
func (e *PlaybackEngine) Update(dt time.Duration, effectiveRate float32) (*Frame, error) {
	if e.State != Playing {
		return nil, nil
	}

	sign := float32(1)
	if e.Direction == Backward {
		sign = -1
	}
	delta := time.Duration(float64(dt) * float64(sign) * float64(e.Speed) * float64(effectiveRate))
	e.Position += delta

	e.applyLoopDiscipline()

	frame, err := e.decoder.FrameAt(e.Position)
	if err != nil {
		return nil, e.handleDecodeError(err)
	}
	e.lastDiagnostic = nil
	e.errorStreak = false

	if frame == e.lastFrame {
		return nil, nil
	}
	if e.lastFrame != nil && framesEqual(frame, e.lastFrame) {
		return nil, nil
	}
	e.lastFrame = frame
	return frame, nil
}

func framesEqual(a, b *Frame) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.PTS == b.PTS && a.Width == b.Width && a.Height == b.Height
}

// handleDecodeError implements the failure model: a decode error is
// treated as end-of-stream for the tick; repeated errors within the
// tolerance window stop the engine with a diagnostic.
func (e *PlaybackEngine) handleDecodeError(err error) error {
	now := time.Now()
	if !e.errorStreak {
		e.errorStreak = true
		e.firstErrorAt = now
		return nil
	}
	if now.Sub(e.firstErrorAt) > errorToleranceWindow {
		e.State = Stopped
		e.lastDiagnostic = &DecodeError{Operation: "update", Details: "repeated decode errors", Err: err}
		return e.lastDiagnostic
	}
	return nil
}

func (e *PlaybackEngine) applyLoopDiscipline() {
	if e.duration <= 0 {
		return
	}
	switch e.LoopMode {
	case LoopRepeat:
		e.Position = wrapDuration(e.Position, e.duration)
	case LoopPingPong:
		e.Position, e.Direction = pingPong(e.Position, e.duration, e.Direction)
	case LoopPlayOnceAndHold:
		clamped := clampDuration(e.Position, 0, e.duration)
		if clamped != e.Position {
			e.Position = clamped
			e.State = Paused
		}
	case LoopPlayOnceAndEject:
		clamped := clampDuration(e.Position, 0, e.duration)
		if clamped != e.Position {
			e.Position = clamped
			e.State = Stopped
			e.lastFrame = nil // signal ejection: paint drops its texture next tick
		}
	}
}

func clampDuration(v, lo, hi time.Duration) time.Duration {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// wrapDuration wraps v into [0, mod) modulo mod, handling negative v
// (Backward direction crossing 0).
func wrapDuration(v, mod time.Duration) time.Duration {
	if mod <= 0 {
		return 0
	}
	v = v % mod
	if v < 0 {
		v += mod
	}
	return v
}

// pingPong reflects a position that has crossed 0 or duration back inside
// the range, inverting direction on each reflection. Handles overshoot
// larger than one period by repeated reflection.
func pingPong(pos, duration time.Duration, dir Direction) (time.Duration, Direction) {
	if duration <= 0 {
		return 0, dir
	}
	for pos < 0 {
		pos = -pos
		dir = flip(dir)
	}
	for pos > duration {
		pos = 2*duration - pos
		dir = flip(dir)
	}
	return pos, dir
}

func flip(d Direction) Direction {
	if d == Forward {
		return Backward
	}
	return Forward
}
