// Package midi drains a MIDI input port into a param.MIDIState (spec
// §4.9: "midi.cc(ch,cc)" / "midi.note(ch,n)" parameter sources), the
// MIDI half of the control-surface pair alongside internal/control/osc.
package midi

import (
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/mrlongnight/mapmap/internal/logging"
	"github.com/mrlongnight/mapmap/internal/param"
)

// Listener applies every Control Change / Note On / Note Off message
// arriving on a port directly to a param.MIDIState.
type Listener struct {
	state *param.MIDIState
	log   *logging.Logger
	stop  func()
	mu    sync.Mutex
}

// NewListener returns a Listener that will latch into state.
func NewListener(state *param.MIDIState, log *logging.Logger) *Listener {
	return &Listener{state: state, log: log}
}

// Start begins listening on in (spec §5: audio capture and MIDI/OSC
// input both run off the main loop's thread; gomidi.ListenTo spawns its
// own per-port goroutine, and updates here land directly in the
// mutex-guarded MIDIState map the fabric reads at the top of each tick).
func (l *Listener) Start(in drivers.In) error {
	stop, err := gomidi.ListenTo(in, l.handle)
	if err != nil {
		if l.log != nil {
			l.log.Errorf("midi: listen on %s: %v", in, err)
		}
		return err
	}
	l.stop = stop
	return nil
}

// Stop ends the port listener started by Start.
func (l *Listener) Stop() {
	if l.stop != nil {
		l.stop()
	}
}

// State returns the MIDIState this listener latches into, for the
// orchestrator to read at the top of each tick.
func (l *Listener) State() *param.MIDIState {
	return l.state
}

func (l *Listener) handle(msg gomidi.Message, _ int32) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var channel, controller, value, key, velocity uint8
	if msg.GetControlChange(&channel, &controller, &value) {
		l.state.CC[[2]uint8{channel, controller}] = float64(value) / 127
		return
	}
	if msg.GetNoteOn(&channel, &key, &velocity) {
		l.state.Note[[2]uint8{channel, key}] = float64(velocity) / 127
		return
	}
	if msg.GetNoteOff(&channel, &key, &velocity) {
		l.state.Note[[2]uint8{channel, key}] = 0
	}
}
