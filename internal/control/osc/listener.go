package osc

import (
	"fmt"
	"net"
	"sync"

	goosc "github.com/hypebeast/go-osc/osc"

	"github.com/mrlongnight/mapmap/internal/logging"
	"github.com/mrlongnight/mapmap/internal/param"
)

// Listener runs a UDP OSC server and latches the first numeric argument
// of every incoming message into an OSCState keyed by address (spec §5:
// "MIDI/OSC listeners... deliver messages via bounded MPSC channels" —
// here the OSC dispatcher's own goroutine plays the producer role, and
// the mutex-guarded OSCState map plays the bounded-state-drain role
// since latched values have no backlog to bound).
type Listener struct {
	addr   string
	state  *param.OSCState
	log    *logging.Logger
	server *goosc.Server
	conn   net.PacketConn
	mu     sync.Mutex
}

// NewListener returns a Listener that will bind to addr (e.g.
// "0.0.0.0:9000") and latch into state.
func NewListener(addr string, state *param.OSCState, log *logging.Logger) *Listener {
	return &Listener{addr: addr, state: state, log: log}
}

// Start binds the UDP socket and begins serving in the background.
func (l *Listener) Start() error {
	d := goosc.NewStandardDispatcher()
	if err := d.AddMsgHandler("*", l.handle); err != nil {
		return fmt.Errorf("osc: register handler: %w", err)
	}
	conn, err := net.ListenPacket("udp", l.addr)
	if err != nil {
		return fmt.Errorf("osc: listen %s: %w", l.addr, err)
	}
	l.conn = conn
	l.server = &goosc.Server{Dispatcher: d}
	go func() {
		if err := l.server.Serve(conn); err != nil && l.log != nil {
			l.log.Errorf("osc: serve: %v", err)
		}
	}()
	return nil
}

// Stop closes the listening socket, ending the background serve loop.
func (l *Listener) Stop() {
	if l.conn != nil {
		l.conn.Close()
	}
}

// State returns the OSCState this listener latches into, for the
// orchestrator to read at the top of each tick.
func (l *Listener) State() *param.OSCState {
	return l.state
}

func (l *Listener) handle(msg *goosc.Message) {
	value, ok := firstNumericArg(msg)
	if !ok {
		if l.log != nil {
			l.log.Warnf("osc: ignoring %s: no numeric argument", msg.Address)
		}
		return
	}
	l.mu.Lock()
	l.state.Values[msg.Address] = value
	l.mu.Unlock()
}

func firstNumericArg(msg *goosc.Message) (float64, bool) {
	if len(msg.Arguments) == 0 {
		return 0, false
	}
	switch v := msg.Arguments[0].(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
