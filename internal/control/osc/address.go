// Package osc listens for incoming Open Sound Control messages and
// latches their first numeric argument into a param.OSCState, keyed by
// address (spec §4.9: "osc.address(addr)" is latched, not interpolated).
package osc

import (
	"strconv"
	"strings"
)

// Category classifies a /mapmap/... address the way the reference
// control-target parser does, for diagnostics only — the fabric itself
// just latches by raw address string regardless of category.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryLayer
	CategoryPaint
	CategoryEffect
	CategoryPlayback
	CategoryOutput
	CategoryCustom
)

// Classify mirrors the reference address parser's category switch
// (original address.rs: layer/paint/effect/playback/output/custom) for
// logging and UI display; it does not gate whether Listener latches the
// address — any address is accepted, per spec "missing paths are
// silently skipped" applying to the fabric side, not the listener side.
func Classify(address string) Category {
	parts := strings.Split(strings.TrimPrefix(address, "/"), "/")
	if len(parts) < 2 || parts[0] != "mapmap" {
		return CategoryUnknown
	}
	switch parts[1] {
	case "layer":
		return CategoryLayer
	case "paint":
		return CategoryPaint
	case "effect":
		return CategoryEffect
	case "playback":
		return CategoryPlayback
	case "output":
		return CategoryOutput
	case "custom":
		return CategoryCustom
	default:
		return CategoryUnknown
	}
}

// ParseID extracts the integer ID at parts[index] of a /mapmap/... style
// address, e.g. ParseID("/mapmap/layer/5/opacity", 2) == 5.
func ParseID(address string, index int) (int, bool) {
	parts := strings.Split(strings.TrimPrefix(address, "/"), "/")
	if index < 0 || index >= len(parts) {
		return 0, false
	}
	n, err := strconv.Atoi(parts[index])
	if err != nil {
		return 0, false
	}
	return n, true
}
