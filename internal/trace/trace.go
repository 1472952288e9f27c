// Package trace provides lightweight, opt-in logging for the solver's
// search steps. It is off by default; enable it with the TYPEGRAPH_TRACE
// environment variable or typegraph.Config.Trace so that production
// callers pay nothing for it.
package trace

import (
	"log"
	"os"
	"sync/atomic"
)

var enabled atomic.Bool

func init() {
	if os.Getenv("TYPEGRAPH_TRACE") == "1" {
		enabled.Store(true)
	}
}

// Enable turns tracing on for the remainder of the process.
func Enable() { enabled.Store(true) }

// Disable turns tracing off.
func Disable() { enabled.Store(false) }

// Enabled reports whether tracing is currently active.
func Enabled() bool { return enabled.Load() }

// Solverf logs one solver search step, prefixed for grep-ability.
func Solverf(format string, args ...any) {
	if !enabled.Load() {
		return
	}
	log.Printf("[solver] "+format, args...)
}

// Graphf logs one CFG/binding construction event.
func Graphf(format string, args ...any) {
	if !enabled.Load() {
		return
	}
	log.Printf("[graph] "+format, args...)
}
