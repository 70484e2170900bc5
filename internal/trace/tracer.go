// Package trace implements the "debug facet" spec §6 describes as a
// separate optional tap on the VM: instruction callback, handler
// enter/exit callback, paused/resume control. It is grounded directly
// on barn/trace.Tracer — a mutex-guarded writer gated by glob filters —
// generalized from barn's fixed VerbCall/VerbReturn/Exception hooks (MOO
// verbs) to Lingo handlers, and from formatted-line-only output to
// registrable callbacks so a caller (cmd/shockctl, a future debugger UI)
// can consume events structurally instead of scraping log lines.
package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// InstructionFunc is called once per retired instruction.
type InstructionFunc func(handlerName string, offset int, opcode string)

// HandlerEnterFunc is called when a handler begins executing.
type HandlerEnterFunc func(handlerName string)

// HandlerExitFunc is called when a handler returns or faults.
type HandlerExitFunc func(handlerName string, err error)

// Tracer is the debug facet. Zero value is usable but disabled.
type Tracer struct {
	mu      sync.Mutex
	enabled bool
	paused  bool
	filters []string
	writer  io.Writer

	onInstruction []InstructionFunc
	onEnter       []HandlerEnterFunc
	onExit        []HandlerExitFunc
}

// New builds a Tracer writing formatted lines to writer when no
// structural callback is registered (writer defaults to os.Stderr, same
// as barn/trace.Init).
func New(enabled bool, filters []string, writer io.Writer) *Tracer {
	if writer == nil {
		writer = os.Stderr
	}
	return &Tracer{enabled: enabled, filters: filters, writer: writer}
}

// Enabled reports whether tracing is on.
func (t *Tracer) Enabled() bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

// SetEnabled toggles tracing at runtime.
func (t *Tracer) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
}

// matchesFilter mirrors barn/trace.Tracer.matchesFilter: no filters
// means trace everything, otherwise any glob match (filepath.Match)
// qualifies.
func (t *Tracer) matchesFilter(handlerName string) bool {
	if len(t.filters) == 0 {
		return true
	}
	for _, pattern := range t.filters {
		if matched, _ := filepath.Match(pattern, handlerName); matched {
			return true
		}
	}
	return false
}

// OnInstruction registers a callback invoked for every retired
// instruction while tracing is enabled (spec §6 "instruction callback").
func (t *Tracer) OnInstruction(cb InstructionFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onInstruction = append(t.onInstruction, cb)
}

// OnHandlerEnter registers a callback invoked when a handler begins
// executing (spec §6 "handler enter ... callback").
func (t *Tracer) OnHandlerEnter(cb HandlerEnterFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onEnter = append(t.onEnter, cb)
}

// OnHandlerExit registers a callback invoked when a handler returns or
// faults (spec §6 "... exit callback").
func (t *Tracer) OnHandlerExit(cb HandlerExitFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onExit = append(t.onExit, cb)
}

// Instruction reports one retired instruction. Called from the VM's run
// loop; while tracing is disabled a call costs one mutex lock.
func (t *Tracer) Instruction(handlerName string, offset int, opcode string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled || !t.matchesFilter(handlerName) {
		return
	}
	if len(t.onInstruction) == 0 {
		fmt.Fprintf(t.writer, "[TRACE] %s+%d %s\n", handlerName, offset, opcode)
		return
	}
	for _, cb := range t.onInstruction {
		cb(handlerName, offset, opcode)
	}
}

// HandlerEnter reports a handler beginning execution.
func (t *Tracer) HandlerEnter(handlerName string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled || !t.matchesFilter(handlerName) {
		return
	}
	if len(t.onEnter) == 0 {
		fmt.Fprintf(t.writer, "[TRACE] ENTER %s\n", handlerName)
		return
	}
	for _, cb := range t.onEnter {
		cb(handlerName)
	}
}

// HandlerExit reports a handler returning (err nil) or faulting.
func (t *Tracer) HandlerExit(handlerName string, err error) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled || !t.matchesFilter(handlerName) {
		return
	}
	if len(t.onExit) == 0 {
		if err != nil {
			fmt.Fprintf(t.writer, "[TRACE] EXIT %s error=%v\n", handlerName, err)
		} else {
			fmt.Fprintf(t.writer, "[TRACE] EXIT %s\n", handlerName)
		}
		return
	}
	for _, cb := range t.onExit {
		cb(handlerName, err)
	}
}

// Pause/Resume implement spec §6's "paused/resume control". Suspension
// in this system only happens between ticks (spec §5), so Paused is a
// flag for a driver to check before starting the next tick; the Tracer
// never consults it mid-handler, and cmd/shockctl's tick loop does not
// consult it.
func (t *Tracer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = true
}

func (t *Tracer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paused = false
}

func (t *Tracer) Paused() bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paused
}
