// Package diag centralizes the diagnostic sink used across the container
// decoder, VM, and dispatcher so that a single malformed chunk or faulting
// handler never halts the rest of the system (spec §7): failures are
// recorded here and execution continues.
package diag

import (
	"fmt"
	"log"
	"os"
	"sync"
)

// Sink receives non-fatal diagnostics. Implementations must be safe for
// concurrent use.
type Sink interface {
	ChunkFault(tag string, offset int, reason error)
	OpFault(handler string, offset int, reason error)
	VMFault(kind string, handler string, offset int, reason error)
	Info(format string, args ...any)
}

// logSink is the default Sink, backed by a standard library logger. It
// mirrors barn/trace.Tracer's shape: a mutex-guarded writer, enabled by
// construction rather than toggled globally.
type logSink struct {
	mu  sync.Mutex
	log *log.Logger
}

// NewLogSink creates a Sink that writes to stderr with a "shockwave: " prefix.
func NewLogSink() Sink {
	return &logSink{log: log.New(os.Stderr, "shockwave: ", log.LstdFlags)}
}

func (s *logSink) ChunkFault(tag string, offset int, reason error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.Printf("chunk fault: tag=%s offset=%d: %v", tag, offset, reason)
}

func (s *logSink) OpFault(handler string, offset int, reason error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.Printf("op fault: handler=%s offset=%d: %v", handler, offset, reason)
}

func (s *logSink) VMFault(kind string, handler string, offset int, reason error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.Printf("vm fault: kind=%s handler=%s offset=%d: %v", kind, handler, offset, reason)
}

func (s *logSink) Info(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.Printf(format, args...)
}

// noopSink discards all diagnostics. Used by tests that want silence.
type noopSink struct{}

// NewNoopSink returns a Sink that discards everything.
func NewNoopSink() Sink { return noopSink{} }

func (noopSink) ChunkFault(string, int, error)      {}
func (noopSink) OpFault(string, int, error)         {}
func (noopSink) VMFault(string, string, int, error) {}
func (noopSink) Info(string, ...any)                {}

// CollectingSink records diagnostics in memory; used by tests that assert
// on the number or shape of faults raised.
type CollectingSink struct {
	mu     sync.Mutex
	Chunks []string
	Ops    []string
	VMs    []string
	Infos  []string
}

// NewCollectingSink returns a Sink that records every call for inspection.
func NewCollectingSink() *CollectingSink { return &CollectingSink{} }

func (c *CollectingSink) ChunkFault(tag string, offset int, reason error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Chunks = append(c.Chunks, fmt.Sprintf("%s@%d: %v", tag, offset, reason))
}

func (c *CollectingSink) OpFault(handler string, offset int, reason error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Ops = append(c.Ops, fmt.Sprintf("%s@%d: %v", handler, offset, reason))
}

func (c *CollectingSink) VMFault(kind string, handler string, offset int, reason error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.VMs = append(c.VMs, fmt.Sprintf("%s %s@%d: %v", kind, handler, offset, reason))
}

func (c *CollectingSink) Info(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Infos = append(c.Infos, fmt.Sprintf(format, args...))
}

// Count returns the total number of diagnostics recorded across all kinds.
func (c *CollectingSink) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Chunks) + len(c.Ops) + len(c.VMs) + len(c.Infos)
}
