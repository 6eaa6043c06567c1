// Package nullsink provides a debug sink that discards everything.
package nullsink

import "github.com/user/mdposter/pkg/ports"

// Sink is a no-op implementation of ports.DebugSink.
type Sink struct{}

// New creates a new Sink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false so callers can skip building debug payloads.
func (s *Sink) Enabled() bool {
	return false
}

func (s *Sink) SaveCapture(requestID string, data []byte) error     { return nil }
func (s *Sink) SaveBoundingBox(requestID string, data []byte) error { return nil }
func (s *Sink) SaveReport(requestID string, data []byte) error      { return nil }

var _ ports.DebugSink = (*Sink)(nil)
