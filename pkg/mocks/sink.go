package mocks

import (
	"sync"

	"github.com/user/mdposter/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	Captures map[string][]byte
	Boxes    map[string][]byte
	Reports  map[string][]byte
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:  enabled,
		Captures: make(map[string][]byte),
		Boxes:    make(map[string][]byte),
		Reports:  make(map[string][]byte),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveCapture(requestID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Captures[requestID] = data
	return nil
}

func (m *DebugSink) SaveBoundingBox(requestID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Boxes[requestID] = data
	return nil
}

func (m *DebugSink) SaveReport(requestID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reports[requestID] = data
	return nil
}

// ReportCount returns the number of saved reports.
func (m *DebugSink) ReportCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Reports)
}

var _ ports.DebugSink = (*DebugSink)(nil)

// NullSink is a no-op implementation of ports.DebugSink.
type NullSink struct{}

func (m *NullSink) Enabled() bool                                       { return false }
func (m *NullSink) SaveCapture(requestID string, data []byte) error     { return nil }
func (m *NullSink) SaveBoundingBox(requestID string, data []byte) error { return nil }
func (m *NullSink) SaveReport(requestID string, data []byte) error      { return nil }

var _ ports.DebugSink = (*NullSink)(nil)
