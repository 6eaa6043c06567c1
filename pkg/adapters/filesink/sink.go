// Package filesink writes per-request debug output under a base directory.
package filesink

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/user/mdposter/pkg/ports"
)

// Sink saves debug output to <baseDir>/<requestID>/.
type Sink struct {
	baseDir string
	fs      ports.FileSystem
}

// New creates a new Sink.
func New(baseDir string, fs ports.FileSystem) *Sink {
	return &Sink{
		baseDir: baseDir,
		fs:      fs,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveCapture saves the raw region screenshot.
func (s *Sink) SaveCapture(requestID string, data []byte) error {
	return s.save(requestID, "capture.png", data)
}

// SaveBoundingBox saves the measured element box as JSON.
func (s *Sink) SaveBoundingBox(requestID string, data []byte) error {
	return s.save(requestID, "box.json", data)
}

// SaveReport saves the per-request timing report.
func (s *Sink) SaveReport(requestID string, data []byte) error {
	return s.save(requestID, "report.json", data)
}

func (s *Sink) save(requestID, name string, data []byte) error {
	if requestID == "" || strings.ContainsAny(requestID, `/\`) || strings.Contains(requestID, "..") {
		return fmt.Errorf("invalid request id %q", requestID)
	}
	dir := filepath.Join(s.baseDir, requestID)
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	return s.fs.WriteFile(filepath.Join(dir, name), data)
}

var _ ports.DebugSink = (*Sink)(nil)
