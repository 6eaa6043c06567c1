package ports

// DebugSink receives intermediate render artifacts.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveCapture saves the raw clipped capture before post-processing.
	SaveCapture(requestID string, data []byte) error

	// SaveBoundingBox saves the marker bounds as JSON.
	SaveBoundingBox(requestID string, data []byte) error

	// SaveReport saves the per-request render report as JSON.
	SaveReport(requestID string, data []byte) error
}
