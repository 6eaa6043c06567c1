package ports

import "context"

// BinaryProvider locates or fetches a minimal browser build for constrained deployments.
type BinaryProvider interface {
	// Name identifies the provider in logs.
	Name() string

	// Provide returns the executable and whatever launch settings the provider recommends.
	// Args and Headless may be left empty; callers substitute defaults.
	Provide(ctx context.Context) (BinaryConfig, error)
}

// BinaryConfig is what a BinaryProvider hands back.
type BinaryConfig struct {
	ExecutablePath string
	Args           []string
	Headless       *bool
}
