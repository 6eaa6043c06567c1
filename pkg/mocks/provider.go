package mocks

import (
	"context"

	"github.com/user/mdposter/pkg/ports"
)

// BinaryProvider is a mock implementation of ports.BinaryProvider.
type BinaryProvider struct {
	NameValue   string
	ProvideFunc func(ctx context.Context) (ports.BinaryConfig, error)
}

func (m *BinaryProvider) Name() string {
	if m.NameValue != "" {
		return m.NameValue
	}
	return "mock"
}

func (m *BinaryProvider) Provide(ctx context.Context) (ports.BinaryConfig, error) {
	if m.ProvideFunc != nil {
		return m.ProvideFunc(ctx)
	}
	return ports.BinaryConfig{}, nil
}

var _ ports.BinaryProvider = (*BinaryProvider)(nil)
