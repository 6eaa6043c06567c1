package pipeline

import (
	"context"
	"errors"
)

// Sentinel errors for the render pipeline. Stages wrap them with the underlying cause.
var (
	ErrClientInput     = errors.New("invalid request")
	ErrLaunch          = errors.New("browser launch failed")
	ErrNavigation      = errors.New("navigation failed")
	ErrMarkerNotFound  = errors.New("poster content did not become visible")
	ErrElementNotFound = errors.New("poster element not found")
	ErrBoundingBox     = errors.New("could not get poster element bounds")
	ErrRenderTimeout   = errors.New("render timed out")
	ErrEncode          = errors.New("encode output failed")
)

// ErrorKind is the taxonomy name of a pipeline error.
type ErrorKind string

const (
	KindClientInput     ErrorKind = "ClientInputError"
	KindLaunch          ErrorKind = "LaunchError"
	KindNavigation      ErrorKind = "NavigationError"
	KindMarkerNotFound  ErrorKind = "MarkerNotFoundError"
	KindElementNotFound ErrorKind = "ElementNotFoundError"
	KindBoundingBox     ErrorKind = "BoundingBoxError"
	KindRenderTimeout   ErrorKind = "RenderTimeoutError"
	KindEncode          ErrorKind = "EncodeError"
	KindInternal        ErrorKind = "InternalError"
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrClientInput, KindClientInput},
	{ErrLaunch, KindLaunch},
	{ErrNavigation, KindNavigation},
	{ErrMarkerNotFound, KindMarkerNotFound},
	{ErrElementNotFound, KindElementNotFound},
	{ErrBoundingBox, KindBoundingBox},
	{ErrRenderTimeout, KindRenderTimeout},
	{ErrEncode, KindEncode},
}

// KindOf classifies err. Unwrapped deadline errors count as timeouts;
// anything else unknown is internal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindRenderTimeout
	}
	return KindInternal
}

// IsClientError reports whether err should be answered with a 4xx.
func IsClientError(err error) bool {
	return errors.Is(err, ErrClientInput)
}
