package assistant

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// FailureKind classifies why a model call failed. Callers use it to decide
// which fallback message to serve and which metric to bump.
type FailureKind int

const (
	// FailureBackend covers errors returned by the model backend itself
	// (bad request, quota, server-side failure).
	FailureBackend FailureKind = iota

	// FailureTimeout means the call exceeded its deadline.
	FailureTimeout

	// FailureTransport means the backend could not be reached at all.
	FailureTransport
)

// String returns the metric-friendly label for the failure kind.
func (k FailureKind) String() string {
	switch k {
	case FailureTimeout:
		return "timeout"
	case FailureTransport:
		return "transport"
	default:
		return "backend"
	}
}

// BackendError wraps a model-call failure with its classification.
type BackendError struct {
	Kind FailureKind
	Err  error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("model call failed (%s): %v", e.Kind, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// classify maps a raw model-call error to a FailureKind.
func classify(err error) FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return FailureTimeout
		}
		return FailureTransport
	}
	return FailureBackend
}

// generate runs a single chat completion with a hard deadline and returns the
// response text. All failures come back as *BackendError.
func generate(ctx context.Context, m model.BaseChatModel, msgs []*schema.Message, timeout time.Duration) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := m.Generate(ctx, msgs)
	if err != nil {
		return "", &BackendError{Kind: classify(err), Err: err}
	}
	if resp == nil {
		return "", &BackendError{Kind: FailureBackend, Err: fmt.Errorf("nil response")}
	}

	return resp.Content, nil
}
