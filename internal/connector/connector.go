package connector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crimson-sun/artisanize/internal/model"
)

// Source retrieves a fully materialised roast record. There is no partial or
// streamed input: Fetch either returns the whole record or fails.
type Source interface {
	Fetch(ctx context.Context, ref string) (model.RoastRecord, error)
}

// Config holds provider connection settings. Providers ignore what they do
// not need.
type Config struct {
	Endpoint string // base URL for remote providers
	Bucket   string // object-store bucket for roastworld
	Token    string // optional Bearer token
	Timeout  time.Duration
}

var ErrRetrieval = errors.New("retrieval failed")

// RetrievalError wraps a network or file failure for a roast reference.
type RetrievalError struct {
	Provider string
	Ref      string
	Err      error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("%s: %s %q: %v", ErrRetrieval, e.Provider, e.Ref, e.Err)
}

func (e *RetrievalError) Unwrap() []error { return []error{ErrRetrieval, e.Err} }
