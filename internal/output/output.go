package output

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/crimson-sun/artisanize/internal/model"
)

// Output defines the interface for Artisan profile destinations.
type Output interface {
	Write(ctx context.Context, p *model.Profile) error
	Close() error
}

var ErrSerialization = errors.New("write failed")

// SerializationError reports a failure to write a profile to its destination.
type SerializationError struct {
	Path string
	Err  error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrSerialization, e.Path, e.Err)
}

func (e *SerializationError) Unwrap() []error { return []error{ErrSerialization, e.Err} }

// DefaultFilename derives "<name>_<uid[:8]>.csv" with every character of name
// outside [A-Za-z0-9_-] replaced by an underscore.
func DefaultFilename(name, uid string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
	return safe + "_" + prefix(uid, 8) + ".csv"
}

// prefix returns the first n characters (runes) of s.
func prefix(s string, n int) string {
	i := 0
	for j := range s {
		if i == n {
			return s[:j]
		}
		i++
	}
	return s
}
