package converter

import (
	"github.com/pkg/errors"

	"github.com/sessionport/sessionport/converter/codec"
	"github.com/sessionport/sessionport/converter/container"
	"github.com/sessionport/sessionport/converter/encryption"
)

// Every error returned by a Converter matches exactly one of these kinds with
// errors.Is.
var (
	ErrIO           = container.ErrIO
	ErrFormat       = container.ErrFormat
	ErrInvalidKey   = encryption.ErrInvalidKey
	ErrIntegrity    = encryption.ErrIntegrity
	ErrParse        = errors.New("invalid session record")
	ErrMissingField = errors.New("missing session field")
	ErrRange        = codec.ErrRange
)

var errorKinds = []error{
	ErrIO,
	ErrFormat,
	ErrInvalidKey,
	ErrIntegrity,
	ErrParse,
	ErrMissingField,
	ErrRange,
}

// Kind returns the error kind err belongs to, or nil if it belongs to none.
func Kind(err error) error {
	for _, kind := range errorKinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
