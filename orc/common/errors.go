package common

import "github.com/pkg/errors"

// Error kinds surfaced by the decoder. Sites wrap one of these with context,
// callers classify with errors.Is.
var (
	// ErrMismatchedSchema output field tree disagrees with the ORC type tree.
	ErrMismatchedSchema = errors.New("mismatched schema")
	// ErrUnsupportedTypeVariant a valid but unsupported case, e.g. a sorted map.
	ErrUnsupportedTypeVariant = errors.New("unsupported type variant")
	// ErrUnexpected an internal shape invariant does not hold.
	ErrUnexpected = errors.New("unexpected")
	// ErrInvalidColumn a stream mandatory for the column type is missing.
	ErrInvalidColumn = errors.New("invalid column")
	// ErrIo reading or decompressing a byte range failed.
	ErrIo = errors.New("io")
	// ErrDecodeProto the stripe footer is malformed.
	ErrDecodeProto = errors.New("decode proto")
	// ErrCorrupt encoded stream data is inconsistent.
	ErrCorrupt = errors.New("corrupt data")
	// ErrArrow lengths, offsets and children of an output array disagree.
	ErrArrow = errors.New("arrow construction")
)
