package value

import (
	"errors"
	"fmt"
)

var (
	// ErrCorrupt reports that on-disk bytes cannot be trusted.
	ErrCorrupt = errors.New("database disk image is malformed")

	// ErrInvalidArgument reports a value the encoder cannot represent.
	ErrInvalidArgument = errors.New("invalid argument")
)

// CorruptError describes where a malformed record was detected.
// It matches ErrCorrupt with errors.Is.
type CorruptError struct {
	Offset int    // byte offset within the record, or -1 if unknown
	Reason string // e.g. "header length 300 exceeds payload size 12"
}

func (e *CorruptError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("%v: %s", ErrCorrupt, e.Reason)
	}
	return fmt.Sprintf("%v: %s (offset %d)", ErrCorrupt, e.Reason, e.Offset)
}

func (e *CorruptError) Unwrap() error { return ErrCorrupt }

// Corruptf returns a *CorruptError for offset with a formatted reason.
func Corruptf(offset int, format string, args ...any) error {
	return &CorruptError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}

// IsCorrupt reports whether err, or any error it wraps, is ErrCorrupt.
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrCorrupt)
}

// IsInvalidArgument reports whether err, or any error it wraps, is ErrInvalidArgument.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}
