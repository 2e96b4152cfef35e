package huffcodec

import (
	"errors"
)

var (
	// ErrEmptyInput is returned when there are no symbols to encode, or when
	// a header declares zero symbols.
	ErrEmptyInput = errors.New("huffcodec: empty input")

	// ErrHeaderCorrupt is returned when a header is truncated or malformed.
	ErrHeaderCorrupt = errors.New("huffcodec: corrupt header")

	// ErrQueueOverflow is returned when the node queue would exceed its
	// capacity of 2*NumSymbols-1 nodes.  It should be unreachable.
	ErrQueueOverflow = errors.New("huffcodec: node queue overflow")

	// ErrCorruptPayload is returned when the packed payload ends before the
	// header's symbol total has been decoded, or when it contains a bit
	// sequence that the tree cannot represent.
	ErrCorruptPayload = errors.New("huffcodec: corrupt payload")

	// ErrInputTooLarge is returned when a symbol occurs more often than the
	// 32-bit header frequency field can record.
	ErrInputTooLarge = errors.New("huffcodec: input too large")

	// ErrUnknownSymbol is returned when asked to encode a byte that has no
	// code in the table.
	ErrUnknownSymbol = errors.New("huffcodec: symbol has no code")

	// ErrSourceChanged is returned when a two-pass compression sees
	// different bytes on its second pass than on its first.
	ErrSourceChanged = errors.New("huffcodec: source changed between passes")
)

// SourceReadError wraps a failure reported by the byte source.
type SourceReadError struct {
	Err error
}

// Error fulfills the error interface.
func (err *SourceReadError) Error() string {
	return "huffcodec: read failed: " + err.Err.Error()
}

// Unwrap returns the underlying error.
func (err *SourceReadError) Unwrap() error {
	return err.Err
}

// SinkWriteError wraps a failure reported by the byte sink.
type SinkWriteError struct {
	Err error
}

// Error fulfills the error interface.
func (err *SinkWriteError) Error() string {
	return "huffcodec: write failed: " + err.Err.Error()
}

// Unwrap returns the underlying error.
func (err *SinkWriteError) Unwrap() error {
	return err.Err
}

var (
	_ error = (*SourceReadError)(nil)
	_ error = (*SinkWriteError)(nil)
)

func readError(err error) error {
	if err == nil {
		return nil
	}
	var sre *SourceReadError
	if errors.As(err, &sre) {
		return err
	}
	return &SourceReadError{Err: err}
}

func writeError(err error) error {
	if err == nil {
		return nil
	}
	var swe *SinkWriteError
	if errors.As(err, &swe) {
		return err
	}
	return &SinkWriteError{Err: err}
}
