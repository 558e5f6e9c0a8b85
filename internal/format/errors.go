package format

import "errors"

var (
	// ErrOddLength indicates a UTF-16 payload with a dangling half code unit.
	ErrOddLength = errors.New("format: utf-16 data has odd length")
	// ErrBadSurrogate indicates an unpaired UTF-16 surrogate.
	ErrBadSurrogate = errors.New("format: unpaired utf-16 surrogate")
)
