// Copyright 2025 The kbroker Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package kerrors is the internal error taxonomy for the protocol codec.
//
// These are distinct from the wire-level error codes in protocol/kafka:
// a kerrors value means the connection driver cannot trust the byte
// stream any further and must stop serving that connection. A wire
// error code, by contrast, is a well-formed response the client can act
// on and never terminates the connection.
package kerrors

import "github.com/pkg/errors"

var (
	// ErrTruncated is returned when a decoder runs out of input before
	// it finished reading a value's declared length.
	ErrTruncated = errors.New("truncated input")

	// ErrVarintOverflow is returned when a varint would need more bytes
	// than its target width allows (5 for u32, 10 for u64).
	ErrVarintOverflow = errors.New("varint overflow")

	// ErrFraming is returned when a record batch's declared batch_length
	// does not match the bytes actually consumed, or when per-record
	// framing disagrees with the record's own length prefix.
	ErrFraming = errors.New("record batch framing mismatch")
)

// Truncated wraps ErrTruncated with context, e.g. the field being decoded.
func Truncated(format string, args ...any) error {
	return errors.Wrapf(ErrTruncated, format, args...)
}

// VarintOverflow wraps ErrVarintOverflow with context.
func VarintOverflow(format string, args ...any) error {
	return errors.Wrapf(ErrVarintOverflow, format, args...)
}

// Framing wraps ErrFraming with context.
func Framing(format string, args ...any) error {
	return errors.Wrapf(ErrFraming, format, args...)
}
