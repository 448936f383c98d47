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

// Package kafka implements the Kafka wire protocol's binary codec: fixed
// width primitives, varints, compact strings/arrays, tagged fields, and
// request/response headers. All multi-byte integers are big-endian.
package kafka

import (
	"encoding/binary"

	"github.com/google/uuid"

	"github.com/kbroker/kbroker/internal/kerrors"
)

// DecodeInt8 reads a one-byte signed integer.
func DecodeInt8(b []byte, off int) (int8, int, error) {
	if off+1 > len(b) {
		return 0, 0, kerrors.Truncated("int8 at offset %d", off)
	}
	return int8(b[off]), 1, nil
}

// EncodeInt8 appends a one-byte signed integer.
func EncodeInt8(out []byte, v int8) []byte {
	return append(out, byte(v))
}

// DecodeBool reads a one-byte boolean (0x00/0x01).
func DecodeBool(b []byte, off int) (bool, int, error) {
	v, n, err := DecodeInt8(b, off)
	if err != nil {
		return false, 0, err
	}
	return v != 0, n, nil
}

// EncodeBool appends a one-byte boolean.
func EncodeBool(out []byte, v bool) []byte {
	if v {
		return append(out, 1)
	}
	return append(out, 0)
}

// DecodeInt16 reads a two-byte big-endian signed integer.
func DecodeInt16(b []byte, off int) (int16, int, error) {
	if off+2 > len(b) {
		return 0, 0, kerrors.Truncated("int16 at offset %d", off)
	}
	return int16(binary.BigEndian.Uint16(b[off : off+2])), 2, nil
}

// EncodeInt16 appends a two-byte big-endian signed integer.
func EncodeInt16(out []byte, v int16) []byte {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(v))
	return append(out, buf[:]...)
}

// DecodeInt32 reads a four-byte big-endian signed integer.
func DecodeInt32(b []byte, off int) (int32, int, error) {
	if off+4 > len(b) {
		return 0, 0, kerrors.Truncated("int32 at offset %d", off)
	}
	return int32(binary.BigEndian.Uint32(b[off : off+4])), 4, nil
}

// EncodeInt32 appends a four-byte big-endian signed integer.
func EncodeInt32(out []byte, v int32) []byte {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	return append(out, buf[:]...)
}

// DecodeInt64 reads an eight-byte big-endian signed integer.
func DecodeInt64(b []byte, off int) (int64, int, error) {
	if off+8 > len(b) {
		return 0, 0, kerrors.Truncated("int64 at offset %d", off)
	}
	return int64(binary.BigEndian.Uint64(b[off : off+8])), 8, nil
}

// EncodeInt64 appends an eight-byte big-endian signed integer.
func EncodeInt64(out []byte, v int64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	return append(out, buf[:]...)
}

// DecodeUUID reads a 16-byte UUID, byte-for-byte as it appears on the
// wire (not RFC-4122 lexical order).
func DecodeUUID(b []byte, off int) (uuid.UUID, int, error) {
	if off+16 > len(b) {
		return uuid.Nil, 0, kerrors.Truncated("uuid at offset %d", off)
	}
	var u uuid.UUID
	copy(u[:], b[off:off+16])
	return u, 16, nil
}

// EncodeUUID appends a 16-byte UUID verbatim.
func EncodeUUID(out []byte, v uuid.UUID) []byte {
	return append(out, v[:]...)
}

// DecodeNullableString reads an INT16-length-prefixed string; length -1
// denotes null. Used by RequestHeaderV2.client_id, which predates the
// compact-string convention.
func DecodeNullableString(b []byte, off int) (*string, int, error) {
	length, n, err := DecodeInt16(b, off)
	if err != nil {
		return nil, 0, err
	}
	if length < 0 {
		return nil, n, nil
	}
	start := off + n
	end := start + int(length)
	if end > len(b) {
		return nil, 0, kerrors.Truncated("nullable string body at offset %d", start)
	}
	s := string(b[start:end])
	return &s, n + int(length), nil
}

// EncodeNullableString appends an INT16-length-prefixed string, or -1 for nil.
func EncodeNullableString(out []byte, v *string) []byte {
	if v == nil {
		return EncodeInt16(out, -1)
	}
	out = EncodeInt16(out, int16(len(*v)))
	return append(out, *v...)
}
