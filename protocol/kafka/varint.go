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

package kafka

import "github.com/kbroker/kbroker/internal/kerrors"

// maxVarintBytes is the widest a u32 unsigned varint is allowed to be.
// Five groups of 7 bits cover the full 32-bit range; a sixth group would
// only ever appear from a non-conformant encoder.
const maxVarintBytes = 5

// UnsignedVarint is a decoded base-128 varint together with the number
// of bytes it occupied on the wire. byte_count always equals the number
// of bytes required to re-encode Value.
type UnsignedVarint struct {
	Value     uint32
	ByteCount int
}

// DecodeUnsignedVarint reads a Protobuf-style base-128 varint: 7-bit
// groups, little-endian, continuation bit is the MSB of each byte.
func DecodeUnsignedVarint(b []byte, off int) (UnsignedVarint, error) {
	var value uint32
	var shift uint
	for i := 0; i < maxVarintBytes; i++ {
		if off+i >= len(b) {
			return UnsignedVarint{}, kerrors.Truncated("varint at offset %d", off)
		}
		c := b[off+i]
		value |= uint32(c&0x7f) << shift
		if c&0x80 == 0 {
			return UnsignedVarint{Value: value, ByteCount: i + 1}, nil
		}
		shift += 7
	}
	return UnsignedVarint{}, kerrors.VarintOverflow("varint at offset %d exceeds %d bytes", off, maxVarintBytes)
}

// EncodeUnsignedVarint appends v as a base-128 varint.
func EncodeUnsignedVarint(out []byte, v uint32) []byte {
	for v >= 0x80 {
		out = append(out, byte(v)|0x80)
		v >>= 7
	}
	return append(out, byte(v))
}

// SizeUnsignedVarint returns the number of bytes EncodeUnsignedVarint
// would emit for v, without allocating.
func SizeUnsignedVarint(v uint32) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

// DecodeSignedVarint reads a zig-zag-encoded i32.
func DecodeSignedVarint(b []byte, off int) (int32, int, error) {
	u, err := DecodeUnsignedVarint(b, off)
	if err != nil {
		return 0, 0, err
	}
	n := int32(u.Value>>1) ^ -(int32(u.Value) & 1)
	return n, u.ByteCount, nil
}

// EncodeSignedVarint appends a zig-zag-encoded i32.
func EncodeSignedVarint(out []byte, v int32) []byte {
	zz := uint32(v<<1) ^ uint32(v>>31)
	return EncodeUnsignedVarint(out, zz)
}

// SizeSignedVarint returns the number of bytes EncodeSignedVarint would emit.
func SizeSignedVarint(v int32) int {
	zz := uint32(v<<1) ^ uint32(v>>31)
	return SizeUnsignedVarint(zz)
}

// DecodeVarlong reads a zig-zag-encoded i64 (Kafka's "varlong"), used for
// record timestamp_delta.
func DecodeVarlong(b []byte, off int) (int64, int, error) {
	var value uint64
	var shift uint
	for i := 0; i < 10; i++ {
		if off+i >= len(b) {
			return 0, 0, kerrors.Truncated("varlong at offset %d", off)
		}
		c := b[off+i]
		value |= uint64(c&0x7f) << shift
		if c&0x80 == 0 {
			n := int64(value>>1) ^ -(int64(value) & 1)
			return n, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, kerrors.VarintOverflow("varlong at offset %d exceeds 10 bytes", off)
}

// EncodeVarlong appends a zig-zag-encoded i64.
func EncodeVarlong(out []byte, v int64) []byte {
	zz := uint64(v<<1) ^ uint64(v>>63)
	for zz >= 0x80 {
		out = append(out, byte(zz)|0x80)
		zz >>= 7
	}
	return append(out, byte(zz))
}

// SizeVarlong returns the number of bytes EncodeVarlong would emit.
func SizeVarlong(v int64) int {
	zz := uint64(v<<1) ^ uint64(v>>63)
	n := 1
	for zz >= 0x80 {
		zz >>= 7
		n++
	}
	return n
}
