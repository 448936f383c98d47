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

// The "+1 / 0 = null" length adjustment lives only in this file. Every
// handler and record decoder above this layer works in terms of logical
// lengths and never sees the wire's off-by-one.

// DecodeCompactString reads a non-nullable compact string. A wire length
// of 0 is an encoding error for this variant.
func DecodeCompactString(b []byte, off int) (string, int, error) {
	s, n, err := decodeCompactStringBody(b, off, false)
	if err != nil {
		return "", 0, err
	}
	if s == nil {
		return "", 0, kerrors.Truncated("compact string at offset %d encoded as null", off)
	}
	return *s, n, nil
}

// DecodeCompactNullableString reads a compact string that may be null
// (wire length 0).
func DecodeCompactNullableString(b []byte, off int) (*string, int, error) {
	return decodeCompactStringBody(b, off, true)
}

func decodeCompactStringBody(b []byte, off int, nullable bool) (*string, int, error) {
	l, err := DecodeUnsignedVarint(b, off)
	if err != nil {
		return nil, 0, err
	}
	if l.Value == 0 {
		if !nullable {
			return nil, 0, kerrors.Truncated("non-nullable compact string null at offset %d", off)
		}
		return nil, l.ByteCount, nil
	}
	strLen := int(l.Value - 1)
	start := off + l.ByteCount
	end := start + strLen
	if end > len(b) {
		return nil, 0, kerrors.Truncated("compact string body at offset %d", start)
	}
	s := string(b[start:end])
	return &s, l.ByteCount + strLen, nil
}

// SizeCompactString returns the wire size of a non-null compact string.
func SizeCompactString(s string) int {
	return SizeUnsignedVarint(uint32(len(s)+1)) + len(s)
}

// EncodeCompactString appends a non-nullable compact string.
func EncodeCompactString(out []byte, s string) []byte {
	out = EncodeUnsignedVarint(out, uint32(len(s)+1))
	return append(out, s...)
}

// EncodeCompactNullableString appends a compact string, or the null
// encoding (varint 0) when v is nil.
func EncodeCompactNullableString(out []byte, v *string) []byte {
	if v == nil {
		return EncodeUnsignedVarint(out, 0)
	}
	return EncodeCompactString(out, *v)
}

// SizeCompactNullableString returns the wire size, including the null case.
func SizeCompactNullableString(v *string) int {
	if v == nil {
		return SizeUnsignedVarint(0)
	}
	return SizeCompactString(*v)
}

// DecodeCompactNullableBytes reads a compact byte slice that may be null.
// Used for CompactRecords, whose payload is raw record-batch bytes.
func DecodeCompactNullableBytes(b []byte, off int) ([]byte, int, error) {
	l, err := DecodeUnsignedVarint(b, off)
	if err != nil {
		return nil, 0, err
	}
	if l.Value == 0 {
		return nil, l.ByteCount, nil
	}
	byteLen := int(l.Value - 1)
	start := off + l.ByteCount
	end := start + byteLen
	if end > len(b) {
		return nil, 0, kerrors.Truncated("compact bytes body at offset %d", start)
	}
	return b[start:end], l.ByteCount + byteLen, nil
}

// EncodeCompactNullableBytes appends a compact byte slice, or the null
// encoding (varint 0) when v is nil. A non-nil, zero-length slice encodes
// as the empty-but-present case (varint 1).
func EncodeCompactNullableBytes(out []byte, v []byte) []byte {
	if v == nil {
		return EncodeUnsignedVarint(out, 0)
	}
	out = EncodeUnsignedVarint(out, uint32(len(v)+1))
	return append(out, v...)
}

// SizeCompactNullableBytes returns the wire size, including the null case.
func SizeCompactNullableBytes(v []byte) int {
	if v == nil {
		return SizeUnsignedVarint(0)
	}
	return SizeUnsignedVarint(uint32(len(v)+1)) + len(v)
}

// DecodeCompactArray reads a compact array of T. A nil returned slice
// means the wire encoded null; a non-nil empty slice means the wire
// encoded an explicit empty array.
func DecodeCompactArray[T any](b []byte, off int, decodeElem func([]byte, int) (T, int, error)) ([]T, int, error) {
	l, err := DecodeUnsignedVarint(b, off)
	if err != nil {
		return nil, 0, err
	}
	if l.Value == 0 {
		return nil, l.ByteCount, nil
	}
	count := int(l.Value - 1)
	elems := make([]T, 0, count)
	consumed := l.ByteCount
	for i := 0; i < count; i++ {
		elem, n, err := decodeElem(b, off+consumed)
		if err != nil {
			return nil, 0, err
		}
		elems = append(elems, elem)
		consumed += n
	}
	return elems, consumed, nil
}

// EncodeCompactArray appends a non-null compact array. An empty or nil
// elems encodes as wire length 1 (the empty array); this function never
// emits the null encoding (wire length 0).
func EncodeCompactArray[T any](out []byte, elems []T, encodeElem func([]byte, T) []byte) []byte {
	out = EncodeUnsignedVarint(out, uint32(len(elems)+1))
	for _, e := range elems {
		out = encodeElem(out, e)
	}
	return out
}

// SizeCompactArray returns the wire size of a non-null compact array.
func SizeCompactArray[T any](elems []T, sizeElem func(T) int) int {
	n := SizeUnsignedVarint(uint32(len(elems) + 1))
	for _, e := range elems {
		n += sizeElem(e)
	}
	return n
}
