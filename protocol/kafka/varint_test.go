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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbroker/kbroker/internal/kerrors"
)

func TestUnsignedVarintRoundTrip(t *testing.T) {
	cases := []uint32{0, 1, 2, 127, 128, 129, 16383, 16384, 2097151, 2097152, 1<<32 - 1}
	for _, v := range cases {
		encoded := EncodeUnsignedVarint(nil, v)
		assert.Equal(t, SizeUnsignedVarint(v), len(encoded))

		decoded, err := DecodeUnsignedVarint(encoded, 0)
		require.NoError(t, err)
		assert.Equal(t, v, decoded.Value)
		assert.Equal(t, len(encoded), decoded.ByteCount)
		assert.LessOrEqual(t, decoded.ByteCount, maxVarintBytes)
	}
}

func TestUnsignedVarintTruncated(t *testing.T) {
	_, err := DecodeUnsignedVarint([]byte{0x80}, 0)
	assert.Error(t, err)
}

func TestUnsignedVarintOverflow(t *testing.T) {
	overflow := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
	_, err := DecodeUnsignedVarint(overflow, 0)
	assert.ErrorIs(t, err, kerrors.ErrVarintOverflow)
}

func TestSignedVarintZigZag(t *testing.T) {
	// 0,-1,1,-2,2,-3 maps to 0,1,2,3,4,5 per the spec's zig-zag table.
	table := map[int32]uint32{0: 0, -1: 1, 1: 2, -2: 3, 2: 4, -3: 5}
	for n, want := range table {
		encoded := EncodeSignedVarint(nil, n)
		decodedUnsigned, err := DecodeUnsignedVarint(encoded, 0)
		require.NoError(t, err)
		assert.Equal(t, want, decodedUnsigned.Value)

		decoded, n2, err := DecodeSignedVarint(encoded, 0)
		require.NoError(t, err)
		assert.Equal(t, n, decoded)
		assert.Equal(t, SizeSignedVarint(n), n2)
	}
}

func TestVarlongRoundTrip(t *testing.T) {
	cases := []int64{0, 1, -1, 1234567890123, -1234567890123}
	for _, v := range cases {
		encoded := EncodeVarlong(nil, v)
		assert.Equal(t, SizeVarlong(v), len(encoded))

		decoded, n, err := DecodeVarlong(encoded, 0)
		require.NoError(t, err)
		assert.Equal(t, v, decoded)
		assert.Equal(t, len(encoded), n)
	}
}
