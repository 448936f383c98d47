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

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedWidthIntRoundTrip(t *testing.T) {
	b8, _, err := DecodeInt8(EncodeInt8(nil, -5), 0)
	require.NoError(t, err)
	assert.EqualValues(t, -5, b8)

	b16, _, err := DecodeInt16(EncodeInt16(nil, -12345), 0)
	require.NoError(t, err)
	assert.EqualValues(t, -12345, b16)

	b32, _, err := DecodeInt32(EncodeInt32(nil, -123456789), 0)
	require.NoError(t, err)
	assert.EqualValues(t, -123456789, b32)

	b64, _, err := DecodeInt64(EncodeInt64(nil, -1), 0)
	require.NoError(t, err)
	assert.EqualValues(t, -1, b64)
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, EncodeInt64(nil, -1))
}

func TestBoolRoundTrip(t *testing.T) {
	for _, v := range []bool{true, false} {
		decoded, n, err := DecodeBool(EncodeBool(nil, v), 0)
		require.NoError(t, err)
		assert.Equal(t, v, decoded)
		assert.Equal(t, 1, n)
	}
}

func TestUUIDRoundTrip(t *testing.T) {
	u := uuid.New()
	decoded, n, err := DecodeUUID(EncodeUUID(nil, u), 0)
	require.NoError(t, err)
	assert.Equal(t, u, decoded)
	assert.Equal(t, 16, n)
}

func TestUUIDTruncated(t *testing.T) {
	_, _, err := DecodeUUID(make([]byte, 15), 0)
	assert.Error(t, err)
}

func TestNullableStringNullAndValue(t *testing.T) {
	encoded := EncodeNullableString(nil, nil)
	assert.Equal(t, []byte{0xFF, 0xFF}, encoded)

	decoded, n, err := DecodeNullableString(encoded, 0)
	require.NoError(t, err)
	assert.Nil(t, decoded)
	assert.Equal(t, 2, n)

	s := "kafka-cli"
	encoded = EncodeNullableString(nil, &s)
	decoded, n, err = DecodeNullableString(encoded, 0)
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.Equal(t, s, *decoded)
	assert.Equal(t, len(encoded), n)
}

func TestTruncatedPrimitives(t *testing.T) {
	_, _, err := DecodeInt32([]byte{0, 0, 0}, 0)
	assert.Error(t, err)

	_, _, err = DecodeInt64(make([]byte, 7), 0)
	assert.Error(t, err)
}
