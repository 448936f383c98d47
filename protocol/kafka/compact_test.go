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
)

func TestCompactStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "foo", "kafka-cli"} {
		encoded := EncodeCompactString(nil, s)
		assert.Equal(t, SizeCompactString(s), len(encoded))

		decoded, n, err := DecodeCompactString(encoded, 0)
		require.NoError(t, err)
		assert.Equal(t, s, decoded)
		assert.Equal(t, len(encoded), n)
	}
}

func TestCompactStringEmptyIsLengthOne(t *testing.T) {
	encoded := EncodeCompactString(nil, "")
	assert.Equal(t, []byte{0x01}, encoded)
}

func TestDecodeCompactStringNullIsError(t *testing.T) {
	_, _, err := DecodeCompactString([]byte{0x00}, 0)
	assert.Error(t, err)
}

func TestCompactNullableStringRoundTrip(t *testing.T) {
	encoded := EncodeCompactNullableString(nil, nil)
	assert.Equal(t, []byte{0x00}, encoded)

	decoded, n, err := DecodeCompactNullableString(encoded, 0)
	require.NoError(t, err)
	assert.Nil(t, decoded)
	assert.Equal(t, 1, n)

	s := "topic"
	encoded = EncodeCompactNullableString(nil, &s)
	decoded, _, err = DecodeCompactNullableString(encoded, 0)
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.Equal(t, s, *decoded)
}

func TestCompactNullableBytesNullVsEmpty(t *testing.T) {
	nullEncoded := EncodeCompactNullableBytes(nil, nil)
	assert.Equal(t, []byte{0x00}, nullEncoded)

	emptyEncoded := EncodeCompactNullableBytes(nil, []byte{})
	assert.Equal(t, []byte{0x01}, emptyEncoded)

	raw := []byte{1, 2, 3}
	encoded := EncodeCompactNullableBytes(nil, raw)
	decoded, n, err := DecodeCompactNullableBytes(encoded, 0)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
	assert.Equal(t, len(encoded), n)
}

func TestCompactArrayNullEmptyAndPopulated(t *testing.T) {
	encodeElem := func(out []byte, v int32) []byte { return EncodeInt32(out, v) }

	nullArr := EncodeUnsignedVarint(nil, 0)
	decoded, n, err := DecodeCompactArray(nullArr, 0, DecodeInt32)
	require.NoError(t, err)
	assert.Nil(t, decoded)
	assert.Equal(t, 1, n)

	emptyEncoded := EncodeCompactArray[int32](nil, []int32{}, encodeElem)
	decodedEmpty, _, err := DecodeCompactArray(emptyEncoded, 0, DecodeInt32)
	require.NoError(t, err)
	assert.NotNil(t, decodedEmpty)
	assert.Empty(t, decodedEmpty)

	values := []int32{1, 2, 3}
	encoded := EncodeCompactArray(nil, values, encodeElem)
	assert.Equal(t, SizeCompactArray(values, func(int32) int { return 4 }), len(encoded))

	decodedValues, n, err := DecodeCompactArray(encoded, 0, DecodeInt32)
	require.NoError(t, err)
	assert.Equal(t, values, decodedValues)
	assert.Equal(t, len(encoded), n)
}

func TestTaggedFieldsSectionEmptyIsSingleZeroByte(t *testing.T) {
	encoded := EncodeTaggedFieldsSection(nil, EmptyTaggedFields)
	assert.Equal(t, []byte{0x00}, encoded)

	decoded, n, err := DecodeTaggedFieldsSection(encoded, 0)
	require.NoError(t, err)
	assert.Empty(t, decoded.Fields)
	assert.Equal(t, 1, n)
}

func TestTaggedFieldsSectionRoundTrip(t *testing.T) {
	section := TaggedFieldsSection{Fields: []TaggedField{
		{Tag: 1, Payload: []byte{0xAA, 0xBB}},
		{Tag: 5, Payload: []byte{}},
	}}
	encoded := EncodeTaggedFieldsSection(nil, section)
	assert.Equal(t, SizeTaggedFieldsSection(section), len(encoded))

	decoded, n, err := DecodeTaggedFieldsSection(encoded, 0)
	require.NoError(t, err)
	assert.Equal(t, len(encoded), n)
	require.Len(t, decoded.Fields, 2)
	assert.Equal(t, uint32(1), decoded.Fields[0].Tag)
	assert.Equal(t, []byte{0xAA, 0xBB}, decoded.Fields[0].Payload)
}
