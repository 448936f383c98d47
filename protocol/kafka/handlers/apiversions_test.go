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

package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbroker/kbroker/protocol/kafka"
)

func TestHandleApiVersionsUnsupportedVersion(t *testing.T) {
	resp := HandleApiVersions(0x674A)
	assert.EqualValues(t, kafka.UnsupportedVersion, resp.ErrorCode)
	assertAdvertisesCoreApis(t, resp)
}

func TestHandleApiVersionsSupported(t *testing.T) {
	resp := HandleApiVersions(4)
	assert.EqualValues(t, kafka.None, resp.ErrorCode)
	assertAdvertisesCoreApis(t, resp)
}

func TestHandleApiVersionsBoundary(t *testing.T) {
	assert.EqualValues(t, kafka.None, HandleApiVersions(0).ErrorCode)
	assert.EqualValues(t, kafka.UnsupportedVersion, HandleApiVersions(5).ErrorCode)
	assert.EqualValues(t, kafka.UnsupportedVersion, HandleApiVersions(-1).ErrorCode)
}

func assertAdvertisesCoreApis(t *testing.T, resp ApiVersionsResponse) {
	t.Helper()
	want := map[int16][2]int16{
		18: {0, 4},
		1:  {0, 16},
		75: {0, 0},
		0:  {0, 11},
	}
	got := make(map[int16][2]int16, len(resp.ApiKeys))
	for _, k := range resp.ApiKeys {
		got[k.ApiKey] = [2]int16{k.MinVersion, k.MaxVersion}
	}
	for key, rng := range want {
		assert.Equal(t, rng, got[key], "api key %d", key)
	}
}

func TestEncodeApiVersionsResponseRoundTripsSize(t *testing.T) {
	resp := HandleApiVersions(4)
	encoded := EncodeApiVersionsResponse(nil, resp)
	assert.Equal(t, SizeApiVersionsResponse(resp), len(encoded))

	decoded, n, err := kafka.DecodeInt16(encoded, 0)
	require.NoError(t, err)
	assert.EqualValues(t, kafka.None, decoded)
	_ = n
}
