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

func TestHandleProduceAlwaysUnknownTopicOrPartition(t *testing.T) {
	req := ProduceRequest{
		TopicData: []ProduceTopicRequest{{
			Name: "foo",
			Partitions: []ProducePartitionRequest{
				{Index: 0, Records: []byte{1, 2, 3}},
			},
		}},
	}

	resp := HandleProduce(req)
	require.Len(t, resp.Responses, 1)
	require.Len(t, resp.Responses[0].PartitionResponses, 1)

	part := resp.Responses[0].PartitionResponses[0]
	assert.EqualValues(t, kafka.UnknownTopicOrPartition, part.ErrorCode)
	assert.EqualValues(t, -1, part.BaseOffset)
	assert.EqualValues(t, -1, part.LogAppendTimeMs)
	assert.EqualValues(t, -1, part.LogStartOffset)
	assert.Empty(t, part.RecordErrors)
	assert.Nil(t, part.ErrorMessage)
}

func TestEncodeProducePartitionResponseNegativeOffsetsAreAllOnes(t *testing.T) {
	part := ProducePartitionResponse{
		Index:           0,
		ErrorCode:       int16(kafka.UnknownTopicOrPartition),
		BaseOffset:      -1,
		LogAppendTimeMs: -1,
		LogStartOffset:  -1,
		RecordErrors:    []RecordError{},
	}
	encoded := encodeProducePartitionResponse(nil, part)
	// index(4) + error_code(2) = 6 bytes before the three i64 offset fields.
	offsets := encoded[6:30]
	assert.Equal(t, []byte{
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
	}, offsets)
}

func TestEncodeProduceResponseRoundTripsSize(t *testing.T) {
	resp := HandleProduce(ProduceRequest{
		TopicData: []ProduceTopicRequest{{
			Name:       "foo",
			Partitions: []ProducePartitionRequest{{Index: 0}},
		}},
	})
	encoded := EncodeProduceResponse(nil, resp)
	assert.Equal(t, SizeProduceResponse(resp), len(encoded))
}
