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

package records

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbroker/kbroker/protocol/kafka"
)

func encodeMetadataHeader(typ int8) []byte {
	var b []byte
	b = kafka.EncodeInt8(b, 1) // frame_version
	b = kafka.EncodeInt8(b, typ)
	b = kafka.EncodeInt8(b, 0) // version
	return b
}

func encodeTopicRecordValue(name string, id uuid.UUID) []byte {
	b := encodeMetadataHeader(recordTypeTopic)
	b = kafka.EncodeCompactString(b, name)
	b = kafka.EncodeUUID(b, id)
	return b
}

func encodeInt32ArrayCompact(vs []int32) []byte {
	return kafka.EncodeCompactArray(nil, vs, kafka.EncodeInt32)
}

func encodePartitionRecordValue(p PartitionRecord) []byte {
	b := encodeMetadataHeader(recordTypePartition)
	b = kafka.EncodeInt32(b, p.PartitionID)
	b = kafka.EncodeUUID(b, p.TopicUUID)
	b = append(b, encodeInt32ArrayCompact(p.Replicas)...)
	b = append(b, encodeInt32ArrayCompact(p.ISR)...)
	b = append(b, encodeInt32ArrayCompact(p.Removing)...)
	b = append(b, encodeInt32ArrayCompact(p.Adding)...)
	b = kafka.EncodeInt32(b, p.Leader)
	b = kafka.EncodeInt32(b, p.LeaderEpoch)
	b = kafka.EncodeInt32(b, p.PartitionEpoch)
	b = kafka.EncodeCompactArray(b, p.Directories, kafka.EncodeUUID)
	return b
}

func encodeFeatureLevelRecordValue(name string, level int16) []byte {
	b := encodeMetadataHeader(recordTypeFeatureLevel)
	b = kafka.EncodeCompactString(b, name)
	b = kafka.EncodeInt16(b, level)
	return b
}

func TestSearchUnknownTopicReturnsNil(t *testing.T) {
	batches := []RecordBatch{{Records: []Record{
		{Value: encodeTopicRecordValue("foo", uuid.New())},
	}}}

	topic, partitions, err := Search(batches, BySearchTopicName("missing"), false)
	require.NoError(t, err)
	assert.Nil(t, topic)
	assert.Nil(t, partitions)
}

func TestSearchKnownTopicWithPartitionsSortedAscending(t *testing.T) {
	topicID := uuid.New()
	batches := []RecordBatch{{Records: []Record{
		{Value: encodeTopicRecordValue("bar", topicID)},
		{Value: encodeFeatureLevelRecordValue("some.feature", 1)},
		{Value: encodePartitionRecordValue(PartitionRecord{
			PartitionID: 1, TopicUUID: topicID, Replicas: []int32{1}, Leader: 1,
		})},
		{Value: encodePartitionRecordValue(PartitionRecord{
			PartitionID: 0, TopicUUID: topicID, Replicas: []int32{1}, Leader: 1,
		})},
	}}}

	topic, partitions, err := Search(batches, BySearchTopicName("bar"), false)
	require.NoError(t, err)
	require.NotNil(t, topic)
	assert.Equal(t, topicID, topic.TopicUUID)
	require.Len(t, partitions, 2)
	assert.EqualValues(t, 0, partitions[0].PartitionID)
	assert.EqualValues(t, 1, partitions[1].PartitionID)
}

func TestSearchTopicRecordOnlySkipsPartitionDecode(t *testing.T) {
	topicID := uuid.New()
	batches := []RecordBatch{{Records: []Record{
		{Value: encodeTopicRecordValue("foo", topicID)},
		{Value: encodePartitionRecordValue(PartitionRecord{PartitionID: 0, TopicUUID: topicID})},
	}}}

	topic, partitions, err := Search(batches, BySearchTopicID(topicID), true)
	require.NoError(t, err)
	require.NotNil(t, topic)
	assert.Nil(t, partitions)
}

func TestSearchIgnoresControlRecordsWithNilValue(t *testing.T) {
	topicID := uuid.New()
	batches := []RecordBatch{{Records: []Record{
		{Value: nil},
		{Value: encodeTopicRecordValue("foo", topicID)},
	}}}

	topic, _, err := Search(batches, BySearchTopicID(topicID), true)
	require.NoError(t, err)
	require.NotNil(t, topic)
}

func TestSearchUsesMostRecentMatchingTopicRecord(t *testing.T) {
	firstID := uuid.New()
	secondID := uuid.New()
	batches := []RecordBatch{{Records: []Record{
		{Value: encodeTopicRecordValue("foo", firstID)},
		{Value: encodeTopicRecordValue("foo", secondID)},
	}}}

	topic, _, err := Search(batches, BySearchTopicName("foo"), true)
	require.NoError(t, err)
	require.NotNil(t, topic)
	assert.Equal(t, secondID, topic.TopicUUID)
}
