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
	"github.com/google/uuid"

	"github.com/kbroker/kbroker/protocol/kafka"
	"github.com/kbroker/kbroker/protocol/kafka/records"
)

// DescribeTopicPartitionsRequest is the decoded body of a
// DescribeTopicPartitions v0 request.
type DescribeTopicPartitionsRequest struct {
	Topics                 []string
	ResponsePartitionLimit int32
	CursorTopicName        *string
	CursorPartitionIndex   int32
}

// DecodeDescribeTopicPartitionsRequest decodes the request body starting
// at off.
func DecodeDescribeTopicPartitionsRequest(b []byte, off int) (DescribeTopicPartitionsRequest, int, error) {
	start := off

	topics, n, err := kafka.DecodeCompactArray(b, off, decodeRequestedTopic)
	if err != nil {
		return DescribeTopicPartitionsRequest{}, 0, err
	}
	off += n

	limit, n, err := kafka.DecodeInt32(b, off)
	if err != nil {
		return DescribeTopicPartitionsRequest{}, 0, err
	}
	off += n

	cursorName, n, err := kafka.DecodeCompactNullableString(b, off)
	if err != nil {
		return DescribeTopicPartitionsRequest{}, 0, err
	}
	off += n

	cursorPartition, n, err := kafka.DecodeInt32(b, off)
	if err != nil {
		return DescribeTopicPartitionsRequest{}, 0, err
	}
	off += n

	_, n, err = kafka.DecodeTaggedFieldsSection(b, off) // cursor's own tagged fields
	if err != nil {
		return DescribeTopicPartitionsRequest{}, 0, err
	}
	off += n

	_, n, err = kafka.DecodeTaggedFieldsSection(b, off) // request-level tagged fields
	if err != nil {
		return DescribeTopicPartitionsRequest{}, 0, err
	}
	off += n

	return DescribeTopicPartitionsRequest{
		Topics:                 topics,
		ResponsePartitionLimit: limit,
		CursorTopicName:        cursorName,
		CursorPartitionIndex:   cursorPartition,
	}, off - start, nil
}

func decodeRequestedTopic(b []byte, off int) (string, int, error) {
	start := off
	name, n, err := kafka.DecodeCompactString(b, off)
	if err != nil {
		return "", 0, err
	}
	off += n
	_, n, err = kafka.DecodeTaggedFieldsSection(b, off)
	if err != nil {
		return "", 0, err
	}
	off += n
	return name, off - start, nil
}

// PartitionInfo is one entry of a ResponseTopic's partitions array.
type PartitionInfo struct {
	ErrorCode      int16
	PartitionIndex int32
	LeaderID       int32
	LeaderEpoch    int32
	Replicas       []int32
	ISR            []int32
	Removing       []int32
	Adding         []int32
}

// ResponseTopic is one entry of a DescribeTopicPartitions response.
type ResponseTopic struct {
	ErrorCode                 int16
	Name                      *string
	TopicID                   uuid.UUID
	IsInternal                bool
	Partitions                []PartitionInfo
	TopicAuthorizedOperations int32
}

// DescribeTopicPartitionsResponse is the body of a
// DescribeTopicPartitions v0 response.
type DescribeTopicPartitionsResponse struct {
	ThrottleTimeMs int32
	Topics         []ResponseTopic
	NextCursor     int8 // always -1 in this broker; see Open Question (a)
}

// HandleDescribeTopicPartitions answers each requested topic name in
// request order.
func HandleDescribeTopicPartitions(store *records.Store, req DescribeTopicPartitionsRequest) (DescribeTopicPartitionsResponse, error) {
	batches, err := store.MetadataBatches()
	if err != nil {
		return DescribeTopicPartitionsResponse{}, err
	}

	topics := make([]ResponseTopic, 0, len(req.Topics))
	for _, name := range req.Topics {
		topic, partitionRecords, err := records.Search(batches, records.BySearchTopicName(name), false)
		if err != nil {
			return DescribeTopicPartitionsResponse{}, err
		}

		n := name
		if topic == nil {
			topics = append(topics, ResponseTopic{
				ErrorCode:  int16(kafka.UnknownTopicOrPartition),
				Name:       &n,
				TopicID:    uuid.Nil,
				IsInternal: false,
				Partitions: []PartitionInfo{},
			})
			continue
		}

		partitions := make([]PartitionInfo, 0, len(partitionRecords))
		for _, p := range partitionRecords {
			partitions = append(partitions, PartitionInfo{
				ErrorCode:      int16(kafka.None),
				PartitionIndex: p.PartitionID,
				LeaderID:       p.Leader,
				LeaderEpoch:    p.LeaderEpoch,
				Replicas:       p.Replicas,
				ISR:            p.ISR,
				Removing:       p.Removing,
				Adding:         p.Adding,
			})
		}

		topics = append(topics, ResponseTopic{
			ErrorCode:  int16(kafka.None),
			Name:       &n,
			TopicID:    topic.TopicUUID,
			IsInternal: false,
			Partitions: partitions,
		})
	}

	return DescribeTopicPartitionsResponse{
		ThrottleTimeMs: 0,
		Topics:         topics,
		NextCursor:     -1,
	}, nil
}

func encodeInt32Array(out []byte, v []int32) []byte {
	return kafka.EncodeCompactArray(out, v, kafka.EncodeInt32)
}

func sizeInt32Array(v []int32) int {
	return kafka.SizeCompactArray(v, func(int32) int { return 4 })
}

func encodePartitionInfo(out []byte, p PartitionInfo) []byte {
	out = kafka.EncodeInt16(out, p.ErrorCode)
	out = kafka.EncodeInt32(out, p.PartitionIndex)
	out = kafka.EncodeInt32(out, p.LeaderID)
	out = kafka.EncodeInt32(out, p.LeaderEpoch)
	out = encodeInt32Array(out, p.Replicas)
	out = encodeInt32Array(out, p.ISR)
	out = encodeInt32Array(out, p.Removing)
	out = encodeInt32Array(out, p.Adding)
	return kafka.EncodeTaggedFieldsSection(out, kafka.EmptyTaggedFields)
}

func sizePartitionInfo(p PartitionInfo) int {
	n := 2 + 4 + 4 + 4
	n += sizeInt32Array(p.Replicas)
	n += sizeInt32Array(p.ISR)
	n += sizeInt32Array(p.Removing)
	n += sizeInt32Array(p.Adding)
	n += kafka.SizeTaggedFieldsSection(kafka.EmptyTaggedFields)
	return n
}

func encodeResponseTopic(out []byte, t ResponseTopic) []byte {
	out = kafka.EncodeInt16(out, t.ErrorCode)
	out = kafka.EncodeCompactNullableString(out, t.Name)
	out = kafka.EncodeUUID(out, t.TopicID)
	out = kafka.EncodeBool(out, t.IsInternal)
	out = kafka.EncodeCompactArray(out, t.Partitions, encodePartitionInfo)
	out = kafka.EncodeInt32(out, t.TopicAuthorizedOperations)
	return kafka.EncodeTaggedFieldsSection(out, kafka.EmptyTaggedFields)
}

func sizeResponseTopic(t ResponseTopic) int {
	n := 2
	n += kafka.SizeCompactNullableString(t.Name)
	n += 16
	n += 1
	n += kafka.SizeCompactArray(t.Partitions, sizePartitionInfo)
	n += 4
	n += kafka.SizeTaggedFieldsSection(kafka.EmptyTaggedFields)
	return n
}

// EncodeDescribeTopicPartitionsResponse appends the response body.
func EncodeDescribeTopicPartitionsResponse(out []byte, r DescribeTopicPartitionsResponse) []byte {
	out = kafka.EncodeInt32(out, r.ThrottleTimeMs)
	out = kafka.EncodeCompactArray(out, r.Topics, encodeResponseTopic)
	out = kafka.EncodeInt8(out, r.NextCursor)
	return kafka.EncodeTaggedFieldsSection(out, kafka.EmptyTaggedFields)
}

// SizeDescribeTopicPartitionsResponse returns the response body's wire size.
func SizeDescribeTopicPartitionsResponse(r DescribeTopicPartitionsResponse) int {
	n := 4
	n += kafka.SizeCompactArray(r.Topics, sizeResponseTopic)
	n += 1
	n += kafka.SizeTaggedFieldsSection(kafka.EmptyTaggedFields)
	return n
}
