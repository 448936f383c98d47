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

import "github.com/kbroker/kbroker/protocol/kafka"

// ProducePartitionRequest is one partition's records within a topic.
type ProducePartitionRequest struct {
	Index   int32
	Records []byte // raw CompactRecords payload, never written to disk
}

// ProduceTopicRequest is one topic's partition_data within a Produce request.
type ProduceTopicRequest struct {
	Name       string
	Partitions []ProducePartitionRequest
}

// ProduceRequest is the decoded body of a Produce v11 request.
type ProduceRequest struct {
	TransactionalID *string
	Acks            int16
	TimeoutMs       int32
	TopicData       []ProduceTopicRequest
}

func decodeProducePartitionRequest(b []byte, off int) (ProducePartitionRequest, int, error) {
	start := off

	index, n, err := kafka.DecodeInt32(b, off)
	if err != nil {
		return ProducePartitionRequest{}, 0, err
	}
	off += n

	recs, n, err := kafka.DecodeCompactNullableBytes(b, off)
	if err != nil {
		return ProducePartitionRequest{}, 0, err
	}
	off += n

	_, n, err = kafka.DecodeTaggedFieldsSection(b, off)
	if err != nil {
		return ProducePartitionRequest{}, 0, err
	}
	off += n

	return ProducePartitionRequest{Index: index, Records: recs}, off - start, nil
}

func decodeProduceTopicRequest(b []byte, off int) (ProduceTopicRequest, int, error) {
	start := off

	name, n, err := kafka.DecodeCompactString(b, off)
	if err != nil {
		return ProduceTopicRequest{}, 0, err
	}
	off += n

	partitions, n, err := kafka.DecodeCompactArray(b, off, decodeProducePartitionRequest)
	if err != nil {
		return ProduceTopicRequest{}, 0, err
	}
	off += n

	_, n, err = kafka.DecodeTaggedFieldsSection(b, off)
	if err != nil {
		return ProduceTopicRequest{}, 0, err
	}
	off += n

	return ProduceTopicRequest{Name: name, Partitions: partitions}, off - start, nil
}

// DecodeProduceRequest decodes the request body starting at off.
func DecodeProduceRequest(b []byte, off int) (ProduceRequest, int, error) {
	start := off

	transactionalID, n, err := kafka.DecodeCompactNullableString(b, off)
	if err != nil {
		return ProduceRequest{}, 0, err
	}
	off += n

	acks, n, err := kafka.DecodeInt16(b, off)
	if err != nil {
		return ProduceRequest{}, 0, err
	}
	off += n

	timeoutMs, n, err := kafka.DecodeInt32(b, off)
	if err != nil {
		return ProduceRequest{}, 0, err
	}
	off += n

	topicData, n, err := kafka.DecodeCompactArray(b, off, decodeProduceTopicRequest)
	if err != nil {
		return ProduceRequest{}, 0, err
	}
	off += n

	_, n, err = kafka.DecodeTaggedFieldsSection(b, off)
	if err != nil {
		return ProduceRequest{}, 0, err
	}
	off += n

	return ProduceRequest{
		TransactionalID: transactionalID,
		Acks:            acks,
		TimeoutMs:       timeoutMs,
		TopicData:       topicData,
	}, off - start, nil
}

// RecordError describes a per-batch-index production failure. Always
// empty in this broker, which never writes.
type RecordError struct {
	BatchIndex int32
	Message    *string
}

// ProducePartitionResponse is one partition's produce result.
type ProducePartitionResponse struct {
	Index           int32
	ErrorCode       int16
	BaseOffset      int64
	LogAppendTimeMs int64
	LogStartOffset  int64
	RecordErrors    []RecordError
	ErrorMessage    *string
}

// ProduceTopicResponse is one topic's produce result.
type ProduceTopicResponse struct {
	Name               string
	PartitionResponses []ProducePartitionResponse
}

// ProduceResponse is the body of a Produce v11 response.
type ProduceResponse struct {
	Responses      []ProduceTopicResponse
	ThrottleTimeMs int32
}

// HandleProduce never writes anything: every partition is answered with
// UNKNOWN_TOPIC_OR_PARTITION, as required by the handler contract (no
// write path in this broker).
func HandleProduce(req ProduceRequest) ProduceResponse {
	responses := make([]ProduceTopicResponse, 0, len(req.TopicData))
	for _, topic := range req.TopicData {
		partitions := make([]ProducePartitionResponse, 0, len(topic.Partitions))
		for _, p := range topic.Partitions {
			partitions = append(partitions, ProducePartitionResponse{
				Index:           p.Index,
				ErrorCode:       int16(kafka.UnknownTopicOrPartition),
				BaseOffset:      -1,
				LogAppendTimeMs: -1,
				LogStartOffset:  -1,
				RecordErrors:    []RecordError{},
				ErrorMessage:    nil,
			})
		}
		responses = append(responses, ProduceTopicResponse{
			Name:               topic.Name,
			PartitionResponses: partitions,
		})
	}

	return ProduceResponse{Responses: responses, ThrottleTimeMs: 0}
}

func encodeRecordError(out []byte, e RecordError) []byte {
	out = kafka.EncodeInt32(out, e.BatchIndex)
	out = kafka.EncodeCompactNullableString(out, e.Message)
	return kafka.EncodeTaggedFieldsSection(out, kafka.EmptyTaggedFields)
}

func sizeRecordError(e RecordError) int {
	return 4 + kafka.SizeCompactNullableString(e.Message) + kafka.SizeTaggedFieldsSection(kafka.EmptyTaggedFields)
}

func encodeProducePartitionResponse(out []byte, p ProducePartitionResponse) []byte {
	out = kafka.EncodeInt32(out, p.Index)
	out = kafka.EncodeInt16(out, p.ErrorCode)
	out = kafka.EncodeInt64(out, p.BaseOffset)
	out = kafka.EncodeInt64(out, p.LogAppendTimeMs)
	out = kafka.EncodeInt64(out, p.LogStartOffset)
	out = kafka.EncodeCompactArray(out, p.RecordErrors, encodeRecordError)
	out = kafka.EncodeCompactNullableString(out, p.ErrorMessage)
	return kafka.EncodeTaggedFieldsSection(out, kafka.EmptyTaggedFields)
}

func sizeProducePartitionResponse(p ProducePartitionResponse) int {
	n := 4 + 2 + 8 + 8 + 8
	n += kafka.SizeCompactArray(p.RecordErrors, sizeRecordError)
	n += kafka.SizeCompactNullableString(p.ErrorMessage)
	n += kafka.SizeTaggedFieldsSection(kafka.EmptyTaggedFields)
	return n
}

func encodeProduceTopicResponse(out []byte, t ProduceTopicResponse) []byte {
	out = kafka.EncodeCompactString(out, t.Name)
	out = kafka.EncodeCompactArray(out, t.PartitionResponses, encodeProducePartitionResponse)
	return kafka.EncodeTaggedFieldsSection(out, kafka.EmptyTaggedFields)
}

func sizeProduceTopicResponse(t ProduceTopicResponse) int {
	n := kafka.SizeCompactString(t.Name)
	n += kafka.SizeCompactArray(t.PartitionResponses, sizeProducePartitionResponse)
	n += kafka.SizeTaggedFieldsSection(kafka.EmptyTaggedFields)
	return n
}

// EncodeProduceResponse appends the response body.
func EncodeProduceResponse(out []byte, r ProduceResponse) []byte {
	out = kafka.EncodeCompactArray(out, r.Responses, encodeProduceTopicResponse)
	out = kafka.EncodeInt32(out, r.ThrottleTimeMs)
	return kafka.EncodeTaggedFieldsSection(out, kafka.EmptyTaggedFields)
}

// SizeProduceResponse returns the response body's wire size.
func SizeProduceResponse(r ProduceResponse) int {
	n := kafka.SizeCompactArray(r.Responses, sizeProduceTopicResponse)
	n += 4
	n += kafka.SizeTaggedFieldsSection(kafka.EmptyTaggedFields)
	return n
}
