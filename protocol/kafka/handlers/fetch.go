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

// FetchPartitionRequest is one entry of a requested topic's partitions.
type FetchPartitionRequest struct {
	Partition         int32
	CurrentLeaderEpoch int32
	FetchOffset       int64
	LastFetchedEpoch  int32
	LogStartOffset    int64
	PartitionMaxBytes int32
}

// FetchTopicRequest is one requested topic.
type FetchTopicRequest struct {
	TopicID    uuid.UUID
	Partitions []FetchPartitionRequest
}

// ForgottenTopic is one entry of the forgotten_topics array. This broker
// never acts on it (sessions aren't tracked) but decodes it for framing
// correctness.
type ForgottenTopic struct {
	TopicID    uuid.UUID
	Partitions []int32
}

// FetchRequest is the decoded body of a Fetch v16 request.
type FetchRequest struct {
	MaxWaitMs       int32
	MinBytes        int32
	MaxBytes        int32
	IsolationLevel  int8
	SessionID       int32
	SessionEpoch    int32
	Topics          []FetchTopicRequest
	ForgottenTopics []ForgottenTopic
	RackID          string
}

func decodeFetchPartitionRequest(b []byte, off int) (FetchPartitionRequest, int, error) {
	start := off

	partition, n, err := kafka.DecodeInt32(b, off)
	if err != nil {
		return FetchPartitionRequest{}, 0, err
	}
	off += n

	epoch, n, err := kafka.DecodeInt32(b, off)
	if err != nil {
		return FetchPartitionRequest{}, 0, err
	}
	off += n

	fetchOffset, n, err := kafka.DecodeInt64(b, off)
	if err != nil {
		return FetchPartitionRequest{}, 0, err
	}
	off += n

	lastFetchedEpoch, n, err := kafka.DecodeInt32(b, off)
	if err != nil {
		return FetchPartitionRequest{}, 0, err
	}
	off += n

	logStartOffset, n, err := kafka.DecodeInt64(b, off)
	if err != nil {
		return FetchPartitionRequest{}, 0, err
	}
	off += n

	maxBytes, n, err := kafka.DecodeInt32(b, off)
	if err != nil {
		return FetchPartitionRequest{}, 0, err
	}
	off += n

	_, n, err = kafka.DecodeTaggedFieldsSection(b, off)
	if err != nil {
		return FetchPartitionRequest{}, 0, err
	}
	off += n

	return FetchPartitionRequest{
		Partition:          partition,
		CurrentLeaderEpoch: epoch,
		FetchOffset:        fetchOffset,
		LastFetchedEpoch:   lastFetchedEpoch,
		LogStartOffset:     logStartOffset,
		PartitionMaxBytes:  maxBytes,
	}, off - start, nil
}

func decodeFetchTopicRequest(b []byte, off int) (FetchTopicRequest, int, error) {
	start := off

	topicID, n, err := kafka.DecodeUUID(b, off)
	if err != nil {
		return FetchTopicRequest{}, 0, err
	}
	off += n

	partitions, n, err := kafka.DecodeCompactArray(b, off, decodeFetchPartitionRequest)
	if err != nil {
		return FetchTopicRequest{}, 0, err
	}
	off += n

	_, n, err = kafka.DecodeTaggedFieldsSection(b, off)
	if err != nil {
		return FetchTopicRequest{}, 0, err
	}
	off += n

	return FetchTopicRequest{TopicID: topicID, Partitions: partitions}, off - start, nil
}

func decodeForgottenTopic(b []byte, off int) (ForgottenTopic, int, error) {
	start := off

	topicID, n, err := kafka.DecodeUUID(b, off)
	if err != nil {
		return ForgottenTopic{}, 0, err
	}
	off += n

	partitions, n, err := kafka.DecodeCompactArray(b, off, kafka.DecodeInt32)
	if err != nil {
		return ForgottenTopic{}, 0, err
	}
	off += n

	_, n, err = kafka.DecodeTaggedFieldsSection(b, off)
	if err != nil {
		return ForgottenTopic{}, 0, err
	}
	off += n

	return ForgottenTopic{TopicID: topicID, Partitions: partitions}, off - start, nil
}

// DecodeFetchRequest decodes the request body starting at off.
func DecodeFetchRequest(b []byte, off int) (FetchRequest, int, error) {
	start := off

	maxWaitMs, n, err := kafka.DecodeInt32(b, off)
	if err != nil {
		return FetchRequest{}, 0, err
	}
	off += n

	minBytes, n, err := kafka.DecodeInt32(b, off)
	if err != nil {
		return FetchRequest{}, 0, err
	}
	off += n

	maxBytes, n, err := kafka.DecodeInt32(b, off)
	if err != nil {
		return FetchRequest{}, 0, err
	}
	off += n

	isolationLevel, n, err := kafka.DecodeInt8(b, off)
	if err != nil {
		return FetchRequest{}, 0, err
	}
	off += n

	sessionID, n, err := kafka.DecodeInt32(b, off)
	if err != nil {
		return FetchRequest{}, 0, err
	}
	off += n

	sessionEpoch, n, err := kafka.DecodeInt32(b, off)
	if err != nil {
		return FetchRequest{}, 0, err
	}
	off += n

	topics, n, err := kafka.DecodeCompactArray(b, off, decodeFetchTopicRequest)
	if err != nil {
		return FetchRequest{}, 0, err
	}
	off += n

	forgotten, n, err := kafka.DecodeCompactArray(b, off, decodeForgottenTopic)
	if err != nil {
		return FetchRequest{}, 0, err
	}
	off += n

	rackID, n, err := kafka.DecodeCompactString(b, off)
	if err != nil {
		return FetchRequest{}, 0, err
	}
	off += n

	_, n, err = kafka.DecodeTaggedFieldsSection(b, off)
	if err != nil {
		return FetchRequest{}, 0, err
	}
	off += n

	return FetchRequest{
		MaxWaitMs:       maxWaitMs,
		MinBytes:        minBytes,
		MaxBytes:        maxBytes,
		IsolationLevel:  int8(isolationLevel),
		SessionID:       sessionID,
		SessionEpoch:    sessionEpoch,
		Topics:          topics,
		ForgottenTopics: forgotten,
		RackID:          rackID,
	}, off - start, nil
}

// AbortedTransaction is always empty in this broker; kept as a type so
// the response shape documents the full schema.
type AbortedTransaction struct {
	ProducerID  int64
	FirstOffset int64
}

// FetchPartitionResponse is one partition's fetch result.
type FetchPartitionResponse struct {
	PartitionIndex       int32
	ErrorCode            int16
	HighWatermark        int64
	LastStableOffset     int64
	LogStartOffset       int64
	AbortedTransactions  []AbortedTransaction
	PreferredReadReplica int32
	Records              []byte // nil encodes as null CompactRecords
}

// FetchTopicResponse is one topic's fetch result.
type FetchTopicResponse struct {
	TopicID    uuid.UUID
	Partitions []FetchPartitionResponse
}

// FetchResponse is the body of a Fetch v16 response.
type FetchResponse struct {
	ThrottleTimeMs int32
	ErrorCode      int16
	SessionID      int32
	Responses      []FetchTopicResponse
}

// HandleFetch answers each requested topic by looking it up in the
// cluster-metadata log and, if found, reading partition 0's data log
// verbatim.
func HandleFetch(store *records.Store, req FetchRequest) (FetchResponse, error) {
	metadataBatches, err := store.MetadataBatches()
	if err != nil {
		return FetchResponse{}, err
	}

	responses := make([]FetchTopicResponse, 0, len(req.Topics))
	for _, topicReq := range req.Topics {
		topic, _, err := records.Search(metadataBatches, records.BySearchTopicID(topicReq.TopicID), true)
		if err != nil {
			return FetchResponse{}, err
		}

		if topic == nil {
			responses = append(responses, FetchTopicResponse{
				TopicID: topicReq.TopicID,
				Partitions: []FetchPartitionResponse{{
					PartitionIndex: 0,
					ErrorCode:      int16(kafka.UnknownTopicID),
					Records:        nil,
				}},
			})
			continue
		}

		raw, _, err := store.DataLog(topic.TopicName, 0)
		if err != nil {
			return FetchResponse{}, err
		}
		// raw is nil when the data log directory doesn't exist at all,
		// which Store.load distinguishes from a present-but-empty log
		// file (a non-nil empty slice). The former encodes as null
		// CompactRecords with error_code NONE; the latter as the
		// empty-but-present case (compact varint length 1).

		responses = append(responses, FetchTopicResponse{
			TopicID: topicReq.TopicID,
			Partitions: []FetchPartitionResponse{{
				PartitionIndex: 0,
				ErrorCode:      int16(kafka.None),
				Records:        raw,
			}},
		})
	}

	return FetchResponse{
		ThrottleTimeMs: 0,
		ErrorCode:      int16(kafka.None),
		SessionID:      0,
		Responses:      responses,
	}, nil
}

func encodeAbortedTransaction(out []byte, a AbortedTransaction) []byte {
	out = kafka.EncodeInt64(out, a.ProducerID)
	out = kafka.EncodeInt64(out, a.FirstOffset)
	return kafka.EncodeTaggedFieldsSection(out, kafka.EmptyTaggedFields)
}

func sizeAbortedTransaction(AbortedTransaction) int {
	return 8 + 8 + kafka.SizeTaggedFieldsSection(kafka.EmptyTaggedFields)
}

func encodeFetchPartitionResponse(out []byte, p FetchPartitionResponse) []byte {
	out = kafka.EncodeInt32(out, p.PartitionIndex)
	out = kafka.EncodeInt16(out, p.ErrorCode)
	out = kafka.EncodeInt64(out, p.HighWatermark)
	out = kafka.EncodeInt64(out, p.LastStableOffset)
	out = kafka.EncodeInt64(out, p.LogStartOffset)
	out = kafka.EncodeCompactArray(out, p.AbortedTransactions, encodeAbortedTransaction)
	out = kafka.EncodeInt32(out, p.PreferredReadReplica)
	out = kafka.EncodeCompactNullableBytes(out, p.Records)
	return kafka.EncodeTaggedFieldsSection(out, kafka.EmptyTaggedFields)
}

func sizeFetchPartitionResponse(p FetchPartitionResponse) int {
	n := 4 + 2 + 8 + 8 + 8
	n += kafka.SizeCompactArray(p.AbortedTransactions, sizeAbortedTransaction)
	n += 4
	n += kafka.SizeCompactNullableBytes(p.Records)
	n += kafka.SizeTaggedFieldsSection(kafka.EmptyTaggedFields)
	return n
}

func encodeFetchTopicResponse(out []byte, t FetchTopicResponse) []byte {
	out = kafka.EncodeUUID(out, t.TopicID)
	out = kafka.EncodeCompactArray(out, t.Partitions, encodeFetchPartitionResponse)
	return kafka.EncodeTaggedFieldsSection(out, kafka.EmptyTaggedFields)
}

func sizeFetchTopicResponse(t FetchTopicResponse) int {
	n := 16
	n += kafka.SizeCompactArray(t.Partitions, sizeFetchPartitionResponse)
	n += kafka.SizeTaggedFieldsSection(kafka.EmptyTaggedFields)
	return n
}

// EncodeFetchResponse appends the response body.
func EncodeFetchResponse(out []byte, r FetchResponse) []byte {
	out = kafka.EncodeInt32(out, r.ThrottleTimeMs)
	out = kafka.EncodeInt16(out, r.ErrorCode)
	out = kafka.EncodeInt32(out, r.SessionID)
	out = kafka.EncodeCompactArray(out, r.Responses, encodeFetchTopicResponse)
	return kafka.EncodeTaggedFieldsSection(out, kafka.EmptyTaggedFields)
}

// SizeFetchResponse returns the response body's wire size.
func SizeFetchResponse(r FetchResponse) int {
	n := 4 + 2 + 4
	n += kafka.SizeCompactArray(r.Responses, sizeFetchTopicResponse)
	n += kafka.SizeTaggedFieldsSection(kafka.EmptyTaggedFields)
	return n
}
