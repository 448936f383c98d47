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

// Package records decodes the on-disk Kafka v2 record-batch framing used
// by both the cluster-metadata log and per-partition data logs.
package records

import (
	"github.com/kbroker/kbroker/internal/kerrors"
	"github.com/kbroker/kbroker/protocol/kafka"
)

// Header is one record header entry: a varint-length-prefixed key and
// value, neither compact (this is the v2 record format, not a
// flexible-version RPC struct).
type Header struct {
	Key   string
	Value []byte
}

// Record is a single record inside a RecordBatch.
type Record struct {
	Attributes     int8
	TimestampDelta int64
	OffsetDelta    int32
	Key            []byte // nil when key_length == -1
	Value          []byte // nil when value_length == -1
	Headers        []Header
}

// RecordBatch is the v2 on-disk batch framing.
type RecordBatch struct {
	BaseOffset           int64
	BatchLength          int32
	PartitionLeaderEpoch int32
	Magic                int8
	CRC                  uint32
	Attributes           int16
	LastOffsetDelta      int32
	BaseTimestamp        int64
	MaxTimestamp         int64
	ProducerID           int64
	ProducerEpoch        int16
	BaseSequence         int32
	RecordsCount         int32
	Records              []Record

	// RawBytes is the full on-disk slice of this batch, including the
	// 12-byte base_offset+batch_length prefix. Fetch echoes these bytes
	// verbatim rather than re-encoding the batch.
	RawBytes []byte
}

// DecodeRecordBatches decodes every batch in buf until the buffer is
// exhausted. The file (or data log) must start on a batch boundary;
// trailing bytes that don't form a complete batch are a Truncated error.
func DecodeRecordBatches(buf []byte) ([]RecordBatch, error) {
	var batches []RecordBatch
	off := 0
	for off < len(buf) {
		batch, consumed, err := decodeRecordBatch(buf, off)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
		off += consumed
	}
	return batches, nil
}

func decodeRecordBatch(b []byte, off int) (RecordBatch, int, error) {
	start := off

	baseOffset, n, err := kafka.DecodeInt64(b, off)
	if err != nil {
		return RecordBatch{}, 0, kerrors.Truncated("record batch base_offset: %v", err)
	}
	off += n

	batchLength, n, err := kafka.DecodeInt32(b, off)
	if err != nil {
		return RecordBatch{}, 0, kerrors.Truncated("record batch batch_length: %v", err)
	}
	off += n

	payloadStart := off

	partitionLeaderEpoch, n, err := kafka.DecodeInt32(b, off)
	if err != nil {
		return RecordBatch{}, 0, err
	}
	off += n

	magic, n, err := kafka.DecodeInt8(b, off)
	if err != nil {
		return RecordBatch{}, 0, err
	}
	off += n

	crc, n, err := kafka.DecodeInt32(b, off)
	if err != nil {
		return RecordBatch{}, 0, err
	}
	off += n

	attributes, n, err := kafka.DecodeInt16(b, off)
	if err != nil {
		return RecordBatch{}, 0, err
	}
	off += n

	lastOffsetDelta, n, err := kafka.DecodeInt32(b, off)
	if err != nil {
		return RecordBatch{}, 0, err
	}
	off += n

	baseTimestamp, n, err := kafka.DecodeInt64(b, off)
	if err != nil {
		return RecordBatch{}, 0, err
	}
	off += n

	maxTimestamp, n, err := kafka.DecodeInt64(b, off)
	if err != nil {
		return RecordBatch{}, 0, err
	}
	off += n

	producerID, n, err := kafka.DecodeInt64(b, off)
	if err != nil {
		return RecordBatch{}, 0, err
	}
	off += n

	producerEpoch, n, err := kafka.DecodeInt16(b, off)
	if err != nil {
		return RecordBatch{}, 0, err
	}
	off += n

	baseSequence, n, err := kafka.DecodeInt32(b, off)
	if err != nil {
		return RecordBatch{}, 0, err
	}
	off += n

	recordsCount, n, err := kafka.DecodeInt32(b, off)
	if err != nil {
		return RecordBatch{}, 0, err
	}
	off += n

	recs := make([]Record, 0, recordsCount)
	for i := int32(0); i < recordsCount; i++ {
		rec, n, err := decodeRecord(b, off)
		if err != nil {
			return RecordBatch{}, 0, err
		}
		recs = append(recs, rec)
		off += n
	}

	consumedPayload := off - payloadStart
	if consumedPayload != int(batchLength) {
		return RecordBatch{}, 0, kerrors.Framing(
			"batch at offset %d: batch_length=%d but consumed %d bytes after it",
			start, batchLength, consumedPayload)
	}

	total := off - start
	if 12+int(batchLength) != total {
		return RecordBatch{}, 0, kerrors.Framing(
			"batch at offset %d: 12+batch_length=%d but total consumed=%d",
			start, 12+batchLength, total)
	}

	return RecordBatch{
		BaseOffset:           baseOffset,
		BatchLength:          batchLength,
		PartitionLeaderEpoch: partitionLeaderEpoch,
		Magic:                int8(magic),
		CRC:                  uint32(crc),
		Attributes:           attributes,
		LastOffsetDelta:      lastOffsetDelta,
		BaseTimestamp:        baseTimestamp,
		MaxTimestamp:         maxTimestamp,
		ProducerID:           producerID,
		ProducerEpoch:        producerEpoch,
		BaseSequence:         baseSequence,
		RecordsCount:         recordsCount,
		Records:              recs,
		RawBytes:             b[start:off],
	}, total, nil
}

func decodeRecord(b []byte, off int) (Record, int, error) {
	start := off

	length, n, err := kafka.DecodeSignedVarint(b, off)
	if err != nil {
		return Record{}, 0, err
	}
	lengthByteCount := n
	off += n

	attributes, n, err := kafka.DecodeInt8(b, off)
	if err != nil {
		return Record{}, 0, err
	}
	off += n

	timestampDelta, n, err := kafka.DecodeVarlong(b, off)
	if err != nil {
		return Record{}, 0, err
	}
	off += n

	offsetDelta, n, err := kafka.DecodeSignedVarint(b, off)
	if err != nil {
		return Record{}, 0, err
	}
	off += n

	key, n, err := decodeVarintBytes(b, off)
	if err != nil {
		return Record{}, 0, err
	}
	off += n

	value, n, err := decodeVarintBytes(b, off)
	if err != nil {
		return Record{}, 0, err
	}
	off += n

	headersCount, err := kafka.DecodeUnsignedVarint(b, off)
	if err != nil {
		return Record{}, 0, err
	}
	off += headersCount.ByteCount

	headers := make([]Header, 0, headersCount.Value)
	for i := uint32(0); i < headersCount.Value; i++ {
		keyBytes, n, err := decodeVarintBytes(b, off)
		if err != nil {
			return Record{}, 0, err
		}
		off += n
		valBytes, n, err := decodeVarintBytes(b, off)
		if err != nil {
			return Record{}, 0, err
		}
		off += n
		headers = append(headers, Header{Key: string(keyBytes), Value: valBytes})
	}

	consumed := off - start
	if consumed != lengthByteCount+int(length) {
		return Record{}, 0, kerrors.Framing(
			"record at offset %d: length=%d (+%d byte_count) but consumed=%d",
			start, length, lengthByteCount, consumed)
	}

	return Record{
		Attributes:     int8(attributes),
		TimestampDelta: timestampDelta,
		OffsetDelta:    offsetDelta,
		Key:            key,
		Value:          value,
		Headers:        headers,
	}, consumed, nil
}

// decodeVarintBytes reads a signed-varint-length-prefixed byte slice,
// where -1 denotes null, used for record key/value and header key/value.
func decodeVarintBytes(b []byte, off int) ([]byte, int, error) {
	length, n, err := kafka.DecodeSignedVarint(b, off)
	if err != nil {
		return nil, 0, err
	}
	if length < 0 {
		return nil, n, nil
	}
	start := off + n
	end := start + int(length)
	if end > len(b) {
		return nil, 0, kerrors.Truncated("varint-length bytes at offset %d", start)
	}
	return b[start:end], n + int(length), nil
}
