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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbroker/kbroker/internal/kerrors"
	"github.com/kbroker/kbroker/protocol/kafka"
)

// buildRecordBatch hand-assembles one v2 record batch containing a
// single empty record (no key, no value, no headers), mirroring the
// on-disk framing a real segment file would have.
func buildRecordBatch(t *testing.T, baseOffset int64) []byte {
	t.Helper()

	var record []byte
	record = kafka.EncodeInt8(record, 0)             // attributes
	record = kafka.EncodeVarlong(record, 0)          // timestamp_delta
	record = kafka.EncodeSignedVarint(record, 0)     // offset_delta
	record = kafka.EncodeSignedVarint(record, -1)    // key length (null)
	record = kafka.EncodeSignedVarint(record, -1)    // value length (null)
	record = kafka.EncodeUnsignedVarint(record, 0)   // headers count

	var framedRecord []byte
	framedRecord = kafka.EncodeSignedVarint(framedRecord, int32(len(record)))
	framedRecord = append(framedRecord, record...)

	var payload []byte
	payload = kafka.EncodeInt32(payload, 0)  // partition_leader_epoch
	payload = kafka.EncodeInt8(payload, 2)   // magic
	payload = kafka.EncodeInt32(payload, 0)  // crc (unchecked)
	payload = kafka.EncodeInt16(payload, 0)  // attributes
	payload = kafka.EncodeInt32(payload, 0)  // last_offset_delta
	payload = kafka.EncodeInt64(payload, 0)  // base_timestamp
	payload = kafka.EncodeInt64(payload, 0)  // max_timestamp
	payload = kafka.EncodeInt64(payload, -1) // producer_id
	payload = kafka.EncodeInt16(payload, -1) // producer_epoch
	payload = kafka.EncodeInt32(payload, -1) // base_sequence
	payload = kafka.EncodeInt32(payload, 1)  // records_count
	payload = append(payload, framedRecord...)

	var batch []byte
	batch = kafka.EncodeInt64(batch, baseOffset)
	batch = kafka.EncodeInt32(batch, int32(len(payload)))
	batch = append(batch, payload...)
	return batch
}

func TestDecodeRecordBatchesSingleBatch(t *testing.T) {
	raw := buildRecordBatch(t, 0)

	batches, err := DecodeRecordBatches(raw)
	require.NoError(t, err)
	require.Len(t, batches, 1)

	b := batches[0]
	assert.EqualValues(t, 0, b.BaseOffset)
	require.Len(t, b.Records, 1)
	assert.Nil(t, b.Records[0].Key)
	assert.Nil(t, b.Records[0].Value)
	assert.Equal(t, raw, b.RawBytes)
}

func TestDecodeRecordBatchesMultipleBatchesConcatenated(t *testing.T) {
	raw := append(buildRecordBatch(t, 0), buildRecordBatch(t, 1)...)

	batches, err := DecodeRecordBatches(raw)
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.EqualValues(t, 0, batches[0].BaseOffset)
	assert.EqualValues(t, 1, batches[1].BaseOffset)
}

func TestDecodeRecordBatchesEmptyBufferIsNoBatches(t *testing.T) {
	batches, err := DecodeRecordBatches(nil)
	require.NoError(t, err)
	assert.Empty(t, batches)
}

func TestDecodeRecordBatchesTruncatedIsError(t *testing.T) {
	raw := buildRecordBatch(t, 0)
	_, err := DecodeRecordBatches(raw[:len(raw)-3])
	assert.Error(t, err)
}

func TestDecodeRecordBatchesBadBatchLengthIsFramingError(t *testing.T) {
	raw := buildRecordBatch(t, 0)
	// Corrupt batch_length (bytes 8..12) to a value inconsistent with the
	// actual payload size.
	corrupted := append([]byte(nil), raw...)
	corrupted[8] = 0xFF
	_, err := DecodeRecordBatches(corrupted)
	assert.ErrorIs(t, err, kerrors.ErrFraming)
}
