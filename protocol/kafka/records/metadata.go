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
	"sort"

	"github.com/google/uuid"

	"github.com/kbroker/kbroker/protocol/kafka"
)

// Cluster-metadata record value types this broker understands. Any other
// type is decoded only through the header and then ignored.
const (
	recordTypeTopic        int8 = 2
	recordTypePartition    int8 = 3
	recordTypeFeatureLevel int8 = 12
)

// MetadataHeader prefixes every record value in the cluster-metadata log.
type MetadataHeader struct {
	FrameVersion int8
	Type         int8
	Version      int8
}

// TopicRecord names a topic and assigns it a stable UUID.
type TopicRecord struct {
	TopicName string
	TopicUUID uuid.UUID
}

// PartitionRecord describes one partition of a topic. Field order is
// fixed by the protocol, not chosen for readability.
type PartitionRecord struct {
	PartitionID    int32
	TopicUUID      uuid.UUID
	Replicas       []int32
	ISR            []int32
	Removing       []int32
	Adding         []int32
	Leader         int32
	LeaderEpoch    int32
	PartitionEpoch int32
	Directories    []uuid.UUID
}

// FeatureLevelRecord records the active level of a cluster feature flag.
// Not consulted by any handler in this broker; decoded for completeness
// of the metadata decoder (callers that don't need it simply ignore it,
// same as unrecognized record types).
type FeatureLevelRecord struct {
	Name         string
	FeatureLevel int16
}

// decodeMetadataHeader reads the three-byte header common to every
// cluster-metadata record value.
func decodeMetadataHeader(b []byte, off int) (MetadataHeader, int, error) {
	start := off
	frameVersion, n, err := kafka.DecodeInt8(b, off)
	if err != nil {
		return MetadataHeader{}, 0, err
	}
	off += n
	typ, n, err := kafka.DecodeInt8(b, off)
	if err != nil {
		return MetadataHeader{}, 0, err
	}
	off += n
	version, n, err := kafka.DecodeInt8(b, off)
	if err != nil {
		return MetadataHeader{}, 0, err
	}
	off += n
	return MetadataHeader{FrameVersion: frameVersion, Type: typ, Version: version}, off - start, nil
}

func decodeTopicRecord(b []byte, off int) (TopicRecord, error) {
	name, n, err := kafka.DecodeCompactString(b, off)
	if err != nil {
		return TopicRecord{}, err
	}
	off += n
	id, _, err := kafka.DecodeUUID(b, off)
	if err != nil {
		return TopicRecord{}, err
	}
	return TopicRecord{TopicName: name, TopicUUID: id}, nil
}

func decodeInt32Array(b []byte, off int) ([]int32, int, error) {
	return kafka.DecodeCompactArray(b, off, kafka.DecodeInt32)
}

func decodePartitionRecord(b []byte, off int) (PartitionRecord, error) {
	start := off

	partitionID, n, err := kafka.DecodeInt32(b, off)
	if err != nil {
		return PartitionRecord{}, err
	}
	off += n

	topicUUID, n, err := kafka.DecodeUUID(b, off)
	if err != nil {
		return PartitionRecord{}, err
	}
	off += n

	replicas, n, err := decodeInt32Array(b, off)
	if err != nil {
		return PartitionRecord{}, err
	}
	off += n

	isr, n, err := decodeInt32Array(b, off)
	if err != nil {
		return PartitionRecord{}, err
	}
	off += n

	removing, n, err := decodeInt32Array(b, off)
	if err != nil {
		return PartitionRecord{}, err
	}
	off += n

	adding, n, err := decodeInt32Array(b, off)
	if err != nil {
		return PartitionRecord{}, err
	}
	off += n

	leader, n, err := kafka.DecodeInt32(b, off)
	if err != nil {
		return PartitionRecord{}, err
	}
	off += n

	leaderEpoch, n, err := kafka.DecodeInt32(b, off)
	if err != nil {
		return PartitionRecord{}, err
	}
	off += n

	partitionEpoch, n, err := kafka.DecodeInt32(b, off)
	if err != nil {
		return PartitionRecord{}, err
	}
	off += n

	directories, _, err := kafka.DecodeCompactArray(b, off, kafka.DecodeUUID)
	if err != nil {
		return PartitionRecord{}, err
	}

	_ = start
	return PartitionRecord{
		PartitionID:    partitionID,
		TopicUUID:      topicUUID,
		Replicas:       replicas,
		ISR:            isr,
		Removing:       removing,
		Adding:         adding,
		Leader:         leader,
		LeaderEpoch:    leaderEpoch,
		PartitionEpoch: partitionEpoch,
		Directories:    directories,
	}, nil
}

func decodeFeatureLevelRecord(b []byte, off int) (FeatureLevelRecord, error) {
	name, n, err := kafka.DecodeCompactString(b, off)
	if err != nil {
		return FeatureLevelRecord{}, err
	}
	off += n
	level, _, err := kafka.DecodeInt16(b, off)
	if err != nil {
		return FeatureLevelRecord{}, err
	}
	return FeatureLevelRecord{Name: name, FeatureLevel: level}, nil
}

// SearchItem selects which topic a metadata search is looking for,
// either by id or by name. Exactly one field is set.
type SearchItem struct {
	TopicID   *uuid.UUID
	TopicName *string
}

// BySearchTopicID builds a SearchItem matching on topic uuid.
func BySearchTopicID(id uuid.UUID) SearchItem {
	return SearchItem{TopicID: &id}
}

// BySearchTopicName builds a SearchItem matching on topic name.
func BySearchTopicName(name string) SearchItem {
	return SearchItem{TopicName: &name}
}

func (s SearchItem) matches(t TopicRecord) bool {
	if s.TopicID != nil {
		return t.TopicUUID == *s.TopicID
	}
	if s.TopicName != nil {
		return t.TopicName == *s.TopicName
	}
	return false
}

// Search walks every batch's records in order, decoding metadata values,
// and returns the most recently seen TopicRecord matching item together
// with every PartitionRecord whose topic_uuid matches that topic. When
// topicRecordOnly is set, partitions are never collected (and need not
// be decoded at all). A nil topic return means no match was found.
func Search(batches []RecordBatch, item SearchItem, topicRecordOnly bool) (*TopicRecord, []PartitionRecord, error) {
	var found *TopicRecord
	var partitionRecords []PartitionRecord

	for _, batch := range batches {
		for _, rec := range batch.Records {
			if rec.Value == nil {
				continue
			}
			header, n, err := decodeMetadataHeader(rec.Value, 0)
			if err != nil {
				return nil, nil, err
			}
			switch header.Type {
			case recordTypeTopic:
				topic, err := decodeTopicRecord(rec.Value, n)
				if err != nil {
					return nil, nil, err
				}
				if item.matches(topic) {
					t := topic
					found = &t
				}
			case recordTypePartition:
				if topicRecordOnly {
					continue
				}
				partition, err := decodePartitionRecord(rec.Value, n)
				if err != nil {
					return nil, nil, err
				}
				if found != nil && partition.TopicUUID == found.TopicUUID {
					partitionRecords = append(partitionRecords, partition)
				}
			case recordTypeFeatureLevel:
				if _, err := decodeFeatureLevelRecord(rec.Value, n); err != nil {
					return nil, nil, err
				}
			default:
				// Anything else: header already consumed, body skipped.
			}
		}
	}

	if found == nil {
		return nil, nil, nil
	}
	sort.Slice(partitionRecords, func(i, j int) bool {
		return partitionRecords[i].PartitionID < partitionRecords[j].PartitionID
	})
	return found, partitionRecords, nil
}
