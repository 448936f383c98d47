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
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/go-multierror"
)

// MetadataPartition is the well-known cluster-metadata partition path
// segment, relative to a Store's base directory.
const MetadataPartition = "__cluster_metadata-0"

// logFileName is the single segment file name every partition directory
// in this broker ever has.
const logFileName = "00000000000000000000.log"

type cacheEntry struct {
	mtimeKey uint64
	raw      []byte
	batches  []RecordBatch
}

// Store locates, reads, and caches the on-disk cluster-metadata and
// per-partition data logs. A cache entry is keyed by path and
// invalidated whenever the file's mtime changes, so concurrent
// connections observe a consistent immutable snapshot; a lookup takes
// only the read lock, and a reload replaces the entry under the write
// lock.
type Store struct {
	basePath string

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// NewStore roots a Store at basePath (e.g. /tmp/kraft-combined-logs).
func NewStore(basePath string) *Store {
	return &Store{
		basePath: basePath,
		cache:    make(map[string]cacheEntry),
	}
}

// MetadataBatches decodes the cluster-metadata log's record batches.
func (s *Store) MetadataBatches() ([]RecordBatch, error) {
	_, batches, err := s.load(filepath.Join(s.basePath, MetadataPartition, logFileName))
	return batches, err
}

// DataLog returns the raw on-disk bytes and decoded batches for one
// partition's data log. A missing directory or file is not an error: it
// returns (nil, nil, nil), which callers treat as "no records yet"
// rather than a failure (see Open Question on absent data log
// directories).
func (s *Store) DataLog(topicName string, partitionIndex int32) ([]byte, []RecordBatch, error) {
	dir := fmt.Sprintf("%s-%d", topicName, partitionIndex)
	return s.load(filepath.Join(s.basePath, dir, logFileName))
}

func (s *Store) load(path string) ([]byte, []RecordBatch, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	key := xxhash.Sum64String(path) ^ uint64(info.ModTime().UnixNano())

	s.mu.RLock()
	entry, ok := s.cache[path]
	s.mu.RUnlock()
	if ok && entry.mtimeKey == key {
		return entry.raw, entry.batches, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	batches, err := DecodeRecordBatches(raw)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	s.cache[path] = cacheEntry{mtimeKey: key, raw: raw, batches: batches}
	s.mu.Unlock()

	return raw, batches, nil
}

// Warmup eagerly reads and caches the cluster-metadata log plus every
// data log directory name given in topics, collecting every failure
// instead of stopping at the first one. Intended for use at startup to
// surface a misconfigured store path early; a Warmup failure is not
// fatal to serving (handlers fall back to per-request loads).
func (s *Store) Warmup(topics []string) error {
	var result error

	if _, _, err := s.MetadataBatches(); err != nil {
		result = multierror.Append(result, fmt.Errorf("cluster metadata log: %w", err))
	}

	for _, topic := range topics {
		if _, _, err := s.DataLog(topic, 0); err != nil {
			result = multierror.Append(result, fmt.Errorf("data log %s-0: %w", topic, err))
		}
	}

	return result
}
