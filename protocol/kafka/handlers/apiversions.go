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

// Package handlers implements the four Kafka request handlers this
// broker advertises: ApiVersions, Fetch, DescribeTopicPartitions and
// Produce. Each handler decodes a typed request body, computes a typed
// response, and leaves wire (de)serialization to free functions —
// there's no Serializable interface or boxed trait object here, just
// structs and functions.
package handlers

import "github.com/kbroker/kbroker/protocol/kafka"

// ApiKeyEntry is one advertised API's supported version range.
type ApiKeyEntry struct {
	ApiKey     int16
	MinVersion int16
	MaxVersion int16
}

// ApiVersionsResponse is the body of an ApiVersions v4 response.
// Response header is V0 — a historical quirk preserved even though v4
// is a flexible version.
type ApiVersionsResponse struct {
	ErrorCode      int16
	ApiKeys        []ApiKeyEntry
	ThrottleTimeMs int32
}

// HandleApiVersions ignores the request body entirely (it is never
// consulted) and answers from the fixed advertised API list.
func HandleApiVersions(requestApiVersion int16) ApiVersionsResponse {
	errorCode := int16(kafka.None)
	if requestApiVersion < 0 || requestApiVersion > 4 {
		errorCode = int16(kafka.UnsupportedVersion)
	}

	keys := make([]ApiKeyEntry, 0, len(kafka.SupportedApis))
	for _, a := range kafka.SupportedApis {
		keys = append(keys, ApiKeyEntry{
			ApiKey:     int16(a.Key),
			MinVersion: a.MinVersion,
			MaxVersion: a.MaxVersion,
		})
	}

	return ApiVersionsResponse{
		ErrorCode:      errorCode,
		ApiKeys:        keys,
		ThrottleTimeMs: 0,
	}
}

func encodeApiKeyEntry(out []byte, e ApiKeyEntry) []byte {
	out = kafka.EncodeInt16(out, e.ApiKey)
	out = kafka.EncodeInt16(out, e.MinVersion)
	out = kafka.EncodeInt16(out, e.MaxVersion)
	return kafka.EncodeTaggedFieldsSection(out, kafka.EmptyTaggedFields)
}

func sizeApiKeyEntry(e ApiKeyEntry) int {
	return 2 + 2 + 2 + kafka.SizeTaggedFieldsSection(kafka.EmptyTaggedFields)
}

// EncodeApiVersionsResponse appends the response body.
func EncodeApiVersionsResponse(out []byte, r ApiVersionsResponse) []byte {
	out = kafka.EncodeInt16(out, r.ErrorCode)
	out = kafka.EncodeCompactArray(out, r.ApiKeys, encodeApiKeyEntry)
	out = kafka.EncodeInt32(out, r.ThrottleTimeMs)
	return kafka.EncodeTaggedFieldsSection(out, kafka.EmptyTaggedFields)
}

// SizeApiVersionsResponse returns the response body's wire size.
func SizeApiVersionsResponse(r ApiVersionsResponse) int {
	n := 2
	n += kafka.SizeCompactArray(r.ApiKeys, sizeApiKeyEntry)
	n += 4
	n += kafka.SizeTaggedFieldsSection(kafka.EmptyTaggedFields)
	return n
}
