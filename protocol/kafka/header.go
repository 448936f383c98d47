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

package kafka

// RequestHeaderV2 is decoded from every incoming request, immediately
// after the message_size prefix.
//
//	+------------------+------------------+------------------+
//	| request_api_key  |request_api_version|  correlation_id  |
//	|      i16         |        i16        |       i32        |
//	+------------------+------------------+------------------+
//	|         client_id (NullableString)   | tagged_fields    |
//	+---------------------------------------+------------------+
type RequestHeaderV2 struct {
	ApiKey        int16
	ApiVersion    int16
	CorrelationID int32
	ClientID      *string
	TaggedFields  TaggedFieldsSection
}

// DecodeRequestHeaderV2 decodes a header starting at off (the byte right
// after message_size).
func DecodeRequestHeaderV2(b []byte, off int) (RequestHeaderV2, int, error) {
	start := off
	apiKey, n, err := DecodeInt16(b, off)
	if err != nil {
		return RequestHeaderV2{}, 0, err
	}
	off += n

	apiVersion, n, err := DecodeInt16(b, off)
	if err != nil {
		return RequestHeaderV2{}, 0, err
	}
	off += n

	correlationID, n, err := DecodeInt32(b, off)
	if err != nil {
		return RequestHeaderV2{}, 0, err
	}
	off += n

	clientID, n, err := DecodeNullableString(b, off)
	if err != nil {
		return RequestHeaderV2{}, 0, err
	}
	off += n

	tagged, n, err := DecodeTaggedFieldsSection(b, off)
	if err != nil {
		return RequestHeaderV2{}, 0, err
	}
	off += n

	return RequestHeaderV2{
		ApiKey:        apiKey,
		ApiVersion:    apiVersion,
		CorrelationID: correlationID,
		ClientID:      clientID,
		TaggedFields:  tagged,
	}, off - start, nil
}

// ResponseHeaderV0 is just the correlation id. ApiVersions uses this
// header version even though v4 is a flexible version — a historical
// quirk of the real protocol that this broker preserves.
type ResponseHeaderV0 struct {
	CorrelationID int32
}

// EncodeResponseHeaderV0 appends the header.
func EncodeResponseHeaderV0(out []byte, h ResponseHeaderV0) []byte {
	return EncodeInt32(out, h.CorrelationID)
}

// SizeResponseHeaderV0 returns the header's wire size.
func SizeResponseHeaderV0(ResponseHeaderV0) int { return 4 }

// ResponseHeaderV1 adds a tagged fields section, used by every handler
// in this broker except ApiVersions.
type ResponseHeaderV1 struct {
	CorrelationID int32
	TaggedFields  TaggedFieldsSection
}

// EncodeResponseHeaderV1 appends the header.
func EncodeResponseHeaderV1(out []byte, h ResponseHeaderV1) []byte {
	out = EncodeInt32(out, h.CorrelationID)
	return EncodeTaggedFieldsSection(out, h.TaggedFields)
}

// SizeResponseHeaderV1 returns the header's wire size.
func SizeResponseHeaderV1(h ResponseHeaderV1) int {
	return 4 + SizeTaggedFieldsSection(h.TaggedFields)
}
