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

import "github.com/kbroker/kbroker/internal/kerrors"

// TaggedField is one opaque entry of a TaggedFieldsSection. The tag
// namespace and payload layout are defined per-request by Kafka; this
// codec never interprets a payload, it only preserves it for round-trip.
type TaggedField struct {
	Tag     uint32
	Payload []byte
}

// TaggedFieldsSection is the trailing extensible section of every
// flexible-version struct. Fields is nil (not just empty) for the
// single 0x00 byte case, which is what every handler in this broker
// emits.
type TaggedFieldsSection struct {
	Fields []TaggedField
}

// EmptyTaggedFields is the zero-field section every response in this
// broker writes.
var EmptyTaggedFields = TaggedFieldsSection{}

// DecodeTaggedFieldsSection reads the count-prefixed run of tagged
// fields. An empty section is a single 0x00 byte. Unknown tags are never
// rejected — the section is opaque beyond its own framing.
func DecodeTaggedFieldsSection(b []byte, off int) (TaggedFieldsSection, int, error) {
	count, err := DecodeUnsignedVarint(b, off)
	if err != nil {
		return TaggedFieldsSection{}, 0, err
	}
	consumed := count.ByteCount
	if count.Value == 0 {
		return TaggedFieldsSection{}, consumed, nil
	}
	fields := make([]TaggedField, 0, count.Value)
	for i := uint32(0); i < count.Value; i++ {
		tag, err := DecodeUnsignedVarint(b, off+consumed)
		if err != nil {
			return TaggedFieldsSection{}, 0, err
		}
		consumed += tag.ByteCount
		size, err := DecodeUnsignedVarint(b, off+consumed)
		if err != nil {
			return TaggedFieldsSection{}, 0, err
		}
		consumed += size.ByteCount
		end := off + consumed + int(size.Value)
		if end > len(b) {
			return TaggedFieldsSection{}, 0, kerrors.Truncated("tagged field payload at offset %d", off+consumed)
		}
		payload := b[off+consumed : end]
		consumed += int(size.Value)
		fields = append(fields, TaggedField{Tag: tag.Value, Payload: payload})
	}
	return TaggedFieldsSection{Fields: fields}, consumed, nil
}

// EncodeTaggedFieldsSection appends the section: a single 0x00 byte when
// empty, otherwise count + (tag, size, payload) per field.
func EncodeTaggedFieldsSection(out []byte, s TaggedFieldsSection) []byte {
	out = EncodeUnsignedVarint(out, uint32(len(s.Fields)))
	for _, f := range s.Fields {
		out = EncodeUnsignedVarint(out, f.Tag)
		out = EncodeUnsignedVarint(out, uint32(len(f.Payload)))
		out = append(out, f.Payload...)
	}
	return out
}

// SizeTaggedFieldsSection returns the wire size of s.
func SizeTaggedFieldsSection(s TaggedFieldsSection) int {
	n := SizeUnsignedVarint(uint32(len(s.Fields)))
	for _, f := range s.Fields {
		n += SizeUnsignedVarint(f.Tag)
		n += SizeUnsignedVarint(uint32(len(f.Payload)))
		n += len(f.Payload)
	}
	return n
}
