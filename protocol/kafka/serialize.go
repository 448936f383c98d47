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

import "github.com/valyala/bytebufferpool"

// HeaderVersion selects which response header a message is framed with.
type HeaderVersion int

const (
	HeaderV0 HeaderVersion = iota
	HeaderV1
)

// FrameResponse assembles a complete wire message: message_size ‖
// response_header ‖ response_body. encodeBody appends the already-built
// body onto the buffer that already holds message_size (computed up
// front from bodySize) and the header; bodySize must equal the number of bytes encodeBody
// appends, so the returned slice can be sized exactly once.
//
// The buffer backing the returned slice is borrowed from a process-wide
// pool and copied out before release, so callers are free to hold onto
// the result past the next FrameResponse call.
func FrameResponse(hv HeaderVersion, correlationID int32, bodySize int, encodeBody func([]byte) []byte) []byte {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	headerSize := 4
	if hv == HeaderV1 {
		headerSize = SizeResponseHeaderV1(ResponseHeaderV1{TaggedFields: EmptyTaggedFields})
	}
	messageSize := int32(headerSize + bodySize)

	buf.B = EncodeInt32(buf.B, messageSize)
	switch hv {
	case HeaderV0:
		buf.B = EncodeResponseHeaderV0(buf.B, ResponseHeaderV0{CorrelationID: correlationID})
	case HeaderV1:
		buf.B = EncodeResponseHeaderV1(buf.B, ResponseHeaderV1{CorrelationID: correlationID, TaggedFields: EmptyTaggedFields})
	}
	buf.B = encodeBody(buf.B)

	out := make([]byte, len(buf.B))
	copy(out, buf.B)
	return out
}
