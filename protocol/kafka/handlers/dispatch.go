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

// Kind tags which of the four response shapes a Response carries. A
// tagged union stands in for the boxed/dynamic dispatch a trait-object
// design would reach for — callers switch on Kind instead of calling
// through an interface, and encoding is a free function per variant.
type Kind int

const (
	KindApiVersions Kind = iota
	KindFetch
	KindDescribeTopicPartitions
	KindProduce
)

// Response is the tagged union of every handler's result. Exactly the
// field matching Kind is populated.
type Response struct {
	Kind                    Kind
	CorrelationID           int32
	ApiVersions             *ApiVersionsResponse
	Fetch                   *FetchResponse
	DescribeTopicPartitions *DescribeTopicPartitionsResponse
	Produce                 *ProduceResponse
}

// Frame serializes r into a complete wire message, picking the response
// header version the real protocol uses for each API (ApiVersions keeps
// the older V0 header; everything else uses V1).
func (r Response) Frame() []byte {
	switch r.Kind {
	case KindApiVersions:
		body := *r.ApiVersions
		return kafka.FrameResponse(kafka.HeaderV0, r.CorrelationID, SizeApiVersionsResponse(body), func(out []byte) []byte {
			return EncodeApiVersionsResponse(out, body)
		})
	case KindFetch:
		body := *r.Fetch
		return kafka.FrameResponse(kafka.HeaderV1, r.CorrelationID, SizeFetchResponse(body), func(out []byte) []byte {
			return EncodeFetchResponse(out, body)
		})
	case KindDescribeTopicPartitions:
		body := *r.DescribeTopicPartitions
		return kafka.FrameResponse(kafka.HeaderV1, r.CorrelationID, SizeDescribeTopicPartitionsResponse(body), func(out []byte) []byte {
			return EncodeDescribeTopicPartitionsResponse(out, body)
		})
	case KindProduce:
		body := *r.Produce
		return kafka.FrameResponse(kafka.HeaderV1, r.CorrelationID, SizeProduceResponse(body), func(out []byte) []byte {
			return EncodeProduceResponse(out, body)
		})
	default:
		return nil
	}
}
