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

// ErrorCode is a Kafka wire-level response error code.
//
// See https://kafka.apache.org/protocol#protocol_error_codes
type ErrorCode int16

const (
	None                    ErrorCode = 0
	UnknownTopicOrPartition ErrorCode = 3
	UnsupportedVersion      ErrorCode = 35
	UnknownTopicID          ErrorCode = 100
)
