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

// ApiKey identifies a Kafka request type on the wire.
//
// https://kafka.apache.org/protocol#protocol_api_keys
type ApiKey int16

const (
	Produce                 ApiKey = 0
	Fetch                   ApiKey = 1
	DescribeTopicPartitions ApiKey = 75
	ApiVersions             ApiKey = 18
)

// ApiKeyRange describes the min/max supported version of one advertised API.
type ApiKeyRange struct {
	Key        ApiKey
	MinVersion int16
	MaxVersion int16
}

// SupportedApis is the fixed set this broker advertises via ApiVersions.
var SupportedApis = []ApiKeyRange{
	{Key: ApiVersions, MinVersion: 0, MaxVersion: 4},
	{Key: Fetch, MinVersion: 0, MaxVersion: 16},
	{Key: DescribeTopicPartitions, MinVersion: 0, MaxVersion: 0},
	{Key: Produce, MinVersion: 0, MaxVersion: 11},
}
