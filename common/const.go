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

package common

const (
	// App is the program name.
	App = "kbroker"

	// Version is the program version.
	Version = "v0.1.0"

	// ReadWriteBlockSize is the size of the connection driver's buffered
	// reader. Requests larger than it are still read whole: the driver
	// allocates each request body at exactly its message_size.
	ReadWriteBlockSize = 4096
)
