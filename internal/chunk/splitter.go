// Copyright 2025 EasyAgent
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package chunk partitions a byte buffer into contiguous slices cut
// on '<' boundaries, so each chunk can be tokenized independently
// starting from the lexer's initial state.
package chunk

import "bytes"

// Split partitions data into at most n chunks. Each non-final chunk
// ends exactly one byte before the next '<' at or past its target cut
// point ceil(len(data)/n)*(i+1). When no further '<' exists past a
// target, the remainder is folded into the previous chunk and the
// returned slice has fewer than n elements.
func Split(data []byte, n int) [][]byte {
	if n <= 1 || len(data) == 0 {
		return [][]byte{data}
	}

	size := (len(data) + n - 1) / n
	chunks := make([][]byte, 0, n)
	start := 0
	for i := 0; i < n-1; i++ {
		target := size * (i + 1)
		if target >= len(data) {
			break
		}
		rel := bytes.IndexByte(data[target:], '<')
		if rel == -1 {
			break
		}
		cut := target + rel
		if cut <= start {
			// Target fell inside a run already claimed by an earlier
			// cut at the same next '<'; skip this redundant boundary
			// rather than emit an empty chunk.
			continue
		}
		chunks = append(chunks, data[start:cut])
		start = cut
	}
	chunks = append(chunks, data[start:])
	return chunks
}
