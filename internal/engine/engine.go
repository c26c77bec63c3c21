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

// Package engine is the executor spec.md treats as an external
// collaborator: it splits the input, fans a worker out per chunk,
// joins them, and hands their PartialStates to the merger. It owns no
// algorithm of its own beyond that orchestration.
package engine

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jharrow/xpathstream/internal/automaton"
	"github.com/jharrow/xpathstream/internal/chunk"
	"github.com/jharrow/xpathstream/internal/driver"
	"github.com/jharrow/xpathstream/internal/merge"
)

// Timings records the wall-clock duration of each phase, the
// reinstated counterpart to the reference implementation's
// gettimeofday calls around split/parse/merge.
type Timings struct {
	Split time.Duration
	Parse time.Duration
	Merge time.Duration
}

// Report is one run's full outcome.
type Report struct {
	Result  *merge.FinalResult
	Timings Timings
}

// Engine evaluates one compiled Automaton against documents.
type Engine struct {
	automaton *automaton.Automaton
}

// New builds an Engine around a, which must outlive every Run call
// made against it; it is read-only and safe for concurrent use.
func New(a *automaton.Automaton) *Engine {
	return &Engine{automaton: a}
}

// Run evaluates data with the given worker count. threads == 1 takes
// the sequential path of spec.md §4.G; threads in [2,10] fans out one
// worker per chunk the splitter returns, which can be fewer than
// threads (a single chunk is parsed inline). No locks guard the per-worker PartialStates:
// each worker owns one slice slot exclusively and the automaton is
// immutable, so there is no shared mutable state to protect.
func (e *Engine) Run(ctx context.Context, data []byte, threads int) *Report {
	splitStart := time.Now()
	chunks := chunk.Split(data, threads)
	splitDur := time.Since(splitStart)

	slog.Debug("split complete", "requested_workers", threads, "actual_chunks", len(chunks))

	parseStart := time.Now()
	states := make([]driver.PartialState, len(chunks))
	if len(chunks) == 1 {
		states[0], _ = driver.New(e.automaton).Run(chunks[0])
	} else {
		g, _ := errgroup.WithContext(ctx)
		for i, c := range chunks {
			i, c := i, c
			g.Go(func() error {
				slog.Debug("worker starting", "chunk_index", i, "chunk_bytes", len(c))
				st, err := driver.New(e.automaton).Run(c)
				states[i] = st
				if err != nil {
					// Recorded on the state, not returned: a malformed
					// chunk does not cancel its siblings (spec.md §5).
					slog.Debug("worker failed", "chunk_index", i, "error", err)
				} else {
					slog.Debug("worker finished", "chunk_index", i)
				}
				return nil
			})
		}
		_ = g.Wait()
	}
	parseDur := time.Since(parseStart)

	mergeStart := time.Now()
	result := merge.Merge(states)
	mergeDur := time.Since(mergeStart)

	return &Report{
		Result: result,
		Timings: Timings{
			Split: splitDur,
			Parse: parseDur,
			Merge: mergeDur,
		},
	}
}
