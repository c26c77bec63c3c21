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

// Package merge composes the per-chunk PartialStates produced by the
// automaton driver, in chunk order, into one global FinalResult.
package merge

import "github.com/jharrow/xpathstream/internal/driver"

// FinalResult is the outcome of stitching every chunk's PartialState
// together. A Null result means the chunk sequence is not stitchable:
// the document violates the path's shape, or a chunk failed to parse.
type FinalResult struct {
	Null            bool
	Err             error
	FirstEntryState int
	LastExitState   int
	EntryQueue      []int
	ExitStack       []int
	Outputs         []string
}

// Merge reduces states, in chunk order, into a single FinalResult.
func Merge(states []driver.PartialState) *FinalResult {
	if len(states) == 0 {
		return &FinalResult{Null: true}
	}
	for _, s := range states {
		if s.Err != nil {
			return &FinalResult{Null: true, Err: s.Err}
		}
	}

	g := globalState{outputs: append([]string(nil), states[0].Outputs...)}
	if states[0].EntryFixed {
		g.firstEntryState = states[0].FirstEntryState
		g.lastExitState = states[0].LastExitState
		g.entryQueue = append([]int(nil), states[0].EntryQueue...)
		g.exitStack = append([]int(nil), states[0].ExitStack...)
		g.fixed = true
	}

	for i := 1; i < len(states); i++ {
		p := states[i]
		if !p.EntryFixed {
			// A chunk with no structural events at all carries no
			// context; it neither constrains nor advances the global
			// state, it only contributes whatever (necessarily empty)
			// outputs it collected.
			g.outputs = append(g.outputs, p.Outputs...)
			continue
		}
		if !g.fixed {
			// Nothing has fixed the global state yet either (every
			// chunk so far was structurally neutral); adopt this
			// chunk's context as the starting point.
			g.firstEntryState = p.FirstEntryState
			g.lastExitState = p.LastExitState
			g.entryQueue = append([]int(nil), p.EntryQueue...)
			g.exitStack = append([]int(nil), p.ExitStack...)
			g.fixed = true
			g.outputs = append(g.outputs, p.Outputs...)
			continue
		}

		if g.lastExitState != p.FirstEntryState {
			return &FinalResult{Null: true}
		}

		// p.EntryQueue records, in the order the chunk's ascends
		// resolved them, the states it unwound through — so its first
		// element corresponds to the top of the previous chunk's
		// exit_stack, its second element to the one below that, and so
		// on. Walking both from the top down (rather than comparing
		// like-indexed tails) is what lets a stack built by pushes
		// line up with a queue built by pops.
		m := len(p.EntryQueue)
		matched := m <= len(g.exitStack)
		if matched {
			for k := 0; k < m; k++ {
				if g.exitStack[len(g.exitStack)-1-k] != p.EntryQueue[k] {
					matched = false
					break
				}
			}
		}
		if matched {
			g.exitStack = append(g.exitStack[:len(g.exitStack)-m], p.ExitStack...)
		} else {
			g.exitStack = append(g.exitStack, p.ExitStack...)
		}

		g.lastExitState = p.LastExitState
		g.outputs = append(g.outputs, p.Outputs...)
	}

	if !g.fixed {
		// No chunk ever saw a structural event: nothing in the
		// document matched any automaton edge. Per spec.md §8
		// property 5/3, this is a non-null, empty-match result with
		// the automaton parked at state 1 on both ends.
		g.firstEntryState = 1
		g.lastExitState = 1
	} else if len(g.exitStack) != 1 || g.exitStack[0] != 1 {
		// The merged document never unwinds back to the outermost
		// state: some matched element was opened but never closed
		// (spec.md §8 scenario S6, e.g. D="<a>", P=/a). A parse that
		// ends mid-element is not a result, closed or otherwise.
		return &FinalResult{Null: true}
	}

	return &FinalResult{
		FirstEntryState: g.firstEntryState,
		LastExitState:   g.lastExitState,
		EntryQueue:      g.entryQueue,
		ExitStack:       g.exitStack,
		Outputs:         g.outputs,
	}
}

type globalState struct {
	fixed           bool
	firstEntryState int
	lastExitState   int
	entryQueue      []int
	exitStack       []int
	outputs         []string
}
