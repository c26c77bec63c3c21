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

// Package driver runs the compiled automaton over one chunk's
// structural events and produces that chunk's PartialState: what the
// automaton would have done had the surrounding document context been
// known. It also owns the output collector, buffering text fragments
// seen while the automaton is in the emitting state.
package driver

import (
	"github.com/jharrow/xpathstream/internal/automaton"
	"github.com/jharrow/xpathstream/internal/xmltoken"
)

// noState is the sentinel for "undetermined" — used for
// FirstEntryState before the chunk's first structural event fixes it,
// and carried through as "any" when a chunk never sees one at all.
const noState = 0

// PartialState is one chunk's contribution: what it presumed on
// entry, what it would leave on the stack at chunk end, and the text
// it collected. It is owned by exactly one worker and is read-only
// once handed to the merger.
type PartialState struct {
	EntryQueue      []int
	ExitStack       []int
	FirstEntryState int
	LastExitState   int
	Outputs         []string
	EntryFixed      bool
	Err             error
}

// Driver executes one chunk's events against a shared, read-only
// Automaton, mutating its own PartialState only.
type Driver struct {
	automaton *automaton.Automaton
	state     PartialState

	// lastEdgeEmits records whether the most recently processed
	// structural event was an Open that matched an edge with Emits
	// true. Any Close clears it, since an ascend always leaves the
	// emitting state. Text is collected only immediately after such an
	// edge — not merely while "some" emitting state is nominally on the
	// stack — so that text inside an unmatched descendant of the
	// match is correctly excluded even though the automaton does not
	// track unmatched elements' depth. See XML_parallel.c's xml_process,
	// where the variable `j` plays exactly this role and is reset to
	// -1 on every tag that fails to match the automaton.
	lastEdgeEmits bool
}

// New creates a Driver for one chunk.
func New(a *automaton.Automaton) *Driver {
	return &Driver{automaton: a}
}

// Run tokenizes data and drives the automaton over its events,
// returning the resulting PartialState. A malformed-xml error from
// the tokenizer is recorded on the state and also returned.
func (d *Driver) Run(data []byte) (PartialState, error) {
	events, err := xmltoken.Tokenize(data)
	if err != nil {
		d.state.Err = err
		return d.state, err
	}
	for _, ev := range events {
		switch ev.Kind {
		case xmltoken.Open:
			d.onOpen(ev.Name)
		case xmltoken.Close:
			d.onClose(ev.Name)
		case xmltoken.Self:
			d.onOpen(ev.Name)
			d.onClose(ev.Name)
		case xmltoken.Text:
			d.onText(ev.Text)
		}
	}
	if d.state.EntryFixed {
		d.state.LastExitState = d.state.ExitStack[len(d.state.ExitStack)-1]
	}
	return d.state, nil
}

func (d *Driver) establish(from int) {
	if d.state.EntryFixed {
		return
	}
	d.state.FirstEntryState = from
	d.state.EntryQueue = append(d.state.EntryQueue, from)
	d.state.ExitStack = append(d.state.ExitStack, from)
	d.state.EntryFixed = true
}

func (d *Driver) onOpen(name string) {
	edge, ok := d.automaton.FindDescend(name)
	if !ok {
		d.lastEdgeEmits = false
		return
	}
	d.establish(edge.From)
	d.state.ExitStack = append(d.state.ExitStack, edge.To)
	d.lastEdgeEmits = edge.Emits
}

func (d *Driver) onClose(name string) {
	edge, ok := d.automaton.FindAscend(name)
	if !ok {
		d.lastEdgeEmits = false
		return
	}
	d.establish(edge.From)

	stack := d.state.ExitStack
	n := len(stack)
	secondFromTop := noState - 1 // a value no real state equals
	if n > 1 {
		secondFromTop = stack[n-2]
	}
	if secondFromTop == edge.To {
		d.state.ExitStack = stack[:n-1]
	} else {
		stack[n-1] = edge.To
		d.state.EntryQueue = append(d.state.EntryQueue, edge.To)
	}
	d.lastEdgeEmits = false
}

func (d *Driver) onText(text []byte) {
	if d.lastEdgeEmits && len(text) > 0 {
		d.state.Outputs = append(d.state.Outputs, string(text))
	}
	d.lastEdgeEmits = false
}
