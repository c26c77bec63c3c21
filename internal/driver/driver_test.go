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

package driver

import (
	"reflect"
	"testing"

	"github.com/jharrow/xpathstream/internal/automaton"
)

func compile(t *testing.T, path string) *automaton.Automaton {
	t.Helper()
	a, err := automaton.Compile(path)
	if err != nil {
		t.Fatalf("Compile(%q): %v", path, err)
	}
	return a
}

// TestRunWholeMatchInOneChunk is scenario S1: a complete, self-contained
// match inside a single chunk captures its text and settles back to state 1.
func TestRunWholeMatchInOneChunk(t *testing.T) {
	a := compile(t, "/bib/book/title")
	st, err := New(a).Run([]byte("<bib><book><title>Go</title></book></bib>"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(st.Outputs, []string{"Go"}) {
		t.Errorf("Outputs = %v, want [Go]", st.Outputs)
	}
	if st.FirstEntryState != 1 || st.LastExitState != 1 {
		t.Errorf("entry/exit = %d/%d, want 1/1", st.FirstEntryState, st.LastExitState)
	}
}

// TestRunSkipsUnmatchedDescendant is scenario S2: text nested inside a
// tag the automaton does not track must not be captured even though it
// occurs between the matching open and close tags.
func TestRunSkipsUnmatchedDescendant(t *testing.T) {
	a := compile(t, "/bib/book/title")
	st, err := New(a).Run([]byte("<bib><book><title>Go <em>lang</em> book</title></book></bib>"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Only the text immediately following the matched <title> open
	// survives: the unmatched <em> open resets the emit tracking, so
	// neither "lang" nor the trailing " book" (which follows the
	// unmatched </em>, not a matched edge) is captured.
	if !reflect.DeepEqual(st.Outputs, []string{"Go "}) {
		t.Errorf("Outputs = %v, want [\"Go \"]", st.Outputs)
	}
}

// TestRunOpenOnlyChunkLeavesEntryQueueOpen models the first half of a
// match split across chunks: the chunk opens bib>book>title but never
// closes them, so ExitStack still holds every opened state and the
// chunk ends in the innermost one.
func TestRunOpenOnlyChunkLeavesEntryQueueOpen(t *testing.T) {
	a := compile(t, "/bib/book/title")
	st, err := New(a).Run([]byte("<bib><book><title>Go "))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if st.FirstEntryState != 1 {
		t.Errorf("FirstEntryState = %d, want 1", st.FirstEntryState)
	}
	if st.LastExitState != 4 {
		t.Errorf("LastExitState = %d, want 4 (innermost state)", st.LastExitState)
	}
	if !reflect.DeepEqual(st.Outputs, []string{"Go "}) {
		t.Errorf("Outputs = %v, want [\"Go \"]", st.Outputs)
	}
}

// TestRunCloseOnlyChunkRecordsEntry models the second half of a match
// split across chunks: the chunk sees only closing tags, so establish()
// fixes FirstEntryState from the first ascend edge it resolves.
func TestRunCloseOnlyChunkRecordsEntry(t *testing.T) {
	a := compile(t, "/bib/book/title")
	st, err := New(a).Run([]byte("lang</title></book></bib>"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if st.FirstEntryState != 4 {
		t.Errorf("FirstEntryState = %d, want 4", st.FirstEntryState)
	}
	if st.LastExitState != 1 {
		t.Errorf("LastExitState = %d, want 1", st.LastExitState)
	}
	if len(st.Outputs) != 0 {
		t.Errorf("Outputs = %v, want none: text at the very start of a chunk has no preceding matched tag", st.Outputs)
	}
}

func TestRunNoMatchProducesNeutralState(t *testing.T) {
	a := compile(t, "/bib/book/title")
	st, err := New(a).Run([]byte("<other>irrelevant</other>"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if st.EntryFixed {
		t.Error("EntryFixed should stay false when no tag matches the automaton")
	}
	if len(st.Outputs) != 0 {
		t.Errorf("Outputs = %v, want none", st.Outputs)
	}
}

func TestRunMalformedXMLIsReportedOnState(t *testing.T) {
	a := compile(t, "/bib/book/title")
	st, err := New(a).Run([]byte("<bib><book>< bad></book></bib>"))
	if err == nil {
		t.Fatal("expected an error for malformed input")
	}
	if st.Err != err {
		t.Errorf("PartialState.Err = %v, want %v", st.Err, err)
	}
}
