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

package automaton

import (
	"errors"
	"testing"
)

func TestCompileSimplePath(t *testing.T) {
	a, err := Compile("/bib/book/title")
	if err != nil {
		t.Fatalf("Compile returned error: %v", err)
	}
	if a.StateCount != 4 {
		t.Errorf("expected StateCount 4, got %d", a.StateCount)
	}
	if len(a.Descend) != 3 || len(a.Ascend) != 3 {
		t.Fatalf("expected 3 descend and 3 ascend edges, got %d/%d", len(a.Descend), len(a.Ascend))
	}

	for i, step := range []string{"bib", "book", "title"} {
		if a.Descend[i].Step != step {
			t.Errorf("descend[%d].Step = %q, want %q", i, a.Descend[i].Step, step)
		}
		if a.Descend[i].From != i+1 || a.Descend[i].To != i+2 {
			t.Errorf("descend[%d] = (%d->%d), want (%d->%d)", i, a.Descend[i].From, a.Descend[i].To, i+1, i+2)
		}
	}

	if !a.Descend[2].Emits || !a.Ascend[2].Emits {
		t.Error("only the edges adjacent to the innermost state should emit")
	}
	if a.Descend[0].Emits || a.Descend[1].Emits {
		t.Error("non-innermost descend edges must not emit")
	}
}

func TestCompileRoundTrip(t *testing.T) {
	a, err := Compile("/a/b/c/d")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	got := make([]string, len(a.Descend))
	for i, e := range a.Descend {
		got[i] = e.Step
	}
	want := []string{"a", "b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("step %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCompileRejectsMalformed(t *testing.T) {
	cases := []string{"", "a/b", "/a//b", "/a/", "/"}
	for _, c := range cases {
		if _, err := Compile(c); !errors.Is(err, ErrMalformedPath) {
			t.Errorf("Compile(%q) error = %v, want ErrMalformedPath", c, err)
		}
	}
}

func TestFindDescendAndAscend(t *testing.T) {
	a, err := Compile("/a/b")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	edge, ok := a.FindDescend("a")
	if !ok || edge.From != 1 || edge.To != 2 {
		t.Errorf("FindDescend(a) = %+v, %v", edge, ok)
	}
	if _, ok := a.FindDescend("missing"); ok {
		t.Error("FindDescend(missing) should fail")
	}
	edge, ok = a.FindAscend("b")
	if !ok || edge.From != 3 || edge.To != 2 {
		t.Errorf("FindAscend(b) = %+v, %v", edge, ok)
	}
}

func TestFindPrefersDeepestOnDuplicateNames(t *testing.T) {
	a, err := Compile("/a/a")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	edge, ok := a.FindDescend("a")
	if !ok {
		t.Fatal("expected a match")
	}
	if edge.From != 2 {
		t.Errorf("expected the deepest declared step (from=2) to win, got from=%d", edge.From)
	}
}

func TestStringAndReverseString(t *testing.T) {
	a, err := Compile("/a/b")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	forward := a.String()
	reverse := a.ReverseString()

	wantForward := "1 (str:a) 2 (str:b is an output) 3"
	wantReverse := "3 (str:/b is an output) 2 (str:/a) 1"
	if forward != wantForward {
		t.Errorf("String() = %q, want %q", forward, wantForward)
	}
	if reverse != wantReverse {
		t.Errorf("ReverseString() = %q, want %q", reverse, wantReverse)
	}
}
