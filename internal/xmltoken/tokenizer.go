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

// Package xmltoken is a byte-driven lexer for the restricted XML
// subset this engine evaluates: start tags, end tags, self-closing
// tags, text, and the processing-instruction/comment/CDATA forms that
// are recognized only to be discarded. It classifies one fixed chunk
// of input into an ordered list of structural Events; it is not a
// streaming, append-as-you-go tokenizer, since each worker receives
// its whole chunk up front.
package xmltoken

import "bytes"

// Kind identifies the structural meaning of an Event.
type Kind int

const (
	// Open is reported on the close of a start tag <name> or <name attrs>.
	Open Kind = iota
	// Close is reported on the close of an end tag </name>.
	Close
	// Self is reported on <name/> or <name attrs/>, treated by the
	// driver as an Open immediately followed by a Close.
	Self
	// Text is reported for a stretch of non-'<' data between tags.
	Text
)

// Event is one structural occurrence in the token stream.
type Event struct {
	Kind Kind
	Name string // element name, for Open/Close/Self
	Text []byte // text bytes, for Text (left-trimmed of ASCII spaces)
}

// Tokenize scans data and returns its structural events in document
// order. PIs, comments, and CDATA bodies are recognized and dropped;
// an unterminated comment or CDATA section running off the end of the
// chunk is tolerated (the chunk boundary may legitimately fall inside
// one, see the chunk splitter), not reported as an error. A malformed
// tag fails the whole chunk.
func Tokenize(data []byte) ([]Event, error) {
	var events []Event
	i := 0
	n := len(data)
	for i < n {
		if data[i] != '<' {
			start := i
			for i < n && data[i] != '<' {
				i++
			}
			text := leftTrimSpaces(data[start:i])
			if len(text) > 0 {
				events = append(events, Event{Kind: Text, Text: append([]byte(nil), text...)})
			}
			continue
		}

		ev, next, err := lexTag(data, i)
		if err != nil {
			return nil, err
		}
		if next < 0 {
			// Chunk ended inside a PI/comment/CDATA body; nothing more
			// to tokenize in this chunk.
			break
		}
		if ev != nil {
			events = append(events, *ev)
		}
		i = next
	}
	return events, nil
}

// lexTag classifies the tag starting at data[i] ('<'). It returns the
// event (nil for constructs that produce no event), the index just
// past the tag, and an error for malformed input. A negative index
// with a nil error means the chunk ended before the construct closed,
// which is tolerated for PI/comment/CDATA.
func lexTag(data []byte, i int) (*Event, int, error) {
	n := len(data)
	if i+1 >= n {
		return nil, -1, nil
	}

	switch data[i+1] {
	case '?':
		end := indexOf(data, i+2, "?>")
		if end == -1 {
			return nil, -1, nil
		}
		return nil, end + 2, nil

	case '!':
		if hasPrefixAt(data, i, "<!--") {
			end := indexOf(data, i+4, "-->")
			if end == -1 {
				return nil, -1, nil
			}
			return nil, end + 3, nil
		}
		if hasPrefixAt(data, i, "<![CDATA[") {
			end := indexOf(data, i+9, "]]>")
			if end == -1 {
				return nil, -1, nil
			}
			return nil, end + 3, nil
		}
		return nil, 0, ErrMalformedXML

	case '/':
		return lexEndTag(data, i)

	default:
		return lexStartTag(data, i)
	}
}

func lexEndTag(data []byte, i int) (*Event, int, error) {
	n := len(data)
	j := i + 2
	if j >= n || isSpace(data[j]) {
		return nil, 0, ErrMalformedXML
	}
	start := j
	for j < n && data[j] != '>' && !isSpace(data[j]) {
		j++
	}
	name := string(data[start:j])
	for j < n && isSpace(data[j]) {
		j++
	}
	if j >= n || data[j] != '>' || name == "" {
		return nil, 0, ErrMalformedXML
	}
	return &Event{Kind: Close, Name: name}, j + 1, nil
}

func lexStartTag(data []byte, i int) (*Event, int, error) {
	n := len(data)
	j := i + 1
	if j >= n || isSpace(data[j]) {
		return nil, 0, ErrMalformedXML
	}
	start := j
	for j < n && !isSpace(data[j]) && data[j] != '>' && data[j] != '/' {
		j++
	}
	name := string(data[start:j])
	if name == "" {
		return nil, 0, ErrMalformedXML
	}

	selfClosing := false
	for {
		for j < n && isSpace(data[j]) {
			j++
		}
		if j >= n {
			return nil, 0, ErrMalformedXML
		}
		switch data[j] {
		case '/':
			selfClosing = true
			j++
			for j < n && isSpace(data[j]) {
				j++
			}
			if j >= n || data[j] != '>' {
				return nil, 0, ErrMalformedXML
			}
			j++
		case '>':
			j++
		default:
			var err error
			j, err = skipAttribute(data, j)
			if err != nil {
				return nil, 0, err
			}
			continue
		}
		break
	}

	if selfClosing {
		return &Event{Kind: Self, Name: name}, j, nil
	}
	return &Event{Kind: Open, Name: name}, j, nil
}

// skipAttribute consumes one name="value" (or name='value') pair
// starting at data[j] and returns the index past it.
func skipAttribute(data []byte, j int) (int, error) {
	n := len(data)
	start := j
	for j < n && data[j] != '=' && !isSpace(data[j]) && data[j] != '>' && data[j] != '/' {
		j++
	}
	if j == start {
		return 0, ErrMalformedXML
	}
	for j < n && isSpace(data[j]) {
		j++
	}
	if j >= n || data[j] != '=' {
		return 0, ErrMalformedXML
	}
	j++
	for j < n && isSpace(data[j]) {
		j++
	}
	if j >= n || (data[j] != '"' && data[j] != '\'') {
		return 0, ErrMalformedXML
	}
	quote := data[j]
	j++
	for j < n && data[j] != quote {
		j++
	}
	if j >= n {
		return 0, ErrMalformedXML
	}
	j++ // past closing quote
	return j, nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// leftTrimSpaces strips only leading ASCII space bytes (0x20); other
// whitespace, and all trailing whitespace, survives.
func leftTrimSpaces(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] == ' ' {
		i++
	}
	return b[i:]
}

func indexOf(data []byte, from int, sub string) int {
	if from > len(data) {
		return -1
	}
	rel := bytes.Index(data[from:], []byte(sub))
	if rel == -1 {
		return -1
	}
	return from + rel
}

func hasPrefixAt(data []byte, i int, prefix string) bool {
	return bytes.HasPrefix(data[i:], []byte(prefix))
}
