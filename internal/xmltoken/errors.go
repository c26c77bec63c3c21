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

package xmltoken

import "errors"

// ErrMalformedXML is returned when a chunk contains a tag the lexer
// cannot classify: '<' followed by whitespace, an unmatched quote
// inside an attribute value, or a misspelled "<![CDATA[" marker.
var ErrMalformedXML = errors.New("xmltoken: malformed xml")
