// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package quandl

import (
	"fmt"
)

// Kind of the failure.
type Kind uint8

// Values of Kind.
const (
	ErrPrecondition Kind = iota + 1 // invalid request, detected before any I/O
	ErrTransport                    // download failed
	ErrParse                        // the response could not be parsed
	ErrVocabulary                   // a column name has no canonical field
)

func (k Kind) String() string {
	switch k {
	case ErrPrecondition:
		return "precondition"
	case ErrTransport:
		return "transport"
	case ErrParse:
		return "parse"
	case ErrVocabulary:
		return "vocabulary"
	}
	return fmt.Sprintf("<Undefined Kind: %d>", k)
}

// Error is the only error type returned by Source.Read.
type Error struct {
	Kind    Kind
	Request Request // nil when the options were not a Request
	Err     error
}

var _ error = &Error{}

func (e *Error) Error() string {
	req := "<nil>"
	if e.Request != nil {
		req = e.Request.String()
	}
	return fmt.Sprintf("quandl %s failure for %s: %s", e.Kind, req, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, r Request, err error) *Error {
	return &Error{Kind: kind, Request: r, Err: err}
}
