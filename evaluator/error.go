// Copyright © 2021 AMIS Technologies
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package evaluator stands in for the higher-level garbled-circuit
// evaluator that consumes this OT core, scoped to error enumerations
// only. It exists so the core's error taxonomy (crypto/ot) has a
// documented external consumer, wrapping an OT failure in a single
// variant alongside its own unrelated failure modes.
package evaluator

import "fmt"

// Error is the set of failures the garbled-circuit evaluator glue can
// surface. OTError wraps any failure from the base-OT core; the other
// variants stand for concerns entirely outside this core's scope
// (circuit evaluation, value decoding) and are kept here only to show
// where OTError sits among them.
type Error struct {
	OTError             error
	IncorrectValueCount *IncorrectValueCountError
}

// IncorrectValueCountError signals that the evaluator received a
// different number of decoded values than the circuit expects. It has
// nothing to do with the OT core; it is included to show OTError is one
// case among several at this boundary.
type IncorrectValueCountError struct {
	Expected int
	Actual   int
}

func (e *IncorrectValueCountError) Error() string {
	return fmt.Sprintf("evaluator: incorrect number of values: expected %d, got %d", e.Expected, e.Actual)
}

func (e *Error) Error() string {
	switch {
	case e.OTError != nil:
		return fmt.Sprintf("evaluator: ot error: %s", e.OTError)
	case e.IncorrectValueCount != nil:
		return e.IncorrectValueCount.Error()
	default:
		return "evaluator: unknown error"
	}
}

func (e *Error) Unwrap() error {
	if e.OTError != nil {
		return e.OTError
	}
	if e.IncorrectValueCount != nil {
		return e.IncorrectValueCount
	}
	return nil
}

// FromOTError wraps any error returned by the base-OT core (crypto/ot's
// SenderError or ReceiverError) into the evaluator's error type.
func FromOTError(err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{OTError: err}
}
