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

package ot

import "math"

// TransferID is the monotone, non-negative sequence number (C3) binding a
// Sender's and a Receiver's view of a batch together.
type TransferID uint64

// transferIDCounter tracks the id sequence 0, 1, 2, ... . Its zero value
// starts "unused" below zero, so the first peeked/committed id is 0.
//
// peek and commit are split so a caller can validate an incoming id
// against "what would be next" before mutating anything: on a mismatch
// the counter must be left exactly as it was.
type transferIDCounter struct {
	current TransferID
	started bool
}

// peek reports the id that commit would produce next, without mutating
// the counter.
func (c *transferIDCounter) peek() TransferID {
	if !c.started {
		return 0
	}
	return c.current + 1
}

// commit advances the counter to the id peek would have reported and
// returns it. Overflow at the maximum representable id is a fatal
// condition: the session must be torn down rather than wrap around.
func (c *transferIDCounter) commit() (TransferID, error) {
	if c.started && c.current == math.MaxUint64 {
		return 0, ErrTransferIDOverflow
	}
	next := c.peek()
	c.current = next
	c.started = true
	return next, nil
}
