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

// BatchedSender is the shape this package offers to OT-extension and
// garbled-circuit consumers (C8): each call consumes exactly one
// TransferID on each side, inputs are a sequence of (Block, Block) pairs,
// and outputs are a sequence of Block of equal length. Counter-based
// tweaks never surface in this interface. *ActiveSender satisfies it.
type BatchedSender interface {
	Send(inputs [][2]Block, payload ReceiverPayload) (SenderPayload, error)
}

// BatchedReceiver is the Receiver half of the contract. *ActiveReceiver
// satisfies it.
type BatchedReceiver interface {
	Receive(choices []bool) ReceiverPayload
	ReceivePayload(payload SenderPayload) ([]Block, error)
}

var (
	_ BatchedSender   = (*ActiveSender)(nil)
	_ BatchedReceiver = (*ActiveReceiver)(nil)
)
