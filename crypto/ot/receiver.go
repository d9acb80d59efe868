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

import (
	"crypto/rand"
	"io"
	"math"
)

// Receiver is a Chou-Orlandi OT receiver that has not yet consumed the
// Sender's setup message. Like Sender, it has no Receive method: nothing
// can be obliviously requested before Setup runs.
type Receiver struct {
	config   ReceiverConfig
	rng      io.Reader
	consumed bool
}

// String implements fmt.Stringer opaquely, matching Sender's.
func (r *Receiver) String() string {
	return "ot.Receiver{...}"
}

// GoString implements fmt.GoStringer opaquely, covering %#v.
func (r *Receiver) GoString() string {
	return "ot.Receiver{...}"
}

// NewReceiver creates a Receiver that samples its per-OT scalars from
// system entropy.
func NewReceiver(config ReceiverConfig) *Receiver {
	return &Receiver{config: config, rng: rand.Reader}
}

// NewReceiverWithSeed creates a Receiver whose per-OT scalars are drawn
// deterministically from seed. Intended for tests and, with the seed
// later revealed, for a Sender's VerifyChoices simulation.
func NewReceiverWithSeed(config ReceiverConfig, seed [32]byte) *Receiver {
	return &Receiver{config: config, rng: newSeededRNG(seed)}
}

// Config returns the Receiver's configuration.
func (r *Receiver) Config() ReceiverConfig {
	return r.config
}

// Setup consumes the Sender's setup message and returns the active,
// batch-requesting Receiver.
func (r *Receiver) Setup(setup SenderSetup) *ActiveReceiver {
	if r.consumed {
		panic("ot: Receiver.Setup called more than once")
	}
	r.consumed = true
	return &ActiveReceiver{
		config:    r.config,
		publicKey: setup.PublicKey,
		rng:       r.rng,
	}
}

// SetupFromBytes decodes a wire-format SenderSetup and consumes it, as
// Setup does. It returns ReceiverError{MalformedPoint: true} if buf is not
// a canonical Ristretto encoding.
func (r *Receiver) SetupFromBytes(buf [PointSize]byte) (*ActiveReceiver, error) {
	setup, err := DecodeSenderSetup(buf)
	if err != nil {
		return nil, &ReceiverError{MalformedPoint: true}
	}
	return r.Setup(setup), nil
}

// pendingOT is the Receiver's private state for one in-flight OT
// instance: the blinding scalar and choice bit it used to build the
// blinded choice it sent, needed to decrypt the Sender's reply.
type pendingOT struct {
	b Scalar
	c bool
}

// ActiveReceiver is a Receiver that has completed setup and can request
// batched OT transfers.
type ActiveReceiver struct {
	config     ReceiverConfig
	publicKey  Point // A, the Sender's public key
	rng        io.Reader
	transferID transferIDCounter
	counter    uint64

	pendingID TransferID
	pending   []pendingOT

	choiceLog []bool
}

// Receive samples per-OT scalars and blinds choices, returning the
// payload to send the Sender. The (b_i, c_i) pairs are retained for the
// matching ReceivePayload call.
func (r *ActiveReceiver) Receive(choices []bool) ReceiverPayload {
	id, blinded, pending := r.blind(choices)
	r.pendingID = id
	r.pending = pending
	r.choiceLog = append(r.choiceLog, choices...)
	return ReceiverPayload{ID: id, BlindedChoices: blinded}
}

// ReceiveRandom behaves like Receive but does not retain the (b_i, c_i)
// pairs; it exists for the VerifyChoices simulation, which only needs the
// resulting blinded choices to compare against the tape.
func (r *ActiveReceiver) ReceiveRandom(choices []bool) ReceiverPayload {
	id, blinded, _ := r.blind(choices)
	return ReceiverPayload{ID: id, BlindedChoices: blinded}
}

func (r *ActiveReceiver) blind(choices []bool) (TransferID, []Point, []pendingOT) {
	id, err := r.transferID.commit()
	if err != nil {
		panic("ot: " + err.Error())
	}

	blinded := make([]Point, len(choices))
	pending := make([]pendingOT, len(choices))
	for i, c := range choices {
		b, err := sampleScalar(r.rng)
		if err != nil {
			panic("ot: receiver rng read failed: " + err.Error())
		}
		B := baseMul(b)
		if c {
			B = add(B, r.publicKey)
		}
		blinded[i] = B
		pending[i] = pendingOT{b: b, c: c}
	}
	return id, blinded, pending
}

// ReceivePayload decrypts the Sender's reply, returning the chosen block
// for every OT in the pending batch.
func (r *ActiveReceiver) ReceivePayload(sp SenderPayload) ([]Block, error) {
	if sp.ID != r.pendingID {
		return nil, recvIDMismatchErr(r.pendingID, sp.ID)
	}
	if uint64(len(r.pending)) > math.MaxUint64-r.counter {
		return nil, &ReceiverError{CounterOverflow: true}
	}

	out := make([]Block, len(r.pending))
	for i := range r.pending {
		p := &r.pending[i]
		// yr = b_i*A equals the sender's key input for slot c_i
		// regardless of the choice bit: when c_i=0 the sender used
		// yr directly, and when c_i=1 the sender used yr-ys, which
		// is also b_i*A since B_i = b_i*G + A and ys = a*A.
		yr := varMul(p.b, r.publicKey)
		k := hashPointTweak(yr, r.counter+uint64(i))
		idx := 0
		if p.c {
			idx = 1
		}
		out[i] = sp.Payload[i][idx].Xor(k)
		yr.zero()
		p.b.zero()
	}

	r.counter += uint64(len(r.pending))
	r.pending = nil
	return out, nil
}

// Reveal returns every choice bit made so far, in batch order. A Receiver
// whose config disabled receiver_commit should not call this in a real
// protocol run; that agreement is enforced by the surrounding session,
// not by this type.
func (r *ActiveReceiver) Reveal() ReceiverReveal {
	choices := make([]bool, len(r.choiceLog))
	copy(choices, r.choiceLog)
	return ReceiverReveal{Choices: choices}
}
