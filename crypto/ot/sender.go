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

// Sender is a Chou-Orlandi OT sender that has generated its long-term
// keypair but has not yet published it. Sender has no Send method: a
// caller cannot obliviously transfer anything until Setup has produced
// the active, post-setup sender, so misuse is a compile error rather than
// a runtime check.
type Sender struct {
	config     SenderConfig
	privateKey Scalar
	publicKey  Point
	consumed   bool
}

// String implements fmt.Stringer opaquely: a Sender holds a private key
// and must never print it, even via %v/%+v.
func (s *Sender) String() string {
	return "ot.Sender{...}"
}

// GoString implements fmt.GoStringer opaquely, covering %#v.
func (s *Sender) GoString() string {
	return "ot.Sender{...}"
}

// NewSender creates a Sender, sampling its keypair from system entropy.
func NewSender(config SenderConfig) *Sender {
	privateKey := sampleScalarSystem()
	return &Sender{
		config:     config,
		privateKey: privateKey,
		publicKey:  baseMul(privateKey),
	}
}

// NewSenderWithSeed creates a Sender with a keypair deterministically
// derived from seed. Intended for tests and for the simulation performed
// by VerifyChoices.
func NewSenderWithSeed(config SenderConfig, seed [32]byte) *Sender {
	privateKey, publicKey := keypairFromSeed(seed)
	return &Sender{
		config:     config,
		privateKey: privateKey,
		publicKey:  publicKey,
	}
}

// Config returns the Sender's configuration.
func (s *Sender) Config() SenderConfig {
	return s.config
}

// Setup publishes the Sender's public key and returns the active, batch-
// serving Sender. Go has no move semantics, so reuse of the Initialized
// Sender after Setup is guarded at runtime instead of by the type system:
// a second call panics, since the Rust original makes this a compile-time
// impossibility and a second call here can only be a programming error.
func (s *Sender) Setup() (SenderSetup, *ActiveSender) {
	if s.consumed {
		panic("ot: Sender.Setup called more than once")
	}
	s.consumed = true

	var t *tape
	if s.config.ReceiverCommit {
		t = newTape()
	}

	active := &ActiveSender{
		config:     s.config,
		privateKey: s.privateKey,
		publicKey:  s.publicKey,
		ys:         varMul(s.privateKey, s.publicKey),
		tape:       t,
	}
	s.privateKey.zero()
	return SenderSetup{PublicKey: s.publicKey}, active
}

// ActiveSender is a Sender that has completed setup and can serve
// batched OT transfers. It is mutated in place by Send.
type ActiveSender struct {
	config     SenderConfig
	privateKey Scalar
	publicKey  Point
	ys         Point // a*A, constant for the lifetime of the session
	transferID transferIDCounter
	counter    uint64
	tape       *tape
}

// String implements fmt.Stringer opaquely: an ActiveSender holds a
// private key and must never print it, even via %v/%+v.
func (s *ActiveSender) String() string {
	return "ot.ActiveSender{...}"
}

// GoString implements fmt.GoStringer opaquely, covering %#v.
func (s *ActiveSender) GoString() string {
	return "ot.ActiveSender{...}"
}

// Send obliviously sends inputs to the receiver, keyed by its blinded
// choices. Preconditions are checked before any state is mutated: on
// failure the Sender is left exactly as it was.
func (s *ActiveSender) Send(inputs [][2]Block, rp ReceiverPayload) (SenderPayload, error) {
	expected := s.transferID.peek()
	if rp.ID != expected {
		return SenderPayload{}, idMismatchErr(expected, rp.ID)
	}
	if len(inputs) != len(rp.BlindedChoices) {
		return SenderPayload{}, countMismatchErr(len(inputs), len(rp.BlindedChoices))
	}
	if uint64(len(inputs)) > math.MaxUint64-s.counter {
		return SenderPayload{}, &SenderError{CounterOverflow: true}
	}

	payload := computeEncryptionKeys(s.privateKey, s.ys, rp.BlindedChoices, s.counter)
	for i, in := range inputs {
		payload[i][0] = in[0].Xor(payload[i][0])
		payload[i][1] = in[1].Xor(payload[i][1])
	}

	// Everything above is pure; commit the mutation last so a failure
	// anywhere before this point leaves the Sender untouched.
	if _, err := s.transferID.commit(); err != nil {
		return SenderPayload{}, &SenderError{TransferIDOverflow: true}
	}
	s.counter += uint64(len(inputs))
	if s.tape != nil {
		s.tape.extend(rp.BlindedChoices)
	}

	return SenderPayload{ID: rp.ID, Payload: payload}, nil
}

// computeEncryptionKeys derives the two encryption keys for each blinded
// choice. It is a pure, embarrassingly-parallel map: this sequential
// implementation preserves output order, which is all an opt-in parallel
// implementation would need to keep too.
func computeEncryptionKeys(privateKey Scalar, ys Point, blindedChoices []Point, offset uint64) [][2]Block {
	out := make([][2]Block, len(blindedChoices))
	for i, b := range blindedChoices {
		yr := varMul(privateKey, b)
		tweak := offset + uint64(i)
		k0 := hashPointTweak(yr, tweak)
		yrMinusYs := sub(yr, ys)
		k1 := hashPointTweak(yrMinusYs, tweak)
		out[i] = [2]Block{k0, k1}
		yr.zero()
		yrMinusYs.zero()
	}
	return out
}
