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
	"encoding/binary"

	"github.com/getamis/ot-core/crypto/utils"
)

// SenderConfig carries the Sender's negotiated options. The zero value
// disables the tape.
type SenderConfig struct {
	// ReceiverCommit enables the choice tape, allowing a later
	// VerifyChoices call once the receiver reveals its seed.
	ReceiverCommit bool
}

// ReceiverConfig carries the Receiver's negotiated options. A Receiver
// that set ReceiverCommit agrees to later reveal its seed, and its choice
// bits via Reveal.
type ReceiverConfig struct {
	ReceiverCommit bool
}

// SenderSetup is the Sender's single setup message: its public key. On the
// wire this is a single 32-byte canonical Ristretto encoding; framing is
// external to this core, but DecodeSenderSetup/Bytes are provided for a
// caller that does move it as bytes.
type SenderSetup struct {
	PublicKey Point
}

// Bytes canonically encodes the setup message's public key.
func (s SenderSetup) Bytes() [PointSize]byte {
	return s.PublicKey.Bytes()
}

// DecodeSenderSetup decodes a wire-format setup message, rejecting
// non-canonical or non-group point encodings.
func DecodeSenderSetup(buf [PointSize]byte) (SenderSetup, error) {
	p, err := decodePoint(buf)
	if err != nil {
		return SenderSetup{}, err
	}
	return SenderSetup{PublicKey: p}, nil
}

// ReceiverPayload is a batch of blinded choices tagged with the id of the
// batch they belong to.
type ReceiverPayload struct {
	ID             TransferID
	BlindedChoices []Point
}

// SenderPayload is the Sender's reply: one ciphertext pair per blinded
// choice, tagged with the same id.
type SenderPayload struct {
	ID      TransferID
	Payload [][2]Block
}

// ReceiverReveal is the Receiver's post-hoc disclosure of every choice bit
// it has made so far, in the order the batches were sent.
type ReceiverReveal struct {
	Choices []bool
}

// Bytes packs Choices into a length-prefixed, LSB-first byte array.
func (r ReceiverReveal) Bytes() []byte {
	packed := utils.BitsToBytes(r.Choices)
	out := make([]byte, 8+len(packed))
	binary.LittleEndian.PutUint64(out[:8], uint64(len(r.Choices)))
	copy(out[8:], packed)
	return out
}

// DecodeReveal unpacks a ReceiverReveal encoded by Bytes.
func DecodeReveal(buf []byte) (ReceiverReveal, error) {
	if len(buf) < 8 {
		return ReceiverReveal{}, ErrMalformedReveal
	}
	count := binary.LittleEndian.Uint64(buf[:8])
	packed := buf[8:]
	if uint64(len(packed)) < (count+7)/8 {
		return ReceiverReveal{}, ErrMalformedReveal
	}
	return ReceiverReveal{Choices: utils.BytesToBits(packed, int(count))}, nil
}
