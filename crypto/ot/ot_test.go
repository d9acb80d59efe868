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

package ot_test

import (
	"encoding/binary"
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	"github.com/getamis/ot-core/crypto/ot"
)

func seed32(b byte) [32]byte {
	var s [32]byte
	for i := range s {
		s[i] = b
	}
	return s
}

func blockU64(v uint64) ot.Block {
	var b ot.Block
	binary.LittleEndian.PutUint64(b[:8], v)
	return b
}

var _ = Describe("Chou-Orlandi base OT", func() {
	DescribeTable("end-to-end correctness", func(choices []bool, pairs [][2]uint64) {
		inputs := make([][2]ot.Block, len(pairs))
		for i, p := range pairs {
			inputs[i] = [2]ot.Block{blockU64(p[0]), blockU64(p[1])}
		}

		sender := ot.NewSenderWithSeed(ot.SenderConfig{}, seed32(1))
		receiver := ot.NewReceiverWithSeed(ot.ReceiverConfig{}, seed32(2))

		setupMsg, activeSender := sender.Setup()
		activeReceiver := receiver.Setup(setupMsg)

		rp := activeReceiver.Receive(choices)
		sp, err := activeSender.Send(inputs, rp)
		Expect(err).ShouldNot(HaveOccurred())

		got, err := activeReceiver.ReceivePayload(sp)
		Expect(err).ShouldNot(HaveOccurred())

		for i, c := range choices {
			want := pairs[i][0]
			if c {
				want = pairs[i][1]
			}
			Expect(got[i]).Should(Equal(blockU64(want)))
		}
	},
		Entry("scenario 1: seeded batch of four",
			[]bool{false, true, false, true},
			[][2]uint64{{0, 1}, {2, 3}, {4, 5}, {6, 7}},
		),
		Entry("single-element batch", []bool{true}, [][2]uint64{{10, 20}}),
	)

	It("advances next_id and counter in lockstep on both sides", func() {
		sender := ot.NewSenderWithSeed(ot.SenderConfig{}, seed32(1))
		receiver := ot.NewReceiverWithSeed(ot.ReceiverConfig{}, seed32(2))
		setupMsg, activeSender := sender.Setup()
		activeReceiver := receiver.Setup(setupMsg)

		rp := activeReceiver.Receive([]bool{false, true, false, true})
		inputs := [][2]ot.Block{{blockU64(0), blockU64(1)}, {blockU64(2), blockU64(3)}, {blockU64(4), blockU64(5)}, {blockU64(6), blockU64(7)}}
		sp, err := activeSender.Send(inputs, rp)
		Expect(err).ShouldNot(HaveOccurred())
		_, err = activeReceiver.ReceivePayload(sp)
		Expect(err).ShouldNot(HaveOccurred())

		Expect(rp.ID).Should(Equal(ot.TransferID(0)))
		Expect(sp.ID).Should(Equal(ot.TransferID(0)))

		// The next batch carries id 1 on both sides, and it only decrypts
		// correctly if both counters advanced by the same 4.
		rp2 := activeReceiver.Receive([]bool{true})
		sp2, err := activeSender.Send([][2]ot.Block{{blockU64(8), blockU64(9)}}, rp2)
		Expect(err).ShouldNot(HaveOccurred())
		got2, err := activeReceiver.ReceivePayload(sp2)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(rp2.ID).Should(Equal(ot.TransferID(1)))
		Expect(sp2.ID).Should(Equal(ot.TransferID(1)))
		Expect(got2).Should(Equal([]ot.Block{blockU64(9)}))
	})

	It("succeeds on an empty batch, advancing id but not counter", func() {
		sender := ot.NewSenderWithSeed(ot.SenderConfig{}, seed32(1))
		receiver := ot.NewReceiverWithSeed(ot.ReceiverConfig{}, seed32(2))
		setupMsg, activeSender := sender.Setup()
		activeReceiver := receiver.Setup(setupMsg)

		rp := activeReceiver.Receive(nil)
		sp, err := activeSender.Send(nil, rp)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(sp.Payload).Should(BeEmpty())

		out, err := activeReceiver.ReceivePayload(sp)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(out).Should(BeEmpty())

		// The next batch gets id 1, and its ciphertexts equal those of a
		// fresh session's first batch: the empty batch left the counter at 0.
		rp2 := activeReceiver.Receive([]bool{true})
		Expect(rp2.ID).Should(Equal(ot.TransferID(1)))
		inputs := [][2]ot.Block{{blockU64(1), blockU64(2)}}
		sp2, err := activeSender.Send(inputs, rp2)
		Expect(err).ShouldNot(HaveOccurred())

		freshSetup, freshSender := ot.NewSenderWithSeed(ot.SenderConfig{}, seed32(1)).Setup()
		freshRP := ot.NewReceiverWithSeed(ot.ReceiverConfig{}, seed32(2)).Setup(freshSetup).Receive([]bool{true})
		freshSP, err := freshSender.Send(inputs, freshRP)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(sp2.Payload).Should(Equal(freshSP.Payload))
	})

	It("produces byte-identical output for identical seeds and inputs", func() {
		run := func() ([]ot.Block, ot.SenderSetup) {
			sender := ot.NewSenderWithSeed(ot.SenderConfig{}, seed32(7))
			receiver := ot.NewReceiverWithSeed(ot.ReceiverConfig{}, seed32(8))
			setupMsg, activeSender := sender.Setup()
			activeReceiver := receiver.Setup(setupMsg)
			rp := activeReceiver.Receive([]bool{true, false, true})
			inputs := [][2]ot.Block{{blockU64(1), blockU64(2)}, {blockU64(3), blockU64(4)}, {blockU64(5), blockU64(6)}}
			sp, err := activeSender.Send(inputs, rp)
			Expect(err).ShouldNot(HaveOccurred())
			out, err := activeReceiver.ReceivePayload(sp)
			Expect(err).ShouldNot(HaveOccurred())
			return out, setupMsg
		}

		out1, setup1 := run()
		out2, setup2 := run()
		Expect(out1).Should(Equal(out2))
		Expect(setup1.PublicKey.Bytes()).Should(Equal(setup2.PublicKey.Bytes()))
	})

	Describe("the choice-commitment tape", func() {
		It("passes verification for an honest receiver that reveals its real seed", func() {
			senderSeed := seed32(1)
			receiverSeed := seed32(2)

			sender := ot.NewSenderWithSeed(ot.SenderConfig{ReceiverCommit: true}, senderSeed)
			receiver := ot.NewReceiverWithSeed(ot.ReceiverConfig{ReceiverCommit: true}, receiverSeed)
			setupMsg, activeSender := sender.Setup()
			activeReceiver := receiver.Setup(setupMsg)

			choices1 := []bool{true, false, true}
			rp1 := activeReceiver.Receive(choices1)
			in1 := make([][2]ot.Block, len(choices1))
			sp1, err := activeSender.Send(in1, rp1)
			Expect(err).ShouldNot(HaveOccurred())
			_, err = activeReceiver.ReceivePayload(sp1)
			Expect(err).ShouldNot(HaveOccurred())

			choices2 := []bool{false, true, false, true, false}
			rp2 := activeReceiver.Receive(choices2)
			in2 := make([][2]ot.Block, len(choices2))
			sp2, err := activeSender.Send(in2, rp2)
			Expect(err).ShouldNot(HaveOccurred())
			_, err = activeReceiver.ReceivePayload(sp2)
			Expect(err).ShouldNot(HaveOccurred())

			reveal := activeReceiver.Reveal()
			got, err := activeSender.VerifyChoices(receiverSeed, reveal)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(got).Should(Equal(append(append([]bool{}, choices1...), choices2...)))
		})

		It("fails with InconsistentChoice when the tape was tampered with", func() {
			senderSeed := seed32(1)
			receiverSeed := seed32(2)

			sender := ot.NewSenderWithSeed(ot.SenderConfig{ReceiverCommit: true}, senderSeed)
			receiver := ot.NewReceiverWithSeed(ot.ReceiverConfig{ReceiverCommit: true}, receiverSeed)
			setupMsg, activeSender := sender.Setup()
			activeReceiver := receiver.Setup(setupMsg)

			choices := []bool{true, false, true}
			rp := activeReceiver.Receive(choices)
			// Tamper with the blinded choices before the sender records
			// them: swapping two valid points is still a well-formed
			// ReceiverPayload, but it no longer matches what the
			// simulated receiver would have produced from its seed.
			rp.BlindedChoices[0], rp.BlindedChoices[1] = rp.BlindedChoices[1], rp.BlindedChoices[0]

			in := make([][2]ot.Block, len(choices))
			sp, err := activeSender.Send(in, rp)
			Expect(err).ShouldNot(HaveOccurred())
			_, _ = activeReceiver.ReceivePayload(sp)

			reveal := activeReceiver.Reveal()
			_, err = activeSender.VerifyChoices(receiverSeed, reveal)
			Expect(err).Should(HaveOccurred())
			var senderErr *ot.SenderError
			Expect(errors.As(err, &senderErr)).Should(BeTrue())
			Expect(senderErr.InconsistentChoice).Should(BeTrue())
		})

		It("refuses to verify when the tape was never recorded", func() {
			sender := ot.NewSenderWithSeed(ot.SenderConfig{ReceiverCommit: false}, seed32(1))
			setupMsg, activeSender := sender.Setup()
			_ = setupMsg

			_, err := activeSender.VerifyChoices(seed32(2), ot.ReceiverReveal{})
			Expect(err).Should(HaveOccurred())
			var senderErr *ot.SenderError
			Expect(errors.As(err, &senderErr)).Should(BeTrue())
			Expect(senderErr.TapeNotRecorded).Should(BeTrue())
		})
	})

	Describe("setup message encoding", func() {
		It("round-trips through bytes", func() {
			sender := ot.NewSenderWithSeed(ot.SenderConfig{}, seed32(1))
			setupMsg, _ := sender.Setup()

			decoded, err := ot.DecodeSenderSetup(setupMsg.Bytes())
			Expect(err).ShouldNot(HaveOccurred())
			Expect(decoded.Bytes()).Should(Equal(setupMsg.Bytes()))
		})

		It("rejects a non-canonical encoding with MalformedPoint", func() {
			receiver := ot.NewReceiverWithSeed(ot.ReceiverConfig{}, seed32(2))
			var garbage [ot.PointSize]byte
			for i := range garbage {
				garbage[i] = 0xFF
			}

			_, err := receiver.SetupFromBytes(garbage)
			Expect(err).Should(HaveOccurred())
			var recvErr *ot.ReceiverError
			Expect(errors.As(err, &recvErr)).Should(BeTrue())
			Expect(recvErr.MalformedPoint).Should(BeTrue())
		})
	})

	Describe("reveal wire encoding", func() {
		It("round-trips an LSB-first packed choice sequence", func() {
			reveal := ot.ReceiverReveal{Choices: []bool{true, false, true, true, false, false, false, true, true}}
			encoded := reveal.Bytes()
			decoded, err := ot.DecodeReveal(encoded)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(decoded).Should(Equal(reveal))
		})

		It("rejects a truncated buffer", func() {
			_, err := ot.DecodeReveal([]byte{1, 2, 3})
			Expect(err).Should(MatchError(ot.ErrMalformedReveal))
		})
	})

	Describe("id desync", func() {
		It("returns IdMismatch and leaves state unchanged, allowing a correct retry", func() {
			sender := ot.NewSenderWithSeed(ot.SenderConfig{}, seed32(1))
			receiver := ot.NewReceiverWithSeed(ot.ReceiverConfig{}, seed32(2))
			setupMsg, activeSender := sender.Setup()
			activeReceiver := receiver.Setup(setupMsg)

			// Receiver advances to batch id 1 without the sender ever
			// seeing batch id 0.
			_ = activeReceiver.Receive([]bool{true})
			rp := activeReceiver.Receive([]bool{false})

			_, err := activeSender.Send([][2]ot.Block{{blockU64(1), blockU64(2)}}, rp)
			Expect(err).Should(HaveOccurred())
			var senderErr *ot.SenderError
			Expect(errors.As(err, &senderErr)).Should(BeTrue())
			Expect(senderErr.IDMismatch).ShouldNot(BeNil())
			Expect(senderErr.IDMismatch.Expected).Should(Equal(ot.TransferID(0)))
			Expect(senderErr.IDMismatch.Actual).Should(Equal(ot.TransferID(1)))

			// A retry with the id the sender actually expects succeeds.
			retry := ot.ReceiverPayload{ID: 0, BlindedChoices: rp.BlindedChoices}
			_, err = activeSender.Send([][2]ot.Block{{blockU64(1), blockU64(2)}}, retry)
			Expect(err).ShouldNot(HaveOccurred())
		})
	})

	Describe("mismatched counts", func() {
		It("returns CountMismatch and leaves state unchanged", func() {
			sender := ot.NewSenderWithSeed(ot.SenderConfig{}, seed32(1))
			receiver := ot.NewReceiverWithSeed(ot.ReceiverConfig{}, seed32(2))
			setupMsg, activeSender := sender.Setup()
			activeReceiver := receiver.Setup(setupMsg)

			rp := activeReceiver.Receive([]bool{true, false, true, false})
			inputs := make([][2]ot.Block, 3)
			_, err := activeSender.Send(inputs, rp)
			Expect(err).Should(HaveOccurred())
			var senderErr *ot.SenderError
			Expect(errors.As(err, &senderErr)).Should(BeTrue())
			Expect(senderErr.CountMismatch).ShouldNot(BeNil())
			Expect(senderErr.CountMismatch.Inputs).Should(Equal(3))
			Expect(senderErr.CountMismatch.Choices).Should(Equal(4))

			// The sender must still accept id 0 after the failed call.
			inputs4 := make([][2]ot.Block, 4)
			_, err = activeSender.Send(inputs4, rp)
			Expect(err).ShouldNot(HaveOccurred())
		})
	})

	DescribeTable("large batches", func(n int) {
		choices := make([]bool, n)
		inputs := make([][2]ot.Block, n)
		for i := range choices {
			choices[i] = i%3 == 0
			inputs[i] = [2]ot.Block{blockU64(uint64(2 * i)), blockU64(uint64(2*i + 1))}
		}

		sender := ot.NewSenderWithSeed(ot.SenderConfig{}, seed32(3))
		receiver := ot.NewReceiverWithSeed(ot.ReceiverConfig{}, seed32(4))
		setupMsg, activeSender := sender.Setup()
		activeReceiver := receiver.Setup(setupMsg)

		rp := activeReceiver.Receive(choices)
		sp, err := activeSender.Send(inputs, rp)
		Expect(err).ShouldNot(HaveOccurred())
		out, err := activeReceiver.ReceivePayload(sp)
		Expect(err).ShouldNot(HaveOccurred())

		for i, c := range choices {
			want := uint64(2 * i)
			if c {
				want = uint64(2*i + 1)
			}
			Expect(out[i]).Should(Equal(blockU64(want)))
		}
	},
		Entry("n=1024", 1024),
		Entry("n=65536", 65536),
	)

	It("scenario 2: choices recovered here line up with an MPCOT-style delta XOR at the same indices", func() {
		// This core has no opinion about SPCOT or delta-correlated outputs;
		// it only needs to recover the receiver's chosen half of each pair
		// correctly so a caller layering an ideal-SPCOT-style extension on
		// top sees the expected v/w XOR relationship at the chosen indices.
		alphas := []int{0, 1, 3, 4, 2}
		n := 5
		choices := make([]bool, n)
		for _, a := range alphas {
			choices[a] = true
		}

		var delta ot.Block
		for i := range delta {
			delta[i] = byte(0xA0 + i)
		}

		inputs := make([][2]ot.Block, n)
		v := make([]ot.Block, n)
		for i := range inputs {
			v[i] = blockU64(uint64(i))
			w := v[i].Xor(delta)
			inputs[i] = [2]ot.Block{v[i], w}
		}

		sender := ot.NewSenderWithSeed(ot.SenderConfig{}, seed32(5))
		receiver := ot.NewReceiverWithSeed(ot.ReceiverConfig{}, seed32(6))
		setupMsg, activeSender := sender.Setup()
		activeReceiver := receiver.Setup(setupMsg)

		rp := activeReceiver.Receive(choices)
		sp, err := activeSender.Send(inputs, rp)
		Expect(err).ShouldNot(HaveOccurred())
		out, err := activeReceiver.ReceivePayload(sp)
		Expect(err).ShouldNot(HaveOccurred())

		for i := 0; i < n; i++ {
			if choices[i] {
				Expect(out[i]).Should(Equal(v[i].Xor(delta)))
			} else {
				Expect(out[i]).Should(Equal(v[i]))
			}
		}
	})
})
