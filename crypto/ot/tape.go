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

// tape is the Sender-side, append-only log of every blinded choice ever
// accepted, in receipt order (C6). It exists only when the Sender's
// config enabled receiver_commit.
type tape struct {
	receiverChoices []Point
}

func newTape() *tape {
	return &tape{}
}

func (t *tape) extend(points []Point) {
	t.receiverChoices = append(t.receiverChoices, points...)
}

func (t *tape) len() int {
	return len(t.receiverChoices)
}

// VerifyChoices replays the Receiver deterministically from its revealed
// seed and checks that the resulting blinded choices match the tape. It
// takes the ActiveSender by value, which does not consume it: the tape is
// left in place, and a second call checks it again.
//
// The revealed choice sequence is truncated to the tape's length before
// the length check, so a longer reveal silently passes while a shorter
// one fails. Preserved deliberately.
func (s ActiveSender) VerifyChoices(receiverSeed [32]byte, reveal ReceiverReveal) ([]bool, error) {
	if s.tape == nil {
		return nil, &SenderError{TapeNotRecorded: true}
	}

	tapeLen := s.tape.len()
	choices := reveal.Choices
	if len(choices) > tapeLen {
		choices = choices[:tapeLen]
	}
	if len(choices) != tapeLen {
		return nil, &SenderError{ChoiceCountMismatch: &ChoiceCountMismatchError{
			TapeLen:     tapeLen,
			RevealedLen: len(choices),
		}}
	}

	receiver := NewReceiverWithSeed(ReceiverConfig{}, receiverSeed)
	active := receiver.Setup(SenderSetup{PublicKey: s.publicKey})
	simulated := active.ReceiveRandom(choices)

	if len(simulated.BlindedChoices) != len(s.tape.receiverChoices) {
		return nil, &SenderError{InconsistentChoice: true}
	}
	for i, p := range simulated.BlindedChoices {
		if !p.Equal(s.tape.receiverChoices[i]) {
			return nil, &SenderError{InconsistentChoice: true}
		}
	}
	return choices, nil
}
