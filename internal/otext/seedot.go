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

// Package otext is a thin consumer of the batched-OT contract: it drives
// kappa base-OT instances to bootstrap the correlated seed material an
// IKNP-style OT extension amortizes over many logical transfers. It stops
// exactly there; the matrix-transpose and correlation-robust-hash
// machinery that turns seed OTs into millions of extended OTs is a
// separate concern, consuming this core only through
// BatchedSender/BatchedReceiver the way an extension sender drives kappa
// base OTs before running its own extension math.
package otext

import (
	"github.com/getamis/ot-core/crypto/ot"
	"github.com/getamis/ot-core/crypto/utils"
	"github.com/getamis/ot-core/logger"
)

// BootstrapSeedOTs runs kappa base-OT instances over the contract,
// returning the sender's seed pairs, the receiver's chosen seeds, and the
// receiver's random choice bits. Both sides must already be past Setup on
// the same session.
func BootstrapSeedOTs(sender ot.BatchedSender, receiver ot.BatchedReceiver, kappa int) (senderSeeds [][2]ot.Block, receiverSeeds []ot.Block, receiverChoices []bool, err error) {
	log := logger.Logger()
	log.Info("bootstrapping ot-extension seed OTs", "kappa", kappa)

	receiverChoices = make([]bool, kappa)
	senderSeeds = make([][2]ot.Block, kappa)
	for i := range senderSeeds {
		var raw []byte
		if raw, err = utils.GenRandomBytes(2*ot.BlockSize + 1); err != nil {
			return nil, nil, nil, err
		}
		copy(senderSeeds[i][0][:], raw[:ot.BlockSize])
		copy(senderSeeds[i][1][:], raw[ot.BlockSize:2*ot.BlockSize])
		receiverChoices[i] = raw[2*ot.BlockSize]&1 == 1
	}

	payload := receiver.Receive(receiverChoices)
	senderPayload, err := sender.Send(senderSeeds, payload)
	if err != nil {
		log.Error("base OT send failed during seed bootstrap", "err", err)
		return nil, nil, nil, err
	}

	receiverSeeds, err = receiver.ReceivePayload(senderPayload)
	if err != nil {
		log.Error("base OT receive failed during seed bootstrap", "err", err)
		return nil, nil, nil, err
	}

	return senderSeeds, receiverSeeds, receiverChoices, nil
}
