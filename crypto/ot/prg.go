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
	"golang.org/x/crypto/chacha20"
)

// seededRNG is a deterministic byte stream keyed by a 32-byte seed, used
// to derive reproducible keypairs for tests and for the tape-verification
// simulation. It plays the role rand_chacha::ChaCha20Rng plays in the
// reference implementation.
type seededRNG struct {
	cipher *chacha20.Cipher
}

func newSeededRNG(seed [32]byte) *seededRNG {
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce[:])
	if err != nil {
		// NewUnauthenticatedCipher only fails on malformed key/nonce
		// sizes, which are fixed-size arrays here.
		panic("ot: invalid chacha20 parameters: " + err.Error())
	}
	return &seededRNG{cipher: c}
}

// Read fills p with keystream bytes, implementing io.Reader.
func (r *seededRNG) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	r.cipher.XORKeyStream(p, p)
	return len(p), nil
}

// keypairFromSeed deterministically derives a Scalar/Point keypair from a
// 32-byte seed.
func keypairFromSeed(seed [32]byte) (Scalar, Point) {
	rng := newSeededRNG(seed)
	privateKey, err := sampleScalar(rng)
	if err != nil {
		panic("ot: seeded rng read failed: " + err.Error())
	}
	publicKey := baseMul(privateKey)
	return privateKey, publicKey
}
