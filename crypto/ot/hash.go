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

	"golang.org/x/crypto/blake2b"
)

// hashPoint is the point hasher (C2): a random-oracle-modelled function
// from a group element and a per-OT tweak to a 128-bit block. The two
// keys derived for a single OT instance share a tweak but differ in the
// point (yr vs yr-ys), which domain-separates them. The tweak further
// domain-separates every OT instance across the lifetime of a session, so
// reusing a blinded point across batches never reuses a key.
func hashPoint(p Point, tweak uint64, tweakHi uint64) Block {
	var tweakBuf [16]byte
	binary.LittleEndian.PutUint64(tweakBuf[0:8], tweak)
	binary.LittleEndian.PutUint64(tweakBuf[8:16], tweakHi)

	encoded := p.Bytes()
	digest := blake2b.Sum256(append(encoded[:], tweakBuf[:]...))

	var block Block
	copy(block[:], digest[:BlockSize])
	return block
}

// hashPointTweak is the common case where the tweak fits in 64 bits (it is
// a running OT counter, never expected to approach 2^64 in one session).
func hashPointTweak(p Point, tweak uint64) Block {
	return hashPoint(p, tweak, 0)
}
