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

// Package spcot provides the in-memory "ideal SPCOT" facade that
// Ferret-style MPCOT test harnesses plug into instead of a real
// single-point correlated OT subprotocol. The real SPCOT subprotocol is
// out of scope for this core; this facade exists so consumers of the
// batched-OT contract have something concrete to test against.
package spcot

import "github.com/getamis/ot-core/crypto/ot"

// IdealSPCOT is a trusted third party standing in for SPCOT: given a set
// of queried indices it returns a sender/receiver vector pair that
// differs by Delta exactly at those indices.
type IdealSPCOT struct {
	delta ot.Block
}

// NewIdealSPCOT fixes the global correlation value Delta for the
// lifetime of the facade, mirroring how a real SPCOT sender commits to a
// single Delta across every extension.
func NewIdealSPCOT(delta ot.Block) *IdealSPCOT {
	return &IdealSPCOT{delta: delta}
}

// Extend returns a sender vector v and a receiver vector w, both of
// length n, such that v[i] == w[i] for every i not in alphas, and
// v[a] ^ w[a] == Delta for every a in alphas.
func (s *IdealSPCOT) Extend(n int, alphas []int) (v, w []ot.Block) {
	v = make([]ot.Block, n)
	w = make([]ot.Block, n)
	for _, a := range alphas {
		if a < 0 || a >= n {
			continue
		}
		w[a] = s.delta
	}
	return v, w
}
