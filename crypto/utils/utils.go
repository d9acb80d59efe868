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

// Package utils collects the small byte-level helpers shared by the ot
// core's consumers and tests.
package utils

import (
	"crypto/rand"
	"errors"
)

// ErrEmptySlice is returned if the length of slice is zero.
var ErrEmptySlice = errors.New("empty slice")

// GenRandomBytes returns size bytes of system randomness.
func GenRandomBytes(size int) ([]byte, error) {
	if size < 1 {
		return nil, ErrEmptySlice
	}
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Xor returns a ^ b. a and b must have equal length.
func Xor(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// BitsToBytes packs a slice of booleans into bytes, LSB-first within each
// byte.
func BitsToBytes(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}

// BytesToBits unpacks count LSB-first bits from b.
func BytesToBits(b []byte, count int) []bool {
	out := make([]bool, count)
	for i := 0; i < count; i++ {
		out[i] = (b[i/8]>>uint(i%8))&1 == 1
	}
	return out
}
