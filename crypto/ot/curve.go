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

// Package ot implements the Chou-Orlandi base oblivious transfer protocol
// over the Ristretto group, its transfer-id state machine, and the
// optional choice-commitment tape used for post-hoc verification of a
// cheating receiver.
package ot

import (
	"crypto/rand"
	"io"

	"github.com/bwesterb/go-ristretto"
)

// PointSize is the length in bytes of a canonically encoded Point.
const PointSize = 32

// Scalar is an element of the Ristretto scalar field. It is zeroed on
// clear and must never be logged.
type Scalar struct {
	inner ristretto.Scalar
}

// Point is an element of the Ristretto group, serialized canonically as
// 32 bytes.
type Point struct {
	inner ristretto.Point
}

// String implements fmt.Stringer opaquely: a Scalar must never appear in
// a log line or panic message, even via %v/%+v on a containing struct.
func (s Scalar) String() string {
	return "ot.Scalar{...}"
}

// GoString implements fmt.GoStringer opaquely, covering %#v the same way
// String covers %v/%+v.
func (s Scalar) GoString() string {
	return "ot.Scalar{...}"
}

// sampleScalar draws a uniformly random scalar from r.
func sampleScalar(r io.Reader) (Scalar, error) {
	var buf [64]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Scalar{}, err
	}
	var s Scalar
	s.inner.SetReduced(&buf)
	return s, nil
}

// sampleScalarSystem draws a uniformly random scalar using system entropy.
func sampleScalarSystem() Scalar {
	s, err := sampleScalar(rand.Reader)
	if err != nil {
		// crypto/rand.Reader is not expected to fail; treat it as fatal
		// rather than silently continuing with weak randomness.
		panic("ot: system entropy source failed: " + err.Error())
	}
	return s
}

// baseMul computes s*G, where G is the fixed Ristretto base point.
func baseMul(s Scalar) Point {
	var p Point
	p.inner.ScalarMultBase(&s.inner)
	return p
}

// varMul computes s*P for an arbitrary point P.
func varMul(s Scalar, p Point) Point {
	var out Point
	out.inner.ScalarMult(&p.inner, &s.inner)
	return out
}

// sub computes P - Q.
func sub(p, q Point) Point {
	var out Point
	out.inner.Sub(&p.inner, &q.inner)
	return out
}

// add computes P + Q. Every Ristretto implementation provides it, and the
// Receiver's blinding step (B_i = b_i*G + c_i*A) needs it.
func add(p, q Point) Point {
	var out Point
	out.inner.Add(&p.inner, &q.inner)
	return out
}

// Bytes canonically encodes a point as 32 bytes.
func (p Point) Bytes() [PointSize]byte {
	var out [PointSize]byte
	copy(out[:], p.inner.Bytes())
	return out
}

// Equal reports whether two points encode to the same group element. This
// is not constant-time; it is only used on the public tape check, never
// on secret key derivation.
func (p Point) Equal(q Point) bool {
	a, b := p.Bytes(), q.Bytes()
	return a == b
}

// decodePoint rejects non-canonical or non-group encodings.
func decodePoint(buf [PointSize]byte) (Point, error) {
	var p Point
	if ok := p.inner.SetBytes(&buf); !ok {
		return Point{}, ErrMalformedPoint
	}
	return p, nil
}

// zero overwrites secret scalar material.
func (s *Scalar) zero() {
	s.inner.SetZero()
}

// zero overwrites a point that may hold secret-derived material (e.g. the
// per-OT Diffie-Hellman intermediate yr).
func (p *Point) zero() {
	p.inner.SetZero()
}
