// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package tinyid generates the short opaque identifiers used for bin names
// and request ids. Collision probability is assumed negligible for bin
// names; request id collisions are handled by the store's retry loop.
package tinyid

import "crypto/rand"

// Alphabet is the set of characters identifiers are drawn from.
const Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// DefaultLength is the identifier length used when callers have no reason
// to pick another one.
const DefaultLength = 6

// New returns a random identifier of the given length.
func New(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	for i := range b {
		b[i] = Alphabet[int(b[i])%len(Alphabet)]
	}
	return string(b)
}
