// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tinyid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	assert := assert.New(t)

	for _, length := range []int{1, DefaultLength, 12} {
		id := New(length)
		assert.Len(id, length)
		for _, r := range id {
			assert.True(strings.ContainsRune(Alphabet, r), "unexpected character %q", r)
		}
	}
}

func TestNewMostlyDistinct(t *testing.T) {
	assert := assert.New(t)

	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		seen[New(DefaultLength)] = true
	}
	// a handful of collisions over 36^6 ids would already be suspicious
	assert.Greater(len(seen), 990)
}
