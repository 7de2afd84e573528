// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	testCases := []struct {
		Name     string
		Key      string
		Expected string
	}{
		{
			Name:     "bin details",
			Key:      binKey("lethe", "abc123"),
			Expected: "lethe:bins:abc123:details",
		},
		{
			Name:     "request index",
			Key:      requestIndexKey("lethe", "abc123"),
			Expected: "lethe:bins:abc123:requests",
		},
		{
			Name:     "request record",
			Key:      requestKey("lethe", "abc123", "xyz789"),
			Expected: "lethe:bins:abc123:requests:xyz789",
		},
		{
			Name:     "global request counter",
			Key:      requestCountKey("lethe"),
			Expected: "lethe:requests",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Name, func(t *testing.T) {
			assert.Equal(t, testCase.Expected, testCase.Key)
		})
	}
}

// Keys for different logical purposes must never land on the same string,
// even with adversarial identifiers.
func TestKeysInjective(t *testing.T) {
	assert := assert.New(t)

	keys := []string{
		binKey("lethe", "a"),
		requestIndexKey("lethe", "a"),
		requestKey("lethe", "a", "b"),
		requestCountKey("lethe"),
		binKey("lethe", "a:details"),
		requestKey("lethe", "a", "details"),
	}
	seen := map[string]bool{}
	for _, key := range keys {
		assert.False(seen[key], "duplicate key %q", key)
		seen[key] = true
	}
}

func TestBinKeyPattern(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("lethe:bins:*:details", binKeyPattern("lethe"))
}
