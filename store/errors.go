// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"errors"
	"fmt"
)

var (
	// ErrBinNotFound means the bin does not exist, has expired, or its
	// stored record was corrupt and has been discarded.
	ErrBinNotFound = errors.New("bin not found")

	// ErrIDExhausted means request creation ran out of collision retries.
	// It indicates an undersized id space or a systemic backend problem and
	// is not retried at this layer.
	ErrIDExhausted = errors.New("unique id allocation exhausted")
)

// BinNotFoundError reports which bin a lookup failed for.
type BinNotFoundError struct {
	Name string
}

func (e BinNotFoundError) Error() string {
	return fmt.Sprintf("bin %q not found", e.Name)
}

func (e BinNotFoundError) Unwrap() error {
	return ErrBinNotFound
}

// IDExhaustedError reports a failed request id allocation.
type IDExhaustedError struct {
	Bin      string
	Attempts int
}

func (e IDExhaustedError) Error() string {
	return fmt.Sprintf("bin %q: unique id allocation exhausted after %d attempts", e.Bin, e.Attempts)
}

func (e IDExhaustedError) Unwrap() error {
	return ErrIDExhausted
}
