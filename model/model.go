// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/xmidt-org/lethe/tinyid"
)

// Bin is a named, time-bounded container for captured requests.
//
// A bin is immutable after creation. Requests is never stored inline with
// the bin record; it is populated transiently when a bin is read back from
// storage.
type Bin struct {
	// Name is the globally unique identifier of the bin. It partitions all
	// data stored under the bin.
	Name string `msgpack:"name" json:"name"`

	// Created is the creation time in unix seconds. It fixes the expiration
	// schedule for the bin and everything stored under it.
	Created int64 `msgpack:"created" json:"created"`

	// Private is a visibility flag carried for the surrounding service.
	// Storage does not interpret it.
	Private bool `msgpack:"private" json:"private"`

	// Requests holds the bin's captured requests, newest first. Only set on
	// reads.
	Requests []Request `msgpack:"-" json:"requests,omitempty"`
}

// Request is one captured event attached to a bin. Once written it is
// immutable.
type Request struct {
	// ID is unique within the owning bin, not globally. It is assigned by
	// the storage layer.
	ID string `msgpack:"id" json:"id"`

	// Payload is the captured event data, opaque to storage.
	Payload []byte `msgpack:"payload" json:"payload"`
}

// NewBin builds a bin with a fresh name and the current time as its
// creation timestamp.
func NewBin(private bool) Bin {
	return Bin{
		Name:    tinyid.New(tinyid.DefaultLength),
		Created: time.Now().Unix(),
		Private: private,
	}
}

// NewRequest builds a request with a fresh candidate id. The id may still
// be regenerated by the store if it collides within the bin.
func NewRequest(payload []byte) Request {
	return Request{
		ID:      tinyid.New(tinyid.DefaultLength),
		Payload: payload,
	}
}

// Marshal serializes the bin record, excluding its requests.
func (b Bin) Marshal() ([]byte, error) {
	return msgpack.Marshal(b)
}

// UnmarshalBin deserializes a bin record.
func UnmarshalBin(data []byte) (Bin, error) {
	var b Bin
	err := msgpack.Unmarshal(data, &b)
	return b, err
}

// Marshal serializes the request record.
func (r Request) Marshal() ([]byte, error) {
	return msgpack.Marshal(r)
}

// UnmarshalRequest deserializes a request record.
func UnmarshalRequest(data []byte) (Request, error) {
	var r Request
	err := msgpack.Unmarshal(data, &r)
	return r, err
}
