// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"time"

	"github.com/xmidt-org/lethe/model"
)

const (
	// TypeLabel is for labeling metrics; if there is a single metric for
	// successful queries, the typeLabel and corresponding type can be used
	// when incrementing the metric.
	TypeLabel  = "type"
	InsertType = "insert"
	ReadType   = "read"
	CountType  = "count"
	StatsType  = "stats"
	PingType   = "ping"
)

// S is the storage boundary the surrounding service consumes. All data it
// manages is self-expiring; there is no delete path in the normal flow and
// no background reaper, expiration is delegated entirely to the backend.
type S interface {
	// CreateBin stores a fresh bin whose record expires ttl after creation.
	CreateBin(ctx context.Context, private bool, ttl time.Duration) (model.Bin, error)

	// CreateRequest captures one payload under the given bin. The request id
	// is allocated here; callers never supply one. Fails with ErrIDExhausted
	// when a unique id cannot be allocated.
	CreateRequest(ctx context.Context, bin model.Bin, payload []byte, ttl time.Duration) (model.Request, error)

	// LookupBin reconstructs a bin together with its requests, newest first.
	// Fails with ErrBinNotFound when the bin is absent or its record is
	// corrupt. The read is a best-effort snapshot, not a consistent
	// point-in-time view.
	LookupBin(ctx context.Context, name string) (model.Bin, error)

	// CountBins enumerates live bins. Cost is proportional to the backend's
	// total key count; a coarse diagnostic, not a hot path.
	CountBins(ctx context.Context) (int64, error)

	// CountRequests reports the total number of requests ever created across
	// all bins. Monotonically non-decreasing; never reset by expiration.
	CountRequests(ctx context.Context) (int64, error)

	// AvgRequestSize reports the backend's average per-key footprint in
	// kilobytes. A rough diagnostic only.
	AvgRequestSize(ctx context.Context) (float64, error)
}
