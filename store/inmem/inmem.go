// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/xmidt-org/lethe/model"
	"github.com/xmidt-org/lethe/store"
	"github.com/xmidt-org/lethe/tinyid"
)

const idAttempts = 50

type binEntry struct {
	bin        model.Bin
	expiration time.Time
}

type indexEntry struct {
	ids        []string
	expiration time.Time
}

type requestEntry struct {
	request    model.Request
	expiration time.Time
}

// InMem mirrors the redis layout: a bin record, an ordered id index, and one
// record per request, each with its own staggered expiration. Records never
// hold their requests inline.
type InMem struct {
	lock     sync.Mutex
	bins     map[string]binEntry
	indexes  map[string]indexEntry
	requests map[string]map[string]requestEntry
	counter  int64
	now      func() time.Time
	newID    func(length int) string
}

func New() *InMem {
	return &InMem{
		bins:     map[string]binEntry{},
		indexes:  map[string]indexEntry{},
		requests: map[string]map[string]requestEntry{},
		now:      time.Now,
		newID:    tinyid.New,
	}
}

func (i *InMem) CreateBin(_ context.Context, private bool, ttl time.Duration) (model.Bin, error) {
	i.lock.Lock()
	defer i.lock.Unlock()

	bin := model.Bin{
		Name:    i.newID(tinyid.DefaultLength),
		Created: i.now().Unix(),
		Private: private,
	}
	i.bins[bin.Name] = binEntry{
		bin:        bin,
		expiration: expiration(bin, ttl),
	}
	return bin, nil
}

func (i *InMem) CreateRequest(_ context.Context, bin model.Bin, payload []byte, ttl time.Duration) (model.Request, error) {
	i.lock.Lock()
	defer i.lock.Unlock()

	records := i.requests[bin.Name]
	if records == nil {
		records = map[string]requestEntry{}
		i.requests[bin.Name] = records
	}

	request := model.Request{ID: i.newID(tinyid.DefaultLength), Payload: payload}
	stored := false
	for attempt := 0; attempt < idAttempts; attempt++ {
		if attempt > 0 {
			request.ID = i.newID(tinyid.DefaultLength)
		}
		if _, taken := records[request.ID]; !taken {
			stored = true
			break
		}
	}
	if !stored {
		return model.Request{}, store.IDExhaustedError{Bin: bin.Name, Attempts: idAttempts}
	}

	records[request.ID] = requestEntry{
		request:    request,
		expiration: expiration(bin, ttl).Add(2 * time.Second),
	}

	index := i.indexes[bin.Name]
	index.ids = append(index.ids, request.ID)
	index.expiration = expiration(bin, ttl).Add(time.Second)
	i.indexes[bin.Name] = index

	i.counter++
	return request, nil
}

func (i *InMem) LookupBin(_ context.Context, name string) (model.Bin, error) {
	i.lock.Lock()
	defer i.lock.Unlock()

	entry, ok := i.bins[name]
	if !ok || i.expired(entry.expiration) {
		delete(i.bins, name)
		return model.Bin{}, store.BinNotFoundError{Name: name}
	}
	bin := entry.bin

	index, ok := i.indexes[name]
	if !ok || i.expired(index.expiration) {
		delete(i.indexes, name)
		return bin, nil
	}

	records := i.requests[name]
	requests := make([]model.Request, 0, len(index.ids))
	for n := len(index.ids) - 1; n >= 0; n-- { // newest first
		record, ok := records[index.ids[n]]
		if !ok || i.expired(record.expiration) {
			delete(records, index.ids[n])
			continue
		}
		requests = append(requests, record.request)
	}
	bin.Requests = requests
	return bin, nil
}

func (i *InMem) CountBins(_ context.Context) (int64, error) {
	i.lock.Lock()
	defer i.lock.Unlock()

	var count int64
	for name, entry := range i.bins {
		if i.expired(entry.expiration) {
			delete(i.bins, name)
			continue
		}
		count++
	}
	return count, nil
}

func (i *InMem) CountRequests(_ context.Context) (int64, error) {
	i.lock.Lock()
	defer i.lock.Unlock()
	return i.counter, nil
}

// AvgRequestSize approximates the backend memory introspection of the redis
// implementation with the in-memory footprint of the stored records.
func (i *InMem) AvgRequestSize(_ context.Context) (float64, error) {
	i.lock.Lock()
	defer i.lock.Unlock()

	var keys, bytes int64
	for _, entry := range i.bins {
		if i.expired(entry.expiration) {
			continue
		}
		keys++
		bytes += int64(len(entry.bin.Name)) + 16
	}
	for _, index := range i.indexes {
		if i.expired(index.expiration) {
			continue
		}
		keys++
		for _, id := range index.ids {
			bytes += int64(len(id))
		}
	}
	for _, records := range i.requests {
		for _, record := range records {
			if i.expired(record.expiration) {
				continue
			}
			keys++
			bytes += int64(len(record.request.ID) + len(record.request.Payload))
		}
	}
	if i.counter > 0 {
		keys++
	}
	if keys == 0 {
		return 0, nil
	}
	return float64(bytes) / float64(keys) / 1024, nil
}

func (i *InMem) expired(expiration time.Time) bool {
	return !i.now().Before(expiration)
}

func expiration(bin model.Bin, ttl time.Duration) time.Time {
	return time.Unix(bin.Created, 0).Add(ttl)
}
