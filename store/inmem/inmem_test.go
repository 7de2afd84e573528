// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package inmem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/xmidt-org/lethe/store"
)

const testTTL = 48 * time.Hour

type InMemTestSuite struct {
	suite.Suite
	store *InMem
	now   time.Time
	ctx   context.Context
}

func (s *InMemTestSuite) SetupTest() {
	s.store = New()
	s.now = time.Now()
	s.store.now = func() time.Time { return s.now }
	s.ctx = context.Background()
}

func (s *InMemTestSuite) TestCreateAndLookup() {
	bin, err := s.store.CreateBin(s.ctx, true, testTTL)
	s.Require().NoError(err)

	found, err := s.store.LookupBin(s.ctx, bin.Name)
	s.Require().NoError(err)
	s.Equal(bin.Name, found.Name)
	s.True(found.Private)
	s.Empty(found.Requests)
}

func (s *InMemTestSuite) TestLookupMissing() {
	_, err := s.store.LookupBin(s.ctx, "nosuch")
	s.ErrorIs(err, store.ErrBinNotFound)
}

func (s *InMemTestSuite) TestRequestsNewestFirst() {
	bin, err := s.store.CreateBin(s.ctx, false, testTTL)
	s.Require().NoError(err)

	for _, payload := range []string{"first", "second", "third"} {
		_, err := s.store.CreateRequest(s.ctx, bin, []byte(payload), testTTL)
		s.Require().NoError(err)
	}

	found, err := s.store.LookupBin(s.ctx, bin.Name)
	s.Require().NoError(err)
	s.Require().Len(found.Requests, 3)
	s.Equal("third", string(found.Requests[0].Payload))
	s.Equal("second", string(found.Requests[1].Payload))
	s.Equal("first", string(found.Requests[2].Payload))
}

func (s *InMemTestSuite) TestBinExpires() {
	bin, err := s.store.CreateBin(s.ctx, false, testTTL)
	s.Require().NoError(err)
	_, err = s.store.CreateRequest(s.ctx, bin, []byte("hello"), testTTL)
	s.Require().NoError(err)

	// the bin record expires first; the index and request records linger
	// behind it on the staggered schedule
	s.now = time.Unix(bin.Created, 0).Add(testTTL)
	_, err = s.store.LookupBin(s.ctx, bin.Name)
	s.ErrorIs(err, store.ErrBinNotFound)
}

func (s *InMemTestSuite) TestExpiredRequestSkipped() {
	bin, err := s.store.CreateBin(s.ctx, false, testTTL)
	s.Require().NoError(err)
	request, err := s.store.CreateRequest(s.ctx, bin, []byte("hello"), testTTL)
	s.Require().NoError(err)

	// force just this record past its deadline
	records := s.store.requests[bin.Name]
	entry := records[request.ID]
	entry.expiration = s.now
	records[request.ID] = entry

	found, err := s.store.LookupBin(s.ctx, bin.Name)
	s.Require().NoError(err)
	s.Empty(found.Requests)
}

func (s *InMemTestSuite) TestIDAllocationExhausted() {
	bin, err := s.store.CreateBin(s.ctx, false, testTTL)
	s.Require().NoError(err)

	generated := 0
	s.store.newID = func(int) string {
		generated++
		return "stuck1"
	}

	_, err = s.store.CreateRequest(s.ctx, bin, []byte("wins"), testTTL)
	s.Require().NoError(err)

	_, err = s.store.CreateRequest(s.ctx, bin, []byte("loses"), testTTL)
	s.Require().ErrorIs(err, store.ErrIDExhausted)
	s.Equal(1+idAttempts, generated)
}

func (s *InMemTestSuite) TestCounters() {
	count, err := s.store.CountRequests(s.ctx)
	s.Require().NoError(err)
	s.Zero(count)

	binA, err := s.store.CreateBin(s.ctx, false, testTTL)
	s.Require().NoError(err)
	binB, err := s.store.CreateBin(s.ctx, false, testTTL)
	s.Require().NoError(err)

	for i := 0; i < 4; i++ {
		_, err = s.store.CreateRequest(s.ctx, binA, []byte("a"), testTTL)
		s.Require().NoError(err)
	}
	_, err = s.store.CreateRequest(s.ctx, binB, []byte("b"), testTTL)
	s.Require().NoError(err)

	count, err = s.store.CountRequests(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(5), count)

	bins, err := s.store.CountBins(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), bins)
}

func (s *InMemTestSuite) TestAvgRequestSize() {
	size, err := s.store.AvgRequestSize(s.ctx)
	s.Require().NoError(err)
	s.Zero(size)

	bin, err := s.store.CreateBin(s.ctx, false, testTTL)
	s.Require().NoError(err)
	_, err = s.store.CreateRequest(s.ctx, bin, []byte("hello"), testTTL)
	s.Require().NoError(err)

	size, err = s.store.AvgRequestSize(s.ctx)
	s.Require().NoError(err)
	s.Greater(size, 0.0)
}

func TestInMemTestSuite(t *testing.T) {
	suite.Run(t, new(InMemTestSuite))
}
