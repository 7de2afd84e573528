// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package redis

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"emperror.dev/emperror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/xmidt-org/lethe/model"
	"github.com/xmidt-org/lethe/store"
	"github.com/xmidt-org/lethe/store/db/metric"
	"github.com/xmidt-org/lethe/tinyid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	Redis = "redis"

	defaultAddress = "localhost:6379"
	defaultPrefix  = "lethe"
	defaultTimeout = time.Duration(10) * time.Second

	// idAttempts bounds the conditional-write loop that allocates request
	// ids. Exhausting it is a hard failure, not something retried further
	// up the stack.
	idAttempts = 50

	// The request index outlives the bin record by one second and each
	// request record outlives the index by another. A reader that still
	// sees the index can resolve every id in it; a reader that still sees
	// the bin record can resolve the index.
	indexExpirationSkew  = time.Second
	recordExpirationSkew = 2 * time.Second
)

type Config struct {
	// Address is the host:port of the redis server.
	Address string

	// Username and Password authenticate against the server when set.
	Username string
	Password string

	// DB is the redis logical database number.
	DB int

	// Prefix namespaces every key this deployment writes.
	Prefix string

	// OpTimeout bounds dials, reads and writes on the underlying client.
	OpTimeout time.Duration
}

// Client implements store.S on top of redis. All consistency comes from
// redis' per-command atomicity plus the staggered key expirations; no
// operation takes a lock and lookups are best-effort snapshots.
type Client struct {
	client   redis.UniversalClient
	config   Config
	logger   *zap.Logger
	measures metric.Measures

	// newID is a seam for tests; production always uses tinyid.New.
	newID func(length int) string
	now   func() time.Time
}

// Provide creates the redis-backed store and ties the connection to the fx
// lifecycle.
func Provide(config Config, measures metric.Measures, lc fx.Lifecycle, logger *zap.Logger) (store.S, error) {
	validateConfig(&config)
	rdb := redis.NewClient(&redis.Options{
		Addr:         config.Address,
		Username:     config.Username,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  config.OpTimeout,
		ReadTimeout:  config.OpTimeout,
		WriteTimeout: config.OpTimeout,
	})
	client := NewClient(rdb, config, measures, logger)
	if err := client.Ping(context.Background()); err != nil {
		return nil, emperror.WrapWith(err, "connecting to redis failed", "address", config.Address)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return rdb.Close()
		},
	})
	return client, nil
}

// NewClient wraps an already constructed redis client. Tests use this to
// point the store at a local fake server.
func NewClient(rdb redis.UniversalClient, config Config, measures metric.Measures, logger *zap.Logger) *Client {
	validateConfig(&config)
	return &Client{
		client:   rdb,
		config:   config,
		logger:   logger,
		measures: measures,
		newID:    tinyid.New,
		now:      time.Now,
	}
}

func (c *Client) CreateBin(ctx context.Context, private bool, ttl time.Duration) (model.Bin, error) {
	timer := prometheus.NewTimer(c.measures.QueryDuration.WithLabelValues(store.InsertType))
	defer timer.ObserveDuration()

	bin := model.NewBin(private)
	data, err := bin.Marshal()
	if err != nil {
		return model.Bin{}, err
	}

	key := binKey(c.config.Prefix, bin.Name)
	if err := c.client.Set(ctx, key, data, 0).Err(); err != nil {
		c.measures.QueryFailureCount.WithLabelValues(store.InsertType).Inc()
		return model.Bin{}, err
	}
	if err := c.client.ExpireAt(ctx, key, c.binExpiration(bin, ttl)).Err(); err != nil {
		c.measures.QueryFailureCount.WithLabelValues(store.InsertType).Inc()
		return model.Bin{}, err
	}
	c.measures.QuerySuccessCount.WithLabelValues(store.InsertType).Inc()
	return bin, nil
}

func (c *Client) CreateRequest(ctx context.Context, bin model.Bin, payload []byte, ttl time.Duration) (model.Request, error) {
	timer := prometheus.NewTimer(c.measures.QueryDuration.WithLabelValues(store.InsertType))
	defer timer.ObserveDuration()

	request := model.Request{ID: c.newID(tinyid.DefaultLength), Payload: payload}

	// The conditional write doubles as collision detection: of two
	// concurrent writers picking the same id, exactly one SETNX wins.
	var key string
	stored := false
	for attempt := 0; attempt < idAttempts; attempt++ {
		if attempt > 0 {
			request.ID = c.newID(tinyid.DefaultLength)
		}
		data, err := request.Marshal()
		if err != nil {
			return model.Request{}, err
		}
		key = requestKey(c.config.Prefix, bin.Name, request.ID)
		ok, err := c.client.SetNX(ctx, key, data, 0).Result()
		if err != nil {
			c.measures.QueryFailureCount.WithLabelValues(store.InsertType).Inc()
			return model.Request{}, err
		}
		if ok {
			stored = true
			break
		}
	}
	if !stored {
		c.measures.QueryFailureCount.WithLabelValues(store.InsertType).Inc()
		return model.Request{}, store.IDExhaustedError{Bin: bin.Name, Attempts: idAttempts}
	}

	if err := c.client.ExpireAt(ctx, key, c.binExpiration(bin, ttl).Add(recordExpirationSkew)).Err(); err != nil {
		c.measures.QueryFailureCount.WithLabelValues(store.InsertType).Inc()
		return model.Request{}, err
	}

	indexKey := requestIndexKey(c.config.Prefix, bin.Name)
	if err := c.client.RPush(ctx, indexKey, request.ID).Err(); err != nil {
		c.measures.QueryFailureCount.WithLabelValues(store.InsertType).Inc()
		return model.Request{}, err
	}
	// recomputed on every append; the target timestamp never moves, so
	// setting it repeatedly is harmless
	if err := c.client.ExpireAt(ctx, indexKey, c.binExpiration(bin, ttl).Add(indexExpirationSkew)).Err(); err != nil {
		c.measures.QueryFailureCount.WithLabelValues(store.InsertType).Inc()
		return model.Request{}, err
	}

	countKey := requestCountKey(c.config.Prefix)
	if err := c.client.SetNX(ctx, countKey, 0, 0).Err(); err != nil {
		c.measures.QueryFailureCount.WithLabelValues(store.InsertType).Inc()
		return model.Request{}, err
	}
	if err := c.client.Incr(ctx, countKey).Err(); err != nil {
		c.measures.QueryFailureCount.WithLabelValues(store.InsertType).Inc()
		return model.Request{}, err
	}

	c.measures.QuerySuccessCount.WithLabelValues(store.InsertType).Inc()
	return request, nil
}

func (c *Client) LookupBin(ctx context.Context, name string) (model.Bin, error) {
	timer := prometheus.NewTimer(c.measures.QueryDuration.WithLabelValues(store.ReadType))
	defer timer.ObserveDuration()

	key := binKey(c.config.Prefix, name)
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Bin{}, store.BinNotFoundError{Name: name}
	}
	if err != nil {
		c.measures.QueryFailureCount.WithLabelValues(store.ReadType).Inc()
		return model.Bin{}, err
	}

	bin, err := model.UnmarshalBin(data)
	if err != nil {
		// Poisoned entry. Drop it so future readers do not keep failing on
		// the same record; the caller still just sees not-found.
		c.logger.Warn("discarding corrupt bin record",
			zap.String("bin", name), zap.Error(err))
		if delErr := c.client.Del(ctx, key).Err(); delErr != nil {
			c.logger.Warn("cleanup of corrupt bin record failed",
				zap.String("bin", name), zap.Error(delErr))
		}
		return model.Bin{}, store.BinNotFoundError{Name: name}
	}

	indexKey := requestIndexKey(c.config.Prefix, name)
	length, err := c.client.LLen(ctx, indexKey).Result()
	if err != nil {
		c.measures.QueryFailureCount.WithLabelValues(store.ReadType).Inc()
		return model.Bin{}, err
	}
	if length == 0 {
		c.measures.QuerySuccessCount.WithLabelValues(store.ReadType).Inc()
		return bin, nil
	}

	ids, err := c.client.LRange(ctx, indexKey, 0, length-1).Result()
	if err != nil {
		c.measures.QueryFailureCount.WithLabelValues(store.ReadType).Inc()
		return model.Bin{}, err
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = requestKey(c.config.Prefix, name, id)
	}
	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		c.measures.QueryFailureCount.WithLabelValues(store.ReadType).Inc()
		return model.Bin{}, err
	}

	requests := make([]model.Request, 0, len(values))
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			// The record expired between the index read and the batch get.
			// An expected race with the staggered TTLs, not corruption.
			continue
		}
		request, err := model.UnmarshalRequest([]byte(raw))
		if err != nil {
			c.logger.Warn("skipping corrupt request record",
				zap.String("bin", name), zap.String("id", ids[i]), zap.Error(err))
			continue
		}
		requests = append(requests, request)
	}

	// callers always see newest-first ordering
	for i, j := 0, len(requests)-1; i < j; i, j = i+1, j-1 {
		requests[i], requests[j] = requests[j], requests[i]
	}
	bin.Requests = requests

	c.measures.QuerySuccessCount.WithLabelValues(store.ReadType).Inc()
	return bin, nil
}

func (c *Client) CountBins(ctx context.Context) (int64, error) {
	timer := prometheus.NewTimer(c.measures.QueryDuration.WithLabelValues(store.CountType))
	defer timer.ObserveDuration()

	var (
		count  int64
		cursor uint64
	)
	pattern := binKeyPattern(c.config.Prefix)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			c.measures.QueryFailureCount.WithLabelValues(store.CountType).Inc()
			return 0, err
		}
		count += int64(len(keys))
		cursor = next
		if cursor == 0 {
			break
		}
	}
	c.measures.QuerySuccessCount.WithLabelValues(store.CountType).Inc()
	return count, nil
}

func (c *Client) CountRequests(ctx context.Context) (int64, error) {
	timer := prometheus.NewTimer(c.measures.QueryDuration.WithLabelValues(store.CountType))
	defer timer.ObserveDuration()

	value, err := c.client.Get(ctx, requestCountKey(c.config.Prefix)).Result()
	if errors.Is(err, redis.Nil) {
		c.measures.QuerySuccessCount.WithLabelValues(store.CountType).Inc()
		return 0, nil
	}
	if err != nil {
		c.measures.QueryFailureCount.WithLabelValues(store.CountType).Inc()
		return 0, err
	}
	count, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		c.measures.QueryFailureCount.WithLabelValues(store.CountType).Inc()
		return 0, err
	}
	c.measures.QuerySuccessCount.WithLabelValues(store.CountType).Inc()
	return count, nil
}

func (c *Client) AvgRequestSize(ctx context.Context) (float64, error) {
	timer := prometheus.NewTimer(c.measures.QueryDuration.WithLabelValues(store.StatsType))
	defer timer.ObserveDuration()

	info, err := c.client.Info(ctx, "memory").Result()
	if err != nil {
		c.measures.QueryFailureCount.WithLabelValues(store.StatsType).Inc()
		return 0, err
	}
	usedMemory, err := parseInfoInt(info, "used_memory")
	if err != nil {
		c.measures.QueryFailureCount.WithLabelValues(store.StatsType).Inc()
		return 0, err
	}
	keys, err := c.client.DBSize(ctx).Result()
	if err != nil {
		c.measures.QueryFailureCount.WithLabelValues(store.StatsType).Inc()
		return 0, err
	}
	c.measures.QuerySuccessCount.WithLabelValues(store.StatsType).Inc()
	if keys == 0 {
		return 0, nil
	}
	return float64(usedMemory) / float64(keys) / 1024, nil
}

// Ping is for verifying that the connection to redis is good.
func (c *Client) Ping(ctx context.Context) error {
	err := c.client.Ping(ctx).Err()
	if err != nil {
		c.measures.QueryFailureCount.WithLabelValues(store.PingType).Inc()
		return err
	}
	c.measures.QuerySuccessCount.WithLabelValues(store.PingType).Inc()
	return nil
}

func (c *Client) binExpiration(bin model.Bin, ttl time.Duration) time.Time {
	return time.Unix(bin.Created, 0).Add(ttl)
}

// parseInfoInt extracts an integer field from an INFO response.
func parseInfoInt(info, field string) (int64, error) {
	for _, line := range strings.Split(info, "\n") {
		value, found := strings.CutPrefix(line, field+":")
		if !found {
			continue
		}
		return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	}
	return 0, errors.New("field " + field + " missing from INFO response")
}

func validateConfig(config *Config) {
	if config.Address == "" {
		config.Address = defaultAddress
	}
	if config.Prefix == "" {
		config.Prefix = defaultPrefix
	}
	if config.OpTimeout == 0 {
		config.OpTimeout = defaultTimeout
	}
}
