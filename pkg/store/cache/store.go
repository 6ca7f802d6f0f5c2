package cache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/climfin/finance-atlas/pkg/metrics"
	"github.com/climfin/finance-atlas/pkg/models/domain"
	"github.com/climfin/finance-atlas/pkg/models/store"
	"github.com/climfin/finance-atlas/pkg/store/flows"
	"github.com/rs/zerolog"
)

const (
	DefaultTTL = 15 * time.Minute
	keyPrefix  = "atlas:flows:"
)

type cachingStore struct {
	next    flows.Store
	backend Backend
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewStore caches the results of next in backend. A nil backend disables
// caching and next is returned as is. Backend failures never fail a query.
func NewStore(next flows.Store, backend Backend, ttl time.Duration, m *metrics.Metrics) flows.Store {
	if backend == nil {
		return next
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &cachingStore{next: next, backend: backend, ttl: ttl, metrics: m}
}

func (s *cachingStore) Query(ctx context.Context, query string, args ...any) ([]domain.FlowRecord, error) {
	key := Key("rows", query, args...)

	var records []domain.FlowRecord
	if s.lookup(ctx, key, &records) {
		return records, nil
	}

	records, err := s.next.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, records)
	return records, nil
}

func (s *cachingStore) QueryAggregated(ctx context.Context, query string, args ...any) ([]store.FlowSummary, error) {
	key := Key("summary", query, args...)

	var summaries []store.FlowSummary
	if s.lookup(ctx, key, &summaries) {
		return summaries, nil
	}

	summaries, err := s.next.QueryAggregated(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, summaries)
	return summaries, nil
}

func (s *cachingStore) lookup(ctx context.Context, key string, out any) bool {
	logger := zerolog.Ctx(ctx)

	data, err := s.backend.Get(ctx, key)
	switch {
	case errors.Is(err, ErrMiss):
		s.metrics.IncrementCacheLookup(metrics.CacheMiss)
		return false
	case err != nil:
		s.metrics.IncrementCacheLookup(metrics.CacheError)
		logger.Warn().Err(err).Str("key", key).Msg("query cache lookup failed")
		return false
	}

	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(out); err != nil {
		s.metrics.IncrementCacheLookup(metrics.CacheError)
		logger.Warn().Err(err).Str("key", key).Msg("discarding undecodable cache entry")
		return false
	}
	s.metrics.IncrementCacheLookup(metrics.CacheHit)
	return true
}

func (s *cachingStore) store(ctx context.Context, key string, value any) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(value); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to encode query result for cache")
		return
	}
	if err := s.backend.Set(ctx, key, buf.Bytes(), s.ttl); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to write query cache")
	}
}

// Key derives the cache key of a query and its bound arguments.
func Key(kind, query string, args ...any) string {
	h := sha256.New()
	h.Write([]byte(query))
	for _, a := range args {
		fmt.Fprintf(h, "\x00%T:%v", a, a)
	}
	return keyPrefix + kind + ":" + hex.EncodeToString(h.Sum(nil))
}
