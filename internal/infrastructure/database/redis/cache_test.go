package redis

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/MathioLucas/Molecular-expolrer/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/MathioLucas/Molecular-expolrer/pkg/errors"
)

type CacheTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *Client
	cache  Cache
}

func (s *CacheTestSuite) SetupTest() {
	s.mr = miniredis.RunT(s.T())
	rdb := goredis.NewClient(&goredis.Options{Addr: s.mr.Addr()})
	s.client = NewClientFromUniversal(rdb, nil, logging.NewNopLogger())
	s.cache = NewRedisCache(s.client, logging.NewNopLogger(), WithPrefix("test:"), WithDefaultTTL(time.Minute))
}

func (s *CacheTestSuite) TearDownTest() {
	_ = s.client.Close()
}

type payload struct {
	Formula string         `json:"Formula"`
	Mass    float64        `json:"ExactMass"`
	Counts  map[string]int `json:"AtomCounts"`
}

var aspirin = payload{Formula: "C9H8O4", Mass: 180.0423, Counts: map[string]int{"C": 9, "O": 4, "H": 8}}

func (s *CacheTestSuite) TestSetThenGet() {
	ctx := context.Background()
	require.NoError(s.T(), s.cache.Set(ctx, "k", aspirin, 0))
	assert.True(s.T(), s.mr.Exists("test:k"))

	ttl := s.mr.TTL("test:k")
	assert.InDelta(s.T(), float64(time.Minute), float64(ttl), float64(7*time.Second))

	var got payload
	require.NoError(s.T(), s.cache.Get(ctx, "k", &got))
	assert.Equal(s.T(), aspirin, got)
}

func (s *CacheTestSuite) TestGet_Miss() {
	var got payload
	err := s.cache.Get(context.Background(), "absent", &got)
	assert.Equal(s.T(), ErrCacheMiss, err)
}

func (s *CacheTestSuite) TestGet_CorruptValue() {
	s.mr.Set("test:bad", "\xc1")
	var got payload
	err := s.cache.Get(context.Background(), "bad", &got)
	require.Error(s.T(), err)
	assert.True(s.T(), pkgerrors.IsCode(err, pkgerrors.ErrCodeSerialization))
}

func (s *CacheTestSuite) TestDeleteAndExists() {
	ctx := context.Background()
	require.NoError(s.T(), s.cache.Set(ctx, "a", aspirin, 0))
	ok, err := s.cache.Exists(ctx, "a")
	require.NoError(s.T(), err)
	assert.True(s.T(), ok)

	require.NoError(s.T(), s.cache.Delete(ctx, "a"))
	ok, err = s.cache.Exists(ctx, "a")
	require.NoError(s.T(), err)
	assert.False(s.T(), ok)
	assert.NoError(s.T(), s.cache.Delete(ctx))
}

func (s *CacheTestSuite) TestGetOrSet_LoadsOnceThenHits() {
	ctx := context.Background()
	var calls int32
	loader := func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return aspirin, nil
	}

	var first, second payload
	hit, err := s.cache.GetOrSet(ctx, "m", &first, 0, loader)
	require.NoError(s.T(), err)
	assert.False(s.T(), hit)
	hit, err = s.cache.GetOrSet(ctx, "m", &second, 0, loader)
	require.NoError(s.T(), err)
	assert.True(s.T(), hit)
	assert.Equal(s.T(), aspirin, first)
	assert.Equal(s.T(), aspirin, second)
	assert.Equal(s.T(), int32(1), atomic.LoadInt32(&calls))
}

func (s *CacheTestSuite) TestGetOrSet_CollapsesConcurrentLoads() {
	ctx := context.Background()
	var calls int32
	release := make(chan struct{})
	loader := func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return aspirin, nil
	}

	var (
		wg   sync.WaitGroup
		hits int32
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var got payload
			hit, err := s.cache.GetOrSet(ctx, "hot", &got, 0, loader)
			assert.NoError(s.T(), err)
			if hit {
				atomic.AddInt32(&hits, 1)
			}
			assert.Equal(s.T(), aspirin.Formula, got.Formula)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.LessOrEqual(s.T(), atomic.LoadInt32(&calls), int32(8))
	assert.GreaterOrEqual(s.T(), atomic.LoadInt32(&calls), int32(1))
	// Every caller started before the value was stored, so none was a hit.
	assert.Zero(s.T(), atomic.LoadInt32(&hits))
}

func (s *CacheTestSuite) TestGetOrSet_SharedLoaderErrorReachesEveryCaller() {
	ctx := context.Background()
	boom := errors.New("boom")
	var calls int32
	release := make(chan struct{})
	loader := func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return nil, boom
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var got payload
			hit, err := s.cache.GetOrSet(ctx, "doomed", &got, 0, loader)
			assert.False(s.T(), hit)
			var loadErr *LoadError
			if assert.ErrorAs(s.T(), err, &loadErr) {
				assert.Equal(s.T(), boom, loadErr.Err)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.GreaterOrEqual(s.T(), atomic.LoadInt32(&calls), int32(1))
	assert.False(s.T(), s.mr.Exists("test:doomed"))
}

func (s *CacheTestSuite) TestGetOrSet_LoaderErrorIsNotCached() {
	ctx := context.Background()
	boom := errors.New("boom")
	var got payload
	_, err := s.cache.GetOrSet(ctx, "fail", &got, 0, func(context.Context) (interface{}, error) {
		return nil, boom
	})
	assert.ErrorIs(s.T(), err, boom)
	assert.False(s.T(), s.mr.Exists("test:fail"))
}

func (s *CacheTestSuite) TestClosedClient() {
	require.NoError(s.T(), s.client.Close())
	assert.Equal(s.T(), ErrClientClosed, s.cache.Ping(context.Background()))

	var got payload
	err := s.cache.Get(context.Background(), "k", &got)
	assert.True(s.T(), pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}

func TestGetOrSet_ReadErrorFallsBackToLoader(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := NewClientFromUniversal(db, nil, logging.NewNopLogger())
	cache := NewRedisCache(client, logging.NewNopLogger(), WithPrefix("t:"), WithSerializer(JSONSerializer{}))

	// The write-back is unexpected by the mock, fails, and is only logged.
	mock.ExpectGet("t:k").SetErr(errors.New("connection reset"))

	var got payload
	hit, err := cache.GetOrSet(context.Background(), "k", &got, time.Minute, func(context.Context) (interface{}, error) {
		return aspirin, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, aspirin, got)
}

func TestJSONSerializer_RoundTrip(t *testing.T) {
	data, err := JSONSerializer{}.Marshal(aspirin)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Formula":"C9H8O4"`)
}

//Personal.AI order the ending
