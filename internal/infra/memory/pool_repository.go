package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"civics-quiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// PoolLoader fetches a question pool from a backing store (file, Postgres, SQLite).
type PoolLoader interface {
	LoadPool(ctx context.Context, name string) ([]domain.RawQuestion, error)
}

// PoolRepository caches pools with TTL to avoid repeated loads.
type PoolRepository struct {
	loader PoolLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[string]cachedPool
}

type cachedPool struct {
	questions []domain.RawQuestion
	expiresAt time.Time
}

func NewPoolRepository(loader PoolLoader, ttl time.Duration) *PoolRepository {
	return &PoolRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedPool),
	}
}

func (r *PoolRepository) GetPool(ctx context.Context, name string) ([]domain.RawQuestion, error) {
	if questions, ok := r.cached(name, r.clock()); ok {
		return questions, nil
	}

	result, err, _ := r.sf.Do(name, func() (interface{}, error) {
		now := r.clock()
		if questions, ok := r.cached(name, now); ok {
			return questions, nil
		}

		questions, err := r.loader.LoadPool(ctx, name)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[name] = cachedPool{
			questions: questions,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.RawQuestion), nil
}

func (r *PoolRepository) cached(name string, now time.Time) ([]domain.RawQuestion, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[name]
	if !ok || !entry.expiresAt.After(now) {
		return nil, false
	}
	return entry.questions, true
}

func (r *PoolRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticPoolLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticPoolLoader struct {
	pools map[string][]domain.RawQuestion
}

func NewStaticPoolLoader(pools map[string][]domain.RawQuestion) *StaticPoolLoader {
	return &StaticPoolLoader{pools: pools}
}

func (l *StaticPoolLoader) LoadPool(_ context.Context, name string) ([]domain.RawQuestion, error) {
	if questions, ok := l.pools[name]; ok {
		return questions, nil
	}
	return nil, domain.ErrPoolNotFound
}
