package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"civics-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// PoolLoader fetches a question pool from a backing store.
type PoolLoader interface {
	LoadPool(ctx context.Context, name string) ([]domain.RawQuestion, error)
}

// PoolRepository caches question pools in Redis and falls back to a loader on cache miss.
// Pools are stored as JSON: SET quiz:pool:{name} {"questions":[...]}
type PoolRepository struct {
	client *redis.Client
	loader PoolLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewPoolRepository(client *redis.Client, loader PoolLoader, ttl time.Duration) *PoolRepository {
	return &PoolRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *PoolRepository) GetPool(ctx context.Context, name string) ([]domain.RawQuestion, error) {
	if questions, ok := r.fromCache(ctx, name); ok {
		return questions, nil
	}

	result, err, _ := r.sf.Do(name, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if questions, ok := r.fromCache(ctx, name); ok {
			return questions, nil
		}

		questions, err := r.loader.LoadPool(ctx, name)
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(domain.Pool{Questions: questions})
		if err != nil {
			return nil, fmt.Errorf("marshal pool: %w", err)
		}
		_ = r.client.Set(ctx, r.key(name), data, r.ttlWithJitter()).Err()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.RawQuestion), nil
}

func (r *PoolRepository) fromCache(ctx context.Context, name string) ([]domain.RawQuestion, bool) {
	data, err := r.client.Get(ctx, r.key(name)).Bytes()
	if err != nil || len(data) == 0 {
		return nil, false
	}
	var pool domain.Pool
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, false
	}
	return pool.Questions, true
}

func (r *PoolRepository) key(name string) string {
	return "quiz:pool:" + name
}

func (r *PoolRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
