package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"pet-detective-service/internal/domain"
)

// CatalogLoader fetches breed/image rows from a backing store (e.g., Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) ([]domain.BreedImage, error)
}

// CatalogRepository caches the catalog with TTL to avoid repeated DB hits.
type CatalogRepository struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	rows      []domain.BreedImage
	expiresAt time.Time
}

func NewCatalogRepository(loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) Catalog(ctx context.Context) ([]domain.BreedImage, error) {
	now := r.clock()

	r.mu.RLock()
	if r.rows != nil && r.expiresAt.After(now) {
		rows := r.rows
		r.mu.RUnlock()
		return rows, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("catalog", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.rows != nil && r.expiresAt.After(now) {
			rows := r.rows
			r.mu.RUnlock()
			return rows, nil
		}
		r.mu.RUnlock()

		rows, err := r.loader.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.rows = rows
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.BreedImage), nil
}

// StaticCatalogLoader is a simple loader backed by a fixed slice (useful for tests/demos).
type StaticCatalogLoader struct {
	rows []domain.BreedImage
}

func NewStaticCatalogLoader(rows []domain.BreedImage) *StaticCatalogLoader {
	return &StaticCatalogLoader{rows: rows}
}

func (l *StaticCatalogLoader) LoadCatalog(_ context.Context) ([]domain.BreedImage, error) {
	if len(l.rows) == 0 {
		return nil, domain.ErrCatalogNotFound
	}
	return l.rows, nil
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
