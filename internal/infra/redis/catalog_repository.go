package redis

import (
	"context"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"pet-detective-service/internal/domain"
)

// CatalogLoader fetches breed/image rows from a backing store (e.g., Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) ([]domain.BreedImage, error)
}

// CatalogRepository caches the catalog in Redis and falls back to a loader
// on cache miss. Rows are stored as two hashes:
//
//	HSET petdetective:catalog:breeds {breed}    {animalType}
//	HSET petdetective:catalog:images {imageRef} {breed}
type CatalogRepository struct {
	client *redis.Client
	loader CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewCatalogRepository(client *redis.Client, loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) Catalog(ctx context.Context) ([]domain.BreedImage, error) {
	if rows, ok := r.fromCache(ctx); ok {
		return rows, nil
	}

	result, err, _ := r.sf.Do("catalog", func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if rows, ok := r.fromCache(ctx); ok {
			return rows, nil
		}

		rows, err := r.loader.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}

		ttl := r.ttlWithJitter()
		pipe := r.client.Pipeline()
		for _, row := range rows {
			animalType := row.AnimalType
			if animalType == "" {
				animalType = domain.ClassifyBreed(row.Breed)
			}
			pipe.HSet(ctx, r.breedsKey(), row.Breed, string(animalType))
			pipe.HSet(ctx, r.imagesKey(), row.ImageRef, row.Breed)
		}
		if ttl > 0 {
			pipe.Expire(ctx, r.breedsKey(), ttl)
			pipe.Expire(ctx, r.imagesKey(), ttl)
		}
		_, _ = pipe.Exec(ctx)

		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.BreedImage), nil
}

func (r *CatalogRepository) fromCache(ctx context.Context) ([]domain.BreedImage, bool) {
	breeds, err := r.client.HGetAll(ctx, r.breedsKey()).Result()
	if err != nil || len(breeds) == 0 {
		return nil, false
	}
	images, err := r.client.HGetAll(ctx, r.imagesKey()).Result()
	if err != nil || len(images) == 0 {
		return nil, false
	}

	rows := make([]domain.BreedImage, 0, len(images))
	for imageRef, breed := range images {
		animalType := domain.AnimalType(breeds[breed])
		if animalType == "" {
			animalType = domain.ClassifyBreed(breed)
		}
		rows = append(rows, domain.BreedImage{
			Breed:      breed,
			AnimalType: animalType,
			ImageRef:   imageRef,
		})
	}
	return rows, true
}

func (r *CatalogRepository) breedsKey() string {
	return "petdetective:catalog:breeds"
}

func (r *CatalogRepository) imagesKey() string {
	return "petdetective:catalog:images"
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
