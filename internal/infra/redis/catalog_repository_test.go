package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"pet-detective-service/internal/domain"
	"pet-detective-service/internal/infra/memory"
)

func TestCatalogRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		CatalogLoader: memory.NewStaticCatalogLoader(sampleRows()),
	}
	repo := NewCatalogRepository(client, loader, time.Minute)

	rows, err := repo.Catalog(context.Background())
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if len(rows) != len(sampleRows()) {
		t.Fatalf("expected %d rows, got %d", len(sampleRows()), len(rows))
	}

	// Second call should hit the redis cache, loader not incremented.
	cached, err := repo.Catalog(context.Background())
	if err != nil {
		t.Fatalf("catalog 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if len(cached) != len(sampleRows()) {
		t.Fatalf("expected full catalog from cache, got %d rows", len(cached))
	}
	for _, row := range cached {
		if row.AnimalType != domain.ClassifyBreed(row.Breed) {
			t.Fatalf("animal type lost in cache round trip: %+v", row)
		}
	}
}

type countingLoader struct {
	memory.CatalogLoader
	calls int
}

func (l *countingLoader) LoadCatalog(ctx context.Context) ([]domain.BreedImage, error) {
	l.calls++
	return l.CatalogLoader.LoadCatalog(ctx)
}

func sampleRows() []domain.BreedImage {
	return []domain.BreedImage{
		{Breed: "Siamese", AnimalType: domain.AnimalCat, ImageRef: "pets/siamese_1.jpg"},
		{Breed: "Persian", AnimalType: domain.AnimalCat, ImageRef: "pets/persian_1.jpg"},
		{Breed: "Beagle", AnimalType: domain.AnimalDog, ImageRef: "pets/beagle_1.jpg"},
		{Breed: "Boxer", AnimalType: domain.AnimalDog, ImageRef: "pets/boxer_1.jpg"},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
