package memory

import (
	"context"
	"testing"
	"time"

	"pet-detective-service/internal/domain"
)

func TestCatalogRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		CatalogLoader: NewStaticCatalogLoader(sampleRows()),
	}
	repo := NewCatalogRepository(loader, time.Minute)

	if _, err := repo.Catalog(context.Background()); err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.Catalog(context.Background()); err != nil {
		t.Fatalf("catalog 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestStaticCatalogLoaderEmpty(t *testing.T) {
	loader := NewStaticCatalogLoader(nil)
	if _, err := loader.LoadCatalog(context.Background()); err != domain.ErrCatalogNotFound {
		t.Fatalf("expected catalog not found, got %v", err)
	}
}

type countingLoader struct {
	CatalogLoader
	calls int
}

func (l *countingLoader) LoadCatalog(ctx context.Context) ([]domain.BreedImage, error) {
	l.calls++
	return l.CatalogLoader.LoadCatalog(ctx)
}

func sampleRows() []domain.BreedImage {
	return []domain.BreedImage{
		{Breed: "Siamese", AnimalType: domain.AnimalCat, ImageRef: "pets/siamese_1.jpg"},
		{Breed: "Beagle", AnimalType: domain.AnimalDog, ImageRef: "pets/beagle_1.jpg"},
	}
}
