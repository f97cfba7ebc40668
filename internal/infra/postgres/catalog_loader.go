package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"pet-detective-service/internal/domain"
)

// CatalogLoader loads the breed/image catalog from Postgres.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadCatalog(ctx context.Context) ([]domain.BreedImage, error) {
	rows, err := l.pool.Query(ctx, `SELECT breed, animal_type, image_ref FROM pet_images`)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	defer rows.Close()

	var catalog []domain.BreedImage
	for rows.Next() {
		var row domain.BreedImage
		var animalType string
		if err := rows.Scan(&row.Breed, &animalType, &row.ImageRef); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		row.AnimalType = domain.AnimalType(animalType)
		catalog = append(catalog, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if len(catalog) == 0 {
		return nil, domain.ErrCatalogNotFound
	}
	return catalog, nil
}
