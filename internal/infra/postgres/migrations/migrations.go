package migrations

import (
	_ "embed"

	"github.com/uptrace/bun/migrate"
)

//go:embed 0001_create_pet_images.sql
var createPetImagesSQL string

//go:embed 0002_create_leaderboard.sql
var createLeaderboardSQL string

var Migrations = migrate.NewMigrations()
