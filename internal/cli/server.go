package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"pet-detective-service/internal/app"
	"pet-detective-service/internal/config"
	"pet-detective-service/internal/domain"
	"pet-detective-service/internal/game"
	"pet-detective-service/internal/infra/memory"
	pgstore "pet-detective-service/internal/infra/postgres"
	redisstore "pet-detective-service/internal/infra/redis"
	transport "pet-detective-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.CatalogLoader = memory.NewStaticCatalogLoader(sampleCatalog())
	if pool != nil {
		loader = pgstore.NewCatalogLoader(pool)
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	var catalog game.CatalogRepository
	if redisClient != nil {
		catalog = redisstore.NewCatalogRepository(redisClient, loader, catalogTTL)
	} else {
		catalog = memory.NewCatalogRepository(loader, catalogTTL)
	}

	var store app.SessionRepository
	if redisClient != nil {
		store = redisstore.NewSessionStore(redisClient, redisTTL)
	} else {
		store = memory.NewSessionStore()
	}

	var sink app.LeaderboardSink
	switch {
	case pool != nil && redisClient != nil:
		sink = app.TieredSink{Durable: pgstore.NewLeaderboard(pool), Live: redisstore.NewLeaderboard(redisClient)}
	case pool != nil:
		sink = pgstore.NewLeaderboard(pool)
	case redisClient != nil:
		sink = redisstore.NewLeaderboard(redisClient)
	}

	rules := cfg.Rules()
	source := game.NewGenerator(rules, catalog, nil)
	service := app.NewGameService(rules, source, store, sink)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.Handle("/leaderboard", transport.NewLeaderboardHandler(service))

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting pet detective service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleCatalog provides a minimal breed catalog; the Postgres loader
// replaces it in production.
func sampleCatalog() []domain.BreedImage {
	breeds := []struct {
		breed  string
		images []string
	}{
		{"Siamese", []string{"pets/siamese_1.jpg", "pets/siamese_2.jpg"}},
		{"Persian", []string{"pets/persian_1.jpg"}},
		{"Maine Coon", []string{"pets/maine_coon_1.jpg"}},
		{"Bengal", []string{"pets/bengal_1.jpg"}},
		{"Russian Blue", []string{"pets/russian_blue_1.jpg"}},
		{"Sphynx", []string{"pets/sphynx_1.jpg"}},
		{"Beagle", []string{"pets/beagle_1.jpg", "pets/beagle_2.jpg"}},
		{"Boxer", []string{"pets/boxer_1.jpg"}},
		{"Chihuahua", []string{"pets/chihuahua_1.jpg"}},
		{"Pug", []string{"pets/pug_1.jpg"}},
		{"Samoyed", []string{"pets/samoyed_1.jpg"}},
		{"Great Pyrenees", []string{"pets/great_pyrenees_1.jpg"}},
	}

	var rows []domain.BreedImage
	for _, b := range breeds {
		animalType := domain.ClassifyBreed(b.breed)
		for _, img := range b.images {
			rows = append(rows, domain.BreedImage{Breed: b.breed, AnimalType: animalType, ImageRef: img})
		}
	}
	return rows
}
