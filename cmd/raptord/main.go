package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/antigravity/raptor-engine/internal/allocator"
	"github.com/antigravity/raptor-engine/internal/config"
	"github.com/antigravity/raptor-engine/internal/handler"
	"github.com/antigravity/raptor-engine/internal/quantities"
	"github.com/antigravity/raptor-engine/internal/repository"
)

func main() {
	cfg, err := config.Parse("RAPTOR", os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("loading feed from %s", cfg.Feed.Path)
	repo, err := handler.LoadRepository(cfg.Feed.Path)
	if err != nil {
		log.Fatalf("failed to load feed: %v", err)
	}
	log.Printf("feed loaded: %d stops, %d routes, %d trips", repo.NumStops(), repo.NumRoutes(), repo.NumTrips())
	for _, w := range repo.Warnings {
		log.Printf("build warning: %s: %s", w.Kind, w.Message)
	}

	store := repository.NewStore(repo)
	pool := allocator.NewPool()
	walkDistance := quantities.FromMeters(cfg.Routing.WalkDistanceMeters)
	h := handler.New(store, pool, walkDistance, cfg.Feed.Path)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"raptor-engine"}`))
	})
	r.Get("/routing", h.Routing)
	r.Get("/search", h.Search)
	r.Get("/gtfs/fetch", h.GTFSFetch)
	r.Get("/gtfs/age", h.GTFSAge)

	log.Printf("raptord listening on %s", cfg.HTTP.Address)
	if err := http.ListenAndServe(cfg.HTTP.Address, r); err != nil {
		log.Fatal(err)
	}
}
