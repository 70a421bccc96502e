package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"

	"foorum/internal/adapter/file"
	adapthttp "foorum/internal/adapter/http"
	"foorum/internal/adapter/postgres"
	"foorum/internal/adapter/redis"
	"foorum/internal/app"
	"foorum/internal/domain"
)

func main() {
	addr := env("ADDR", ":8080")
	webDir := env("WEB_DIR", "web")

	store, closeStore, err := openStore()
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer closeStore()

	creds := app.NewCredentialStore(store)
	sessions := app.NewSessionManager(creds, store, app.DefaultLoginDelay)
	feed := app.NewFeedService(store)

	ctx := context.Background()
	if err := sessions.Restore(ctx); err != nil {
		// Degrade to signed-out rather than refusing to start.
		log.Printf("session restore: %v", err)
	}
	if _, err := feed.Load(ctx); err != nil {
		log.Fatalf("feed load: %v", err)
	}

	h := adapthttp.New(sessions, feed, webDir).Handler()
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// openStore picks the storage backend from the environment: Postgres when
// DATABASE_URL is set, Redis when REDIS_ADDR is set, otherwise a local
// JSON file.
func openStore() (domain.Store, func(), error) {
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		db, err := postgres.Open(connStr)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("storage: postgres")
		return db, func() { _ = db.Close() }, nil
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
		s, err := redis.Open(addr, os.Getenv("REDIS_PASSWORD"), db)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("storage: redis at %s", addr)
		return s, func() { _ = s.Close() }, nil
	}

	path := env("DATA_FILE", "foorum.json")
	s, err := file.Open(path)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("storage: file at %s", path)
	return s, func() {}, nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
