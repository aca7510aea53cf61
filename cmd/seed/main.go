package main

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"booking_search/internal/adapters/observability"
	redisad "booking_search/internal/adapters/redis"
	"booking_search/internal/app"
	"booking_search/internal/shared"
	mysqlrepo "booking_search/internal/storage/mysql"
)

// seed loads a catalog fixture into MySQL for local runs and demos.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	path := cfg.SeedFile
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	log.Info().Str("file", path).Int("workers", cfg.SeedWorkers).Msg("seed starting")

	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Msg("open catalog failed")
	}
	fx, err := app.ReadCatalog(f)
	_ = f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("read catalog failed")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}

	loader := app.NewCatalogLoader(mysqlrepo.New(db))
	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var (
		wg     sync.WaitGroup
		failed atomic.Int64
	)
	for _, e := range fx.Establishments {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}
		wg.Add(1)
		go func(e app.EstablishmentFixture) {
			defer wg.Done()
			defer sem.Release(1)

			if err := loader.LoadEstablishment(ctx, e); err != nil {
				failed.Add(1)
				log.Warn().Int64("id", e.ID).Err(err).Msg("load failed")
				return
			}
			log.Debug().Int64("id", e.ID).Int("rooms", len(e.Rooms)).Msg("load ok")
		}(e)
	}
	wg.Wait()

	// cached pages may describe the old catalog
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if n, err := cache.Purge(ctx, app.CacheKeyPrefix); err != nil {
		log.Warn().Err(err).Msg("search cache purge failed")
	} else {
		log.Info().Int("keys", n).Msg("search cache purged")
	}

	if n := failed.Load(); n > 0 {
		log.Fatal().Int64("failed", n).Int("total", len(fx.Establishments)).Msg("seed finished with errors")
	}
	log.Info().Int("establishments", len(fx.Establishments)).Msg("seed completed")
}
