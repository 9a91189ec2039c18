// Package bootstrap wires configuration, tables, the custom dictionary and
// the corrector together for the command line tools.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"spellfix/internal/apiserver"
	"spellfix/internal/config"
	"spellfix/internal/corrector"
	"spellfix/internal/customdict"
	"spellfix/internal/logging"
	"spellfix/internal/snapcache"
	"spellfix/internal/tables"
)

const shutdownTimeout = 10 * time.Second

// Setup loads the config file, applies env overrides and configures logging.
func Setup(confPath string) (*config.Conf, error) {
	conf, err := config.Load(confPath)
	if err != nil {
		return nil, err
	}
	config.ApplyEnv(conf)
	if err := logging.Setup(conf.Logging); err != nil {
		return nil, err
	}
	if err := config.ValidateAndDefaults(conf); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return conf, nil
}

// OpenSnapshot prefers the compiled cache when one is configured, present
// and not older than any of the tables, otherwise it parses the tables.
func OpenSnapshot(ctx context.Context, conf *config.Conf) (*corrector.Snapshot, error) {
	files := conf.Data.Files()
	if path := conf.Data.SnapshotCache; path != "" && !cacheStale(path, files.Paths()) {
		snap, err := snapcache.Read(path)
		if err == nil {
			log.Info().Str("path", path).Int("words", snap.Corpus.Size()).Msg("loaded snapshot cache")
			return snap, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("unusable snapshot cache, loading tables")
		}
	}
	return tables.Load(ctx, files)
}

// cacheStale reports whether a table file was modified after the cache was
// written. A missing cache is not stale, Read reports it.
func cacheStale(cachePath string, tablePaths []string) bool {
	ci, err := os.Stat(cachePath)
	if err != nil {
		return false
	}
	for _, p := range tablePaths {
		ti, err := os.Stat(p)
		if err != nil {
			continue
		}
		if ti.ModTime().After(ci.ModTime()) {
			log.Info().Str("table", p).Str("cache", cachePath).Msg("snapshot cache is older than tables")
			return true
		}
	}
	return false
}

// NewCustomDict returns nil when Redis is disabled.
func NewCustomDict(ctx context.Context, conf config.RedisConf) (*customdict.CustomDict, func(), error) {
	if conf.Disabled {
		return nil, func() {}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", conf.Addr, err)
	}
	return customdict.New(client, conf.Key), func() { client.Close() }, nil
}

// NewCorrector builds a corrector over the configured tables. The returned
// cleanup func releases the Redis connection.
func NewCorrector(ctx context.Context, conf *config.Conf) (*corrector.SpellCorrector, func(), error) {
	snap, err := OpenSnapshot(ctx, conf)
	if err != nil {
		return nil, nil, err
	}
	dict, cleanup, err := NewCustomDict(ctx, conf.Redis)
	if err != nil {
		return nil, nil, err
	}
	var store corrector.WordStore
	if dict != nil {
		store = dict
	}
	sc, err := corrector.NewSpellCorrector(ctx, corrector.NewConfig(conf.Corrector.Options()...), snap, store)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("init error: %w", err)
	}
	return sc, cleanup, nil
}

// WatchTables keeps sc in sync with the table files until ctx is done.
func WatchTables(ctx context.Context, conf *config.Conf, sc *corrector.SpellCorrector) {
	err := tables.Watch(ctx, conf.Data.Files(), conf.Data.WatchDebounce, func(snap *corrector.Snapshot) {
		if err := sc.Swap(snap); err != nil {
			apiserver.SnapshotReloads.WithLabelValues("rejected").Inc()
			log.Error().Err(err).Msg("failed to swap snapshot")
			return
		}
		apiserver.SnapshotReloads.WithLabelValues("ok").Inc()
		log.Info().Int("words", snap.Corpus.Size()).Msg("swapped in reloaded tables")
		if path := conf.Data.SnapshotCache; path != "" {
			if err := snapcache.Write(path, snap); err != nil {
				log.Error().Err(err).Str("path", path).Msg("failed to refresh snapshot cache")
			}
		}
	})
	if err != nil {
		log.Error().Err(err).Msg("table watcher stopped")
	}
}

// Serve runs the HTTP API, and the table watcher when enabled, until ctx
// is cancelled.
func Serve(ctx context.Context, conf *config.Conf) error {
	sc, cleanup, err := NewCorrector(ctx, conf)
	if err != nil {
		return err
	}
	defer cleanup()

	if conf.Data.Watch {
		go WatchTables(ctx, conf, sc)
	}

	srv := apiserver.New(sc, conf.ListenAddress, conf.Corrector.MaxBatch)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
