package geocode

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Cache stores geocode results, including non-matches, in SQLite so repeat
// lookups skip the network.
type Cache struct {
	db *sql.DB
}

const cacheMigration = `
CREATE TABLE IF NOT EXISTS geocode_cache (
	address_hash TEXT PRIMARY KEY,
	latitude     REAL NOT NULL,
	longitude    REAL NOT NULL,
	display_name TEXT NOT NULL,
	source       TEXT NOT NULL,
	matched      INTEGER NOT NULL,
	cached_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

// OpenCache opens (creating if needed) a SQLite cache at the given DSN and
// configures WAL mode.
func OpenCache(dsn string) (*Cache, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: open cache")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, eris.Wrapf(err, "geocode: exec %s", pragma)
		}
	}
	if _, err := db.Exec(cacheMigration); err != nil {
		_ = db.Close()
		return nil, eris.Wrap(err, "geocode: migrate cache")
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// cacheKey returns SHA-256 hex of the normalized address.
func cacheKey(address string) string {
	normalized := strings.ToLower(strings.TrimSpace(address))
	h := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", h)
}

// Get looks up a cached result. Non-matches are returned too, so the caller
// can skip providers that already missed.
func (c *Cache) Get(ctx context.Context, address string) (*Result, bool) {
	key := cacheKey(address)

	var r Result
	var matched int
	row := c.db.QueryRowContext(ctx,
		"SELECT latitude, longitude, display_name, source, matched FROM geocode_cache WHERE address_hash = ?",
		key,
	)
	if err := row.Scan(&r.Latitude, &r.Longitude, &r.DisplayName, &r.Source, &matched); err != nil {
		return nil, false
	}
	r.Matched = matched != 0

	zap.L().Debug("geocode cache hit", zap.String("key", key[:12]), zap.Bool("matched", r.Matched))
	return &r, true
}

// Put stores a geocode result, match or non-match.
func (c *Cache) Put(ctx context.Context, address string, result *Result) error {
	matched := 0
	if result.Matched {
		matched = 1
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO geocode_cache (address_hash, latitude, longitude, display_name, source, matched, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT (address_hash) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			display_name = excluded.display_name,
			source = excluded.source,
			matched = excluded.matched,
			cached_at = datetime('now')`,
		cacheKey(address), result.Latitude, result.Longitude, result.DisplayName, result.Source, matched,
	)
	if err != nil {
		return eris.Wrap(err, "geocode: store cache")
	}
	return nil
}
