package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/phishing-detector/internal/core"
	"go.uber.org/zap"
)

// SQLiteCache is a SQLite-backed result cache for deployments that
// want scan results to survive restarts. Unlike the memory cache it
// runs a periodic cleanup, since expired rows otherwise accumulate on
// disk.
type SQLiteCache struct {
	db          *sql.DB
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewSQLiteCache creates a new SQLite cache at dbPath.
func NewSQLiteCache(dbPath string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS scan_cache (
			fingerprint TEXT PRIMARY KEY,
			result      TEXT,
			created_at  TIMESTAMP,
			expires_at  TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_expires_at ON scan_cache(expires_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	cache := &SQLiteCache{
		db:          db,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	go cache.startCleanupTask()

	return cache, nil
}

// Get retrieves the cached result for a fingerprint. Expired rows are
// filtered in the query and reported as misses.
func (c *SQLiteCache) Get(ctx context.Context, fingerprint string) (*core.ScoreResult, bool) {
	var payload string
	err := c.db.QueryRowContext(ctx, `
		SELECT result
		FROM scan_cache
		WHERE fingerprint = ? AND expires_at > ?
	`, fingerprint, time.Now().Format(time.RFC3339Nano)).Scan(&payload)

	if err != nil {
		if err != sql.ErrNoRows {
			c.logger.Error("Failed to query cache", zap.Error(err), zap.String("fingerprint", fingerprint))
		}
		return nil, false
	}

	var result core.ScoreResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		c.logger.Error("Failed to decode cached result", zap.Error(err))
		return nil, false
	}

	return &result, true
}

// Set stores a result for a fingerprint, overwriting any previous row.
func (c *SQLiteCache) Set(ctx context.Context, fingerprint string, result *core.ScoreResult, ttl time.Duration) {
	payload, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("Failed to encode result for cache", zap.Error(err))
		return
	}

	now := time.Now()
	_, err = c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO scan_cache (fingerprint, result, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`, fingerprint, string(payload), now.Format(time.RFC3339Nano), now.Add(ttl).Format(time.RFC3339Nano))

	if err != nil {
		c.logger.Error("Failed to insert cache entry", zap.Error(err), zap.String("fingerprint", fingerprint))
	}
}

// Cleanup removes expired rows.
func (c *SQLiteCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM scan_cache
		WHERE expires_at <= ?
	`, time.Now().Format(time.RFC3339Nano))

	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", rowsAffected))
	}

	return nil
}

// startCleanupTask runs Cleanup on a fixed interval until Stop.
func (c *SQLiteCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Cleanup(context.Background()); err != nil {
				c.logger.Error("Failed to clean up cache", zap.Error(err))
			}
		case <-c.stopCh:
			return
		}
	}
}

// Stop halts the background cleanup and closes the database.
func (c *SQLiteCache) Stop() {
	close(c.stopCh)
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close cache database", zap.Error(err))
	}
}
