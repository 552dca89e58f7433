package storage

import (
	"database/sql"
	"time"

	"docscout/internal/logging"
)

// ScoreCache persists external relevance scores so re-running discovery on an
// unchanged repository costs no generator calls. Entries are keyed by the
// section fingerprint, the candidate path, and the candidate's content hash,
// so edits to either side invalidate naturally.
//
// All errors are swallowed and logged: a broken cache degrades to misses and
// must never fail a discovery run.
type ScoreCache struct {
	db     *DB
	logger *logging.Logger
}

// NewScoreCache creates a cache over an open database.
func NewScoreCache(db *DB, logger *logging.Logger) *ScoreCache {
	return &ScoreCache{db: db, logger: logger}
}

// Get looks up a cached score.
func (c *ScoreCache) Get(sectionHash, path, contentHash string) (int, string, string, bool) {
	var score int
	var reasoning, confidence string

	err := c.db.conn.QueryRow(`
		SELECT score, reasoning, confidence
		FROM relevance_scores
		WHERE section_hash = ? AND path = ? AND content_hash = ?
	`, sectionHash, path, contentHash).Scan(&score, &reasoning, &confidence)

	if err != nil {
		if err != sql.ErrNoRows && c.logger != nil {
			c.logger.Warn("score cache lookup failed", map[string]interface{}{
				"path": path, "error": err.Error(),
			})
		}
		return 0, "", "", false
	}
	return score, reasoning, confidence, true
}

// Put stores a score, replacing any previous entry for the same key.
func (c *ScoreCache) Put(sectionHash, path, contentHash string, score int, reasoning, confidence string) {
	_, err := c.db.conn.Exec(`
		INSERT OR REPLACE INTO relevance_scores
			(section_hash, path, content_hash, score, reasoning, confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, sectionHash, path, contentHash, score, reasoning, confidence, time.Now().Unix())

	if err != nil && c.logger != nil {
		c.logger.Warn("score cache write failed", map[string]interface{}{
			"path": path, "error": err.Error(),
		})
	}
}

// Purge removes every cached score. Used when the user wants a fresh re-rank.
func (c *ScoreCache) Purge() error {
	_, err := c.db.conn.Exec(`DELETE FROM relevance_scores`)
	return err
}

// Len returns the number of cached entries.
func (c *ScoreCache) Len() (int, error) {
	var n int
	err := c.db.conn.QueryRow(`SELECT COUNT(*) FROM relevance_scores`).Scan(&n)
	return n, err
}
