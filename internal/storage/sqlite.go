// Package storage provides SQLite-based persistence for level statistics.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/shape-drop/internal/session"
)

// Store manages the SQLite database connection for stats persistence.
type Store struct {
	db *sql.DB
}

// Ensure Store implements session.StatsSink
var _ session.StatsSink = (*Store)(nil)

// PlayerBest is a player's best run.
type PlayerBest struct {
	Player     string
	BestTotal  int
	BestLevel  int
	LastPlayed time.Time
}

// Summary contains aggregated statistics for a player.
type Summary struct {
	Player        string
	LevelsCleared int
	Sessions      int
	BestTotal     int
	BestLevel     int
	AvgDuration   time.Duration
	LastPlayed    time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// Writes come from the worker pool while the UI reads.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS level_stats (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT '',
			level INTEGER NOT NULL,
			level_score INTEGER NOT NULL,
			total_score INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_level_stats_player ON level_stats(player, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_level_stats_session ON level_stats(session_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveLevelStats records one cleared level.
func (s *Store) SaveLevelStats(ctx context.Context, st session.LevelStats) error {
	if st.ID == "" {
		return errors.New("storage: level stats without id")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO level_stats
		 (id, session_id, player, level, level_score, total_score, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		st.ID,
		st.SessionID,
		st.Player,
		st.Level,
		st.LevelScore,
		st.TotalScore,
		st.Duration.Milliseconds(),
		st.Timestamp.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save level stats: %w", err)
	}
	return nil
}

const statsColumns = `id, session_id, player, level, level_score, total_score, duration_ms, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStats(row rowScanner) (session.LevelStats, error) {
	var (
		st         session.LevelStats
		durationMS int64
		createdAt  int64
	)
	err := row.Scan(
		&st.ID,
		&st.SessionID,
		&st.Player,
		&st.Level,
		&st.LevelScore,
		&st.TotalScore,
		&durationMS,
		&createdAt,
	)
	if err != nil {
		return session.LevelStats{}, err
	}
	st.Duration = time.Duration(durationMS) * time.Millisecond
	st.Timestamp = time.UnixMilli(createdAt)
	return st, nil
}

// LatestLevelStats returns the player's most recent record, or nil when
// the player has none.
func (s *Store) LatestLevelStats(ctx context.Context, player string) (*session.LevelStats, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+statsColumns+`
		 FROM level_stats
		 WHERE player = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT 1`,
		player,
	)

	st, err := scanStats(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query latest level stats: %w", err)
	}
	return &st, nil
}

// RecentLevelStats returns the newest records first. An empty player
// matches everyone.
func (s *Store) RecentLevelStats(ctx context.Context, player string, limit int) ([]session.LevelStats, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+statsColumns+`
		 FROM level_stats
		 WHERE ? = '' OR player = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		player, player, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query level stats: %w", err)
	}
	defer rows.Close()

	var out []session.LevelStats
	for rows.Next() {
		st, err := scanStats(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out = append(out, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return out, nil
}

// TopTotals returns each player's best total score, highest first.
func (s *Store) TopTotals(ctx context.Context, limit int) ([]PlayerBest, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT player, MAX(total_score), MAX(level), MAX(created_at)
		 FROM level_stats
		 GROUP BY player
		 ORDER BY MAX(total_score) DESC, player ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query top totals: %w", err)
	}
	defer rows.Close()

	var out []PlayerBest
	for rows.Next() {
		var (
			b    PlayerBest
			last int64
		)
		if err := rows.Scan(&b.Player, &b.BestTotal, &b.BestLevel, &last); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		b.LastPlayed = time.UnixMilli(last)
		out = append(out, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return out, nil
}

// Summary returns aggregated statistics for a player. An empty player
// matches everyone.
func (s *Store) Summary(ctx context.Context, player string) (*Summary, error) {
	sum := &Summary{Player: player}

	var (
		avgMS float64
		last  int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT session_id),
		        COALESCE(MAX(total_score), 0), COALESCE(MAX(level), 0),
		        COALESCE(AVG(duration_ms), 0), COALESCE(MAX(created_at), 0)
		 FROM level_stats
		 WHERE ? = '' OR player = ?`,
		player, player,
	).Scan(&sum.LevelsCleared, &sum.Sessions, &sum.BestTotal, &sum.BestLevel, &avgMS, &last)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get summary: %w", err)
	}

	sum.AvgDuration = time.Duration(avgMS) * time.Millisecond
	if last > 0 {
		sum.LastPlayed = time.UnixMilli(last)
	}
	return sum, nil
}

// ClearStats deletes a player's records. An empty player clears everything.
func (s *Store) ClearStats(ctx context.Context, player string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM level_stats WHERE ? = '' OR player = ?", player, player)
	if err != nil {
		return fmt.Errorf("storage: cannot clear level stats: %w", err)
	}
	return nil
}
