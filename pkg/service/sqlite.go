package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/russofg/event-chaos-sub000/pkg/career"
	"github.com/russofg/event-chaos-sub000/pkg/rule"
)

// SQLiteStore implements Store on a local SQLite file.
type SQLiteStore struct {
	conn  *sqlx.DB
	known career.Known
	// mu serializes read-modify-write paths.
	mu sync.Mutex
}

// OpenSQLiteStore opens or creates a SQLite database at path.
func OpenSQLiteStore(path string, known career.Known) (*SQLiteStore, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	s := &SQLiteStore{conn: conn, known: known}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logrus.Infof("opened SQLite store at %s", path)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS careers (
		player_id TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS scores (
		scenario_id TEXT NOT NULL,
		player_id TEXT NOT NULL,
		score INTEGER NOT NULL,
		PRIMARY KEY (scenario_id, player_id)
	);

	CREATE TABLE IF NOT EXISTS notices (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		player_id TEXT NOT NULL,
		session_id TEXT NOT NULL,
		rule_id TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		level TEXT NOT NULL,
		posted_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scores_rank ON scores(scenario_id, score DESC);
	CREATE INDEX IF NOT EXISTS idx_notices_player ON notices(player_id, id);
	`
	_, err := s.conn.Exec(schema)
	return err
}

type careerQuerier interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func (s *SQLiteStore) loadCareer(ctx context.Context, q careerQuerier, playerID string) (career.Data, error) {
	var blob string
	err := q.GetContext(ctx, &blob, "SELECT data FROM careers WHERE player_id = ?", playerID)
	if errors.Is(err, sql.ErrNoRows) {
		return career.New(), nil
	}
	if err != nil {
		return career.Data{}, fmt.Errorf("failed to get career: %w", err)
	}
	return career.NormalizeJSON([]byte(blob), s.known), nil
}

func saveCareer(ctx context.Context, tx *sqlx.Tx, playerID string, data career.Data) error {
	blob, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal career: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO careers (player_id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		playerID, string(blob), time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save career: %w", err)
	}
	return nil
}

// LoadCareer implements CareerStore.
func (s *SQLiteStore) LoadCareer(ctx context.Context, playerID string) (career.Data, error) {
	return s.loadCareer(ctx, s.conn, playerID)
}

// SaveCareer implements CareerStore.
func (s *SQLiteStore) SaveCareer(ctx context.Context, playerID string, data career.Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := saveCareer(ctx, tx, playerID, data); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateCareer implements CareerStore.
func (s *SQLiteStore) UpdateCareer(ctx context.Context, playerID string, fn UpdateFunc) (career.Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.conn.Beginx()
	if err != nil {
		return career.Data{}, err
	}
	defer tx.Rollback()

	current, err := s.loadCareer(ctx, tx, playerID)
	if err != nil {
		return career.Data{}, err
	}
	next, err := fn(current)
	if err != nil {
		return current, err
	}
	if err := saveCareer(ctx, tx, playerID, next); err != nil {
		return current, err
	}
	if err := tx.Commit(); err != nil {
		return current, fmt.Errorf("commit career: %w", err)
	}
	return next, nil
}

// SubmitScore implements Leaderboard.
func (s *SQLiteStore) SubmitScore(ctx context.Context, scenarioID, playerID string, score int) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO scores (scenario_id, player_id, score) VALUES (?, ?, ?)
		ON CONFLICT(scenario_id, player_id) DO UPDATE SET score = excluded.score
		WHERE excluded.score > scores.score`,
		scenarioID, playerID, score)
	if err != nil {
		return fmt.Errorf("failed to submit score: %w", err)
	}
	return nil
}

// TopScores implements Leaderboard.
func (s *SQLiteStore) TopScores(ctx context.Context, scenarioID string, n int) ([]rule.LeaderboardEntry, error) {
	if n <= 0 {
		n = 10
	}
	var rows []struct {
		PlayerID string `db:"player_id"`
		Score    int    `db:"score"`
	}
	err := s.conn.SelectContext(ctx, &rows, `
		SELECT player_id, score FROM scores
		WHERE scenario_id = ?
		ORDER BY score DESC, player_id ASC
		LIMIT ?`, scenarioID, n)
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	entries := make([]rule.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, rule.LeaderboardEntry{PlayerID: row.PlayerID, Rank: i + 1, Score: row.Score})
	}
	return entries, nil
}

// PostNotice implements NoticeBoard.
func (s *SQLiteStore) PostNotice(ctx context.Context, notice Notice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO notices (player_id, session_id, rule_id, title, message, level, posted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		notice.PlayerID, notice.SessionID, notice.RuleID, notice.Title, notice.Message, notice.Level, notice.At.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to post notice: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM notices WHERE player_id = ? AND id NOT IN (
			SELECT id FROM notices WHERE player_id = ? ORDER BY id DESC LIMIT ?
		)`, notice.PlayerID, notice.PlayerID, MaxNotices)
	if err != nil {
		return fmt.Errorf("failed to trim notices: %w", err)
	}
	return tx.Commit()
}

// ListNotices implements NoticeBoard.
func (s *SQLiteStore) ListNotices(ctx context.Context, playerID string, limit int) ([]Notice, error) {
	var rows []struct {
		Notice
		PostedAt int64 `db:"posted_at"`
	}
	err := s.conn.SelectContext(ctx, &rows, `
		SELECT player_id, session_id, rule_id, title, message, level, posted_at
		FROM notices WHERE player_id = ?
		ORDER BY id DESC LIMIT ?`, playerID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list notices: %w", err)
	}

	notices := make([]Notice, 0, len(rows))
	for _, row := range rows {
		n := row.Notice
		n.At = time.Unix(0, row.PostedAt).UTC()
		notices = append(notices, n)
	}
	return notices, nil
}

// Ping implements Store.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}
