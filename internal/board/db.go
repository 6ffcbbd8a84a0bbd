// Package board stores the published odds board in SQLite.
package board

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// Quote is one published price: a single outcome of one market of a fixture.
type Quote struct {
	ID        int64
	RoundID   string
	FixtureID string
	Position  int // fixture order within the round
	HomeTeam  string
	AwayTeam  string
	Kickoff   time.Time
	Market    string // "1x2", "under_over_2_5", "goal_nogoal", "correct_score"
	Outcome   string // "1", "Over 2.5", "NoGoal", "2-1", ...
	Odds      decimal.Decimal
	CreatedAt time.Time
}

// DB handles odds board storage
type DB struct {
	db *sql.DB
}

// NewDB creates a new board database
func NewDB(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{db: db}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS quotes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		round_id TEXT NOT NULL,
		fixture_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		home_team TEXT NOT NULL,
		away_team TEXT NOT NULL,
		kickoff DATETIME NOT NULL,
		market TEXT NOT NULL,
		outcome TEXT NOT NULL,
		odds TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(fixture_id, market, outcome)
	);

	CREATE INDEX IF NOT EXISTS idx_quotes_round ON quotes(round_id);
	CREATE INDEX IF NOT EXISTS idx_quotes_fixture ON quotes(fixture_id);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.db.Close()
}

// SaveRound replaces every stored quote of roundID with quotes in one
// transaction.
func (d *DB) SaveRound(roundID string, quotes []Quote) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM quotes WHERE round_id = ?`, roundID); err != nil {
		return fmt.Errorf("clearing round %s: %w", roundID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO quotes (round_id, fixture_id, position, home_team, away_team, kickoff, market, outcome, odds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, q := range quotes {
		if _, err := stmt.Exec(roundID, q.FixtureID, q.Position, q.HomeTeam, q.AwayTeam,
			q.Kickoff.UTC(), q.Market, q.Outcome, q.Odds); err != nil {
			return fmt.Errorf("inserting quote %s/%s/%s: %w", q.FixtureID, q.Market, q.Outcome, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing round %s: %w", roundID, err)
	}
	return nil
}

const selectQuotes = `
	SELECT id, round_id, fixture_id, position, home_team, away_team, kickoff, market, outcome, odds, created_at
	FROM quotes
`

// GetFixtureOdds retrieves every quote of one fixture
func (d *DB) GetFixtureOdds(fixtureID string) ([]Quote, error) {
	rows, err := d.db.Query(selectQuotes+`WHERE fixture_id = ? ORDER BY id`, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("querying quotes by fixture: %w", err)
	}
	return scanQuotes(rows)
}

// ListRound retrieves every quote of a round in fixture order
func (d *DB) ListRound(roundID string) ([]Quote, error) {
	rows, err := d.db.Query(selectQuotes+`WHERE round_id = ? ORDER BY position, id`, roundID)
	if err != nil {
		return nil, fmt.Errorf("querying quotes by round: %w", err)
	}
	return scanQuotes(rows)
}

// LatestRoundID returns the round with the most recent first kickoff, or ""
// when the board is empty.
func (d *DB) LatestRoundID() (string, error) {
	var roundID string
	err := d.db.QueryRow(`
		SELECT round_id FROM quotes
		GROUP BY round_id
		ORDER BY MIN(kickoff) DESC
		LIMIT 1
	`).Scan(&roundID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying latest round: %w", err)
	}
	return roundID, nil
}

// DeleteRound removes a round, returning the number of quotes deleted
func (d *DB) DeleteRound(roundID string) (int64, error) {
	result, err := d.db.Exec(`DELETE FROM quotes WHERE round_id = ?`, roundID)
	if err != nil {
		return 0, fmt.Errorf("deleting round: %w", err)
	}
	return result.RowsAffected()
}

// DeleteBefore removes quotes for fixtures that kicked off before cutoff
func (d *DB) DeleteBefore(cutoff time.Time) (int64, error) {
	result, err := d.db.Exec(`DELETE FROM quotes WHERE kickoff < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("deleting old quotes: %w", err)
	}
	return result.RowsAffected()
}

func scanQuotes(rows *sql.Rows) ([]Quote, error) {
	defer rows.Close()

	var quotes []Quote
	for rows.Next() {
		var q Quote
		if err := rows.Scan(&q.ID, &q.RoundID, &q.FixtureID, &q.Position, &q.HomeTeam, &q.AwayTeam,
			&q.Kickoff, &q.Market, &q.Outcome, &q.Odds, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning quote row: %w", err)
		}
		quotes = append(quotes, q)
	}

	return quotes, rows.Err()
}
