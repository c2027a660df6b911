package signal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TheJazzDev/the-gold-traders-edge/internal/core"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS signals (
	id          TEXT PRIMARY KEY,
	timestamp   INTEGER NOT NULL,
	symbol      TEXT NOT NULL,
	timeframe   TEXT NOT NULL,
	strategy    TEXT NOT NULL,
	direction   TEXT NOT NULL,
	entry_price REAL NOT NULL,
	stop_loss   REAL NOT NULL,
	take_profit REAL NOT NULL,
	confidence  REAL NOT NULL,
	risk        REAL NOT NULL,
	reward      REAL NOT NULL,
	risk_reward REAL NOT NULL,
	status      TEXT NOT NULL,
	notes       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_signals_timestamp ON signals(timestamp);
CREATE INDEX IF NOT EXISTS idx_signals_symbol ON signals(symbol);
`

// SQLiteStore persists signals in a SQLite database file
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if necessary creates) the database at path.
// Use ":memory:" for an ephemeral store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent workers.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, core.WrapError(core.ErrStoreFailed, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, core.WrapError(core.ErrStoreFailed, err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, sig core.ValidatedSignal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO signals (
			id, timestamp, symbol, timeframe, strategy, direction,
			entry_price, stop_loss, take_profit, confidence,
			risk, reward, risk_reward, status, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sig.ID, sig.Timestamp.UnixNano(), sig.Symbol, string(sig.Timeframe),
		sig.Strategy, string(sig.Direction),
		sig.Entry, sig.Stop, sig.Target, sig.Confidence,
		sig.Risk, sig.Reward, sig.RiskReward, string(sig.Status), sig.Notes,
	)
	if err != nil {
		return core.WrapError(core.ErrStoreFailed, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (core.ValidatedSignal, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" FROM signals WHERE id = ?", id)
	sig, err := scanSignal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ValidatedSignal{}, core.ErrSignalNotFound
	}
	if err != nil {
		return core.ValidatedSignal{}, core.WrapError(core.ErrStoreFailed, err)
	}
	return sig, nil
}

func (s *SQLiteStore) List(ctx context.Context, f ListFilter) ([]core.ValidatedSignal, error) {
	var conds []string
	var args []any
	if f.Symbol != "" {
		conds = append(conds, "symbol = ?")
		args = append(args, f.Symbol)
	}
	if f.Strategy != "" {
		conds = append(conds, "strategy = ?")
		args = append(args, f.Strategy)
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(f.Status))
	}
	if !f.From.IsZero() {
		conds = append(conds, "timestamp >= ?")
		args = append(args, f.From.UnixNano())
	}
	if !f.To.IsZero() {
		conds = append(conds, "timestamp <= ?")
		args = append(args, f.To.UnixNano())
	}

	query := selectColumns + " FROM signals"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY timestamp DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, err)
	}
	defer rows.Close()

	var out []core.ValidatedSignal
	for rows.Next() {
		sig, err := scanSignal(rows)
		if err != nil {
			return nil, core.WrapError(core.ErrStoreFailed, err)
		}
		out = append(out, sig)
	}
	if err := rows.Err(); err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, err)
	}
	return out, nil
}

func (s *SQLiteStore) UpdateStatus(ctx context.Context, id string, status core.SignalStatus) error {
	res, err := s.db.ExecContext(ctx, "UPDATE signals SET status = ? WHERE id = ?", string(status), id)
	if err != nil {
		return core.WrapError(core.ErrStoreFailed, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrSignalNotFound
	}
	return nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM signals").Scan(&n); err != nil {
		return 0, core.WrapError(core.ErrStoreFailed, err)
	}
	return n, nil
}

func (s *SQLiteStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM signals WHERE timestamp < ?", cutoff.UnixNano())
	if err != nil {
		return 0, core.WrapError(core.ErrStoreFailed, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, core.WrapError(core.ErrStoreFailed, err)
	}
	return int(n), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const selectColumns = `SELECT
	id, timestamp, symbol, timeframe, strategy, direction,
	entry_price, stop_loss, take_profit, confidence,
	risk, reward, risk_reward, status, notes`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSignal(row rowScanner) (core.ValidatedSignal, error) {
	var sig core.ValidatedSignal
	var ts int64
	var tf, dir, status string
	err := row.Scan(
		&sig.ID, &ts, &sig.Symbol, &tf, &sig.Strategy, &dir,
		&sig.Entry, &sig.Stop, &sig.Target, &sig.Confidence,
		&sig.Risk, &sig.Reward, &sig.RiskReward, &status, &sig.Notes,
	)
	if err != nil {
		return core.ValidatedSignal{}, err
	}
	sig.Timestamp = time.Unix(0, ts).UTC()
	sig.Timeframe = core.Timeframe(tf)
	sig.Direction = core.Direction(dir)
	sig.Status = core.SignalStatus(status)
	return sig, nil
}
