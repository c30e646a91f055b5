// internal/storage/sqlite.go
//
// SQLite backend for the registry snapshot.
// Responsibilities:
//   - Opening SQLite database with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying embedded migrations from sql/*.sql (idempotent, recorded in _migrations).
//   - Replacing the whole snapshot inside one transaction on Save.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

// DefaultSQLitePath is used when no database path is configured.
const DefaultSQLitePath = "data/wordle.db"

//go:embed sql/*.sql
var migrations embed.FS

// SQLiteGateway keeps one row per game in a games table.
type SQLiteGateway struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if missing) the database at path and migrates it.
func OpenSQLite(ctx context.Context, path string) (*SQLiteGateway, error) {
	if path == "" {
		path = DefaultSQLitePath
	}
	db, err := openDB(path)
	if err != nil {
		return nil, persistErr("open sqlite", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, persistErr("migrate sqlite", err)
	}
	return &SQLiteGateway{db: db, now: defaultNow}, nil
}

// openDB ensures the parent directory exists for relative paths
// (e.g. ./data/wordle.db) and opens the file with WAL and a busy timeout.
func openDB(dsn string) (*sql.DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

// migrate applies embedded migrations in lexical order, each in its own
// transaction, skipping files already recorded in _migrations.
func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	var files []string
	if err := fs.WalkDir(migrations, "sql", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("walk sql dir: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("query _migrations: %w", err)
		}

		body, err := migrations.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

// Save replaces every stored game with snap in a single transaction.
func (s *SQLiteGateway) Save(ctx context.Context, snap Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return persistErr("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM games`); err != nil {
		return persistErr("clear games", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO games (id, position, word, guesses, created_at) VALUES (?,?,?,?,?)`)
	if err != nil {
		return persistErr("prepare insert", err)
	}
	defer stmt.Close()

	for i, rec := range toDocument(snap).Games {
		guesses, err := json.Marshal(rec.Guesses)
		if err != nil {
			return persistErr("encode guesses", err)
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, i, rec.Word, string(guesses), rec.Created.Format(time.RFC3339Nano)); err != nil {
			return persistErr("insert game "+rec.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return persistErr("commit", err)
	}
	return nil
}

// Load reads every game in saved order. An empty table is ErrNoState.
func (s *SQLiteGateway) Load(ctx context.Context) (Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, word, guesses, created_at FROM games ORDER BY position ASC`)
	if err != nil {
		return Snapshot{}, persistErr("query games", err)
	}
	defer rows.Close()

	var doc document
	for rows.Next() {
		var (
			rec     record
			guesses string
			created sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Word, &guesses, &created); err != nil {
			return Snapshot{}, persistErr("scan game", err)
		}
		if err := json.Unmarshal([]byte(guesses), &rec.Guesses); err != nil {
			return Snapshot{}, persistErr("decode guesses of "+rec.ID, fmt.Errorf("%w: %w", ErrCorrupt, err))
		}
		if created.Valid && created.String != "" {
			t, err := time.Parse(time.RFC3339Nano, created.String)
			if err != nil {
				return Snapshot{}, persistErr("parse created_at of "+rec.ID, fmt.Errorf("%w: %w", ErrCorrupt, err))
			}
			rec.Created = &t
		}
		doc.Games = append(doc.Games, rec)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, persistErr("iterate games", err)
	}
	if len(doc.Games) == 0 {
		return Snapshot{}, ErrNoState
	}
	return toSnapshot(doc, s.now()), nil
}

// Close closes the database handle.
func (s *SQLiteGateway) Close() error { return s.db.Close() }
