package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists accepted listings to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so ad-hoc queries can read while a run is writing.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS listings (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     TEXT NOT NULL,
			product    TEXT NOT NULL,
			title      TEXT,
			price      REAL,
			sold_date  TEXT,
			link       TEXT,
			condition  TEXT,
			scraped_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_listings_run ON listings(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_listings_product ON listings(product, sold_date)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordListing inserts one accepted listing row.
func (r *SQLiteRecorder) RecordListing(l *Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO listings
		(run_id, product, title, price, sold_date, link, condition, scraped_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		l.RunID, l.Product, l.Title, l.Price,
		l.SoldDate.Format("2006-01-02"), l.Link, l.Condition,
		time.Now().Unix(),
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
