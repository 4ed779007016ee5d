// Package storage handles the database connection, schema migrations, and the
// lookup audit log using SQLite.
package storage

import (
	"database/sql"
	"time"

	"github.com/minefind/minefind/internal/models"
	_ "modernc.org/sqlite" // Driver sqlite
)

// Repository manages the SQLite database connection.
type Repository struct {
	db *sql.DB
}

// New initializes a new SQLite connection, sets connection pool parameters, and runs migrations.
func New(dbPath string) (*Repository, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(1 * time.Hour)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// RecordLookup appends one /find invocation to the audit log.
// The log is write-only on the lookup path; lookups are never answered from it.
func (r *Repository) RecordLookup(rec models.LookupRecord) error {
	_, err := r.db.Exec(`
		INSERT INTO lookups (created_at, requester, guild_id, query, outcome, matches, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.CreatedAt, rec.Requester, rec.GuildID, rec.Query, rec.Outcome, rec.Matches, rec.Duration,
	)

	return err
}

// RecentLookups returns up to limit audit records, newest first.
func (r *Repository) RecentLookups(limit int) ([]models.LookupRecord, error) {
	rows, err := r.db.Query(`
		SELECT created_at, requester, guild_id, query, outcome, matches, duration_ms
		FROM lookups
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []models.LookupRecord
	for rows.Next() {
		var rec models.LookupRecord
		if err := rows.Scan(
			&rec.CreatedAt, &rec.Requester, &rec.GuildID, &rec.Query,
			&rec.Outcome, &rec.Matches, &rec.Duration,
		); err != nil {
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// PruneOlderThan removes audit records created before now minus age.
func (r *Repository) PruneOlderThan(age time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-age)

	res, err := r.db.Exec(`DELETE FROM lookups WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// Stats returns the total number of audited lookups and how many of them matched.
func (r *Repository) Stats() (total, matched int64, err error) {
	row := r.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN outcome = ? THEN 1 ELSE 0 END), 0)
		FROM lookups`, models.OutcomeMatched)

	if err := row.Scan(&total, &matched); err != nil {
		return 0, 0, err
	}

	return total, matched, nil
}
