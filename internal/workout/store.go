package workout

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Schema creates the workouts table.
const Schema = `
CREATE TABLE IF NOT EXISTS workouts (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user       TEXT    NOT NULL,
	type       TEXT    NOT NULL,
	reps       INTEGER NOT NULL,
	sets       INTEGER NOT NULL,
	weight     INTEGER NOT NULL DEFAULT 0,
	created_at TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_workouts_user_created ON workouts(user, created_at DESC);
`

// timeLayout is fixed width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000Z"

// Record is a persisted workout.
type Record struct {
	ID        int64
	User      string
	Type      string
	Reps      int
	Sets      int
	Weight    int
	CreatedAt time.Time
}

// Store persists workouts in SQLite.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Insert appends rec and returns it with the assigned ID.
func (s *Store) Insert(ctx context.Context, rec Record) (Record, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO workouts (user, type, reps, sets, weight, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.User, rec.Type, rec.Reps, rec.Sets, rec.Weight, rec.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert workout: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Record{}, fmt.Errorf("workout id: %w", err)
	}
	rec.ID = id
	return rec, nil
}

// Recent returns up to limit workouts for user, newest first.
func (s *Store) Recent(ctx context.Context, user string, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user, type, reps, sets, weight, created_at FROM workouts
		 WHERE user = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		user, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query workouts: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec     Record
			created string
		)
		if err := rows.Scan(&rec.ID, &rec.User, &rec.Type, &rec.Reps, &rec.Sets, &rec.Weight, &created); err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", created, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workouts: %w", err)
	}
	return out, nil
}
