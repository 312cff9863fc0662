package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/san-kum/critter/internal/gait"
)

// Entry is one journaled phase transition.
type Entry struct {
	ID        int64
	RunID     string
	SeqNo     int64
	Clock     float64
	Index     int
	From      string
	To        string
	Reason    string
	Elapsed   float64
	Direction string
	CreatedAt int64
}

// Journal records every transition of one run. It implements
// gait.Observer; the first write error is kept and reported by Err, later
// transitions are dropped.
type Journal struct {
	ctx   context.Context
	db    *sql.DB
	runID string
	seq   int64
	err   error
}

var _ gait.Observer = (*Journal)(nil)

func NewJournal(ctx context.Context, db *sql.DB, runID string) *Journal {
	return &Journal{ctx: ctx, db: db, runID: runID}
}

func (j *Journal) RunID() string { return j.runID }

func (j *Journal) Err() error { return j.err }

func (j *Journal) OnTransition(t gait.Transition) {
	if j.err != nil {
		return
	}
	j.seq++
	if err := j.append(t); err != nil {
		j.err = err
	}
}

func (j *Journal) append(t gait.Transition) error {
	const q = `INSERT INTO phase_transitions
(run_id, seq_no, clock, idx, from_phase, to_phase, reason, elapsed, direction, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := j.db.ExecContext(j.ctx, q,
		j.runID,
		j.seq,
		t.Clock,
		t.Index,
		t.From.String(),
		t.To.String(),
		t.Reason.String(),
		t.Elapsed,
		t.Direction.String(),
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("append transition: %w", err)
	}
	return nil
}

// ListByRun returns a run's transitions in the order they happened.
func ListByRun(ctx context.Context, db *sql.DB, runID string) ([]Entry, error) {
	const q = `SELECT id, run_id, seq_no, clock, idx, from_phase, to_phase, reason, elapsed, direction, created_at
FROM phase_transitions
WHERE run_id = ?
ORDER BY seq_no ASC`

	rows, err := db.QueryContext(ctx, q, runID)
	if err != nil {
		return nil, fmt.Errorf("list transitions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.RunID, &e.SeqNo, &e.Clock, &e.Index, &e.From, &e.To, &e.Reason, &e.Elapsed, &e.Direction, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountByReason tallies a run's transitions by completion reason.
func CountByReason(ctx context.Context, db *sql.DB, runID string) (map[string]int, error) {
	const q = `SELECT reason, COUNT(*) FROM phase_transitions WHERE run_id = ? GROUP BY reason`

	rows, err := db.QueryContext(ctx, q, runID)
	if err != nil {
		return nil, fmt.Errorf("count transitions: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var reason string
		var n int
		if err := rows.Scan(&reason, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out[reason] = n
	}
	return out, rows.Err()
}
