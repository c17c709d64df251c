// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mdhender/visrpt/model"
)

// InsertRun records a completed run with its ranking and defects in one
// transaction.
func (s *Store) InsertRun(ctx context.Context, run *model.Run, defects []model.Defect) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	const insertRun = `
		INSERT INTO runs (id, generated_at, members_path, visits_path,
		                  total_valid_visits, total_walk_ins, group_count, defect_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, insertRun,
		run.ID,
		run.GeneratedAt.UTC().Format(time.RFC3339),
		run.MembersPath,
		run.VisitsPath,
		run.TotalValidVisits,
		run.TotalWalkIns,
		run.GroupCount,
		run.DefectCount,
		run.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	const insertTop = `
		INSERT INTO run_top_members (run_id, rank, member_id, visit_count)
		VALUES (?, ?, ?, ?)
	`
	for i, tm := range run.TopMembers {
		if _, err := tx.ExecContext(ctx, insertTop, run.ID, i+1, tm.MemberID, tm.VisitCount); err != nil {
			return fmt.Errorf("insert top member: %w", err)
		}
	}

	const insertDefect = `
		INSERT INTO run_defects (run_id, source, line, reason, detail)
		VALUES (?, ?, ?, ?, ?)
	`
	for _, d := range defects {
		if _, err := tx.ExecContext(ctx, insertDefect, run.ID, d.Source, d.Line, d.Reason, nullString(d.Detail)); err != nil {
			return fmt.Errorf("insert defect: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LastRun returns the most recently recorded run, or nil if the store is
// empty.
func (s *Store) LastRun(ctx context.Context) (*model.Run, error) {
	const query = `
		SELECT id, generated_at, members_path, visits_path,
		       total_valid_visits, total_walk_ins, group_count, defect_count, created_at
		FROM runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`
	run, err := s.scanRun(s.db.QueryRowContext(ctx, query))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("last run: %w", err)
	}
	if err := s.loadTopMembers(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// GetRun returns one run by id, or nil if it does not exist.
func (s *Store) GetRun(ctx context.Context, id string) (*model.Run, error) {
	const query = `
		SELECT id, generated_at, members_path, visits_path,
		       total_valid_visits, total_walk_ins, group_count, defect_count, created_at
		FROM runs
		WHERE id = ?
	`
	run, err := s.scanRun(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	if err := s.loadTopMembers(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// Runs returns the most recent runs, newest first, without their rankings.
func (s *Store) Runs(ctx context.Context, limit int) ([]*model.Run, error) {
	const query = `
		SELECT id, generated_at, members_path, visits_path,
		       total_valid_visits, total_walk_ins, group_count, defect_count, created_at
		FROM runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*model.Run
	for rows.Next() {
		run, err := s.scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// RunCount returns the number of recorded runs.
func (s *Store) RunCount(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return count, nil
}

// DefectsByRun returns the defects recorded for a run, in rejection order.
func (s *Store) DefectsByRun(ctx context.Context, runID string) ([]model.Defect, error) {
	const query = `
		SELECT source, line, reason, detail
		FROM run_defects
		WHERE run_id = ?
		ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list defects: %w", err)
	}
	defer rows.Close()

	var defects []model.Defect
	for rows.Next() {
		var d model.Defect
		var detail sql.NullString
		if err := rows.Scan(&d.Source, &d.Line, &d.Reason, &detail); err != nil {
			return nil, fmt.Errorf("scan defect: %w", err)
		}
		if detail.Valid {
			d.Detail = detail.String
		}
		defects = append(defects, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list defects: %w", err)
	}
	return defects, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanRun(row scanner) (*model.Run, error) {
	var run model.Run
	var generatedAt, createdAt string
	if err := row.Scan(
		&run.ID,
		&generatedAt,
		&run.MembersPath,
		&run.VisitsPath,
		&run.TotalValidVisits,
		&run.TotalWalkIns,
		&run.GroupCount,
		&run.DefectCount,
		&createdAt,
	); err != nil {
		return nil, err
	}
	if t, err := time.Parse(time.RFC3339, generatedAt); err == nil {
		run.GeneratedAt = t
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		run.CreatedAt = t
	}
	return &run, nil
}

func (s *Store) loadTopMembers(ctx context.Context, run *model.Run) error {
	const query = `
		SELECT member_id, visit_count
		FROM run_top_members
		WHERE run_id = ?
		ORDER BY rank
	`
	rows, err := s.db.QueryContext(ctx, query, run.ID)
	if err != nil {
		return fmt.Errorf("load top members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tm model.TopMember
		if err := rows.Scan(&tm.MemberID, &tm.VisitCount); err != nil {
			return fmt.Errorf("scan top member: %w", err)
		}
		run.TopMembers = append(run.TopMembers, tm)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load top members: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
