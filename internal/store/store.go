// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists planned assignments in a SQLite database so plans
// can be queried and displayed after a run.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/syllabus-planner/pkg/types"
)

// Store manages the plan database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and its schema.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS assignments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			project TEXT NOT NULL,
			position INTEGER NOT NULL,
			course TEXT,
			title TEXT NOT NULL,
			due TEXT NOT NULL,
			deliverables TEXT NOT NULL,
			weight TEXT,
			source_doc TEXT,
			evidence_spans TEXT,
			confidence REAL NOT NULL,
			total_hours REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assignments_project ON assignments(project)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			assignment_id INTEGER NOT NULL REFERENCES assignments(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			course TEXT,
			assignment TEXT NOT NULL,
			task TEXT NOT NULL,
			start_iso TEXT,
			due_iso TEXT NOT NULL,
			hours REAL NOT NULL,
			depends_on TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_assignment ON tasks(assignment_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save replaces the project's plans with planned, in one transaction.
func (s *Store) Save(ctx context.Context, project string, planned []types.PlannedAssignment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE project = ?`, project); err != nil {
		return fmt.Errorf("clearing project %s: %w", project, err)
	}

	for i, pa := range planned {
		a := pa.Assignment
		deliverables, _ := json.Marshal(a.Deliverables)
		evidence, _ := json.Marshal(a.EvidenceSpans)

		res, err := tx.ExecContext(ctx,
			`INSERT INTO assignments
				(project, position, course, title, due, deliverables, weight, source_doc, evidence_spans, confidence, total_hours)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			project, i, a.Course, a.Title, formatTime(a.Due), string(deliverables),
			a.Weight, a.SourceDoc, string(evidence), a.Confidence, pa.TotalHours,
		)
		if err != nil {
			return fmt.Errorf("inserting assignment %q: %w", a.Title, err)
		}
		assignmentID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading assignment id: %w", err)
		}

		for j, t := range pa.Tasks {
			var start sql.NullString
			if t.Scheduled() {
				start = sql.NullString{String: formatTime(t.EarliestStart), Valid: true}
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO tasks
					(assignment_id, position, course, assignment, task, start_iso, due_iso, hours, depends_on)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				assignmentID, j, a.Course, a.Title, t.Title, start, formatTime(t.Due),
				t.HoursEstimate, strings.Join(t.DependsOn, ";"),
			); err != nil {
				return fmt.Errorf("inserting task %q: %w", t.Title, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// Load returns the project's plans in saved order.
func (s *Store) Load(ctx context.Context, project string) ([]types.PlannedAssignment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, course, title, due, deliverables, weight, source_doc, evidence_spans, confidence, total_hours
		FROM assignments WHERE project = ? ORDER BY position`, project)
	if err != nil {
		return nil, fmt.Errorf("querying assignments: %w", err)
	}

	var (
		planned []types.PlannedAssignment
		ids     []int64
	)
	for rows.Next() {
		var (
			id                     int64
			course, weight, source sql.NullString
			due, deliverables      string
			evidence               sql.NullString
			pa                     types.PlannedAssignment
		)
		if err := rows.Scan(&id, &course, &pa.Assignment.Title, &due, &deliverables, &weight,
			&source, &evidence, &pa.Assignment.Confidence, &pa.TotalHours); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning assignment: %w", err)
		}
		if pa.Assignment.Due, err = parseTime(due); err != nil {
			rows.Close()
			return nil, err
		}
		pa.Assignment.Course = course.String
		pa.Assignment.Weight = weight.String
		pa.Assignment.SourceDoc = source.String
		json.Unmarshal([]byte(deliverables), &pa.Assignment.Deliverables)
		if evidence.Valid {
			json.Unmarshal([]byte(evidence.String), &pa.Assignment.EvidenceSpans)
		}
		planned = append(planned, pa)
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, id := range ids {
		tasks, err := s.tasks(ctx, id)
		if err != nil {
			return nil, err
		}
		planned[i].Tasks = tasks
	}
	return planned, nil
}

func (s *Store) tasks(ctx context.Context, assignmentID int64) ([]types.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT task, start_iso, due_iso, hours, depends_on
		FROM tasks WHERE assignment_id = ? ORDER BY position`, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []types.Task
	for rows.Next() {
		var (
			t              types.Task
			start, depends sql.NullString
			due            string
		)
		if err := rows.Scan(&t.Title, &start, &due, &t.HoursEstimate, &depends); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		if t.Due, err = parseTime(due); err != nil {
			return nil, err
		}
		if start.Valid {
			if t.EarliestStart, err = parseTime(start.String); err != nil {
				return nil, err
			}
		}
		t.DependsOn = []string{}
		if depends.String != "" {
			t.DependsOn = strings.Split(depends.String, ";")
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// TaskRow is one task joined with its assignment, as displayed by show.
type TaskRow struct {
	Course     string
	Assignment string
	Task       string
	Start      time.Time
	Due        time.Time
	Hours      float64
}

// TaskRows lists every task of the project ordered by assignment and task
// position. A non-empty course restricts the rows to that course.
func (s *Store) TaskRows(ctx context.Context, project, course string) ([]TaskRow, error) {
	query := `SELECT t.course, t.assignment, t.task, t.start_iso, t.due_iso, t.hours
		FROM tasks t JOIN assignments a ON a.id = t.assignment_id
		WHERE a.project = ?`
	args := []any{project}
	if course != "" {
		query += ` AND a.course = ?`
		args = append(args, course)
	}
	query += ` ORDER BY a.position, t.position`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var out []TaskRow
	for rows.Next() {
		var (
			r          TaskRow
			courseName sql.NullString
			start      sql.NullString
			due        string
		)
		if err := rows.Scan(&courseName, &r.Assignment, &r.Task, &start, &due, &r.Hours); err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		r.Course = courseName.String
		if r.Due, err = parseTime(due); err != nil {
			return nil, err
		}
		if start.Valid {
			if r.Start, err = parseTime(start.String); err != nil {
				return nil, err
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored time %q: %w", s, err)
	}
	return t, nil
}
