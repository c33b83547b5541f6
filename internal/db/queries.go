/*
 * Copyright (c) 2023. Anton Starikov -- All Rights Reserved
 *
 * This file is part of CCGTSIM project.
 *
 * CCGTSIM is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as the Free Software Foundation,
 * either version 3 of the License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type Queries struct {
	db *sqlx.DB
}

func New(_db *sqlx.DB) *Queries {
	return &Queries{db: _db}
}

func (q *Queries) Close() error {
	return q.db.Close()
}

type Run struct {
	ID            string    `db:"id"`
	CaseName      string    `db:"case_name"`
	CreatedAt     time.Time `db:"created_at"`
	WTotal        float64   `db:"w_total"`
	EtaTh         float64   `db:"eta_th"`
	EtaEx         float64   `db:"eta_ex"`
	QHRSG         float64   `db:"q_hrsg"`
	PinchDT       float64   `db:"pinch_dt"`
	PinchLocation string    `db:"pinch_location"`
	Iterations    int       `db:"iterations"`
	BalanceJSON   string    `db:"balance_json"`
}

type Point struct {
	RunID string          `db:"run_id"`
	Seq   int             `db:"seq"`
	Label string          `db:"label"`
	P     float64         `db:"p"`
	T     float64         `db:"t"`
	H     float64         `db:"h"`
	S     float64         `db:"s"`
	X     sql.NullFloat64 `db:"x"`
	Ex    float64         `db:"ex"`
}

type Violation struct {
	RunID string  `db:"run_id"`
	Seq   int     `db:"seq"`
	Kind  string  `db:"kind"`
	Point string  `db:"point"`
	Value float64 `db:"value"`
	Limit float64 `db:"limit_value"`
}

type InsertRunParams struct {
	Run        Run
	Points     []Point
	Violations []Violation
}

const (
	insertRun = `INSERT INTO runs (id, case_name, created_at, w_total, eta_th, eta_ex, q_hrsg, pinch_dt, pinch_location, iterations, balance_json)
VALUES (:id, :case_name, :created_at, :w_total, :eta_th, :eta_ex, :q_hrsg, :pinch_dt, :pinch_location, :iterations, :balance_json)`
	insertPoint = `INSERT INTO points (run_id, seq, label, p, t, h, s, x, ex)
VALUES (:run_id, :seq, :label, :p, :t, :h, :s, :x, :ex)`
	insertViolation = `INSERT INTO violations (run_id, seq, kind, point, value, limit_value)
VALUES (:run_id, :seq, :kind, :point, :value, :limit_value)`
)

// InsertRun stores a run with its points and violations in one transaction.
// Row run ids and sequence numbers are filled in from the run.
func (q *Queries) InsertRun(ctx context.Context, arg InsertRunParams) error {
	tx, err := q.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, insertRun, arg.Run); err != nil {
		return errors.Wrapf(err, "insert run %s", arg.Run.ID)
	}
	for i, p := range arg.Points {
		p.RunID, p.Seq = arg.Run.ID, i
		if _, err := tx.NamedExecContext(ctx, insertPoint, p); err != nil {
			return errors.Wrapf(err, "insert point %s of run %s", p.Label, arg.Run.ID)
		}
	}
	for i, v := range arg.Violations {
		v.RunID, v.Seq = arg.Run.ID, i
		if _, err := tx.NamedExecContext(ctx, insertViolation, v); err != nil {
			return errors.Wrapf(err, "insert violation %d of run %s", i, arg.Run.ID)
		}
	}
	return errors.Wrap(tx.Commit(), "commit")
}

func (q *Queries) GetRun(ctx context.Context, id string) (Run, error) {
	var r Run
	err := q.db.GetContext(ctx, &r, `SELECT * FROM runs WHERE id = ?`, id)
	return r, err
}

// ListRuns returns the most recent runs first, optionally only of one case.
func (q *Queries) ListRuns(ctx context.Context, caseName string, limit int) ([]Run, error) {
	var runs []Run
	var err error
	if caseName == "" {
		err = q.db.SelectContext(ctx, &runs, `SELECT * FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	} else {
		err = q.db.SelectContext(ctx, &runs,
			`SELECT * FROM runs WHERE case_name = ? ORDER BY created_at DESC, id LIMIT ?`, caseName, limit)
	}
	return runs, err
}

func (q *Queries) GetPoints(ctx context.Context, runID string) ([]Point, error) {
	var points []Point
	err := q.db.SelectContext(ctx, &points, `SELECT * FROM points WHERE run_id = ? ORDER BY seq`, runID)
	return points, err
}

func (q *Queries) GetViolations(ctx context.Context, runID string) ([]Violation, error) {
	var vs []Violation
	err := q.db.SelectContext(ctx, &vs, `SELECT * FROM violations WHERE run_id = ? ORDER BY seq`, runID)
	return vs, err
}
