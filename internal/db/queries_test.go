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
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Queries {
	t.Helper()
	q, err := OpenDatabase(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })
	return q
}

func sampleRun(name string, at time.Time) InsertRunParams {
	return InsertRunParams{
		Run: Run{
			ID:            uuid.New().String(),
			CaseName:      name,
			CreatedAt:     at,
			WTotal:        540e6,
			EtaTh:         0.52,
			EtaEx:         0.7,
			QHRSG:         523e6,
			PinchDT:       52.1,
			PinchLocation: "boiling onset",
			Iterations:    7,
			BalanceJSON:   `{"W_total":540e6}`,
		},
		Points: []Point{
			{Label: "1", P: 4053, T: 297.9, H: 103e3, S: 361, Ex: 0.5},
			{Label: "4", P: 4053, T: 302.1, H: 2.46e6, S: 8.1e3, X: sql.NullFloat64{Float64: 0.96, Valid: true}, Ex: 1.2e5},
		},
		Violations: []Violation{
			{Kind: "erosion risk", Point: "4", Value: 0.96, Limit: 0.99},
		},
	}
}

func TestRunRoundTrip(t *testing.T) {
	q := openTemp(t)
	ctx := context.Background()

	at := time.Now().UTC().Truncate(time.Second)
	in := sampleRun("default", at)
	require.NoError(t, q.InsertRun(ctx, in))

	r, err := q.GetRun(ctx, in.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, in.Run.CaseName, r.CaseName)
	assert.True(t, at.Equal(r.CreatedAt), "created_at %v != %v", r.CreatedAt, at)
	assert.Equal(t, in.Run.WTotal, r.WTotal)
	assert.Equal(t, in.Run.PinchLocation, r.PinchLocation)
	assert.Equal(t, 7, r.Iterations)

	points, err := q.GetPoints(ctx, in.Run.ID)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "1", points[0].Label)
	assert.False(t, points[0].X.Valid)
	assert.Equal(t, 0.96, points[1].X.Float64)
	assert.Equal(t, in.Run.ID, points[1].RunID)

	vs, err := q.GetViolations(ctx, in.Run.ID)
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, "erosion risk", vs[0].Kind)
	assert.Equal(t, 0.99, vs[0].Limit)

	_, err = q.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestInsertRunIsAtomic(t *testing.T) {
	q := openTemp(t)
	ctx := context.Background()

	in := sampleRun("default", time.Now())
	in.Points = append(in.Points, in.Points[0]) // duplicate label
	require.Error(t, q.InsertRun(ctx, in))

	_, err := q.GetRun(ctx, in.Run.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListRuns(t *testing.T) {
	q := openTemp(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i, name := range []string{"a", "b", "a"} {
		require.NoError(t, q.InsertRun(ctx, sampleRun(name, base.Add(time.Duration(i)*time.Minute))))
	}

	all, err := q.ListRuns(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt))

	onlyA, err := q.ListRuns(ctx, "a", 10)
	require.NoError(t, err)
	assert.Len(t, onlyA, 2)

	one, err := q.ListRuns(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}
