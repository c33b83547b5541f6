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

package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/antst/ccgtsim/internal"
	"github.com/antst/ccgtsim/internal/config"
	"github.com/antst/ccgtsim/internal/fluid"
)

func solved(t *testing.T) []*internal.Result {
	t.Helper()
	c := config.DefaultCase()
	c.Limits.MinCondenserQuality = 0.99
	s, err := internal.NewCycleSolver(&c, fluid.Default())
	require.NoError(t, err)
	res, err := s.Solve()
	require.NoError(t, err)
	return []*internal.Result{res}
}

func TestWriteXLSX(t *testing.T) {
	results := solved(t)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, results))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetStates, SheetBalance, SheetPinch, SheetViolations}, f.GetSheetList())

	rows, err := f.GetRows(SheetStates)
	require.NoError(t, err)
	require.Len(t, rows, 1+len(results[0].States))
	assert.Equal(t, "point", rows[0][1])
	assert.Equal(t, "default", rows[1][0])
	assert.Equal(t, "1", rows[1][1])
	assert.Equal(t, "steam", rows[1][2])

	rows, err = f.GetRows(SheetPinch)
	require.NoError(t, err)
	assert.Len(t, rows, 1+len(results[0].Pinch.Profile))

	rows, err = f.GetRows(SheetViolations)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, string(internal.ErosionRisk), rows[1][1])
	assert.Equal(t, "4", rows[1][2])

	rows, err = f.GetRows(SheetBalance)
	require.NoError(t, err)
	var names []string
	for _, r := range rows[1:] {
		names = append(names, r[1])
	}
	assert.Contains(t, names, "W_total [W]")
	assert.Contains(t, names, "exergy: HRSG loss")
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, solved(t)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, solved(t)))

	var back []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	require.Len(t, back, 1)
	assert.Equal(t, "default", back[0]["case"])

	states := back[0]["states"].([]interface{})
	first := states[0].(map[string]interface{})
	assert.Equal(t, "1", first["label"])
	assert.Equal(t, "steam", first["role"])
	assert.Nil(t, first["x"])
}
