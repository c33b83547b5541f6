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
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/antst/ccgtsim/internal"
)

const (
	SheetStates     = "States"
	SheetBalance    = "Balance"
	SheetPinch      = "Pinch"
	SheetViolations = "Violations"
)

type sheetWriter struct {
	f    *excelize.File
	name string
	row  int
	err  error
}

func (s *sheetWriter) add(values ...interface{}) {
	if s.err != nil {
		return
	}
	s.row++
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetSheetRow(s.name, cell, &values)
}

// WriteXLSX writes one workbook with a sheet per table; every row starts
// with the case name so several cases share the sheets.
func WriteXLSX(w io.Writer, results []*internal.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetStates); err != nil {
		return errors.Wrap(err, "xlsx")
	}
	for _, name := range []string{SheetBalance, SheetPinch, SheetViolations} {
		if _, err := f.NewSheet(name); err != nil {
			return errors.Wrapf(err, "xlsx: sheet %s", name)
		}
	}

	states := &sheetWriter{f: f, name: SheetStates}
	balance := &sheetWriter{f: f, name: SheetBalance}
	pinch := &sheetWriter{f: f, name: SheetPinch}
	violations := &sheetWriter{f: f, name: SheetViolations}

	states.add("case", "point", "fluid", "p [Pa]", "T [K]", "h [J/kg]", "s [J/(kg K)]", "x [-]", "ex [J/kg]")
	balance.add("case", "quantity", "value", "fraction")
	pinch.add("case", "X", "T_gas [K]", "T_steam [K]")
	violations.add("case", "kind", "point", "value", "limit")

	for _, res := range results {
		for _, p := range res.States {
			var x interface{} = ""
			if q, ok := p.Quality(); ok {
				x = q
			}
			states.add(res.Case, p.Label.String(), p.Role.String(), p.P, p.T, p.H, p.S, x, p.Ex)
		}

		for _, l := range balanceRows(res) {
			balance.add(res.Case, l.name, l.value, "")
		}
		for _, s := range res.Balance.EnergyShares() {
			balance.add(res.Case, "energy: "+s.Name, s.Value, s.Fraction)
		}
		for _, s := range res.Balance.ExergyShares() {
			balance.add(res.Case, "exergy: "+s.Name, s.Value, s.Fraction)
		}

		for _, s := range res.Pinch.Profile {
			pinch.add(res.Case, s.X, s.TGas, s.TSteam)
		}

		for _, v := range res.Violations {
			violations.add(res.Case, string(v.Kind), v.Point.String(), v.Value, v.Limit)
		}
	}

	for _, s := range []*sheetWriter{states, balance, pinch, violations} {
		if s.err != nil {
			return errors.Wrapf(s.err, "xlsx: sheet %s", s.name)
		}
	}
	return errors.Wrap(f.Write(w), "xlsx: write")
}

type namedValue struct {
	name  string
	value float64
}

func balanceRows(res *internal.Result) []namedValue {
	b, h, pi := res.Balance, res.HRSG, res.Pinch
	return []namedValue{
		{"W_56 [W]", b.W56},
		{"W_78 [W]", b.W78},
		{"W_12 [W]", b.W12},
		{"W_34 [W]", b.W34},
		{"W_gas [W]", b.WGas},
		{"W_steam [W]", b.WSteam},
		{"W_total [W]", b.WTotal},
		{"Q_67 [W]", b.Q67},
		{"Q_23 [W]", b.Q23},
		{"Q_14 [W]", b.Q14},
		{"Ex_67 [W]", b.Ex67},
		{"Ex_23 [W]", b.Ex23},
		{"Ex_14 [W]", b.Ex14},
		{"eta_gas_th", b.EtaGasTh},
		{"eta_steam_th", b.EtaSteamTh},
		{"eta_th", b.EtaTh},
		{"eta_th_max", b.EtaThMax},
		{"eta_ex", b.EtaEx},
		{"hrsg dT_hot [K]", h.DTHot},
		{"hrsg dT_cold [K]", h.DTCold},
		{"hrsg LMTD [K]", h.LMTD},
		{"hrsg iterations", float64(h.Iterations)},
		{"pinch dT [K]", pi.DT},
	}
}
