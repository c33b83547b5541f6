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

package internal

import (
	"fmt"
	"strings"
)

// SummaryLine is one row of the human readable summary.
type SummaryLine struct {
	Section string
	Name    string
	Value   string
}

func mw(w float64) string      { return fmt.Sprintf("%.2f MW", w/1e6) }
func percent(v float64) string { return fmt.Sprintf("%.2f%%", v*100) }

// SummaryLines lists the component powers, the duties, the efficiencies,
// the pinch and the violations of a solved case.
func (r *Result) SummaryLines() []SummaryLine {
	b := r.Balance
	lines := []SummaryLine{
		{"Gas turbine", "Compressor power input", mw(b.W56)},
		{"Gas turbine", "Combustion heat input", mw(b.Q67)},
		{"Gas turbine", "Turbine power output", mw(b.W78)},
		{"Steam turbine", "Pump power input", mw(b.W12)},
		{"Steam turbine", "HRSG heat transfer", mw(b.Q23)},
		{"Steam turbine", "Turbine power output", mw(b.W34)},
		{"Steam turbine", "Condenser heat rejection", mw(b.Q14)},
		{"Efficiencies", "Gas turbine thermal efficiency", percent(b.EtaGasTh)},
		{"Efficiencies", "Steam turbine thermal efficiency", percent(b.EtaSteamTh)},
		{"Efficiencies", "Overall thermal efficiency", percent(b.EtaTh)},
		{"Efficiencies", "Maximum possible thermal efficiency", percent(b.EtaThMax)},
		{"Efficiencies", "Overall exergy efficiency", percent(b.EtaEx)},
		{"Plant", "Net power", mw(b.WTotal)},
	}

	if r.Pinch != nil {
		lines = append(lines, SummaryLine{"HRSG", "Pinch", fmt.Sprintf("%.2f K at %s", r.Pinch.DT, r.Pinch.Location)})
	}
	for _, v := range r.Violations {
		lines = append(lines, SummaryLine{"Violations", string(v.Kind), fmt.Sprintf("%.4g (limit %.4g) at point %s", v.Value, v.Limit, v.Point)})
	}
	return lines
}

// Summary renders SummaryLines grouped by section.
func (r *Result) Summary() string {
	var sb strings.Builder
	section := ""
	for _, l := range r.SummaryLines() {
		if l.Section != section {
			section = l.Section
			fmt.Fprintf(&sb, "%s: \n", section)
		}
		fmt.Fprintf(&sb, "\t%s: %s\n", l.Name, l.Value)
	}
	return sb.String()
}
