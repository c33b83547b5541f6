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
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"
	"github.com/pkg/errors"

	"github.com/antst/ccgtsim/internal"
)

// WritePDF writes one page per case: the summary followed by the state table.
func WritePDF(w io.Writer, results []*internal.Result) error {
	pdf := gofpdf.New("P", "mm", "A4", "")

	for _, res := range results {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 16)
		pdf.Cell(0, 10, fmt.Sprintf("Combined cycle: %s", res.Case))
		pdf.Ln(12)

		section := ""
		for _, l := range res.SummaryLines() {
			if l.Section != section {
				section = l.Section
				pdf.SetFont("Helvetica", "B", 11)
				pdf.Cell(0, 7, section)
				pdf.Ln(7)
			}
			pdf.SetFont("Helvetica", "", 10)
			pdf.Cell(90, 5, "    "+l.Name)
			pdf.Cell(0, 5, l.Value)
			pdf.Ln(5)
		}

		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 9)
		widths := []float64{14, 16, 26, 22, 26, 26, 18, 26}
		for i, h := range []string{"point", "fluid", "p [kPa]", "T [K]", "h [kJ/kg]", "s [kJ/kgK]", "x", "ex [kJ/kg]"} {
			pdf.CellFormat(widths[i], 6, h, "B", 0, "R", false, 0, "")
		}
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 9)
		for _, p := range res.States {
			x := "-"
			if q, ok := p.Quality(); ok {
				x = fmt.Sprintf("%.4f", q)
			}
			cells := []string{
				p.Label.String(), p.Role.String(),
				fmt.Sprintf("%.2f", p.P/1e3), fmt.Sprintf("%.2f", p.T),
				fmt.Sprintf("%.2f", p.H/1e3), fmt.Sprintf("%.4f", p.S/1e3),
				x, fmt.Sprintf("%.2f", p.Ex/1e3),
			}
			for i, c := range cells {
				pdf.CellFormat(widths[i], 5, c, "", 0, "R", false, 0, "")
			}
			pdf.Ln(5)
		}
	}

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "pdf")
	}
	return nil
}
