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

package thermo_model

import (
	"fmt"
	"strconv"
)

// Label identifies a state point of the combined cycle.
//
//	1 pump inlet / condenser outlet      5 compressor inlet
//	2 pump outlet / HRSG steam inlet     6 compressor outlet / combustor inlet
//	3 HRSG steam outlet / turbine inlet  7 combustor outlet / turbine inlet
//	4 turbine outlet / condenser inlet   8 turbine outlet / HRSG gas inlet
//	                                     9 HRSG gas outlet
//
// P2s, P4s, P6s and P8s are the isentropic end states of the pump, steam
// turbine, compressor and gas turbine.
type Label int

const (
	P1 Label = iota + 1
	P2
	P3
	P4
	P5
	P6
	P7
	P8
	P9
	P2s
	P4s
	P6s
	P8s

	numLabels = int(P8s) + 1
)

// Order is the presentation order of all points.
var Order = [...]Label{P1, P2, P2s, P3, P4, P4s, P5, P6, P6s, P7, P8, P8s, P9}

func (l Label) Valid() bool {
	return l >= P1 && l <= P8s
}

func (l Label) Ideal() bool {
	return l >= P2s && l <= P8s
}

// Real returns the actual point an ideal point stands in for, e.g. 6 for 6s.
func (l Label) Real() Label {
	switch l {
	case P2s:
		return P2
	case P4s:
		return P4
	case P6s:
		return P6
	case P8s:
		return P8
	}
	return l
}

func (l Label) Role() Role {
	if r := l.Real(); r >= P5 && r <= P9 {
		return RoleGas
	}
	return RoleSteam
}

func (l Label) String() string {
	if l.Ideal() {
		return strconv.Itoa(int(l.Real())) + "s"
	}
	return strconv.Itoa(int(l))
}

func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Label) UnmarshalText(b []byte) error {
	v, ok := ParseLabel(string(b))
	if !ok {
		return fmt.Errorf("unknown state point `%s`", b)
	}
	*l = v
	return nil
}

// ParseLabel is the inverse of Label.String.
func ParseLabel(s string) (Label, bool) {
	for _, l := range Order {
		if l.String() == s {
			return l, true
		}
	}
	return 0, false
}

// Role tags which working fluid a point belongs to.
type Role int

const (
	RoleSteam Role = iota
	RoleGas
)

func (r Role) String() string {
	if r == RoleGas {
		return "gas"
	}
	return "steam"
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Point is the thermodynamic state at one label. X is nil outside the
// two-phase region.
type Point struct {
	Label Label    `json:"label" yaml:"label"`
	Role  Role     `json:"role" yaml:"role"`
	P     float64  `json:"p" yaml:"p"`   // Pa
	T     float64  `json:"T" yaml:"T"`   // K
	H     float64  `json:"h" yaml:"h"`   // J/kg
	S     float64  `json:"s" yaml:"s"`   // J/(K kg)
	X     *float64 `json:"x" yaml:"x"`   // -
	Ex    float64  `json:"ex" yaml:"ex"` // J/kg
}

func (p *Point) Quality() (float64, bool) {
	if p.X == nil {
		return 0, false
	}
	return *p.X, true
}

// Set holds every point of one solve, indexed by label.
type Set struct {
	points [numLabels]Point
	filled [numLabels]bool
}

// Put stores p under its own label; the role is derived from the label.
func (s *Set) Put(p Point) {
	p.Role = p.Label.Role()
	s.points[p.Label] = p
	s.filled[p.Label] = true
}

func (s *Set) Has(l Label) bool {
	return l.Valid() && s.filled[l]
}

// At returns the point for l, or nil if it has not been computed.
func (s *Set) At(l Label) *Point {
	if !s.Has(l) {
		return nil
	}
	return &s.points[l]
}

// Points returns the computed points in presentation order.
func (s *Set) Points() []Point {
	out := make([]Point, 0, len(Order))
	for _, l := range Order {
		if s.filled[l] {
			out = append(out, s.points[l])
		}
	}
	return out
}

// Complete reports whether every label has been computed.
func (s *Set) Complete() bool {
	for _, l := range Order {
		if !s.filled[l] {
			return false
		}
	}
	return true
}
