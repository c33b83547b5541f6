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
	"github.com/antst/ccgtsim/internal/config"
	mdl "github.com/antst/ccgtsim/internal/thermo_model"
)

const braytonComponent = "brayton leg"

// BraytonLeg propagates the gas side: compressor 5-6, combustor 6-7 and
// gas turbine 7-8. The HRSG outlet 9 is added once the coupling is solved.
type BraytonLeg struct {
	cfg   *config.CycleConfig
	state *stateEvaluator
}

func newBraytonLeg(_cfg *config.CycleConfig, _state *stateEvaluator) *BraytonLeg {
	return &BraytonLeg{cfg: _cfg, state: _state}
}

// Solve fills 5, 6, 6s, 7, 8 and 8s.
func (b *BraytonLeg) Solve(set *mdl.Set) error {
	c := b.cfg

	p5, err := b.state.fromPT(braytonComponent, mdl.P5, c.P5, c.T5)
	if err != nil {
		return err
	}
	set.Put(p5)

	p6 := p5.P * c.RPComp
	p6s, err := b.state.fromPS(braytonComponent, mdl.P6s, p6, p5.S)
	if err != nil {
		return err
	}
	set.Put(p6s)
	// compression: the ideal rise is divided by the efficiency
	pt6, err := b.state.fromPH(braytonComponent, mdl.P6, p6, p5.H+(p6s.H-p5.H)/c.NCGas)
	if err != nil {
		return err
	}
	set.Put(pt6)

	pt7, err := b.state.fromPH(braytonComponent, mdl.P7, pt6.P, pt6.H+c.Q67/c.MDotGas)
	if err != nil {
		return err
	}
	set.Put(pt7)

	p8 := pt7.P / c.RPTurb
	p8s, err := b.state.fromPS(braytonComponent, mdl.P8s, p8, pt7.S)
	if err != nil {
		return err
	}
	set.Put(p8s)
	// expansion: the ideal drop is multiplied by the efficiency
	pt8, err := b.state.fromPH(braytonComponent, mdl.P8, p8, pt7.H-(pt7.H-p8s.H)*c.NTGas)
	if err != nil {
		return err
	}
	set.Put(pt8)

	return nil
}

// SolveExhaust fills 9 from the gas enthalpy leaving the HRSG.
func (b *BraytonLeg) SolveExhaust(set *mdl.Set, h9 float64) error {
	pt9, err := b.state.fromPH(braytonComponent, mdl.P9, set.At(mdl.P8).P, h9)
	if err != nil {
		return err
	}
	set.Put(pt9)
	return nil
}
