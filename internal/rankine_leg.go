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

const rankineComponent = "rankine leg"

// RankineLeg propagates the steam side: pump 1-2 before the HRSG, turbine
// 3-4 after it. The condenser 4-1 closes the loop.
type RankineLeg struct {
	cfg   *config.CycleConfig
	state *stateEvaluator
}

func newRankineLeg(_cfg *config.CycleConfig, _state *stateEvaluator) *RankineLeg {
	return &RankineLeg{cfg: _cfg, state: _state}
}

// SolvePump fills 1, 2 and 2s.
func (r *RankineLeg) SolvePump(set *mdl.Set) error {
	c := r.cfg

	pt1, err := r.state.fromPT(rankineComponent, mdl.P1, c.P1, c.T1)
	if err != nil {
		return err
	}
	set.Put(pt1)

	p2 := pt1.P * c.RPPump
	pt2s, err := r.state.fromPS(rankineComponent, mdl.P2s, p2, pt1.S)
	if err != nil {
		return err
	}
	set.Put(pt2s)
	pt2, err := r.state.fromPH(rankineComponent, mdl.P2, p2, pt1.H+(pt2s.H-pt1.H)/c.NCSteam)
	if err != nil {
		return err
	}
	set.Put(pt2)

	return nil
}

// SolveTurbine fills 3, 4 and 4s from the steam enthalpy leaving the HRSG.
func (r *RankineLeg) SolveTurbine(set *mdl.Set, h3 float64) error {
	c := r.cfg

	pt3, err := r.state.fromPH(rankineComponent, mdl.P3, set.At(mdl.P2).P, h3)
	if err != nil {
		return err
	}
	set.Put(pt3)

	p4 := set.At(mdl.P1).P
	pt4s, err := r.state.fromPS(rankineComponent, mdl.P4s, p4, pt3.S)
	if err != nil {
		return err
	}
	set.Put(pt4s)
	pt4, err := r.state.fromPH(rankineComponent, mdl.P4, p4, pt3.H-(pt3.H-pt4s.H)*c.NTSteam)
	if err != nil {
		return err
	}
	set.Put(pt4)

	return nil
}

// CondenserDuty is the heat rejected between 4 and 1, in W.
func (r *RankineLeg) CondenserDuty(set *mdl.Set) float64 {
	return r.cfg.MDotSteam * (set.At(mdl.P4).H - set.At(mdl.P1).H)
}
