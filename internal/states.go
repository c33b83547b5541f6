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
	"github.com/pkg/errors"

	"github.com/antst/ccgtsim/internal/config"
	"github.com/antst/ccgtsim/internal/fluid"
	mdl "github.com/antst/ccgtsim/internal/thermo_model"
)

// stateEvaluator turns two known properties of a labelled point into a full
// state point, with exergy against the dead state of the point's fluid.
type stateEvaluator struct {
	props  fluid.Provider
	fluids [2]string
	dead   [2]mdl.DeadState
}

func newStateEvaluator(_props fluid.Provider, _cycle *config.CycleConfig, _dead *config.DeadStateConfig) (*stateEvaluator, error) {
	e := &stateEvaluator{props: _props}
	e.fluids[mdl.RoleSteam] = _cycle.SteamFluid
	e.fluids[mdl.RoleGas] = _cycle.GasFluid

	for _, role := range []mdl.Role{mdl.RoleSteam, mdl.RoleGas} {
		d, err := deadStateOf(_props, e.fluids[role], _dead)
		if err != nil {
			return nil, invalidInput("dead state", "", err, "%s fluid %s", role, e.fluids[role])
		}
		e.dead[role] = d
	}
	return e, nil
}

func deadStateOf(props fluid.Provider, name string, _dead *config.DeadStateConfig) (mdl.DeadState, error) {
	h0, err := props.Property(fluid.H, fluid.P, _dead.P0, fluid.T, _dead.T0, name)
	if err != nil {
		return mdl.DeadState{}, err
	}
	s0, err := props.Property(fluid.S, fluid.P, _dead.P0, fluid.T, _dead.T0, name)
	if err != nil {
		return mdl.DeadState{}, err
	}
	return mdl.DeadState{T0: _dead.T0, H0: h0, S0: s0}, nil
}

func (e *stateEvaluator) fluidOf(l mdl.Label) string {
	return e.fluids[l.Role()]
}

func (e *stateEvaluator) deadOf(l mdl.Label) mdl.DeadState {
	return e.dead[l.Role()]
}

func (e *stateEvaluator) fromPT(component string, l mdl.Label, p, t float64) (mdl.Point, error) {
	name := e.fluidOf(l)
	pt := mdl.Point{Label: l, P: p, T: t}
	var err error
	if pt.H, err = e.props.Property(fluid.H, fluid.P, p, fluid.T, t, name); err != nil {
		return pt, invalidInput(component, l.String(), err, "%s h(P=%g, T=%g)", name, p, t)
	}
	if pt.S, err = e.props.Property(fluid.S, fluid.P, p, fluid.T, t, name); err != nil {
		return pt, invalidInput(component, l.String(), err, "%s s(P=%g, T=%g)", name, p, t)
	}
	return e.finish(component, pt, fluid.T, t)
}

func (e *stateEvaluator) fromPH(component string, l mdl.Label, p, h float64) (mdl.Point, error) {
	name := e.fluidOf(l)
	pt := mdl.Point{Label: l, P: p, H: h}
	var err error
	if pt.T, err = e.props.Property(fluid.T, fluid.P, p, fluid.H, h, name); err != nil {
		return pt, invalidInput(component, l.String(), err, "%s T(P=%g, H=%g)", name, p, h)
	}
	if pt.S, err = e.props.Property(fluid.S, fluid.P, p, fluid.H, h, name); err != nil {
		return pt, invalidInput(component, l.String(), err, "%s s(P=%g, H=%g)", name, p, h)
	}
	return e.finish(component, pt, fluid.H, h)
}

// fromPS is used for the ideal end states; the entropy is the upstream one.
func (e *stateEvaluator) fromPS(component string, l mdl.Label, p, s float64) (mdl.Point, error) {
	name := e.fluidOf(l)
	pt := mdl.Point{Label: l, P: p, S: s}
	var err error
	if pt.T, err = e.props.Property(fluid.T, fluid.P, p, fluid.S, s, name); err != nil {
		return pt, invalidInput(component, l.String(), err, "%s T(P=%g, S=%g)", name, p, s)
	}
	if pt.H, err = e.props.Property(fluid.H, fluid.P, p, fluid.S, s, name); err != nil {
		return pt, invalidInput(component, l.String(), err, "%s h(P=%g, S=%g)", name, p, s)
	}
	return e.finish(component, pt, fluid.S, s)
}

// finish adds quality on the steam side and the specific exergy. A quality
// lookup that fails because the state has no two-phase mixture leaves X nil.
func (e *stateEvaluator) finish(component string, pt mdl.Point, in fluid.Symbol, v float64) (mdl.Point, error) {
	if pt.Label.Role() == mdl.RoleSteam {
		name := e.fluidOf(pt.Label)
		x, err := e.props.Property(fluid.Q, fluid.P, pt.P, in, v, name)
		switch {
		case err == nil:
			pt.X = &x
		case errors.Is(err, fluid.ErrSinglePhase), errors.Is(err, fluid.ErrOutOfDomain):
		default:
			return pt, invalidInput(component, pt.Label.String(), err, "%s quality at P=%g, %s=%g", name, pt.P, in, v)
		}
	}
	pt.Ex = mdl.SpecificExergy(pt.H, pt.S, e.deadOf(pt.Label))
	return pt, nil
}
