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

// Package fluid evaluates thermodynamic properties of the working fluids.
//
// Every lookup takes two independent state variables and returns a third,
// in SI units: pressure in Pa, temperature in K, specific enthalpy in J/kg,
// specific entropy in J/(K kg) and vapour quality as a mass fraction.
package fluid

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Symbol names a state variable.
type Symbol int

const (
	P Symbol = iota // pressure
	T               // temperature
	H               // specific enthalpy
	S               // specific entropy
	Q               // vapour quality
)

func (s Symbol) String() string {
	switch s {
	case P:
		return "P"
	case T:
		return "T"
	case H:
		return "H"
	case S:
		return "S"
	case Q:
		return "Q"
	}
	return fmt.Sprintf("Symbol(%d)", int(s))
}

var (
	// ErrOutOfDomain is returned when the requested state lies outside
	// the region the fluid model covers.
	ErrOutOfDomain = errors.New("state outside the fluid's valid domain")
	// ErrSinglePhase is returned when quality is requested for a
	// subcritical single-phase state.
	ErrSinglePhase = errors.New("quality undefined for single-phase state")
	// ErrUnknownFluid is returned for fluid ids that are not registered.
	ErrUnknownFluid = errors.New("unknown fluid")
	// ErrUnsupportedInputs is returned for input pairs the model cannot invert.
	ErrUnsupportedInputs = errors.New("unsupported input pair")
)

// Phase of a computed state.
type Phase int

const (
	Gas Phase = iota
	Liquid
	Vapour
	TwoPhase
	Supercritical
)

func (p Phase) String() string {
	switch p {
	case Gas:
		return "gas"
	case Liquid:
		return "liquid"
	case Vapour:
		return "vapour"
	case TwoPhase:
		return "two-phase"
	case Supercritical:
		return "supercritical"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// State is a fully resolved thermodynamic state. X is meaningful only
// when Phase is TwoPhase.
type State struct {
	P, T, H, S, X float64
	Phase         Phase
}

// Provider is the property lookup consumed by the cycle solvers.
// Implementations must be free of side effects and safe for concurrent use.
type Provider interface {
	Property(out Symbol, in1 Symbol, v1 float64, in2 Symbol, v2 float64, fluid string) (float64, error)
}

// Fluid is a single equation-of-state model.
type Fluid interface {
	Name() string
	State(in1 Symbol, v1 float64, in2 Symbol, v2 float64) (State, error)
}

// Library dispatches lookups to registered fluids by case-insensitive name.
// Register all fluids before the first lookup; Property is read-only after that.
type Library struct {
	fluids map[string]Fluid
}

func NewLibrary(fluids ...Fluid) *Library {
	l := &Library{fluids: make(map[string]Fluid, len(fluids))}
	for _, f := range fluids {
		l.Register(f)
	}
	return l
}

// Default returns a library with "air" and "water".
func Default() *Library {
	return NewLibrary(Air{}, Water{})
}

func (l *Library) Register(f Fluid) {
	l.fluids[strings.ToLower(f.Name())] = f
}

func (l *Library) Lookup(name string) (Fluid, error) {
	f, ok := l.fluids[strings.ToLower(name)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownFluid, "`%s`", name)
	}
	return f, nil
}

// State resolves the full state of a fluid from two inputs.
func (l *Library) State(in1 Symbol, v1 float64, in2 Symbol, v2 float64, fluid string) (State, error) {
	f, err := l.Lookup(fluid)
	if err != nil {
		return State{}, err
	}
	st, err := f.State(in1, v1, in2, v2)
	if err != nil {
		return State{}, errors.WithMessagef(err, "%s(%s=%g, %s=%g)", f.Name(), in1, v1, in2, v2)
	}
	return st, nil
}

func (l *Library) Property(out Symbol, in1 Symbol, v1 float64, in2 Symbol, v2 float64, fluid string) (float64, error) {
	st, err := l.State(in1, v1, in2, v2, fluid)
	if err != nil {
		return 0, err
	}
	switch out {
	case P:
		return st.P, nil
	case T:
		return st.T, nil
	case H:
		return st.H, nil
	case S:
		return st.S, nil
	case Q:
		switch st.Phase {
		case TwoPhase:
			return st.X, nil
		case Liquid, Vapour:
			return 0, errors.Wrapf(ErrSinglePhase, "%s state of %s at P=%g, T=%g", st.Phase, fluid, st.P, st.T)
		default:
			return 0, errors.Wrapf(ErrOutOfDomain, "no two-phase region for %s state of %s at P=%g, T=%g",
				st.Phase, fluid, st.P, st.T)
		}
	}
	return 0, errors.Wrapf(ErrUnsupportedInputs, "output %s", out)
}

// normalize orders an input pair so pressure comes first and temperature
// precedes quality.
func normalize(in1 Symbol, v1 float64, in2 Symbol, v2 float64) (Symbol, float64, Symbol, float64, error) {
	if in1 == in2 {
		return in1, v1, in2, v2, errors.Wrapf(ErrUnsupportedInputs, "%s twice", in1)
	}
	if in2 == P || (in2 == T && in1 == Q) {
		in1, v1, in2, v2 = in2, v2, in1, v1
	}
	return in1, v1, in2, v2, nil
}
