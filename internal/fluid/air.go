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

package fluid

import (
	"math"

	"github.com/pkg/errors"
)

const (
	universalGasConstant = 8314.462618 // J/(kmol K)
	airMolarMass         = 28.97       // kg/kmol
	airGasConstant       = universalGasConstant / airMolarMass

	airTRef = 298.15   // K, h = 0 and s = 0 here
	airPRef = 101325.0 // Pa
	airTMin = 200.0
	airTMax = 2200.0
)

// molar cp(T) = a + bT + cT^2 + dT^3 in kJ/(kmol K), 273..1800 K, within 0.72%
var airCp = [4]float64{28.11, 0.1967e-2, 0.4802e-5, -1.966e-9}

// Air is dry air as an ideal gas with temperature dependent heat capacity.
type Air struct{}

func (Air) Name() string { return "air" }

func airCpMass(t float64) float64 {
	return (airCp[0] + t*(airCp[1]+t*(airCp[2]+t*airCp[3]))) * 1e3 / airMolarMass
}

func airEnthalpyIntegral(t float64) float64 {
	return t * (airCp[0] + t*(airCp[1]/2+t*(airCp[2]/3+t*airCp[3]/4)))
}

func airEntropyIntegral(t float64) float64 {
	return airCp[0]*math.Log(t) + t*(airCp[1]+t*(airCp[2]/2+t*airCp[3]/3))
}

func airEnthalpy(t float64) float64 {
	return (airEnthalpyIntegral(t) - airEnthalpyIntegral(airTRef)) * 1e3 / airMolarMass
}

// airEntropy0 is the entropy at the reference pressure.
func airEntropy0(t float64) float64 {
	return (airEntropyIntegral(t) - airEntropyIntegral(airTRef)) * 1e3 / airMolarMass
}

func airPressureTerm(p float64) float64 {
	return airGasConstant * math.Log(p/airPRef)
}

func (a Air) State(in1 Symbol, v1 float64, in2 Symbol, v2 float64) (State, error) {
	in1, v1, in2, v2, err := normalize(in1, v1, in2, v2)
	if err != nil {
		return State{}, err
	}
	if in1 != P {
		return State{}, errors.Wrapf(ErrUnsupportedInputs, "air needs pressure, got %s, %s", in1, in2)
	}
	p := v1
	if !(p > 0) {
		return State{}, errors.Wrapf(ErrOutOfDomain, "air: non-positive pressure %g", p)
	}

	var t float64
	switch in2 {
	case T:
		t = v2
		if !(t >= airTMin && t <= airTMax) {
			return State{}, errors.Wrapf(ErrOutOfDomain, "air: T=%g outside [%g, %g]", t, airTMin, airTMax)
		}
	case H:
		t, err = invert(func(t float64) (float64, float64) {
			return airEnthalpy(t), airCpMass(t)
		}, v2, airTMin, airTMax)
	case S:
		target := v2 + airPressureTerm(p)
		t, err = invert(func(t float64) (float64, float64) {
			return airEntropy0(t), airCpMass(t) / t
		}, target, airTMin, airTMax)
	case Q:
		return State{}, errors.Wrap(ErrOutOfDomain, "air: no two-phase region")
	default:
		return State{}, errors.Wrapf(ErrUnsupportedInputs, "air: P with %s", in2)
	}
	if err != nil {
		return State{}, errors.WithMessagef(err, "air: inverting %s=%g at P=%g", in2, v2, p)
	}

	return State{
		P:     p,
		T:     t,
		H:     airEnthalpy(t),
		S:     airEntropy0(t) - airPressureTerm(p),
		Phase: Gas,
	}, nil
}
