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
	waterTCrit = 647.096

	region3RhoStar = 322.0 // kg/m3
	region3RhoMin  = 20.0
	region3RhoMax  = 1000.0
	region3RhoStep = 10.0
)

// Region 3 Helmholtz energy, IAPWS-IF97 table 30. The first term, n1 ln(delta),
// is kept apart.
const region3N1 = 0.10658070028513e1

var region3Coeffs = [...]ijn{
	{0, 0, -0.15732845290239e2}, {0, 1, 0.20944396974307e2}, {0, 2, -0.76867707878716e1},
	{0, 7, 0.26185947787954e1}, {0, 10, -0.28080781148620e1}, {0, 12, 0.12053369696517e1},
	{0, 23, -0.84566812812502e-2}, {1, 2, -0.12654315477714e1}, {1, 6, -0.11524407806681e1},
	{1, 15, 0.88521043984318}, {1, 17, -0.64207765181607}, {2, 0, 0.38493460186671},
	{2, 2, -0.85214708824206}, {2, 6, 0.48972281541877e1}, {2, 7, -0.30502617256965e1},
	{2, 22, 0.39420536879154e-1}, {2, 26, 0.12558408424308}, {3, 0, -0.27999329698710},
	{3, 2, 0.13899799569460e1}, {3, 4, -0.20189915023570e1}, {3, 16, -0.82147637173963e-2},
	{3, 26, -0.47596035734923}, {4, 0, 0.43984074473500e-1}, {4, 2, -0.44476435428739},
	{4, 4, 0.90572070719733}, {4, 26, 0.70522450087967}, {5, 1, 0.10770512626332},
	{5, 3, -0.32913623258954}, {5, 26, -0.50871062041158}, {6, 0, -0.22175400873096e-1},
	{6, 2, 0.94260751665092e-1}, {6, 26, 0.16436278447961}, {7, 2, -0.13503372241348e-1},
	{8, 26, -0.14834345352472e-1}, {9, 2, 0.57922953628084e-3}, {9, 26, 0.32308904703711e-2},
	{10, 0, 0.80964802996215e-4}, {10, 1, -0.16557679795037e-3}, {11, 26, -0.44923899061815e-4},
}

// phi3 is the reduced Helmholtz energy with its delta (d) and tau (t) derivatives.
type phi3 struct {
	f, d, dd, t, tt, dt float64
}

func region3Phi(delta, tau float64) phi3 {
	ph := phi3{
		f:  region3N1 * math.Log(delta),
		d:  region3N1 / delta,
		dd: -region3N1 / (delta * delta),
	}
	for _, c := range region3Coeffs {
		di, tj := math.Pow(delta, c.i), math.Pow(tau, c.j)
		ph.f += c.n * di * tj
		if c.i != 0 {
			ph.d += c.n * c.i * math.Pow(delta, c.i-1) * tj
			ph.dd += c.n * c.i * (c.i - 1) * math.Pow(delta, c.i-2) * tj
		}
		if c.j != 0 {
			ph.t += c.n * c.j * di * math.Pow(tau, c.j-1)
			ph.tt += c.n * c.j * (c.j - 1) * di * math.Pow(tau, c.j-2)
		}
		if c.i != 0 && c.j != 0 {
			ph.dt += c.n * c.i * c.j * math.Pow(delta, c.i-1) * math.Pow(tau, c.j-1)
		}
	}
	return ph
}

// region3Pressure returns p(rho, t) and dp/drho at constant t.
func region3Pressure(rho, t float64) (float64, float64) {
	delta, tau := rho/region3RhoStar, waterTCrit/t
	d := region3N1 / delta
	dd := -region3N1 / (delta * delta)
	for _, c := range region3Coeffs {
		if c.i == 0 {
			continue
		}
		tj := math.Pow(tau, c.j)
		d += c.n * c.i * math.Pow(delta, c.i-1) * tj
		dd += c.n * c.i * (c.i - 1) * math.Pow(delta, c.i-2) * tj
	}
	rt := waterGasConstant * t
	return rho * rt * delta * d, rt * (2*delta*d + delta*delta*dd)
}

func region3(rho, t float64) hsc {
	delta, tau := rho/region3RhoStar, waterTCrit/t
	ph := region3Phi(delta, tau)
	cv := -waterGasConstant * tau * tau * ph.tt
	num := delta*ph.d - delta*tau*ph.dt
	return hsc{
		h:  waterGasConstant * t * (tau*ph.t + delta*ph.d),
		s:  waterGasConstant * (tau*ph.t - ph.f),
		cp: cv + waterGasConstant*num*num/(2*delta*ph.d+delta*delta*ph.dd),
	}
}

// region3Liquid reports whether (p, t) lies on the liquid-like side of
// region 3: below saturation, or below the critical temperature when
// the pressure is supercritical.
func region3Liquid(p, t float64) bool {
	if p > waterPCrit {
		return t < waterTCrit
	}
	return t < saturationTemperature(p)
}

// region3Density finds the stable density at (p, t). The liquid root is
// approached from the dense side and the vapour root from the dilute side,
// so the van der Waals loop between them is never entered.
func region3Density(p, t float64, liquid bool) (float64, error) {
	lo, hi, found := region3RhoMin, region3RhoMax, false
	if liquid {
		for rho := hi - region3RhoStep; rho >= region3RhoMin; rho -= region3RhoStep {
			v, dv := region3Pressure(rho, t)
			if dv <= 0 {
				break
			}
			if v <= p {
				lo, found = rho, true
				break
			}
			hi = rho
		}
	} else {
		for rho := lo + region3RhoStep; rho <= region3RhoMax; rho += region3RhoStep {
			v, dv := region3Pressure(rho, t)
			if dv <= 0 {
				break
			}
			if v >= p {
				hi, found = rho, true
				break
			}
			lo = rho
		}
	}
	if !found {
		return 0, errors.Wrapf(ErrOutOfDomain, "water: no stable region 3 density at P=%g, T=%g", p, t)
	}
	return invert(func(rho float64) (float64, float64) { return region3Pressure(rho, t) }, p, lo, hi)
}

func region3At(p, t float64, liquid bool) (hsc, error) {
	rho, err := region3Density(p, t, liquid)
	if err != nil {
		return hsc{}, err
	}
	return region3(rho, t), nil
}

// saturationEdges returns the saturated liquid and vapour at (p, t).
func saturationEdges(p, t float64) (hsc, hsc, error) {
	if p <= waterP13 {
		return region1(p, t), region2(p, t), nil
	}
	liq, err := region3At(p, t, true)
	if err != nil {
		return hsc{}, hsc{}, err
	}
	vap, err := region3At(p, t, false)
	if err != nil {
		return hsc{}, hsc{}, err
	}
	return liq, vap, nil
}

// region3FromPX inverts region 3 between the region 1 boundary and B23.
// Targets falling in the small mismatch at either boundary snap to it.
func (w Water) region3FromPX(p, target, t23 float64, prop func(hsc) float64, deriv func(hsc, float64) float64) (State, error) {
	var failed error
	solve := func(lo, hi float64, liquid func(t float64) bool) (State, error) {
		f := func(t float64) (float64, float64) {
			r, err := region3At(p, t, liquid(t))
			if err != nil {
				if failed == nil {
					failed = err
				}
				return math.NaN(), math.NaN()
			}
			return prop(r), deriv(r, t)
		}

		var t float64
		var err error
		flo, _ := f(lo)
		fhi, _ := f(hi)
		switch {
		case failed != nil:
		case target <= flo:
			t = lo
		case target >= fhi:
			t = hi
		default:
			t, err = invert(f, target, lo, hi)
		}
		if failed != nil {
			return State{}, errors.WithMessagef(failed, "water: P=%g in region 3", p)
		}
		if err != nil {
			return State{}, errors.WithMessage(err, "water: region 3")
		}
		l := liquid(t)
		r, err := region3At(p, t, l)
		if err != nil {
			return State{}, err
		}
		return State{P: p, T: t, H: r.h, S: r.s, Phase: singlePhase(p, l)}, nil
	}

	if p > waterPCrit {
		return solve(waterT13, t23, func(t float64) bool { return t < waterTCrit })
	}

	ts := saturationTemperature(p)
	liq, vap, err := saturationEdges(p, ts)
	if err != nil {
		return State{}, err
	}
	switch {
	case target < prop(liq):
		return solve(waterT13, ts, func(float64) bool { return true })
	case target <= prop(vap):
		return w.saturated(p, ts, (target-prop(liq))/(prop(vap)-prop(liq)))
	}
	return solve(ts, t23, func(float64) bool { return false })
}
