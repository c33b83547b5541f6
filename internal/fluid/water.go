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

// IAPWS-IF97 constants
const (
	waterGasConstant = 461.526 // J/(kg K)

	waterTMin    = 273.15
	waterTMax    = 1073.15
	waterT13     = 623.15 // region 1/3 boundary
	waterPMax    = 100e6
	waterPCrit   = 22.064e6
	waterPTriple = 611.657

	region1PStar = 16.53e6
	region1TStar = 1386.0
	region2PStar = 1e6
	region2TStar = 540.0
)

type ijn struct {
	i, j, n float64
}

var region1Coeffs = [...]ijn{
	{0, -2, 0.14632971213167}, {0, -1, -0.84548187169114}, {0, 0, -0.37563603672040e1},
	{0, 1, 0.33855169168385e1}, {0, 2, -0.95791963387872}, {0, 3, 0.15772038513228},
	{0, 4, -0.16616417199501e-1}, {0, 5, 0.81214629983568e-3}, {1, -9, 0.28319080123804e-3},
	{1, -7, -0.60706301565874e-3}, {1, -1, -0.18990068218419e-1}, {1, 0, -0.32529748770505e-1},
	{1, 1, -0.21841717175414e-1}, {1, 3, -0.52838357969930e-4}, {2, -3, -0.47184321073267e-3},
	{2, 0, -0.30001780793026e-3}, {2, 1, 0.47661393906987e-4}, {2, 3, -0.44141845330846e-5},
	{2, 17, -0.72694996297594e-15}, {3, -4, -0.31679644845054e-4}, {3, 0, -0.28270797985312e-5},
	{3, 6, -0.85205128120103e-9}, {4, -5, -0.22425281908000e-5}, {4, -2, -0.65171222895601e-6},
	{4, 10, -0.14341729937924e-12}, {5, -8, -0.40516996860117e-6}, {8, -11, -0.12734301741641e-8},
	{8, -6, -0.17424871230634e-9}, {21, -29, -0.68762131295531e-18}, {23, -31, 0.14478307828521e-19},
	{29, -38, 0.26335781662795e-22}, {30, -39, -0.11947622640071e-22}, {31, -40, 0.18228094581404e-23},
	{32, -41, -0.93537087292458e-25},
}

// ideal-gas part of region 2, i unused
var region2IdealCoeffs = [...]ijn{
	{0, 0, -0.96927686500217e1}, {0, 1, 0.10086655968018e2}, {0, -5, -0.56087911283020e-2},
	{0, -4, 0.71452738081455e-1}, {0, -3, -0.40710498223928}, {0, -2, 0.14240819171444e1},
	{0, -1, -0.43839511319450e1}, {0, 2, -0.28408632460772}, {0, 3, 0.21268463753307e-1},
}

var region2ResidualCoeffs = [...]ijn{
	{1, 0, -0.17731742473213e-2}, {1, 1, -0.17834862292358e-1}, {1, 2, -0.45996013696365e-1},
	{1, 3, -0.57581259083432e-1}, {1, 6, -0.50325278727930e-1}, {2, 1, -0.33032641670203e-4},
	{2, 2, -0.18948987516315e-3}, {2, 4, -0.39392777243355e-2}, {2, 7, -0.43797295650573e-1},
	{2, 36, -0.26674547914087e-4}, {3, 0, 0.20481737692309e-7}, {3, 1, 0.43870667284435e-6},
	{3, 3, -0.32277677238570e-4}, {3, 6, -0.15033924542148e-2}, {3, 35, -0.40668253562649e-1},
	{4, 1, -0.78847309559367e-9}, {4, 2, 0.12790717852285e-7}, {4, 3, 0.48225372718507e-6},
	{5, 7, 0.22922076337661e-5}, {6, 3, -0.16714766451061e-10}, {6, 16, -0.21171472321355e-2},
	{6, 35, -0.23895741934104e2}, {7, 0, -0.59059564324270e-17}, {7, 11, -0.12621808899101e-5},
	{7, 25, -0.38946842435739e-1}, {8, 8, 0.11256211360459e-10}, {8, 36, -0.82311340897998e1},
	{9, 13, 0.19809712802088e-7}, {10, 4, 0.10406965210174e-18}, {10, 10, -0.10234747095929e-12},
	{10, 14, -0.10018179379511e-8}, {16, 29, -0.80882908646985e-10}, {16, 50, 0.10693031879409},
	{18, 57, -0.33662250574171}, {20, 20, 0.89185845355421e-24}, {20, 35, 0.30629316876232e-12},
	{20, 48, -0.42002467698208e-5}, {21, 21, -0.59056029685639e-25}, {22, 53, 0.37826947613457e-5},
	{23, 39, -0.12768608934681e-14}, {24, 26, 0.73087610595061e-28}, {24, 40, 0.55414715350778e-16},
	{24, 58, -0.94369707241210e-6},
}

var region4Coeffs = [...]float64{
	0.11670521452767e4, -0.72421316703206e6, -0.17073846940092e2, 0.12020824702470e5,
	-0.32325550322333e7, 0.14915108613530e2, -0.48232657361591e4, 0.40511340542057e6,
	-0.23855557567849, 0.65017534844798e3,
}

var b23Coeffs = [...]float64{
	0.34805185628969e3, -0.11671859879975e1, 0.10192970039326e-2, 0.57254459862746e3, 0.13918839778870e2,
}

// hsc holds enthalpy, entropy and isobaric heat capacity, all per kg.
type hsc struct {
	h, s, cp float64
}

func region1(p, t float64) hsc {
	pi := p / region1PStar
	tau := region1TStar / t
	a := 7.1 - pi
	b := tau - 1.222

	var g, gt, gtt float64
	for _, c := range region1Coeffs {
		ai := math.Pow(a, c.i)
		g += c.n * ai * math.Pow(b, c.j)
		gt += c.n * ai * c.j * math.Pow(b, c.j-1)
		gtt += c.n * ai * c.j * (c.j - 1) * math.Pow(b, c.j-2)
	}
	return hsc{
		h:  waterGasConstant * t * tau * gt,
		s:  waterGasConstant * (tau*gt - g),
		cp: -waterGasConstant * tau * tau * gtt,
	}
}

func region2(p, t float64) hsc {
	pi := p / region2PStar
	tau := region2TStar / t

	g := math.Log(pi)
	var gt, gtt float64
	for _, c := range region2IdealCoeffs {
		g += c.n * math.Pow(tau, c.j)
		gt += c.n * c.j * math.Pow(tau, c.j-1)
		gtt += c.n * c.j * (c.j - 1) * math.Pow(tau, c.j-2)
	}

	b := tau - 0.5
	for _, c := range region2ResidualCoeffs {
		pii := math.Pow(pi, c.i)
		g += c.n * pii * math.Pow(b, c.j)
		gt += c.n * pii * c.j * math.Pow(b, c.j-1)
		gtt += c.n * pii * c.j * (c.j - 1) * math.Pow(b, c.j-2)
	}
	return hsc{
		h:  waterGasConstant * t * tau * gt,
		s:  waterGasConstant * (tau*gt - g),
		cp: -waterGasConstant * tau * tau * gtt,
	}
}

// saturationPressure is valid for 273.15 K <= t <= 647.096 K.
func saturationPressure(t float64) float64 {
	n := region4Coeffs
	theta := t + n[8]/(t-n[9])
	a := theta*theta + n[0]*theta + n[1]
	b := n[2]*theta*theta + n[3]*theta + n[4]
	c := n[5]*theta*theta + n[6]*theta + n[7]
	x := 2 * c / (-b + math.Sqrt(b*b-4*a*c))
	return x * x * x * x * 1e6
}

// saturationTemperature is valid for 611.213 Pa <= p <= 22.064 MPa.
func saturationTemperature(p float64) float64 {
	n := region4Coeffs
	beta := math.Pow(p/1e6, 0.25)
	e := beta*beta + n[2]*beta + n[5]
	f := n[0]*beta*beta + n[3]*beta + n[6]
	g := n[1]*beta*beta + n[4]*beta + n[7]
	d := 2 * g / (-f - math.Sqrt(f*f-4*e*g))
	return (n[9] + d - math.Sqrt((n[9]+d)*(n[9]+d)-4*(n[8]+n[9]*d))) / 2
}

func b23Pressure(t float64) float64 {
	n := b23Coeffs
	return (n[0] + n[1]*t + n[2]*t*t) * 1e6
}

func b23Temperature(p float64) float64 {
	n := b23Coeffs
	return n[3] + math.Sqrt((p/1e6-n[4])/n[2])
}

var waterP13 = saturationPressure(waterT13)

// Water is IAPWS-IF97 water and steam, regions 1 to 4. Region 5, above
// 1073.15 K, is outside the model's domain.
type Water struct{}

func (Water) Name() string { return "water" }

func (w Water) State(in1 Symbol, v1 float64, in2 Symbol, v2 float64) (State, error) {
	in1, v1, in2, v2, err := normalize(in1, v1, in2, v2)
	if err != nil {
		return State{}, err
	}

	if in1 == T && in2 == Q {
		if !(v1 >= waterTMin && v1 <= waterTCrit) {
			return State{}, errors.Wrapf(ErrOutOfDomain, "water: saturation T=%g outside [%g, %g]", v1, waterTMin, waterTCrit)
		}
		return w.saturated(saturationPressure(v1), v1, v2)
	}
	if in1 != P {
		return State{}, errors.Wrapf(ErrUnsupportedInputs, "water needs pressure or (T, Q), got %s, %s", in1, in2)
	}

	p := v1
	if !(p > 0 && p <= waterPMax) {
		return State{}, errors.Wrapf(ErrOutOfDomain, "water: P=%g outside (0, %g]", p, waterPMax)
	}

	switch in2 {
	case T:
		return w.fromPT(p, v2)
	case H:
		return w.fromPX(p, v2, func(r hsc) float64 { return r.h }, func(r hsc, _ float64) float64 { return r.cp })
	case S:
		return w.fromPX(p, v2, func(r hsc) float64 { return r.s }, func(r hsc, t float64) float64 { return r.cp / t })
	case Q:
		if p > waterPCrit {
			return State{}, errors.Wrapf(ErrOutOfDomain, "water: supercritical P=%g has no quality", p)
		}
		if p < waterPTriple {
			return State{}, errors.Wrapf(ErrOutOfDomain, "water: no saturation below triple point pressure, P=%g", p)
		}
		return w.saturated(p, saturationTemperature(p), v2)
	}
	return State{}, errors.Wrapf(ErrUnsupportedInputs, "water: P with %s", in2)
}

func singlePhase(p float64, liquid bool) Phase {
	switch {
	case p > waterPCrit:
		return Supercritical
	case liquid:
		return Liquid
	}
	return Vapour
}

func (w Water) fromPT(p, t float64) (State, error) {
	if !(t >= waterTMin && t <= waterTMax) {
		return State{}, errors.Wrapf(ErrOutOfDomain, "water: T=%g outside [%g, %g]", t, waterTMin, waterTMax)
	}

	if t <= waterT13 && p >= saturationPressure(t) {
		r := region1(p, t)
		return State{P: p, T: t, H: r.h, S: r.s, Phase: singlePhase(p, true)}, nil
	}
	if (t <= waterT13 && p < saturationPressure(t)) || (t > waterT13 && p <= b23Pressure(t)) {
		r := region2(p, t)
		return State{P: p, T: t, H: r.h, S: r.s, Phase: singlePhase(p, false)}, nil
	}

	liquid := region3Liquid(p, t)
	r, err := region3At(p, t, liquid)
	if err != nil {
		return State{}, errors.WithMessagef(err, "water: P=%g, T=%g in region 3", p, t)
	}
	return State{P: p, T: t, H: r.h, S: r.s, Phase: singlePhase(p, liquid)}, nil
}

// fromPX resolves a state from pressure and enthalpy or entropy, selected by prop.
func (w Water) fromPX(p, target float64, prop func(hsc) float64, deriv func(hsc, float64) float64) (State, error) {
	solve := func(region func(p, t float64) hsc, lo, hi float64) (float64, error) {
		return invert(func(t float64) (float64, float64) {
			r := region(p, t)
			return prop(r), deriv(r, t)
		}, target, lo, hi)
	}
	finish := func(region func(p, t float64) hsc, t float64, liquid bool) State {
		r := region(p, t)
		return State{P: p, T: t, H: r.h, S: r.s, Phase: singlePhase(p, liquid)}
	}

	switch {
	case p < waterPTriple:
		t, err := solve(region2, waterTMin, waterTMax)
		if err != nil {
			return State{}, errors.WithMessage(err, "water: vapour below triple point pressure")
		}
		return finish(region2, t, false), nil

	case p <= waterP13:
		ts := saturationTemperature(p)
		lo := math.Max(ts, waterTMin)
		liq := region1(p, lo)
		vap := region2(p, lo)
		switch {
		case target < prop(liq):
			t, err := solve(region1, waterTMin, lo)
			if err != nil {
				return State{}, errors.WithMessage(err, "water: compressed liquid")
			}
			return finish(region1, t, true), nil
		case target <= prop(vap):
			return w.saturated(p, ts, (target-prop(liq))/(prop(vap)-prop(liq)))
		default:
			t, err := solve(region2, lo, waterTMax)
			if err != nil {
				return State{}, errors.WithMessage(err, "water: superheated vapour")
			}
			return finish(region2, t, false), nil
		}

	default:
		t23 := b23Temperature(p)
		switch {
		case target <= prop(region1(p, waterT13)):
			t, err := solve(region1, waterTMin, waterT13)
			if err != nil {
				return State{}, errors.WithMessage(err, "water: compressed liquid")
			}
			return finish(region1, t, true), nil
		case t23 <= waterTMax && target >= prop(region2(p, t23)):
			t, err := solve(region2, t23, waterTMax)
			if err != nil {
				return State{}, errors.WithMessage(err, "water: high pressure vapour")
			}
			return finish(region2, t, false), nil
		}
		return w.region3FromPX(p, target, t23, prop, deriv)
	}
}

func (w Water) saturated(p, t, x float64) (State, error) {
	if !(x >= 0 && x <= 1) {
		return State{}, errors.Wrapf(ErrOutOfDomain, "water: quality %g outside [0, 1]", x)
	}
	liq, vap, err := saturationEdges(p, t)
	if err != nil {
		return State{}, errors.WithMessage(err, "water: saturation")
	}
	return State{
		P:     p,
		T:     t,
		H:     liq.h + x*(vap.h-liq.h),
		S:     liq.s + x*(vap.s-liq.s),
		X:     x,
		Phase: TwoPhase,
	}, nil
}
