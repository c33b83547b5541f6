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
	"math"

	"github.com/pkg/errors"

	"github.com/antst/ccgtsim/internal/config"
	"github.com/antst/ccgtsim/internal/fluid"
	"github.com/antst/ccgtsim/internal/logger"
	"github.com/antst/ccgtsim/internal/numeric"
	mdl "github.com/antst/ccgtsim/internal/thermo_model"
)

const (
	hrsgComponent = "hrsg"

	// duty is solved in MW so all unknowns are of order 1e2..1e3
	dutyScale = 1e6
	// Q below this is heat flowing the wrong way, not round-off
	minFeasibleDuty = -1.0 // W
	hotEndMargin    = 0.05
)

var errApproach = errors.New("non-positive approach temperature")

// HRSGResult is the solved coupling between the two legs.
type HRSGResult struct {
	Q         float64 `json:"Q"`           // W
	TSteamOut float64 `json:"T_steam_out"` // K, point 3
	TGasOut   float64 `json:"T_gas_out"`   // K, point 9
	DTHot     float64 `json:"dT_hot"`      // K, T8 - T3
	DTCold    float64 `json:"dT_cold"`     // K, T9 - T2
	LMTD      float64 `json:"lmtd"`        // K
	// Residuals of the exchanger relation in MW and of the gas and steam
	// balances in K.
	Residuals  []float64 `json:"residuals"`
	Iterations int       `json:"iterations"`
	H3         float64   `json:"h_3"` // J/kg
	H9         float64   `json:"h_9"` // J/kg
}

// LMTD is the log-mean of two approach temperatures. Nearly equal approaches
// fall back to the arithmetic mean.
func LMTD(a, b float64) (float64, error) {
	if !(a > 0 && b > 0) {
		return 0, errors.Wrapf(errApproach, "%g, %g", a, b)
	}
	if math.Abs(a-b) <= 1e-9*math.Max(a, b) {
		return 0.5 * (a + b), nil
	}
	return (a - b) / math.Log(a/b), nil
}

// HRSGCoupler finds the duty and both outlet temperatures that satisfy the
// exchanger relation and the energy balance of each stream.
type HRSGCoupler struct {
	cfg   *config.HRSGConfig
	cycle *config.CycleConfig
	props fluid.Provider
}

func newHRSGCoupler(_cfg *config.HRSGConfig, _cycle *config.CycleConfig, _props fluid.Provider) *HRSGCoupler {
	return &HRSGCoupler{cfg: _cfg, cycle: _cycle, props: _props}
}

// hrsgInlets are the two stream inlets the coupling starts from.
type hrsgInlets struct {
	pSteam, hSteam, tSteam float64 // point 2
	pGas, hGas, tGas       float64 // point 8
}

func inletsOf(set *mdl.Set) hrsgInlets {
	p2, p8 := set.At(mdl.P2), set.At(mdl.P8)
	return hrsgInlets{
		pSteam: p2.P, hSteam: p2.H, tSteam: p2.T,
		pGas: p8.P, hGas: p8.H, tGas: p8.T,
	}
}

func (c *HRSGCoupler) steamT(in *hrsgInlets, q float64) (float64, error) {
	return c.props.Property(fluid.T, fluid.P, in.pSteam, fluid.H, in.hSteam+q/c.cycle.MDotSteam, c.cycle.SteamFluid)
}

func (c *HRSGCoupler) gasT(in *hrsgInlets, q float64) (float64, error) {
	return c.props.Property(fluid.T, fluid.P, in.pGas, fluid.H, in.hGas-q/c.cycle.MDotGas, c.cycle.GasFluid)
}

// residuals evaluates x = (Q [MW], T3 [K], T9 [K]). The balances are
// written as temperature residuals through the (p, h) inverse so they stay
// continuous across the boiling plateau.
func (c *HRSGCoupler) residuals(in *hrsgInlets) numeric.Func {
	return func(dst, x []float64) error {
		q, t3, t9 := x[0]*dutyScale, x[1], x[2]

		lmtd, err := LMTD(in.tGas-t3, t9-in.tSteam)
		if err != nil {
			return err
		}
		dst[0] = (q - c.cfg.F*c.cfg.UA*lmtd) / dutyScale

		tg, err := c.gasT(in, q)
		if err != nil {
			return err
		}
		dst[1] = t9 - tg

		ts, err := c.steamT(in, q)
		if err != nil {
			return err
		}
		dst[2] = t3 - ts
		return nil
	}
}

// seed is the starting point of the iteration: a fraction of the largest
// duty the gas could give up cooling to the steam inlet temperature, a
// steam outlet a multiple of its inlet kept below the gas inlet and a gas
// outlet blended between both inlets.
func (c *HRSGCoupler) seed(in *hrsgInlets) ([]float64, error) {
	hMin, err := c.props.Property(fluid.H, fluid.P, in.pGas, fluid.T, in.tSteam, c.cycle.GasFluid)
	if err != nil {
		return nil, invalidInput(hrsgComponent, mdl.P9.String(), err, "gas enthalpy at the steam inlet temperature")
	}
	q0 := c.cfg.SeedDutyFrac * c.cycle.MDotGas * (in.hGas - hMin)
	t3 := math.Min(c.cfg.SeedSteamFactor*in.tSteam, in.tGas-hotEndMargin*(in.tGas-in.tSteam))
	t9 := (1-c.cfg.SeedGasBlend)*in.tSteam + c.cfg.SeedGasBlend*in.tGas
	return []float64{q0 / dutyScale, t3, t9}, nil
}

// Solve couples the legs once 2 and 8 are known.
func (c *HRSGCoupler) Solve(set *mdl.Set) (*HRSGResult, error) {
	if !set.Has(mdl.P2) || !set.Has(mdl.P8) {
		return nil, invalidInput(hrsgComponent, "", nil, "inlet states 2 and 8 are required")
	}
	in := inletsOf(set)
	if !(in.tGas > in.tSteam) {
		return nil, infeasible(hrsgComponent, mdl.P8.String(),
			"gas inlet %.2f K is not above steam inlet %.2f K", in.tGas, in.tSteam)
	}

	x0, err := c.seed(&in)
	if err != nil {
		return nil, err
	}
	logger.L().Debugf("hrsg: seed Q=%.2f MW, T3=%.2f K, T9=%.2f K", x0[0], x0[1], x0[2])

	res, err := numeric.Newton(c.residuals(&in), x0, numeric.Settings{
		Tolerance:     c.cfg.Tolerance,
		MaxIterations: c.cfg.MaxIterations,
		MaxBacktracks: c.cfg.MaxBacktracks,
	})
	if err != nil && res != nil && res.Iterations == 0 && errors.Is(err, fluid.ErrOutOfDomain) {
		return nil, invalidInput(hrsgComponent, "", err, "initial guess Q=%.2f MW, T3=%.2f K, T9=%.2f K", x0[0], x0[1], x0[2])
	}
	if err != nil {
		se := &SolveError{
			Kind:      KindNonConvergence,
			Component: hrsgComponent,
			Detail:    "coupling did not converge",
			Err:       err,
		}
		if res != nil {
			se.Residuals = append([]float64(nil), res.Residuals...)
		}
		return nil, se
	}

	q := res.X[0] * dutyScale
	out := &HRSGResult{
		Q:          q,
		TSteamOut:  res.X[1],
		TGasOut:    res.X[2],
		DTHot:      in.tGas - res.X[1],
		DTCold:     res.X[2] - in.tSteam,
		Residuals:  res.Residuals,
		Iterations: res.Iterations,
		H3:         in.hSteam + q/c.cycle.MDotSteam,
		H9:         in.hGas - q/c.cycle.MDotGas,
	}
	logger.L().Debugf("hrsg: converged in %d iterations (%d evaluations): Q=%.3f MW, T3=%.2f K, T9=%.2f K",
		res.Iterations, res.Evaluations, q/1e6, out.TSteamOut, out.TGasOut)

	if out.DTHot <= 0 || out.DTCold <= 0 {
		se := infeasible(hrsgComponent, "", "temperature profiles cross: dT_hot=%.4g K, dT_cold=%.4g K", out.DTHot, out.DTCold)
		se.Residuals = out.Residuals
		return nil, se
	}
	if q < minFeasibleDuty {
		se := infeasible(hrsgComponent, "", "heat flows from steam to gas: Q=%.4g W", q)
		se.Residuals = out.Residuals
		return nil, se
	}
	out.LMTD, _ = LMTD(out.DTHot, out.DTCold)

	return out, nil
}
