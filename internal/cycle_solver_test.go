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
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antst/ccgtsim/internal/config"
	"github.com/antst/ccgtsim/internal/fluid"
	mdl "github.com/antst/ccgtsim/internal/thermo_model"
)

func solve(t *testing.T, c config.CaseConfig) (*Result, error) {
	t.Helper()
	s, err := NewCycleSolver(&c, fluid.Default())
	if err != nil {
		return nil, err
	}
	return s.Solve()
}

func mustSolve(t *testing.T, c config.CaseConfig) *Result {
	t.Helper()
	res, err := solve(t, c)
	require.NoError(t, err)
	return res
}

func TestDefaultCase(t *testing.T) {
	res := mustSolve(t, config.DefaultCase())
	b := res.Balance

	t.Run("all points", func(t *testing.T) {
		assert.Len(t, res.States, len(mdl.Order))
		for _, p := range res.States {
			assert.Equal(t, p.Label.Role(), p.Role)
		}
	})

	t.Run("hrsg residuals within tolerance", func(t *testing.T) {
		require.Len(t, res.HRSG.Residuals, 3)
		for _, r := range res.HRSG.Residuals {
			assert.Less(t, math.Abs(r), 1e-6)
		}
		assert.InDelta(t, res.HRSG.TSteamOut, res.Point(mdl.P3).T, 1e-5)
		assert.InDelta(t, res.HRSG.TGasOut, res.Point(mdl.P9).T, 1e-5)
		assert.InEpsilon(t, res.HRSG.Q, b.Q23, 1e-9)
		assert.InEpsilon(t, res.HRSG.Q, config.DefaultCycle().MDotGas*(res.Point(mdl.P8).H-res.Point(mdl.P9).H), 1e-9)
	})

	t.Run("non-crossing profiles", func(t *testing.T) {
		assert.Greater(t, res.HRSG.DTHot, 0.0)
		assert.Greater(t, res.HRSG.DTCold, 0.0)
		assert.Greater(t, res.HRSG.LMTD, 0.0)
	})

	t.Run("non-negative destruction", func(t *testing.T) {
		for name, v := range map[string]float64{
			"compressor":    b.CompressorLoss,
			"gas turbine":   b.GasTurbineLoss,
			"pump":          b.PumpLoss,
			"steam turbine": b.SteamTurbineLoss,
			"hrsg":          b.HRSGLoss,
		} {
			assert.GreaterOrEqual(t, v, 0.0, name)
		}
	})

	t.Run("efficiency ordering", func(t *testing.T) {
		assert.GreaterOrEqual(t, b.EtaThMax, b.EtaTh)
		assert.GreaterOrEqual(t, b.EtaEx, b.EtaTh)
		assert.Less(t, b.EtaGasTh, b.EtaTh)
		assert.Less(t, b.EtaTh, b.EtaThMax)
		assert.Less(t, b.EtaThMax, 1.0)
	})

	t.Run("few hundred MW", func(t *testing.T) {
		assert.Greater(t, b.WTotal, 100e6)
		assert.Less(t, b.WTotal, 1000e6)
		assert.Greater(t, b.WSteam, 0.0)
		assert.Greater(t, b.Q14, 0.0)
		assert.InEpsilon(t, config.DefaultCycle().Q67, b.Q67, 1e-9)
	})

	t.Run("exergy round trip", func(t *testing.T) {
		dead := config.DefaultDeadState()
		c := config.DefaultCycle()
		for _, p := range res.States {
			name := c.SteamFluid
			if p.Role == mdl.RoleGas {
				name = c.GasFluid
			}
			d, err := deadStateOf(fluid.Default(), name, &dead)
			require.NoError(t, err)
			assert.Equal(t, p.Ex, mdl.SpecificExergy(p.H, p.S, d), "point %s", p.Label)
		}
	})

	t.Run("balances close", func(t *testing.T) {
		sum := 0.0
		for _, s := range b.EnergyShares() {
			sum += s.Value
		}
		assert.InEpsilon(t, b.Q67, sum, 1e-9)

		sum = 0
		for _, s := range b.ExergyShares() {
			sum += s.Value
		}
		assert.InEpsilon(t, b.Ex67, sum, 1e-9)
	})

	t.Run("pinch below both ends", func(t *testing.T) {
		pi := res.Pinch
		assert.LessOrEqual(t, pi.DT, pi.HotEnd)
		assert.LessOrEqual(t, pi.DT, pi.ColdEnd)
		assert.Greater(t, pi.DT, 0.0)
		assert.InDelta(t, res.HRSG.DTHot, pi.HotEnd, 1e-9)
		assert.Len(t, pi.Profile, config.DefaultHRSG().ProfileSamples)
	})

	t.Run("two-phase turbine exhaust", func(t *testing.T) {
		x4, ok := res.Point(mdl.P4).Quality()
		require.True(t, ok)
		assert.Greater(t, x4, config.DefaultLimits().MinCondenserQuality)
		assert.Less(t, x4, 1.0)
		_, ok = res.Point(mdl.P3).Quality()
		assert.False(t, ok, "superheated turbine inlet")
		assert.Empty(t, res.Violations)
	})

	t.Run("ideal points", func(t *testing.T) {
		for _, l := range []mdl.Label{mdl.P2s, mdl.P4s, mdl.P6s, mdl.P8s} {
			ideal, actual := res.Point(l), res.Point(l.Real())
			assert.Equal(t, actual.P, ideal.P, "point %s", l)
		}
		assert.InDelta(t, res.Point(mdl.P5).S, res.Point(mdl.P6s).S, 1e-6)
		assert.InDelta(t, res.Point(mdl.P7).S, res.Point(mdl.P8s).S, 1e-6)
		assert.Greater(t, res.Point(mdl.P6).H, res.Point(mdl.P6s).H, "compression work exceeds the ideal")
		assert.Greater(t, res.Point(mdl.P8).H, res.Point(mdl.P8s).H, "expansion work falls short of the ideal")
	})

	t.Run("deterministic", func(t *testing.T) {
		again := mustSolve(t, config.DefaultCase())
		assert.Equal(t, res.States, again.States)
		assert.Equal(t, res.HRSG, again.HRSG)
	})

	assert.Contains(t, res.Summary(), "Overall thermal efficiency")
}

func TestVanishingExchanger(t *testing.T) {
	c := config.DefaultCase()
	c.HRSG.UA = 1
	res := mustSolve(t, c)

	assert.Less(t, math.Abs(res.HRSG.Q), 1e3)
	assert.InDelta(t, res.Point(mdl.P2).T, res.HRSG.TSteamOut, 1e-2)
	assert.InDelta(t, res.Point(mdl.P8).T, res.HRSG.TGasOut, 1e-2)
	assert.False(t, res.Pinch.BoilingInside)

	var last float64
	for _, ua := range []float64{1e4, 1e5, 1e6, 5.5e6} {
		c.HRSG.UA = ua
		q := mustSolve(t, c).HRSG.Q
		assert.Greater(t, q, last, "duty grows with UA, UA=%g", ua)
		last = q
	}
}

func TestErosionOnlyViolation(t *testing.T) {
	c := config.DefaultCase()
	c.Limits.MinCondenserQuality = 0.99
	res := mustSolve(t, c)

	require.Len(t, res.Violations, 1)
	v := res.Violations[0]
	assert.Equal(t, ErosionRisk, v.Kind)
	assert.Equal(t, mdl.P4, v.Point)
	x4, _ := res.Point(mdl.P4).Quality()
	assert.Equal(t, x4, v.Value)
	assert.Equal(t, 0.99, v.Limit)
}

func TestSolveErrors(t *testing.T) {
	t.Run("invalid configuration", func(t *testing.T) {
		c := config.DefaultCase()
		c.Cycle.NCGas = 0
		_, err := solve(t, c)
		assert.Equal(t, KindInvalidInput, KindOf(err))
	})

	t.Run("unknown fluid", func(t *testing.T) {
		c := config.DefaultCase()
		c.Cycle.GasFluid = "mercury"
		_, err := solve(t, c)
		assert.Equal(t, KindInvalidInput, KindOf(err))
		assert.True(t, errors.Is(err, fluid.ErrUnknownFluid))
	})

	t.Run("property outside domain", func(t *testing.T) {
		c := config.DefaultCase()
		c.Cycle.T5 = 3000
		_, err := solve(t, c)
		var se *SolveError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, KindInvalidInput, se.Kind)
		assert.Equal(t, braytonComponent, se.Component)
		assert.Equal(t, "5", se.Point)
		assert.True(t, errors.Is(err, fluid.ErrOutOfDomain))
	})

	t.Run("iteration budget", func(t *testing.T) {
		c := config.DefaultCase()
		c.HRSG.MaxIterations = 1
		_, err := solve(t, c)
		var se *SolveError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, KindNonConvergence, se.Kind)
		assert.Equal(t, hrsgComponent, se.Component)
		assert.Len(t, se.Residuals, 3)
	})

	t.Run("profiles cross inside the exchanger", func(t *testing.T) {
		c := config.DefaultCase()
		c.Cycle.MDotSteam = 180
		c.HRSG.UA = 2e7
		_, err := solve(t, c)
		var se *SolveError
		require.True(t, errors.As(err, &se), "%v", err)
		assert.Equal(t, KindInfeasible, se.Kind)
		assert.Equal(t, pinchComponent, se.Component)
		assert.Contains(t, se.Detail, string(PinchBoilingOnset))
	})

	t.Run("exhaust colder than feedwater", func(t *testing.T) {
		c := config.DefaultCase()
		c.Cycle.Q67 = 1
		c.Cycle.P1 = 1e6
		c.Cycle.T1 = 450
		c.Cycle.RPPump = 10
		_, err := solve(t, c)
		assert.Equal(t, KindInfeasible, KindOf(err), "%v", err)
	})
}

func TestHighPressureSteam(t *testing.T) {
	c := config.DefaultCase()
	c.Cycle.RPPump = 4200
	c.Limits.MinCondenserQuality = 0.5
	res := mustSolve(t, c)

	p3 := res.Point(mdl.P3).P
	require.Greater(t, p3, c.Limits.MaxHRSGPressure)
	require.Len(t, res.Violations, 1)
	v := res.Violations[0]
	assert.Equal(t, SupercriticalRisk, v.Kind)
	assert.Equal(t, mdl.P3, v.Point)
	assert.Equal(t, p3, v.Value)

	assert.True(t, res.Pinch.BoilingInside, "saturation is resolved above 16.53 MPa")
	assert.Greater(t, res.Pinch.DT, 0.0)
	assert.Len(t, res.States, len(mdl.Order))
}

func TestNegativeDestructionIsInfeasible(t *testing.T) {
	c := config.DefaultCase()
	s, err := NewCycleSolver(&c, fluid.Default())
	require.NoError(t, err)
	res, err := s.Solve()
	require.NoError(t, err)

	set := res.set
	set.At(mdl.P6).S = set.At(mdl.P5).S - 1
	_, err = s.Balance().Compute(&set)
	var se *SolveError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindInfeasible, se.Kind)
	assert.Equal(t, "6", se.Point)
}

func TestSpecificExergyAtState(t *testing.T) {
	c := config.DefaultCase()
	s, err := NewCycleSolver(&c, fluid.Default())
	require.NoError(t, err)

	ex, err := s.Balance().SpecificExergyAtState(c.DeadState.P0, c.DeadState.T0, "air")
	require.NoError(t, err)
	assert.InDelta(t, 0, ex, 1e-9)

	hot, err := s.Balance().SpecificExergyAtState(c.DeadState.P0, 900, "air")
	require.NoError(t, err)
	assert.Greater(t, hot, 0.0)

	_, err = s.Balance().SpecificExergyAtState(c.DeadState.P0, 300, "mercury")
	assert.Equal(t, KindInvalidInput, KindOf(err))
}
