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

func TestLMTD(t *testing.T) {
	v, err := LMTD(60, 20)
	require.NoError(t, err)
	assert.InDelta(t, 40/math.Log(3), v, 1e-12)

	v, err = LMTD(20, 60)
	require.NoError(t, err)
	assert.InDelta(t, 40/math.Log(3), v, 1e-12)

	v, err = LMTD(30, 30)
	require.NoError(t, err)
	assert.Equal(t, 30.0, v)

	for _, c := range [][2]float64{{0, 10}, {10, -1}, {math.NaN(), 5}} {
		_, err = LMTD(c[0], c[1])
		assert.Error(t, err, "approaches %v", c)
	}
}

func limitSet(t1, p1, p3, t3, x4, t7 float64) *mdl.Set {
	var set mdl.Set
	set.Put(mdl.Point{Label: mdl.P1, P: p1, T: t1})
	set.Put(mdl.Point{Label: mdl.P3, P: p3, T: t3})
	set.Put(mdl.Point{Label: mdl.P4, P: p1, X: &x4})
	set.Put(mdl.Point{Label: mdl.P7, T: t7})
	return &set
}

func TestSafetyChecker(t *testing.T) {
	limits := config.DefaultLimits()
	sc := newSafetyChecker(&limits)

	assert.Empty(t, sc.Check(limitSet(300, 5000, 8e6, 800, 0.92, 1600)))

	vs := sc.Check(limitSet(300, 500, 20e6, 950, 0.80, 1800))
	var kinds []ViolationKind
	for _, v := range vs {
		kinds = append(kinds, v.Kind)
	}
	assert.Equal(t, []ViolationKind{
		GasTurbineOvertemperature,
		SteamTurbineOvertemperature,
		ErosionRisk,
		SupercriticalRisk,
		FreezingRisk,
	}, kinds)
	assert.Equal(t, mdl.P7, vs[0].Point)
	assert.Equal(t, 1800.0, vs[0].Value)
	assert.Equal(t, limits.MaxGasTurbineInletT, vs[0].Limit)
	assert.Contains(t, vs[2].String(), "erosion risk at point 4")

	t.Run("superheated exhaust", func(t *testing.T) {
		set := limitSet(300, 5000, 8e6, 800, 0, 1600)
		set.At(mdl.P4).X = nil
		assert.Empty(t, sc.Check(set))
	})
}

func TestPinchAnalyzer(t *testing.T) {
	c := config.DefaultCase()
	res := mustSolve(t, c)
	pa := newPinchAnalyzer(&c.HRSG, &c.Cycle, fluid.Default())

	t.Run("boiling onset", func(t *testing.T) {
		set := res.set
		pi, err := pa.Analyze(&set)
		require.NoError(t, err)
		require.True(t, pi.BoilingInside)
		assert.Greater(t, pi.BoilingX, 0.0)
		assert.Less(t, pi.BoilingX, 1.0)
		assert.Less(t, pi.TSat, set.At(mdl.P3).T)
		assert.Greater(t, pi.TSat, set.At(mdl.P2).T)
		assert.Equal(t, PinchBoilingOnset, pi.Location)
		assert.Equal(t, pi.BoilingOnset, pi.DT)

		first, last := pi.Profile[0], pi.Profile[len(pi.Profile)-1]
		assert.InDelta(t, set.At(mdl.P9).T, first.TGas, 1e-3)
		assert.InDelta(t, set.At(mdl.P2).T, first.TSteam, 1e-3)
		assert.InDelta(t, set.At(mdl.P8).T, last.TGas, 1e-3)
		assert.InDelta(t, set.At(mdl.P3).T, last.TSteam, 1e-3)
		for _, s := range pi.Profile {
			assert.Greater(t, s.TGas, s.TSteam, "X=%.3f", s.X)
		}
	})

	t.Run("cold end guard", func(t *testing.T) {
		set := res.set
		set.At(mdl.P9).T = set.At(mdl.P2).T + 1
		pi, err := pa.Analyze(&set)
		require.NoError(t, err)
		assert.Equal(t, PinchColdEnd, pi.Location)
		assert.InDelta(t, 1, pi.DT, 1e-9)
	})

	t.Run("supercritical steam", func(t *testing.T) {
		set := res.set
		set.At(mdl.P3).P = 25e6
		onset, ok, err := pa.boilingOnset(set.At(mdl.P2), set.At(mdl.P3))
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Zero(t, onset)
	})
}

// narrowSteam rejects steam enthalpies above hMax as outside the domain.
type narrowSteam struct {
	fluid.Provider
	hMax float64
}

func (n narrowSteam) Property(out fluid.Symbol, in1 fluid.Symbol, v1 float64, in2 fluid.Symbol, v2 float64, name string) (float64, error) {
	if name == "water" && in2 == fluid.H && v2 > n.hMax {
		return 0, errors.Wrapf(fluid.ErrOutOfDomain, "h=%g", v2)
	}
	return n.Provider.Property(out, in1, v1, in2, v2, name)
}

func TestHRSGCouplerErrors(t *testing.T) {
	c := config.DefaultCase()
	res := mustSolve(t, c)

	t.Run("initial guess outside the domain", func(t *testing.T) {
		set := res.set
		hc := newHRSGCoupler(&c.HRSG, &c.Cycle, narrowSteam{Provider: fluid.Default(), hMax: 1e6})
		_, err := hc.Solve(&set)
		var se *SolveError
		require.True(t, errors.As(err, &se), "%v", err)
		assert.Equal(t, KindInvalidInput, se.Kind)
		assert.Equal(t, hrsgComponent, se.Component)
		assert.True(t, errors.Is(err, fluid.ErrOutOfDomain))
	})

	t.Run("missing inlets", func(t *testing.T) {
		var set mdl.Set
		hc := newHRSGCoupler(&c.HRSG, &c.Cycle, fluid.Default())
		_, err := hc.Solve(&set)
		assert.Equal(t, KindInvalidInput, KindOf(err))
	})
}

func TestSolveErrorFormat(t *testing.T) {
	cause := errors.New("boom")
	err := error(invalidInput(braytonComponent, "7", cause, "T=%g", 3000.0))
	assert.Equal(t, "brayton leg: invalid input at point 7: T=3000: boom", err.Error())
	assert.True(t, errors.Is(err, cause))

	wrapped := errors.WithMessage(&SolveError{
		Kind:      KindNonConvergence,
		Component: hrsgComponent,
		Residuals: []float64{1, 2, 3},
	}, "case `x`")
	assert.Equal(t, KindNonConvergence, KindOf(wrapped))
	assert.Contains(t, wrapped.Error(), "residuals")

	assert.Equal(t, ErrorKind(0), KindOf(cause))
	assert.Equal(t, "infeasible", KindInfeasible.String())
	assert.Equal(t, "ErrorKind(9)", ErrorKind(9).String())
}
