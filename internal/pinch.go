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
	"gonum.org/v1/gonum/interp"

	"github.com/antst/ccgtsim/internal/config"
	"github.com/antst/ccgtsim/internal/fluid"
	mdl "github.com/antst/ccgtsim/internal/thermo_model"
)

const pinchComponent = "pinch"

type PinchLocation string

const (
	PinchHotEnd       PinchLocation = "hot end"
	PinchBoilingOnset PinchLocation = "boiling onset"
	PinchColdEnd      PinchLocation = "cold end"
)

// ProfilePoint is one sample of the exchanger T-X diagram. X is the
// fraction of the duty transferred, counted from the steam inlet.
type ProfilePoint struct {
	X      float64 `json:"X"`
	TGas   float64 `json:"T_gas"`
	TSteam float64 `json:"T_steam"`
}

type Pinch struct {
	HotEnd  float64 `json:"dT_hot_end"`  // K, T8 - T3
	ColdEnd float64 `json:"dT_cold_end"` // K, T9 - T2
	// Boiling onset candidate, only meaningful when BoilingInside.
	BoilingOnset  float64 `json:"dT_boiling_onset"`
	BoilingX      float64 `json:"X_boiling"`
	BoilingInside bool    `json:"boiling_inside"`
	TSat          float64 `json:"T_sat"`

	DT       float64        `json:"dT"`
	Location PinchLocation  `json:"location"`
	Profile  []ProfilePoint `json:"profile"`
}

type PinchAnalyzer struct {
	cfg   *config.HRSGConfig
	cycle *config.CycleConfig
	props fluid.Provider
}

func newPinchAnalyzer(_cfg *config.HRSGConfig, _cycle *config.CycleConfig, _props fluid.Provider) *PinchAnalyzer {
	return &PinchAnalyzer{cfg: _cfg, cycle: _cycle, props: _props}
}

// Analyze compares the hot end approach with the approach at the onset of
// boiling, where the flat steam temperature meets the still falling gas
// temperature. The onset only counts when boiling starts inside the
// exchanger. The cold end approach caps the result afterwards, so it never
// exceeds either terminal approach. A non-positive pinch is infeasible.
func (pa *PinchAnalyzer) Analyze(set *mdl.Set) (*Pinch, error) {
	p2, p3, p8, p9 := set.At(mdl.P2), set.At(mdl.P3), set.At(mdl.P8), set.At(mdl.P9)

	pi := &Pinch{
		HotEnd:   p8.T - p3.T,
		ColdEnd:  p9.T - p2.T,
		DT:       p8.T - p3.T,
		Location: PinchHotEnd,
	}

	profile, err := pa.profile(p2, p3, p8, p9)
	if err != nil {
		return nil, err
	}
	pi.Profile = profile

	onset, ok, err := pa.boilingOnset(p2, p3)
	if err != nil {
		return nil, err
	}
	if ok {
		var gas interp.PiecewiseLinear
		xs, ts := make([]float64, len(profile)), make([]float64, len(profile))
		for i, s := range profile {
			xs[i], ts[i] = s.X, s.TGas
		}
		if err := gas.Fit(xs, ts); err != nil {
			return nil, errors.Wrap(err, "pinch: fitting gas profile")
		}
		pi.BoilingInside = true
		pi.BoilingX = onset.x
		pi.TSat = onset.tSat
		pi.BoilingOnset = gas.Predict(onset.x) - onset.tSat
		if pi.BoilingOnset < pi.DT {
			pi.DT, pi.Location = pi.BoilingOnset, PinchBoilingOnset
		}
	}
	if pi.ColdEnd < pi.DT {
		pi.DT, pi.Location = pi.ColdEnd, PinchColdEnd
	}
	if pi.DT <= 0 {
		return nil, infeasible(pinchComponent, pi.Location.point(),
			"temperature profiles cross at the %s: pinch %.4g K", pi.Location, pi.DT)
	}
	return pi, nil
}

// point is the state label at the pinch location, empty inside the exchanger.
func (l PinchLocation) point() string {
	switch l {
	case PinchHotEnd:
		return mdl.P3.String()
	case PinchColdEnd:
		return mdl.P9.String()
	}
	return ""
}

type onsetPoint struct {
	x, tSat float64
}

// boilingOnset locates the saturated liquid enthalpy on the steam axis.
// It reports false at supercritical pressure or when the onset is outside
// the open interval (0, 1).
func (pa *PinchAnalyzer) boilingOnset(p2, p3 *mdl.Point) (onsetPoint, bool, error) {
	dh := p3.H - p2.H
	if dh <= 0 {
		return onsetPoint{}, false, nil
	}
	steam := pa.cycle.SteamFluid
	hf, err := pa.props.Property(fluid.H, fluid.P, p3.P, fluid.Q, 0, steam)
	if errors.Is(err, fluid.ErrOutOfDomain) {
		return onsetPoint{}, false, nil
	}
	if err != nil {
		return onsetPoint{}, false, invalidInput(pinchComponent, p3.Label.String(), err, "%s saturated liquid at P=%g", steam, p3.P)
	}
	tSat, err := pa.props.Property(fluid.T, fluid.P, p3.P, fluid.Q, 0, steam)
	if err != nil {
		return onsetPoint{}, false, invalidInput(pinchComponent, p3.Label.String(), err, "%s saturation temperature at P=%g", steam, p3.P)
	}
	x := (hf - p2.H) / dh
	if !(x > 0 && x < 1) {
		return onsetPoint{}, false, nil
	}
	return onsetPoint{x: x, tSat: tSat}, true, nil
}

// profile samples both streams at evenly spaced duty fractions. The gas
// runs counter to the steam, so X = 0 is the gas outlet.
func (pa *PinchAnalyzer) profile(p2, p3, p8, p9 *mdl.Point) ([]ProfilePoint, error) {
	n := pa.cfg.ProfileSamples
	out := make([]ProfilePoint, n)
	for i := range out {
		x := float64(i) / float64(n-1)
		hs := p2.H + x*(p3.H-p2.H)
		hg := p9.H + x*(p8.H-p9.H)

		ts, err := pa.props.Property(fluid.T, fluid.P, p3.P, fluid.H, hs, pa.cycle.SteamFluid)
		if err != nil {
			return nil, invalidInput(pinchComponent, p3.Label.String(), err, "steam profile at X=%.3f", x)
		}
		tg, err := pa.props.Property(fluid.T, fluid.P, p8.P, fluid.H, hg, pa.cycle.GasFluid)
		if err != nil {
			return nil, invalidInput(pinchComponent, p9.Label.String(), err, "gas profile at X=%.3f", x)
		}
		out[i] = ProfilePoint{X: x, TGas: tg, TSteam: ts}
	}
	return out, nil
}
